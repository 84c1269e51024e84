package core

import (
	"errors"
	"testing"
)

func TestDecodeMessages(t *testing.T) {
	data := []byte(`[
		{"id": "1", "platform": "telegram", "content": "Learn about machine learning", "timestamp": "2025-01-02 10:00"},
		{"id": "2", "platform": "gmail", "title": "No body"},
		{"id": "3", "content": 42},
		{"id": "4", "content": null},
		"not an object",
		{"content": "no id"},
		{"id": "7", "content": ""}
	]`)

	messages, errs := DecodeMessages(data)

	if len(messages) != 2 {
		t.Fatalf("DecodeMessages() returned %d messages, want 2", len(messages))
	}
	if messages[0].ID != "1" || messages[1].ID != "7" {
		t.Errorf("DecodeMessages() kept ids %q and %q, want 1 and 7", messages[0].ID, messages[1].ID)
	}
	if messages[0].Timestamp != "2025-01-02 10:00" {
		t.Errorf("timestamp was not passed through: %q", messages[0].Timestamp)
	}

	if len(errs) != 5 {
		t.Fatalf("DecodeMessages() returned %d errors, want 5", len(errs))
	}
	for _, err := range errs {
		if !errors.Is(err, ErrInvalidMessage) {
			t.Errorf("error %v does not wrap ErrInvalidMessage", err)
		}
	}
	for _, i := range []int{0, 1, 2} {
		if !errors.Is(errs[i], ErrMissingContent) {
			t.Errorf("error %d = %v, want ErrMissingContent", i, errs[i])
		}
	}
	if !errors.Is(errs[4], ErrMissingID) {
		t.Errorf("error 4 = %v, want ErrMissingID", errs[4])
	}
}

func TestDecodeMessages_NotArray(t *testing.T) {
	messages, errs := DecodeMessages([]byte(`{"id": "1"}`))
	if messages != nil {
		t.Errorf("DecodeMessages() = %v, want nil", messages)
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrNotArray) {
		t.Errorf("DecodeMessages() errors = %v, want single ErrNotArray", errs)
	}
}

func TestDecodeMessages_Empty(t *testing.T) {
	messages, errs := DecodeMessages([]byte(`[]`))
	if len(messages) != 0 || len(errs) != 0 {
		t.Errorf("DecodeMessages([]) = %v, %v; want empty", messages, errs)
	}
}
