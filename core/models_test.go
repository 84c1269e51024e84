package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "test content",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestMethod_Scorers(t *testing.T) {
	tests := []struct {
		method       Method
		wantKeyword  bool
		wantSemantic bool
	}{
		{MethodHybrid, true, true},
		{MethodSemantic, false, true},
		{MethodKeyword, true, false},
		{MethodKeywordOnly, true, false},
		{Method("bogus"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			if got := tt.method.UsesKeyword(); got != tt.wantKeyword {
				t.Errorf("UsesKeyword() = %v, want %v", got, tt.wantKeyword)
			}
			if got := tt.method.UsesSemantic(); got != tt.wantSemantic {
				t.Errorf("UsesSemantic() = %v, want %v", got, tt.wantSemantic)
			}
		})
	}
}
