package core

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeMessages decodes a JSON array of message objects.
// Elements that are not objects, lack a string "content" field, or fail
// ValidateMessage are skipped; one error is returned per skipped element.
// A payload that is not an array yields no messages and a single error.
func DecodeMessages(data []byte) ([]*Message, []error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, []error{fmt.Errorf("%w: %w", ErrNotArray, err)}
	}

	messages := make([]*Message, 0, len(elements))
	var errs []error
	for i, element := range elements {
		msg, err := decodeMessage(element)
		if err != nil {
			errs = append(errs, fmt.Errorf("element %d: %w", i, err))
			continue
		}
		messages = append(messages, msg)
	}
	return messages, errs
}

func decodeMessage(element json.RawMessage) (*Message, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(element, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrInvalidMessage)
	}

	content, ok := fields["content"]
	if !ok || !isJSONString(content) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMessage, ErrMissingContent)
	}

	var msg Message
	if err := json.Unmarshal(element, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if err := ValidateMessage(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func isJSONString(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '"'
}
