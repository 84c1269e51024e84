// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"fmt"
	"unicode/utf8"
)

// ValidateMessage validates a Message according to domain rules.
//
// Validation rules:
//   - Message must not be nil
//   - ID must not be empty
//   - Content must be valid UTF-8
//
// NOT validated:
//   - Content emptiness (empty content scores zero)
//   - Platform, Title, Sender, Chat, Timestamp (passed through)
func ValidateMessage(msg *Message) error {
	if msg == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidMessage)
	}

	if msg.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrMissingID)
	}

	if !utf8.ValidString(msg.Content) {
		return fmt.Errorf("%w: %w (id %q)", ErrInvalidMessage, ErrInvalidContent, msg.ID)
	}

	return nil
}
