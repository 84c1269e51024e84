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

import "errors"

// Domain validation errors
var (
	// ErrInvalidMessage indicates a Message failed validation and was skipped.
	ErrInvalidMessage = errors.New("invalid message")

	// ErrMissingID indicates the message has no id.
	ErrMissingID = errors.New("message id cannot be empty")

	// ErrMissingContent indicates the decoded message had no string content field.
	ErrMissingContent = errors.New("message content field is missing or not a string")

	// ErrInvalidContent indicates the content is not valid UTF-8.
	ErrInvalidContent = errors.New("message content is not valid UTF-8")

	// ErrNotArray indicates the message payload is not a JSON array.
	ErrNotArray = errors.New("messages must be a JSON array")
)
