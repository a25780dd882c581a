/* Copyright 2025 Knot Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package validate provides validation of user-supplied note data. It is
// enforced at the local store boundary, before a record can ever reach the
// merge engine.
package validate

import (
	"github.com/google/uuid"
	"github.com/knotapp/knot/pkg/cli/note"
	"github.com/pkg/errors"
)

const (
	// MaxTitleLen is the maximum number of characters in a note title
	MaxTitleLen = 100
	// MaxBodyLen is the maximum number of characters in a note body
	MaxBodyLen = 1000000
)

// ErrTitleTooLong is an error for a title that exceeds the length limit
var ErrTitleTooLong = errors.New("the title is too long")

// ErrBodyTooLong is an error for a body that exceeds the length limit
var ErrBodyTooLong = errors.New("the body is too long")

// ErrIDInvalid is an error for a malformed note id
var ErrIDInvalid = errors.New("the note id is not a valid uuid")

// ErrTimestampMissing is an error for a note without a last modified time
var ErrTimestampMissing = errors.New("the note has no last modified time")

// Title validates a note title
func Title(title string) error {
	if len([]rune(title)) > MaxTitleLen {
		return ErrTitleTooLong
	}

	return nil
}

// Body validates a note body
func Body(body string) error {
	if len([]rune(body)) > MaxBodyLen {
		return ErrBodyTooLong
	}

	return nil
}

// Note validates a full note record before it is accepted into the store
func Note(n note.Note) error {
	if _, err := uuid.Parse(n.ID); err != nil {
		return ErrIDInvalid
	}
	if n.LastModified.IsZero() {
		return ErrTimestampMissing
	}
	if err := Title(n.Title); err != nil {
		return err
	}
	if err := Body(n.Body); err != nil {
		return err
	}

	return nil
}
