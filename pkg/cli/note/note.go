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

// Package note defines the note record and the note collection
package note

import (
	"encoding/json"
	"time"

	"github.com/knotapp/knot/pkg/cli/utils"
	"github.com/knotapp/knot/pkg/clock"
	"github.com/pkg/errors"
)

// Note is the atomic unit being synchronized. A note with Deleted set is a
// tombstone: it is retained, enumerated, and merged like a live record so
// that its deletion can propagate to other replicas, until it is eventually
// garbage collected by the local store.
type Note struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Tags    []string `json:"tags,omitempty"`
	Pinned  bool     `json:"pinned,omitempty"`
	Deleted bool     `json:"deleted,omitempty"`
	Version int      `json:"version"`
	// LastModified is the sole ordering key for merge. It is always UTC,
	// truncated to a second so that it round-trips the JSON encoding exactly.
	LastModified time.Time `json:"last_modified"`
}

// Collection is a mapping from note id to exactly one note record,
// including tombstones.
type Collection map[string]Note

// Timestamp normalizes a time for use as a note timestamp
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// New creates a new note with a fresh id, version 1, and the current time
func New(c clock.Clock, title, body string, tags []string) (Note, error) {
	id, err := utils.GenerateUUID()
	if err != nil {
		return Note{}, errors.Wrap(err, "generating note id")
	}

	return Note{
		ID:           id,
		Title:        title,
		Body:         body,
		Tags:         tags,
		Version:      1,
		LastModified: Timestamp(c.Now()),
	}, nil
}

// Touch records a mutation: it bumps the version by one and refreshes the
// last modified time
func (n *Note) Touch(c clock.Clock) {
	n.Version++
	n.LastModified = Timestamp(c.Now())
}

// UnmarshalJSON decodes a note, defaulting fields that older snapshots may
// omit: absent version means 1, absent deleted means false. Unknown fields
// are ignored.
func (n *Note) UnmarshalJSON(b []byte) error {
	type alias Note

	aux := alias{Version: 1}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	aux.LastModified = aux.LastModified.UTC()
	*n = Note(aux)

	return nil
}

// Equal reports whether two notes have identical field values
func (n Note) Equal(o Note) bool {
	if n.ID != o.ID || n.Title != o.Title || n.Body != o.Body {
		return false
	}
	if n.Pinned != o.Pinned || n.Deleted != o.Deleted || n.Version != o.Version {
		return false
	}
	if !n.LastModified.Equal(o.LastModified) {
		return false
	}
	if len(n.Tags) != len(o.Tags) {
		return false
	}
	for i := range n.Tags {
		if n.Tags[i] != o.Tags[i] {
			return false
		}
	}

	return true
}

// Clone returns a copy of the collection that shares no storage with the
// original
func (c Collection) Clone() Collection {
	ret := make(Collection, len(c))
	for id, n := range c {
		if n.Tags != nil {
			tags := make([]string, len(n.Tags))
			copy(tags, n.Tags)
			n.Tags = tags
		}
		ret[id] = n
	}

	return ret
}

// Equal reports whether two collections contain equal notes under equal ids
func (c Collection) Equal(o Collection) bool {
	if len(c) != len(o) {
		return false
	}
	for id, n := range c {
		on, ok := o[id]
		if !ok || !n.Equal(on) {
			return false
		}
	}

	return true
}

// ActiveCount returns the number of notes that are not tombstones
func (c Collection) ActiveCount() int {
	var ret int
	for _, n := range c {
		if !n.Deleted {
			ret++
		}
	}

	return ret
}
