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

// Package snapshot reads and writes the serialized note collection document.
// The same document format is used for the local collection file and for the
// shared snapshot that other devices write concurrently.
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/knotapp/knot/pkg/cli/consts"
	"github.com/knotapp/knot/pkg/cli/note"
	"github.com/knotapp/knot/pkg/cli/utils"
	"github.com/pkg/errors"
)

// ErrCorrupt means a snapshot file exists but cannot be parsed. Callers must
// treat it differently from an absent snapshot: overwriting a corrupt remote
// with an empty merge would destroy the shared copy.
var ErrCorrupt = errors.New("snapshot is corrupt")

// Meta is the snapshot metadata block
type Meta struct {
	LastSync time.Time `json:"last_sync"`
	Count    int       `json:"count"`
}

// Document is the full serialized form of a note collection
type Document struct {
	Notes note.Collection `json:"notes"`
	Meta  Meta            `json:"meta"`
}

// Path returns the path of the canonical snapshot file inside the given folder
func Path(dir string) string {
	return filepath.Join(dir, consts.NotesFileName)
}

// Load reads the snapshot document at the given path. It returns (nil, nil)
// if the file does not exist, and an error wrapping ErrCorrupt if the file
// exists but is malformed.
func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading snapshot at %s", path)
	}

	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "parsing snapshot at %s: %s", path, err)
	}

	if doc.Notes == nil {
		doc.Notes = note.Collection{}
	}

	return &doc, nil
}

// Save atomically writes the given collection as a snapshot document at the
// given path
func Save(path string, notes note.Collection, now time.Time) error {
	doc := Document{
		Notes: notes,
		Meta: Meta{
			LastSync: note.Timestamp(now),
			Count:    len(notes),
		},
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshalling snapshot")
	}

	if err := utils.AtomicWriteFile(path, b); err != nil {
		return errors.Wrapf(err, "writing snapshot at %s", path)
	}

	return nil
}
