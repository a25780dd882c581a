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

package snapshot

import (
	"os"
	"testing"
	"time"

	"github.com/knotapp/knot/pkg/assert"
	"github.com/knotapp/knot/pkg/cli/note"
	"github.com/pkg/errors"
)

var t0 = time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC)

func TestLoadAbsent(t *testing.T) {
	doc, err := Load(Path(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}

	if doc != nil {
		t.Errorf("absent snapshot should load as nil, got %+v", doc)
	}
}

func TestLoadCorrupt(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "truncated json", content: `{"notes": {"n1": {"id": "n1"`},
		{name: "not json at all", content: "PK\x03\x04 garbage"},
		{name: "wrong shape", content: `{"notes": ["a", "b"]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := Path(t.TempDir())
			if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := Load(path)

			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("got %v, want ErrCorrupt", err)
			}
		})
	}
}

func TestLoadEmptyNotes(t *testing.T) {
	path := Path(t.TempDir())
	if err := os.WriteFile(path, []byte(`{"meta": {"count": 0}}`), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if doc.Notes == nil {
		t.Error("absent notes should load as an empty collection")
	}
	assert.Equal(t, len(doc.Notes), 0, "notes should be empty")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	notes := note.Collection{
		"n1": {
			ID:           "n1",
			Title:        "live note",
			Body:         "line one\nline two",
			Tags:         []string{"tag1"},
			Pinned:       true,
			Version:      3,
			LastModified: t0,
		},
		"n2": {
			ID:           "n2",
			Deleted:      true,
			Version:      2,
			LastModified: t0.Add(-time.Hour),
		},
	}

	path := Path(t.TempDir())
	if err := Save(path, notes, t0.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	assert.DeepEqual(t, doc.Notes, notes, "notes should round-trip the encoding")
	assert.DeepEqual(t, doc.Meta.LastSync, t0.Add(time.Minute), "last sync mismatch")
	assert.Equal(t, doc.Meta.Count, 2, "count should include tombstones")
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	if err := Save(Path(dir), note.Collection{}, t0); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, len(entries), 1, "only the snapshot file should remain")
	assert.Equal(t, entries[0].Name(), "notes.json", "file name mismatch")
}

func TestSaveOverwrites(t *testing.T) {
	path := Path(t.TempDir())

	if err := Save(path, note.Collection{"n1": {ID: "n1", Version: 1, LastModified: t0}}, t0); err != nil {
		t.Fatal(err)
	}
	if err := Save(path, note.Collection{}, t0.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, len(doc.Notes), 0, "second save should replace the first")
	assert.DeepEqual(t, doc.Meta.LastSync, t0.Add(time.Hour), "last sync mismatch")
}
