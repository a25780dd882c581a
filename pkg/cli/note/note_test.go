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

package note

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/knotapp/knot/pkg/assert"
	"github.com/knotapp/knot/pkg/clock"
)

func TestTimestamp(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	in := time.Date(2009, time.November, 10, 18, 0, 0, 123456789, est)

	got := Timestamp(in)

	assert.DeepEqual(t, got, time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC), "timestamp mismatch")
}

func TestNew(t *testing.T) {
	c := clock.NewMock()

	n, err := New(c, "title", "body", []string{"tag1"})
	if err != nil {
		t.Fatal(err)
	}

	assert.NotEqual(t, n.ID, "", "id should be populated")
	assert.Equal(t, n.Title, "title", "title mismatch")
	assert.Equal(t, n.Body, "body", "body mismatch")
	assert.Equal(t, n.Version, 1, "version mismatch")
	assert.Equal(t, n.Deleted, false, "deleted mismatch")
	assert.DeepEqual(t, n.LastModified, Timestamp(c.Now()), "last modified mismatch")
}

func TestTouch(t *testing.T) {
	c := clock.NewMock()

	n, err := New(c, "title", "body", nil)
	if err != nil {
		t.Fatal(err)
	}

	c.Advance(time.Minute)
	n.Touch(c)

	assert.Equal(t, n.Version, 2, "version should be bumped")
	assert.DeepEqual(t, n.LastModified, Timestamp(c.Now()), "last modified should be refreshed")
}

func TestUnmarshalDefaults(t *testing.T) {
	raw := `{"id": "n1", "title": "title", "body": "body", "last_modified": "2009-11-10T23:00:00Z"}`

	var n Note
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, n.Version, 1, "absent version should default to 1")
	assert.Equal(t, n.Deleted, false, "absent deleted should default to false")
	assert.Equal(t, n.Pinned, false, "absent pinned should default to false")
	if n.Tags != nil {
		t.Errorf("absent tags should stay nil, got %+v", n.Tags)
	}
}

func TestUnmarshalNormalizesZone(t *testing.T) {
	raw := `{"id": "n1", "title": "t", "body": "", "version": 3, "last_modified": "2009-11-10T18:00:00-05:00"}`

	var n Note
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		t.Fatal(err)
	}

	assert.DeepEqual(t, n.LastModified, time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC), "last modified should be normalized to UTC")
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	raw := `{"id": "n1", "title": "t", "body": "", "version": 2, "last_modified": "2009-11-10T23:00:00Z", "color": "red"}`

	var n Note
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, n.Version, 2, "version mismatch")
}

func TestRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		note Note
	}{
		{
			name: "live note with tags",
			note: Note{
				ID:           "n1",
				Title:        "title",
				Body:         "line one\nline two",
				Tags:         []string{"tag1", "tag2"},
				Pinned:       true,
				Version:      4,
				LastModified: time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "tombstone",
			note: Note{
				ID:           "n2",
				Deleted:      true,
				Version:      2,
				LastModified: time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.note)
			if err != nil {
				t.Fatal(err)
			}

			var got Note
			if err := json.Unmarshal(b, &got); err != nil {
				t.Fatal(err)
			}

			assert.DeepEqual(t, got, tc.note, "note should round-trip the encoding")
		})
	}
}

func TestNoteEqual(t *testing.T) {
	base := Note{
		ID:           "n1",
		Title:        "title",
		Body:         "body",
		Tags:         []string{"tag1"},
		Version:      1,
		LastModified: time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC),
	}

	testCases := []struct {
		name   string
		mutate func(n *Note)
		want   bool
	}{
		{name: "identical", mutate: func(n *Note) {}, want: true},
		{name: "different title", mutate: func(n *Note) { n.Title = "other" }, want: false},
		{name: "different body", mutate: func(n *Note) { n.Body = "other" }, want: false},
		{name: "different version", mutate: func(n *Note) { n.Version = 2 }, want: false},
		{name: "different tags", mutate: func(n *Note) { n.Tags = []string{"tag2"} }, want: false},
		{name: "deleted flag", mutate: func(n *Note) { n.Deleted = true }, want: false},
		{name: "different time", mutate: func(n *Note) { n.LastModified = n.LastModified.Add(time.Second) }, want: false},
		{
			name:   "same instant in a different zone",
			mutate: func(n *Note) { n.LastModified = n.LastModified.In(time.FixedZone("EST", -5*3600)) },
			want:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			other := base
			tc.mutate(&other)

			assert.Equal(t, base.Equal(other), tc.want, "equality mismatch")
		})
	}
}

func TestCollectionClone(t *testing.T) {
	orig := Collection{
		"n1": {ID: "n1", Title: "title", Tags: []string{"tag1"}, Version: 1},
	}

	cloned := orig.Clone()
	cloned["n1"] = Note{ID: "n1", Title: "changed", Version: 2}

	assert.Equal(t, orig["n1"].Title, "title", "mutating the clone should not affect the original")

	cloned = orig.Clone()
	cloned["n1"].Tags[0] = "changed"

	assert.Equal(t, orig["n1"].Tags[0], "tag1", "clone should not share tag storage")
}

func TestCollectionEqual(t *testing.T) {
	at := time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC)
	a := Collection{
		"n1": {ID: "n1", Title: "title", Version: 1, LastModified: at},
	}

	assert.Equal(t, a.Equal(a.Clone()), true, "clone should be equal")
	assert.Equal(t, a.Equal(Collection{}), false, "different sizes should not be equal")

	b := a.Clone()
	n := b["n1"]
	n.Title = "other"
	b["n1"] = n
	assert.Equal(t, a.Equal(b), false, "different content should not be equal")
}

func TestActiveCount(t *testing.T) {
	c := Collection{
		"n1": {ID: "n1"},
		"n2": {ID: "n2", Deleted: true},
		"n3": {ID: "n3"},
	}

	assert.Equal(t, c.ActiveCount(), 2, "active count mismatch")
}
