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

package syncer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/knotapp/knot/pkg/assert"
	"github.com/knotapp/knot/pkg/cli/merge"
	"github.com/knotapp/knot/pkg/cli/note"
	"github.com/knotapp/knot/pkg/cli/snapshot"
	"github.com/knotapp/knot/pkg/cli/store"
	"github.com/knotapp/knot/pkg/clock"
	"github.com/pkg/errors"
)

// device is one simulated replica: its own local store and its own syncer,
// sharing the sync folder and the clock with the other devices in a test
type device struct {
	store  *store.Store
	syncer *Syncer
}

func newDevice(t *testing.T, syncDir string, c clock.Clock) device {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "notes.json"), c)
	if err != nil {
		t.Fatal(err)
	}

	return device{store: s, syncer: New(s, syncDir, c)}
}

func (d device) add(t *testing.T, c clock.Clock, title, body string) note.Note {
	t.Helper()

	n, err := note.New(c, title, body, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.store.Add(n); err != nil {
		t.Fatal(err)
	}

	return n
}

func (d device) sync(t *testing.T) Result {
	t.Helper()

	r := d.syncer.Sync()
	if r.Err != nil {
		t.Fatalf("sync failed: %v", r.Err)
	}

	return r
}

func TestSyncNotConfigured(t *testing.T) {
	c := clock.NewMock()

	testCases := []struct {
		name string
		dir  string
	}{
		{name: "no folder configured", dir: ""},
		{name: "folder does not exist", dir: "/nonexistent/sync/folder"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := newDevice(t, tc.dir, c)

			r := d.syncer.Sync()

			if !errors.Is(r.Err, ErrNotConfigured) {
				t.Errorf("got %v, want ErrNotConfigured", r.Err)
			}
			assert.Equal(t, r.OK, false, "result should not be ok")
		})
	}
}

func TestSyncPathIsFile(t *testing.T) {
	c := clock.NewMock()
	path := filepath.Join(t.TempDir(), "notafolder")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	d := newDevice(t, path, c)

	r := d.syncer.Sync()

	if !errors.Is(r.Err, ErrNotConfigured) {
		t.Errorf("got %v, want ErrNotConfigured", r.Err)
	}
}

func TestSyncFirstRound(t *testing.T) {
	c := clock.NewMock()
	syncDir := t.TempDir()

	d := newDevice(t, syncDir, c)
	n := d.add(t, c, "title", "body")

	r := d.sync(t)

	assert.Equal(t, r.OK, true, "result should be ok")
	assert.Equal(t, r.ActiveCount, 1, "active count mismatch")
	assert.Equal(t, r.ConflictCount, 0, "conflict count mismatch")

	doc, err := snapshot.Load(snapshot.Path(syncDir))
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, doc.Notes[n.ID], n, "remote snapshot should carry the note")
	assert.DeepEqual(t, doc.Meta.LastSync, note.Timestamp(c.Now()), "last sync mismatch")
}

func TestSyncTwoDevices(t *testing.T) {
	c := clock.NewMock()
	syncDir := t.TempDir()

	a := newDevice(t, syncDir, c)
	b := newDevice(t, syncDir, c)

	// a note created on one device appears on the other
	n := a.add(t, c, "shared note", "body")
	a.sync(t)
	r := b.sync(t)

	assert.Equal(t, r.ActiveCount, 1, "second device should receive the note")
	got, err := b.store.Get(n.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, got, n, "note mismatch on the second device")

	// an edit well outside the conflict window propagates back cleanly
	c.Advance(time.Hour)
	body := "edited on b"
	if err := b.store.Update(n.ID, store.Fields{Body: &body}); err != nil {
		t.Fatal(err)
	}
	b.sync(t)
	r = a.sync(t)

	assert.Equal(t, r.ConflictCount, 0, "clean edit should not conflict")
	got, err = a.store.Get(n.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, got.Body, "edited on b", "edit should propagate")
	assert.Equal(t, got.Version, 2, "version should propagate")

	// a deletion propagates as a tombstone
	c.Advance(time.Hour)
	if err := a.store.SoftDelete(n.ID); err != nil {
		t.Fatal(err)
	}
	a.sync(t)
	r = b.sync(t)

	assert.Equal(t, r.ActiveCount, 0, "deletion should propagate")
	got, err = b.store.Get(n.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, got.Deleted, true, "tombstone should propagate")
}

func TestSyncConcurrentEditsConflict(t *testing.T) {
	c := clock.NewMock()
	syncDir := t.TempDir()

	a := newDevice(t, syncDir, c)
	b := newDevice(t, syncDir, c)

	n := a.add(t, c, "note", "original")
	a.sync(t)
	b.sync(t)

	// both devices edit within the conflict window
	c.Advance(time.Hour)
	bodyA := "edited on a"
	if err := a.store.Update(n.ID, store.Fields{Body: &bodyA}); err != nil {
		t.Fatal(err)
	}
	c.Advance(2 * time.Second)
	bodyB := "edited on b"
	if err := b.store.Update(n.ID, store.Fields{Body: &bodyB}); err != nil {
		t.Fatal(err)
	}

	b.sync(t)
	r := a.sync(t)

	assert.Equal(t, r.ConflictCount, 1, "concurrent divergent edits should conflict")
	assert.Equal(t, r.ActiveCount, 2, "conflict should be materialized as a second note")

	// the original id keeps the local edit
	got, err := a.store.Get(n.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, got.Body, "edited on a", "original note should keep the local edit")

	// the losing remote content survives under a conflict note
	var conflictNote note.Note
	for _, cand := range a.store.ListActive() {
		if cand.ID != n.ID {
			conflictNote = cand
		}
	}
	assert.Equal(t, conflictNote.Title, "Conflict: note", "conflict note title mismatch")
	assert.Equal(t, conflictNote.Body, "edited on b", "conflict note should carry the remote content")
}

func TestSyncSequentialEditsNoConflict(t *testing.T) {
	c := clock.NewMock()
	syncDir := t.TempDir()

	a := newDevice(t, syncDir, c)
	b := newDevice(t, syncDir, c)

	n := a.add(t, c, "note", "original")
	a.sync(t)
	b.sync(t)

	c.Advance(time.Hour)
	bodyA := "edited on a"
	if err := a.store.Update(n.ID, store.Fields{Body: &bodyA}); err != nil {
		t.Fatal(err)
	}
	c.Advance(time.Minute)
	bodyB := "edited on b"
	if err := b.store.Update(n.ID, store.Fields{Body: &bodyB}); err != nil {
		t.Fatal(err)
	}

	b.sync(t)
	r := a.sync(t)

	assert.Equal(t, r.ConflictCount, 0, "edits a minute apart should resolve by last writer")
	got, err := a.store.Get(n.ID)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, got.Body, "edited on b", "the later edit should win")
}

func TestSyncCorruptRemote(t *testing.T) {
	c := clock.NewMock()
	syncDir := t.TempDir()

	d := newDevice(t, syncDir, c)
	d.add(t, c, "title", "body")

	remotePath := snapshot.Path(syncDir)
	if err := os.WriteFile(remotePath, []byte("half a snapsh"), 0644); err != nil {
		t.Fatal(err)
	}

	r := d.syncer.Sync()

	if !errors.Is(r.Err, snapshot.ErrCorrupt) {
		t.Errorf("got %v, want ErrCorrupt", r.Err)
	}
	assert.Equal(t, r.OK, false, "result should not be ok")

	// the corrupt shared copy must not be overwritten
	b, err := os.ReadFile(remotePath)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, string(b), "half a snapsh", "corrupt remote should be left intact")
}

func TestSyncFoldsStray(t *testing.T) {
	c := clock.NewMock()
	syncDir := t.TempDir()

	a := newDevice(t, syncDir, c)
	a.add(t, c, "canonical", "body")
	a.sync(t)

	// another device raced the snapshot write and the file sync provider
	// kept its version as a conflicting copy
	stray := note.Collection{
		"11111111-1111-4111-8111-111111111111": {
			ID:           "11111111-1111-4111-8111-111111111111",
			Title:        "from the stray copy",
			Version:      1,
			LastModified: note.Timestamp(c.Now()),
		},
	}
	strayPath := filepath.Join(syncDir, "notes-DESKTOP-AB12.json")
	if err := snapshot.Save(strayPath, stray, c.Now()); err != nil {
		t.Fatal(err)
	}

	r := a.sync(t)

	assert.Equal(t, r.Folded, 1, "folded count mismatch")
	assert.Equal(t, r.ActiveCount, 2, "stray note should be merged")

	if _, err := os.Stat(strayPath); !os.IsNotExist(err) {
		t.Errorf("stray file should be removed, stat returned %v", err)
	}

	got, err := a.store.Get("11111111-1111-4111-8111-111111111111")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, got.Title, "from the stray copy", "stray note should reach the local store")
}

func TestSyncIdempotent(t *testing.T) {
	c := clock.NewMock()
	syncDir := t.TempDir()

	d := newDevice(t, syncDir, c)
	d.add(t, c, "title", "body")
	d.sync(t)

	before, err := os.ReadFile(snapshot.Path(syncDir))
	if err != nil {
		t.Fatal(err)
	}

	c.Advance(time.Hour)
	r := d.sync(t)

	assert.Equal(t, r.OK, true, "result should be ok")
	assert.Equal(t, r.ConflictCount, 0, "conflict count mismatch")

	after, err := os.ReadFile(snapshot.Path(syncDir))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, string(after), string(before), "a no-op round should not rewrite the remote snapshot")
}

func TestSyncGarbageCollection(t *testing.T) {
	c := clock.NewMock()
	syncDir := t.TempDir()

	d := newDevice(t, syncDir, c)
	n := d.add(t, c, "title", "body")
	if err := d.store.SoftDelete(n.ID); err != nil {
		t.Fatal(err)
	}
	d.sync(t)

	c.Advance(31 * 24 * time.Hour)
	r := d.sync(t)

	assert.Equal(t, r.Purged, 1, "expired tombstone should be purged")
	assert.Equal(t, len(d.store.ListAll()), 0, "tombstone should be gone locally")

	doc, err := snapshot.Load(snapshot.Path(syncDir))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(doc.Notes), 0, "purge should be reflected in the remote snapshot")
}

func TestSyncGarbageCollectionRetention(t *testing.T) {
	c := clock.NewMock()
	syncDir := t.TempDir()

	d := newDevice(t, syncDir, c)
	n := d.add(t, c, "title", "body")
	if err := d.store.SoftDelete(n.ID); err != nil {
		t.Fatal(err)
	}
	d.sync(t)

	c.Advance(29 * 24 * time.Hour)
	r := d.sync(t)

	assert.Equal(t, r.Purged, 0, "young tombstone should be retained")
	assert.Equal(t, len(d.store.ListAll()), 1, "tombstone should remain locally")
}

func TestSyncInFlight(t *testing.T) {
	c := clock.NewMock()

	d := newDevice(t, t.TempDir(), c)

	d.syncer.inFlight.Store(true)

	r := d.syncer.Sync()
	if !errors.Is(r.Err, ErrInFlight) {
		t.Errorf("got %v, want ErrInFlight", r.Err)
	}

	if _, err := d.syncer.Trigger(); !errors.Is(err, ErrInFlight) {
		t.Errorf("got %v, want ErrInFlight", err)
	}

	d.syncer.inFlight.Store(false)

	r = d.syncer.Sync()
	assert.Equal(t, r.OK, true, "sync should proceed once the round is done")
}

func TestTrigger(t *testing.T) {
	c := clock.NewMock()
	syncDir := t.TempDir()

	d := newDevice(t, syncDir, c)
	d.add(t, c, "title", "body")

	ch, err := d.syncer.Trigger()
	if err != nil {
		t.Fatal(err)
	}

	r := <-ch
	if r.Err != nil {
		t.Fatal(r.Err)
	}
	assert.Equal(t, r.ActiveCount, 1, "active count mismatch")
}

func TestMaterializeConflict(t *testing.T) {
	c := merge.Conflict{
		NoteID: "n1",
		Local:  note.Note{ID: "n1", Title: "title", Body: "local"},
		Remote: note.Note{
			ID:           "n1",
			Title:        "title",
			Body:         "remote",
			Tags:         []string{"tag1"},
			Version:      3,
			LastModified: time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC),
		},
	}

	n, err := materializeConflict(c)
	if err != nil {
		t.Fatal(err)
	}

	assert.NotEqual(t, n.ID, "n1", "conflict note should get a fresh id")
	assert.Equal(t, n.Title, "Conflict: title", "title mismatch")
	assert.Equal(t, n.Body, "remote", "body mismatch")
	assert.Equal(t, n.Version, 3, "version mismatch")
	assert.DeepEqual(t, n.LastModified, c.Remote.LastModified, "timestamp should carry over")

	if !strings.HasPrefix(n.Title, "Conflict: ") {
		t.Errorf("unexpected title %q", n.Title)
	}
}
