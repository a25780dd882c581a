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

// Package store implements the local note store. It is the exclusive
// in-process owner of the local collection; every read and write of local
// note state funnels through it.
package store

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/knotapp/knot/pkg/cli/consts"
	"github.com/knotapp/knot/pkg/cli/log"
	"github.com/knotapp/knot/pkg/cli/note"
	"github.com/knotapp/knot/pkg/cli/snapshot"
	"github.com/knotapp/knot/pkg/cli/utils"
	"github.com/knotapp/knot/pkg/cli/validate"
	"github.com/knotapp/knot/pkg/clock"
	"github.com/pkg/errors"
)

// ErrNotFound is an error for an operation on a note id that is not in the store
var ErrNotFound = errors.New("note not found")

// ErrDuplicateID is an error for adding a note whose id is already in the store
var ErrDuplicateID = errors.New("a note with the id already exists")

// ErrAmbiguousID is an error for an id prefix that matches more than one note
var ErrAmbiguousID = errors.New("the note id prefix is ambiguous")

// Fields describes a partial note update. A nil field is left unchanged.
type Fields struct {
	Title  *string
	Body   *string
	Tags   *[]string
	Pinned *bool
}

// Store is a file-backed note store. The collection, including tombstones,
// is held in memory and persisted as a whole document on every mutation with
// an atomic write.
type Store struct {
	mu    sync.Mutex
	path  string
	clock clock.Clock
	notes note.Collection
}

// Open loads the note store at the given file path, creating an empty one if
// the file does not exist. An unreadable file is preserved under a backup
// name and replaced with an empty collection rather than crashing the
// process.
func Open(path string, c clock.Clock) (*Store, error) {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, errors.Wrap(err, "preparing the data directory")
	}

	s := &Store{
		path:  path,
		clock: c,
		notes: note.Collection{},
	}

	doc, err := snapshot.Load(path)
	if err != nil {
		if !errors.Is(err, snapshot.ErrCorrupt) {
			return nil, errors.Wrap(err, "loading the local collection")
		}

		backupPath := path + consts.CorruptFileSuffix
		if cpErr := utils.CopyFile(path, backupPath); cpErr != nil {
			log.Warnf("backing up corrupt collection file: %s\n", cpErr)
		} else {
			log.Warnf("local collection file was corrupt; preserved at %s\n", backupPath)
		}

		if err := s.save(); err != nil {
			return nil, errors.Wrap(err, "resetting the local collection")
		}

		return s, nil
	}

	if doc == nil {
		if err := s.save(); err != nil {
			return nil, errors.Wrap(err, "initializing the local collection")
		}

		return s, nil
	}

	s.notes = doc.Notes

	return s, nil
}

// Path returns the path of the backing file
func (s *Store) Path() string {
	return s.path
}

func (s *Store) save() error {
	return snapshot.Save(s.path, s.notes, s.clock.Now())
}

// Add validates and inserts a new note
func (s *Store) Add(n note.Note) error {
	if err := validate.Note(n); err != nil {
		return errors.Wrap(err, "validating note")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[n.ID]; ok {
		return ErrDuplicateID
	}

	s.notes[n.ID] = n

	return s.save()
}

// Update applies the given field changes to the note with the given id,
// bumping its version and refreshing its last modified time
func (s *Store) Update(id string, f Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return ErrNotFound
	}

	if f.Title != nil {
		if err := validate.Title(*f.Title); err != nil {
			return errors.Wrap(err, "validating title")
		}
		n.Title = *f.Title
	}
	if f.Body != nil {
		if err := validate.Body(*f.Body); err != nil {
			return errors.Wrap(err, "validating body")
		}
		n.Body = *f.Body
	}
	if f.Tags != nil {
		n.Tags = *f.Tags
	}
	if f.Pinned != nil {
		n.Pinned = *f.Pinned
	}

	n.Touch(s.clock)
	s.notes[id] = n

	return s.save()
}

// SoftDelete turns the note with the given id into a tombstone. The record
// is kept so the deletion can propagate to other replicas; it is physically
// removed only by garbage collection.
func (s *Store) SoftDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return ErrNotFound
	}

	n.Deleted = true
	n.Touch(s.clock)
	s.notes[id] = n

	return s.save()
}

// Get returns the note with the given id, including tombstones
func (s *Store) Get(id string) (note.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[id]
	if !ok {
		return note.Note{}, ErrNotFound
	}

	return n, nil
}

// FindByIDPrefix returns the note whose id starts with the given prefix.
// It returns ErrAmbiguousID if more than one note matches.
func (s *Store) FindByIDPrefix(prefix string) (note.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []note.Note
	for id, n := range s.notes {
		if strings.HasPrefix(id, prefix) {
			found = append(found, n)
		}
	}

	switch len(found) {
	case 0:
		return note.Note{}, ErrNotFound
	case 1:
		return found[0], nil
	default:
		return note.Note{}, ErrAmbiguousID
	}
}

// ListActive returns the non-deleted notes, pinned first, then most recently
// modified first. Ties order by id so the listing is stable.
func (s *Store) ListActive() []note.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ret []note.Note
	for _, n := range s.notes {
		if !n.Deleted {
			ret = append(ret, n)
		}
	}

	sort.Slice(ret, func(i, j int) bool {
		if ret[i].Pinned != ret[j].Pinned {
			return ret[i].Pinned
		}
		if !ret[i].LastModified.Equal(ret[j].LastModified) {
			return ret[i].LastModified.After(ret[j].LastModified)
		}
		return ret[i].ID < ret[j].ID
	})

	return ret
}

// ListAll returns a copy of the full collection including tombstones. The
// merge engine must take this, not ListActive, as its local input.
func (s *Store) ListAll() note.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.notes.Clone()
}

// ReplaceAll overwrites the entire collection with the given one and persists
func (s *Store) ReplaceAll(c note.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = c.Clone()

	return s.save()
}

// Save persists the current collection
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save()
}

// GarbageCollectTombstones physically removes tombstones older than the
// given age and returns how many were removed. It must run only after a
// successful sync round; collecting a tombstone the remote has not seen yet
// lets a stale remote resurrect the deleted note on the next merge.
func (s *Store) GarbageCollectTombstones(maxAgeDays int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour)

	var removed int
	for id, n := range s.notes {
		if n.Deleted && n.LastModified.Before(cutoff) {
			delete(s.notes, id)
			removed++
		}
	}

	if removed == 0 {
		return 0, nil
	}

	if err := s.save(); err != nil {
		return removed, errors.Wrap(err, "persisting after tombstone collection")
	}

	return removed, nil
}
