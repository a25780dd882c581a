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

// Package syncer sequences synchronization rounds against the shared folder:
// load remote, fold in conflicting copies, merge with local, materialize
// conflicts, persist both sides, collect old tombstones.
package syncer

import (
	"os"
	"sync/atomic"

	"github.com/knotapp/knot/pkg/cli/log"
	"github.com/knotapp/knot/pkg/cli/merge"
	"github.com/knotapp/knot/pkg/cli/note"
	"github.com/knotapp/knot/pkg/cli/snapshot"
	"github.com/knotapp/knot/pkg/cli/store"
	"github.com/knotapp/knot/pkg/cli/utils"
	"github.com/knotapp/knot/pkg/clock"
	"github.com/pkg/errors"
)

// DefaultRetentionDays is how long a tombstone is kept before garbage
// collection. A shorter window risks a replica that was offline past it
// resurrecting deleted notes; a longer one grows the snapshot.
const DefaultRetentionDays = 30

// ErrNotConfigured means no valid sync folder is configured. It is a
// reportable, recoverable condition: sync simply does not proceed.
var ErrNotConfigured = errors.New("sync folder is not configured")

// ErrInFlight means a sync round is already running. Overlapping rounds
// would race on the read-modify-write of the entire collection, so a new
// trigger while one is in flight is rejected rather than interleaved.
var ErrInFlight = errors.New("a sync round is already in progress")

// State is a phase of a synchronization round
type State int32

// The phases of a synchronization round
const (
	StateIdle State = iota
	StateLoading
	StateScanning
	StateMerging
	StatePersisting
	StateCleaningUp
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateScanning:
		return "scanning"
	case StateMerging:
		return "merging"
	case StatePersisting:
		return "persisting"
	case StateCleaningUp:
		return "cleaning up"
	case StateFailed:
		return "failed"
	}

	return "unknown"
}

// Result is the outcome of one synchronization round
type Result struct {
	OK            bool
	ActiveCount   int
	ConflictCount int
	Folded        int
	Purged        int
	Err           error
}

// Syncer drives synchronization rounds. At most one round runs at a time;
// the merge itself is pure and all I/O goes through the store and the
// snapshot codec.
type Syncer struct {
	store         *store.Store
	dir           string
	clock         clock.Clock
	RetentionDays int

	inFlight atomic.Bool
	state    atomic.Int32
}

// New returns a syncer for the given local store and shared folder path
func New(s *store.Store, dir string, c clock.Clock) *Syncer {
	return &Syncer{
		store:         s,
		dir:           dir,
		clock:         c,
		RetentionDays: DefaultRetentionDays,
	}
}

// State returns the phase the syncer is currently in
func (s *Syncer) State() State {
	return State(s.state.Load())
}

func (s *Syncer) setState(st State) {
	s.state.Store(int32(st))
	log.Debug("sync state: %s\n", st)
}

// Sync runs one synchronization round and blocks until it completes. If a
// round is already in flight, it returns immediately with ErrInFlight.
func (s *Syncer) Sync() Result {
	if !s.inFlight.CompareAndSwap(false, true) {
		return Result{Err: ErrInFlight}
	}
	defer s.inFlight.Store(false)

	return s.round()
}

// Trigger starts a synchronization round in the background and returns a
// channel that delivers the single result, so the interactive surface is
// never blocked on a slow shared folder. If a round is already in flight,
// no round is started and ErrInFlight is returned.
func (s *Syncer) Trigger() (<-chan Result, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrInFlight
	}

	ch := make(chan Result, 1)
	go func() {
		defer s.inFlight.Store(false)
		ch <- s.round()
	}()

	return ch, nil
}

func (s *Syncer) fail(err error) Result {
	s.setState(StateFailed)
	log.Debug("sync round failed: %s\n", err)

	return Result{Err: err}
}

func (s *Syncer) checkDir() error {
	if s.dir == "" {
		return ErrNotConfigured
	}

	fi, err := os.Stat(s.dir)
	if err != nil {
		return errors.Wrapf(ErrNotConfigured, "sync folder %s is not accessible", s.dir)
	}
	if !fi.IsDir() {
		return errors.Wrapf(ErrNotConfigured, "sync path %s is not a directory", s.dir)
	}

	return nil
}

func (s *Syncer) round() Result {
	if err := s.checkDir(); err != nil {
		return s.fail(err)
	}

	s.setState(StateLoading)

	remotePath := snapshot.Path(s.dir)
	doc, err := snapshot.Load(remotePath)
	if err != nil {
		// a corrupt remote must fail the round; treating it as empty would
		// overwrite the shared copy with an empty merge
		return s.fail(errors.Wrap(err, "loading remote snapshot"))
	}

	remote := note.Collection{}
	if doc != nil {
		remote = doc.Notes
	}
	canonical := remote.Clone()

	s.setState(StateScanning)

	folded := snapshot.FoldStray(remote, s.dir)

	s.setState(StateMerging)

	local := s.store.ListAll()
	merged, conflicts := merge.Notes(local, remote)

	for _, c := range conflicts {
		cn, err := materializeConflict(c)
		if err != nil {
			return s.fail(errors.Wrap(err, "materializing conflict"))
		}
		merged[cn.ID] = cn
	}

	s.setState(StatePersisting)

	if !merged.Equal(local) {
		if err := s.store.ReplaceAll(merged); err != nil {
			return s.fail(errors.Wrap(err, "persisting merged collection locally"))
		}
	}

	if folded > 0 || !merged.Equal(canonical) {
		if err := snapshot.Save(remotePath, merged, s.clock.Now()); err != nil {
			// the local store has already converged; the next successful
			// round re-propagates since local state is now the newer one
			s.setState(StateFailed)
			return Result{
				ConflictCount: len(conflicts),
				Err:           errors.Wrap(err, "persisting merged collection remotely"),
			}
		}
	}

	s.setState(StateCleaningUp)

	purged, err := s.store.GarbageCollectTombstones(s.RetentionDays)
	if err != nil {
		return s.fail(errors.Wrap(err, "collecting tombstones"))
	}
	if purged > 0 {
		if err := snapshot.Save(remotePath, s.store.ListAll(), s.clock.Now()); err != nil {
			s.setState(StateFailed)
			return Result{
				ConflictCount: len(conflicts),
				Err:           errors.Wrap(err, "persisting collected collection remotely"),
			}
		}
	}

	s.setState(StateIdle)

	return Result{
		OK:            true,
		ActiveCount:   merged.ActiveCount(),
		ConflictCount: len(conflicts),
		Folded:        folded,
		Purged:        purged,
	}
}

// materializeConflict turns a merge conflict into a new, separate note
// carrying the losing remote content under a fresh id, so the edit that lost
// the merge stays visible and recoverable.
func materializeConflict(c merge.Conflict) (note.Note, error) {
	id, err := utils.GenerateUUID()
	if err != nil {
		return note.Note{}, errors.Wrap(err, "generating conflict note id")
	}

	return note.Note{
		ID:           id,
		Title:        "Conflict: " + c.Remote.Title,
		Body:         c.Remote.Body,
		Tags:         c.Remote.Tags,
		Version:      c.Remote.Version,
		LastModified: c.Remote.LastModified,
	}, nil
}
