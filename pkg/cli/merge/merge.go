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

// Package merge implements the synchronization merge algorithm. It is a pure
// function over two note collections: no I/O, no clock, no side effects.
package merge

import (
	"time"

	"github.com/knotapp/knot/pkg/cli/note"
)

// ConflictWindow is the maximum distance between the last modified times of
// two diverging records for them to count as a true conflict. Two edits
// further apart than this are resolved by last-writer-wins: the older one is
// considered stale rather than concurrent.
const ConflictWindow = 5 * time.Second

// Conflict pairs the local and the remote version of a note that was
// modified on both sides at nearly the same time with differing content.
// It is an expected outcome, not an error, and it is never persisted: the
// caller materializes it as a separate note so the losing content stays
// recoverable.
type Conflict struct {
	NoteID string
	Local  note.Note
	Remote note.Note
}

// Newer returns whichever of the two notes has the newer last modified time.
// The first argument wins ties, which makes the resolution deterministic.
func Newer(a, b note.Note) note.Note {
	if b.LastModified.After(a.LastModified) {
		return b
	}

	return a
}

// isConflict reports whether two live records constitute a true conflict:
// their timestamps fall within the conflict window of each other and their
// content diverges. Divergence alone is not enough, since one side may
// simply be stale and cleanly resolvable by last-writer-wins.
func isConflict(local, remote note.Note) bool {
	gap := local.LastModified.Sub(remote.LastModified)
	if gap < 0 {
		gap = -gap
	}
	if gap >= ConflictWindow {
		return false
	}

	return local.Title != remote.Title || local.Body != remote.Body
}

// Notes merges a local and a remote collection, both including tombstones,
// into one collection plus a list of true conflicts.
//
// For each id in the union of the two key sets:
//
//  1. Present on one side only: taken unchanged. This also propagates a
//     tombstone that the other side has never seen.
//  2. Present on both sides and either is a tombstone: the newer record wins,
//     local winning ties. A deletion is never diffed as content; once it is
//     the newer event it beats a concurrent edit.
//  3. Present on both sides, both live, within the conflict window with
//     diverging content: a Conflict is recorded and the local record is kept
//     provisionally. The caller is responsible for materializing the remote
//     content so it is not discarded.
//  4. Otherwise last-writer-wins, local winning ties.
func Notes(local, remote note.Collection) (note.Collection, []Conflict) {
	merged := make(note.Collection, len(local))
	var conflicts []Conflict

	ids := make(map[string]struct{}, len(local)+len(remote))
	for id := range local {
		ids[id] = struct{}{}
	}
	for id := range remote {
		ids[id] = struct{}{}
	}

	for id := range ids {
		localNote, onLocal := local[id]
		remoteNote, onRemote := remote[id]

		if onLocal && !onRemote {
			merged[id] = localNote
			continue
		}
		if onRemote && !onLocal {
			merged[id] = remoteNote
			continue
		}

		if localNote.Deleted || remoteNote.Deleted {
			merged[id] = Newer(localNote, remoteNote)
			continue
		}

		if isConflict(localNote, remoteNote) {
			conflicts = append(conflicts, Conflict{
				NoteID: id,
				Local:  localNote,
				Remote: remoteNote,
			})
			merged[id] = localNote
			continue
		}

		merged[id] = Newer(localNote, remoteNote)
	}

	return merged, conflicts
}
