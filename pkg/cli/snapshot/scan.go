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
	"path/filepath"
	"strings"

	"github.com/knotapp/knot/pkg/cli/consts"
	"github.com/knotapp/knot/pkg/cli/log"
	"github.com/knotapp/knot/pkg/cli/note"
	"github.com/pkg/errors"
)

// FindStray lists conflicting-copy files inside the given folder. File sync
// providers that cannot reconcile two concurrent writers of the snapshot drop
// an extra file alongside the canonical one, e.g. "notes-DESKTOP-AB12.json"
// or "notes (conflicted copy).json". Temp-suffixed files are excluded.
func FindStray(dir string) ([]string, error) {
	pattern := filepath.Join(dir, consts.NotesFileBase+"*.json")

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "globbing %s", pattern)
	}

	var ret []string
	for _, path := range matches {
		name := filepath.Base(path)
		if name == consts.NotesFileName || strings.HasSuffix(name, consts.TmpFileSuffix) {
			continue
		}

		if strings.Contains(strings.ToLower(name), "conflicted") ||
			strings.HasPrefix(name, consts.NotesFileBase+"-") {
			ret = append(ret, path)
		}
	}

	return ret, nil
}

// FoldStray merges every stray conflicting-copy file in the given folder into
// the passed remote collection and deletes the processed files. A note absent
// from the collection is added; a note present on both sides keeps whichever
// has the newer last modified time, ties keeping the existing record. A stray
// file that cannot be parsed or removed is logged and skipped, so one junk
// file never blocks synchronization. Returns the number of files folded.
func FoldStray(remote note.Collection, dir string) int {
	strays, err := FindStray(dir)
	if err != nil {
		log.Warnf("scanning for conflicting copies: %s\n", err)
		return 0
	}

	var folded int
	for _, path := range strays {
		doc, err := Load(path)
		if err != nil {
			log.Warnf("skipping conflicting copy %s: %s\n", filepath.Base(path), err)
			continue
		}
		if doc == nil {
			continue
		}

		for id, n := range doc.Notes {
			existing, ok := remote[id]
			if !ok || n.LastModified.After(existing.LastModified) {
				remote[id] = n
			}
		}

		if err := os.Remove(path); err != nil {
			log.Warnf("removing conflicting copy %s: %s\n", filepath.Base(path), err)
			continue
		}

		log.Debug("folded conflicting copy %s\n", filepath.Base(path))
		folded++
	}

	return folded
}
