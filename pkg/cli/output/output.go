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

// Package output provides functions to print commonly formatted information
package output

import (
	"fmt"
	"strings"

	"github.com/knotapp/knot/pkg/cli/log"
	"github.com/knotapp/knot/pkg/cli/note"
)

const timeFormat = "Jan 2, 2006 3:04pm (MST)"

// NoteInfo prints a note's information
func NoteInfo(n note.Note) {
	log.Infof("note id: %s\n", n.ID)
	log.Infof("title: %s\n", n.Title)
	if len(n.Tags) > 0 {
		log.Infof("tags: %s\n", strings.Join(n.Tags, ", "))
	}
	if n.Pinned {
		log.Infof("pinned: yes\n")
	}
	if n.Deleted {
		log.Infof("deleted: yes\n")
	}
	log.Infof("version: %d\n", n.Version)
	log.Infof("modified at: %s\n", n.LastModified.Local().Format(timeFormat))

	fmt.Printf("\n------------------------content------------------------\n")
	fmt.Printf("%s", n.Body)
	fmt.Printf("\n-------------------------------------------------------\n")
}

// NoteLine prints a single listing line for a note
func NoteLine(n note.Note) {
	var markers string
	if n.Pinned {
		markers += " " + log.ColorYellow.Sprint("(pinned)")
	}
	if n.Deleted {
		markers += " " + log.ColorRed.Sprint("(deleted)")
	}

	log.Plainf("%s  %s%s\n", log.ColorGray.Sprint(shortID(n.ID)), n.Title, markers)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}
