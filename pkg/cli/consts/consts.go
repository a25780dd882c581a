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

// Package consts provides definitions of constants
package consts

var (
	// KnotDirName is the name of the directory containing knot files
	KnotDirName = "knot"
	// NotesFileName is the filename for the note collection document, both
	// in the local data directory and in the shared sync folder
	NotesFileName = "notes.json"
	// NotesFileBase is the base of NotesFileName without the extension. The
	// conflicting-copy scanner matches stray snapshot files against it.
	NotesFileBase = "notes"
	// TmpFileSuffix is the suffix appended to a file while it is being
	// written, before the atomic rename into place
	TmpFileSuffix = ".tmp"
	// CorruptFileSuffix is the suffix under which an unreadable local
	// collection file is preserved for forensics
	CorruptFileSuffix = ".corrupt"
	// TmpContentFileBase is the base for the filename for a temporary content
	TmpContentFileBase = "KNOT_TMPCONTENT"
	// TmpContentFileExt is the extension for the temporary content file
	TmpContentFileExt = "md"
	// ConfigFilename is the name of the config file
	ConfigFilename = "knotrc"
)
