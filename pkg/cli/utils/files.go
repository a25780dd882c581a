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

package utils

import (
	"io"
	"os"

	"github.com/knotapp/knot/pkg/cli/consts"
	"github.com/pkg/errors"
)

// FileExists checks if the file exists at the given path
func FileExists(filepath string) (bool, error) {
	_, err := os.Stat(filepath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}

	return false, errors.Wrap(err, "getting file info")
}

// EnsureDir creates a directory if it doesn't exist.
// Returns nil if the directory already exists or was successfully created.
func EnsureDir(path string) error {
	ok, err := FileExists(path)
	if err != nil {
		return errors.Wrapf(err, "checking if dir exists at %s", path)
	}
	if ok {
		return nil
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Wrapf(err, "creating directory at %s", path)
	}

	return nil
}

// AtomicWriteFile writes the given data to a temporary file next to the
// destination and renames it into place, so that a reader never observes a
// half-written file and a crash mid-write cannot corrupt the previous content.
func AtomicWriteFile(path string, data []byte) error {
	tmpPath := path + consts.TmpFileSuffix

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return errors.Wrapf(err, "writing temporary file at %s", tmpPath)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// best effort cleanup; the scanner skips .tmp files anyway
		os.Remove(tmpPath)
		return errors.Wrapf(err, "replacing %s", path)
	}

	return nil
}

// CopyFile copies a file from the src to dest
func CopyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "opening the input file")
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(err, "creating the output file")
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrap(err, "copying the file content")
	}

	if err = out.Sync(); err != nil {
		out.Close()
		return errors.Wrap(err, "flushing the output file to disk")
	}

	if err = out.Close(); err != nil {
		return errors.Wrap(err, "closing the output file")
	}

	return nil
}
