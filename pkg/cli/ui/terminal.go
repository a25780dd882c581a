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

package ui

import (
	"bufio"
	"os"
	"strings"

	"github.com/knotapp/knot/pkg/cli/log"
	"github.com/pkg/errors"
)

// IsPipe reports whether stdin is a pipe rather than a terminal
func IsPipe() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	return fi.Mode()&os.ModeNamedPipe != 0
}

func readInput() (string, error) {
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", errors.Wrap(err, "reading stdin")
	}

	return strings.Trim(input, "\r\n"), nil
}

// Confirm prompts for user input to confirm a choice. If optimistic, an
// empty answer counts as a yes.
func Confirm(question string, optimistic bool) (bool, error) {
	var choices string
	if optimistic {
		choices = "Y/n"
	} else {
		choices = "y/N"
	}

	log.Askf("%s (%s)", question, choices)

	input, err := readInput()
	if err != nil {
		return false, errors.Wrap(err, "getting user input")
	}

	answer := strings.ToLower(strings.TrimSpace(input))
	if answer == "" {
		return optimistic, nil
	}

	return answer == "y" || answer == "yes", nil
}

// ReadStdInput grabs text from the piped stdin content
func ReadStdInput() (string, error) {
	var lines []string

	s := bufio.NewScanner(os.Stdin)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return "", errors.Wrap(err, "reading pipe")
	}

	return strings.Join(lines, "\n"), nil
}
