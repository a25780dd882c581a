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

package ls

import (
	"sort"

	"github.com/knotapp/knot/pkg/cli/context"
	"github.com/knotapp/knot/pkg/cli/infra"
	"github.com/knotapp/knot/pkg/cli/log"
	"github.com/knotapp/knot/pkg/cli/note"
	"github.com/knotapp/knot/pkg/cli/output"
	"github.com/spf13/cobra"
)

var allFlag bool

var example = `
 * List notes
 knot ls

 * List notes including tombstones of removed notes
 knot ls --all`

// NewCmd returns a new ls command
func NewCmd(ctx context.KnotCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Short:   "List notes",
		Aliases: []string{"l", "list"},
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&allFlag, "all", "a", false, "include removed notes awaiting cleanup")

	return cmd
}

func newRun(ctx context.KnotCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		var notes []note.Note
		if allFlag {
			for _, n := range ctx.Store.ListAll() {
				notes = append(notes, n)
			}
			sort.Slice(notes, func(i, j int) bool {
				if !notes[i].LastModified.Equal(notes[j].LastModified) {
					return notes[i].LastModified.After(notes[j].LastModified)
				}
				return notes[i].ID < notes[j].ID
			})
		} else {
			notes = ctx.Store.ListActive()
		}

		if len(notes) == 0 {
			log.Plain("no notes\n")
			return nil
		}

		for _, n := range notes {
			output.NoteLine(n)
		}

		return nil
	}
}
