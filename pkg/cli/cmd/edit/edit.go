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

package edit

import (
	"os"
	"strings"

	"github.com/knotapp/knot/pkg/cli/context"
	"github.com/knotapp/knot/pkg/cli/infra"
	"github.com/knotapp/knot/pkg/cli/log"
	"github.com/knotapp/knot/pkg/cli/store"
	"github.com/knotapp/knot/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var titleFlag string
var contentFlag string
var tagsFlag []string
var pinFlag bool
var unpinFlag bool

var example = `
 * Edit the body of a note in $EDITOR
 knot edit 3a1f

 * Rename a note
 knot edit 3a1f -t "New title"

 * Replace the body inline
 knot edit 3a1f -c "updated body"

 * Pin a note so it sorts first
 knot edit 3a1f --pin`

// NewCmd returns a new edit command
func NewCmd(ctx context.KnotCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Edit a note",
		Aliases: []string{"e"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&titleFlag, "title", "t", "", "a new title for the note")
	f.StringVarP(&contentFlag, "content", "c", "", "a new body for the note")
	f.StringSliceVar(&tagsFlag, "tags", nil, "replace the note's tags")
	f.BoolVar(&pinFlag, "pin", false, "pin the note")
	f.BoolVar(&unpinFlag, "unpin", false, "unpin the note")

	return cmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Missing note id")
	}
	if pinFlag && unpinFlag {
		return errors.New("--pin and --unpin are mutually exclusive")
	}

	return nil
}

func newRun(ctx context.KnotCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		n, err := ctx.Store.FindByIDPrefix(args[0])
		if err != nil {
			return errors.Wrap(err, "finding note")
		}

		var f store.Fields
		if cmd.Flags().Changed("title") {
			f.Title = &titleFlag
		}
		if cmd.Flags().Changed("content") {
			f.Body = &contentFlag
		}
		if cmd.Flags().Changed("tags") {
			f.Tags = &tagsFlag
		}
		if pinFlag {
			t := true
			f.Pinned = &t
		}
		if unpinFlag {
			t := false
			f.Pinned = &t
		}

		// with no field flags, open the current body in the editor
		if f.Title == nil && f.Body == nil && f.Tags == nil && f.Pinned == nil {
			fpath, err := ui.GetTmpContentPath(ctx)
			if err != nil {
				return errors.Wrap(err, "getting temporary content path")
			}
			if err := os.WriteFile(fpath, []byte(n.Body), 0644); err != nil {
				return errors.Wrap(err, "preparing temporary content file")
			}

			body, err := ui.GetEditorInput(ctx, fpath)
			if err != nil {
				return errors.Wrap(err, "getting editor input")
			}
			body = strings.TrimRight(body, "\n")
			f.Body = &body
		}

		if err := ctx.Store.Update(n.ID, f); err != nil {
			return errors.Wrap(err, "updating note")
		}

		log.Successf("edited the note %s\n", n.ID[:8])

		return nil
	}
}
