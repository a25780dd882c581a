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

package add

import (
	"strings"

	"github.com/knotapp/knot/pkg/cli/context"
	"github.com/knotapp/knot/pkg/cli/infra"
	"github.com/knotapp/knot/pkg/cli/log"
	"github.com/knotapp/knot/pkg/cli/note"
	"github.com/knotapp/knot/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var contentFlag string
var tagsFlag []string

var example = `
 * Add a note with the given title, editing the body in $EDITOR
 knot add "Grocery list"

 * Add a note with an inline body
 knot add "Grocery list" -c "milk, eggs"

 * Pipe the body from stdin
 cat list.md | knot add "Grocery list"`

// NewCmd returns a new add command
func NewCmd(ctx context.KnotCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <title>",
		Short:   "Add a new note",
		Aliases: []string{"a", "n", "new"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&contentFlag, "content", "c", "", "the note body")
	f.StringSliceVarP(&tagsFlag, "tags", "t", nil, "tags for the note")

	return cmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Missing title")
	}

	return nil
}

func newRun(ctx context.KnotCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		title := strings.TrimSpace(args[0])
		body := contentFlag

		if body == "" {
			if ui.IsPipe() {
				b, err := ui.ReadStdInput()
				if err != nil {
					return errors.Wrap(err, "reading stdin")
				}
				body = b
			} else {
				fpath, err := ui.GetTmpContentPath(ctx)
				if err != nil {
					return errors.Wrap(err, "getting temporary content path")
				}
				b, err := ui.GetEditorInput(ctx, fpath)
				if err != nil {
					return errors.Wrap(err, "getting editor input")
				}
				body = b
			}
		}

		n, err := note.New(ctx.Clock, title, strings.TrimRight(body, "\n"), tagsFlag)
		if err != nil {
			return errors.Wrap(err, "creating note")
		}
		if err := ctx.Store.Add(n); err != nil {
			return errors.Wrap(err, "adding note")
		}

		log.Successf("created note %s\n", n.ID[:8])

		return nil
	}
}
