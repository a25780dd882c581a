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

package view

import (
	"fmt"
	"strings"

	"github.com/knotapp/knot/pkg/cli/context"
	"github.com/knotapp/knot/pkg/cli/infra"
	"github.com/knotapp/knot/pkg/cli/log"
	"github.com/knotapp/knot/pkg/cli/output"
	"github.com/knotapp/knot/pkg/cli/utils/diff"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var contentOnlyFlag bool
var diffFlag bool

var example = `
 * View a note
 knot view 3a1f

 * Print only the note body, e.g. to pipe it elsewhere
 knot view 3a1f --content-only

 * Compare the bodies of two notes, such as a note and its
 * conflicting copy produced by sync
 knot view --diff 3a1f 9c2e`

// NewCmd returns a new view command
func NewCmd(ctx context.KnotCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "view <id>",
		Short:   "View a note",
		Aliases: []string{"v"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVar(&contentOnlyFlag, "content-only", false, "print the note body only")
	f.BoolVar(&diffFlag, "diff", false, "compare the bodies of two notes")

	return cmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if diffFlag {
		if len(args) != 2 {
			return errors.New("--diff requires exactly two note ids")
		}
		return nil
	}
	if len(args) != 1 {
		return errors.New("Missing note id")
	}

	return nil
}

func newRun(ctx context.KnotCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if diffFlag {
			return printDiff(ctx, args[0], args[1])
		}

		n, err := ctx.Store.FindByIDPrefix(args[0])
		if err != nil {
			return errors.Wrap(err, "finding note")
		}

		if contentOnlyFlag {
			fmt.Println(n.Body)
			return nil
		}

		output.NoteInfo(n)

		return nil
	}
}

func printDiff(ctx context.KnotCtx, id1, id2 string) error {
	n1, err := ctx.Store.FindByIDPrefix(id1)
	if err != nil {
		return errors.Wrapf(err, "finding note %s", id1)
	}
	n2, err := ctx.Store.FindByIDPrefix(id2)
	if err != nil {
		return errors.Wrapf(err, "finding note %s", id2)
	}

	diffs := diff.Do(n1.Body+"\n", n2.Body+"\n")
	for _, d := range diffs {
		lines := strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n")

		for _, line := range lines {
			switch d.Type {
			case diff.DiffInsert:
				log.ColorGreen.Printf("+ %s\n", line)
			case diff.DiffDelete:
				log.ColorRed.Printf("- %s\n", line)
			case diff.DiffEqual:
				fmt.Printf("  %s\n", line)
			}
		}
	}

	return nil
}
