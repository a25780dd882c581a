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

package remove

import (
	"fmt"

	"github.com/knotapp/knot/pkg/cli/context"
	"github.com/knotapp/knot/pkg/cli/infra"
	"github.com/knotapp/knot/pkg/cli/log"
	"github.com/knotapp/knot/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var yesFlag bool

var example = `
 * Remove a note
 knot remove 3a1f

 * Remove without a confirmation prompt
 knot remove 3a1f -y`

// NewCmd returns a new remove command
func NewCmd(ctx context.KnotCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <id>",
		Short:   "Remove a note",
		Aliases: []string{"rm", "d", "delete"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&yesFlag, "yes", "y", false, "remove without asking for confirmation")

	return cmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Missing note id")
	}

	return nil
}

func newRun(ctx context.KnotCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		n, err := ctx.Store.FindByIDPrefix(args[0])
		if err != nil {
			return errors.Wrap(err, "finding note")
		}

		if !yesFlag {
			ok, err := ui.Confirm(fmt.Sprintf("remove '%s'?", n.Title), false)
			if err != nil {
				return errors.Wrap(err, "getting confirmation")
			}
			if !ok {
				log.Warnf("aborted by user\n")
				return nil
			}
		}

		if err := ctx.Store.SoftDelete(n.ID); err != nil {
			return errors.Wrap(err, "removing note")
		}

		log.Successf("removed the note %s\n", n.ID[:8])

		return nil
	}
}
