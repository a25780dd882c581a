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

package remote

import (
	"os"
	"path/filepath"

	"github.com/knotapp/knot/pkg/cli/config"
	"github.com/knotapp/knot/pkg/cli/context"
	"github.com/knotapp/knot/pkg/cli/infra"
	"github.com/knotapp/knot/pkg/cli/log"
	"github.com/knotapp/knot/pkg/cli/snapshot"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * Show the configured sync folder
 knot remote

 * Point the sync folder at a cloud-synced directory
 knot remote ~/OneDrive/knot`

// NewCmd returns a new remote command
func NewCmd(ctx context.KnotCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remote [path]",
		Short:   "Show or set the sync folder",
		Example: example,
		RunE:    newRun(ctx),
	}

	return cmd
}

func newRun(ctx context.KnotCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return show(ctx)
		}

		return set(ctx, args[0])
	}
}

func show(ctx context.KnotCtx) error {
	if ctx.SyncDir == "" {
		log.Plain("no sync folder configured. set one with 'knot remote <path>'.\n")
		return nil
	}

	log.Plainf("sync folder: %s\n", ctx.SyncDir)

	doc, err := snapshot.Load(snapshot.Path(ctx.SyncDir))
	if err != nil {
		if errors.Is(err, snapshot.ErrCorrupt) {
			log.Warnf("the sync folder snapshot is corrupt. it will be rewritten on the next sync from another device.\n")
			return nil
		}
		return errors.Wrap(err, "reading sync folder snapshot")
	}
	if doc == nil {
		log.Plain("the sync folder has not been synced to yet\n")
		return nil
	}

	log.Plainf("last sync: %s\n", doc.Meta.LastSync.Local().Format("2006-01-02 15:04:05"))
	log.Plainf("notes in snapshot: %d\n", doc.Meta.Count)

	return nil
}

func set(ctx context.KnotCtx, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "resolving path")
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return errors.Wrapf(err, "checking sync folder at %s", abs)
	}
	if !fi.IsDir() {
		return errors.Errorf("%s is not a directory", abs)
	}

	cf, err := config.Read(ctx)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}

	cf.SyncDir = abs
	if err := config.Write(ctx, cf); err != nil {
		return errors.Wrap(err, "writing config")
	}

	log.Successf("sync folder set to %s\n", abs)

	return nil
}
