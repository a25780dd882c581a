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

// Package infra initializes the knot environment
package infra

import (
	"fmt"
	"os"

	"github.com/knotapp/knot/pkg/cli/config"
	"github.com/knotapp/knot/pkg/cli/consts"
	"github.com/knotapp/knot/pkg/cli/context"
	"github.com/knotapp/knot/pkg/cli/log"
	"github.com/knotapp/knot/pkg/cli/store"
	"github.com/knotapp/knot/pkg/cli/utils"
	"github.com/knotapp/knot/pkg/clock"
	"github.com/knotapp/knot/pkg/dirs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RunEFunc is a function type of knot commands
type RunEFunc func(*cobra.Command, []string) error

func getDefaultEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	return "vi"
}

// initConfigFile creates a config file with defaults if one does not exist
func initConfigFile(ctx context.KnotCtx) error {
	path := config.GetPath(ctx)

	ok, err := utils.FileExists(path)
	if err != nil {
		return errors.Wrap(err, "checking if config exists")
	}
	if ok {
		return nil
	}

	cf := config.Config{
		Editor: getDefaultEditor(),
	}

	if err := config.Write(ctx, cf); err != nil {
		return errors.Wrap(err, "writing a default config")
	}

	return nil
}

func initDirs(ctx context.KnotCtx) error {
	if err := utils.EnsureDir(fmt.Sprintf("%s/%s", ctx.Paths.Config, consts.KnotDirName)); err != nil {
		return errors.Wrap(err, "creating the config directory")
	}
	if err := utils.EnsureDir(fmt.Sprintf("%s/%s", ctx.Paths.Data, consts.KnotDirName)); err != nil {
		return errors.Wrap(err, "creating the data directory")
	}
	if err := utils.EnsureDir(ctx.Paths.Cache); err != nil {
		return errors.Wrap(err, "creating the cache directory")
	}

	return nil
}

// Init initializes the knot environment and returns a new knot context
func Init(versionTag string) (*context.KnotCtx, error) {
	ctx := context.KnotCtx{
		Paths: context.Paths{
			Home:   dirs.Home,
			Config: dirs.ConfigHome,
			Data:   dirs.DataHome,
			Cache:  dirs.CacheHome,
		},
		Version: versionTag,
		Clock:   clock.New(),
	}

	if err := initDirs(ctx); err != nil {
		return nil, errors.Wrap(err, "initializing directories")
	}
	if err := initConfigFile(ctx); err != nil {
		return nil, errors.Wrap(err, "initializing config")
	}

	cf, err := config.Read(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	ctx.Editor = cf.Editor
	ctx.SyncDir = cf.SyncDir
	ctx.AutoSyncInterval = cf.AutoSyncInterval

	storePath := fmt.Sprintf("%s/%s/%s", ctx.Paths.Data, consts.KnotDirName, consts.NotesFileName)
	s, err := store.Open(storePath, ctx.Clock)
	if err != nil {
		return nil, errors.Wrap(err, "opening the note store")
	}
	ctx.Store = s

	log.Debug("context: %+v\n", ctx.Paths)

	return &ctx, nil
}
