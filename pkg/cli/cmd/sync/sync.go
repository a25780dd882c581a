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

package sync

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/knotapp/knot/pkg/cli/context"
	"github.com/knotapp/knot/pkg/cli/infra"
	"github.com/knotapp/knot/pkg/cli/log"
	"github.com/knotapp/knot/pkg/cli/syncer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var watchFlag bool
var everyFlag time.Duration

// watchPollInterval is how often the sync folder is polled for changes
// while watching
const watchPollInterval = 2 * time.Second

var example = `
 * Sync once with the configured sync folder
 knot sync

 * Keep syncing on a fixed interval
 knot sync --every 5m

 * Keep watching the sync folder and sync when it changes
 knot sync --watch`

// NewCmd returns a new sync command
func NewCmd(ctx context.KnotCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync",
		Short:   "Sync notes with the sync folder",
		Aliases: []string{"s"},
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&watchFlag, "watch", "w", false, "keep running and sync when the folder changes")
	f.DurationVarP(&everyFlag, "every", "e", 0, "keep running and sync on the given interval")

	return cmd
}

func newRun(ctx context.KnotCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		s := syncer.New(ctx.Store, ctx.SyncDir, ctx.Clock)

		// autoSyncInterval in the config makes a bare `knot sync` periodic
		interval := everyFlag
		if interval == 0 && !watchFlag && ctx.AutoSyncInterval != "" {
			d, err := time.ParseDuration(ctx.AutoSyncInterval)
			if err != nil {
				return errors.Wrap(err, "parsing autoSyncInterval from config")
			}
			interval = d
		}

		if !watchFlag && interval == 0 {
			return reportResult(s.Sync())
		}

		log.Infof("syncing with %s. press ctrl-c to stop.\n", ctx.SyncDir)

		onResult := func(r syncer.Result) {
			if err := reportResult(r); err != nil {
				log.Errorf("sync failed: %v\n", err)
			}
		}

		// sync immediately so the session starts converged
		onResult(s.Sync())

		if watchFlag {
			w, err := s.WatchFolder(watchPollInterval, onResult)
			if err != nil {
				return errors.Wrap(err, "watching sync folder")
			}
			defer w.Close()
		}
		if interval > 0 {
			c, err := s.RunEvery(interval, onResult)
			if err != nil {
				return errors.Wrap(err, "scheduling sync")
			}
			defer c.Stop()
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		log.Info("stopped\n")

		return nil
	}
}

func reportResult(r syncer.Result) error {
	if r.Err != nil {
		if errors.Is(r.Err, syncer.ErrInFlight) {
			log.Debug("skipping sync: another sync is in flight\n")
			return nil
		}
		return r.Err
	}

	log.Successf("synced %d notes\n", r.ActiveCount)
	if r.ConflictCount > 0 {
		log.Warnf("%d conflicting copies were created. review them with 'knot ls'.\n", r.ConflictCount)
	}
	if r.Folded > 0 {
		log.Debug("folded %d stray snapshot files\n", r.Folded)
	}
	if r.Purged > 0 {
		log.Debug("purged %d expired tombstones\n", r.Purged)
	}

	return nil
}
