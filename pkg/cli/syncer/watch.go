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

package syncer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knotapp/knot/pkg/cli/consts"
	"github.com/knotapp/knot/pkg/cli/log"
	"github.com/pkg/errors"
	"github.com/radovskyb/watcher"
	"github.com/robfig/cron"
)

// RunEvery schedules a synchronization round at the given interval. The
// returned runner keeps firing until Stop is called on it. A tick that
// arrives while a round is still running is skipped by the in-flight guard.
func (s *Syncer) RunEvery(interval time.Duration, onResult func(Result)) (*cron.Cron, error) {
	c := cron.New()

	err := c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		res := s.Sync()
		if errors.Is(res.Err, ErrInFlight) {
			log.Debug("skipping scheduled sync: %s\n", res.Err)
			return
		}

		onResult(res)
	})
	if err != nil {
		return nil, errors.Wrap(err, "scheduling sync")
	}

	c.Start()

	return c, nil
}

// WatchFolder runs a synchronization round whenever the snapshot or a
// conflicting copy changes inside the shared folder. It polls rather than
// relying on filesystem notifications, which cloud-provider mounts do not
// reliably deliver. Close the returned watcher to stop.
func (s *Syncer) WatchFolder(pollInterval time.Duration, onResult func(Result)) (*watcher.Watcher, error) {
	if err := s.checkDir(); err != nil {
		return nil, err
	}

	w := watcher.New()
	w.FilterOps(watcher.Create, watcher.Write, watcher.Rename, watcher.Move)

	if err := w.Add(s.dir); err != nil {
		return nil, errors.Wrapf(err, "watching %s", s.dir)
	}

	go func() {
		for {
			select {
			case ev := <-w.Event:
				name := filepath.Base(ev.Path)
				if !strings.HasPrefix(name, consts.NotesFileBase) || !strings.HasSuffix(name, ".json") {
					continue
				}

				log.Debug("change detected in sync folder: %s\n", name)

				res := s.Sync()
				if errors.Is(res.Err, ErrInFlight) {
					continue
				}

				onResult(res)
			case err := <-w.Error:
				log.Warnf("watching sync folder: %s\n", err)
			case <-w.Closed:
				return
			}
		}
	}()

	go func() {
		if err := w.Start(pollInterval); err != nil {
			log.Warnf("starting sync folder watcher: %s\n", err)
		}
	}()

	return w, nil
}
