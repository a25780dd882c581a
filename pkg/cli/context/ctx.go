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

// Package context defines knot context
package context

import (
	"github.com/knotapp/knot/pkg/cli/store"
	"github.com/knotapp/knot/pkg/clock"
)

// Paths contain directory definitions
type Paths struct {
	Home   string
	Config string
	Data   string
	Cache  string
}

// KnotCtx is a context holding the information of the current runtime.
// It is built once at startup and passed explicitly into every command;
// there is no ambient global state.
type KnotCtx struct {
	Paths            Paths
	Version          string
	Store            *store.Store
	Clock            clock.Clock
	Editor           string
	SyncDir          string
	AutoSyncInterval string
}
