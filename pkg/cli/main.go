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

package main

import (
	"os"

	"github.com/knotapp/knot/pkg/cli/infra"
	"github.com/knotapp/knot/pkg/cli/log"
	"github.com/pkg/errors"

	// commands
	"github.com/knotapp/knot/pkg/cli/cmd/add"
	"github.com/knotapp/knot/pkg/cli/cmd/edit"
	"github.com/knotapp/knot/pkg/cli/cmd/ls"
	"github.com/knotapp/knot/pkg/cli/cmd/remote"
	"github.com/knotapp/knot/pkg/cli/cmd/remove"
	"github.com/knotapp/knot/pkg/cli/cmd/root"
	"github.com/knotapp/knot/pkg/cli/cmd/sync"
	"github.com/knotapp/knot/pkg/cli/cmd/version"
	"github.com/knotapp/knot/pkg/cli/cmd/view"
)

// versionTag is populated during link time
var versionTag = "master"

func main() {
	ctx, err := infra.Init(versionTag)
	if err != nil {
		panic(errors.Wrap(err, "initializing context"))
	}

	root.Register(add.NewCmd(*ctx))
	root.Register(edit.NewCmd(*ctx))
	root.Register(remove.NewCmd(*ctx))
	root.Register(ls.NewCmd(*ctx))
	root.Register(view.NewCmd(*ctx))
	root.Register(sync.NewCmd(*ctx))
	root.Register(remote.NewCmd(*ctx))
	root.Register(version.NewCmd(*ctx))

	if err := root.Execute(); err != nil {
		log.Errorf("%s\n", err.Error())
		os.Exit(1)
	}
}
