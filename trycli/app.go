// Copyright 2025 The LUCI Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package trycli

import (
	"context"
	"os"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/flag/fixflagpos"
	"go.chromium.org/luci/common/logging/gologger"
	"go.chromium.org/luci/common/system/signals"
)

// Params carries the deployment-specific defaults of the tool.
type Params struct {
	// AgentsURL serves the build master's JSON agent listing.
	AgentsURL string
	// CQURL serves the JSON list of commit queue builders.
	CQURL string
}

var logCfg = gologger.LoggerConfig{
	Out: os.Stderr,
}

func application(p Params) *cli.Application {
	return &cli.Application{
		Name:  "trysubmit",
		Title: "Submits the pending change as a try job on the build farm.",
		Context: func(ctx context.Context) context.Context {
			ctx, cancel := context.WithCancel(logCfg.Use(ctx))
			signals.HandleInterrupt(cancel)
			return ctx
		},
		Commands: []*subcommands.Command{
			cmdTry(p),

			{}, // a separator
			subcommands.CmdHelp,
		},
	}
}

// Main runs the trysubmit application and returns its exit code.
//
// The historical grammar is flag first (`trysubmit -b Linux,Mac mycl`), so a
// leading argument that is not a known command selects `try`.
func Main(p Params, args []string) int {
	if len(args) == 0 || !knownCommand(args[0]) {
		args = append([]string{"try"}, args...)
	}
	return subcommands.Run(application(p), fixflagpos.FixSubcommands(args))
}

func knownCommand(name string) bool {
	switch name {
	case "try", "help":
		return true
	}
	return false
}
