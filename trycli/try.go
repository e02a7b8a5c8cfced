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
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"

	"go.chromium.org/trysubmit/trycmd"
)

func cmdTry(p Params) *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "try [-b <bot>[,<bot>...]] [-r <revision>] [<changelist>]",
		ShortDesc: "submits a try request to the build farm",
		LongDesc: `Submits a try request for the pending change to the build farm.

Each -b token is either a builder name or one of the aliases
  all      every known builder (asks for confirmation first)
  compile  the compile-only builders
  cq       the commit queue builders
  regex    builders matching an interactively entered pattern
An alias expands on its own and cannot be combined with other tokens.

On a centralized (svn) checkout the changelist argument is required and names
the pending change. On a distributed (git) checkout the diff against the
upstream tracking branch is submitted instead.`,
		CommandRun: func() subcommands.CommandRun {
			r := &tryRun{}
			r.initFlags(p)
			return r
		},
	}
}

// onceValue is a string flag that may be set at most once, so a second
// -b/--bot does not silently override the first.
type onceValue struct {
	set bool
	val string
}

func (v *onceValue) String() string { return v.val }

func (v *onceValue) Set(s string) error {
	if v.set {
		return errors.New("may only be given once")
	}
	v.set, v.val = true, s
	return nil
}

type tryRun struct {
	subcommands.CommandRunBase

	bots      onceValue
	revision  string
	listBots  bool
	agentsURL string
	cqURL     string

	// Injection points for tests; Run falls back to the real thing.
	out        io.Writer
	input      trycmd.UserInput
	source     trycmd.CatalogSource
	detectKind func() (trycmd.CheckoutKind, error)
	submitter  func(trycmd.CheckoutKind) trycmd.Submitter
}

func (r *tryRun) initFlags(p Params) {
	r.Flags.Var(&r.bots, "b", "Comma separated builders to try, or a single alias (all, compile, cq, regex). May only be given once.")
	r.Flags.Var(&r.bots, "bot", "Alias for -b.")
	r.Flags.StringVar(&r.revision, "r", "", "Revision to build the change against. Defaults to the farm's choice.")
	r.Flags.BoolVar(&r.listBots, "l", false, "List the known builders and aliases and exit.")
	r.Flags.BoolVar(&r.listBots, "list_bots", false, "Alias for -l.")
	r.Flags.StringVar(&r.agentsURL, "agents_url", p.AgentsURL, "URL of the build master's agent listing.")
	r.Flags.StringVar(&r.cqURL, "cq_url", p.CQURL, "URL of the commit queue builder list.")
}

func (r *tryRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, r, env)
	if err := r.run(ctx, args); err != nil {
		logging.Errorf(ctx, "%s", err)
		if trycmd.ArgumentError.In(err) || trycmd.UnknownBuilder.In(err) {
			logging.Errorf(ctx, "Run `trysubmit help try` for usage.")
		}
		return 1
	}
	return 0
}

func (r *tryRun) run(ctx context.Context, positionals []string) error {
	source := r.source
	if source == nil {
		source = &trycmd.HTTPSource{
			Client:    &http.Client{Timeout: time.Minute},
			AgentsURL: r.agentsURL,
			CQURL:     r.cqURL,
		}
	}
	cat, err := trycmd.FetchCatalog(ctx, source)
	if err != nil {
		return err
	}

	if r.listBots {
		r.printCatalog(cat)
		return nil
	}

	detect := r.detectKind
	if detect == nil {
		detect = func() (trycmd.CheckoutKind, error) {
			cwd, err := os.Getwd()
			if err != nil {
				return 0, errors.Annotate(err, "getting the working directory").Err()
			}
			return trycmd.DetectCheckoutKind(cwd)
		}
	}
	kind, err := detect()
	if err != nil {
		return err
	}

	input := r.input
	if input == nil {
		input = trycmd.TTYInput{}
	}
	req, err := trycmd.BuildRequest(ctx, trycmd.Options{
		Bots:        r.bots.String(),
		Revision:    r.revision,
		Positionals: positionals,
		Kind:        kind,
	}, cat, input)
	if err != nil {
		return err
	}

	submitter := r.submitter
	if submitter == nil {
		submitter = defaultSubmitter
	}
	return submitter(kind).Submit(ctx, req)
}

func defaultSubmitter(kind trycmd.CheckoutKind) trycmd.Submitter {
	run := trycmd.SystemRunner{}
	if kind == trycmd.Centralized {
		return trycmd.SvnSubmitter{Checkout: trycmd.SvnCheckout{Run: run}, Run: run}
	}
	return trycmd.GitSubmitter{Checkout: trycmd.GitCheckout{Run: run}, Run: run}
}

func (r *tryRun) printCatalog(cat *trycmd.Catalog) {
	out := r.out
	if out == nil {
		out = os.Stdout
	}
	all := cat.All.ToSlice()
	sort.Strings(all)
	fmt.Fprintln(out, "Builders:")
	for _, name := range all {
		fmt.Fprintf(out, "  %s\n", name)
	}
	fmt.Fprintln(out, "Aliases:")
	for _, a := range trycmd.Aliases {
		fmt.Fprintf(out, "  %s\n", a)
	}
	cq := cat.CQ.ToSlice()
	sort.Strings(cq)
	fmt.Fprintln(out, "Commit queue builders:")
	for _, name := range cq {
		fmt.Fprintf(out, "  %s\n", name)
	}
}
