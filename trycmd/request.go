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

package trycmd

import (
	"context"
	"strings"

	"go.chromium.org/luci/common/data/stringset"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/errors/errtag"
)

// CheckoutKind classifies the local working copy.
type CheckoutKind int

const (
	// Centralized checkouts have a single linear history and identify the
	// pending change by a changelist name.
	Centralized CheckoutKind = iota
	// Distributed checkouts carry the pending change on a branch with an
	// upstream tracking reference.
	Distributed
)

func (k CheckoutKind) String() string {
	if k == Centralized {
		return "centralized"
	}
	return "distributed"
}

// ArgumentError tags errors caused by a malformed or incomplete request.
var ArgumentError = errtag.Make("the request arguments are invalid", true)

// Request is a validated try request, ready for submission.
type Request struct {
	// Builders is never empty.
	Builders stringset.Set
	// Changelist names the pending change; set iff the checkout is
	// centralized.
	Changelist string
	// Revision to build against, verbatim from the command line. Empty
	// means the farm picks.
	Revision string
}

// Options are the raw command line values, before validation.
type Options struct {
	// Bots is the -b/--bot value, comma separated. Empty when the flag
	// was absent.
	Bots string
	// Revision is the -r value.
	Revision string
	// Positionals are the bare arguments left after flag parsing.
	Positionals []string
	// Kind of the local checkout.
	Kind CheckoutKind
}

// BuildRequest resolves and validates opts into a Request.
//
// Aliases expand standalone: an alias combined with any other token in the
// same -b value is an error, never a union. At most one positional argument
// (the changelist) is accepted, and it is required for centralized checkouts.
func BuildRequest(ctx context.Context, opts Options, cat *Catalog, in UserInput) (*Request, error) {
	if opts.Bots == "" {
		return nil, errors.Reason("no builders specified; use -b, or -l to list them").Tag(ArgumentError).Err()
	}
	var tokens []string
	for _, tok := range strings.Split(opts.Bots, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return nil, errors.Reason("no builders specified; use -b, or -l to list them").Tag(ArgumentError).Err()
	}
	if len(tokens) > 1 {
		for _, tok := range tokens {
			if _, ok := AliasOf(tok); ok {
				return nil, errors.Reason("alias %q cannot be combined with other builders", tok).Tag(ArgumentError).Err()
			}
		}
	}

	builders := stringset.New(len(tokens))
	for _, tok := range tokens {
		set, err := Resolve(ctx, tok, cat, in)
		if err != nil {
			return nil, err
		}
		builders = builders.Union(set)
	}

	if len(opts.Positionals) > 1 {
		return nil, errors.Reason("expected at most one changelist argument, got %d", len(opts.Positionals)).Tag(ArgumentError).Err()
	}
	var changelist string
	if len(opts.Positionals) == 1 {
		changelist = opts.Positionals[0]
	}
	if opts.Kind == Centralized && changelist == "" {
		return nil, errors.Reason("a changelist name is required for a centralized checkout").Tag(ArgumentError).Err()
	}
	if builders.Len() == 0 {
		return nil, errors.Reason("no builders selected").Tag(ArgumentError).Err()
	}
	return &Request{Builders: builders, Changelist: changelist, Revision: opts.Revision}, nil
}
