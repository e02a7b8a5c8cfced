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
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.chromium.org/luci/common/data/stringset"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/errors/errtag"
	"go.chromium.org/luci/common/logging"
)

// Alias is one of the reserved keywords that expand to a builder set.
type Alias int

const (
	// AliasAll expands to every known builder, after confirmation.
	AliasAll Alias = iota
	// AliasCompile expands to the compile-only builders.
	AliasCompile
	// AliasCQ expands to the commit queue builders.
	AliasCQ
	// AliasRegex expands to the builders matching an interactively
	// entered pattern.
	AliasRegex
)

// Aliases lists every reserved keyword, for usage and listing output.
var Aliases = []string{"all", "compile", "cq", "regex"}

// UnknownBuilder tags errors caused by a builder name absent from the catalog.
var UnknownBuilder = errtag.Make("not a known builder name", true)

// AliasOf classifies a token. Keywords are matched case-insensitively;
// anything else is a literal builder name.
func AliasOf(token string) (Alias, bool) {
	switch strings.ToLower(token) {
	case "all":
		return AliasAll, true
	case "compile":
		return AliasCompile, true
	case "cq":
		return AliasCQ, true
	case "regex":
		return AliasRegex, true
	}
	return 0, false
}

// Resolve expands a single -b token into a set of builder names.
//
// A literal token must name a builder in the catalog. An alias token expands
// per its rule, possibly consulting the operator through `in`. A declined
// "all" resolves to the empty set, not an error.
func Resolve(ctx context.Context, token string, cat *Catalog, in UserInput) (stringset.Set, error) {
	alias, ok := AliasOf(token)
	if !ok {
		if !cat.All.Has(token) {
			return nil, errors.Reason("unknown builder %q", token).Tag(UnknownBuilder).Err()
		}
		return stringset.NewFromSlice(token), nil
	}
	return ResolveAlias(ctx, alias, cat, in)
}

// ResolveAlias expands one alias against the catalog.
func ResolveAlias(ctx context.Context, alias Alias, cat *Catalog, in UserInput) (stringset.Set, error) {
	switch alias {
	case AliasAll:
		ok, err := in.Confirm(fmt.Sprintf("Really run a try job on all %d builders?", cat.All.Len()))
		if err != nil {
			return nil, err
		}
		if !ok {
			return stringset.New(0), nil
		}
		return cat.All.Dup(), nil

	case AliasCompile:
		out := stringset.New(0)
		cat.All.Iter(func(name string) bool {
			if strings.HasPrefix(name, compilePrefix) {
				out.Add(name)
			}
			return true
		})
		return out, nil

	case AliasCQ:
		return cat.CQ.Dup(), nil

	case AliasRegex:
		return resolveRegex(ctx, cat, in)
	}
	panic(fmt.Sprintf("impossible alias %d", alias))
}

// resolveRegex runs the interactive refine loop: read a pattern, show the
// matching builders, and offer to try a different pattern. A malformed
// pattern restarts the loop instead of aborting.
func resolveRegex(ctx context.Context, cat *Catalog, in UserInput) (stringset.Set, error) {
	for {
		pat, err := in.ReadLine("Enter a builder name regex: ")
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(strings.TrimSpace(pat))
		if err != nil {
			logging.Warningf(ctx, "Bad regex %q: %s", strings.TrimSpace(pat), err)
			continue
		}
		matched := stringset.New(0)
		cat.All.Iter(func(name string) bool {
			if re.MatchString(name) {
				matched.Add(name)
			}
			return true
		})
		names := matched.ToSlice()
		sort.Strings(names)
		logging.Infof(ctx, "%d builders match:", len(names))
		for _, n := range names {
			logging.Infof(ctx, "  %s", n)
		}
		again, err := in.Confirm("Enter a different regex?")
		if err != nil {
			return nil, err
		}
		if !again {
			return matched, nil
		}
	}
}
