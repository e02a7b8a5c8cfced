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
	"testing"

	"go.chromium.org/luci/common/testing/ftt"
	"go.chromium.org/luci/common/testing/truth/assert"
	"go.chromium.org/luci/common/testing/truth/should"
)

func TestBuildRequest(t *testing.T) {
	t.Parallel()

	ftt.Run(`BuildRequest`, t, func(t *ftt.Test) {
		ctx := context.Background()
		cat := testCatalog()

		t.Run(`literals on a centralized checkout`, func(t *ftt.Test) {
			req, err := BuildRequest(ctx, Options{
				Bots:        "Linux,Mac",
				Positionals: []string{"mycl"},
				Kind:        Centralized,
			}, cat, &ScriptedInput{})
			assert.Loosely(t, err, should.BeNil)
			assert.Loosely(t, sorted(req.Builders.ToSlice()), should.Resemble([]string{"Linux", "Mac"}))
			assert.Loosely(t, req.Changelist, should.Equal("mycl"))
			assert.Loosely(t, req.Revision, should.BeEmpty)
		})

		t.Run(`compile alias`, func(t *ftt.Test) {
			req, err := BuildRequest(ctx, Options{Bots: "compile", Kind: Distributed}, cat, &ScriptedInput{})
			assert.Loosely(t, err, should.BeNil)
			assert.Loosely(t, req.Builders.ToSlice(), should.Resemble([]string{"Build-Linux"}))
		})

		t.Run(`cq alias`, func(t *ftt.Test) {
			req, err := BuildRequest(ctx, Options{Bots: "cq", Kind: Distributed}, cat, &ScriptedInput{})
			assert.Loosely(t, err, should.BeNil)
			assert.Loosely(t, req.Builders.ToSlice(), should.Resemble([]string{"Linux"}))
		})

		t.Run(`revision is carried verbatim`, func(t *ftt.Test) {
			req, err := BuildRequest(ctx, Options{Bots: "Win", Revision: "r123", Kind: Distributed}, cat, &ScriptedInput{})
			assert.Loosely(t, err, should.BeNil)
			assert.Loosely(t, req.Revision, should.Equal("r123"))
		})

		t.Run(`no -b at all`, func(t *ftt.Test) {
			_, err := BuildRequest(ctx, Options{Positionals: []string{"mycl"}, Kind: Centralized}, cat, &ScriptedInput{})
			assert.Loosely(t, err, should.ErrLike("no builders specified"))
			assert.Loosely(t, ArgumentError.In(err), should.BeTrue)
		})

		t.Run(`-b with only separators`, func(t *ftt.Test) {
			_, err := BuildRequest(ctx, Options{Bots: ", ,", Kind: Distributed}, cat, &ScriptedInput{})
			assert.Loosely(t, err, should.ErrLike("no builders specified"))
			assert.Loosely(t, ArgumentError.In(err), should.BeTrue)
		})

		t.Run(`alias combined with a literal`, func(t *ftt.Test) {
			_, err := BuildRequest(ctx, Options{Bots: "cq,Linux", Kind: Distributed}, cat, &ScriptedInput{})
			assert.Loosely(t, err, should.ErrLike(`alias "cq" cannot be combined`))
			assert.Loosely(t, ArgumentError.In(err), should.BeTrue)
		})

		t.Run(`two aliases`, func(t *ftt.Test) {
			_, err := BuildRequest(ctx, Options{Bots: "all,cq", Kind: Distributed}, cat, &ScriptedInput{})
			assert.Loosely(t, err, should.ErrLike("cannot be combined"))
			assert.Loosely(t, ArgumentError.In(err), should.BeTrue)
		})

		t.Run(`unknown literal keeps its own tag`, func(t *ftt.Test) {
			_, err := BuildRequest(ctx, Options{Bots: "Derp", Kind: Distributed}, cat, &ScriptedInput{})
			assert.Loosely(t, UnknownBuilder.In(err), should.BeTrue)
		})

		t.Run(`centralized requires a changelist`, func(t *ftt.Test) {
			_, err := BuildRequest(ctx, Options{Bots: "Linux", Kind: Centralized}, cat, &ScriptedInput{})
			assert.Loosely(t, err, should.ErrLike("changelist name is required"))
			assert.Loosely(t, ArgumentError.In(err), should.BeTrue)
		})

		t.Run(`distributed never requires a changelist`, func(t *ftt.Test) {
			req, err := BuildRequest(ctx, Options{Bots: "Linux", Kind: Distributed}, cat, &ScriptedInput{})
			assert.Loosely(t, err, should.BeNil)
			assert.Loosely(t, req.Changelist, should.BeEmpty)
		})

		t.Run(`more than one positional`, func(t *ftt.Test) {
			_, err := BuildRequest(ctx, Options{
				Bots:        "Linux",
				Positionals: []string{"mycl", "othercl"},
				Kind:        Centralized,
			}, cat, &ScriptedInput{})
			assert.Loosely(t, err, should.ErrLike("at most one changelist"))
			assert.Loosely(t, ArgumentError.In(err), should.BeTrue)
		})

		t.Run(`declined "all" leaves nothing to run`, func(t *ftt.Test) {
			_, err := BuildRequest(ctx, Options{Bots: "all", Kind: Distributed}, cat, &ScriptedInput{Confirms: []bool{false}})
			assert.Loosely(t, err, should.ErrLike("no builders selected"))
			assert.Loosely(t, ArgumentError.In(err), should.BeTrue)
		})
	})
}
