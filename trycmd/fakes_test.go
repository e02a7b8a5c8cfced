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

	"go.chromium.org/luci/common/errors"
)

// fakeSource serves a fixed catalog.
type fakeSource struct {
	agents    []Agent
	cq        []string
	agentsErr error
	cqErr     error
}

func (s *fakeSource) Agents(context.Context) ([]Agent, error) {
	return s.agents, s.agentsErr
}

func (s *fakeSource) CQBuilders(context.Context) ([]string, error) {
	return s.cq, s.cqErr
}

// fakeRunner records invocations and plays back canned outputs. Outputs and
// errors are keyed by the space-joined command line, falling back to the bare
// command name for invocations with unpredictable arguments.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   [][]string
	spy     func(name string, args []string)
}

func (r *fakeRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	call := append([]string{name}, args...)
	r.calls = append(r.calls, call)
	if r.spy != nil {
		r.spy(name, args)
	}
	key := strings.Join(call, " ")
	if err, ok := r.errs[key]; ok {
		return r.outputs[key], err
	}
	if out, ok := r.outputs[key]; ok {
		return out, nil
	}
	if err, ok := r.errs[name]; ok {
		return r.outputs[name], err
	}
	if out, ok := r.outputs[name]; ok {
		return out, nil
	}
	return "", errors.Reason("unexpected command %q", key).Err()
}

func (r *fakeRunner) calledNames() []string {
	var names []string
	for _, call := range r.calls {
		names = append(names, call[0])
	}
	return names
}

// testCatalog is the fixture shared by the resolution and validation tests.
func testCatalog() *Catalog {
	src := &fakeSource{
		agents: []Agent{
			{Hostname: "vm1", Builders: []string{"Linux", "Build-Linux"}},
			{Hostname: "vm2", Builders: []string{"Mac", "Mac-Trybot"}},
			{Hostname: "vm3", Builders: []string{"Win", "Linux"}},
		},
		cq: []string{"Linux"},
	}
	cat, err := FetchCatalog(context.Background(), src)
	if err != nil {
		panic(err)
	}
	return cat
}
