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
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.chromium.org/luci/common/errors"
)

// Runner executes an external command and returns its combined output.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// SystemRunner runs commands on the local system.
type SystemRunner struct {
	// Dir is the working directory; empty means the current one.
	Dir string
}

func (r SystemRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), errors.Annotate(err, "running %s:\n%s", name, out).Err()
	}
	return string(out), nil
}

// DetectCheckoutKind walks up from dir looking for a version control marker.
func DetectCheckoutKind(dir string) (CheckoutKind, error) {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return 0, errors.Annotate(err, "resolving %q", dir).Err()
	}
	for {
		if _, err := os.Stat(filepath.Join(cur, ".git")); err == nil {
			return Distributed, nil
		}
		if _, err := os.Stat(filepath.Join(cur, ".svn")); err == nil {
			return Centralized, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return 0, errors.Reason("%q is not inside a git or svn checkout", dir).Tag(ArgumentError).Err()
		}
		cur = parent
	}
}

// GitCheckout inspects a distributed working copy.
type GitCheckout struct {
	Run Runner
}

func (c GitCheckout) RootDir(ctx context.Context) (string, error) {
	out, err := c.Run.Output(ctx, "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", errors.Annotate(err, "locating checkout root").Err()
	}
	return strings.TrimSpace(out), nil
}

// UpstreamDiff returns the diff of the working copy against the upstream
// tracking reference, byte-for-byte as git prints it.
func (c GitCheckout) UpstreamDiff(ctx context.Context) (string, error) {
	upstream, err := c.Run.Output(ctx, "git", "rev-parse", "--abbrev-ref", "@{upstream}")
	if err != nil {
		return "", errors.Annotate(err, "resolving the upstream tracking reference").Err()
	}
	diff, err := c.Run.Output(ctx, "git", "diff", "--no-ext-diff", strings.TrimSpace(upstream))
	if err != nil {
		return "", errors.Annotate(err, "diffing against %s", strings.TrimSpace(upstream)).Err()
	}
	return diff, nil
}

// SvnCheckout inspects a centralized working copy.
type SvnCheckout struct {
	Run Runner
}

func (c SvnCheckout) RootDir(ctx context.Context) (string, error) {
	out, err := c.Run.Output(ctx, "svn", "info")
	if err != nil {
		return "", errors.Annotate(err, "locating checkout root").Err()
	}
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "Repository Root:"); ok {
			return strings.TrimSpace(rest), nil
		}
	}
	return "", errors.Reason("svn info did not report a repository root").Err()
}
