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
	"path/filepath"
	"sort"
	"strings"

	"go.chromium.org/luci/common/data/stringset"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/errors/errtag"
	"go.chromium.org/luci/common/logging"
)

var (
	// SubmissionFailed tags errors from a non-zero external try command.
	SubmissionFailed = errtag.Make("the try submission command failed", true)
	// DiffCaptureFailed tags errors from an empty or unreadable pending diff.
	DiffCaptureFailed = errtag.Make("could not capture a diff of the pending change", true)
)

// TryTargets renders a builder set as the target list the farm consumes:
// sorted names, each with TrySuffix, comma joined.
func TryTargets(builders stringset.Set) string {
	names := builders.ToSlice()
	sort.Strings(names)
	for i, n := range names {
		names[i] = n + TrySuffix
	}
	return strings.Join(names, ",")
}

// Submitter enqueues a validated try request.
type Submitter interface {
	Submit(ctx context.Context, req *Request) error
}

// SvnSubmitter submits a centralized checkout's changelist through the
// external try-submit command.
type SvnSubmitter struct {
	Checkout SvnCheckout
	Run      Runner
	// TryCmd is the external submission command; "gcl" when empty.
	TryCmd string
}

func (s SvnSubmitter) Submit(ctx context.Context, req *Request) error {
	root, err := s.Checkout.RootDir(ctx)
	if err != nil {
		return err
	}
	cmd := s.TryCmd
	if cmd == "" {
		cmd = "gcl"
	}
	args := []string{"try", req.Changelist, "--root", root, "--bot", TryTargets(req.Builders)}
	if req.Revision != "" {
		args = append(args, "-r", req.Revision)
	}
	logging.Infof(ctx, "Submitting try job for changelist %q.", req.Changelist)
	out, err := s.Run.Output(ctx, cmd, args...)
	if err != nil {
		return errors.Reason("try submission failed:\n%s", out).Tag(SubmissionFailed).Err()
	}
	return nil
}

// GitSubmitter submits a distributed checkout's pending diff through the
// external try-change command.
type GitSubmitter struct {
	Checkout GitCheckout
	Run      Runner
	// TryCmd is the external submission command; "trychange" when empty.
	TryCmd string
}

func (s GitSubmitter) Submit(ctx context.Context, req *Request) error {
	diff, err := s.Checkout.UpstreamDiff(ctx)
	if err != nil {
		return errors.Annotate(err, "capturing the pending diff").Tag(DiffCaptureFailed).Err()
	}
	if strings.TrimSpace(diff) == "" {
		return errors.Reason("no diff against the upstream branch; nothing to try").Tag(DiffCaptureFailed).Err()
	}
	root, err := s.Checkout.RootDir(ctx)
	if err != nil {
		return err
	}

	tdir, err := os.MkdirTemp("", "trysubmit-")
	if err != nil {
		return errors.Annotate(err, "creating a temp dir for the diff").Err()
	}
	defer func() {
		if rmErr := os.RemoveAll(tdir); rmErr != nil {
			logging.Errorf(ctx, "failed to clean up temp dir %q: %s", tdir, rmErr)
		}
	}()
	diffPath := filepath.Join(tdir, "pending.diff")
	if err := os.WriteFile(diffPath, []byte(diff), 0600); err != nil {
		return errors.Annotate(err, "writing the diff").Err()
	}

	cmd := s.TryCmd
	if cmd == "" {
		cmd = "trychange"
	}
	args := []string{"--diff", diffPath, "--root", root, "--bot", TryTargets(req.Builders)}
	if req.Revision != "" {
		args = append(args, "-r", req.Revision)
	}
	logging.Infof(ctx, "Submitting try job for the pending diff.")
	out, err := s.Run.Output(ctx, cmd, args...)
	if err != nil {
		return errors.Reason("try change failed:\n%s", out).Tag(SubmissionFailed).Err()
	}
	return nil
}
