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
	"fmt"
	"strings"

	"github.com/mattn/go-tty"

	"go.chromium.org/luci/common/errors"
)

// UserInput solicits answers from the operator.
//
// Resolution logic only ever talks to this interface, so non-interactive
// callers (and tests) can inject pre-supplied answers instead of a terminal.
type UserInput interface {
	// Confirm asks a yes/no question and blocks until answered.
	Confirm(prompt string) (bool, error)
	// ReadLine prompts for one line of input and blocks until entered.
	ReadLine(prompt string) (string, error)
}

// TTYInput reads answers from the controlling terminal.
type TTYInput struct{}

func (i TTYInput) Confirm(prompt string) (bool, error) {
	for {
		line, err := i.ReadLine(prompt + " [y/n]: ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

func (i TTYInput) ReadLine(prompt string) (string, error) {
	term, err := tty.Open()
	if err != nil {
		return "", errors.Annotate(err, "opening terminal").Err()
	}
	defer term.Close()
	fmt.Fprint(term.Output(), prompt)
	line, err := term.ReadString()
	if err != nil {
		return "", errors.Annotate(err, "reading input").Err()
	}
	return line, nil
}

// ScriptedInput answers prompts from pre-supplied answers, in order, for
// non-interactive callers. Running out of answers is an error, since a
// blocked prompt would otherwise hang an unattended run.
type ScriptedInput struct {
	Confirms []bool
	Lines    []string
}

func (s *ScriptedInput) Confirm(prompt string) (bool, error) {
	if len(s.Confirms) == 0 {
		return false, errors.Reason("no scripted answer for the confirmation %q", prompt).Err()
	}
	v := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return v, nil
}

func (s *ScriptedInput) ReadLine(prompt string) (string, error) {
	if len(s.Lines) == 0 {
		return "", errors.Reason("no scripted answer for the prompt %q", prompt).Err()
	}
	v := s.Lines[0]
	s.Lines = s.Lines[1:]
	return v, nil
}
