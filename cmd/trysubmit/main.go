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

// Command trysubmit submits the pending change as a try job on the build
// farm, resolving builder names and aliases against the live builder list.
package main

import (
	"os"

	"go.chromium.org/trysubmit/trycli"
)

func main() {
	os.Exit(trycli.Main(trycli.Params{
		AgentsURL: "https://build.chromium.org/p/tryserver/json/slaves",
		CQURL:     "https://build.chromium.org/p/tryserver/json/cq_builders",
	}, os.Args[1:]))
}
