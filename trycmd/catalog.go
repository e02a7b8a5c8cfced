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
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.chromium.org/luci/common/data/stringset"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/errors/errtag"
)

// TrySuffix is appended to a builder name to address its try-only variant.
// The build farm only accepts the suffixed names in a try request, and the
// canonical builder list never contains them.
const TrySuffix = "-Trybot"

// compilePrefix marks compile-only builders that build but run no tests.
const compilePrefix = "Build-"

// CatalogUnavailable tags errors from fetching or decoding the builder list.
var CatalogUnavailable = errtag.Make("the builder catalog could not be fetched", true)

// Agent is one build machine and the builder roles it runs.
type Agent struct {
	Hostname string   `json:"hostname"`
	Builders []string `json:"builder"`
}

// Catalog is a snapshot of the known builders, fetched once per invocation
// and read-only afterwards.
type Catalog struct {
	// All contains every original builder name.
	All stringset.Set
	// CQ contains the subset run automatically by the commit queue.
	CQ stringset.Set
}

// CatalogSource retrieves the raw builder configuration.
type CatalogSource interface {
	Agents(ctx context.Context) ([]Agent, error)
	CQBuilders(ctx context.Context) ([]string, error)
}

// FetchCatalog builds a Catalog from src.
//
// Builder names already carrying TrySuffix are try-only variants, not
// original builders, and are dropped. All failures are tagged
// CatalogUnavailable.
func FetchCatalog(ctx context.Context, src CatalogSource) (*Catalog, error) {
	agents, err := src.Agents(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "fetching builder list").Tag(CatalogUnavailable).Err()
	}
	all := stringset.New(len(agents))
	for _, a := range agents {
		for _, b := range a.Builders {
			if strings.HasSuffix(b, TrySuffix) {
				continue
			}
			all.Add(b)
		}
	}
	if all.Len() == 0 {
		return nil, errors.Reason("builder list is empty; the catalog did not have the expected shape").Tag(CatalogUnavailable).Err()
	}
	cq, err := src.CQBuilders(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "fetching commit queue builders").Tag(CatalogUnavailable).Err()
	}
	return &Catalog{All: all, CQ: stringset.NewFromSlice(cq...)}, nil
}

// HTTPSource fetches the builder configuration from the build master.
type HTTPSource struct {
	Client *http.Client
	// AgentsURL serves the JSON listing of build agents.
	AgentsURL string
	// CQURL serves the JSON list of commit queue builder names.
	CQURL string
}

func (s *HTTPSource) Agents(ctx context.Context) ([]Agent, error) {
	var agents []Agent
	if err := s.getJSON(ctx, s.AgentsURL, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

func (s *HTTPSource) CQBuilders(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.getJSON(ctx, s.CQURL, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (s *HTTPSource) getJSON(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return errors.Annotate(err, "bad catalog URL %q", url).Err()
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return errors.Annotate(err, "GET %s", url).Err()
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Reason("GET %s: HTTP %d:\n%s", url, resp.StatusCode, body).Err()
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Annotate(err, "decoding %s", url).Err()
	}
	return nil
}
