// Copyright 2025 Finsight Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package static provides an in-process ticker resolver backed by a symbol
// table. It stands in for an external financial reference service.
package static

import (
	"context"
	"log/slog"
	"maps"
	"strings"

	"github.com/finsight/newsintel/ai"
	"github.com/finsight/newsintel/core"
)

// defaultSymbols maps common company names to their ticker symbols,
// including non-obvious pairs (e.g. Jindal Steel -> JSPL.NS).
var defaultSymbols = map[string]string{
	"Jindal Steel and Power":    "JSPL.NS",
	"Jindal Steel":              "JSPL.NS",
	"Omaxe":                     "OMAXE.NS",
	"Caterpillar":               "CAT",
	"Caterpillar Inc.":          "CAT",
	"Tesla":                     "TSLA",
	"Apple":                     "AAPL",
	"Tata Consultancy Services": "TCS.NS",
	"TCS":                       "TCS.NS",
	"HDFC Bank":                 "HDFCBANK.NS",
	"Maruti Suzuki":             "MARUTI.NS",
	"Maruti Suzuki India":       "MARUTI.NS",
	"Infosys":                   "INFY.NS",
	"Reliance Industries":       "RELIANCE.NS",
}

// Resolver implements ai.TickerResolver over a fixed symbol table.
type Resolver struct {
	symbols map[string]string
	logger  *slog.Logger
}

var _ ai.TickerResolver = (*Resolver)(nil)

// NewResolver creates a resolver seeded with the default symbol table.
// Entries in extra are merged on top of the defaults.
func NewResolver(extra map[string]string) *Resolver {
	symbols := make(map[string]string, len(defaultSymbols)+len(extra))
	maps.Copy(symbols, defaultSymbols)
	maps.Copy(symbols, extra)

	return &Resolver{
		symbols: symbols,
		logger:  slog.Default().With("component", "static-resolver"),
	}
}

// ResolveTicker looks up the ticker symbol for a company name.
// The lookup is case-insensitive and tolerates name variations in either
// direction ("Caterpillar" matches "Caterpillar Inc." and vice versa).
// Returns core.TickerNotFound when the name cannot be reliably resolved.
func (r *Resolver) ResolveTicker(ctx context.Context, companyName string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(companyName))
	if normalized == "" {
		return core.TickerNotFound, nil
	}

	for name, ticker := range r.symbols {
		lower := strings.ToLower(name)
		if strings.Contains(lower, normalized) || strings.Contains(normalized, lower) {
			return ticker, nil
		}
	}

	r.logger.Debug("ticker not found", "company", companyName)
	return core.TickerNotFound, nil
}
