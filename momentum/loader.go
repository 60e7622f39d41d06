// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package momentum

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/penny-vault/jtmomentum/common"
	"github.com/penny-vault/jtmomentum/data"
	"github.com/penny-vault/jtmomentum/observability/opentelemetry"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// LoadStats counts why observations were discarded
type LoadStats struct {
	Observations int
	Missing      int
	Exchange     int
	NonNumeric   int
	Kept         int
}

// IsNumeral reports whether val is an unsigned decimal numeral: after
// removing at most one '.', every character must be an ASCII digit. Negative
// returns fail this test along with sentinel codes such as "B" or "C"; when
// allowNegative is set a single leading '-' is accepted.
func IsNumeral(val string, allowNegative bool) bool {
	if allowNegative && len(val) > 0 && val[0] == '-' {
		val = val[1:]
	}

	dot := false
	digits := 0
	for ii := 0; ii < len(val); ii++ {
		switch c := val[ii]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && !dot:
			dot = true
		default:
			return false
		}
	}

	return digits > 0
}

// Normalize cleans raw observations and sums them into one return per
// security and period. Rows with a missing field, an exchange outside
// cfg.Exchanges, or a return that fails IsNumeral are discarded. The result
// is ordered by security then period.
//
// When nothing survives cleaning an empty table is returned, or ErrDataEmpty
// when cfg.Strict is set. A period label that is not an integer is a
// *data.SchemaError.
func Normalize(ctx context.Context, observations []data.Observation, cfg Config) (*PeriodReturns, LoadStats, error) {
	_, span := otel.Tracer(opentelemetry.Name).Start(ctx, "momentum.Normalize")
	defer span.End()

	stats := LoadStats{Observations: len(observations)}

	exchanges := make(map[string]bool, len(cfg.Exchanges))
	for _, exch := range cfg.Exchanges {
		exchanges[exch] = true
	}

	sums := make(map[Key]decimal.Decimal)
	for _, obs := range observations {
		if obs.Period == "" || obs.Exchange == "" || obs.Security == "" || obs.Return == "" {
			stats.Missing++
			continue
		}

		if !exchanges[obs.Exchange] {
			stats.Exchange++
			continue
		}

		if !IsNumeral(obs.Return, cfg.AllowNegative) {
			stats.NonNumeric++
			continue
		}

		ret, err := decimal.NewFromString(obs.Return)
		if err != nil {
			// IsNumeral accepts a few forms the parser does not, e.g. "."
			stats.NonNumeric++
			continue
		}

		period, err := parsePeriod(obs.Period)
		if err != nil {
			log.Error().Err(err).Str("Security", obs.Security).Msg("could not parse period label")
			return nil, stats, err
		}

		key := Key{Security: obs.Security, Period: period}
		if sum, ok := sums[key]; ok {
			sums[key] = sum.Add(ret)
		} else {
			sums[key] = ret
		}
		stats.Kept++
	}

	rows := make([]PeriodReturn, 0, len(sums))
	for key, sum := range sums {
		total, _ := sum.Float64()
		rows = append(rows, PeriodReturn{
			Security:    key.Security,
			Period:      key.Period,
			TotalReturn: total,
		})
	}
	sortPeriodReturns(rows)

	span.SetAttributes(
		attribute.Int("observations", stats.Observations),
		attribute.Int("kept", stats.Kept),
		attribute.Int("period_returns", len(rows)),
	)

	log.Debug().
		Int("Observations", stats.Observations).
		Int("Missing", stats.Missing).
		Int("WrongExchange", stats.Exchange).
		Int("NonNumeric", stats.NonNumeric).
		Int("Kept", stats.Kept).
		Int("PeriodReturns", len(rows)).
		Msg("normalized observations")

	if len(rows) == 0 {
		if cfg.Strict {
			return nil, stats, fmt.Errorf("%w: %d observations read", ErrDataEmpty, stats.Observations)
		}
		log.Warn().Int("Observations", stats.Observations).Msg("no observations survived cleaning")
	}

	return newPeriodReturns(rows), stats, nil
}

// parsePeriod accepts integer labels, including integral floats such as
// "3930.0" that numeric database columns produce
func parsePeriod(val string) (int, error) {
	if period, err := strconv.Atoi(val); err == nil {
		return period, nil
	}

	f, err := strconv.ParseFloat(val, 64)
	if err == nil && f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
		return int(f), nil
	}

	return 0, &data.SchemaError{Column: "period", Value: val, Reason: "period label must be an integer"}
}

func sortPeriodReturns(rows []PeriodReturn) {
	sort.Slice(rows, func(i, j int) bool {
		if c := common.CompareSecurity(rows[i].Security, rows[j].Security); c != 0 {
			return c < 0
		}
		return rows[i].Period < rows[j].Period
	})
}
