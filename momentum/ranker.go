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
	"sort"

	"github.com/penny-vault/jtmomentum/observability/opentelemetry"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/floats"
)

// Rank computes each security's trailing cumulative return over analysisPeriod
// rows and assigns deciles within every period.
//
// The window runs over a security's rows in period order and assumes those
// rows are gapless; the first analysisPeriod-1 rows of a security have no
// cumulative return and therefore no decile. A period whose cumulative returns
// are all equal (including a period with a single row) cannot be cut and its
// rows have no decile either. Every input row is kept.
func Rank(ctx context.Context, returns *PeriodReturns, analysisPeriod int) (*RankedTable, error) {
	_, span := otel.Tracer(opentelemetry.Name).Start(ctx, "momentum.Rank")
	defer span.End()

	if analysisPeriod < 1 {
		return nil, fmt.Errorf("%w: analysis period must be positive, got %d", ErrInvalidPeriod, analysisPeriod)
	}

	rows := make([]Ranked, len(returns.Rows))
	totals := make([]float64, len(returns.Rows))
	byPeriod := make(map[int][]int)

	first := 0 // first row of the current security
	for idx, pr := range returns.Rows {
		if idx > 0 && returns.Rows[idx-1].Security != pr.Security {
			first = idx
		}

		totals[idx] = pr.TotalReturn
		rows[idx] = Ranked{PeriodReturn: pr}

		if idx-first+1 >= analysisPeriod {
			rows[idx].Cumulative = floats.Sum(totals[idx-analysisPeriod+1 : idx+1])
			rows[idx].HasCumulative = true
			byPeriod[pr.Period] = append(byPeriod[pr.Period], idx)
		}
	}

	periods := make([]int, 0, len(byPeriod))
	for period := range byPeriod {
		periods = append(periods, period)
	}
	sort.Ints(periods)

	for _, period := range periods {
		members := byPeriod[period]
		vals := make([]float64, len(members))
		for ii, rowIdx := range members {
			vals[ii] = rows[rowIdx].Cumulative
		}

		labels := QuantileCut(vals, NumDeciles)
		if labels == nil {
			log.Debug().Int("Period", period).Int("NumRanked", len(members)).Msg("cumulative returns do not separate; period left unranked")
			continue
		}
		for ii, rowIdx := range members {
			rows[rowIdx].Decile = labels[ii]
			rows[rowIdx].HasDecile = true
		}

		log.Trace().Int("Period", period).Int("NumRanked", len(members)).Msg("assigned deciles")
	}

	span.SetAttributes(
		attribute.Int("rows", len(rows)),
		attribute.Int("ranked_periods", len(periods)),
	)

	log.Debug().Int("AnalysisPeriod", analysisPeriod).Int("Rows", len(rows)).Int("RankedPeriods", len(periods)).Msg("ranked period returns")

	return &RankedTable{
		AnalysisPeriod: analysisPeriod,
		Rows:           rows,
	}, nil
}
