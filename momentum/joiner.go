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
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean is an average that may be undefined because there was nothing to
// average. An undefined mean has Defined == false and Value == 0; callers must
// check Defined rather than rely on the value.
type Mean struct {
	Value   float64
	Count   int
	Defined bool
}

// MeanOf averages vals; the mean of no values is undefined
func MeanOf(vals []float64) Mean {
	if len(vals) == 0 {
		return Mean{}
	}
	return Mean{
		Value:   stat.Mean(vals, nil),
		Count:   len(vals),
		Defined: true,
	}
}

// Spread returns m - other, undefined if either side is undefined
func (m Mean) Spread(other Mean) Mean {
	if !m.Defined || !other.Defined {
		return Mean{}
	}
	return Mean{
		Value:   m.Value - other.Value,
		Count:   m.Count + other.Count,
		Defined: true,
	}
}

// PeriodSummary is the forward performance of the portfolios formed in one
// ranking period
type PeriodSummary struct {
	Period     int
	NumWinners int
	NumLosers  int
	Winners    Mean
	Losers     Mean
	Premium    Mean
}

// Summary holds the study's aggregates
type Summary struct {
	NumWinners int
	NumLosers  int
	Winners    Mean
	Losers     Mean
	Premium    Mean
	ByPeriod   []PeriodSummary
}

// Err returns an *UndefinedAggregateError naming each undefined aggregate,
// or nil when all three are defined
func (s Summary) Err() error {
	undefined := make([]string, 0, 3)
	if !s.Winners.Defined {
		undefined = append(undefined, "winners")
	}
	if !s.Losers.Defined {
		undefined = append(undefined, "losers")
	}
	if !s.Premium.Defined {
		undefined = append(undefined, "premium")
	}
	if len(undefined) == 0 {
		return nil
	}
	return &UndefinedAggregateError{Aggregates: undefined}
}

// Forward attaches the realized return of each selection's target period.
// Selections whose security has no return in that period keep HasForward ==
// false and are excluded from averages.
func Forward(returns *PeriodReturns, selections *Selections) *Outcomes {
	outcomes := &Outcomes{
		Decile: selections.Decile,
		Rows:   make([]Outcome, len(selections.Rows)),
	}

	for idx, sel := range selections.Rows {
		outcomes.Rows[idx] = Outcome{Selection: sel}
		if ret, ok := returns.Lookup(Key{Security: sel.Security, Period: sel.TargetPeriod}); ok {
			outcomes.Rows[idx].ForwardReturn = ret
			outcomes.Rows[idx].HasForward = true
		}
	}

	return outcomes
}

// Join looks up the forward returns of the winners and losers and computes
// the mean return of each portfolio and the momentum premium
func Join(returns *PeriodReturns, winners, losers *Selections) (winnerOutcomes *Outcomes, loserOutcomes *Outcomes, summary Summary) {
	winnerOutcomes = Forward(returns, winners)
	loserOutcomes = Forward(returns, losers)

	summary = Summary{
		NumWinners: winnerOutcomes.Len(),
		NumLosers:  loserOutcomes.Len(),
		Winners:    MeanOf(winnerOutcomes.Defined()),
		Losers:     MeanOf(loserOutcomes.Defined()),
	}
	summary.Premium = summary.Winners.Spread(summary.Losers)
	summary.ByPeriod = summarizePeriods(winnerOutcomes, loserOutcomes)

	return winnerOutcomes, loserOutcomes, summary
}

func summarizePeriods(winners, losers *Outcomes) []PeriodSummary {
	type bucket struct {
		numWinners int
		numLosers  int
		winners    []float64
		losers     []float64
	}

	buckets := make(map[int]*bucket)
	get := func(period int) *bucket {
		b, ok := buckets[period]
		if !ok {
			b = &bucket{}
			buckets[period] = b
		}
		return b
	}

	for _, row := range winners.Rows {
		b := get(row.Period)
		b.numWinners++
		if row.HasForward {
			b.winners = append(b.winners, row.ForwardReturn)
		}
	}
	for _, row := range losers.Rows {
		b := get(row.Period)
		b.numLosers++
		if row.HasForward {
			b.losers = append(b.losers, row.ForwardReturn)
		}
	}

	periods := make([]int, 0, len(buckets))
	for period := range buckets {
		periods = append(periods, period)
	}
	sort.Ints(periods)

	res := make([]PeriodSummary, 0, len(periods))
	for _, period := range periods {
		b := buckets[period]
		ps := PeriodSummary{
			Period:     period,
			NumWinners: b.numWinners,
			NumLosers:  b.numLosers,
			Winners:    MeanOf(b.winners),
			Losers:     MeanOf(b.losers),
		}
		ps.Premium = ps.Winners.Spread(ps.Losers)
		res = append(res, ps)
	}

	return res
}
