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
	"fmt"
	"math"

	"github.com/penny-vault/jtmomentum/dataframe"
	"github.com/rs/zerolog/log"
)

const (
	NumDeciles   = 10
	LoserDecile  = 0
	WinnerDecile = NumDeciles - 1
)

// Key identifies a security in a period
type Key struct {
	Security string
	Period   int
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%d", k.Security, k.Period)
}

// PeriodReturn is the summed return of a security over one period
type PeriodReturn struct {
	Security    string
	Period      int
	TotalReturn float64
}

func (pr PeriodReturn) Key() Key {
	return Key{Security: pr.Security, Period: pr.Period}
}

// PeriodReturns is the loader output: one row per (security, period), ordered
// by security then period
type PeriodReturns struct {
	Rows  []PeriodReturn
	index map[Key]int
}

func newPeriodReturns(rows []PeriodReturn) *PeriodReturns {
	pr := &PeriodReturns{
		Rows:  rows,
		index: make(map[Key]int, len(rows)),
	}
	for idx, row := range rows {
		pr.index[row.Key()] = idx
	}
	return pr
}

// NewPeriodReturns builds a table from rows that are already unique and
// ordered by security and period
func NewPeriodReturns(rows []PeriodReturn) *PeriodReturns {
	return newPeriodReturns(rows)
}

func (pr *PeriodReturns) Len() int {
	return len(pr.Rows)
}

// Lookup returns the total return of a security in a period
func (pr *PeriodReturns) Lookup(key Key) (float64, bool) {
	idx, ok := pr.index[key]
	if !ok {
		return 0, false
	}
	return pr.Rows[idx].TotalReturn, true
}

// DataFrame converts the table for display
func (pr *PeriodReturns) DataFrame() *dataframe.DataFrame[Key] {
	index := make([]Key, len(pr.Rows))
	total := make([]float64, len(pr.Rows))
	for idx, row := range pr.Rows {
		index[idx] = row.Key()
		total[idx] = row.TotalReturn
	}
	df := dataframe.New(index)
	mustInsert(df, "TotalReturn", total)
	return df
}

// Ranked extends a PeriodReturn with its trailing cumulative return and decile.
// Decile is only meaningful when HasDecile is true, which requires
// HasCumulative.
type Ranked struct {
	PeriodReturn
	Cumulative    float64
	HasCumulative bool
	Decile        int
	HasDecile     bool
}

// RankedTable holds every PeriodReturn row, ordered by security then period
type RankedTable struct {
	AnalysisPeriod int
	Rows           []Ranked
}

func (rt *RankedTable) Len() int {
	return len(rt.Rows)
}

// Period returns the rows of a single period
func (rt *RankedTable) Period(period int) []Ranked {
	res := make([]Ranked, 0)
	for _, row := range rt.Rows {
		if row.Period == period {
			res = append(res, row)
		}
	}
	return res
}

// DataFrame converts the table for display; undefined values are NaN
func (rt *RankedTable) DataFrame() *dataframe.DataFrame[Key] {
	index := make([]Key, len(rt.Rows))
	total := make([]float64, len(rt.Rows))
	cumulative := make([]float64, len(rt.Rows))
	decile := make([]float64, len(rt.Rows))
	for idx, row := range rt.Rows {
		index[idx] = row.Key()
		total[idx] = row.TotalReturn
		cumulative[idx] = optional(row.Cumulative, row.HasCumulative)
		decile[idx] = optional(float64(row.Decile), row.HasDecile)
	}
	df := dataframe.New(index)
	mustInsert(df, "TotalReturn", total)
	mustInsert(df, "Cumulative", cumulative)
	mustInsert(df, "Decile", decile)
	return df
}

// Selection is a ranked row in an extreme decile together with the period
// its forward return is measured in
type Selection struct {
	Ranked
	TargetPeriod int
}

// Selections holds the rows of one extreme decile
type Selections struct {
	Decile        int
	HoldingPeriod int
	Rows          []Selection
}

func (s *Selections) Len() int {
	return len(s.Rows)
}

// Outcome is a selection with the realized return of its target period
type Outcome struct {
	Selection
	ForwardReturn float64
	HasForward    bool
}

// Outcomes holds the joined forward returns of one portfolio
type Outcomes struct {
	Decile int
	Rows   []Outcome
}

func (o *Outcomes) Len() int {
	return len(o.Rows)
}

// Defined returns the forward returns that exist, in row order
func (o *Outcomes) Defined() []float64 {
	vals := make([]float64, 0, len(o.Rows))
	for _, row := range o.Rows {
		if row.HasForward {
			vals = append(vals, row.ForwardReturn)
		}
	}
	return vals
}

// DataFrame converts the outcomes for display; undefined values are NaN
func (o *Outcomes) DataFrame() *dataframe.DataFrame[Key] {
	index := make([]Key, len(o.Rows))
	cumulative := make([]float64, len(o.Rows))
	target := make([]float64, len(o.Rows))
	forward := make([]float64, len(o.Rows))
	for idx, row := range o.Rows {
		index[idx] = row.Key()
		cumulative[idx] = row.Cumulative
		target[idx] = float64(row.TargetPeriod)
		forward[idx] = optional(row.ForwardReturn, row.HasForward)
	}
	df := dataframe.New(index)
	mustInsert(df, "Cumulative", cumulative)
	mustInsert(df, "TargetPeriod", target)
	mustInsert(df, "ForwardReturn", forward)
	return df
}

func optional(val float64, ok bool) float64 {
	if !ok {
		return math.NaN()
	}
	return val
}

// mustInsert is only used with columns built from the same rows as the index
func mustInsert(df *dataframe.DataFrame[Key], name string, col []float64) {
	if err := df.Insert(name, col); err != nil {
		log.Panic().Err(err).Str("Column", name).Msg("could not build dataframe")
	}
}
