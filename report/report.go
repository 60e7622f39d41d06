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

// Package report renders the outcome of a momentum study as text, JSON, or
// an ASCII table
package report

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/jtmomentum/momentum"
)

const undefined = "undefined (no forward returns)"

// Format selects how a result is rendered
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatJSON, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Write renders res in the requested format
func Write(w io.Writer, res *momentum.Result, format Format) error {
	switch format {
	case FormatText:
		return Text(w, res.Summary, res.Config.HoldingPeriod, res.Config.MonthsPerPeriod)
	case FormatJSON:
		return JSON(w, res)
	case FormatTable:
		_, err := io.WriteString(w, Table(res))
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func percent(m momentum.Mean) string {
	if !m.Defined {
		return undefined
	}
	return fmt.Sprintf("%.2f%%", m.Value*100)
}

// Text prints the three headline numbers of the study
func Text(w io.Writer, summary momentum.Summary, holdingPeriod, monthsPerPeriod int) error {
	months := holdingPeriod * monthsPerPeriod
	lines := []string{
		fmt.Sprintf("Average return of Winners (next %d months): %s", months, percent(summary.Winners)),
		fmt.Sprintf("Average return of Losers (next %d months): %s", months, percent(summary.Losers)),
		fmt.Sprintf("Momentum Premium (Winners - Losers): %s", percent(summary.Premium)),
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

type jsonMean struct {
	Mean  *float64 `json:"mean"`
	Count int      `json:"count"`
}

func newJSONMean(m momentum.Mean) jsonMean {
	res := jsonMean{Count: m.Count}
	if m.Defined {
		val := m.Value
		res.Mean = &val
	}
	return res
}

type jsonParameters struct {
	AnalysisPeriod  int      `json:"analysis_period"`
	HoldingPeriod   int      `json:"holding_period"`
	MonthsPerPeriod int      `json:"months_per_period"`
	Exchanges       []string `json:"exchanges"`
	Strict          bool     `json:"strict"`
	AllowNegative   bool     `json:"allow_negative"`
}

type jsonStats struct {
	Read       int `json:"read"`
	Missing    int `json:"missing"`
	Exchange   int `json:"wrong_exchange"`
	NonNumeric int `json:"non_numeric"`
	Kept       int `json:"kept"`
}

type jsonPeriod struct {
	Period     int      `json:"period"`
	NumWinners int      `json:"num_winners"`
	NumLosers  int      `json:"num_losers"`
	Winners    jsonMean `json:"winners"`
	Losers     jsonMean `json:"losers"`
	Premium    jsonMean `json:"premium"`
}

type jsonReport struct {
	RunID         string         `json:"run_id"`
	Fingerprint   string         `json:"fingerprint"`
	Parameters    jsonParameters `json:"parameters"`
	Observations  jsonStats      `json:"observations"`
	PeriodReturns int            `json:"period_returns"`
	NumWinners    int            `json:"num_winners"`
	NumLosers     int            `json:"num_losers"`
	Winners       jsonMean       `json:"winners"`
	Losers        jsonMean       `json:"losers"`
	Premium       jsonMean       `json:"premium"`
	Periods       []jsonPeriod   `json:"periods"`
}

// JSON writes the result as an indented JSON document; undefined means are
// null
func JSON(w io.Writer, res *momentum.Result) error {
	doc := jsonReport{
		RunID:       res.RunID,
		Fingerprint: res.Fingerprint,
		Parameters: jsonParameters{
			AnalysisPeriod:  res.Config.AnalysisPeriod,
			HoldingPeriod:   res.Config.HoldingPeriod,
			MonthsPerPeriod: res.Config.MonthsPerPeriod,
			Exchanges:       res.Config.Exchanges,
			Strict:          res.Config.Strict,
			AllowNegative:   res.Config.AllowNegative,
		},
		Observations: jsonStats{
			Read:       res.Stats.Observations,
			Missing:    res.Stats.Missing,
			Exchange:   res.Stats.Exchange,
			NonNumeric: res.Stats.NonNumeric,
			Kept:       res.Stats.Kept,
		},
		NumWinners: res.Summary.NumWinners,
		NumLosers:  res.Summary.NumLosers,
		Winners:    newJSONMean(res.Summary.Winners),
		Losers:     newJSONMean(res.Summary.Losers),
		Premium:    newJSONMean(res.Summary.Premium),
		Periods:    make([]jsonPeriod, len(res.Summary.ByPeriod)),
	}

	if res.Normalized != nil {
		doc.PeriodReturns = res.Normalized.Len()
	}

	for idx, ps := range res.Summary.ByPeriod {
		doc.Periods[idx] = jsonPeriod{
			Period:     ps.Period,
			NumWinners: ps.NumWinners,
			NumLosers:  ps.NumLosers,
			Winners:    newJSONMean(ps.Winners),
			Losers:     newJSONMean(ps.Losers),
			Premium:    newJSONMean(ps.Premium),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func cell(m momentum.Mean) string {
	if !m.Defined {
		return ""
	}
	return fmt.Sprintf("%.2f%%", m.Value*100)
}

// Table renders the per-period breakdown with the overall numbers in the
// footer
func Table(res *momentum.Result) string {
	if len(res.Summary.ByPeriod) == 0 {
		return "<NO DATA>\n"
	}

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetHeader([]string{"Period", "Winners", "Losers", "Winner Return", "Loser Return", "Premium"})
	table.SetBorder(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, ps := range res.Summary.ByPeriod {
		table.Append([]string{
			fmt.Sprintf("%d", ps.Period),
			fmt.Sprintf("%d", ps.NumWinners),
			fmt.Sprintf("%d", ps.NumLosers),
			cell(ps.Winners),
			cell(ps.Losers),
			cell(ps.Premium),
		})
	}

	table.SetFooter([]string{
		"Overall",
		fmt.Sprintf("%d", res.Summary.NumWinners),
		fmt.Sprintf("%d", res.Summary.NumLosers),
		cell(res.Summary.Winners),
		cell(res.Summary.Losers),
		cell(res.Summary.Premium),
	})

	table.Render()
	return s.String()
}
