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

package data

import (
	"strconv"
	"strings"
	"time"
)

// MonthsPerPeriod is the width of a period label derived from a date; the
// study works on six-month semesters
const MonthsPerPeriod = 6

// Observation is one raw input row. Fields are kept exactly as read so the
// study can apply its own cleaning rules; an empty field is missing.
type Observation struct {
	Period   string
	Exchange string
	Security string
	Return   string
}

// ColumnMap names the source columns that hold each observation field. When
// Period is blank, or the column is absent from the source, the period label
// is derived from Date.
type ColumnMap struct {
	Date     string `toml:"date" mapstructure:"date"`
	Period   string `toml:"period" mapstructure:"period"`
	Exchange string `toml:"exchange" mapstructure:"exchange"`
	Security string `toml:"security" mapstructure:"security"`
	Return   string `toml:"return" mapstructure:"return"`
}

// DefaultColumns matches the CRSP monthly stock file extract
var DefaultColumns = ColumnMap{
	Date:     "date",
	Period:   "semester",
	Exchange: "PRIMEXCH",
	Security: "PERMNO",
	Return:   "RET",
}

var dateLayouts = []string{
	"2006-01-02",
	"20060102",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
}

// ParseDate tries each supported layout in turn
func ParseDate(val string) (time.Time, bool) {
	val = strings.TrimSpace(val)
	for _, layout := range dateLayouts {
		if dt, err := time.Parse(layout, val); err == nil {
			return dt, true
		}
	}
	return time.Time{}, false
}

// PeriodFromDate converts a calendar date to its semester label. Labels are
// contiguous integers: the second half of a year is one more than the first
// and the first half of the next year is one more again.
func PeriodFromDate(dt time.Time) int {
	return dt.Year()*(12/MonthsPerPeriod) + (int(dt.Month())-1)/MonthsPerPeriod
}

// periodLabel returns the period label of a date string, or "" if the date
// cannot be parsed (the row is then dropped as missing)
func periodLabel(date string) string {
	dt, ok := ParseDate(date)
	if !ok {
		return ""
	}
	return strconv.Itoa(PeriodFromDate(dt))
}
