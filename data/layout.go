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
	"strings"
)

// layout holds the position of each mapped column in a source row
type layout struct {
	date     int
	period   int
	exchange int
	security int
	ret      int
}

// resolve finds each mapped column in header. Security, exchange and return
// are always required; a period column is used when present and otherwise the
// date column is required to derive it.
func resolve(header []string, cols ColumnMap) (*layout, error) {
	pos := make(map[string]int, len(header))
	for idx, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, ok := pos[name]; !ok {
			pos[name] = idx
		}
	}

	lookup := func(name string) int {
		if name == "" {
			return -1
		}
		if idx, ok := pos[name]; ok {
			return idx
		}
		return -1
	}

	l := &layout{
		date:     lookup(cols.Date),
		period:   lookup(cols.Period),
		exchange: lookup(cols.Exchange),
		security: lookup(cols.Security),
		ret:      lookup(cols.Return),
	}

	missing := make([]string, 0, 4)
	if l.security == -1 {
		missing = append(missing, cols.Security)
	}
	if l.exchange == -1 {
		missing = append(missing, cols.Exchange)
	}
	if l.ret == -1 {
		missing = append(missing, cols.Return)
	}
	if l.period == -1 && l.date == -1 {
		if cols.Period != "" {
			missing = append(missing, cols.Period)
		}
		missing = append(missing, cols.Date)
	}

	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	return l, nil
}

func (l *layout) observation(record []string) Observation {
	field := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	obs := Observation{
		Exchange: field(l.exchange),
		Security: field(l.security),
		Return:   field(l.ret),
	}

	if l.period != -1 {
		obs.Period = field(l.period)
	} else {
		obs.Period = periodLabel(field(l.date))
	}

	// a row without a date counts as missing even when the period column is
	// populated
	if l.date != -1 && field(l.date) == "" {
		obs.Period = ""
	}

	return obs
}
