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
)

// Select extracts the winner (top decile) and loser (bottom decile) rows and
// sets the period each one is held until
func Select(ranked *RankedTable, holdingPeriod int) (winners *Selections, losers *Selections, err error) {
	if holdingPeriod < 1 {
		return nil, nil, fmt.Errorf("%w: holding period must be positive, got %d", ErrInvalidPeriod, holdingPeriod)
	}

	winners = &Selections{Decile: WinnerDecile, HoldingPeriod: holdingPeriod, Rows: []Selection{}}
	losers = &Selections{Decile: LoserDecile, HoldingPeriod: holdingPeriod, Rows: []Selection{}}

	for _, row := range ranked.Rows {
		if !row.HasDecile {
			continue
		}

		sel := Selection{
			Ranked:       row,
			TargetPeriod: row.Period + holdingPeriod,
		}

		switch row.Decile {
		case WinnerDecile:
			winners.Rows = append(winners.Rows, sel)
		case LoserDecile:
			losers.Rows = append(losers.Rows, sel)
		}
	}

	return winners, losers, nil
}
