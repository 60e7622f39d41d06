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

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/penny-vault/jtmomentum/dataframe"
	"github.com/penny-vault/jtmomentum/momentum"
)

// Stage names an intermediate table of the study
type Stage string

const (
	StageNormalized Stage = "normalized"
	StageRanked     Stage = "ranked"
	StageWinners    Stage = "winners"
	StageLosers     Stage = "losers"
)

// ParseStage validates a stage name
func ParseStage(name string) (Stage, error) {
	switch s := Stage(strings.ToLower(strings.TrimSpace(name))); s {
	case StageNormalized, StageRanked, StageWinners, StageLosers:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStage, name)
	}
}

// Dump writes one intermediate table of res
func Dump(w io.Writer, res *momentum.Result, stage Stage) error {
	var df *dataframe.DataFrame[momentum.Key]
	switch stage {
	case StageNormalized:
		df = res.Normalized.DataFrame()
	case StageRanked:
		df = res.Ranked.DataFrame()
	case StageWinners:
		df = res.WinnerOutcomes.DataFrame()
	case StageLosers:
		df = res.LoserOutcomes.DataFrame()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStage, stage)
	}

	_, err := fmt.Fprintln(w, df.Table())
	return err
}
