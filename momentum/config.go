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
	_ "embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

//go:embed defaults.toml
var defaultsDoc []byte

// Config holds the study parameters. Only AnalysisPeriod and HoldingPeriod
// change the computation; the remaining fields control input cleaning and
// presentation.
type Config struct {
	// AnalysisPeriod is the number of trailing periods summed to rank securities
	AnalysisPeriod int `toml:"analysis_period" mapstructure:"analysis_period"`

	// HoldingPeriod is how many periods after ranking performance is measured
	HoldingPeriod int `toml:"holding_period" mapstructure:"holding_period"`

	// MonthsPerPeriod is only used to label output
	MonthsPerPeriod int `toml:"months_per_period" mapstructure:"months_per_period"`

	// Exchanges lists the exchange codes kept by the loader
	Exchanges []string `toml:"exchanges" mapstructure:"exchanges"`

	// Strict makes the loader return ErrDataEmpty instead of an empty table
	Strict bool `toml:"strict" mapstructure:"strict"`

	// AllowNegative accepts returns with a leading minus sign
	AllowNegative bool `toml:"allow_negative" mapstructure:"allow_negative"`
}

// StudyInfo describes the study; it is read from the embedded defaults
type StudyInfo struct {
	Name        string `toml:"name"`
	Shortcode   string `toml:"shortcode"`
	Description string `toml:"description"`
	Study       Config `toml:"study"`
}

// Info parses the embedded study description and defaults
func Info() StudyInfo {
	var info StudyInfo
	if err := toml.Unmarshal(defaultsDoc, &info); err != nil {
		log.Panic().Err(err).Msg("could not parse embedded defaults.toml")
	}
	return info
}

// DefaultConfig returns the Jegadeesh & Titman parameters: 12 month
// (2 semester) ranking, 6 month (1 semester) holding, NYSE and AMEX listings
func DefaultConfig() Config {
	return Info().Study
}

// Validate checks that the periods are positive
func (cfg Config) Validate() error {
	if cfg.AnalysisPeriod < 1 {
		return fmt.Errorf("%w: analysis period must be positive, got %d", ErrInvalidPeriod, cfg.AnalysisPeriod)
	}
	if cfg.HoldingPeriod < 1 {
		return fmt.Errorf("%w: holding period must be positive, got %d", ErrInvalidPeriod, cfg.HoldingPeriod)
	}
	if len(cfg.Exchanges) == 0 {
		return ErrNoExchanges
	}
	return nil
}
