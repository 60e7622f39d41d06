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

package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/penny-vault/jtmomentum/common"
	"github.com/penny-vault/jtmomentum/data"
	"github.com/penny-vault/jtmomentum/momentum"
	"github.com/penny-vault/jtmomentum/observability/opentelemetry"
	"github.com/penny-vault/jtmomentum/report"
	"github.com/rs/zerolog/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	defaults := momentum.DefaultConfig()

	rootCmd.AddCommand(runCmd)

	viper.BindEnv("study.analysis_period", "JT_ANALYSIS_PERIOD")
	runCmd.Flags().Int("analysis-period", defaults.AnalysisPeriod, "Number of periods summed to rank securities")
	viper.BindPFlag("study.analysis_period", runCmd.Flags().Lookup("analysis-period"))

	viper.BindEnv("study.holding_period", "JT_HOLDING_PERIOD")
	runCmd.Flags().Int("holding-period", defaults.HoldingPeriod, "Number of periods after ranking that returns are measured")
	viper.BindPFlag("study.holding_period", runCmd.Flags().Lookup("holding-period"))

	viper.BindEnv("study.months_per_period", "JT_MONTHS_PER_PERIOD")
	runCmd.Flags().Int("months-per-period", defaults.MonthsPerPeriod, "Months in one period, only used to label output")
	viper.BindPFlag("study.months_per_period", runCmd.Flags().Lookup("months-per-period"))

	viper.BindEnv("study.exchanges", "JT_EXCHANGES")
	runCmd.Flags().StringSlice("exchanges", defaults.Exchanges, "Exchange codes to keep")
	viper.BindPFlag("study.exchanges", runCmd.Flags().Lookup("exchanges"))

	viper.BindEnv("study.strict", "JT_STRICT")
	runCmd.Flags().Bool("strict", defaults.Strict, "Fail when no observations survive cleaning")
	viper.BindPFlag("study.strict", runCmd.Flags().Lookup("strict"))

	viper.BindEnv("study.allow_negative", "JT_ALLOW_NEGATIVE_RETURNS")
	runCmd.Flags().Bool("allow-negative-returns", defaults.AllowNegative, "Keep negative returns instead of discarding them")
	viper.BindPFlag("study.allow_negative", runCmd.Flags().Lookup("allow-negative-returns"))

	viper.BindEnv("database.table", "JT_DATABASE_TABLE")
	runCmd.Flags().String("table", "msf", "Table to read when SOURCE is a database")
	viper.BindPFlag("database.table", runCmd.Flags().Lookup("table"))

	runCmd.Flags().String("format", string(report.FormatText), "Output format one of: `text`, `json`, or `table`")
	viper.BindPFlag("report.format", runCmd.Flags().Lookup("format"))

	runCmd.Flags().StringSlice("dump", []string{}, "Print intermediate tables: normalized, ranked, winners, losers")

	// column mapping is only configurable through the config file or environment
	viper.SetDefault("columns.date", data.DefaultColumns.Date)
	viper.SetDefault("columns.period", data.DefaultColumns.Period)
	viper.SetDefault("columns.exchange", data.DefaultColumns.Exchange)
	viper.SetDefault("columns.security", data.DefaultColumns.Security)
	viper.SetDefault("columns.return", data.DefaultColumns.Return)
}

var runCmd = &cobra.Command{
	Use:   "run [flags] [SOURCE]",
	Short: "Run the momentum study and print the report",
	Long: `Run the momentum study on SOURCE and print the report.

SOURCE is a path to a csv file, an http(s) URL of a csv document, or a
postgres:// connection string; files and URLs ending in .lz4 are
decompressed. When SOURCE is omitted database.url is used.`,
	Args:       cobra.MaximumNArgs(1),
	ArgAliases: []string{"SOURCE"},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		shutdown, err := opentelemetry.Setup()
		if err != nil {
			log.Fatal().Err(err).Msg("could not setup tracing")
		}
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Error().Err(err).Msg("could not flush traces")
			}
		}()

		source := viper.GetString("database.url")
		if len(args) > 0 {
			source = args[0]
		}
		if source == "" {
			log.Fatal().Msg("no SOURCE given and database.url is not configured")
		}

		format, err := report.ParseFormat(viper.GetString("report.format"))
		if err != nil {
			log.Fatal().Err(err).Msg("invalid --format")
		}

		dumpNames, err := cmd.Flags().GetStringSlice("dump")
		if err != nil {
			log.Fatal().Err(err).Msg("could not read --dump")
		}
		stages := make([]report.Stage, 0, len(dumpNames))
		for _, name := range dumpNames {
			stage, err := report.ParseStage(name)
			if err != nil {
				log.Fatal().Err(err).Msg("invalid --dump")
			}
			stages = append(stages, stage)
		}

		cfg := momentum.Config{
			AnalysisPeriod:  viper.GetInt("study.analysis_period"),
			HoldingPeriod:   viper.GetInt("study.holding_period"),
			MonthsPerPeriod: viper.GetInt("study.months_per_period"),
			Exchanges:       viper.GetStringSlice("study.exchanges"),
			Strict:          viper.GetBool("study.strict"),
			AllowNegative:   viper.GetBool("study.allow_negative"),
		}
		common.ArrToUpper(cfg.Exchanges)

		cols := data.ColumnMap{
			Date:     viper.GetString("columns.date"),
			Period:   viper.GetString("columns.period"),
			Exchange: viper.GetString("columns.exchange"),
			Security: viper.GetString("columns.security"),
			Return:   viper.GetString("columns.return"),
		}

		observations, err := data.Load(ctx, source, viper.GetString("database.table"), cols)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load observations")
		}

		res, err := momentum.Run(ctx, observations, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("momentum study failed")
		}

		for _, stage := range stages {
			if err := report.Dump(os.Stdout, res, stage); err != nil {
				log.Fatal().Err(err).Str("Stage", string(stage)).Msg("could not print stage")
			}
		}

		if err := report.Write(os.Stdout, res, format); err != nil {
			log.Fatal().Err(err).Msg("could not write report")
		}

		if err := res.Summary.Err(); errors.Is(err, momentum.ErrUndefinedAggregate) {
			log.Warn().Err(err).Msg("some aggregates are undefined")
		}
	},
}
