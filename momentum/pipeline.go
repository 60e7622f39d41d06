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
	"math"

	"github.com/google/uuid"
	"github.com/penny-vault/jtmomentum/common"
	"github.com/penny-vault/jtmomentum/data"
	"github.com/penny-vault/jtmomentum/observability/opentelemetry"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Result holds every table the study produced along with its summary
type Result struct {
	RunID       string
	Fingerprint string
	Config      Config
	Stats       LoadStats

	Normalized     *PeriodReturns
	Ranked         *RankedTable
	Winners        *Selections
	Losers         *Selections
	WinnerOutcomes *Outcomes
	LoserOutcomes  *Outcomes
	Summary        Summary
}

// Run executes the study: normalize, rank, select, and join. An undefined
// aggregate is not an error here; check Result.Summary.Err().
func Run(ctx context.Context, observations []data.Observation, cfg Config) (*Result, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "momentum.Run")
	defer span.End()

	if err := cfg.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid configuration")
		return nil, err
	}

	res := &Result{
		RunID:  uuid.New().String(),
		Config: cfg,
	}
	span.SetAttributes(attribute.String("run_id", res.RunID))

	subLog := log.With().Str("RunID", res.RunID).Int("AnalysisPeriod", cfg.AnalysisPeriod).Int("HoldingPeriod", cfg.HoldingPeriod).Logger()
	subLog.Info().Int("Observations", len(observations)).Msg("starting momentum study")

	var err error
	res.Normalized, res.Stats, err = Normalize(ctx, observations, cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "normalize failed")
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Ranked, err = Rank(ctx, res.Normalized, cfg.AnalysisPeriod)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rank failed")
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, selectSpan := otel.Tracer(opentelemetry.Name).Start(ctx, "momentum.Select")
	res.Winners, res.Losers, err = Select(res.Ranked, cfg.HoldingPeriod)
	selectSpan.End()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}

	_, joinSpan := otel.Tracer(opentelemetry.Name).Start(ctx, "momentum.Join")
	res.WinnerOutcomes, res.LoserOutcomes, res.Summary = Join(res.Normalized, res.Winners, res.Losers)
	joinSpan.End()

	res.Fingerprint, err = fingerprint(res.Normalized, cfg)
	if err != nil {
		subLog.Error().Err(err).Msg("could not compute run fingerprint")
		return nil, err
	}

	subLog.Info().
		Int("PeriodReturns", res.Normalized.Len()).
		Int("NumWinners", res.Summary.NumWinners).
		Int("NumLosers", res.Summary.NumLosers).
		Str("Fingerprint", res.Fingerprint).
		Msg("momentum study complete")

	if err := res.Summary.Err(); err != nil {
		subLog.Warn().Err(err).Msg("momentum premium could not be fully computed")
	}

	return res, nil
}

// fingerprint hashes the normalized returns and the periods that change the
// computation. Float values are hashed by their bit pattern so two runs only
// match when their inputs are bit-identical.
func fingerprint(returns *PeriodReturns, cfg Config) (string, error) {
	fp := common.NewFingerprint()
	if err := fp.Write(
		fmt.Sprintf("analysis=%d", cfg.AnalysisPeriod),
		fmt.Sprintf("holding=%d", cfg.HoldingPeriod),
	); err != nil {
		return "", err
	}

	for _, row := range returns.Rows {
		if _, err := fmt.Fprintf(fp.Writer(), "%s|%d|%016x\n", row.Security, row.Period, math.Float64bits(row.TotalReturn)); err != nil {
			return "", err
		}
	}

	return fp.Sum()
}
