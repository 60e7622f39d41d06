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

package momentum_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/jtmomentum/momentum"
	"gonum.org/v1/gonum/floats"
)

var _ = Describe("Ranker", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("rejects a non-positive analysis period", func() {
		_, err := momentum.Rank(ctx, abcReturns(), 0)
		Expect(err).To(MatchError(momentum.ErrInvalidPeriod))
	})

	Context("with three securities over four periods", func() {
		var ranked *momentum.RankedTable

		BeforeEach(func() {
			var err error
			ranked, err = momentum.Rank(ctx, abcReturns(), 2)
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps every row", func() {
			Expect(ranked.Len()).To(Equal(12))
			Expect(ranked.AnalysisPeriod).To(Equal(2))
		})

		It("leaves the first period of each security unranked", func() {
			for _, row := range ranked.Period(1) {
				Expect(row.HasCumulative).To(BeFalse())
				Expect(row.HasDecile).To(BeFalse())
			}
		})

		It("sums the trailing two periods", func() {
			cumulative := make(map[momentum.Key]float64)
			for _, row := range ranked.Rows {
				if row.HasCumulative {
					cumulative[row.Key()] = row.Cumulative
				}
			}

			Expect(cumulative).To(HaveLen(9))
			Expect(cumulative[momentum.Key{Security: "A", Period: 2}]).To(BeNumerically("~", 0.15, 1e-12))
			Expect(cumulative[momentum.Key{Security: "A", Period: 3}]).To(BeNumerically("~", 0.25, 1e-12))
			Expect(cumulative[momentum.Key{Security: "A", Period: 4}]).To(BeNumerically("~", 0.21, 1e-12))
			Expect(cumulative[momentum.Key{Security: "B", Period: 2}]).To(BeNumerically("~", -0.03, 1e-12))
			Expect(cumulative[momentum.Key{Security: "B", Period: 3}]).To(BeNumerically("~", 0.03, 1e-12))
			Expect(cumulative[momentum.Key{Security: "B", Period: 4}]).To(BeNumerically("~", 0.04, 1e-12))
			Expect(cumulative[momentum.Key{Security: "C", Period: 4}]).To(BeNumerically("~", 0.02, 1e-12))
		})

		DescribeTable("assigns deciles within a period",
			func(period int, expected map[string]int) {
				deciles := make(map[string]int)
				for _, row := range ranked.Period(period) {
					Expect(row.HasDecile).To(BeTrue())
					deciles[row.Security] = row.Decile
				}
				Expect(deciles).To(Equal(expected))
			},
			Entry("period 2", 2, map[string]int{"A": 9, "B": 0, "C": 4}),
			Entry("period 3", 3, map[string]int{"A": 9, "B": 4, "C": 0}),
			Entry("period 4", 4, map[string]int{"A": 9, "B": 4, "C": 0}),
		)

		It("renders undefined values as NaN", func() {
			df := ranked.DataFrame()
			Expect(df.ColNames).To(Equal([]string{"TotalReturn", "Cumulative", "Decile"}))

			decile, err := df.Column("Decile")
			Expect(err).NotTo(HaveOccurred())
			Expect(decile[0]).To(BeNaN())
			Expect(decile[3]).To(Equal(9.0))
		})
	})

	It("ranks a single period window on that period alone", func() {
		ranked, err := momentum.Rank(ctx, abcReturns(), 1)
		Expect(err).NotTo(HaveOccurred())
		for _, row := range ranked.Rows {
			Expect(row.HasCumulative).To(BeTrue())
			Expect(row.Cumulative).To(Equal(row.TotalReturn))
		}
	})

	It("ranks nothing when the window is longer than the history", func() {
		ranked, err := momentum.Rank(ctx, abcReturns(), 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(ranked.Len()).To(Equal(12))
		for _, row := range ranked.Rows {
			Expect(row.HasDecile).To(BeFalse())
		}
	})

	It("handles an empty table", func() {
		ranked, err := momentum.Rank(ctx, momentum.NewPeriodReturns(nil), 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(ranked.Len()).To(Equal(0))
	})

	Context("with a larger panel", func() {
		const (
			numSecurities = 40
			numPeriods    = 8
			window        = 3
		)

		var (
			returns *momentum.PeriodReturns
			ranked  *momentum.RankedTable
		)

		BeforeEach(func() {
			var err error
			returns = syntheticReturns(numSecurities, numPeriods)
			ranked, err = momentum.Rank(ctx, returns, window)
			Expect(err).NotTo(HaveOccurred())
		})

		It("defines the cumulative return exactly when the window is full", func() {
			for idx, row := range ranked.Rows {
				if row.Period < window {
					Expect(row.HasCumulative).To(BeFalse())
					continue
				}

				totals := make([]float64, 0, window)
				for _, pr := range returns.Rows[idx-window+1 : idx+1] {
					Expect(pr.Security).To(Equal(row.Security))
					totals = append(totals, pr.TotalReturn)
				}
				Expect(row.HasCumulative).To(BeTrue())
				Expect(row.Cumulative).To(Equal(floats.Sum(totals)))
			}
		})

		It("ranks exactly the rows with a cumulative return", func() {
			for _, row := range ranked.Rows {
				Expect(row.HasDecile).To(Equal(row.HasCumulative))
				if row.HasDecile {
					Expect(row.Decile).To(BeNumerically(">=", 0))
					Expect(row.Decile).To(BeNumerically("<", momentum.NumDeciles))
				}
			}
		})

		It("orders deciles by cumulative return within each period", func() {
			for period := window; period <= numPeriods; period++ {
				rows := ranked.Period(period)
				Expect(rows).To(HaveLen(numSecurities))
				for _, a := range rows {
					for _, b := range rows {
						if a.Cumulative < b.Cumulative {
							Expect(a.Decile).To(BeNumerically("<=", b.Decile))
						}
					}
				}
			}
		})
	})
})
