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
)

func selectionKeys(sel *momentum.Selections) []string {
	keys := make([]string, sel.Len())
	for idx, row := range sel.Rows {
		keys[idx] = row.Key().String()
	}
	return keys
}

var _ = Describe("Selector", func() {
	var ranked *momentum.RankedTable

	BeforeEach(func() {
		var err error
		ranked, err = momentum.Rank(context.Background(), abcReturns(), 2)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects a non-positive holding period", func() {
		_, _, err := momentum.Select(ranked, 0)
		Expect(err).To(MatchError(momentum.ErrInvalidPeriod))
	})

	It("selects the top and bottom deciles", func() {
		winners, losers, err := momentum.Select(ranked, 1)
		Expect(err).NotTo(HaveOccurred())

		Expect(winners.Decile).To(Equal(momentum.WinnerDecile))
		Expect(losers.Decile).To(Equal(momentum.LoserDecile))
		Expect(selectionKeys(winners)).To(Equal([]string{"A@2", "A@3", "A@4"}))
		Expect(selectionKeys(losers)).To(Equal([]string{"B@2", "C@3", "C@4"}))
	})

	It("targets the period after the holding period", func() {
		winners, losers, err := momentum.Select(ranked, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(winners.HoldingPeriod).To(Equal(2))

		for _, row := range append(winners.Rows, losers.Rows...) {
			Expect(row.TargetPeriod).To(Equal(row.Period + 2))
		}
	})

	It("never puts a row in both portfolios", func() {
		ranked, err := momentum.Rank(context.Background(), syntheticReturns(40, 8), 3)
		Expect(err).NotTo(HaveOccurred())

		winners, losers, err := momentum.Select(ranked, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(winners.Len()).To(BeNumerically(">", 0))
		Expect(losers.Len()).To(BeNumerically(">", 0))

		seen := make(map[momentum.Key]bool)
		for _, row := range winners.Rows {
			Expect(row.Decile).To(Equal(momentum.WinnerDecile))
			seen[row.Key()] = true
		}
		for _, row := range losers.Rows {
			Expect(row.Decile).To(Equal(momentum.LoserDecile))
			Expect(seen).NotTo(HaveKey(row.Key()))
		}
	})

	It("selects nothing from a period of identical returns", func() {
		returns := momentum.NewPeriodReturns([]momentum.PeriodReturn{
			{Security: "X", Period: 1, TotalReturn: 0.01},
			{Security: "Y", Period: 1, TotalReturn: 0.01},
			{Security: "Z", Period: 1, TotalReturn: 0.01},
		})
		ranked, err := momentum.Rank(context.Background(), returns, 1)
		Expect(err).NotTo(HaveOccurred())
		for _, row := range ranked.Rows {
			Expect(row.HasCumulative).To(BeTrue())
			Expect(row.HasDecile).To(BeFalse())
		}

		winners, losers, err := momentum.Select(ranked, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(winners.Len()).To(Equal(0))
		Expect(losers.Len()).To(Equal(0))
	})

	It("selects nothing when each period has a single ranked row", func() {
		returns := momentum.NewPeriodReturns([]momentum.PeriodReturn{
			{Security: "X", Period: 1, TotalReturn: 0.1},
			{Security: "X", Period: 2, TotalReturn: 0.2},
			{Security: "X", Period: 3, TotalReturn: 0.3},
		})
		ranked, err := momentum.Rank(context.Background(), returns, 2)
		Expect(err).NotTo(HaveOccurred())

		winners, losers, err := momentum.Select(ranked, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(winners.Len()).To(Equal(0))
		Expect(losers.Len()).To(Equal(0))

		_, _, summary := momentum.Join(returns, winners, losers)
		Expect(summary.Winners.Defined).To(BeFalse())
		Expect(summary.Losers.Defined).To(BeFalse())
		Expect(summary.Err()).To(MatchError(momentum.ErrUndefinedAggregate))
	})
})
