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

package report_test

import (
	"bytes"
	"context"

	json "github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/jtmomentum/data"
	"github.com/penny-vault/jtmomentum/momentum"
	"github.com/penny-vault/jtmomentum/report"
)

func studyResult(observations []data.Observation) *momentum.Result {
	res, err := momentum.Run(context.Background(), observations, momentum.DefaultConfig())
	Expect(err).NotTo(HaveOccurred())
	return res
}

// A wins and C loses in periods 2 through 4; only periods 2 and 3 have a
// following period
func definedObservations() []data.Observation {
	return []data.Observation{
		{Period: "1", Exchange: "N", Security: "A", Return: "0.10"},
		{Period: "2", Exchange: "N", Security: "A", Return: "0.05"},
		{Period: "3", Exchange: "N", Security: "A", Return: "0.20"},
		{Period: "4", Exchange: "N", Security: "A", Return: "0.01"},
		{Period: "1", Exchange: "N", Security: "C", Return: "0.01"},
		{Period: "2", Exchange: "N", Security: "C", Return: "0.01"},
		{Period: "3", Exchange: "N", Security: "C", Return: "0.01"},
		{Period: "4", Exchange: "N", Security: "C", Return: "0.01"},
	}
}

// only the last period can be ranked so nothing has a forward return
func undefinedObservations() []data.Observation {
	return []data.Observation{
		{Period: "3", Exchange: "A", Security: "A", Return: "0.01"},
		{Period: "4", Exchange: "A", Security: "A", Return: "0.01"},
		{Period: "3", Exchange: "A", Security: "B", Return: "0.01"},
		{Period: "4", Exchange: "A", Security: "B", Return: "0.03"},
	}
}

var _ = Describe("Report", func() {
	Describe("Text", func() {
		It("prints the three aggregates as percentages", func() {
			summary := momentum.Summary{
				Winners: momentum.MeanOf([]float64{0.20, 0.01}),
				Losers:  momentum.MeanOf([]float64{0.01}),
			}
			summary.Premium = summary.Winners.Spread(summary.Losers)

			buf := &bytes.Buffer{}
			Expect(report.Text(buf, summary, 1, 6)).To(Succeed())
			Expect(buf.String()).To(Equal(
				"Average return of Winners (next 6 months): 10.50%\n" +
					"Average return of Losers (next 6 months): 1.00%\n" +
					"Momentum Premium (Winners - Losers): 9.50%\n"))
		})

		It("scales the horizon by the holding period", func() {
			buf := &bytes.Buffer{}
			Expect(report.Text(buf, momentum.Summary{}, 2, 6)).To(Succeed())
			Expect(buf.String()).To(ContainSubstring("(next 12 months)"))
		})

		It("prints undefined aggregates as undefined rather than zero", func() {
			buf := &bytes.Buffer{}
			Expect(report.Text(buf, studyResult(undefinedObservations()).Summary, 1, 6)).To(Succeed())
			Expect(buf.String()).To(Equal(
				"Average return of Winners (next 6 months): undefined (no forward returns)\n" +
					"Average return of Losers (next 6 months): undefined (no forward returns)\n" +
					"Momentum Premium (Winners - Losers): undefined (no forward returns)\n"))
		})
	})

	Describe("JSON", func() {
		It("includes the parameters and aggregates", func() {
			res := studyResult(definedObservations())
			buf := &bytes.Buffer{}
			Expect(report.JSON(buf, res)).To(Succeed())

			var doc map[string]interface{}
			Expect(json.Unmarshal(buf.Bytes(), &doc)).To(Succeed())
			Expect(doc["run_id"]).To(Equal(res.RunID))
			Expect(doc["fingerprint"]).To(Equal(res.Fingerprint))
			Expect(doc["num_winners"]).To(BeNumerically("==", 3))

			params := doc["parameters"].(map[string]interface{})
			Expect(params["analysis_period"]).To(BeNumerically("==", 2))
			Expect(params["exchanges"]).To(ConsistOf("N", "A"))

			premium := doc["premium"].(map[string]interface{})
			Expect(premium["mean"]).To(BeNumerically("~", 0.095, 1e-12))
			Expect(doc["periods"]).To(HaveLen(3))
		})

		It("encodes undefined aggregates as null", func() {
			buf := &bytes.Buffer{}
			Expect(report.JSON(buf, studyResult(undefinedObservations()))).To(Succeed())

			var doc map[string]interface{}
			Expect(json.Unmarshal(buf.Bytes(), &doc)).To(Succeed())
			for _, name := range []string{"winners", "losers", "premium"} {
				agg := doc[name].(map[string]interface{})
				Expect(agg).To(HaveKeyWithValue("mean", BeNil()))
				Expect(agg).To(HaveKeyWithValue("count", BeNumerically("==", 0)))
			}
		})
	})

	Describe("Table", func() {
		It("lists every ranking period", func() {
			out := report.Table(studyResult(definedObservations()))
			Expect(out).To(ContainSubstring("Winner Return"))
			Expect(out).To(ContainSubstring("20.00%"))
			Expect(out).To(ContainSubstring("Overall"))
			Expect(out).To(ContainSubstring("9.50%"))
		})

		It("reports no data", func() {
			Expect(report.Table(&momentum.Result{})).To(Equal("<NO DATA>\n"))
		})
	})

	Describe("Write", func() {
		DescribeTable("dispatches on the format",
			func(name string, expected string) {
				format, err := report.ParseFormat(name)
				Expect(err).NotTo(HaveOccurred())

				buf := &bytes.Buffer{}
				Expect(report.Write(buf, studyResult(definedObservations()), format)).To(Succeed())
				Expect(buf.String()).To(ContainSubstring(expected))
			},
			Entry("text", "text", "Momentum Premium"),
			Entry("json", "JSON", `"run_id"`),
			Entry("table", " table ", "Overall"),
		)

		It("rejects unknown formats", func() {
			_, err := report.ParseFormat("xml")
			Expect(err).To(MatchError(report.ErrUnknownFormat))
		})
	})

	Describe("Dump", func() {
		DescribeTable("prints a stage table",
			func(name string, expected string) {
				stage, err := report.ParseStage(name)
				Expect(err).NotTo(HaveOccurred())

				buf := &bytes.Buffer{}
				Expect(report.Dump(buf, studyResult(definedObservations()), stage)).To(Succeed())
				Expect(buf.String()).To(ContainSubstring(expected))
			},
			Entry("normalized", "normalized", "TotalReturn"),
			Entry("ranked", "ranked", "Decile"),
			Entry("winners", "winners", "A@2"),
			Entry("losers", "losers", "C@2"),
		)

		It("rejects unknown stages", func() {
			_, err := report.ParseStage("joined")
			Expect(err).To(MatchError(report.ErrUnknownStage))
		})
	})
})
