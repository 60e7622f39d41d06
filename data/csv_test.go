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

package data_test

import (
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/penny-vault/jtmomentum/data"
)

var _ = Describe("CSV", func() {
	Context("with the default column map", func() {
		It("reads every row as raw strings", func() {
			obs, err := data.ReadCSV(strings.NewReader(
				"PERMNO,date,PRIMEXCH,RET,semester\n"+
					"10001,1965-01-29,N,0.05,3930\n"+
					"10002,1965-01-29,A,B,3930\n"), data.DefaultColumns)
			Expect(err).To(BeNil())
			Expect(obs).To(Equal([]data.Observation{
				{Period: "3930", Exchange: "N", Security: "10001", Return: "0.05"},
				{Period: "3930", Exchange: "A", Security: "10002", Return: "B"},
			}))
		})

		It("ignores column order and extra columns", func() {
			obs, err := data.ReadCSV(strings.NewReader(
				"RET,SHRCD,semester,PRIMEXCH,date,PERMNO\n"+
					"0.05,10,3930,N,1965-01-29,10001\n"), data.DefaultColumns)
			Expect(err).To(BeNil())
			Expect(obs).To(HaveLen(1))
			Expect(obs[0].Security).To(Equal("10001"))
			Expect(obs[0].Return).To(Equal("0.05"))
		})

		It("treats a missing date as a missing period", func() {
			obs, err := data.ReadCSV(strings.NewReader(
				"PERMNO,date,PRIMEXCH,RET,semester\n"+
					"10001,,N,0.05,3930\n"), data.DefaultColumns)
			Expect(err).To(BeNil())
			Expect(obs[0].Period).To(Equal(""))
		})

		It("derives the period from the date when there is no period column", func() {
			obs, err := data.ReadCSV(strings.NewReader(
				"PERMNO,date,PRIMEXCH,RET\n"+
					"10001,1965-01-29,N,0.05\n"+
					"10001,1965-07-30,N,0.01\n"+
					"10001,not a date,N,0.01\n"), data.DefaultColumns)
			Expect(err).To(BeNil())
			Expect(obs[0].Period).To(Equal("3930"))
			Expect(obs[1].Period).To(Equal("3931"))
			Expect(obs[2].Period).To(Equal(""))
		})

		It("reads short rows as missing fields", func() {
			obs, err := data.ReadCSV(strings.NewReader(
				"PERMNO,date,PRIMEXCH,RET,semester\n"+
					"10001,1965-01-29\n"), data.DefaultColumns)
			Expect(err).To(BeNil())
			Expect(obs[0].Return).To(Equal(""))
		})
	})

	Context("with a custom column map", func() {
		It("uses the mapped names", func() {
			cols := data.ColumnMap{
				Date:     "Date",
				Exchange: "Exch",
				Security: "Ticker",
				Return:   "Ret",
			}
			obs, err := data.ReadCSV(strings.NewReader(
				"Ticker,Date,Exch,Ret\n"+
					"IBM,1980-12-31,N,0.1\n"), cols)
			Expect(err).To(BeNil())
			Expect(obs).To(Equal([]data.Observation{
				{Period: "3961", Exchange: "N", Security: "IBM", Return: "0.1"},
			}))
		})
	})

	Context("with a malformed schema", func() {
		It("reports every missing column", func() {
			_, err := data.ReadCSV(strings.NewReader("PERMNO,semester\n1,2\n"), data.DefaultColumns)
			Expect(errors.Is(err, data.ErrSchema)).To(BeTrue())

			var schemaErr *data.SchemaError
			Expect(errors.As(err, &schemaErr)).To(BeTrue())
			Expect(schemaErr.Missing).To(ConsistOf("PRIMEXCH", "RET"))
		})

		It("requires a date when there is no period column", func() {
			_, err := data.ReadCSV(strings.NewReader("PERMNO,PRIMEXCH,RET\n"), data.DefaultColumns)
			var schemaErr *data.SchemaError
			Expect(errors.As(err, &schemaErr)).To(BeTrue())
			Expect(schemaErr.Missing).To(ConsistOf("semester", "date"))
		})

		It("fails on empty input", func() {
			_, err := data.ReadCSV(strings.NewReader(""), data.DefaultColumns)
			Expect(errors.Is(err, data.ErrSchema)).To(BeTrue())
		})
	})

	DescribeTable("period labels", func(dt time.Time, expected int) {
		Expect(data.PeriodFromDate(dt)).To(Equal(expected))
	},
		Entry("january", time.Date(1965, 1, 29, 0, 0, 0, 0, time.UTC), 3930),
		Entry("june", time.Date(1965, 6, 30, 0, 0, 0, 0, time.UTC), 3930),
		Entry("july", time.Date(1965, 7, 30, 0, 0, 0, 0, time.UTC), 3931),
		Entry("december", time.Date(1965, 12, 31, 0, 0, 0, 0, time.UTC), 3931),
		Entry("next january", time.Date(1966, 1, 31, 0, 0, 0, 0, time.UTC), 3932),
	)

	DescribeTable("date layouts", func(val string, ok bool) {
		_, parsed := data.ParseDate(val)
		Expect(parsed).To(Equal(ok))
	},
		Entry("iso", "1965-01-29", true),
		Entry("compact", "19650129", true),
		Entry("slashes", "1965/01/29", true),
		Entry("us", "01/29/1965", true),
		Entry("garbage", "B", false),
	)
})
