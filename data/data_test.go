// Copyright 2024
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
	"math"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/boxoffice/data"
)

var _ = Describe("Frame", func() {
	var movies dataframe.DataFrame

	BeforeEach(func() {
		var err error
		movies, err = data.ReadFrame(strings.NewReader(`Title,Year,budget,Writer 1,Writer 2,BoxOffice
1917,2019,95000000,Sam Mendes,Krysty Wilson-Cairns,inf
Avatar,2009,NaN,James Cameron,,760507625
`), nil, "Title")
		Expect(err).NotTo(HaveOccurred())
	})

	It("loads forced columns as text", func() {
		Expect(movies.Col("Title").Type()).To(Equal(series.String))
		Expect(data.IsNumeric(movies.Col("Year"))).To(BeTrue())
		Expect(data.IsNumeric(movies.Col("Title"))).To(BeFalse())
	})

	It("reads NaN and inf tokens as missing", func() {
		budget, err := data.Floats(movies, "budget")
		Expect(err).NotTo(HaveOccurred())
		Expect(budget[0]).To(Equal(95000000.0))
		Expect(math.IsNaN(budget[1])).To(BeTrue())

		boxOffice, err := data.Floats(movies, "BoxOffice")
		Expect(err).NotTo(HaveOccurred())
		Expect(math.IsNaN(boxOffice[0])).To(BeTrue())
	})

	It("returns missing text as empty strings", func() {
		writers, err := data.Strings(movies, "Writer 2")
		Expect(err).NotTo(HaveOccurred())
		Expect(writers).To(Equal([]string{"Krysty Wilson-Cairns", ""}))
	})

	It("finds columns by prefix in table order", func() {
		Expect(data.ColumnsWithPrefix(movies, "Write")).To(Equal([]string{"Writer 1", "Writer 2"}))
		Expect(data.ColumnsWithPrefix(movies, "Cast")).To(BeEmpty())
	})

	It("reports missing columns", func() {
		_, err := data.Floats(movies, "oscar_wins")
		Expect(err).To(MatchError(data.ErrColumnNotFound))
		Expect(data.HasColumn(movies, "budget")).To(BeTrue())
	})

	It("converts columns to text", func() {
		converted := data.AsText(movies, "Year")
		Expect(converted.Col("Year").Type()).To(Equal(series.String))
		years, err := data.Strings(converted, "Year")
		Expect(err).NotTo(HaveOccurred())
		Expect(years).To(Equal([]string{"2019", "2009"}))
	})

	It("round trips through a CSV file", func() {
		fn := filepath.Join(GinkgoT().TempDir(), "movies.csv")
		Expect(data.SaveFrame(movies, fn)).To(Succeed())

		loaded, err := data.LoadFrame(fn, nil, "Title")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Names()).To(Equal(movies.Names()))
		Expect(loaded.Nrow()).To(Equal(2))
	})
})

var _ = Describe("Movies", func() {
	It("converts rows to movie records", func() {
		df, err := data.ReadFrame(strings.NewReader(`Title,Year,budget,worldwide-gross,oscar_wins,real_revenue,genre_1
Avatar,2009,237000000,2923706026,3,4152686745.5,Action
`), nil, "Title")
		Expect(err).NotTo(HaveOccurred())

		movies := data.Movies(df, data.DefaultColumns())
		Expect(movies).To(HaveLen(1))
		Expect(movies[0].Title).To(Equal("Avatar"))
		Expect(movies[0].Year).To(Equal(2009))
		Expect(movies[0].Budget).To(Equal(237000000.0))
		Expect(movies[0].OscarWins).To(Equal(3))
		Expect(movies[0].RealRevenue).To(Equal(4152686745.5))
		Expect(movies[0].PrimaryGenre).To(Equal("Action"))
		Expect(movies[0].Director).To(BeEmpty())
	})
})

var _ = Describe("Columns", func() {
	It("fills unset names with defaults", func() {
		cols := data.Columns{Budget: "budget_usd"}.WithDefaults()
		Expect(cols.Budget).To(Equal("budget_usd"))
		Expect(cols.Title).To(Equal("Title"))
		Expect(cols.WorldwideGross).To(Equal("worldwide-gross"))
		Expect(cols.FillColumns()).To(ContainElement("budget_usd"))
	})
})
