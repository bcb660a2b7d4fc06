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
package clean_test

import (
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/boxoffice/clean"
	"github.com/penny-vault/boxoffice/data"
)

func frame(csv string) dataframe.DataFrame {
	df, err := data.ReadFrame(strings.NewReader(csv), nil, "Title")
	Expect(err).NotTo(HaveOccurred())
	return df
}

var _ = Describe("Movies", func() {
	var (
		movies dataframe.DataFrame
		opts   clean.Options
	)

	BeforeEach(func() {
		movies = frame(`Title,Year,Director,budget,worldwide-gross,domestic-gross,BoxOffice
Avatar,2009,James Cameron,237000000,2787965087,760507625,NaN
Up,2009,Pete Docter,0,735099082,293004164,293004164
Titanic,1997,James Cameron,200000000,inf,600788188,
The Room,2003,,6000000,1800,1800,1800
Avatar,2009,James Cameron,237000000,2787965087,760507625,NaN
Cats,2019,Tom Hooper,NaN,75500000,27200000,27200000
`)

		opts = clean.Options{
			FillColumns: data.DefaultColumns().FillColumns(),
			Required:    []string{"budget", "worldwide-gross"},
		}
	})

	It("keeps only rows with a non-zero budget and worldwide gross", func() {
		cleaned, report, err := clean.Movies(movies, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(clean.HasZero(cleaned, "budget", "worldwide-gross")).To(BeFalse())

		titles, _ := data.Strings(cleaned, "Title")
		Expect(titles).To(ConsistOf("Avatar", "The Room"))
		Expect(report.RowsIn).To(Equal(6))
		Expect(report.RowsOut).To(Equal(2))
	})

	It("drops Up because its budget is zero", func() {
		cleaned, _, err := clean.Movies(movies, opts)
		Expect(err).NotTo(HaveOccurred())

		titles, _ := data.Strings(cleaned, "Title")
		Expect(titles).NotTo(ContainElement("Up"))
	})

	It("removes exact duplicate rows before filling", func() {
		_, report, err := clean.Movies(movies, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.DuplicatesRemoved).To(Equal(1))
	})

	It("fills missing text with the placeholder and numbers with zero", func() {
		cleaned, report, err := clean.Movies(movies, opts)
		Expect(err).NotTo(HaveOccurred())

		directors, _ := data.Strings(cleaned, "Director")
		Expect(directors).To(ContainElement(clean.TextPlaceholder))

		boxOffice, _ := data.Floats(cleaned, "BoxOffice")
		Expect(boxOffice).To(ContainElement(0.0))

		Expect(report.Filled).To(HaveKeyWithValue("BoxOffice", 2))
		Expect(report.Filled).To(HaveKeyWithValue("budget", 1))
	})

	It("fails when a required column is missing", func() {
		opts.Required = []string{"budget", "gross"}
		_, _, err := clean.Movies(movies, opts)
		Expect(err).To(MatchError(clean.ErrRequiredColumn))
	})
})

var _ = Describe("FillNumeric", func() {
	It("only fills missing cells", func() {
		df := frame(`Title,budget
Avatar,237000000
Up,
Cars,0
`)
		filled := make(map[string]int)
		out := clean.FillNumeric(df, []string{"budget"}, filled)

		budget, err := data.Floats(out, "budget")
		Expect(err).NotTo(HaveOccurred())
		Expect(budget).To(Equal([]float64{237000000, 0, 0}))
		Expect(filled).To(HaveKeyWithValue("budget", 1))
	})

	It("keeps values that are not numbers instead of zeroing them", func() {
		df := frame(`Title,budget
Avatar,"$237,000,000"
Up,5
Cars,
`)
		filled := make(map[string]int)
		out := clean.FillNumeric(df, []string{"budget"}, filled)

		budget, err := data.Strings(out, "budget")
		Expect(err).NotTo(HaveOccurred())
		Expect(budget[0]).To(Equal("$237,000,000"))
		Expect(budget[1]).To(Equal("5"))
		Expect(filled).To(HaveKeyWithValue("budget", 1))
	})

	It("does not drop rows whose required value is text", func() {
		df := frame(`Title,budget,worldwide-gross
Avatar,"$237,000,000",2787965087
Up,5,735099082
Cars,,100
`)
		cleaned, report, err := clean.Movies(df, clean.Options{
			FillColumns: []string{"budget", "worldwide-gross"},
			Required:    []string{"budget", "worldwide-gross"},
		})
		Expect(err).NotTo(HaveOccurred())

		titles, _ := data.Strings(cleaned, "Title")
		Expect(titles).To(Equal([]string{"Avatar", "Up"}))
		Expect(report.Filled).To(HaveKeyWithValue("budget", 1))
		Expect(report.RowsDropped).To(Equal(1))
	})
})

var _ = Describe("FillRemaining", func() {
	It("keeps integer columns integral", func() {
		df := frame(`Title,oscar_wins
Avatar,3
Up,
`)
		Expect(df.Col("oscar_wins").Type()).To(Equal(series.Int))

		filled := make(map[string]int)
		out := clean.FillRemaining(df, filled)
		Expect(out.Col("oscar_wins").Type()).To(Equal(series.Int))
		Expect(out.Col("oscar_wins").HasNaN()).To(BeFalse())
		Expect(filled).To(HaveKeyWithValue("oscar_wins", 1))
	})
})

var _ = Describe("DropDuplicates", func() {
	It("keeps the first of identical rows", func() {
		df := frame(`Title,Year
Up,2009
Up,2009
Up,2010
`)
		out, removed := clean.DropDuplicates(df)
		Expect(removed).To(Equal(1))
		Expect(out.Nrow()).To(Equal(2))
	})

	It("compares floats at full precision", func() {
		df := frame(`Title,rating
Up,1.00000001
Up,1.00000002
`)
		Expect(df.Col("rating").Type()).To(Equal(series.Float))

		out, removed := clean.DropDuplicates(df)
		Expect(removed).To(Equal(0))
		Expect(out.Nrow()).To(Equal(2))
	})

	It("treats missing values as equal to each other", func() {
		df := frame(`Title,rating
Up,
Up,
`)
		_, removed := clean.DropDuplicates(df)
		Expect(removed).To(Equal(1))
	})

	It("returns the table unchanged when there are no duplicates", func() {
		df := frame(`Title,Year
Up,2009
Cars,2006
`)
		out, removed := clean.DropDuplicates(df)
		Expect(removed).To(Equal(0))
		Expect(out.Nrow()).To(Equal(2))
	})
})
