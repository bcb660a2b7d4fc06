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
package merge_test

import (
	"strings"

	"github.com/go-gota/gota/dataframe"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/boxoffice/data"
	"github.com/penny-vault/boxoffice/merge"
)

func frame(csv string, keys ...string) dataframe.DataFrame {
	df, err := data.ReadFrame(strings.NewReader(csv), nil, keys...)
	Expect(err).NotTo(HaveOccurred())
	return df
}

var _ = Describe("Left", func() {
	var (
		primary dataframe.DataFrame
		roster  dataframe.DataFrame
	)

	BeforeEach(func() {
		primary = frame(`Title,Year,worldwide-gross
Avatar,2009,2787965087
Up,2009,735099082
1917,2019,384577011
`, "Title")

		roster = frame(`Title,Writer 1,Writer 2,Cast1,Cast2
Avatar,James Cameron,,Sam Worthington,Zoe Saldana
1917,Sam Mendes,Krysty Wilson-Cairns,George MacKay,Dean-Charles Chapman
`, "Title")
	})

	It("keeps every primary row when auxiliary titles are unique", func() {
		merged, stats, err := merge.Left(primary, roster, merge.Join{
			Name:     "writers",
			LeftOn:   "Title",
			Prefixes: []string{"Write"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(merged.Nrow()).To(Equal(primary.Nrow()))
		Expect(stats.Matched).To(Equal(2))
		Expect(stats.Unmatched).To(Equal(1))
		Expect(stats.Columns).To(Equal([]string{"Writer 1", "Writer 2"}))
	})

	It("preserves the primary column order and appends auxiliary columns", func() {
		merged, _, err := merge.Left(primary, roster, merge.Join{
			Name:     "cast",
			LeftOn:   "Title",
			Prefixes: []string{"Cast"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(merged.Names()).To(Equal([]string{"Title", "Year", "worldwide-gross", "Cast1", "Cast2"}))
	})

	It("leaves unmatched rows with missing auxiliary values", func() {
		merged, _, err := merge.Left(primary, roster, merge.Join{
			Name:     "writers",
			LeftOn:   "Title",
			Prefixes: []string{"Write"},
		})
		Expect(err).NotTo(HaveOccurred())

		titles, err := data.Strings(merged, "Title")
		Expect(err).NotTo(HaveOccurred())
		writers := merged.Col("Writer 1")

		for idx, title := range titles {
			if title == "Up" {
				Expect(writers.Elem(idx).IsNA()).To(BeTrue())
			} else {
				Expect(writers.Elem(idx).IsNA()).To(BeFalse())
			}
		}
	})

	It("never matches a missing title", func() {
		primary = frame(`Title,Year
Avatar,2009
,2010
`, "Title")
		roster = frame(`Title,Writer 1
,Nobody
Avatar,James Cameron
`, "Title")

		merged, stats, err := merge.Left(primary, roster, merge.Join{
			Name:     "writers",
			LeftOn:   "Title",
			Prefixes: []string{"Write"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(merged.Nrow()).To(Equal(2))
		Expect(stats.Matched).To(Equal(1))
		Expect(stats.Unmatched).To(Equal(1))

		titles := merged.Col("Title")
		writers := merged.Col("Writer 1")
		for idx := 0; idx < merged.Nrow(); idx++ {
			if titles.Elem(idx).IsNA() {
				Expect(writers.Elem(idx).IsNA()).To(BeTrue())
			} else {
				Expect(writers.Elem(idx).String()).To(Equal("James Cameron"))
			}
		}
	})

	It("matches titles exactly", func() {
		aux := frame(`title,budget
avatar,237000000
Up ,175000000
`, "title")

		merged, stats, err := merge.Left(primary, aux, merge.Join{
			Name:    "budget",
			LeftOn:  "Title",
			RightOn: "title",
			Columns: []string{"budget"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Matched).To(Equal(0))
		Expect(merged.Col("budget").HasNaN()).To(BeTrue())
	})

	It("drops the auxiliary key when the key names differ", func() {
		aux := frame(`title,budget
Avatar,237000000
`, "title")

		merged, _, err := merge.Left(primary, aux, merge.Join{
			Name:    "budget",
			LeftOn:  "Title",
			RightOn: "title",
			Columns: []string{"budget"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(data.HasColumn(merged, "title")).To(BeFalse())
		Expect(data.HasColumn(merged, "budget")).To(BeTrue())
	})

	Context("when the auxiliary table repeats a title", func() {
		var dupes dataframe.DataFrame

		BeforeEach(func() {
			dupes = frame(`title,budget
Avatar,237000000
Avatar,425000000
Up,175000000
`, "title")
		})

		It("fans out the matching primary row", func() {
			merged, stats, err := merge.Left(primary, dupes, merge.Join{
				Name:    "budget",
				LeftOn:  "Title",
				RightOn: "title",
				Columns: []string{"budget"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(merged.Nrow()).To(Equal(primary.Nrow() + 1))
			Expect(stats.RowsAfter).To(BeNumerically(">", stats.RowsBefore))
		})

		It("keeps only the first auxiliary row when deduplication is enabled", func() {
			merged, _, err := merge.Left(primary, dupes, merge.Join{
				Name:            "budget",
				LeftOn:          "Title",
				RightOn:         "title",
				Columns:         []string{"budget"},
				DedupeAuxiliary: true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(merged.Nrow()).To(Equal(primary.Nrow()))

			titles, _ := data.Strings(merged, "Title")
			budgets, _ := data.Floats(merged, "budget")
			for idx, title := range titles {
				if title == "Avatar" {
					Expect(budgets[idx]).To(Equal(237000000.0))
				}
			}
		})
	})

	It("does not overwrite primary columns", func() {
		aux := frame(`Title,Year,Writer 1
Avatar,1999,James Cameron
`, "Title")

		merged, stats, err := merge.Left(primary, aux, merge.Join{
			Name:     "writers",
			LeftOn:   "Title",
			Columns:  []string{"Year"},
			Prefixes: []string{"Write"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Columns).To(Equal([]string{"Writer 1"}))

		years, _ := data.Floats(merged, "Year")
		Expect(years).To(ContainElement(2009.0))
		Expect(years).NotTo(ContainElement(1999.0))
	})

	It("reports a missing key column", func() {
		_, _, err := merge.Left(primary, roster, merge.Join{
			Name:     "writers",
			LeftOn:   "Title",
			RightOn:  "movie_title",
			Prefixes: []string{"Write"},
		})
		Expect(err).To(MatchError(merge.ErrKeyNotFound))
	})

	It("reports a join that selects nothing", func() {
		_, _, err := merge.Left(primary, roster, merge.Join{
			Name:     "directors",
			LeftOn:   "Title",
			Prefixes: []string{"Director"},
		})
		Expect(err).To(MatchError(merge.ErrNoColumns))
	})
})

var _ = Describe("Movies", func() {
	It("attaches writers, budget and cast in order", func() {
		primary := frame(`Title,Year,worldwide-gross
Avatar,2009,2787965087
Up,2009,735099082
`, "Title")
		roster := frame(`Title,Writer 1,Cast1
Avatar,James Cameron,Sam Worthington
Up,Pete Docter,Ed Asner
`, "Title")
		budget := frame(`title,budget,popularity
Avatar,237000000,150.4
Up,175000000,92.2
`, "title")

		merged, stats, err := merge.Movies(primary, roster, budget, data.DefaultColumns(), false)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats).To(HaveLen(3))
		Expect(merged.Names()).To(Equal([]string{"Title", "Year", "worldwide-gross", "Writer 1", "budget", "Cast1"}))
		Expect(merged.Nrow()).To(Equal(2))
	})
})
