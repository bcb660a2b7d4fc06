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
package encode_test

import (
	"strings"

	"github.com/go-gota/gota/dataframe"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/boxoffice/data"
	"github.com/penny-vault/boxoffice/encode"
)

var _ = Describe("OneHot", func() {
	var movies dataframe.DataFrame

	BeforeEach(func() {
		var err error
		movies, err = data.ReadFrame(strings.NewReader(`Title,Year,Rated,Genre,budget
Avatar,2009,PG-13,Action,237000000
Up,2009,PG,Animation,175000000
Titanic,1997,PG-13,Drama,200000000
Cats,2019,PG,Comedy,95000000
`), nil, "Title")
		Expect(err).NotTo(HaveOccurred())
	})

	It("creates distinct minus one indicators per categorical column", func() {
		result, err := encode.OneHot(movies)
		Expect(err).NotTo(HaveOccurred())

		// Title: 4 - 1, Rated: 2 - 1, Genre: 4 - 1
		Expect(result.Features).To(HaveLen(7))
		Expect(result.Frame.Ncol()).To(Equal(len(result.Numeric) + 7))
		Expect(encode.FeatureCount(movies)).To(Equal(7))
	})

	It("removes the encoded text columns", func() {
		result, err := encode.OneHot(movies)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Categorical).To(Equal([]string{"Title", "Rated", "Genre"}))
		for _, col := range result.Categorical {
			Expect(data.HasColumn(result.Frame, col)).To(BeFalse())
		}
	})

	It("keeps numeric columns first and in order", func() {
		result, err := encode.OneHot(movies)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Frame.Names()[:2]).To(Equal([]string{"Year", "budget"}))
	})

	It("drops the first category in sorted order", func() {
		result, err := encode.OneHot(movies)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Features).To(ContainElement("Rated_PG-13"))
		Expect(result.Features).NotTo(ContainElement("Rated_PG"))
		Expect(result.Features).NotTo(ContainElement("Genre_Action"))

		rated, err := data.Floats(result.Frame, "Rated_PG-13")
		Expect(err).NotTo(HaveOccurred())
		Expect(rated).To(Equal([]float64{1, 0, 1, 0}))
	})

	It("does not encode excluded columns", func() {
		result, err := encode.OneHot(movies, "Title")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Features).To(HaveLen(4))
		Expect(result.Categorical).NotTo(ContainElement("Title"))
	})

	It("creates no indicator for a single-valued column", func() {
		df, err := data.ReadFrame(strings.NewReader(`Language,Year
English,2009
English,2010
`), nil)
		Expect(err).NotTo(HaveOccurred())

		result, err := encode.OneHot(df)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Features).To(BeEmpty())
		Expect(result.Frame.Names()).To(Equal([]string{"Year"}))
	})
})
