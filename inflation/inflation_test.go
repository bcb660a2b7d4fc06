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
package inflation_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/boxoffice/data"
	"github.com/penny-vault/boxoffice/inflation"
)

func fixedIndex() *inflation.Index {
	idx, err := inflation.NewIndex("test", []*inflation.Observation{
		{Year: 1997, Value: 160.5},
		{Year: 2009, Value: 214.537},
		{Year: 2019, Value: 255.657},
		{Year: 2023, Value: 304.702},
	})
	Expect(err).NotTo(HaveOccurred())
	return idx
}

var _ = Describe("Index", func() {
	It("targets the latest year", func() {
		Expect(fixedIndex().Target()).To(Equal(2023))
	})

	It("inflates Avatar's 2009 budget deterministically", func() {
		idx := fixedIndex()
		adjusted, err := idx.Inflate(237000000, 2009)
		Expect(err).NotTo(HaveOccurred())
		Expect(adjusted).To(BeNumerically("~", 237000000*304.702/214.537, 1e-3))

		again, err := idx.Inflate(237000000, 2009)
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(Equal(adjusted))
	})

	It("leaves amounts in the target year unchanged", func() {
		adjusted, err := fixedIndex().Inflate(1000, 2023)
		Expect(err).NotTo(HaveOccurred())
		Expect(adjusted).To(BeNumerically("~", 1000, 1e-9))
	})

	It("rejects years outside the index", func() {
		_, err := fixedIndex().Inflate(1000, 1850)
		Expect(err).To(MatchError(inflation.ErrYearNotSupported))
	})

	It("can convert into an earlier target year", func() {
		idx := fixedIndex()
		Expect(idx.SetTarget(2009)).To(Succeed())
		adjusted, err := idx.Inflate(304.702, 2023)
		Expect(err).NotTo(HaveOccurred())
		Expect(adjusted).To(BeNumerically("~", 214.537, 1e-9))

		Expect(idx.SetTarget(1900)).To(MatchError(inflation.ErrYearNotSupported))
	})

	It("refuses to build an empty index", func() {
		_, err := inflation.NewIndex("empty", nil)
		Expect(err).To(MatchError(inflation.ErrEmptyIndex))
	})

	It("ships a bundled CPI-U table", func() {
		idx, err := inflation.Bundled()
		Expect(err).NotTo(HaveOccurred())
		Expect(idx.Source).To(Equal(inflation.BundledSource))
		Expect(idx.Target()).To(Equal(2023))

		val, err := idx.Value(2009)
		Expect(err).NotTo(HaveOccurred())
		Expect(val).To(Equal(214.537))

		obs := idx.Observations()
		Expect(obs[0].Year).To(Equal(1913))
		Expect(obs).To(HaveLen(idx.Len()))
	})

	It("round trips through a cache file", func() {
		fn := filepath.Join(GinkgoT().TempDir(), "cpi.csv")
		Expect(fixedIndex().SaveFile(fn)).To(Succeed())

		loaded, err := inflation.Load(fn)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Len()).To(Equal(4))
		Expect(loaded.Target()).To(Equal(2023))

		val, err := loaded.Value(1997)
		Expect(err).NotTo(HaveOccurred())
		Expect(val).To(Equal(160.5))
	})

	It("falls back to the bundled index when the cache is absent", func() {
		idx, err := inflation.Load(filepath.Join(GinkgoT().TempDir(), "missing.csv"))
		Expect(err).NotTo(HaveOccurred())
		Expect(idx.Source).To(Equal(inflation.BundledSource))
	})
})

var _ = Describe("Fred", func() {
	var server *httptest.Server

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	It("averages complete years of monthly observations", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.URL.Query().Get("series_id")).To(Equal(inflation.DefaultSeries))
			Expect(r.URL.Query().Get("api_key")).To(Equal("secret"))

			observations := make([]string, 0, 16)
			for month := 1; month <= 12; month++ {
				observations = append(observations, fmt.Sprintf(`{"date":"2022-%02d-01","value":"%d"}`, month, 100+month))
			}
			// 2023 is incomplete and has a missing value
			observations = append(observations,
				`{"date":"2023-01-01","value":"200"}`,
				`{"date":"2023-02-01","value":"."}`,
			)

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"units":"Index 1982-1984=100","count":%d,"observations":[%s]}`,
				len(observations), strings.Join(observations, ","))
		}))

		fred := inflation.NewFred("secret")
		fred.BaseURL = server.URL

		idx, err := fred.Index(context.Background(), inflation.DefaultSeries)
		Expect(err).NotTo(HaveOccurred())
		Expect(idx.Len()).To(Equal(1))

		val, err := idx.Value(2022)
		Expect(err).NotTo(HaveOccurred())
		Expect(val).To(BeNumerically("~", 106.5, 1e-9))
	})

	It("reports an error status", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))

		fred := inflation.NewFred("bad")
		fred.BaseURL = server.URL

		_, err := fred.Index(context.Background(), inflation.DefaultSeries)
		Expect(err).To(MatchError(inflation.ErrStatus))
	})
})

var _ = Describe("Adjuster", func() {
	const movies = `Title,Year,budget,worldwide-gross
Avatar,2009,237000000,2787965087
Titanic,1997,200000000,2201647264
Metropolis,1927,6000000,1350000
`

	var adjuster *inflation.Adjuster

	BeforeEach(func() {
		adjuster = &inflation.Adjuster{
			Index:      fixedIndex(),
			YearColumn: "Year",
			Policy:     inflation.PolicyError,
		}
	})

	columns := []inflation.Column{
		{Nominal: "budget", Real: data.RealBudget},
		{Nominal: "worldwide-gross", Real: data.RealRevenue},
	}

	It("fails on an unsupported year by default", func() {
		df, err := data.ReadFrame(strings.NewReader(movies), nil, "Title")
		Expect(err).NotTo(HaveOccurred())

		_, _, err = adjuster.Adjust(context.Background(), df, columns...)
		Expect(err).To(MatchError(inflation.ErrYearNotSupported))
	})

	It("drops unsupported rows with the skip policy", func() {
		df, err := data.ReadFrame(strings.NewReader(movies), nil, "Title")
		Expect(err).NotTo(HaveOccurred())

		adjuster.Policy = inflation.PolicySkip
		out, report, err := adjuster.Adjust(context.Background(), df, columns...)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.SkippedRows).To(Equal(1))
		Expect(out.Nrow()).To(Equal(2))

		titles, _ := data.Strings(out, "Title")
		budgets, _ := data.Floats(out, data.RealBudget)
		for idx, title := range titles {
			if title == "Avatar" {
				Expect(budgets[idx]).To(BeNumerically("~", 237000000*304.702/214.537, 1e-3))
			}
		}
	})

	It("adjusts budget and revenue independently", func() {
		df, err := data.ReadFrame(strings.NewReader(movies), nil, "Title")
		Expect(err).NotTo(HaveOccurred())
		df = df.Subset([]int{0, 1})

		out, _, err := adjuster.Adjust(context.Background(), df, columns...)
		Expect(err).NotTo(HaveOccurred())

		revenue, _ := data.Floats(out, data.RealRevenue)
		Expect(revenue[1]).To(BeNumerically("~", 2201647264*304.702/160.5, 1e-2))
	})
})

var _ = Describe("ParsePolicy", func() {
	It("defaults to error", func() {
		policy, err := inflation.ParsePolicy("")
		Expect(err).NotTo(HaveOccurred())
		Expect(policy).To(Equal(inflation.PolicyError))
	})

	It("rejects unknown names", func() {
		_, err := inflation.ParsePolicy("ignore")
		Expect(err).To(MatchError(inflation.ErrUnknownPolicy))
	})
})
