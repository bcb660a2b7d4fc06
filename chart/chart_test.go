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
package chart_test

import (
	"context"
	"image/png"
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/penny-vault/boxoffice/analysis"
	"github.com/penny-vault/boxoffice/chart"
	"github.com/penny-vault/boxoffice/data"
)

var _ = Describe("Chart", func() {
	var (
		dir    string
		movies []*data.Movie
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		movies = []*data.Movie{
			{Title: "Avatar", PrimaryGenre: "Action", Director: "James Cameron", Production: "Fox", Studio: "Lightstorm",
				Actor: "Sam Worthington", Writer: "James Cameron", Month: 12, RealRevenue: 3.3e9, PctReturn: 8, Awards: 89, OscarWins: 3, OscarNoms: 9},
			{Title: "Up", PrimaryGenre: "Animation", Director: "Pete Docter", Production: "Disney", Studio: "Pixar",
				Actor: "Ed Asner", Writer: "Bob Peterson", Month: 5, RealRevenue: 9.9e8, PctReturn: 24, Awards: 79, OscarWins: 2, OscarNoms: 5},
		}
	})

	It("names images after the figure title", func() {
		Expect(chart.FileName("Real Revenue by Writer_1")).To(Equal("real-revenue-by-writer-1.png"))
	})

	It("renders every figure as a png", func() {
		files, err := chart.RenderAll(context.Background(), analysis.Figures(movies), dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(HaveLen(10))

		for _, fn := range files {
			fh, err := os.Open(fn)
			Expect(err).NotTo(HaveOccurred())
			_, err = png.Decode(fh)
			fh.Close()
			Expect(err).NotTo(HaveOccurred(), fn)
		}

		Expect(filepath.Join(dir, "real-revenue-to-production-studio.png")).To(BeARegularFile())
	})

	It("skips figures without data", func() {
		figures := []analysis.Figure{
			{Title: "Nothing", Kind: analysis.KindBar},
			{Title: "Something", Kind: analysis.KindBar, Groups: []analysis.Group{{Key: "a", Value: 1, Count: 1}}},
		}
		files, err := chart.RenderAll(context.Background(), figures, dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(Equal([]string{filepath.Join(dir, "something.png")}))

		_, err = chart.Render(figures[0], dir)
		Expect(err).To(MatchError(chart.ErrEmptyFigure))
	})

	It("rejects unknown figure kinds", func() {
		_, err := chart.Render(analysis.Figure{
			Title:  "Pie",
			Kind:   analysis.Kind("pie"),
			Groups: []analysis.Group{{Key: "a", Value: 1}},
		}, dir)
		Expect(err).To(MatchError(chart.ErrUnknownKind))
	})

	It("draws an association matrix as a heat map", func() {
		values := mat.NewSymDense(3, []float64{
			1, 0.5, math.NaN(),
			0.5, 1, -0.2,
			math.NaN(), -0.2, 1,
		})
		m := analysis.Matrix{Names: []string{"Rated", "studio", "Runtime"}, Values: values}

		fn := filepath.Join(dir, "associations.png")
		Expect(chart.RenderMatrix("Feature Associations", m, fn)).To(Succeed())

		fh, err := os.Open(fn)
		Expect(err).NotTo(HaveOccurred())
		defer fh.Close()
		_, err = png.Decode(fh)
		Expect(err).NotTo(HaveOccurred())
	})

	It("needs two columns for a heat map", func() {
		m := analysis.Matrix{Names: []string{"Rated"}, Values: mat.NewSymDense(1, []float64{1})}
		err := chart.RenderMatrix("Feature Associations", m, filepath.Join(dir, "one.png"))
		Expect(err).To(MatchError(chart.ErrEmptyFigure))
	})
})
