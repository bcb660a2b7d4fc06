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
package analysis

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/penny-vault/boxoffice/data"
)

var (
	ErrNoAssociationColumns = errors.New("none of the association columns are present")
)

// DefaultAssociationColumns are the features compared in the association
// matrix
var DefaultAssociationColumns = []string{
	"Awards", "Runtime", "IMdb_score", "worldwide-gross", "director_2",
	"Production", "studio", "imdbVotes", "Rated", "oscar_noms", "nominations",
	"Writer 4", "oscar_wins", "Writer 1", "Writer 3", "Writer 2", "Language",
}

// Matrix is a square table of pairwise statistics between named columns
type Matrix struct {
	Names  []string
	Values *mat.SymDense
}

// At returns the value for the pair of columns at positions i and j
func (m Matrix) At(i, j int) float64 {
	return m.Values.At(i, j)
}

// Frame converts the matrix to a table whose first column holds the names
func (m Matrix) Frame() dataframe.DataFrame {
	cols := make([]series.Series, 0, len(m.Names)+1)
	cols = append(cols, series.New(m.Names, series.String, CovarianceNameColumn))
	for col, name := range m.Names {
		vals := make([]float64, len(m.Names))
		for row := range m.Names {
			vals[row] = m.At(row, col)
		}
		cols = append(cols, series.New(vals, series.Float, name))
	}
	return dataframe.New(cols...)
}

// AssociationOptions selects the columns and how they are compared
type AssociationOptions struct {
	Columns []string

	// AllNominal treats every column as categorical so each pair is
	// compared with Cramer's V. Otherwise numeric pairs use Pearson
	// correlation and mixed pairs the correlation ratio.
	AllNominal bool
}

// Associations computes the pairwise association between the selected
// columns of df. Columns that are missing are logged and skipped. Pairs
// where a statistic is undefined, such as a column with a single value,
// are NaN. The diagonal is always 1.
func Associations(df dataframe.DataFrame, opts AssociationOptions) (Matrix, error) {
	cols := opts.Columns
	if len(cols) == 0 {
		cols = DefaultAssociationColumns
	}

	names := make([]string, 0, len(cols))
	for _, col := range cols {
		if !data.HasColumn(df, col) {
			log.Warn().Str("Column", col).Msg("association column not present, skipping")
			continue
		}
		names = append(names, col)
	}

	if len(names) == 0 {
		return Matrix{}, ErrNoAssociationColumns
	}

	rows := df.Nrow()
	if rows < 2 {
		return Matrix{}, fmt.Errorf("%w: have %d", ErrTooFewRows, rows)
	}

	nominal := make([]bool, len(names))
	labels := make([][]string, len(names))
	values := make([][]float64, len(names))
	for idx, name := range names {
		s := df.Col(name)
		nominal[idx] = opts.AllNominal || !data.IsNumeric(s)
		if nominal[idx] {
			labels[idx] = categories(s)
		} else {
			values[idx] = measurements(s)
		}
	}

	result := mat.NewSymDense(len(names), nil)
	for i := range names {
		result.SetSym(i, i, 1)
		for j := i + 1; j < len(names); j++ {
			var val float64
			switch {
			case nominal[i] && nominal[j]:
				val = CramersV(labels[i], labels[j])
			case nominal[i]:
				val = CorrelationRatio(labels[i], values[j])
			case nominal[j]:
				val = CorrelationRatio(labels[j], values[i])
			default:
				val = stat.Correlation(values[i], values[j], nil)
			}
			result.SetSym(i, j, val)
		}
	}

	return Matrix{Names: names, Values: result}, nil
}

// categories returns the values of s as labels; missing values become "0"
func categories(s series.Series) []string {
	labels := make([]string, s.Len())
	for idx := range labels {
		elem := s.Elem(idx)
		switch {
		case elem.IsNA():
			labels[idx] = "0"
		case elem.Type() == series.Float:
			labels[idx] = strconv.FormatFloat(elem.Float(), 'g', -1, 64)
		default:
			labels[idx] = elem.String()
		}
	}
	return labels
}

// measurements returns the values of s; missing values become 0
func measurements(s series.Series) []float64 {
	vals := s.Float()
	for idx, val := range vals {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			vals[idx] = 0
		}
	}
	return vals
}

// CramersV measures the association between two categorical variables
// with the Bergsma bias correction. The result is in [0, 1] and NaN when
// either variable has a single category.
func CramersV(x, y []string) float64 {
	n := float64(len(x))
	if len(x) != len(y) || n < 2 {
		return math.NaN()
	}

	xIdx := index(x)
	yIdx := index(y)
	r := float64(len(xIdx))
	k := float64(len(yIdx))

	observed := mat.NewDense(len(xIdx), len(yIdx), nil)
	rowTotals := make([]float64, len(xIdx))
	colTotals := make([]float64, len(yIdx))
	for idx := range x {
		row, col := xIdx[x[idx]], yIdx[y[idx]]
		observed.Set(row, col, observed.At(row, col)+1)
		rowTotals[row]++
		colTotals[col]++
	}

	chi2 := 0.0
	for row, rowTotal := range rowTotals {
		for col, colTotal := range colTotals {
			expected := rowTotal * colTotal / n
			diff := observed.At(row, col) - expected
			chi2 += diff * diff / expected
		}
	}

	phi2 := chi2 / n
	phi2corr := math.Max(0, phi2-(k-1)*(r-1)/(n-1))
	rcorr := r - (r-1)*(r-1)/(n-1)
	kcorr := k - (k-1)*(k-1)/(n-1)

	denom := math.Min(kcorr-1, rcorr-1)
	if denom <= 0 {
		return math.NaN()
	}

	return math.Sqrt(phi2corr / denom)
}

// CorrelationRatio measures how well the categories explain the variance
// of the measurements. The result is in [0, 1]; constant measurements
// give 0.
func CorrelationRatio(labels []string, vals []float64) float64 {
	if len(labels) != len(vals) || len(labels) == 0 {
		return math.NaN()
	}

	mean := stat.Mean(vals, nil)

	sums := make(map[string]float64)
	counts := make(map[string]float64)
	total := 0.0
	for idx, cat := range labels {
		val := vals[idx]
		sums[cat] += val
		counts[cat]++
		total += (val - mean) * (val - mean)
	}

	if total == 0 {
		return 0
	}

	between := 0.0
	for cat, sum := range sums {
		catMean := sum / counts[cat]
		between += counts[cat] * (catMean - mean) * (catMean - mean)
	}

	return math.Sqrt(between / total)
}

// index assigns each distinct label a position in order of first use
func index(labels []string) map[string]int {
	positions := make(map[string]int)
	for _, label := range labels {
		if _, ok := positions[label]; !ok {
			positions[label] = len(positions)
		}
	}
	return positions
}
