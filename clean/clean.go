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
package clean

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/penny-vault/boxoffice/data"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequiredColumn = errors.New("required column missing")
)

// TextPlaceholder replaces missing values in text columns
const TextPlaceholder = "0"

// Options configures the cleaning pass
type Options struct {
	// FillColumns are converted to numbers and zero filled first
	FillColumns []string

	// Required columns must be non-zero for a row to be kept
	Required []string
}

// Report summarizes what the cleaning pass changed
type Report struct {
	RowsIn            int            `json:"rows_in"`
	DuplicatesRemoved int            `json:"duplicates_removed"`
	Filled            map[string]int `json:"filled"`
	RowsDropped       int            `json:"rows_dropped"`
	RowsOut           int            `json:"rows_out"`
}

// Movies removes duplicate rows, fills missing values and drops every row
// with a zero in one of the required columns
func Movies(df dataframe.DataFrame, opts Options) (dataframe.DataFrame, Report, error) {
	report := Report{
		RowsIn: df.Nrow(),
		Filled: make(map[string]int),
	}

	for _, col := range opts.Required {
		if !data.HasColumn(df, col) {
			return df, report, fmt.Errorf("%w: %s", ErrRequiredColumn, col)
		}
	}

	df, report.DuplicatesRemoved = DropDuplicates(df)

	df = FillNumeric(df, opts.FillColumns, report.Filled)
	df = FillRemaining(df, report.Filled)

	var err error
	df, report.RowsDropped, err = DropZero(df, opts.Required...)
	if err != nil {
		return df, report, err
	}

	report.RowsOut = df.Nrow()

	log.Info().Int("RowsIn", report.RowsIn).Int("DuplicatesRemoved", report.DuplicatesRemoved).
		Int("RowsDropped", report.RowsDropped).Int("RowsOut", report.RowsOut).Msg("cleaned movie table")

	return df, report, nil
}

// DropDuplicates removes rows that are identical in every column, keeping
// the first occurrence
func DropDuplicates(df dataframe.DataFrame) (dataframe.DataFrame, int) {
	nrows := df.Nrow()
	if nrows == 0 {
		return df, 0
	}

	cols := make([]series.Series, df.Ncol())
	for idx := range cols {
		cols[idx] = df.Col(df.Names()[idx])
	}

	seen := make(map[string]bool, nrows)
	keep := make([]int, 0, nrows)

	cells := make([]string, len(cols))
	for row := 0; row < nrows; row++ {
		for idx, s := range cols {
			cells[idx] = cellKey(s.Elem(row))
		}
		key := strings.Join(cells, "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		keep = append(keep, row)
	}

	removed := nrows - len(keep)
	if removed == 0 {
		return df, 0
	}

	return df.Subset(keep), removed
}

// cellKey formats a value for duplicate detection. Floats use the shortest
// representation that round trips.
func cellKey(elem series.Element) string {
	if elem.IsNA() {
		return "\x00NA"
	}
	if elem.Type() == series.Float {
		return strconv.FormatFloat(elem.Float(), 'g', -1, 64)
	}
	return elem.String()
}

// FillNumeric converts each named column to float and replaces missing
// values with zero. A column holding text that does not parse as a number
// keeps its values and type; only its missing cells are filled. Columns that
// do not exist are skipped.
func FillNumeric(df dataframe.DataFrame, cols []string, filled map[string]int) dataframe.DataFrame {
	for _, col := range cols {
		if !data.HasColumn(df, col) {
			log.Debug().Str("Column", col).Msg("fill column not present, skipping")
			continue
		}

		s := df.Col(col)
		vals := make([]float64, s.Len())
		count := 0
		unparsed := 0
		for idx := range vals {
			elem := s.Elem(idx)
			if elem.IsNA() {
				count++
				continue
			}
			val, ok := number(elem)
			if !ok {
				unparsed++
				continue
			}
			vals[idx] = val
		}

		if unparsed > 0 {
			log.Warn().Str("Column", col).Int("Count", unparsed).Msg("column has values that are not numbers, leaving them as text")
			var replaced series.Series
			replaced, count = fillSeries(s)
			df = df.Mutate(replaced)
		} else {
			df = df.Mutate(series.New(vals, series.Float, col))
		}

		if count > 0 && filled != nil {
			filled[col] += count
		}
	}

	return df
}

// number returns the numeric value of a non-missing element
func number(elem series.Element) (float64, bool) {
	switch elem.Type() {
	case series.Float:
		val := elem.Float()
		return val, !math.IsNaN(val)
	case series.Int:
		val, err := elem.Int()
		return float64(val), err == nil
	case series.Bool:
		val, err := elem.Bool()
		if err != nil {
			return 0, false
		}
		if val {
			return 1, true
		}
		return 0, true
	default:
		val, err := strconv.ParseFloat(strings.TrimSpace(elem.String()), 64)
		if err != nil || math.IsNaN(val) {
			return 0, false
		}
		return val, true
	}
}

// isZero reports whether an element is missing or numerically zero. Text
// that is not a number is never zero.
func isZero(elem series.Element) bool {
	if elem.IsNA() {
		return true
	}
	val, ok := number(elem)
	if !ok {
		return elem.Type() == series.Float
	}
	return val == 0
}

// FillRemaining replaces every remaining missing value: numeric columns get
// zero and text columns get TextPlaceholder
func FillRemaining(df dataframe.DataFrame, filled map[string]int) dataframe.DataFrame {
	for _, col := range df.Names() {
		s := df.Col(col)
		if !s.HasNaN() {
			continue
		}

		replaced, count := fillSeries(s)
		df = df.Mutate(replaced)
		if filled != nil {
			filled[col] += count
		}
	}

	return df
}

func fillSeries(s series.Series) (series.Series, int) {
	nrows := s.Len()
	count := 0

	switch s.Type() {
	case series.Int:
		vals := make([]int, nrows)
		for idx := range vals {
			elem := s.Elem(idx)
			if elem.IsNA() {
				count++
				continue
			}
			vals[idx], _ = elem.Int()
		}
		return series.New(vals, series.Int, s.Name), count
	case series.Float:
		vals := s.Float()
		for idx, val := range vals {
			if math.IsNaN(val) {
				vals[idx] = 0
				count++
			}
		}
		return series.New(vals, series.Float, s.Name), count
	case series.Bool:
		vals := make([]bool, nrows)
		for idx := range vals {
			elem := s.Elem(idx)
			if elem.IsNA() {
				count++
				continue
			}
			vals[idx], _ = elem.Bool()
		}
		return series.New(vals, series.Bool, s.Name), count
	default:
		vals := make([]string, nrows)
		for idx := range vals {
			elem := s.Elem(idx)
			if elem.IsNA() {
				vals[idx] = TextPlaceholder
				count++
				continue
			}
			vals[idx] = elem.String()
		}
		return series.New(vals, series.String, s.Name), count
	}
}

// DropZero removes every row where any of the named columns is zero or
// missing
func DropZero(df dataframe.DataFrame, cols ...string) (dataframe.DataFrame, int, error) {
	if len(cols) == 0 {
		return df, 0, nil
	}

	nrows := df.Nrow()
	keep := make([]bool, nrows)
	for idx := range keep {
		keep[idx] = true
	}

	for _, col := range cols {
		if !data.HasColumn(df, col) {
			return df, 0, fmt.Errorf("%w: %s", data.ErrColumnNotFound, col)
		}
		s := df.Col(col)
		for idx := 0; idx < nrows; idx++ {
			if isZero(s.Elem(idx)) {
				keep[idx] = false
			}
		}
	}

	indexes := make([]int, 0, nrows)
	for idx, ok := range keep {
		if ok {
			indexes = append(indexes, idx)
		}
	}

	dropped := nrows - len(indexes)
	if dropped == 0 {
		return df, 0, nil
	}

	return df.Subset(indexes), dropped, nil
}

// HasZero reports whether any row still has a zero or missing value in one of
// the named columns
func HasZero(df dataframe.DataFrame, cols ...string) bool {
	for _, col := range cols {
		if !data.HasColumn(df, col) {
			return true
		}
		s := df.Col(col)
		for idx := 0; idx < s.Len(); idx++ {
			if isZero(s.Elem(idx)) {
				return true
			}
		}
	}
	return false
}
