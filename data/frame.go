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
package data

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog/log"
)

var (
	ErrColumnNotFound = errors.New("column not found")
)

// ReadFrame parses CSV data into a data frame. Values listed in nanValues
// are loaded as missing. Columns listed in stringCols are always loaded as
// text so that titles such as "1917" are not detected as numbers.
func ReadFrame(r io.Reader, nanValues []string, stringCols ...string) (dataframe.DataFrame, error) {
	if len(nanValues) == 0 {
		nanValues = DefaultNaNValues
	}

	types := make(map[string]series.Type, len(stringCols))
	for _, col := range stringCols {
		types[col] = series.String
	}

	df := dataframe.ReadCSV(r,
		dataframe.NaNValues(nanValues),
		dataframe.WithTypes(types),
		dataframe.WithLazyQuotes(true),
	)

	return df, df.Err
}

// LoadFrame reads the CSV file fn into a data frame
func LoadFrame(fn string, nanValues []string, stringCols ...string) (dataframe.DataFrame, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer fh.Close()

	df, err := ReadFrame(fh, nanValues, stringCols...)
	if err != nil {
		return df, fmt.Errorf("read %s: %w", fn, err)
	}

	log.Debug().Str("FileName", fn).Int("NumRows", df.Nrow()).Int("NumCols", df.Ncol()).Msg("loaded table")

	return df, nil
}

// SaveFrame writes the data frame to fn as CSV with a header row
func SaveFrame(df dataframe.DataFrame, fn string) error {
	fh, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer fh.Close()

	if err := df.WriteCSV(fh); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}

	return nil
}

// HasColumn reports whether df contains a column named name
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, col := range df.Names() {
		if col == name {
			return true
		}
	}
	return false
}

// ColumnsWithPrefix returns the names of all columns starting with prefix in
// table order
func ColumnsWithPrefix(df dataframe.DataFrame, prefix string) []string {
	cols := make([]string, 0)
	for _, col := range df.Names() {
		if strings.HasPrefix(col, prefix) {
			cols = append(cols, col)
		}
	}
	return cols
}

// IsNumeric reports whether the series holds numbers
func IsNumeric(s series.Series) bool {
	return s.Type() == series.Int || s.Type() == series.Float
}

// Floats returns the column as float64 values; missing values are NaN
func Floats(df dataframe.DataFrame, name string) ([]float64, error) {
	if !HasColumn(df, name) {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}

	return df.Col(name).Float(), nil
}

// Strings returns the column as text; missing values are empty strings
func Strings(df dataframe.DataFrame, name string) ([]string, error) {
	if !HasColumn(df, name) {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}

	s := df.Col(name)
	vals := make([]string, s.Len())
	for idx := range vals {
		elem := s.Elem(idx)
		if elem.IsNA() {
			continue
		}
		vals[idx] = elem.String()
	}

	return vals, nil
}

// AsText converts column name to a string column. Missing values stay
// missing.
func AsText(df dataframe.DataFrame, name string) dataframe.DataFrame {
	s := df.Col(name)
	if s.Type() == series.String {
		return df
	}

	return df.Mutate(series.New(s.Records(), series.String, name))
}
