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
package encode

import (
	"errors"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog/log"
)

var (
	ErrNameCollision = errors.New("indicator column name collides with an existing column")
)

// Result holds the encoded table and a description of how it was built
type Result struct {
	Frame       dataframe.DataFrame
	Numeric     []string
	Categorical []string
	Features    []string
}

// OneHot replaces every text column of df with binary indicator columns.
// Categories are sorted and the first category of each column is dropped so
// that the indicators are not collinear. Columns listed in exclude are
// removed from the output without being encoded.
func OneHot(df dataframe.DataFrame, exclude ...string) (Result, error) {
	skip := make(map[string]bool, len(exclude))
	for _, col := range exclude {
		skip[col] = true
	}

	result := Result{}
	out := make([]series.Series, 0, df.Ncol())
	names := make(map[string]bool, df.Ncol())

	for _, col := range df.Names() {
		if skip[col] {
			continue
		}

		s := df.Col(col)
		if s.Type() == series.String {
			result.Categorical = append(result.Categorical, col)
			continue
		}

		result.Numeric = append(result.Numeric, col)
		out = append(out, s)
		names[col] = true
	}

	for _, col := range result.Categorical {
		indicators := Indicators(df.Col(col))
		for _, indicator := range indicators {
			if names[indicator.Name] {
				return result, ErrNameCollision
			}
			names[indicator.Name] = true

			result.Features = append(result.Features, indicator.Name)
			out = append(out, indicator)
		}
	}

	if len(out) == 0 {
		result.Frame = dataframe.New()
	} else {
		result.Frame = dataframe.New(out...)
	}

	if result.Frame.Err != nil {
		return result, result.Frame.Err
	}

	log.Info().Int("NumNumeric", len(result.Numeric)).Int("NumCategorical", len(result.Categorical)).
		Int("NumFeatures", len(result.Features)).Msg("one-hot encoded table")

	return result, nil
}

// Categories returns the sorted distinct values of s. Missing values are
// reported as the empty string.
func Categories(s series.Series) []string {
	seen := make(map[string]bool)
	for idx := 0; idx < s.Len(); idx++ {
		seen[value(s.Elem(idx))] = true
	}

	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	return categories
}

// Indicators builds one float column per category of s except the first.
// Indicator columns are named `<column>_<category>`.
func Indicators(s series.Series) []series.Series {
	categories := Categories(s)
	if len(categories) <= 1 {
		return []series.Series{}
	}

	position := make(map[string]int, len(categories))
	for idx, category := range categories[1:] {
		position[category] = idx
	}

	matrix := make([][]float64, len(categories)-1)
	for idx := range matrix {
		matrix[idx] = make([]float64, s.Len())
	}

	for row := 0; row < s.Len(); row++ {
		if col, ok := position[value(s.Elem(row))]; ok {
			matrix[col][row] = 1
		}
	}

	indicators := make([]series.Series, len(matrix))
	for idx, vals := range matrix {
		indicators[idx] = series.New(vals, series.Float, s.Name+"_"+categories[idx+1])
	}

	return indicators
}

// FeatureCount returns the number of indicator columns OneHot creates for df
func FeatureCount(df dataframe.DataFrame, exclude ...string) int {
	skip := make(map[string]bool, len(exclude))
	for _, col := range exclude {
		skip[col] = true
	}

	count := 0
	for _, col := range df.Names() {
		s := df.Col(col)
		if skip[col] || s.Type() != series.String {
			continue
		}
		if n := len(Categories(s)); n > 1 {
			count += n - 1
		}
	}
	return count
}

func value(elem series.Element) string {
	if elem.IsNA() {
		return ""
	}
	return elem.String()
}
