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

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/penny-vault/boxoffice/data"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrTooFewRows       = errors.New("need at least two rows")
	ErrNoNumericColumns = errors.New("no numeric columns")
)

// CovarianceNameColumn holds the row labels of a covariance table
const CovarianceNameColumn = "column"

// Covariance computes the sample covariance matrix of every numeric column
// in df. The result has one row per numeric column; the first column holds
// the column name. Missing values are treated as zero.
func Covariance(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	names := make([]string, 0, df.Ncol())
	for _, name := range df.Names() {
		if data.IsNumeric(df.Col(name)) {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return dataframe.DataFrame{}, ErrNoNumericColumns
	}

	rows := df.Nrow()
	if rows < 2 {
		return dataframe.DataFrame{}, fmt.Errorf("%w: have %d", ErrTooFewRows, rows)
	}

	observations := mat.NewDense(rows, len(names), nil)
	for col, name := range names {
		for row, val := range df.Col(name).Float() {
			if math.IsNaN(val) || math.IsInf(val, 0) {
				val = 0
			}
			observations.Set(row, col, val)
		}
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, observations, nil)

	cols := make([]series.Series, 0, len(names)+1)
	cols = append(cols, series.New(names, series.String, CovarianceNameColumn))
	for col, name := range names {
		vals := make([]float64, len(names))
		for row := range names {
			vals[row] = cov.At(row, col)
		}
		cols = append(cols, series.New(vals, series.Float, name))
	}

	return dataframe.New(cols...), nil
}
