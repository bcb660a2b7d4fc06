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
package inflation

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/penny-vault/boxoffice/data"
	"github.com/rs/zerolog"
)

// Policy decides what happens to rows whose year is not in the index
type Policy string

const (
	// PolicyError fails the adjustment
	PolicyError Policy = "error"

	// PolicySkip drops the row
	PolicySkip Policy = "skip"
)

var (
	ErrUnknownPolicy = errors.New("unknown unsupported-year policy")
)

// ParsePolicy validates a policy name; an empty name selects PolicyError
func ParsePolicy(name string) (Policy, error) {
	switch Policy(name) {
	case "", PolicyError:
		return PolicyError, nil
	case PolicySkip:
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownPolicy, name)
	}
}

// Column pairs a nominal column with the real column derived from it
type Column struct {
	Nominal string
	Real    string
}

// Adjuster converts nominal currency columns into real values using the
// year of each row
type Adjuster struct {
	Index      *Index
	YearColumn string
	Policy     Policy
}

// Report summarizes an adjustment pass
type Report struct {
	Source      string `json:"source"`
	TargetYear  int    `json:"target_year"`
	Rows        int    `json:"rows"`
	SkippedRows int    `json:"skipped_rows"`
}

// Adjust adds a real column for each of columns. Missing nominal amounts
// stay missing in the real column.
func (adj *Adjuster) Adjust(ctx context.Context, df dataframe.DataFrame, columns ...Column) (dataframe.DataFrame, Report, error) {
	logger := zerolog.Ctx(ctx)

	report := Report{
		Source:     adj.Index.Source,
		TargetYear: adj.Index.Target(),
	}

	years, err := data.Floats(df, adj.YearColumn)
	if err != nil {
		return df, report, err
	}

	nominal := make([][]float64, len(columns))
	for idx, col := range columns {
		nominal[idx], err = data.Floats(df, col.Nominal)
		if err != nil {
			return df, report, err
		}
	}

	keep := make([]int, 0, len(years))
	adjusted := make([][]float64, len(columns))

	for row, yearVal := range years {
		year := 0
		if !math.IsNaN(yearVal) {
			year = int(yearVal)
		}

		reals := make([]float64, len(columns))
		unsupported := false

		for idx := range columns {
			amount := nominal[idx][row]
			if math.IsNaN(amount) {
				reals[idx] = math.NaN()
				continue
			}

			reals[idx], err = adj.Index.Inflate(amount, year)
			if err != nil {
				unsupported = true
				break
			}
		}

		if unsupported {
			if adj.Policy == PolicySkip {
				logger.Warn().Int("Row", row).Int("Year", year).Msg("year not in price index, dropping row")
				report.SkippedRows++
				continue
			}
			return df, report, fmt.Errorf("row %d: %w", row, err)
		}

		keep = append(keep, row)
		for idx := range columns {
			adjusted[idx] = append(adjusted[idx], reals[idx])
		}
	}

	if report.SkippedRows > 0 {
		df = df.Subset(keep)
	}

	for idx, col := range columns {
		df = df.Mutate(series.New(adjusted[idx], series.Float, col.Real))
	}

	report.Rows = df.Nrow()

	logger.Info().Str("Source", report.Source).Int("TargetYear", report.TargetYear).
		Int("Rows", report.Rows).Int("SkippedRows", report.SkippedRows).Msg("adjusted currency for inflation")

	return df, report, nil
}
