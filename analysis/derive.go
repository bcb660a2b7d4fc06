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
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/penny-vault/boxoffice/data"
	"github.com/rs/zerolog"
)

var (
	ErrUnparseableDate = errors.New("release date could not be parsed")
)

// MissingDate is the placeholder the cleaner leaves in empty text cells
const MissingDate = "0"

var releaseLayouts = []string{
	"02 Jan 2006",
	"2 Jan 2006",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"1/2/2006",
	time.RFC3339,
}

// ReleaseMonth returns the month of a release date, or 0 when the date is
// missing
func ReleaseMonth(released string) (int, error) {
	released = strings.TrimSpace(released)
	if released == "" || released == MissingDate {
		return 0, nil
	}

	for _, layout := range releaseLayouts {
		if dt, err := time.Parse(layout, released); err == nil {
			return int(dt.Month()), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnparseableDate, released)
}

// PrimaryGenre returns the first genre of a comma separated genre list
func PrimaryGenre(genre string) string {
	first, _, _ := strings.Cut(genre, ",")
	return strings.TrimSpace(first)
}

// PctReturn expresses budget as a percentage of revenue
func PctReturn(budget, revenue float64) float64 {
	if revenue == 0 {
		return 0
	}
	return budget / revenue * 100
}

// Derive adds the primary genre, release month and percentage return
// columns used by the figures. Source columns that are missing are logged
// and the derived column is not created.
func Derive(ctx context.Context, df dataframe.DataFrame, cols data.Columns) dataframe.DataFrame {
	logger := zerolog.Ctx(ctx)

	if genres, err := data.Strings(df, cols.Genre); err == nil {
		primary := make([]string, len(genres))
		for idx, genre := range genres {
			primary[idx] = PrimaryGenre(genre)
		}
		df = df.Mutate(series.New(primary, series.String, data.PrimaryGenre))
	} else {
		logger.Warn().Err(err).Msg("cannot derive primary genre")
	}

	if released, err := data.Strings(df, cols.Released); err == nil {
		months := make([]int, len(released))
		unparsed := 0
		for idx, date := range released {
			month, err := ReleaseMonth(date)
			if err != nil {
				unparsed++
				logger.Debug().Err(err).Int("Row", idx).Msg("release month unknown")
			}
			months[idx] = month
		}
		if unparsed > 0 {
			logger.Warn().Int("NumRows", unparsed).Msg("some release dates could not be parsed, month set to 0")
		}
		df = df.Mutate(series.New(months, series.Int, data.Month))
	} else {
		logger.Warn().Err(err).Msg("cannot derive release month")
	}

	budgets, budgetErr := data.Floats(df, data.RealBudget)
	revenues, revenueErr := data.Floats(df, data.RealRevenue)
	if budgetErr == nil && revenueErr == nil {
		pct := make([]float64, len(budgets))
		for idx := range budgets {
			if math.IsNaN(budgets[idx]) || math.IsNaN(revenues[idx]) {
				continue
			}
			pct[idx] = PctReturn(budgets[idx], revenues[idx])
		}
		df = df.Mutate(series.New(pct, series.Float, data.PctReturn))
	} else {
		logger.Warn().Msg("real budget or revenue missing, cannot derive percentage return")
	}

	return df
}
