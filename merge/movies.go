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
package merge

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/penny-vault/boxoffice/data"
)

// Movies attaches the writer columns of the roster, the budget column of the
// budget table and the cast columns of the roster (in that order) to the
// primary box office table
func Movies(primary, roster, budget dataframe.DataFrame, cols data.Columns, dedupe bool) (dataframe.DataFrame, []Stats, error) {
	joins := []struct {
		aux  dataframe.DataFrame
		join Join
	}{
		{roster, Join{
			Name:            "writers",
			LeftOn:          cols.Title,
			RightOn:         cols.RosterTitle,
			Prefixes:        []string{cols.WriterPrefix},
			DedupeAuxiliary: dedupe,
		}},
		{budget, Join{
			Name:            "budget",
			LeftOn:          cols.Title,
			RightOn:         cols.BudgetTitle,
			Columns:         []string{cols.Budget},
			DedupeAuxiliary: dedupe,
		}},
		{roster, Join{
			Name:            "cast",
			LeftOn:          cols.Title,
			RightOn:         cols.RosterTitle,
			Prefixes:        []string{cols.CastPrefix},
			DedupeAuxiliary: dedupe,
		}},
	}

	allStats := make([]Stats, 0, len(joins))
	merged := primary
	for _, step := range joins {
		var (
			stats Stats
			err   error
		)

		merged, stats, err = Left(merged, step.aux, step.join)
		if err != nil {
			return merged, allStats, err
		}
		allStats = append(allStats, stats)
	}

	return merged, allStats, nil
}
