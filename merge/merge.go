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
	"errors"
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/penny-vault/boxoffice/data"
	"github.com/rs/zerolog/log"
)

var (
	ErrKeyNotFound = errors.New("join key not found")
	ErrNoColumns   = errors.New("join selects no auxiliary columns")
)

// Join describes which auxiliary columns are attached to the primary table
// and how rows are matched
type Join struct {
	Name    string
	LeftOn  string
	RightOn string

	// Columns lists auxiliary columns by name, Prefixes selects every
	// auxiliary column whose name starts with one of the prefixes
	Columns  []string
	Prefixes []string

	// DedupeAuxiliary keeps only the first auxiliary row for each title. When
	// false a title listed n times in the auxiliary table produces n output
	// rows.
	DedupeAuxiliary bool
}

// Stats summarizes a single join
type Stats struct {
	Name       string   `json:"name"`
	Columns    []string `json:"columns"`
	RowsBefore int      `json:"rows_before"`
	RowsAfter  int      `json:"rows_after"`
	Matched    int      `json:"matched"`
	Unmatched  int      `json:"unmatched"`
}

// Left attaches the selected auxiliary columns to primary. Every primary row
// is kept; rows without a matching title get missing auxiliary values. Keys
// are compared with exact string equality.
func Left(primary, aux dataframe.DataFrame, join Join) (dataframe.DataFrame, Stats, error) {
	stats := Stats{
		Name:       join.Name,
		RowsBefore: primary.Nrow(),
	}

	if !data.HasColumn(primary, join.LeftOn) {
		return primary, stats, fmt.Errorf("%w: %s in primary table", ErrKeyNotFound, join.LeftOn)
	}

	rightOn := join.RightOn
	if rightOn == "" {
		rightOn = join.LeftOn
	}

	if !data.HasColumn(aux, rightOn) {
		return primary, stats, fmt.Errorf("%w: %s in %s table", ErrKeyNotFound, rightOn, join.Name)
	}

	cols := selectColumns(primary, aux, join, rightOn)
	if len(cols) == 0 {
		return primary, stats, fmt.Errorf("%w: %s", ErrNoColumns, join.Name)
	}
	stats.Columns = cols

	right := aux.Select(append([]string{rightOn}, cols...))
	right = data.AsText(right, rightOn)
	if join.DedupeAuxiliary {
		right = firstPerKey(right, rightOn)
	}

	if rightOn != join.LeftOn {
		right = right.Rename(join.LeftOn, rightOn)
	}

	left := data.AsText(primary, join.LeftOn)
	stats.Matched, stats.Unmatched = countMatches(left, right, join.LeftOn)

	joined := left.LeftJoin(right, join.LeftOn)
	if joined.Err != nil {
		return primary, stats, fmt.Errorf("join %s: %w", join.Name, joined.Err)
	}

	// the join moves the key to the front; restore the primary column order
	order := append(append([]string{}, primary.Names()...), cols...)
	joined = joined.Select(order)
	if joined.Err != nil {
		return primary, stats, fmt.Errorf("join %s: %w", join.Name, joined.Err)
	}

	stats.RowsAfter = joined.Nrow()

	log.Info().Str("Join", join.Name).Strs("Columns", cols).Int("RowsBefore", stats.RowsBefore).
		Int("RowsAfter", stats.RowsAfter).Int("Unmatched", stats.Unmatched).Msg("merged auxiliary table")

	if stats.RowsAfter > stats.RowsBefore {
		log.Warn().Str("Join", join.Name).Int("ExtraRows", stats.RowsAfter-stats.RowsBefore).
			Msg("auxiliary table has duplicate titles, primary rows were repeated")
	}

	return joined, stats, nil
}

func selectColumns(primary, aux dataframe.DataFrame, join Join, rightOn string) []string {
	seen := make(map[string]bool)
	cols := make([]string, 0)

	add := func(col string) {
		if col == rightOn || seen[col] {
			return
		}
		seen[col] = true

		if data.HasColumn(primary, col) {
			log.Warn().Str("Join", join.Name).Str("Column", col).Msg("column already present in primary table, keeping primary value")
			return
		}

		cols = append(cols, col)
	}

	for _, col := range join.Columns {
		if !data.HasColumn(aux, col) {
			log.Warn().Str("Join", join.Name).Str("Column", col).Msg("auxiliary column not found")
			continue
		}
		add(col)
	}

	for _, prefix := range join.Prefixes {
		for _, col := range data.ColumnsWithPrefix(aux, prefix) {
			add(col)
		}
	}

	return cols
}

// firstPerKey keeps the first row for each key value
func firstPerKey(df dataframe.DataFrame, key string) dataframe.DataFrame {
	keys := df.Col(key).Records()
	seen := make(map[string]bool, len(keys))
	keep := make([]int, 0, len(keys))
	for idx, val := range keys {
		if seen[val] {
			continue
		}
		seen[val] = true
		keep = append(keep, idx)
	}

	if len(keep) == len(keys) {
		return df
	}

	log.Debug().Int("Dropped", len(keys)-len(keep)).Str("Key", key).Msg("dropped duplicate auxiliary titles")
	return df.Subset(keep)
}

func countMatches(left, right dataframe.DataFrame, key string) (matched, unmatched int) {
	rightKeys := make(map[string]bool, right.Nrow())
	for idx, elem := 0, right.Col(key); idx < elem.Len(); idx++ {
		if e := elem.Elem(idx); !e.IsNA() {
			rightKeys[e.String()] = true
		}
	}

	leftCol := left.Col(key)
	for idx := 0; idx < leftCol.Len(); idx++ {
		e := leftCol.Elem(idx)
		if !e.IsNA() && rightKeys[e.String()] {
			matched++
		} else {
			unmatched++
		}
	}

	return matched, unmatched
}
