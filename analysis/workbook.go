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
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// Slug returns the lowercase dash-separated form of a figure title.
// Underscores count as separators.
func Slug(title string) string {
	return slug.Make(strings.ReplaceAll(title, "_", " "))
}

// SheetName returns a workbook-safe sheet name for a figure title
func SheetName(title string) string {
	name := Slug(title)
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}

// flatten expands panel figures so every entry has data of its own
func flatten(figures []Figure) []Figure {
	flat := make([]Figure, 0, len(figures))
	for _, fig := range figures {
		if fig.Kind == KindPanels {
			flat = append(flat, flatten(fig.Panels)...)
			continue
		}
		flat = append(flat, fig)
	}
	return flat
}

// SaveWorkbook writes the aggregate behind each figure to its own sheet of
// an xlsx workbook
func SaveWorkbook(figures []Figure, fn string) error {
	book := excelize.NewFile()
	defer book.Close()

	used := make(map[string]int)
	sheets := flatten(figures)
	for idx, fig := range sheets {
		sheet := SheetName(fig.Title)
		if cnt := used[sheet]; cnt > 0 {
			suffix := fmt.Sprintf("-%d", cnt+1)
			if len(sheet)+len(suffix) > maxSheetName {
				sheet = sheet[:maxSheetName-len(suffix)]
			}
			sheet += suffix
		}
		used[SheetName(fig.Title)]++

		if idx == 0 {
			if err := book.SetSheetName(book.GetSheetName(0), sheet); err != nil {
				return err
			}
		} else if _, err := book.NewSheet(sheet); err != nil {
			return err
		}

		if err := writeSheet(book, sheet, fig); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}

	if err := book.SaveAs(fn); err != nil {
		return err
	}

	log.Debug().Str("FileName", fn).Int("NumSheets", len(sheets)).Msg("saved aggregate workbook")

	return nil
}

func writeSheet(book *excelize.File, sheet string, fig Figure) error {
	var rows [][]interface{}
	if fig.Kind == KindScatter {
		rows = append(rows, []interface{}{"title", fig.XLabel, fig.YLabel})
		for _, pt := range fig.Points {
			rows = append(rows, []interface{}{pt.Label, pt.X, pt.Y})
		}
	} else {
		rows = append(rows, []interface{}{groupLabel(fig), valueLabel(fig), "count"})
		for _, grp := range fig.Groups {
			rows = append(rows, []interface{}{grp.Key, grp.Value, grp.Count})
		}
	}

	for idx := range rows {
		cell, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(sheet, cell, &rows[idx]); err != nil {
			return err
		}
	}

	return nil
}

// groupLabel is the axis title naming the grouping key
func groupLabel(fig Figure) string {
	if fig.Kind == KindHorizontalBar {
		return fig.YLabel
	}
	return fig.XLabel
}

// valueLabel is the axis title naming the aggregated value
func valueLabel(fig Figure) string {
	if fig.Kind == KindHorizontalBar {
		return fig.XLabel
	}
	return fig.YLabel
}

// SaveGroups writes grouped aggregates to a CSV file
func SaveGroups(groups []Group, fn string) error {
	return saveCSV(&groups, fn)
}

// SavePoints writes scatter points to a CSV file
func SavePoints(points []Point, fn string) error {
	return saveCSV(&points, fn)
}

func saveCSV(rows interface{}, fn string) error {
	fh, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer fh.Close()

	return gocsv.MarshalFile(rows, fh)
}
