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
package pipeline

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hako/durafmt"
	"github.com/rs/zerolog/log"
	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/penny-vault/boxoffice/clean"
	"github.com/penny-vault/boxoffice/data"
	"github.com/penny-vault/boxoffice/inflation"
	"github.com/penny-vault/boxoffice/merge"
)

// Input describes one of the tables read by the pipeline
type Input struct {
	Name     string `json:"name"`
	FileName string `json:"file_name"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
}

// Summary records what a pipeline run read, changed and wrote
type Summary struct {
	RunID     uuid.UUID     `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	Inputs    []Input          `json:"inputs"`
	Joins     []merge.Stats    `json:"joins"`
	Clean     clean.Report     `json:"clean"`
	Inflation inflation.Report `json:"inflation"`

	NumNumeric     int `json:"num_numeric"`
	NumCategorical int `json:"num_categorical"`
	NumFeatures    int `json:"num_features"`

	Outputs  []string `json:"outputs"`
	Uploaded bool     `json:"uploaded"`
}

func (summary *Summary) load(name, fn string, nanValues []string, stringCols ...string) (dataframe.DataFrame, error) {
	df, err := data.LoadFrame(fn, nanValues, stringCols...)
	if err != nil {
		return df, fmt.Errorf("load %s table: %w", name, err)
	}

	summary.Inputs = append(summary.Inputs, Input{
		Name:     name,
		FileName: fn,
		Rows:     df.Nrow(),
		Cols:     df.Ncol(),
	})

	return df, nil
}

func (summary *Summary) save(fn string, write func(string) error) error {
	if err := write(fn); err != nil {
		return err
	}

	log.Debug().Str("FileName", fn).Msg("wrote output")
	summary.Outputs = append(summary.Outputs, fn)

	return nil
}

// SaveFile writes the summary as indented JSON
func (summary *Summary) SaveFile(fn string) error {
	buf, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(fn, buf, 0o644)
}

// LoadSummary reads a summary written by SaveFile
func LoadSummary(fn string) (*Summary, error) {
	buf, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	if err := json.Unmarshal(buf, summary); err != nil {
		return nil, fmt.Errorf("parse %s: %w", fn, err)
	}

	return summary, nil
}

// Line is a one line description of the run
func (summary *Summary) Line() string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d movies, %d features, CPI %s (%d)", summary.Clean.RowsOut, summary.NumFeatures,
		summary.Inflation.Source, summary.Inflation.TargetYear)
}

// Markdown describes the run as a markdown document
func (summary *Summary) Markdown() string {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	builder.WriteString(fmt.Sprintf("# Run %s\n\n", summary.RunID.String()[:8]))

	started := summary.StartedAt
	builder.WriteString(fmt.Sprintf("Started: %s (%s)\n\n", timeago.English.Format(started), started.Local().Format("01/02/2006 15:04")))
	builder.WriteString(fmt.Sprintf("Duration: %s\n\n", durafmt.Parse(summary.Duration).LimitFirstN(2).String()))

	builder.WriteString("## Inputs\n\n")
	for _, input := range summary.Inputs {
		builder.WriteString(p.Sprintf("  * %s: %d rows, %d columns (%s)\n", input.Name, input.Rows, input.Cols, input.FileName))
	}

	builder.WriteString("\n## Joins\n\n")
	for _, join := range summary.Joins {
		builder.WriteString(p.Sprintf("  * %s: %d matched, %d unmatched, %d → %d rows\n",
			join.Name, join.Matched, join.Unmatched, join.RowsBefore, join.RowsAfter))
	}

	builder.WriteString("\n## Cleaning\n\n")
	builder.WriteString(p.Sprintf("  * Rows In: %d\n", summary.Clean.RowsIn))
	builder.WriteString(p.Sprintf("  * Duplicates Removed: %d\n", summary.Clean.DuplicatesRemoved))
	builder.WriteString(p.Sprintf("  * Rows Dropped: %d\n", summary.Clean.RowsDropped))
	builder.WriteString(p.Sprintf("  * Rows Out: %d\n", summary.Clean.RowsOut))

	filled := make([]string, 0, len(summary.Clean.Filled))
	for col, cnt := range summary.Clean.Filled {
		if cnt > 0 {
			filled = append(filled, p.Sprintf("%s (%d)", col, cnt))
		}
	}
	sort.Strings(filled)
	if len(filled) > 0 {
		builder.WriteString(fmt.Sprintf("  * Filled: %s\n", strings.Join(filled, ", ")))
	}

	builder.WriteString("\n## Inflation\n\n")
	builder.WriteString(p.Sprintf("  * Price Index: %s\n", summary.Inflation.Source))
	builder.WriteString(p.Sprintf("  * Target Year: %d\n", summary.Inflation.TargetYear))
	builder.WriteString(p.Sprintf("  * Skipped Rows: %d\n", summary.Inflation.SkippedRows))

	builder.WriteString("\n## Encoding\n\n")
	builder.WriteString(p.Sprintf("  * Numeric Columns: %d\n", summary.NumNumeric))
	builder.WriteString(p.Sprintf("  * Categorical Columns: %d\n", summary.NumCategorical))
	builder.WriteString(p.Sprintf("  * Indicator Columns: %d\n", summary.NumFeatures))

	builder.WriteString("\n## Outputs\n\n")
	for _, fn := range summary.Outputs {
		builder.WriteString(fmt.Sprintf("  * %s\n", fn))
	}
	if summary.Uploaded {
		builder.WriteString("\nOutputs were uploaded to backblaze.\n")
	}

	return builder.String()
}
