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
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hako/durafmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/penny-vault/boxoffice/pipeline"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the merged, encoded and charted movie dataset",
	Long: `The run sub-command loads the box office, roster and budget tables, joins
them on the movie title, cleans the result, converts budget and worldwide gross
into real dollars and writes:

	* merged.csv        cleaned, inflation adjusted table
	* encoded.csv       one-hot encoded feature table
	* covariance.csv    covariance of the numeric columns
	* associations.csv  pairwise association of the selected features
	* charts/*.png      exploratory charts and the association heat map
	* run.json          summary of the run

Movies whose release year is not covered by the price index stop the run
unless --on-unsupported=skip is given.`,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd, runFlagKeys)
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(context.Background())

		cfg := pipelineConfig()
		summary, err := pipeline.Run(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("pipeline failed")
		}

		printRunSummary(summary)
	},
}

func printRunSummary(summary *pipeline.Summary) {
	var sb strings.Builder
	p := message.NewPrinter(language.English)

	keyword := func(s string) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Render(s)
	}

	fmt.Fprintf(&sb, "%s\n\nRun: %s\nMovies: %s\nFeatures: %s\nPrice Index: %s\nRun Time: %s\n\n",
		lipgloss.NewStyle().Bold(true).Render("DATASET READY"),
		keyword(summary.RunID.String()),
		keyword(p.Sprintf("%d of %d", summary.Clean.RowsOut-summary.Inflation.SkippedRows, summary.Clean.RowsIn)),
		keyword(p.Sprintf("%d", summary.NumFeatures)),
		keyword(fmt.Sprintf("%s (%d)", summary.Inflation.Source, summary.Inflation.TargetYear)),
		keyword(durafmt.Parse(summary.Duration).LimitFirstN(2).String()),
	)

	fmt.Fprint(&sb, lipgloss.NewStyle().Bold(true).Render("Outputs"))
	for _, fn := range summary.Outputs {
		fmt.Fprintf(&sb, "\n%s", fn)
	}

	fmt.Println(
		lipgloss.NewStyle().
			Width(80).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2).
			Render(sb.String()),
	)
}

var runFlagKeys = make(map[string]string)

func init() {
	rootCmd.AddCommand(runCmd)

	flags := []struct {
		name, key, usage string
		value            any
	}{
		{"primary", "input.primary", "box office table (CSV)", ""},
		{"roster", "input.roster", "writer and cast roster (CSV)", ""},
		{"budget", "input.budget", "budget table (CSV)", ""},
		{"output", "output.dir", "directory outputs are written to", ""},
		{"cpi-file", "inflation.cpi_file", "price index cache written by `boxoffice cpi`", ""},
		{"on-unsupported", "inflation.on_unsupported", "what to do with years missing from the price index (error, skip)", ""},
		{"target-year", "inflation.target_year", "express currency in dollars of this year (default latest in index)", 0},
		{"dedupe-auxiliary", "merge.dedupe_auxiliary", "keep only the first roster / budget row per title", false},
		{"parquet", "output.parquet", "also write the movies as parquet", false},
		{"charts", "output.charts", "render charts", true},
	}

	for _, flag := range flags {
		switch def := flag.value.(type) {
		case string:
			runCmd.Flags().String(flag.name, def, flag.usage)
		case int:
			runCmd.Flags().Int(flag.name, def, flag.usage)
		case bool:
			runCmd.Flags().Bool(flag.name, def, flag.usage)
		}

		runFlagKeys[flag.name] = flag.key
	}
}
