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
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/penny-vault/boxoffice/analysis"
	"github.com/penny-vault/boxoffice/chart"
	"github.com/penny-vault/boxoffice/pipeline"
)

var (
	analyzeTop       int
	analyzeCharts    bool
	analyzeExportDir string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [merged.csv]",
	Short: "Print the grouped aggregates behind each chart",
	Long: `The analyze sub-command reads a merged table written by run and prints
the aggregate behind each chart as a table. When no file is given the merged
table in the configured output directory is used.`,
	Args: cobra.MaximumNArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd, map[string]string{"output": "output.dir"})
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(context.Background())
		cfg := pipelineConfig()

		fn := filepath.Join(cfg.OutputDir, pipeline.MergedFile)
		if len(args) == 1 {
			fn = args[0]
		}

		_, figures, err := pipeline.LoadMerged(ctx, fn, cfg)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", fn).Msg("could not load merged table")
		}

		for _, fig := range figures {
			printFigure(fig)
		}

		if analyzeCharts {
			if _, err := chart.RenderAll(ctx, figures, filepath.Join(cfg.OutputDir, pipeline.ChartDir)); err != nil {
				log.Fatal().Err(err).Msg("could not render charts")
			}
		}

		if analyzeExportDir != "" {
			exportFigures(figures, analyzeExportDir)
		}
	},
}

func printFigure(fig analysis.Figure) {
	if fig.Kind == analysis.KindPanels {
		for _, panel := range fig.Panels {
			printFigure(panel)
		}
		return
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(fig.Title)

	if fig.Kind == analysis.KindScatter {
		tw.AppendHeader(table.Row{"Title", fig.XLabel, fig.YLabel})
		for idx, pt := range fig.Points {
			if analyzeTop > 0 && idx >= analyzeTop {
				break
			}
			tw.AppendRow(table.Row{pt.Label, fmt.Sprintf("%.2f", pt.X), fmt.Sprintf("%.2f", pt.Y)})
		}
	} else {
		key, value := fig.XLabel, fig.YLabel
		groups := fig.Groups
		if fig.Kind == analysis.KindHorizontalBar {
			key, value = fig.YLabel, fig.XLabel
			// horizontal bars are sorted ascending, largest last
			groups = analysis.SortByValue(groups, true)
		}

		tw.AppendHeader(table.Row{key, value, "Movies"})
		for idx, grp := range groups {
			if analyzeTop > 0 && idx >= analyzeTop {
				break
			}
			tw.AppendRow(table.Row{grp.Key, fmt.Sprintf("%.2f", grp.Value), grp.Count})
		}
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})

	fmt.Println(tw.Render())
	fmt.Println()
}

func exportFigures(figures []analysis.Figure, dir string) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatal().Err(err).Str("Directory", dir).Msg("could not create export directory")
	}

	for _, fig := range figures {
		if fig.Kind == analysis.KindPanels {
			exportFigures(fig.Panels, dir)
			continue
		}

		fn := filepath.Join(dir, analysis.Slug(fig.Title)+".csv")

		var err error
		if fig.Kind == analysis.KindScatter {
			err = analysis.SavePoints(fig.Points, fn)
		} else {
			err = analysis.SaveGroups(fig.Groups, fn)
		}

		if err != nil {
			log.Fatal().Err(err).Str("FileName", fn).Msg("could not export aggregate")
		}

		log.Info().Str("FileName", fn).Msg("exported aggregate")
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVarP(&analyzeTop, "top", "n", 15, "rows printed per table (0 prints all)")
	analyzeCmd.Flags().BoolVar(&analyzeCharts, "charts", false, "re-render the charts")
	analyzeCmd.Flags().StringVar(&analyzeExportDir, "export", "", "write each aggregate to a CSV file in this directory")
	analyzeCmd.Flags().String("output", "", "directory outputs were written to")
}
