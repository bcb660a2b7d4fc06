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
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penny-vault/boxoffice/library"
	"github.com/penny-vault/boxoffice/pipeline"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [output-dir]",
	Short: "Display information about the last run and the movie library",
	Args:  cobra.MaximumNArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd, map[string]string{"dbUrl": "db.url"})
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		dir := viper.GetString("output.dir")
		if len(args) == 1 {
			dir = args[0]
		}

		var doc strings.Builder

		summary, err := pipeline.LoadSummary(filepath.Join(dir, pipeline.SummaryFile))
		if err != nil {
			log.Warn().Err(err).Str("Directory", dir).Msg("no run summary found")
		} else {
			doc.WriteString(summary.Markdown())
			doc.WriteString("\n")
		}

		if dbURL := viper.GetString("db.url"); dbURL != "" {
			myLibrary, err := library.NewFromDB(ctx, dbURL)
			if err != nil {
				log.Fatal().Err(err).Msg("could not load library info")
			}
			defer myLibrary.Close()

			librarySummary, err := myLibrary.Summary(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("could not create library summary document")
			}
			doc.WriteString(librarySummary)
		}

		if doc.Len() == 0 {
			log.Fatal().Msg("nothing to report, run `boxoffice run` first")
		}

		r, _ := glamour.NewTermRenderer(
			// detect background color and pick either the default dark or light theme
			glamour.WithAutoStyle(),
			// wrap output at specific width (default is 80)
			glamour.WithWordWrap(80),
		)

		out, err := r.Render(doc.String())
		if err != nil {
			log.Fatal().Err(err).Msg("could not render summary document")
		}

		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().String("dbUrl", "", "database connection string")
}
