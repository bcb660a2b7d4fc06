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
	"os/user"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penny-vault/boxoffice/db"
	"github.com/penny-vault/boxoffice/library"
	"github.com/penny-vault/boxoffice/pipeline"
)

// publishCmd represents the publish command
var publishCmd = &cobra.Command{
	Use:   "publish [output-dir]",
	Short: "Store the movies of a run in the library database",
	Long: `The publish sub-command copies the cleaned movies of a run, together with
the run summary, into the PostgreSQL movie library configured by db.url. The
library schema is created or upgraded before publishing.`,
	Args: cobra.MaximumNArgs(1),
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd, map[string]string{"dbUrl": "db.url"})
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(context.Background())
		cfg := pipelineConfig()

		dir := cfg.OutputDir
		if len(args) == 1 {
			dir = args[0]
		}

		dbURL := viper.GetString("db.url")
		if dbURL == "" {
			log.Fatal().Msg("db.url is not configured, run `boxoffice init` first")
		}

		summary, err := pipeline.LoadSummary(filepath.Join(dir, pipeline.SummaryFile))
		if err != nil {
			log.Fatal().Err(err).Str("Directory", dir).Msg("could not load run summary")
		}

		movies, _, err := pipeline.LoadMerged(ctx, filepath.Join(dir, pipeline.MergedFile), cfg)
		if err != nil {
			log.Fatal().Err(err).Str("Directory", dir).Msg("could not load merged table")
		}

		if err := db.Migrate(dbURL); err != nil {
			log.Fatal().Err(err).Msg("error running database migration")
		}

		myLibrary, err := library.NewFromDB(ctx, dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to library")
		}
		defer myLibrary.Close()

		run := &library.Run{
			ID:                summary.RunID,
			StartedAt:         summary.StartedAt,
			Duration:          summary.Duration,
			RowsIn:            summary.Clean.RowsIn,
			RowsOut:           len(movies),
			DuplicatesRemoved: summary.Clean.DuplicatesRemoved,
			RowsDropped:       summary.Clean.RowsDropped + summary.Inflation.SkippedRows,
			CPISource:         summary.Inflation.Source,
			TargetYear:        summary.Inflation.TargetYear,
			NumFeatures:       summary.NumFeatures,
			CreatedBy:         currentUser(),
		}

		if err := myLibrary.Publish(ctx, run, movies); err != nil {
			log.Fatal().Err(err).Str("RunID", run.ID.String()).Msg("could not publish run")
		}
	},
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().String("dbUrl", "", "database connection string")
}
