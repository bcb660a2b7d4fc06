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
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/jackc/pgx/v5"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/penny-vault/boxoffice/db"
	"github.com/penny-vault/boxoffice/library"
	"github.com/penny-vault/boxoffice/pipeline"
)

type inputSettings struct {
	Primary string `toml:"primary"`
	Roster  string `toml:"roster"`
	Budget  string `toml:"budget"`
}

type outputSettings struct {
	Dir     string `toml:"dir"`
	Parquet bool   `toml:"parquet"`
}

type dbSettings struct {
	URL string `toml:"url,omitempty"`
}

type librarySettings struct {
	Name  string `toml:"name,omitempty"`
	Owner string `toml:"owner,omitempty"`
}

// settings is the layout of the config file written by init
type settings struct {
	Input   inputSettings   `toml:"input"`
	Output  outputSettings  `toml:"output"`
	DB      dbSettings      `toml:"db"`
	Library librarySettings `toml:"library"`
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Gather input locations and database configuration",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		def := pipeline.DefaultConfig()
		conf := settings{
			Input: inputSettings{
				Primary: def.PrimaryFile,
				Roster:  def.RosterFile,
				Budget:  def.BudgetFile,
			},
			Output: outputSettings{
				Dir: def.OutputDir,
			},
		}

		fileExists := func(fn string) error {
			_, err := os.Stat(fn)
			return err
		}

		form := huh.NewForm(
			// Where the tables live
			huh.NewGroup(
				huh.NewInput().
					Title("Box office table (CSV):").
					Value(&conf.Input.Primary).
					Validate(fileExists),

				huh.NewInput().
					Title("Writer and cast roster (CSV):").
					Value(&conf.Input.Roster).
					Validate(fileExists),

				huh.NewInput().
					Title("Budget table (CSV):").
					Value(&conf.Input.Budget).
					Validate(fileExists),

				huh.NewInput().
					Title("Where should outputs be written?").
					Value(&conf.Output.Dir),

				huh.NewConfirm().
					Title("Also write the movies as parquet?").
					Value(&conf.Output.Parquet),
			),

			// Optional movie library
			huh.NewGroup(
				huh.NewInput().
					Title("PostgreSQL DSN for the movie library, leave empty to skip (postgres://[user[:password]@][netloc][:port][/dbname][?param1=value1&...])").
					Value(&conf.DB.URL).
					Validate(func(dsn string) error {
						if dsn == "" {
							return nil
						}
						_, err := pgx.ParseConfig(dsn)
						return err
					}),

				huh.NewInput().
					Title("Give the library a name:").
					Value(&conf.Library.Name),

				huh.NewInput().
					Title("Who owns the library?").
					Value(&conf.Library.Owner),
			),
		)

		err := form.Run()
		if err != nil {
			log.Fatal().Err(err).Msg("error gathering settings")
		}

		if conf.DB.URL != "" {
			log.Info().Msg("creating database tables")

			if err := db.Migrate(conf.DB.URL); err != nil {
				log.Fatal().Err(err).Msg("error running database migration")
			}

			log.Info().Msg("database tables created")
			log.Info().Msg("Saving library name and owner to database")

			myLibrary := &library.Library{
				DBUrl: conf.DB.URL,
				Name:  conf.Library.Name,
				Owner: conf.Library.Owner,
			}

			if err := myLibrary.Connect(ctx); err != nil {
				log.Fatal().Err(err).Msg("could not connect to database")
			}
			defer myLibrary.Close()

			if err := myLibrary.SaveDB(ctx); err != nil {
				log.Fatal().Err(err).Msg("error saving library settings to database")
			}
		}

		// save settings to config file
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("could not determine user home directory")
		}

		configFN := filepath.Join(home, ".boxoffice.toml")
		log.Info().Str("ConfigFile", configFN).Msg("Saving settings to config file")
		configData, err := toml.Marshal(conf)
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal configuration data")
		}

		err = os.WriteFile(configFN, configData, 0o600)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", configFN).Msg("could not save configuration to file")
		}

		log.Info().Msg("boxoffice has been initialized, build the dataset with `boxoffice run`")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
