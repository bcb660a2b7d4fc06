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
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penny-vault/boxoffice/data"
	"github.com/penny-vault/boxoffice/pipeline"
)

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "boxoffice",
	Short: "boxoffice builds the movie success dataset and its exploratory charts",
	Long: `boxoffice is a command line utility for building the analysis dataset used
to study what makes a movie financially successful. It combines three tables:

	* box office records (one row per movie)
	* a roster of writers and cast members
	* production budgets

The tables are joined on the movie title, missing values are filled, movies
without a budget or worldwide gross are dropped, and currency amounts are
converted to real dollars with the consumer price index. The result is written
as a merged table, a one-hot encoded feature table and a set of charts.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			log.Fatal().Err(err).Str("LogLevel", logLevel).Msg("invalid log level")
		}
		zerolog.SetGlobalLevel(level)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.DefaultContextLogger = &log.Logger

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.boxoffice.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	setDefaults()
}

// setDefaults registers the pipeline defaults with viper
func setDefaults() {
	def := pipeline.DefaultConfig()

	viper.SetDefault("input.primary", def.PrimaryFile)
	viper.SetDefault("input.roster", def.RosterFile)
	viper.SetDefault("input.budget", def.BudgetFile)
	viper.SetDefault("input.nan_values", def.NaNValues)
	viper.SetDefault("output.dir", def.OutputDir)
	viper.SetDefault("output.charts", def.Charts)
	viper.SetDefault("output.workbook", def.Workbook)
	viper.SetDefault("output.parquet", def.Parquet)
	viper.SetDefault("merge.dedupe_auxiliary", def.DedupeAuxiliary)
	viper.SetDefault("clean.fill_columns", def.FillColumns)
	viper.SetDefault("inflation.cpi_file", defaultCPIFile())
	viper.SetDefault("inflation.on_unsupported", def.OnUnsupported)
	viper.SetDefault("analysis.association_columns", def.AssociationColumns)
	viper.SetDefault("analysis.all_nominal", def.AllNominal)
	viper.SetDefault("fred.series", "CPIAUCNS")
}

// defaultCPIFile is the price index cache in the user cache directory
func defaultCPIFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "cpi.csv"
	}
	return filepath.Join(dir, "boxoffice", "cpi.csv")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".boxoffice" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("toml")
		viper.SetConfigName(".boxoffice")
	}

	viper.SetEnvPrefix("boxoffice")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info().Str("ConfigFN", viper.ConfigFileUsed()).Msg("Using config file")
	}
}

// bindFlags binds command flags to viper keys. Commands share keys, so the
// binding is made when the command runs.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			log.Panic().Err(err).Str("Flag", flag).Msg("BindPFlag failed")
		}
	}
}

// pipelineConfig assembles the pipeline configuration from viper
func pipelineConfig() pipeline.Config {
	cfg := pipeline.Config{
		PrimaryFile:     viper.GetString("input.primary"),
		RosterFile:      viper.GetString("input.roster"),
		BudgetFile:      viper.GetString("input.budget"),
		NaNValues:       viper.GetStringSlice("input.nan_values"),
		OutputDir:       viper.GetString("output.dir"),
		Charts:          viper.GetBool("output.charts"),
		Workbook:        viper.GetBool("output.workbook"),
		Parquet:         viper.GetBool("output.parquet"),
		DedupeAuxiliary: viper.GetBool("merge.dedupe_auxiliary"),
		FillColumns:     viper.GetStringSlice("clean.fill_columns"),
		CPIFile:         viper.GetString("inflation.cpi_file"),
		TargetYear:      viper.GetInt("inflation.target_year"),
		OnUnsupported:   viper.GetString("inflation.on_unsupported"),
		EncodeExclude:   viper.GetStringSlice("encode.exclude"),
		HealthcheckID:   viper.GetString("healthcheck.id"),

		AssociationColumns: viper.GetStringSlice("analysis.association_columns"),
		AllNominal:         viper.GetBool("analysis.all_nominal"),
	}

	cfg.Backblaze.ApplicationID = viper.GetString("backblaze.application_id")
	cfg.Backblaze.ApplicationKey = viper.GetString("backblaze.application_key")
	cfg.Backblaze.Bucket = viper.GetString("backblaze.bucket")

	var cols data.Columns
	if err := viper.UnmarshalKey("columns", &cols); err != nil {
		log.Fatal().Err(err).Msg("could not parse column names")
	}
	cfg.Columns = cols.WithDefaults()

	return cfg
}
