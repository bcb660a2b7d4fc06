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
	"github.com/spf13/viper"

	"github.com/penny-vault/boxoffice/inflation"
)

var cpiShow bool

// cpiCmd represents the cpi command
var cpiCmd = &cobra.Command{
	Use:   "cpi",
	Short: "Refresh the consumer price index from FRED",
	Long: `The cpi sub-command downloads the monthly consumer price index from the
Federal Reserve Economic Data service, averages it into annual values and saves
it to the price index cache used by run. Years with fewer than twelve monthly
observations are left out.

A FRED API key is required (fred.apikey in the config file or
BOXOFFICE_FRED_APIKEY). Use --show to print the index currently in use without
downloading anything.`,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd, map[string]string{
			"cpi-file": "inflation.cpi_file",
			"series":   "fred.series",
			"api-key":  "fred.apikey",
		})
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.Logger.WithContext(context.Background())
		fn := viper.GetString("inflation.cpi_file")

		if cpiShow {
			index, err := inflation.Load(fn)
			if err != nil {
				log.Fatal().Err(err).Str("FileName", fn).Msg("could not load price index")
			}
			printIndex(index)
			return
		}

		apiKey := viper.GetString("fred.apikey")
		if apiKey == "" {
			log.Fatal().Msg("fred.apikey is not configured")
		}

		fred := inflation.NewFred(apiKey)
		index, err := fred.Index(ctx, viper.GetString("fred.series"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not download price index")
		}

		if err := os.MkdirAll(filepath.Dir(fn), 0o755); err != nil {
			log.Fatal().Err(err).Str("FileName", fn).Msg("could not create cache directory")
		}

		if err := index.SaveFile(fn); err != nil {
			log.Fatal().Err(err).Str("FileName", fn).Msg("could not save price index")
		}

		log.Info().Str("FileName", fn).Int("NumYears", index.Len()).Int("TargetYear", index.Target()).Msg("saved price index")
	},
}

func printIndex(index *inflation.Index) {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(index.Source)
	tw.AppendHeader(table.Row{"Year", "CPI", fmt.Sprintf("$1 in %d", index.Target())})

	for _, obs := range index.Observations() {
		dollar, err := index.Inflate(1, obs.Year)
		if err != nil {
			continue
		}
		tw.AppendRow(table.Row{obs.Year, fmt.Sprintf("%.3f", obs.Value), fmt.Sprintf("%.2f", dollar)})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})

	fmt.Println(tw.Render())
}

func init() {
	rootCmd.AddCommand(cpiCmd)

	cpiCmd.Flags().BoolVar(&cpiShow, "show", false, "print the price index instead of downloading it")
	cpiCmd.Flags().String("cpi-file", "", "price index cache")
	cpiCmd.Flags().String("series", "", "FRED series id")
	cpiCmd.Flags().String("api-key", "", "FRED api key")
}
