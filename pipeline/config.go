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
	"github.com/penny-vault/boxoffice/analysis"
	"github.com/penny-vault/boxoffice/data"
	"github.com/penny-vault/boxoffice/export"
)

// Output file names, relative to Config.OutputDir
const (
	MergedFile       = "merged.csv"
	EncodedFile      = "encoded.csv"
	CovarianceFile   = "covariance.csv"
	AssociationFile  = "associations.csv"
	AssociationChart = "associations.png"
	WorkbookFile     = "aggregates.xlsx"
	ParquetFile      = "movies.parquet"
	SummaryFile      = "run.json"
	ChartDir         = "charts"
)

// Config controls a pipeline run
type Config struct {
	PrimaryFile string `mapstructure:"primary" toml:"primary"`
	RosterFile  string `mapstructure:"roster" toml:"roster"`
	BudgetFile  string `mapstructure:"budget" toml:"budget"`
	OutputDir   string `mapstructure:"output_dir" toml:"output_dir"`

	// NaNValues are read as missing values in every input
	NaNValues []string     `mapstructure:"nan_values" toml:"nan_values"`
	Columns   data.Columns `mapstructure:"columns" toml:"columns"`

	DedupeAuxiliary bool     `mapstructure:"dedupe_auxiliary" toml:"dedupe_auxiliary"`
	FillColumns     []string `mapstructure:"fill_columns" toml:"fill_columns"`

	// CPIFile caches the consumer price index; the bundled index is used
	// when the file does not exist
	CPIFile       string `mapstructure:"cpi_file" toml:"cpi_file"`
	TargetYear    int    `mapstructure:"target_year" toml:"target_year"`
	OnUnsupported string `mapstructure:"on_unsupported" toml:"on_unsupported"`

	EncodeExclude []string `mapstructure:"encode_exclude" toml:"encode_exclude"`

	// AssociationColumns are compared pairwise in the association matrix
	AssociationColumns []string `mapstructure:"association_columns" toml:"association_columns"`
	AllNominal         bool     `mapstructure:"all_nominal" toml:"all_nominal"`

	Charts   bool `mapstructure:"charts" toml:"charts"`
	Workbook bool `mapstructure:"workbook" toml:"workbook"`
	Parquet  bool `mapstructure:"parquet" toml:"parquet"`

	Backblaze     export.Backblaze `mapstructure:"backblaze" toml:"backblaze"`
	HealthcheckID string           `mapstructure:"healthcheck_id" toml:"healthcheck_id"`
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	cols := data.DefaultColumns()
	return Config{
		PrimaryFile:   "movies.csv",
		RosterFile:    "roster.csv",
		BudgetFile:    "budget.csv",
		OutputDir:     "output",
		NaNValues:     data.DefaultNaNValues,
		Columns:       cols,
		FillColumns:   cols.FillColumns(),
		OnUnsupported: "error",
		Charts:        true,
		Workbook:      true,

		AssociationColumns: analysis.DefaultAssociationColumns,
		AllNominal:         true,
	}
}

// textColumns are loaded as strings regardless of their content
func (cfg Config) textColumns() []string {
	cols := cfg.Columns.WithDefaults()
	return []string{
		cols.Title, cols.Released, cols.Genre, cols.Director, cols.Production,
		cols.Studio, cols.Actor, cols.Rated, cols.Language,
	}
}
