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
// Package pipeline runs the movie dataset build from raw inputs to the
// merged, encoded and charted outputs
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
	"github.com/hako/durafmt"
	"github.com/rs/zerolog"

	"github.com/penny-vault/boxoffice/analysis"
	"github.com/penny-vault/boxoffice/chart"
	"github.com/penny-vault/boxoffice/clean"
	"github.com/penny-vault/boxoffice/data"
	"github.com/penny-vault/boxoffice/encode"
	"github.com/penny-vault/boxoffice/export"
	"github.com/penny-vault/boxoffice/healthcheck"
	"github.com/penny-vault/boxoffice/inflation"
	"github.com/penny-vault/boxoffice/merge"
)

var (
	ErrNoRows = errors.New("no movies left after cleaning")
)

// Run executes every stage of the pipeline and writes the outputs to
// cfg.OutputDir. The returned summary is also saved as run.json.
func Run(ctx context.Context, cfg Config) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.New(),
		StartedAt: time.Now(),
	}

	logger := zerolog.Ctx(ctx).With().Str("RunID", summary.RunID.String()).Logger()
	ctx = logger.WithContext(ctx)

	check := healthcheck.New(cfg.HealthcheckID)
	if err := check.Start(ctx); err != nil {
		logger.Warn().Err(err).Msg("healthcheck start ping failed")
	}

	err := run(ctx, cfg, summary)
	summary.Duration = time.Since(summary.StartedAt)

	if err != nil {
		if pingErr := check.Fail(ctx, err); pingErr != nil {
			logger.Warn().Err(pingErr).Msg("healthcheck fail ping failed")
		}
		return summary, err
	}

	if err := check.Success(ctx, summary.Line()); err != nil {
		logger.Warn().Err(err).Msg("healthcheck success ping failed")
	}

	logger.Info().Str("RunTime", durafmt.Parse(summary.Duration).LimitFirstN(2).String()).
		Int("NumMovies", summary.Clean.RowsOut).Msg("pipeline finished")

	return summary, nil
}

func run(ctx context.Context, cfg Config, summary *Summary) error {
	logger := zerolog.Ctx(ctx)
	cols := cfg.Columns.WithDefaults()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}

	// load
	primary, err := summary.load("primary", cfg.PrimaryFile, cfg.NaNValues, cfg.textColumns()...)
	if err != nil {
		return err
	}

	roster, err := summary.load("roster", cfg.RosterFile, cfg.NaNValues, cols.RosterTitle)
	if err != nil {
		return err
	}

	budget, err := summary.load("budget", cfg.BudgetFile, cfg.NaNValues, cols.BudgetTitle)
	if err != nil {
		return err
	}

	// merge
	merged, joins, err := merge.Movies(primary, roster, budget, cols, cfg.DedupeAuxiliary)
	if err != nil {
		return err
	}
	summary.Joins = joins

	// clean
	fillColumns := cfg.FillColumns
	if len(fillColumns) == 0 {
		fillColumns = cols.FillColumns()
	}

	cleaned, report, err := clean.Movies(merged, clean.Options{
		FillColumns: fillColumns,
		Required:    []string{cols.Budget, cols.WorldwideGross},
	})
	if err != nil {
		return err
	}
	summary.Clean = report

	if cleaned.Nrow() == 0 {
		return ErrNoRows
	}

	// inflation
	adjusted, err := adjust(ctx, cfg, cols, cleaned, summary)
	if err != nil {
		return err
	}

	if err := summary.save(filepath.Join(cfg.OutputDir, MergedFile), func(fn string) error {
		return data.SaveFrame(adjusted, fn)
	}); err != nil {
		return err
	}

	// encode
	encoded, err := encode.OneHot(adjusted, cfg.EncodeExclude...)
	if err != nil {
		return err
	}
	summary.NumNumeric = len(encoded.Numeric)
	summary.NumCategorical = len(encoded.Categorical)
	summary.NumFeatures = len(encoded.Features)

	if err := summary.save(filepath.Join(cfg.OutputDir, EncodedFile), func(fn string) error {
		return data.SaveFrame(encoded.Frame, fn)
	}); err != nil {
		return err
	}

	if cov, err := analysis.Covariance(adjusted); err == nil {
		if err := summary.save(filepath.Join(cfg.OutputDir, CovarianceFile), func(fn string) error {
			return data.SaveFrame(cov, fn)
		}); err != nil {
			return err
		}
	} else {
		logger.Warn().Err(err).Msg("covariance matrix skipped")
	}

	if err := associations(ctx, cfg, adjusted, summary); err != nil {
		return err
	}

	// analyze
	movies, figures := Analyze(ctx, adjusted, cols)

	if cfg.Charts {
		files, err := chart.RenderAll(ctx, figures, filepath.Join(cfg.OutputDir, ChartDir))
		summary.Outputs = append(summary.Outputs, files...)
		if err != nil {
			return err
		}
	}

	if cfg.Workbook {
		if err := summary.save(filepath.Join(cfg.OutputDir, WorkbookFile), func(fn string) error {
			return analysis.SaveWorkbook(figures, fn)
		}); err != nil {
			return err
		}
	}

	if cfg.Parquet {
		if err := summary.save(filepath.Join(cfg.OutputDir, ParquetFile), func(fn string) error {
			return export.SaveParquet(movies, fn)
		}); err != nil {
			return err
		}
	}

	summaryFn := filepath.Join(cfg.OutputDir, SummaryFile)
	summary.Duration = time.Since(summary.StartedAt)
	summary.Outputs = append(summary.Outputs, summaryFn)
	if err := summary.SaveFile(summaryFn); err != nil {
		return err
	}

	if cfg.Backblaze.Enabled() {
		dirname := fmt.Sprintf("%s/%s", summary.StartedAt.Format("2006-01-02"), summary.RunID)
		if err := cfg.Backblaze.Upload(ctx, dirname, summary.Outputs...); err != nil {
			return err
		}
		summary.Uploaded = true
	}

	return nil
}

// associations writes the association matrix of the configured columns and
// its heat map. A matrix that cannot be computed is logged and skipped.
func associations(ctx context.Context, cfg Config, df dataframe.DataFrame, summary *Summary) error {
	logger := zerolog.Ctx(ctx)

	matrix, err := analysis.Associations(df, analysis.AssociationOptions{
		Columns:    cfg.AssociationColumns,
		AllNominal: cfg.AllNominal,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("association matrix skipped")
		return nil
	}

	if err := summary.save(filepath.Join(cfg.OutputDir, AssociationFile), func(fn string) error {
		return data.SaveFrame(matrix.Frame(), fn)
	}); err != nil {
		return err
	}

	if !cfg.Charts {
		return nil
	}

	dir := filepath.Join(cfg.OutputDir, ChartDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	err = summary.save(filepath.Join(dir, AssociationChart), func(fn string) error {
		return chart.RenderMatrix("Feature Associations", matrix, fn)
	})
	if errors.Is(err, chart.ErrEmptyFigure) {
		logger.Warn().Msg("association heat map needs two columns, skipping")
		return nil
	}

	return err
}

// adjust converts budget and worldwide gross to real values
func adjust(ctx context.Context, cfg Config, cols data.Columns, df dataframe.DataFrame, summary *Summary) (dataframe.DataFrame, error) {
	index, err := inflation.Load(cfg.CPIFile)
	if err != nil {
		return df, err
	}

	if cfg.TargetYear != 0 {
		if err := index.SetTarget(cfg.TargetYear); err != nil {
			return df, err
		}
	}

	policy, err := inflation.ParsePolicy(cfg.OnUnsupported)
	if err != nil {
		return df, err
	}

	adj := &inflation.Adjuster{
		Index:      index,
		YearColumn: cols.Year,
		Policy:     policy,
	}

	adjusted, report, err := adj.Adjust(ctx, df,
		inflation.Column{Nominal: cols.Budget, Real: data.RealBudget},
		inflation.Column{Nominal: cols.WorldwideGross, Real: data.RealRevenue},
	)
	summary.Inflation = report

	return adjusted, err
}

// Analyze derives the analysis columns of a cleaned, inflation adjusted
// table and builds the figures
func Analyze(ctx context.Context, df dataframe.DataFrame, cols data.Columns) ([]*data.Movie, []analysis.Figure) {
	derived := analysis.Derive(ctx, df, cols)
	movies := data.Movies(derived, cols)
	return movies, analysis.Figures(movies)
}

// LoadMerged reads a merged table written by Run
func LoadMerged(ctx context.Context, fn string, cfg Config) ([]*data.Movie, []analysis.Figure, error) {
	df, err := data.LoadFrame(fn, cfg.NaNValues, cfg.textColumns()...)
	if err != nil {
		return nil, nil, err
	}

	movies, figures := Analyze(ctx, df, cfg.Columns.WithDefaults())
	return movies, figures, nil
}
