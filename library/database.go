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
package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/penny-vault/boxoffice/data"
)

var (
	ErrNotConnected = errors.New("library is not connected")
)

// Library is a PostgreSQL database of published pipeline runs
type Library struct {
	DBUrl string
	Name  string
	Owner string

	Pool *pgxpool.Pool
}

// Run is a published pipeline run
type Run struct {
	ID                uuid.UUID     `db:"id"`
	StartedAt         time.Time     `db:"started_at"`
	Duration          time.Duration `db:"-"`
	DurationMS        int64         `db:"duration_ms"`
	RowsIn            int           `db:"rows_in"`
	RowsOut           int           `db:"rows_out"`
	DuplicatesRemoved int           `db:"duplicates_removed"`
	RowsDropped       int           `db:"rows_dropped"`
	CPISource         string        `db:"cpi_source"`
	TargetYear        int           `db:"target_year"`
	NumFeatures       int           `db:"num_features"`
	CreatedBy         string        `db:"created_by"`
	PublishedOn       time.Time     `db:"published_on"`
}

var movieColumns = []string{
	"run_id", "title", "year", "released", "month", "genre", "primary_genre", "director",
	"production", "studio", "actor", "writer", "rated", "language", "imdb_score", "budget",
	"domestic_gross", "overseas_gross", "worldwide_gross", "real_budget", "real_revenue",
	"pct_return", "oscar_wins", "oscar_noms", "awards", "nominations",
}

// Connect to the database configured for the library
func (myLibrary *Library) Connect(ctx context.Context) error {
	if myLibrary.Pool != nil {
		return nil
	}

	pool, err := pgxpool.New(ctx, myLibrary.DBUrl)
	if err != nil {
		return err
	}
	myLibrary.Pool = pool

	return nil
}

// Close the database pool
func (myLibrary *Library) Close() {
	if myLibrary.Pool != nil {
		myLibrary.Pool.Close()
	}
}

// NewFromDB creates a new library object with values from the database
func NewFromDB(ctx context.Context, dbURL string) (*Library, error) {
	myLibrary := Library{
		DBUrl: dbURL,
	}

	if err := myLibrary.Connect(ctx); err != nil {
		return nil, err
	}

	conn, err := myLibrary.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	err = conn.QueryRow(ctx, "SELECT name, owner FROM library LIMIT 1").Scan(&myLibrary.Name, &myLibrary.Owner)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Warn().Str("DatabaseURL", dbURL).Msg("library has not been named")
		return &myLibrary, nil
	}
	if err != nil {
		return nil, err
	}

	return &myLibrary, nil
}

// SaveDB creates a new record in the library table for this library
func (myLibrary *Library) SaveDB(ctx context.Context) error {
	if myLibrary.Pool == nil {
		return ErrNotConnected
	}

	_, err := myLibrary.Pool.Exec(ctx, `INSERT INTO library ("name", "owner") VALUES ($1, $2)`, myLibrary.Name, myLibrary.Owner)
	return err
}

// Publish stores the run and all of its movies in a single transaction
func (myLibrary *Library) Publish(ctx context.Context, run *Run, movies []*data.Movie) error {
	if myLibrary.Pool == nil {
		return ErrNotConnected
	}

	tx, err := myLibrary.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// a no-op once the transaction has been committed
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `INSERT INTO runs ("id", "started_at", "duration_ms", "rows_in", "rows_out",
"duplicates_removed", "rows_dropped", "cpi_source", "target_year", "num_features", "created_by")
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		run.ID, run.StartedAt, run.Duration.Milliseconds(), run.RowsIn, run.RowsOut,
		run.DuplicatesRemoved, run.RowsDropped, run.CPISource, run.TargetYear, run.NumFeatures, run.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	count, err := tx.CopyFrom(ctx, pgx.Identifier{"movies"}, movieColumns, pgx.CopyFromRows(MovieRows(run.ID, movies)))
	if err != nil {
		return fmt.Errorf("copy movies: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Info().Str("RunID", run.ID.String()).Int64("NumMovies", count).Msg("published run to library")

	return nil
}

// MovieRows lays movies out in the column order of the movies table
func MovieRows(runID uuid.UUID, movies []*data.Movie) [][]any {
	rows := make([][]any, len(movies))
	for idx, movie := range movies {
		rows[idx] = []any{
			runID, movie.Title, movie.Year, movie.Released, movie.Month, movie.Genre,
			movie.PrimaryGenre, movie.Director, movie.Production, movie.Studio, movie.Actor,
			movie.Writer, movie.Rated, movie.Language, movie.IMDbScore, movie.Budget,
			movie.DomesticGross, movie.OverseasGross, movie.WorldwideGross, movie.RealBudget,
			movie.RealRevenue, movie.PctReturn, movie.OscarWins, movie.OscarNoms, movie.Awards,
			movie.Nominations,
		}
	}
	return rows
}

// Runs returns every published run, most recent first
func (myLibrary *Library) Runs(ctx context.Context) ([]*Run, error) {
	if myLibrary.Pool == nil {
		return nil, ErrNotConnected
	}

	var runs []*Run
	err := pgxscan.Select(ctx, myLibrary.Pool, &runs,
		`SELECT id, started_at, duration_ms, rows_in, rows_out, duplicates_removed, rows_dropped,
cpi_source, target_year, num_features, created_by, published_on FROM runs ORDER BY published_on DESC`)
	for _, run := range runs {
		run.Duration = time.Duration(run.DurationMS) * time.Millisecond
	}
	return runs, err
}

// TotalMovies returns the number of movie rows across all runs
func (myLibrary *Library) TotalMovies(ctx context.Context) (int, error) {
	if myLibrary.Pool == nil {
		return 0, ErrNotConnected
	}

	count := 0
	err := myLibrary.Pool.QueryRow(ctx, "SELECT count(*) FROM movies").Scan(&count)
	return count, err
}
