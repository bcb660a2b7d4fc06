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
package export

import (
	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/penny-vault/boxoffice/data"
)

// MovieRecord is the parquet row layout of a cleaned movie
type MovieRecord struct {
	Title          string  `parquet:"name=title, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Year           int32   `parquet:"name=year, type=INT32"`
	Month          int32   `parquet:"name=month, type=INT32"`
	Released       string  `parquet:"name=released, type=BYTE_ARRAY, convertedtype=UTF8"`
	Genre          string  `parquet:"name=genre, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	PrimaryGenre   string  `parquet:"name=primary_genre, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Director       string  `parquet:"name=director, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Production     string  `parquet:"name=production, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Studio         string  `parquet:"name=studio, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Actor          string  `parquet:"name=actor, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Writer         string  `parquet:"name=writer, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Rated          string  `parquet:"name=rated, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Language       string  `parquet:"name=language, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	IMDbScore      float64 `parquet:"name=imdb_score, type=DOUBLE"`
	Budget         float64 `parquet:"name=budget, type=DOUBLE"`
	DomesticGross  float64 `parquet:"name=domestic_gross, type=DOUBLE"`
	OverseasGross  float64 `parquet:"name=overseas_gross, type=DOUBLE"`
	WorldwideGross float64 `parquet:"name=worldwide_gross, type=DOUBLE"`
	RealBudget     float64 `parquet:"name=real_budget, type=DOUBLE"`
	RealRevenue    float64 `parquet:"name=real_revenue, type=DOUBLE"`
	PctReturn      float64 `parquet:"name=pct_return, type=DOUBLE"`
	OscarWins      int32   `parquet:"name=oscar_wins, type=INT32"`
	OscarNoms      int32   `parquet:"name=oscar_noms, type=INT32"`
	Awards         int32   `parquet:"name=awards, type=INT32"`
	Nominations    int32   `parquet:"name=nominations, type=INT32"`
}

func NewMovieRecord(movie *data.Movie) *MovieRecord {
	return &MovieRecord{
		Title:          movie.Title,
		Year:           int32(movie.Year),
		Month:          int32(movie.Month),
		Released:       movie.Released,
		Genre:          movie.Genre,
		PrimaryGenre:   movie.PrimaryGenre,
		Director:       movie.Director,
		Production:     movie.Production,
		Studio:         movie.Studio,
		Actor:          movie.Actor,
		Writer:         movie.Writer,
		Rated:          movie.Rated,
		Language:       movie.Language,
		IMDbScore:      movie.IMDbScore,
		Budget:         movie.Budget,
		DomesticGross:  movie.DomesticGross,
		OverseasGross:  movie.OverseasGross,
		WorldwideGross: movie.WorldwideGross,
		RealBudget:     movie.RealBudget,
		RealRevenue:    movie.RealRevenue,
		PctReturn:      movie.PctReturn,
		OscarWins:      int32(movie.OscarWins),
		OscarNoms:      int32(movie.OscarNoms),
		Awards:         int32(movie.Awards),
		Nominations:    int32(movie.Nominations),
	}
}

// SaveParquet writes movies to fn as a zstd compressed parquet file
func SaveParquet(movies []*data.Movie, fn string) error {
	var err error

	fh, err := local.NewLocalFileWriter(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("cannot create local file")
		return err
	}
	defer fh.Close()

	pw, err := writer.NewParquetWriter(fh, new(MovieRecord), 4)
	if err != nil {
		log.Error().Err(err).Msg("parquet write failed")
		return err
	}

	pw.RowGroupSize = 128 * 1024 * 1024 // 128M
	pw.PageSize = 8 * 1024              // 8k
	pw.CompressionType = parquet.CompressionCodec_ZSTD

	for _, movie := range movies {
		if err = pw.Write(NewMovieRecord(movie)); err != nil {
			log.Error().Err(err).Str("Title", movie.Title).Msg("parquet write failed for record")
			return err
		}
	}

	if err = pw.WriteStop(); err != nil {
		log.Error().Err(err).Msg("parquet write failed")
		return err
	}

	log.Debug().Str("FileName", fn).Int("NumRecords", len(movies)).Msg("parquet write finished")
	return nil
}
