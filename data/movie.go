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
package data

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/rs/zerolog"
)

// Movie is one row of the merged table
type Movie struct {
	Title          string  `json:"title" csv:"title" db:"title"`
	Year           int     `json:"year" csv:"year" db:"year"`
	Released       string  `json:"released" csv:"released" db:"released"`
	Month          int     `json:"month" csv:"month" db:"month"`
	Genre          string  `json:"genre" csv:"genre" db:"genre"`
	PrimaryGenre   string  `json:"primary_genre" csv:"primary_genre" db:"primary_genre"`
	Director       string  `json:"director" csv:"director" db:"director"`
	Production     string  `json:"production" csv:"production" db:"production"`
	Studio         string  `json:"studio" csv:"studio" db:"studio"`
	Actor          string  `json:"actor" csv:"actor" db:"actor"`
	Writer         string  `json:"writer" csv:"writer" db:"writer"`
	Rated          string  `json:"rated" csv:"rated" db:"rated"`
	Language       string  `json:"language" csv:"language" db:"language"`
	IMDbScore      float64 `json:"imdb_score" csv:"imdb_score" db:"imdb_score"`
	Budget         float64 `json:"budget" csv:"budget" db:"budget"`
	DomesticGross  float64 `json:"domestic_gross" csv:"domestic_gross" db:"domestic_gross"`
	OverseasGross  float64 `json:"overseas_gross" csv:"overseas_gross" db:"overseas_gross"`
	WorldwideGross float64 `json:"worldwide_gross" csv:"worldwide_gross" db:"worldwide_gross"`
	RealBudget     float64 `json:"real_budget" csv:"real_budget" db:"real_budget"`
	RealRevenue    float64 `json:"real_revenue" csv:"real_revenue" db:"real_revenue"`
	PctReturn      float64 `json:"pct_return" csv:"pct_return" db:"pct_return"`
	OscarWins      int     `json:"oscar_wins" csv:"oscar_wins" db:"oscar_wins"`
	OscarNoms      int     `json:"oscar_noms" csv:"oscar_noms" db:"oscar_noms"`
	Awards         int     `json:"awards" csv:"awards" db:"awards"`
	Nominations    int     `json:"nominations" csv:"nominations" db:"nominations"`
}

func (movie *Movie) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Title", movie.Title)
	e.Int("Year", movie.Year)
	e.Float64("Budget", movie.Budget)
	e.Float64("WorldwideGross", movie.WorldwideGross)
}

// Movies converts the rows of df into movie records. Columns that are not
// present in df leave the corresponding field at its zero value.
func Movies(df dataframe.DataFrame, cols Columns) []*Movie {
	nrows := df.Nrow()
	movies := make([]*Movie, nrows)
	for idx := range movies {
		movies[idx] = &Movie{}
	}

	text := func(name string, set func(*Movie, string)) {
		vals, err := Strings(df, name)
		if err != nil {
			return
		}
		for idx, val := range vals {
			set(movies[idx], val)
		}
	}

	number := func(name string, set func(*Movie, float64)) {
		vals, err := Floats(df, name)
		if err != nil {
			return
		}
		for idx, val := range vals {
			if math.IsNaN(val) {
				val = 0
			}
			set(movies[idx], val)
		}
	}

	text(cols.Title, func(m *Movie, v string) { m.Title = v })
	text(cols.Released, func(m *Movie, v string) { m.Released = v })
	text(cols.Genre, func(m *Movie, v string) { m.Genre = v })
	text(PrimaryGenre, func(m *Movie, v string) { m.PrimaryGenre = v })
	text(cols.Director, func(m *Movie, v string) { m.Director = v })
	text(cols.Production, func(m *Movie, v string) { m.Production = v })
	text(cols.Studio, func(m *Movie, v string) { m.Studio = v })
	text(cols.Actor, func(m *Movie, v string) { m.Actor = v })
	text(cols.Writer, func(m *Movie, v string) { m.Writer = v })
	text(cols.Rated, func(m *Movie, v string) { m.Rated = v })
	text(cols.Language, func(m *Movie, v string) { m.Language = v })

	number(cols.Year, func(m *Movie, v float64) { m.Year = int(v) })
	number(Month, func(m *Movie, v float64) { m.Month = int(v) })
	number(cols.IMDbScore, func(m *Movie, v float64) { m.IMDbScore = v })
	number(cols.Budget, func(m *Movie, v float64) { m.Budget = v })
	number(cols.DomesticGross, func(m *Movie, v float64) { m.DomesticGross = v })
	number(cols.OverseasGross, func(m *Movie, v float64) { m.OverseasGross = v })
	number(cols.WorldwideGross, func(m *Movie, v float64) { m.WorldwideGross = v })
	number(RealBudget, func(m *Movie, v float64) { m.RealBudget = v })
	number(RealRevenue, func(m *Movie, v float64) { m.RealRevenue = v })
	number(PctReturn, func(m *Movie, v float64) { m.PctReturn = v })
	number(cols.OscarWins, func(m *Movie, v float64) { m.OscarWins = int(v) })
	number(cols.OscarNoms, func(m *Movie, v float64) { m.OscarNoms = int(v) })
	number(cols.Awards, func(m *Movie, v float64) { m.Awards = int(v) })
	number(cols.Nominations, func(m *Movie, v float64) { m.Nominations = int(v) })

	return movies
}
