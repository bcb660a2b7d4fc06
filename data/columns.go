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

// Columns names the fields of the movie tables. The defaults match the
// OMDb / Box Office Mojo export, the TMDB budget table and the cast roster.
type Columns struct {
	Title          string `mapstructure:"title" toml:"title"`
	Year           string `mapstructure:"year" toml:"year"`
	Released       string `mapstructure:"released" toml:"released"`
	Genre          string `mapstructure:"genre" toml:"genre"`
	Director       string `mapstructure:"director" toml:"director"`
	Production     string `mapstructure:"production" toml:"production"`
	Studio         string `mapstructure:"studio" toml:"studio"`
	Actor          string `mapstructure:"actor" toml:"actor"`
	Writer         string `mapstructure:"writer" toml:"writer"`
	Rated          string `mapstructure:"rated" toml:"rated"`
	Language       string `mapstructure:"language" toml:"language"`
	IMDbScore      string `mapstructure:"imdb_score" toml:"imdb_score"`
	Budget         string `mapstructure:"budget" toml:"budget"`
	DomesticGross  string `mapstructure:"domestic_gross" toml:"domestic_gross"`
	OverseasGross  string `mapstructure:"overseas_gross" toml:"overseas_gross"`
	WorldwideGross string `mapstructure:"worldwide_gross" toml:"worldwide_gross"`
	OscarWins      string `mapstructure:"oscar_wins" toml:"oscar_wins"`
	OscarNoms      string `mapstructure:"oscar_noms" toml:"oscar_noms"`
	Awards         string `mapstructure:"awards" toml:"awards"`
	Nominations    string `mapstructure:"nominations" toml:"nominations"`

	// auxiliary tables
	RosterTitle  string `mapstructure:"roster_title" toml:"roster_title"`
	BudgetTitle  string `mapstructure:"budget_title" toml:"budget_title"`
	WriterPrefix string `mapstructure:"writer_prefix" toml:"writer_prefix"`
	CastPrefix   string `mapstructure:"cast_prefix" toml:"cast_prefix"`
}

// Derived column names
const (
	RealBudget   = "real_budget"
	RealRevenue  = "real_revenue"
	PrimaryGenre = "genre_1"
	Month        = "month"
	PctReturn    = "pct_return"
)

// DefaultNaNValues are the literal tokens read as missing values
var DefaultNaNValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "inf"}

func DefaultColumns() Columns {
	return Columns{
		Title:          "Title",
		Year:           "Year",
		Released:       "Released",
		Genre:          "Genre",
		Director:       "Director",
		Production:     "Production",
		Studio:         "studio",
		Actor:          "actor_1",
		Writer:         "Writer 1",
		Rated:          "Rated",
		Language:       "Language",
		IMDbScore:      "IMdb_score",
		Budget:         "budget",
		DomesticGross:  "domestic-gross",
		OverseasGross:  "overseas-gross",
		WorldwideGross: "worldwide-gross",
		OscarWins:      "oscar_wins",
		OscarNoms:      "oscar_noms",
		Awards:         "awards",
		Nominations:    "nominations",

		RosterTitle:  "Title",
		BudgetTitle:  "title",
		WriterPrefix: "Write",
		CastPrefix:   "Cast",
	}
}

// FillColumns returns the numeric columns that are zero filled before any
// other missing value handling takes place
func (cols Columns) FillColumns() []string {
	return []string{
		"BoxOffice",
		"logBoxOffice",
		cols.Budget,
		cols.OverseasGross,
		"bo_year_rank",
		cols.DomesticGross,
	}
}

// WithDefaults fills every empty name with its default
func (cols Columns) WithDefaults() Columns {
	def := DefaultColumns()
	pick := func(val, fallback string) string {
		if val == "" {
			return fallback
		}
		return val
	}

	return Columns{
		Title:          pick(cols.Title, def.Title),
		Year:           pick(cols.Year, def.Year),
		Released:       pick(cols.Released, def.Released),
		Genre:          pick(cols.Genre, def.Genre),
		Director:       pick(cols.Director, def.Director),
		Production:     pick(cols.Production, def.Production),
		Studio:         pick(cols.Studio, def.Studio),
		Actor:          pick(cols.Actor, def.Actor),
		Writer:         pick(cols.Writer, def.Writer),
		Rated:          pick(cols.Rated, def.Rated),
		Language:       pick(cols.Language, def.Language),
		IMDbScore:      pick(cols.IMDbScore, def.IMDbScore),
		Budget:         pick(cols.Budget, def.Budget),
		DomesticGross:  pick(cols.DomesticGross, def.DomesticGross),
		OverseasGross:  pick(cols.OverseasGross, def.OverseasGross),
		WorldwideGross: pick(cols.WorldwideGross, def.WorldwideGross),
		OscarWins:      pick(cols.OscarWins, def.OscarWins),
		OscarNoms:      pick(cols.OscarNoms, def.OscarNoms),
		Awards:         pick(cols.Awards, def.Awards),
		Nominations:    pick(cols.Nominations, def.Nominations),
		RosterTitle:    pick(cols.RosterTitle, def.RosterTitle),
		BudgetTitle:    pick(cols.BudgetTitle, def.BudgetTitle),
		WriterPrefix:   pick(cols.WriterPrefix, def.WriterPrefix),
		CastPrefix:     pick(cols.CastPrefix, def.CastPrefix),
	}
}
