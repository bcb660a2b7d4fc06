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
package inflation

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/alphadose/haxmap"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

var (
	ErrYearNotSupported = errors.New("year not supported by price index")
	ErrEmptyIndex       = errors.New("price index has no observations")
)

//go:embed cpi_u.csv
var bundledCPI []byte

// BundledSource names the price index compiled into the binary
const BundledSource = "BLS CPI-U annual average (bundled)"

// Observation is the annual average index level for a single year
type Observation struct {
	Year  int     `csv:"year" json:"year"`
	Value float64 `csv:"value" json:"value"`
}

// Index maps a year to its consumer price index level. Lookups are safe for
// concurrent use.
type Index struct {
	Source string

	values *haxmap.Map[int, float64]
	target int
}

// NewIndex builds an index from annual observations. The target year (the
// year amounts are converted into) is the latest year observed.
func NewIndex(source string, observations []*Observation) (*Index, error) {
	if len(observations) == 0 {
		return nil, ErrEmptyIndex
	}

	idx := &Index{
		Source: source,
		values: haxmap.New[int, float64](),
	}

	for _, obs := range observations {
		if obs.Value <= 0 {
			log.Warn().Int("Year", obs.Year).Float64("Value", obs.Value).Msg("ignoring non-positive index value")
			continue
		}

		idx.values.Set(obs.Year, obs.Value)
		if obs.Year > idx.target {
			idx.target = obs.Year
		}
	}

	if idx.values.Len() == 0 {
		return nil, ErrEmptyIndex
	}

	return idx, nil
}

// Bundled returns the CPI-U annual averages shipped with boxoffice
func Bundled() (*Index, error) {
	observations := []*Observation{}
	if err := gocsv.UnmarshalBytes(bundledCPI, &observations); err != nil {
		return nil, err
	}

	return NewIndex(BundledSource, observations)
}

// LoadFile reads a `year,value` CSV file
func LoadFile(fn string) (*Index, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	observations := []*Observation{}
	if err := gocsv.UnmarshalFile(fh, &observations); err != nil {
		return nil, fmt.Errorf("parse %s: %w", fn, err)
	}

	return NewIndex(fn, observations)
}

// Load returns the index cached in fn if the file exists and the bundled
// index otherwise
func Load(fn string) (*Index, error) {
	if fn != "" {
		if _, err := os.Stat(fn); err == nil {
			return LoadFile(fn)
		}
		log.Debug().Str("FileName", fn).Msg("price index cache not found, using bundled index")
	}

	return Bundled()
}

// SaveFile writes the index as a `year,value` CSV file
func (idx *Index) SaveFile(fn string) error {
	fh, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer fh.Close()

	observations := idx.Observations()
	return gocsv.MarshalFile(&observations, fh)
}

// Observations returns the index values in ascending year order
func (idx *Index) Observations() []*Observation {
	observations := make([]*Observation, 0, idx.values.Len())
	idx.values.ForEach(func(year int, value float64) bool {
		observations = append(observations, &Observation{Year: year, Value: value})
		return true
	})

	sort.Slice(observations, func(i, j int) bool {
		return observations[i].Year < observations[j].Year
	})

	return observations
}

// Len returns the number of years in the index
func (idx *Index) Len() int {
	return int(idx.values.Len())
}

// Target returns the year amounts are converted into
func (idx *Index) Target() int {
	return idx.target
}

// SetTarget changes the year amounts are converted into
func (idx *Index) SetTarget(year int) error {
	if _, ok := idx.values.Get(year); !ok {
		return fmt.Errorf("%w: %d", ErrYearNotSupported, year)
	}
	idx.target = year
	return nil
}

// Value returns the index level for year
func (idx *Index) Value(year int) (float64, error) {
	val, ok := idx.values.Get(year)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrYearNotSupported, year)
	}
	return val, nil
}

// Inflate converts amount measured in year dollars into target year dollars
func (idx *Index) Inflate(amount float64, year int) (float64, error) {
	from, err := idx.Value(year)
	if err != nil {
		return 0, err
	}

	to, err := idx.Value(idx.target)
	if err != nil {
		return 0, err
	}

	return amount * to / from, nil
}
