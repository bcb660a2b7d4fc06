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
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	FredObservationsURL = "https://api.stlouisfed.org/fred/series/observations"

	// DefaultSeries is the not seasonally adjusted CPI for all urban consumers
	DefaultSeries = "CPIAUCNS"
)

var (
	ErrStatus = errors.New("status code is invalid")
)

// Fred downloads consumer price index observations from the Federal Reserve
// Economic Data service
type Fred struct {
	BaseURL string

	client  *resty.Client
	limiter *rate.Limiter
}

// NewFred returns a FRED client authenticated with apiKey
func NewFred(apiKey string) *Fred {
	client := resty.New().
		SetQueryParam("api_key", apiKey).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetRetryCount(3).
		SetTimeout(30 * time.Second)

	return &Fred{
		BaseURL: FredObservationsURL,
		client:  client,
		// FRED allows 120 requests per minute
		limiter: rate.NewLimiter(rate.Limit(float64(120)/float64(61)), 1),
	}
}

// Index downloads seriesID and averages the monthly observations of every
// complete year into an annual index
func (fred *Fred) Index(ctx context.Context, seriesID string) (*Index, error) {
	logger := zerolog.Ctx(ctx)

	if err := fred.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp fredResponse
	req, err := fred.client.R().
		SetContext(ctx).
		SetQueryParam("file_type", "json").
		SetQueryParam("series_id", seriesID).
		SetQueryParam("frequency", "m").
		SetResult(&resp).
		Get(fred.BaseURL)
	if err != nil {
		logger.Error().Err(err).Str("SeriesID", seriesID).Msg("downloading price index failed")
		return nil, err
	}

	if req.StatusCode() >= 300 {
		logger.Error().Int("StatusCode", req.StatusCode()).Str("SeriesID", seriesID).Msg("downloading price index returned error status code")
		return nil, fmt.Errorf("%w: %d", ErrStatus, req.StatusCode())
	}

	observations := annualize(ctx, resp.Observations)
	logger.Info().Str("SeriesID", seriesID).Int("NumMonthly", len(resp.Observations)).Int("NumYears", len(observations)).Msg("downloaded price index")

	return NewIndex(fmt.Sprintf("FRED %s annual average", seriesID), observations)
}

// annualize averages monthly observations per calendar year. Years with
// fewer than twelve observations are skipped.
func annualize(ctx context.Context, monthly []fredObservation) []*Observation {
	logger := zerolog.Ctx(ctx)

	type accumulator struct {
		sum   float64
		count int
	}

	years := make(map[int]*accumulator)
	order := make([]int, 0)

	for _, obs := range monthly {
		if obs.Value == "." {
			// no observation
			continue
		}

		eventDate, err := time.Parse("2006-01-02", obs.Date)
		if err != nil {
			logger.Error().Err(err).Str("DateStr", obs.Date).Msg("parsing observation date failed")
			continue
		}

		val, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			logger.Error().Err(err).Str("ValueStr", obs.Value).Msg("parsing observation value failed")
			continue
		}

		acc, ok := years[eventDate.Year()]
		if !ok {
			acc = &accumulator{}
			years[eventDate.Year()] = acc
			order = append(order, eventDate.Year())
		}
		acc.sum += val
		acc.count++
	}

	observations := make([]*Observation, 0, len(years))
	for _, year := range order {
		acc := years[year]
		if acc.count < 12 {
			logger.Debug().Int("Year", year).Int("NumMonths", acc.count).Msg("skipping incomplete year")
			continue
		}

		observations = append(observations, &Observation{
			Year:  year,
			Value: acc.sum / float64(acc.count),
		})
	}

	return observations
}

type fredResponse struct {
	RealTimeStart    string            `json:"realtime_start"`
	RealTimeEnd      string            `json:"realtime_end"`
	ObservationStart string            `json:"observation_start"`
	ObservationEnd   string            `json:"observation_end"`
	Units            string            `json:"units"`
	OutputType       int               `json:"output_type"`
	FileType         string            `json:"file_type"`
	OrderBy          string            `json:"order_by"`
	SortOrder        string            `json:"sort_order"`
	Count            int               `json:"count"`
	Offset           int               `json:"offset"`
	Limit            int               `json:"limit"`
	Observations     []fredObservation `json:"observations"`
}

type fredObservation struct {
	RealTimeStart string `json:"realtime_start"`
	RealTimeEnd   string `json:"realtime_end"`
	Date          string `json:"date"`
	Value         string `json:"value"`
}
