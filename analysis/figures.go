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
package analysis

import (
	"github.com/penny-vault/boxoffice/data"
)

// Kind selects how a figure is drawn
type Kind string

const (
	KindBar           Kind = "bar"
	KindHorizontalBar Kind = "barh"
	KindScatter       Kind = "scatter"
	KindPanels        Kind = "panels"
)

// Figure is an aggregate ready to be charted
type Figure struct {
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`
	Kind   Kind   `json:"kind"`

	Groups []Group  `json:"groups,omitempty"`
	Points []Point  `json:"points,omitempty"`
	Panels []Figure `json:"panels,omitempty"`

	// when ValueMax > ValueMin the value axis is clamped to the range
	ValueMin float64 `json:"value_min,omitempty"`
	ValueMax float64 `json:"value_max,omitempty"`
}

// Empty reports whether there is nothing to draw
func (fig Figure) Empty() bool {
	if fig.Kind == KindPanels {
		for _, panel := range fig.Panels {
			if !panel.Empty() {
				return false
			}
		}
		return true
	}
	return len(fig.Groups) == 0 && len(fig.Points) == 0
}

func realRevenue(m *data.Movie) float64 { return m.RealRevenue }

// Figures builds the exploratory figures for the cleaned movie table
func Figures(movies []*data.Movie) []Figure {
	directorReturn := SortByValue(MeanBy(movies,
		func(m *data.Movie) string { return m.Director },
		func(m *data.Movie) float64 { return m.PctReturn }), false)

	awards := Scatter(movies, func(m *data.Movie) float64 { return float64(m.Awards) }, realRevenue)

	return []Figure{
		{
			Title:  "Real Revenue By Genre",
			XLabel: "Genre",
			YLabel: "Real Revenue",
			Kind:   KindBar,
			Groups: SumBy(movies, func(m *data.Movie) string { return m.PrimaryGenre }, realRevenue),
		},
		{
			Title:  "Real Revenue Generated per Movie per Month",
			XLabel: "Month",
			YLabel: "Real Revenue",
			Kind:   KindScatter,
			Points: MonthlyRevenue(movies),
		},
		{
			Title:    "Percentage Return on Average per Director",
			XLabel:   "Percentage Return",
			YLabel:   "Director",
			Kind:     KindHorizontalBar,
			Groups:   directorReturn,
			ValueMin: 0,
			ValueMax: 800,
		},
		{
			Title: "Real Revenue to production studio",
			Kind:  KindPanels,
			Panels: []Figure{
				{
					Title:  "Revenue by Production",
					XLabel: "Production",
					YLabel: "Real Revenue",
					Kind:   KindBar,
					Groups: SortByValue(SumBy(movies, func(m *data.Movie) string { return m.Production }, realRevenue), true),
				},
				{
					Title:  "Revenue by Studio",
					XLabel: "Studio",
					YLabel: "Real Revenue",
					Kind:   KindBar,
					Groups: SortByValue(SumBy(movies, func(m *data.Movie) string { return m.Studio }, realRevenue), true),
				},
			},
		},
		{
			Title:  "Real Revenue to number of Oscar wins",
			XLabel: "Number of Oscar Wins",
			YLabel: "Real Revenue",
			Kind:   KindScatter,
			Points: Scatter(movies, func(m *data.Movie) float64 { return float64(m.OscarWins) }, realRevenue),
		},
		{
			Title:  "Real Revenue to number of Oscar nominations",
			XLabel: "Number of Oscar Nomination",
			YLabel: "Real Revenue",
			Kind:   KindScatter,
			Points: Scatter(movies, func(m *data.Movie) float64 { return float64(m.OscarNoms) }, realRevenue),
		},
		{
			Title:  "Real Revenue to Total Number of Award Won",
			XLabel: "Number of awards",
			YLabel: "Real Revenue",
			Kind:   KindScatter,
			Points: awards,
		},
		{
			Title:  "Real Revenue to Number of Award Wins After Logarithm",
			XLabel: "Natural Log of the Number of awards",
			YLabel: "Natural Log of the Real Revenue",
			Kind:   KindScatter,
			Points: LogScatter(awards),
		},
		{
			Title:  "Real Revenue by actor_1",
			XLabel: "Real Revenue",
			YLabel: "Actor Name",
			Kind:   KindHorizontalBar,
			Groups: SortByValue(SumBy(movies, func(m *data.Movie) string { return m.Actor }, realRevenue), false),
		},
		{
			Title:  "Real Revenue by Writer_1",
			XLabel: "Real Revenue",
			YLabel: "Writer Name",
			Kind:   KindHorizontalBar,
			Groups: SortByValue(SumBy(movies, func(m *data.Movie) string { return m.Writer }, realRevenue), false),
		},
	}
}
