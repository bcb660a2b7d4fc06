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
	"math"
	"sort"

	"github.com/penny-vault/boxoffice/data"
)

// Group is an aggregate over all movies sharing a key
type Group struct {
	Key   string  `csv:"key" json:"key"`
	Value float64 `csv:"value" json:"value"`
	Count int     `csv:"count" json:"count"`
}

// Point is a single observation in a scatter plot
type Point struct {
	Label string  `csv:"label" json:"label"`
	X     float64 `csv:"x" json:"x"`
	Y     float64 `csv:"y" json:"y"`
}

type (
	KeyFunc   func(*data.Movie) string
	ValueFunc func(*data.Movie) float64
)

// SumBy totals value for each key. Groups are returned in ascending key
// order.
func SumBy(movies []*data.Movie, key KeyFunc, value ValueFunc) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)

	for _, movie := range movies {
		k := key(movie)
		pos, ok := index[k]
		if !ok {
			pos = len(groups)
			index[k] = pos
			groups = append(groups, Group{Key: k})
		}
		groups[pos].Value += value(movie)
		groups[pos].Count++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})

	return groups
}

// MeanBy averages value for each key. Groups are returned in ascending key
// order.
func MeanBy(movies []*data.Movie, key KeyFunc, value ValueFunc) []Group {
	groups := SumBy(movies, key, value)
	for idx := range groups {
		groups[idx].Value /= float64(groups[idx].Count)
	}
	return groups
}

// SortByValue returns a copy of groups ordered by value. Ties keep their
// key order.
func SortByValue(groups []Group, descending bool) []Group {
	sorted := make([]Group, len(groups))
	copy(sorted, groups)

	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return sorted[i].Value > sorted[j].Value
		}
		return sorted[i].Value < sorted[j].Value
	})

	return sorted
}

// Scatter pairs two measurements of every movie
func Scatter(movies []*data.Movie, x, y ValueFunc) []Point {
	points := make([]Point, len(movies))
	for idx, movie := range movies {
		points[idx] = Point{
			Label: movie.Title,
			X:     x(movie),
			Y:     y(movie),
		}
	}
	return points
}

// LogScatter takes the natural log of both coordinates. Points with a
// non-positive coordinate have no logarithm and are left out.
func LogScatter(points []Point) []Point {
	logged := make([]Point, 0, len(points))
	for _, pt := range points {
		if pt.X <= 0 || pt.Y <= 0 {
			continue
		}
		logged = append(logged, Point{
			Label: pt.Label,
			X:     math.Log(pt.X),
			Y:     math.Log(pt.Y),
		})
	}
	return logged
}

// MonthlyRevenue totals real revenue per (release month, title) pair
func MonthlyRevenue(movies []*data.Movie) []Point {
	type monthTitle struct {
		month int
		title string
	}

	index := make(map[monthTitle]int)
	points := make([]Point, 0, len(movies))

	for _, movie := range movies {
		k := monthTitle{month: movie.Month, title: movie.Title}
		pos, ok := index[k]
		if !ok {
			pos = len(points)
			index[k] = pos
			points = append(points, Point{Label: movie.Title, X: float64(movie.Month)})
		}
		points[pos].Y += movie.RealRevenue
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].X != points[j].X {
			return points[i].X < points[j].X
		}
		return points[i].Label < points[j].Label
	})

	return points
}
