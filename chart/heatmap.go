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
package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/penny-vault/boxoffice/analysis"
)

// matrixGrid exposes an association matrix as a heat map grid
type matrixGrid struct {
	m analysis.Matrix
}

func (g matrixGrid) Dims() (int, int)   { return len(g.m.Names), len(g.m.Names) }
func (g matrixGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }

// RenderMatrix draws m as a heat map with one labelled cell per pair of
// columns and saves it to fn
func RenderMatrix(title string, m analysis.Matrix, fn string) error {
	if len(m.Names) < 2 {
		return fmt.Errorf("%w: %s", ErrEmptyFigure, title)
	}

	heat := plotter.NewHeatMap(matrixGrid{m: m}, palette.Heat(16, 1))
	heat.NaN = color.Gray{Y: 200}
	heat.Min, heat.Max = 0, 1
	for i := range m.Names {
		for j := range m.Names {
			if m.At(i, j) < 0 {
				heat.Min = -1
			}
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.Add(heat)
	p.NominalX(m.Names...)
	p.NominalY(m.Names...)
	p.X.Tick.Label.Rotation = math.Pi / 2.5
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	size := vg.Length(len(m.Names)) * 0.6 * vg.Inch
	if size < DefaultHeight {
		size = DefaultHeight
	}

	if err := p.Save(size, size, fn); err != nil {
		return fmt.Errorf("save %s: %w", fn, err)
	}

	return nil
}
