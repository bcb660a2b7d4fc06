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

// Package chart renders analysis figures to PNG images
package chart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/penny-vault/boxoffice/analysis"
)

var (
	ErrEmptyFigure  = errors.New("figure has no data")
	ErrUnknownKind  = errors.New("unknown figure kind")
	ErrNestedPanels = errors.New("panels cannot contain panels")
)

const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 6 * vg.Inch

	// horizontal bar charts grow with the number of bars
	rowHeight = 0.22 * vg.Inch
)

// FileName returns the image name used for a figure title
func FileName(title string) string {
	return analysis.Slug(title) + ".png"
}

// Render draws fig into dir and returns the path of the image
func Render(fig analysis.Figure, dir string) (string, error) {
	if fig.Empty() {
		return "", fmt.Errorf("%w: %s", ErrEmptyFigure, fig.Title)
	}

	fn := filepath.Join(dir, FileName(fig.Title))

	if fig.Kind == analysis.KindPanels {
		if err := renderPanels(fig, fn); err != nil {
			return "", err
		}
		return fn, nil
	}

	p, err := build(fig)
	if err != nil {
		return "", err
	}

	if err := p.Save(DefaultWidth, height(fig), fn); err != nil {
		return "", fmt.Errorf("save %s: %w", fn, err)
	}

	return fn, nil
}

// RenderAll draws every figure that has data. Figures without data are
// logged and skipped.
func RenderAll(ctx context.Context, figures []analysis.Figure, dir string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	files := make([]string, 0, len(figures))
	for _, fig := range figures {
		fn, err := Render(fig, dir)
		if errors.Is(err, ErrEmptyFigure) {
			logger.Warn().Str("Figure", fig.Title).Msg("no data to plot, skipping")
			continue
		}
		if err != nil {
			return files, err
		}

		logger.Debug().Str("Figure", fig.Title).Str("FileName", fn).Msg("rendered chart")
		files = append(files, fn)
	}

	return files, nil
}

func height(fig analysis.Figure) vg.Length {
	if fig.Kind != analysis.KindHorizontalBar {
		return DefaultHeight
	}

	h := rowHeight * vg.Length(len(fig.Groups)+4)
	if h < DefaultHeight {
		return DefaultHeight
	}
	return h
}

func build(fig analysis.Figure) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fig.Title
	p.X.Label.Text = fig.XLabel
	p.Y.Label.Text = fig.YLabel

	var err error
	switch fig.Kind {
	case analysis.KindBar:
		err = bars(p, fig, false)
	case analysis.KindHorizontalBar:
		err = bars(p, fig, true)
	case analysis.KindScatter:
		err = scatter(p, fig)
	case analysis.KindPanels:
		err = ErrNestedPanels
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownKind, fig.Kind)
	}

	if err != nil {
		return nil, err
	}

	return p, nil
}

func bars(p *plot.Plot, fig analysis.Figure, horizontal bool) error {
	values := make(plotter.Values, len(fig.Groups))
	names := make([]string, len(fig.Groups))
	for idx, grp := range fig.Groups {
		values[idx] = grp.Value
		names[idx] = grp.Key
	}

	width := vg.Points(math.Max(2, math.Min(20, 400/float64(len(values)))))
	chart, err := plotter.NewBarChart(values, width)
	if err != nil {
		return err
	}

	chart.Color = plotutil.Color(0)
	chart.LineStyle.Width = 0
	chart.Horizontal = horizontal
	p.Add(chart)

	if horizontal {
		p.NominalY(names...)
		clamp(&p.X, fig)
		return nil
	}

	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 2.5
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	clamp(&p.Y, fig)

	return nil
}

func scatter(p *plot.Plot, fig analysis.Figure) error {
	xys := make(plotter.XYs, len(fig.Points))
	for idx, pt := range fig.Points {
		xys[idx].X = pt.X
		xys[idx].Y = pt.Y
	}

	points, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}

	points.GlyphStyle.Color = plotutil.Color(1)
	points.GlyphStyle.Radius = vg.Points(2.5)
	p.Add(plotter.NewGrid(), points)

	clamp(&p.Y, fig)

	return nil
}

func clamp(axis *plot.Axis, fig analysis.Figure) {
	if fig.ValueMax > fig.ValueMin {
		axis.Min = fig.ValueMin
		axis.Max = fig.ValueMax
	}
}

// renderPanels stacks the panels of fig vertically in one image
func renderPanels(fig analysis.Figure, fn string) error {
	plots := make([][]*plot.Plot, 0, len(fig.Panels))
	for _, panel := range fig.Panels {
		if panel.Empty() {
			continue
		}
		p, err := build(panel)
		if err != nil {
			return fmt.Errorf("panel %s: %w", panel.Title, err)
		}
		plots = append(plots, []*plot.Plot{p})
	}

	img := vgimg.New(DefaultWidth, DefaultHeight*vg.Length(len(plots)))
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows: len(plots),
		Cols: 1,
		PadY: vg.Millimeter * 8,
	}

	canvases := plot.Align(plots, tiles, dc)
	for row := range plots {
		plots[row][0].Draw(canvases[row][0])
	}

	fh, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer fh.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(fh); err != nil {
		return fmt.Errorf("save %s: %w", fn, err)
	}

	return nil
}
