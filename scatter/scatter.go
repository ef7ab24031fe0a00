// Copyright ©2022 the linchange Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scatter renders paired signal values as a correlation
// scatter plot.
package scatter

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/biogo/biogo/seq"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/leoTiez/linchange/corr"
)

// Config collects the labelling choices for a rendered plot.
type Config struct {
	XLabel, YLabel string
	Title          string

	// DistinguishStrand plots +/- strand points with separate
	// markers instead of density colouring.
	DistinguishStrand bool
}

const densityColors = 256

// Render returns a plot of pts overlaid with the regression line, the
// identity line and the fit equation. The plot is a fresh context owned
// by the caller; no state is shared between calls.
func Render(pts []corr.Point, cfg Config) (*plot.Plot, error) {
	if len(pts) == 0 {
		return nil, errors.New("no points to plot")
	}

	p := plot.New()
	p.Title.Text = cfg.Title
	p.X.Label.Text = cfg.XLabel
	p.Y.Label.Text = cfg.YLabel

	var err error
	if cfg.DistinguishStrand {
		err = addStrandScatter(p, pts)
	} else {
		err = addDensityScatter(p, pts)
	}
	if err != nil {
		return nil, err
	}
	if err := addFit(p, pts); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes p to the named file, choosing the image format from the
// path's extension.
func Save(p *plot.Plot, path string) error {
	if err := p.Save(15*vg.Centimeter, 15*vg.Centimeter, path); err != nil {
		return fmt.Errorf("failed to save figure to %q: %v", path, err)
	}
	return nil
}

// addDensityScatter plots pts coloured by their kernel density
// estimate.
func addDensityScatter(p *plot.Plot, pts []corr.Point) error {
	s, err := plotter.NewScatter(xysOf(pts))
	if err != nil {
		return err
	}
	base := s.GlyphStyle
	base.Radius = vg.Points(2)

	d := corr.Density(pts)
	lo, hi := d[0], d[0]
	for _, v := range d {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	colors := moreland.SmoothBlueRed().Palette(densityColors).Colors()
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		sty := base
		if hi > lo {
			idx := int((d[i] - lo) / (hi - lo) * float64(len(colors)-1))
			sty.Color = colors[idx]
		}
		return sty
	}
	p.Add(s)
	return nil
}

// addStrandScatter plots pts with one marker per strand and a legend.
func addStrandScatter(p *plot.Plot, pts []corr.Point) error {
	strands := []struct {
		strand seq.Strand
		name   string
		shape  draw.GlyphDrawer
		color  color.Color
	}{
		{seq.Plus, "+ strand", draw.RingGlyph{}, color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}},
		{seq.Minus, "- strand", draw.CrossGlyph{}, color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}},
	}
	for _, grp := range strands {
		var sub []corr.Point
		for _, pt := range pts {
			if pt.Strand == grp.strand {
				sub = append(sub, pt)
			}
		}
		if len(sub) == 0 {
			continue
		}
		s, err := plotter.NewScatter(xysOf(sub))
		if err != nil {
			return err
		}
		s.GlyphStyle.Radius = vg.Points(2)
		s.GlyphStyle.Shape = grp.shape
		s.GlyphStyle.Color = grp.color
		p.Add(s)
		p.Legend.Add(grp.name, s)
	}
	p.Legend.Top = true
	return nil
}

// addFit overlays the least squares regression line, a dashed identity
// line and the fit equation.
func addFit(p *plot.Plot, pts []corr.Point) error {
	alpha, beta, r2 := corr.Fit(pts)

	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for _, pt := range pts {
		xmin = math.Min(xmin, pt.X)
		xmax = math.Max(xmax, pt.X)
		ymin = math.Min(ymin, pt.Y)
		ymax = math.Max(ymax, pt.Y)
	}

	reg, err := plotter.NewLine(plotter.XYs{
		{X: xmin, Y: alpha + beta*xmin},
		{X: xmax, Y: alpha + beta*xmax},
	})
	if err != nil {
		return err
	}
	p.Add(reg)

	lo := math.Min(xmin, ymin)
	hi := math.Max(xmax, ymax)
	ident, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return err
	}
	ident.LineStyle.Color = color.Gray{Y: 0x80}
	ident.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(ident)

	x0 := xmin + 0.05*(xmax-xmin)
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs: plotter.XYs{
			{X: x0, Y: ymin + 0.92*(ymax-ymin)},
			{X: x0, Y: ymin + 0.86*(ymax-ymin)},
		},
		Labels: []string{
			fmt.Sprintf("y = %.3fx + %.3f", beta, alpha),
			fmt.Sprintf("R2 = %.3f", r2),
		},
	})
	if err != nil {
		return err
	}
	p.Add(labels)
	return nil
}

func xysOf(pts []corr.Point) plotter.XYs {
	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	return xys
}
