// Copyright ©2022 the linchange Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package corr aggregates paired per-interval signal values and
// provides the statistics rendered by the correlation plot.
package corr

import (
	"fmt"
	"math"

	"github.com/biogo/biogo/seq"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/leoTiez/linchange/annot"
)

// Sampler is the source of per-interval aggregate signal values.
// Implementations return NaN for intervals without defined signal.
type Sampler interface {
	Value(iv annot.Interval) (float64, error)
}

// Point is one interval's aggregate signal from sample A and sample B.
type Point struct {
	X, Y   float64
	Strand seq.Strand
}

// Aggregate returns one Point per interval in iv order. The values of a
// sample's trackers are summed per interval, so two tracks given for one
// sample act as a single logical track. Intervals without defined signal
// in every track are dropped. If distinguishStrand is set, consecutive
// intervals are treated as alternating +/- strand pairs in the order
// encountered; otherwise all points carry seq.None.
func Aggregate(ivs []annot.Interval, a, b []Sampler, distinguishStrand bool) ([]Point, error) {
	var pts []Point
	for i, iv := range ivs {
		x, err := sampleSum(a, iv)
		if err != nil {
			return nil, err
		}
		y, err := sampleSum(b, iv)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		strand := seq.None
		if distinguishStrand {
			if i%2 == 0 {
				strand = seq.Plus
			} else {
				strand = seq.Minus
			}
		}
		pts = append(pts, Point{X: x, Y: y, Strand: strand})
	}
	return pts, nil
}

func sampleSum(sample []Sampler, iv annot.Interval) (float64, error) {
	var sum float64
	for _, s := range sample {
		v, err := s.Value(iv)
		if err != nil {
			return 0, fmt.Errorf("failed to sample %s: %v", iv, err)
		}
		sum += v
	}
	return sum, nil
}

// Axis selects which coordinate of a Point a filter applies to.
type Axis int

const (
	XAxis Axis = iota
	YAxis
)

func (a Axis) String() string {
	if a == XAxis {
		return "x"
	}
	return "y"
}

// FilterPercentile returns the points whose value on the selected axis
// is at or below the p-th percentile of that axis's values, preserving
// order. The percentile is computed by nearest rank, so p=100 returns
// the input unchanged and boundary ties are retained.
func FilterPercentile(pts []Point, p float64, axis Axis) ([]Point, error) {
	if math.IsNaN(p) || p < 0 || p > 100 {
		return nil, fmt.Errorf("percentile out of range: %v", p)
	}
	if len(pts) == 0 {
		return pts, nil
	}
	vals := make([]float64, len(pts))
	for i, pt := range pts {
		vals[i] = pt.coord(axis)
	}
	thresh, err := stats.PercentileNearestRank(vals, p)
	if err != nil {
		return nil, fmt.Errorf("failed to compute %v-axis percentile: %v", axis, err)
	}
	var kept []Point
	for _, pt := range pts {
		if pt.coord(axis) <= thresh {
			kept = append(kept, pt)
		}
	}
	return kept, nil
}

func (p Point) coord(axis Axis) float64 {
	if axis == XAxis {
		return p.X
	}
	return p.Y
}

// Fit returns the intercept, slope and coefficient of determination of
// the ordinary least squares regression of y on x.
func Fit(pts []Point) (alpha, beta, r2 float64) {
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, pt := range pts {
		xs[i] = pt.X
		ys[i] = pt.Y
	}
	alpha, beta = stat.LinearRegression(xs, ys, nil, false)
	r2 = stat.RSquared(xs, ys, nil, alpha, beta)
	return alpha, beta, r2
}

// Density returns a Gaussian kernel density estimate at each point,
// computed over the full set of points with Scott's rule bandwidths.
func Density(pts []Point) []float64 {
	n := len(pts)
	d := make([]float64, n)
	if n < 2 {
		for i := range d {
			d[i] = 1
		}
		return d
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, pt := range pts {
		xs[i] = pt.X
		ys[i] = pt.Y
	}
	hx := bandwidth(xs)
	hy := bandwidth(ys)
	norm := 1 / (float64(n) * 2 * math.Pi * hx * hy)
	for i := range pts {
		var sum float64
		for j := range pts {
			dx := (xs[i] - xs[j]) / hx
			dy := (ys[i] - ys[j]) / hy
			sum += math.Exp(-0.5 * (dx*dx + dy*dy))
		}
		d[i] = norm * sum
	}
	return d
}

// bandwidth returns the Scott's rule kernel bandwidth for a coordinate
// of a bivariate data set.
func bandwidth(vs []float64) float64 {
	h := stat.StdDev(vs, nil) * math.Pow(float64(len(vs)), -1./6.)
	if h <= 0 || math.IsNaN(h) {
		return 1
	}
	return h
}
