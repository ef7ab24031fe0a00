// Copyright ©2022 the linchange Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package corr

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/biogo/biogo/seq"

	"github.com/leoTiez/linchange/annot"
)

// chromValues is a Sampler returning a fixed value per chromosome and
// NaN for chromosomes it does not know.
type chromValues map[string]float64

func (m chromValues) Value(iv annot.Interval) (float64, error) {
	v, ok := m[iv.Chrom]
	if !ok {
		return math.NaN(), nil
	}
	return v, nil
}

type failing struct{}

func (failing) Value(annot.Interval) (float64, error) {
	return 0, errors.New("broken track")
}

func intervals(chroms ...string) []annot.Interval {
	ivs := make([]annot.Interval, len(chroms))
	for i, c := range chroms {
		ivs[i] = annot.Interval{Chrom: c, Start: 0, End: 100}
	}
	return ivs
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name string
		ivs  []annot.Interval
		a, b []Sampler
		want []Point
	}{
		{
			name: "single tracks",
			ivs:  intervals("c1", "c2", "c3"),
			a:    []Sampler{chromValues{"c1": 1, "c2": 2, "c3": 3}},
			b:    []Sampler{chromValues{"c1": 10, "c2": 20, "c3": 30}},
			want: []Point{{X: 1, Y: 10}, {X: 2, Y: 20}, {X: 3, Y: 30}},
		},
		{
			name: "paired tracks are summed",
			ivs:  intervals("c1", "c2"),
			a: []Sampler{
				chromValues{"c1": 1, "c2": 2},
				chromValues{"c1": 0.5, "c2": 0.25},
			},
			b: []Sampler{
				chromValues{"c1": 10, "c2": 20},
				chromValues{"c1": 5, "c2": 2.5},
			},
			want: []Point{{X: 1.5, Y: 15}, {X: 2.25, Y: 22.5}},
		},
		{
			name: "undefined signal is dropped",
			ivs:  intervals("c1", "c2", "c3"),
			a:    []Sampler{chromValues{"c1": 1, "c3": 3}},
			b:    []Sampler{chromValues{"c1": 10, "c2": 20, "c3": 30}},
			want: []Point{{X: 1, Y: 10}, {X: 3, Y: 30}},
		},
	}
	for _, test := range tests {
		got, err := Aggregate(test.ivs, test.a, test.b, false)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}

func TestAggregateStrands(t *testing.T) {
	ivs := intervals("c1", "c2", "c3", "c4")
	a := []Sampler{chromValues{"c1": 1, "c2": 2, "c3": 3, "c4": 4}}
	b := []Sampler{chromValues{"c1": 1, "c2": 2, "c3": 3, "c4": 4}}

	pts, err := Aggregate(ivs, a, b, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, pt := range pts {
		if pt.Strand != seq.None {
			t.Errorf("point %d: got strand %v, want %v", i, pt.Strand, seq.None)
		}
	}

	pts, err = Aggregate(ivs, a, b, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []seq.Strand{seq.Plus, seq.Minus, seq.Plus, seq.Minus}
	for i, pt := range pts {
		if pt.Strand != want[i] {
			t.Errorf("point %d: got strand %v, want %v", i, pt.Strand, want[i])
		}
	}
}

func TestAggregateError(t *testing.T) {
	ivs := intervals("c1")
	a := []Sampler{failing{}}
	b := []Sampler{chromValues{"c1": 1}}
	_, err := Aggregate(ivs, a, b, false)
	if err == nil {
		t.Error("expected error from failing sampler")
	}
}

func TestFilterPercentile(t *testing.T) {
	pts := []Point{{X: 1, Y: 30}, {X: 5, Y: 20}, {X: 10, Y: 10}}

	tests := []struct {
		name string
		pts  []Point
		p    float64
		axis Axis
		want []Point
	}{
		{
			name: "identity at 100",
			pts:  pts,
			p:    100,
			axis: XAxis,
			want: pts,
		},
		{
			name: "median on x",
			pts:  pts,
			p:    50,
			axis: XAxis,
			want: pts[:2],
		},
		{
			name: "median on y",
			pts:  pts,
			p:    50,
			axis: YAxis,
			want: pts[1:],
		},
		{
			name: "boundary ties are inclusive",
			pts:  []Point{{X: 5}, {X: 1}, {X: 5}, {X: 10}},
			p:    50,
			axis: XAxis,
			want: []Point{{X: 5}, {X: 1}, {X: 5}},
		},
		{
			name: "empty input",
			pts:  nil,
			p:    50,
			axis: XAxis,
			want: nil,
		},
	}
	for _, test := range tests {
		got, err := FilterPercentile(test.pts, test.p, test.axis)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
			continue
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}

func TestFilterPercentileRange(t *testing.T) {
	pts := []Point{{X: 1}, {X: 2}}
	for _, p := range []float64{-1, 100.5, math.NaN()} {
		if _, err := FilterPercentile(pts, p, XAxis); err == nil {
			t.Errorf("expected error for percentile %v", p)
		}
	}
}

func TestFit(t *testing.T) {
	var pts []Point
	for _, x := range []float64{0, 1, 2, 3, 4} {
		pts = append(pts, Point{X: x, Y: 2*x + 1})
	}
	alpha, beta, r2 := Fit(pts)
	const tol = 1e-12
	if math.Abs(alpha-1) > tol {
		t.Errorf("got intercept %v, want 1", alpha)
	}
	if math.Abs(beta-2) > tol {
		t.Errorf("got slope %v, want 2", beta)
	}
	if math.Abs(r2-1) > tol {
		t.Errorf("got R2 %v, want 1", r2)
	}
}

func TestDensity(t *testing.T) {
	pts := []Point{
		{X: 0, Y: 0},
		{X: 0.1, Y: 0.1},
		{X: 0.2, Y: 0},
		{X: 10, Y: 10},
	}
	d := Density(pts)
	if len(d) != len(pts) {
		t.Fatalf("got %d densities for %d points", len(d), len(pts))
	}
	for i, v := range d {
		if v <= 0 || math.IsNaN(v) {
			t.Errorf("density %d: got %v, want positive", i, v)
		}
	}
	if d[0] <= d[3] {
		t.Errorf("cluster density %v not greater than outlier density %v", d[0], d[3])
	}
}

func TestDensityDegenerate(t *testing.T) {
	for _, pts := range [][]Point{nil, {{X: 1, Y: 1}}} {
		d := Density(pts)
		if len(d) != len(pts) {
			t.Fatalf("got %d densities for %d points", len(d), len(pts))
		}
		for i, v := range d {
			if v != 1 {
				t.Errorf("density %d: got %v, want 1", i, v)
			}
		}
	}
}
