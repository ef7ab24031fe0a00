// Copyright ©2022 the linchange Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package track provides per-interval aggregate signal values from
// bigwig tracks.
package track

import (
	"fmt"
	"math"
	"os"

	gn "github.com/pbenner/gonetics"

	"github.com/leoTiez/linchange/annot"
)

// Summary selects the per-interval aggregate computed over a track's
// per-base values.
type Summary int

const (
	Mean Summary = iota
	Sum
)

// ParseSummary returns the Summary named by s.
func ParseSummary(s string) (Summary, error) {
	switch s {
	case "mean":
		return Mean, nil
	case "sum":
		return Sum, nil
	}
	return 0, fmt.Errorf("invalid summary statistic: %q", s)
}

func (s Summary) String() string {
	switch s {
	case Mean:
		return "mean"
	case Sum:
		return "sum"
	}
	return fmt.Sprintf("Summary(%d)", int(s))
}

// Track is a readable bigwig signal track. The underlying file remains
// open until Close is called.
type Track struct {
	path string
	sum  Summary

	f  *os.File
	bw *gn.BigWigReader
}

// Open opens the named bigwig file for interval queries.
func Open(path string, sum Summary) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	bw, err := gn.NewBigWigReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read bigwig file %q: %v", path, err)
	}
	return &Track{path: path, sum: sum, f: f, bw: bw}, nil
}

// Close releases the track's file handle.
func (t *Track) Close() error { return t.f.Close() }

// Path returns the path the track was opened from.
func (t *Track) Path() string { return t.path }

// Value returns the track's aggregate signal over iv. Regions without
// defined signal yield NaN. An error is returned if the interval's
// chromosome is not in the track or the query fails.
func (t *Track) Value(iv annot.Interval) (float64, error) {
	if _, err := t.bw.Genome.SeqLength(iv.Chrom); err != nil {
		return 0, fmt.Errorf("unknown chromosome %q in %q", iv.Chrom, t.path)
	}
	s, _, err := t.bw.QuerySlice(iv.Chrom, iv.Start, iv.End, gn.BinMean, iv.Len(), 0, math.NaN())
	if err != nil {
		return 0, fmt.Errorf("failed to query %s in %q: %v", iv, t.path, err)
	}
	if len(s) == 0 {
		return math.NaN(), nil
	}
	// A single bin spanning the interval; its mean is the per-base mean.
	v := s[0]
	if t.sum == Sum && !math.IsNaN(v) {
		v *= float64(iv.Len())
	}
	return v, nil
}
