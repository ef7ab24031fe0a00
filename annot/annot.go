// Copyright ©2022 the linchange Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package annot reads genomic annotation files into interval sets.
package annot

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/bed"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/store/interval"
)

// Interval is a zero-based half-open genomic interval.
type Interval struct {
	Chrom  string
	Start  int
	End    int
	Strand seq.Strand
}

// Len returns the length of the interval.
func (iv Interval) Len() int { return iv.End - iv.Start }

func (iv Interval) String() string {
	return fmt.Sprintf("%s:%d-%d", iv.Chrom, iv.Start, iv.End)
}

// ReadFile reads the annotation in the named BED or GFF/GTF file and
// returns its intervals in file order. The format is chosen from the
// file extension; anything that is not recognisably GFF is read as BED.
func ReadFile(path string) ([]Interval, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gff", ".gff2", ".gff3", ".gtf":
		return readGFF(path)
	default:
		return readBED(path)
	}
}

func readGFF(path string) ([]Interval, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ivs []Interval
	sc := featio.NewScanner(gff.NewReader(f))
	for sc.Next() {
		ft := sc.Feat().(*gff.Feature)
		iv := Interval{
			Chrom:  ft.SeqName,
			Start:  ft.FeatStart,
			End:    ft.FeatEnd,
			Strand: ft.FeatStrand,
		}
		if err := valid(iv); err != nil {
			return nil, fmt.Errorf("%s: %v", path, err)
		}
		ivs = append(ivs, iv)
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("error during gff read: %v", err)
	}
	return ivs, nil
}

func readBED(path string) ([]Interval, error) {
	n, err := bedColumns(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br, err := bed.NewReader(f, n)
	if err != nil {
		return nil, fmt.Errorf("failed to read bed file: %v", err)
	}

	var ivs []Interval
	sc := featio.NewScanner(br)
	for sc.Next() {
		var iv Interval
		switch ft := sc.Feat().(type) {
		case *bed.Bed3:
			iv = Interval{Chrom: ft.Chrom, Start: ft.ChromStart, End: ft.ChromEnd, Strand: seq.None}
		case *bed.Bed4:
			iv = Interval{Chrom: ft.Chrom, Start: ft.ChromStart, End: ft.ChromEnd, Strand: seq.None}
		case *bed.Bed5:
			iv = Interval{Chrom: ft.Chrom, Start: ft.ChromStart, End: ft.ChromEnd, Strand: seq.None}
		case *bed.Bed6:
			iv = Interval{Chrom: ft.Chrom, Start: ft.ChromStart, End: ft.ChromEnd, Strand: ft.FeatStrand}
		default:
			return nil, fmt.Errorf("%s: unexpected feature type %T", path, ft)
		}
		if err := valid(iv); err != nil {
			return nil, fmt.Errorf("%s: %v", path, err)
		}
		ivs = append(ivs, iv)
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("error during bed read: %v", err)
	}
	return ivs, nil
}

func valid(iv Interval) error {
	if iv.Start < 0 || iv.End <= iv.Start {
		return fmt.Errorf("invalid interval %s", iv)
	}
	return nil
}

// bedColumns returns the number of columns to read from the first
// record line of the named BED file, clamped to the six column layouts
// carrying coordinate and strand information.
func bedColumns(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		n := len(strings.Fields(line))
		switch {
		case n < 3:
			return 0, fmt.Errorf("%s: too few bed columns: %d", path, n)
		case n > 6:
			n = 6
		}
		return n, nil
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("%s: no bed records", path)
}

// CullContained returns a copy of ivs with all intervals that are wholly
// contained by a longer interval on the same chromosome removed. Input
// order is preserved.
func CullContained(ivs []Interval) ([]Interval, error) {
	trees := make(map[string]*interval.IntTree)
	for i, iv := range ivs {
		t, ok := trees[iv.Chrom]
		if !ok {
			t = &interval.IntTree{}
			trees[iv.Chrom] = t
		}
		err := t.Insert(treeInterval{uid: uintptr(i), iv: iv}, true)
		if err != nil {
			return nil, err
		}
	}
	for _, t := range trees {
		t.AdjustRanges()
	}

	var kept []Interval
outer:
	for _, iv := range ivs {
		for _, h := range trees[iv.Chrom].Get(treeInterval{iv: iv}) {
			o := h.(treeInterval).iv
			if o.Len() > iv.Len() && o.Start <= iv.Start && iv.End <= o.End {
				continue outer
			}
		}
		kept = append(kept, iv)
	}
	return kept, nil
}

type treeInterval struct {
	uid uintptr
	iv  Interval
}

// Overlap returns whether the b interval completely contains i.
func (i treeInterval) Overlap(b interval.IntRange) bool {
	return b.Start <= i.iv.Start && i.iv.End <= b.End
}
func (i treeInterval) ID() uintptr { return i.uid }
func (i treeInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.iv.Start, End: i.iv.End}
}
