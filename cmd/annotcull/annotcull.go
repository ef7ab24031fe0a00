// Copyright ©2022 the linchange Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// annotcull drops annotation intervals that are wholly contained by a
// longer interval, writing the remainder as BED6 to stdout.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/biogo/biogo/seq"

	"github.com/leoTiez/linchange/annot"
)

var in = flag.String("in", "", "input BED or GTF annotation file (required)")

func main() {
	flag.Parse()
	if *in == "" {
		flag.Usage()
		os.Exit(1)
	}

	ivs, err := annot.ReadFile(*in)
	if err != nil {
		log.Fatalf("failed to read annotation: %v", err)
	}
	culled, err := annot.CullContained(ivs)
	if err != nil {
		log.Fatalf("failed to cull contained intervals: %v", err)
	}
	log.Printf("culled %d of %d intervals", len(ivs)-len(culled), len(ivs))

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for _, iv := range culled {
		_, err := fmt.Fprintf(w, "%s\t%d\t%d\t.\t0\t%c\n", iv.Chrom, iv.Start, iv.End, strandChar(iv.Strand))
		if err != nil {
			log.Fatalf("failed to write interval: %v", err)
		}
	}
}

func strandChar(s seq.Strand) byte {
	switch s {
	case seq.Plus:
		return '+'
	case seq.Minus:
		return '-'
	}
	return '.'
}
