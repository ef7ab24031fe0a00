// Copyright ©2022 the linchange Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// linchange plots the linear correlation between two bigwig signal
// samples over the intervals of an annotation file.
//
// The two samples are each backed by one bigwig track, or by two tracks
// whose per-interval values are summed (for example + and - strand
// tracks of the same sample). The aggregate values are optionally
// restricted to a lower percentile of the x axis and rendered as a
// scatter plot with a least squares fit.
//
// The program is based on an original Python implementation.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pborman/getopt"
	"github.com/sirupsen/logrus"

	"github.com/leoTiez/linchange/annot"
	"github.com/leoTiez/linchange/corr"
	"github.com/leoTiez/linchange/scatter"
	"github.com/leoTiez/linchange/track"
)

// Exit codes distinguish the failure classes surfaced to the caller.
const (
	exitConfig = 2
	exitData   = 3
	exitRender = 4
)

const defaultFigure = "linchange.png"

type config struct {
	tracks     []string
	annotation string
	names      []string
	title      string

	distinguishStrand bool
	percentile        float64
	summary           track.Summary

	savePath string
}

func main() {
	options := getopt.New()
	options.SetProgram("linchange")
	options.SetParameters("<wt.bw> <mutant.bw> | <wt1.bw> <wt2.bw> <mutant1.bw> <mutant2.bw>")

	optBed := options.StringLong("bed", 0, "", "annotation bed file")
	optAnnotation := options.StringLong("annotation", 0, "", "annotation file (BED or GTF), alternative spelling of --bed")
	optNames := options.ListLong("name", 'n', "name of a data set, give twice: x axis then y axis")
	optTitle := options.StringLong("title", 't', "", "plot title")
	optStrand := options.BoolLong("distinguish_strand", 0, "plot alternating +/- strand interval pairs with distinct markers")
	optPercentile := options.StringLong("percentile", 0, "100", "keep only points at or below this percentile of the x axis")
	optSummary := options.StringLong("summary", 0, "mean", "per-interval aggregate statistic [mean, sum]")
	optSaveFig := options.BoolLong("save_fig", 0, "save the figure to the --save_path location")
	optSavePath := options.StringLong("save_path", 0, defaultFigure, "output image path, used with --save_fig")
	optHelp := options.BoolLong("help", 'h', "print help")

	options.Parse(os.Args)
	if *optHelp {
		options.PrintUsage(os.Stdout)
		os.Exit(0)
	}

	cfg, err := configure(options.Args(), *optBed, *optAnnotation, *optNames,
		*optTitle, *optStrand, *optPercentile, *optSummary, *optSaveFig, *optSavePath)
	if err != nil {
		logrus.Errorf("%v", err)
		options.PrintUsage(os.Stderr)
		os.Exit(exitConfig)
	}

	ivs, err := annot.ReadFile(cfg.annotation)
	if err != nil {
		fatalf(exitData, "failed to read annotation %q: %v", cfg.annotation, err)
	}
	logrus.Infof("read %d intervals from %q", len(ivs), cfg.annotation)

	var a, b []corr.Sampler
	for i, path := range cfg.tracks {
		t, err := track.Open(path, cfg.summary)
		if err != nil {
			fatalf(exitData, "failed to open track: %v", err)
		}
		defer t.Close()
		if i < len(cfg.tracks)/2 {
			a = append(a, t)
		} else {
			b = append(b, t)
		}
	}

	pts, err := corr.Aggregate(ivs, a, b, cfg.distinguishStrand)
	if err != nil {
		fatalf(exitData, "failed to aggregate signal: %v", err)
	}
	if len(pts) == 0 {
		fatalf(exitData, "no interval with defined signal in all tracks")
	}
	logrus.Infof("aggregated %d points with %v signal", len(pts), cfg.summary)

	if cfg.percentile < 100 {
		pts, err = corr.FilterPercentile(pts, cfg.percentile, corr.XAxis)
		if err != nil {
			fatalf(exitConfig, "failed percentile filtering: %v", err)
		}
		logrus.Infof("retained %d points at or below the %v-th x percentile", len(pts), cfg.percentile)
	}

	p, err := scatter.Render(pts, scatter.Config{
		XLabel:            cfg.names[0],
		YLabel:            cfg.names[1],
		Title:             cfg.title,
		DistinguishStrand: cfg.distinguishStrand,
	})
	if err != nil {
		fatalf(exitRender, "failed to render figure: %v", err)
	}
	if err := scatter.Save(p, cfg.savePath); err != nil {
		fatalf(exitRender, "%v", err)
	}
	logrus.Infof("wrote figure to %q", cfg.savePath)
}

// configure validates the raw option values into a config. All
// validation happens here, before any input file is touched.
func configure(args []string, bed, annotation string, names []string, title string, strand bool, percentile, summary string, saveFig bool, savePath string) (config, error) {
	cfg := config{
		tracks:            args,
		names:             names,
		distinguishStrand: strand,
		savePath:          savePath,
	}

	if len(cfg.tracks) != 2 && len(cfg.tracks) != 4 {
		return config{}, fmt.Errorf("number of input tracks must be 2 or 4, got %d", len(cfg.tracks))
	}

	switch {
	case bed != "" && annotation != "":
		return config{}, fmt.Errorf("give only one of --bed and --annotation")
	case bed != "":
		cfg.annotation = bed
	case annotation != "":
		cfg.annotation = annotation
	default:
		return config{}, fmt.Errorf("an annotation file is required (--bed or --annotation)")
	}

	switch len(cfg.names) {
	case 0:
		cfg.names = []string{"WT", "Mutant"}
	case 2:
	default:
		return config{}, fmt.Errorf("expected exactly 2 data set names, got %d", len(cfg.names))
	}

	cfg.title = title
	if cfg.title == "" {
		cfg.title = "Median Correlation Between WT and Mutant"
	}
	cfg.title = strings.ReplaceAll(cfg.title, `\n`, "\n")

	p, err := strconv.ParseFloat(percentile, 64)
	if err != nil {
		return config{}, fmt.Errorf("invalid percentile %q: %v", percentile, err)
	}
	if p < 0 || p > 100 {
		return config{}, fmt.Errorf("percentile out of range [0, 100]: %v", p)
	}
	cfg.percentile = p

	cfg.summary, err = track.ParseSummary(summary)
	if err != nil {
		return config{}, err
	}

	if !saveFig {
		// There is no interactive display; fall back to the default
		// figure location.
		cfg.savePath = defaultFigure
	}
	if cfg.savePath == "" {
		return config{}, fmt.Errorf("--save_path must not be empty")
	}

	return cfg, nil
}

func fatalf(code int, format string, args ...interface{}) {
	logrus.Errorf(format, args...)
	os.Exit(code)
}
