// Copyright ©2022 the linchange Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// trackstats prints summary statistics for bigwig signal tracks.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/akamensky/argparse"
	gn "github.com/pbenner/gonetics"
	"github.com/sirupsen/logrus"
)

func main() {
	parser := argparse.NewParser("trackstats", "Print summary statistics for bigwig signal tracks.")
	inputs := parser.StringList("i", "input", &argparse.Options{Help: "Input bigwig file, repeatable", Required: true})
	binSize := parser.Int("s", "binsize", &argparse.Options{Help: "Bin size used when importing the track; 0 uses the native resolution", Default: 0})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	for _, in := range *inputs {
		stats, err := summarize(in, *binSize)
		if err != nil {
			logrus.Errorf("%v", err)
			os.Exit(1)
		}
		fmt.Printf("%s:\n%v\n", in, stats)
	}
}

func summarize(path string, binSize int) (gn.TrackSummaryStatistics, error) {
	track := gn.LazyTrackFile{}
	if err := track.ImportBigWig(path, "", gn.BinMean, binSize, 0, math.NaN()); err != nil {
		return gn.TrackSummaryStatistics{}, fmt.Errorf("failed to import track %q: %v", path, err)
	}
	defer track.Close()
	return gn.GenericTrack{Track: track}.SummaryStatistics(), nil
}
