package writer

import (
	"math"

	"github.com/jetperch/jls-go/pkg/jls/directory"
)

// reduceSamples computes the level-1 summary reduction of one level-0 data
// chunk's raw samples.
func reduceSamples(samples []float32) directory.SummaryEntry {
	if len(samples) == 0 {
		return directory.SummaryEntry{}
	}
	var sum, sumSq float64
	min, max := samples[0], samples[0]
	for _, v := range samples {
		f := float64(v)
		sum += f
		sumSq += f * f
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	n := float64(len(samples))
	mean := sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return directory.SummaryEntry{
		Mean:   float32(mean),
		Min:    min,
		Max:    max,
		StdDev: float32(math.Sqrt(variance)),
	}
}

// reduceEntries collapses a completed level-k chunk's own entries into the
// single entry that represents it one level up. The per-entry counts
// behind each child are not tracked individually at this level, so the
// reduction is an unweighted combination across entries rather than a
// sample-weighted one; acceptable since entries_per_summary is the same
// for every chunk at a level, so real weights are nearly uniform anyway.
func reduceEntries(entries []directory.SummaryEntry) directory.SummaryEntry {
	if len(entries) == 0 {
		return directory.SummaryEntry{}
	}
	var sumMean, sumStd float64
	min, max := entries[0].Min, entries[0].Max
	for _, e := range entries {
		sumMean += float64(e.Mean)
		sumStd += float64(e.StdDev)
		if e.Min < min {
			min = e.Min
		}
		if e.Max > max {
			max = e.Max
		}
	}
	n := float64(len(entries))
	return directory.SummaryEntry{
		Mean:   float32(sumMean / n),
		Min:    min,
		Max:    max,
		StdDev: float32(sumStd / n),
	}
}
