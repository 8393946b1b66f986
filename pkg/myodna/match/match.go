// Package match selects the nearest reference signal by Euclidean
// distance. It is pure computation over in-memory data; the dataset
// package owns where references come from.
package match

import (
	"math"

	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

// Unknown is the label reported when no stored reference is comparable
// to the candidate.
const Unknown = "unknown"

// Reference is one stored signal tagged with its gesture label.
type Reference struct {
	Label  string
	Signal signal.Signal
}

// Result describes the winning reference of a scan.
type Result struct {
	Label    string
	Distance float64
	Index    int
}

// Stats counts what a scan saw, so callers can log diagnostics without
// the scan itself needing a logger.
type Stats struct {
	Compared       int
	LengthMismatch int
	NonFinite      int
}

// Euclidean returns the L2 distance between two equal-length signals.
// Signals of different lengths are not comparable and yield NaN.
func Euclidean(a, b signal.Signal) float64 {
	if len(a) != len(b) {
		return math.NaN()
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Nearest scans references in order and returns the one closest to the
// candidate. References whose length differs from the candidate's are
// skipped, as are pairs whose distance comes out non-finite (NaN or Inf
// amplitudes in a damaged record). Ties keep the earliest reference,
// since only a strictly smaller distance replaces the current best.
// When nothing is comparable the result carries the Unknown label, an
// infinite distance and index -1.
func Nearest(candidate signal.Signal, refs []Reference) (Result, Stats) {
	best := Result{
		Label:    Unknown,
		Distance: math.Inf(1),
		Index:    -1,
	}
	var stats Stats

	for i, ref := range refs {
		if len(ref.Signal) != len(candidate) {
			stats.LengthMismatch++
			continue
		}
		dist := Euclidean(candidate, ref.Signal)
		if math.IsNaN(dist) || math.IsInf(dist, 0) {
			stats.NonFinite++
			continue
		}
		stats.Compared++
		if dist < best.Distance {
			best = Result{Label: ref.Label, Distance: dist, Index: i}
		}
	}

	return best, stats
}
