package myodna

import "github.com/himanishpuri/MyoDNA/pkg/myodna/match"

// MatchResult describes the outcome of classifying one candidate signal.
type MatchResult struct {
	Label          string  // Winning gesture label, or the unknown sentinel
	Distance       float64 // Euclidean distance to the winning reference; +Inf when unknown
	Compared       int     // References actually compared
	LengthMismatch int     // References skipped because their length differed
	NonFinite      int     // References skipped because the distance was not finite
}

// Known reports whether the candidate matched any stored reference.
func (r MatchResult) Known() bool {
	return r.Label != match.Unknown
}

// LabelInfo summarizes one gesture label in the dataset.
type LabelInfo struct {
	Label   string // Directory name under the storage root
	Samples int    // Reference signals currently loaded for this label
}
