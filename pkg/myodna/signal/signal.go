// Package signal defines the sampled EMG signal vector and its on-disk
// CSV row format.
package signal

// Signal is one recorded EMG activation window, sampled as float64
// amplitudes. All samples stored under the same gesture label are
// expected to share a length, but nothing enforces that globally;
// consumers compare lengths pairwise.
type Signal []float64

// Clone returns an independent copy of the signal.
func (s Signal) Clone() Signal {
	if s == nil {
		return nil
	}
	out := make(Signal, len(s))
	copy(out, s)
	return out
}

// Equal reports whether two signals have identical length and samples.
// NaN samples are never equal, matching float64 comparison.
func Equal(a, b Signal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
