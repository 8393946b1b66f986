// Package analysis computes display-only views of a signal: the
// magnitude spectrum shown by the inspect command and the PNG
// amplitude plots. Nothing here participates in matching.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

// Hamming returns a Hamming window of length n.
func Hamming(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := 0; i < n; i++ {
		// Hamming: 0.54 - 0.46*cos(2*pi*n/(N-1))
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// Spectrum computes the magnitude spectrum of a signal (positive
// frequencies only). The signal is Hamming-windowed before the FFT to
// tame leakage from the window edges. Signals shorter than two samples
// have no spectrum and return nil.
func Spectrum(sig signal.Signal) []float64 {
	n := len(sig)
	if n < 2 {
		return nil
	}

	frame := make([]float64, n)
	window := Hamming(n)
	for i, v := range sig {
		frame[i] = v * window[i]
	}

	spectrum := fft.FFTReal(frame)
	half := n / 2
	mag := make([]float64, half)
	for i := 0; i < half; i++ {
		mag[i] = cmplx.Abs(spectrum[i])
	}
	return mag
}

// DominantBin returns the index of the strongest non-DC bin. The DC
// bin carries the signal's baseline offset, which says nothing about
// the gesture. Returns -1 when the spectrum has no non-DC bins.
func DominantBin(mag []float64) int {
	if len(mag) < 2 {
		return -1
	}
	best := 1
	for i := 2; i < len(mag); i++ {
		if mag[i] > mag[best] {
			best = i
		}
	}
	return best
}

// BinFrequency converts a bin index into Hz for a window of windowLen
// samples recorded at sampleRate.
func BinFrequency(bin, windowLen, sampleRate int) float64 {
	if windowLen <= 0 {
		return 0
	}
	return float64(bin) * float64(sampleRate) / float64(windowLen)
}
