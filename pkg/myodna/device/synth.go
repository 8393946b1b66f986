package device

import (
	"math"
	"math/rand"

	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

// SynthSource generates EMG-like activation bursts: noise under a
// half-sine envelope. It exists so the trainer and the seed script can
// run without any armband attached, and so demos are reproducible via
// the seed.
type SynthSource struct {
	window    int
	remaining int
	unlimited bool
	amplitude float64
	rng       *rand.Rand
	closed    bool
}

// NewSynth builds a synthetic source yielding count windows of the
// given length. A count of zero or less means unlimited.
func NewSynth(window, count int, amplitude float64, seed int64) *SynthSource {
	if window <= 0 {
		window = DefaultWindow
	}
	return &SynthSource{
		window:    window,
		remaining: count,
		unlimited: count <= 0,
		amplitude: amplitude,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (s *SynthSource) Next() (signal.Signal, bool) {
	if s == nil || s.closed {
		return nil, false
	}
	if !s.unlimited {
		if s.remaining == 0 {
			return nil, false
		}
		s.remaining--
	}

	win := make(signal.Signal, s.window)
	for i := range win {
		envelope := math.Sin(math.Pi * float64(i) / float64(s.window))
		noise := s.rng.Float64()*2 - 1
		win[i] = s.amplitude * envelope * noise
	}
	return win, true
}

func (s *SynthSource) Close() error {
	if s != nil {
		s.closed = true
	}
	return nil
}
