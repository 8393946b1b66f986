package device

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"

	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

// DefaultWindow is the number of samples per yielded window when the
// caller does not pick one.
const DefaultWindow = 64

// WAVSource slices a decoded PCM WAV recording into consecutive
// fixed-length windows. The whole file is decoded up front; recordings
// in this system are seconds long, not albums.
type WAVSource struct {
	samples    []float64
	sampleRate int
	window     int
	pos        int
	closed     bool
}

// OpenWAV decodes path and prepares windows of the given length.
func OpenWAV(path string, window int) (*WAVSource, error) {
	if window <= 0 {
		window = DefaultWindow
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%s reports no channels", path)
	}

	// Normalize to [-1, 1] and average the channels down to mono.
	maxVal := float64(int(1) << (uint(decoder.BitDepth) - 1))
	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		samples[i] = sum / float64(channels) / maxVal
	}

	return &WAVSource{
		samples:    samples,
		sampleRate: buf.Format.SampleRate,
		window:     window,
	}, nil
}

// Next yields the next full window. A trailing partial window is
// dropped rather than padded.
func (s *WAVSource) Next() (signal.Signal, bool) {
	if s == nil || s.closed {
		return nil, false
	}
	if s.pos+s.window > len(s.samples) {
		return nil, false
	}
	win := make(signal.Signal, s.window)
	copy(win, s.samples[s.pos:s.pos+s.window])
	s.pos += s.window
	return win, true
}

func (s *WAVSource) Close() error {
	if s != nil {
		s.closed = true
	}
	return nil
}

// SampleRate returns the recording's sample rate in Hz.
func (s *WAVSource) SampleRate() int {
	if s == nil {
		return 0
	}
	return s.sampleRate
}

// Remaining reports how many full windows are still available.
func (s *WAVSource) Remaining() int {
	if s == nil || s.closed {
		return 0
	}
	return (len(s.samples) - s.pos) / s.window
}
