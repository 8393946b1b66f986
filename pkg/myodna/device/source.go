// Package device provides acquisition sources that yield recorded
// signal windows one at a time. The matcher never talks to hardware;
// anything that can hand over fixed-length windows can feed it.
package device

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

// Source yields signal windows on demand. Next reports false when no
// more windows are available or the source was closed.
type Source interface {
	Next() (signal.Signal, bool)
	Close() error
}

// ReplaySource yields a fixed set of pre-recorded signals in order.
type ReplaySource struct {
	signals []signal.Signal
	pos     int
	closed  bool
}

// NewReplay builds a source that replays the given signals once.
func NewReplay(signals []signal.Signal) *ReplaySource {
	return &ReplaySource{signals: signals}
}

// OpenSession loads a recorded session file, one CSV row per signal,
// and replays it. Rows may differ in length; blank lines are skipped.
func OpenSession(path string) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening session %s: %w", path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", path, err)
	}

	signals := make([]signal.Signal, 0, len(records))
	for i, row := range records {
		sig, err := signal.ParseRecord(row)
		if err != nil {
			return nil, fmt.Errorf("session %s row %d: %w", path, i+1, err)
		}
		signals = append(signals, sig)
	}
	return &ReplaySource{signals: signals}, nil
}

func (s *ReplaySource) Next() (signal.Signal, bool) {
	if s == nil || s.closed || s.pos >= len(s.signals) {
		return nil, false
	}
	sig := s.signals[s.pos].Clone()
	s.pos++
	return sig, true
}

func (s *ReplaySource) Close() error {
	if s != nil {
		s.closed = true
	}
	return nil
}
