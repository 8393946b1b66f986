package myodna

import (
	"fmt"

	"github.com/himanishpuri/MyoDNA/pkg/logger"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/dataset"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/journal"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/match"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

// gestureService is the default implementation of the Service interface.
type gestureService struct {
	store   Datastore
	journal Recorder
	log     Logger
	config  *Config
}

// NewService wires a dataset store, an optional journal and a logger
// into a Service. Construction is the only place a failure is returned
// as an error; after that every operation reports through its result.
func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	// Set default logger if none provided
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	// Create or use provided datastore
	store := cfg.Datastore
	if store == nil {
		ds, err := dataset.New(cfg.DataRoot, cfg.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open dataset: %w", err)
		}
		store = ds
	}

	// Journaling stays off unless a path or a Recorder was provided.
	rec := cfg.Journal
	if rec == nil && cfg.JournalPath != "" {
		jl, err := journal.OpenPath(cfg.JournalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open journal: %w", err)
		}
		rec = jl
	}

	return &gestureService{
		store:   store,
		journal: rec,
		log:     cfg.Logger,
		config:  cfg,
	}, nil
}

// references flattens the dataset into the matcher's input, preserving
// label discovery order and per-label load order.
func (s *gestureService) references() []match.Reference {
	var refs []match.Reference
	for _, label := range s.store.Labels() {
		for _, sig := range s.store.Signals(label) {
			refs = append(refs, match.Reference{Label: label, Signal: sig})
		}
	}
	return refs
}

// BestMatch classifies the candidate and reports distance and scan
// diagnostics alongside the label.
func (s *gestureService) BestMatch(sig signal.Signal) MatchResult {
	refs := s.references()
	res, stats := match.Nearest(sig, refs)

	if stats.NonFinite > 0 {
		s.log.Warn("skipped %d references with non-finite distances", stats.NonFinite)
	}
	if res.Label == match.Unknown {
		s.log.Info("no match for %d-value candidate (%d references, %d length mismatches)",
			len(sig), len(refs), stats.LengthMismatch)
	} else {
		s.log.Info("matched %q at distance %.4f (%d references compared)",
			res.Label, res.Distance, stats.Compared)
	}

	if s.journal != nil {
		if err := s.journal.RecordMatch(res.Label, res.Distance, stats.Compared); err != nil {
			s.log.Warn("failed to journal match: %v", err)
		}
	}

	return MatchResult{
		Label:          res.Label,
		Distance:       res.Distance,
		Compared:       stats.Compared,
		LengthMismatch: stats.LengthMismatch,
		NonFinite:      stats.NonFinite,
	}
}

// Match returns the label of the nearest stored reference, or the
// unknown sentinel when nothing of the candidate's length is stored.
func (s *gestureService) Match(sig signal.Signal) string {
	return s.BestMatch(sig).Label
}

// SaveSignal persists one signal under label. Failures are logged by
// the store and surface only as a false return.
func (s *gestureService) SaveSignal(label string, sig signal.Signal) bool {
	ok := s.store.Save(label, sig)
	if s.journal != nil {
		if err := s.journal.RecordSave(label, ok); err != nil {
			s.log.Warn("failed to journal save: %v", err)
		}
	}
	return ok
}

// DeleteSignal removes a label and all its samples.
func (s *gestureService) DeleteSignal(label string) bool {
	ok := s.store.Delete(label)
	if s.journal != nil {
		if err := s.journal.RecordDelete(label, ok); err != nil {
			s.log.Warn("failed to journal delete: %v", err)
		}
	}
	return ok
}

// AvailableLabels returns the known labels in stable discovery order.
func (s *gestureService) AvailableLabels() []string {
	return s.store.Labels()
}

// SignalCount returns how many references are stored for label, zero
// when the label is unknown.
func (s *gestureService) SignalCount(label string) int {
	return s.store.Count(label)
}

// ListLabels pairs each label with its sample count.
func (s *gestureService) ListLabels() []LabelInfo {
	labels := s.store.Labels()
	infos := make([]LabelInfo, len(labels))
	for i, label := range labels {
		infos[i] = LabelInfo{Label: label, Samples: s.store.Count(label)}
	}
	return infos
}

// History returns recent journal events, newest first. A service built
// without a journal has no history and returns nil.
func (s *gestureService) History(limit int) ([]journal.Event, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.Recent(limit)
}

// EventTotals returns the number of journaled events per kind. A
// service built without a journal has nothing to count and returns nil.
func (s *gestureService) EventTotals() (map[string]int64, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.Totals()
}

// Close releases the journal, if any. The dataset store holds no open
// resources between calls.
func (s *gestureService) Close() error {
	if s.journal == nil {
		return nil
	}
	return s.journal.Close()
}
