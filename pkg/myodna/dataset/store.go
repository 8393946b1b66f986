// Package dataset owns the gesture reference library: an in-memory map
// from label to recorded signals, mirrored to a directory tree where each
// label is a subdirectory of record files. Mutations write through to disk
// so the mirror never drifts while the process runs.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/himanishpuri/MyoDNA/pkg/logger"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
	"github.com/himanishpuri/MyoDNA/pkg/utils"
)

// Logger is the logging surface the store needs. *logger.Logger satisfies
// it, as does anything test code wants to substitute.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Store keeps every reference signal in memory, grouped by label in the
// order labels were discovered on disk. It is not safe for concurrent
// use; callers running it from several goroutines must serialize access.
type Store struct {
	root    string
	labels  []string
	signals map[string][]signal.Signal
	log     Logger
}

// New builds a store rooted at dir and performs the initial load. The
// root directory is created when absent. A store that cannot enumerate
// its root is unusable, so that failure is returned instead of logged.
func New(dir string, log Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("dataset root must not be empty")
	}
	if log == nil {
		log = logger.GetLogger()
	}

	store := &Store{
		root: dir,
		log:  log,
	}
	if err := store.Reload(); err != nil {
		return nil, err
	}
	return store, nil
}

// Root returns the storage root directory.
func (s *Store) Root() string {
	if s == nil {
		return ""
	}
	return s.root
}

// Reload rescans the storage root and replaces the in-memory dataset.
// Record files that cannot be parsed are logged and skipped; a label
// directory whose files all fail still appears, with zero signals.
func (s *Store) Reload() error {
	if err := utils.MakeDir(s.root); err != nil {
		return fmt.Errorf("failed to create dataset root %s: %w", s.root, err)
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("failed to enumerate dataset root %s: %w", s.root, err)
	}

	labels := make([]string, 0, len(entries))
	signals := make(map[string][]signal.Signal, len(entries))

	for _, entry := range entries {
		if !entry.IsDir() {
			s.log.Debug("ignoring stray file %s in dataset root", entry.Name())
			continue
		}

		label := entry.Name()
		labels = append(labels, label)
		signals[label] = nil

		labelDir := filepath.Join(s.root, label)
		files, err := os.ReadDir(labelDir)
		if err != nil {
			s.log.Warn("failed to list samples for label %q: %v", label, err)
			continue
		}

		for _, file := range files {
			if file.IsDir() {
				continue
			}
			sig, err := signal.LoadFile(filepath.Join(labelDir, file.Name()))
			if err != nil {
				s.log.Warn("skipping sample for label %q: %v", label, err)
				continue
			}
			signals[label] = append(signals[label], sig)
		}
	}

	s.labels = labels
	s.signals = signals
	s.log.Debug("dataset loaded: %d labels from %s", len(labels), s.root)
	return nil
}

// Save persists one signal under label and reloads the dataset so memory
// mirrors disk. Every failure is logged and reported as false; nothing
// is raised to the caller.
func (s *Store) Save(label string, sig signal.Signal) bool {
	if s == nil {
		return false
	}
	if !ValidLabel(label) {
		s.log.Error("cannot save signal: invalid label %q", label)
		return false
	}
	if len(sig) == 0 {
		s.log.Error("cannot save empty signal for label %q", label)
		return false
	}

	labelDir := filepath.Join(s.root, label)
	if err := utils.MakeDir(labelDir); err != nil {
		s.log.Error("failed to create directory for label %q: %v", label, err)
		return false
	}

	index, err := nextSampleIndex(labelDir)
	if err != nil {
		s.log.Error("failed to pick sample name for label %q: %v", label, err)
		return false
	}

	path := filepath.Join(labelDir, sampleFileName(index))
	// O_EXCL turns a naming collision into an explicit failure instead
	// of silently overwriting an existing record.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		s.log.Error("failed to create sample file %s: %v", path, err)
		return false
	}

	writeErr := signal.WriteRow(f, sig)
	if closeErr := f.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		// Drop the partial file so the next load does not trip over it.
		_ = utils.DeleteFile(path)
		s.log.Error("failed to write sample file %s: %v", path, writeErr)
		return false
	}

	if err := s.Reload(); err != nil {
		s.log.Error("failed to reload dataset after saving %q: %v", label, err)
		return false
	}

	s.log.Info("saved sample %s for label %q (%d values)", sampleFileName(index), label, len(sig))
	return true
}

// Delete removes a label from disk and memory. The directory is removed
// only after every contained file is gone, so a file that cannot be
// deleted aborts the operation with the directory still present.
func (s *Store) Delete(label string) bool {
	if s == nil {
		return false
	}
	if !ValidLabel(label) {
		s.log.Error("cannot delete invalid label %q", label)
		return false
	}

	labelDir := filepath.Join(s.root, label)
	info, err := os.Stat(labelDir)
	if err != nil || !info.IsDir() {
		s.log.Warn("cannot delete unknown label %q", label)
		return false
	}

	files, err := os.ReadDir(labelDir)
	if err != nil {
		s.log.Error("failed to list samples for label %q: %v", label, err)
		return false
	}

	for _, file := range files {
		if err := utils.DeleteFile(filepath.Join(labelDir, file.Name())); err != nil {
			s.log.Error("failed to delete sample %s of label %q: %v", file.Name(), label, err)
			return false
		}
	}

	if err := utils.DeleteEmptyDir(labelDir); err != nil {
		s.log.Error("failed to delete directory of label %q: %v", label, err)
		return false
	}

	// Disk is clear, now drop the in-memory entry.
	delete(s.signals, label)
	for i, l := range s.labels {
		if l == label {
			s.labels = append(s.labels[:i], s.labels[i+1:]...)
			break
		}
	}

	s.log.Info("deleted label %q (%d samples)", label, len(files))
	return true
}

// Labels returns the known labels in discovery order. The slice is a
// copy; mutating it does not affect the store.
func (s *Store) Labels() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	return out
}

// Count returns the number of reference signals held for label, zero
// when the label is unknown.
func (s *Store) Count(label string) int {
	if s == nil {
		return 0
	}
	return len(s.signals[label])
}

// Signals returns the reference signals for label in load order. The
// returned slice is a fresh header over the shared signal data; callers
// must treat the signals themselves as read-only.
func (s *Store) Signals(label string) []signal.Signal {
	if s == nil {
		return nil
	}
	sigs, ok := s.signals[label]
	if !ok {
		return nil
	}
	out := make([]signal.Signal, len(sigs))
	copy(out, sigs)
	return out
}
