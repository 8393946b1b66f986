// Package myodna exposes the gesture matching service: a library of
// labelled EMG reference signals persisted as per-label CSV records,
// classified by nearest Euclidean distance.
package myodna

import (
	"github.com/himanishpuri/MyoDNA/pkg/myodna/journal"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

type Service interface {
	Match(sig signal.Signal) string
	BestMatch(sig signal.Signal) MatchResult
	SaveSignal(label string, sig signal.Signal) bool
	DeleteSignal(label string) bool
	AvailableLabels() []string
	SignalCount(label string) int
	ListLabels() []LabelInfo
	History(limit int) ([]journal.Event, error)
	EventTotals() (map[string]int64, error)
	Close() error
}

type Datastore interface {
	Save(label string, sig signal.Signal) bool
	Delete(label string) bool
	Labels() []string
	Count(label string) int
	Signals(label string) []signal.Signal
	Root() string
}

type Recorder interface {
	RecordMatch(label string, distance float64, compared int) error
	RecordSave(label string, accepted bool) error
	RecordDelete(label string, accepted bool) error
	Recent(limit int) ([]journal.Event, error)
	Totals() (map[string]int64, error)
	Close() error
}

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
