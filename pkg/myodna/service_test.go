package myodna

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/himanishpuri/MyoDNA/pkg/logger"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/journal"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/match"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

func quietLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard, Colorize: false})
}

// clearServiceEnv shields tests from ambient MYO_* configuration
func clearServiceEnv(tb testing.TB) {
	tb.Helper()

	for _, key := range []string{"MYO_DATA_ROOT", "MYO_JOURNAL_PATH"} {
		old, had := os.LookupEnv(key)
		os.Unsetenv(key)
		tb.Cleanup(func() {
			if had {
				os.Setenv(key, old)
			}
		})
	}
}

// setupTestService creates a service over a temporary dataset root
func setupTestService(t *testing.T) Service {
	t.Helper()
	clearServiceEnv(t)

	service, err := NewService(
		WithDataRoot(filepath.Join(t.TempDir(), "gestures")),
		WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("Failed to create test service: %v", err)
	}

	t.Cleanup(func() {
		service.Close()
	})

	return service
}

// TestNewService tests service initialization over an empty root
func TestNewService(t *testing.T) {
	service := setupTestService(t)

	if service == nil {
		t.Fatal("Expected non-nil service")
	}
	if labels := service.AvailableLabels(); len(labels) != 0 {
		t.Errorf("Fresh service has labels: %v", labels)
	}
}

// TestMatchEmptyDataset tests that an empty store yields the unknown label
func TestMatchEmptyDataset(t *testing.T) {
	service := setupTestService(t)

	if label := service.Match(signal.Signal{1.0, 2.0, 3.0}); label != match.Unknown {
		t.Errorf("Match on empty dataset = %q, expected %q", label, match.Unknown)
	}

	result := service.BestMatch(signal.Signal{1.0, 2.0, 3.0})
	if result.Known() {
		t.Error("Expected unknown result on empty dataset")
	}
	if !math.IsInf(result.Distance, 1) {
		t.Errorf("Expected infinite distance, got %v", result.Distance)
	}
}

// TestSaveAndMatchExact tests the store-one-then-match-it scenario
func TestSaveAndMatchExact(t *testing.T) {
	service := setupTestService(t)

	if !service.SaveSignal("rest", signal.Signal{0, 0, 0}) {
		t.Fatal("SaveSignal failed")
	}

	if label := service.Match(signal.Signal{0, 0, 0}); label != "rest" {
		t.Errorf("Match = %q, expected rest", label)
	}

	result := service.BestMatch(signal.Signal{0, 0, 0})
	if !result.Known() || result.Distance != 0 {
		t.Errorf("Expected distance 0 match, got %+v", result)
	}
}

// TestMatchAllLengthsMismatch tests that incomparable references never match
func TestMatchAllLengthsMismatch(t *testing.T) {
	service := setupTestService(t)
	service.SaveSignal("fist", signal.Signal{1, 2})
	service.SaveSignal("rest", signal.Signal{1, 2, 3, 4})

	result := service.BestMatch(signal.Signal{9, 9, 9})
	if result.Label != match.Unknown {
		t.Errorf("Label = %q, expected %q regardless of values", result.Label, match.Unknown)
	}
	if result.LengthMismatch != 2 {
		t.Errorf("LengthMismatch = %d, expected 2", result.LengthMismatch)
	}
}

// TestBestMatchPicksNearest tests distance-based selection across labels
func TestBestMatchPicksNearest(t *testing.T) {
	service := setupTestService(t)
	service.SaveSignal("rest", signal.Signal{0, 0, 0})
	service.SaveSignal("fist", signal.Signal{10, 10, 10})

	result := service.BestMatch(signal.Signal{1, 0, 0})
	if result.Label != "rest" {
		t.Errorf("Label = %q, expected rest", result.Label)
	}
	if result.Distance != 1 {
		t.Errorf("Distance = %v, expected 1", result.Distance)
	}
	if result.Compared != 2 {
		t.Errorf("Compared = %d, expected 2", result.Compared)
	}
}

// TestSaveSignalCounting tests that three saves yield a count of three
func TestSaveSignalCounting(t *testing.T) {
	service := setupTestService(t)

	for i := 0; i < 3; i++ {
		if !service.SaveSignal("fist", signal.Signal{float64(i), 1}) {
			t.Fatalf("Save %d failed", i+1)
		}
	}

	if count := service.SignalCount("fist"); count != 3 {
		t.Errorf("SignalCount(fist) = %d, expected 3", count)
	}

	labels := service.AvailableLabels()
	if !reflect.DeepEqual(labels, []string{"fist"}) {
		t.Errorf("AvailableLabels = %v, expected [fist]", labels)
	}
}

// TestDeleteSignalLifecycle tests delete removing label, files and counts
func TestDeleteSignalLifecycle(t *testing.T) {
	service := setupTestService(t)
	service.SaveSignal("fist", signal.Signal{1, 1})
	service.SaveSignal("rest", signal.Signal{0, 0})

	if !service.DeleteSignal("fist") {
		t.Fatal("DeleteSignal failed")
	}

	if count := service.SignalCount("fist"); count != 0 {
		t.Errorf("SignalCount after delete = %d, expected 0", count)
	}
	if labels := service.AvailableLabels(); !reflect.DeepEqual(labels, []string{"rest"}) {
		t.Errorf("AvailableLabels = %v, expected [rest]", labels)
	}

	// Deleting again must fail without disturbing anything.
	if service.DeleteSignal("fist") {
		t.Error("Expected second delete to fail")
	}
	if labels := service.AvailableLabels(); !reflect.DeepEqual(labels, []string{"rest"}) {
		t.Errorf("Failed delete changed labels: %v", labels)
	}
}

// TestSaveSignalRejectsEmpty tests the empty-signal guard
func TestSaveSignalRejectsEmpty(t *testing.T) {
	service := setupTestService(t)

	if service.SaveSignal("fist", signal.Signal{}) {
		t.Error("Expected saving an empty signal to fail")
	}
	if count := service.SignalCount("fist"); count != 0 {
		t.Errorf("SignalCount = %d after rejected save", count)
	}
}

// TestListLabels tests the label/count summary
func TestListLabels(t *testing.T) {
	service := setupTestService(t)
	service.SaveSignal("fist", signal.Signal{1})
	service.SaveSignal("fist", signal.Signal{2})
	service.SaveSignal("rest", signal.Signal{3})

	infos := service.ListLabels()
	expected := []LabelInfo{
		{Label: "fist", Samples: 2},
		{Label: "rest", Samples: 1},
	}
	if !reflect.DeepEqual(infos, expected) {
		t.Errorf("ListLabels = %+v, expected %+v", infos, expected)
	}
}

// TestHistoryWithoutJournal tests that history is empty when journaling is off
func TestHistoryWithoutJournal(t *testing.T) {
	service := setupTestService(t)

	events, err := service.History(10)
	if err != nil {
		t.Fatalf("History without journal errored: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("Expected no history, got %d events", len(events))
	}
}

// TestServiceWithJournal tests that operations leave journal events behind
func TestServiceWithJournal(t *testing.T) {
	clearServiceEnv(t)
	tmpDir := t.TempDir()

	service, err := NewService(
		WithDataRoot(filepath.Join(tmpDir, "gestures")),
		WithJournalPath(filepath.Join(tmpDir, "journal.sqlite3")),
		WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("Failed to create service with journal: %v", err)
	}
	defer service.Close()

	service.SaveSignal("fist", signal.Signal{1, 2})
	service.Match(signal.Signal{1, 2})
	service.DeleteSignal("fist")

	events, err := service.History(10)
	if err != nil {
		t.Fatalf("Failed to read history: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Expected 3 journal events, got %d", len(events))
	}

	kinds := make(map[string]int)
	for _, event := range events {
		kinds[event.Kind]++
	}
	if kinds[journal.KindSave] != 1 || kinds[journal.KindMatch] != 1 || kinds[journal.KindDelete] != 1 {
		t.Errorf("Unexpected event kinds: %v", kinds)
	}

	totals, err := service.EventTotals()
	if err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}
	if totals[journal.KindSave] != 1 || totals[journal.KindMatch] != 1 || totals[journal.KindDelete] != 1 {
		t.Errorf("Unexpected event totals: %v", totals)
	}
}

// TestEventTotalsWithoutJournal tests that totals stay nil when journaling is off
func TestEventTotalsWithoutJournal(t *testing.T) {
	service := setupTestService(t)

	totals, err := service.EventTotals()
	if err != nil {
		t.Fatalf("EventTotals without journal errored: %v", err)
	}
	if totals != nil {
		t.Errorf("Expected nil totals, got %v", totals)
	}
}

// fakeDatastore is an in-memory Datastore used to verify injection.
type fakeDatastore struct {
	saved   map[string][]signal.Signal
	deleted []string
}

func newFakeDatastore() *fakeDatastore {
	return &fakeDatastore{saved: make(map[string][]signal.Signal)}
}

func (f *fakeDatastore) Save(label string, sig signal.Signal) bool {
	f.saved[label] = append(f.saved[label], sig)
	return true
}

func (f *fakeDatastore) Delete(label string) bool {
	if _, ok := f.saved[label]; !ok {
		return false
	}
	delete(f.saved, label)
	f.deleted = append(f.deleted, label)
	return true
}

func (f *fakeDatastore) Labels() []string {
	labels := make([]string, 0, len(f.saved))
	for label := range f.saved {
		labels = append(labels, label)
	}
	return labels
}

func (f *fakeDatastore) Count(label string) int {
	return len(f.saved[label])
}

func (f *fakeDatastore) Signals(label string) []signal.Signal {
	return f.saved[label]
}

func (f *fakeDatastore) Root() string {
	return "fake"
}

// TestServiceWithInjectedDatastore tests that a custom Datastore is honored
func TestServiceWithInjectedDatastore(t *testing.T) {
	clearServiceEnv(t)
	fake := newFakeDatastore()

	service, err := NewService(
		WithDatastore(fake),
		WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	service.SaveSignal("fist", signal.Signal{1, 2, 3})
	if len(fake.saved["fist"]) != 1 {
		t.Error("Expected save to reach the injected datastore")
	}

	if label := service.Match(signal.Signal{1, 2, 3}); label != "fist" {
		t.Errorf("Match through injected datastore = %q, expected fist", label)
	}

	service.DeleteSignal("fist")
	if len(fake.deleted) != 1 {
		t.Error("Expected delete to reach the injected datastore")
	}
}

// BenchmarkServiceMatch benchmarks a full match over a populated dataset
func BenchmarkServiceMatch(b *testing.B) {
	clearServiceEnv(b)
	tmpDir := b.TempDir()

	service, err := NewService(
		WithDataRoot(filepath.Join(tmpDir, "gestures")),
		WithLogger(quietLogger()),
	)
	if err != nil {
		b.Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	labels := []string{"fist", "rest", "wave_in", "wave_out", "spread"}
	for li, label := range labels {
		for i := 0; i < 10; i++ {
			sig := make(signal.Signal, 64)
			for j := range sig {
				sig[j] = float64(li*i+j) * 0.01
			}
			if !service.SaveSignal(label, sig) {
				b.Fatalf("Failed to seed %s sample %d", label, i)
			}
		}
	}

	candidate := make(signal.Signal, 64)
	for j := range candidate {
		candidate[j] = float64(j) * 0.015
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		service.Match(candidate)
	}
}
