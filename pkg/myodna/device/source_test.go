package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

var (
	_ Source = (*ReplaySource)(nil)
	_ Source = (*SynthSource)(nil)
	_ Source = (*WAVSource)(nil)
)

func TestReplayYieldsInOrder(t *testing.T) {
	source := NewReplay([]signal.Signal{
		{1, 2},
		{3, 4},
		{5, 6},
	})
	defer source.Close()

	expected := []float64{1, 3, 5}
	for i, first := range expected {
		sig, ok := source.Next()
		if !ok {
			t.Fatalf("Expected window %d", i)
		}
		if sig[0] != first {
			t.Errorf("Window %d starts with %v, expected %v", i, sig[0], first)
		}
	}

	if _, ok := source.Next(); ok {
		t.Error("Expected exhaustion after three windows")
	}
}

func TestReplayClonesSignals(t *testing.T) {
	original := signal.Signal{1, 2, 3}
	source := NewReplay([]signal.Signal{original})
	defer source.Close()

	sig, ok := source.Next()
	if !ok {
		t.Fatal("Expected a window")
	}

	sig[0] = 99
	if original[0] != 1 {
		t.Error("Mutating a yielded window changed the source's backing signal")
	}
}

func TestReplayEmpty(t *testing.T) {
	source := NewReplay(nil)
	if _, ok := source.Next(); ok {
		t.Error("Empty replay should yield nothing")
	}
}

func TestReplayClose(t *testing.T) {
	source := NewReplay([]signal.Signal{{1}})
	if err := source.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if _, ok := source.Next(); ok {
		t.Error("Next after Close should report no windows")
	}
}

func TestOpenSessionReplaysRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.csv")
	content := "1,2,3\n4,5\n6,7,8,9\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write session file: %v", err)
	}

	source, err := OpenSession(path)
	if err != nil {
		t.Fatalf("Failed to open session: %v", err)
	}
	defer source.Close()

	lengths := []int{3, 2, 4}
	for i, n := range lengths {
		sig, ok := source.Next()
		if !ok {
			t.Fatalf("Expected signal %d", i)
		}
		if len(sig) != n {
			t.Errorf("Signal %d length = %d, expected %d", i, len(sig), n)
		}
	}
	if _, ok := source.Next(); ok {
		t.Error("Expected exhaustion after three rows")
	}
}

func TestOpenSessionRejectsBadRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("1,2\n3,oops\n"), 0644); err != nil {
		t.Fatalf("Failed to write session file: %v", err)
	}

	if _, err := OpenSession(path); err == nil {
		t.Error("Expected error for non-numeric session row")
	}
}

func TestOpenSessionMissingFile(t *testing.T) {
	if _, err := OpenSession(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("Expected error for missing session file")
	}
}
