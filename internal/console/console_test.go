package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/himanishpuri/MyoDNA/internal/trainer"
	"github.com/himanishpuri/MyoDNA/pkg/myodna"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

type recordedActions struct {
	saves   []string
	deletes []string
	labels  int
	shows   int
	stops   int
}

func bindRecording(c *Console) *recordedActions {
	rec := &recordedActions{}
	c.Bind(trainer.Actions{
		Save:   func(label string) { rec.saves = append(rec.saves, label) },
		Delete: func(label string) { rec.deletes = append(rec.deletes, label) },
		Labels: func() { rec.labels++ },
		Show:   func() { rec.shows++ },
		Stop:   func() { rec.stops++ },
	})
	return rec
}

func newTestConsole(input string) (*Console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	c := New(strings.NewReader(input), out)
	c.SetColorize(false)
	return c, out
}

func TestProcessDispatchesCommands(t *testing.T) {
	c, _ := newTestConsole("")
	rec := bindRecording(c)

	c.process("save fist")
	c.process("delete rest")
	c.process("labels")
	c.process("show")

	if len(rec.saves) != 1 || rec.saves[0] != "fist" {
		t.Errorf("saves = %v, expected [fist]", rec.saves)
	}
	if len(rec.deletes) != 1 || rec.deletes[0] != "rest" {
		t.Errorf("deletes = %v, expected [rest]", rec.deletes)
	}
	if rec.labels != 1 {
		t.Errorf("labels calls = %d, expected 1", rec.labels)
	}
	if rec.shows != 1 {
		t.Errorf("show calls = %d, expected 1", rec.shows)
	}
}

func TestProcessSaveNeedsLabel(t *testing.T) {
	c, out := newTestConsole("")
	rec := bindRecording(c)

	c.process("save")
	if len(rec.saves) != 0 {
		t.Errorf("save dispatched without a label: %v", rec.saves)
	}
	if !strings.Contains(out.String(), "Usage: save") {
		t.Errorf("Expected usage message, got %q", out.String())
	}
}

func TestProcessUnknownCommand(t *testing.T) {
	c, out := newTestConsole("")
	bindRecording(c)

	c.process("frobnicate")
	if !strings.Contains(out.String(), "Unknown command") {
		t.Errorf("Expected unknown-command message, got %q", out.String())
	}
}

func TestProcessIgnoresBlankLine(t *testing.T) {
	c, out := newTestConsole("")
	bindRecording(c)

	c.process("   ")
	if out.Len() != 0 {
		t.Errorf("Blank line produced output: %q", out.String())
	}
}

func TestQuitStopsLoop(t *testing.T) {
	c, _ := newTestConsole("labels\nquit\nsave never\n")
	rec := bindRecording(c)

	if err := c.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	c.Wait()

	if rec.labels != 1 {
		t.Errorf("labels calls = %d, expected 1", rec.labels)
	}
	if rec.stops != 1 {
		t.Errorf("stop calls = %d, expected 1", rec.stops)
	}
	if len(rec.saves) != 0 {
		t.Errorf("Commands after quit were processed: %v", rec.saves)
	}
}

func TestLoopEndsOnEOF(t *testing.T) {
	c, _ := newTestConsole("labels\n")
	rec := bindRecording(c)

	if err := c.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	c.Wait()

	if rec.labels != 1 {
		t.Errorf("labels calls = %d, expected 1", rec.labels)
	}
	if rec.stops != 1 {
		t.Errorf("EOF should end the session once, got %d stop calls", rec.stops)
	}
}

func TestRenderLabelsTable(t *testing.T) {
	c, out := newTestConsole("")

	c.RenderLabels([]myodna.LabelInfo{
		{Label: "fist", Samples: 3},
		{Label: "rest", Samples: 2},
	})

	rendered := out.String()
	for _, want := range []string{"LABEL", "SAMPLES", "fist", "rest", "2 labels, 5 signals"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Table output missing %q:\n%s", want, rendered)
		}
	}
}

func TestRenderLabelsEmpty(t *testing.T) {
	c, out := newTestConsole("")
	c.RenderLabels(nil)
	if !strings.Contains(out.String(), "No labels stored yet") {
		t.Errorf("Expected empty-dataset message, got %q", out.String())
	}
}

func TestRenderMatch(t *testing.T) {
	c, out := newTestConsole("")

	c.RenderMatch(myodna.MatchResult{Label: "fist", Distance: 0.25, Compared: 4})
	if !strings.Contains(out.String(), "fist") || !strings.Contains(out.String(), "0.2500") {
		t.Errorf("Match output missing label or distance: %q", out.String())
	}

	out.Reset()
	c.RenderMatch(myodna.MatchResult{Label: "unknown", Compared: 0, LengthMismatch: 3})
	if !strings.Contains(out.String(), "no match") {
		t.Errorf("Expected no-match line, got %q", out.String())
	}

	out.Reset()
	c.RenderMatch(myodna.MatchResult{Label: "fist", Distance: 1, Compared: 5, NonFinite: 2})
	if !strings.Contains(out.String(), "2 references skipped") {
		t.Errorf("Expected skipped-reference warning, got %q", out.String())
	}
}

func TestRenderSignalSparkline(t *testing.T) {
	c, out := newTestConsole("")

	c.RenderSignal(signal.Signal{0, 1, 0, -1})
	rendered := out.String()

	if !strings.Contains(rendered, "▅█▅▁") {
		t.Errorf("Sparkline mismatch: %q", rendered)
	}
	if !strings.Contains(rendered, "4 samples, peak 1.000") {
		t.Errorf("Stats line mismatch: %q", rendered)
	}
}

func TestSparklineDownsamples(t *testing.T) {
	sig := make(signal.Signal, 256)
	for i := range sig {
		sig[i] = float64(i%16) / 16
	}

	line := sparkline(sig, 64)
	if runes := len([]rune(line)); runes != 64 {
		t.Errorf("Sparkline width = %d runes, expected 64", runes)
	}
}

func TestRenderStatusColor(t *testing.T) {
	colored := renderStatus(statusError, "boom", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Errorf("Expected colored status line, got %q", colored)
	}

	plain := renderStatus(statusError, "boom", false)
	if plain != "[ERROR] boom" {
		t.Errorf("Plain status = %q", plain)
	}
}
