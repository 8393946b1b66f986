// Package console is the terminal presenter for live sessions: status
// lines and tables on the way out, a small command language on the way
// in ("save <label>", "delete <label>", "labels", "show", "quit").
package console

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/himanishpuri/MyoDNA/internal/trainer"
	"github.com/himanishpuri/MyoDNA/pkg/myodna"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

const sparklineWidth = 64

// Console renders session output and forwards typed commands to the
// bound actions. Writes happen from the session goroutine, reads from
// the console's own input goroutine.
type Console struct {
	in       io.Reader
	out      io.Writer
	colorize bool

	actions trainer.Actions
	stopped atomic.Bool
	done    chan struct{}

	startOnce sync.Once
	writeMu   sync.Mutex
}

// New builds a console over the given streams. Color is enabled when
// out is a terminal.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:       in,
		out:      out,
		colorize: shouldColorize(out),
		done:     make(chan struct{}),
	}
}

// SetColorize overrides terminal detection.
func (c *Console) SetColorize(enabled bool) {
	c.colorize = enabled
}

func (c *Console) ShowInfo(msg string) {
	c.println(renderStatus(statusInfo, msg, c.colorize))
}

func (c *Console) ShowError(msg string) {
	c.println(renderStatus(statusError, msg, c.colorize))
}

// RenderLabels prints the stored labels as a table.
func (c *Console) RenderLabels(labels []myodna.LabelInfo) {
	if len(labels) == 0 {
		c.ShowInfo("No labels stored yet")
		return
	}

	rows := make([][]string, 0, len(labels))
	total := 0
	for _, l := range labels {
		rows = append(rows, []string{l.Label, strconv.Itoa(l.Samples)})
		total += l.Samples
	}
	c.println(renderTable(
		[]string{"LABEL", "SAMPLES"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
	c.println(fmt.Sprintf("%d labels, %d signals", len(labels), total))
}

// RenderMatch prints one match outcome.
func (c *Console) RenderMatch(result myodna.MatchResult) {
	if result.Known() {
		c.println(renderStatus(statusOK,
			fmt.Sprintf("%s (distance %.4f, compared %d)", result.Label, result.Distance, result.Compared),
			c.colorize))
	} else {
		c.println(renderStatus(statusWarn,
			fmt.Sprintf("no match (compared %d, length mismatches %d)", result.Compared, result.LengthMismatch),
			c.colorize))
	}
	if result.NonFinite > 0 {
		c.println(renderStatus(statusWarn,
			fmt.Sprintf("%d references skipped with unusable distances", result.NonFinite),
			c.colorize))
	}
}

// RenderSignal prints a sparkline of the signal with its peak.
func (c *Console) RenderSignal(sig signal.Signal) {
	if len(sig) == 0 {
		c.ShowInfo("Signal is empty")
		return
	}

	peak := 0.0
	for _, v := range sig {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	c.println(sparkline(sig, sparklineWidth))
	c.println(fmt.Sprintf("%d samples, peak %.3f", len(sig), peak))
}

// Bind registers the session callbacks.
func (c *Console) Bind(actions trainer.Actions) {
	c.actions = actions
}

// Start launches the input loop. It returns immediately; the loop ends
// on EOF, a quit command, or Stop.
func (c *Console) Start() error {
	c.startOnce.Do(func() {
		go c.readLoop()
	})
	return nil
}

// Stop marks the console stopped. A read already blocked on the input
// stream finishes with its current line.
func (c *Console) Stop() {
	c.stopped.Store(true)
}

// Wait blocks until the input loop has ended.
func (c *Console) Wait() {
	<-c.done
}

func (c *Console) readLoop() {
	defer close(c.done)

	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		if c.stopped.Load() {
			return
		}
		c.process(scanner.Text())
		if c.stopped.Load() {
			return
		}
	}

	// Input ended without a quit command. A session nobody can command
	// anymore has no reason to keep running.
	if !c.stopped.Swap(true) && c.actions.Stop != nil {
		c.actions.Stop()
	}
}

func (c *Console) process(line string) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return
	}

	switch strings.ToLower(fields[0]) {
	case "save":
		if len(fields) != 2 {
			c.ShowError("Usage: save <label>")
			return
		}
		if c.actions.Save != nil {
			c.actions.Save(fields[1])
		}
	case "delete":
		if len(fields) != 2 {
			c.ShowError("Usage: delete <label>")
			return
		}
		if c.actions.Delete != nil {
			c.actions.Delete(fields[1])
		}
	case "labels":
		if c.actions.Labels != nil {
			c.actions.Labels()
		}
	case "show":
		if c.actions.Show != nil {
			c.actions.Show()
		}
	case "help":
		c.printHelp()
	case "quit", "exit", "stop", "q":
		c.stopped.Store(true)
		if c.actions.Stop != nil {
			c.actions.Stop()
		}
	default:
		c.ShowError(fmt.Sprintf("Unknown command %q, type help", fields[0]))
	}
}

func (c *Console) printHelp() {
	c.println(strings.Join([]string{
		"Commands:",
		"  save <label>    store the last signal under a label",
		"  delete <label>  remove a label and its signals",
		"  labels          list stored labels",
		"  show            plot the last signal",
		"  quit            end the session",
	}, "\n"))
}

func (c *Console) println(s string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	fmt.Fprintln(c.out, s)
}
