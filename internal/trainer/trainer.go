// Package trainer runs a live gesture session: one goroutine consumes
// signal windows from a device source, matches them through the
// service, and applies user commands. Because every dataset mutation
// happens on that goroutine, the service needs no locking here.
package trainer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/himanishpuri/MyoDNA/pkg/logger"
	"github.com/himanishpuri/MyoDNA/pkg/myodna"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/device"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

// Presenter is the UI surface a session talks to. Implementations
// render output and forward user commands through the bound Actions.
type Presenter interface {
	ShowInfo(msg string)
	ShowError(msg string)
	RenderLabels(labels []myodna.LabelInfo)
	RenderMatch(result myodna.MatchResult)
	RenderSignal(sig signal.Signal)

	// Bind registers the callbacks user commands trigger. Called once
	// before Start.
	Bind(actions Actions)
	// Start begins reading user input; Stop ends the session's use of
	// the presenter.
	Start() error
	Stop()
}

// Actions are the user-triggered callbacks a presenter can invoke.
// They are safe to call from the presenter's input goroutine.
type Actions struct {
	Save   func(label string)
	Delete func(label string)
	Labels func()
	Show   func()
	Stop   func()
}

const defaultInterval = 250 * time.Millisecond

// Options tune a session. The zero value is usable.
type Options struct {
	// Interval paces reads from the source so a human can react
	// between windows.
	Interval time.Duration
	Log      myodna.Logger
}

type commandKind int

const (
	cmdSave commandKind = iota
	cmdDelete
	cmdLabels
	cmdShow
)

type command struct {
	kind  commandKind
	label string
}

// Session owns the service, the signal source, and the presenter for
// one live run.
type Session struct {
	service  myodna.Service
	source   device.Source
	ui       Presenter
	log      myodna.Logger
	interval time.Duration

	commands chan command
	stop     chan struct{}
	stopOnce sync.Once

	last signal.Signal
}

// New builds a session. The session takes ownership of the source and
// closes it when Run returns.
func New(service myodna.Service, source device.Source, ui Presenter, opts Options) *Session {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	log := opts.Log
	if log == nil {
		log = logger.GetLogger()
	}
	return &Session{
		service:  service,
		source:   source,
		ui:       ui,
		log:      log,
		interval: interval,
		commands: make(chan command, 16),
		stop:     make(chan struct{}),
	}
}

// Run drives the session until the user stops it, the context is
// canceled, or the presenter fails to start. Pending commands are
// applied before a user-requested stop returns.
func (s *Session) Run(ctx context.Context) error {
	defer s.source.Close()

	s.ui.Bind(Actions{
		Save:   func(label string) { s.enqueue(command{kind: cmdSave, label: label}) },
		Delete: func(label string) { s.enqueue(command{kind: cmdDelete, label: label}) },
		Labels: func() { s.enqueue(command{kind: cmdLabels}) },
		Show:   func() { s.enqueue(command{kind: cmdShow}) },
		Stop:   s.requestStop,
	})

	if err := s.ui.Start(); err != nil {
		return fmt.Errorf("starting presenter: %w", err)
	}
	defer s.ui.Stop()

	s.log.Info("Session started")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	exhausted := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			s.drain()
			s.log.Info("Session stopped")
			return nil
		case cmd := <-s.commands:
			s.handle(cmd)
		case <-ticker.C:
			if exhausted {
				continue
			}
			sig, ok := s.source.Next()
			if !ok {
				exhausted = true
				s.ui.ShowInfo("Signal source drained. Commands still work; quit to finish.")
				continue
			}
			s.last = sig
			s.ui.RenderMatch(s.service.BestMatch(sig))
		}
	}
}

func (s *Session) enqueue(cmd command) {
	select {
	case s.commands <- cmd:
	case <-s.stop:
	}
}

func (s *Session) requestStop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// drain applies commands that were queued before the stop request.
func (s *Session) drain() {
	for {
		select {
		case cmd := <-s.commands:
			s.handle(cmd)
		default:
			return
		}
	}
}

func (s *Session) handle(cmd command) {
	switch cmd.kind {
	case cmdSave:
		if s.last == nil {
			s.ui.ShowError("No signal captured yet, nothing to save")
			return
		}
		if s.service.SaveSignal(cmd.label, s.last) {
			s.ui.ShowInfo(fmt.Sprintf("Saved signal under %q (%d stored)", cmd.label, s.service.SignalCount(cmd.label)))
		} else {
			s.ui.ShowError(fmt.Sprintf("Could not save signal under %q", cmd.label))
		}
	case cmdDelete:
		if s.service.DeleteSignal(cmd.label) {
			s.ui.ShowInfo(fmt.Sprintf("Deleted label %q", cmd.label))
		} else {
			s.ui.ShowError(fmt.Sprintf("Could not delete label %q", cmd.label))
		}
	case cmdLabels:
		s.ui.RenderLabels(s.service.ListLabels())
	case cmdShow:
		if s.last == nil {
			s.ui.ShowError("No signal captured yet")
			return
		}
		s.ui.RenderSignal(s.last)
	}
}
