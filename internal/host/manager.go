package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/foxseedlab/rokuon/internal/config"
	"github.com/foxseedlab/rokuon/internal/engine"
	"github.com/foxseedlab/rokuon/internal/folder"
	"github.com/foxseedlab/rokuon/internal/lifecycle"
	"github.com/foxseedlab/rokuon/internal/notify"
	"github.com/foxseedlab/rokuon/internal/repository"
	"github.com/foxseedlab/rokuon/internal/uisurface"
	"github.com/foxseedlab/rokuon/internal/uploadtoken"
)

const inputBufferSize = 64

var (
	ErrEngineClosed   = errors.New("engine event stream closed")
	ErrManagerStopped = errors.New("manager stopped")
)

// Manager owns the lifecycle state and is its only writer. Engine events and
// everything submitted through Submit, AcceptAlert or SurfaceReady are handled
// one at a time on the goroutine running Run.
type Manager struct {
	cfg      *config.Config
	store    *lifecycle.Store
	engine   engine.Adapter
	tokens   uploadtoken.Provider
	notifier notify.Notifier
	surface  uisurface.Surface
	folder   folder.Opener
	journal  *journal

	inputs  chan input
	stopped chan struct{}
	now     func() time.Time
	loc     *time.Location
}

// input is anything other than an engine event that the dispatch loop handles.
type input interface {
	isInput()
}

type commandInput struct{ cmd uisurface.Command }

type alertAccepted struct{ windowHandle string }

type surfaceReady struct{}

type tokenResult struct {
	windowHandle string
	token        string
	err          error
}

func (commandInput) isInput()  {}
func (alertAccepted) isInput() {}
func (surfaceReady) isInput()  {}
func (tokenResult) isInput()   {}

func NewManager(cfg *config.Config, adapter engine.Adapter, tokens uploadtoken.Provider, notifier notify.Notifier, surface uisurface.Surface, opener folder.Opener, repo repository.Repository) *Manager {
	m := &Manager{
		cfg:      cfg,
		store:    lifecycle.NewStore(),
		engine:   adapter,
		tokens:   tokens,
		notifier: notifier,
		surface:  surface,
		folder:   opener,
		journal:  newJournal(repo),
		inputs:   make(chan input, inputBufferSize),
		stopped:  make(chan struct{}),
		now:      time.Now,
		loc:      cfg.TitleLocation(),
	}
	surface.OnCommand(func(cmd uisurface.Command) {
		if err := m.Submit(context.Background(), cmd); err != nil {
			slog.Warn("ui command dropped", "command", cmd.CommandName(), "error", err)
		}
	})
	surface.OnReady(m.SurfaceReady)
	return m
}

// Run is the dispatch loop. It returns ErrEngineClosed when the engine event
// channel closes and ctx.Err() when ctx is done. Run must be called once.
func (m *Manager) Run(ctx context.Context) error {
	defer close(m.stopped)
	defer m.journal.close()

	slog.Info("lifecycle host started", "auto_record", m.cfg.AutoRecord)
	events := m.engine.Events()
	for {
		select {
		case <-ctx.Done():
			slog.Info("lifecycle host stopping", "reason", ctx.Err())
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				slog.Error("engine event stream closed")
				return ErrEngineClosed
			}
			m.handleEngineEvent(ctx, ev)
		case in := <-m.inputs:
			if !m.drainEngineEvents(ctx, events) {
				slog.Error("engine event stream closed")
				return ErrEngineClosed
			}
			m.guard(ctx, fmt.Sprintf("%T", in), func() { m.handleInput(ctx, in) })
		}
	}
}

// drainEngineEvents handles the engine events that were already delivered
// when an input was dequeued, so an input never overtakes an earlier event.
// It reports false when the engine stream turned out to be closed.
func (m *Manager) drainEngineEvents(ctx context.Context, events <-chan engine.Event) bool {
	for n := len(events); n > 0; n-- {
		ev, ok := <-events
		if !ok {
			return false
		}
		m.handleEngineEvent(ctx, ev)
	}
	return true
}

func (m *Manager) handleEngineEvent(ctx context.Context, ev engine.Event) {
	m.guard(ctx, string(ev.EventName()), func() { m.HandleEvent(ctx, ev) })
}

func (m *Manager) handleInput(ctx context.Context, in input) {
	switch v := in.(type) {
	case commandInput:
		m.HandleCommand(ctx, v.cmd)
	case alertAccepted:
		m.acceptAlert(ctx, v.windowHandle)
	case surfaceReady:
		slog.Info("ui surface ready; sending state")
		m.broadcast()
	case tokenResult:
		m.finishStartRecording(ctx, v)
	}
}

// guard reports a handler panic to the user before letting it crash the
// process.
func (m *Manager) guard(ctx context.Context, source string, fn func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		slog.Error("lifecycle handler panicked", "source", source, "panic", r)
		m.notifier.Notify(ctx, notify.Notice{
			Level: notify.LevelError,
			Title: titleUnexpectedError,
			Body:  unexpectedErrorBody(r),
		})
		panic(r)
	}()
	fn()
}

// Submit queues a UI command for the dispatch loop.
func (m *Manager) Submit(ctx context.Context, cmd uisurface.Command) error {
	select {
	case <-m.stopped:
		return ErrManagerStopped
	default:
	}
	select {
	case m.inputs <- commandInput{cmd: cmd}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-m.stopped:
		return ErrManagerStopped
	}
}

// AcceptAlert starts the recording flow for a meeting whose alert the user
// accepted.
func (m *Manager) AcceptAlert(windowHandle string) {
	m.enqueue(alertAccepted{windowHandle: windowHandle})
}

// SurfaceReady asks for an immediate broadcast to a freshly attached UI.
func (m *Manager) SurfaceReady() {
	m.enqueue(surfaceReady{})
}

func (m *Manager) enqueue(in input) {
	select {
	case <-m.stopped:
		return
	default:
	}
	select {
	case m.inputs <- in:
	case <-m.stopped:
		slog.Debug("manager stopped; dropping input", "input", fmt.Sprintf("%T", in))
	}
}

// State returns a snapshot of the current lifecycle state. It must only be
// called from the dispatch loop or while Run is not executing.
func (m *Manager) State() lifecycle.State {
	return m.store.Snapshot()
}

func (m *Manager) broadcast() {
	m.surface.Publish(m.store.Snapshot())
}

func (m *Manager) notifyInfo(ctx context.Context, title, body string) {
	m.notifier.Notify(ctx, notify.Notice{Level: notify.LevelInfo, Title: title, Body: body})
}

func (m *Manager) notifyError(ctx context.Context, title, body string) {
	m.notifier.Notify(ctx, notify.Notice{Level: notify.LevelError, Title: title, Body: body})
	m.notifier.SetIndicator(ctx, notify.IndicatorAttention)
}
