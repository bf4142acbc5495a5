package host

import (
	"context"
	"sync"

	"github.com/foxseedlab/rokuon/internal/engine"
	"github.com/foxseedlab/rokuon/internal/lifecycle"
	"github.com/foxseedlab/rokuon/internal/notify"
	"github.com/foxseedlab/rokuon/internal/repository"
	"github.com/foxseedlab/rokuon/internal/uisurface"
)

type engineCall struct {
	command string
	handle  string
	token   string
}

type fakeEngine struct {
	events chan engine.Event

	mu        sync.Mutex
	calls     []engineCall
	startErr  error
	stopErr   error
	uploadErr error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{events: make(chan engine.Event, 16)}
}

func (f *fakeEngine) Init(context.Context, engine.InitOptions) error { return nil }

func (f *fakeEngine) StartRecording(_ context.Context, handle, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, engineCall{command: "start", handle: handle, token: token})
	return f.startErr
}

func (f *fakeEngine) StopRecording(_ context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, engineCall{command: "stop", handle: handle})
	return f.stopErr
}

func (f *fakeEngine) UploadRecording(_ context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, engineCall{command: "upload", handle: handle})
	return f.uploadErr
}

func (f *fakeEngine) Events() <-chan engine.Event { return f.events }

func (f *fakeEngine) emit(events ...engine.Event) {
	for _, ev := range events {
		f.events <- ev
	}
}

func (f *fakeEngine) callsSnapshot() []engineCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]engineCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeEngine) count(command string) int {
	n := 0
	for _, c := range f.callsSnapshot() {
		if c.command == command {
			n++
		}
	}
	return n
}

type fakeTokens struct {
	mu    sync.Mutex
	token string
	err   error
	gate  chan struct{}
	calls int
}

func (f *fakeTokens) CreateUploadToken(ctx context.Context) (string, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.token, f.err
}

func (f *fakeTokens) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeNotifier struct {
	mu         sync.Mutex
	notices    []notify.Notice
	alerts     []notify.MeetingAlert
	accepts    []func()
	indicators []notify.Indicator
}

func (f *fakeNotifier) Notify(_ context.Context, n notify.Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, n)
}

func (f *fakeNotifier) PresentMeetingAlert(_ context.Context, alert notify.MeetingAlert, accept func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, alert)
	f.accepts = append(f.accepts, accept)
}

func (f *fakeNotifier) SetIndicator(_ context.Context, indicator notify.Indicator) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indicators = append(f.indicators, indicator)
}

func (f *fakeNotifier) noticesSnapshot() []notify.Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.Notice, len(f.notices))
	copy(out, f.notices)
	return out
}

func (f *fakeNotifier) lastIndicator() (notify.Indicator, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.indicators) == 0 {
		return "", false
	}
	return f.indicators[len(f.indicators)-1], true
}

func (f *fakeNotifier) accept(i int) {
	f.mu.Lock()
	fn := f.accepts[i]
	f.mu.Unlock()
	fn()
}

func (f *fakeNotifier) alertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts)
}

type fakeSurface struct {
	mu        sync.Mutex
	published []lifecycle.State
	onCommand func(uisurface.Command)
	onReady   func()
}

func (f *fakeSurface) Publish(state lifecycle.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, state)
}

func (f *fakeSurface) OnCommand(handler func(uisurface.Command)) { f.onCommand = handler }
func (f *fakeSurface) OnReady(handler func())                    { f.onReady = handler }
func (f *fakeSurface) Serve(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (f *fakeSurface) publishCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.published)
}

func (f *fakeSurface) last() (lifecycle.State, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.published) == 0 {
		return lifecycle.State{}, false
	}
	return f.published[len(f.published)-1], true
}

type fakeOpener struct {
	mu     sync.Mutex
	opened []string
	err    error
}

func (f *fakeOpener) Open(_ context.Context, dir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, dir)
	return f.err
}

type fakeRepository struct {
	mu      sync.Mutex
	inserts []repository.InsertRecordingEventInput
}

func (f *fakeRepository) InsertRecordingEvent(_ context.Context, in repository.InsertRecordingEventInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts = append(f.inserts, in)
	return nil
}

func (f *fakeRepository) ListRecordingEvents(context.Context, string) ([]repository.RecordingEvent, error) {
	return nil, nil
}

func (f *fakeRepository) Close() {}

func (f *fakeRepository) kinds() []repository.RecordingEventKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.RecordingEventKind, 0, len(f.inserts))
	for _, in := range f.inserts {
		out = append(out, in.Kind)
	}
	return out
}
