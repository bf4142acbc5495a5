package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/foxseedlab/rokuon/internal/notify"
)

const (
	fanoutQueueSize   = 64
	sinkDeliveryLimit = 10 * time.Second
)

// Fanout delivers to every sink from one background worker so callers on the
// dispatch loop never wait for network I/O. When the queue is full the item
// is dropped with a warning.
type Fanout struct {
	sinks []notify.Notifier

	mu     sync.Mutex
	closed bool
	queue  chan func(ctx context.Context)
	done   chan struct{}
}

func NewFanout(sinks ...notify.Notifier) *Fanout {
	f := &Fanout{
		sinks: sinks,
		queue: make(chan func(ctx context.Context), fanoutQueueSize),
		done:  make(chan struct{}),
	}
	go f.run()
	return f
}

func (f *Fanout) run() {
	defer close(f.done)
	for job := range f.queue {
		f.deliver(job)
	}
}

func (f *Fanout) deliver(job func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(context.Background(), sinkDeliveryLimit)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("notification sink panicked", "panic", r)
		}
	}()
	job(ctx)
}

func (f *Fanout) enqueue(kind string, job func(ctx context.Context)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.queue <- job:
	default:
		slog.Warn("notification queue full; dropping", "kind", kind, "capacity", cap(f.queue))
	}
}

func (f *Fanout) Notify(_ context.Context, n notify.Notice) {
	f.enqueue("notice", func(ctx context.Context) {
		for _, s := range f.sinks {
			s.Notify(ctx, n)
		}
	})
}

func (f *Fanout) PresentMeetingAlert(_ context.Context, alert notify.MeetingAlert, accept func()) {
	var once sync.Once
	acceptOnce := func() { once.Do(accept) }
	f.enqueue("meeting_alert", func(ctx context.Context) {
		for _, s := range f.sinks {
			s.PresentMeetingAlert(ctx, alert, acceptOnce)
		}
	})
}

func (f *Fanout) SetIndicator(_ context.Context, indicator notify.Indicator) {
	f.enqueue("indicator", func(ctx context.Context) {
		for _, s := range f.sinks {
			s.SetIndicator(ctx, indicator)
		}
	})
}

// Close drains queued deliveries, stops the worker and then closes every
// sink that holds a connection.
func (f *Fanout) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	close(f.queue)
	f.mu.Unlock()
	<-f.done

	for _, s := range f.sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logSinkError(fmt.Sprintf("%T", s), err)
			}
		}
	}
}

func logSinkError(sink string, err error) {
	slog.Warn("notification sink failed", "sink", sink, "error", err)
}
