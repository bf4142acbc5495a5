package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/foxseedlab/rokuon/internal/engine"
	"github.com/gorilla/websocket"
)

const (
	eventBufferSize = 64
	writeTimeout    = 5 * time.Second
	dialTimeout     = 10 * time.Second
)

var ErrBridgeClosed = errors.New("engine bridge closed")

// Bridge speaks to the engine sidecar over a websocket. Frames from the
// sidecar are decoded into engine events; commands are encoded and written
// one at a time.
type Bridge struct {
	url    string
	conn   *websocket.Conn
	events chan engine.Event

	writeMu sync.Mutex
	closed  bool

	closeOnce sync.Once
	done      chan struct{}
}

func NewBridge(url string) *Bridge {
	return &Bridge{
		url:    url,
		events: make(chan engine.Event, eventBufferSize),
		done:   make(chan struct{}),
	}
}

// Connect dials the sidecar and starts the read loop.
func (b *Bridge) Connect(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, resp, err := websocket.DefaultDialer.DialContext(dialCtx, b.url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("failed to connect engine at %s: %w", b.url, err)
	}
	b.conn = conn
	go b.readLoop()
	slog.Info("engine connected", "url", b.url)
	return nil
}

func (b *Bridge) readLoop() {
	defer close(b.events)
	for {
		_, data, err := b.conn.ReadMessage()
		if err != nil {
			select {
			case <-b.done:
			default:
				slog.Warn("engine connection lost", "error", err)
			}
			return
		}
		ev, err := engine.DecodeEvent(data)
		if err != nil {
			slog.Warn("skipping engine frame", "error", err)
			continue
		}
		select {
		case b.events <- ev:
		case <-b.done:
			return
		}
	}
}

func (b *Bridge) Events() <-chan engine.Event {
	return b.events
}

func (b *Bridge) Init(ctx context.Context, opts engine.InitOptions) error {
	return b.send(ctx, engine.Command{
		Command: engine.CommandInit,
		Dev:     opts.Dev,
		APIURL:  opts.APIURL,
	})
}

func (b *Bridge) StartRecording(ctx context.Context, windowHandle, uploadToken string) error {
	return b.send(ctx, engine.Command{
		Command:     engine.CommandStartRecording,
		WindowID:    windowHandle,
		UploadToken: uploadToken,
	})
}

func (b *Bridge) StopRecording(ctx context.Context, windowHandle string) error {
	return b.send(ctx, engine.Command{Command: engine.CommandStopRecording, WindowID: windowHandle})
}

func (b *Bridge) UploadRecording(ctx context.Context, windowHandle string) error {
	return b.send(ctx, engine.Command{Command: engine.CommandUploadRecording, WindowID: windowHandle})
}

func (b *Bridge) send(ctx context.Context, cmd engine.Command) error {
	payload, err := engine.EncodeCommand(cmd)
	if err != nil {
		return err
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if b.conn == nil || b.closed {
		return ErrBridgeClosed
	}

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := b.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if err := b.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("failed to send %s: %w", cmd.Command, err)
	}
	slog.Debug("engine command sent", "command", cmd.Command, "window_handle", cmd.WindowID)
	return nil
}

// Close sends a close frame and tears down the connection. Events() is
// closed once the read loop exits.
func (b *Bridge) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.done)
		b.writeMu.Lock()
		b.closed = true
		conn := b.conn
		if conn != nil {
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
		}
		b.writeMu.Unlock()
		if conn != nil {
			err = conn.Close()
		} else {
			close(b.events)
		}
	})
	return err
}
