package uisurface

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/foxseedlab/rokuon/internal/lifecycle"
	"github.com/foxseedlab/rokuon/internal/uisurface"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait       = 5 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = pongWait * 9 / 10
	maxInboundBytes = 4096
	shutdownTimeout = 5 * time.Second
)

// Server exposes the UI channel over a websocket. Only one UI client is
// attached at a time; a new connection replaces the previous one.
type Server struct {
	addr     string
	origins  map[string]struct{}
	router   *gin.Engine
	upgrader websocket.Upgrader

	mu        sync.Mutex
	current   *client
	last      lifecycle.State
	onCommand func(uisurface.Command)
	onReady   func()
}

func NewServer(addr string, allowedOrigins []string) *Server {
	s := &Server{
		addr:    addr,
		origins: make(map[string]struct{}, len(allowedOrigins)),
		last:    lifecycle.State{Meetings: []lifecycle.Recording{}},
	}
	for _, o := range allowedOrigins {
		s.origins[o] = struct{}{}
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/api/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.LastState())
	})
	r.GET("/ws", func(c *gin.Context) {
		s.handleWebSocket(c.Writer, c.Request)
	})
	s.router = r
	return s
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("ui request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) OnCommand(handler func(uisurface.Command)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCommand = handler
}

func (s *Server) OnReady(handler func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReady = handler
}

// Publish hands the snapshot to the attached client, replacing any snapshot
// it has not written yet.
func (s *Server) Publish(state lifecycle.State) {
	state = copyState(state)
	payload, err := uisurface.EncodeState(state)
	if err != nil {
		slog.Error("failed to encode state", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = state
	if s.current != nil {
		s.current.offer(payload)
	}
}

// LastState returns a copy of the most recently published snapshot.
func (s *Server) LastState() lifecycle.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.last)
}

func copyState(state lifecycle.State) lifecycle.State {
	meetings := make([]lifecycle.Recording, len(state.Meetings))
	copy(meetings, state.Meetings)
	state.Meetings = meetings
	return state
}

func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("ui server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.detachAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(s.origins) > 0 {
		_, ok := s.origins[origin]
		return ok
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return isLoopbackHost(u.Hostname())
}

func isLoopbackHost(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ui websocket upgrade failed", "error", err, "origin", r.Header.Get("Origin"))
		return
	}

	c := newClient(uuid.NewString(), conn)
	s.mu.Lock()
	prev := s.current
	s.current = c
	onReady := s.onReady
	s.mu.Unlock()

	if prev != nil {
		slog.Info("ui client replaced", "previous_id", prev.id, "connection_id", c.id)
		prev.close()
	}
	slog.Info("ui client attached", "connection_id", c.id)

	go c.writeLoop()
	if onReady != nil {
		onReady()
	}
	s.readLoop(c)
}

func (s *Server) readLoop(c *client) {
	defer s.detach(c)

	c.conn.SetReadLimit(maxInboundBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("ui client read failed", "connection_id", c.id, "error", err)
			}
			return
		}
		cmd, err := uisurface.DecodeInbound(data)
		if err != nil {
			slog.Debug("dropping ui message", "connection_id", c.id, "error", err)
			continue
		}

		s.mu.Lock()
		handler := s.onCommand
		s.mu.Unlock()
		if handler != nil {
			handler(cmd)
		}
	}
}

func (s *Server) detach(c *client) {
	s.mu.Lock()
	if s.current == c {
		s.current = nil
	}
	s.mu.Unlock()
	c.close()
	slog.Info("ui client detached", "connection_id", c.id)
}

func (s *Server) detachAll() {
	s.mu.Lock()
	c := s.current
	s.current = nil
	s.mu.Unlock()
	if c != nil {
		c.close()
	}
}

type client struct {
	id      string
	conn    *websocket.Conn
	mailbox chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(id string, conn *websocket.Conn) *client {
	return &client{
		id:      id,
		conn:    conn,
		mailbox: make(chan []byte, 1),
		done:    make(chan struct{}),
	}
}

// offer replaces a pending snapshot with payload. Callers hold Server.mu, so
// there is only one producer.
func (c *client) offer(payload []byte) {
	select {
	case <-c.mailbox:
	default:
	}
	c.mailbox <- payload
}

func (c *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.mailbox:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				slog.Debug("ui client write failed", "connection_id", c.id, "error", err)
				c.close()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.close()
				return
			}
		}
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}
