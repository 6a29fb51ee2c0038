// Package conn owns the WebSocket connection to the agent backend. It dials,
// serialises writes and delivers inbound frames to registered handlers from a
// single reader goroutine in arrival order.
package conn

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/killallgit/agentchat/pkg/logger"
)

var (
	// ErrNotConnected is returned by Send when the connection is not open
	ErrNotConnected = errors.New("not connected")
	// ErrAlreadyConnected is returned by Connect on a live manager
	ErrAlreadyConnected = errors.New("already connected")
)

const closeGrace = 2 * time.Second

// Status is the connection lifecycle state
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Frame is one inbound WebSocket message
type Frame struct {
	Data     []byte
	Received time.Time
}

// Config holds the dial and I/O settings for a Manager
type Config struct {
	URL              string
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	ReadLimit        int64
	Header           http.Header
}

// Manager is an explicitly constructed connection handle. Handlers must be
// registered before Connect.
type Manager struct {
	cfg Config
	log *logger.ComponentLogger

	mu             sync.RWMutex
	conn           *websocket.Conn
	status         Status
	done           chan struct{}
	frameHandlers  []func(Frame)
	statusHandlers []func(Status)

	writeMu sync.Mutex
}

func New(cfg Config) *Manager {
	return &Manager{
		cfg:    cfg,
		log:    logger.WithComponent("conn"),
		status: StatusDisconnected,
	}
}

// URL returns the endpoint the manager dials
func (m *Manager) URL() string {
	return m.cfg.URL
}

// OnFrame registers a handler for inbound frames. Handlers run on the reader
// goroutine, never concurrently.
func (m *Manager) OnFrame(h func(Frame)) {
	if h == nil {
		return
	}
	m.mu.Lock()
	m.frameHandlers = append(m.frameHandlers, h)
	m.mu.Unlock()
}

// OnStatus registers a handler for status transitions
func (m *Manager) OnStatus(h func(Status)) {
	if h == nil {
		return
	}
	m.mu.Lock()
	m.statusHandlers = append(m.statusHandlers, h)
	m.mu.Unlock()
}

func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Manager) IsConnected() bool {
	return m.Status() == StatusConnected
}

// Done is closed when the current connection's reader exits. It returns nil
// before the first successful Connect.
func (m *Manager) Done() <-chan struct{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.done
}

// Connect dials the configured URL and starts the reader goroutine
func (m *Manager) Connect(ctx context.Context) error {
	if !m.transition(StatusDisconnected, StatusConnecting) {
		return ErrAlreadyConnected
	}
	m.log.Info("connecting", "url", m.cfg.URL)

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: m.cfg.HandshakeTimeout,
	}
	c, resp, err := dialer.DialContext(ctx, m.cfg.URL, m.cfg.Header)
	if err != nil {
		m.setStatus(StatusDisconnected)
		if resp != nil {
			m.log.Error("handshake rejected", "url", m.cfg.URL, "http_status", resp.StatusCode)
			return fmt.Errorf("dial %s: %w (http %d)", m.cfg.URL, err, resp.StatusCode)
		}
		m.log.Error("dial failed", "url", m.cfg.URL, "error", err)
		return fmt.Errorf("dial %s: %w", m.cfg.URL, err)
	}
	if m.cfg.ReadLimit > 0 {
		c.SetReadLimit(m.cfg.ReadLimit)
	}

	done := make(chan struct{})
	m.mu.Lock()
	m.conn = c
	m.done = done
	m.mu.Unlock()

	m.setStatus(StatusConnected)
	m.log.Info("connected", "url", m.cfg.URL)

	go m.readLoop(c, done)
	return nil
}

func (m *Manager) readLoop(c *websocket.Conn, done chan struct{}) {
	defer func() {
		c.Close()
		m.mu.Lock()
		if m.conn == c {
			m.conn = nil
		}
		m.mu.Unlock()
		m.setStatus(StatusDisconnected)
		close(done)
	}()

	for {
		msgType, data, err := c.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
				errors.Is(err, websocket.ErrCloseSent) {
				m.log.Info("connection closed")
			} else {
				m.log.Warn("read failed", "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}

		frame := Frame{Data: data, Received: time.Now()}
		m.mu.RLock()
		handlers := m.frameHandlers
		m.mu.RUnlock()
		for _, h := range handlers {
			h(frame)
		}
	}
}

// Send writes text as one text frame. It does not wait for any reply.
func (m *Manager) Send(text string) error {
	return m.SendBytes([]byte(text))
}

// SendBytes writes data as one text frame
func (m *Manager) SendBytes(data []byte) error {
	m.mu.RLock()
	c, status := m.conn, m.status
	m.mu.RUnlock()
	if status != StatusConnected || c == nil {
		return ErrNotConnected
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if m.cfg.WriteTimeout > 0 {
		c.SetWriteDeadline(time.Now().Add(m.cfg.WriteTimeout))
	}
	if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
		m.log.Warn("write failed", "error", err)
		return fmt.Errorf("write frame: %w", err)
	}
	m.log.Debug("frame sent", "bytes", len(data))
	return nil
}

// Close sends a close frame, closes the socket and waits briefly for the
// reader to exit. Closing an unconnected manager is a no-op.
func (m *Manager) Close() error {
	m.mu.RLock()
	c, done := m.conn, m.done
	m.mu.RUnlock()
	if c == nil {
		return nil
	}

	m.writeMu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	werr := c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	m.writeMu.Unlock()

	err := c.Close()

	select {
	case <-done:
	case <-time.After(closeGrace):
		m.log.Warn("reader did not exit after close")
	}

	if err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("close connection: %w", err)
	}
	if werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
		m.log.Debug("close frame not sent", "error", werr)
	}
	return nil
}

func (m *Manager) setStatus(s Status) {
	m.mu.RLock()
	from := m.status
	m.mu.RUnlock()
	if from != s {
		m.transition(from, s)
	}
}

// transition moves from one status to another and notifies handlers. It
// reports false if the current status is not from.
func (m *Manager) transition(from, s Status) bool {
	m.mu.Lock()
	if m.status != from {
		m.mu.Unlock()
		return false
	}
	prev := m.status
	m.status = s
	handlers := m.statusHandlers
	m.mu.Unlock()

	m.log.Debug("status changed", "from", prev, "to", s)
	for _, h := range handlers {
		h(s)
	}
	return true
}
