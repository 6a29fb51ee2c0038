package tui

import (
	"sync"

	"github.com/killallgit/agentchat/pkg/conn"
	"github.com/killallgit/agentchat/pkg/tui/chat"
)

const (
	frameBuffer  = 256
	statusBuffer = 16
)

// Bridge forwards connection callbacks onto channels read by the UI loop.
// Sends block while the UI is busy, which keeps frames in arrival order.
type Bridge struct {
	frames   chan conn.Frame
	statuses chan conn.Status
	stop     chan struct{}
	once     sync.Once
}

// NewBridge subscribes to m. Call before m.Connect so no transition is missed.
func NewBridge(m *conn.Manager) *Bridge {
	b := &Bridge{
		frames:   make(chan conn.Frame, frameBuffer),
		statuses: make(chan conn.Status, statusBuffer),
		stop:     make(chan struct{}),
	}
	m.OnFrame(func(f conn.Frame) {
		select {
		case b.frames <- f:
		case <-b.stop:
		}
	})
	m.OnStatus(func(s conn.Status) {
		select {
		case b.statuses <- s:
		case <-b.stop:
		}
	})
	return b
}

// Events returns the receive side for the chat model
func (b *Bridge) Events() chat.Events {
	return chat.Events{Frames: b.frames, Status: b.statuses}
}

// Stop releases any handler blocked on a full channel
func (b *Bridge) Stop() {
	b.once.Do(func() { close(b.stop) })
}
