package status

import (
	"time"

	"github.com/killallgit/agentchat/pkg/conn"
)

// ConnectionMsg reports a connection status change
type ConnectionMsg struct {
	Status conn.Status
}

// StartStreamingMsg indicates the agent started a response
type StartStreamingMsg struct{}

// StreamProgressMsg updates the in-flight response counters
type StreamProgressMsg struct {
	Chunks int
	Bytes  int
}

// StopStreamingMsg indicates the response ended
type StopStreamingMsg struct{}

// NoticeMsg shows a transient notice. An empty Text clears it.
type NoticeMsg struct {
	Text string
}

// TickMsg updates the timer
type TickMsg time.Time
