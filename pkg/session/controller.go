// Package session wires the connection, frame decoder, streaming state and
// transcript together. Both the terminal UI and the headless runner drive a
// Controller from a single goroutine.
package session

import (
	"fmt"
	"strings"

	"github.com/killallgit/agentchat/pkg/chat"
	"github.com/killallgit/agentchat/pkg/conn"
	"github.com/killallgit/agentchat/pkg/logger"
	"github.com/killallgit/agentchat/pkg/protocol"
	"github.com/killallgit/agentchat/pkg/stream"
)

// Sender is the slice of conn.Manager the controller needs
type Sender interface {
	SendBytes(data []byte) error
	Status() conn.Status
}

// Options configures a Controller
type Options struct {
	ClientID string
	Encoder  protocol.Encoder
	// History mirrors every appended message to the chat history file
	History bool
}

// Update describes what handling one inbound frame changed
type Update struct {
	Event  protocol.Event
	Result stream.Result
	// Notice is a one-line message for the status area, empty if none
	Notice string
	// TranscriptChanged is set when a message was appended
	TranscriptChanged bool
	// PartialChanged is set when the in-flight response changed
	PartialChanged bool
}

// Terminal reports whether the update ended a response
func (u Update) Terminal() bool {
	switch u.Result.Outcome {
	case stream.OutcomeCommitted, stream.OutcomeEnded, stream.OutcomeDiscarded:
		return true
	}
	return false
}

// Controller is the chat view's model. Not safe for concurrent use.
type Controller struct {
	sender     Sender
	transcript *chat.Transcript
	stream     *stream.Session
	encoder    protocol.Encoder
	clientID   string
	malformed  int
	log        *logger.ComponentLogger
}

func New(sender Sender, opts Options) *Controller {
	transcript := chat.NewTranscript()
	c := &Controller{
		sender:     sender,
		transcript: transcript,
		stream:     stream.NewSession(transcript),
		encoder:    opts.Encoder,
		clientID:   opts.ClientID,
		log:        logger.WithComponent("session"),
	}
	if c.encoder.Format == "" {
		c.encoder = protocol.NewEncoder(protocol.FormatRaw, "")
	}
	if opts.History {
		transcript.OnAppend(mirrorToHistory)
	}
	return c
}

func mirrorToHistory(msg chat.Message) {
	if err := logger.LogChatHistory(string(msg.Role), msg.Text()); err != nil {
		logger.Warn("history write failed: %v", err)
	}
}

// Submit sends user input to the agent. It reports false without error for
// blank input, and false with conn.ErrNotConnected while disconnected. The
// user message is appended only after the frame was written.
func (c *Controller) Submit(text string) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, nil
	}
	if c.sender == nil || c.sender.Status() != conn.StatusConnected {
		return false, conn.ErrNotConnected
	}

	payload, err := c.encoder.Encode(text)
	if err != nil {
		return false, fmt.Errorf("encode input: %w", err)
	}
	if err := c.sender.SendBytes(payload); err != nil {
		return false, fmt.Errorf("send input: %w", err)
	}

	c.transcript.AppendUser(text)
	c.log.Debug("input submitted", "bytes", len(payload), "format", c.encoder.Format)
	return true, nil
}

// Clear empties the transcript. The connection and any in-flight response
// are left alone.
func (c *Controller) Clear() {
	c.transcript.Clear()
	if err := logger.LogChatHistoryMarker("Chat Cleared"); err != nil {
		logger.Warn("history write failed: %v", err)
	}
	c.log.Info("transcript cleared")
}

// HandleFrame decodes one inbound frame and routes it
func (c *Controller) HandleFrame(f conn.Frame) Update {
	return c.HandleEvent(protocol.Decode(f.Data))
}

// HandleEvent routes an already decoded event
func (c *Controller) HandleEvent(ev protocol.Event) Update {
	u := Update{Event: ev}

	switch e := ev.(type) {
	case protocol.MalformedEvent:
		c.malformed++
		reason := "unknown"
		excerpt := ""
		if e.Err != nil {
			reason, excerpt = e.Err.Reason, e.Err.Excerpt
		}
		c.log.Warn("malformed frame ignored", "reason", reason, "excerpt", excerpt, "count", c.malformed)
		u.Notice = fmt.Sprintf("ignored malformed frame: %s", reason)
		return u

	case protocol.NoticeEvent:
		c.log.Warn("agent reported error", "content", e.Text)
		u.Notice = "agent error: " + e.Text
		return u
	}

	u.Result = c.stream.Apply(ev)
	switch u.Result.Outcome {
	case stream.OutcomeCommitted, stream.OutcomeAppended:
		u.TranscriptChanged = true
		u.PartialChanged = u.Result.Outcome == stream.OutcomeCommitted
	case stream.OutcomeStarted, stream.OutcomeChunk, stream.OutcomeEnded:
		u.PartialChanged = true
	case stream.OutcomeDiscarded:
		u.PartialChanged = true
		u.Notice = fmt.Sprintf("response aborted by server (%d chunks discarded)", u.Result.Dropped)
	}
	return u
}

// Messages returns a snapshot of the transcript
func (c *Controller) Messages() []chat.Message {
	return c.transcript.Messages()
}

// Partial returns the in-flight response blocks, if any
func (c *Controller) Partial() []chat.ContentBlock {
	return c.stream.Partial()
}

func (c *Controller) IsStreaming() bool {
	return c.stream.IsStreaming()
}

// Stats returns statistics for the in-flight response
func (c *Controller) Stats() (stream.Stats, bool) {
	return c.stream.Stats()
}

// ConnectionStatus reports the sender's current status
func (c *Controller) ConnectionStatus() conn.Status {
	if c.sender == nil {
		return conn.StatusDisconnected
	}
	return c.sender.Status()
}

// MalformedCount is the number of frames dropped as malformed
func (c *Controller) MalformedCount() int {
	return c.malformed
}

func (c *Controller) ClientID() string {
	return c.clientID
}

// Save writes a YAML snapshot of the transcript to path
func (c *Controller) Save(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("save: path required")
	}
	if err := chat.ExportFile(path, c.clientID, c.transcript.Messages()); err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	c.log.Info("transcript saved", "path", path, "messages", c.transcript.Len())
	return nil
}
