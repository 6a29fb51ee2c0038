// Package stream tracks the assembly of streamed agent responses and commits
// or discards them against the transcript.
package stream

import (
	"errors"
	"time"

	"github.com/killallgit/agentchat/pkg/chat"
	"github.com/killallgit/agentchat/pkg/logger"
	"github.com/killallgit/agentchat/pkg/protocol"
)

// ErrStreamAborted is reported when the server ends a response with an error status
var ErrStreamAborted = errors.New("stream aborted by server")

// State is the streaming session state
type State int

const (
	StateIdle State = iota
	StateStreaming
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// Outcome describes what applying an event did
type Outcome int

const (
	// OutcomeIgnored means the event caused no state change
	OutcomeIgnored Outcome = iota
	// OutcomeStarted means a new buffer was opened
	OutcomeStarted
	// OutcomeChunk means a block was appended to the open buffer
	OutcomeChunk
	// OutcomeCommitted means the buffer became a transcript message
	OutcomeCommitted
	// OutcomeEnded means a stream completed with nothing to commit
	OutcomeEnded
	// OutcomeDiscarded means the buffer was dropped on a server error
	OutcomeDiscarded
	// OutcomeAppended means a full message went straight to the transcript
	OutcomeAppended
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeStarted:
		return "started"
	case OutcomeChunk:
		return "chunk"
	case OutcomeCommitted:
		return "committed"
	case OutcomeEnded:
		return "ended"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeAppended:
		return "appended"
	default:
		return "unknown"
	}
}

// Result reports the effect of one Apply call
type Result struct {
	Outcome Outcome
	// Message is set for OutcomeCommitted and OutcomeAppended
	Message *chat.Message
	// Err is ErrStreamAborted for OutcomeDiscarded
	Err error
	// Dropped counts blocks thrown away by a discard or a thinking reset
	Dropped int
}

// Changed reports whether the transcript or the partial response changed
func (r Result) Changed() bool {
	return r.Outcome != OutcomeIgnored
}

// Session is the Idle/Streaming state machine. At most one buffer exists at
// a time. Not safe for concurrent use.
type Session struct {
	state      State
	buf        *Buffer
	transcript *chat.Transcript
	now        func() time.Time
	log        *logger.ComponentLogger
}

func NewSession(transcript *chat.Transcript) *Session {
	return &Session{
		state:      StateIdle,
		transcript: transcript,
		now:        time.Now,
		log:        logger.WithComponent("stream"),
	}
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) IsStreaming() bool {
	return s.state == StateStreaming
}

// Partial returns the blocks received so far for the in-flight response
func (s *Session) Partial() []chat.ContentBlock {
	if s.buf == nil {
		return nil
	}
	return s.buf.Blocks()
}

// PartialText returns the concatenated text received so far
func (s *Session) PartialText() string {
	if s.buf == nil {
		return ""
	}
	return s.buf.Text()
}

// Stats returns statistics for the in-flight response
func (s *Session) Stats() (Stats, bool) {
	if s.buf == nil {
		return Stats{}, false
	}
	return s.buf.stats(), true
}

// Apply feeds one decoded event through the state machine
func (s *Session) Apply(ev protocol.Event) Result {
	switch e := ev.(type) {
	case protocol.StatusEvent:
		switch e.Status {
		case protocol.StatusThinking:
			return s.start()
		case protocol.StatusComplete:
			return s.complete()
		case protocol.StatusError:
			return s.abort()
		}
	case protocol.ChunkEvent:
		return s.chunk(e.Block)
	case protocol.MessageEvent:
		msg := s.transcript.AppendAgent([]chat.ContentBlock{e.Block})
		s.log.Debug("full message appended", "type", e.Type, "kind", e.Block.Kind)
		return Result{Outcome: OutcomeAppended, Message: &msg}
	}
	return Result{Outcome: OutcomeIgnored}
}

func (s *Session) start() Result {
	dropped := 0
	if s.buf != nil {
		dropped = s.buf.Len()
		if dropped > 0 {
			s.log.Warn("thinking while streaming, resetting buffer", "dropped_blocks", dropped)
		}
	}
	s.state = StateStreaming
	s.buf = newBuffer(s.now())
	return Result{Outcome: OutcomeStarted, Dropped: dropped}
}

func (s *Session) chunk(block chat.ContentBlock) Result {
	if s.state == StateIdle {
		s.log.Debug("chunk without thinking, starting implicitly")
		s.state = StateStreaming
		s.buf = newBuffer(s.now())
	}
	s.buf.append(block, s.now())
	return Result{Outcome: OutcomeChunk}
}

func (s *Session) complete() Result {
	if s.state == StateIdle {
		return Result{Outcome: OutcomeIgnored}
	}
	buf := s.buf
	s.state = StateIdle
	s.buf = nil

	if buf == nil || buf.IsEmpty() {
		return Result{Outcome: OutcomeEnded}
	}

	msg := s.transcript.AppendAgent(buf.Blocks())
	st := buf.stats()
	s.log.Debug("stream committed", "chunks", st.ChunkCount, "bytes", st.ContentLength, "duration", st.Duration)
	return Result{Outcome: OutcomeCommitted, Message: &msg}
}

func (s *Session) abort() Result {
	if s.state == StateIdle {
		return Result{Outcome: OutcomeIgnored}
	}
	dropped := 0
	if s.buf != nil {
		dropped = s.buf.Len()
	}
	s.state = StateIdle
	s.buf = nil
	s.log.Info("stream discarded on server error", "dropped_blocks", dropped)
	return Result{Outcome: OutcomeDiscarded, Err: ErrStreamAborted, Dropped: dropped}
}
