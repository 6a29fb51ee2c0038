// Package protocol decodes inbound agent frames into a closed set of typed
// events and encodes outbound user input.
package protocol

import (
	"fmt"

	"github.com/killallgit/agentchat/pkg/chat"
)

// Status is the value of a {"status": ...} frame
type Status string

const (
	StatusThinking Status = "thinking"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

func (s Status) valid() bool {
	switch s {
	case StatusThinking, StatusComplete, StatusError:
		return true
	}
	return false
}

// MessageType is the value of a full-message frame's "type" field
type MessageType string

const (
	TypePlan     MessageType = "plan"
	TypeFindings MessageType = "findings"
	TypeDone     MessageType = "done"
)

func (t MessageType) valid() bool {
	switch t {
	case TypePlan, TypeFindings, TypeDone:
		return true
	}
	return false
}

// typeError marks a backend-reported error notice ({"type":"error"})
const typeError = "error"

// Event is one decoded inbound frame. The concrete type is one of
// StatusEvent, ChunkEvent, MessageEvent, NoticeEvent or MalformedEvent.
type Event interface {
	fmt.Stringer
	isEvent()
}

// StatusEvent signals a streaming lifecycle transition
type StatusEvent struct {
	Status Status
}

// ChunkEvent carries one partial content block of a streaming response
type ChunkEvent struct {
	Block chat.ContentBlock
}

// MessageEvent carries an already-complete agent message
type MessageEvent struct {
	Type  MessageType
	Block chat.ContentBlock
}

// NoticeEvent is an out-of-band backend error report. It never touches the
// transcript or the streaming state.
type NoticeEvent struct {
	Text string
}

// MalformedEvent is produced for any frame that matches no known shape
type MalformedEvent struct {
	Err *MalformedFrameError
}

func (StatusEvent) isEvent()    {}
func (ChunkEvent) isEvent()     {}
func (MessageEvent) isEvent()   {}
func (NoticeEvent) isEvent()    {}
func (MalformedEvent) isEvent() {}

func (e StatusEvent) String() string {
	return "status:" + string(e.Status)
}

func (e ChunkEvent) String() string {
	return fmt.Sprintf("chunk:%s(%d bytes)", e.Block.Kind, len(e.Block.Text))
}

func (e MessageEvent) String() string {
	return fmt.Sprintf("message:%s:%s(%d bytes)", e.Type, e.Block.Kind, len(e.Block.Text))
}

func (e NoticeEvent) String() string {
	return "notice:" + e.Text
}

func (e MalformedEvent) String() string {
	if e.Err == nil {
		return "malformed"
	}
	return "malformed:" + e.Err.Reason
}
