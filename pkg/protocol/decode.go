package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/killallgit/agentchat/pkg/chat"
)

// wireFrame holds every field the decoder inspects. Fields stay raw so that a
// wrongly typed value downgrades to a malformed event instead of failing the
// whole unmarshal.
type wireFrame struct {
	Status      json.RawMessage `json:"status"`
	Type        json.RawMessage `json:"type"`
	Content     json.RawMessage `json:"content"`
	ContentType json.RawMessage `json:"content_type"`
	Chunk       json.RawMessage `json:"chunk"`
}

type wireChunk struct {
	Content     json.RawMessage `json:"content"`
	ContentType json.RawMessage `json:"content_type"`
}

// Decode classifies one inbound frame. Rules apply in priority order:
// status, chunk, full message, error notice; anything else is malformed.
func Decode(raw []byte) Event {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return MalformedEvent{Err: newMalformed(raw, "not a JSON object")}
	}

	var f wireFrame
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return MalformedEvent{Err: newMalformed(raw, "invalid JSON: %v", err)}
	}

	if s, ok := asString(f.Status); ok && Status(s).valid() {
		return StatusEvent{Status: Status(s)}
	}

	if present(f.Chunk) {
		block, reason := decodeChunk(f.Chunk)
		if reason != "" {
			return MalformedEvent{Err: newMalformed(raw, "%s", reason)}
		}
		return ChunkEvent{Block: block}
	}

	typ, hasType := asString(f.Type)
	if hasType && MessageType(typ).valid() {
		block, reason := decodeBlock(f.Content, f.ContentType)
		if reason != "" {
			return MalformedEvent{Err: newMalformed(raw, "%s message: %s", typ, reason)}
		}
		return MessageEvent{Type: MessageType(typ), Block: block}
	}

	if hasType && typ == typeError {
		text, ok := asString(f.Content)
		if !ok {
			return MalformedEvent{Err: newMalformed(raw, "error notice without string content")}
		}
		return NoticeEvent{Text: text}
	}

	if hasType {
		return MalformedEvent{Err: newMalformed(raw, "unknown frame type %q", typ)}
	}
	if present(f.Status) {
		return MalformedEvent{Err: newMalformed(raw, "unknown status value")}
	}
	return MalformedEvent{Err: newMalformed(raw, "unrecognized frame shape")}
}

func decodeChunk(raw json.RawMessage) (chat.ContentBlock, string) {
	var c wireChunk
	if err := json.Unmarshal(raw, &c); err != nil {
		return chat.ContentBlock{}, "chunk is not an object"
	}
	block, reason := decodeBlock(c.Content, c.ContentType)
	if reason != "" {
		return chat.ContentBlock{}, "chunk: " + reason
	}
	return block, ""
}

// decodeBlock applies the content_type rule. A missing content_type means
// text; a present but non-string one is rejected.
func decodeBlock(content, contentType json.RawMessage) (chat.ContentBlock, string) {
	text, ok := asString(content)
	if !ok {
		return chat.ContentBlock{}, "content must be a string"
	}
	if !present(contentType) {
		return chat.TextBlock(text), ""
	}
	ct, ok := asString(contentType)
	if !ok {
		return chat.ContentBlock{}, "content_type must be a string"
	}
	return chat.NewBlock(text, ct), ""
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

func asString(raw json.RawMessage) (string, bool) {
	if !present(raw) || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
