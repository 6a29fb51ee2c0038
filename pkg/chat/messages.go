package chat

import (
	"strings"
	"time"
)

// Role identifies who authored a transcript message
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// BlockKind tags how a content block should be rendered
type BlockKind string

const (
	KindText     BlockKind = "text"
	KindMarkdown BlockKind = "markdown"
)

// ContentTypeMarkdown is the wire content_type that selects a markdown block
const ContentTypeMarkdown = "md"

// ContentBlock is a unit of message content tagged as text or markdown
type ContentBlock struct {
	Kind BlockKind `json:"kind" yaml:"kind"`
	Text string    `json:"text" yaml:"text"`
}

// NewBlock builds a block from a wire {content, content_type} pair.
// "md" yields markdown; every other content type yields text.
func NewBlock(content, contentType string) ContentBlock {
	if contentType == ContentTypeMarkdown {
		return ContentBlock{Kind: KindMarkdown, Text: content}
	}
	return ContentBlock{Kind: KindText, Text: content}
}

func TextBlock(text string) ContentBlock {
	return ContentBlock{Kind: KindText, Text: text}
}

func MarkdownBlock(text string) ContentBlock {
	return ContentBlock{Kind: KindMarkdown, Text: text}
}

func (b ContentBlock) IsMarkdown() bool {
	return b.Kind == KindMarkdown
}

// Message is a finalized transcript entry. The content slice is owned by the
// message; accessors hand out copies.
type Message struct {
	Role      Role           `json:"role" yaml:"role"`
	Content   []ContentBlock `json:"content" yaml:"content"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
}

func NewUserMessage(text string) Message {
	return Message{
		Role:      RoleUser,
		Content:   []ContentBlock{TextBlock(text)},
		Timestamp: time.Now(),
	}
}

func NewAgentMessage(blocks []ContentBlock) Message {
	return Message{
		Role:      RoleAgent,
		Content:   copyBlocks(blocks),
		Timestamp: time.Now(),
	}
}

func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

func (m Message) IsAgent() bool {
	return m.Role == RoleAgent
}

// Text returns the concatenated text of all blocks
func (m Message) Text() string {
	var sb strings.Builder
	for _, b := range m.Content {
		sb.WriteString(b.Text)
	}
	return sb.String()
}

// Blocks returns a copy of the message content
func (m Message) Blocks() []ContentBlock {
	return copyBlocks(m.Content)
}

func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Text()) == ""
}

func (m Message) clone() Message {
	m.Content = copyBlocks(m.Content)
	return m
}

func copyBlocks(blocks []ContentBlock) []ContentBlock {
	if blocks == nil {
		return nil
	}
	out := make([]ContentBlock, len(blocks))
	copy(out, blocks)
	return out
}
