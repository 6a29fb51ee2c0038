package stream

import (
	"strings"
	"time"

	"github.com/killallgit/agentchat/pkg/chat"
)

// Buffer accumulates the content blocks of one in-flight response
type Buffer struct {
	blocks     []chat.ContentBlock
	bytes      int
	startTime  time.Time
	lastUpdate time.Time
}

func newBuffer(now time.Time) *Buffer {
	return &Buffer{startTime: now, lastUpdate: now}
}

func (b *Buffer) append(block chat.ContentBlock, now time.Time) {
	b.blocks = append(b.blocks, block)
	b.bytes += len(block.Text)
	b.lastUpdate = now
}

// Blocks returns a copy of the accumulated blocks in arrival order
func (b *Buffer) Blocks() []chat.ContentBlock {
	out := make([]chat.ContentBlock, len(b.blocks))
	copy(out, b.blocks)
	return out
}

// Text returns the concatenation of all accumulated block text
func (b *Buffer) Text() string {
	var sb strings.Builder
	sb.Grow(b.bytes)
	for _, block := range b.blocks {
		sb.WriteString(block.Text)
	}
	return sb.String()
}

func (b *Buffer) Len() int {
	return len(b.blocks)
}

func (b *Buffer) IsEmpty() bool {
	return len(b.blocks) == 0
}

// Stats provides statistics about a streaming response
type Stats struct {
	ChunkCount    int
	ContentLength int
	StartTime     time.Time
	LastUpdate    time.Time
	Duration      time.Duration
}

func (b *Buffer) stats() Stats {
	return Stats{
		ChunkCount:    len(b.blocks),
		ContentLength: b.bytes,
		StartTime:     b.startTime,
		LastUpdate:    b.lastUpdate,
		Duration:      b.lastUpdate.Sub(b.startTime),
	}
}
