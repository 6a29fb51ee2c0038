package headless

import (
	"fmt"
	"io"
	"strings"

	"github.com/killallgit/agentchat/pkg/chat"
	"github.com/killallgit/agentchat/pkg/protocol"
	"github.com/killallgit/agentchat/pkg/render"
	"github.com/killallgit/agentchat/pkg/session"
	"github.com/killallgit/agentchat/pkg/stream"
)

// Output writes controller updates as a plain line-oriented stream
type Output struct {
	out      io.Writer
	errOut   io.Writer
	renderer *render.Renderer
	midLine  bool
}

// NewOutput creates an output handler. renderer may be nil.
func NewOutput(out, errOut io.Writer, renderer *render.Renderer) *Output {
	return &Output{out: out, errOut: errOut, renderer: renderer}
}

// Update prints what one controller update changed. Chunks are written as
// they arrive; full messages are written whole.
func (o *Output) Update(u session.Update) {
	switch u.Result.Outcome {
	case stream.OutcomeChunk:
		if ev, ok := u.Event.(protocol.ChunkEvent); ok {
			o.write(ev.Block.Text)
		}
	case stream.OutcomeCommitted, stream.OutcomeEnded:
		o.endLine()
	case stream.OutcomeAppended:
		if ev, ok := u.Event.(protocol.MessageEvent); ok {
			o.endLine()
			o.write(fmt.Sprintf("[%s] %s", ev.Type, o.block(ev.Block)))
			o.endLine()
		}
	case stream.OutcomeDiscarded:
		o.endLine()
	}

	if u.Notice != "" {
		o.Notice(u.Notice)
	}
}

// Notice writes a diagnostic line to the error stream
func (o *Output) Notice(text string) {
	o.endLine()
	fmt.Fprintf(o.errOut, "! %s\n", text)
}

// Error prints an error message to the error stream
func (o *Output) Error(err error) {
	o.Notice("error: " + err.Error())
}

func (o *Output) block(b chat.ContentBlock) string {
	if o.renderer == nil {
		return b.Text
	}
	return o.renderer.Block(b)
}

func (o *Output) write(s string) {
	if s == "" {
		return
	}
	io.WriteString(o.out, s)
	o.midLine = !strings.HasSuffix(s, "\n")
}

func (o *Output) endLine() {
	if o.midLine {
		io.WriteString(o.out, "\n")
		o.midLine = false
	}
}
