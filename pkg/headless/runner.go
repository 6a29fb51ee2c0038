// Package headless runs a chat session without the terminal UI. Input lines
// come from a reader and agent output is streamed to a writer.
package headless

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/killallgit/agentchat/pkg/conn"
	"github.com/killallgit/agentchat/pkg/logger"
	"github.com/killallgit/agentchat/pkg/protocol"
	"github.com/killallgit/agentchat/pkg/render"
	"github.com/killallgit/agentchat/pkg/session"
	"github.com/killallgit/agentchat/pkg/stream"
)

// ErrConnectionClosed is returned when the server closes the connection
// while a response is still expected
var ErrConnectionClosed = errors.New("connection closed by server")

// Options configures a headless run
type Options struct {
	// Prompt is sent once; the run ends when its response ends
	Prompt   string
	In       io.Reader
	Out      io.Writer
	ErrOut   io.Writer
	Renderer *render.Renderer
}

// Connection is the part of conn.Manager the runner drives
type Connection interface {
	OnFrame(func(conn.Frame))
	Connect(ctx context.Context) error
	Done() <-chan struct{}
	Close() error
}

type runner struct {
	ctrl   *session.Controller
	output *Output
	frames chan conn.Frame
	// pending counts submitted inputs whose response has not ended
	pending int
	// inputDone is set once no more input will be submitted
	inputDone bool
	single    bool
	aborted   bool
	// doneSeen is set when a done message ended the current response, so
	// the status frame that may follow it is not counted again
	doneSeen bool
	log       *logger.ComponentLogger
}

// Run connects c, then submits either opts.Prompt or every line read from
// opts.In, streaming responses to opts.Out. It returns once input is
// exhausted and the last response has ended.
func Run(ctx context.Context, c Connection, ctrl *session.Controller, opts Options) error {
	r := &runner{
		ctrl:   ctrl,
		output: NewOutput(opts.Out, opts.ErrOut, opts.Renderer),
		frames: make(chan conn.Frame, 256),
		single: opts.Prompt != "",
		log:    logger.WithComponent("headless"),
	}
	stop := make(chan struct{})
	c.OnFrame(func(f conn.Frame) {
		select {
		case r.frames <- f:
		case <-stop:
		}
	})

	if err := c.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer c.Close()
	defer close(stop)

	var lines <-chan string
	if r.single {
		if err := r.submit(opts.Prompt); err != nil {
			return err
		}
		r.inputDone = true
	} else {
		lines = readLines(ctx, opts.In)
	}

	return r.loop(ctx, lines, c.Done())
}

func (r *runner) loop(ctx context.Context, lines <-chan string, closed <-chan struct{}) error {
	for {
		if r.inputDone && r.pending == 0 {
			if r.single && r.aborted {
				return stream.ErrStreamAborted
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				lines = nil
				r.inputDone = true
				continue
			}
			if err := r.handleLine(line); err != nil {
				return err
			}

		case f := <-r.frames:
			r.handleFrame(f)

		case <-closed:
			r.drain()
			if r.pending > 0 {
				return ErrConnectionClosed
			}
			return nil
		}
	}
}

func (r *runner) handleLine(line string) error {
	if session.IsCommand(line) {
		r.output.Notice(r.ctrl.RunCommand(line))
		return nil
	}
	return r.submit(line)
}

func (r *runner) submit(text string) error {
	ok, err := r.ctrl.Submit(text)
	if err != nil {
		r.output.Error(err)
		return fmt.Errorf("failed to send input: %w", err)
	}
	if ok {
		r.pending++
	}
	return nil
}

func (r *runner) handleFrame(f conn.Frame) {
	wasStreaming := r.ctrl.IsStreaming()
	u := r.ctrl.HandleFrame(f)
	r.output.Update(u)

	switch {
	case startsResponse(u, wasStreaming):
		r.doneSeen = false
	case isDone(u.Event):
		r.doneSeen = true
		r.endResponse(u)
	case u.Terminal():
		if r.doneSeen {
			r.doneSeen = false
			r.log.Debug("status after done ignored", "outcome", u.Result.Outcome)
			return
		}
		r.endResponse(u)
	}
}

func (r *runner) endResponse(u session.Update) {
	if r.pending > 0 {
		r.pending--
	}
	r.aborted = u.Result.Outcome == stream.OutcomeDiscarded
	r.log.Debug("response ended", "outcome", u.Result.Outcome, "pending", r.pending)
}

// startsResponse reports whether u opened a new stream, either with
// thinking or with a chunk that arrived while idle
func startsResponse(u session.Update, wasStreaming bool) bool {
	switch u.Result.Outcome {
	case stream.OutcomeStarted:
		return true
	case stream.OutcomeChunk:
		return !wasStreaming
	}
	return false
}

// drain handles frames that were queued before the connection closed
func (r *runner) drain() {
	for {
		select {
		case f := <-r.frames:
			r.handleFrame(f)
		default:
			return
		}
	}
}

// isDone reports whether ev is the final full message of a task
func isDone(ev protocol.Event) bool {
	msg, ok := ev.(protocol.MessageEvent)
	return ok && msg.Type == protocol.TypeDone
}

func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
