package chat

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/agentchat/pkg/conn"
	"github.com/killallgit/agentchat/pkg/render"
	"github.com/killallgit/agentchat/pkg/session"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	status conn.Status
	sent   []string
}

func (f *fakeSender) SendBytes(data []byte) error {
	f.sent = append(f.sent, string(data))
	return nil
}

func (f *fakeSender) Status() conn.Status {
	return f.status
}

func newTestModel(t *testing.T, status conn.Status) (chatModel, *fakeSender) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)

	sender := &fakeSender{status: status}
	ctrl := session.New(sender, session.Options{ClientID: "test-client"})
	renderer := render.New(render.Options{Markdown: true})

	m := NewChatModel(ctrl, renderer, Events{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(chatModel), sender
}

func typeText(m chatModel, text string) chatModel {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return updated.(chatModel)
}

func press(m chatModel, msg tea.KeyMsg) (chatModel, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(chatModel), cmd
}

func deliver(m chatModel, frames ...string) chatModel {
	for _, f := range frames {
		updated, _ := m.Update(frameMsg{frame: conn.Frame{Data: []byte(f)}})
		m = updated.(chatModel)
	}
	return m
}

func TestSubmitAndStreamResponse(t *testing.T) {
	m, sender := newTestModel(t, conn.StatusConnected)

	m = typeText(m, "hi")
	assert.Equal(t, "hi", m.textarea.Value())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"hi"}, sender.sent)
	assert.Empty(t, m.textarea.Value())
	assert.Contains(t, m.View(), "hi")

	m = deliver(m,
		`{"status":"thinking"}`,
		`{"chunk":{"content":"Hel","content_type":"text"}}`,
	)
	assert.True(t, m.statusBar.IsStreaming())
	assert.Contains(t, m.View(), "Hel")

	m = deliver(m,
		`{"chunk":{"content":"lo","content_type":"text"}}`,
		`{"status":"complete"}`,
	)
	assert.False(t, m.statusBar.IsStreaming())
	assert.Contains(t, m.View(), "Hello")
	assert.NotContains(t, m.View(), cursor)
	require.Len(t, m.ctrl.Messages(), 2)
}

func TestSubmitWhileDisconnected(t *testing.T) {
	m, sender := newTestModel(t, conn.StatusDisconnected)

	m = typeText(m, "hello")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, sender.sent)
	assert.Empty(t, m.ctrl.Messages())
	assert.Equal(t, "hello", m.textarea.Value())
	assert.Contains(t, m.statusBar.Notice(), "not connected")
	assert.Contains(t, m.View(), "disconnected")
}

func TestEmptySubmitIsIgnored(t *testing.T) {
	m, sender := newTestModel(t, conn.StatusConnected)

	m = typeText(m, "   ")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, sender.sent)
	assert.Empty(t, m.ctrl.Messages())
	assert.Empty(t, m.textarea.Value())
}

func TestServerErrorDropsPartial(t *testing.T) {
	m, _ := newTestModel(t, conn.StatusConnected)

	m = deliver(m,
		`{"status":"thinking"}`,
		`{"chunk":{"content":"partial answer","content_type":"text"}}`,
	)
	assert.Contains(t, m.View(), "partial answer")

	m = deliver(m, `{"status":"error"}`)
	assert.NotContains(t, m.View(), "partial answer")
	assert.Contains(t, m.statusBar.Notice(), "aborted")
	assert.Empty(t, m.ctrl.Messages())
}

func TestMalformedFrameShowsNotice(t *testing.T) {
	m, _ := newTestModel(t, conn.StatusConnected)

	m = deliver(m, `definitely not json`)
	assert.Contains(t, m.statusBar.Notice(), "malformed")
	assert.Empty(t, m.ctrl.Messages())
}

func TestClearChatKeepsConnection(t *testing.T) {
	m, sender := newTestModel(t, conn.StatusConnected)
	m = deliver(m, `{"type":"done","content":"final answer"}`)
	assert.Contains(t, m.View(), "final answer")

	m = typeText(m, "half-typed draft")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Empty(t, m.ctrl.Messages())
	assert.Empty(t, m.textarea.Value())
	assert.Equal(t, 1, m.textarea.Height())
	assert.NotContains(t, m.View(), "final answer")
	assert.Equal(t, conn.StatusConnected, sender.Status())

	m = typeText(m, "again")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"again"}, sender.sent)
}

func TestDoubleEscapeClearsInput(t *testing.T) {
	m, _ := newTestModel(t, conn.StatusConnected)
	m = typeText(m, "draft")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "draft", m.textarea.Value())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.textarea.Value())
}

func TestEscapeCountResetsOnOtherKeys(t *testing.T) {
	m, _ := newTestModel(t, conn.StatusConnected)
	m = typeText(m, "a")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	m = typeText(m, "b")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, "ab", m.textarea.Value())
}

func TestAltEnterInsertsNewline(t *testing.T) {
	m, sender := newTestModel(t, conn.StatusConnected)
	m = typeText(m, "line one")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	m = typeText(m, "line two")

	assert.Equal(t, "line one\nline two", m.textarea.Value())
	assert.Empty(t, sender.sent)
	assert.Equal(t, 2, m.textarea.Height())
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t, conn.StatusConnected)
	_, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSlashCommands(t *testing.T) {
	m, sender := newTestModel(t, conn.StatusConnected)
	m = deliver(m, `{"type":"plan","content":"1. search","content_type":"md"}`)

	path := filepath.Join(t.TempDir(), "out.yaml")
	m = typeText(m, "/save "+path)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, sender.sent)
	assert.Contains(t, m.statusBar.Notice(), "saved 1 messages")
	_, err := os.Stat(path)
	require.NoError(t, err)

	m = typeText(m, "/save")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "usage: /save <path>", m.statusBar.Notice())

	m = typeText(m, "/bogus")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "unknown command /bogus", m.statusBar.Notice())

	m = typeText(m, "/clear")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.ctrl.Messages())
	assert.Empty(t, m.textarea.Value())
}

func TestConnectionStatusUpdates(t *testing.T) {
	m, _ := newTestModel(t, conn.StatusConnecting)
	assert.Contains(t, m.View(), "connecting")

	updated, _ := m.Update(connStatusMsg{status: conn.StatusConnected})
	m = updated.(chatModel)
	assert.Contains(t, m.View(), "● connected")

	updated, _ = m.Update(connStatusMsg{status: conn.StatusDisconnected})
	m = updated.(chatModel)
	assert.Contains(t, m.View(), "disconnected")
	assert.Equal(t, "connection closed", m.statusBar.Notice())
}

func TestWaitForFrameDeliversInOrder(t *testing.T) {
	ch := make(chan conn.Frame, 2)
	ch <- conn.Frame{Data: []byte("one")}
	ch <- conn.Frame{Data: []byte("two")}
	close(ch)

	cmd := waitForFrame(ch)
	assert.Equal(t, "one", string(cmd().(frameMsg).frame.Data))
	assert.Equal(t, "two", string(cmd().(frameMsg).frame.Data))
	assert.IsType(t, framesClosedMsg{}, cmd())

	assert.Nil(t, waitForFrame(nil))
}
