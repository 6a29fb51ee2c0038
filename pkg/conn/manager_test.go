package conn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAgent is a test server that records received frames and replies with
// a scripted list of frames for every message it gets.
type fakeAgent struct {
	srv      *httptest.Server
	mu       sync.Mutex
	received []string
	replies  []string
	conns    chan *websocket.Conn
}

func newFakeAgent(t *testing.T, replies ...string) *fakeAgent {
	t.Helper()
	fa := &fakeAgent{replies: replies, conns: make(chan *websocket.Conn, 1)}
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	fa.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		fa.conns <- c
		defer c.Close()
		for {
			_, data, err := c.ReadMessage()
			if err != nil {
				return
			}
			fa.mu.Lock()
			fa.received = append(fa.received, string(data))
			fa.mu.Unlock()
			for _, reply := range fa.replies {
				if err := c.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
					return
				}
			}
		}
	}))
	t.Cleanup(fa.srv.Close)
	return fa
}

func (fa *fakeAgent) url() string {
	return "ws" + strings.TrimPrefix(fa.srv.URL, "http")
}

func (fa *fakeAgent) messages() []string {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	out := make([]string, len(fa.received))
	copy(out, fa.received)
	return out
}

func testConfig(url string) Config {
	return Config{
		URL:              url,
		HandshakeTimeout: 2 * time.Second,
		WriteTimeout:     2 * time.Second,
		ReadLimit:        1 << 16,
	}
}

func TestSendBeforeConnect(t *testing.T) {
	m := New(testConfig("ws://127.0.0.1:1/ws"))

	assert.Equal(t, StatusDisconnected, m.Status())
	assert.ErrorIs(t, m.Send("hello"), ErrNotConnected)
	assert.Nil(t, m.Done())
	assert.NoError(t, m.Close())
}

func TestConnectReportsStatusTransitions(t *testing.T) {
	fa := newFakeAgent(t)
	m := New(testConfig(fa.url()))

	var mu sync.Mutex
	var seen []Status
	m.OnStatus(func(s Status) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	require.NoError(t, m.Connect(context.Background()))
	assert.True(t, m.IsConnected())
	assert.ErrorIs(t, m.Connect(context.Background()), ErrAlreadyConnected)

	require.NoError(t, m.Close())
	assert.Equal(t, StatusDisconnected, m.Status())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Status{StatusConnecting, StatusConnected, StatusDisconnected}, seen)
}

func TestConnectFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	m := New(testConfig("ws" + strings.TrimPrefix(srv.URL, "http")))
	err := m.Connect(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 404")
	assert.Equal(t, StatusDisconnected, m.Status())
	assert.ErrorIs(t, m.Send("x"), ErrNotConnected)
}

func TestSendAndReceiveInOrder(t *testing.T) {
	fa := newFakeAgent(t,
		`{"status":"thinking"}`,
		`{"chunk":{"content":"Hel","content_type":"text"}}`,
		`{"chunk":{"content":"lo","content_type":"text"}}`,
		`{"status":"complete"}`,
	)
	m := New(testConfig(fa.url()))

	frames := make(chan Frame, 16)
	m.OnFrame(func(f Frame) { frames <- f })

	require.NoError(t, m.Connect(context.Background()))
	defer m.Close()

	require.NoError(t, m.Send("hi"))

	var got []string
	timeout := time.After(3 * time.Second)
	for len(got) < 4 {
		select {
		case f := <-frames:
			assert.False(t, f.Received.IsZero())
			got = append(got, string(f.Data))
		case <-timeout:
			t.Fatalf("timed out after %d frames", len(got))
		}
	}

	assert.Equal(t, []string{
		`{"status":"thinking"}`,
		`{"chunk":{"content":"Hel","content_type":"text"}}`,
		`{"chunk":{"content":"lo","content_type":"text"}}`,
		`{"status":"complete"}`,
	}, got)
	assert.Equal(t, []string{"hi"}, fa.messages())
}

func TestServerCloseMarksDisconnected(t *testing.T) {
	fa := newFakeAgent(t)
	m := New(testConfig(fa.url()))
	require.NoError(t, m.Connect(context.Background()))

	serverSide := <-fa.conns
	serverSide.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	serverSide.Close()

	select {
	case <-m.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("reader did not exit")
	}

	assert.Equal(t, StatusDisconnected, m.Status())
	assert.ErrorIs(t, m.Send("late"), ErrNotConnected)
	assert.NoError(t, m.Close())
}

func TestReconnectAfterClose(t *testing.T) {
	fa := newFakeAgent(t)
	m := New(testConfig(fa.url()))

	require.NoError(t, m.Connect(context.Background()))
	<-fa.conns
	require.NoError(t, m.Close())

	require.NoError(t, m.Connect(context.Background()))
	<-fa.conns
	defer m.Close()
	assert.True(t, m.IsConnected())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "disconnected", StatusDisconnected.String())
	assert.Equal(t, "connecting", StatusConnecting.String())
	assert.Equal(t, "connected", StatusConnected.String())
	assert.Equal(t, "unknown", Status(42).String())
}
