package commands

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/battlesnakeio/snake/rules"
	"github.com/gorilla/websocket"
	termbox "github.com/nsf/termbox-go"
	"github.com/stretchr/testify/require"
)

func TestFrameHolder(t *testing.T) {
	fh := &frameHolder{}
	_, ok := fh.Current()
	require.False(t, ok)
	require.False(t, fh.Forward())
	require.False(t, fh.Backward())

	fh.Append(rules.State{Turn: 0}, rules.State{Turn: 1}, rules.State{Turn: 2})
	require.Equal(t, 3, fh.Count())

	st, ok := fh.Current()
	require.True(t, ok)
	require.Equal(t, 0, st.Turn)

	require.True(t, fh.Forward())
	require.True(t, fh.Forward())
	require.False(t, fh.Forward())
	st, _ = fh.Current()
	require.Equal(t, 2, st.Turn)

	require.True(t, fh.Backward())
	st, _ = fh.Current()
	require.Equal(t, 1, st.Turn)
}

func TestKeyDirection(t *testing.T) {
	tests := []struct {
		key      termbox.Key
		expected rules.Direction
		ok       bool
	}{
		{termbox.KeyArrowUp, rules.Up, true},
		{termbox.KeyArrowDown, rules.Down, true},
		{termbox.KeyArrowLeft, rules.Left, true},
		{termbox.KeyArrowRight, rules.Right, true},
		{termbox.KeyEnter, rules.Direction{}, false},
	}

	for _, test := range tests {
		d, ok := keyDirection(termbox.Event{Type: termbox.EventKey, Key: test.key})
		require.Equal(t, test.ok, ok)
		require.Equal(t, test.expected, d)
	}
}

func TestQuitAndReset(t *testing.T) {
	require.True(t, isQuit(termbox.Event{Key: termbox.KeyEsc}))
	require.True(t, isQuit(termbox.Event{Ch: 'q'}))
	require.False(t, isQuit(termbox.Event{Ch: 'r'}))
	require.True(t, isReset(termbox.Event{Ch: 'r'}))
	require.False(t, isReset(termbox.Event{Key: termbox.KeyArrowUp}))
}

func TestSocketURL(t *testing.T) {
	require.Equal(t, "ws://localhost:3005/socket/abc", socketURL("http://localhost:3005", "abc"))
	require.Equal(t, "wss://snake.example.com/socket/abc", socketURL("https://snake.example.com", "abc"))
	require.Equal(t, "ws://localhost:3005/socket/abc", socketURL("localhost:3005", "abc"))
}

func TestReadFramesStopsWhenDone(t *testing.T) {
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for turn := 0; turn < 3; turn++ {
			if err := conn.WriteJSON(rules.State{Turn: turn}); err != nil {
				return
			}
		}
		// hold the connection open until the client goes away
		_, _, _ = conn.ReadMessage()
	}))
	defer ts.Close()

	c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	defer c.Close()

	done := make(chan struct{})
	frames := readFrames(c, done)
	require.Equal(t, 0, (<-frames).Turn)

	// nobody reads the remaining frames
	close(done)
	time.Sleep(50 * time.Millisecond)

	select {
	case _, ok := <-frames:
		require.False(t, ok)
	case <-time.After(time.Second):
		require.Fail(t, "frame reader still running")
	}
}
