package engine

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/battlesnakeio/snake/rules"
	"github.com/battlesnakeio/snake/store"
	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	c chan time.Time

	mu      sync.Mutex
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// fakeClock hands out tickers that only fire when the test says so.
type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (f *fakeClock) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{c: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *fakeClock) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

func (f *fakeClock) last() *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[len(f.tickers)-1]
}

func (f *fakeClock) running() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tickers {
		if !t.isStopped() {
			n++
		}
	}
	return n
}

// tick fires the newest ticker and returns once the session has taken it.
func (f *fakeClock) tick(t *testing.T) {
	ticker := f.last()
	require.False(t, ticker.isStopped(), "ticking a stopped ticker")
	select {
	case ticker.c <- time.Now():
	case <-time.After(time.Second):
		require.Fail(t, "session did not take the tick")
	}
}

func startSession(t *testing.T, recorder FrameRecorder) (*Session, *fakeClock, context.CancelFunc) {
	clock := &fakeClock{}
	s := NewSession("test", recorder)
	s.NewTicker = clock.NewTicker
	s.Rand = rand.New(rand.NewSource(1))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = s.Run(ctx)
	}()

	// The first read only returns once the loop is running.
	_, err := s.State()
	require.NoError(t, err)
	return s, clock, cancel
}

func TestSessionInitialState(t *testing.T) {
	s, clock, cancel := startSession(t, nil)
	defer cancel()

	st, err := s.State()
	require.NoError(t, err)
	require.Equal(t, []rules.Point{{X: 8, Y: 8}}, st.Snake)
	require.Equal(t, rules.Right, st.Direction)
	require.Equal(t, 0, st.Score)
	require.False(t, st.GameOver)
	require.Equal(t, 1, clock.count())
	require.Equal(t, 1, clock.running())
}

func TestSessionTick(t *testing.T) {
	s, clock, cancel := startSession(t, nil)
	defer cancel()

	clock.tick(t)
	st, err := s.State()
	require.NoError(t, err)
	require.Equal(t, rules.Point{X: 9, Y: 8}, st.Head())
	require.Equal(t, 1, st.Turn)
}

func TestSessionSteerAppliesOnNextTick(t *testing.T) {
	s, clock, cancel := startSession(t, nil)
	defer cancel()

	require.NoError(t, s.Steer(rules.Up))
	st, err := s.State()
	require.NoError(t, err)
	require.Equal(t, rules.Right, st.Direction, "steering must wait for the tick")

	clock.tick(t)
	st, err = s.State()
	require.NoError(t, err)
	require.Equal(t, rules.Up, st.Direction)
	require.Equal(t, rules.Point{X: 8, Y: 7}, st.Head())
}

func TestSessionSteerLastValidWins(t *testing.T) {
	s, clock, cancel := startSession(t, nil)
	defer cancel()

	// Moving right: down then up are both valid against the committed
	// direction, the last one is used.
	require.NoError(t, s.Steer(rules.Down))
	require.NoError(t, s.Steer(rules.Up))
	clock.tick(t)
	st, err := s.State()
	require.NoError(t, err)
	require.Equal(t, rules.Point{X: 8, Y: 7}, st.Head())
}

func TestSessionSteerRejectsReversal(t *testing.T) {
	s, clock, cancel := startSession(t, nil)
	defer cancel()

	// Up is accepted, left is checked against the committed right and
	// rejected, so the snake can't fold back onto itself.
	require.NoError(t, s.Steer(rules.Up))
	require.NoError(t, s.Steer(rules.Left))
	clock.tick(t)
	st, err := s.State()
	require.NoError(t, err)
	require.Equal(t, rules.Up, st.Direction)

	require.NoError(t, s.Steer(rules.Down))
	clock.tick(t)
	st, err = s.State()
	require.NoError(t, err)
	require.Equal(t, rules.Up, st.Direction)
	require.Equal(t, rules.Point{X: 8, Y: 6}, st.Head())
}

func TestSessionSteerInvalid(t *testing.T) {
	s, _, cancel := startSession(t, nil)
	defer cancel()

	require.Equal(t, rules.ErrInvalidDirection, s.Steer(rules.Direction{}))
}

func TestSessionGameOverStopsTicker(t *testing.T) {
	s, clock, cancel := startSession(t, nil)
	defer cancel()

	require.NoError(t, s.Steer(rules.Up))
	for i := 0; i < 9; i++ {
		clock.tick(t)
	}

	st, err := s.State()
	require.NoError(t, err)
	require.True(t, st.GameOver)
	require.Equal(t, rules.DeathCauseWallCollision, st.Cause)
	require.Equal(t, rules.Point{X: 8, Y: 0}, st.Head())
	require.True(t, clock.last().isStopped())
	require.Equal(t, 0, clock.running())

	// Reset brings up exactly one new ticker.
	require.NoError(t, s.Reset())
	st, err = s.State()
	require.NoError(t, err)
	require.False(t, st.GameOver)
	require.Equal(t, []rules.Point{{X: 8, Y: 8}}, st.Snake)
	require.Equal(t, rules.Right, st.Direction)
	require.Equal(t, 0, st.Score)
	require.Equal(t, 0, st.Turn)
	require.False(t, st.Food.Equal(rules.StartPoint))
	require.Equal(t, 2, clock.count())
	require.Equal(t, 1, clock.running())

	clock.tick(t)
	st, err = s.State()
	require.NoError(t, err)
	require.Equal(t, rules.Point{X: 9, Y: 8}, st.Head())
}

func TestSessionResetWhileRunning(t *testing.T) {
	s, clock, cancel := startSession(t, nil)
	defer cancel()

	require.NoError(t, s.Steer(rules.Down))
	clock.tick(t)
	require.NoError(t, s.Reset())

	st, err := s.State()
	require.NoError(t, err)
	require.Equal(t, []rules.Point{{X: 8, Y: 8}}, st.Snake)
	require.Equal(t, 2, clock.count())
	require.Equal(t, 1, clock.running())

	// the pending direction went with the old game
	clock.tick(t)
	st, err = s.State()
	require.NoError(t, err)
	require.Equal(t, rules.Point{X: 9, Y: 8}, st.Head())
}

func TestSessionSubscribe(t *testing.T) {
	s, clock, cancel := startSession(t, nil)
	defer cancel()

	frames, unsubscribe, err := s.Subscribe()
	require.NoError(t, err)

	first := <-frames
	require.Equal(t, 0, first.Turn)

	clock.tick(t)
	next := <-frames
	require.Equal(t, 1, next.Turn)

	unsubscribe()
	unsubscribe()
	_, ok := <-frames
	require.False(t, ok)
}

func TestSessionTeardown(t *testing.T) {
	s, clock, cancel := startSession(t, nil)

	frames, _, err := s.Subscribe()
	require.NoError(t, err)
	<-frames

	cancel()
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		require.Fail(t, "session did not stop")
	}

	require.True(t, clock.last().isStopped())
	require.Equal(t, ErrClosed, s.Steer(rules.Up))
	require.Equal(t, ErrClosed, s.Reset())
	_, err = s.State()
	require.Equal(t, ErrClosed, err)
	_, _, err = s.Subscribe()
	require.Equal(t, ErrClosed, err)
	_, ok := <-frames
	require.False(t, ok)

	require.Equal(t, ErrClosed, s.Run(context.Background()))
}

func TestSessionRecordsFrames(t *testing.T) {
	st := store.InMemStore(0)
	s, clock, cancel := startSession(t, st)
	defer cancel()

	clock.tick(t)
	clock.tick(t)
	// a read after the ticks guarantees they were recorded
	_, err := s.State()
	require.NoError(t, err)

	frames, err := st.ListGameFrames(context.Background(), "test", 0, 0)
	require.NoError(t, err)
	require.Len(t, frames, 3)
	require.Equal(t, 2, frames[2].Turn)

	require.NoError(t, s.Reset())
	_, err = s.State()
	require.NoError(t, err)
	frames, err = st.ListGameFrames(context.Background(), "test", 0, 0)
	require.NoError(t, err)
	require.Len(t, frames, 1)
}

func TestSendDropsOldest(t *testing.T) {
	c := make(chan rules.State, 2)
	send(c, rules.State{Turn: 1})
	send(c, rules.State{Turn: 2})
	send(c, rules.State{Turn: 3})
	require.Equal(t, 2, (<-c).Turn)
	require.Equal(t, 3, (<-c).Turn)
}

func TestSessionIdleTimeout(t *testing.T) {
	clock := &fakeClock{}
	s := NewSession("idle", nil)
	s.NewTicker = clock.NewTicker
	s.IdleTimeout = 50 * time.Millisecond

	errc := make(chan error, 1)
	go func() { errc <- s.Run(context.Background()) }()

	// requests keep an unwatched session alive
	for i := 0; i < 5; i++ {
		_, err := s.State()
		require.NoError(t, err)
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case err := <-errc:
		require.Equal(t, ErrIdle, err)
	case <-time.After(time.Second):
		require.Fail(t, "idle session did not stop")
	}
	require.True(t, clock.last().isStopped())
	require.Equal(t, ErrClosed, s.Reset())
}

func TestTickInterval(t *testing.T) {
	require.Equal(t, 200*time.Millisecond, TickInterval)

	ticker := NewTimeTicker(time.Millisecond)
	defer ticker.Stop()
	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		require.Fail(t, "ticker never fired")
	}
}
