// Package engine runs games. A Session owns one game and advances it on a
// fixed timer. Every change to the game (ticks, steering, resets, reads)
// happens on the session's own goroutine, so callers talk to it through
// methods that hand work over on channels.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/battlesnakeio/snake/rules"
	log "github.com/sirupsen/logrus"
)

// TickInterval is the time between two game ticks.
const TickInterval = 200 * time.Millisecond

// subscriberBuffer is how many frames a slow subscriber may fall behind
// before older frames are dropped.
const subscriberBuffer = 16

var (
	// ErrClosed is returned when talking to a session that has stopped running.
	ErrClosed = errors.New("engine: session closed")
	// ErrIdle is returned by Run when the session stopped because nobody was
	// watching or steering it for IdleTimeout.
	ErrIdle = errors.New("engine: session idle")
)

// FrameRecorder receives the frames a session produces. store.Store
// satisfies it.
type FrameRecorder interface {
	CreateGame(ctx context.Context, id string, initial rules.State) error
	PushGameFrame(ctx context.Context, id string, frame rules.State) error
}

// Session is a single game being played.
type Session struct {
	ID        string
	Recorder  FrameRecorder
	NewTicker NewTickerFunc
	Rand      rules.Rand
	// IdleTimeout ends the session once it has had no subscribers and no
	// requests for that long. Zero keeps it running until cancelled.
	IdleTimeout time.Duration

	steer       chan rules.Direction
	reset       chan struct{}
	snapshot    chan chan rules.State
	subscribe   chan chan rules.State
	unsubscribe chan chan rules.State
	done        chan struct{}
	running     sync.Once
}

// NewSession creates a session. Nothing happens until Run is called.
func NewSession(id string, recorder FrameRecorder) *Session {
	return &Session{
		ID:          id,
		Recorder:    recorder,
		NewTicker:   NewTimeTicker,
		Rand:        rules.DefaultRand,
		steer:       make(chan rules.Direction),
		reset:       make(chan struct{}),
		snapshot:    make(chan chan rules.State),
		subscribe:   make(chan chan rules.State),
		unsubscribe: make(chan chan rules.State),
		done:        make(chan struct{}),
	}
}

// loop is the state owned by the Run goroutine.
type loop struct {
	*Session
	ctx     context.Context
	state   rules.State
	pending rules.Direction
	ticker  Ticker
	idle    *time.Timer
	subs    map[chan rules.State]struct{}
}

// Run plays the game until ctx is cancelled. The ticker is stopped as soon as
// the game is over and started again by Reset. Run may only be called once.
func (s *Session) Run(ctx context.Context) error {
	err := ErrClosed
	s.running.Do(func() { err = s.run(ctx) })
	return err
}

func (s *Session) run(ctx context.Context) error {
	l := &loop{
		Session: s,
		ctx:     ctx,
		subs:    map[chan rules.State]struct{}{},
	}
	defer close(s.done)
	defer l.stopTicker()
	defer l.stopIdle()
	defer l.closeSubscribers()

	l.newGame()
	l.touch()
	log.WithField("game", s.ID).Info("session started")

	for {
		var tick, idle <-chan time.Time
		if l.ticker != nil {
			tick = l.ticker.C()
		}
		if l.idle != nil {
			idle = l.idle.C
		}

		select {
		case <-ctx.Done():
			log.WithField("game", s.ID).Info("session stopped")
			return ctx.Err()
		case <-idle:
			log.WithField("game", s.ID).Info("session idle, stopping")
			return ErrIdle
		case <-tick:
			l.tick()
			continue
		case d := <-s.steer:
			// Checked against the direction the last tick used, not against
			// an earlier request, so two quick presses can't reverse the snake.
			if rules.CanTurn(l.state.Direction, d) {
				l.pending = d
			}
		case <-s.reset:
			log.WithFields(log.Fields{
				"game":  s.ID,
				"turn":  l.state.Turn,
				"score": l.state.Score,
			}).Info("reset game")
			l.newGame()
		case reply := <-s.snapshot:
			reply <- l.state
		case c := <-s.subscribe:
			l.subs[c] = struct{}{}
			send(c, l.state)
		case c := <-s.unsubscribe:
			if _, ok := l.subs[c]; ok {
				delete(l.subs, c)
				close(c)
			}
		}
		l.touch()
	}
}

// touch restarts the idle countdown after a request. The countdown only runs
// while nobody is subscribed.
func (l *loop) touch() {
	l.stopIdle()
	if l.IdleTimeout > 0 && len(l.subs) == 0 {
		l.idle = time.NewTimer(l.IdleTimeout)
	}
}

func (l *loop) stopIdle() {
	if l.idle != nil {
		l.idle.Stop()
		l.idle = nil
	}
}

func (l *loop) newGame() {
	l.state = rules.NewGame(l.Rand)
	l.pending = l.state.Direction
	if l.Recorder != nil {
		if err := l.Recorder.CreateGame(l.ctx, l.ID, l.state); err != nil {
			log.WithError(err).WithField("game", l.ID).Warn("unable to record new game")
		}
	}
	if l.state.GameOver {
		l.stopTicker()
	} else {
		l.startTicker()
	}
	l.publish()
}

func (l *loop) tick() {
	current := l.state
	current.Direction = l.pending
	l.state = rules.Tick(current, l.Rand)
	ticksTotal.Inc()

	fields := log.Fields{
		"game":   l.ID,
		"turn":   l.state.Turn,
		"status": l.state.Status(),
	}
	if l.state.GameOver {
		l.stopTicker()
		gamesOver.WithLabelValues(l.state.Cause).Inc()
		fields["score"] = l.state.Score
		fields["cause"] = l.state.Cause
		log.WithFields(fields).Info("game over")
	} else {
		fields["head"] = l.state.Head()
		fields["tail"] = l.state.Tail()
		log.WithFields(fields).Debug("tick")
	}

	if l.Recorder != nil {
		if err := l.Recorder.PushGameFrame(l.ctx, l.ID, l.state); err != nil {
			log.WithError(err).WithField("game", l.ID).Warn("unable to record frame")
		}
	}
	l.publish()
}

// startTicker replaces any running ticker so there is never more than one.
func (l *loop) startTicker() {
	l.stopTicker()
	l.ticker = l.NewTicker(TickInterval)
}

func (l *loop) stopTicker() {
	if l.ticker != nil {
		l.ticker.Stop()
		l.ticker = nil
	}
}

func (l *loop) publish() {
	for c := range l.subs {
		send(c, l.state)
	}
}

func (l *loop) closeSubscribers() {
	for c := range l.subs {
		close(c)
	}
	l.subs = nil
}

// send never blocks the loop: when c is full the oldest frame is dropped so
// the newest one always gets through.
func send(c chan rules.State, st rules.State) {
	select {
	case c <- st:
		return
	default:
	}
	select {
	case <-c:
	default:
	}
	select {
	case c <- st:
	default:
	}
}

// Steer requests a new direction for the next tick.
func (s *Session) Steer(d rules.Direction) error {
	if !d.Valid() {
		return rules.ErrInvalidDirection
	}
	select {
	case s.steer <- d:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Reset starts a fresh game, restarting the ticker if the last game ended.
func (s *Session) Reset() error {
	select {
	case s.reset <- struct{}{}:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// State returns the current state of the game.
func (s *Session) State() (rules.State, error) {
	reply := make(chan rules.State, 1)
	select {
	case s.snapshot <- reply:
		return <-reply, nil
	case <-s.done:
		return rules.State{}, ErrClosed
	}
}

// Subscribe returns a channel receiving the current state followed by every
// new state. The channel is closed when cancel is called or the session
// stops.
func (s *Session) Subscribe() (frames <-chan rules.State, cancel func(), err error) {
	c := make(chan rules.State, subscriberBuffer)
	select {
	case s.subscribe <- c:
	case <-s.done:
		return nil, nil, ErrClosed
	}

	var once sync.Once
	cancel = func() {
		once.Do(func() {
			select {
			case s.unsubscribe <- c:
			case <-s.done:
			}
		})
	}
	return c, cancel, nil
}

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} { return s.done }
