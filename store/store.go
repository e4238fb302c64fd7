// Package store keeps the frame history of every running game. It is memory
// only: frames live as long as the process and are dropped with the game.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/battlesnakeio/snake/rules"
)

// ErrNotFound is returned when a game is not found.
var ErrNotFound = errors.New("store: game not found")

// Store is the interface to the frame history backend.
type Store interface {
	// CreateGame starts (or restarts) the history of a game with its
	// initial frame, dropping anything recorded before.
	CreateGame(ctx context.Context, id string, initial rules.State) error
	PushGameFrame(ctx context.Context, id string, frame rules.State) error
	// ListGameFrames lists frames by an offset and limit. A negative offset
	// counts back from the newest frame.
	ListGameFrames(ctx context.Context, id string, limit, offset int) ([]rules.State, error)
	DeleteGame(ctx context.Context, id string) error
}

// InMemStore returns an in memory implementation of the Store interface that
// keeps at most maxFrames frames per game, discarding the oldest first. A
// maxFrames of zero or less keeps everything.
func InMemStore(maxFrames int) Store {
	return &inmem{
		frames:    map[string][]rules.State{},
		maxFrames: maxFrames,
	}
}

type inmem struct {
	frames    map[string][]rules.State
	maxFrames int
	lock      sync.Mutex
}

func (in *inmem) CreateGame(ctx context.Context, id string, initial rules.State) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	in.frames[id] = []rules.State{initial.Clone()}
	return nil
}

func (in *inmem) PushGameFrame(ctx context.Context, id string, frame rules.State) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	frames, ok := in.frames[id]
	if !ok {
		return ErrNotFound
	}
	frames = append(frames, frame.Clone())
	if in.maxFrames > 0 && len(frames) > in.maxFrames {
		frames = append([]rules.State(nil), frames[len(frames)-in.maxFrames:]...)
	}
	in.frames[id] = frames
	return nil
}

func (in *inmem) ListGameFrames(ctx context.Context, id string, limit, offset int) ([]rules.State, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	frames, ok := in.frames[id]
	if !ok {
		return nil, ErrNotFound
	}
	if offset < 0 {
		offset = len(frames) + offset
		if offset < 0 {
			offset = 0
		}
	}
	if offset >= len(frames) {
		return []rules.State{}, nil
	}
	end := len(frames)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]rules.State, 0, end-offset)
	for _, f := range frames[offset:end] {
		out = append(out, f.Clone())
	}
	return out, nil
}

func (in *inmem) DeleteGame(ctx context.Context, id string) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	if _, ok := in.frames[id]; !ok {
		return ErrNotFound
	}
	delete(in.frames, id)
	return nil
}
