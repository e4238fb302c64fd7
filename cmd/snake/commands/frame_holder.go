package commands

import (
	"sync"

	"github.com/battlesnakeio/snake/rules"
)

// frameHolder keeps the frames of a replay and the one being shown.
type frameHolder struct {
	sync.RWMutex
	frames  []rules.State
	current int
}

func (fh *frameHolder) Append(frames ...rules.State) {
	fh.Lock()
	defer fh.Unlock()

	fh.frames = append(fh.frames, frames...)
}

func (fh *frameHolder) Count() int {
	fh.RLock()
	defer fh.RUnlock()

	return len(fh.frames)
}

// Current returns the frame being shown, false when there are none.
func (fh *frameHolder) Current() (rules.State, bool) {
	fh.RLock()
	defer fh.RUnlock()

	if len(fh.frames) == 0 {
		return rules.State{}, false
	}
	return fh.frames[fh.current], true
}

// Forward moves to the next frame, returning false on the last one.
func (fh *frameHolder) Forward() bool {
	fh.Lock()
	defer fh.Unlock()

	if fh.current+1 >= len(fh.frames) {
		return false
	}
	fh.current++
	return true
}

// Backward moves to the previous frame, returning false on the first one.
func (fh *frameHolder) Backward() bool {
	fh.Lock()
	defer fh.Unlock()

	if fh.current == 0 {
		return false
	}
	fh.current--
	return true
}
