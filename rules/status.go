package rules

// GameStatus is the coarse lifecycle of a game.
type GameStatus string

const (
	// GameStatusRunning represents a game that is still ticking
	GameStatusRunning GameStatus = "running"
	// GameStatusComplete represents a game that is done
	GameStatusComplete GameStatus = "complete"
)

// Status returns the lifecycle status of the state.
func (s State) Status() GameStatus {
	if s.GameOver {
		return GameStatusComplete
	}
	return GameStatusRunning
}
