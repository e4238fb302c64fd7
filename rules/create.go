package rules

// NewGame creates the initial state: a single segment snake at StartPoint
// heading right, no score and food on a random free cell.
func NewGame(rng Rand) State {
	return newGame(GridSize, StartPoint, rng)
}

// newGame ends the game right away with EndCauseBoardFull when the snake
// leaves no cell for food.
func newGame(size int, start Point, rng Rand) State {
	if rng == nil {
		rng = DefaultRand
	}
	snake := []Point{start}
	s := State{
		Size:      size,
		Snake:     snake,
		Direction: Right,
	}
	food, ok := PlaceFood(size, snake, rng)
	if !ok {
		s.Food = Point{X: -1, Y: -1}
		s.GameOver = true
		s.Cause = EndCauseBoardFull
		return s
	}
	s.Food = food
	return s
}
