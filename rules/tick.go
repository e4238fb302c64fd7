package rules

// Tick advances the game by one step in its current direction and returns
// the next state. A finished game is returned unchanged.
func Tick(s State, rng Rand) State {
	if s.GameOver || len(s.Snake) == 0 {
		return s
	}
	if rng == nil {
		rng = DefaultRand
	}

	size := s.size()
	head := s.Head().Add(s.Direction)

	// 1. check for death against the body before it moves
	if cause := checkForDeath(size, head, s.Snake); cause != "" {
		next := s
		next.GameOver = true
		next.Cause = cause
		return next
	}

	next := State{
		Size:      s.Size,
		Turn:      s.Turn + 1,
		Food:      s.Food,
		Direction: s.Direction,
		Score:     s.Score,
	}

	// 2. grow if the head lands on food, otherwise drop the tail
	if !head.Equal(s.Food) {
		next.Snake = make([]Point, 0, len(s.Snake))
		next.Snake = append(next.Snake, head)
		next.Snake = append(next.Snake, s.Snake[:len(s.Snake)-1]...)
		return next
	}

	next.Snake = make([]Point, 0, len(s.Snake)+1)
	next.Snake = append(next.Snake, head)
	next.Snake = append(next.Snake, s.Snake...)
	next.Score++

	// 3. replace eaten food
	food, ok := PlaceFood(size, next.Snake, rng)
	if !ok {
		next.GameOver = true
		next.Cause = EndCauseBoardFull
		return next
	}
	next.Food = food
	return next
}

// PlaceFood picks a uniformly random cell that is not in occupied by drawing
// random cells until a free one comes up. It returns false when occupied
// covers the whole board, since no draw could ever succeed.
func PlaceFood(size int, occupied []Point, rng Rand) (Point, bool) {
	if rng == nil {
		rng = DefaultRand
	}
	taken := make(map[Point]struct{}, len(occupied))
	for _, p := range occupied {
		if p.InBounds(size) {
			taken[p] = struct{}{}
		}
	}
	if len(taken) >= size*size {
		return Point{}, false
	}

	for {
		p := Point{X: rng.Intn(size), Y: rng.Intn(size)}
		if _, ok := taken[p]; !ok {
			return p, true
		}
	}
}
