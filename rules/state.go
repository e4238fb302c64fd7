package rules

import "math/rand"

// GridSize is the width and height of the board.
const GridSize = 20

// StartPoint is where the snake spawns on a new game.
var StartPoint = Point{X: 8, Y: 8}

// Rand is the source of randomness used for food placement. *rand.Rand
// satisfies it.
type Rand interface {
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

// DefaultRand uses the math/rand global source.
var DefaultRand Rand = globalRand{}

// State is everything needed to render or advance a game. A State is a value:
// Tick builds a fresh one each turn and never modifies the previous State or
// its Snake slice, so snapshots can be shared freely once published.
type State struct {
	Size      int       `json:"size"`
	Turn      int       `json:"turn"`
	Snake     []Point   `json:"snake"`
	Food      Point     `json:"food"`
	Direction Direction `json:"direction"`
	Score     int       `json:"score"`
	GameOver  bool      `json:"gameOver"`
	Cause     string    `json:"cause,omitempty"`
}

// Head returns the first point in the body
func (s State) Head() Point {
	if len(s.Snake) == 0 {
		return Point{X: -1, Y: -1}
	}
	return s.Snake[0]
}

// Tail returns the last point in the body
func (s State) Tail() Point {
	if len(s.Snake) == 0 {
		return Point{X: -1, Y: -1}
	}
	return s.Snake[len(s.Snake)-1]
}

// Occupies reports whether any snake segment is on p.
func (s State) Occupies(p Point) bool {
	return containsPoint(s.Snake, p)
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	c := s
	c.Snake = append([]Point(nil), s.Snake...)
	return c
}

func (s State) size() int {
	if s.Size <= 0 {
		return GridSize
	}
	return s.Size
}

// CellKind classifies a board cell for rendering.
type CellKind int

// Cell kinds.
const (
	CellEmpty CellKind = iota
	CellSnake
	CellFood
)

// CellAt returns what occupies the cell at p. The snake is drawn over food.
func (s State) CellAt(p Point) CellKind {
	if s.Occupies(p) {
		return CellSnake
	}
	if s.Food.Equal(p) {
		return CellFood
	}
	return CellEmpty
}
