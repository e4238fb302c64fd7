package rules

import "fmt"

// Point is a single cell on the board.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Equal checks if 2 points are the same x,y coordinate
func (p Point) Equal(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// Add moves the point one step along the direction.
func (p Point) Add(d Direction) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// InBounds reports whether the point lies on a size x size board.
func (p Point) InBounds(size int) bool {
	return p.X >= 0 && p.X < size && p.Y >= 0 && p.Y < size
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

func containsPoint(points []Point, p Point) bool {
	for _, o := range points {
		if o.Equal(p) {
			return true
		}
	}
	return false
}
