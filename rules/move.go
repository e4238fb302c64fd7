package rules

import (
	"errors"
	"strings"
)

// ErrInvalidDirection is returned when a direction name can't be parsed.
var ErrInvalidDirection = errors.New("rules: invalid direction")

// Direction is a unit step along one axis.
type Direction struct {
	X, Y int
}

// The four cardinal directions. Y grows downwards.
var (
	Up    = Direction{X: 0, Y: -1}
	Down  = Direction{X: 0, Y: 1}
	Left  = Direction{X: -1, Y: 0}
	Right = Direction{X: 1, Y: 0}
)

// ParseDirection maps a move name ("up", "down", "left", "right") or a
// browser key name ("ArrowUp", ...) to a Direction.
func ParseDirection(name string) (Direction, error) {
	switch strings.ToLower(strings.TrimPrefix(name, "Arrow")) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Direction{}, ErrInvalidDirection
}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	return d == Up || d == Down || d == Left || d == Right
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CanTurn reports whether the snake moving along current may switch to
// requested. A vertical request needs the vertical component of current to
// be zero, a horizontal one the horizontal component, so the snake can never
// reverse along the axis it is travelling on.
func CanTurn(current, requested Direction) bool {
	switch requested {
	case Up, Down:
		return current.Y == 0
	case Left, Right:
		return current.X == 0
	}
	return false
}

// Turn returns requested if the turn is allowed, otherwise current.
func Turn(current, requested Direction) Direction {
	if CanTurn(current, requested) {
		return requested
	}
	return current
}
