package world

import (
	"strings"

	errs "github.com/matzehuels/wayfinder/pkg/errors"
)

// Direction is one of the four compass directions a connection can leave a
// location by. The zero value is not a valid direction.
type Direction int

const (
	North Direction = iota + 1
	South
	East
	West
)

// directionNames is indexed by Direction; index 0 is the invalid zero value.
var directionNames = [...]string{"", "north", "south", "east", "west"}

// Directions returns all valid directions in canonical order
// (north, south, east, west). Path search relaxes neighbours in this order.
func Directions() []Direction {
	return []Direction{North, South, East, West}
}

// ParseDirection converts s to a Direction. Matching is case-insensitive and
// ignores surrounding whitespace. Any other input fails with INVALID_DIRECTION.
func ParseDirection(s string) (Direction, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Directions() {
		if directionNames[d] == want {
			return d, nil
		}
	}
	return 0, errs.New(errs.ErrCodeInvalidDirection,
		"invalid direction %q (expected north, south, east or west)", s)
}

// Valid reports whether d is one of the four compass directions.
func (d Direction) Valid() bool { return d >= North && d <= West }

// Opposite returns the reverse direction: north<->south, east<->west.
// Opposite(Opposite(d)) == d for every valid d. Invalid values map to themselves.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	default:
		return d
	}
}

// String returns the lowercase word for d ("north"), or "invalid".
func (d Direction) String() string {
	if !d.Valid() {
		return "invalid"
	}
	return directionNames[d]
}

// MarshalText encodes d as its lowercase word, which makes Direction usable
// as a JSON map key.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, errs.New(errs.ErrCodeInvalidDirection, "invalid direction %d", int(d))
	}
	return []byte(directionNames[d]), nil
}

// UnmarshalText decodes a direction word via [ParseDirection].
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// FormatDirections joins directions with arrows for display,
// e.g. "south → east". An empty path formats as "".
func FormatDirections(path []Direction) string {
	words := make([]string, len(path))
	for i, d := range path {
		words[i] = d.String()
	}
	return strings.Join(words, " → ")
}
