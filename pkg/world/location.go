package world

import (
	"slices"

	errs "github.com/matzehuels/wayfinder/pkg/errors"
)

// Location is a named node in the world graph. It owns its resource tags and
// its outgoing connections. Connections refer to other locations by name only.
//
// Location on its own enforces no reciprocity: AddConnection overwrites. The
// [Graph] is responsible for keeping connections mutual and in bounds.
type Location struct {
	Name        string
	Resources   []string             // insertion-ordered, no duplicates
	Connections map[Direction]string // direction -> target location name
}

// Exit is one outgoing connection of a location.
type Exit struct {
	Direction Direction
	Target    string
}

// NewLocation creates a location with the given resources. Duplicate
// resources are dropped, keeping the first occurrence.
func NewLocation(name string, resources ...string) *Location {
	loc := &Location{
		Name:        name,
		Resources:   make([]string, 0, len(resources)),
		Connections: make(map[Direction]string),
	}
	for _, r := range resources {
		loc.AddResource(r)
	}
	return loc
}

// AddResource appends tag unless it is already present.
// It reports whether the tag was added.
func (l *Location) AddResource(tag string) bool {
	if l.HasResource(tag) {
		return false
	}
	l.Resources = append(l.Resources, tag)
	return true
}

// RemoveResource deletes tag if present and reports whether it was removed.
func (l *Location) RemoveResource(tag string) bool {
	i := slices.Index(l.Resources, tag)
	if i < 0 {
		return false
	}
	l.Resources = slices.Delete(l.Resources, i, i+1)
	return true
}

// HasResource reports whether the location carries tag.
func (l *Location) HasResource(tag string) bool {
	return slices.Contains(l.Resources, tag)
}

// AddConnection points direction d at target, replacing any previous target.
// It fails with INVALID_ARGUMENT when target is empty or d is not a valid direction.
func (l *Location) AddConnection(d Direction, target string) error {
	if !d.Valid() {
		return errs.New(errs.ErrCodeInvalidArgument, "direction must be provided")
	}
	if target == "" {
		return errs.New(errs.ErrCodeInvalidArgument, "target location must be provided")
	}
	if l.Connections == nil {
		l.Connections = make(map[Direction]string)
	}
	l.Connections[d] = target
	return nil
}

// Connection returns the target in direction d, if any.
func (l *Location) Connection(d Direction) (string, bool) {
	target, ok := l.Connections[d]
	return target, ok
}

// Exits lists the outgoing connections in canonical direction order.
func (l *Location) Exits() []Exit {
	exits := make([]Exit, 0, len(l.Connections))
	for _, d := range Directions() {
		if target, ok := l.Connections[d]; ok {
			exits = append(exits, Exit{Direction: d, Target: target})
		}
	}
	return exits
}

// Clone returns a deep copy of l.
func (l *Location) Clone() *Location {
	c := &Location{
		Name:        l.Name,
		Resources:   slices.Clone(l.Resources),
		Connections: make(map[Direction]string, len(l.Connections)),
	}
	if c.Resources == nil {
		c.Resources = []string{}
	}
	for d, t := range l.Connections {
		c.Connections[d] = t
	}
	return c
}
