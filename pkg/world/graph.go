package world

import (
	"maps"
	"slices"

	errs "github.com/matzehuels/wayfinder/pkg/errors"
)

// Graph is the world map: a set of uniquely named locations joined by
// directional connections, a resource index over them and an optional
// current location.
//
// Locations are stored by name in a single owning map and reference each
// other by name, so clearing the graph is a plain reset. Insertion order is
// tracked separately to keep enumeration, saved files and resource lookups
// deterministic.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	locations map[string]*Location
	order     []string            // location names in insertion order
	index     map[string][]string // resource tag -> location names, insertion order
	current   string              // "" when unset
}

// ConnectResult reports which slots [Graph.AddConnection] filled.
// A slot that was already occupied is left untouched and reported as false.
type ConnectResult struct {
	Forward bool // from -> to in the requested direction
	Reverse bool // to -> from in the opposite direction
}

// Changed reports whether either side was written.
func (r ConnectResult) Changed() bool { return r.Forward || r.Reverse }

// ResourceEntry pairs a resource tag with the locations that carry it.
type ResourceEntry struct {
	Tag       string
	Locations []string
}

// Snapshot is a detached copy of the full graph state, used for persistence.
// Locations are listed in graph insertion order. Current is "" when unset.
type Snapshot struct {
	Locations []*Location
	Current   string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		locations: make(map[string]*Location),
		index:     make(map[string][]string),
	}
}

// Len returns the number of locations.
func (g *Graph) Len() int { return len(g.locations) }

// Has reports whether a location called name exists.
func (g *Graph) Has(name string) bool {
	_, ok := g.locations[name]
	return ok
}

// AddLocation creates a location with the given resources and indexes them.
// Returns INVALID_ARGUMENT for an empty name or resource and
// DUPLICATE_LOCATION if the name is taken. On error the graph is unchanged.
func (g *Graph) AddLocation(name string, resources ...string) error {
	if name == "" {
		return errs.New(errs.ErrCodeInvalidArgument, "location name cannot be empty")
	}
	if _, exists := g.locations[name]; exists {
		return errs.New(errs.ErrCodeDuplicateLocation, "location %q already exists", name)
	}
	if slices.Contains(resources, "") {
		return errs.New(errs.ErrCodeInvalidArgument, "resource cannot be empty")
	}

	loc := NewLocation(name, resources...)
	g.locations[name] = loc
	g.order = append(g.order, name)
	for _, r := range loc.Resources {
		g.index[r] = append(g.index[r], name)
	}
	return nil
}

// AddConnection links from to to in direction d and to back to from in the
// opposite direction. Each side is written only if its own slot is empty;
// an existing connection on either side always wins and is never overwritten.
//
// Returns UNKNOWN_LOCATION if either location is missing and
// INVALID_DIRECTION if d is not a compass direction.
func (g *Graph) AddConnection(from, to string, d Direction) (ConnectResult, error) {
	var res ConnectResult
	if !d.Valid() {
		return res, errs.New(errs.ErrCodeInvalidDirection, "invalid direction %d", int(d))
	}
	src, err := g.mustGet(from)
	if err != nil {
		return res, err
	}
	dst, err := g.mustGet(to)
	if err != nil {
		return res, err
	}

	if _, taken := src.Connections[d]; !taken {
		src.Connections[d] = to
		res.Forward = true
	}
	back := d.Opposite()
	if _, taken := dst.Connections[back]; !taken {
		dst.Connections[back] = from
		res.Reverse = true
	}
	return res, nil
}

// AddResource tags the named location with tag. Adding a tag that is already
// present is a no-op. It reports whether the tag was added.
func (g *Graph) AddResource(name, tag string) (bool, error) {
	loc, err := g.mustGet(name)
	if err != nil {
		return false, err
	}
	if tag == "" {
		return false, errs.New(errs.ErrCodeInvalidArgument, "resource cannot be empty")
	}
	if !loc.AddResource(tag) {
		return false, nil
	}
	g.index[tag] = append(g.index[tag], name)
	return true, nil
}

// RemoveResource removes tag from the named location. Removing an absent tag
// is a no-op. It reports whether the tag was removed.
func (g *Graph) RemoveResource(name, tag string) (bool, error) {
	loc, err := g.mustGet(name)
	if err != nil {
		return false, err
	}
	if !loc.RemoveResource(tag) {
		return false, nil
	}
	holders := slices.DeleteFunc(g.index[tag], func(s string) bool { return s == name })
	if len(holders) == 0 {
		delete(g.index, tag)
	} else {
		g.index[tag] = holders
	}
	return true, nil
}

// FindLocationsWithResource returns the names of the locations carrying tag,
// in the order the tag was added to them. It never fails; an unknown tag
// yields an empty slice.
func (g *Graph) FindLocationsWithResource(tag string) []string {
	holders := slices.Clone(g.index[tag])
	if holders == nil {
		return []string{}
	}
	return holders
}

// Resources lists every resource tag in sorted order with its holders.
func (g *Graph) Resources() []ResourceEntry {
	tags := slices.Sorted(maps.Keys(g.index))
	entries := make([]ResourceEntry, len(tags))
	for i, tag := range tags {
		entries[i] = ResourceEntry{Tag: tag, Locations: slices.Clone(g.index[tag])}
	}
	return entries
}

// Location returns a copy of the named location.
// Modifying the copy does not affect the graph.
func (g *Graph) Location(name string) (*Location, bool) {
	loc, ok := g.locations[name]
	if !ok {
		return nil, false
	}
	return loc.Clone(), true
}

// Locations returns copies of all locations in insertion order.
func (g *Graph) Locations() []*Location {
	out := make([]*Location, len(g.order))
	for i, name := range g.order {
		out[i] = g.locations[name].Clone()
	}
	return out
}

// SetCurrent makes name the current location.
// Returns UNKNOWN_LOCATION if it does not exist.
func (g *Graph) SetCurrent(name string) error {
	if _, err := g.mustGet(name); err != nil {
		return err
	}
	g.current = name
	return nil
}

// Current returns the current location name, if one is set.
func (g *Graph) Current() (string, bool) {
	return g.current, g.current != ""
}

// ClearCurrent unsets the current location.
func (g *Graph) ClearCurrent() { g.current = "" }

// Clear removes every location, the resource index and the current location.
func (g *Graph) Clear() {
	g.locations = make(map[string]*Location)
	g.order = nil
	g.index = make(map[string][]string)
	g.current = ""
}

// Snapshot returns a deep copy of the graph state.
func (g *Graph) Snapshot() Snapshot {
	return Snapshot{Locations: g.Locations(), Current: g.current}
}

// Restore replaces the graph with the contents of s.
//
// The replacement is built and validated in full before the current state is
// cleared, so a failing Restore leaves the graph exactly as it was. Stored
// connections are copied verbatim (one-directional edges included), which
// makes Restore(g.Snapshot()) the identity.
//
// Returns DUPLICATE_LOCATION, INVALID_ARGUMENT, INVALID_DIRECTION or
// UNKNOWN_LOCATION when s is inconsistent.
func (g *Graph) Restore(s Snapshot) error {
	next := New()
	for _, loc := range s.Locations {
		if loc == nil {
			return errs.New(errs.ErrCodeInvalidArgument, "snapshot contains a nil location")
		}
		if err := next.AddLocation(loc.Name, loc.Resources...); err != nil {
			return err
		}
	}
	for _, loc := range s.Locations {
		dst := next.locations[loc.Name]
		for d, target := range loc.Connections {
			if !d.Valid() {
				return errs.New(errs.ErrCodeInvalidDirection, "location %q has an invalid direction %d", loc.Name, int(d))
			}
			if _, ok := next.locations[target]; !ok {
				return errs.New(errs.ErrCodeUnknownLocation,
					"location %q connects %s to unknown location %q", loc.Name, d, target)
			}
			dst.Connections[d] = target
		}
	}
	if s.Current != "" {
		if err := next.SetCurrent(s.Current); err != nil {
			return err
		}
	}

	g.Clear()
	g.locations = next.locations
	g.order = next.order
	g.index = next.index
	g.current = next.current
	return nil
}

// Validate checks the graph invariants and returns nil if they hold:
// every connection targets an existing location, the resource index matches
// the resources actually present, and the current location exists.
func (g *Graph) Validate() error {
	if len(g.order) != len(g.locations) {
		return errs.New(errs.ErrCodeInternal, "order tracks %d locations, map holds %d", len(g.order), len(g.locations))
	}
	want := make(map[string][]string)
	for _, name := range g.order {
		loc, ok := g.locations[name]
		if !ok {
			return errs.New(errs.ErrCodeInternal, "ordered location %q is missing", name)
		}
		for d, target := range loc.Connections {
			if _, ok := g.locations[target]; !ok {
				return errs.New(errs.ErrCodeUnknownLocation,
					"location %q connects %s to unknown location %q", name, d, target)
			}
		}
		for _, r := range loc.Resources {
			want[r] = append(want[r], name)
		}
	}
	for tag, names := range want {
		if !sameMembers(names, g.index[tag]) {
			return errs.New(errs.ErrCodeInternal, "resource index for %q is out of sync", tag)
		}
	}
	if len(want) != len(g.index) {
		return errs.New(errs.ErrCodeInternal, "resource index holds stale tags")
	}
	if g.current != "" {
		if _, ok := g.locations[g.current]; !ok {
			return errs.New(errs.ErrCodeUnknownLocation, "current location %q does not exist", g.current)
		}
	}
	return nil
}

func (g *Graph) mustGet(name string) (*Location, error) {
	loc, ok := g.locations[name]
	if !ok {
		return nil, errs.New(errs.ErrCodeUnknownLocation, "location %q does not exist", name)
	}
	return loc, nil
}

// sameMembers compares two name lists as sets, also rejecting duplicates.
func sameMembers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			return false
		}
		delete(seen, s)
	}
	return len(seen) == 0
}
