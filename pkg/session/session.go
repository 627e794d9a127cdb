// Package session ties a world graph to a map store.
//
// A [Session] is the single object the presentation layer talks to. It owns
// one [world.Graph] and one [store.Store], remembers which stored map it is
// working on, and tracks unsaved changes. All methods lock one mutex around
// the graph, so a Session may be shared between goroutines.
//
// # Usage
//
//	st, _ := store.NewFileStore(".")
//	sess, err := session.Open(ctx, st, "map_data.json")
//	if err != nil {
//	    return err
//	}
//	if err := sess.AddLocation("Forest", "wood"); err != nil {
//	    return err
//	}
//	return sess.Save(ctx, "")
//
// Inputs typed by users are validated here, before they reach the graph:
// location names and resource tags must be single words (see
// [errors.ValidateLocationName] and [errors.ValidateResourceTag]).
//
// [errors.ValidateLocationName]: github.com/matzehuels/wayfinder/pkg/errors.ValidateLocationName
// [errors.ValidateResourceTag]: github.com/matzehuels/wayfinder/pkg/errors.ValidateResourceTag
package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/wayfinder/pkg/config"
	errs "github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/observability"
	"github.com/matzehuels/wayfinder/pkg/store"
	"github.com/matzehuels/wayfinder/pkg/world"
)

// Session is a working copy of one map.
type Session struct {
	mu    sync.Mutex
	graph *world.Graph
	store store.Store
	name  string // map name used by Save("")
	dirty bool
}

// LocationInfo is a read-only view of one location.
type LocationInfo struct {
	Name      string
	Resources []string
	Exits     []world.Exit
	Current   bool
}

// New creates a session with an empty graph working on the map called name
// (config.DefaultMap when empty).
func New(st store.Store, name string) *Session {
	if name == "" {
		name = config.DefaultMap
	}
	return &Session{graph: world.New(), store: st, name: name}
}

// Open creates a session and loads the map called name. A map that does not
// exist yet is not an error: the session starts empty and the first Save
// creates it.
func Open(ctx context.Context, st store.Store, name string) (*Session, error) {
	s := New(st, name)
	if err := s.Load(ctx, s.name); err != nil && !errs.Is(err, errs.ErrCodeStorageNotFound) {
		return nil, err
	}
	return s, nil
}

// Name returns the map name Save writes to by default.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Dirty reports whether the graph changed since the last load or save.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// =============================================================================
// Persistence
// =============================================================================

// Load replaces the graph with the stored map called name.
// On any error the current graph is left untouched.
func (s *Session) Load(ctx context.Context, name string) error {
	snap, err := s.store.Load(ctx, name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.graph.Restore(snap); err != nil {
		return errs.Wrap(errs.ErrCodeStorageMalformed, err, "restore map %q", name)
	}
	s.name = name
	s.dirty = false
	return nil
}

// Save stores the graph under name, or under the session's map name when
// name is empty. A successful save with an explicit name makes it the
// session's map name.
func (s *Session) Save(ctx context.Context, name string) error {
	s.mu.Lock()
	if name == "" {
		name = s.name
	}
	snap := s.graph.Snapshot()
	s.mu.Unlock()

	if err := s.store.Save(ctx, name, snap); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
	s.dirty = false
	return nil
}

// Maps lists the maps in the session's store.
func (s *Session) Maps(ctx context.Context) ([]store.MapInfo, error) {
	return s.store.List(ctx)
}

// Replace swaps in a new graph built elsewhere, e.g. [world.Sample].
func (s *Session) Replace(g *world.Graph) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.graph.Restore(g.Snapshot()); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Snapshot returns a copy of the current graph state.
func (s *Session) Snapshot() world.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Snapshot()
}

// =============================================================================
// Mutations
// =============================================================================

// AddLocation validates and creates a location.
func (s *Session) AddLocation(name string, resources ...string) error {
	if err := errs.ValidateLocationName(name); err != nil {
		return err
	}
	for _, r := range resources {
		if err := errs.ValidateResourceTag(r); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.graph.AddLocation(name, resources...); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Connect links two locations in both directions where the slots are free.
func (s *Session) Connect(from, to string, d world.Direction) (world.ConnectResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.graph.AddConnection(from, to, d)
	if err != nil {
		return res, err
	}
	if res.Changed() {
		s.dirty = true
	}
	return res, nil
}

// AddResources tags a location and returns the tags that were new.
// All tags are validated before any is applied.
func (s *Session) AddResources(name string, tags ...string) ([]string, error) {
	if len(tags) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidArgument, "no resources given")
	}
	for _, tag := range tags {
		if err := errs.ValidateResourceTag(tag); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.graph.Has(name) {
		return nil, errs.New(errs.ErrCodeUnknownLocation, "location %q does not exist", name)
	}
	added := []string{}
	for _, tag := range tags {
		ok, err := s.graph.AddResource(name, tag)
		if err != nil {
			return added, err
		}
		if ok {
			added = append(added, tag)
			s.dirty = true
		}
	}
	return added, nil
}

// RemoveResources removes tags from a location and returns those that were
// present.
func (s *Session) RemoveResources(name string, tags ...string) ([]string, error) {
	if len(tags) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidArgument, "no resources given")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := []string{}
	for _, tag := range tags {
		ok, err := s.graph.RemoveResource(name, tag)
		if err != nil {
			return removed, err
		}
		if ok {
			removed = append(removed, tag)
			s.dirty = true
		}
	}
	return removed, nil
}

// Goto makes name the current location and describes it. Going to the
// location that is already current leaves the session clean.
func (s *Session) Goto(name string) (LocationInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, _ := s.graph.Current()
	if err := s.graph.SetCurrent(name); err != nil {
		return LocationInfo{}, err
	}
	if prev != name {
		s.dirty = true
	}
	return s.info(name)
}

// =============================================================================
// Queries
// =============================================================================

// Current returns the current location name, if any.
func (s *Session) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Current()
}

// LocationInfo describes the named location.
func (s *Session) LocationInfo(name string) (LocationInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info(name)
}

// Look describes the current location. Fails with NO_CURRENT_LOCATION when
// none is set.
func (s *Session) Look() (LocationInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.current()
	if err != nil {
		return LocationInfo{}, err
	}
	return s.info(cur)
}

// Locations describes every location in insertion order.
func (s *Session) Locations() []LocationInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, _ := s.graph.Current()
	locs := s.graph.Locations()
	out := make([]LocationInfo, len(locs))
	for i, l := range locs {
		out[i] = toInfo(l, cur)
	}
	return out
}

// Resources lists every tag with the locations carrying it.
func (s *Session) Resources() []world.ResourceEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Resources()
}

// Find returns the locations carrying tag.
func (s *Session) Find(tag string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.FindLocationsWithResource(tag)
}

// Route finds the shortest path between any two locations. It fails with
// UNKNOWN_LOCATION for an unknown endpoint and reports false when dest is
// unreachable.
func (s *Session) Route(ctx context.Context, from, to string) ([]world.Direction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route(ctx, from, to)
}

// PathFromCurrent finds the shortest path from the current location to dest.
// It fails with NO_CURRENT_LOCATION when no location is current and with
// UNKNOWN_LOCATION when dest does not exist.
func (s *Session) PathFromCurrent(ctx context.Context, dest string) ([]world.Direction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.current()
	if err != nil {
		return nil, false, err
	}
	return s.route(ctx, cur, dest)
}

// NearestFromCurrent finds the closest location carrying tag, starting at
// the current location. It fails with NO_CURRENT_LOCATION when no location is
// current and reports false when no holder is reachable.
func (s *Session) NearestFromCurrent(ctx context.Context, tag string) (world.NearestResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.current()
	if err != nil {
		return world.NearestResult{}, false, err
	}

	begin := time.Now()
	res, found := s.graph.FindNearestResource(tag, cur)
	observability.Query().OnNearest(ctx, tag, cur, res.Location, time.Since(begin))
	return res, found, nil
}

func (s *Session) route(ctx context.Context, from, to string) ([]world.Direction, bool, error) {
	for _, name := range []string{from, to} {
		if !s.graph.Has(name) {
			return nil, false, errs.New(errs.ErrCodeUnknownLocation, "location %q does not exist", name)
		}
	}
	begin := time.Now()
	path, found := s.graph.FindPath(from, to)
	steps := len(path)
	if !found {
		steps = -1
	}
	observability.Query().OnPath(ctx, from, to, steps, time.Since(begin))
	return path, found, nil
}

func (s *Session) current() (string, error) {
	cur, ok := s.graph.Current()
	if !ok {
		return "", errs.New(errs.ErrCodeNoCurrentLocation, "no current location (use goto first)")
	}
	return cur, nil
}

func (s *Session) info(name string) (LocationInfo, error) {
	loc, ok := s.graph.Location(name)
	if !ok {
		return LocationInfo{}, errs.New(errs.ErrCodeUnknownLocation, "location %q does not exist", name)
	}
	cur, _ := s.graph.Current()
	return toInfo(loc, cur), nil
}

func toInfo(loc *world.Location, current string) LocationInfo {
	return LocationInfo{
		Name:      loc.Name,
		Resources: loc.Resources,
		Exits:     loc.Exits(),
		Current:   loc.Name == current,
	}
}
