package world

// NearestResult is the answer to [Graph.FindNearestResource].
type NearestResult struct {
	Location string      // name of the closest location carrying the tag
	Path     []Direction // directions from the start to Location
}

// step records how a location was first reached during a search.
type step struct {
	from string
	via  Direction
}

// FindPath returns the shortest sequence of directions leading from start to
// end, counting every connection as one step.
//
// The search is breadth-first and expands each location's exits in
// canonical order (north, south, east, west); a location keeps the first
// predecessor that reached it. Among several shortest paths this selects the
// one whose direction sequence is lexicographically smallest in that order,
// so results are reproducible.
//
// Ties are broken by direction, not by location name: older map tools that
// expand the alphabetically smaller location first can pick a different
// route of the same length through a diamond.
//
// FindPath returns ([], true) when start == end and (nil, false) when either
// endpoint is unknown or end cannot be reached.
func (g *Graph) FindPath(start, end string) ([]Direction, bool) {
	if _, ok := g.locations[start]; !ok {
		return nil, false
	}
	if _, ok := g.locations[end]; !ok {
		return nil, false
	}
	if start == end {
		return []Direction{}, true
	}

	dist := map[string]int{start: 0}
	prev := make(map[string]step)
	queue := []string{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == end {
			break
		}
		loc := g.locations[cur]
		for _, d := range Directions() {
			next, ok := loc.Connections[d]
			if !ok {
				continue
			}
			if _, known := g.locations[next]; !known {
				continue
			}
			nd := dist[cur] + 1
			if old, seen := dist[next]; seen && old <= nd {
				continue
			}
			dist[next] = nd
			prev[next] = step{from: cur, via: d}
			queue = append(queue, next)
		}
	}

	if _, reached := dist[end]; !reached {
		return nil, false
	}
	return walkBack(prev, start, end, dist[end]), true
}

// walkBack rebuilds the direction sequence by following predecessors from end.
func walkBack(prev map[string]step, start, end string, n int) []Direction {
	path := make([]Direction, n)
	for at := end; at != start; {
		s := prev[at]
		n--
		path[n] = s.via
		at = s.from
	}
	return path
}

// FindNearestResource finds the location carrying tag that is the fewest
// steps away from start, together with the path to it.
//
// If start itself carries tag it is returned with an empty path. Otherwise
// holders are tried in the order the tag was added to them and the first one
// at the strictly smallest distance wins. Unreachable holders are skipped.
// FindNearestResource reports false when start is unknown or no holder is
// reachable.
func (g *Graph) FindNearestResource(tag, start string) (NearestResult, bool) {
	origin, ok := g.locations[start]
	if !ok {
		return NearestResult{}, false
	}
	if origin.HasResource(tag) {
		return NearestResult{Location: start, Path: []Direction{}}, true
	}

	var (
		best  NearestResult
		found bool
	)
	for _, holder := range g.index[tag] {
		path, ok := g.FindPath(start, holder)
		if !ok {
			continue
		}
		if !found || len(path) < len(best.Path) {
			best = NearestResult{Location: holder, Path: path}
			found = true
		}
	}
	return best, found
}
