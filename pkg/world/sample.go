package world

// sampleLocations seeds [Sample], in insertion order.
var sampleLocations = []struct {
	name      string
	resources []string
}{
	{"Beach", []string{"sand", "shells", "coconuts"}},
	{"Forest", []string{"wood", "berries", "mushrooms"}},
	{"Mountain", []string{"stone", "iron", "crystals"}},
	{"Cave", []string{"gems", "iron", "stone"}},
	{"Lake", []string{"fish", "water", "reeds"}},
	{"Camp", []string{"wood", "water", "tools"}},
	{"Plains", []string{"herbs", "grass", "flowers"}},
	{"Village", []string{"tools", "food", "water"}},
}

var sampleConnections = []struct {
	from, to string
	dir      Direction
}{
	{"Beach", "Forest", North},
	{"Beach", "Plains", East},
	{"Forest", "Mountain", North},
	{"Forest", "Cave", West},
	{"Mountain", "Cave", West},
	{"Mountain", "Lake", East},
	{"Lake", "Village", South},
	{"Lake", "Plains", South},
	{"Plains", "Village", North},
	{"Plains", "Camp", East},
	{"Village", "Camp", East},
}

var sampleExtras = []struct {
	name      string
	resources []string
}{
	{"Forest", []string{"herbs", "vines"}},
	{"Mountain", []string{"coal", "gold"}},
	{"Cave", []string{"mushrooms", "water"}},
	{"Beach", []string{"driftwood", "seashells"}},
	{"Village", []string{"medicine", "tools"}},
	{"Lake", []string{"lilies", "clay"}},
}

// Sample returns a small ready-made world of eight locations around a
// beach, useful for demos and tests. Some of its connections collide
// (Lake south is claimed twice), so it also shows the fill-empty rule at work.
func Sample() *Graph {
	g := New()
	for _, l := range sampleLocations {
		_ = g.AddLocation(l.name, l.resources...)
	}
	for _, c := range sampleConnections {
		_, _ = g.AddConnection(c.from, c.to, c.dir)
	}
	for _, e := range sampleExtras {
		for _, r := range e.resources {
			_, _ = g.AddResource(e.name, r)
		}
	}
	return g
}
