package world

import (
	"slices"
	"testing"

	errs "github.com/matzehuels/wayfinder/pkg/errors"
)

// scenario builds Forest --south--> Beach --east--> Mountain.
func scenario(t *testing.T) *Graph {
	t.Helper()
	g := New()
	must(t, g.AddLocation("Forest", "wood", "berries"))
	must(t, g.AddLocation("Beach", "sand", "shells"))
	must(t, g.AddLocation("Mountain", "stone", "iron"))
	connect(t, g, "Forest", "Beach", South)
	connect(t, g, "Beach", "Mountain", East)
	return g
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func connect(t *testing.T, g *Graph, from, to string, d Direction) ConnectResult {
	t.Helper()
	res, err := g.AddConnection(from, to, d)
	if err != nil {
		t.Fatalf("AddConnection(%s, %s, %v): %v", from, to, d, err)
	}
	return res
}

func TestAddLocation(t *testing.T) {
	g := New()
	must(t, g.AddLocation("Forest", "wood", "berries", "wood"))

	loc, ok := g.Location("Forest")
	if !ok {
		t.Fatal("Forest not found")
	}
	if want := []string{"wood", "berries"}; !slices.Equal(loc.Resources, want) {
		t.Errorf("resources = %v, want %v", loc.Resources, want)
	}
	if len(loc.Connections) != 0 {
		t.Errorf("connections = %v, want none", loc.Connections)
	}
	if got := g.FindLocationsWithResource("wood"); !slices.Equal(got, []string{"Forest"}) {
		t.Errorf("FindLocationsWithResource(wood) = %v, want [Forest]", got)
	}
}

func TestAddLocationErrors(t *testing.T) {
	g := New()
	must(t, g.AddLocation("Forest", "wood"))

	tests := []struct {
		name      string
		loc       string
		resources []string
		code      errs.Code
	}{
		{"Duplicate", "Forest", []string{"sand"}, errs.ErrCodeDuplicateLocation},
		{"EmptyName", "", nil, errs.ErrCodeInvalidArgument},
		{"EmptyResource", "Beach", []string{"sand", ""}, errs.ErrCodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.AddLocation(tt.loc, tt.resources...)
			if !errs.Is(err, tt.code) {
				t.Fatalf("AddLocation error = %v, want %s", err, tt.code)
			}
		})
	}

	if g.Len() != 1 {
		t.Errorf("Len = %d, want 1", g.Len())
	}
	loc, _ := g.Location("Forest")
	if !slices.Equal(loc.Resources, []string{"wood"}) {
		t.Errorf("duplicate add changed Forest: %v", loc.Resources)
	}
	if got := g.FindLocationsWithResource("sand"); len(got) != 0 {
		t.Errorf("sand indexed after failed adds: %v", got)
	}
}

func TestAddConnectionReciprocal(t *testing.T) {
	g := scenario(t)

	forest, _ := g.Location("Forest")
	beach, _ := g.Location("Beach")
	mountain, _ := g.Location("Mountain")

	if got, _ := forest.Connection(South); got != "Beach" {
		t.Errorf("Forest south = %q, want Beach", got)
	}
	if got, _ := beach.Connection(North); got != "Forest" {
		t.Errorf("Beach north = %q, want Forest", got)
	}
	if got, _ := beach.Connection(East); got != "Mountain" {
		t.Errorf("Beach east = %q, want Mountain", got)
	}
	if got, _ := mountain.Connection(West); got != "Beach" {
		t.Errorf("Mountain west = %q, want Beach", got)
	}
	must(t, g.Validate())
}

func TestAddConnectionFillsEmptySlotsOnly(t *testing.T) {
	g := New()
	for _, name := range []string{"A", "B", "C"} {
		must(t, g.AddLocation(name))
	}

	if res := connect(t, g, "A", "B", North); !res.Forward || !res.Reverse {
		t.Fatalf("first connect = %+v, want both sides written", res)
	}

	// A north is taken; only C south is free.
	res := connect(t, g, "A", "C", North)
	if res.Forward {
		t.Error("A north was overwritten")
	}
	if !res.Reverse {
		t.Error("C south should have been filled")
	}

	a, _ := g.Location("A")
	c, _ := g.Location("C")
	if got, _ := a.Connection(North); got != "B" {
		t.Errorf("A north = %q, want B", got)
	}
	if got, _ := c.Connection(South); got != "A" {
		t.Errorf("C south = %q, want A", got)
	}

	// Repeating the original connection changes nothing.
	if res := connect(t, g, "A", "B", North); res.Changed() {
		t.Errorf("repeat connect = %+v, want no change", res)
	}
}

func TestAddConnectionErrors(t *testing.T) {
	g := scenario(t)
	before := g.Snapshot()

	tests := []struct {
		name     string
		from, to string
		dir      Direction
		code     errs.Code
	}{
		{"UnknownFrom", "Cave", "Beach", North, errs.ErrCodeUnknownLocation},
		{"UnknownTo", "Beach", "Cave", South, errs.ErrCodeUnknownLocation},
		{"InvalidDirection", "Forest", "Mountain", Direction(9), errs.ErrCodeInvalidDirection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.AddConnection(tt.from, tt.to, tt.dir)
			if !errs.Is(err, tt.code) {
				t.Fatalf("AddConnection error = %v, want %s", err, tt.code)
			}
		})
	}
	assertSnapshotEqual(t, g.Snapshot(), before)
}

func TestResources(t *testing.T) {
	g := scenario(t)

	added, err := g.AddResource("Beach", "wood")
	must(t, err)
	if !added {
		t.Error("AddResource(Beach, wood) = false, want true")
	}
	added, err = g.AddResource("Beach", "wood")
	must(t, err)
	if added {
		t.Error("second AddResource(Beach, wood) = true, want false")
	}
	if got, want := g.FindLocationsWithResource("wood"), []string{"Forest", "Beach"}; !slices.Equal(got, want) {
		t.Errorf("wood holders = %v, want %v", got, want)
	}

	removed, err := g.RemoveResource("Forest", "wood")
	must(t, err)
	if !removed {
		t.Error("RemoveResource(Forest, wood) = false, want true")
	}
	removed, err = g.RemoveResource("Forest", "wood")
	must(t, err)
	if removed {
		t.Error("second RemoveResource(Forest, wood) = true, want false")
	}
	if got, want := g.FindLocationsWithResource("wood"), []string{"Beach"}; !slices.Equal(got, want) {
		t.Errorf("wood holders = %v, want %v", got, want)
	}

	_, _ = g.RemoveResource("Beach", "wood")
	for _, e := range g.Resources() {
		if e.Tag == "wood" {
			t.Errorf("wood still listed after last holder removed: %v", e)
		}
	}
	must(t, g.Validate())

	if _, err := g.AddResource("Cave", "gems"); !errs.Is(err, errs.ErrCodeUnknownLocation) {
		t.Errorf("AddResource(Cave) error = %v, want UNKNOWN_LOCATION", err)
	}
	if _, err := g.AddResource("Beach", ""); !errs.Is(err, errs.ErrCodeInvalidArgument) {
		t.Errorf("AddResource(empty) error = %v, want INVALID_ARGUMENT", err)
	}
	if _, err := g.RemoveResource("Cave", "gems"); !errs.Is(err, errs.ErrCodeUnknownLocation) {
		t.Errorf("RemoveResource(Cave) error = %v, want UNKNOWN_LOCATION", err)
	}
}

func TestResourcesSorted(t *testing.T) {
	g := scenario(t)
	var tags []string
	for _, e := range g.Resources() {
		tags = append(tags, e.Tag)
	}
	want := []string{"berries", "iron", "sand", "shells", "stone", "wood"}
	if !slices.Equal(tags, want) {
		t.Errorf("tags = %v, want %v", tags, want)
	}
}

func TestFindLocationsWithResourceUnknown(t *testing.T) {
	g := scenario(t)
	got := g.FindLocationsWithResource("gold")
	if got == nil || len(got) != 0 {
		t.Errorf("FindLocationsWithResource(gold) = %#v, want empty slice", got)
	}
}

func TestLocationReturnsCopy(t *testing.T) {
	g := scenario(t)
	loc, _ := g.Location("Forest")
	loc.Resources[0] = "plastic"
	loc.Connections[North] = "Nowhere"

	again, _ := g.Location("Forest")
	if again.Resources[0] != "wood" {
		t.Errorf("graph resource mutated through copy: %v", again.Resources)
	}
	if _, ok := again.Connection(North); ok {
		t.Error("graph connection mutated through copy")
	}
}

func TestLocationsOrder(t *testing.T) {
	g := scenario(t)
	var names []string
	for _, l := range g.Locations() {
		names = append(names, l.Name)
	}
	if want := []string{"Forest", "Beach", "Mountain"}; !slices.Equal(names, want) {
		t.Errorf("Locations = %v, want %v", names, want)
	}
}

func TestCurrent(t *testing.T) {
	g := scenario(t)
	if _, ok := g.Current(); ok {
		t.Error("new graph has a current location")
	}
	if err := g.SetCurrent("Cave"); !errs.Is(err, errs.ErrCodeUnknownLocation) {
		t.Errorf("SetCurrent(Cave) error = %v, want UNKNOWN_LOCATION", err)
	}
	must(t, g.SetCurrent("Beach"))
	if cur, ok := g.Current(); !ok || cur != "Beach" {
		t.Errorf("Current = %q, %v, want Beach, true", cur, ok)
	}
	g.ClearCurrent()
	if _, ok := g.Current(); ok {
		t.Error("ClearCurrent left a current location")
	}
}

func TestClear(t *testing.T) {
	g := scenario(t)
	must(t, g.SetCurrent("Forest"))
	g.Clear()

	if g.Len() != 0 {
		t.Errorf("Len = %d, want 0", g.Len())
	}
	if len(g.Resources()) != 0 {
		t.Errorf("Resources = %v, want none", g.Resources())
	}
	if _, ok := g.Current(); ok {
		t.Error("Clear left a current location")
	}
	must(t, g.AddLocation("Forest"))
}

func TestSnapshotRestoreIdentity(t *testing.T) {
	g := scenario(t)
	must(t, g.SetCurrent("Beach"))
	// A one-directional edge must survive the round trip as-is.
	extra := g.locations["Mountain"]
	extra.Connections[North] = "Forest"

	snap := g.Snapshot()
	other := New()
	must(t, other.Restore(snap))
	assertSnapshotEqual(t, other.Snapshot(), snap)
	must(t, other.Validate())

	if got := other.FindLocationsWithResource("iron"); !slices.Equal(got, []string{"Mountain"}) {
		t.Errorf("index not rebuilt: iron = %v", got)
	}
}

func TestRestoreRejectsInconsistentSnapshot(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		code errs.Code
	}{
		{
			name: "Duplicate",
			snap: Snapshot{Locations: []*Location{NewLocation("A"), NewLocation("A")}},
			code: errs.ErrCodeDuplicateLocation,
		},
		{
			name: "DanglingConnection",
			snap: Snapshot{Locations: []*Location{
				{Name: "A", Connections: map[Direction]string{North: "Ghost"}},
			}},
			code: errs.ErrCodeUnknownLocation,
		},
		{
			name: "DanglingCurrent",
			snap: Snapshot{Locations: []*Location{NewLocation("A")}, Current: "Ghost"},
			code: errs.ErrCodeUnknownLocation,
		},
		{
			name: "InvalidDirection",
			snap: Snapshot{Locations: []*Location{
				NewLocation("B"),
				{Name: "A", Connections: map[Direction]string{Direction(0): "B"}},
			}},
			code: errs.ErrCodeInvalidDirection,
		},
		{
			name: "NilLocation",
			snap: Snapshot{Locations: []*Location{nil}},
			code: errs.ErrCodeInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := scenario(t)
			must(t, g.SetCurrent("Forest"))
			before := g.Snapshot()

			err := g.Restore(tt.snap)
			if !errs.Is(err, tt.code) {
				t.Fatalf("Restore error = %v, want %s", err, tt.code)
			}
			assertSnapshotEqual(t, g.Snapshot(), before)
		})
	}
}

func TestSample(t *testing.T) {
	g := Sample()
	if g.Len() != 8 {
		t.Fatalf("Len = %d, want 8", g.Len())
	}
	must(t, g.Validate())

	lake, _ := g.Location("Lake")
	if got, _ := lake.Connection(South); got != "Village" {
		t.Errorf("Lake south = %q, want Village (first connection wins)", got)
	}
	plains, _ := g.Location("Plains")
	if got, _ := plains.Connection(North); got != "Lake" {
		t.Errorf("Plains north = %q, want Lake", got)
	}
	if got, want := g.FindLocationsWithResource("water"), []string{"Lake", "Camp", "Village", "Cave"}; !slices.Equal(got, want) {
		t.Errorf("water holders = %v, want %v", got, want)
	}
}

func assertSnapshotEqual(t *testing.T, got, want Snapshot) {
	t.Helper()
	if got.Current != want.Current {
		t.Errorf("current = %q, want %q", got.Current, want.Current)
	}
	if len(got.Locations) != len(want.Locations) {
		t.Fatalf("%d locations, want %d", len(got.Locations), len(want.Locations))
	}
	for i := range want.Locations {
		g, w := got.Locations[i], want.Locations[i]
		if g.Name != w.Name {
			t.Errorf("location[%d] = %q, want %q", i, g.Name, w.Name)
		}
		if !slices.Equal(g.Resources, w.Resources) {
			t.Errorf("%s resources = %v, want %v", w.Name, g.Resources, w.Resources)
		}
		if len(g.Connections) != len(w.Connections) {
			t.Errorf("%s connections = %v, want %v", w.Name, g.Connections, w.Connections)
			continue
		}
		for d, target := range w.Connections {
			if g.Connections[d] != target {
				t.Errorf("%s %v = %q, want %q", w.Name, d, g.Connections[d], target)
			}
		}
	}
}
