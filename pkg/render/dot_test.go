package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/wayfinder/pkg/world"
)

func scenario(t *testing.T) world.Snapshot {
	t.Helper()
	g := world.New()
	_ = g.AddLocation("Forest", "wood", "berries")
	_ = g.AddLocation("Beach", "sand")
	_ = g.AddLocation("Mountain")
	if _, err := g.AddConnection("Forest", "Beach", world.South); err != nil {
		t.Fatal(err)
	}
	if err := g.SetCurrent("Beach"); err != nil {
		t.Fatal(err)
	}
	snap := g.Snapshot()
	// One-way: Beach east -> Mountain without the way back.
	snap.Locations[1].Connections[world.East] = "Mountain"
	return snap
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(scenario(t), Options{})

	if !strings.HasPrefix(dot, "digraph world {") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, name := range []string{`"Forest"`, `"Beach"`, `"Mountain"`} {
		if !strings.Contains(dot, name+" [label=") {
			t.Errorf("ToDOT() output missing node %s", name)
		}
	}
	if strings.Contains(dot, "wood") {
		t.Error("ToDOT() shows resources without Options.Resources")
	}
}

func TestToDOTReciprocalPairDrawnOnce(t *testing.T) {
	dot := ToDOT(scenario(t), Options{})

	if got := strings.Count(dot, `"Forest" -> "Beach"`); got != 1 {
		t.Errorf("Forest -> Beach edges = %d, want 1", got)
	}
	if strings.Contains(dot, `"Beach" -> "Forest"`) {
		t.Error("reverse half of a reciprocal pair was drawn")
	}
	if !strings.Contains(dot, `dir=both, label="south / north"`) {
		t.Errorf("reciprocal edge not double-headed:\n%s", dot)
	}
	if !strings.Contains(dot, `"Beach" -> "Mountain" [tailport=e, headport=w, label="east"]`) {
		t.Errorf("one-way edge missing:\n%s", dot)
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(scenario(t), Options{Resources: true, HighlightCurrent: true})

	if !strings.Contains(dot, `label="Forest\nwood, berries"`) {
		t.Errorf("resource label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `"Mountain" [label="Mountain"]`) {
		t.Errorf("location without resources should have a plain label:\n%s", dot)
	}
	if !strings.Contains(dot, `"Beach" [label="Beach\nsand", fillcolor="#ffe08a", penwidth=2]`) {
		t.Errorf("current location not highlighted:\n%s", dot)
	}
}

func TestToDOTSelfLoop(t *testing.T) {
	g := world.New()
	_ = g.AddLocation("Maze")
	if _, err := g.AddConnection("Maze", "Maze", world.North); err != nil {
		t.Fatal(err)
	}
	dot := ToDOT(g.Snapshot(), Options{})
	if got := strings.Count(dot, `"Maze" -> "Maze"`); got != 1 {
		t.Errorf("self-loop edges = %d, want 1:\n%s", got, dot)
	}
}

func TestRenderDOTPassthrough(t *testing.T) {
	out, err := Render(t.Context(), "digraph x {}", FormatDOT)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "digraph x {}" {
		t.Errorf("Render(dot) = %q", out)
	}
	if _, err := Render(t.Context(), "digraph x {}", "pdf"); err == nil {
		t.Error("Render(pdf) should fail")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("normalizeViewBox without viewBox = %s", got)
	}
}
