package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/wayfinder/pkg/world"
)

// Options configures map diagram rendering.
type Options struct {
	// Resources lists each location's resource tags under its name.
	Resources bool

	// HighlightCurrent fills the current location with an accent colour.
	HighlightCurrent bool
}

// Output formats understood by [Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// compass maps a direction to the Graphviz port on that side of a node.
var compass = map[world.Direction]string{
	world.North: "n",
	world.South: "s",
	world.East:  "e",
	world.West:  "w",
}

// ToDOT converts a map snapshot to Graphviz DOT.
//
// Every location becomes a rounded box. Connections leave and enter nodes on
// the compass side matching their direction. A pair of connections that
// point back at each other (Forest south to Beach, Beach north to Forest) is
// drawn as one double-headed edge; a one-way connection keeps a single arrow.
func ToDOT(snap world.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph world {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10, color=\"#555555\"];\n")
	buf.WriteString("\n")

	index := make(map[string]int, len(snap.Locations))
	for i, l := range snap.Locations {
		index[l.Name] = i
	}

	for _, l := range snap.Locations {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(l, opts.Resources))}
		if opts.HighlightCurrent && l.Name == snap.Current {
			attrs = append(attrs, `fillcolor="#ffe08a"`, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", l.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range snap.Locations {
		for _, exit := range l.Exits() {
			back := exit.Direction.Opposite()
			target := findLocation(snap, index, exit.Target)
			reciprocal := false
			if target != nil {
				if from, ok := target.Connection(back); ok && from == l.Name {
					reciprocal = true
				}
			}
			if reciprocal && !drawsPair(index, l.Name, exit.Direction, exit.Target, back) {
				continue
			}

			attrs := []string{
				fmt.Sprintf("tailport=%s", compass[exit.Direction]),
				fmt.Sprintf("headport=%s", compass[back]),
			}
			if reciprocal {
				attrs = append(attrs, "dir=both", fmt.Sprintf("label=%q", exit.Direction.String()+" / "+back.String()))
			} else {
				attrs = append(attrs, fmt.Sprintf("label=%q", exit.Direction.String()))
			}
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", l.Name, exit.Target, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// drawsPair reports whether the (from, d) side owns the edge of a reciprocal
// pair. The side listed first in the snapshot wins; a self-loop pair is drawn
// from its canonically first direction.
func drawsPair(index map[string]int, from string, d world.Direction, to string, back world.Direction) bool {
	if from == to {
		return d < back
	}
	return index[from] < index[to]
}

func findLocation(snap world.Snapshot, index map[string]int, name string) *world.Location {
	i, ok := index[name]
	if !ok {
		return nil
	}
	return snap.Locations[i]
}

func fmtLabel(l *world.Location, resources bool) string {
	if !resources || len(l.Resources) == 0 {
		return l.Name
	}
	return l.Name + "\n" + strings.Join(l.Resources, ", ")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := Render(ctx, dot, FormatSVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// Render renders a DOT graph in the given format. FormatDOT returns the
// source unchanged.
func Render(ctx context.Context, dot, format string) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, fmt.Errorf("unsupported format %q (expected dot, svg or png)", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales to its
// container instead of using Graphviz's point-based width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
