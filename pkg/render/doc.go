// Package render draws world maps as Graphviz diagrams.
//
// [ToDOT] turns a [world.Snapshot] into DOT source; [RenderSVG] and [Render]
// lay it out in-process with [github.com/goccy/go-graphviz], so no Graphviz
// installation is required.
//
//	dot := render.ToDOT(sess.Snapshot(), render.Options{Resources: true, HighlightCurrent: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// Edges leave a location on the side matching their direction: a north exit
// starts at the top of the box. Two locations joined in both directions share
// one double-headed edge.
package render
