// Package nodelink draws a diagram's IR as a plain Graphviz graph.
//
// The overview is a debugging aid: it shows every IR node and edge without
// the flex layout, so the lowering can be checked independently of
// positioning. Nodes with children become clusters, with the parent itself
// drawn as the first node of its cluster. Interaction edges are dashed.
//
//	dot := nodelink.ToDOT(d, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Dependencies
//
// SVG output uses [github.com/goccy/go-graphviz], which runs Graphviz in
// process, so no dot binary is needed.
package nodelink
