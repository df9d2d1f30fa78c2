package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/disposition/pkg/core/id"
	"github.com/matzehuels/disposition/pkg/core/ir"
)

// Options configures DOT generation.
type Options struct {
	// Detailed appends entity descriptions to node labels.
	Detailed bool
	// LeftToRight lays ranks out horizontally.
	LeftToRight bool
}

// ToDOT converts d to Graphviz DOT source.
func ToDOT(d *ir.Diagram, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.LeftToRight {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  fontname=\"Go Mono\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Go Mono\", fontsize=11];\n")
	buf.WriteString("  edge [fontname=\"Go Mono\", fontsize=9];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")

	writeLevel(&buf, d, d.NodeHierarchy, opts, "  ")

	buf.WriteString("\n")
	for g, edges := range d.EdgeGroups.All() {
		style := ""
		if d.IsInteraction(g) {
			style = ", style=dashed, color=\"#8b5cf6\""
		}
		for i, e := range edges {
			fmt.Fprintf(&buf, "  %q -> %q [id=%q%s];\n", e.From, e.To, id.NewEdgeID(g, i), style)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeLevel(buf *bytes.Buffer, d *ir.Diagram, h ir.NodeHierarchy, opts Options, indent string) {
	for n, children := range h.All() {
		if children.Len() == 0 {
			writeNode(buf, d, n, opts, indent)
			continue
		}
		fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+string(n))
		fmt.Fprintf(buf, "%s  label=%q;\n", indent, "")
		fmt.Fprintf(buf, "%s  style=\"rounded,dashed\";\n", indent)
		fmt.Fprintf(buf, "%s  color=%q;\n", indent, clusterColor(d.NodeKind(n)))
		writeNode(buf, d, n, opts, indent+"  ")
		writeLevel(buf, d, children, opts, indent+"  ")
		fmt.Fprintf(buf, "%s}\n", indent)
	}
}

func writeNode(buf *bytes.Buffer, d *ir.Diagram, n id.NodeID, opts Options, indent string) {
	attrs := []string{"label=" + strconv.Quote(label(d, n, opts.Detailed))}
	attrs = append(attrs, kindAttrs(d.NodeKind(n))...)
	fmt.Fprintf(buf, "%s%q [%s];\n", indent, n, strings.Join(attrs, ", "))
}

func label(d *ir.Diagram, n id.NodeID, detailed bool) string {
	l := d.Nodes.Value(n)
	if l == "" {
		l = string(n)
	}
	if detailed {
		if desc := d.EntityDescs.Value(id.ID(n)); desc != "" {
			l += "\n" + desc
		}
	}
	return l
}

func kindAttrs(k ir.Kind) []string {
	switch k {
	case ir.KindTag:
		return []string{"shape=note", "fillcolor=\"#d1fae5\""}
	case ir.KindProcess:
		return []string{"shape=folder", "fillcolor=\"#bfdbfe\""}
	case ir.KindProcessStep:
		return []string{"fillcolor=\"#dbeafe\""}
	}
	return nil
}

func clusterColor(k ir.Kind) string {
	if k == ir.KindProcess {
		return "#3b82f6"
	}
	return "#94a3b8"
}

// RenderSVG lays out dot with Graphviz and returns the SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based root element with one
// sized in pixels from the view box.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
