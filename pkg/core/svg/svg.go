// Package svg writes the final diagram document.
//
// The document is self-contained: a single <svg> root whose <style> element
// carries the compiled utility classes, the embedded monospace font and the
// diagram's own CSS. Nodes are written in tab order followed by edges, and all
// interactivity is driven by CSS reacting to focus, so no script is emitted.
package svg

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/matzehuels/disposition/pkg/core/geometry"
	"github.com/matzehuels/disposition/pkg/core/id"
	"github.com/matzehuels/disposition/pkg/core/layout"
	"github.com/matzehuels/disposition/pkg/core/omap"
	"github.com/matzehuels/disposition/pkg/core/tailwind"
	"github.com/matzehuels/disposition/pkg/fonts"
)

// Option configures Render.
type Option func(*renderer)

// WithCompiler replaces the builtin class compiler.
func WithCompiler(c tailwind.Compiler) Option { return func(r *renderer) { r.compiler = c } }

// WithTooltips adds a <title> to every node and edge with an entry in t. The
// entries are markdown and are flattened to plain text.
func WithTooltips(t *omap.Map[id.ID, string]) Option { return func(r *renderer) { r.tooltips = t } }

// WithoutFont leaves out the embedded font face.
func WithoutFont() Option { return func(r *renderer) { r.noFont = true } }

type renderer struct {
	compiler tailwind.Compiler
	tooltips *omap.Map[id.ID, string]
	noFont   bool
}

type nodeClasses struct {
	node, wrapper string
}

type edgeClasses struct {
	edge, arrow string
}

// Render writes e as an SVG document.
func Render(e *geometry.Elements, opts ...Option) []byte {
	r := renderer{compiler: tailwind.NewBuiltin()}
	for _, opt := range opts {
		opt(&r)
	}

	var all []string
	nodes := make([]nodeClasses, len(e.Nodes))
	for i, n := range e.Nodes {
		nodes[i] = nodeClasses{
			node:    escapeBrackets(e.TailwindClasses.Value(id.ID(n.ID))),
			wrapper: escapeBrackets(n.WrapperClasses),
		}
		all = append(all, nodes[i].node, nodes[i].wrapper)
	}
	edges := make([]edgeClasses, len(e.Edges))
	for i, ed := range e.Edges {
		edges[i] = edgeClasses{
			edge:  escapeBrackets(joinClasses(e.TailwindClasses.Value(id.ID(ed.Group)), e.TailwindClasses.Value(id.ID(ed.ID)))),
			arrow: escapeBrackets(joinClasses("arrow_head", e.TailwindClasses.Value(geometry.ArrowHeadKey(ed.ID)))),
		}
		all = append(all, edges[i].edge, edges[i].arrow)
	}

	var buf bytes.Buffer
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="` + geometry.Num(e.Width) +
		`" height="` + geometry.Num(e.Height) + `" class="group">` + "\n")
	r.writeStyle(&buf, r.compiler.Compile(all), e.CSS)
	for i := range e.Nodes {
		r.writeNode(&buf, &e.Nodes[i], nodes[i])
	}
	for i := range e.Edges {
		r.writeEdge(&buf, &e.Edges[i], edges[i])
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func joinClasses(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}

func (r *renderer) writeStyle(buf *bytes.Buffer, compiled, css string) {
	buf.WriteString("<style>\n")
	buf.WriteString(escapeStyle(compiled))
	buf.WriteString("text { font-family: " + fonts.FallbackFontFamily + "; font-size: " + geometry.Num(layout.FontSize) + "px; }\n")
	if !r.noFont {
		buf.WriteString(fonts.FontFace() + "\n")
	}
	if css != "" {
		buf.WriteString(escapeStyle(css))
		buf.WriteByte('\n')
	}
	buf.WriteString("</style>\n")
}

func (r *renderer) writeTitle(buf *bytes.Buffer, ids ...id.ID) {
	if r.tooltips == nil {
		return
	}
	for _, k := range ids {
		if t, ok := r.tooltips.Get(k); ok && t != "" {
			buf.WriteString("  <title>" + escapeXML(plainText(t)) + "</title>\n")
			return
		}
	}
}

func (r *renderer) writeNode(buf *bytes.Buffer, n *geometry.NodeInfo, c nodeClasses) {
	buf.WriteString(`<g id="` + escapeXML(string(n.ID)) + `" tabindex="` + strconv.FormatUint(uint64(n.TabIndex), 10) + `"`)
	if c.node != "" {
		buf.WriteString(` class="` + escapeXML(c.node) + `"`)
	}
	buf.WriteString(">\n")
	r.writeTitle(buf, id.ID(n.ID))

	buf.WriteString(`  <path d="` + n.Path + `"`)
	if c.wrapper != "" {
		buf.WriteString(` class="` + escapeXML(c.wrapper) + `"`)
	}
	buf.WriteString(" />\n")
	if n.Circle != nil {
		buf.WriteString(`  <g><path d="` + n.Circle.Path + `" /></g>` + "\n")
	}
	for _, s := range n.Spans {
		buf.WriteString(`  <text x="` + geometry.Num(s.X) + `" y="` + geometry.Num(s.Y) + `">` + escapeXML(s.Text) + "</text>\n")
	}
	buf.WriteString("</g>\n")
}

func (r *renderer) writeEdge(buf *bytes.Buffer, e *geometry.EdgeInfo, c edgeClasses) {
	buf.WriteString(`<g id="` + escapeXML(string(e.ID)) + `"`)
	if c.edge != "" {
		buf.WriteString(` class="` + escapeXML(c.edge) + `"`)
	}
	buf.WriteString(">\n")
	r.writeTitle(buf, id.ID(e.ID), id.ID(e.Group))
	buf.WriteString(`  <path d="` + e.Path + `" fill="none" />` + "\n")
	if e.ArrowHead != "" {
		buf.WriteString(`  <g class="` + escapeXML(c.arrow) + `"><path d="` + e.ArrowHead + `" /></g>` + "\n")
	}
	buf.WriteString("</g>\n")
}
