// Package layout positions every node of an IR diagram.
//
// The layout tree mirrors the IR node hierarchy wrapped in the built-in
// containers. Nodes without children are single text boxes; nodes with
// children become a column holding their label and a flex container for the
// children. Text is measured in monospace cells, so layouts are identical on
// every platform.
package layout

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/disposition/pkg/core/id"
	"github.com/matzehuels/disposition/pkg/core/ir"
	"github.com/matzehuels/disposition/pkg/core/omap"
	"github.com/matzehuels/disposition/pkg/errors"
)

// LOD is the level of detail of node text.
type LOD int

const (
	// Simple shows node labels only.
	Simple LOD = iota
	// Normal shows labels followed by descriptions.
	Normal
)

func (l LOD) String() string {
	if l == Normal {
		return "normal"
	}
	return "simple"
}

// ParseLOD parses "simple" or "normal".
func ParseLOD(s string) (LOD, error) {
	switch s {
	case "simple":
		return Simple, nil
	case "normal", "":
		return Normal, nil
	}
	return Simple, errors.New(errors.ErrCodeInvalidInput, "invalid level of detail %q (must be simple or normal)", s)
}

// Dimension bounds the diagram. A zero axis has no limit.
type Dimension struct {
	Width  float64
	Height float64
}

// NoLimit lets the diagram grow as wide and tall as its content.
var NoLimit = Dimension{}

// Definite bounds the diagram to w by h.
func Definite(w, h float64) Dimension { return Dimension{Width: w, Height: h} }

func (d Dimension) String() string {
	if d == NoLimit {
		return "nolimit"
	}
	return strconv.FormatFloat(d.Width, 'f', -1, 64) + "x" + strconv.FormatFloat(d.Height, 'f', -1, 64)
}

func axis(v float64) float64 {
	if v <= 0 {
		return math.Inf(1)
	}
	return v
}

// DimensionAndLOD selects one layout to build.
type DimensionAndLOD struct {
	Dimension Dimension
	LOD       LOD
}

// Rect is an axis-aligned box.
type Rect struct {
	X, Y, Width, Height float64
}

// Span is one line of node text, positioned relative to the node origin with
// Y on the text baseline.
type Span struct {
	X, Y, Width, Height float64
	Text                string
}

// Node is the layout of one diagram node. Body is the box holding the
// node's children and is zero for leaves.
type Node struct {
	Rect
	Body  Rect
	Spans []Span
}

// Layout is the result for one DimensionAndLOD.
type Layout struct {
	DimensionAndLOD
	Width, Height float64
	Nodes         omap.Map[id.NodeID, Node]
	Containers    omap.Map[id.NodeID, Rect]
}

// Build lays out d once per requested dimension. With no dimensions it
// builds a single unbounded Normal layout.
func Build(d *ir.Diagram, dls ...DimensionAndLOD) ([]*Layout, error) {
	if len(dls) == 0 {
		dls = []DimensionAndLOD{{Dimension: NoLimit, LOD: Normal}}
	}
	out := make([]*Layout, 0, len(dls))
	for _, dl := range dls {
		l, err := BuildOne(d, dl)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// BuildOne lays out d for a single dimension and level of detail.
func BuildOne(d *ir.Diagram, dl DimensionAndLOD) (*Layout, error) {
	if err := errors.ValidateDimension(dl.Dimension.Width, dl.Dimension.Height); err != nil {
		return nil, err
	}
	b := &builder{d: d, lod: dl.LOD}
	root, err := b.tree()
	if err != nil {
		return nil, err
	}
	s := &solver{}
	s.measure(root, axis(dl.Dimension.Width), axis(dl.Dimension.Height))
	root.x, root.y = root.margin.Left, root.margin.Top
	s.place(root)
	if s.err != nil {
		return nil, s.err
	}

	l := &Layout{DimensionAndLOD: dl}
	if !root.empty() {
		l.Width = root.w + root.margin.Left + root.margin.Right
		l.Height = root.h + root.margin.Top + root.margin.Bottom
	}
	collect(root, 0, 0, l)
	return l, nil
}

// collect converts relative box positions to absolute coordinates.
func collect(b *box, ox, oy float64, l *Layout) {
	x, y := ox+b.x, oy+b.y
	rect := Rect{X: x, Y: y, Width: b.w, Height: b.h}
	switch b.role {
	case roleContainer:
		l.Containers.Set(b.node, rect)
	case roleLeaf:
		l.Nodes.Set(b.node, Node{Rect: rect, Spans: spans(b, 0, 0)})
	case roleWrapper:
		label, body := b.children[0], b.children[1]
		l.Nodes.Set(b.node, Node{
			Rect:  rect,
			Body:  Rect{X: x + body.x, Y: y + body.y, Width: body.w, Height: body.h},
			Spans: spans(label, label.x, label.y),
		})
	}
	for _, c := range b.children {
		collect(c, x, y, l)
	}
}

// spans re-wraps the text of b against its final width.
func spans(b *box, ox, oy float64) []Span {
	if b.text == "" {
		return nil
	}
	inner := b.w - b.padding.Left - b.padding.Right - CharWidth
	lines := Wrap(b.text, MaxChars(inner))
	out := make([]Span, 0, len(lines))
	for i, line := range lines {
		out = append(out, Span{
			X:      ox + b.padding.Left + 0.5*CharWidth,
			Y:      oy + float64(i+1)*LineHeight + b.padding.Top,
			Width:  LineWidth(line),
			Height: LineHeight,
			Text:   line,
		})
	}
	return out
}

type builder struct {
	d   *ir.Diagram
	lod LOD
}

func (b *builder) text(n id.NodeID) string {
	label := b.d.Nodes.Value(n)
	if b.lod == Normal {
		if desc, ok := b.d.EntityDescs.Get(id.ID(n)); ok && desc != "" {
			return "# " + label + "\n\n" + desc
		}
	}
	return label
}

func (b *builder) container(n id.NodeID, children ...*box) *box {
	c := &box{node: n, role: roleContainer, children: children, border: 1}
	if l := b.d.NodeLayouts.Value(n); l.Flex != nil {
		c.flex(*l.Flex)
	}
	return c
}

func (b *builder) tree() (*box, error) {
	var tags, procs, things []*box
	for n, children := range b.d.NodeHierarchy.All() {
		nb, err := b.node(n, &children)
		if err != nil {
			return nil, err
		}
		switch b.d.NodeKind(n) {
		case ir.KindTag:
			tags = append(tags, nb)
		case ir.KindProcess:
			procs = append(procs, nb)
		default:
			things = append(things, nb)
		}
	}
	return b.container(id.Root,
		b.container(id.TagsContainer, tags...),
		b.container(id.ThingsAndProcessesContainer,
			b.container(id.ProcessesContainer, procs...),
			b.container(id.ThingsContainer, things...),
		),
	), nil
}

func (b *builder) node(n id.NodeID, children *ir.NodeHierarchy) (*box, error) {
	if !b.d.Nodes.Has(n) {
		return nil, errors.New(errors.ErrCodeLayout, "node %q is in the hierarchy but has no label", n)
	}
	if children.Len() == 0 {
		return &box{node: n, role: roleLeaf, text: b.text(n)}, nil
	}
	var kids []*box
	for c, grand := range children.All() {
		cb, err := b.node(c, &grand)
		if err != nil {
			return nil, err
		}
		kids = append(kids, cb)
	}
	l := b.d.NodeLayouts.Value(n)
	if l.Flex == nil {
		return nil, errors.New(errors.ErrCodeLayout, "node %q has children but no flex layout", n)
	}
	w := &box{node: n, role: roleWrapper, border: 1, alignStart: true}
	w.flex(*l.Flex)
	w.dir, w.wrap = ir.Column, false
	inner := &box{node: n, role: roleChildren, border: 1, children: kids}
	inner.flex(*l.Flex)
	w.children = []*box{{node: n, role: roleText, text: b.text(n)}, inner}
	return w, nil
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}
