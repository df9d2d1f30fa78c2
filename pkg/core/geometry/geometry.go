// Package geometry turns a laid out diagram into drawable elements.
//
// Node outlines become SVG path data, edges become cubic Bézier paths between
// the faces of their nodes, and everything that depends on interaction state
// is expressed as utility classes: process expansion shifts nodes with
// group-has variants, and interaction edges animate their dash offset with
// per-edge keyframes appended to the diagram CSS.
package geometry

import (
	"math"

	"github.com/matzehuels/disposition/pkg/core/id"
	"github.com/matzehuels/disposition/pkg/core/ir"
	"github.com/matzehuels/disposition/pkg/core/layout"
	"github.com/matzehuels/disposition/pkg/core/omap"
)

// Elements is everything the SVG emitter draws.
type Elements struct {
	Width, Height float64
	Nodes         []NodeInfo
	Edges         []EdgeInfo
	Processes     omap.Map[id.NodeID, ProcessInfo]

	// TailwindClasses holds the IR classes of every entity with the
	// positioning and animation classes appended.
	TailwindClasses omap.Map[id.ID, string]
	CSS             string
}

// NodeInfo is one node in DOM order.
type NodeInfo struct {
	ID       id.NodeID
	TabIndex uint32

	// X and Y are absolute. The node is drawn at the origin and moved there
	// by its translate classes.
	X, Y            float64
	Width           float64
	HeightCollapsed float64
	Path            string

	// Process is the process the node is or belongs to.
	Process id.NodeID
	Spans   []layout.Span
	Circle  *Circle

	// WrapperClasses style the rectangular outline of circle nodes.
	WrapperClasses string
}

// Circle is the outline of a circle node, relative to the node origin.
type Circle struct {
	CX, CY, Radius float64
	Path           string
}

// ProcessInfo describes how a process expands.
type ProcessInfo struct {
	ID    id.NodeID
	Steps []id.NodeID
	Index int

	HeightExpanded float64
	PathExpanded   string
	// StepsHeight is the height the process loses when collapsed.
	StepsHeight float64
	// BaseY is the y of the process while every process above it is
	// collapsed.
	BaseY float64
}

// EdgeInfo is one drawn edge.
type EdgeInfo struct {
	ID        id.EdgeID
	Group     id.EdgeGroupID
	From, To  id.NodeID
	Path      string
	ArrowHead string
}

// ArrowHeadKey is the TailwindClasses key holding the classes of an edge's
// arrow head.
func ArrowHeadKey(e id.EdgeID) id.ID { return id.ID(string(e) + "_arrow_head") }

// EdgeAnimationActive selects when interaction edges animate.
type EdgeAnimationActive int

const (
	// AnimateAlways runs the animation whenever the edge is visible.
	AnimateAlways EdgeAnimationActive = iota
	// AnimateOnStepFocus runs it only while a process step that interacts
	// with the edge group has focus.
	AnimateOnStepFocus
)

// Option configures Map.
type Option func(*mapper)

// WithAnimation overrides the dash animation parameters.
func WithAnimation(p AnimationParams) Option { return func(m *mapper) { m.anim = p } }

// WithEdgeAnimation selects when interaction edges animate.
func WithEdgeAnimation(a EdgeAnimationActive) Option { return func(m *mapper) { m.active = a } }

// WithoutEdgeAnimation draws interaction edges with static arrow heads.
func WithoutEdgeAnimation() Option { return func(m *mapper) { m.static = true } }

type mapper struct {
	d      *ir.Diagram
	l      *layout.Layout
	anim   AnimationParams
	active EdgeAnimationActive
	static bool

	out   *Elements
	nodes map[id.NodeID]*NodeInfo
	procs []*ProcessInfo
}

// Map computes the elements of d laid out as l.
func Map(d *ir.Diagram, l *layout.Layout, opts ...Option) *Elements {
	m := &mapper{d: d, l: l, anim: DefaultAnimation}
	for _, opt := range opts {
		opt(m)
	}
	m.out = &Elements{
		Width:           l.Width,
		Height:          l.Height,
		TailwindClasses: *d.TailwindClasses.Clone(),
		CSS:             d.CSS,
	}
	m.processes()
	m.nodeInfos()
	m.edges()
	return m.out
}

func (m *mapper) appendClasses(k id.ID, classes string) {
	if classes == "" {
		return
	}
	if cur := m.out.TailwindClasses.Value(k); cur != "" {
		classes = cur + "\n" + classes
	}
	m.out.TailwindClasses.Set(k, classes)
}

func (m *mapper) appendCSS(css string) {
	if m.out.CSS != "" {
		m.out.CSS += "\n"
	}
	m.out.CSS += css
}

func (m *mapper) shape(n id.NodeID) ir.NodeShape {
	if s, ok := m.d.NodeShapes.Get(n); ok {
		return s
	}
	return ir.NodeShape{Kind: ir.ShapeRect}
}

// processes measures how far each process collapses.
func (m *mapper) processes() {
	for _, ps := range m.d.Processes() {
		n, ok := m.l.Nodes.Get(ps.Process)
		if !ok {
			continue
		}
		info := &ProcessInfo{
			ID:             ps.Process,
			Steps:          ps.Steps,
			Index:          len(m.procs),
			HeightExpanded: n.Height,
			PathExpanded:   RectPath(n.Width, n.Height, shapeCorners(m.shape(ps.Process))),
		}
		if n.Body.Height > 0 {
			// The step container's margin box plus the gap above it.
			extra := 0.0
			if fl := m.d.NodeLayouts.Value(ps.Process).Flex; fl != nil {
				extra = fl.Gap + fl.Margin.Top + fl.Margin.Bottom
			}
			info.StepsHeight = n.Body.Height + extra
		}
		info.BaseY = n.Y
		for _, p := range m.above(info) {
			info.BaseY -= p.StepsHeight
		}
		m.procs = append(m.procs, info)
	}
	for _, p := range m.procs {
		m.out.Processes.Set(p.ID, *p)
	}
}

// above returns the earlier processes that sit entirely above p, in order.
// Only those move p when they expand.
func (m *mapper) above(p *ProcessInfo) []*ProcessInfo {
	top := m.l.Nodes.Value(p.ID).Y
	var out []*ProcessInfo
	for _, q := range m.procs[:min(p.Index, len(m.procs))] {
		r := m.l.Nodes.Value(q.ID)
		if r.Y+r.Height <= top+1e-9 {
			out = append(out, q)
		}
	}
	return out
}

func (m *mapper) processOf(n id.NodeID) *ProcessInfo {
	for _, p := range m.procs {
		if p.ID == n {
			return p
		}
		for _, s := range p.Steps {
			if s == n {
				return p
			}
		}
	}
	return nil
}

func (m *mapper) nodeInfos() {
	m.nodes = make(map[id.NodeID]*NodeInfo, m.d.NodeOrdering.Len())
	for n, tab := range m.d.NodeOrdering.All() {
		ln, ok := m.l.Nodes.Get(n)
		if !ok {
			continue
		}
		info := NodeInfo{
			ID:              n,
			TabIndex:        tab,
			X:               ln.X,
			Y:               ln.Y,
			Width:           ln.Width,
			HeightCollapsed: ln.Height,
			Spans:           ln.Spans,
		}
		proc := m.processOf(n)
		if proc != nil {
			info.Process = proc.ID
			if proc.ID == n {
				info.HeightCollapsed -= proc.StepsHeight
			}
		}

		shape := m.shape(n)
		info.Path = RectPath(info.Width, info.HeightCollapsed, shapeCorners(shape))
		if shape.Kind == ir.ShapeCircle {
			r := math.Max(0, math.Min(shape.Radius, math.Min(info.Width, info.HeightCollapsed)/2))
			cx, cy := info.Width/2, info.HeightCollapsed/2
			info.Circle = &Circle{CX: cx, CY: cy, Radius: r, Path: CirclePath(cx, cy, r)}
			info.WrapperClasses = "fill-transparent\nstroke-transparent"
		}

		if proc != nil {
			m.appendClasses(id.ID(n), processTranslate(&info, proc, m.above(proc)))
		} else {
			m.appendClasses(id.ID(n), nodeTranslate(&info))
		}
		m.out.Nodes = append(m.out.Nodes, info)
	}
	for i := range m.out.Nodes {
		m.nodes[m.out.Nodes[i].ID] = &m.out.Nodes[i]
	}
}

type builtEdge struct {
	id     id.EdgeID
	edge   ir.Edge
	role   ir.EdgeRole
	path   Path
	length float64
}

func (m *mapper) edges() {
	for g, edges := range m.d.EdgeGroups.All() {
		var built []builtEdge
		for i, e := range edges {
			from, to := m.nodes[e.From], m.nodes[e.To]
			if from == nil || to == nil {
				continue
			}
			eid := id.NewEdgeID(g, i)
			role := m.d.EdgeRole(eid)
			p := EdgePath(from, to, role)
			built = append(built, builtEdge{id: eid, edge: e, role: role, path: p, length: p.Length()})
		}

		animated := !m.static && m.d.IsInteraction(g)
		var timing groupTiming
		var variants []string
		if animated {
			lengths := make([]float64, len(built))
			for i, b := range built {
				lengths[i] = b.length
			}
			timing = m.anim.timing(lengths)
			variants = m.animationVariants(g)
		}

		preceding := 0.0
		for _, b := range built {
			info := EdgeInfo{ID: b.id, Group: g, From: b.edge.From, To: b.edge.To, Path: b.path.String()}
			if animated {
				info.ArrowHead = OriginArrowHead()
				m.animateEdge(b, info.Path, preceding, timing, variants)
			} else {
				info.ArrowHead = ArrowHead(b.path)
			}
			preceding += b.length
			m.out.Edges = append(m.out.Edges, info)
		}
	}
}

// animationVariants returns the prefixes under which animations of group g
// run: none for always, otherwise one per interacting step.
func (m *mapper) animationVariants(g id.EdgeGroupID) []string {
	if m.active == AnimateAlways {
		return []string{""}
	}
	var out []string
	for _, s := range m.d.StepsInteractingWith(id.ID(g)) {
		out = append(out, ir.GroupHasFocus(string(s)))
	}
	return out
}

func (m *mapper) animateEdge(b builtEdge, d string, preceding float64, t groupTiming, variants []string) {
	a := m.anim.animate(string(b.id), b.length, preceding, t, b.role == ir.PairResponse)
	dur := duration(t.duration)

	classes := "[stroke-dasharray:" + a.dasharray + "]"
	arrow := "[offset-path:path('" + spaceToUnderscore(d) + "')]\n[offset-rotate:reverse]"
	for _, v := range variants {
		classes += "\n" + v + "animate-[" + a.name + "_" + dur + "s_linear_infinite]"
		arrow += "\n" + v + "animate-[" + a.arrowName + "_" + dur + "s_linear_infinite]"
	}
	m.appendClasses(id.ID(b.id), classes)
	m.appendClasses(ArrowHeadKey(b.id), arrow)
	m.appendCSS(a.keyframes + a.arrowKeyframes)
}
