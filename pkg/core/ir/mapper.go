package ir

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"fortio.org/safecast"

	"github.com/matzehuels/disposition/pkg/core/entity"
	"github.com/matzehuels/disposition/pkg/core/id"
	"github.com/matzehuels/disposition/pkg/core/input"
	"github.com/matzehuels/disposition/pkg/core/theme"
)

// Map lowers a merged input diagram into the IR.
//
// Mapping never fails. Problems that still allow a best-effort diagram, such
// as a tag listing an unknown thing, are returned as issues, one line each.
func Map(in *input.Diagram) (*Diagram, []string) {
	m := &mapper{
		in:  in,
		out: &Diagram{CSS: in.CSS},
		r:   &resolver{def: &in.ThemeDefault, types: &in.ThemeTypesStyles},
	}
	m.nodes()
	m.hierarchy()
	m.ordering()
	m.edgeGroups()
	m.entityTypes()
	m.descs()
	m.layouts()
	m.shapes()
	m.classes()
	return m.out, m.issues
}

type mapper struct {
	in     *input.Diagram
	out    *Diagram
	r      *resolver
	issues []string

	// thingSteps lists, per thing, the steps whose edge groups touch it.
	thingSteps map[id.NodeID][]id.NodeID
	// groupSteps lists, per edge group, the steps that interact with it.
	groupSteps map[id.EdgeGroupID][]id.NodeID
}

func (m *mapper) issuef(format string, args ...any) {
	m.issues = append(m.issues, fmt.Sprintf(format, args...))
}

func (m *mapper) nodes() {
	for t, label := range m.in.Things.All() {
		m.out.Nodes.Set(id.NodeID(t), label)
	}
	for t, label := range m.in.Tags.All() {
		m.out.Nodes.Set(id.NodeID(t), label)
	}
	for p, proc := range m.in.Processes.All() {
		label := proc.Name
		if label == "" {
			label = string(p)
		}
		m.out.Nodes.Set(id.NodeID(p), label)
	}
	for _, proc := range m.in.Processes.All() {
		for s, label := range proc.Steps.All() {
			m.out.Nodes.Set(id.NodeID(s), label)
		}
	}
	for t, text := range m.in.ThingCopyText.All() {
		if !m.in.Things.Has(t) {
			m.issuef("thing_copy_text: unknown thing %q", t)
			continue
		}
		m.out.NodeCopyText.Set(id.NodeID(t), text)
	}
}

func (m *mapper) hierarchy() {
	h := &m.out.NodeHierarchy
	for t := range m.in.Tags.All() {
		h.Set(id.NodeID(t), NodeHierarchy{})
	}
	for p, proc := range m.in.Processes.All() {
		var steps NodeHierarchy
		for s := range proc.Steps.All() {
			steps.Set(id.NodeID(s), NodeHierarchy{})
		}
		h.Set(id.NodeID(p), steps)
	}
	placed := make(map[id.ThingID]bool)
	m.things(m.in.ThingHierarchy, h, placed)
	for t := range m.in.Things.All() {
		if !placed[t] {
			h.Set(id.NodeID(t), NodeHierarchy{})
		}
	}
}

func (m *mapper) things(src input.ThingHierarchy, dst *NodeHierarchy, placed map[id.ThingID]bool) {
	for t, children := range src.All() {
		if !m.in.Things.Has(t) {
			m.issuef("thing_hierarchy: unknown thing %q", t)
			continue
		}
		placed[t] = true
		var sub NodeHierarchy
		m.things(children, &sub, placed)
		dst.Set(id.NodeID(t), sub)
	}
}

// ordering assigns tab indices (things, then each process followed by its
// steps, then tags) and stores them in hierarchy order.
func (m *mapper) ordering() {
	tab := make(map[id.NodeID]uint32, m.out.Nodes.Len())
	next := 1
	assign := func(n id.NodeID) {
		i, err := safecast.Conv[uint32](next)
		if err != nil {
			m.issuef("%s: no tab index left", n)
			return
		}
		tab[n] = i
		next++
	}
	for t := range m.in.Things.All() {
		assign(id.NodeID(t))
	}
	for p, proc := range m.in.Processes.All() {
		assign(id.NodeID(p))
		for s := range proc.Steps.All() {
			assign(id.NodeID(s))
		}
	}
	for t := range m.in.Tags.All() {
		assign(id.NodeID(t))
	}
	var walk func(h *NodeHierarchy)
	walk = func(h *NodeHierarchy) {
		for n, children := range h.All() {
			m.out.NodeOrdering.Set(n, tab[n])
			walk(&children)
		}
	}
	walk(&m.out.NodeHierarchy)
}

// Expand returns the edges of an edge group of the given kind.
func Expand(kind entity.EdgeKind, things []id.ThingID) []Edge {
	n := len(things)
	var edges []Edge
	switch kind {
	case entity.Cyclic:
		for i := range things {
			edges = append(edges, Edge{From: id.NodeID(things[i]), To: id.NodeID(things[(i+1)%n])})
		}
	case entity.Sequence:
		for i := 0; i+1 < n; i++ {
			edges = append(edges, Edge{From: id.NodeID(things[i]), To: id.NodeID(things[i+1])})
		}
	case entity.Symmetric:
		for i := 0; i+1 < n; i++ {
			edges = append(edges, Edge{From: id.NodeID(things[i]), To: id.NodeID(things[i+1])})
		}
		for i := n - 1; i > 0; i-- {
			edges = append(edges, Edge{From: id.NodeID(things[i]), To: id.NodeID(things[i-1])})
		}
	}
	return edges
}

// forwardCount returns how many leading edges of a group are forward edges.
func forwardCount(kind entity.EdgeKind, edges int) int {
	if kind == entity.Symmetric {
		return edges / 2
	}
	return edges
}

func (m *mapper) edgeGroups() {
	add := func(section string, g id.EdgeGroupID, eg input.EdgeGroup) {
		if len(eg.Things) == 0 {
			m.issuef("%s: edge group %q has no things", section, g)
		}
		for _, t := range eg.Things {
			if !m.in.Things.Has(t) {
				m.issuef("%s: edge group %q references unknown thing %q", section, g, t)
			}
		}
		m.out.EdgeGroups.Set(g, Expand(eg.Kind, eg.Things))
	}
	for g, eg := range m.in.ThingDependencies.All() {
		add("thing_dependencies", g, eg)
	}
	for g, eg := range m.in.ThingInteractions.All() {
		if m.in.ThingDependencies.Has(g) {
			m.issuef("thing_interactions: edge group %q is already defined in thing_dependencies", g)
			continue
		}
		add("thing_interactions", g, eg)
	}

	m.thingSteps = make(map[id.NodeID][]id.NodeID)
	m.groupSteps = make(map[id.EdgeGroupID][]id.NodeID)
	for p, proc := range m.in.Processes.All() {
		for s, groups := range proc.StepThingInteractions.All() {
			if !proc.Steps.Has(s) {
				m.issuef("processes.%s: step_thing_interactions references unknown step %q", p, s)
				continue
			}
			step := id.NodeID(s)
			for _, g := range groups {
				edges, ok := m.out.EdgeGroups.Get(g)
				if !ok {
					m.issuef("processes.%s: step %q references unknown edge group %q", p, s, g)
					continue
				}
				m.groupSteps[g] = appendUnique(m.groupSteps[g], step)
				ents := m.out.ProcessStepEntities.Value(step)
				ents = appendUnique(ents, id.ID(g))
				for i := range edges {
					ents = appendUnique(ents, id.ID(id.NewEdgeID(g, i)))
				}
				m.out.ProcessStepEntities.Set(step, ents)
				for _, e := range edges {
					m.thingSteps[e.From] = appendUnique(m.thingSteps[e.From], step)
					m.thingSteps[e.To] = appendUnique(m.thingSteps[e.To], step)
				}
			}
		}
	}
	for t, things := range m.in.TagThings.All() {
		if !m.in.Tags.Has(t) {
			m.issuef("tag_things: unknown tag %q", t)
		}
		for _, thing := range things {
			if !m.in.Things.Has(thing) {
				m.issuef("tag_things: tag %q references unknown thing %q", t, thing)
			}
		}
	}
}

func appendUnique[T comparable](s []T, n T) []T {
	if slices.Contains(s, n) {
		return s
	}
	return append(s, n)
}

func (m *mapper) chain(i id.ID, def ...entity.Type) []entity.Type {
	chain := slices.Clone(def)
	if t, ok := m.in.EntityTypes.Get(i); ok {
		chain = append(chain, t)
	}
	return chain
}

func (m *mapper) entityTypes() {
	et := &m.out.EntityTypes
	for _, c := range id.Containers {
		et.Set(id.ID(c), []entity.Type{entity.ContainerInbuilt})
	}
	for t := range m.in.Things.All() {
		et.Set(id.ID(t), m.chain(id.ID(t), entity.ThingDefault))
	}
	for t := range m.in.Tags.All() {
		et.Set(id.ID(t), m.chain(id.ID(t), entity.TagDefault))
	}
	for p, proc := range m.in.Processes.All() {
		et.Set(id.ID(p), m.chain(id.ID(p), entity.ProcessDefault))
		for s := range proc.Steps.All() {
			et.Set(id.ID(s), m.chain(id.ID(s), entity.ProcessStepDefault))
		}
	}
	for g, edges := range m.out.EdgeGroups.All() {
		interaction := !m.in.ThingDependencies.Has(g)
		kind := m.kind(g)
		groupType := entity.EdgeGroupType(interaction, kind)
		et.Set(id.ID(g), m.chain(id.ID(g), groupType))
		fwd := forwardCount(kind, len(edges))
		for i := range edges {
			dir := entity.Forward
			if i >= fwd {
				dir = entity.Reverse
			}
			e := id.NewEdgeID(g, i)
			et.Set(id.ID(e), m.chain(id.ID(e), groupType, entity.EdgeDirectionType(interaction, kind, dir)))
		}
	}
}

func (m *mapper) kind(g id.EdgeGroupID) entity.EdgeKind {
	if eg, ok := m.in.ThingDependencies.Get(g); ok {
		return eg.Kind
	}
	return m.in.ThingInteractions.Value(g).Kind
}

func (m *mapper) descs() {
	m.out.EntityDescs = *m.in.EntityDescs.Clone()
	for p, proc := range m.in.Processes.All() {
		if proc.Desc != "" && !m.out.EntityDescs.Has(id.ID(p)) {
			m.out.EntityDescs.Set(id.ID(p), proc.Desc)
		}
		for s, desc := range proc.StepDescs.All() {
			m.out.EntityDescs.Set(id.ID(s), desc)
		}
	}
	m.out.EntityTooltips = *m.in.EntityTooltips.Clone()
}

func (m *mapper) flex(n id.NodeID, dir FlexDirection, wrap bool) NodeLayout {
	layers := m.r.cascade(theme.NodeDefaults, m.out.EntityTypes.Value(id.ID(n)), id.ID(n))
	gap, _ := number(layers, theme.Gap)
	return NodeLayout{Flex: &FlexLayout{
		Direction: dir,
		Wrap:      wrap,
		Padding:   spacing(layers, paddingAttrs),
		Margin:    spacing(layers, marginAttrs),
		Gap:       gap,
	}}
}

func (m *mapper) layouts() {
	l := &m.out.NodeLayouts
	l.Set(id.Root, m.flex(id.Root, ColumnReverse, true))
	l.Set(id.ThingsAndProcessesContainer, m.flex(id.ThingsAndProcessesContainer, RowReverse, true))
	l.Set(id.ProcessesContainer, m.flex(id.ProcessesContainer, Row, true))
	for p, proc := range m.in.Processes.All() {
		if proc.Steps.Len() > 0 {
			l.Set(id.NodeID(p), m.flex(id.NodeID(p), Column, false))
		} else {
			l.Set(id.NodeID(p), NodeLayout{})
		}
		for s := range proc.Steps.All() {
			l.Set(id.NodeID(s), NodeLayout{})
		}
	}
	l.Set(id.TagsContainer, m.flex(id.TagsContainer, Row, true))
	for t := range m.in.Tags.All() {
		l.Set(id.NodeID(t), NodeLayout{})
	}
	l.Set(id.ThingsContainer, m.flex(id.ThingsContainer, Row, true))
	var walk func(h *NodeHierarchy, depth int)
	walk = func(h *NodeHierarchy, depth int) {
		for n, children := range h.All() {
			if m.out.NodeKind(n) != KindThing {
				continue
			}
			switch {
			case children.Len() == 0:
				l.Set(n, NodeLayout{})
			case depth%2 == 0:
				l.Set(n, m.flex(n, Column, false))
			default:
				l.Set(n, m.flex(n, Row, false))
			}
			walk(&children, depth+1)
		}
	}
	walk(&m.out.NodeHierarchy, 0)
}

func (m *mapper) shapes() {
	for n := range m.out.Nodes.All() {
		layers := m.r.cascade(theme.NodeDefaults, m.out.EntityTypes.Value(id.ID(n)), id.ID(n))
		if r, ok := number(layers, theme.CircleRadius); ok {
			m.out.NodeShapes.Set(n, NodeShape{Kind: ShapeCircle, Radius: math.Max(r, 0)})
			continue
		}
		radius := func(a theme.Attr) float64 {
			v, _ := number(layers, a)
			return math.Max(v, 0)
		}
		m.out.NodeShapes.Set(n, NodeShape{Kind: ShapeRect, Corners: Corners{
			TopLeft:     radius(theme.RadiusTopLeft),
			TopRight:    radius(theme.RadiusTopRight),
			BottomLeft:  radius(theme.RadiusBottomLeft),
			BottomRight: radius(theme.RadiusBottomRight),
		}})
	}
}

func (m *mapper) classes() {
	tc := &m.out.TailwindClasses
	for n := range m.out.Nodes.All() {
		var b strings.Builder
		base := newClassState(m.r.cascade(theme.NodeDefaults, m.out.EntityTypes.Value(id.ID(n)), id.ID(n)))
		base.write(&b, "")
		switch m.out.NodeKind(n) {
		case KindTag, KindProcess:
			b.WriteString("peer/" + string(n) + "\n")
		case KindProcessStep:
			m.stepClasses(&b, n)
		case KindThing:
			m.thingClasses(&b, n, base)
		}
		tc.Set(id.ID(n), strings.TrimSuffix(b.String(), "\n"))
	}

	pss := &m.in.ThemeDefault.ProcessStepSelectedStyles
	for g, edges := range m.out.EdgeGroups.All() {
		var b strings.Builder
		newClassState(m.r.cascade(theme.EdgeDefaults, m.out.EntityTypes.Value(id.ID(g)), id.ID(g))).write(&b, "")
		for _, step := range m.groupSteps[g] {
			newClassState(m.r.from(pss, theme.EdgeDefaults, theme.ForID(g))).write(&b, PeerPrefix(string(step)))
		}
		tc.Set(id.ID(g), strings.TrimSuffix(b.String(), "\n"))

		for i := range edges {
			e := id.ID(id.NewEdgeID(g, i))
			var eb strings.Builder
			newClassState(m.r.cascade(theme.EdgeDefaults, m.out.EntityTypes.Value(e), e)).write(&eb, "")
			tc.Set(e, strings.TrimSuffix(eb.String(), "\n"))
		}
	}
}

func (m *mapper) stepClasses(b *strings.Builder, step id.NodeID) {
	for p, proc := range m.in.Processes.All() {
		if !proc.Steps.Has(id.ProcessStepID(step)) {
			continue
		}
		b.WriteString(GroupHasFocus(string(p)) + "visible\n")
		for s := range proc.Steps.All() {
			b.WriteString(GroupHasFocus(string(s)) + "visible\n")
		}
		break
	}
	b.WriteString("peer/" + string(step) + "\n")
}

func (m *mapper) thingClasses(b *strings.Builder, thing id.NodeID, base classState) {
	focus := &m.in.ThemeTagThingsFocus
	for t := range m.in.Tags.All() {
		key := theme.NodeExcludedDefaults
		if slices.Contains(m.in.TagThings.Value(t), id.ThingID(thing)) {
			key = theme.NodeDefaults
		}
		st := base.colours()
		if defaults, ok := focus.Get(theme.TagDefaults); ok {
			st.apply(m.r.from(&defaults, key))
		}
		if own, ok := focus.Get(theme.TagIDOrDefaults(t)); ok {
			st.apply(m.r.from(&own, key))
		}
		st.write(b, PeerPrefix(string(t)))
	}
	pss := &m.in.ThemeDefault.ProcessStepSelectedStyles
	for _, step := range m.thingSteps[thing] {
		st := base.colours()
		st.apply(m.r.from(pss, theme.NodeDefaults, theme.ForID(thing)))
		st.write(b, PeerPrefix(string(step)))
	}
}
