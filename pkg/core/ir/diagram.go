// Package ir lowers an input diagram into the intermediate representation the
// layout and rendering stages consume.
//
// The IR is fully resolved: edge groups are expanded into edges, every entity
// carries its entity-type chain, and every theme attribute has been pushed
// through the cascade into node layouts, node shapes and utility-class
// strings.
package ir

import (
	"slices"

	"github.com/matzehuels/disposition/pkg/core/entity"
	"github.com/matzehuels/disposition/pkg/core/id"
	"github.com/matzehuels/disposition/pkg/core/omap"
)

// Diagram is the lowered diagram.
type Diagram struct {
	Nodes           omap.Map[id.NodeID, string]
	NodeCopyText    omap.Map[id.NodeID, string]
	NodeHierarchy   NodeHierarchy
	NodeOrdering    omap.Map[id.NodeID, uint32]
	EdgeGroups      omap.Map[id.EdgeGroupID, []Edge]
	EntityTypes     omap.Map[id.ID, []entity.Type]
	EntityDescs     omap.Map[id.ID, string]
	EntityTooltips  omap.Map[id.ID, string]
	NodeLayouts     omap.Map[id.NodeID, NodeLayout]
	NodeShapes      omap.Map[id.NodeID, NodeShape]
	TailwindClasses omap.Map[id.ID, string]
	CSS             string

	// ProcessStepEntities lists, per process step, the edge groups and edges
	// the step interacts with.
	ProcessStepEntities omap.Map[id.NodeID, []id.ID]
}

// NodeHierarchy is the rendering tree: tags, then processes with their steps,
// then things.
type NodeHierarchy struct {
	omap.Map[id.NodeID, NodeHierarchy]
}

// Edge connects two nodes.
type Edge struct {
	From id.NodeID
	To   id.NodeID
}

// FlexDirection is the main axis of a flex container.
type FlexDirection string

const (
	Row           FlexDirection = "row"
	RowReverse    FlexDirection = "row_reverse"
	Column        FlexDirection = "column"
	ColumnReverse FlexDirection = "column_reverse"
)

// IsRow reports whether the main axis is horizontal.
func (d FlexDirection) IsRow() bool { return d == Row || d == RowReverse }

// IsReverse reports whether children are laid out end to start.
func (d FlexDirection) IsReverse() bool { return d == RowReverse || d == ColumnReverse }

// Spacing holds per-side lengths.
type Spacing struct {
	Top, Right, Bottom, Left float64
}

// FlexLayout describes a node that lays out children.
type FlexLayout struct {
	Direction FlexDirection
	Wrap      bool
	Padding   Spacing
	Margin    Spacing
	Gap       float64
}

// NodeLayout is either a flex container or nothing (a leaf). A nil Flex means
// no layout of its own.
type NodeLayout struct {
	Flex *FlexLayout
}

// IsNone reports whether the node has no layout of its own.
func (l NodeLayout) IsNone() bool { return l.Flex == nil }

// ShapeKind selects the outline drawn for a node.
type ShapeKind int

const (
	ShapeRect ShapeKind = iota
	ShapeCircle
)

// Corners holds rectangle corner radii.
type Corners struct {
	TopLeft, TopRight, BottomLeft, BottomRight float64
}

// NodeShape is the resolved outline of a node.
type NodeShape struct {
	Kind    ShapeKind
	Radius  float64
	Corners Corners
}

// Kind classifies a node by the first type in its chain.
type Kind int

const (
	KindUnknown Kind = iota
	KindThing
	KindTag
	KindProcess
	KindProcessStep
	KindContainer
)

// NodeKind returns the category of n.
func (d *Diagram) NodeKind(n id.NodeID) Kind {
	if id.IsReserved(n) {
		return KindContainer
	}
	chain, ok := d.EntityTypes.Get(id.ID(n))
	if !ok || len(chain) == 0 {
		return KindUnknown
	}
	switch chain[0] {
	case entity.ThingDefault:
		return KindThing
	case entity.TagDefault:
		return KindTag
	case entity.ProcessDefault:
		return KindProcess
	case entity.ProcessStepDefault:
		return KindProcessStep
	}
	return KindUnknown
}

// Processes returns process ids in hierarchy order with their step ids.
func (d *Diagram) Processes() []ProcessSteps {
	var out []ProcessSteps
	for n, children := range d.NodeHierarchy.All() {
		if d.NodeKind(n) != KindProcess {
			continue
		}
		out = append(out, ProcessSteps{Process: n, Steps: children.Keys()})
	}
	return out
}

// ProcessSteps pairs a process with its steps.
type ProcessSteps struct {
	Process id.NodeID
	Steps   []id.NodeID
}

// EdgeRole describes how an edge relates to its group.
type EdgeRole int

const (
	// Unpaired edges have no counterpart.
	Unpaired EdgeRole = iota
	// PairRequest is the forward edge of a symmetric pair.
	PairRequest
	// PairResponse is the reverse edge of a symmetric pair.
	PairResponse
)

// EdgeRole derives the role of edge e from its entity types.
func (d *Diagram) EdgeRole(e id.EdgeID) EdgeRole {
	for _, t := range d.EntityTypes.Value(id.ID(e)) {
		switch t {
		case entity.DependencyEdgeSymmetricForwardDefault, entity.InteractionEdgeSymmetricForwardDefault:
			return PairRequest
		case entity.DependencyEdgeSymmetricReverseDefault, entity.InteractionEdgeSymmetricReverseDefault:
			return PairResponse
		}
	}
	return Unpaired
}

// IsInteraction reports whether group g was declared under thing_interactions.
func (d *Diagram) IsInteraction(g id.EdgeGroupID) bool {
	for _, t := range d.EntityTypes.Value(id.ID(g)) {
		switch t {
		case entity.InteractionEdgeSequenceDefault, entity.InteractionEdgeCyclicDefault, entity.InteractionEdgeSymmetricDefault:
			return true
		}
	}
	return false
}

// StepsInteractingWith returns the process steps that interact with entity
// e, in step order.
func (d *Diagram) StepsInteractingWith(e id.ID) []id.NodeID {
	var out []id.NodeID
	for step, ents := range d.ProcessStepEntities.All() {
		if slices.Contains(ents, e) {
			out = append(out, step)
		}
	}
	return out
}

// EdgeCount returns the total number of edges.
func (d *Diagram) EdgeCount() int {
	n := 0
	for _, edges := range d.EdgeGroups.All() {
		n += len(edges)
	}
	return n
}
