package geometry

import (
	"strings"

	"github.com/matzehuels/disposition/pkg/core/id"
	"github.com/matzehuels/disposition/pkg/core/ir"
)

// pathClass sets the d of a node's outline. Spaces become underscores inside
// the arbitrary value.
func pathClass(d string) string {
	return "[&>path]:[d:path('" + spaceToUnderscore(d) + "')]"
}

func spaceToUnderscore(s string) string { return strings.ReplaceAll(s, " ", "_") }

func px(v float64) string { return "[" + num(v) + "px]" }

// nodeTranslate positions a node that is not part of a process.
func nodeTranslate(n *NodeInfo) string {
	return strings.Join([]string{
		"translate-x-" + px(n.X),
		"translate-y-" + px(n.Y),
		pathClass(n.Path),
	}, "\n")
}

// processTranslate positions a process or one of its steps. The node sits
// at baseY while every process above it is collapsed, and moves down by a
// process's step height while that process or one of its steps has focus.
// A process additionally swaps its outline for the expanded one.
func processTranslate(n *NodeInfo, proc *ProcessInfo, above []*ProcessInfo) string {
	var lines []string
	add := func(s ...string) { lines = append(lines, strings.Join(s, "")) }

	add("translate-x-", px(n.X))
	add(pathClass(n.Path))
	if n.ID == proc.ID {
		expanded := pathClass(proc.PathExpanded)
		for _, f := range proc.focusIDs() {
			add(ir.GroupHasFocus(string(f)), expanded)
		}
	}
	add("transition-all")
	add("duration-200")

	baseY := n.Y
	for _, p := range above {
		baseY -= p.StepsHeight
	}
	add("translate-y-", px(baseY))
	for _, p := range above {
		shifted := px(baseY + p.StepsHeight)
		for _, f := range p.focusIDs() {
			add(ir.GroupHasFocus(string(f)), "translate-y-", shifted)
		}
	}
	return strings.Join(lines, "\n")
}

// focusIDs lists the elements whose focus expands the process.
func (p *ProcessInfo) focusIDs() []id.NodeID {
	return append([]id.NodeID{p.ID}, p.Steps...)
}
