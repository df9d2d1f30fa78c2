package layout

import (
	"math"

	"github.com/matzehuels/disposition/pkg/core/id"
	"github.com/matzehuels/disposition/pkg/core/ir"
	"github.com/matzehuels/disposition/pkg/errors"
)

type role int

const (
	roleContainer role = iota // built-in container
	roleLeaf                  // node without children
	roleWrapper               // node with children: label above child container
	roleText                  // label of a wrapper
	roleChildren              // child container of a wrapper
)

// box is one element of the layout tree. Positions are relative to the
// parent's border box.
type box struct {
	node     id.NodeID
	role     role
	text     string
	children []*box

	dir        ir.FlexDirection
	wrap       bool
	padding    ir.Spacing
	margin     ir.Spacing
	gap        float64
	border     float64
	alignStart bool

	x, y, w, h float64
	lines      [][]*box
}

func (b *box) flex(f ir.FlexLayout) {
	b.dir, b.wrap = f.Direction, f.Wrap
	b.padding, b.margin, b.gap = f.Padding, f.Margin, f.Gap
}

func (b *box) isContainer() bool {
	return b.role == roleContainer || b.role == roleWrapper || b.role == roleChildren
}

// empty reports whether b is a container with nothing to show. Empty
// containers take no space at all.
func (b *box) empty() bool {
	if !b.isContainer() {
		return false
	}
	for _, c := range b.children {
		if !c.empty() {
			return false
		}
	}
	return true
}

func (b *box) insetX() float64 { return b.padding.Left + b.padding.Right + 2*b.border }
func (b *box) insetY() float64 { return b.padding.Top + b.padding.Bottom + 2*b.border }

func (b *box) outerW() float64 { return b.w + b.margin.Left + b.margin.Right }
func (b *box) outerH() float64 { return b.h + b.margin.Top + b.margin.Bottom }

// main and cross return the outer size of c along b's axes.
func (b *box) main(c *box) float64 {
	if b.dir.IsRow() {
		return c.outerW()
	}
	return c.outerH()
}

func (b *box) cross(c *box) float64 {
	if b.dir.IsRow() {
		return c.outerH()
	}
	return c.outerW()
}

// solver is a single-pass flexbox subset: items keep their content size,
// lines wrap when the main axis is bounded, items are centred (or start
// aligned) on the cross axis, and lines are centred on the main axis.
type solver struct {
	err error
}

func (s *solver) fail(b *box) {
	if s.err == nil {
		s.err = errors.New(errors.ErrCodeLayout, "node %q has a non-finite size", b.node)
	}
}

// measure sizes b given the width and height available to its margin box.
func (s *solver) measure(b *box, availW, availH float64) {
	if b.empty() {
		b.w, b.h, b.lines = 0, 0, nil
		return
	}
	innerW := availW - b.margin.Left - b.margin.Right - b.insetX()
	innerH := availH - b.margin.Top - b.margin.Bottom - b.insetY()

	if !b.isContainer() {
		w, h := Measure(b.text, innerW)
		b.w, b.h = w+b.insetX(), h+b.insetY()
		s.check(b)
		return
	}

	var items []*box
	for _, c := range b.children {
		if c.empty() {
			c.w, c.h = 0, 0
			continue
		}
		s.measure(c, innerW, math.Inf(1))
		items = append(items, c)
	}

	limit := math.Inf(1)
	if b.wrap {
		if b.dir.IsRow() {
			limit = innerW
		} else {
			limit = innerH
		}
	}
	b.lines = b.lines[:0]
	var line []*box
	used := 0.0
	for _, c := range items {
		m := b.main(c)
		if len(line) > 0 && used+b.gap+m > limit {
			b.lines = append(b.lines, line)
			line, used = nil, 0
		}
		if len(line) > 0 {
			used += b.gap
		}
		line = append(line, c)
		used += m
	}
	if len(line) > 0 {
		b.lines = append(b.lines, line)
	}

	var mainSize, crossSize float64
	for i, ln := range b.lines {
		lm, lc := b.lineSize(ln)
		mainSize = max(mainSize, lm)
		crossSize += lc
		if i > 0 {
			crossSize += b.gap
		}
	}
	if b.dir.IsRow() {
		b.w, b.h = mainSize+b.insetX(), crossSize+b.insetY()
	} else {
		b.w, b.h = crossSize+b.insetX(), mainSize+b.insetY()
	}
	s.check(b)
}

func (b *box) lineSize(line []*box) (mainSize, crossSize float64) {
	for i, c := range line {
		mainSize += b.main(c)
		if i > 0 {
			mainSize += b.gap
		}
		crossSize = max(crossSize, b.cross(c))
	}
	return mainSize, crossSize
}

func (s *solver) check(b *box) {
	for _, v := range []float64{b.w, b.h} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.fail(b)
		}
	}
}

// place positions the children of b, then recurses.
func (s *solver) place(b *box) {
	if len(b.lines) == 0 {
		return
	}
	row := b.dir.IsRow()
	innerMain := b.h - b.insetY()
	startMain, startCross := b.border+b.padding.Top, b.border+b.padding.Left
	if row {
		innerMain = b.w - b.insetX()
		startMain, startCross = b.border+b.padding.Left, b.border+b.padding.Top
	}

	crossPos := startCross
	for _, line := range b.lines {
		lineMain, lineCross := b.lineSize(line)
		offset := 0.0
		if !b.alignStart {
			offset = (innerMain - lineMain) / 2
		}
		pos := offset
		for _, c := range line {
			m := b.main(c)
			at := pos
			if b.dir.IsReverse() {
				at = innerMain - pos - m
			}
			cr := 0.0
			if !b.alignStart {
				cr = (lineCross - b.cross(c)) / 2
			}
			if row {
				c.x = startMain + at + c.margin.Left
				c.y = crossPos + cr + c.margin.Top
			} else {
				c.y = startMain + at + c.margin.Top
				c.x = crossPos + cr + c.margin.Left
			}
			pos += m + b.gap
			s.place(c)
		}
		crossPos += lineCross + b.gap
	}
}
