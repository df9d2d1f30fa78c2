package geometry

import (
	"math"

	"github.com/matzehuels/disposition/pkg/core/ir"
	"github.com/matzehuels/disposition/pkg/core/layout"
)

// Edge layout ratios, relative to node size or endpoint distance.
const (
	selfLoopOffsetRatio    = 0.2
	selfLoopExtensionRatio = 0.2
	selfLoopCurveRatio     = 0.2
	pairOffsetRatio        = 0.1
	curveControlRatio      = 0.3
)

type face int

const (
	faceTop face = iota
	faceBottom
	faceLeft
	faceRight
)

// box is the collapsed outline of a node in absolute coordinates.
type box struct {
	x, y, w, h float64
	circle     *Circle
}

func boxOf(n *NodeInfo) box {
	return box{x: n.X, y: n.Y, w: n.Width, h: n.HeightCollapsed, circle: n.Circle}
}

func (b box) right() float64  { return b.x + b.w }
func (b box) bottom() float64 { return b.y + b.h }
func (b box) centre() Point   { return Point{b.x + b.w/2, b.y + b.h/2} }

func (b box) faceCentre(f face) Point {
	switch f {
	case faceTop:
		return Point{b.x + b.w/2, b.y}
	case faceBottom:
		return Point{b.x + b.w/2, b.bottom()}
	case faceLeft:
		return Point{b.x, b.y + b.h/2}
	}
	return Point{b.right(), b.y + b.h/2}
}

// contains reports whether o lies within b.
func (b box) contains(o box) bool {
	return o.x >= b.x && o.y >= b.y && o.right() <= b.right() && o.bottom() <= b.bottom()
}

// EdgePath builds the path of an edge from one node to another. Paths are
// written from the target back to the source, so the first point of every
// path is where the arrow head goes.
func EdgePath(from, to *NodeInfo, role ir.EdgeRole) Path {
	if from.ID == to.ID {
		return selfLoop(boxOf(from), role)
	}
	src, dst := boxOf(from), boxOf(to)
	if dst.contains(src) {
		return containedPath(src, dst)
	}

	fromFace, toFace := selectFaces(src, dst)
	start, end := src.faceCentre(fromFace), dst.faceCentre(toFace)

	if role != ir.Unpaired {
		sign := -1.0
		if role == ir.PairResponse {
			sign = 1
		}
		start = offsetAlong(start, fromFace, src, sign)
		end = offsetAlong(end, toFace, dst, sign)
	}

	if c := src.circle; c != nil {
		start = PerimeterPoint(Point{src.x + c.CX, src.y + c.CY}, c.Radius, end)
	}
	if c := dst.circle; c != nil {
		end = PerimeterPoint(Point{dst.x + c.CX, dst.y + c.CY}, c.Radius, start)
	}
	return curvedPath(start, end, fromFace, toFace)
}

// offsetAlong shifts a face point along its face so the two edges of a
// symmetric pair run side by side.
func offsetAlong(p Point, f face, b box, sign float64) Point {
	if f == faceLeft || f == faceRight {
		return p.add(0, b.h*pairOffsetRatio*sign)
	}
	return p.add(b.w*pairOffsetRatio*sign, 0)
}

// PerimeterPoint returns the point on the circle around c with radius r that
// faces target.
func PerimeterPoint(c Point, r float64, target Point) Point {
	dx, dy := target.X-c.X, target.Y-c.Y
	d := math.Hypot(dx, dy)
	if d < 1e-9 {
		return Point{c.X + r, c.Y}
	}
	return Point{c.X + r*dx/d, c.Y + r*dy/d}
}

// selectFaces picks the faces joined by an edge from their relative
// placement.
func selectFaces(src, dst box) (face, face) {
	switch {
	case src.right() < dst.x:
		switch {
		case src.bottom() < dst.y:
			return diagonalFaces(src, dst, faceRight, faceBottom, faceLeft, faceTop)
		case src.y > dst.bottom():
			return diagonalFaces(src, dst, faceRight, faceTop, faceLeft, faceBottom)
		}
		return faceRight, faceLeft
	case dst.right() < src.x:
		switch {
		case src.bottom() < dst.y:
			return diagonalFaces(src, dst, faceLeft, faceBottom, faceRight, faceTop)
		case src.y > dst.bottom():
			return diagonalFaces(src, dst, faceLeft, faceTop, faceRight, faceBottom)
		}
		return faceLeft, faceRight
	case src.bottom() < dst.y:
		return faceBottom, faceTop
	case dst.bottom() < src.y:
		return faceTop, faceBottom
	}

	d := dst.centre()
	s := src.centre()
	dx, dy := d.X-s.X, d.Y-s.Y
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return faceRight, faceLeft
		}
		return faceLeft, faceRight
	}
	if dy > 0 {
		return faceBottom, faceTop
	}
	return faceTop, faceBottom
}

// diagonalFaces compares horizontal-to-vertical against vertical-to-horizontal
// and keeps the shorter connection.
func diagonalFaces(src, dst box, fromH, fromV, toH, toV face) (face, face) {
	hv := dist(src.faceCentre(fromH), dst.faceCentre(toV))
	vh := dist(src.faceCentre(fromV), dst.faceCentre(toH))
	if hv <= vh {
		return fromH, toV
	}
	return fromV, toH
}

func controlOffset(f face, d float64) (float64, float64) {
	switch f {
	case faceTop:
		return 0, -d
	case faceBottom:
		return 0, d
	case faceLeft:
		return -d, 0
	}
	return d, 0
}

func curvedPath(start, end Point, fromFace, toFace face) Path {
	d := dist(start, end) * curveControlRatio
	c1 := start.add(controlOffset(fromFace, d))
	c2 := end.add(controlOffset(toFace, d))
	p := Path{Start: end}
	p.curveTo(c2, c1, start)
	return p
}

// containedPath runs from the bottom of src to the left face of the node
// enclosing it.
func containedPath(src, dst box) Path {
	start := Point{src.x + src.w/2, src.bottom()}
	end := Point{dst.x, dst.y + dst.h/2}
	d := math.Max(math.Abs(start.Y-end.Y), src.w) * curveControlRatio
	p := Path{Start: end}
	p.curveTo(end.add(-d, 0), start.add(0, d), start)
	return p
}

// selfLoop leaves the bottom of a node right of centre and returns left of
// centre, dipping below the node.
func selfLoop(b box, role ir.EdgeRole) Path {
	start := Point{b.x + b.w*(0.5+selfLoopOffsetRatio), b.bottom()}
	end := Point{b.x + b.w*(0.5-selfLoopOffsetRatio), b.bottom()}
	ext := math.Max(layout.LineHeight, b.h*selfLoopExtensionRatio)
	curve := b.w * selfLoopCurveRatio

	c1 := Point{start.X + curve*0.5, start.Y + ext}
	mid := Point{b.x + b.w*0.5, start.Y + ext}
	c3 := Point{end.X - curve*0.5, start.Y + ext}

	if role == ir.PairResponse {
		p := Path{Start: start}
		p.curveTo(start, c1, mid)
		p.curveTo(mid, c3, end)
		return p
	}
	p := Path{Start: end}
	p.curveTo(end, c3, mid)
	p.curveTo(mid, c1, start)
	return p
}
