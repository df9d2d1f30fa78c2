package geometry

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/disposition/pkg/core/ir"
)

// Point is a position in diagram coordinates.
type Point struct {
	X, Y float64
}

func (p Point) add(dx, dy float64) Point { return Point{p.X + dx, p.Y + dy} }

func (p Point) lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

func dist(a, b Point) float64 { return math.Hypot(b.X-a.X, b.Y-a.Y) }

// Cubic is one cubic Bézier segment continuing from the previous end point.
type Cubic struct {
	C1, C2, To Point
}

// Path is a move followed by cubic segments.
type Path struct {
	Start  Point
	Curves []Cubic
}

func (p *Path) curveTo(c1, c2, to Point) {
	p.Curves = append(p.Curves, Cubic{c1, c2, to})
}

// End returns the last point of the path.
func (p Path) End() Point {
	if len(p.Curves) == 0 {
		return p.Start
	}
	return p.Curves[len(p.Curves)-1].To
}

// String renders the path as an SVG d attribute.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("M ")
	writePoint(&b, p.Start)
	for _, c := range p.Curves {
		b.WriteString(" C ")
		writePoint(&b, c.C1)
		b.WriteByte(' ')
		writePoint(&b, c.C2)
		b.WriteByte(' ')
		writePoint(&b, c.To)
	}
	return b.String()
}

func writePoint(b *strings.Builder, p Point) {
	b.WriteString(num(p.X))
	b.WriteByte(' ')
	b.WriteString(num(p.Y))
}

// lengthTolerance bounds the gap between the control polygon and the chord
// of a segment before it is split further.
const lengthTolerance = 0.1

// Length approximates the arc length of the path.
func (p Path) Length() float64 {
	total, from := 0.0, p.Start
	for _, c := range p.Curves {
		total += cubicLength(from, c.C1, c.C2, c.To, 0)
		from = c.To
	}
	return total
}

func cubicLength(p0, p1, p2, p3 Point, depth int) float64 {
	chord := dist(p0, p3)
	poly := dist(p0, p1) + dist(p1, p2) + dist(p2, p3)
	if poly-chord <= lengthTolerance || depth >= 16 {
		return (chord + poly) / 2
	}
	// de Casteljau split at t=0.5
	a, b, c := p0.lerp(p1, 0.5), p1.lerp(p2, 0.5), p2.lerp(p3, 0.5)
	d, e := a.lerp(b, 0.5), b.lerp(c, 0.5)
	m := d.lerp(e, 0.5)
	return cubicLength(p0, a, d, m, depth+1) + cubicLength(m, e, c, p3, depth+1)
}

// num formats v rounded to two decimals without trailing zeros.
func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Num formats a coordinate the way path data does.
func Num(v float64) string { return num(v) }

// RectPath outlines a w by h rectangle at the origin, clockwise from just
// after the top-left corner. Corner arcs are omitted when their radius is 0.
func RectPath(w, h float64, c ir.Corners) string {
	tl, tr, bl, br := clampRadius(c.TopLeft, w, h), clampRadius(c.TopRight, w, h),
		clampRadius(c.BottomLeft, w, h), clampRadius(c.BottomRight, w, h)

	var b strings.Builder
	b.WriteString("M " + num(tl) + " 0")
	b.WriteString(" H " + num(w-tr))
	if tr > 0 {
		b.WriteString(" A " + num(tr) + " " + num(tr) + " 0 0 1 " + num(w) + " " + num(tr))
	}
	b.WriteString(" V " + num(h-br))
	if br > 0 {
		b.WriteString(" A " + num(br) + " " + num(br) + " 0 0 1 " + num(w-br) + " " + num(h))
	}
	b.WriteString(" H " + num(bl))
	if bl > 0 {
		b.WriteString(" A " + num(bl) + " " + num(bl) + " 0 0 1 0 " + num(h-bl))
	}
	b.WriteString(" V " + num(tl))
	if tl > 0 {
		b.WriteString(" A " + num(tl) + " " + num(tl) + " 0 0 1 " + num(tl) + " 0")
	}
	b.WriteString(" Z")
	return b.String()
}

// CirclePath outlines a circle of radius r centred on (cx, cy).
func CirclePath(cx, cy, r float64) string {
	left, right, y, rs := num(cx-r), num(cx+r), num(cy), num(r)
	return "M " + left + " " + y +
		" A " + rs + " " + rs + " 0 1 0 " + right + " " + y +
		" A " + rs + " " + rs + " 0 1 0 " + left + " " + y + " Z"
}

// clampRadius keeps a corner radius within half the smaller side.
func clampRadius(r, w, h float64) float64 {
	return math.Max(0, math.Min(r, math.Min(w, h)/2))
}

// circleCornerRadius rounds the invisible wrapper of circle nodes.
const circleCornerRadius = 4

func shapeCorners(s ir.NodeShape) ir.Corners {
	if s.Kind == ir.ShapeCircle {
		return ir.Corners{TopLeft: circleCornerRadius, TopRight: circleCornerRadius, BottomLeft: circleCornerRadius, BottomRight: circleCornerRadius}
	}
	return s.Corners
}
