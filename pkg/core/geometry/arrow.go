package geometry

import "math"

const (
	arrowHeadLength    = 8.0
	arrowHeadHalfWidth = 4.0
)

// ArrowHead returns a closed V whose tip sits at the first point of the edge
// path, facing the node the edge points to. Degenerate paths have no arrow
// head.
func ArrowHead(p Path) string {
	tip := p.Start
	dir, ok := approach(p)
	if !ok {
		return ""
	}
	l := math.Hypot(dir.X, dir.Y)
	dx, dy := dir.X/l, dir.Y/l
	px, py := -dy, dx

	wing1 := Point{tip.X - arrowHeadLength*dx - arrowHeadHalfWidth*px, tip.Y - arrowHeadLength*dy - arrowHeadHalfWidth*py}
	wing2 := Point{tip.X - arrowHeadLength*dx + arrowHeadHalfWidth*px, tip.Y - arrowHeadLength*dy + arrowHeadHalfWidth*py}
	return polygon(wing1, tip, wing2)
}

// OriginArrowHead is an arrow head pointing along +X with its tip on the
// origin, for moving along an offset path.
func OriginArrowHead() string {
	return polygon(Point{-arrowHeadLength, -arrowHeadHalfWidth}, Point{}, Point{-arrowHeadLength, arrowHeadHalfWidth})
}

func polygon(pts ...Point) string {
	s := ""
	for i, p := range pts {
		if i == 0 {
			s += "M "
		} else {
			s += " L "
		}
		s += num(p.X) + " " + num(p.Y)
	}
	return s + " Z"
}

// approach is the direction travelled when arriving at the first point of
// p, which is the reverse of the tangent leaving it.
func approach(p Path) (Point, bool) {
	if len(p.Curves) == 0 {
		return Point{}, false
	}
	c := p.Curves[0]
	for _, q := range []Point{c.C1, c.C2, c.To} {
		t := Point{q.X - p.Start.X, q.Y - p.Start.Y}
		if math.Abs(t.X) > 1e-9 || math.Abs(t.Y) > 1e-9 {
			return Point{-t.X, -t.Y}, true
		}
	}
	return Point{}, false
}
