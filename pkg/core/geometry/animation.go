package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AnimationParams shape the dash pattern that travels along interaction
// edges.
type AnimationParams struct {
	// VisibleLength is the length of all visible dashes plus the gaps
	// between them.
	VisibleLength float64
	Gap           float64
	Segments      int
	// Ratio scales each dash relative to the previous one.
	Ratio float64
	// Pause is how long every edge of a group stays hidden before the cycle
	// restarts, in seconds.
	Pause float64
	// SecondsPerPixel sets the speed of the dashes.
	SecondsPerPixel float64
}

// DefaultAnimation moves dashes at 125px per second.
var DefaultAnimation = AnimationParams{
	VisibleLength:   100,
	Gap:             2,
	Segments:        8,
	Ratio:           0.6,
	Pause:           0.5,
	SecondsPerPixel: 0.008,
}

// groupTiming is shared by every edge of one edge group.
type groupTiming struct {
	// total is the longer of the summed path lengths and the summed visible
	// lengths.
	total    float64
	duration float64
}

func (a AnimationParams) timing(lengths []float64) groupTiming {
	sum := 0.0
	for _, l := range lengths {
		sum += l
	}
	total := math.Max(sum, float64(len(lengths))*a.VisibleLength)
	return groupTiming{total: total, duration: a.SecondsPerPixel*total + a.Pause}
}

// edgeAnimation is the dash pattern and keyframes of one edge.
type edgeAnimation struct {
	dasharray string
	name      string
	keyframes string

	arrowName      string
	arrowKeyframes string
}

// segments returns the dash lengths, largest first, forming a geometric
// series that fills VisibleLength together with the gaps.
func (a AnimationParams) segments() []float64 {
	n := a.Segments
	available := a.VisibleLength - float64(n-1)*a.Gap
	weight := (1 - math.Pow(a.Ratio, float64(n))) / (1 - a.Ratio)
	first := available / weight
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Max(first*math.Pow(a.Ratio, float64(i)), 0.5)
	}
	return out
}

// animate computes the animation of an edge of the given length whose slot
// begins after preceding pixels of earlier edges in its group. Reverse edges
// grow their dashes instead of shrinking them.
func (a AnimationParams) animate(edgeID string, length, preceding float64, g groupTiming, reverse bool) edgeAnimation {
	segs := a.segments()
	if reverse {
		for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
			segs[i], segs[j] = segs[j], segs[i]
		}
	}
	trailing := math.Max(length, a.VisibleLength)

	parts := make([]string, 0, 2*len(segs))
	for i, s := range segs {
		if i > 0 {
			parts = append(parts, fixed(a.Gap))
		}
		parts = append(parts, fixed(s))
	}
	parts = append(parts, fixed(trailing))

	startPct := preceding / g.total * 100
	endPct := (preceding + length) / g.total * 100
	name := strings.ReplaceAll(edgeID, "_", "-") + "--stroke-dashoffset"

	var kf strings.Builder
	fmt.Fprintf(&kf, "@keyframes %s { ", name)
	if startPct > 0 {
		fmt.Fprintf(&kf, "0%% { stroke-dashoffset: %s; } ", fixed(-trailing))
	}
	fmt.Fprintf(&kf, "%s%% { stroke-dashoffset: %s; } ", fixed(startPct), fixed(-trailing))
	fmt.Fprintf(&kf, "%s%% { stroke-dashoffset: %s; } ", fixed(endPct), fixed(a.VisibleLength))
	if endPct < 100 {
		fmt.Fprintf(&kf, "100%% { stroke-dashoffset: %s; } ", fixed(a.VisibleLength))
	}
	kf.WriteString("}\n")

	arrow := strings.ReplaceAll(edgeID, "_", "-") + "--arrow-head-offset"
	var ak strings.Builder
	fmt.Fprintf(&ak, "@keyframes %s { ", arrow)
	if startPct > 0 {
		ak.WriteString("0% { offset-distance: 100%; opacity: 0; } ")
	}
	fmt.Fprintf(&ak, "%s%% { offset-distance: 100%%; opacity: 1; } ", fixed(startPct))
	fmt.Fprintf(&ak, "%s%% { offset-distance: 0%%; opacity: 1; } ", fixed(endPct))
	if endPct < 100 {
		ak.WriteString("100% { offset-distance: 0%; opacity: 0; } ")
	}
	ak.WriteString("}\n")

	return edgeAnimation{
		dasharray:      strings.Join(parts, ","),
		name:           name,
		keyframes:      kf.String(),
		arrowName:      arrow,
		arrowKeyframes: ak.String(),
	}
}

// fixed formats v with one decimal.
func fixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// duration formats seconds for CSS, dropping a zero fraction.
func duration(secs float64) string {
	if secs == math.Trunc(secs) {
		return strconv.FormatFloat(secs, 'f', 0, 64)
	}
	return fixed(secs)
}
