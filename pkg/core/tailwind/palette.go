package tailwind

import (
	"strconv"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

// anchors are the 500 shades of the palette colours.
var anchors = map[string]string{
	"slate":   "#64748b",
	"gray":    "#6b7280",
	"zinc":    "#71717a",
	"neutral": "#737373",
	"stone":   "#78716c",
	"red":     "#ef4444",
	"orange":  "#f97316",
	"amber":   "#f59e0b",
	"yellow":  "#eab308",
	"lime":    "#84cc16",
	"green":   "#22c55e",
	"emerald": "#10b981",
	"teal":    "#14b8a6",
	"cyan":    "#06b6d4",
	"sky":     "#0ea5e9",
	"blue":    "#3b82f6",
	"indigo":  "#6366f1",
	"violet":  "#8b5cf6",
	"purple":  "#a855f7",
	"fuchsia": "#d946ef",
	"pink":    "#ec4899",
	"rose":    "#f43f5e",
}

// Shades lists the palette steps from lightest to darkest.
var Shades = []int{50, 100, 200, 300, 400, 500, 600, 700, 800, 900, 950}

// blend is how far each shade moves from the anchor, towards white below 500
// and towards a deep tint of the same hue above it.
var blend = map[int]float64{
	50: 0.95, 100: 0.88, 200: 0.74, 300: 0.54, 400: 0.28,
	500: 0,
	600: 0.18, 700: 0.36, 800: 0.52, 900: 0.66, 950: 0.82,
}

var palette = sync.OnceValue(func() map[string]string {
	white := colorful.Color{R: 1, G: 1, B: 1}
	out := make(map[string]string, len(anchors)*len(Shades))
	for name, hex := range anchors {
		c, err := csscolorparser.Parse(hex)
		if err != nil {
			panic("tailwind: bad palette anchor " + hex)
		}
		base := colorful.Color{R: c.R, G: c.G, B: c.B}
		h, chroma, _ := base.Hcl()
		deep := colorful.Hcl(h, chroma*0.5, 0.12).Clamped()
		for _, s := range Shades {
			shade := base
			switch t := blend[s]; {
			case s < 500:
				shade = base.BlendLab(white, t)
			case s > 500:
				shade = base.BlendLab(deep, t)
			}
			out[name+"-"+strconv.Itoa(s)] = shade.Clamped().Hex()
		}
	}
	return out
})

// PaletteColor returns the hex value of a palette colour such as "slate-500".
func PaletteColor(name string) (string, bool) {
	v, ok := palette()[name]
	return v, ok
}

// colour resolves the value part of a fill or stroke utility.
func colour(v string) (string, bool) {
	switch v {
	case "transparent", "none", "inherit":
		return v, true
	case "current":
		return "currentColor", true
	case "black":
		return "#000000", true
	case "white":
		return "#ffffff", true
	}
	if arb, ok := brackets(v); ok {
		c, err := csscolorparser.Parse(arbitrary(arb))
		if err != nil {
			return "", false
		}
		return c.HexString(), true
	}
	if !strings.Contains(v, "-") {
		return "", false
	}
	return PaletteColor(v)
}
