package ir

import (
	"strings"

	"github.com/matzehuels/disposition/pkg/core/theme"
)

// classState accumulates resolved attribute values for one class block.
type classState map[theme.Attr]string

func newClassState(layers []layer) classState {
	s := classState{}
	s.apply(layers)
	return s
}

func (s classState) apply(layers []layer) {
	for _, l := range layers {
		for k, v := range l.All() {
			s[k] = v
		}
	}
}

// colours returns a state carrying only the colour attributes of s. Focus
// blocks start from it so a highlighted thing keeps its own hue.
func (s classState) colours() classState {
	out := classState{}
	for _, a := range []theme.Attr{theme.ShapeColor, theme.FillColor, theme.StrokeColor} {
		if v, ok := s[a]; ok {
			out[a] = v
		}
	}
	return out
}

func (s classState) first(attrs ...theme.Attr) string {
	for _, a := range attrs {
		if v := s[a]; v != "" {
			return v
		}
	}
	return ""
}

// dasharray maps a stroke style to a dash pattern.
func dasharray(style string) (string, bool) {
	switch style {
	case "solid":
		return "none", true
	case "dashed":
		return "3", true
	case "dotted":
		return "2", true
	}
	if rest, ok := strings.CutPrefix(style, "dasharray:"); ok && rest != "" {
		return rest, true
	}
	return "", false
}

func statePrefix(st theme.State) string {
	if st == theme.StateNormal {
		return ""
	}
	return string(st) + ":"
}

// write appends the classes of s, one per line, each with prefix.
func (s classState) write(b *strings.Builder, prefix string) {
	line := func(parts ...string) {
		b.WriteString(prefix)
		for _, p := range parts {
			b.WriteString(p)
		}
		b.WriteByte('\n')
	}
	if v := s[theme.Visibility]; v != "" {
		line(v)
	}
	if v, ok := dasharray(s[theme.StrokeStyle]); ok {
		line("[stroke-dasharray:", v, "]")
	}
	if v := s[theme.StrokeWidth]; v != "" {
		line("stroke-", v)
	}
	if v := s[theme.Opacity]; v != "" {
		line("opacity-", v)
	}
	if v := s[theme.Animate]; v != "" {
		line("animate-", v)
	}
	for _, st := range theme.States {
		sa := theme.ForState(st)
		c := s.first(sa.FillColor, theme.FillColor, theme.ShapeColor)
		sh := s.first(sa.FillShade, theme.FillShade)
		if c != "" && sh != "" {
			line(statePrefix(st), "fill-", c, "-", sh)
		}
	}
	for _, st := range theme.States {
		sa := theme.ForState(st)
		c := s.first(sa.StrokeColor, theme.StrokeColor, theme.ShapeColor)
		sh := s.first(sa.StrokeShade, theme.StrokeShade)
		if c != "" && sh != "" {
			line(statePrefix(st), "stroke-", c, "-", sh)
		}
	}
	if c, sh := s[theme.TextColor], s[theme.TextShade]; c != "" && sh != "" {
		line("[&>text]:fill-", c, "-", sh)
	}
}

// PeerPrefix is the variant applied while the sibling with the given id, or a
// descendant of it, has focus.
func PeerPrefix(peer string) string {
	return "peer-[:focus-within]/" + peer + ":"
}

// GroupHasFocus is the variant applied while the element with the given id,
// or a descendant of it, has focus anywhere in the document.
func GroupHasFocus(elemID string) string {
	return "group-has-[#" + elemID + ":focus-within]:"
}
