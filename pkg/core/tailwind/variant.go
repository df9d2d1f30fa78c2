package tailwind

import "strings"

type variant struct {
	apply  func(sel string) string
	weight int
}

var pseudoWeights = map[string]int{
	"hover":         weightHover,
	"focus":         weightFocus,
	"focus-within":  weightFocus,
	"focus-visible": weightFocus,
	"active":        weightActive,
}

// parseVariant understands pseudo classes, arbitrary selector variants such
// as [&>path], and the group and peer families including their has- and
// arbitrary forms.
func parseVariant(v string) (variant, bool) {
	if w, ok := pseudoWeights[v]; ok {
		return variant{apply: func(s string) string { return s + ":" + v }, weight: w}, true
	}
	if arb, ok := brackets(v); ok {
		sel := arbitrary(arb)
		if !strings.Contains(sel, "&") {
			return variant{}, false
		}
		return variant{apply: func(s string) string { return strings.ReplaceAll(sel, "&", s) }}, true
	}
	if rest, ok := strings.CutPrefix(v, "group-"); ok {
		cond, name, ok := relation(rest)
		if !ok {
			return variant{}, false
		}
		marker := markerSelector("group", name)
		return variant{apply: func(s string) string { return marker + cond + " " + s }, weight: weightGroup}, true
	}
	if rest, ok := strings.CutPrefix(v, "peer-"); ok {
		cond, name, ok := relation(rest)
		if !ok {
			return variant{}, false
		}
		marker := markerSelector("peer", name)
		return variant{apply: func(s string) string { return marker + cond + " ~ " + s }, weight: weightPeer}, true
	}
	return variant{}, false
}

// relation parses the part of a group or peer variant after its prefix:
// a pseudo class, an arbitrary selector or has-[...], optionally followed by
// /name.
func relation(s string) (cond, name string, ok bool) {
	if i := strings.LastIndexByte(s, '/'); i >= 0 && i > strings.LastIndexByte(s, ']') {
		s, name = s[:i], s[i+1:]
	}
	if arb, ok := strings.CutPrefix(s, "has-"); ok {
		inner, ok := brackets(arb)
		if !ok {
			return "", "", false
		}
		return ":has(" + arbitrary(inner) + ")", name, true
	}
	if inner, ok := brackets(s); ok {
		return arbitrary(inner), name, true
	}
	if _, ok := pseudoWeights[s]; ok {
		return ":" + s, name, true
	}
	return "", "", false
}

func markerSelector(kind, name string) string {
	if name == "" {
		return "." + kind
	}
	return "." + kind + `\/` + escapeClass(name)
}
