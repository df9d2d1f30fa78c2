package tailwind

import (
	"strconv"
	"strings"
)

const translateTransform = "translate(var(--tw-translate-x), var(--tw-translate-y))"

var fixedUtilities = map[string][]decl{
	"visible":   {{"visibility", "visible"}},
	"invisible": {{"visibility", "hidden"}},
	"hidden":    {{"display", "none"}},
	"transition-all": {
		{"transition-property", "all"},
		{"transition-timing-function", "cubic-bezier(0.4, 0, 0.2, 1)"},
		{"transition-duration", "150ms"},
	},
	"transition-none": {{"transition-property", "none"}},
	"animate-none":    {{"animation", "none"}},
}

type prefixed struct {
	prefix string
	decls  func(v string) ([]decl, bool)
}

// prefixes is searched in order, so longer prefixes come first.
var prefixes = []prefixed{
	{"-translate-x-", func(v string) ([]decl, bool) { return translate("x", v, true) }},
	{"-translate-y-", func(v string) ([]decl, bool) { return translate("y", v, true) }},
	{"translate-x-", func(v string) ([]decl, bool) { return translate("x", v, false) }},
	{"translate-y-", func(v string) ([]decl, bool) { return translate("y", v, false) }},
	{"fill-", fill},
	{"stroke-", stroke},
	{"opacity-", opacity},
	{"duration-", func(v string) ([]decl, bool) { return timing("transition-duration", v) }},
	{"delay-", func(v string) ([]decl, bool) { return timing("transition-delay", v) }},
	{"animate-", animate},
}

func utilityDecls(u string) ([]decl, bool) {
	if d, ok := fixedUtilities[u]; ok {
		return d, true
	}
	if arb, ok := brackets(u); ok {
		prop, val, ok := strings.Cut(arb, ":")
		if !ok || prop == "" || val == "" {
			return nil, false
		}
		return []decl{{prop, arbitrary(val)}}, true
	}
	for _, p := range prefixes {
		if v, ok := strings.CutPrefix(u, p.prefix); ok {
			return p.decls(v)
		}
	}
	return nil, false
}

func number(v string) (float64, bool) {
	f, err := strconv.ParseFloat(v, 64)
	return f, err == nil
}

func format(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func translate(axis, v string, negative bool) ([]decl, bool) {
	var val string
	switch {
	case v == "px":
		val = "1px"
	case v == "full":
		val = "100%"
	case v == "0":
		val = "0px"
	default:
		if arb, ok := brackets(v); ok {
			val = arbitrary(arb)
		} else if n, ok := number(v); ok {
			val = format(n*0.25) + "rem"
		} else {
			return nil, false
		}
	}
	if negative {
		if rest, ok := strings.CutPrefix(val, "-"); ok {
			val = rest
		} else {
			val = "-" + val
		}
	}
	return []decl{{"--tw-translate-" + axis, val}, {"transform", translateTransform}}, true
}

func fill(v string) ([]decl, bool) {
	c, ok := colour(v)
	if !ok {
		return nil, false
	}
	return []decl{{"fill", c}}, true
}

// stroke is a width when numeric and a colour otherwise.
func stroke(v string) ([]decl, bool) {
	if _, ok := number(v); ok {
		return []decl{{"stroke-width", v}}, true
	}
	if c, ok := colour(v); ok {
		return []decl{{"stroke", c}}, true
	}
	if arb, ok := brackets(v); ok {
		return []decl{{"stroke-width", arbitrary(arb)}}, true
	}
	return nil, false
}

func opacity(v string) ([]decl, bool) {
	if arb, ok := brackets(v); ok {
		return []decl{{"opacity", arbitrary(arb)}}, true
	}
	n, ok := number(v)
	if !ok || n < 0 || n > 100 {
		return nil, false
	}
	return []decl{{"opacity", format(n / 100)}}, true
}

func timing(prop, v string) ([]decl, bool) {
	if arb, ok := brackets(v); ok {
		return []decl{{prop, arbitrary(arb)}}, true
	}
	if _, ok := number(v); !ok {
		return nil, false
	}
	return []decl{{prop, v + "ms"}}, true
}

func animate(v string) ([]decl, bool) {
	arb, ok := brackets(v)
	if !ok {
		return nil, false
	}
	return []decl{{"animation", arbitrary(arb)}}, true
}
