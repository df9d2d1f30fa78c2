package ir

import (
	"strconv"

	"github.com/matzehuels/disposition/pkg/core/entity"
	"github.com/matzehuels/disposition/pkg/core/id"
	"github.com/matzehuels/disposition/pkg/core/omap"
	"github.com/matzehuels/disposition/pkg/core/theme"
)

// layer is one flat set of attribute values. A cascade is a slice of layers
// ordered from lowest to highest precedence.
type layer = *omap.Map[theme.Attr, string]

// resolver walks the theme cascade for an entity.
type resolver struct {
	def   *theme.Default
	types *theme.TypesStyles
}

// cascade returns the layers for an entity of the given chain under key, in
// the order base_styles[key], theme_types_styles[t][key] for each t, and
// base_styles[entityID].
func (r *resolver) cascade(key theme.IDOrDefaults, chain []entity.Type, entityID id.ID) []layer {
	var out []layer
	if p, ok := r.def.BaseStyles.Get(key); ok {
		out = r.expand(p, out)
	}
	for _, t := range chain {
		styles, ok := r.types.Get(t)
		if !ok {
			continue
		}
		if p, ok := styles.Get(key); ok {
			out = r.expand(p, out)
		}
	}
	if entityID != "" {
		if p, ok := r.def.BaseStyles.Get(theme.ForID(entityID)); ok {
			out = r.expand(p, out)
		}
	}
	return out
}

// from returns the layers found in styles under each key in turn.
func (r *resolver) from(styles *theme.Styles, keys ...theme.IDOrDefaults) []layer {
	var out []layer
	for _, k := range keys {
		if p, ok := styles.Get(k); ok {
			out = r.expand(p, out)
		}
	}
	return out
}

// expand appends the layers of p: its aliases first, then its own values.
func (r *resolver) expand(p theme.CSSClassPartials, out []layer) []layer {
	return r.expandSeen(p, out, nil)
}

func (r *resolver) expandSeen(p theme.CSSClassPartials, out []layer, seen map[theme.StyleAlias]bool) []layer {
	for _, a := range p.StyleAliasesApplied {
		if seen[a] {
			continue
		}
		ap, ok := r.def.StyleAliases.Get(a)
		if !ok {
			continue
		}
		if seen == nil {
			seen = make(map[theme.StyleAlias]bool)
		}
		seen[a] = true
		out = r.expandSeen(ap, out, seen)
		delete(seen, a)
	}
	if p.Partials.Len() > 0 {
		out = append(out, &p.Partials)
	}
	return out
}

// lookup returns the highest-precedence value of a.
func lookup(layers []layer, a theme.Attr) (string, bool) {
	for i := len(layers) - 1; i >= 0; i-- {
		if v, ok := layers[i].Get(a); ok {
			return v, true
		}
	}
	return "", false
}

// number resolves a as a float, skipping values that do not parse.
func number(layers []layer, a theme.Attr) (float64, bool) {
	for i := len(layers) - 1; i >= 0; i-- {
		v, ok := layers[i].Get(a)
		if !ok {
			continue
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// sideAttrs names the attributes of one spacing property.
type sideAttrs struct {
	all, x, y, top, right, bottom, left theme.Attr
}

var (
	paddingAttrs = sideAttrs{
		theme.Padding, theme.PaddingX, theme.PaddingY,
		theme.PaddingTop, theme.PaddingRight, theme.PaddingBottom, theme.PaddingLeft,
	}
	marginAttrs = sideAttrs{
		theme.Margin, theme.MarginX, theme.MarginY,
		theme.MarginTop, theme.MarginRight, theme.MarginBottom, theme.MarginLeft,
	}
)

// spacing applies each layer in turn: the compound attribute, then the axis
// attributes, then the per-side attributes.
func spacing(layers []layer, a sideAttrs) Spacing {
	var s Spacing
	set := func(l layer, attr theme.Attr, dst ...*float64) {
		v, ok := l.Get(attr)
		if !ok {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return
		}
		for _, d := range dst {
			*d = f
		}
	}
	for _, l := range layers {
		set(l, a.all, &s.Top, &s.Right, &s.Bottom, &s.Left)
		set(l, a.x, &s.Left, &s.Right)
		set(l, a.y, &s.Top, &s.Bottom)
		set(l, a.top, &s.Top)
		set(l, a.right, &s.Right)
		set(l, a.bottom, &s.Bottom)
		set(l, a.left, &s.Left)
	}
	return s
}
