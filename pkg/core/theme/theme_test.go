package theme

import (
	"slices"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestCSSClassPartialsYAML(t *testing.T) {
	src := `style_aliases_applied: [padding_normal, shade_light]
fill_color: blue
padding_top: 8
animate: "[stroke-dashoffset-move_2s_linear_infinite]"
`
	var p CSSClassPartials
	if err := yaml.Unmarshal([]byte(src), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if want := []StyleAlias{PaddingNormal, ShadeLight}; !slices.Equal(p.StyleAliasesApplied, want) {
		t.Errorf("aliases = %v, want %v", p.StyleAliasesApplied, want)
	}
	if got := p.Partials.Keys(); !slices.Equal(got, []Attr{FillColor, PaddingTop, Animate}) {
		t.Errorf("attr order = %v", got)
	}
	if v, _ := p.Get(PaddingTop); v != "8" {
		t.Errorf("padding_top = %q, want 8", v)
	}

	out, err := yaml.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back CSSClassPartials
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("re-Unmarshal %q: %v", out, err)
	}
	if v, _ := back.Get(Animate); v != "[stroke-dashoffset-move_2s_linear_infinite]" {
		t.Errorf("animate after round trip = %q", v)
	}
}

func TestCSSClassPartialsRejectsUnknownAttr(t *testing.T) {
	var p CSSClassPartials
	err := yaml.Unmarshal([]byte("colour: red\n"), &p)
	if err == nil || !strings.Contains(err.Error(), "unknown theme attribute") {
		t.Errorf("err = %v, want unknown theme attribute", err)
	}
}

func TestDefaultMerge(t *testing.T) {
	var base, overlay Default
	var a, b CSSClassPartials
	a.Set(Padding, "4")
	b.Set(Padding, "8")
	base.StyleAliases.Set(PaddingNormal, a)
	base.StyleAliases.Set(ShadeLight, a)
	overlay.StyleAliases.Set(PaddingNormal, b)
	overlay.StyleAliases.Set("custom_big", b)

	got := base.Merge(overlay)

	if keys := got.StyleAliases.Keys(); !slices.Equal(keys, []StyleAlias{PaddingNormal, ShadeLight, "custom_big"}) {
		t.Errorf("keys = %v", keys)
	}
	if v, _ := got.StyleAliases.Value(PaddingNormal).Get(Padding); v != "8" {
		t.Errorf("padding_normal.padding = %q, want 8", v)
	}
}

func TestForState(t *testing.T) {
	s := ForState(StateHover)
	if s.FillColor != FillColorHover || s.StrokeShade != StrokeShadeHover || s.StrokeStyle != StrokeStyleHover {
		t.Errorf("ForState(hover) = %+v", s)
	}
	for _, st := range States {
		a := ForState(st)
		for _, attr := range []Attr{a.FillColor, a.FillShade, a.StrokeColor, a.StrokeShade, a.StrokeStyle} {
			if !attr.Valid() {
				t.Errorf("%s is not a valid attribute", attr)
			}
		}
	}
}
