package svg

import (
	"strings"
	"testing"

	"github.com/matzehuels/disposition/pkg/core/geometry"
	"github.com/matzehuels/disposition/pkg/core/id"
	"github.com/matzehuels/disposition/pkg/core/input"
	"github.com/matzehuels/disposition/pkg/core/ir"
	"github.com/matzehuels/disposition/pkg/core/layout"
	"github.com/matzehuels/disposition/pkg/core/omap"
	"github.com/matzehuels/disposition/pkg/core/tailwind"
)

func TestEscapeBrackets(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"id underscore", "group-has-[#my_id:focus-within]:visible", "group-has-[#my&#95;id:focus-within]:visible"},
		{"path value", "[&>path]:[d:path('M_0_0')]", "[&>path]:[d:path&#40;&#39;M_0_0&#39;&#41;]"},
		{"outside brackets", "peer/my_id fill_x", "peer/my_id fill_x"},
		{"no id", "[a_b]", "[a_b]"},
		{"id ends at dot", "group-has-[#a_b.c_d]:x", "group-has-[#a&#95;b.c_d]:x"},
		{"double quote", `[content:"a"]`, "[content:&#34;a&#34;]"},
		{"unbalanced", "[#a_b\nc_d", "[#a&#95;b\nc_d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeBrackets(tt.in); got != tt.want {
				t.Errorf("escapeBrackets(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", "hello", "hello"},
		{"inline markup", "Step *one* uses `code` and **bold**", "Step one uses code and bold"},
		{"blocks", "# Title\n\nSome text.\n\n- one\n- two", "Title\nSome text.\none\ntwo"},
		{"soft break", "first\nsecond", "first second"},
		{"fenced code", "```\nx := 1\n```", "x := 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plainText(tt.in); got != tt.want {
				t.Errorf("plainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func elements(t *testing.T, src string) (*ir.Diagram, *geometry.Elements) {
	t.Helper()
	in, err := input.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	d, _ := ir.Map(input.WithBase(in))
	l, err := layout.BuildOne(d, layout.DimensionAndLOD{Dimension: layout.NoLimit, LOD: layout.Normal})
	if err != nil {
		t.Fatalf("BuildOne: %v", err)
	}
	return d, geometry.Map(d, l)
}

const diagram = `things: {a: "a < b & c", b: B}
thing_dependencies:
  g: {kind: cyclic, things: [a, b]}
thing_interactions:
  ix: {kind: sequence, things: [b, a]}
processes:
  my_proc:
    steps: {my_step: Step}
    step_thing_interactions:
      my_step: [ix]
tags: {t1: T1}
tag_things:
  t1: [a]
`

func TestRenderDocument(t *testing.T) {
	_, e := elements(t, diagram)
	out := string(Render(e))

	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="`+geometry.Num(e.Width)+`" height="`+geometry.Num(e.Height)+`" class="group">`) {
		t.Errorf("bad root: %.120s", out)
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("document not closed")
	}
	for _, want := range []string{
		`<g id="t1" tabindex="`,
		`<g id="a" tabindex="1" class="`,
		`>a &lt; b &amp; c</text>`,
		`<g id="g__0" class="`,
		`<g id="g__1" class="`,
		`fill="none" />`,
		`<g class="arrow_head"><path d="M `,
		`<g class="arrow_head&#xA;[offset-path:path&amp;#40;&amp;#39;M_`,
		"@font-face { font-family: 'Go Mono';",
		"text { font-family: 'Go Mono'",
		".fill-slate-",
		"@keyframes ix--0--stroke-dashoffset",
		`.group:has(#my_proc:focus-within)`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if strings.Index(out, `<g id="a"`) > strings.Index(out, `<g id="g__0"`) {
		t.Error("edges written before nodes")
	}
	if n := strings.Count(out, "http:"); n != 1 {
		t.Errorf("found %d http references, want only the namespace", n)
	}
	if strings.Count(out, "url(") != strings.Count(out, "url(data:") {
		t.Error("found a url() that is not a data URL")
	}
}

func TestRenderEscapesStyle(t *testing.T) {
	_, e := elements(t, diagram)
	out := string(Render(e))

	style := out[strings.Index(out, "<style>"):strings.Index(out, "</style>")]
	if strings.Contains(style, `\&\#`) {
		t.Error("raw ampersand in style element")
	}
	if !strings.Contains(style, `\&amp;\#95\;`) {
		t.Errorf("escaped id selector missing from style")
	}
}

func TestRenderOptions(t *testing.T) {
	_, e := elements(t, diagram)

	var got []string
	stub := tailwind.CompilerFunc(func(classes []string) string {
		got = classes
		return "/* compiled */\n"
	})
	var tips omap.Map[id.ID, string]
	tips.Set("b", "**Bold** tip")
	tips.Set("g", "group tip")

	out := string(Render(e, WithCompiler(stub), WithoutFont(), WithTooltips(&tips)))

	if !strings.Contains(out, "<style>\n/* compiled */\n") {
		t.Error("custom compiler output not used")
	}
	if len(got) == 0 || !strings.Contains(strings.Join(got, " "), "group-has-[#my&#95;proc:focus-within]:") {
		t.Errorf("compiler did not receive escaped classes")
	}
	if strings.Contains(out, "@font-face") {
		t.Error("font embedded despite WithoutFont")
	}
	if !strings.Contains(out, `<g id="b" tabindex="2" class="`) || !strings.Contains(out, "<title>Bold tip</title>") {
		t.Error("node tooltip missing")
	}
	if strings.Count(out, "<title>group tip</title>") != 2 {
		t.Error("edge group tooltip should apply to both edges")
	}
}

func TestRenderCircleNode(t *testing.T) {
	_, e := elements(t, `things: {a: A}
theme_default:
  base_styles:
    a: {style_aliases_applied: [circle_md]}
`)
	out := string(Render(e, WithoutFont()))
	for _, want := range []string{
		`class="fill-transparent&#xA;stroke-transparent" />`,
		"  <g><path d=\"M ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	_, e := elements(t, "")
	out := string(Render(e, WithoutFont()))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="0" height="0" class="group">`) {
		t.Errorf("empty diagram root = %.100s", out)
	}
	if strings.Contains(out, "<g ") {
		t.Error("empty diagram has elements")
	}
}

func TestRenderDeterministic(t *testing.T) {
	_, e1 := elements(t, diagram)
	_, e2 := elements(t, diagram)
	if string(Render(e1)) != string(Render(e2)) {
		t.Error("rendering is not deterministic")
	}
}
