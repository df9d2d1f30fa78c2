package input

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/disposition/pkg/core/entity"
	"github.com/matzehuels/disposition/pkg/core/id"
	"github.com/matzehuels/disposition/pkg/core/theme"
)

const sample = `things:
  t_aws: AWS
  t_app: App
  t_db: Database
thing_hierarchy:
  t_aws:
    t_db: {}
  t_app: {}
thing_dependencies:
  dep_app_db:
    kind: sequence
    things: [t_app, t_db]
thing_interactions:
  ix_app_db:
    kind: symmetric
    things: [t_app, t_db]
processes:
  proc_deploy:
    name: Deploy
    steps:
      step_push: Push image
      step_roll: Roll out
    step_thing_interactions:
      step_push: [ix_app_db]
tags:
  tag_infra: Infrastructure
tag_things:
  tag_infra: [t_aws, t_db]
entity_types:
  t_aws: type_organisation
`

func TestParse(t *testing.T) {
	d, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got, want := d.Things.Keys(), []id.ThingID{"t_aws", "t_app", "t_db"}; !slices.Equal(got, want) {
		t.Errorf("things = %v, want %v", got, want)
	}
	awsHier := d.ThingHierarchy.Value("t_aws")
	if !awsHier.Has("t_db") {
		t.Error("t_db should be nested under t_aws")
	}
	if g := d.ThingInteractions.Value("ix_app_db"); g.Kind != entity.Symmetric {
		t.Errorf("ix_app_db.kind = %q, want symmetric", g.Kind)
	}
	p := d.Processes.Value("proc_deploy")
	if p.Name != "Deploy" || p.Steps.Len() != 2 {
		t.Errorf("proc_deploy = %+v", p)
	}
	if typ := d.EntityTypes.Value("t_aws"); typ != "type_organisation" {
		t.Errorf("entity type = %q", typ)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"unknown key", "thingz: {}\n", "thingz"},
		{"invalid id", "things:\n  bad-id: X\n", "invalid id"},
		{"bad kind", "thing_dependencies:\n  g:\n    kind: loop\n    things: [a]\n", "invalid edge kind"},
		{"duplicate hierarchy sibling", "thing_hierarchy:\n  a: {}\n  a: {}\n", "duplicate key"},
		{"duplicate hierarchy path", "thing_hierarchy:\n  a:\n    b: {}\n  b: {}\n", "more than once"},
		{"unknown theme attr", "theme_default:\n  base_styles:\n    node_defaults:\n      fill: red\n", "unknown theme attribute"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	d, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	if d.Things.Len() != 0 || d.CSS != "" {
		t.Errorf("empty document should give empty diagram, got %+v", d)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	d, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse(Marshal): %v\n%s", err, out)
	}
	again, err := Marshal(back)
	if err != nil {
		t.Fatalf("Marshal again: %v", err)
	}
	if string(out) != string(again) {
		t.Errorf("round trip changed document:\n%s\n---\n%s", out, again)
	}
}

func TestBase(t *testing.T) {
	b := Base()

	for _, alias := range []theme.StyleAlias{theme.PaddingNormal, theme.ShadePale, theme.ShadeLight, theme.StrokeDashedAnimated} {
		if !b.ThemeDefault.StyleAliases.Has(alias) {
			t.Errorf("base theme missing alias %s", alias)
		}
	}
	if v, _ := b.ThemeDefault.StyleAliases.Value(theme.PaddingNormal).Get(theme.Padding); v != "4" {
		t.Errorf("padding_normal = %q, want 4", v)
	}
	if !b.ThemeTypesStyles.Has(entity.ThingDefault) {
		t.Error("base theme missing type_thing_default styles")
	}
	if !b.ThemeDefault.BaseStyles.Has(theme.NodeDefaults) {
		t.Error("base theme missing node_defaults")
	}
	if b.ThemeTagThingsFocus.Len() == 0 {
		t.Error("base theme missing tag focus styles")
	}
	if !strings.Contains(b.CSS, "stroke-dashoffset-move") {
		t.Error("base css missing keyframes")
	}
}

func TestMerge(t *testing.T) {
	base, err := Parse([]byte(`things:
  a: A
  b: B
thing_hierarchy:
  a:
    b: {}
css: base
`))
	if err != nil {
		t.Fatal(err)
	}
	overlay, err := Parse([]byte(`things:
  c: C
  a: Alpha
thing_hierarchy:
  a:
    c: {}
`))
	if err != nil {
		t.Fatal(err)
	}

	m := Merge(base, overlay)

	if got, want := m.Things.Keys(), []id.ThingID{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("things = %v, want %v", got, want)
	}
	if m.Things.Value("a") != "Alpha" {
		t.Errorf("things[a] = %q, want Alpha", m.Things.Value("a"))
	}
	sub := m.ThingHierarchy.Value("a")
	if sub.Has("b") || !sub.Has("c") {
		t.Errorf("hierarchy[a] should be replaced by overlay subtree, got %v", sub.Keys())
	}
	if m.CSS != "base" {
		t.Errorf("empty overlay css should keep base, got %q", m.CSS)
	}
	if base.Things.Value("a") != "A" {
		t.Error("Merge modified base")
	}
}

func TestMergeCSS(t *testing.T) {
	m := Merge(&Diagram{CSS: "base"}, &Diagram{CSS: "over"})
	if m.CSS != "over" {
		t.Errorf("css = %q, want over", m.CSS)
	}
}

func TestWithBaseCustomType(t *testing.T) {
	d, err := Parse([]byte(`things:
  org: Org
entity_types:
  org: type_organisation
theme_types_styles:
  type_organisation:
    node_defaults:
      shape_color: amber
`))
	if err != nil {
		t.Fatal(err)
	}
	m := WithBase(d)
	if !m.ThemeTypesStyles.Has("type_organisation") || !m.ThemeTypesStyles.Has(entity.ThingDefault) {
		t.Errorf("merged types styles = %v", m.ThemeTypesStyles.Keys())
	}
}

func TestParseEditorState(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		page     EditorPage
		wantErr  bool
		wantThng int
	}{
		{name: "empty", src: "", page: PageThings},
		{name: "state", src: "page: processes\ninput_diagram:\n  things:\n    a: A\n", page: PageProcesses, wantThng: 1},
		{name: "bare diagram", src: "things:\n  a: A\n  b: B\n", page: PageThings, wantThng: 2},
		{name: "bad page", src: "page: nowhere\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := ParseEditorState(tt.src)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEditorState: %v", err)
			}
			if st.Page != tt.page {
				t.Errorf("page = %q, want %q", st.Page, tt.page)
			}
			if n := st.InputDiagram.Things.Len(); n != tt.wantThng {
				t.Errorf("things = %d, want %d", n, tt.wantThng)
			}
		})
	}
}

func TestEditorStateRoundTrip(t *testing.T) {
	st, err := ParseEditorState("page: tags\ninput_diagram:\n  tags:\n    t1: Tag\n")
	if err != nil {
		t.Fatal(err)
	}
	out, err := MarshalEditorState(st)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ParseEditorState(string(out))
	if err != nil {
		t.Fatalf("re-parse %q: %v", out, err)
	}
	if back.Page != PageTags || back.InputDiagram.Tags.Value("t1") != "Tag" {
		t.Errorf("round trip = %+v", back)
	}
}
