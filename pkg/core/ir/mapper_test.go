package ir

import (
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/disposition/pkg/core/entity"
	"github.com/matzehuels/disposition/pkg/core/id"
	"github.com/matzehuels/disposition/pkg/core/input"
	"github.com/matzehuels/disposition/pkg/core/tailwind"
)

func mustMap(t *testing.T, src string) (*Diagram, []string) {
	t.Helper()
	d, err := input.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return Map(input.WithBase(d))
}

func lines(s string) []string {
	return strings.Split(s, "\n")
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name   string
		kind   entity.EdgeKind
		things []id.ThingID
		want   []Edge
	}{
		{"cyclic pair", entity.Cyclic, []id.ThingID{"a", "b"}, []Edge{{"a", "b"}, {"b", "a"}}},
		{"cyclic single", entity.Cyclic, []id.ThingID{"a"}, []Edge{{"a", "a"}}},
		{"cyclic empty", entity.Cyclic, nil, nil},
		{"sequence", entity.Sequence, []id.ThingID{"a", "b", "c"}, []Edge{{"a", "b"}, {"b", "c"}}},
		{"sequence single", entity.Sequence, []id.ThingID{"a"}, nil},
		{"symmetric", entity.Symmetric, []id.ThingID{"a", "b", "c"}, []Edge{{"a", "b"}, {"b", "c"}, {"c", "b"}, {"b", "a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expand(tt.kind, tt.things); !slices.Equal(got, tt.want) {
				t.Errorf("Expand = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapCyclicPair(t *testing.T) {
	d, issues := mustMap(t, `things: {a: A, b: B}
thing_dependencies:
  g: {kind: cyclic, things: [a, b]}
`)
	if len(issues) != 0 {
		t.Fatalf("issues = %v", issues)
	}
	if got := d.EdgeGroups.Value("g"); !slices.Equal(got, []Edge{{"a", "b"}, {"b", "a"}}) {
		t.Errorf("edges = %v", got)
	}
	want := []entity.Type{entity.DependencyEdgeCyclicDefault, entity.DependencyEdgeCyclicForwardDefault}
	for _, e := range []id.ID{"g__0", "g__1"} {
		if got := d.EntityTypes.Value(e); !slices.Equal(got, want) {
			t.Errorf("types[%s] = %v, want %v", e, got, want)
		}
	}
	if d.EdgeRole("g__0") != Unpaired {
		t.Error("cyclic edges are unpaired")
	}
}

func TestMapSymmetricRoles(t *testing.T) {
	d, _ := mustMap(t, `things: {a: A, b: B}
thing_interactions:
  ix: {kind: symmetric, things: [a, b]}
`)
	if got := d.EntityTypes.Value("ix__1"); !slices.Equal(got, []entity.Type{
		entity.InteractionEdgeSymmetricDefault, entity.InteractionEdgeSymmetricReverseDefault,
	}) {
		t.Errorf("types[ix__1] = %v", got)
	}
	if d.EdgeRole("ix__0") != PairRequest || d.EdgeRole("ix__1") != PairResponse {
		t.Error("symmetric edges should form a request/response pair")
	}
	if !d.IsInteraction("ix") {
		t.Error("ix should be an interaction group")
	}
}

func TestMapDependencyWinsCollision(t *testing.T) {
	d, issues := mustMap(t, `things: {a: A, b: B}
thing_dependencies:
  g: {kind: sequence, things: [a, b]}
thing_interactions:
  g: {kind: cyclic, things: [a, b]}
`)
	if got := d.EdgeGroups.Value("g"); len(got) != 1 {
		t.Errorf("edges = %v, want the dependency's single edge", got)
	}
	if d.IsInteraction("g") {
		t.Error("g should keep its dependency types")
	}
	if len(issues) != 1 || !strings.Contains(issues[0], "already defined") {
		t.Errorf("issues = %v", issues)
	}
}

const processDiagram = `things: {a: A, b: B}
thing_dependencies:
  g: {kind: sequence, things: [a, b]}
processes:
  p:
    name: Process
    desc: does things
    steps: {s1: Step one, s2: Step two}
    step_descs: {s2: second}
    step_thing_interactions:
      s1: [g]
tags: {t1: T1}
tag_things:
  t1: [a]
`

func TestMapNodesAndOrdering(t *testing.T) {
	d, issues := mustMap(t, processDiagram)
	if len(issues) != 0 {
		t.Fatalf("issues = %v", issues)
	}
	if got, want := d.Nodes.Keys(), []id.NodeID{"a", "b", "t1", "p", "s1", "s2"}; !slices.Equal(got, want) {
		t.Errorf("nodes = %v, want %v", got, want)
	}
	if got := d.Nodes.Value("p"); got != "Process" {
		t.Errorf("process label = %q", got)
	}
	if got, want := d.NodeHierarchy.Keys(), []id.NodeID{"t1", "p", "a", "b"}; !slices.Equal(got, want) {
		t.Errorf("hierarchy = %v, want %v", got, want)
	}
	if got, want := d.NodeOrdering.Keys(), []id.NodeID{"t1", "p", "s1", "s2", "a", "b"}; !slices.Equal(got, want) {
		t.Errorf("ordering keys = %v, want %v", got, want)
	}
	tabs := map[id.NodeID]uint32{"a": 1, "b": 2, "p": 3, "s1": 4, "s2": 5, "t1": 6}
	for n, want := range tabs {
		if got := d.NodeOrdering.Value(n); got != want {
			t.Errorf("tab[%s] = %d, want %d", n, got, want)
		}
	}
	if got := d.EntityDescs.Value("s2"); got != "second" {
		t.Errorf("desc[s2] = %q", got)
	}
	if got := d.EntityDescs.Value("p"); got != "does things" {
		t.Errorf("desc[p] = %q", got)
	}
	if ps := d.Processes(); len(ps) != 1 || !slices.Equal(ps[0].Steps, []id.NodeID{"s1", "s2"}) {
		t.Errorf("Processes = %+v", ps)
	}
}

func TestMapThingClasses(t *testing.T) {
	d, _ := mustMap(t, processDiagram)

	a := lines(d.TailwindClasses.Value("a"))
	for _, want := range []string{
		"visible",
		"[stroke-dasharray:none]",
		"stroke-1",
		"hover:fill-slate-200",
		"fill-slate-300",
		"stroke-slate-400",
		"[&>text]:fill-neutral-900",
		"peer-[:focus-within]/t1:fill-slate-100",
		"peer-[:focus-within]/t1:animate-[stroke-dashoffset-move_2s_linear_infinite]",
		"peer-[:focus-within]/s1:stroke-slate-200",
	} {
		if !slices.Contains(a, want) {
			t.Errorf("a classes missing %q:\n%s", want, strings.Join(a, "\n"))
		}
	}

	var peer []string
	for _, l := range lines(d.TailwindClasses.Value("b")) {
		if strings.HasPrefix(l, "peer-[:focus-within]/t1:") {
			peer = append(peer, l)
		}
	}
	if !slices.Equal(peer, []string{"peer-[:focus-within]/t1:opacity-50"}) {
		t.Errorf("b tag block = %v, want only opacity", peer)
	}
}

func TestMapHiddenVisibility(t *testing.T) {
	d, _ := mustMap(t, `things: {a: A, b: B}
theme_default:
  base_styles:
    a: {visibility: hidden}
`)
	if a := lines(d.TailwindClasses.Value("a")); !slices.Contains(a, "hidden") {
		t.Fatalf("a classes missing hidden:\n%s", strings.Join(a, "\n"))
	}
	if slices.Contains(lines(d.TailwindClasses.Value("b")), "hidden") {
		t.Error("b should keep its default visibility")
	}
	css := tailwind.NewBuiltin().Compile([]string{d.TailwindClasses.Value("a")})
	if !strings.Contains(css, ".hidden {\n  display: none;\n}\n") {
		t.Errorf("compiled CSS has no rule for hidden:\n%s", css)
	}
}

func TestMapStepAndProcessClasses(t *testing.T) {
	d, _ := mustMap(t, processDiagram)

	s1 := lines(d.TailwindClasses.Value("s1"))
	for _, want := range []string{
		"invisible",
		"group-has-[#p:focus-within]:visible",
		"group-has-[#s1:focus-within]:visible",
		"group-has-[#s2:focus-within]:visible",
		"peer/s1",
	} {
		if !slices.Contains(s1, want) {
			t.Errorf("s1 classes missing %q", want)
		}
	}
	if p := lines(d.TailwindClasses.Value("p")); p[len(p)-1] != "peer/p" {
		t.Errorf("process classes should end with peer/p, got %q", p[len(p)-1])
	}
	if g := d.TailwindClasses.Value("g"); !strings.Contains(g, "peer-[:focus-within]/s1:visible") {
		t.Errorf("edge group should react to s1:\n%s", g)
	}
	if _, ok := d.TailwindClasses.Get("g__0"); !ok {
		t.Error("edge g__0 has no classes")
	}
}

func TestMapLayouts(t *testing.T) {
	d, _ := mustMap(t, `things: {a: A, b: B, c: C}
thing_hierarchy:
  a:
    b:
      c: {}
theme_default:
  base_styles:
    a:
      padding_top: 1
      padding: 2
      padding_x: 10
      gap: nope
processes:
  p: {steps: {s: S}}
  q: {}
`)
	tests := []struct {
		node id.NodeID
		dir  FlexDirection
		wrap bool
		none bool
	}{
		{id.Root, ColumnReverse, true, false},
		{id.ThingsAndProcessesContainer, RowReverse, true, false},
		{id.ProcessesContainer, Row, true, false},
		{"p", Column, false, false},
		{"q", "", false, true},
		{"s", "", false, true},
		{id.TagsContainer, Row, true, false},
		{id.ThingsContainer, Row, true, false},
		{"a", Column, false, false},
		{"b", Row, false, false},
		{"c", "", false, true},
	}
	for _, tt := range tests {
		l, ok := d.NodeLayouts.Get(tt.node)
		if !ok {
			t.Errorf("%s: no layout", tt.node)
			continue
		}
		if l.IsNone() != tt.none {
			t.Errorf("%s: IsNone = %v, want %v", tt.node, l.IsNone(), tt.none)
			continue
		}
		if tt.none {
			continue
		}
		if l.Flex.Direction != tt.dir || l.Flex.Wrap != tt.wrap {
			t.Errorf("%s: flex = %s wrap=%v, want %s wrap=%v", tt.node, l.Flex.Direction, l.Flex.Wrap, tt.dir, tt.wrap)
		}
	}

	a := d.NodeLayouts.Value("a").Flex
	want := Spacing{Top: 1, Right: 10, Bottom: 2, Left: 10}
	if a.Padding != want {
		t.Errorf("a padding = %+v, want %+v", a.Padding, want)
	}
	if a.Gap != 4 {
		t.Errorf("unparseable gap should fall back to 4, got %v", a.Gap)
	}
	if got := d.NodeLayouts.Value(id.Root).Flex.Padding; got != (Spacing{4, 4, 4, 4}) {
		t.Errorf("root padding = %+v", got)
	}
}

func TestMapShapes(t *testing.T) {
	d, _ := mustMap(t, `things: {a: A, b: B, c: C}
theme_default:
  base_styles:
    a: {style_aliases_applied: [circle_md]}
    b: {radius_top_left: -3, radius_bottom_right: 9}
`)
	if s := d.NodeShapes.Value("a"); s.Kind != ShapeCircle || s.Radius != 6 {
		t.Errorf("a shape = %+v", s)
	}
	if s := d.NodeShapes.Value("b"); s.Kind != ShapeRect || s.Corners != (Corners{0, 4, 4, 9}) {
		t.Errorf("b shape = %+v", s)
	}
	if s := d.NodeShapes.Value("c"); s.Corners != (Corners{4, 4, 4, 4}) {
		t.Errorf("c shape = %+v", s)
	}
}

func TestMapIssues(t *testing.T) {
	_, issues := mustMap(t, `things: {a: A}
thing_hierarchy:
  ghost: {}
thing_dependencies:
  g: {kind: sequence, things: [a, nope]}
  empty: {kind: cyclic, things: []}
processes:
  p:
    steps: {s: S}
    step_thing_interactions:
      s: [missing]
tags: {t: T}
tag_things:
  t: [zed]
`)
	for _, want := range []string{
		`unknown thing "ghost"`,
		`references unknown thing "nope"`,
		`"empty" has no things`,
		`unknown edge group "missing"`,
		`tag "t" references unknown thing "zed"`,
	} {
		found := false
		for _, is := range issues {
			if strings.Contains(is, want) {
				found = true
			}
		}
		if !found {
			t.Errorf("issues %v missing %q", issues, want)
		}
	}
}

func TestMapCustomType(t *testing.T) {
	d, _ := mustMap(t, `things: {a: A}
entity_types: {a: type_server}
theme_types_styles:
  type_server:
    node_defaults: {shape_color: amber}
`)
	if got := d.EntityTypes.Value("a"); !slices.Equal(got, []entity.Type{entity.ThingDefault, "type_server"}) {
		t.Errorf("chain = %v", got)
	}
	if !slices.Contains(lines(d.TailwindClasses.Value("a")), "fill-amber-300") {
		t.Errorf("custom type colour not applied:\n%s", d.TailwindClasses.Value("a"))
	}
}

func TestMapEmpty(t *testing.T) {
	d, issues := Map(input.WithBase(&input.Diagram{}))
	if len(issues) != 0 || d.Nodes.Len() != 0 || d.EdgeCount() != 0 {
		t.Errorf("empty diagram: nodes=%d edges=%d issues=%v", d.Nodes.Len(), d.EdgeCount(), issues)
	}
	if !d.NodeLayouts.Has(id.Root) {
		t.Error("containers should still get layouts")
	}
}
