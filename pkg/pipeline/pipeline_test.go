package pipeline

import (
	"strings"
	"testing"

	"github.com/matzehuels/disposition/pkg/core/id"
	"github.com/matzehuels/disposition/pkg/core/layout"
	"github.com/matzehuels/disposition/pkg/errors"
)

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{"zero", Options{}, ""},
		{"simple", Options{LOD: "simple", Width: 800}, ""},
		{"bad lod", Options{LOD: "detailed"}, "lod must be one of: simple, normal"},
		{"bad animation", Options{EdgeAnimation: "sometimes"}, "edgeanimation must be one of"},
		{"negative width", Options{Width: -1}, "width cannot be negative"},
		{"negative height", Options{Height: -5}, "height cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.LOD != DefaultLOD || o.EdgeAnimation != DefaultEdgeAnimation || o.MaxBytes != DefaultMaxBytes {
		t.Errorf("defaults not applied: %+v", o)
	}
	if o.Logger == nil {
		t.Error("logger not set")
	}

	o.LOD = "bogus"
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Error("second call re-validated")
	}
}

func TestDimensionAndLOD(t *testing.T) {
	o := Options{Width: 400, LOD: "simple"}
	got := o.DimensionAndLOD()
	want := layout.DimensionAndLOD{Dimension: layout.Definite(400, 0), LOD: layout.Simple}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	o = Options{LOD: "normal"}
	if got := o.DimensionAndLOD(); got.Dimension != layout.NoLimit || got.LOD != layout.Normal {
		t.Errorf("got %+v", got)
	}
}

func TestGeometryOptions(t *testing.T) {
	for mode, n := range map[string]int{AnimateAlways: 0, AnimateStepFocus: 1, AnimateNone: 1} {
		o := Options{EdgeAnimation: mode}
		if got := len(o.GeometryOptions()); got != n {
			t.Errorf("%s: %d options, want %d", mode, got, n)
		}
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	o := Options{Width: 1, Height: 2, LOD: "simple", EdgeAnimation: AnimateNone, NoFont: true, Tooltips: true}
	k := o.ArtifactKeyOpts()
	if k.Width != 1 || k.Height != 2 || k.LOD != "simple" || k.EdgeAnimation != AnimateNone || !k.NoFont || !k.Tooltips {
		t.Errorf("ArtifactKeyOpts() = %+v", k)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		max  int
		code errors.Code
	}{
		{"malformed", "things: [", 0, errors.ErrCodeParse},
		{"unknown key", "nope: 1\n", 0, errors.ErrCodeParse},
		{"invalid id", "things: {\"a b\": A}\n", 0, errors.ErrCodeParse},
		{"too large", "things: {a: A}\n", 4, errors.ErrCodeTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), tt.max)
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse error = %v, want code %s", err, tt.code)
			}
		})
	}
	if _, err := Parse(nil, 0); err != nil {
		t.Errorf("empty document: %v", err)
	}
}

func TestLayoutError(t *testing.T) {
	in, err := Parse([]byte("things: {a: A}\n"), 0)
	if err != nil {
		t.Fatal(err)
	}
	d, _ := Lower(in)
	o := Options{Width: -1}
	if _, err := Layout(d, o); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative width: %v", err)
	}
}

func TestTooltips(t *testing.T) {
	in, err := Parse([]byte(`things: {a: A, b: B, c: C}
entity_descs: {a: desc a, b: desc b}
entity_tooltips: {b: tip b, c: tip c}
`), 0)
	if err != nil {
		t.Fatal(err)
	}
	d, _ := Lower(in)
	tips := Tooltips(d)

	for k, want := range map[string]string{"a": "desc a", "b": "tip b", "c": "tip c"} {
		if got := tips.Value(id.ID(k)); got != want {
			t.Errorf("tooltip %s = %q, want %q", k, got, want)
		}
	}
}

func TestRenderStages(t *testing.T) {
	in, err := Parse([]byte(`things: {a: A, b: B}
thing_dependencies:
  g: {kind: sequence, things: [a, b]}
entity_descs: {a: "**first**"}
`), 0)
	if err != nil {
		t.Fatal(err)
	}
	d, issues := Lower(in)
	if len(issues) != 0 {
		t.Errorf("issues: %v", issues)
	}

	o := Options{Tooltips: true, NoFont: true}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	l, err := Layout(d, o)
	if err != nil {
		t.Fatal(err)
	}
	out := string(Render(d, l, o))
	if !strings.Contains(out, "<title>first</title>") {
		t.Error("tooltip not rendered")
	}
	if strings.Contains(out, "@font-face") {
		t.Error("font embedded with NoFont")
	}
	if !strings.Contains(out, `<g id="g__0"`) {
		t.Error("edge missing")
	}
}
