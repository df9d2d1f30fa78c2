package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/disposition/pkg/errors"
)

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name          string
		input, output string
		lods          []string
		want          []string
	}{
		{"default", "arch.yaml", "", []string{"normal"}, []string{"arch.svg"}},
		{"explicit", "arch.yaml", "out/a.svg", []string{"normal"}, []string{"out/a.svg"}},
		{"stdin", "-", "", nil, []string{"diagram.svg"}},
		{"several lods", "arch.yaml", "", []string{"simple", "normal"}, []string{"arch.simple.svg", "arch.normal.svg"}},
		{"several lods explicit", "arch.yaml", "x.svg", []string{"simple", "normal"}, []string{"x.simple.svg", "x.normal.svg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPaths(tt.input, tt.output, tt.lods); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadDocument(t *testing.T) {
	doc, err := readDocument("-", strings.NewReader("things: {a: A}"))
	if err != nil || string(doc) != "things: {a: A}" {
		t.Errorf("readDocument(-) = %q, %v", doc, err)
	}

	_, err = readDocument(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.svg")
	for _, data := range []string{"<svg>first</svg>", "<svg>second</svg>"} {
		if err := writeFileAtomic(path, []byte(data)); err != nil {
			t.Fatalf("writeFileAtomic: %v", err)
		}
		got, _ := os.ReadFile(path)
		if string(got) != data {
			t.Errorf("file = %q, want %q", got, data)
		}
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}

	err := writeFileAtomic(filepath.Join(dir, "missing", "out.svg"), nil)
	if !errors.Is(err, errors.ErrCodeEmit) {
		t.Errorf("error = %v, want EMIT_ERROR", err)
	}
}

func TestRenderCommand(t *testing.T) {
	isolate(t)
	input := writeDoc(t, "arch.yaml", testDiagram)

	out := runCLI(t, "render", input)
	svg, err := os.ReadFile(strings.TrimSuffix(input, ".yaml") + ".svg")
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !bytes.HasPrefix(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg"`)) {
		t.Errorf("output is not an SVG document: %.60s", svg)
	}
	for _, want := range []string{"Rendered normal", "unknown tag", "4 nodes", "3 edges", "fresh"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out = runCLI(t, "render", input)
	if !strings.Contains(out, "cached") {
		t.Errorf("second render not served from cache:\n%s", out)
	}
}

func TestRenderCommandLODs(t *testing.T) {
	isolate(t)
	input := writeDoc(t, "arch.yaml", cleanDiagram)
	stem := strings.TrimSuffix(input, ".yaml")

	runCLI(t, "render", input, "--no-cache", "--lod", "simple", "--lod", "normal", "--no-font")
	for _, lod := range []string{"simple", "normal"} {
		data, err := os.ReadFile(stem + "." + lod + ".svg")
		if err != nil {
			t.Fatalf("%s output: %v", lod, err)
		}
		if bytes.Contains(data, []byte("@font-face")) {
			t.Errorf("%s output embeds the font despite --no-font", lod)
		}
	}
}

func TestRenderCommandErrors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"parse", []string{"render", writeDoc(t, "bad.yaml", "things: [unclosed"), "--no-cache"}, errors.ErrCodeParse},
		{"lod", []string{"render", writeDoc(t, "a.yaml", cleanDiagram), "--lod", "fancy"}, errors.ErrCodeInvalidInput},
		{"width", []string{"render", writeDoc(t, "a.yaml", cleanDiagram), "--width", "-1"}, errors.ErrCodeInvalidInput},
		{"missing", []string{"render", filepath.Join(t.TempDir(), "none.yaml")}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRenderUsesConfig(t *testing.T) {
	isolate(t)
	cfg := writeDoc(t, "config.toml", "[render]\nlod = \"simple\"\nno_font = true\nno_cache = true\n")
	input := writeDoc(t, "arch.yaml", cleanDiagram)

	out := runCLI(t, "--config", cfg, "render", input)
	if !strings.Contains(out, "Rendered simple") {
		t.Errorf("config lod not applied:\n%s", out)
	}
	svg, _ := os.ReadFile(strings.TrimSuffix(input, ".yaml") + ".svg")
	if bytes.Contains(svg, []byte("@font-face")) {
		t.Error("config no_font not applied")
	}

	out = runCLI(t, "--config", cfg, "render", input, "--lod", "normal")
	if !strings.Contains(out, "Rendered normal") {
		t.Errorf("flag did not override config:\n%s", out)
	}
}
