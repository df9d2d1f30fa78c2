package omap

import (
	"slices"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSetPreservesOrder(t *testing.T) {
	var m Map[string, int]
	m.Set("c", 1)
	m.Set("a", 2)
	m.Set("b", 3)
	m.Set("a", 4)

	if got, want := m.Keys(), []string{"c", "a", "b"}; !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if v := m.Value("a"); v != 4 {
		t.Errorf("Value(a) = %d, want 4", v)
	}
}

func TestDelete(t *testing.T) {
	var m Map[string, int]
	for i, k := range []string{"a", "b", "c"} {
		m.Set(k, i)
	}
	m.Delete("b")
	m.Delete("missing")

	if got, want := m.Keys(), []string{"a", "c"}; !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if m.Has("b") {
		t.Error("Has(b) = true after Delete")
	}
}

func TestMerge(t *testing.T) {
	var base, overlay Map[string, string]
	base.Set("a", "base-a")
	base.Set("b", "base-b")
	overlay.Set("c", "over-c")
	overlay.Set("a", "over-a")

	got := Merged(&base, &overlay)

	if keys, want := got.Keys(), []string{"a", "b", "c"}; !slices.Equal(keys, want) {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}
	if v := got.Value("a"); v != "over-a" {
		t.Errorf("Value(a) = %q, want over-a", v)
	}
	if v := base.Value("a"); v != "base-a" {
		t.Errorf("base mutated: Value(a) = %q", v)
	}
}

func TestNilMapReads(t *testing.T) {
	var m *Map[string, int]
	if m.Len() != 0 || m.Has("x") || m.Keys() != nil {
		t.Error("nil map should read as empty")
	}
	for range m.All() {
		t.Error("nil map should not iterate")
	}
}

func TestYAMLOrder(t *testing.T) {
	src := "zeta: 1\nalpha: 2\nmid: 3\n"
	var m Map[string, int]
	if err := yaml.Unmarshal([]byte(src), &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got, want := m.Keys(), []string{"zeta", "alpha", "mid"}; !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}

	out, err := yaml.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != src {
		t.Errorf("Marshal() = %q, want %q", out, src)
	}
}

func TestYAMLDuplicateKey(t *testing.T) {
	var m Map[string, int]
	err := yaml.Unmarshal([]byte("a: 1\nb: 2\na: 3\n"), &m)
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
	if !strings.Contains(err.Error(), "duplicate key") {
		t.Errorf("error = %v, want duplicate key", err)
	}
}

func TestYAMLOmitEmpty(t *testing.T) {
	type doc struct {
		Items Map[string, int] `yaml:"items,omitempty"`
		Name  string           `yaml:"name"`
	}
	out, err := yaml.Marshal(doc{Name: "x"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(out), "items") {
		t.Errorf("empty map should be omitted, got %q", out)
	}
}
