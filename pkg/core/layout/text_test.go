package layout

import (
	"math"
	"slices"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{"exact fit does not wrap", "abcde", 5, []string{"abcde"}},
		{"hard break", "abcdefghij", 5, []string{"abcde", "fghij"}},
		{"break at late space", "hello world foo", 8, []string{"hello", "world", "foo"}},
		{"early space ignored", "ab cdefghij", 5, []string{"ab cd", "efghi", "j"}},
		{"unlimited", "abcdefghij", -1, []string{"abcdefghij"}},
		{"zero disables", "abcdefghij", 0, []string{"abcdefghij"}},
		{"logical lines", "ab\n\ncd", 5, []string{"ab", "", "cd"}},
		{"emoji counts as one grapheme", "🙂🙂🙂", 2, []string{"🙂🙂", "🙂"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Wrap(tt.text, tt.max); !slices.Equal(got, tt.want) {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.text, tt.max, got, tt.want)
			}
		})
	}
}

func TestLineWidth(t *testing.T) {
	tests := []struct {
		line string
		want float64
	}{
		{"", 0},
		{"A", 2 * CharWidth},
		{"abcde", 6 * CharWidth},
		{"🙂", (1 + emojiWidth) * CharWidth},
		{"e\u0301", 2 * CharWidth},
		{"\u2600\uFE0F", (1 + emojiWidth) * CharWidth},
		{"中", 2 * CharWidth},
	}
	for _, tt := range tests {
		if got := LineWidth(tt.line); !approx(got, tt.want) {
			t.Errorf("LineWidth(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestIsEmoji(t *testing.T) {
	tests := []struct {
		g    string
		want bool
	}{
		{"🙂", true},
		{"\u2600\uFE0F", true},
		{"🚀", true},
		{"A", false},
		{"1", false},
		{"#", false},
		{"中", false},
	}
	for _, tt := range tests {
		if got := isEmoji(tt.g); got != tt.want {
			t.Errorf("isEmoji(%q) = %v, want %v", tt.g, got, tt.want)
		}
	}
}

func TestMeasure(t *testing.T) {
	w, h := Measure("abcdefghij", 5*CharWidth)
	if !approx(w, 6*CharWidth) || !approx(h, 2.5*LineHeight) {
		t.Errorf("Measure = %v x %v, want %v x %v", w, h, 6*CharWidth, 2.5*LineHeight)
	}
	w, h = Measure("", math.Inf(1))
	if w != 0 || h != 0 {
		t.Errorf("empty text = %v x %v", w, h)
	}
	if MaxChars(math.Inf(1)) != -1 {
		t.Error("infinite width should be unlimited")
	}
}

func TestGraphemesNormalises(t *testing.T) {
	// "e" followed by a combining acute accent composes to one grapheme.
	if got := Graphemes("e\u0301x"); len(got) != 2 || got[0] != "\u00e9" {
		t.Errorf("Graphemes = %q", got)
	}
}
