package layout

import (
	"math"
	"strings"
	"unicode"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Font metrics of the bundled monospace font.
const (
	FontSize   = 11.0
	LineHeight = 13.0
	CharWidth  = FontSize * 0.6

	emojiWidth = 2.29
)

// Graphemes splits s into grapheme clusters after NFC normalisation.
func Graphemes(s string) []string {
	s = norm.NFC.String(s)
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// LineWidth returns the rendered width of one line, including one cell of
// slack so glyphs never touch the node edge.
func LineWidth(line string) float64 {
	if line == "" {
		return 0
	}
	cells := 1.0
	for _, g := range Graphemes(line) {
		if isEmoji(g) {
			cells += emojiWidth
		} else {
			cells++
		}
	}
	return cells * CharWidth
}

// MaxChars returns how many cells fit in width. Unlimited widths return -1.
func MaxChars(width float64) int {
	if math.IsInf(width, 1) {
		return -1
	}
	return int(math.Floor(width/CharWidth + 1e-9))
}

// Wrap splits text into display lines no longer than maxChars graphemes. A
// negative or zero maxChars disables wrapping.
func Wrap(text string, maxChars int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, maxChars)...)
	}
	return out
}

// wrapLine breaks at the last whitespace in the second half of the allowed
// width, otherwise exactly at the limit. Continuations lose their leading
// whitespace.
func wrapLine(line string, maxChars int) []string {
	gs := Graphemes(line)
	if maxChars <= 0 || len(gs) <= maxChars {
		return []string{strings.Join(gs, "")}
	}
	var out []string
	for len(gs) > maxChars {
		split := maxChars
		for i := maxChars - 1; i > maxChars/2; i-- {
			if isSpace(gs[i]) {
				split = i
				break
			}
		}
		out = append(out, strings.Join(gs[:split], ""))
		gs = gs[split:]
		for len(gs) > 0 && isSpace(gs[0]) {
			gs = gs[1:]
		}
	}
	if len(gs) > 0 {
		out = append(out, strings.Join(gs, ""))
	}
	return out
}

func isSpace(g string) bool {
	for _, r := range g {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return g != ""
}

// Measure returns the width and height of text laid out within maxWidth.
func Measure(text string, maxWidth float64) (width, height float64) {
	if text == "" {
		return 0, 0
	}
	lines := Wrap(text, MaxChars(maxWidth))
	for _, l := range lines {
		width = max(width, LineWidth(l))
	}
	return width, (float64(len(lines)) + 0.5) * LineHeight
}

// isEmoji reports whether grapheme g is drawn as an emoji: a two-cell
// cluster that the emoji tables know about. Wide CJK text is not an emoji.
func isEmoji(g string) bool {
	return uniseg.StringWidth(g) >= 2 && gomoji.ContainsEmoji(g)
}
