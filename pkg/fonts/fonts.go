// Package fonts provides the monospace font embedded in every SVG.
//
// Node text is measured in fixed-width cells, so diagrams must render with
// a monospace face whose advance matches the layout metrics. Go Mono ships
// with golang.org/x/image and is inlined into the output as a data URL,
// making the document independent of locally installed fonts.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font/gofont/gomono"
)

// FontFamily is the CSS font-family name the embedded font is declared as.
const FontFamily = "Go Mono"

// FallbackFontFamily lists monospace faces for renderers that ignore the
// embedded font.
const FallbackFontFamily = `'Go Mono', ui-monospace, Menlo, Consolas, monospace`

// GoMonoTTF returns the TrueType font data.
func GoMonoTTF() []byte {
	return gomono.TTF
}

// GoMonoTTFBase64 returns the font data as a base64 string. The result is
// computed once.
var GoMonoTTFBase64 = sync.OnceValue(func() string {
	return base64.StdEncoding.EncodeToString(gomono.TTF)
})

// FontFace returns an @font-face rule declaring FontFamily from the embedded
// data.
func FontFace() string {
	return "@font-face { font-family: '" + FontFamily + "'; src: url(data:font/ttf;base64," + GoMonoTTFBase64() + ") format('truetype'); }"
}
