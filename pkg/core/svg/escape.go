package svg

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// escapeBrackets rewrites the characters inside arbitrary-value brackets that
// would otherwise break class compilation. Quotes and parentheses become
// character references everywhere inside brackets; underscores become &#95;
// only inside an #id selector, where they are part of the id rather than a
// stand-in for a space.
func escapeBrackets(classes string) string {
	var b strings.Builder
	b.Grow(len(classes))
	depth, inID := 0, false
	for _, r := range classes {
		switch {
		case r == '[':
			depth++
			inID = false
			b.WriteRune(r)
		case r == ']':
			depth = max(depth-1, 0)
			inID = false
			b.WriteRune(r)
		case r == ' ' || r == '\n' || r == '\t':
			depth, inID = 0, false
			b.WriteRune(r)
		case depth == 0:
			b.WriteRune(r)
		case r == '#':
			inID = true
			b.WriteRune(r)
		case r == '"':
			b.WriteString("&#34;")
		case r == '\'':
			b.WriteString("&#39;")
		case r == '(':
			inID = false
			b.WriteString("&#40;")
		case r == ')':
			inID = false
			b.WriteString("&#41;")
		case r == '_' && inID:
			b.WriteString("&#95;")
		default:
			if strings.ContainsRune(":,.>+~", r) {
				inID = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeXML escapes text content and attribute values.
func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

var styleEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;")

// escapeStyle escapes the contents of the style element. Selectors compiled
// from escaped classes contain ampersands.
func escapeStyle(css string) string { return styleEscaper.Replace(css) }
