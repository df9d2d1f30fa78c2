// Package tailwind compiles utility class strings into CSS.
//
// Every visual state of a diagram is written as utility classes on its
// elements. The Compiler interface lets a host plug in a full Tailwind
// toolchain; Builtin understands the class grammar the diagram stages emit
// and needs no external process.
//
// Arbitrary values may carry HTML character references in place of quotes,
// parentheses and underscores that are part of an id. Builtin decodes them
// after turning the remaining underscores into spaces, so
// group-has-[#a&#95;b:focus-within] targets the element with id a_b.
package tailwind

import (
	"cmp"
	"html"
	"slices"
	"strings"
)

// Compiler turns lists of whitespace separated classes into a stylesheet.
type Compiler interface {
	Compile(classes []string) string
}

// CompilerFunc adapts a function to Compiler.
type CompilerFunc func(classes []string) string

func (f CompilerFunc) Compile(classes []string) string { return f(classes) }

// Builtin is the default Compiler.
type Builtin struct {
	// Unsupported, if set, is called once for each class that could not be
	// compiled.
	Unsupported func(class string)
}

// NewBuiltin returns a Builtin compiler.
func NewBuiltin() *Builtin { return &Builtin{} }

// Rule weights. Rules with a higher weight are written later so they win
// over the plain utility at equal specificity.
const (
	weightBase = iota
	weightHover
	weightFocus
	weightActive
	weightPeer
	weightGroup
)

type decl struct{ prop, value string }

type rule struct {
	selector string
	decls    []decl
	weight   int
}

func (r rule) write(b *strings.Builder) {
	b.WriteString(r.selector)
	b.WriteString(" {\n")
	for _, d := range r.decls {
		b.WriteString("  " + d.prop + ": " + d.value + ";\n")
	}
	b.WriteString("}\n")
}

const translateBase = `*, ::before, ::after {
  --tw-translate-x: 0;
  --tw-translate-y: 0;
}
`

// Compile returns one rule per distinct class, ordered by variant weight and
// then by first appearance.
func (c *Builtin) Compile(classes []string) string {
	seen := make(map[string]bool)
	var rules []rule
	translate := false
	for _, list := range classes {
		for _, cls := range strings.Fields(list) {
			if seen[cls] {
				continue
			}
			seen[cls] = true
			r, ok := compileClass(cls)
			if !ok {
				if c.Unsupported != nil {
					c.Unsupported(cls)
				}
				continue
			}
			if len(r.decls) == 0 {
				continue
			}
			for _, d := range r.decls {
				translate = translate || strings.HasPrefix(d.prop, "--tw-translate")
			}
			rules = append(rules, r)
		}
	}
	slices.SortStableFunc(rules, func(a, b rule) int { return cmp.Compare(a.weight, b.weight) })

	var b strings.Builder
	if translate {
		b.WriteString(translateBase)
	}
	for _, r := range rules {
		r.write(&b)
	}
	return b.String()
}

// compileClass builds the rule of one class. Marker classes such as peer/a
// compile to a rule without declarations.
func compileClass(cls string) (rule, bool) {
	parts := splitVariants(cls)
	utility, variants := parts[len(parts)-1], parts[:len(parts)-1]
	if isMarker(utility) {
		return rule{}, len(variants) == 0
	}
	decls, ok := utilityDecls(utility)
	if !ok {
		return rule{}, false
	}
	r := rule{selector: "." + escapeClass(cls), decls: decls}
	for i := len(variants) - 1; i >= 0; i-- {
		v, ok := parseVariant(variants[i])
		if !ok {
			return rule{}, false
		}
		r.selector = v.apply(r.selector)
		r.weight = max(r.weight, v.weight)
	}
	return r, true
}

// splitVariants splits a class on the colons outside brackets and
// parentheses. The last part is the utility.
func splitVariants(cls string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(cls); i++ {
		switch cls[i] {
		case '[', '(':
			depth++
		case ']', ')':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				parts = append(parts, cls[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, cls[start:])
}

func isMarker(u string) bool {
	name, _, _ := strings.Cut(u, "/")
	return name == "group" || name == "peer"
}

// brackets returns the inside of an arbitrary value.
func brackets(s string) (string, bool) {
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return "", false
	}
	return s[1 : len(s)-1], true
}

// arbitrary decodes an arbitrary value: underscores become spaces and
// character references are resolved.
func arbitrary(s string) string {
	return html.UnescapeString(strings.ReplaceAll(s, "_", " "))
}

// escapeClass escapes a class name for use in a selector.
func escapeClass(cls string) string {
	var b strings.Builder
	for i, r := range cls {
		switch {
		case i == 0 && r >= '0' && r <= '9':
			b.WriteString(`\3`)
			b.WriteRune(r)
			b.WriteByte(' ')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r >= 0x80:
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
