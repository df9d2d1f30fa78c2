package input

import (
	_ "embed"
	"fmt"
	"sync"
)

//go:embed base.yaml
var baseYAML []byte

var parseBase = sync.OnceValues(func() (*Diagram, error) {
	return Parse(baseYAML)
})

// Base returns the embedded base diagram: style aliases, default styles per
// entity type, tag focus styles and the keyframes they reference. The result
// is shared; callers merge onto it rather than modifying it.
func Base() *Diagram {
	d, err := parseBase()
	if err != nil {
		panic(fmt.Sprintf("input: embedded base diagram is invalid: %v", err))
	}
	return d
}

// BaseYAML returns the source of the base diagram.
func BaseYAML() []byte {
	return baseYAML
}
