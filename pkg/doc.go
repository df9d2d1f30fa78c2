// Package pkg provides the libraries behind disposition, which renders
// architecture diagrams as self-contained interactive SVG.
//
// # Overview
//
// A diagram document is YAML describing things, the dependencies and
// interactions between them, processes made of steps, tags, and a theme.
// The rendered SVG carries no script: focusing a thing, step or tag
// highlights what is related to it through CSS alone.
//
// # Architecture
//
// The data flow through disposition:
//
//	YAML document
//	     ↓
//	[core/input] (parse, merge over the base theme)
//	     ↓
//	[core/ir] (nodes, edge groups, hierarchy, utility classes; mapping issues)
//	     ↓
//	[core/layout] (flex layout per dimension and level of detail)
//	     ↓
//	[core/geometry] (node and edge paths, arrowheads, animations)
//	     ↓
//	[core/svg] (compiled classes, embedded font, document)
//
// # Quick Start
//
//	in, err := input.Parse(doc)
//	d, issues := ir.Map(input.WithBase(in))
//	l, err := layout.BuildOne(d, layout.DimensionAndLOD{Dimension: layout.NoLimit, LOD: layout.Normal})
//	svg := svg.Render(geometry.Map(d, l))
//
// Most callers use [pipeline] instead, which runs every stage, caches the
// result and reports timings.
//
// # Main Packages
//
// ## Core
//
// [core/input] - The input document model and its YAML codec, the editor
// state wrapper and the base theme.
//
// [core/ir] - Lowers the input to the intermediate representation. Unknown
// references are reported as mapping issues rather than errors.
//
// [core/layout] - Computes node rectangles with a flexbox-style solver and
// measures text in grapheme clusters.
//
// [core/geometry] - Turns a layout into drawable paths and the CSS that
// animates interaction edges.
//
// [core/tailwind] - Compiles the utility classes used by the document to CSS.
//
// [core/svg] - Writes the final document.
//
// ## Infrastructure
//
// [pipeline] - The full pipeline with caching and deduplication of
// concurrent identical runs. Used by every command of the CLI.
//
// [cache] - File, redis and null caches behind one interface.
//
// [observability] - Pipeline, cache and HTTP hooks with a Prometheus
// implementation.
//
// [errors] - Coded errors shared by every layer.
//
// [render/nodelink] - A Graphviz overview of the IR.
//
// # Testing
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/core/ir/...    # Specific package
//	go test -run Example ./...   # Examples only
//
// [core/input]: https://pkg.go.dev/github.com/matzehuels/disposition/pkg/core/input
// [core/ir]: https://pkg.go.dev/github.com/matzehuels/disposition/pkg/core/ir
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/disposition/pkg/core/layout
// [core/geometry]: https://pkg.go.dev/github.com/matzehuels/disposition/pkg/core/geometry
// [core/tailwind]: https://pkg.go.dev/github.com/matzehuels/disposition/pkg/core/tailwind
// [core/svg]: https://pkg.go.dev/github.com/matzehuels/disposition/pkg/core/svg
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/disposition/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/disposition/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/disposition/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/disposition/pkg/errors
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/disposition/pkg/render/nodelink
package pkg
