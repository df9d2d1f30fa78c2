package pipeline

import (
	"github.com/matzehuels/disposition/pkg/core/geometry"
	"github.com/matzehuels/disposition/pkg/core/id"
	"github.com/matzehuels/disposition/pkg/core/input"
	"github.com/matzehuels/disposition/pkg/core/ir"
	"github.com/matzehuels/disposition/pkg/core/layout"
	"github.com/matzehuels/disposition/pkg/core/omap"
	"github.com/matzehuels/disposition/pkg/core/svg"
	"github.com/matzehuels/disposition/pkg/errors"
)

// pass holds the intermediate products of one run.
type pass struct {
	in *input.Diagram
	d  *ir.Diagram
	l  *layout.Layout
	e  *geometry.Elements
}

// Parse decodes doc. Documents larger than maxBytes are rejected unless
// maxBytes is zero or negative.
func Parse(doc []byte, maxBytes int) (*input.Diagram, error) {
	if err := errors.ValidateDocumentSize(len(doc), maxBytes); err != nil {
		return nil, err
	}
	in, err := input.Parse(doc)
	if err != nil {
		return nil, errors.New(errors.ErrCodeParse, "%v", err)
	}
	return in, nil
}

// Lower merges the base theme under in and maps the result to the IR.
func Lower(in *input.Diagram) (*ir.Diagram, []string) {
	return ir.Map(input.WithBase(in))
}

// Layout lays out d for the dimension and level of detail in opts.
func Layout(d *ir.Diagram, opts Options) (*layout.Layout, error) {
	l, err := layout.BuildOne(d, opts.DimensionAndLOD())
	if err != nil {
		if errors.GetCode(err) == "" {
			return nil, errors.Wrap(errors.ErrCodeLayout, err, "layout failed")
		}
		return nil, err
	}
	return l, nil
}

// Geometry computes the drawable elements of d laid out as l.
func Geometry(d *ir.Diagram, l *layout.Layout, opts Options) *geometry.Elements {
	return geometry.Map(d, l, opts.GeometryOptions()...)
}

// Emit writes e as an SVG document.
func Emit(d *ir.Diagram, e *geometry.Elements, opts Options) []byte {
	var svgOpts []svg.Option
	if opts.NoFont {
		svgOpts = append(svgOpts, svg.WithoutFont())
	}
	if opts.Tooltips {
		tips := Tooltips(d)
		svgOpts = append(svgOpts, svg.WithTooltips(&tips))
	}
	return svg.Render(e, svgOpts...)
}

// Render runs geometry and emission.
func Render(d *ir.Diagram, l *layout.Layout, opts Options) []byte {
	return Emit(d, Geometry(d, l, opts), opts)
}

// Tooltips returns the tooltip text of every entity: its description,
// replaced by its explicit tooltip when it has one.
func Tooltips(d *ir.Diagram) omap.Map[id.ID, string] {
	return omap.Merged(&d.EntityDescs, &d.EntityTooltips)
}
