// Package pipeline runs the full disposition pipeline: parse the input
// document, lower it to the IR, lay it out, compute geometry and emit SVG.
//
// # Usage
//
// For one-off rendering call the stage functions directly:
//
//	in, err := pipeline.Parse(doc, 0)
//	d, issues := pipeline.Lower(in)
//	l, err := pipeline.Layout(d, opts)
//	svg := pipeline.Render(d, l, opts)
//
// Hosts that render repeatedly use a [Runner], which caches rendered
// documents and collapses concurrent identical requests into one run:
//
//	r := pipeline.NewRunner(fileCache, nil, logger)
//	res, err := r.Execute(ctx, pipeline.Options{Document: doc, LOD: "simple"})
package pipeline

import (
	stderrors "errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/disposition/pkg/cache"
	"github.com/matzehuels/disposition/pkg/core/geometry"
	"github.com/matzehuels/disposition/pkg/core/layout"
	"github.com/matzehuels/disposition/pkg/errors"
)

// Edge animation modes.
const (
	AnimateAlways    = "always"
	AnimateStepFocus = "step_focus"
	AnimateNone      = "none"
)

// Defaults applied by ValidateAndSetDefaults.
const (
	DefaultLOD           = "normal"
	DefaultEdgeAnimation = AnimateAlways

	// DefaultMaxBytes bounds the size of an input document.
	DefaultMaxBytes = 1 << 20
)

var validate = validator.New()

// Options configures one pipeline run. It is also the JSON body of the
// serve command's render endpoint.
type Options struct {
	// Document is the YAML input diagram.
	Document string `json:"document"`

	// Width and Height bound the layout; zero means no limit.
	Width  float64 `json:"width,omitempty" validate:"gte=0"`
	Height float64 `json:"height,omitempty" validate:"gte=0"`
	LOD    string  `json:"lod,omitempty" validate:"omitempty,oneof=simple normal"`

	EdgeAnimation string `json:"edge_animation,omitempty" validate:"omitempty,oneof=always step_focus none"`
	NoFont        bool   `json:"no_font,omitempty"`
	Tooltips      bool   `json:"tooltips,omitempty"`

	// MaxBytes rejects larger documents. Zero uses DefaultMaxBytes and a
	// negative value disables the check.
	MaxBytes int `json:"-"`
	// Refresh skips the cache lookup but still stores the result.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result is the output of a pipeline run.
type Result struct {
	SVG []byte
	// Issues lists the mapping issues in the order they were found.
	Issues []string
	// DocHash is the SHA-256 of the input document.
	DocHash string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats describes a run.
type Stats struct {
	NodeCount int
	EdgeCount int
	Width     float64
	Height    float64

	ParseTime    time.Duration
	MapTime      time.Duration
	LayoutTime   time.Duration
	GeometryTime time.Duration
	EmitTime     time.Duration
}

// Total returns the sum of the stage durations.
func (s Stats) Total() time.Duration {
	return s.ParseTime + s.MapTime + s.LayoutTime + s.GeometryTime + s.EmitTime
}

// CacheInfo records how a result was obtained.
type CacheInfo struct {
	// Hit is set when the SVG came from the cache.
	Hit bool
	// Shared is set when the result was computed by a concurrent identical
	// request.
	Shared bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := validate.Struct(o); err != nil {
		return validationError(err)
	}
	if err := errors.ValidateDimension(o.Width, o.Height); err != nil {
		return err
	}
	if o.LOD == "" {
		o.LOD = DefaultLOD
	}
	if o.EdgeAnimation == "" {
		o.EdgeAnimation = DefaultEdgeAnimation
	}
	if o.MaxBytes == 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

func validationError(err error) error {
	var ve validator.ValidationErrors
	if !stderrors.As(err, &ve) {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, strings.ToLower(fe.Field())+" must be one of: "+strings.ReplaceAll(fe.Param(), " ", ", "))
		case "gte":
			msgs = append(msgs, strings.ToLower(fe.Field())+" cannot be negative")
		default:
			msgs = append(msgs, strings.ToLower(fe.Field())+" is invalid")
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "%s", strings.Join(msgs, "; "))
}

// DimensionAndLOD returns the layout selected by the options.
func (o *Options) DimensionAndLOD() layout.DimensionAndLOD {
	lod := layout.Normal
	if o.LOD == "simple" {
		lod = layout.Simple
	}
	return layout.DimensionAndLOD{Dimension: layout.Definite(o.Width, o.Height), LOD: lod}
}

// GeometryOptions returns the geometry options selected by the options.
func (o *Options) GeometryOptions() []geometry.Option {
	switch o.EdgeAnimation {
	case AnimateNone:
		return []geometry.Option{geometry.WithoutEdgeAnimation()}
	case AnimateStepFocus:
		return []geometry.Option{geometry.WithEdgeAnimation(geometry.AnimateOnStepFocus)}
	}
	return nil
}

// ArtifactKeyOpts returns the options that identify a cached SVG.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Width:         o.Width,
		Height:        o.Height,
		LOD:           o.LOD,
		EdgeAnimation: o.EdgeAnimation,
		NoFont:        o.NoFont,
		Tooltips:      o.Tooltips,
	}
}
