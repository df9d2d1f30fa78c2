// Package input holds the user-authored diagram model: parsing, validation,
// serialisation and the overlay merge onto the embedded base theme.
package input

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/disposition/pkg/core/entity"
	"github.com/matzehuels/disposition/pkg/core/id"
	"github.com/matzehuels/disposition/pkg/core/omap"
	"github.com/matzehuels/disposition/pkg/core/theme"
)

// Diagram is the input document. Every field is optional.
type Diagram struct {
	Things            omap.Map[id.ThingID, string]        `yaml:"things,omitempty"`
	ThingCopyText     omap.Map[id.ThingID, string]        `yaml:"thing_copy_text,omitempty"`
	ThingHierarchy    ThingHierarchy                      `yaml:"thing_hierarchy,omitempty"`
	ThingDependencies omap.Map[id.EdgeGroupID, EdgeGroup] `yaml:"thing_dependencies,omitempty"`
	ThingInteractions omap.Map[id.EdgeGroupID, EdgeGroup] `yaml:"thing_interactions,omitempty"`
	Processes         omap.Map[id.ProcessID, Process]     `yaml:"processes,omitempty"`
	Tags              omap.Map[id.TagID, string]          `yaml:"tags,omitempty"`
	TagThings         omap.Map[id.TagID, []id.ThingID]    `yaml:"tag_things,omitempty"`
	EntityDescs       omap.Map[id.ID, string]             `yaml:"entity_descs,omitempty"`
	EntityTooltips    omap.Map[id.ID, string]             `yaml:"entity_tooltips,omitempty"`
	EntityTypes       omap.Map[id.ID, entity.Type]        `yaml:"entity_types,omitempty"`

	ThemeDefault                 theme.Default                 `yaml:"theme_default,omitempty"`
	ThemeTypesStyles             theme.TypesStyles             `yaml:"theme_types_styles,omitempty"`
	ThemeThingDependenciesStyles theme.ThingDependenciesStyles `yaml:"theme_thing_dependencies_styles,omitempty"`
	ThemeTagThingsFocus          theme.TagThingsFocus          `yaml:"theme_tag_things_focus,omitempty"`

	CSS string `yaml:"css,omitempty"`
}

// ThingHierarchy is a recursive ordered tree of thing ids.
type ThingHierarchy struct {
	omap.Map[id.ThingID, ThingHierarchy]
}

// EdgeGroup is a named list of things joined according to Kind.
type EdgeGroup struct {
	Kind   entity.EdgeKind `yaml:"kind"`
	Things []id.ThingID    `yaml:"things"`
}

// Process is a named sequence of steps.
type Process struct {
	Name                  string                                       `yaml:"name,omitempty"`
	Desc                  string                                       `yaml:"desc,omitempty"`
	Steps                 omap.Map[id.ProcessStepID, string]           `yaml:"steps,omitempty"`
	StepDescs             omap.Map[id.ProcessStepID, string]           `yaml:"step_descs,omitempty"`
	StepThingInteractions omap.Map[id.ProcessStepID, []id.EdgeGroupID] `yaml:"step_thing_interactions,omitempty"`
}

// Parse decodes and validates a diagram document. Unknown top-level keys are
// rejected. An empty document yields an empty diagram.
func Parse(data []byte) (*Diagram, error) {
	var d Diagram
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Marshal encodes d as YAML with two-space indentation.
func Marshal(d *Diagram) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks identifier syntax everywhere and that no thing appears twice
// in the hierarchy.
func (d *Diagram) Validate() error {
	v := validator{}
	for k := range d.Things.All() {
		v.id("things", string(k))
	}
	for k := range d.ThingCopyText.All() {
		v.id("thing_copy_text", string(k))
	}
	v.hierarchy(d.ThingHierarchy, map[id.ThingID]bool{})
	for _, groups := range []*omap.Map[id.EdgeGroupID, EdgeGroup]{&d.ThingDependencies, &d.ThingInteractions} {
		for g, eg := range groups.All() {
			v.id("edge group", string(g))
			if eg.Kind == "" {
				v.fail("edge group %q: kind is required", g)
			}
			for _, t := range eg.Things {
				v.id("edge group "+string(g), string(t))
			}
		}
	}
	for p, proc := range d.Processes.All() {
		v.id("processes", string(p))
		for s := range proc.Steps.All() {
			v.id("process "+string(p), string(s))
		}
		for s, groups := range proc.StepThingInteractions.All() {
			v.id("process "+string(p), string(s))
			for _, g := range groups {
				v.id("step "+string(s), string(g))
			}
		}
	}
	for t, things := range d.TagThings.All() {
		v.id("tag_things", string(t))
		for _, th := range things {
			v.id("tag "+string(t), string(th))
		}
	}
	for k := range d.Tags.All() {
		v.id("tags", string(k))
	}
	for _, m := range []*omap.Map[id.ID, string]{&d.EntityDescs, &d.EntityTooltips} {
		for k := range m.All() {
			v.id("entity", string(k))
		}
	}
	for k := range d.EntityTypes.All() {
		v.id("entity_types", string(k))
	}
	return v.err
}

type validator struct{ err error }

func (v *validator) fail(format string, args ...any) {
	if v.err == nil {
		v.err = fmt.Errorf(format, args...)
	}
}

func (v *validator) id(where, s string) {
	if !id.Valid(s) {
		v.fail("%s: invalid id %q: must match [A-Za-z_][A-Za-z0-9_]*", where, s)
	}
}

func (v *validator) hierarchy(h ThingHierarchy, seen map[id.ThingID]bool) {
	for k, child := range h.All() {
		v.id("thing_hierarchy", string(k))
		if seen[k] {
			v.fail("thing_hierarchy: %q appears more than once", k)
		}
		seen[k] = true
		v.hierarchy(child, seen)
	}
}
