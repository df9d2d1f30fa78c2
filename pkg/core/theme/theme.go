// Package theme defines the styling model of a diagram: attributes, style
// aliases, and the maps of class partials keyed by entity or default slot.
package theme

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/disposition/pkg/core/entity"
	"github.com/matzehuels/disposition/pkg/core/id"
	"github.com/matzehuels/disposition/pkg/core/omap"
)

// StyleAlias names a reusable bundle of attributes.
type StyleAlias string

// Well-known aliases defined by the base theme.
const (
	CircleXS StyleAlias = "circle_xs"
	CircleSM StyleAlias = "circle_sm"
	CircleMD StyleAlias = "circle_md"
	CircleLG StyleAlias = "circle_lg"
	CircleXL StyleAlias = "circle_xl"

	PaddingNone   StyleAlias = "padding_none"
	PaddingTight  StyleAlias = "padding_tight"
	PaddingNormal StyleAlias = "padding_normal"
	PaddingWide   StyleAlias = "padding_wide"

	RoundedXS  StyleAlias = "rounded_xs"
	RoundedSM  StyleAlias = "rounded_sm"
	RoundedMD  StyleAlias = "rounded_md"
	RoundedLG  StyleAlias = "rounded_lg"
	RoundedXL  StyleAlias = "rounded_xl"
	Rounded2XL StyleAlias = "rounded_2xl"
	Rounded3XL StyleAlias = "rounded_3xl"
	Rounded4XL StyleAlias = "rounded_4xl"

	FillPale    StyleAlias = "fill_pale"
	ShadePale   StyleAlias = "shade_pale"
	ShadeLight  StyleAlias = "shade_light"
	ShadeMedium StyleAlias = "shade_medium"
	ShadeDark   StyleAlias = "shade_dark"

	StrokeDashedAnimated         StyleAlias = "stroke_dashed_animated"
	StrokeDashedAnimatedRequest  StyleAlias = "stroke_dashed_animated_request"
	StrokeDashedAnimatedResponse StyleAlias = "stroke_dashed_animated_response"
)

// UnmarshalText validates the alias name. Any valid id that is not well-known
// is a custom alias.
func (s *StyleAlias) UnmarshalText(b []byte) error {
	if !id.Valid(string(b)) {
		return fmt.Errorf("invalid style alias %q", b)
	}
	*s = StyleAlias(b)
	return nil
}

// CSSClassPartials is a set of attribute values plus the aliases applied
// underneath them. In YAML both live in one flat mapping:
//
//	style_aliases_applied: [padding_normal, shade_light]
//	fill_color: blue
type CSSClassPartials struct {
	StyleAliasesApplied []StyleAlias
	Partials            omap.Map[Attr, string]
}

const aliasesKey = "style_aliases_applied"

// Get returns the direct value of a.
func (p CSSClassPartials) Get(a Attr) (string, bool) {
	return p.Partials.Get(a)
}

// Set assigns a direct value.
func (p *CSSClassPartials) Set(a Attr, v string) {
	p.Partials.Set(a, v)
}

// IsZero reports whether nothing is set.
func (p CSSClassPartials) IsZero() bool {
	return len(p.StyleAliasesApplied) == 0 && p.Partials.Len() == 0
}

// UnmarshalYAML decodes the flattened mapping.
func (p *CSSClassPartials) UnmarshalYAML(node *yaml.Node) error {
	*p = CSSClassPartials{}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of theme attributes", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		kn, vn := node.Content[i], node.Content[i+1]
		if kn.Value == aliasesKey {
			if err := vn.Decode(&p.StyleAliasesApplied); err != nil {
				return err
			}
			continue
		}
		var a Attr
		if err := a.UnmarshalText([]byte(kn.Value)); err != nil {
			return fmt.Errorf("line %d: %w", kn.Line, err)
		}
		if vn.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: value of %s must be a scalar", vn.Line, a)
		}
		if p.Partials.Has(a) {
			return fmt.Errorf("line %d: duplicate key %q", kn.Line, kn.Value)
		}
		p.Partials.Set(a, vn.Value)
	}
	return nil
}

// MarshalYAML writes aliases first, then attributes in insertion order.
func (p CSSClassPartials) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if len(p.StyleAliasesApplied) > 0 {
		var vn yaml.Node
		if err := vn.Encode(p.StyleAliasesApplied); err != nil {
			return nil, err
		}
		vn.Style = yaml.FlowStyle
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: aliasesKey}, &vn)
	}
	for a, v := range p.Partials.All() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(a)},
			&yaml.Node{Kind: yaml.ScalarNode, Value: v},
		)
	}
	return node, nil
}

// IDOrDefaults keys a Styles map: one of the default slots or an entity id.
type IDOrDefaults string

const (
	NodeDefaults         IDOrDefaults = "node_defaults"
	NodeExcludedDefaults IDOrDefaults = "node_excluded_defaults"
	EdgeDefaults         IDOrDefaults = "edge_defaults"
)

// ForID keys styles by an entity id.
func ForID[T ~string](i T) IDOrDefaults { return IDOrDefaults(i) }

// UnmarshalText accepts default slot names and valid ids.
func (k *IDOrDefaults) UnmarshalText(b []byte) error {
	if !id.Valid(string(b)) {
		return fmt.Errorf("invalid styles key %q", b)
	}
	*k = IDOrDefaults(b)
	return nil
}

// TagIDOrDefaults keys theme_tag_things_focus.
type TagIDOrDefaults string

// TagDefaults applies to every tag without its own entry.
const TagDefaults TagIDOrDefaults = "tag_defaults"

// UnmarshalText accepts tag_defaults and valid ids.
func (k *TagIDOrDefaults) UnmarshalText(b []byte) error {
	if !id.Valid(string(b)) {
		return fmt.Errorf("invalid tag focus key %q", b)
	}
	*k = TagIDOrDefaults(b)
	return nil
}

// Styles maps default slots and ids to class partials.
type Styles = omap.Map[IDOrDefaults, CSSClassPartials]

// Default is the theme_default block.
type Default struct {
	StyleAliases              omap.Map[StyleAlias, CSSClassPartials] `yaml:"style_aliases,omitempty"`
	BaseStyles                Styles                                 `yaml:"base_styles,omitempty"`
	ProcessStepSelectedStyles Styles                                 `yaml:"process_step_selected_styles,omitempty"`
}

// IsZero reports whether the block is empty.
func (d Default) IsZero() bool {
	return d.StyleAliases.IsZero() && d.BaseStyles.IsZero() && d.ProcessStepSelectedStyles.IsZero()
}

// Merge returns d with overlay applied field by field.
func (d Default) Merge(overlay Default) Default {
	return Default{
		StyleAliases:              omap.Merged(&d.StyleAliases, &overlay.StyleAliases),
		BaseStyles:                omap.Merged(&d.BaseStyles, &overlay.BaseStyles),
		ProcessStepSelectedStyles: omap.Merged(&d.ProcessStepSelectedStyles, &overlay.ProcessStepSelectedStyles),
	}
}

// TypesStyles maps entity types to styles.
type TypesStyles = omap.Map[entity.Type, Styles]

// TagThingsFocus maps tags (or tag_defaults) to the styles applied to things
// while the tag is focused.
type TagThingsFocus = omap.Map[TagIDOrDefaults, Styles]

// ThingDependenciesStyles styles things included in or excluded from a
// dependency selection.
type ThingDependenciesStyles struct {
	ThingsIncludedStyles Styles `yaml:"things_included_styles,omitempty"`
	ThingsExcludedStyles Styles `yaml:"things_excluded_styles,omitempty"`
}

// IsZero reports whether the block is empty.
func (t ThingDependenciesStyles) IsZero() bool {
	return t.ThingsIncludedStyles.IsZero() && t.ThingsExcludedStyles.IsZero()
}

// Merge returns t with overlay applied field by field.
func (t ThingDependenciesStyles) Merge(overlay ThingDependenciesStyles) ThingDependenciesStyles {
	return ThingDependenciesStyles{
		ThingsIncludedStyles: omap.Merged(&t.ThingsIncludedStyles, &overlay.ThingsIncludedStyles),
		ThingsExcludedStyles: omap.Merged(&t.ThingsExcludedStyles, &overlay.ThingsExcludedStyles),
	}
}
