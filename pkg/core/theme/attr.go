package theme

import "fmt"

// Attr is a theme attribute kind. Names are the snake_case keys used in
// input documents.
type Attr string

const (
	Padding       Attr = "padding"
	PaddingX      Attr = "padding_x"
	PaddingY      Attr = "padding_y"
	PaddingTop    Attr = "padding_top"
	PaddingRight  Attr = "padding_right"
	PaddingBottom Attr = "padding_bottom"
	PaddingLeft   Attr = "padding_left"

	Margin       Attr = "margin"
	MarginX      Attr = "margin_x"
	MarginY      Attr = "margin_y"
	MarginTop    Attr = "margin_top"
	MarginRight  Attr = "margin_right"
	MarginBottom Attr = "margin_bottom"
	MarginLeft   Attr = "margin_left"

	Gap Attr = "gap"

	RadiusTopLeft     Attr = "radius_top_left"
	RadiusTopRight    Attr = "radius_top_right"
	RadiusBottomLeft  Attr = "radius_bottom_left"
	RadiusBottomRight Attr = "radius_bottom_right"
	CircleRadius      Attr = "circle_radius"

	ShapeColor Attr = "shape_color"

	FillColor       Attr = "fill_color"
	FillColorNormal Attr = "fill_color_normal"
	FillColorFocus  Attr = "fill_color_focus"
	FillColorHover  Attr = "fill_color_hover"
	FillColorActive Attr = "fill_color_active"
	FillShade       Attr = "fill_shade"
	FillShadeNormal Attr = "fill_shade_normal"
	FillShadeFocus  Attr = "fill_shade_focus"
	FillShadeHover  Attr = "fill_shade_hover"
	FillShadeActive Attr = "fill_shade_active"

	StrokeColor       Attr = "stroke_color"
	StrokeColorNormal Attr = "stroke_color_normal"
	StrokeColorFocus  Attr = "stroke_color_focus"
	StrokeColorHover  Attr = "stroke_color_hover"
	StrokeColorActive Attr = "stroke_color_active"
	StrokeShade       Attr = "stroke_shade"
	StrokeShadeNormal Attr = "stroke_shade_normal"
	StrokeShadeFocus  Attr = "stroke_shade_focus"
	StrokeShadeHover  Attr = "stroke_shade_hover"
	StrokeShadeActive Attr = "stroke_shade_active"
	StrokeWidth       Attr = "stroke_width"
	StrokeStyle       Attr = "stroke_style"
	StrokeStyleNormal Attr = "stroke_style_normal"
	StrokeStyleFocus  Attr = "stroke_style_focus"
	StrokeStyleHover  Attr = "stroke_style_hover"
	StrokeStyleActive Attr = "stroke_style_active"

	Visibility Attr = "visibility"
	Opacity    Attr = "opacity"
	Animate    Attr = "animate"
	TextColor  Attr = "text_color"
	TextShade  Attr = "text_shade"
)

var attrs = map[Attr]bool{}

func init() {
	for _, a := range []Attr{
		Padding, PaddingX, PaddingY, PaddingTop, PaddingRight, PaddingBottom, PaddingLeft,
		Margin, MarginX, MarginY, MarginTop, MarginRight, MarginBottom, MarginLeft,
		Gap, RadiusTopLeft, RadiusTopRight, RadiusBottomLeft, RadiusBottomRight, CircleRadius,
		ShapeColor,
		FillColor, FillColorNormal, FillColorFocus, FillColorHover, FillColorActive,
		FillShade, FillShadeNormal, FillShadeFocus, FillShadeHover, FillShadeActive,
		StrokeColor, StrokeColorNormal, StrokeColorFocus, StrokeColorHover, StrokeColorActive,
		StrokeShade, StrokeShadeNormal, StrokeShadeFocus, StrokeShadeHover, StrokeShadeActive,
		StrokeWidth, StrokeStyle, StrokeStyleNormal, StrokeStyleFocus, StrokeStyleHover, StrokeStyleActive,
		Visibility, Opacity, Animate, TextColor, TextShade,
	} {
		attrs[a] = true
	}
}

// Valid reports whether a is a known attribute.
func (a Attr) Valid() bool { return attrs[a] }

// UnmarshalText rejects unknown attribute names.
func (a *Attr) UnmarshalText(b []byte) error {
	if !Attr(b).Valid() {
		return fmt.Errorf("unknown theme attribute %q", b)
	}
	*a = Attr(b)
	return nil
}

// State is an interaction state with its own colour, shade and stroke style.
type State string

const (
	StateNormal State = "normal"
	StateFocus  State = "focus"
	StateHover  State = "hover"
	StateActive State = "active"
)

// States lists states in class emission order.
var States = []State{StateHover, StateNormal, StateFocus, StateActive}

// StateAttrs groups the attributes that vary by state.
type StateAttrs struct {
	FillColor, FillShade, StrokeColor, StrokeShade, StrokeStyle Attr
}

// ForState returns the per-state attributes for s.
func ForState(s State) StateAttrs {
	return StateAttrs{
		FillColor:   Attr("fill_color_" + string(s)),
		FillShade:   Attr("fill_shade_" + string(s)),
		StrokeColor: Attr("stroke_color_" + string(s)),
		StrokeShade: Attr("stroke_shade_" + string(s)),
		StrokeStyle: Attr("stroke_style_" + string(s)),
	}
}
