package vector

import (
	"strings"

	"github.com/matzehuels/quiver/pkg/errors"
	"github.com/matzehuels/quiver/pkg/units"
)

// InputMode tells how the two component grids are read.
type InputMode int

const (
	// Cartesian components are (dx, dy).
	Cartesian InputMode = iota
	// Polar components are (r, theta); see Field.AzimuthInput.
	Polar
)

func (m InputMode) String() string {
	if m == Polar {
		return "polar"
	}
	return "cartesian"
}

// ParseInputMode accepts "cartesian" (or "xy") and "polar" (or "rtheta").
func ParseInputMode(s string) (InputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cartesian", "xy":
		return Cartesian, nil
	case "polar", "rtheta":
		return Polar, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown input mode %q (valid: cartesian, polar)", s)
}

// RenderMode is how glyphs are drawn. It is derived from the field and the
// scale unit by ChooseRenderMode and never set directly.
type RenderMode int

const (
	CartesianStraight RenderMode = iota
	GeographicGreatCircle
)

func (m RenderMode) String() string {
	if m == GeographicGreatCircle {
		return "geovector"
	}
	return "straight"
}

// ChooseRenderMode picks the render mode for a field and scale unit.
// Plot-length units always give straight vectors, even on geographic
// fields. Distance units give geovectors and need a geographic field.
func ChooseRenderMode(fieldGeographic bool, u units.Unit) (RenderMode, error) {
	if u.IsPlot() {
		return CartesianStraight, nil
	}
	if !fieldGeographic {
		return 0, errors.New(errors.ErrCodeConflictingOptions,
			"distance unit %q needs a geographic field; use c, i or p for Cartesian data", u.String())
	}
	return GeographicGreatCircle, nil
}

// Justification is where the node sits along its glyph.
type Justification int

const (
	JustifyBegin  Justification = iota // node at the tail
	JustifyCenter                      // node at the middle
	JustifyEnd                         // node at the tip
)

func (j Justification) String() string {
	switch j {
	case JustifyCenter:
		return "center"
	case JustifyEnd:
		return "end"
	}
	return "begin"
}

// ParseJustification accepts b/begin, c/center and e/end.
func ParseJustification(s string) (Justification, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "b", "begin":
		return JustifyBegin, nil
	case "c", "center", "m", "middle":
		return JustifyCenter, nil
	case "e", "end":
		return JustifyEnd, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown justification %q (valid: b, c, e)", s)
}

// HeadStyle selects the vector head format.
type HeadStyle int

const (
	// HeadModern is the current head format: outline and fill are
	// independent toggles.
	HeadModern HeadStyle = iota
	// HeadLegacy is the older filled-polygon arrow described by shaft
	// width, head length, head width and shape. Its outline is an integer
	// code rather than a toggle.
	HeadLegacy
)

func (h HeadStyle) String() string {
	if h == HeadLegacy {
		return "legacy"
	}
	return "modern"
}

// ColorBy selects what drives palette coloring.
type ColorBy int

const (
	ColorNone ColorBy = iota
	ColorMagnitude
)

// ParseColorBy accepts "" / "none" and "magnitude".
func ParseColorBy(s string) (ColorBy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ColorNone, nil
	case "magnitude", "mag":
		return ColorMagnitude, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown color mode %q (valid: none, magnitude)", s)
}

// ColorTarget selects which parts of a glyph a palette colors.
type ColorTarget int

const (
	// ColorFill colors the head fill. Stems of headless glyphs take the
	// color on their pen since they have no fill.
	ColorFill ColorTarget = iota
	// ColorPen colors the outline pen and leaves the fill alone.
	ColorPen
	// ColorBoth colors pen and fill.
	ColorBoth
)

// ParseColorTarget accepts "" / "fill", "pen" and "both".
func ParseColorTarget(s string) (ColorTarget, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fill":
		return ColorFill, nil
	case "pen":
		return ColorPen, nil
	case "both":
		return ColorBoth, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown color target %q (valid: fill, pen, both)", s)
}
