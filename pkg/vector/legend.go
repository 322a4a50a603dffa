package vector

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/quiver/pkg/canvas"
	"github.com/matzehuels/quiver/pkg/proj"
	"github.com/matzehuels/quiver/pkg/units"
)

// Legend is the auto-legend reference vector.
type Legend struct {
	// Length is the plot length of the reference vector in inches.
	Length float64 `json:"length"`
	// Value is the data magnitude it represents.
	Value float64 `json:"value"`
	// Label is the text drawn next to it.
	Label string `json:"label"`
}

// LegendLength returns the plot length, in inches, of a vector of the
// scale's reference magnitude.
//
// For straight vectors that is the scaled length itself. Geovectors have no
// single plot scale: the degrees-per-inch of the projection at origin (nil
// means the map center) is averaged over the north and east bearings and the
// reference distance, in degrees, is divided by it.
func LegendLength(p proj.Projection, s units.Scale, origin *proj.Point) float64 {
	length := s.Length(s.Reference)
	if length < 0 {
		length = -length
	}
	if !s.Geographic() {
		return length
	}
	at := p.Region().Center()
	if origin != nil {
		at = *origin
	}
	north := proj.InchesPerDegree(p, at.X, at.Y, 0)
	east := proj.InchesPerDegree(p, at.X, at.Y, 90)
	if north <= 0 || east <= 0 {
		return 0
	}
	degPerInch := (1/north + 1/east) / 2
	return length / units.KmPerDegree / degPerInch
}

// NewLegend builds the reference vector description for a render.
func NewLegend(p proj.Projection, s units.Scale, origin *proj.Point, label string) Legend {
	if label == "" {
		label = strconv.FormatFloat(s.Reference, 'g', 6, 64)
	}
	return Legend{
		Length: LegendLength(p, s, origin),
		Value:  s.Reference,
		Label:  label,
	}
}

// legendInset is the offset of the legend from the lower-left frame corner.
const legendInset = 0.2

// legendFontSize is the label size in points.
const legendFontSize = 9

// DrawLegend draws the reference vector as a straight glyph in the
// lower-left corner of the frame with its label above it.
func (b *Builder) DrawLegend(c canvas.Canvas, l Legend, st canvas.Style) {
	origin := canvas.Point{X: legendInset, Y: legendInset}
	tip := origin.Add(canvas.Point{X: l.Length})
	if b.glyph.Heads == canvas.HeadNone {
		c.Segment(origin, tip, st)
	} else {
		c.Vector(b.head(origin, tip, b.glyph.Heads, b.glyph.Shrink(l.Value)), st)
	}
	labelStyle := canvas.Style{Pen: canvas.Pen{Width: 0, Color: st.Pen.Color}, Fill: st.Pen.Color, Filled: true}
	c.Label(origin.Add(canvas.Point{Y: 0.1}), l.Label, legendFontSize, labelStyle)
}

func (l Legend) String() string {
	return fmt.Sprintf("%s = %.3f in", l.Label, l.Length)
}
