// Package canvas defines the draw requests emitted by the vector renderer.
//
// The renderer never draws directly. It calls a [Canvas], which in practice
// is a [Recorder] that keeps every request in emission order; sinks under
// pkg/render/sink then turn the recorded [Drawing] into SVG, JSON or PDF.
// All coordinates are plot inches with the origin at the lower-left corner
// of the map frame.
//
// Every request carries the [Style] that was current when it was issued, so
// palette-driven color changes travel with the request instead of living in
// shared pen state.
package canvas

import "fmt"

// Point is a plot-space coordinate in inches.
type Point struct {
	X, Y float64
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p * k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Common colors.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// Pen is a stroke specification. Width is in points.
type Pen struct {
	Width float64
	Color Color
}

// Style is the pen and fill in effect for one request.
type Style struct {
	Pen    Pen
	Fill   Color
	Filled bool
}

// DefaultStyle is a 0.5 pt black pen with a black fill.
var DefaultStyle = Style{Pen: Pen{Width: 0.5, Color: Black}, Fill: Black, Filled: true}

// Heads selects which ends of a vector carry a head.
type Heads int

const (
	HeadNone Heads = iota
	HeadEnd
	HeadBegin
	HeadBoth
)

func (h Heads) String() string {
	switch h {
	case HeadEnd:
		return "end"
	case HeadBegin:
		return "begin"
	case HeadBoth:
		return "both"
	}
	return "none"
}

// Vector is a straight vector glyph with one or two heads.
type Vector struct {
	Origin, Tip Point

	// Shaft, head and outline dimensions in inches (PenWidth in points).
	ShaftWidth float64
	HeadLength float64
	HeadWidth  float64
	PenWidth   float64

	Heads Heads
	// Shape is the head notch, 0 (triangle) to 1 (arrow-shaped).
	Shape float64
	// Outline draws the head outline with PenWidth.
	Outline bool

	// Legacy selects the filled-polygon arrow format. OutlineCode carries
	// its outline flag (1) plus 2 for double-headed arrows.
	Legacy      bool
	OutlineCode int
}

// Canvas receives draw requests in order.
type Canvas interface {
	// Segment draws a plain stem from p0 to p1.
	Segment(p0, p1 Point, st Style)
	// Vector draws a vector glyph.
	Vector(v Vector, st Style)
	// Polyline draws a stroked open path.
	Polyline(pts []Point, st Style)
	// Label draws text anchored at its lower-left corner.
	Label(at Point, text string, size float64, st Style)
}
