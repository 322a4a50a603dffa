package vector

import (
	"math"

	"github.com/matzehuels/quiver/pkg/canvas"
	"github.com/matzehuels/quiver/pkg/errors"
	"github.com/matzehuels/quiver/pkg/proj"
	"github.com/matzehuels/quiver/pkg/units"
)

// Glyph describes how each vector is drawn. Lengths are in inches, PenWidth
// in points.
type Glyph struct {
	Head  HeadStyle
	Heads canvas.Heads

	ShaftWidth float64
	HeadLength float64
	HeadWidth  float64
	PenWidth   float64

	// NormCap is the magnitude below which heads shrink in proportion.
	// Zero disables shrinking.
	NormCap float64

	Justify Justification
	Fill    bool
	Outline bool
	// Shape is the head notch for legacy heads, 0..1.
	Shape float64
}

// DefaultGlyph returns a filled, outlined arrow with a 0.2 cm head.
func DefaultGlyph() Glyph {
	return Glyph{
		Head:       HeadModern,
		Heads:      canvas.HeadEnd,
		ShaftWidth: 0.02,
		HeadLength: 0.2 / 2.54,
		HeadWidth:  0.1 / 2.54,
		PenWidth:   0.5,
		Fill:       true,
		Outline:    true,
		Shape:      0.5,
	}
}

// Validate checks the glyph against the scale it will be drawn with.
func (g Glyph) Validate(s units.Scale) error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"shaft width", g.ShaftWidth},
		{"head length", g.HeadLength},
		{"head width", g.HeadWidth},
		{"pen width", g.PenWidth},
		{"norm cap", g.NormCap},
	} {
		if err := errors.ValidateNonNegative(f.name, f.v); err != nil {
			return err
		}
	}
	if g.NormCap > 0 && s.Constant {
		return errors.New(errors.ErrCodeConflictingOptions,
			"a norm cap cannot be combined with constant-length vectors")
	}
	if g.Shape < 0 || g.Shape > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "head shape must be within 0..1 (got %g)", g.Shape)
	}
	switch g.Justify {
	case JustifyBegin, JustifyCenter, JustifyEnd:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid justification %d", g.Justify)
	}
	switch g.Heads {
	case canvas.HeadNone, canvas.HeadEnd, canvas.HeadBegin, canvas.HeadBoth:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid head selection %d", g.Heads)
	}
	return nil
}

// Shrink returns the head scale factor for magnitude mag: mag/NormCap,
// at most 1, or 1 when no cap is set.
func (g Glyph) Shrink(mag float64) float64 {
	if g.NormCap <= 0 {
		return 1
	}
	return math.Min(math.Abs(mag)/g.NormCap, 1)
}

// Justify moves origin and tip so the node sits at the begin, center or
// end of the glyph. Length and direction are unchanged.
func Justify(origin, tip canvas.Point, j Justification) (canvas.Point, canvas.Point) {
	if j == JustifyBegin {
		return origin, tip
	}
	shift := tip.Sub(origin).Scale(float64(j) * 0.5)
	return origin.Sub(shift), tip.Sub(shift)
}

// Builder turns evaluated nodes into draw requests.
type Builder struct {
	proj       proj.Projection
	scale      units.Scale
	glyph      Glyph
	mode       RenderMode
	geographic bool
	transform  bool
}

// NewBuilder returns a builder for one render pass. geographic says whether
// the field is lon/lat; transform enables the anisotropy correction of
// Cartesian angles on linear projections.
func NewBuilder(p proj.Projection, s units.Scale, g Glyph, mode RenderMode, geographic, transform bool) *Builder {
	return &Builder{proj: p, scale: s, glyph: g, mode: mode, geographic: geographic, transform: transform}
}

// Mode returns the render mode the builder draws with.
func (b *Builder) Mode() RenderMode { return b.mode }

// Draw emits the glyph for node n at data position (x, y) and returns the
// geovector warning code (always WarnNone for straight vectors).
func (b *Builder) Draw(c canvas.Canvas, x, y float64, n Node, st canvas.Style) Warning {
	if b.mode == GeographicGreatCircle {
		return b.geovector(c, x, y, n, st)
	}
	b.straight(c, x, y, n, st)
	return WarnNone
}

// PlotAngle converts a compass azimuth at (x, y) into a plot-plane angle in
// degrees counter-clockwise from +x.
func (b *Builder) PlotAngle(x, y, az float64) float64 {
	if b.geographic {
		return proj.NorthAngle(b.proj, x, y) - az
	}
	angle := 90 - az
	if b.transform {
		if s, ok := b.proj.(proj.Scaler); ok {
			sx, sy := s.Scales()
			r := angle * d2r
			angle = math.Atan2(sy*math.Sin(r), sx*math.Cos(r)) * r2d
		}
	}
	if p, ok := b.proj.(proj.Polar); ok {
		angle += p.Theta(x, y) - 90
	}
	return angle
}

// Straight returns the origin and tip of the straight glyph for n at (x, y),
// justification applied.
func (b *Builder) Straight(x, y float64, n Node) (origin, tip canvas.Point) {
	length := b.scale.Length(n.Mag)
	px, py := b.proj.Forward(x, y)
	theta := b.PlotAngle(x, y, n.Az) * d2r
	origin = canvas.Point{X: px, Y: py}
	tip = origin.Add(canvas.Point{X: length * math.Cos(theta), Y: length * math.Sin(theta)})
	return Justify(origin, tip, b.glyph.Justify)
}

func (b *Builder) straight(c canvas.Canvas, x, y float64, n Node, st canvas.Style) {
	origin, tip := b.Straight(x, y, n)
	if b.glyph.Heads == canvas.HeadNone {
		c.Segment(origin, tip, st)
		return
	}
	c.Vector(b.head(origin, tip, b.glyph.Heads, b.glyph.Shrink(n.Mag)), st)
}

// head builds the vector request for a shaft from origin to tip with head
// dimensions scaled by f.
func (b *Builder) head(origin, tip canvas.Point, heads canvas.Heads, f float64) canvas.Vector {
	g := b.glyph
	v := canvas.Vector{
		Origin:     origin,
		Tip:        tip,
		ShaftWidth: g.ShaftWidth,
		HeadLength: g.HeadLength * f,
		HeadWidth:  g.HeadWidth * f,
		PenWidth:   g.PenWidth * f,
		Heads:      heads,
		Shape:      g.Shape,
		Outline:    g.Outline,
	}
	if g.Head == HeadLegacy {
		v.Legacy = true
		if g.Outline {
			v.OutlineCode = 1
		}
		if heads == canvas.HeadBoth {
			v.OutlineCode += 2
		}
	}
	return v
}
