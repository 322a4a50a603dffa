package vector

import (
	"github.com/matzehuels/quiver/pkg/canvas"
	"github.com/matzehuels/quiver/pkg/errors"
	"github.com/matzehuels/quiver/pkg/palette"
	"github.com/matzehuels/quiver/pkg/proj"
	"github.com/matzehuels/quiver/pkg/units"
)

// Config holds everything a render pass needs besides the field.
type Config struct {
	Scale      units.Scale
	Glyph      Glyph
	Projection proj.Projection

	// TransformAngles corrects Cartesian angles for unequal or flipped
	// axis scales on linear projections.
	TransformAngles bool
	// NoClip draws nodes outside the map region too.
	NoClip bool

	// Subsample thins the drawn nodes.
	Subsample

	// Palette colors glyphs when ColorBy is not ColorNone.
	Palette     palette.Palette
	ColorBy     ColorBy
	ColorTarget ColorTarget

	// Style is the pen and fill used for every glyph unless a palette
	// overrides the color.
	Style canvas.Style

	// Legend draws the reference vector in the lower-left corner.
	Legend      bool
	LegendLabel string
	// LegendOrigin is where geovector legends are measured. Nil means the
	// center of the map region.
	LegendOrigin *proj.Point
}

// Validate checks cfg against field f and returns the render mode. It is
// the only place inputs are rejected; a successful Validate means Render
// will draw.
func (cfg Config) Validate(f Field) (RenderMode, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	if cfg.Projection == nil {
		return 0, errors.New(errors.ErrCodeInvalidProjection, "no projection configured")
	}
	if f.Geographic() != cfg.Projection.Geographic() {
		return 0, errors.New(errors.ErrCodeConflictingOptions,
			"field geographic=%t does not match projection geographic=%t",
			f.Geographic(), cfg.Projection.Geographic())
	}
	if f.Mode != Cartesian && f.Mode != Polar {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid input mode %d", f.Mode)
	}

	s := cfg.Scale
	if _, ok := units.Lookup(byte(s.Unit)); !ok {
		return 0, errors.New(errors.ErrCodeInvalidUnit, "scale has no valid unit")
	}
	if s.Factor == 0 || (s.Constant && s.Factor < 0) {
		return 0, errors.New(errors.ErrCodeNonPositiveScale, "scale factor must be positive (got %g)", s.Factor)
	}
	if err := cfg.Glyph.Validate(s); err != nil {
		return 0, err
	}
	if cfg.StrideX < 0 || cfg.StrideY < 0 || cfg.Row0 < 0 || cfg.Col0 < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "subsampling cannot be negative")
	}
	if cfg.ColorBy != ColorNone && cfg.Palette == nil {
		return 0, errors.New(errors.ErrCodeInvalidPalette, "color mode %d needs a palette", cfg.ColorBy)
	}
	return ChooseRenderMode(f.Geographic(), s.Unit)
}

// Result is the outcome of a render pass.
type Result struct {
	Mode   RenderMode
	Stats  Stats
	Report Report
	Legend *Legend
}

// Render draws field f onto c.
//
// Nothing is drawn unless the whole configuration validates. Nodes are
// visited in row-major order from the north row, so the same inputs always
// produce the same request sequence.
func Render(f Field, cfg Config, c canvas.Canvas) (*Result, error) {
	mode, err := cfg.Validate(f)
	if err != nil {
		return nil, err
	}

	b := NewBuilder(cfg.Projection, cfg.Scale, cfg.Glyph, mode, f.Geographic(), cfg.TransformAngles)
	w := Walker{Proj: cfg.Projection, Subsample: cfg.Subsample, NoClip: cfg.NoClip}

	base := cfg.Style
	base.Filled = base.Filled && cfg.Glyph.Fill

	res := &Result{Mode: mode}
	for s, skip := range w.Walk(f) {
		if skip != SkipNone {
			res.Stats.Skip(skip)
			continue
		}
		n, skip := EvalNode(s.A, s.B, f.Mode, f.AzimuthInput)
		if skip != SkipNone {
			res.Stats.Skip(skip)
			continue
		}
		st := base
		if cfg.ColorBy == ColorMagnitude {
			col := cfg.Palette.ColorFor(n.Value)
			if cfg.ColorTarget != ColorPen {
				st.Fill = col
			}
			if cfg.ColorTarget != ColorFill || cfg.Glyph.Heads == canvas.HeadNone {
				st.Pen.Color = col
			}
		}
		res.Stats.Warn(b.Draw(c, s.X, s.Y, n, st))
		res.Stats.Add(n.Mag, cfg.Scale.Length(n.Mag))
	}

	if cfg.Legend {
		l := NewLegend(cfg.Projection, cfg.Scale, cfg.LegendOrigin, cfg.LegendLabel)
		b.DrawLegend(c, l, base)
		res.Legend = &l
	}
	res.Report = res.Stats.Report(cfg.Scale)
	return res, nil
}

// ColorRange returns the smallest and largest palette value in f, for
// stretching a relative palette. Polar fields range over the signed radius.
// ok is false when no node has a vector.
func ColorRange(f Field) (lo, hi float64, ok bool) {
	for s := range (Walker{NoClip: true}).Walk(f) {
		n, skip := EvalNode(s.A, s.B, f.Mode, f.AzimuthInput)
		if skip != SkipNone {
			continue
		}
		if !ok {
			lo, hi, ok = n.Value, n.Value, true
			continue
		}
		lo = min(lo, n.Value)
		hi = max(hi, n.Value)
	}
	return lo, hi, ok
}
