package vector

import (
	"math"
	"testing"

	"github.com/matzehuels/quiver/pkg/canvas"
	"github.com/matzehuels/quiver/pkg/errors"
	"github.com/matzehuels/quiver/pkg/proj"
	"github.com/matzehuels/quiver/pkg/units"
)

func mustScale(t *testing.T, raw string, opts units.ResolveOptions) units.Scale {
	t.Helper()
	s, err := units.Resolve(raw, opts)
	if err != nil {
		t.Fatalf("Resolve(%q): %v", raw, err)
	}
	return s
}

// unitLinear maps 0..10 onto a 10x10 inch frame.
func unitLinear(t *testing.T, w, h float64, geographic bool) *proj.Linear {
	t.Helper()
	p, err := proj.NewLinear(proj.Region{West: 0, East: 10, South: 0, North: 10}, w, h, geographic)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func nearPoint(a, b canvas.Point, eps float64) bool {
	return near(a.X, b.X, eps) && near(a.Y, b.Y, eps)
}

func TestJustify(t *testing.T) {
	origin, tip := canvas.Point{}, canvas.Point{X: 2}
	tests := []struct {
		j              Justification
		wantO, wantTip canvas.Point
	}{
		{JustifyBegin, canvas.Point{}, canvas.Point{X: 2}},
		{JustifyCenter, canvas.Point{X: -1}, canvas.Point{X: 1}},
		{JustifyEnd, canvas.Point{X: -2}, canvas.Point{}},
	}
	for _, tt := range tests {
		t.Run(tt.j.String(), func(t *testing.T) {
			o, p := Justify(origin, tip, tt.j)
			if !nearPoint(o, tt.wantO, tol) || !nearPoint(p, tt.wantTip, tol) {
				t.Errorf("Justify = %v, %v; want %v, %v", o, p, tt.wantO, tt.wantTip)
			}
			if d := p.Sub(o); !near(math.Hypot(d.X, d.Y), 2, tol) {
				t.Errorf("length changed to %g", math.Hypot(d.X, d.Y))
			}
		})
	}
}

func TestShrink(t *testing.T) {
	g := Glyph{NormCap: 1, HeadLength: 0.3}
	if f := g.Shrink(0.5); !near(f, 0.5, tol) {
		t.Errorf("Shrink(0.5) = %g, want 0.5", f)
	}
	if f := g.Shrink(5); f != 1 {
		t.Errorf("Shrink(5) = %g, want 1", f)
	}
	if f := (Glyph{}).Shrink(0.01); f != 1 {
		t.Errorf("no cap: Shrink = %g, want 1", f)
	}

	prev := 0.0
	for mag := 0.0; mag <= 3; mag += 0.05 {
		f := g.Shrink(mag)
		if f < prev || f > 1 {
			t.Fatalf("Shrink(%g) = %g after %g", mag, f, prev)
		}
		if g.HeadLength*f > g.HeadLength {
			t.Fatalf("head %g exceeds spec %g", g.HeadLength*f, g.HeadLength)
		}
		prev = f
	}
}

func TestGlyphValidate(t *testing.T) {
	scaled := units.Scale{Unit: units.Centimeter, Factor: 1}
	constant := units.Scale{Unit: units.Centimeter, Factor: 1, Constant: true}

	tests := []struct {
		name  string
		g     Glyph
		scale units.Scale
		code  errors.Code
	}{
		{"default", DefaultGlyph(), scaled, ""},
		{"norm cap with constant", Glyph{NormCap: 1}, constant, errors.ErrCodeConflictingOptions},
		{"negative head", Glyph{HeadLength: -1}, scaled, errors.ErrCodeInvalidInput},
		{"negative cap", Glyph{NormCap: -1}, scaled, errors.ErrCodeInvalidInput},
		{"bad shape", Glyph{Shape: 2}, scaled, errors.ErrCodeInvalidInput},
		{"bad justify", Glyph{Justify: 7}, scaled, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate(tt.scale)
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("got %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestStraightGeometry(t *testing.T) {
	p := unitLinear(t, 10, 10, false)
	s := mustScale(t, "1i", units.ResolveOptions{}) // one inch per data unit
	b := NewBuilder(p, s, DefaultGlyph(), CartesianStraight, false, false)

	n, _ := EvalNode(3, 4, Cartesian, false)
	origin, tip := b.Straight(5, 5, n)
	if !nearPoint(origin, canvas.Point{X: 5, Y: 5}, 1e-9) || !nearPoint(tip, canvas.Point{X: 8, Y: 9}, 1e-9) {
		t.Errorf("Straight = %v -> %v, want (5,5) -> (8,9)", origin, tip)
	}
}

func TestPlotAngle(t *testing.T) {
	polar, err := proj.NewPolarLinear(proj.Region{West: 0, East: 360, South: 0, North: 10}, 10)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		p          proj.Projection
		geographic bool
		transform  bool
		x, y, az   float64
		want       float64
	}{
		{"north is up", unitLinear(t, 10, 10, false), false, false, 5, 5, 0, 90},
		{"east is right", unitLinear(t, 10, 10, false), false, false, 5, 5, 90, 0},
		{"flipped y untransformed", unitLinear(t, 10, -10, false), false, false, 5, 5, 45, 45},
		{"flipped y transformed", unitLinear(t, 10, -10, false), false, true, 5, 5, 45, -45},
		{"anisotropic transformed", unitLinear(t, 10, 20, false), false, true, 5, 5, 45, math.Atan2(2, 1) * 180 / math.Pi},
		{"geographic north", unitLinear(t, 10, 10, true), true, false, 5, 5, 30, 60},
		{"polar radial at theta 0", polar, false, false, 0, 5, 0, 0},
		{"polar radial at theta 90", polar, false, false, 90, 5, 0, 90},
		{"polar tangential", polar, false, false, 90, 5, 270, 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(tt.p, units.Scale{Unit: units.Inch, Factor: 1}, DefaultGlyph(),
				CartesianStraight, tt.geographic, tt.transform)
			got := b.PlotAngle(tt.x, tt.y, tt.az)
			if d := math.Mod(got-tt.want+540, 360) - 180; math.Abs(d) > 1e-6 {
				t.Errorf("PlotAngle = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestNegativeRadiusSameGeometry(t *testing.T) {
	p := unitLinear(t, 10, 10, false)
	b := NewBuilder(p, mustScale(t, "2i", units.ResolveOptions{}), DefaultGlyph(), CartesianStraight, false, false)
	for theta := 0.0; theta < 360; theta += 30 {
		neg, _ := EvalNode(-3, theta, Polar, false)
		pos, _ := EvalNode(3, theta, Polar, false)
		pos.Az += 180
		o1, t1 := b.Straight(5, 5, neg)
		o2, t2 := b.Straight(5, 5, pos)
		if !nearPoint(o1, o2, 1e-9) || !nearPoint(t1, t2, 1e-9) {
			t.Errorf("theta %g: %v->%v vs %v->%v", theta, o1, t1, o2, t2)
		}
	}
}

func TestDrawEmission(t *testing.T) {
	p := unitLinear(t, 10, 10, false)
	s := mustScale(t, "1i", units.ResolveOptions{})
	n := Node{Mag: 0.5, Az: 90}

	t.Run("stem only", func(t *testing.T) {
		g := DefaultGlyph()
		g.Heads = canvas.HeadNone
		rec := canvas.NewRecorder(10, 10)
		NewBuilder(p, s, g, CartesianStraight, false, false).Draw(rec, 5, 5, n, canvas.DefaultStyle)
		if rec.Len() != 1 || rec.Count(canvas.KindSegment) != 1 {
			t.Fatalf("requests = %+v", rec.Requests())
		}
	})

	t.Run("shrunk head", func(t *testing.T) {
		g := DefaultGlyph()
		g.NormCap = 1
		g.HeadLength = 0.3
		g.HeadWidth = 0.2
		g.PenWidth = 1
		rec := canvas.NewRecorder(10, 10)
		NewBuilder(p, s, g, CartesianStraight, false, false).Draw(rec, 5, 5, n, canvas.DefaultStyle)
		v := rec.Requests()[0].Vector
		if v == nil {
			t.Fatal("expected a vector request")
		}
		if !near(v.HeadLength, 0.15, tol) || !near(v.HeadWidth, 0.1, tol) || !near(v.PenWidth, 0.5, tol) {
			t.Errorf("head = %g/%g/%g, want 0.15/0.1/0.5", v.HeadLength, v.HeadWidth, v.PenWidth)
		}
		if v.ShaftWidth != g.ShaftWidth {
			t.Errorf("shaft shrank to %g", v.ShaftWidth)
		}
	})

	t.Run("legacy double head", func(t *testing.T) {
		g := DefaultGlyph()
		g.Head = HeadLegacy
		g.Heads = canvas.HeadBoth
		g.Outline = true
		rec := canvas.NewRecorder(10, 10)
		NewBuilder(p, s, g, CartesianStraight, false, false).Draw(rec, 5, 5, n, canvas.DefaultStyle)
		v := rec.Requests()[0].Vector
		if !v.Legacy || v.OutlineCode != 3 {
			t.Errorf("legacy = %t outline code = %d, want true/3", v.Legacy, v.OutlineCode)
		}
	})
}
