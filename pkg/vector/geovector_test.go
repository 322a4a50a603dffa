package vector

import (
	"testing"

	"github.com/matzehuels/quiver/pkg/canvas"
	"github.com/matzehuels/quiver/pkg/proj"
	"github.com/matzehuels/quiver/pkg/units"
)

// degreeMap maps -10..10 degrees onto 20 inches, one inch per degree.
func degreeMap(t *testing.T) *proj.Linear {
	t.Helper()
	p, err := proj.NewLinear(proj.Region{West: -10, East: 10, South: -10, North: 10}, 20, 20, true)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestGreatCircle(t *testing.T) {
	pts := GreatCircle(0, 0, 90, units.KmPerDegree, JustifyBegin)
	if len(pts) < minArcSamples+1 {
		t.Fatalf("got %d samples", len(pts))
	}
	first, last := pts[0], pts[len(pts)-1]
	if !near(first.X, 0, 1e-9) || !near(first.Y, 0, 1e-9) {
		t.Errorf("start = %+v, want 0/0", first)
	}
	if !near(last.X, 1, 1e-9) || !near(last.Y, 0, 1e-9) {
		t.Errorf("end = %+v, want 1/0", last)
	}

	centered := GreatCircle(0, 0, 90, 2*units.KmPerDegree, JustifyCenter)
	if c0 := centered[0]; !near(c0.X, -1, 1e-9) {
		t.Errorf("centered start = %+v, want -1/0", c0)
	}
	if c1 := centered[len(centered)-1]; !near(c1.X, 1, 1e-9) {
		t.Errorf("centered end = %+v, want 1/0", c1)
	}

	back := GreatCircle(0, 0, 0, -units.KmPerDegree, JustifyBegin)
	if b := back[len(back)-1]; !near(b.Y, -1, 1e-9) {
		t.Errorf("negative distance end = %+v, want 0/-1", b)
	}
}

func TestGeovectorDraw(t *testing.T) {
	p := degreeMap(t)
	// Invert: one degree of arc per data unit.
	s := mustScale(t, "1d", units.ResolveOptions{Invert: true})
	n := Node{Mag: 1, Az: 90}

	tests := []struct {
		name       string
		glyph      func(*Glyph)
		mag        float64
		wantWarn   Warning
		wantVector int
		wantPoly   int
	}{
		{"plain", func(g *Glyph) { g.HeadLength = 0.2 }, 1, WarnNone, 1, 1},
		{"no head", func(g *Glyph) { g.Heads = canvas.HeadNone }, 1, WarnNone, 0, 1},
		{"both heads", func(g *Glyph) { g.Heads = canvas.HeadBoth; g.HeadLength = 0.2 }, 1, WarnNone, 2, 1},
		{"head capped", func(g *Glyph) { g.HeadLength = 2 }, 1, WarnHeadCapped, 1, 0},
		{"head over cap", func(g *Glyph) { g.HeadLength = 2; g.NormCap = 0.5 }, 1, WarnHeadOverCap, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := DefaultGlyph()
			tt.glyph(&g)
			rec := canvas.NewRecorder(p.Size())
			b := NewBuilder(p, s, g, GeographicGreatCircle, true, false)
			node := n
			node.Mag = tt.mag
			if w := b.Draw(rec, 0, 0, node, canvas.DefaultStyle); w != tt.wantWarn {
				t.Errorf("warning = %v, want %v", w, tt.wantWarn)
			}
			if got := rec.Count(canvas.KindVector); got != tt.wantVector {
				t.Errorf("vectors = %d, want %d", got, tt.wantVector)
			}
			if got := rec.Count(canvas.KindPolyline); got != tt.wantPoly {
				t.Errorf("polylines = %d, want %d", got, tt.wantPoly)
			}
		})
	}
}

func TestGeovectorHeadAtTip(t *testing.T) {
	p := degreeMap(t)
	s := mustScale(t, "1d", units.ResolveOptions{Invert: true})
	g := DefaultGlyph()
	g.HeadLength = 0.25

	rec := canvas.NewRecorder(p.Size())
	NewBuilder(p, s, g, GeographicGreatCircle, true, false).Draw(rec, 0, 0, Node{Mag: 1, Az: 90}, canvas.DefaultStyle)

	var v *canvas.Vector
	for _, r := range rec.Requests() {
		if r.Kind == canvas.KindVector {
			v = r.Vector
		}
	}
	if v == nil {
		t.Fatal("no vector request")
	}
	if !nearPoint(v.Tip, canvas.Point{X: 11, Y: 10}, 1e-6) {
		t.Errorf("tip = %v, want (11, 10)", v.Tip)
	}
	if !nearPoint(v.Origin, canvas.Point{X: 10.75, Y: 10}, 1e-6) {
		t.Errorf("head origin = %v, want (10.75, 10)", v.Origin)
	}
}

func TestPathHelpers(t *testing.T) {
	path := []canvas.Point{{X: 0}, {X: 1}, {X: 1, Y: 1}}
	if l := pathLength(path); !near(l, 2, tol) {
		t.Errorf("pathLength = %g", l)
	}
	if p := pointAt(path, 1.5); !nearPoint(p, canvas.Point{X: 1, Y: 0.5}, tol) {
		t.Errorf("pointAt(1.5) = %v", p)
	}
	sub := subPath(path, 0.5, 1.5)
	want := []canvas.Point{{X: 0.5}, {X: 1}, {X: 1, Y: 0.5}}
	if len(sub) != len(want) {
		t.Fatalf("subPath = %v", sub)
	}
	for i := range want {
		if !nearPoint(sub[i], want[i], tol) {
			t.Errorf("subPath[%d] = %v, want %v", i, sub[i], want[i])
		}
	}
}

func TestGeovectorAcrossDateline(t *testing.T) {
	p, err := proj.NewEquirect(proj.Region{West: -180, East: 180, South: -90, North: 90}, 6)
	if err != nil {
		t.Fatal(err)
	}
	s := mustScale(t, "300k", units.ResolveOptions{Invert: true})
	g := DefaultGlyph()
	g.HeadLength = 0.01

	rec := canvas.NewRecorder(p.Size())
	w := NewBuilder(p, s, g, GeographicGreatCircle, true, false).Draw(rec, 179.5, 0, Node{Mag: 1, Az: 90}, canvas.DefaultStyle)
	if w != WarnNone {
		t.Errorf("warning = %v, want none", w)
	}

	// 300 km is about 2.7 degrees, 0.045 in on this map.
	for _, r := range rec.Requests() {
		if r.Kind != canvas.KindPolyline {
			continue
		}
		pts := r.Points
		if l := pathLength(pts); l > 0.1 {
			t.Errorf("shaft length = %g in, want about 0.045", l)
		}
		for i := 1; i < len(pts); i++ {
			if dx := pts[i].X - pts[i-1].X; dx < 0 || dx > 0.05 {
				t.Errorf("jump of %g in between path points %d and %d", dx, i-1, i)
			}
		}
	}
	if rec.Count(canvas.KindPolyline) != 1 || rec.Count(canvas.KindVector) != 1 {
		t.Errorf("requests = %+v", rec.Requests())
	}
}
