package vector

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/quiver/pkg/canvas"
	"github.com/matzehuels/quiver/pkg/errors"
	"github.com/matzehuels/quiver/pkg/grid"
	"github.com/matzehuels/quiver/pkg/palette"
	"github.com/matzehuels/quiver/pkg/units"
)

var nan = math.NaN()

func mustGrid(t *testing.T, h grid.Header, rows [][]float64) *grid.Grid {
	t.Helper()
	g, err := grid.FromRows(h, rows)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// testField is a 3x3 Cartesian field over 0..10 with one no-data node and
// one zero vector.
func testField(t *testing.T) Field {
	h := grid.Header{West: 0, East: 10, South: 0, North: 10}
	x := mustGrid(t, h, [][]float64{
		{1, 2, 3},
		{nan, 0, 1},
		{1, 1, 1},
	})
	y := mustGrid(t, h, [][]float64{
		{1, 0, -1},
		{1, 0, 1},
		{0, 1, 2},
	})
	return Field{X: x, Y: y, Mode: Cartesian}
}

func testConfig(t *testing.T) Config {
	return Config{
		Scale:      mustScale(t, "1i", units.ResolveOptions{}),
		Glyph:      DefaultGlyph(),
		Projection: unitLinear(t, 10, 10, false),
		Style:      canvas.DefaultStyle,
	}
}

func TestRender(t *testing.T) {
	f := testField(t)
	rec := canvas.NewRecorder(10, 10)
	res, err := Render(f, testConfig(t), rec)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Mode != CartesianStraight {
		t.Errorf("mode = %v", res.Mode)
	}
	if res.Stats.Drawn != 7 || res.Stats.NoData != 1 || res.Stats.Zero != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if rec.Count(canvas.KindVector) != 7 {
		t.Errorf("vectors = %d, want 7", rec.Count(canvas.KindVector))
	}
	if res.Legend != nil {
		t.Error("legend drawn without being requested")
	}
	// First node is the north-west corner.
	first := rec.Requests()[0].Vector
	if !nearPoint(first.Origin, canvas.Point{X: 0, Y: 10}, tol) {
		t.Errorf("first origin = %v, want (0, 10)", first.Origin)
	}
}

func TestRenderIdempotent(t *testing.T) {
	f := testField(t)
	cfg := testConfig(t)
	cfg.Legend = true

	a, b := canvas.NewRecorder(10, 10), canvas.NewRecorder(10, 10)
	if _, err := Render(f, cfg, a); err != nil {
		t.Fatal(err)
	}
	if _, err := Render(f, cfg, b); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Requests(), b.Requests()) {
		t.Error("two renders of the same input differ")
	}
}

func TestRenderStrideAndClip(t *testing.T) {
	h := grid.Header{West: 0, East: 20, South: 0, North: 20}
	ones := [][]float64{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}
	f := Field{X: mustGrid(t, h, ones), Y: mustGrid(t, h, ones)}
	cfg := testConfig(t) // map covers 0..10 only
	cfg.Projection = unitLinear(t, 10, 10, false)

	res, err := Render(f, cfg, canvas.NewRecorder(10, 10))
	if err != nil {
		t.Fatal(err)
	}
	// Nodes at x or y = 20 are off the map.
	if res.Stats.Drawn != 4 || res.Stats.Outside != 5 {
		t.Errorf("clipped: drawn %d outside %d", res.Stats.Drawn, res.Stats.Outside)
	}

	cfg.NoClip = true
	cfg.StrideX, cfg.StrideY = 2, 2
	res, err = Render(f, cfg, canvas.NewRecorder(10, 10))
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Drawn != 4 || res.Stats.Outside != 0 {
		t.Errorf("strided: drawn %d outside %d", res.Stats.Drawn, res.Stats.Outside)
	}

	cfg.Row0, cfg.Col0 = 1, 1
	res, err = Render(f, cfg, canvas.NewRecorder(10, 10))
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Drawn != 1 {
		t.Errorf("offset: drawn %d, want only the center node", res.Stats.Drawn)
	}
}

func TestRenderPaletteColors(t *testing.T) {
	pal, err := palette.New("test", []palette.Stop{
		{Z: 0, Color: canvas.Black},
		{Z: 2, Color: canvas.White},
	})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name          string
		target        ColorTarget
		heads         canvas.Heads
		fill, penLine bool
	}{
		{"fill only", ColorFill, canvas.HeadEnd, true, false},
		{"headless stem", ColorFill, canvas.HeadNone, true, true},
		{"pen only", ColorPen, canvas.HeadEnd, false, true},
		{"both", ColorBoth, canvas.HeadEnd, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Palette = pal
			cfg.ColorBy = ColorMagnitude
			cfg.ColorTarget = tt.target
			cfg.Glyph.Heads = tt.heads

			rec := canvas.NewRecorder(10, 10)
			if _, err := Render(testField(t), cfg, rec); err != nil {
				t.Fatal(err)
			}
			if len(rec.Requests()) == 0 {
				t.Fatal("nothing drawn")
			}
			for _, r := range rec.Requests() {
				want := pal.ColorFor(math.Hypot(r.Points[1].X-r.Points[0].X, r.Points[1].Y-r.Points[0].Y))
				if got := r.Style.Fill == want; got != tt.fill {
					t.Errorf("fill %v, palette color %v, want colored=%t", r.Style.Fill, want, tt.fill)
				}
				if got := r.Style.Pen.Color == want; got != tt.penLine {
					t.Errorf("pen %v, palette color %v, want colored=%t", r.Style.Pen.Color, want, tt.penLine)
				}
			}
		})
	}
}

func TestRenderPolarSignedColor(t *testing.T) {
	pal, err := palette.New("signed", []palette.Stop{
		{Z: -2, Color: canvas.Black},
		{Z: 2, Color: canvas.White},
	})
	if err != nil {
		t.Fatal(err)
	}
	h := grid.Header{West: 0, East: 10, South: 0, North: 10}
	r := mustGrid(t, h, [][]float64{{-2, 2}, {nan, nan}})
	theta := mustGrid(t, h, [][]float64{{0, 180}, {0, 0}})
	f := Field{X: r, Y: theta, Mode: Polar}

	cfg := testConfig(t)
	cfg.Palette = pal
	cfg.ColorBy = ColorMagnitude
	rec := canvas.NewRecorder(10, 10)
	if _, err := Render(f, cfg, rec); err != nil {
		t.Fatal(err)
	}
	reqs := rec.Requests()
	if len(reqs) != 2 {
		t.Fatalf("got %d requests, want 2", len(reqs))
	}
	if reqs[0].Style.Fill != canvas.Black || reqs[1].Style.Fill != canvas.White {
		t.Errorf("fills %v %v, want black then white", reqs[0].Style.Fill, reqs[1].Style.Fill)
	}

	lo, hi, ok := ColorRange(f)
	if !ok || lo != -2 || hi != 2 {
		t.Errorf("ColorRange = %g, %g, %t", lo, hi, ok)
	}
}

func TestRenderLegend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Legend = true
	cfg.LegendLabel = "1 m/s"
	rec := canvas.NewRecorder(10, 10)
	res, err := Render(testField(t), cfg, rec)
	if err != nil {
		t.Fatal(err)
	}
	if res.Legend == nil || res.Legend.Label != "1 m/s" || !near(res.Legend.Length, 1, tol) {
		t.Fatalf("legend = %+v", res.Legend)
	}
	last := rec.Requests()[rec.Len()-1]
	if last.Kind != canvas.KindLabel || last.Text != "1 m/s" {
		t.Errorf("last request = %+v, want legend label", last)
	}
}

func TestRenderGeovectors(t *testing.T) {
	h := grid.Header{West: -5, East: 5, South: -5, North: 5, Geographic: true}
	x := mustGrid(t, h, [][]float64{{1, 0}, {0, -1}})
	y := mustGrid(t, h, [][]float64{{0, 1}, {1, 0}})
	cfg := testConfig(t)
	cfg.Projection = degreeMap(t)
	cfg.Scale = mustScale(t, "1d", units.ResolveOptions{Invert: true})

	rec := canvas.NewRecorder(20, 20)
	res, err := Render(Field{X: x, Y: y}, cfg, rec)
	if err != nil {
		t.Fatal(err)
	}
	if res.Mode != GeographicGreatCircle || res.Stats.Drawn != 4 {
		t.Errorf("mode %v drawn %d", res.Mode, res.Stats.Drawn)
	}
	if rec.Count(canvas.KindPolyline) != 4 || rec.Count(canvas.KindVector) != 4 {
		t.Errorf("polylines %d vectors %d", rec.Count(canvas.KindPolyline), rec.Count(canvas.KindVector))
	}
	if res.Report.LenUnit != units.Kilometer.Name() || !near(res.Report.LenMax, units.KmPerDegree, 1e-9) {
		t.Errorf("report = %+v", res.Report)
	}
}

func TestRenderRejects(t *testing.T) {
	f := testField(t)
	other := mustGrid(t, grid.Header{West: 0, East: 20, South: 0, North: 10}, [][]float64{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}})

	tests := []struct {
		name   string
		field  Field
		mutate func(*Config)
		code   errors.Code
	}{
		{"domain mismatch", Field{X: f.X, Y: other}, nil, errors.ErrCodeDomainMismatch},
		{"missing grid", Field{X: f.X}, nil, errors.ErrCodeInvalidGrid},
		{"no projection", f, func(c *Config) { c.Projection = nil }, errors.ErrCodeInvalidProjection},
		{"zero factor", f, func(c *Config) { c.Scale.Factor = 0 }, errors.ErrCodeNonPositiveScale},
		{"distance unit on cartesian field", f, func(c *Config) {
			c.Scale = units.Scale{Unit: units.Kilometer, Factor: 1, Reference: 1}
		}, errors.ErrCodeConflictingOptions},
		{"norm cap with constant", f, func(c *Config) {
			c.Scale.Constant = true
			c.Glyph.NormCap = 2
		}, errors.ErrCodeConflictingOptions},
		{"palette missing", f, func(c *Config) { c.ColorBy = ColorMagnitude }, errors.ErrCodeInvalidPalette},
		{"geographic projection", f, func(c *Config) { c.Projection = unitLinear(t, 10, 10, true) }, errors.ErrCodeConflictingOptions},
		{"negative stride", f, func(c *Config) { c.StrideX = -1 }, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			rec := canvas.NewRecorder(10, 10)
			_, err := Render(tt.field, cfg, rec)
			if !errors.Is(err, tt.code) {
				t.Fatalf("err = %v, want code %s", err, tt.code)
			}
			if rec.Len() != 0 {
				t.Errorf("%d requests drawn before failing", rec.Len())
			}
		})
	}
}

func TestColorRange(t *testing.T) {
	lo, hi, ok := ColorRange(testField(t))
	if !ok || !near(lo, 1, tol) || !near(hi, math.Sqrt(10), tol) {
		t.Errorf("ColorRange = %g, %g, %t", lo, hi, ok)
	}
}

func TestSubsampleFor(t *testing.T) {
	h := grid.Header{West: 0, East: 10, South: 0, North: 10, XInc: 0.5, YInc: 0.25, NX: 21, NY: 41}
	shifted := grid.Header{West: 0.5, East: 10, South: 0, North: 9.75, XInc: 0.5, YInc: 0.25, NX: 20, NY: 40}
	tests := []struct {
		name   string
		h      grid.Header
		dx, dy float64
		nodes  bool
		want   Subsample
		code   errors.Code
	}{
		{"every node", h, 0, 0, false, Subsample{}, ""},
		{"data units", h, 1, 1, false, Subsample{StrideX: 2, StrideY: 4}, ""},
		{"within tolerance", h, 1.0000001, 1, false, Subsample{StrideX: 2, StrideY: 4}, ""},
		{"node multiples", h, 2, 3, true, Subsample{StrideX: 2, StrideY: 3}, ""},
		{"aligned start", shifted, 1, 1, false, Subsample{StrideX: 2, StrideY: 4, Row0: 3, Col0: 1}, ""},
		{"not a multiple", h, 0.7, 1, false, Subsample{}, errors.ErrCodeInvalidInput},
		{"below increment", h, 0.1, 1, false, Subsample{}, errors.ErrCodeInvalidInput},
		{"one axis only", h, 1, 0, false, Subsample{}, errors.ErrCodeInvalidInput},
		{"negative", h, -1, -1, false, Subsample{}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SubsampleFor(tt.h, tt.dx, tt.dy, tt.nodes)
			if tt.code != "" {
				if errors.GetCode(err) != tt.code {
					t.Fatalf("err = %v, want code %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("SubsampleFor = %+v, want %+v", got, tt.want)
			}
		})
	}
}
