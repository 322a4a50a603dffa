package sink

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/quiver/pkg/canvas"
	"github.com/matzehuels/quiver/pkg/errors"
	"github.com/matzehuels/quiver/pkg/vector"
)

func sampleDrawing() canvas.Drawing {
	rec := canvas.NewRecorder(4, 3)
	st := canvas.DefaultStyle
	rec.Segment(canvas.Point{X: 0, Y: 0}, canvas.Point{X: 1, Y: 1}, st)
	rec.Vector(canvas.Vector{
		Origin: canvas.Point{X: 1, Y: 1}, Tip: canvas.Point{X: 2, Y: 1},
		ShaftWidth: 0.02, HeadLength: 0.2, HeadWidth: 0.1, PenWidth: 0.5,
		Heads: canvas.HeadEnd, Shape: 0.5, Outline: true,
	}, st)
	rec.Vector(canvas.Vector{
		Origin: canvas.Point{X: 1, Y: 2}, Tip: canvas.Point{X: 2, Y: 2},
		ShaftWidth: 0.02, HeadLength: 0.2, HeadWidth: 0.1,
		Heads: canvas.HeadBoth, Legacy: true, OutlineCode: 3,
	}, st)
	rec.Polyline([]canvas.Point{{X: 0, Y: 3}, {X: 1, Y: 2.5}, {X: 2, Y: 3}}, st)
	rec.Label(canvas.Point{X: 0.2, Y: 0.3}, "5 <m/s>", 9, st)
	return rec.Drawing()
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(sampleDrawing(), WithMargin(0), WithFrame(), WithTitle("wind"), WithBackground(canvas.White)))

	for _, want := range []string{
		`viewBox="0 0 288.00 216.00"`,
		`<title>wind</title>`,
		`class="frame"`,
		// Segment from (0,0) to (1,1) inch, y flipped.
		`x1="0.00" y1="216.00" x2="72.00" y2="144.00"`,
		"<polyline",
		"5 &lt;m/s&gt;",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	// One head polygon for the modern vector, one outline for the legacy one.
	if n := strings.Count(svg, "<polygon"); n != 2 {
		t.Errorf("polygons = %d, want 2", n)
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	d := sampleDrawing()
	if string(RenderSVG(d)) != string(RenderSVG(d)) {
		t.Error("RenderSVG is not deterministic")
	}
}

func TestLegacyArrow(t *testing.T) {
	v := canvas.Vector{Origin: canvas.Point{}, Tip: canvas.Point{X: 1}, ShaftWidth: 0.1, HeadLength: 0.2, HeadWidth: 0.3}
	dir, perp := canvas.Point{X: 1}, canvas.Point{Y: 1}
	if got := len(legacyArrow(v, dir, perp, 1, false, true)); got != 7 {
		t.Errorf("single head points = %d, want 7", got)
	}
	if got := len(legacyArrow(v, dir, perp, 1, true, true)); got != 10 {
		t.Errorf("double head points = %d, want 10", got)
	}
}

func TestRenderJSON(t *testing.T) {
	res := &vector.Result{
		Mode:   vector.GeographicGreatCircle,
		Report: vector.Report{Drawn: 3, LenUnit: "kilometer"},
		Legend: &vector.Legend{Length: 1, Value: 10, Label: "10"},
	}
	data, err := RenderJSON(sampleDrawing(), WithJSONResult(res), WithJSONID("abc"))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.ID != "abc" || out.Width != 4 || out.Height != 3 {
		t.Errorf("header = %s %g x %g", out.ID, out.Width, out.Height)
	}
	if out.Mode != "geovector" || out.Stats == nil || out.Stats.Drawn != 3 {
		t.Errorf("mode %q stats %+v", out.Mode, out.Stats)
	}
	if len(out.Requests) != 5 {
		t.Fatalf("requests = %d, want 5", len(out.Requests))
	}
	kinds := []string{"segment", "vector", "vector", "polyline", "label"}
	for i, k := range kinds {
		if out.Requests[i].Kind != k {
			t.Errorf("request %d kind = %q, want %q", i, out.Requests[i].Kind, k)
		}
	}
	if v := out.Requests[2].Vector; v == nil || !v.Legacy || v.OutlineCode != 3 || v.Heads != "both" {
		t.Errorf("legacy vector = %+v", v)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		code errors.Code
	}{
		{"svg", FormatSVG, ""},
		{"JSON", FormatJSON, ""},
		{" pdf ", FormatPDF, ""},
		{"png", "", errors.ErrCodeUnsupported},
		{"gif", "", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Errorf("err = %v, want %s", err, tt.code)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}

func TestRenderDispatch(t *testing.T) {
	a := Artifact{Drawing: sampleDrawing(), Title: "t"}
	svg, err := Render(context.Background(), FormatSVG, a)
	if err != nil || !strings.HasPrefix(string(svg), "<svg") {
		t.Errorf("svg: %v", err)
	}
	js, err := Render(context.Background(), FormatJSON, a)
	if err != nil || !json.Valid(js) {
		t.Errorf("json: %v", err)
	}
	if FormatPDF.ContentType() != "application/pdf" || FormatSVG.ContentType() != "image/svg+xml" {
		t.Error("unexpected content types")
	}
}
