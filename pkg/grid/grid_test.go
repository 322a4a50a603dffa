package grid

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/quiver/pkg/errors"
)

func TestFromRows(t *testing.T) {
	g, err := FromRows(Header{West: 0, East: 2, South: 0, North: 1}, [][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	h := g.Header()
	if h.NX != 3 || h.NY != 2 {
		t.Fatalf("NX,NY = %d,%d, want 3,2", h.NX, h.NY)
	}
	if h.XInc != 1 || h.YInc != 1 {
		t.Errorf("XInc,YInc = %v,%v, want 1,1", h.XInc, h.YInc)
	}
	if g.Value(0, 0) != 1 || g.Value(1, 2) != 6 {
		t.Errorf("unexpected values %v %v", g.Value(0, 0), g.Value(1, 2))
	}
	if !IsNoData(g.Value(5, 5)) {
		t.Error("out-of-range Value should be no-data")
	}
	if h.Y(0) != 1 || h.Y(1) != 0 || h.X(2) != 2 {
		t.Errorf("node coordinates wrong: y0=%v y1=%v x2=%v", h.Y(0), h.Y(1), h.X(2))
	}
}

func TestPixelRegistration(t *testing.T) {
	h, err := Normalize(Header{West: 0, East: 4, South: 0, North: 2, NX: 4, NY: 2, Registration: Pixel})
	if err != nil {
		t.Fatal(err)
	}
	if h.XInc != 1 || h.YInc != 1 {
		t.Fatalf("inc = %v/%v, want 1/1", h.XInc, h.YInc)
	}
	if h.X(0) != 0.5 || h.Y(0) != 1.5 {
		t.Errorf("pixel centers wrong: x0=%v y0=%v", h.X(0), h.Y(0))
	}
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name string
		h    Header
	}{
		{"inverted region", Header{West: 1, East: 0, South: 0, North: 1, NX: 2, NY: 2}},
		{"no size", Header{West: 0, East: 1, South: 0, North: 1}},
		{"single node gridline", Header{West: 0, East: 1, South: 0, North: 1, NX: 1, NY: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Normalize(tt.h); !errors.Is(err, errors.ErrCodeInvalidGrid) {
				t.Errorf("Normalize error = %v, want INVALID_GRID", err)
			}
		})
	}
}

func TestSameDomain(t *testing.T) {
	base := Header{West: 0, East: 10, South: 0, North: 5, NX: 11, NY: 6}
	a, _ := Normalize(base)

	shifted := base
	shifted.East = 11
	b, _ := Normalize(shifted)

	pixel := base
	pixel.Registration = Pixel
	c, _ := Normalize(pixel)

	if !SameDomain(a, a) {
		t.Error("header should match itself")
	}
	if SameDomain(a, b) {
		t.Error("different extent should not match")
	}
	if SameDomain(a, c) {
		t.Error("different registration should not match")
	}

	geo := a
	geo.Geographic = true
	if SameDomain(a, geo) {
		t.Error("lon/lat and Cartesian grids should not match")
	}
}

func TestCheckDomain(t *testing.T) {
	x, _ := FromRows(Header{West: 0, East: 1, South: 0, North: 1}, [][]float64{{1, 2}, {3, 4}})
	y, _ := FromRows(Header{West: 0, East: 2, South: 0, North: 1}, [][]float64{{1, 2}, {3, 4}})
	if err := CheckDomain(x, x); err != nil {
		t.Errorf("CheckDomain(x, x) = %v", err)
	}
	if err := CheckDomain(x, y); !errors.Is(err, errors.ErrCodeDomainMismatch) {
		t.Errorf("CheckDomain(x, y) = %v, want DOMAIN_MISMATCH", err)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	src := `{"header": {"west": -10, "east": 10, "south": 40, "north": 50, "geographic": true},
	         "z": [[1, null, 3], [4, 5, 6]]}`
	g, err := ReadJSON(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !g.Header().Geographic {
		t.Error("geographic flag lost")
	}
	if !math.IsNaN(g.Value(0, 1)) {
		t.Error("null should decode as no-data")
	}

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON(round trip): %v", err)
	}
	if !SameDomain(g.Header(), back.Header()) {
		t.Error("round trip changed the domain")
	}
	if back.Value(1, 2) != 6 || !IsNoData(back.Value(0, 1)) {
		t.Error("round trip changed values")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"malformed", `{"header":`},
		{"ragged", `{"header": {"west": 0, "east": 1, "south": 0, "north": 1}, "z": [[1, 2], [3]]}`},
		{"empty", `{"header": {"west": 0, "east": 1, "south": 0, "north": 1}, "z": []}`},
		{"bad registration", `{"header": {"west": 0, "east": 1, "south": 0, "north": 1, "registration": "x"}, "z": [[1,2],[3,4]]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(tt.src)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	_, err := ImportJSON("/nonexistent/grid.json")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ImportJSON error = %v, want FILE_NOT_FOUND", err)
	}
}
