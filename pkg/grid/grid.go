// Package grid holds regular 2D grids of scalar values.
//
// A grid is described by a Header (region, spacing, node count and
// registration) and read through the Store interface. Rows are stored north
// to south: row 0 is the top (maximum y) row, matching how grids are usually
// written to disk and how a map is drawn.
//
// No-data cells hold NaN. Use [IsNoData] rather than comparing directly.
package grid

import (
	"fmt"
	"math"

	"github.com/matzehuels/quiver/pkg/errors"
)

// Registration selects where nodes sit relative to the region edges.
type Registration int

const (
	// Gridline registration puts nodes on the region edges.
	Gridline Registration = iota
	// Pixel registration puts nodes at cell centers, half an increment
	// inside the region edges.
	Pixel
)

func (r Registration) String() string {
	if r == Pixel {
		return "pixel"
	}
	return "gridline"
}

// Header describes the geometry of a grid.
type Header struct {
	West, East   float64
	South, North float64
	XInc, YInc   float64
	NX, NY       int
	Registration Registration

	// Geographic marks longitude/latitude grids.
	Geographic bool
}

// Store is read-only random access to grid values.
type Store interface {
	Header() Header
	// Value returns the value at (row, col) with row 0 the northern row.
	// It returns NaN for no-data and for out-of-range indices.
	Value(row, col int) float64
}

// NoData is the sentinel stored in empty cells.
var NoData = math.NaN()

// IsNoData reports whether v is the no-data sentinel.
func IsNoData(v float64) bool { return math.IsNaN(v) }

// Grid is an in-memory Store.
type Grid struct {
	header Header
	data   []float64
}

// New returns a grid with the given header, filled with no-data.
// NX and NY are derived from the region and spacing when zero.
func New(h Header) (*Grid, error) {
	h, err := Normalize(h)
	if err != nil {
		return nil, err
	}
	data := make([]float64, h.NX*h.NY)
	for i := range data {
		data[i] = NoData
	}
	return &Grid{header: h, data: data}, nil
}

// FromRows builds a grid from rows ordered north to south. NX and NY are
// taken from the data; the spacing is derived from the region.
func FromRows(h Header, rows [][]float64) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGrid, "grid has no values")
	}
	h.NY, h.NX = len(rows), len(rows[0])
	h.XInc, h.YInc = 0, 0
	g, err := New(h)
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != h.NX {
			return nil, errors.New(errors.ErrCodeInvalidGrid,
				"row %d has %d values, want %d", r, len(row), h.NX)
		}
		copy(g.data[r*h.NX:], row)
	}
	return g, nil
}

// Normalize validates h and fills in NX/NY or XInc/YInc from each other.
func Normalize(h Header) (Header, error) {
	if !(h.East > h.West) || !(h.North > h.South) {
		return h, errors.New(errors.ErrCodeInvalidGrid,
			"invalid region %g/%g/%g/%g", h.West, h.East, h.South, h.North)
	}
	off := 1
	if h.Registration == Pixel {
		off = 0
	}
	switch {
	case h.NX > 0 && h.NY > 0:
		nx, ny := h.NX-off, h.NY-off
		if nx < 1 || ny < 1 {
			return h, errors.New(errors.ErrCodeInvalidGrid,
				"grid needs at least %d nodes per axis", 1+off)
		}
		h.XInc = (h.East - h.West) / float64(nx)
		h.YInc = (h.North - h.South) / float64(ny)
	case h.XInc > 0 && h.YInc > 0:
		h.NX = int(math.Round((h.East-h.West)/h.XInc)) + off
		h.NY = int(math.Round((h.North-h.South)/h.YInc)) + off
	default:
		return h, errors.New(errors.ErrCodeInvalidGrid, "grid needs node counts or increments")
	}
	return h, nil
}

// Header returns the grid header.
func (g *Grid) Header() Header { return g.header }

// Value returns the value at (row, col), NaN when out of range.
func (g *Grid) Value(row, col int) float64 {
	if row < 0 || col < 0 || row >= g.header.NY || col >= g.header.NX {
		return NoData
	}
	return g.data[row*g.header.NX+col]
}

// Set stores v at (row, col). Out-of-range indices are ignored.
func (g *Grid) Set(row, col int, v float64) {
	if row < 0 || col < 0 || row >= g.header.NY || col >= g.header.NX {
		return
	}
	g.data[row*g.header.NX+col] = v
}

// X returns the x coordinate of column col.
func (h Header) X(col int) float64 {
	x := h.West + float64(col)*h.XInc
	if h.Registration == Pixel {
		x += h.XInc / 2
	}
	return x
}

// Y returns the y coordinate of row (row 0 is north).
func (h Header) Y(row int) float64 {
	y := h.North - float64(row)*h.YInc
	if h.Registration == Pixel {
		y -= h.YInc / 2
	}
	return y
}

// String summarizes the header for logs.
func (h Header) String() string {
	return fmt.Sprintf("%g/%g/%g/%g %dx%d inc %g/%g %s",
		h.West, h.East, h.South, h.North, h.NX, h.NY, h.XInc, h.YInc, h.Registration)
}

// SameDomain reports whether a and b cover the same region with the same
// spacing, node count and registration, in the same coordinate system
// (lon/lat or Cartesian).
func SameDomain(a, b Header) bool {
	const eps = 1e-9
	near := func(x, y float64) bool {
		return math.Abs(x-y) <= eps*math.Max(1, math.Max(math.Abs(x), math.Abs(y)))
	}
	return a.NX == b.NX && a.NY == b.NY &&
		a.Registration == b.Registration && a.Geographic == b.Geographic &&
		near(a.West, b.West) && near(a.East, b.East) &&
		near(a.South, b.South) && near(a.North, b.North) &&
		near(a.XInc, b.XInc) && near(a.YInc, b.YInc)
}

// CheckDomain returns a DOMAIN_MISMATCH error unless a and b share a domain.
func CheckDomain(a, b Store) error {
	ha, hb := a.Header(), b.Header()
	if !SameDomain(ha, hb) {
		return errors.New(errors.ErrCodeDomainMismatch,
			"component grids do not share a domain (%s vs %s)", ha, hb)
	}
	return nil
}
