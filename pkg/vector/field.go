package vector

import (
	"iter"
	"math"

	"github.com/matzehuels/quiver/pkg/errors"
	"github.com/matzehuels/quiver/pkg/grid"
	"github.com/matzehuels/quiver/pkg/proj"
)

// Field is a vector field stored as two component grids.
type Field struct {
	// X holds dx (Cartesian) or r (Polar).
	X grid.Store
	// Y holds dy (Cartesian) or theta (Polar).
	Y grid.Store

	Mode InputMode
	// AzimuthInput means polar angles are already compass azimuths.
	AzimuthInput bool
}

// Validate checks that both grids are present and share a domain.
func (f Field) Validate() error {
	if f.X == nil || f.Y == nil {
		return errors.New(errors.ErrCodeInvalidGrid, "vector field needs two component grids")
	}
	return grid.CheckDomain(f.X, f.Y)
}

// Geographic reports whether node coordinates are lon/lat.
func (f Field) Geographic() bool { return f.X.Header().Geographic }

// Sample is one visited node.
type Sample struct {
	Row, Col int
	X, Y     float64 // node coordinates
	A, B     float64 // component values
}

// Subsample selects every StrideX-th column starting at Col0 and every
// StrideY-th row starting at Row0. The zero value visits every node.
type Subsample struct {
	StrideX, StrideY int
	Row0, Col0       int
}

// Walker visits field nodes at a stride.
type Walker struct {
	Proj proj.Projection
	Subsample
	// NoClip disables outside-map rejection.
	NoClip bool
}

// Walk yields nodes in row-major order starting at the north row. Nodes
// outside the map come with SkipOutside; everything else with SkipNone.
func (w Walker) Walk(f Field) iter.Seq2[Sample, SkipReason] {
	return func(yield func(Sample, SkipReason) bool) {
		h := f.X.Header()
		sx, sy := max(w.StrideX, 1), max(w.StrideY, 1)
		for row := max(w.Row0, 0); row < h.NY; row += sy {
			y := h.Y(row)
			for col := max(w.Col0, 0); col < h.NX; col += sx {
				s := Sample{Row: row, Col: col, X: h.X(col), Y: y}
				if !w.NoClip && w.Proj != nil && w.Proj.Outside(s.X, s.Y) {
					if !yield(s, SkipOutside) {
						return
					}
					continue
				}
				s.A = f.X.Value(row, col)
				s.B = f.Y.Value(row, col)
				if !yield(s, SkipNone) {
					return
				}
			}
		}
	}
}

// strideTolerance is the relative slack allowed when matching a requested
// spacing to a whole number of grid increments.
const strideTolerance = 1e-6

// SubsampleFor returns the subsampling that draws nodes dx and dy apart.
// With nodes set, dx and dy count grid increments instead of data units.
// Both zero means every node. Otherwise each spacing must be a whole
// multiple of the grid increment, and the first drawn row and column sit on
// multiples of the spacing so that neighboring grids line up.
func SubsampleFor(h grid.Header, dx, dy float64, nodes bool) (Subsample, error) {
	if dx == 0 && dy == 0 {
		return Subsample{}, nil
	}
	if dx <= 0 || dy <= 0 {
		return Subsample{}, errors.New(errors.ErrCodeInvalidInput, "spacing needs positive x and y values (got %g/%g)", dx, dy)
	}
	if nodes {
		dx *= h.XInc
		dy *= h.YInc
	}
	stride := func(want, inc float64, axis string) (int, error) {
		if inc <= 0 {
			return 0, errors.New(errors.ErrCodeInvalidGrid, "grid has no %s increment", axis)
		}
		val := want / inc
		n := math.Round(val)
		if n == 0 || math.Abs((n-val)/n) > strideTolerance {
			return 0, errors.New(errors.ErrCodeInvalidInput,
				"%s spacing %g is not a multiple of the grid increment %g", axis, want, inc)
		}
		return int(n), nil
	}
	var (
		sub Subsample
		err error
	)
	if sub.StrideX, err = stride(dx, h.XInc, "x"); err != nil {
		return Subsample{}, err
	}
	if sub.StrideY, err = stride(dy, h.YInc, "y"); err != nil {
		return Subsample{}, err
	}
	dx = float64(sub.StrideX) * h.XInc
	dy = float64(sub.StrideY) * h.YInc

	top := math.Ceil(h.North/dy) * dy
	if top > h.North {
		top -= dy
	}
	sub.Row0 = int(math.Round((h.North - top) / h.YInc))
	left := math.Floor(h.West/dx) * dx
	if left < h.West {
		left += dx
	}
	sub.Col0 = int(math.Round((left - h.West) / h.XInc))
	return sub, nil
}
