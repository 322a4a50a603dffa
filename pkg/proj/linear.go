package proj

import "github.com/matzehuels/quiver/pkg/errors"

// Linear is a Cartesian x/y projection with independent axis scales.
// A negative width or height flips that axis.
type Linear struct {
	region     Region
	sx, sy     float64
	geographic bool
}

// NewLinear maps region onto a width x height inch frame.
func NewLinear(region Region, width, height float64, geographic bool) (*Linear, error) {
	if !region.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidProjection, "invalid region %s", region)
	}
	if width == 0 || height == 0 {
		return nil, errors.New(errors.ErrCodeInvalidProjection, "linear projection needs non-zero width and height")
	}
	return &Linear{
		region:     region,
		sx:         width / (region.East - region.West),
		sy:         height / (region.North - region.South),
		geographic: geographic,
	}, nil
}

func (l *Linear) Forward(x, y float64) (float64, float64) {
	if l.geographic {
		x = wrapLon(x, l.region.West, l.region.East)
	}
	return l.ForwardUnwrapped(x, y)
}

// ForwardUnwrapped maps (x, y) without wrapping longitudes.
func (l *Linear) ForwardUnwrapped(x, y float64) (float64, float64) {
	var px, py float64
	if l.sx > 0 {
		px = (x - l.region.West) * l.sx
	} else {
		px = (x - l.region.East) * l.sx
	}
	if l.sy > 0 {
		py = (y - l.region.South) * l.sy
	} else {
		py = (y - l.region.North) * l.sy
	}
	return px, py
}

func (l *Linear) Outside(x, y float64) bool {
	return outsideRegion(l.region, x, y, l.geographic)
}

func (l *Linear) Geographic() bool { return l.geographic }
func (l *Linear) Region() Region   { return l.region }

func (l *Linear) Size() (float64, float64) {
	return abs(l.sx) * (l.region.East - l.region.West), abs(l.sy) * (l.region.North - l.region.South)
}

// Scales returns inches per data unit on each axis, negative when flipped.
func (l *Linear) Scales() (float64, float64) { return l.sx, l.sy }

// Anisotropic reports whether the axes differ in scale or orientation.
func (l *Linear) Anisotropic() bool { return l.sx != l.sy }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

var (
	_ Projection = (*Linear)(nil)
	_ Scaler     = (*Linear)(nil)
	_ Unwrapper  = (*Linear)(nil)
)
