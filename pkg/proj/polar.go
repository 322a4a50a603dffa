package proj

import (
	"math"

	"github.com/matzehuels/quiver/pkg/errors"
)

// PolarLinear plots (theta, r) data on a disc. The region's West/East give
// the theta range in degrees (counter-clockwise from +x) and South/North the
// radius range; South maps to the disc center.
type PolarLinear struct {
	region Region
	k      float64 // inches per radius unit
	radius float64 // disc radius in inches
}

// NewPolarLinear maps region onto a disc width inches across.
func NewPolarLinear(region Region, width float64) (*PolarLinear, error) {
	if !region.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidProjection, "invalid region %s", region)
	}
	if region.South < 0 {
		return nil, errors.New(errors.ErrCodeInvalidProjection, "polar radius cannot be negative")
	}
	if width <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidProjection, "map width must be positive")
	}
	radius := width / 2
	return &PolarLinear{region: region, radius: radius, k: radius / (region.North - region.South)}, nil
}

func (p *PolarLinear) Forward(theta, r float64) (float64, float64) {
	rr := (r - p.region.South) * p.k
	t := theta * d2r
	return p.radius + rr*math.Cos(t), p.radius + rr*math.Sin(t)
}

func (p *PolarLinear) Outside(theta, r float64) bool {
	return outsideRegion(p.region, theta, r, false)
}

func (p *PolarLinear) Geographic() bool { return false }
func (p *PolarLinear) Region() Region   { return p.region }

func (p *PolarLinear) Size() (float64, float64) { return 2 * p.radius, 2 * p.radius }

// Theta returns the direction of the outward radial at (theta, r).
func (p *PolarLinear) Theta(theta, _ float64) float64 { return theta }

var (
	_ Projection = (*PolarLinear)(nil)
	_ Polar      = (*PolarLinear)(nil)
)
