package proj

import (
	"math"

	"github.com/matzehuels/quiver/pkg/errors"
)

// Mercator is the spherical Mercator projection.
type Mercator struct {
	region Region
	k      float64 // inches per radian of longitude
	y0     float64 // Mercator y of the southern edge
}

// maxMercatorLat keeps the projection finite.
const maxMercatorLat = 89.5

// NewMercator maps the geographic region onto a frame width inches wide.
func NewMercator(region Region, width float64) (*Mercator, error) {
	if !region.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidProjection, "invalid region %s", region)
	}
	if region.South < -maxMercatorLat || region.North > maxMercatorLat {
		return nil, errors.New(errors.ErrCodeInvalidProjection,
			"mercator latitudes must lie within ±%g (got %g/%g)", maxMercatorLat, region.South, region.North)
	}
	if width <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidProjection, "map width must be positive")
	}
	k := width / ((region.East - region.West) * d2r)
	return &Mercator{region: region, k: k, y0: mercY(region.South)}, nil
}

func mercY(lat float64) float64 {
	return math.Log(math.Tan(math.Pi/4 + lat*d2r/2))
}

func (m *Mercator) Forward(lon, lat float64) (float64, float64) {
	return m.ForwardUnwrapped(wrapLon(lon, m.region.West, m.region.East), lat)
}

func (m *Mercator) ForwardUnwrapped(lon, lat float64) (float64, float64) {
	lat = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
	return (lon - m.region.West) * d2r * m.k, (mercY(lat) - m.y0) * m.k
}

func (m *Mercator) Outside(lon, lat float64) bool {
	return outsideRegion(m.region, lon, lat, true)
}

func (m *Mercator) Geographic() bool { return true }
func (m *Mercator) Region() Region   { return m.region }

func (m *Mercator) Size() (float64, float64) {
	return (m.region.East - m.region.West) * d2r * m.k, (mercY(m.region.North) - m.y0) * m.k
}

// Equirect is the equidistant cylindrical (Plate Carrée) projection.
type Equirect struct {
	region Region
	k      float64 // inches per degree
}

// NewEquirect maps the geographic region onto a frame width inches wide.
func NewEquirect(region Region, width float64) (*Equirect, error) {
	if !region.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidProjection, "invalid region %s", region)
	}
	if width <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidProjection, "map width must be positive")
	}
	return &Equirect{region: region, k: width / (region.East - region.West)}, nil
}

func (e *Equirect) Forward(lon, lat float64) (float64, float64) {
	return e.ForwardUnwrapped(wrapLon(lon, e.region.West, e.region.East), lat)
}

func (e *Equirect) ForwardUnwrapped(lon, lat float64) (float64, float64) {
	return (lon - e.region.West) * e.k, (lat - e.region.South) * e.k
}

func (e *Equirect) Outside(lon, lat float64) bool {
	return outsideRegion(e.region, lon, lat, true)
}

func (e *Equirect) Geographic() bool { return true }
func (e *Equirect) Region() Region   { return e.region }

func (e *Equirect) Size() (float64, float64) {
	return (e.region.East - e.region.West) * e.k, (e.region.North - e.region.South) * e.k
}

var (
	_ Projection = (*Mercator)(nil)
	_ Projection = (*Equirect)(nil)
	_ Unwrapper  = (*Mercator)(nil)
	_ Unwrapper  = (*Equirect)(nil)
)
