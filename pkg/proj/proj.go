// Package proj maps data coordinates onto the plot plane.
//
// A Projection turns (x, y) data coordinates, which are longitude/latitude
// for geographic maps, into plot coordinates in inches with the origin at the
// lower-left corner of the map frame. The vector renderer only needs the
// forward transform, the clip test and the local-scale helpers built on
// them ([NorthAngle], [InchesPerDegree]).
//
// Optional capabilities are separate interfaces:
//   - [Scaler]: linear projections with independent (possibly negative)
//     x and y scales, used to transform Cartesian angles
//   - [Polar]: polar (theta, r) projections, whose local frame rotates with
//     the node position
//   - [Unwrapper]: geographic projections that can place longitudes past
//     the region's wrap edge, used by [ForwardPath]
package proj

import (
	"fmt"
	"math"
)

// Point is a data-space coordinate (lon/lat for geographic maps).
type Point struct {
	X, Y float64
}

// Region is a rectangular data-space extent.
type Region struct {
	West, East   float64
	South, North float64
}

// Center returns the middle of the region.
func (r Region) Center() Point {
	return Point{X: (r.West + r.East) / 2, Y: (r.South + r.North) / 2}
}

// Valid reports whether the region has a positive extent on both axes.
func (r Region) Valid() bool {
	return r.East > r.West && r.North > r.South
}

func (r Region) String() string {
	return fmt.Sprintf("%g/%g/%g/%g", r.West, r.East, r.South, r.North)
}

// Projection is the forward map transform.
type Projection interface {
	// Forward maps data coordinates to plot inches.
	Forward(x, y float64) (px, py float64)
	// Outside reports whether (x, y) lies outside the map region.
	Outside(x, y float64) bool
	// Geographic reports whether data coordinates are lon/lat.
	Geographic() bool
	// Region returns the mapped data region.
	Region() Region
	// Size returns the map frame size in inches.
	Size() (w, h float64)
}

// Scaler is implemented by linear projections. Scales are plot inches per
// data unit and are negative for flipped axes.
type Scaler interface {
	Scales() (sx, sy float64)
}

// Polar is implemented by polar projections. Theta returns the plot
// direction, in degrees counter-clockwise from +x, of the outward radial
// through (x, y).
type Polar interface {
	Theta(x, y float64) float64
}

// Unwrapper is implemented by geographic projections whose Forward wraps
// longitudes into the region. ForwardUnwrapped maps lon as given, so points
// past the east edge land to the right of the frame.
type Unwrapper interface {
	ForwardUnwrapped(lon, lat float64) (px, py float64)
}

const (
	d2r = math.Pi / 180
	r2d = 180 / math.Pi
)

// scaleStep is the step, in degrees, used for local-scale estimates.
const scaleStep = 1e-3

// NorthAngle returns the plot direction of local north at (lon, lat), in
// degrees counter-clockwise from +x.
func NorthAngle(p Projection, lon, lat float64) float64 {
	x0, y0 := p.Forward(lon, lat)
	if lat+scaleStep > 90 {
		x1, y1 := p.Forward(lon, lat-scaleStep)
		return math.Atan2(y0-y1, x0-x1) * r2d
	}
	x1, y1 := p.Forward(lon, lat+scaleStep)
	return math.Atan2(y1-y0, x1-x0) * r2d
}

// InchesPerDegree returns the plot length of one degree of arc leaving
// (lon, lat) along bearing (degrees clockwise from north).
func InchesPerDegree(p Projection, lon, lat, bearing float64) float64 {
	b := bearing * d2r
	dlat := scaleStep * math.Cos(b)
	coslat := math.Cos(lat * d2r)
	if coslat < 1e-9 {
		coslat = 1e-9
	}
	dlon := scaleStep * math.Sin(b) / coslat
	if lat+dlat > 90 || lat+dlat < -90 {
		dlat = -dlat
	}
	xy := ForwardPath(p, Point{X: lon, Y: lat}, []Point{{X: lon, Y: lat}, {X: lon + dlon, Y: lat + dlat}})
	return math.Hypot(xy[1].X-xy[0].X, xy[1].Y-xy[0].Y) / scaleStep
}

// ForwardPath projects a connected data path. On geographic projections the
// longitudes are kept continuous, starting next to anchor (the node the path
// belongs to) once it is wrapped into the region, so a path crossing the
// dateline runs off the frame edge instead of jumping across the map. The
// result holds plot inches.
func ForwardPath(p Projection, anchor Point, pts []Point) []Point {
	out := make([]Point, len(pts))
	u, ok := p.(Unwrapper)
	if !ok || !p.Geographic() {
		for i, pt := range pts {
			out[i].X, out[i].Y = p.Forward(pt.X, pt.Y)
		}
		return out
	}
	r := p.Region()
	prev := wrapLon(anchor.X, r.West, r.East)
	for i, pt := range pts {
		lon := nearestTurn(pt.X, prev)
		out[i].X, out[i].Y = u.ForwardUnwrapped(lon, pt.Y)
		prev = lon
	}
	return out
}

// nearestTurn shifts lon by whole turns to within half a turn of ref.
func nearestTurn(lon, ref float64) float64 {
	return lon - 360*math.Round((lon-ref)/360)
}

// wrapLon shifts lon by whole turns so it falls inside [west, east] when
// possible.
func wrapLon(lon, west, east float64) float64 {
	for lon < west && lon+360 <= east+1e-9 {
		lon += 360
	}
	for lon > east && lon-360 >= west-1e-9 {
		lon -= 360
	}
	return lon
}

// outsideRegion is the shared rectangular clip test.
func outsideRegion(r Region, x, y float64, geographic bool) bool {
	const eps = 1e-9
	if geographic {
		x = wrapLon(x, r.West, r.East)
	}
	return x < r.West-eps || x > r.East+eps || y < r.South-eps || y > r.North+eps
}
