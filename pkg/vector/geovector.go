package vector

import (
	"math"

	"github.com/matzehuels/quiver/pkg/canvas"
	"github.com/matzehuels/quiver/pkg/proj"
	"github.com/matzehuels/quiver/pkg/units"
)

// Warning is the outcome of drawing one geovector.
type Warning int

const (
	// WarnNone means the glyph was drawn as specified.
	WarnNone Warning = iota
	// WarnHeadCapped means the head was longer than the projected shaft and
	// was cut down to it.
	WarnHeadCapped
	// WarnHeadOverCap means a norm cap is set and the shrunk head was still
	// longer than the shaft.
	WarnHeadOverCap
)

func (w Warning) String() string {
	switch w {
	case WarnHeadCapped:
		return "head-capped"
	case WarnHeadOverCap:
		return "head-over-cap"
	}
	return "none"
}

// arcStep is the sampling step, in km, along a geovector path.
const arcStep = 25.0

const (
	minArcSamples = 8
	maxArcSamples = 256
)

// GreatCircle samples the great circle from (lon, lat) with initial azimuth
// az over dist km, justification applied: the node sits at the begin,
// middle or end of the arc. A negative dist walks the opposite way.
func GreatCircle(lon, lat, az, dist float64, j Justification) []proj.Point {
	if dist < 0 {
		az += 180
		dist = -dist
	}
	startLon, startLat, startAz := lon, lat, az
	if back := float64(j) * 0.5 * dist; back > 0 {
		startLon, startLat = proj.Destination(lon, lat, az+180, back, units.EarthRadiusKm)
		// The arc must still pass through the node.
		startAz = proj.Bearing(startLon, startLat, lon, lat)
	}

	n := int(math.Ceil(dist / arcStep))
	n = max(minArcSamples, min(n, maxArcSamples))
	pts := make([]proj.Point, n+1)
	for i := range pts {
		d := dist * float64(i) / float64(n)
		x, y := proj.Destination(startLon, startLat, startAz, d, units.EarthRadiusKm)
		pts[i] = proj.Point{X: x, Y: y}
	}
	return pts
}

func (b *Builder) geovector(c canvas.Canvas, lon, lat float64, n Node, st canvas.Style) Warning {
	arc := GreatCircle(lon, lat, n.Az, b.scale.Length(n.Mag), b.glyph.Justify)
	xy := proj.ForwardPath(b.proj, proj.Point{X: lon, Y: lat}, arc)
	path := make([]canvas.Point, len(xy))
	for i, p := range xy {
		path[i] = canvas.Point{X: p.X, Y: p.Y}
	}

	g := b.glyph
	if g.Heads == canvas.HeadNone {
		c.Polyline(path, st)
		return WarnNone
	}

	shaft := pathLength(path)
	f := g.Shrink(n.Mag)
	headLen := g.HeadLength * f
	warn := WarnNone

	ends := 1
	if g.Heads == canvas.HeadBoth {
		ends = 2
	}
	if avail := shaft / float64(ends); headLen > avail {
		warn = WarnHeadCapped
		if g.NormCap > 0 {
			warn = WarnHeadOverCap
		}
		// Cap the head and shrink its other dimensions with it.
		if headLen > 0 {
			f *= avail / headLen
		}
		headLen = avail
	}

	// The shaft is drawn as a polyline up to where each straight head
	// segment starts; the head segments are emitted as vector requests.
	first, last := 0.0, shaft
	if g.Heads == canvas.HeadBegin || g.Heads == canvas.HeadBoth {
		first = headLen
	}
	if g.Heads == canvas.HeadEnd || g.Heads == canvas.HeadBoth {
		last = shaft - headLen
	}
	if body := subPath(path, first, last); len(body) >= 2 && last > first {
		c.Polyline(body, st)
	}
	if first > 0 {
		c.Vector(b.head(pointAt(path, first), path[0], canvas.HeadEnd, f), st)
	}
	if last < shaft {
		c.Vector(b.head(pointAt(path, last), path[len(path)-1], canvas.HeadEnd, f), st)
	}
	return warn
}

func pathLength(path []canvas.Point) float64 {
	var l float64
	for i := 1; i < len(path); i++ {
		d := path[i].Sub(path[i-1])
		l += math.Hypot(d.X, d.Y)
	}
	return l
}

// pointAt returns the point at arc length d along path.
func pointAt(path []canvas.Point, d float64) canvas.Point {
	var acc float64
	for i := 1; i < len(path); i++ {
		seg := path[i].Sub(path[i-1])
		l := math.Hypot(seg.X, seg.Y)
		if acc+l >= d && l > 0 {
			return path[i-1].Add(seg.Scale((d - acc) / l))
		}
		acc += l
	}
	return path[len(path)-1]
}

// subPath returns the part of path between arc lengths from and to.
func subPath(path []canvas.Point, from, to float64) []canvas.Point {
	out := []canvas.Point{pointAt(path, from)}
	var acc float64
	for i := 1; i < len(path); i++ {
		seg := path[i].Sub(path[i-1])
		acc += math.Hypot(seg.X, seg.Y)
		if acc > from && acc < to {
			out = append(out, path[i])
		}
	}
	return append(out, pointAt(path, to))
}
