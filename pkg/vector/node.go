package vector

import "math"

// Node is the evaluated vector at one grid node.
type Node struct {
	// Mag is the vector magnitude in data units, always positive.
	Mag float64
	// Az is the compass azimuth in degrees, 0 = north, clockwise, in [0, 360).
	Az float64
	// Value drives palette coloring: the magnitude for Cartesian input and
	// the signed radius for polar input.
	Value float64
}

// SkipReason explains why a node produced no glyph.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipNoData
	SkipZero
	SkipOutside
)

func (r SkipReason) String() string {
	switch r {
	case SkipNoData:
		return "no-data"
	case SkipZero:
		return "zero"
	case SkipOutside:
		return "outside"
	}
	return "none"
}

// EvalNode turns one node's components into a magnitude and azimuth.
//
// In Polar mode a is the radius and b the angle, a math theta (degrees
// counter-clockwise from east) unless azimuthInput is set. A negative radius
// points the other way. In Cartesian mode a and b are dx and dy.
func EvalNode(a, b float64, mode InputMode, azimuthInput bool) (Node, SkipReason) {
	if math.IsNaN(a) || math.IsNaN(b) {
		return Node{}, SkipNoData
	}

	var n Node
	switch mode {
	case Polar:
		if a == 0 {
			return Node{}, SkipZero
		}
		n.Mag = a
		n.Value = a
		n.Az = b
		if !azimuthInput {
			n.Az = 90 - b
		}
		if a < 0 {
			n.Mag = -a
			n.Az += 180
		}
	default:
		n.Mag = math.Hypot(a, b)
		if n.Mag == 0 {
			return Node{}, SkipZero
		}
		n.Value = n.Mag
		n.Az = 90 - math.Atan2(b, a)*r2d
	}
	n.Az = normAz(n.Az)
	return n, SkipNone
}

const (
	d2r = math.Pi / 180
	r2d = 180 / math.Pi
)

func normAz(az float64) float64 {
	az = math.Mod(az, 360)
	if az < 0 {
		az += 360
	}
	return az
}
