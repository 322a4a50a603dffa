// Package units resolves vector length/scale strings into internal scale
// factors.
//
// A scale string is a number optionally followed by one of twelve unit
// symbols. Three are plot lengths (c, i, p) and resolve to inches; nine are
// distances on the Earth (d, m, s, e, f, k, M, n, u) and resolve to
// kilometers. The unit class decides how vectors are drawn: plot units give
// straight vectors even on a geographic map, distance units give great-circle
// geovectors.
//
//	s, err := units.Resolve("10k", units.ResolveOptions{})
//	// s.Factor == 0.1 (km per data unit), s.Reference == 10
package units

import (
	"fmt"
	"math"
	"slices"
)

// Class distinguishes plot-length units from earth-distance units.
type Class int

const (
	// Plot units measure lengths on the page; internal unit is the inch.
	Plot Class = iota
	// Distance units measure lengths on the Earth; internal unit is the km.
	Distance
)

func (c Class) String() string {
	if c == Plot {
		return "plot"
	}
	return "distance"
}

// Unit is one of the recognized unit symbols.
type Unit byte

// Recognized unit symbols.
const (
	Centimeter   Unit = 'c'
	Inch         Unit = 'i'
	Point        Unit = 'p'
	Degree       Unit = 'd'
	Minute       Unit = 'm'
	Second       Unit = 's'
	Meter        Unit = 'e'
	Foot         Unit = 'f'
	Kilometer    Unit = 'k'
	StatuteMile  Unit = 'M'
	NauticalMile Unit = 'n'
	SurveyFoot   Unit = 'u'
)

// EarthRadiusKm is the mean Earth radius used for all distance conversions.
const EarthRadiusKm = 6371.0087714

// KmPerDegree is the length of one degree of arc on the mean sphere.
const KmPerDegree = EarthRadiusKm * math.Pi / 180

type unitInfo struct {
	name       string
	class      Class
	multiplier float64 // one user unit in inches (Plot) or km (Distance)
}

var table = map[Unit]unitInfo{
	Centimeter:   {"centimeter", Plot, 1 / 2.54},
	Inch:         {"inch", Plot, 1},
	Point:        {"point", Plot, 1.0 / 72},
	Degree:       {"arc degree", Distance, KmPerDegree},
	Minute:       {"arc minute", Distance, KmPerDegree / 60},
	Second:       {"arc second", Distance, KmPerDegree / 3600},
	Meter:        {"meter", Distance, 0.001},
	Foot:         {"foot", Distance, 0.0003048},
	Kilometer:    {"kilometer", Distance, 1},
	StatuteMile:  {"statute mile", Distance, 1.609344},
	NauticalMile: {"nautical mile", Distance, 1.852},
	SurveyFoot:   {"US survey foot", Distance, 1200.0 / 3937 / 1000},
}

// Lookup returns the unit for symbol r and whether it is recognized.
func Lookup(r byte) (Unit, bool) {
	u := Unit(r)
	_, ok := table[u]
	return u, ok
}

// All returns every recognized unit in a stable order (plot units first).
func All() []Unit {
	out := make([]Unit, 0, len(table))
	for u := range table {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b Unit) int {
		if ca, cb := a.Class(), b.Class(); ca != cb {
			return int(ca) - int(cb)
		}
		return int(a) - int(b)
	})
	return out
}

// Class returns the unit class. Unknown units report Plot.
func (u Unit) Class() Class { return table[u].class }

// Multiplier converts one u into inches (plot units) or km (distance units).
func (u Unit) Multiplier() float64 { return table[u].multiplier }

// Name is the human-readable unit name.
func (u Unit) Name() string {
	if info, ok := table[u]; ok {
		return info.name
	}
	return fmt.Sprintf("unknown(%c)", byte(u))
}

// String returns the unit symbol.
func (u Unit) String() string { return string(rune(u)) }

// IsPlot reports whether u measures page lengths.
func (u Unit) IsPlot() bool { return u.Class() == Plot }

// ToInternal converts v user units to inches or km.
func (u Unit) ToInternal(v float64) float64 { return v * u.Multiplier() }

// FromInternal converts v inches or km back to user units.
func (u Unit) FromInternal(v float64) float64 { return v / u.Multiplier() }

// InternalName names the internal unit of u's class.
func (u Unit) InternalName() string {
	if u.IsPlot() {
		return "inch"
	}
	return "km"
}
