package units

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/quiver/pkg/errors"
)

// DefaultUnit is used when a scale string carries no unit symbol.
const DefaultUnit = Centimeter

// ResolveOptions controls how a scale string is interpreted.
type ResolveOptions struct {
	// Invert means the number is already "length units per data unit"
	// instead of "data units per length unit".
	Invert bool

	// Constant means the number is a fixed glyph length; magnitudes are
	// ignored when drawing.
	Constant bool

	// Reference overrides the legend reference value (data units) when > 0.
	Reference float64

	// DefaultUnit applies when the string has no unit symbol. Zero means
	// DefaultUnit.
	DefaultUnit Unit
}

// Scale is a resolved vector scale.
type Scale struct {
	// Factor is inches per data unit (plot units) or km per data unit
	// (distance units). In constant mode it is the fixed glyph length.
	Factor float64

	Unit     Unit
	Constant bool
	Invert   bool

	// Reference is the data magnitude drawn by the legend reference vector.
	Reference float64

	// Raw is the number as written by the user.
	Raw float64
}

// Resolve parses raw ("10", "0.5i", "250k") into a Scale.
//
// Without Invert the number is "data units per length unit", so a 10k scale
// draws a magnitude of 10 as a 1 km vector (Factor 0.1). With Invert the
// number is taken as-is. The legend reference defaults to the magnitude that
// is drawn as one unit long, which in constant mode is the constant length
// itself unless opts.Reference overrides it.
func Resolve(raw string, opts ResolveOptions) (Scale, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Scale{}, errors.New(errors.ErrCodeInvalidScale, "scale cannot be empty")
	}

	unit := opts.DefaultUnit
	if unit == 0 {
		unit = DefaultUnit
	}
	number := raw
	if last := raw[len(raw)-1]; !isNumeric(last) {
		u, ok := Lookup(last)
		if !ok {
			return Scale{}, errors.New(errors.ErrCodeInvalidUnit,
				"unrecognized unit %q in scale %q (valid: %s)", string(last), raw, symbols())
		}
		unit = u
		number = raw[:len(raw)-1]
	}

	v, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return Scale{}, errors.Wrap(errors.ErrCodeInvalidScale, err, "invalid scale %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Scale{}, errors.New(errors.ErrCodeInvalidScale, "scale %q is not finite", raw)
	}

	s := Scale{Unit: unit, Constant: opts.Constant, Invert: opts.Invert, Raw: v}

	switch {
	case opts.Constant:
		if v <= 0 {
			return Scale{}, errors.New(errors.ErrCodeNonPositiveScale,
				"constant vector length must be positive (got %g)", v)
		}
		s.Factor = unit.ToInternal(v)
		s.Reference = v
	default:
		if v == 0 {
			return Scale{}, errors.New(errors.ErrCodeNonPositiveScale, "scale cannot be zero")
		}
		userFactor := 1 / v
		if opts.Invert {
			userFactor = v
		}
		s.Factor = unit.ToInternal(userFactor)
		s.Reference = 1 / userFactor
	}

	if opts.Reference > 0 {
		s.Reference = opts.Reference
	}
	return s, nil
}

// Geographic reports whether vectors at this scale are drawn as great-circle
// geovectors, i.e. whether a distance unit was chosen.
func (s Scale) Geographic() bool { return !s.Unit.IsPlot() }

// Length returns the internal glyph length for a vector of magnitude mag.
func (s Scale) Length(mag float64) float64 {
	if s.Constant {
		return s.Factor
	}
	return mag * s.Factor
}

// ToUser converts an internal length (inches or km) to the user's unit.
// Geographic scales report kilometers, plot scales the chosen plot unit.
func (s Scale) ToUser(v float64) float64 {
	if s.Geographic() {
		return v
	}
	return s.Unit.FromInternal(v)
}

// UserUnitName names the unit ToUser reports in.
func (s Scale) UserUnitName() string {
	if s.Geographic() {
		return Kilometer.Name()
	}
	return s.Unit.Name()
}

// FactorFromReference re-derives Factor from the reference value. It is the
// inverse of the default reference computation for non-constant scales.
func (s Scale) FactorFromReference() float64 {
	return s.Unit.ToInternal(1 / s.Reference)
}

func isNumeric(c byte) bool {
	return (c >= '0' && c <= '9') || c == '.'
}

func symbols() string {
	var b strings.Builder
	for _, u := range All() {
		b.WriteByte(byte(u))
	}
	return b.String()
}
