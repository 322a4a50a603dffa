package proj

import (
	"strings"

	"github.com/matzehuels/quiver/pkg/errors"
	"github.com/matzehuels/quiver/pkg/units"
)

// Kind identifies a projection family.
type Kind byte

// Projection families understood by [Parse].
const (
	KindLinear   Kind = 'X'
	KindMercator Kind = 'M'
	KindEquirect Kind = 'Q'
	KindPolar    Kind = 'P'
)

// Spec is a parsed projection string such as "M6i", "X6i/-4i" or "P10c".
type Spec struct {
	Kind   Kind
	Width  float64 // inches; negative flips the x axis (linear only)
	Height float64 // inches; linear only, zero keeps the aspect ratio
}

// Parse reads a projection string: a family letter followed by the frame
// width and, for linear projections, an optional /height. Lengths take a
// plot unit suffix (c, i, p); bare numbers are centimeters.
func Parse(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Spec{}, errors.New(errors.ErrCodeInvalidProjection, "invalid projection %q", s)
	}
	spec := Spec{Kind: Kind(s[0])}
	switch spec.Kind {
	case KindLinear, KindMercator, KindEquirect, KindPolar:
	default:
		return Spec{}, errors.New(errors.ErrCodeInvalidProjection,
			"unknown projection %q (valid: X, M, Q, P)", string(s[0]))
	}

	parts := strings.Split(s[1:], "/")
	if len(parts) > 2 || (len(parts) == 2 && spec.Kind != KindLinear) {
		return Spec{}, errors.New(errors.ErrCodeInvalidProjection, "invalid projection size in %q", s)
	}
	w, err := plotLength(parts[0])
	if err != nil {
		return Spec{}, err
	}
	spec.Width = w
	if len(parts) == 2 {
		if spec.Height, err = plotLength(parts[1]); err != nil {
			return Spec{}, err
		}
	}
	return spec, nil
}

func plotLength(s string) (float64, error) {
	neg := strings.HasPrefix(s, "-")
	sc, err := units.Resolve(strings.TrimPrefix(s, "-"), units.ResolveOptions{Constant: true})
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidProjection, err, "invalid map dimension %q", s)
	}
	if !sc.Unit.IsPlot() {
		return 0, errors.New(errors.ErrCodeInvalidProjection, "map dimension %q must use a plot unit", s)
	}
	if neg {
		return -sc.Factor, nil
	}
	return sc.Factor, nil
}

// New builds the projection described by spec over region. The geographic
// flag only matters for linear projections; Mercator and Equirect are always
// geographic and Polar never is.
func New(spec Spec, region Region, geographic bool) (Projection, error) {
	switch spec.Kind {
	case KindLinear:
		h := spec.Height
		if h == 0 {
			h = abs(spec.Width) * (region.North - region.South) / (region.East - region.West)
		}
		return NewLinear(region, spec.Width, h, geographic)
	case KindMercator:
		return NewMercator(region, spec.Width)
	case KindEquirect:
		return NewEquirect(region, spec.Width)
	case KindPolar:
		return NewPolarLinear(region, spec.Width)
	}
	return nil, errors.New(errors.ErrCodeInvalidProjection, "unknown projection kind %q", string(spec.Kind))
}
