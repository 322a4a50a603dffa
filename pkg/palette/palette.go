// Package palette maps data values to colors.
//
// A Table is a list of color stops; values between stops are linearly
// interpolated, values outside the table get the Below/Above colors.
// Tables come from TOML files or from the built-ins ("gray", "rainbow"),
// which are defined on 0..1 and are normally stretched to the data range:
//
//	[[palette]]
//	name = "wind"
//	below = "#ffffff"
//	stops = [
//	  { z = 0,  color = "#2c7bb6" },
//	  { z = 10, color = "#ffffbf" },
//	  { z = 25, color = "#d7191c" },
//	]
package palette

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/quiver/pkg/canvas"
	"github.com/matzehuels/quiver/pkg/errors"
)

// Palette looks up the color for a value.
type Palette interface {
	ColorFor(v float64) canvas.Color
}

// Stop is one color stop.
type Stop struct {
	Z     float64
	Color canvas.Color
}

// Table is a continuous color table.
type Table struct {
	Name  string
	Stops []Stop // sorted by Z

	Below, Above, NaN canvas.Color
}

// New builds a table from stops, sorting them by value. Below and Above
// default to the end colors.
func New(name string, stops []Stop) (*Table, error) {
	if len(stops) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidPalette, "palette %q needs at least two stops", name)
	}
	s := slices.Clone(stops)
	slices.SortStableFunc(s, func(a, b Stop) int {
		switch {
		case a.Z < b.Z:
			return -1
		case a.Z > b.Z:
			return 1
		}
		return 0
	})
	if s[0].Z == s[len(s)-1].Z {
		return nil, errors.New(errors.ErrCodeInvalidPalette, "palette %q has an empty range", name)
	}
	return &Table{
		Name:  name,
		Stops: s,
		Below: s[0].Color,
		Above: s[len(s)-1].Color,
		NaN:   canvas.Color{R: 128, G: 128, B: 128},
	}, nil
}

// Range returns the lowest and highest stop values.
func (t *Table) Range() (lo, hi float64) {
	return t.Stops[0].Z, t.Stops[len(t.Stops)-1].Z
}

// ColorFor returns the interpolated color for v.
func (t *Table) ColorFor(v float64) canvas.Color {
	if math.IsNaN(v) {
		return t.NaN
	}
	lo, hi := t.Range()
	if v < lo {
		return t.Below
	}
	if v > hi {
		return t.Above
	}
	i, _ := slices.BinarySearchFunc(t.Stops, v, func(s Stop, v float64) int {
		switch {
		case s.Z < v:
			return -1
		case s.Z > v:
			return 1
		}
		return 0
	})
	if i == 0 {
		return t.Stops[0].Color
	}
	a, b := t.Stops[i-1], t.Stops[i]
	if b.Z == a.Z {
		return b.Color
	}
	return lerp(a.Color, b.Color, (v-a.Z)/(b.Z-a.Z))
}

// Stretch returns a copy of t rescaled so its stops span lo..hi.
func (t *Table) Stretch(lo, hi float64) *Table {
	out := *t
	out.Stops = make([]Stop, len(t.Stops))
	tlo, thi := t.Range()
	for i, s := range t.Stops {
		f := (s.Z - tlo) / (thi - tlo)
		out.Stops[i] = Stop{Z: lo + f*(hi-lo), Color: s.Color}
	}
	return &out
}

func lerp(a, b canvas.Color, f float64) canvas.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + f*(float64(y)-float64(x))))
	}
	return canvas.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B)}
}

// ParseColor reads "#rrggbb", "#rgb", "r/g/b" or a few color names.
func ParseColor(s string) (canvas.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := named[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) == 6 {
			if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
				return canvas.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
			}
		}
		return canvas.Color{}, errors.New(errors.ErrCodeInvalidPalette, "invalid color %q", s)
	}
	if parts := strings.Split(s, "/"); len(parts) == 3 {
		var rgb [3]uint8
		for i, p := range parts {
			v, err := strconv.ParseUint(p, 10, 8)
			if err != nil {
				return canvas.Color{}, errors.Wrap(errors.ErrCodeInvalidPalette, err, "invalid color %q", s)
			}
			rgb[i] = uint8(v)
		}
		return canvas.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
	}
	return canvas.Color{}, errors.New(errors.ErrCodeInvalidPalette, "invalid color %q", s)
}

var named = map[string]canvas.Color{
	"black": canvas.Black,
	"white": canvas.White,
	"red":   {R: 255},
	"green": {G: 255},
	"blue":  {B: 255},
	"gray":  {R: 128, G: 128, B: 128},
	"grey":  {R: 128, G: 128, B: 128},
}

// Builtin returns a built-in table defined on 0..1.
func Builtin(name string) (*Table, error) {
	stops, ok := builtins[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidPalette, "unknown palette %q", name)
	}
	return New(name, stops)
}

// BuiltinNames lists the built-in palettes.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

var builtins = map[string][]Stop{
	"gray": {
		{0, canvas.Color{R: 20, G: 20, B: 20}},
		{1, canvas.Color{R: 235, G: 235, B: 235}},
	},
	"rainbow": {
		{0, canvas.Color{R: 110, G: 64, B: 170}},
		{0.25, canvas.Color{R: 26, G: 152, B: 255}},
		{0.5, canvas.Color{R: 26, G: 199, B: 100}},
		{0.75, canvas.Color{R: 255, G: 200, B: 0}},
		{1, canvas.Color{R: 230, G: 40, B: 40}},
	},
}

func (t *Table) String() string {
	lo, hi := t.Range()
	return fmt.Sprintf("%s[%g..%g, %d stops]", t.Name, lo, hi, len(t.Stops))
}

var _ Palette = (*Table)(nil)
