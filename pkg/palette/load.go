package palette

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/quiver/pkg/canvas"
	"github.com/matzehuels/quiver/pkg/errors"
)

// File is the TOML document holding palette definitions.
type File struct {
	Palettes []Def `toml:"palette"`
}

// Def is one palette as written in TOML.
type Def struct {
	Name  string    `toml:"name"`
	Below string    `toml:"below"`
	Above string    `toml:"above"`
	NaN   string    `toml:"nan"`
	Stops []StopDef `toml:"stops"`
}

// StopDef is one stop as written in TOML.
type StopDef struct {
	Z     float64 `toml:"z"`
	Color string  `toml:"color"`
}

// Decode parses TOML palette definitions.
func Decode(data string) (map[string]*Table, error) {
	var f File
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPalette, err, "decode palettes")
	}
	return Build(f.Palettes)
}

// Load reads palette definitions from a TOML file.
func Load(path string) (map[string]*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read palettes %s: %w", path, err)
	}
	return Decode(string(data))
}

// Build turns definitions into tables keyed by name.
func Build(defs []Def) (map[string]*Table, error) {
	out := make(map[string]*Table, len(defs))
	for _, d := range defs {
		if err := errors.ValidatePaletteName(d.Name); err != nil {
			return nil, err
		}
		if _, dup := out[d.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidPalette, "duplicate palette %q", d.Name)
		}
		t, err := d.Table()
		if err != nil {
			return nil, err
		}
		out[d.Name] = t
	}
	return out, nil
}

// Table converts a definition into a Table.
func (d Def) Table() (*Table, error) {
	stops := make([]Stop, len(d.Stops))
	for i, s := range d.Stops {
		c, err := ParseColor(s.Color)
		if err != nil {
			return nil, fmt.Errorf("palette %s stop %d: %w", d.Name, i, err)
		}
		stops[i] = Stop{Z: s.Z, Color: c}
	}
	t, err := New(d.Name, stops)
	if err != nil {
		return nil, err
	}
	for _, o := range []struct {
		src string
		dst *canvas.Color
	}{{d.Below, &t.Below}, {d.Above, &t.Above}, {d.NaN, &t.NaN}} {
		if o.src == "" {
			continue
		}
		c, err := ParseColor(o.src)
		if err != nil {
			return nil, fmt.Errorf("palette %s: %w", d.Name, err)
		}
		*o.dst = c
	}
	return t, nil
}
