package grid

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/quiver/pkg/errors"
)

type jsonHeader struct {
	West         float64 `json:"west"`
	East         float64 `json:"east"`
	South        float64 `json:"south"`
	North        float64 `json:"north"`
	Registration string  `json:"registration,omitempty"`
	Geographic   bool    `json:"geographic,omitempty"`
}

type jsonGrid struct {
	Header jsonHeader   `json:"header"`
	Z      [][]*float64 `json:"z"`
}

// ReadJSON decodes a grid from r.
//
// The input is a JSON object with a header and rows of values ordered north
// to south; null marks no-data:
//
//	{
//	  "header": {"west": 0, "east": 10, "south": 0, "north": 5, "geographic": true},
//	  "z": [[1, 2, null], [3, 4, 5]]
//	}
//
// registration is "gridline" (default) or "pixel". ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Grid, error) {
	var data jsonGrid
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGrid, err, "decode grid")
	}

	h := Header{
		West: data.Header.West, East: data.Header.East,
		South: data.Header.South, North: data.Header.North,
		Geographic: data.Header.Geographic,
	}
	switch data.Header.Registration {
	case "", "gridline", "g":
		h.Registration = Gridline
	case "pixel", "p":
		h.Registration = Pixel
	default:
		return nil, errors.New(errors.ErrCodeInvalidGrid, "unknown registration %q", data.Header.Registration)
	}

	rows := make([][]float64, len(data.Z))
	for i, row := range data.Z {
		rows[i] = make([]float64, len(row))
		for j, v := range row {
			if v == nil {
				rows[i][j] = NoData
			} else {
				rows[i][j] = *v
			}
		}
	}
	return FromRows(h, rows)
}

// ImportJSON reads a grid file at path.
func ImportJSON(path string) (*Grid, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "grid %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteJSON encodes s in the format read by [ReadJSON].
func WriteJSON(s Store, w io.Writer) error {
	h := s.Header()
	out := jsonGrid{
		Header: jsonHeader{
			West: h.West, East: h.East, South: h.South, North: h.North,
			Registration: h.Registration.String(),
			Geographic:   h.Geographic,
		},
		Z: make([][]*float64, h.NY),
	}
	for r := 0; r < h.NY; r++ {
		out.Z[r] = make([]*float64, h.NX)
		for c := 0; c < h.NX; c++ {
			if v := s.Value(r, c); !IsNoData(v) {
				out.Z[r][c] = &v
			}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode grid: %w", err)
	}
	return nil
}
