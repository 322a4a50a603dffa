package sink

import (
	"context"
	"strings"

	"github.com/matzehuels/quiver/pkg/canvas"
	"github.com/matzehuels/quiver/pkg/errors"
	"github.com/matzehuels/quiver/pkg/vector"
)

// Format is an output format name.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// Formats lists the supported formats.
var Formats = []Format{FormatSVG, FormatJSON, FormatPDF}

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatSVG, FormatJSON, FormatPDF:
		return f, nil
	case "png":
		return "", errors.New(errors.ErrCodeUnsupported, "raster output is not supported; use svg or pdf")
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (valid: svg, json, pdf)", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	}
	return "image/svg+xml"
}

// Artifact bundles what the sinks need besides the drawing.
type Artifact struct {
	Drawing canvas.Drawing
	Result  *vector.Result
	ID      string
	Title   string
	Margin  float64
	Frame   bool
}

// Render writes the artifact in format f.
func Render(ctx context.Context, f Format, a Artifact) ([]byte, error) {
	svgOpts := []SVGOption{WithMargin(a.Margin)}
	if a.Frame {
		svgOpts = append(svgOpts, WithFrame())
	}
	if a.Title != "" {
		svgOpts = append(svgOpts, WithTitle(a.Title))
	}
	switch f {
	case FormatSVG:
		return RenderSVG(a.Drawing, svgOpts...), nil
	case FormatJSON:
		return RenderJSON(a.Drawing, WithJSONResult(a.Result), WithJSONID(a.ID))
	case FormatPDF:
		return RenderPDF(ctx, a.Drawing, WithPDFSVGOptions(svgOpts...))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", string(f))
}
