package sink

import (
	"encoding/json"

	"github.com/matzehuels/quiver/pkg/canvas"
	"github.com/matzehuels/quiver/pkg/vector"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	result *vector.Result
	id     string
}

// WithJSONResult includes the render mode, statistics and legend.
func WithJSONResult(res *vector.Result) JSONOption {
	return func(r *jsonRenderer) { r.result = res }
}

// WithJSONID records a render ID.
func WithJSONID(id string) JSONOption { return func(r *jsonRenderer) { r.id = id } }

type jsonOutput struct {
	ID       string         `json:"id,omitempty"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Mode     string         `json:"mode,omitempty"`
	Stats    *vector.Report `json:"stats,omitempty"`
	Legend   *vector.Legend `json:"legend,omitempty"`
	Requests []jsonRequest  `json:"requests"`
}

type jsonRequest struct {
	Kind   string       `json:"kind"`
	Points [][2]float64 `json:"points"`
	Text   string       `json:"text,omitempty"`
	Size   float64      `json:"size,omitempty"`
	Vector *jsonVector  `json:"vector,omitempty"`
	Pen    jsonPen      `json:"pen"`
	Fill   string       `json:"fill,omitempty"`
}

type jsonPen struct {
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

type jsonVector struct {
	ShaftWidth  float64 `json:"shaft_width"`
	HeadLength  float64 `json:"head_length"`
	HeadWidth   float64 `json:"head_width"`
	PenWidth    float64 `json:"pen_width"`
	Heads       string  `json:"heads"`
	Shape       float64 `json:"shape"`
	Outline     bool    `json:"outline,omitempty"`
	Legacy      bool    `json:"legacy,omitempty"`
	OutlineCode int     `json:"outline_code,omitempty"`
}

// RenderJSON exports the drawing as JSON, requests in emission order.
func RenderJSON(d canvas.Drawing, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		ID:       r.id,
		Width:    d.Width,
		Height:   d.Height,
		Requests: make([]jsonRequest, len(d.Requests)),
	}
	if r.result != nil {
		out.Mode = r.result.Mode.String()
		report := r.result.Report
		out.Stats = &report
		out.Legend = r.result.Legend
	}
	for i, req := range d.Requests {
		jr := jsonRequest{
			Kind:   string(req.Kind),
			Points: make([][2]float64, len(req.Points)),
			Text:   req.Text,
			Size:   req.Size,
			Pen:    jsonPen{Width: req.Style.Pen.Width, Color: req.Style.Pen.Color.Hex()},
		}
		for j, pt := range req.Points {
			jr.Points[j] = [2]float64{pt.X, pt.Y}
		}
		if req.Style.Filled {
			jr.Fill = req.Style.Fill.Hex()
		}
		if v := req.Vector; v != nil {
			jr.Vector = &jsonVector{
				ShaftWidth:  v.ShaftWidth,
				HeadLength:  v.HeadLength,
				HeadWidth:   v.HeadWidth,
				PenWidth:    v.PenWidth,
				Heads:       v.Heads.String(),
				Shape:       v.Shape,
				Outline:     v.Outline,
				Legacy:      v.Legacy,
				OutlineCode: v.OutlineCode,
			}
		}
		out.Requests[i] = jr
	}
	return json.MarshalIndent(out, "", "  ")
}
