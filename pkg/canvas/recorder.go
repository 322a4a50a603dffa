package canvas

import "slices"

// Kind identifies a draw request type.
type Kind string

const (
	KindSegment  Kind = "segment"
	KindVector   Kind = "vector"
	KindPolyline Kind = "polyline"
	KindLabel    Kind = "label"
)

// Request is one recorded draw call.
type Request struct {
	Kind   Kind
	Points []Point
	Vector *Vector
	Text   string
	Size   float64
	Style  Style
}

// Drawing is a sized, ordered list of draw requests.
type Drawing struct {
	Width, Height float64
	Requests      []Request
}

// Recorder is a Canvas that keeps every request in emission order.
// It is not safe for concurrent use.
type Recorder struct {
	Width, Height float64
	requests      []Request
}

// NewRecorder returns an empty recorder for a width x height inch frame.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) Segment(p0, p1 Point, st Style) {
	r.requests = append(r.requests, Request{Kind: KindSegment, Points: []Point{p0, p1}, Style: st})
}

func (r *Recorder) Vector(v Vector, st Style) {
	r.requests = append(r.requests, Request{Kind: KindVector, Points: []Point{v.Origin, v.Tip}, Vector: &v, Style: st})
}

func (r *Recorder) Polyline(pts []Point, st Style) {
	r.requests = append(r.requests, Request{Kind: KindPolyline, Points: slices.Clone(pts), Style: st})
}

func (r *Recorder) Label(at Point, text string, size float64, st Style) {
	r.requests = append(r.requests, Request{Kind: KindLabel, Points: []Point{at}, Text: text, Size: size, Style: st})
}

// Len returns the number of recorded requests.
func (r *Recorder) Len() int { return len(r.requests) }

// Requests returns the recorded requests. The slice must not be modified.
func (r *Recorder) Requests() []Request { return r.requests }

// Drawing returns the recorded requests with the frame size.
func (r *Recorder) Drawing() Drawing {
	return Drawing{Width: r.Width, Height: r.Height, Requests: r.requests}
}

// Count returns how many requests of kind k were recorded.
func (r *Recorder) Count(k Kind) int {
	n := 0
	for _, req := range r.requests {
		if req.Kind == k {
			n++
		}
	}
	return n
}

var _ Canvas = (*Recorder)(nil)
