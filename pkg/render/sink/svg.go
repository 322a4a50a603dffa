package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/matzehuels/quiver/pkg/canvas"
)

// ptPerInch is the SVG user-unit scale.
const ptPerInch = 72.0

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	margin     float64 // inches
	frame      bool
	background *canvas.Color
	title      string
}

// WithMargin sets the blank border around the map frame, in inches.
func WithMargin(in float64) SVGOption { return func(r *svgRenderer) { r.margin = in } }

// WithFrame draws the map frame outline.
func WithFrame() SVGOption { return func(r *svgRenderer) { r.frame = true } }

// WithBackground fills the page with c.
func WithBackground(c canvas.Color) SVGOption {
	return func(r *svgRenderer) { r.background = &c }
}

// WithTitle adds a <title> element.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

// RenderSVG renders the drawing as a standalone SVG document.
func RenderSVG(d canvas.Drawing, opts ...SVGOption) []byte {
	r := svgRenderer{margin: 0.25}
	for _, opt := range opts {
		opt(&r)
	}

	w := (d.Width + 2*r.margin) * ptPerInch
	h := (d.Height + 2*r.margin) * ptPerInch

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.2fpt" height="%.2fpt">`+"\n",
		w, h, w, h)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}
	if r.background != nil {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background.Hex())
	}

	p := r.projector(d.Height)
	if r.frame {
		x, y := p(canvas.Point{X: 0, Y: d.Height})
		fmt.Fprintf(&buf, `  <rect class="frame" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#000000" stroke-width="1"/>`+"\n",
			x, y, d.Width*ptPerInch, d.Height*ptPerInch)
	}

	buf.WriteString(`  <g class="vectors" stroke-linejoin="round">` + "\n")
	for _, req := range d.Requests {
		switch req.Kind {
		case canvas.KindSegment:
			writeLine(&buf, p, req.Points[0], req.Points[1], req.Style.Pen)
		case canvas.KindPolyline:
			writePolyline(&buf, p, req.Points, req.Style.Pen)
		case canvas.KindVector:
			writeVector(&buf, p, *req.Vector, req.Style)
		case canvas.KindLabel:
			x, y := p(req.Points[0])
			fmt.Fprintf(&buf, `    <text x="%.2f" y="%.2f" font-family="Helvetica, Arial, sans-serif" font-size="%.1f" fill="%s">%s</text>`+"\n",
				x, y, req.Size, req.Style.Fill.Hex(), html.EscapeString(req.Text))
		}
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

// projector maps plot inches to SVG points, flipping y.
func (r svgRenderer) projector(height float64) func(canvas.Point) (float64, float64) {
	return func(pt canvas.Point) (float64, float64) {
		return (pt.X + r.margin) * ptPerInch, (height - pt.Y + r.margin) * ptPerInch
	}
}

type projectFunc = func(canvas.Point) (float64, float64)

func writeLine(buf *bytes.Buffer, p projectFunc, a, b canvas.Point, pen canvas.Pen) {
	x1, y1 := p(a)
	x2, y2 := p(b)
	fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f" stroke-linecap="round"/>`+"\n",
		x1, y1, x2, y2, pen.Color.Hex(), pen.Width)
}

func writePolyline(buf *bytes.Buffer, p projectFunc, pts []canvas.Point, pen canvas.Pen) {
	fmt.Fprintf(buf, `    <polyline points="%s" fill="none" stroke="%s" stroke-width="%.2f" stroke-linecap="round"/>`+"\n",
		pointList(p, pts), pen.Color.Hex(), pen.Width)
}

func writePolygon(buf *bytes.Buffer, p projectFunc, pts []canvas.Point, fill, stroke string, width float64) {
	fmt.Fprintf(buf, `    <polygon points="%s" fill="%s" stroke="%s" stroke-width="%.2f"/>`+"\n",
		pointList(p, pts), fill, stroke, width)
}

func pointList(p projectFunc, pts []canvas.Point) string {
	parts := make([]string, len(pts))
	for i, pt := range pts {
		x, y := p(pt)
		parts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
	}
	return strings.Join(parts, " ")
}

// writeVector draws a shaft and its heads. Modern heads are a stroked shaft
// plus notched head polygons; legacy heads are one filled arrow outline.
func writeVector(buf *bytes.Buffer, p projectFunc, v canvas.Vector, st canvas.Style) {
	d := v.Tip.Sub(v.Origin)
	length := math.Hypot(d.X, d.Y)
	if length == 0 {
		return
	}
	dir := d.Scale(1 / length)
	perp := canvas.Point{X: -dir.Y, Y: dir.X}

	fill := "none"
	if st.Filled {
		fill = st.Fill.Hex()
	}
	atEnd := v.Heads == canvas.HeadEnd || v.Heads == canvas.HeadBoth
	atBegin := v.Heads == canvas.HeadBegin || v.Heads == canvas.HeadBoth

	if v.Legacy {
		stroke, width := "none", 0.0
		if v.OutlineCode&1 == 1 {
			stroke, width = st.Pen.Color.Hex(), v.PenWidth
		}
		writePolygon(buf, p, legacyArrow(v, dir, perp, length, atBegin, atEnd), fill, stroke, width)
		return
	}

	// Shaft ends where the head notch starts.
	inset := v.HeadLength * (1 - 0.5*v.Shape)
	start, end := v.Origin, v.Tip
	if atBegin {
		start = start.Add(dir.Scale(inset))
	}
	if atEnd {
		end = end.Sub(dir.Scale(inset))
	}
	shaftColor := st.Pen.Color
	if st.Filled {
		shaftColor = st.Fill
	}
	writeLine(buf, p, start, end, canvas.Pen{Width: math.Max(v.ShaftWidth*ptPerInch, st.Pen.Width), Color: shaftColor})

	stroke, width := "none", 0.0
	if v.Outline {
		stroke, width = st.Pen.Color.Hex(), v.PenWidth
	}
	if atEnd {
		writePolygon(buf, p, headPolygon(v.Tip, dir, perp, v), fill, stroke, width)
	}
	if atBegin {
		writePolygon(buf, p, headPolygon(v.Origin, dir.Scale(-1), perp.Scale(-1), v), fill, stroke, width)
	}
}

// headPolygon is a head with its point at tip and pointing along dir.
func headPolygon(tip, dir, perp canvas.Point, v canvas.Vector) []canvas.Point {
	base := tip.Sub(dir.Scale(v.HeadLength))
	notch := tip.Sub(dir.Scale(v.HeadLength * (1 - 0.5*v.Shape)))
	half := perp.Scale(v.HeadWidth / 2)
	return []canvas.Point{tip, base.Add(half), notch, base.Sub(half)}
}

// legacyArrow outlines shaft and heads as one polygon.
func legacyArrow(v canvas.Vector, dir, perp canvas.Point, length float64, atBegin, atEnd bool) []canvas.Point {
	hl := math.Min(v.HeadLength, length/2)
	shaft := perp.Scale(v.ShaftWidth / 2)
	head := perp.Scale(v.HeadWidth / 2)

	b0, b1 := v.Origin, v.Tip
	if atBegin {
		b0 = v.Origin.Add(dir.Scale(hl))
	}
	if atEnd {
		b1 = v.Tip.Sub(dir.Scale(hl))
	}

	pts := []canvas.Point{b0.Add(shaft), b1.Add(shaft)}
	if atEnd {
		pts = append(pts, b1.Add(head), v.Tip, b1.Sub(head))
	}
	pts = append(pts, b1.Sub(shaft), b0.Sub(shaft))
	if atBegin {
		pts = append(pts, b0.Sub(head), v.Origin, b0.Add(head))
	}
	return pts
}
