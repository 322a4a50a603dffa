// Package sink provides output format renderers for vector-field drawings.
//
// A "sink" transforms a recorded [canvas.Drawing] into a final output
// format:
//
//   - SVG: [RenderSVG], written directly
//   - JSON: [RenderJSON], the ordered draw requests plus render statistics
//   - PDF: [RenderPDF], SVG converted with rsvg-convert
//
// Drawings are in plot inches with the origin at the lower-left corner;
// the SVG sink scales to points (72 per inch) and flips the y axis.
//
//	svg := sink.RenderSVG(rec.Drawing(), sink.WithMargin(0.5), sink.WithFrame())
//
// [canvas.Drawing]: github.com/matzehuels/quiver/pkg/canvas.Drawing
package sink
