// Package render turns recorded vector-field drawings into output files.
//
// # Overview
//
// The vector engine in pkg/vector emits draw requests to a
// [canvas.Recorder]. The [sink] subpackage serializes the recorded
// [canvas.Drawing]:
//
//   - SVG: written directly, one SVG point per typographic point
//   - JSON: the ordered draw requests, for external renderers and tests
//   - PDF: SVG converted through rsvg-convert
//
// # Format Conversion
//
// [ToPDF] converts any SVG to PDF using the external rsvg-convert tool
// (from librsvg):
//
//	svg := sink.RenderSVG(rec.Drawing())
//	pdf, err := render.ToPDF(ctx, svg)
//
// [canvas.Recorder]: github.com/matzehuels/quiver/pkg/canvas.Recorder
// [canvas.Drawing]: github.com/matzehuels/quiver/pkg/canvas.Drawing
// [sink]: github.com/matzehuels/quiver/pkg/render/sink
package render
