// Package vector renders a gridded vector field as scaled vector glyphs.
//
// A [Field] pairs two co-registered grids holding either Cartesian (dx, dy)
// or polar (r, theta) components. [Render] walks the field at a stride,
// turns every usable node into a magnitude and a compass azimuth
// ([EvalNode]), and hands it to a [Builder] that emits draw requests to a
// [canvas.Canvas]:
//
//   - with a plot-length scale unit (c, i, p) vectors are straight glyphs in
//     plot space, rotated into the local map frame
//   - with a distance unit (k, d, n, ...) vectors are geovectors, drawn as
//     great-circle arcs whose length is an earth distance
//
// Everything that can be wrong with the inputs (mismatched grids, zero
// scale, conflicting options) is reported by [Config.Validate] before any
// drawing happens. Per-node problems never abort a render; they are counted
// in [Stats] together with the glyph warnings of the geovector path.
//
// # Example
//
//	scale, _ := units.Resolve("2c", units.ResolveOptions{})
//	cfg := vector.Config{
//		Scale:      scale,
//		Glyph:      vector.DefaultGlyph(),
//		Projection: p,
//	}
//	rec := canvas.NewRecorder(p.Size())
//	res, err := vector.Render(vector.Field{X: u, Y: v}, cfg, rec)
package vector
