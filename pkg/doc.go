// Package pkg provides the core libraries for quiver vector-field rendering.
//
// # Overview
//
// Quiver draws a vector glyph at every node of a pair of component grids.
// Lengths come from a scale with a length unit: plot units (c, i, p) give
// straight arrows, distance units (d, m, s, e, f, k, M, n, u) give
// great-circle geovectors on geographic grids.
//
// The typical data flow:
//
//	Component grids (x/y or r/theta)
//	         ↓
//	    [grid] package (load, validate, share a header)
//	         ↓
//	    [vector] package (scale, project, build glyphs)
//	         ↓
//	    [canvas] package (recorded draw requests)
//	         ↓
//	    [render/sink] package (SVG/JSON/PDF output)
//
// # Quick Start
//
// Render two grids through the pipeline:
//
//	x, _ := grid.ImportJSON("u.json")
//	y, _ := grid.ImportJSON("v.json")
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(ctx, x, y, pipeline.Options{
//	    Scale:   "10i",
//	    Formats: []string{"svg"},
//	    Legend:  true,
//	})
//	os.WriteFile("wind.svg", res.Artifacts["svg"], 0o644)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [units] - Length units and scale strings ("10i", "250k", "1/2c").
//
// [grid] - Regular 2D grids with a shared header, NaN as no-data.
//
// [proj] - Data to plot coordinate projections (linear, Mercator,
// equirectangular, polar) with local scale factors.
//
// [vector] - The renderer: mode selection, glyph geometry, head capping,
// coloring and the legend reference vector.
//
// [palette] - Color tables and built-in palettes for magnitude coloring.
//
// [canvas] - Draw requests (polygons, polylines, labels) and a recorder.
//
// ## Output
//
// [render/sink] - SVG, JSON and PDF writers over a recorded drawing.
//
// [render] - External SVG to PDF conversion.
//
// ## Infrastructure
//
// [pipeline] - Validates options, renders and caches artifacts. Used by the
// CLI and the HTTP server.
//
// [cache] - File, Redis and null artifact caches with deterministic keys.
//
// [config] - TOML config file with environment overrides.
//
// [observability] - Render, cache and server hooks with Prometheus metrics.
//
// [errors] - Error codes shared by every package.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/vector/...   # Specific package
//
// [units]: https://pkg.go.dev/github.com/matzehuels/quiver/pkg/units
// [grid]: https://pkg.go.dev/github.com/matzehuels/quiver/pkg/grid
// [proj]: https://pkg.go.dev/github.com/matzehuels/quiver/pkg/proj
// [vector]: https://pkg.go.dev/github.com/matzehuels/quiver/pkg/vector
// [palette]: https://pkg.go.dev/github.com/matzehuels/quiver/pkg/palette
// [canvas]: https://pkg.go.dev/github.com/matzehuels/quiver/pkg/canvas
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/quiver/pkg/render/sink
// [render]: https://pkg.go.dev/github.com/matzehuels/quiver/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/quiver/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/quiver/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/quiver/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/quiver/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/quiver/pkg/errors
package pkg
