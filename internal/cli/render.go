package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/quiver/pkg/errors"
	"github.com/matzehuels/quiver/pkg/grid"
	"github.com/matzehuels/quiver/pkg/pipeline"
	"github.com/matzehuels/quiver/pkg/proj"
)

// renderFlags holds values that need parsing before they become options.
type renderFlags struct {
	output       string
	formats      string
	region       string
	spacing      string
	legendOrigin string
	shape        float64
	margin       float64
	noCache      bool
	refresh      bool
}

// renderCommand creates the render command.
//
// Flags override the [render] table of the config file; unset flags keep the
// config value.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		fl   renderFlags
		opts pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render <x-grid> <y-grid>",
		Short: "Draw a vector field from two component grids",
		Long: `Draw a vector glyph at every node of two component grids.

The grids hold (dx, dy) components, or (r, theta) with --mode polar. Both
must cover the same region with the same spacing.

Examples:
  quiver render u.json v.json -s 10i -J X6i -o wind.svg
  quiver render east.json north.json -s 250k -J M6i --legend -f svg,pdf`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := c.config().RenderOptions()
			if err != nil {
				return err
			}
			if err := mergeRenderFlags(cmd, &base, opts, fl); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], args[1], base, fl)
		},
	}

	f := cmd.Flags()
	// Scale
	f.StringVarP(&opts.Scale, "scale", "s", "", "vector scale: data units per length unit, e.g. 10i, 2c, 250k")
	f.BoolVar(&opts.Invert, "invert", false, "read the scale as length units per data unit")
	f.BoolVar(&opts.Constant, "constant", false, "draw every vector with the scale as fixed length")
	f.Float64Var(&opts.Reference, "reference", 0, "magnitude of the legend reference vector")
	// Input
	f.StringVar(&opts.Mode, "mode", "", "component mode: cartesian (default), polar")
	f.BoolVar(&opts.AzimuthInput, "azimuth", false, "polar angles are azimuths (clockwise from north)")
	// Map
	f.StringVarP(&opts.Projection, "projection", "J", "", "projection: X<w>[/<h>], M<w>, Q<w>, P<w> (default "+pipeline.DefaultProjection+")")
	f.StringVarP(&fl.region, "region", "R", "", "map region west/east/south/north (default: grid region)")
	f.BoolVar(&opts.TransformAngles, "transform-angles", false, "correct Cartesian angles for unequal axis scales")
	f.BoolVar(&opts.NoClip, "no-clip", false, "draw vectors at nodes outside the region")
	f.StringVarP(&fl.spacing, "spacing", "I", "", "draw only every dx[/dy] data units; prefix x to count grid nodes")
	// Glyph
	f.StringVar(&opts.Head, "head", "", "head style: modern (default), legacy")
	f.StringVar(&opts.Heads, "heads", "", "heads on: end (default), begin, both, none")
	f.StringVar(&opts.HeadLength, "head-length", "", "head length, e.g. 0.2c")
	f.StringVar(&opts.HeadWidth, "head-width", "", "head half-width, e.g. 0.1c")
	f.StringVar(&opts.ShaftWidth, "shaft-width", "", "shaft width, e.g. 0.02i")
	f.Float64Var(&opts.PenWidth, "pen", 0, "outline pen width in points")
	f.StringVar(&opts.Justify, "justify", "", "node position on the glyph: b, c, e")
	f.Float64Var(&opts.NormCap, "norm-cap", 0, "shrink heads of vectors shorter than this magnitude")
	f.Float64Var(&fl.shape, "shape", pipeline.DefaultShape, "head notch, 0 (triangle) to 1 (arrow)")
	f.BoolVar(&opts.NoFill, "no-fill", false, "do not fill heads")
	f.BoolVar(&opts.NoOutline, "no-outline", false, "do not outline heads")
	f.StringVar(&opts.Color, "color", "", "glyph color: name, #rrggbb or r/g/b")
	// Color and legend
	f.StringVar(&opts.Palette, "palette", "", "palette name (built-in or from the config file)")
	f.StringVar(&opts.ColorBy, "color-by", "", "color glyphs by: none (default), magnitude")
	f.StringVar(&opts.ColorTarget, "color-target", "", "palette colors: fill (default), pen, both")
	f.BoolVar(&opts.Legend, "legend", false, "draw a reference vector")
	f.StringVar(&opts.LegendLabel, "legend-label", "", "legend label (default: reference value)")
	f.StringVar(&fl.legendOrigin, "legend-origin", "", "lon/lat where geovector legends are measured")
	// Output
	f.StringVarP(&fl.output, "output", "o", "", "output file (single format) or base path")
	f.StringVarP(&fl.formats, "format", "f", "", "output format(s): svg (default), json, pdf (comma-separated)")
	f.Float64Var(&fl.margin, "margin", pipeline.DefaultMargin, "margin around the map in inches")
	f.BoolVar(&opts.Frame, "frame", false, "draw the map frame")
	f.StringVar(&opts.Title, "title", "", "document title")
	f.BoolVar(&fl.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&fl.refresh, "refresh", false, "render even when cached")

	return cmd
}

// mergeRenderFlags copies every flag the user set onto base.
func mergeRenderFlags(cmd *cobra.Command, base *pipeline.Options, opts pipeline.Options, fl renderFlags) error {
	changed := cmd.Flags().Changed
	set := func(name string, apply func()) {
		if changed(name) {
			apply()
		}
	}

	set("scale", func() { base.Scale = opts.Scale })
	set("invert", func() { base.Invert = opts.Invert })
	set("constant", func() { base.Constant = opts.Constant })
	set("reference", func() { base.Reference = opts.Reference })
	set("mode", func() { base.Mode = opts.Mode })
	set("azimuth", func() { base.AzimuthInput = opts.AzimuthInput })
	set("projection", func() { base.Projection = opts.Projection })
	set("transform-angles", func() { base.TransformAngles = opts.TransformAngles })
	set("no-clip", func() { base.NoClip = opts.NoClip })
	set("head", func() { base.Head = opts.Head })
	set("heads", func() { base.Heads = opts.Heads })
	set("head-length", func() { base.HeadLength = opts.HeadLength })
	set("head-width", func() { base.HeadWidth = opts.HeadWidth })
	set("shaft-width", func() { base.ShaftWidth = opts.ShaftWidth })
	set("pen", func() { base.PenWidth = opts.PenWidth })
	set("justify", func() { base.Justify = opts.Justify })
	set("norm-cap", func() { base.NormCap = opts.NormCap })
	set("shape", func() { base.Shape = &fl.shape })
	set("no-fill", func() { base.NoFill = opts.NoFill })
	set("no-outline", func() { base.NoOutline = opts.NoOutline })
	set("color", func() { base.Color = opts.Color })
	set("palette", func() { base.Palette = opts.Palette })
	set("color-by", func() { base.ColorBy = opts.ColorBy })
	set("color-target", func() { base.ColorTarget = opts.ColorTarget })
	set("legend", func() { base.Legend = opts.Legend })
	set("legend-label", func() { base.LegendLabel = opts.LegendLabel })
	set("margin", func() { base.Margin = &fl.margin })
	set("frame", func() { base.Frame = opts.Frame })
	set("title", func() { base.Title = opts.Title })
	set("format", func() { base.Formats = parseFormats(fl.formats) })
	base.Refresh = fl.refresh

	if changed("region") {
		r, err := parseRegion(fl.region)
		if err != nil {
			return err
		}
		base.Region = &r
	}
	if changed("spacing") {
		dx, dy, nodes, err := parseSpacing(fl.spacing)
		if err != nil {
			return err
		}
		base.SpacingX, base.SpacingY, base.SpacingNodes = dx, dy, nodes
	}
	if changed("legend-origin") {
		x, y, err := parsePair(fl.legendOrigin, "legend origin")
		if err != nil {
			return err
		}
		base.LegendOrigin = &proj.Point{X: x, Y: y}
	}
	return nil
}

func (c *CLI) runRender(ctx context.Context, xPath, yPath string, opts pipeline.Options, fl renderFlags) error {
	logger := loggerFromContext(ctx)

	x, err := grid.ImportJSON(xPath)
	if err != nil {
		return err
	}
	y, err := grid.ImportJSON(yPath)
	if err != nil {
		return err
	}
	logger.Debug("loaded grids", "x", xPath, "y", yPath, "header", x.Header().String())

	runner, err := c.newRunner(ctx, fl.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()
	opts.Logger = logger

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Rendering vectors...")
	spinner.Start()
	res, err := runner.Execute(ctx, x, y, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d vectors", res.Report.Drawn))

	paths, err := writeArtifacts(res.Artifacts, opts.Formats, fl.output, xPath)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s field", res.Mode)
	printReport(res.Report, res.CacheInfo.Hit)
	if res.Legend != nil {
		printLegend(*res.Legend)
	}
	if res.Report.HasWarnings() {
		printWarning("%d vector heads were adjusted to fit their shafts", res.Report.HeadCapped+res.Report.HeadOverCap)
	}
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes one file per format. A single format goes to output
// as given; several formats share output (or the x grid name) as base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	var paths []string
	for _, f := range formats {
		path := base + "." + f
		if len(formats) == 1 && output != "" {
			path = output
		} else if output != "" {
			path = strings.TrimSuffix(output, filepath.Ext(output)) + "." + f
		}
		if err := errors.ValidatePath(path); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseRegion reads west/east/south/north.
func parseRegion(s string) (proj.Region, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 4 {
		return proj.Region{}, errors.New(errors.ErrCodeInvalidInput, "region %q must be west/east/south/north", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return proj.Region{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid region %q", s)
		}
		v[i] = f
	}
	r := proj.Region{West: v[0], East: v[1], South: v[2], North: v[3]}
	if !r.Valid() {
		return proj.Region{}, errors.New(errors.ErrCodeInvalidInput, "region %q is empty", s)
	}
	return r, nil
}

// parsePair reads "a" or "a/b"; a single value is used for both.
// parseSpacing reads dx[/dy] or xdx[/dy], where the x prefix counts grid
// nodes instead of data units.
func parseSpacing(s string) (dx, dy float64, nodes bool, err error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "x"); ok {
		s, nodes = rest, true
	}
	dx, dy, err = parsePair(s, "spacing")
	return dx, dy, nodes, err
}

func parsePair(s, name string) (float64, float64, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 2 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", name, s)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s %q", name, s)
	}
	b := a
	if len(parts) == 2 {
		if b, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
			return 0, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s %q", name, s)
		}
	}
	return a, b, nil
}
