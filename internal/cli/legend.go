package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/quiver/pkg/grid"
	"github.com/matzehuels/quiver/pkg/pipeline"
	"github.com/matzehuels/quiver/pkg/proj"
)

// legendCommand prints the reference vector for a scale and map without
// rendering a field.
func (c *CLI) legendCommand() *cobra.Command {
	var (
		region     string
		origin     string
		geographic bool
		noCache    bool
		flags      pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Show the legend reference vector for a scale and map",
		Example: `  quiver legend -s 2i -R 0/10/0/10
  quiver legend -s 250k -J M6i -R -10/10/40/60 --geographic`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := c.config().RenderOptions()
			if err != nil {
				return err
			}
			changed := cmd.Flags().Changed
			if changed("scale") {
				opts.Scale = flags.Scale
			}
			if changed("projection") {
				opts.Projection = flags.Projection
			}
			if changed("legend-label") {
				opts.LegendLabel = flags.LegendLabel
			}
			if changed("reference") {
				opts.Reference = flags.Reference
			}
			opts.Invert = opts.Invert || flags.Invert
			opts.Constant = opts.Constant || flags.Constant

			r, err := parseRegion(region)
			if err != nil {
				return err
			}
			if origin != "" {
				x, y, err := parsePair(origin, "legend origin")
				if err != nil {
					return err
				}
				opts.LegendOrigin = &proj.Point{X: x, Y: y}
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()
			opts.Logger = loggerFromContext(cmd.Context())

			h := grid.Header{West: r.West, East: r.East, South: r.South, North: r.North, Geographic: geographic}
			l, cached, err := runner.Legend(cmd.Context(), h, opts)
			if err != nil {
				return err
			}
			printLegend(*l)
			if cached {
				printDetail("from cache")
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.Scale, "scale", "s", "", "vector scale, e.g. 10i or 250k")
	f.BoolVar(&flags.Invert, "invert", false, "read the scale as length units per data unit")
	f.BoolVar(&flags.Constant, "constant", false, "fixed-length vectors")
	f.Float64Var(&flags.Reference, "reference", 0, "reference magnitude")
	f.StringVarP(&flags.Projection, "projection", "J", "", "projection (default "+pipeline.DefaultProjection+")")
	f.StringVar(&flags.LegendLabel, "legend-label", "", "legend label")
	f.StringVarP(&region, "region", "R", "", "map region west/east/south/north (required)")
	f.StringVar(&origin, "origin", "", "lon/lat where geovector legends are measured (default: map center)")
	f.BoolVar(&geographic, "geographic", false, "the region is lon/lat")
	f.BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.MarkFlagRequired("region")
	return cmd
}
