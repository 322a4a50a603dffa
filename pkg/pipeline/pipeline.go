// Package pipeline runs vector-field renders for the CLI and the HTTP API.
//
// It turns user-facing [Options] (strings and numbers, as they arrive from
// flags, TOML config files or JSON requests) into a [vector.Config], runs the
// render onto a recorder and encodes the recorded drawing in every requested
// format. Rendered artifacts are cached under a key derived from both
// component grids and the options, so repeated renders of the same field are
// served from the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Scale:      "250k",
//	    Projection: "M6i",
//	    Formats:    []string{"svg", "json"},
//	}
//	result, err := runner.Execute(ctx, east, north, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/quiver/pkg/cache"
	"github.com/matzehuels/quiver/pkg/canvas"
	"github.com/matzehuels/quiver/pkg/errors"
	"github.com/matzehuels/quiver/pkg/grid"
	"github.com/matzehuels/quiver/pkg/palette"
	"github.com/matzehuels/quiver/pkg/proj"
	"github.com/matzehuels/quiver/pkg/render/sink"
	"github.com/matzehuels/quiver/pkg/units"
	"github.com/matzehuels/quiver/pkg/vector"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultProjection is a 6 inch wide linear map.
	DefaultProjection = "X6i"

	// DefaultMargin is the blank border around the map frame, in inches.
	DefaultMargin = 0.25

	// DefaultShape is the legacy head notch.
	DefaultShape = 0.5
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a render. The same struct is read
// from the [render] table of the config file and from API request bodies.
type Options struct {
	// Field input
	Mode         string `toml:"mode" json:"mode,omitempty"`       // cartesian or polar
	AzimuthInput bool   `toml:"azimuth" json:"azimuth,omitempty"` // polar angles are azimuths

	// Scale
	Scale     string  `toml:"scale" json:"scale"`
	Invert    bool    `toml:"invert" json:"invert,omitempty"`
	Constant  bool    `toml:"constant" json:"constant,omitempty"`
	Reference float64 `toml:"reference" json:"reference,omitempty"`

	// Map
	Projection      string       `toml:"projection" json:"projection,omitempty"`
	Region          *proj.Region `toml:"region" json:"region,omitempty"` // nil uses the grid region
	TransformAngles bool         `toml:"transform_angles" json:"transform_angles,omitempty"`
	NoClip          bool         `toml:"no_clip" json:"no_clip,omitempty"`
	SpacingX        float64      `toml:"spacing_x" json:"spacing_x,omitempty"` // data units between drawn nodes
	SpacingY        float64      `toml:"spacing_y" json:"spacing_y,omitempty"`
	SpacingNodes    bool         `toml:"spacing_nodes" json:"spacing_nodes,omitempty"` // spacing counts grid nodes

	// Glyph; lengths are plot lengths such as "0.2c" or "0.05i".
	Head       string   `toml:"head" json:"head,omitempty"`   // modern or legacy
	Heads      string   `toml:"heads" json:"heads,omitempty"` // none, begin, end, both
	HeadLength string   `toml:"head_length" json:"head_length,omitempty"`
	HeadWidth  string   `toml:"head_width" json:"head_width,omitempty"`
	ShaftWidth string   `toml:"shaft_width" json:"shaft_width,omitempty"`
	PenWidth   float64  `toml:"pen_width" json:"pen_width,omitempty"` // points
	Justify    string   `toml:"justify" json:"justify,omitempty"`
	NormCap    float64  `toml:"norm_cap" json:"norm_cap,omitempty"`
	Shape      *float64 `toml:"shape" json:"shape,omitempty"`
	NoFill     bool     `toml:"no_fill" json:"no_fill,omitempty"`
	NoOutline  bool     `toml:"no_outline" json:"no_outline,omitempty"`
	Color      string   `toml:"color" json:"color,omitempty"`

	// Coloring and legend
	Palette      string      `toml:"palette" json:"palette,omitempty"`
	ColorBy      string      `toml:"color_by" json:"color_by,omitempty"`
	ColorTarget  string      `toml:"color_target" json:"color_target,omitempty"` // fill, pen or both
	Legend       bool        `toml:"legend" json:"legend,omitempty"`
	LegendLabel  string      `toml:"legend_label" json:"legend_label,omitempty"`
	LegendOrigin *proj.Point `toml:"legend_origin" json:"legend_origin,omitempty"`

	// Output
	Formats []string `toml:"formats" json:"formats,omitempty"`
	Margin  *float64 `toml:"margin" json:"margin,omitempty"` // inches
	Frame   bool     `toml:"frame" json:"frame,omitempty"`
	Title   string   `toml:"title" json:"title,omitempty"`

	Refresh bool `toml:"-" json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger               `toml:"-" json:"-"`
	Palettes map[string]*palette.Table `toml:"-" json:"-"` // named palettes from the config file

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies this run in logs and JSON output.
	ID string

	// FieldHash is the content hash of both component grids.
	FieldHash string

	// Mode is the render mode that was used ("straight" or "geovector").
	Mode string

	// Report summarizes drawn and skipped nodes.
	Report vector.Report

	// Legend is set when a legend was drawn.
	Legend *vector.Legend

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks whether the artifacts came from the cache.
	CacheInfo CacheInfo

	CreatedAt time.Time
}

// Stats contains pipeline execution statistics.
type Stats struct {
	HashTime   time.Duration
	RenderTime time.Duration
	EncodeTime time.Duration
	Total      time.Duration
}

// CacheInfo tracks cache use for a run.
type CacheInfo struct {
	Hit bool // all artifacts came from the cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are known and supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := sink.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseHeads accepts none, begin, end and both (or their first letters).
func ParseHeads(s string) (canvas.Heads, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "e", "end":
		return canvas.HeadEnd, nil
	case "b", "begin":
		return canvas.HeadBegin, nil
	case "both", "+":
		return canvas.HeadBoth, nil
	case "n", "none":
		return canvas.HeadNone, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown head selection %q (valid: none, begin, end, both)", s)
}

// ParseHeadStyle accepts modern and legacy.
func ParseHeadStyle(s string) (vector.HeadStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "modern":
		return vector.HeadModern, nil
	case "legacy":
		return vector.HeadLegacy, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown head style %q (valid: modern, legacy)", s)
}

// plotLength converts a plot length such as "0.2c" to inches. Empty strings
// return def.
func plotLength(name, s string, def float64) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	sc, err := units.Resolve(s, units.ResolveOptions{Constant: true})
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s %q", name, s)
	}
	if !sc.Unit.IsPlot() {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s %q must use a plot unit (c, i, p)", name, s)
	}
	return sc.Factor, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the string options and applies defaults.
// Checks that need the grids happen in Config.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if strings.TrimSpace(o.Scale) == "" {
		return errors.New(errors.ErrCodeInvalidScale, "scale is required")
	}
	if o.Projection == "" {
		o.Projection = DefaultProjection
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{string(sink.FormatSVG)}
	}
	formats := make([]string, len(o.Formats))
	for i, f := range o.Formats {
		format, err := sink.ParseFormat(f)
		if err != nil {
			return err
		}
		formats[i] = string(format)
	}
	o.Formats = formats
	if o.Margin == nil {
		m := DefaultMargin
		o.Margin = &m
	} else if *o.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margin cannot be negative")
	}
	if o.Shape == nil {
		s := DefaultShape
		o.Shape = &s
	}
	if _, err := vector.ParseInputMode(o.Mode); err != nil {
		return err
	}
	if _, err := vector.ParseJustification(o.Justify); err != nil {
		return err
	}
	if _, err := vector.ParseColorBy(o.ColorBy); err != nil {
		return err
	}
	if _, err := vector.ParseColorTarget(o.ColorTarget); err != nil {
		return err
	}
	if _, err := ParseHeads(o.Heads); err != nil {
		return err
	}
	if _, err := ParseHeadStyle(o.Head); err != nil {
		return err
	}
	if _, err := proj.Parse(o.Projection); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ResolveScale parses the scale options.
func (o *Options) ResolveScale() (units.Scale, error) {
	return units.Resolve(o.Scale, units.ResolveOptions{
		Invert:    o.Invert,
		Constant:  o.Constant,
		Reference: o.Reference,
	})
}

// Glyph builds the glyph description from the options.
func (o *Options) Glyph() (vector.Glyph, error) {
	g := vector.DefaultGlyph()
	var err error
	if g.Head, err = ParseHeadStyle(o.Head); err != nil {
		return g, err
	}
	if g.Heads, err = ParseHeads(o.Heads); err != nil {
		return g, err
	}
	if g.Justify, err = vector.ParseJustification(o.Justify); err != nil {
		return g, err
	}
	if g.HeadLength, err = plotLength("head length", o.HeadLength, g.HeadLength); err != nil {
		return g, err
	}
	if g.HeadWidth, err = plotLength("head width", o.HeadWidth, g.HeadWidth); err != nil {
		return g, err
	}
	if g.ShaftWidth, err = plotLength("shaft width", o.ShaftWidth, g.ShaftWidth); err != nil {
		return g, err
	}
	if o.PenWidth != 0 {
		g.PenWidth = o.PenWidth
	}
	if o.Shape != nil {
		g.Shape = *o.Shape
	}
	g.NormCap = o.NormCap
	g.Fill = !o.NoFill
	g.Outline = !o.NoOutline
	return g, nil
}

// BuildProjection builds the map projection over the options region, or over the
// grid region when none is set.
func (o *Options) BuildProjection(h grid.Header) (proj.Projection, error) {
	spec, err := proj.Parse(o.Projection)
	if err != nil {
		return nil, err
	}
	region := proj.Region{West: h.West, East: h.East, South: h.South, North: h.North}
	if o.Region != nil {
		region = *o.Region
	}
	if !region.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidProjection, "invalid map region %s", region)
	}
	return proj.New(spec, region, h.Geographic)
}

// Field builds the vector field from the two component grids.
func (o *Options) Field(x, y grid.Store) (vector.Field, error) {
	mode, err := vector.ParseInputMode(o.Mode)
	if err != nil {
		return vector.Field{}, err
	}
	return vector.Field{X: x, Y: y, Mode: mode, AzimuthInput: o.AzimuthInput}, nil
}

// resolvePalette finds the named palette. Config palettes win over built-ins
// and are used as-is; built-ins are stretched over the field's palette
// values.
func (o *Options) resolvePalette(f vector.Field) (palette.Palette, error) {
	if t, ok := o.Palettes[o.Palette]; ok {
		return t, nil
	}
	name := o.Palette
	if name == "" {
		name = "rainbow"
	}
	t, err := palette.Builtin(name)
	if err != nil {
		return nil, err
	}
	if lo, hi, ok := vector.ColorRange(f); ok && hi > lo {
		t = t.Stretch(lo, hi)
	}
	return t, nil
}

// Config builds the full render configuration for field f.
func (o *Options) Config(f vector.Field) (vector.Config, error) {
	if err := o.ValidateAndSetDefaults(); err != nil {
		return vector.Config{}, err
	}
	if err := f.Validate(); err != nil {
		return vector.Config{}, err
	}
	h := f.X.Header()

	cfg := vector.Config{
		TransformAngles: o.TransformAngles,
		NoClip:          o.NoClip,
		Legend:          o.Legend,
		LegendLabel:     o.LegendLabel,
		LegendOrigin:    o.LegendOrigin,
		Style:           canvas.DefaultStyle,
	}
	var err error
	if cfg.Scale, err = o.ResolveScale(); err != nil {
		return cfg, err
	}
	if cfg.Glyph, err = o.Glyph(); err != nil {
		return cfg, err
	}
	if cfg.Projection, err = o.BuildProjection(h); err != nil {
		return cfg, err
	}
	if cfg.Subsample, err = vector.SubsampleFor(h, o.SpacingX, o.SpacingY, o.SpacingNodes); err != nil {
		return cfg, err
	}

	if o.PenWidth != 0 {
		cfg.Style.Pen.Width = o.PenWidth
	}
	if o.Color != "" {
		c, err := palette.ParseColor(o.Color)
		if err != nil {
			return cfg, err
		}
		cfg.Style.Pen.Color = c
		cfg.Style.Fill = c
	}
	if cfg.ColorBy, err = vector.ParseColorBy(o.ColorBy); err != nil {
		return cfg, err
	}
	if cfg.ColorTarget, err = vector.ParseColorTarget(o.ColorTarget); err != nil {
		return cfg, err
	}
	if cfg.ColorBy != vector.ColorNone {
		if cfg.Palette, err = o.resolvePalette(f); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// ArtifactKeyOpts returns cache key options for one rendered format. The
// palette table is part of the key because named palettes can change
// between config files.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	keyed := *o
	keyed.Refresh = false
	keyed.Formats = nil
	return cache.ArtifactKeyOpts{
		Format: format,
		Options: struct {
			Options
			PaletteTable *palette.Table `json:"palette_table,omitempty"`
		}{keyed, o.Palettes[o.Palette]},
	}
}
