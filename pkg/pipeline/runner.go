package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/matzehuels/quiver/pkg/cache"
	"github.com/matzehuels/quiver/pkg/canvas"
	"github.com/matzehuels/quiver/pkg/grid"
	"github.com/matzehuels/quiver/pkg/observability"
	"github.com/matzehuels/quiver/pkg/proj"
	"github.com/matzehuels/quiver/pkg/render/sink"
	"github.com/matzehuels/quiver/pkg/vector"
)

// summaryFormat is the cache slot holding the render summary that goes
// with the cached artifacts.
const summaryFormat = "summary"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, clock and logger - it
// doesn't store render results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Clock  clockwork.Clock
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Clock:  clockwork.NewRealClock(),
	}
}

// summary is the cached part of a Result besides the artifacts.
type summary struct {
	ID     string         `json:"id"`
	Mode   string         `json:"mode"`
	Report vector.Report  `json:"report"`
	Legend *vector.Legend `json:"legend,omitempty"`
}

// Execute renders the field made of grids x and y in every requested format.
func (r *Runner) Execute(ctx context.Context, x, y grid.Store, opts Options) (result *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := r.Clock.Now()
	result = &Result{
		ID:        uuid.NewString(),
		Artifacts: make(map[string][]byte),
		CreatedAt: start,
	}
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, result.ID)
	defer func() {
		result.Stats.Total = r.Clock.Since(start)
		hooks.OnRenderComplete(ctx, result.ID, result.summary(opts.Formats), result.Stats.Total, err)
		if err != nil {
			result = nil
		}
	}()

	field, err := opts.Field(x, y)
	if err != nil {
		return result, err
	}
	if err := field.Validate(); err != nil {
		return result, err
	}

	hashStart := r.Clock.Now()
	result.FieldHash, err = cache.HashWith(func(w io.Writer) error {
		if err := grid.WriteJSON(x, w); err != nil {
			return err
		}
		return grid.WriteJSON(y, w)
	})
	if err != nil {
		return result, fmt.Errorf("hash field: %w", err)
	}
	result.Stats.HashTime = r.Clock.Since(hashStart)

	if !opts.Refresh && r.fromCache(ctx, result, opts) {
		result.CacheInfo.Hit = true
		opts.Logger.Info("served from cache", "id", result.ID, "formats", opts.Formats)
		return result, nil
	}

	cfg, err := opts.Config(field)
	if err != nil {
		return result, err
	}
	w, h := cfg.Projection.Size()
	rec := canvas.NewRecorder(w, h)

	renderStart := r.Clock.Now()
	vres, err := vector.Render(field, cfg, rec)
	if err != nil {
		return result, err
	}
	result.Stats.RenderTime = r.Clock.Since(renderStart)
	result.Mode = vres.Mode.String()
	result.Report = vres.Report
	result.Legend = vres.Legend

	opts.Logger.Info("rendered vectors",
		"id", result.ID,
		"mode", result.Mode,
		"drawn", vres.Report.Drawn,
		"skipped", vres.Stats.Skipped(),
		"duration", result.Stats.RenderTime)
	logWarnings(opts.Logger, vres.Report)

	encodeStart := r.Clock.Now()
	art := sink.Artifact{
		Drawing: rec.Drawing(),
		Result:  vres,
		ID:      result.ID,
		Title:   opts.Title,
		Margin:  *opts.Margin,
		Frame:   opts.Frame,
	}
	for _, f := range opts.Formats {
		data, err := sink.Render(ctx, sink.Format(f), art)
		if err != nil {
			return result, fmt.Errorf("encode %s: %w", f, err)
		}
		result.Artifacts[f] = data
	}
	result.Stats.EncodeTime = r.Clock.Since(encodeStart)

	r.store(ctx, result, opts)
	return result, nil
}

// fromCache fills result from the cache when every format and the summary
// are present.
func (r *Runner) fromCache(ctx context.Context, result *Result, opts Options) bool {
	hooks := observability.Cache()
	get := func(format string) ([]byte, bool) {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(result.FieldHash, opts.ArtifactKeyOpts(format)))
		if err != nil {
			opts.Logger.Debug("cache read failed", "format", format, "error", err)
			return nil, false
		}
		return data, hit
	}

	data, hit := get(summaryFormat)
	if !hit {
		hooks.OnCacheMiss(ctx, "artifact")
		return false
	}
	var s summary
	if err := json.Unmarshal(data, &s); err != nil {
		hooks.OnCacheMiss(ctx, "artifact")
		return false
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		data, hit := get(f)
		if !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			return false
		}
		artifacts[f] = data
	}
	hooks.OnCacheHit(ctx, "artifact")

	if s.ID != "" {
		result.ID = s.ID
	}
	result.Artifacts = artifacts
	result.Mode = s.Mode
	result.Report = s.Report
	result.Legend = s.Legend
	return true
}

// store writes artifacts and summary to the cache. Cache failures are
// logged, never returned.
func (r *Runner) store(ctx context.Context, result *Result, opts Options) {
	hooks := observability.Cache()
	set := func(format string, data []byte) {
		key := r.Keyer.ArtifactKey(result.FieldHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Debug("cache write failed", "format", format, "error", err)
			return
		}
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
	for f, data := range result.Artifacts {
		set(f, data)
	}
	data, err := json.Marshal(summary{ID: result.ID, Mode: result.Mode, Report: result.Report, Legend: result.Legend})
	if err == nil {
		set(summaryFormat, data)
	}
}

// Legend computes the reference vector for the options' scale and
// projection over h. Results are cached under the legend key.
func (r *Runner) Legend(ctx context.Context, h grid.Header, opts Options) (*vector.Legend, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	key := r.Keyer.LegendKey(struct {
		Scale      string
		Invert     bool
		Constant   bool
		Reference  float64
		Projection string
		Region     *proj.Region
		Header     grid.Header
		Origin     any
		Label      string
	}{opts.Scale, opts.Invert, opts.Constant, opts.Reference, opts.Projection, opts.Region, h, opts.LegendOrigin, opts.LegendLabel})

	hooks := observability.Cache()
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var l vector.Legend
			if err := json.Unmarshal(data, &l); err == nil {
				hooks.OnCacheHit(ctx, "legend")
				return &l, true, nil
			}
		}
		hooks.OnCacheMiss(ctx, "legend")
	}

	s, err := opts.ResolveScale()
	if err != nil {
		return nil, false, err
	}
	p, err := opts.BuildProjection(h)
	if err != nil {
		return nil, false, err
	}
	if _, err := vector.ChooseRenderMode(h.Geographic, s.Unit); err != nil {
		return nil, false, err
	}
	l := vector.NewLegend(p, s, opts.LegendOrigin, opts.LegendLabel)
	opts.Logger.Debug("computed legend", "length", l.Length, "value", l.Value, "unit", s.Unit.Name())

	if data, err := json.Marshal(l); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLegend); err == nil {
			hooks.OnCacheSet(ctx, "legend", len(data))
		}
	}
	return &l, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (res *Result) summary(formats []string) observability.RenderSummary {
	return observability.RenderSummary{
		Mode:     res.Mode,
		Drawn:    res.Report.Drawn,
		NoData:   res.Report.NoData,
		Zero:     res.Report.Zero,
		Outside:  res.Report.Outside,
		Warnings: res.Report.HeadCapped + res.Report.HeadOverCap,
		Formats:  formats,
	}
}

// logWarnings reports glyph warnings once per pass.
func logWarnings(logger *log.Logger, r vector.Report) {
	if r.HeadCapped > 0 {
		logger.Warn("vector heads were shrunk to fit short geovectors", "count", r.HeadCapped)
	}
	if r.HeadOverCap > 0 {
		logger.Warn("vector heads exceed their shaft even after the norm cap", "count", r.HeadOverCap)
	}
}
