package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromHooks records hook events as Prometheus metrics. It implements
// RenderHooks, CacheHooks and ServerHooks.
type PromHooks struct {
	Renders        *prometheus.CounterVec   // labels: mode, outcome={ok,error}
	RenderDuration prometheus.Histogram     //
	NodesDrawn     prometheus.Counter       //
	NodesSkipped   *prometheus.CounterVec   // labels: reason={nodata,zero,outside}
	GlyphWarnings  prometheus.Counter       //
	CacheLookups   *prometheus.CounterVec   // labels: type, result={hit,miss}
	CacheBytes     *prometheus.CounterVec   // labels: type
	Requests       *prometheus.CounterVec   // labels: method, route, status
	RequestLatency *prometheus.HistogramVec // labels: method, route
}

// NewPromHooks creates the metrics and registers them with reg. A nil reg
// leaves them unregistered, which tests use to avoid duplicate registration.
func NewPromHooks(reg prometheus.Registerer) *PromHooks {
	const ns = "quiver"
	h := &PromHooks{
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "renders_total",
			Help:      "Vector-field renders by render mode and outcome.",
		}, []string{"mode", "outcome"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "render_duration_seconds",
			Help:      "Duration of a render including encoding.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		NodesDrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "nodes_drawn_total",
			Help:      "Grid nodes drawn as vector glyphs.",
		}),
		NodesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "nodes_skipped_total",
			Help:      "Grid nodes skipped, by reason.",
		}, []string{"reason"}),
		GlyphWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "glyph_warnings_total",
			Help:      "Geovector heads that had to be capped.",
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by key type and result.",
		}, []string{"type", "result"}),
		CacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"type"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "HTTP API requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP API request duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg != nil {
		reg.MustRegister(
			h.Renders, h.RenderDuration, h.NodesDrawn, h.NodesSkipped, h.GlyphWarnings,
			h.CacheLookups, h.CacheBytes, h.Requests, h.RequestLatency,
		)
	}
	return h
}

func (h *PromHooks) OnRenderStart(context.Context, string) {}

func (h *PromHooks) OnRenderComplete(_ context.Context, _ string, s RenderSummary, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	mode := s.Mode
	if mode == "" {
		mode = "unknown"
	}
	h.Renders.WithLabelValues(mode, outcome).Inc()
	h.RenderDuration.Observe(d.Seconds())
	if err != nil {
		return
	}
	h.NodesDrawn.Add(float64(s.Drawn))
	h.NodesSkipped.WithLabelValues("nodata").Add(float64(s.NoData))
	h.NodesSkipped.WithLabelValues("zero").Add(float64(s.Zero))
	h.NodesSkipped.WithLabelValues("outside").Add(float64(s.Outside))
	h.GlyphWarnings.Add(float64(s.Warnings))
}

func (h *PromHooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (h *PromHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (h *PromHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *PromHooks) OnRequest(context.Context, string, string) {}

func (h *PromHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.RequestLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ RenderHooks = (*PromHooks)(nil)
	_ CacheHooks  = (*PromHooks)(nil)
	_ ServerHooks = (*PromHooks)(nil)
)
