package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements every hook interface with Prometheus collectors.
type Prometheus struct {
	RunsTotal      *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec
	IssuesTotal    prometheus.Counter
	CacheTotal     *prometheus.CounterVec
	CacheSizeBytes *prometheus.HistogramVec
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
}

// NewPrometheus registers the disposition collectors with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "disposition_pipeline_runs_total",
			Help: "Pipeline stage executions by outcome",
		}, []string{"stage", "status"}),
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "disposition_pipeline_stage_duration_seconds",
			Help:    "Pipeline stage latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"stage"}),
		IssuesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "disposition_mapping_issues_total",
			Help: "Mapping issues reported while lowering diagrams",
		}),
		CacheTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "disposition_cache_requests_total",
			Help: "Cache lookups by kind and result",
		}, []string{"kind", "result"}),
		CacheSizeBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "disposition_cache_entry_size_bytes",
			Help:    "Size of cached entries in bytes",
			Buckets: []float64{1e3, 1e4, 1e5, 1e6, 1e7},
		}, []string{"kind"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "disposition_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "disposition_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (p *Prometheus) OnStageStart(context.Context, Stage) {}

func (p *Prometheus) OnStageComplete(_ context.Context, stage Stage, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.RunsTotal.WithLabelValues(string(stage), status).Inc()
	p.StageDuration.WithLabelValues(string(stage)).Observe(d.Seconds())
}

func (p *Prometheus) OnIssues(_ context.Context, n int) { p.IssuesTotal.Add(float64(n)) }

func (p *Prometheus) OnCacheHit(_ context.Context, kind string) {
	p.CacheTotal.WithLabelValues(kind, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, kind string) {
	p.CacheTotal.WithLabelValues(kind, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, kind string, size int) {
	p.CacheSizeBytes.WithLabelValues(kind).Observe(float64(size))
}

func (p *Prometheus) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	p.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
