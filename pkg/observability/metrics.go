package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
)

// Metrics implements every hook interface on top of Prometheus
// collectors held in a private registry.
type Metrics struct {
	registry *prometheus.Registry

	FetchDuration  prometheus.Histogram
	FetchErrors    prometheus.Counter
	LayoutDuration *prometheus.HistogramVec
	Members        prometheus.Gauge
	FlushBatches   prometheus.Counter
	Positions      *prometheus.CounterVec
	WriteDuration  prometheus.Histogram
	CacheOps       *prometheus.CounterVec
}

// NewMetrics creates the collectors under namespace and registers them
// with a fresh registry.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent reading a snapshot from the store",
			Buckets:   prometheus.DefBuckets,
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Snapshot reads that failed",
		}),
		LayoutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Time spent producing a layout",
			Buckets:   prometheus.DefBuckets,
		}, []string{"cached"}),
		Members: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "layout_members",
			Help:      "Members in the most recent layout",
		}),
		FlushBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flush_batches_total",
			Help:      "Position flushes started",
		}),
		Positions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "position_writes_total",
			Help:      "Position write attempts by outcome",
		}, []string{"status"}),
		WriteDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "position_write_duration_seconds",
			Help:      "Latency of single position writes",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		CacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and stores by key type and result",
		}, []string{"type", "result"}),
	}
	m.registry.MustRegister(
		m.FetchDuration, m.FetchErrors, m.LayoutDuration, m.Members,
		m.FlushBatches, m.Positions, m.WriteDuration, m.CacheOps,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Register installs m as the pipeline, cache and store hooks.
func (m *Metrics) Register() {
	SetPipelineHooks(m)
	SetCacheHooks(m)
	SetStoreHooks(m)
}

// WriteTextfile writes the current values in the Prometheus text format,
// suitable for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInternal, err, "write metrics %s", path)
	}
	return nil
}

func (m *Metrics) OnFetchStart(context.Context) {}

func (m *Metrics) OnFetchComplete(_ context.Context, _, _ int, d time.Duration, err error) {
	m.FetchDuration.Observe(d.Seconds())
	if err != nil {
		m.FetchErrors.Inc()
	}
}

func (m *Metrics) OnLayoutStart(context.Context, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, members int, d time.Duration, cached bool) {
	m.LayoutDuration.WithLabelValues(strconv.FormatBool(cached)).Observe(d.Seconds())
	m.Members.Set(float64(members))
}

func (m *Metrics) OnFlushStart(context.Context, string, int) {
	m.FlushBatches.Inc()
}

func (m *Metrics) OnFlushComplete(context.Context, string, int, int, time.Duration) {}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.CacheOps.WithLabelValues(keyType, "set").Inc()
}

func (m *Metrics) OnPositionWrite(_ context.Context, _ family.ID, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	m.Positions.WithLabelValues(status).Inc()
	m.WriteDuration.Observe(d.Seconds())
}
