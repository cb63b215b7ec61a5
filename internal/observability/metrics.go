package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry; a nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests   *prometheus.CounterVec
	apiLatency    *prometheus.HistogramVec
	apiInflight   prometheus.Gauge
	uploadSlots   *prometheus.CounterVec
	itemsCreated  *prometheus.CounterVec
	plays         *prometheus.CounterVec
	saves         *prometheus.CounterVec
	catalogCache  *prometheus.CounterVec
	reconcileRuns *prometheus.CounterVec
	reconciled    *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "studio"
	}
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_inflight_requests",
			Help:      "HTTP requests currently being served.",
		}),
		uploadSlots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_slots_total",
			Help:      "Signed upload slots issued by prefix and outcome.",
		}, []string{"prefix", "outcome"}),
		itemsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_created_total",
			Help:      "Content rows written by category and outcome.",
		}, []string{"category", "outcome"}),
		plays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plays_total",
			Help:      "Play increments by category and outcome.",
		}, []string{"category", "outcome"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Save and unsave operations by category and action.",
		}, []string{"category", "action"}),
		catalogCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_total",
			Help:      "Catalog cache lookups by result.",
		}, []string{"result"}),
		reconcileRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Upload slot reconciliation sweeps by outcome.",
		}, []string{"outcome"}),
		reconciled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciled_slots_total",
			Help:      "Upload slots expired by the reconciler.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.uploadSlots,
		m.itemsCreated,
		m.plays,
		m.saves,
		m.catalogCache,
		m.reconcileRuns,
		m.reconciled,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ApiInflightInc() {
	if m != nil {
		m.apiInflight.Inc()
	}
}

func (m *Metrics) ApiInflightDec() {
	if m != nil {
		m.apiInflight.Dec()
	}
}

func (m *Metrics) ObserveAPI(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) IncUploadSlot(prefix, outcome string) {
	if m != nil {
		m.uploadSlots.WithLabelValues(prefix, outcome).Inc()
	}
}

func (m *Metrics) IncItemCreated(category, outcome string) {
	if m != nil {
		m.itemsCreated.WithLabelValues(category, outcome).Inc()
	}
}

func (m *Metrics) IncPlay(category, outcome string) {
	if m != nil {
		m.plays.WithLabelValues(category, outcome).Inc()
	}
}

func (m *Metrics) IncSave(category, action string) {
	if m != nil {
		m.saves.WithLabelValues(category, action).Inc()
	}
}

func (m *Metrics) IncCatalogCache(result string) {
	if m != nil {
		m.catalogCache.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) ObserveReconcile(outcome string, expired, failed int) {
	if m == nil {
		return
	}
	m.reconcileRuns.WithLabelValues(outcome).Inc()
	if expired > 0 {
		m.reconciled.WithLabelValues("expired").Add(float64(expired))
	}
	if failed > 0 {
		m.reconciled.WithLabelValues("failed").Add(float64(failed))
	}
}
