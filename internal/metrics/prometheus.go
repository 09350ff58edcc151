package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "adboard"

// PrometheusRecorder exposes metrics through a dedicated registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	records  *prometheus.CounterVec
	cache    *prometheus.CounterVec
	logins   *prometheus.CounterVec
	requests *prometheus.HistogramVec
}

// NewPrometheus creates a recorder with Go runtime and process collectors
// registered alongside the application metrics.
func NewPrometheus() *PrometheusRecorder {
	reg := prometheus.NewRegistry()

	p := &PrometheusRecorder{
		registry: reg,
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Record mutations by entity and operation.",
		}, []string{"entity", "op"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Read cache lookups by entity and result.",
		}, []string{"entity", "result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.records,
		p.cache,
		p.logins,
		p.requests,
	)
	return p
}

// Handler serves the registry in the Prometheus text format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry returns the underlying registry.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

func (p *PrometheusRecorder) IncRecordCreated(entity string) {
	p.records.WithLabelValues(entity, "create").Inc()
}

func (p *PrometheusRecorder) IncRecordUpdated(entity string) {
	p.records.WithLabelValues(entity, "update").Inc()
}

func (p *PrometheusRecorder) IncRecordDeleted(entity string) {
	p.records.WithLabelValues(entity, "delete").Inc()
}

func (p *PrometheusRecorder) IncCacheHit(entity string) {
	p.cache.WithLabelValues(entity, "hit").Inc()
}

func (p *PrometheusRecorder) IncCacheMiss(entity string) {
	p.cache.WithLabelValues(entity, "miss").Inc()
}

func (p *PrometheusRecorder) IncLoginAttempt(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	p.logins.WithLabelValues(result).Inc()
}

func (p *PrometheusRecorder) ObserveRequest(method, route string, status int, duration time.Duration) {
	p.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
