package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reloadDuration  *prom.HistogramVec
	reloadOutcomes  *prom.CounterVec
	indexedPages    prom.Gauge
	slugCollisions  prom.Gauge
	requestDuration *prom.HistogramVec
	requests        *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reloadDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "reload_duration_seconds",
			Help:      "Duration of content index rebuilds",
			Buckets:   prom.DefBuckets,
		}, []string{"trigger"}),
		reloadOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "reload_outcomes_total",
			Help:      "Content index rebuilds by trigger and outcome",
		}, []string{"trigger", "outcome"}),
		indexedPages: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "indexed_pages",
			Help:      "Pages in the currently served snapshot",
		}),
		slugCollisions: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "slug_collisions",
			Help:      "Shadowed files in the currently served snapshot",
		}),
		requestDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prom.DefBuckets,
		}, []string{"route"}),
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(pr.reloadDuration, pr.reloadOutcomes, pr.indexedPages, pr.slugCollisions, pr.requestDuration, pr.requests)
	return pr
}

func (p *PrometheusRecorder) ObserveReloadDuration(trigger string, d time.Duration) {
	if p == nil {
		return
	}
	p.reloadDuration.WithLabelValues(trigger).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncReloadOutcome(trigger string, outcome ReloadOutcome) {
	if p == nil {
		return
	}
	p.reloadOutcomes.WithLabelValues(trigger, string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetIndexedPages(n int) {
	if p == nil {
		return
	}
	p.indexedPages.Set(float64(n))
}

func (p *PrometheusRecorder) SetSlugCollisions(n int) {
	if p == nil {
		return
	}
	p.slugCollisions.Set(float64(n))
}

func (p *PrometheusRecorder) ObserveHTTPRequest(route string, status int, d time.Duration) {
	if p == nil {
		return
	}
	p.requestDuration.WithLabelValues(route).Observe(d.Seconds())
	p.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
