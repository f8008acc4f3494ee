// Package metrics exposes pull outcomes in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mcp-menu-gacha/internal/models"
)

// Pull outcomes
const (
	OutcomeSuccess    = "success"
	OutcomeInfeasible = "infeasible"
	OutcomeInvalid    = "invalid"
)

// Recorder owns a registry and the pull collectors registered on it.
type Recorder struct {
	registry *prometheus.Registry
	pulls    *prometheus.CounterVec
	relaxed  prometheus.Counter
	items    prometheus.Histogram
}

// NewRecorder creates a Recorder with Go runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		pulls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "menu_gacha",
			Name:      "pulls_total",
			Help:      "Gacha pulls by outcome.",
		}, []string{"outcome"}),
		relaxed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "menu_gacha",
			Name:      "relaxed_pulls_total",
			Help:      "Pulls answered with a lone staple-food item.",
		}),
		items: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "menu_gacha",
			Name:      "pull_items",
			Help:      "Number of items in successful pulls.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
	}
	r.registry.MustRegister(
		r.pulls,
		r.relaxed,
		r.items,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveResult records a completed pull.
func (r *Recorder) ObserveResult(result *models.GachaResult) {
	if !result.Success {
		r.pulls.WithLabelValues(OutcomeInfeasible).Inc()
		return
	}
	r.pulls.WithLabelValues(OutcomeSuccess).Inc()
	r.items.Observe(float64(len(result.Items)))
	if result.Relaxed {
		r.relaxed.Inc()
	}
}

// ObserveInvalid records a pull rejected for invalid input.
func (r *Recorder) ObserveInvalid() {
	r.pulls.WithLabelValues(OutcomeInvalid).Inc()
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
