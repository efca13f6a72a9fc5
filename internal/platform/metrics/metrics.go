// Package metrics records focus-session activity as Prometheus series.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus implements the timer's metrics recorder on its own registry.
type Prometheus struct {
	registry       *prometheus.Registry
	started        prometheus.Counter
	completed      *prometheus.CounterVec
	interruptions  *prometheus.CounterVec
	animals        *prometheus.CounterVec
	sessionSeconds prometheus.Histogram
}

func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	p := &Prometheus{
		registry: registry,
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "focusfarm",
			Name:      "sessions_started_total",
			Help:      "Focus sessions started.",
		}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "focusfarm",
			Name:      "sessions_completed_total",
			Help:      "Focus sessions finalized, by result.",
		}, []string{"result"}),
		interruptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "focusfarm",
			Name:      "interruptions_total",
			Help:      "Interruptions that ended an incubating session, by reason.",
		}, []string{"reason"}),
		animals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "focusfarm",
			Name:      "animals_awarded_total",
			Help:      "Animals awarded at session end, by family.",
		}, []string{"family"}),
		sessionSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "focusfarm",
			Name:      "session_duration_seconds",
			Help:      "Duration of finalized focus sessions.",
			Buckets:   []float64{30, 60, 300, 600, 900, 1800, 2700, 3600, 5400, 7200},
		}),
	}
	registry.MustRegister(p.started, p.completed, p.interruptions, p.animals, p.sessionSeconds)
	return p
}

func (p *Prometheus) SessionStarted() {
	p.started.Inc()
}

func (p *Prometheus) SessionCompleted(result string, duration time.Duration) {
	p.completed.WithLabelValues(result).Inc()
	p.sessionSeconds.Observe(duration.Seconds())
}

func (p *Prometheus) Interrupted(reason string) {
	p.interruptions.WithLabelValues(reason).Inc()
}

func (p *Prometheus) AnimalsAwarded(family string, count int) {
	if count <= 0 {
		return
	}
	p.animals.WithLabelValues(family).Add(float64(count))
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for gathering in tests.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Noop discards every observation.
type Noop struct{}

func (Noop) SessionStarted() {}

func (Noop) SessionCompleted(string, time.Duration) {}

func (Noop) Interrupted(string) {}

func (Noop) AnimalsAwarded(string, int) {}
