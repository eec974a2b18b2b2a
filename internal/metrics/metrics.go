// Package metrics exposes exploration activity as Prometheus collectors fed
// by lifecycle hooks.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/journey/pkg/domain"
)

// Collectors groups the journey metrics.
type Collectors struct {
	registry *prometheus.Registry

	Steps    *prometheus.CounterVec
	Warnings *prometheus.CounterVec
	Commands *prometheus.CounterVec
	Length   prometheus.Histogram
}

// New creates the collectors on a private registry, alongside the Go and
// process collectors.
func New() *Collectors {
	c := &Collectors{
		registry: prometheus.NewRegistry(),
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "journey_steps_total",
				Help: "Exploration steps committed, by operation.",
			},
			[]string{"op"},
		),
		Warnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "journey_unmet_requirements_total",
				Help: "Transitions taken while their requirement was not met.",
			},
			[]string{"transition"},
		),
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "journey_command_blocks_total",
				Help: "Command blocks executed against sessions, by outcome.",
			},
			[]string{"outcome"},
		),
		Length: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "journey_command_block_length",
			Help:    "Commands executed per block.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	c.registry.MustRegister(
		c.Steps, c.Warnings, c.Commands, c.Length,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Hooks records events into the collectors.
func (c *Collectors) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			c.Steps.WithLabelValues(e.Op).Inc()
		},
		OnWarning: func(_ context.Context, e *domain.WarningEvent) {
			c.Warnings.WithLabelValues(e.Warning.Transition).Inc()
		},
		OnCommand: func(_ context.Context, e *domain.CommandEvent) {
			outcome := "ok"
			if e.Err != nil {
				outcome = "error"
			}
			c.Commands.WithLabelValues(outcome).Inc()
			c.Length.Observe(float64(e.Commands))
		},
	}
}

// Registry returns the registry the collectors live in.
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
