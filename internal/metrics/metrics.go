// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes pipeline activity as Prometheus collectors fed by
// pipeline hooks.
package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/blogsmith/internal/pipeline"
)

// Outcome label values for blogsmith_runs_total.
const (
	OutcomeSuccess   = "success"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
	OutcomeInvalid   = "invalid"
)

// Metrics holds the collectors registered for one process.
type Metrics struct {
	Runs          *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	StageFailures *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogsmith_runs_total",
			Help: "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "blogsmith_stage_duration_seconds",
			Help:    "Duration of each stage's generation call.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"stage"}),
		StageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogsmith_stage_failures_total",
			Help: "Stages that aborted a run.",
		}, []string{"stage"}),
	}
	for _, c := range []prometheus.Collector{m.Runs, m.StageDuration, m.StageFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns pipeline hooks that record into m.
func (m *Metrics) Hooks() pipeline.Hooks {
	return pipeline.Hooks{
		OnStageEnd: func(_ context.Context, e *pipeline.StageEvent) {
			m.StageDuration.WithLabelValues(e.Stage).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.StageFailures.WithLabelValues(e.Stage).Inc()
			}
		},
		OnRunEnd: func(_ context.Context, e *pipeline.RunEvent) {
			m.Runs.WithLabelValues(outcome(e.Err)).Inc()
		},
	}
}

// RecordInvalid counts a request rejected before the pipeline started.
func (m *Metrics) RecordInvalid() {
	m.Runs.WithLabelValues(OutcomeInvalid).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	default:
		return OutcomeFailed
	}
}
