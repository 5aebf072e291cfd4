// Package metrics counts workflow outcomes for the CLIs and optionally pushes them
// to a Prometheus Pushgateway when a run finishes.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"allweather/internal/workflow"
)

type Registry struct {
	registry         *prometheus.Registry
	runsTotal        *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	failuresTotal    *prometheus.CounterVec
	gasFallbackTotal *prometheus.CounterVec
	runDuration      *prometheus.HistogramVec
	gasUsed          *prometheus.GaugeVec
}

func New() *Registry {
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allweather_workflow_runs_total",
		Help: "Workflow runs by operation and final status",
	}, []string{"operation", "status"})

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allweather_workflow_transitions_total",
		Help: "State transitions entered by the workflow",
	}, []string{"operation", "state"})

	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allweather_workflow_failures_total",
		Help: "Failed runs by the state they aborted in",
	}, []string{"operation", "state"})

	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allweather_gas_fallback_total",
		Help: "Submissions that used the fallback gas limit after estimation failed",
	}, []string{"operation"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "allweather_workflow_duration_seconds",
		Help:    "Wall time from validation to a terminal state",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	}, []string{"operation"})

	gas := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "allweather_last_gas_used",
		Help: "Gas used by the last confirmed transaction",
	}, []string{"operation"})

	r := prometheus.NewRegistry()
	r.MustRegister(runs, transitions, failures, fallbacks, duration, gas)

	return &Registry{
		registry:         r,
		runsTotal:        runs,
		transitionsTotal: transitions,
		failuresTotal:    failures,
		gasFallbackTotal: fallbacks,
		runDuration:      duration,
		gasUsed:          gas,
	}
}

func (m *Registry) Gatherer() prometheus.Gatherer {
	return m.registry
}

func (m *Registry) Transition(req workflow.Request, state workflow.State) {
	m.transitionsTotal.WithLabelValues(req.Op.String(), state.String()).Inc()
}

func (m *Registry) Completed(req workflow.Request, res *workflow.Result, err error, elapsed time.Duration) {
	op := req.Op.String()
	m.runDuration.WithLabelValues(op).Observe(elapsed.Seconds())

	if err != nil {
		m.runsTotal.WithLabelValues(op, "failed").Inc()
		state, _ := workflow.FailedState(err)
		m.failuresTotal.WithLabelValues(op, state.String()).Inc()
		return
	}
	m.runsTotal.WithLabelValues(op, "succeeded").Inc()
	if res == nil {
		return
	}
	if errors.Is(res.EstimateErr, workflow.ErrEstimation) {
		m.gasFallbackTotal.WithLabelValues(op).Inc()
	}
	m.gasUsed.WithLabelValues(op).Set(float64(res.GasUsed))
}

// Push sends the registry to a Pushgateway. An empty url is a no-op.
func (m *Registry) Push(url, job string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(m.registry).Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
