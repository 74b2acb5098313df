// Package metrics provides Prometheus metrics for bomflow pipelines
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the pipeline
type Metrics struct {
	// Run metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram

	// Stage metrics
	StagesTotal   *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec

	// Engine metrics
	NodesNormalizedTotal    prometheus.Counter
	ItemsFlattenedTotal     prometheus.Counter
	ValidationIssuesTotal   *prometheus.CounterVec
	ComparisonOutcomesTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{}

	m.RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bomflow_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"status"},
	)

	m.RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bomflow_run_duration_seconds",
			Help:    "Duration of full pipeline runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	m.StagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bomflow_stages_total",
			Help: "Total number of pipeline stage executions",
		},
		[]string{"stage", "status"},
	)

	m.StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bomflow_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	m.NodesNormalizedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bomflow_nodes_normalized_total",
			Help: "Total number of assembly nodes normalized",
		},
	)

	m.ItemsFlattenedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bomflow_items_flattened_total",
			Help: "Total number of flat items emitted",
		},
	)

	m.ValidationIssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bomflow_validation_issues_total",
			Help: "Total number of validation issues found",
		},
		[]string{"severity"},
	)

	m.ComparisonOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bomflow_comparison_outcomes_total",
			Help: "Total number of comparison classifications",
		},
		[]string{"outcome"},
	)

	return m
}

// RecordRun records a completed pipeline run
func (m *Metrics) RecordRun(status string, duration time.Duration) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(duration.Seconds())
}

// RecordStage records one stage execution
func (m *Metrics) RecordStage(stage, status string, duration time.Duration) {
	m.StagesTotal.WithLabelValues(stage, status).Inc()
	m.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordValidationIssues records issue counts by severity
func (m *Metrics) RecordValidationIssues(errors, warnings int) {
	m.ValidationIssuesTotal.WithLabelValues("error").Add(float64(errors))
	m.ValidationIssuesTotal.WithLabelValues("warning").Add(float64(warnings))
}

// RecordComparisonOutcomes records classification counts from one comparison
func (m *Metrics) RecordComparisonOutcomes(newItems, exact, changed, duplicates int) {
	m.ComparisonOutcomesTotal.WithLabelValues("new").Add(float64(newItems))
	m.ComparisonOutcomesTotal.WithLabelValues("exact_match").Add(float64(exact))
	m.ComparisonOutcomesTotal.WithLabelValues("changed").Add(float64(changed))
	m.ComparisonOutcomesTotal.WithLabelValues("duplicate").Add(float64(duplicates))
}
