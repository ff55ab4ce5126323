// Package metrics provides Prometheus observability metrics for the productivity pipeline.
// It includes Critical and Important metrics for business and operational visibility.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Business Impact Visibility
// =============================================================================

// MissedCalls tracks missed calls in the last run, before attribution.
var MissedCalls = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "pipeline",
	Name:      "missed_calls",
	Help:      "Number of missed calls (zero talk time) in the last run",
})

// AttributedRecords tracks records produced by attribution in the last run.
// Shift fan-out makes this larger than the number of calls.
var AttributedRecords = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "pipeline",
	Name:      "attributed_records",
	Help:      "Number of attributed call records produced in the last run",
})

// FanOutSize tracks how many agents each missed call was charged to.
var FanOutSize = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "pipeline",
	Name:      "missed_call_fanout",
	Help:      "Number of agents a missed call was charged to",
	Buckets:   []float64{0, 1, 2, 3, 4, 5},
})

// AgentProductivity tracks each agent's productivity percentage over the whole run.
var AgentProductivity = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "pipeline",
	Name:      "agent_productivity_percent",
	Help:      "Attended over total attributed calls per agent for the last run",
}, []string{"agent"})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// InputRecords tracks records received by the last run.
var InputRecords = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "pipeline",
	Name:      "input_records",
	Help:      "Number of raw call records received by the last run",
})

// InvalidFields tracks unparsable values by field.
var InvalidFields = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "pipeline",
	Name:      "invalid_fields",
	Help:      "Records whose field could not be parsed in the last run",
}, []string{"field"})

// DroppedRecords tracks records nobody could be charged for.
var DroppedRecords = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "pipeline",
	Name:      "dropped_records",
	Help:      "Records without a responsible agent in the last run",
})

// SkippedGroups tracks metric groups left out because their total was zero.
var SkippedGroups = factory.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "pipeline",
	Name:      "skipped_groups",
	Help:      "Groups without any valid talk time, by table",
}, []string{"table"})

// RunsTotal counts completed pipeline runs.
var RunsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "pipeline",
	Name:      "runs_total",
	Help:      "Total number of completed pipeline runs",
})

// PipelineDurationSeconds tracks time to compute all result tables.
var PipelineDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "pipeline",
	Name:      "duration_seconds",
	Help:      "Time taken to compute the result tables",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
})

// ParserErrorsTotal tracks parse errors by error type.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total parse errors by error type",
}, []string{"error_type"})

// ParserRecordsTotal tracks total records successfully parsed.
var ParserRecordsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "records_total",
	Help:      "Total call log rows successfully read",
})

// ParserDurationSeconds tracks time to parse input files.
var ParserDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "parser",
	Name:      "duration_seconds",
	Help:      "Time taken to read the call log input file",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// =============================================================================
// Helper Functions
// =============================================================================

// ResetPipelineGauges resets all pipeline gauges before a new run.
// Call this at the start of pipeline.Run.
func ResetPipelineGauges() {
	MissedCalls.Set(0)
	AttributedRecords.Set(0)
	InputRecords.Set(0)
	DroppedRecords.Set(0)
	InvalidFields.Reset()
	SkippedGroups.Reset()
	AgentProductivity.Reset()
}
