// Package pipeline runs the whole computation for one loaded dataset:
// normalize, filter by weekday, attribute to agents and aggregate.
package pipeline

import (
	"time"

	"call-productivity/aggregator"
	"call-productivity/attribution"
	"call-productivity/filter"
	"call-productivity/metrics"
	"call-productivity/models"
	"call-productivity/normalizer"
	"call-productivity/roster"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options configures a run. The zero value is usable.
type Options struct {
	// Location for timestamps without a zone. Defaults to UTC.
	Location *time.Location
	// Locale for weekday labels. Defaults to filter.DefaultLocale.
	Locale string
	// Filter is applied before every table, the heatmap included.
	Filter filter.WeekdayFilter
	// AllWeekdays keeps all seven heatmap columns even without calls.
	AllWeekdays bool
	// Roster defaults to roster.Default.
	Roster roster.Roster
	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Locale == "" {
		o.Locale = filter.DefaultLocale
	}
	if o.Roster == nil {
		o.Roster = roster.Default
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	return o
}

// Run computes the result tables for raw. It only fails on invalid options;
// malformed records are counted and left out.
func Run(raw []models.RawCallRecord, opts Options) (*models.Report, error) {
	start := time.Now()
	opts = opts.withDefaults()
	if err := filter.ValidateLocale(opts.Locale); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := opts.Logger.With().
		Str("component", "pipeline").
		Str("run_id", runID).
		Logger()

	metrics.ResetPipelineGauges()

	report := &models.Report{
		RunID:  runID,
		Filter: opts.Filter.Label(opts.Locale),
		Locale: opts.Locale,
	}
	stats := &report.Stats
	stats.InputRecords = len(raw)

	records := normalizer.NormalizeAll(raw, opts.Location)
	for _, rec := range records {
		if !rec.Start.Valid {
			stats.InvalidTimestamps++
			logger.Debug().Int("line", rec.Line).Msg("unparsable call start time")
		}
		if !rec.Talk.Valid {
			stats.InvalidDurations++
			logger.Debug().Int("line", rec.Line).Msg("unparsable talk time")
		}
	}

	filtered := opts.Filter.Apply(records)
	stats.FilteredRecords = len(filtered)

	expanded := make([]models.AttributedCallRecord, 0, len(filtered))
	for _, rec := range filtered {
		out := attribution.ExpandRecord(rec, opts.Roster)
		if rec.IsMissed {
			stats.MissedCalls++
			metrics.FanOutSize.Observe(float64(len(out)))
		}
		if len(out) == 0 {
			stats.DroppedRecords++
			logger.Debug().
				Int("line", rec.Line).
				Bool("missed", rec.IsMissed).
				Msg("no responsible agent, record dropped")
			continue
		}
		expanded = append(expanded, out...)
	}
	stats.AttributedRecords = len(expanded)

	var skippedAgent, skippedTotals, skippedPopulation int
	report.AgentDaily, skippedAgent = aggregator.DailyByAgent(expanded)
	report.DailyTotals, skippedTotals = aggregator.DailyTotals(expanded)
	report.Population, skippedPopulation = aggregator.DailyPopulation(filtered, opts.Locale)
	report.Heatmap = aggregator.HourWeekday(filtered, opts.AllWeekdays)
	stats.SkippedGroups = skippedAgent + skippedTotals + skippedPopulation

	recordRunMetrics(report, skippedAgent, skippedTotals, skippedPopulation)
	metrics.PipelineDurationSeconds.Observe(time.Since(start).Seconds())

	logger.Info().
		Int("input_records", stats.InputRecords).
		Int("filtered_records", stats.FilteredRecords).
		Int("invalid_timestamps", stats.InvalidTimestamps).
		Int("invalid_durations", stats.InvalidDurations).
		Int("missed_calls", stats.MissedCalls).
		Int("dropped_records", stats.DroppedRecords).
		Int("attributed_records", stats.AttributedRecords).
		Int("skipped_groups", stats.SkippedGroups).
		Str("filter", report.Filter).
		Dur("elapsed", time.Since(start)).
		Msg("pipeline run complete")

	return report, nil
}

func recordRunMetrics(report *models.Report, skippedAgent, skippedTotals, skippedPopulation int) {
	stats := report.Stats
	metrics.InputRecords.Set(float64(stats.InputRecords))
	metrics.InvalidFields.WithLabelValues("call_start_time").Set(float64(stats.InvalidTimestamps))
	metrics.InvalidFields.WithLabelValues("talk_time").Set(float64(stats.InvalidDurations))
	metrics.MissedCalls.Set(float64(stats.MissedCalls))
	metrics.DroppedRecords.Set(float64(stats.DroppedRecords))
	metrics.AttributedRecords.Set(float64(stats.AttributedRecords))
	metrics.SkippedGroups.WithLabelValues("agent_daily").Set(float64(skippedAgent))
	metrics.SkippedGroups.WithLabelValues("daily_totals").Set(float64(skippedTotals))
	metrics.SkippedGroups.WithLabelValues("population").Set(float64(skippedPopulation))

	type counts struct{ total, attended int }
	byAgent := make(map[string]*counts)
	for _, row := range report.AgentDaily {
		c, ok := byAgent[row.Agent]
		if !ok {
			c = &counts{}
			byAgent[row.Agent] = c
		}
		c.total += row.Total
		c.attended += row.Attended
	}
	for agent, c := range byAgent {
		metrics.AgentProductivity.WithLabelValues(agent).Set(aggregator.Percent(c.attended, c.total))
	}

	metrics.RunsTotal.Inc()
}
