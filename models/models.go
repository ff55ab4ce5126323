package models

import "time"

// DateLayout is the layout used for the civil date keys of every metric table.
const DateLayout = "2006-01-02"

// RawCallRecord is one row handed over by the ingestion adapter.
// Fields are kept as text; nothing has been validated yet.
type RawCallRecord struct {
	Line          int
	AgentName     *string
	CallStartTime string
	TalkTime      string
}

// Timestamp is a parsed call start instant. Valid is false when the source
// value could not be parsed.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

// Duration is a parsed talk duration. Valid is false when the source value
// could not be parsed.
type Duration struct {
	Value time.Duration
	Valid bool
}

// CallRecord is the canonical, typed form of a RawCallRecord.
// Date, Hour and Weekday are only meaningful when Start.Valid is true.
type CallRecord struct {
	Line      int
	AgentName *string
	Start     Timestamp
	Talk      Duration
	Date      string
	Hour      int
	Weekday   time.Weekday
	IsMissed  bool
}

// HasAgent reports whether the record carries an agent identity.
func (r CallRecord) HasAgent() bool {
	return r.AgentName != nil && *r.AgentName != ""
}

// AttributedCallRecord is a CallRecord charged to one responsible agent.
type AttributedCallRecord struct {
	CallRecord
	ResponsibleAgent string
}

// DailyAgentMetric holds attendance counts for one agent on one date.
type DailyAgentMetric struct {
	Agent        string  `json:"agent"`
	Date         string  `json:"date"`
	Total        int     `json:"total_calls"`
	Missed       int     `json:"missed_calls"`
	Attended     int     `json:"attended_calls"`
	Productivity float64 `json:"productivity_pct"`
}

// DailyAggregateMetric holds attendance counts summed over every agent for a date.
type DailyAggregateMetric struct {
	Date         string  `json:"date"`
	Total        int     `json:"total_calls"`
	Missed       int     `json:"missed_calls"`
	Attended     int     `json:"attended_calls"`
	Productivity float64 `json:"productivity_pct"`
}

// DailyPopulationMetric describes the real call volume of a date, without
// shift fan-out.
type DailyPopulationMetric struct {
	Date         string  `json:"date"`
	Received     int     `json:"received_calls"`
	Missed       int     `json:"missed_calls"`
	Productivity float64 `json:"productivity_pct"`
	Abandonment  float64 `json:"abandonment_pct"`
	Weekday      string  `json:"weekday"`
}

// HourWeekdayHistogram counts calls per (hour, weekday) cell.
// Counts[i][j] is the count for Hours[i] and Weekdays[j].
type HourWeekdayHistogram struct {
	Hours    []int          `json:"hours"`
	Weekdays []time.Weekday `json:"weekdays"`
	Counts   [][]int        `json:"counts"`
}

// RunStats summarises what a pipeline run kept and what it discarded.
type RunStats struct {
	InputRecords      int `json:"input_records"`
	FilteredRecords   int `json:"filtered_records"`
	InvalidTimestamps int `json:"invalid_timestamps"`
	InvalidDurations  int `json:"invalid_durations"`
	MissedCalls       int `json:"missed_calls"`
	DroppedRecords    int `json:"dropped_records"`
	AttributedRecords int `json:"attributed_records"`
	SkippedGroups     int `json:"skipped_groups"`
}

// Report bundles the result tables of one pipeline run.
type Report struct {
	RunID       string                  `json:"run_id"`
	Filter      string                  `json:"filter"`
	Locale      string                  `json:"locale"`
	AgentDaily  []DailyAgentMetric      `json:"agent_daily"`
	DailyTotals []DailyAggregateMetric  `json:"daily_totals"`
	Population  []DailyPopulationMetric `json:"population"`
	Heatmap     HourWeekdayHistogram    `json:"heatmap"`
	Stats       RunStats                `json:"stats"`
}
