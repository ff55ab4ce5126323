// Package normalizer turns raw call-log rows into typed CallRecords.
//
// Unparsable timestamps and durations never fail a record: the value is
// marked invalid and the record is kept so later stages decide what to do.
package normalizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"call-productivity/models"
	"call-productivity/roster"
)

// timestampLayouts are tried in order. Layouts without a zone are read in
// the caller's location.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02",
}

// Normalize converts raw into its canonical form. Naive timestamps are
// interpreted in loc; a nil loc means UTC.
func Normalize(raw models.RawCallRecord, loc *time.Location) models.CallRecord {
	rec := models.CallRecord{
		Line:      raw.Line,
		AgentName: resolveAgent(raw.AgentName),
		Start:     ParseTimestamp(raw.CallStartTime, loc),
		Talk:      ParseDuration(raw.TalkTime),
	}

	if rec.Start.Valid {
		t := rec.Start.Time
		rec.Date = t.Format(models.DateLayout)
		rec.Hour = t.Hour()
		rec.Weekday = t.Weekday()
	}

	// Only an exact zero counts; an invalid duration is never a missed call.
	rec.IsMissed = rec.Talk.Valid && rec.Talk.Value == 0

	return rec
}

// NormalizeAll normalizes every raw record, preserving order.
func NormalizeAll(raw []models.RawCallRecord, loc *time.Location) []models.CallRecord {
	records := make([]models.CallRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, Normalize(r, loc))
	}
	return records
}

func resolveAgent(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	full := roster.ResolveAgent(trimmed)
	return &full
}

// ParseTimestamp parses a call start time. The result is invalid when no
// known layout matches.
func ParseTimestamp(value string, loc *time.Location) models.Timestamp {
	if loc == nil {
		loc = time.UTC
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return models.Timestamp{}
	}
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return models.Timestamp{Time: t, Valid: true}
		}
	}
	return models.Timestamp{}
}

// ParseDuration parses a talk time. Accepted forms are "H:MM:SS",
// "H:MM:SS.fff", "D days H:MM:SS" and Go duration strings such as "5m30s".
// Negative durations are invalid.
func ParseDuration(value string) models.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return models.Duration{}
	}

	d, err := parseClock(value)
	if err != nil {
		d, err = time.ParseDuration(value)
		if err != nil {
			return models.Duration{}
		}
	}
	if d < 0 {
		return models.Duration{}
	}
	return models.Duration{Value: d, Valid: true}
}

// parseClock handles the "[D day(s) ]H:MM:SS[.frac]" notation.
func parseClock(value string) (time.Duration, error) {
	var days time.Duration
	if fields := strings.Fields(value); len(fields) == 3 && strings.HasPrefix(fields[1], "day") {
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q: %w", fields[0], err)
		}
		days = time.Duration(n) * 24 * time.Hour
		value = fields[2]
	}

	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("expected H:MM:SS, got %q", value)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || strings.HasPrefix(parts[0], "-") {
		return 0, fmt.Errorf("invalid hours %q", parts[0])
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minutes %q", parts[1])
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || seconds < 0 || seconds >= 60 {
		return 0, fmt.Errorf("invalid seconds %q", parts[2])
	}

	d := days +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second))
	return d, nil
}
