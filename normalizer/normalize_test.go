package normalizer_test

import (
	"testing"
	"time"

	"call-productivity/models"
	"call-productivity/normalizer"
	"call-productivity/roster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalize(t *testing.T) {
	tests := map[string]struct {
		raw          models.RawCallRecord
		agent        *string
		validStart   bool
		date         string
		hour         int
		weekday      time.Weekday
		validTalk    bool
		talk         time.Duration
		expectMissed bool
	}{
		"AttendedCall_AliasResolved": {
			raw:        models.RawCallRecord{AgentName: strPtr("Jorge"), CallStartTime: "2025-01-21 09:15:00", TalkTime: "0:05:00"},
			agent:      strPtr(roster.Jorge),
			validStart: true,
			date:       "2025-01-21",
			hour:       9,
			weekday:    time.Tuesday,
			validTalk:  true,
			talk:       5 * time.Minute,
		},
		"MissedCall_NoAgent": {
			raw:          models.RawCallRecord{CallStartTime: "2025-01-22 11:40:10", TalkTime: "0:00:00"},
			validStart:   true,
			date:         "2025-01-22",
			hour:         11,
			weekday:      time.Wednesday,
			validTalk:    true,
			expectMissed: true,
		},
		"UnmappedAgent_PassesThrough": {
			raw:        models.RawCallRecord{AgentName: strPtr("Lucia"), CallStartTime: "2025-01-25T18:00:00", TalkTime: "00:01:30"},
			agent:      strPtr("Lucia"),
			validStart: true,
			date:       "2025-01-25",
			hour:       18,
			weekday:    time.Saturday,
			validTalk:  true,
			talk:       90 * time.Second,
		},
		"BlankAgent_IsAbsent": {
			raw:        models.RawCallRecord{AgentName: strPtr("   "), CallStartTime: "1/26/2025 8:05", TalkTime: "0:02:00"},
			validStart: true,
			date:       "2025-01-26",
			hour:       8,
			weekday:    time.Sunday,
			validTalk:  true,
			talk:       2 * time.Minute,
		},
		"InvalidTimestamp": {
			raw:       models.RawCallRecord{AgentName: strPtr("Maria"), CallStartTime: "yesterday", TalkTime: "0:00:00"},
			agent:     strPtr(roster.Maria),
			validTalk: true,
			// Missed status only depends on the duration.
			expectMissed: true,
		},
		"InvalidDuration_NotMissed": {
			raw:        models.RawCallRecord{AgentName: strPtr("Jonathan"), CallStartTime: "2025-01-23 13:00:00", TalkTime: "n/a"},
			agent:      strPtr(roster.Jonathan),
			validStart: true,
			date:       "2025-01-23",
			hour:       13,
			weekday:    time.Thursday,
		},
		"EmptyDuration_NotMissed": {
			raw:        models.RawCallRecord{CallStartTime: "2025-01-24 10:00", TalkTime: ""},
			validStart: true,
			date:       "2025-01-24",
			hour:       10,
			weekday:    time.Friday,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec := normalizer.Normalize(tt.raw, time.UTC)

			assert.Equal(t, tt.agent, rec.AgentName)
			assert.Equal(t, tt.validStart, rec.Start.Valid)
			assert.Equal(t, tt.date, rec.Date)
			if tt.validStart {
				assert.Equal(t, tt.hour, rec.Hour)
				assert.Equal(t, tt.weekday, rec.Weekday)
			}
			assert.Equal(t, tt.validTalk, rec.Talk.Valid)
			assert.Equal(t, tt.talk, rec.Talk.Value)
			assert.Equal(t, tt.expectMissed, rec.IsMissed)
		})
	}
}

func TestNormalize_UsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)

	rec := normalizer.Normalize(models.RawCallRecord{CallStartTime: "2025-01-21 23:30:00", TalkTime: "0:01:00"}, loc)
	require.True(t, rec.Start.Valid)
	assert.Equal(t, loc, rec.Start.Time.Location())
	assert.Equal(t, 23, rec.Hour)

	// Explicit offsets are kept as given.
	rec = normalizer.Normalize(models.RawCallRecord{CallStartTime: "2025-01-21T10:00:00Z", TalkTime: "0:01:00"}, loc)
	require.True(t, rec.Start.Valid)
	assert.Equal(t, 10, rec.Hour)
}

func TestNormalizeAll_PreservesOrder(t *testing.T) {
	raw := []models.RawCallRecord{
		{Line: 2, CallStartTime: "2025-01-21 09:00:00", TalkTime: "0:00:00"},
		{Line: 3, CallStartTime: "bad", TalkTime: "0:01:00"},
		{Line: 4, CallStartTime: "2025-01-21 10:00:00", TalkTime: "0:02:00"},
	}

	records := normalizer.NormalizeAll(raw, nil)
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, raw[i].Line, rec.Line)
	}
}

func TestParseDuration(t *testing.T) {
	tests := map[string]struct {
		input    string
		valid    bool
		expected time.Duration
	}{
		"Zero":             {input: "0:00:00", valid: true, expected: 0},
		"PaddedZero":       {input: "00:00:00", valid: true, expected: 0},
		"FiveMinutes":      {input: "0:05:00", valid: true, expected: 5 * time.Minute},
		"Fraction":         {input: "0:00:01.5", valid: true, expected: 1500 * time.Millisecond},
		"Days":             {input: "1 days 01:00:00", valid: true, expected: 25 * time.Hour},
		"GoSyntax":         {input: "2m30s", valid: true, expected: 150 * time.Second},
		"GoZero":           {input: "0s", valid: true, expected: 0},
		"Whitespace":       {input: "  0:00:10 ", valid: true, expected: 10 * time.Second},
		"Empty":            {input: "", valid: false},
		"Garbage":          {input: "abc", valid: false},
		"MinutesOverflow":  {input: "0:75:00", valid: false},
		"SecondsOverflow":  {input: "0:00:60", valid: false},
		"Negative":         {input: "-0:05:00", valid: false},
		"NegativeGoSyntax": {input: "-5m", valid: false},
		"TwoParts":         {input: "05:00", valid: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			d := normalizer.ParseDuration(tt.input)
			assert.Equal(t, tt.valid, d.Valid)
			if tt.valid {
				assert.Equal(t, tt.expected, d.Value)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := map[string]struct {
		input    string
		valid    bool
		expected time.Time
	}{
		"ISOSpace":    {input: "2025-01-21 09:15:00", valid: true, expected: time.Date(2025, 1, 21, 9, 15, 0, 0, time.UTC)},
		"ISOMinutes":  {input: "2025-01-21 09:15", valid: true, expected: time.Date(2025, 1, 21, 9, 15, 0, 0, time.UTC)},
		"ISOFraction": {input: "2025-01-21 09:15:00.250", valid: true, expected: time.Date(2025, 1, 21, 9, 15, 0, 250000000, time.UTC)},
		"RFC3339":     {input: "2025-01-21T09:15:00Z", valid: true, expected: time.Date(2025, 1, 21, 9, 15, 0, 0, time.UTC)},
		"USFormat":    {input: "01/21/2025 09:15:00", valid: true, expected: time.Date(2025, 1, 21, 9, 15, 0, 0, time.UTC)},
		"USShort":     {input: "1/21/2025 9:15", valid: true, expected: time.Date(2025, 1, 21, 9, 15, 0, 0, time.UTC)},
		"DateOnly":    {input: "2025-01-21", valid: true, expected: time.Date(2025, 1, 21, 0, 0, 0, 0, time.UTC)},
		"Empty":       {input: "", valid: false},
		"Garbage":     {input: "not a date", valid: false},
		"BadMonth":    {input: "2025-13-01 10:00:00", valid: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ts := normalizer.ParseTimestamp(tt.input, time.UTC)
			assert.Equal(t, tt.valid, ts.Valid)
			if tt.valid {
				assert.True(t, tt.expected.Equal(ts.Time), "expected %v, got %v", tt.expected, ts.Time)
			}
		})
	}
}
