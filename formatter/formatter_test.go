package formatter_test

import (
	"call-productivity/formatter"
	"call-productivity/models"
	"call-productivity/roster"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *models.Report {
	return &models.Report{
		RunID:  "run-1",
		Filter: "Todos",
		Locale: "es",
		AgentDaily: []models.DailyAgentMetric{
			{Agent: roster.Jorge, Date: "2025-01-22", Total: 2, Missed: 1, Attended: 1, Productivity: 50},
			{Agent: roster.Jorge, Date: "2025-01-21", Total: 4, Missed: 1, Attended: 3, Productivity: 75},
			{Agent: roster.Maria, Date: "2025-01-21", Total: 3, Missed: 2, Attended: 1, Productivity: 33.33},
		},
		DailyTotals: []models.DailyAggregateMetric{
			{Date: "2025-01-21", Total: 7, Missed: 3, Attended: 4, Productivity: 57.14},
		},
		Population: []models.DailyPopulationMetric{
			{Date: "2025-01-21", Received: 5, Missed: 2, Productivity: 60, Abandonment: 40, Weekday: "Martes"},
		},
		Heatmap: models.HourWeekdayHistogram{
			Hours:    []int{9, 13},
			Weekdays: []time.Weekday{time.Tuesday, time.Wednesday},
			Counts:   [][]int{{3, 0}, {2, 1}},
		},
		Stats: models.RunStats{InputRecords: 6, FilteredRecords: 6, DroppedRecords: 1, AttributedRecords: 9},
	}
}

func TestFormatText(t *testing.T) {
	tests := map[string]struct {
		report   *models.Report
		agent    string
		contains []string
		excludes []string
	}{
		"EmptyReport": {
			report: &models.Report{Filter: "Todos", Locale: "es"},
			contains: []string{
				"Weekday filter: Todos",
				"== Daily detail by agent ==\nnone",
				"== Daily totals (all agents) ==\nnone",
				"== Calls by hour and weekday ==\nnone",
				"== Daily productivity and abandonment ==\nnone",
			},
		},
		"AllAgents": {
			report: sampleReport(),
			contains: []string{
				roster.Jorge + "\n  2025-01-21 : total=4 ; missed=1 ; attended=3 ; productivity=75.00%\n  2025-01-22 : total=2",
				roster.Maria + "\n  2025-01-21 : total=3 ; missed=2 ; attended=1 ; productivity=33.33%",
				"2025-01-21 : total=7 ; missed=3 ; attended=4 ; productivity=57.14%",
				"Hour      Martes Miércoles",
				"9:00           3         0",
				"13:00          2         1",
				"2025-01-21 (Martes) : received=5 ; missed=2 ; productivity=60.00% ; abandonment=40.00%",
				"dropped=1, attributed=9",
			},
		},
		"SingleAgent": {
			report:   sampleReport(),
			agent:    roster.Maria,
			contains: []string{roster.Maria + "\n  2025-01-21 : total=3"},
			excludes: []string{"productivity=75.00%"},
		},
		"UnknownAgent": {
			report:   sampleReport(),
			agent:    "Nobody",
			contains: []string{"Nobody\n  none"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			output := formatter.FormatText(tt.report, tt.agent)
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, output, s)
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	output := formatter.FormatJSON(sampleReport(), "")

	var data formatter.ReportData
	require.NoError(t, json.Unmarshal([]byte(output), &data))

	assert.Equal(t, "run-1", data.RunID)
	require.Len(t, data.Agents, 2)
	assert.Equal(t, roster.Jorge, data.Agents[0].Agent)
	assert.Equal(t, "2025-01-21", data.Agents[0].Days[0].Date)
	assert.Equal(t, []string{"9:00", "13:00"}, data.Heatmap.Hours)
	assert.Equal(t, []string{"Martes", "Miércoles"}, data.Heatmap.Weekdays)
	assert.Contains(t, output, `"productivity_pct": 33.33`)
	assert.Contains(t, output, `"abandonment_pct": 40`)
}

func TestFormatCSV(t *testing.T) {
	tests := map[string]struct {
		table    string
		agent    string
		expected string
	}{
		"Detail": {
			table: formatter.TableDetail,
			agent: roster.Jorge,
			expected: "Agent,Date,Total Calls,Missed Calls,Attended Calls,Productivity (%)\n" +
				roster.Jorge + ",2025-01-21,4,1,3,75.00\n" +
				roster.Jorge + ",2025-01-22,2,1,1,50.00\n",
		},
		"Daily": {
			table: formatter.TableDaily,
			expected: "Date,Total Calls,Missed Calls,Attended Calls,Productivity (%)\n" +
				"2025-01-21,7,3,4,57.14\n",
		},
		"Heatmap": {
			table: formatter.TableHeatmap,
			expected: "Hour,Martes,Miércoles\n" +
				"9:00,3,0\n" +
				"13:00,2,1\n",
		},
		"Population": {
			table: formatter.TablePopulation,
			expected: "Date,Received Calls,Missed Calls,Productivity (%),Abandonment (%),Weekday\n" +
				"2025-01-21,5,2,60.00,40.00,Martes\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			output, err := formatter.FormatCSV(sampleReport(), tt.table, tt.agent)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, output)
		})
	}
}

func TestFormatCSV_UnknownTable(t *testing.T) {
	_, err := formatter.FormatCSV(sampleReport(), "pivot", "")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "detail, daily, heatmap, population"))
}
