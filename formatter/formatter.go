package formatter

import (
	"call-productivity/aggregator"
	"call-productivity/filter"
	"call-productivity/models"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Table names accepted by FormatCSV.
const (
	TableDetail     = "detail"
	TableDaily      = "daily"
	TableHeatmap    = "heatmap"
	TablePopulation = "population"
)

// Tables lists every table name, in display order.
var Tables = []string{TableDetail, TableDaily, TableHeatmap, TablePopulation}

// ReportData holds prepared report data used by all formatters
type ReportData struct {
	RunID      string                         `json:"run_id"`
	Filter     string                         `json:"filter"`
	Agents     []AgentDetail                  `json:"agents"`
	Daily      []models.DailyAggregateMetric  `json:"daily_totals"`
	Heatmap    HeatmapData                    `json:"heatmap"`
	Population []models.DailyPopulationMetric `json:"population"`
	Stats      models.RunStats                `json:"stats"`
}

// AgentDetail groups one agent's daily rows, sorted by date
type AgentDetail struct {
	Agent string                    `json:"agent"`
	Days  []models.DailyAgentMetric `json:"days"`
}

// HeatmapData is the histogram with display labels
type HeatmapData struct {
	Hours    []string `json:"hours"`
	Weekdays []string `json:"weekdays"`
	Counts   [][]int  `json:"counts"`
}

// prepareReportData organizes report data for formatting. A non-empty agent
// restricts the detail view to that agent.
func prepareReportData(report *models.Report, agent string) *ReportData {
	agents := aggregator.Agents(report.AgentDaily)
	if agent != "" {
		agents = []string{agent}
	}

	details := make([]AgentDetail, 0, len(agents))
	for _, a := range agents {
		details = append(details, AgentDetail{
			Agent: a,
			Days:  aggregator.FilterAgent(report.AgentDaily, a),
		})
	}

	heatmap := HeatmapData{
		Hours:    make([]string, len(report.Heatmap.Hours)),
		Weekdays: make([]string, len(report.Heatmap.Weekdays)),
		Counts:   report.Heatmap.Counts,
	}
	for i, h := range report.Heatmap.Hours {
		heatmap.Hours[i] = aggregator.HourLabel(h)
	}
	for i, d := range report.Heatmap.Weekdays {
		heatmap.Weekdays[i] = filter.Label(d, report.Locale)
	}

	return &ReportData{
		RunID:      report.RunID,
		Filter:     report.Filter,
		Agents:     details,
		Daily:      report.DailyTotals,
		Heatmap:    heatmap,
		Population: report.Population,
		Stats:      report.Stats,
	}
}

// FormatText returns the text representation of the report.
// agent restricts the detail section to one agent; empty shows all agents.
func FormatText(report *models.Report, agent string) string {
	data := prepareReportData(report, agent)
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Weekday filter: %s\n", data.Filter))

	sb.WriteString("\n== Daily detail by agent ==\n")
	if len(data.Agents) == 0 {
		sb.WriteString("none\n")
	}
	for _, a := range data.Agents {
		sb.WriteString(a.Agent)
		sb.WriteString("\n")
		if len(a.Days) == 0 {
			sb.WriteString("  none\n")
		}
		for _, d := range a.Days {
			sb.WriteString("  ")
			sb.WriteString(formatCountsLine(d.Date, d.Total, d.Missed, d.Attended, d.Productivity))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n== Daily totals (all agents) ==\n")
	if len(data.Daily) == 0 {
		sb.WriteString("none\n")
	}
	for _, d := range data.Daily {
		sb.WriteString(formatCountsLine(d.Date, d.Total, d.Missed, d.Attended, d.Productivity))
		sb.WriteString("\n")
	}

	sb.WriteString("\n== Calls by hour and weekday ==\n")
	sb.WriteString(formatHeatmapText(data.Heatmap))

	sb.WriteString("\n== Daily productivity and abandonment ==\n")
	if len(data.Population) == 0 {
		sb.WriteString("none\n")
	}
	for _, p := range data.Population {
		sb.WriteString(fmt.Sprintf("%s (%s) : received=%d ; missed=%d ; productivity=%.2f%% ; abandonment=%.2f%%\n",
			p.Date, p.Weekday, p.Received, p.Missed, p.Productivity, p.Abandonment))
	}

	stats := data.Stats
	sb.WriteString(fmt.Sprintf("\nRecords: input=%d, filtered=%d, invalid start time=%d, invalid talk time=%d, dropped=%d, attributed=%d, skipped groups=%d\n",
		stats.InputRecords, stats.FilteredRecords, stats.InvalidTimestamps, stats.InvalidDurations,
		stats.DroppedRecords, stats.AttributedRecords, stats.SkippedGroups))

	return sb.String()
}

// FormatJSON returns the JSON representation of the report
func FormatJSON(report *models.Report, agent string) string {
	data := prepareReportData(report, agent)
	jsonBytes, _ := json.MarshalIndent(data, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns one table of the report as CSV
func FormatCSV(report *models.Report, table, agent string) (string, error) {
	data := prepareReportData(report, agent)
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	switch table {
	case TableDetail:
		writer.Write([]string{"Agent", "Date", "Total Calls", "Missed Calls", "Attended Calls", "Productivity (%)"})
		for _, a := range data.Agents {
			for _, d := range a.Days {
				writer.Write([]string{
					d.Agent, d.Date, strconv.Itoa(d.Total), strconv.Itoa(d.Missed),
					strconv.Itoa(d.Attended), formatPercent(d.Productivity),
				})
			}
		}
	case TableDaily:
		writer.Write([]string{"Date", "Total Calls", "Missed Calls", "Attended Calls", "Productivity (%)"})
		for _, d := range data.Daily {
			writer.Write([]string{
				d.Date, strconv.Itoa(d.Total), strconv.Itoa(d.Missed),
				strconv.Itoa(d.Attended), formatPercent(d.Productivity),
			})
		}
	case TableHeatmap:
		writer.Write(append([]string{"Hour"}, data.Heatmap.Weekdays...))
		for i, h := range data.Heatmap.Hours {
			row := []string{h}
			for _, c := range data.Heatmap.Counts[i] {
				row = append(row, strconv.Itoa(c))
			}
			writer.Write(row)
		}
	case TablePopulation:
		writer.Write([]string{"Date", "Received Calls", "Missed Calls", "Productivity (%)", "Abandonment (%)", "Weekday"})
		for _, p := range data.Population {
			writer.Write([]string{
				p.Date, strconv.Itoa(p.Received), strconv.Itoa(p.Missed),
				formatPercent(p.Productivity), formatPercent(p.Abandonment), p.Weekday,
			})
		}
	default:
		return "", fmt.Errorf("unknown table %q (want one of: %s)", table, strings.Join(Tables, ", "))
	}

	writer.Flush()
	return sb.String(), writer.Error()
}

// formatCountsLine formats a single date line for text output
func formatCountsLine(date string, total, missed, attended int, productivity float64) string {
	return fmt.Sprintf("%s : total=%d ; missed=%d ; attended=%d ; productivity=%.2f%%",
		date, total, missed, attended, productivity)
}

// formatHeatmapText renders the histogram as a fixed-width grid
func formatHeatmapText(h HeatmapData) string {
	if len(h.Hours) == 0 {
		return "none\n"
	}

	width := 5
	for _, d := range h.Weekdays {
		width = max(width, len([]rune(d)))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-6s", "Hour"))
	for _, d := range h.Weekdays {
		sb.WriteString(" ")
		sb.WriteString(padLeft(d, width))
	}
	sb.WriteString("\n")

	for i, hour := range h.Hours {
		sb.WriteString(fmt.Sprintf("%-6s", hour))
		for _, c := range h.Counts[i] {
			sb.WriteString(" ")
			sb.WriteString(padLeft(strconv.Itoa(c), width))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// padLeft right-aligns s in width runes
func padLeft(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
