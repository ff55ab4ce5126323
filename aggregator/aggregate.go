// Package aggregator reduces call records into the daily productivity tables
// and the hour-by-weekday call volume histogram.
//
// Records without a valid start time have no date and are left out of every
// table. Only records with a valid talk time count towards a group's total.
// A group whose total is zero has no defined percentage and is skipped; the
// number of skipped groups is returned alongside the rows.
package aggregator

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"call-productivity/filter"
	"call-productivity/models"

	"github.com/samber/lo"
)

type tally struct {
	total   int
	missed  int
	weekday time.Weekday
}

func (t *tally) add(rec models.CallRecord) {
	if !rec.Talk.Valid {
		return
	}
	t.total++
	if rec.IsMissed {
		t.missed++
	}
}

type agentDay struct {
	agent string
	date  string
}

// Percent returns part/total*100 rounded to two decimals, half to even.
// The caller must ensure total > 0.
func Percent(part, total int) float64 {
	return Round2(float64(part) / float64(total) * 100)
}

// Round2 rounds x to two decimals using round-half-to-even.
func Round2(x float64) float64 {
	return math.RoundToEven(x*100) / 100
}

// DailyByAgent groups attributed records by (responsible agent, date).
// Rows are sorted by agent, then date.
func DailyByAgent(records []models.AttributedCallRecord) (rows []models.DailyAgentMetric, skipped int) {
	groups := make(map[agentDay]*tally)
	for _, rec := range records {
		if !rec.Start.Valid {
			continue
		}
		key := agentDay{agent: rec.ResponsibleAgent, date: rec.Date}
		g, ok := groups[key]
		if !ok {
			g = &tally{}
			groups[key] = g
		}
		g.add(rec.CallRecord)
	}

	keys := lo.Keys(groups)
	slices.SortFunc(keys, func(a, b agentDay) int {
		if c := cmp.Compare(a.agent, b.agent); c != 0 {
			return c
		}
		return cmp.Compare(a.date, b.date)
	})

	rows = make([]models.DailyAgentMetric, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		if g.total == 0 {
			skipped++
			continue
		}
		rows = append(rows, models.DailyAgentMetric{
			Agent:        k.agent,
			Date:         k.date,
			Total:        g.total,
			Missed:       g.missed,
			Attended:     g.total - g.missed,
			Productivity: Percent(g.total-g.missed, g.total),
		})
	}
	return rows, skipped
}

// DailyTotals groups attributed records by date across all agents. Shift
// fan-out means a missed call is counted once per responsible agent.
func DailyTotals(records []models.AttributedCallRecord) (rows []models.DailyAggregateMetric, skipped int) {
	groups, dates := groupByDate(lo.Map(records, func(rec models.AttributedCallRecord, _ int) models.CallRecord {
		return rec.CallRecord
	}))

	rows = make([]models.DailyAggregateMetric, 0, len(dates))
	for _, d := range dates {
		g := groups[d]
		if g.total == 0 {
			skipped++
			continue
		}
		rows = append(rows, models.DailyAggregateMetric{
			Date:         d,
			Total:        g.total,
			Missed:       g.missed,
			Attended:     g.total - g.missed,
			Productivity: Percent(g.total-g.missed, g.total),
		})
	}
	return rows, skipped
}

// DailyPopulation groups canonical records by date, without attribution, so
// it reflects the calls actually received. Weekday labels use locale.
func DailyPopulation(records []models.CallRecord, locale string) (rows []models.DailyPopulationMetric, skipped int) {
	groups, dates := groupByDate(records)

	rows = make([]models.DailyPopulationMetric, 0, len(dates))
	for _, d := range dates {
		g := groups[d]
		if g.total == 0 {
			skipped++
			continue
		}
		productivity := Percent(g.total-g.missed, g.total)
		rows = append(rows, models.DailyPopulationMetric{
			Date:         d,
			Received:     g.total,
			Missed:       g.missed,
			Productivity: productivity,
			Abandonment:  Round2(100 - productivity),
			Weekday:      filter.Label(g.weekday, locale),
		})
	}
	return rows, skipped
}

// groupByDate tallies records per date and returns the dates in ascending order.
func groupByDate(records []models.CallRecord) (map[string]*tally, []string) {
	groups := make(map[string]*tally)
	for _, rec := range records {
		if !rec.Start.Valid {
			continue
		}
		g, ok := groups[rec.Date]
		if !ok {
			g = &tally{weekday: rec.Weekday}
			groups[rec.Date] = g
		}
		g.add(rec)
	}

	dates := lo.Keys(groups)
	slices.Sort(dates)
	return groups, dates
}

// HourWeekday counts canonical records per (hour, weekday), whatever their
// missed status or talk time validity. Hours are the ones present in the
// data, ascending. Weekday columns run Monday to Sunday and only include
// weekdays present in the data unless allWeekdays is set.
func HourWeekday(records []models.CallRecord, allWeekdays bool) models.HourWeekdayHistogram {
	type cell struct {
		hour int
		day  time.Weekday
	}
	counts := make(map[cell]int)
	hours := make(map[int]struct{})
	days := make(map[time.Weekday]struct{})

	for _, rec := range records {
		if !rec.Start.Valid {
			continue
		}
		counts[cell{hour: rec.Hour, day: rec.Weekday}]++
		hours[rec.Hour] = struct{}{}
		days[rec.Weekday] = struct{}{}
	}

	h := models.HourWeekdayHistogram{
		Hours: lo.Keys(hours),
		Weekdays: lo.Filter(filter.WeekOrder, func(d time.Weekday, _ int) bool {
			_, ok := days[d]
			return allWeekdays || ok
		}),
	}
	slices.Sort(h.Hours)

	h.Counts = make([][]int, len(h.Hours))
	for i, hour := range h.Hours {
		h.Counts[i] = make([]int, len(h.Weekdays))
		for j, d := range h.Weekdays {
			h.Counts[i][j] = counts[cell{hour: hour, day: d}]
		}
	}
	return h
}

// HourLabel formats an hour row label, e.g. 9 -> "9:00".
func HourLabel(hour int) string {
	return fmt.Sprintf("%d:00", hour)
}

// Agents lists the agents present in rows, in order of first appearance.
func Agents(rows []models.DailyAgentMetric) []string {
	return lo.Uniq(lo.Map(rows, func(r models.DailyAgentMetric, _ int) string {
		return r.Agent
	}))
}

// FilterAgent returns the rows of one agent sorted by date.
func FilterAgent(rows []models.DailyAgentMetric, agent string) []models.DailyAgentMetric {
	out := lo.Filter(rows, func(r models.DailyAgentMetric, _ int) bool {
		return r.Agent == agent
	})
	slices.SortFunc(out, func(a, b models.DailyAgentMetric) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return out
}
