// Package attribution charges each call record to the agents responsible for it.
//
// A missed call inside a shift window is charged to every agent on duty, so
// one source record can expand into several attributed records.
package attribution

import (
	"call-productivity/models"
	"call-productivity/roster"

	"github.com/samber/lo"
)

// Expand attributes every record using r. Output order follows input order;
// records expanded from the same source are contiguous.
func Expand(records []models.CallRecord, r roster.Roster) []models.AttributedCallRecord {
	return lo.FlatMap(records, func(rec models.CallRecord, _ int) []models.AttributedCallRecord {
		return ExpandRecord(rec, r)
	})
}

// ExpandRecord returns the attributed records for a single call. It returns
// nil when nobody can be held responsible for the call.
func ExpandRecord(rec models.CallRecord, r roster.Roster) []models.AttributedCallRecord {
	if rec.IsMissed {
		if onDuty := responsibleForMissed(rec, r); len(onDuty) > 0 {
			return lo.Map(onDuty, func(agent string, _ int) models.AttributedCallRecord {
				return models.AttributedCallRecord{CallRecord: rec, ResponsibleAgent: agent}
			})
		}
	}

	if !rec.HasAgent() {
		return nil
	}
	return []models.AttributedCallRecord{{CallRecord: rec, ResponsibleAgent: *rec.AgentName}}
}

// responsibleForMissed returns the on-duty agents at the call's hour.
// A call without a valid start time has no hour and so no coverage.
func responsibleForMissed(rec models.CallRecord, r roster.Roster) []string {
	if !rec.Start.Valid {
		return nil
	}
	return r.OnDutyAgents(rec.Hour)
}
