// Package roster holds the fixed staffing tables: which agents are on duty at
// each hour of the day and how short agent names map to full identities.
package roster

import "slices"

// Agent identities.
const (
	Jorge    = "Jorge Cesar Flores Rivera"
	Maria    = "Maria Teresa Loredo Morales"
	Jonathan = "Jonathan Alejandro Zúñiga"
)

// Shift is a half-open hour window [StartHour, EndHour) and the agents on duty in it.
type Shift struct {
	StartHour int
	EndHour   int
	Agents    []string
}

// Covers reports whether hour falls inside the window.
func (s Shift) Covers(hour int) bool {
	return hour >= s.StartHour && hour < s.EndHour
}

// Roster is an ordered list of non-overlapping shifts.
type Roster []Shift

// Default is the call center's weekly shift plan.
var Default = Roster{
	{StartHour: 8, EndHour: 10, Agents: []string{Jorge}},
	{StartHour: 10, EndHour: 12, Agents: []string{Jorge, Maria}},
	{StartHour: 12, EndHour: 16, Agents: []string{Jorge, Maria, Jonathan}},
	{StartHour: 16, EndHour: 18, Agents: []string{Jonathan, Maria}},
	{StartHour: 18, EndHour: 20, Agents: []string{Jonathan}},
}

// OnDutyAgents returns the agents covering hour, in roster order.
// Hours without coverage, including out-of-range values, yield an empty slice.
// The returned slice is a copy and may be modified by the caller.
func (r Roster) OnDutyAgents(hour int) []string {
	for _, s := range r {
		if s.Covers(hour) {
			return slices.Clone(s.Agents)
		}
	}
	return []string{}
}

// OnDutyAgents looks hour up in the Default roster.
func OnDutyAgents(hour int) []string {
	return Default.OnDutyAgents(hour)
}

var aliases = map[string]string{
	"Jorge":    Jorge,
	"Maria":    Maria,
	"Jonathan": Jonathan,
}

// ResolveAgent maps a short agent name to its full identity.
// Names without an alias are returned unchanged.
func ResolveAgent(name string) string {
	if full, ok := aliases[name]; ok {
		return full
	}
	return name
}
