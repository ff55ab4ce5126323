// Package filter restricts call records to a single weekday before they are
// aggregated, and provides weekday labels in the supported display locales.
package filter

import (
	"fmt"
	"strings"
	"time"

	customerrors "call-productivity/errors"
	"call-productivity/models"

	"github.com/samber/lo"
)

// Supported display locales.
const (
	LocaleES = "es"
	LocaleEN = "en"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = LocaleES

var weekdayLabels = map[string][7]string{
	LocaleES: {"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"},
	LocaleEN: {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
}

var allLabels = map[string]string{
	LocaleES: "Todos",
	LocaleEN: "All",
}

// ValidateLocale returns ErrUnknownLocale for unsupported locales.
func ValidateLocale(locale string) error {
	if _, ok := weekdayLabels[locale]; !ok {
		return fmt.Errorf("%w: %q", customerrors.ErrUnknownLocale, locale)
	}
	return nil
}

// Label returns the display name of d in locale, falling back to English.
func Label(d time.Weekday, locale string) string {
	labels, ok := weekdayLabels[locale]
	if !ok {
		labels = weekdayLabels[LocaleEN]
	}
	return labels[d]
}

// Options returns the selector values for locale: the all sentinel followed
// by Monday through Sunday.
func Options(locale string) []string {
	opts := []string{AllLabel(locale)}
	for _, d := range WeekOrder {
		opts = append(opts, Label(d, locale))
	}
	return opts
}

// AllLabel returns the "all weekdays" sentinel in locale.
func AllLabel(locale string) string {
	if l, ok := allLabels[locale]; ok {
		return l
	}
	return allLabels[LocaleEN]
}

// WeekOrder is the canonical column order, Monday first.
var WeekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// WeekdayFilter selects records by weekday. The zero value matches everything.
type WeekdayFilter struct {
	day    time.Weekday
	active bool
}

// All matches every record.
var All = WeekdayFilter{}

// Only returns a filter matching d.
func Only(d time.Weekday) WeekdayFilter {
	return WeekdayFilter{day: d, active: true}
}

// ParseWeekdayFilter reads a selector value. The label may be a weekday or
// the all sentinel in locale, or in English; matching ignores case.
// An empty label means all weekdays.
func ParseWeekdayFilter(label, locale string) (WeekdayFilter, error) {
	if err := ValidateLocale(locale); err != nil {
		return All, err
	}

	label = strings.TrimSpace(label)
	if label == "" || strings.EqualFold(label, AllLabel(locale)) || strings.EqualFold(label, allLabels[LocaleEN]) {
		return All, nil
	}

	for _, loc := range []string{locale, LocaleEN} {
		for d, name := range weekdayLabels[loc] {
			if strings.EqualFold(label, name) {
				return Only(time.Weekday(d)), nil
			}
		}
	}
	return All, fmt.Errorf("%w: %q", customerrors.ErrUnknownWeekday, label)
}

// IsAll reports whether f matches every record.
func (f WeekdayFilter) IsAll() bool {
	return !f.active
}

// Weekday returns the selected weekday; ok is false for the all filter.
func (f WeekdayFilter) Weekday() (d time.Weekday, ok bool) {
	return f.day, f.active
}

// Match reports whether rec passes the filter. Records without a valid start
// time only pass the all filter.
func (f WeekdayFilter) Match(rec models.CallRecord) bool {
	if !f.active {
		return true
	}
	return rec.Start.Valid && rec.Weekday == f.day
}

// Apply returns the records matching f, preserving order.
func (f WeekdayFilter) Apply(records []models.CallRecord) []models.CallRecord {
	if !f.active {
		return records
	}
	return lo.Filter(records, func(rec models.CallRecord, _ int) bool {
		return f.Match(rec)
	})
}

// Label returns the filter's display value in locale.
func (f WeekdayFilter) Label(locale string) string {
	if !f.active {
		return AllLabel(locale)
	}
	return Label(f.day, locale)
}
