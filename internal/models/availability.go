package models

import (
	"slices"
	"sort"
)

// Availability maps an ISO date (YYYY-MM-DD) to the interviewer's declared
// open times (HH:MM). It is never reduced by bookings.
type Availability map[string][]string

// Has reports whether time is declared open on date
func (a Availability) Has(date, time string) bool {
	return slices.Contains(a[date], time)
}

// Slots returns the sorted open times on date
func (a Availability) Slots(date string) []string {
	slots := slices.Clone(a[date])
	sort.Strings(slots)
	return slots
}

// Add declares times open on date, ignoring duplicates
func (a Availability) Add(date string, times ...string) {
	for _, t := range times {
		if !a.Has(date, t) {
			a[date] = append(a[date], t)
		}
	}
}

// Dates returns the sorted dates with at least one open slot
func (a Availability) Dates() []string {
	dates := make([]string, 0, len(a))
	for d, times := range a {
		if len(times) > 0 {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)
	return dates
}

// Clone returns a deep copy
func (a Availability) Clone() Availability {
	out := make(Availability, len(a))
	for d, times := range a {
		out[d] = slices.Clone(times)
	}
	return out
}
