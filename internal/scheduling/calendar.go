package scheduling

import (
	"sort"

	"github.com/fmuoria/recruit-agent/internal/models"
)

// Slot is one time on an interviewer's day
type Slot struct {
	Time      string            `json:"time"`
	Declared  bool              `json:"declared"`
	Interview *models.Interview `json:"interview,omitempty"`
}

// InterviewerDay is an interviewer's calendar for a single date
type InterviewerDay struct {
	Interviewer models.Interviewer `json:"interviewer"`
	Slots       []Slot             `json:"slots"`
}

// DaySchedule lists, per interviewer in stored order, the declared slots on
// date merged with the non-cancelled bookings held that day.
func (s *Scheduler) DaySchedule(date string) []InterviewerDay {
	interviews := s.store.Interviews()
	var days []InterviewerDay

	for _, iv := range s.store.Interviewers() {
		slots := map[string]*Slot{}
		for _, t := range iv.Availability.Slots(date) {
			slots[t] = &Slot{Time: t, Declared: true}
		}
		for i := range interviews {
			in := interviews[i]
			if !in.Occupies(iv.ID, date, in.Time) {
				continue
			}
			slot, ok := slots[in.Time]
			if !ok {
				slot = &Slot{Time: in.Time}
				slots[in.Time] = slot
			}
			slot.Interview = &in
		}

		day := InterviewerDay{Interviewer: iv, Slots: make([]Slot, 0, len(slots))}
		for _, slot := range slots {
			day.Slots = append(day.Slots, *slot)
		}
		sort.Slice(day.Slots, func(i, j int) bool { return day.Slots[i].Time < day.Slots[j].Time })
		days = append(days, day)
	}
	return days
}

// FreeSlots returns the times on date at which at least one interviewer is open
func (s *Scheduler) FreeSlots(date string) []string {
	interviews := s.store.Interviews()
	seen := map[string]bool{}
	for _, iv := range s.store.Interviewers() {
		for _, t := range iv.Availability.Slots(date) {
			if !isBooked(interviews, iv.ID, date, t, "") {
				seen[t] = true
			}
		}
	}

	free := make([]string, 0, len(seen))
	for t := range seen {
		free = append(free, t)
	}
	sort.Strings(free)
	return free
}
