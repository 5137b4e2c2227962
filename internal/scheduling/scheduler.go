package scheduling

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fmuoria/recruit-agent/internal/models"
	"github.com/fmuoria/recruit-agent/internal/store"
)

var (
	// ErrNotAvailable means no interviewer is free at the requested slot
	ErrNotAvailable = errors.New("no interviewer available")
	// ErrInterviewNotFound means the interview id does not resolve
	ErrInterviewNotFound = errors.New("interview not found")
	// ErrCandidateNotFound means the candidate id does not resolve
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrInterviewCompleted means the interview already has feedback recorded
	ErrInterviewCompleted = errors.New("interview already completed")
)

// Booking is the result of a successful schedule or reschedule
type Booking struct {
	Interview   models.Interview   `json:"interview"`
	Interviewer models.Interviewer `json:"interviewer"`
}

// Policy picks an interviewer for a slot. excludeID names an interview
// whose own booking must not count as a conflict.
type Policy func(interviewers []models.Interviewer, interviews []models.Interview, date, time, excludeID string) (models.Interviewer, bool)

// FirstFit walks interviewers in stored order and returns the first one that
// declared the slot open and holds no other non-cancelled booking there.
// Ties go to list position; there is no load balancing.
func FirstFit(interviewers []models.Interviewer, interviews []models.Interview, date, time, excludeID string) (models.Interviewer, bool) {
	for _, iv := range interviewers {
		if !iv.Availability.Has(date, time) {
			continue
		}
		if isBooked(interviews, iv.ID, date, time, excludeID) {
			continue
		}
		return iv, true
	}
	return models.Interviewer{}, false
}

func isBooked(interviews []models.Interview, interviewerID, date, time, excludeID string) bool {
	for _, in := range interviews {
		if in.ID == excludeID {
			continue
		}
		if in.Occupies(interviewerID, date, time) {
			return true
		}
	}
	return false
}

// Scheduler assigns interviewers to slots using a selection policy
type Scheduler struct {
	store  *store.Store
	policy Policy
}

// New creates a scheduler over st using first-fit selection
func New(st *store.Store) *Scheduler {
	return &Scheduler{store: st, policy: FirstFit}
}

// Schedule books an interview for the candidate at date/time. jobID defaults
// to the candidate's job when empty. On success the candidate moves to
// Interview and points at the new booking.
func (s *Scheduler) Schedule(candidateID, date, time, jobID string) (Booking, error) {
	candidate, ok := s.store.Candidate(candidateID)
	if !ok {
		return Booking{}, fmt.Errorf("schedule %s: %w", candidateID, ErrCandidateNotFound)
	}

	interviewer, ok := s.policy(s.store.Interviewers(), s.store.Interviews(), date, time, "")
	if !ok {
		return Booking{}, fmt.Errorf("schedule %s at %s %s: %w", candidateID, date, time, ErrNotAvailable)
	}

	if jobID == "" {
		jobID = candidate.JobID
	}
	round := candidate.CurrentRound
	if round < 1 {
		round = 1
	}

	interview := models.Interview{
		ID:            store.NewID("int"),
		CandidateID:   candidate.ID,
		InterviewerID: interviewer.ID,
		JobID:         jobID,
		Date:          date,
		Time:          time,
		MeetLink:      NewMeetLink(),
		Status:        models.InterviewScheduled,
		RoundNumber:   round,
	}
	s.store.InsertInterview(interview)

	candidate.Status = models.StatusInterview
	candidate.InterviewID = models.Some(interview.ID)
	s.store.UpdateCandidate(candidate)

	return Booking{Interview: interview, Interviewer: interviewer}, nil
}

// Reschedule moves an interview to a new slot, possibly with a different
// interviewer. The interview's own booking never blocks the move. Candidate
// state is untouched.
func (s *Scheduler) Reschedule(interviewID, date, time string) (Booking, error) {
	interview, ok := s.store.Interview(interviewID)
	if !ok {
		return Booking{}, fmt.Errorf("reschedule %s: %w", interviewID, ErrInterviewNotFound)
	}

	interviewer, ok := s.policy(s.store.Interviewers(), s.store.Interviews(), date, time, interview.ID)
	if !ok {
		return Booking{}, fmt.Errorf("reschedule %s to %s %s: %w", interviewID, date, time, ErrNotAvailable)
	}

	interview.Date = date
	interview.Time = time
	interview.InterviewerID = interviewer.ID
	s.store.UpdateInterview(interview)

	return Booking{Interview: interview, Interviewer: interviewer}, nil
}

// Cancel releases an interview's slot. A candidate still pointing at the
// interview drops the reference and returns to Screening for rebooking.
// Cancelling twice is a no-op.
func (s *Scheduler) Cancel(interviewID string) (models.Interview, error) {
	interview, ok := s.store.Interview(interviewID)
	if !ok {
		return models.Interview{}, fmt.Errorf("cancel %s: %w", interviewID, ErrInterviewNotFound)
	}

	switch interview.Status {
	case models.InterviewCompleted:
		return interview, fmt.Errorf("cancel %s: %w", interviewID, ErrInterviewCompleted)
	case models.InterviewCancelled:
		return interview, nil
	}

	interview.Status = models.InterviewCancelled
	s.store.UpdateInterview(interview)

	if candidate, ok := s.store.Candidate(interview.CandidateID); ok {
		if active, set := candidate.InterviewID.Get(); set && active == interview.ID {
			candidate.InterviewID = models.None[string]()
			if candidate.Status == models.StatusInterview {
				candidate.Status = models.StatusScreening
			}
			s.store.UpdateCandidate(candidate)
		}
	}

	return interview, nil
}

// NewMeetLink returns a Google Meet style link with a random xxx-xxxx-xxx code
func NewMeetLink() string {
	code := strings.ReplaceAll(uuid.NewString(), "-", "")
	code = strings.Map(func(r rune) rune {
		// map hex digits onto letters so the code looks like a Meet room
		if r >= '0' && r <= '9' {
			return 'a' + (r - '0') + 6
		}
		return r
	}, code)
	return fmt.Sprintf("https://meet.google.com/%s-%s-%s", code[0:3], code[3:7], code[7:10])
}
