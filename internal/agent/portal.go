package agent

import (
	"fmt"
	"log"

	"github.com/fmuoria/recruit-agent/internal/models"
	"github.com/fmuoria/recruit-agent/internal/pipeline"
	"github.com/fmuoria/recruit-agent/internal/scheduling"
)

// Portal is what a candidate sees after logging in
type Portal struct {
	Candidate    models.Candidate    `json:"candidate"`
	Job          *models.Job         `json:"job,omitempty"`
	Interview    *models.Interview   `json:"interview,omitempty"`
	Interviewer  *models.Interviewer `json:"interviewer,omitempty"`
	CurrentRound *models.Round       `json:"current_round,omitempty"`
}

// Login finds a candidate by email, ignoring case. When several candidates
// share an address the most recent application wins.
func (a *RecruitingAgent) Login(req models.LoginRequest) (Portal, error) {
	if err := req.Validate(); err != nil {
		return Portal{}, invalid(err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	c, ok := a.store.CandidateByEmail(req.Email)
	if !ok {
		return Portal{}, fmt.Errorf("candidate with email %s: %w", req.Email, ErrNotFound)
	}
	return a.portal(c), nil
}

// portal expects mu to be held
func (a *RecruitingAgent) portal(c models.Candidate) Portal {
	p := Portal{Candidate: c}
	if job, ok := a.store.Job(c.JobID); ok {
		p.Job = &job
		if r, ok := pipeline.CurrentRound(job, c); ok {
			p.CurrentRound = &r
		}
	}
	if id, ok := c.InterviewID.Get(); ok {
		if in, ok := a.store.Interview(id); ok {
			p.Interview = &in
			if iv, ok := a.store.Interviewer(in.InterviewerID); ok {
				p.Interviewer = &iv
			}
		}
	}
	return p
}

// PortalReschedule lets a candidate move their own active interview
func (a *RecruitingAgent) PortalReschedule(candidateID string, req models.RescheduleRequest) (Portal, error) {
	if err := req.Validate(); err != nil {
		return Portal{}, invalid(err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	c, ok := a.store.Candidate(candidateID)
	if !ok {
		return Portal{}, fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
	}
	id, ok := c.InterviewID.Get()
	if !ok {
		return Portal{}, fmt.Errorf("reschedule for %s: %w", c.ID, ErrNoActiveInterview)
	}
	if _, err := a.reschedule(id, req.Date, req.Time); err != nil {
		return Portal{}, err
	}
	log.Printf("%s moved their interview to %s %s", c.Name, req.Date, req.Time)

	c, _ = a.store.Candidate(candidateID)
	return a.portal(c), nil
}

// AvailableSlots lists the times on date a candidate could move to
func (a *RecruitingAgent) AvailableSlots(date string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scheduler.FreeSlots(date)
}

// DaySchedule returns every interviewer's declared slots and bookings on date
func (a *RecruitingAgent) DaySchedule(date string) []scheduling.InterviewerDay {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scheduler.DaySchedule(date)
}

// RecordVoiceScreening stores the result of a candidate's voice bot session
func (a *RecruitingAgent) RecordVoiceScreening(candidateID string, req models.VoiceScreeningRequest) (models.Candidate, error) {
	if err := req.Validate(); err != nil {
		return models.Candidate{}, invalid(err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	c, ok := a.store.Candidate(candidateID)
	if !ok {
		return models.Candidate{}, fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
	}
	c.VoiceScreening = models.Some(models.VoiceScreening{
		Transcript:      req.Transcript,
		ConfidenceScore: req.ConfidenceScore,
		Sentiment:       req.Sentiment,
	})
	a.store.UpdateCandidate(c)
	return c, nil
}
