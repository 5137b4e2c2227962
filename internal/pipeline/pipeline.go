package pipeline

import (
	"errors"
	"fmt"

	"github.com/fmuoria/recruit-agent/internal/models"
	"github.com/fmuoria/recruit-agent/internal/store"
)

// AutoScreenThreshold is the AI match score at or above which a freshly
// ingested candidate is fast-tracked to interview. It is not per-job.
const AutoScreenThreshold = 80

var (
	// ErrInvalidTransition means the candidate's status does not allow the change
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrCandidateNotFound means the candidate id does not resolve
	ErrCandidateNotFound = errors.New("candidate not found")
)

// Outcome describes what a feedback submission did to the candidate
type Outcome string

const (
	OutcomeNone      Outcome = "none"       // a reference did not resolve
	OutcomeRejected  Outcome = "rejected"   // failed the round
	OutcomeNextRound Outcome = "next_round" // passed, more rounds remain
	OutcomeOffer     Outcome = "offer"      // passed the final round
)

// Engine advances candidates through a job's ordered rounds
type Engine struct {
	store *store.Store
}

// New creates an engine over st
func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// SubmitFeedback completes the interview and moves the candidate on.
// Fail rejects; Pass on the final round makes an offer; Pass otherwise
// advances to the next round and returns the candidate to Screening.
// The candidate's interview reference is cleared in every case.
// Unresolvable ids are a silent no-op reported as OutcomeNone.
func (e *Engine) SubmitFeedback(interviewID, feedback string, result models.InterviewResult) Outcome {
	interview, ok := e.store.Interview(interviewID)
	if !ok {
		return OutcomeNone
	}
	candidate, ok := e.store.Candidate(interview.CandidateID)
	if !ok {
		return OutcomeNone
	}
	job, ok := e.store.Job(candidate.JobID)
	if !ok {
		return OutcomeNone
	}

	interview.Feedback = models.Some(feedback)
	interview.Result = models.Some(result)
	interview.Status = models.InterviewCompleted
	e.store.UpdateInterview(interview)

	var outcome Outcome
	switch {
	case result == models.ResultFail:
		candidate.Status = models.StatusRejected
		outcome = OutcomeRejected
	case candidate.CurrentRound >= len(job.Rounds):
		candidate.Status = models.StatusOffer
		outcome = OutcomeOffer
	default:
		candidate.CurrentRound++
		candidate.Status = models.StatusScreening
		outcome = OutcomeNextRound
	}
	candidate.InterviewID = models.None[string]()
	e.store.UpdateCandidate(candidate)

	return outcome
}

// AutoScreen maps an AI match score to the candidate's initial status
func AutoScreen(score int) models.CandidateStatus {
	if score >= AutoScreenThreshold {
		return models.StatusInterview
	}
	return models.StatusRejected
}

// ApplyAutoScreen sets status and round on a newly parsed candidate
func ApplyAutoScreen(c *models.Candidate) {
	c.Status = AutoScreen(c.MatchScore)
	c.CurrentRound = 1
	c.InterviewID = models.None[string]()
}

// Reject manually rejects a candidate at any non-terminal stage
func (e *Engine) Reject(candidateID string) (models.Candidate, error) {
	c, ok := e.store.Candidate(candidateID)
	if !ok {
		return models.Candidate{}, fmt.Errorf("reject %s: %w", candidateID, ErrCandidateNotFound)
	}
	if c.Status.IsTerminal() {
		return c, fmt.Errorf("reject %s from %s: %w", candidateID, c.Status, ErrInvalidTransition)
	}
	c.Status = models.StatusRejected
	c.InterviewID = models.None[string]()
	e.store.UpdateCandidate(c)
	return c, nil
}

// MarkOffer records that an offer letter went out
func (e *Engine) MarkOffer(candidateID string) (models.Candidate, error) {
	c, ok := e.store.Candidate(candidateID)
	if !ok {
		return models.Candidate{}, fmt.Errorf("offer %s: %w", candidateID, ErrCandidateNotFound)
	}
	if c.Status.IsTerminal() {
		return c, fmt.Errorf("offer %s from %s: %w", candidateID, c.Status, ErrInvalidTransition)
	}
	c.Status = models.StatusOffer
	c.InterviewID = models.None[string]()
	e.store.UpdateCandidate(c)
	return c, nil
}

// MarkHired closes the pipeline for a candidate holding an offer
func (e *Engine) MarkHired(candidateID string) (models.Candidate, error) {
	c, ok := e.store.Candidate(candidateID)
	if !ok {
		return models.Candidate{}, fmt.Errorf("hire %s: %w", candidateID, ErrCandidateNotFound)
	}
	if c.Status != models.StatusOffer {
		return c, fmt.Errorf("hire %s from %s: %w", candidateID, c.Status, ErrInvalidTransition)
	}
	c.Status = models.StatusHired
	e.store.UpdateCandidate(c)
	return c, nil
}

// CurrentRound returns the round the candidate is working through.
// ok is false once rounds are exhausted.
func CurrentRound(job models.Job, c models.Candidate) (models.Round, bool) {
	n := c.CurrentRound
	if n < 1 {
		n = 1
	}
	return job.Round(n)
}
