package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fmuoria/recruit-agent/internal/gateway"
	"github.com/fmuoria/recruit-agent/internal/ingestion"
	"github.com/fmuoria/recruit-agent/internal/models"
	"github.com/fmuoria/recruit-agent/internal/pipeline"
	"github.com/fmuoria/recruit-agent/internal/scheduling"
	"github.com/fmuoria/recruit-agent/internal/store"
)

var (
	// ErrNotFound means a referenced record does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest wraps request validation failures
	ErrInvalidRequest = errors.New("invalid request")
	// ErrAlreadyScheduled means the candidate already holds an active interview
	ErrAlreadyScheduled = errors.New("candidate already has an active interview")
	// ErrNoActiveInterview means the candidate has nothing to reschedule
	ErrNoActiveInterview = errors.New("candidate has no active interview")
	// ErrGmailDisabled means mailbox ingestion is not configured
	ErrGmailDisabled = errors.New("gmail ingestion is not configured")
)

// ProgressCallback is called to report progress during processing
type ProgressCallback func(current, total int, message string)

// MailSource fetches resume attachments from a mailbox into the uploads directory
type MailSource interface {
	FetchAttachments(ctx context.Context, subject string) ([]string, error)
}

// Snapshot is a consistent copy of every collection
type Snapshot struct {
	Jobs         []models.Job         `json:"jobs"`
	Candidates   []models.Candidate   `json:"candidates"`
	Interviewers []models.Interviewer `json:"interviewers"`
	Interviews   []models.Interview   `json:"interviews"`
}

// RecruitingAgent owns application state and orchestrates the pipeline.
// Every operation holds mu for its store access so that the scheduler's
// check-then-book sequence stays atomic.
type RecruitingAgent struct {
	FileHandler *ingestion.FileHandler

	store     *store.Store
	scheduler *scheduling.Scheduler
	engine    *pipeline.Engine
	gateway   gateway.Gateway
	mail      MailSource
	now       func() time.Time

	mu         sync.Mutex
	cbMu       sync.RWMutex
	progressCb ProgressCallback
}

// New creates a recruiting agent. mail may be nil when Gmail is not configured.
func New(gw gateway.Gateway, files *ingestion.FileHandler, mail MailSource) *RecruitingAgent {
	st := store.New()
	return &RecruitingAgent{
		FileHandler: files,
		store:       st,
		scheduler:   scheduling.New(st),
		engine:      pipeline.New(st),
		gateway:     gw,
		mail:        mail,
		now:         time.Now,
	}
}

// SetProgressCallback sets the progress callback function
func (a *RecruitingAgent) SetProgressCallback(cb ProgressCallback) {
	a.cbMu.Lock()
	defer a.cbMu.Unlock()
	a.progressCb = cb
}

// reportProgress calls the progress callback if set
func (a *RecruitingAgent) reportProgress(current, total int, message string) {
	a.cbMu.RLock()
	cb := a.progressCb
	a.cbMu.RUnlock()

	if cb != nil {
		cb(current, total, message)
	}
}

func (a *RecruitingAgent) today() string {
	return a.now().Format(models.DateLayout)
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
}

// Import loads records in display order, e.g. from a seed fixture.
// Existing records are kept.
func (a *RecruitingAgent) Import(s Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// jobs and candidates are stored newest first
	for _, job := range slices.Backward(s.Jobs) {
		job.Rounds = models.RenumberRounds(job.Rounds)
		a.store.InsertJob(job)
	}
	for _, c := range slices.Backward(s.Candidates) {
		if c.CurrentRound < 1 {
			c.CurrentRound = 1
		}
		a.store.InsertCandidate(c)
	}
	for _, iv := range s.Interviewers {
		if iv.Availability == nil {
			iv.Availability = models.Availability{}
		}
		a.store.InsertInterviewer(iv)
	}
	for _, in := range s.Interviews {
		a.store.InsertInterview(in)
	}
	log.Printf("imported %d jobs, %d candidates, %d interviewers, %d interviews",
		len(s.Jobs), len(s.Candidates), len(s.Interviewers), len(s.Interviews))
}

// Snapshot returns a copy of every collection
func (a *RecruitingAgent) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		Jobs:         a.store.Jobs(),
		Candidates:   a.store.Candidates(),
		Interviewers: a.store.Interviewers(),
		Interviews:   a.store.Interviews(),
	}
}

// CreateJob posts a new active job. Rounds are numbered by position and a
// job posted without rounds gets a single general screening round.
// Department and location default to "General" and "Remote".
func (a *RecruitingAgent) CreateJob(req models.CreateJobRequest) (models.Job, error) {
	if err := req.Validate(); err != nil {
		return models.Job{}, invalid(err)
	}

	job := models.Job{
		ID:           store.NewID("job"),
		Title:        strings.TrimSpace(req.Title),
		Department:   orDefault(req.Department, "General"),
		Location:     orDefault(req.Location, "Remote"),
		Description:  req.Description,
		Requirements: nonNil(req.Requirements),
		Rounds:       models.NormalizeRounds(req.Rounds),
		PostedDate:   a.today(),
		Status:       models.JobActive,
	}

	a.mu.Lock()
	a.store.InsertJob(job)
	a.mu.Unlock()

	log.Printf("posted job %s (%s) with %d rounds", job.ID, job.Title, len(job.Rounds))
	return job, nil
}

// ListJobs returns all jobs, newest first
func (a *RecruitingAgent) ListJobs() []models.Job {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Jobs()
}

// GetJob returns a job by id
func (a *RecruitingAgent) GetJob(id string) (models.Job, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	job, ok := a.store.Job(id)
	if !ok {
		return models.Job{}, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return job, nil
}

// AddCandidate records a manually entered applicant
func (a *RecruitingAgent) AddCandidate(req models.CreateCandidateRequest) (models.Candidate, error) {
	if err := req.Validate(); err != nil {
		return models.Candidate{}, invalid(err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.store.Job(req.JobID); !ok {
		return models.Candidate{}, fmt.Errorf("job %s: %w", req.JobID, ErrNotFound)
	}

	c := models.Candidate{
		ID:              store.NewID("cand"),
		Name:            strings.TrimSpace(req.Name),
		Email:           strings.TrimSpace(req.Email),
		Phone:           optionalString(req.Phone),
		Skills:          nonNil(req.Skills),
		ExperienceYears: req.ExperienceYears,
		Summary:         req.Summary,
		MatchScore:      req.MatchScore,
		AIReasoning:     req.AIReasoning,
		Status:          models.StatusApplied,
		JobID:           req.JobID,
		AppliedDate:     a.today(),
		CurrentRound:    1,
	}
	a.store.InsertCandidate(c)
	return c, nil
}

// UpdateCandidate replaces a candidate's profile fields
func (a *RecruitingAgent) UpdateCandidate(id string, req models.UpdateCandidateRequest) (models.Candidate, error) {
	if err := req.Validate(); err != nil {
		return models.Candidate{}, invalid(err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	c, ok := a.store.Candidate(id)
	if !ok {
		return models.Candidate{}, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	c.Name = strings.TrimSpace(req.Name)
	c.Email = strings.TrimSpace(req.Email)
	c.Phone = optionalString(req.Phone)
	c.Skills = nonNil(req.Skills)
	c.ExperienceYears = req.ExperienceYears
	c.Summary = req.Summary
	a.store.UpdateCandidate(c)
	return c, nil
}

// ListCandidates returns candidates filtered by job and a case-insensitive
// query over name, email and skills. Empty filters match everything.
func (a *RecruitingAgent) ListCandidates(jobID, query string) []models.Candidate {
	a.mu.Lock()
	all := a.store.Candidates()
	a.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Candidate, 0, len(all))
	for _, c := range all {
		if jobID != "" && c.JobID != jobID {
			continue
		}
		if query != "" && !matchesQuery(c, query) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesQuery(c models.Candidate, query string) bool {
	if strings.Contains(strings.ToLower(c.Name), query) || strings.Contains(strings.ToLower(c.Email), query) {
		return true
	}
	return slices.ContainsFunc(c.Skills, func(s string) bool {
		return strings.Contains(strings.ToLower(s), query)
	})
}

// GetCandidate returns a candidate by id
func (a *RecruitingAgent) GetCandidate(id string) (models.Candidate, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.store.Candidate(id)
	if !ok {
		return models.Candidate{}, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// AddInterviewer adds a panel member with their declared slots
func (a *RecruitingAgent) AddInterviewer(req models.CreateInterviewerRequest) (models.Interviewer, error) {
	if err := req.Validate(); err != nil {
		return models.Interviewer{}, invalid(err)
	}

	availability := models.Availability{}
	for date, times := range req.Availability {
		availability.Add(date, times...)
	}
	iv := models.Interviewer{
		ID:           store.NewID("iv"),
		Name:         strings.TrimSpace(req.Name),
		Role:         strings.TrimSpace(req.Role),
		Availability: availability,
	}

	a.mu.Lock()
	a.store.InsertInterviewer(iv)
	a.mu.Unlock()
	return iv, nil
}

// ListInterviewers returns the panel in selection order
func (a *RecruitingAgent) ListInterviewers() []models.Interviewer {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Interviewers()
}

// ListInterviews returns interviews, optionally only those of one candidate
func (a *RecruitingAgent) ListInterviews(candidateID string) []models.Interview {
	a.mu.Lock()
	defer a.mu.Unlock()
	if candidateID != "" {
		return a.store.InterviewsByCandidate(candidateID)
	}
	return a.store.Interviews()
}

// ScheduleInterview books the candidate's current round at the requested slot
func (a *RecruitingAgent) ScheduleInterview(req models.ScheduleRequest) (scheduling.Booking, error) {
	if err := req.Validate(); err != nil {
		return scheduling.Booking{}, invalid(err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	c, ok := a.store.Candidate(req.CandidateID)
	if !ok {
		return scheduling.Booking{}, fmt.Errorf("candidate %s: %w", req.CandidateID, ErrNotFound)
	}
	if req.JobID != "" {
		if _, ok := a.store.Job(req.JobID); !ok {
			return scheduling.Booking{}, fmt.Errorf("job %s: %w", req.JobID, ErrNotFound)
		}
	}
	if c.Status.IsTerminal() || c.Status == models.StatusOffer {
		return scheduling.Booking{}, fmt.Errorf("schedule %s from %s: %w", c.ID, c.Status, pipeline.ErrInvalidTransition)
	}
	if active, ok := c.InterviewID.Get(); ok {
		return scheduling.Booking{}, fmt.Errorf("schedule %s (holds %s): %w", c.ID, active, ErrAlreadyScheduled)
	}

	booking, err := a.scheduler.Schedule(c.ID, req.Date, req.Time, req.JobID)
	if err != nil {
		return scheduling.Booking{}, err
	}
	log.Printf("scheduled %s round %d with %s on %s %s",
		c.Name, booking.Interview.RoundNumber, booking.Interviewer.Name, req.Date, req.Time)
	return booking, nil
}

// RescheduleInterview moves an interview to a new slot
func (a *RecruitingAgent) RescheduleInterview(interviewID string, req models.RescheduleRequest) (scheduling.Booking, error) {
	if err := req.Validate(); err != nil {
		return scheduling.Booking{}, invalid(err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reschedule(interviewID, req.Date, req.Time)
}

// reschedule expects mu to be held
func (a *RecruitingAgent) reschedule(interviewID, date, tm string) (scheduling.Booking, error) {
	in, ok := a.store.Interview(interviewID)
	if !ok {
		return scheduling.Booking{}, fmt.Errorf("interview %s: %w", interviewID, scheduling.ErrInterviewNotFound)
	}
	if in.Status != models.InterviewScheduled {
		return scheduling.Booking{}, fmt.Errorf("reschedule %s while %s: %w", interviewID, in.Status, scheduling.ErrInterviewCompleted)
	}
	booking, err := a.scheduler.Reschedule(interviewID, date, tm)
	if err != nil {
		return scheduling.Booking{}, err
	}
	log.Printf("rescheduled %s to %s %s with %s", interviewID, date, tm, booking.Interviewer.Name)
	return booking, nil
}

// CancelInterview releases an interview's slot
func (a *RecruitingAgent) CancelInterview(interviewID string) (models.Interview, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scheduler.Cancel(interviewID)
}

// SubmitFeedback completes an interview and advances or rejects the candidate
func (a *RecruitingAgent) SubmitFeedback(interviewID string, req models.FeedbackRequest) (pipeline.Outcome, models.Candidate, error) {
	if err := req.Validate(); err != nil {
		return pipeline.OutcomeNone, models.Candidate{}, invalid(err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	in, ok := a.store.Interview(interviewID)
	if !ok {
		return pipeline.OutcomeNone, models.Candidate{}, fmt.Errorf("interview %s: %w", interviewID, scheduling.ErrInterviewNotFound)
	}
	if in.Status != models.InterviewScheduled {
		return pipeline.OutcomeNone, models.Candidate{}, fmt.Errorf("feedback on %s while %s: %w", interviewID, in.Status, scheduling.ErrInterviewCompleted)
	}

	outcome := a.engine.SubmitFeedback(interviewID, req.Feedback, req.Result)
	if outcome == pipeline.OutcomeNone {
		return outcome, models.Candidate{}, fmt.Errorf("feedback on %s: %w", interviewID, ErrNotFound)
	}
	c, _ := a.store.Candidate(in.CandidateID)
	log.Printf("feedback for %s round %d: %s -> %s", c.Name, in.RoundNumber, req.Result, outcome)
	return outcome, c, nil
}

// RejectCandidate manually rejects a candidate
func (a *RecruitingAgent) RejectCandidate(id string) (models.Candidate, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.cancelActive(id); err != nil {
		return models.Candidate{}, err
	}
	return a.engine.Reject(id)
}

// HireCandidate closes the pipeline for a candidate holding an offer
func (a *RecruitingAgent) HireCandidate(id string) (models.Candidate, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.engine.MarkHired(id)
}

// cancelActive frees the slot of a candidate leaving the pipeline early.
// Expects mu to be held.
func (a *RecruitingAgent) cancelActive(candidateID string) error {
	c, ok := a.store.Candidate(candidateID)
	if !ok || c.Status.IsTerminal() {
		return nil
	}
	active, ok := c.InterviewID.Get()
	if !ok {
		return nil
	}
	if _, err := a.scheduler.Cancel(active); err != nil && !errors.Is(err, scheduling.ErrInterviewNotFound) {
		return err
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func optionalString(s string) models.Optional[string] {
	if s = strings.TrimSpace(s); s != "" {
		return models.Some(s)
	}
	return models.None[string]()
}
