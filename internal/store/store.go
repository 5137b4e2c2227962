package store

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/fmuoria/recruit-agent/internal/models"
)

// Store holds the in-memory collections of the recruiting pipeline.
// Insertion order is preserved for display. Store does no locking;
// callers serialize access.
type Store struct {
	jobs         []models.Job
	candidates   []models.Candidate
	interviewers []models.Interviewer
	interviews   []models.Interview
}

// New creates an empty store
func New() *Store {
	return &Store{}
}

// NewID returns a unique id of the form <prefix>-<uuid>
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Jobs

// InsertJob adds a job at the front (newest first)
func (s *Store) InsertJob(job models.Job) {
	s.jobs = slices.Insert(s.jobs, 0, job)
}

// UpdateJob replaces the job with the same id
func (s *Store) UpdateJob(job models.Job) bool {
	return replace(s.jobs, job, func(j models.Job) string { return j.ID })
}

// Job looks up a job by id
func (s *Store) Job(id string) (models.Job, bool) {
	return find(s.jobs, func(j models.Job) bool { return j.ID == id })
}

// Jobs returns all jobs in display order
func (s *Store) Jobs() []models.Job {
	return slices.Clone(s.jobs)
}

// Candidates

// InsertCandidate adds a candidate at the front (newest first)
func (s *Store) InsertCandidate(c models.Candidate) {
	s.candidates = slices.Insert(s.candidates, 0, c)
}

// UpdateCandidate replaces the candidate with the same id
func (s *Store) UpdateCandidate(c models.Candidate) bool {
	return replace(s.candidates, c, func(c models.Candidate) string { return c.ID })
}

// Candidate looks up a candidate by id
func (s *Store) Candidate(id string) (models.Candidate, bool) {
	return find(s.candidates, func(c models.Candidate) bool { return c.ID == id })
}

// Candidates returns all candidates in display order
func (s *Store) Candidates() []models.Candidate {
	return slices.Clone(s.candidates)
}

// CandidatesByJob returns the candidates applying to jobID
func (s *Store) CandidatesByJob(jobID string) []models.Candidate {
	return filter(s.candidates, func(c models.Candidate) bool { return c.JobID == jobID })
}

// CandidateByEmail returns the first candidate whose email matches, ignoring case
func (s *Store) CandidateByEmail(email string) (models.Candidate, bool) {
	email = strings.TrimSpace(email)
	return find(s.candidates, func(c models.Candidate) bool {
		return strings.EqualFold(c.Email, email)
	})
}

// Interviewers

// InsertInterviewer appends an interviewer; list position is the first-fit order
func (s *Store) InsertInterviewer(iv models.Interviewer) {
	s.interviewers = append(s.interviewers, iv)
}

// UpdateInterviewer replaces the interviewer with the same id
func (s *Store) UpdateInterviewer(iv models.Interviewer) bool {
	return replace(s.interviewers, iv, func(iv models.Interviewer) string { return iv.ID })
}

// Interviewer looks up an interviewer by id
func (s *Store) Interviewer(id string) (models.Interviewer, bool) {
	return find(s.interviewers, func(iv models.Interviewer) bool { return iv.ID == id })
}

// Interviewers returns all interviewers in stored order
func (s *Store) Interviewers() []models.Interviewer {
	out := make([]models.Interviewer, len(s.interviewers))
	for i, iv := range s.interviewers {
		iv.Availability = iv.Availability.Clone()
		out[i] = iv
	}
	return out
}

// Interviews

// InsertInterview appends an interview
func (s *Store) InsertInterview(in models.Interview) {
	s.interviews = append(s.interviews, in)
}

// UpdateInterview replaces the interview with the same id
func (s *Store) UpdateInterview(in models.Interview) bool {
	return replace(s.interviews, in, func(in models.Interview) string { return in.ID })
}

// Interview looks up an interview by id
func (s *Store) Interview(id string) (models.Interview, bool) {
	return find(s.interviews, func(in models.Interview) bool { return in.ID == id })
}

// Interviews returns all interviews in booking order
func (s *Store) Interviews() []models.Interview {
	return slices.Clone(s.interviews)
}

// InterviewsByCandidate returns every interview booked for candidateID
func (s *Store) InterviewsByCandidate(candidateID string) []models.Interview {
	return filter(s.interviews, func(in models.Interview) bool { return in.CandidateID == candidateID })
}

// InterviewsByInterviewer returns every interview assigned to interviewerID
func (s *Store) InterviewsByInterviewer(interviewerID string) []models.Interview {
	return filter(s.interviews, func(in models.Interview) bool { return in.InterviewerID == interviewerID })
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	if i := slices.IndexFunc(items, match); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

func filter[T any](items []T, match func(T) bool) []T {
	var out []T
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}
	return out
}

func replace[T any](items []T, item T, id func(T) string) bool {
	want := id(item)
	i := slices.IndexFunc(items, func(existing T) bool { return id(existing) == want })
	if i < 0 {
		return false
	}
	items[i] = item
	return true
}
