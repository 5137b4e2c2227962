package models

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Date and time layouts used throughout the pipeline
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// RoundInput is a round supplied on job creation; numbering is assigned by position
type RoundInput struct {
	Topic       string `json:"topic" validate:"required"`
	Description string `json:"description"`
}

// CreateJobRequest represents the payload for posting a job
type CreateJobRequest struct {
	Title        string       `json:"title" validate:"required"`
	Department   string       `json:"department"`
	Location     string       `json:"location"`
	Description  string       `json:"description" validate:"required"`
	Requirements []string     `json:"requirements"`
	Rounds       []RoundInput `json:"rounds" validate:"dive"`
}

// CreateInterviewerRequest represents the payload for adding a panel member
type CreateInterviewerRequest struct {
	Name         string              `json:"name" validate:"required"`
	Role         string              `json:"role" validate:"required"`
	Availability map[string][]string `json:"availability" validate:"dive,keys,datetime=2006-01-02,endkeys,dive,datetime=15:04"`
}

// CreateCandidateRequest represents a manually entered candidate
type CreateCandidateRequest struct {
	Name            string   `json:"name" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone,omitempty"`
	JobID           string   `json:"job_id" validate:"required"`
	Skills          []string `json:"skills"`
	ExperienceYears float64  `json:"experience_years" validate:"gte=0"`
	Summary         string   `json:"summary"`
	MatchScore      int      `json:"match_score" validate:"gte=0,lte=100"`
	AIReasoning     string   `json:"ai_reasoning"`
}

// UpdateCandidateRequest replaces the profile fields of a candidate.
// Pipeline fields (status, round, interview) only change through scheduling and feedback.
type UpdateCandidateRequest struct {
	Name            string   `json:"name" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone,omitempty"`
	Skills          []string `json:"skills"`
	ExperienceYears float64  `json:"experience_years" validate:"gte=0"`
	Summary         string   `json:"summary"`
}

// ScheduleRequest asks for an interview at a slot; JobID defaults to the candidate's job
type ScheduleRequest struct {
	CandidateID string `json:"candidate_id" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required,datetime=15:04"`
	JobID       string `json:"job_id,omitempty"`
}

// RescheduleRequest moves an interview to a new slot
type RescheduleRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required,datetime=15:04"`
}

// FeedbackRequest records the outcome of an interview
type FeedbackRequest struct {
	Feedback string          `json:"feedback"`
	Result   InterviewResult `json:"result" validate:"required,oneof=Pass Fail"`
}

// ChatRequest is a message to the HR assistant, optionally scoped to a job
type ChatRequest struct {
	History []ChatMessage `json:"history" validate:"dive"`
	Message string        `json:"message" validate:"required"`
	JobID   string        `json:"job_id,omitempty"`
}

// LoginRequest identifies a candidate by email for the portal
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VoiceScreeningRequest records a completed voice bot session
type VoiceScreeningRequest struct {
	Transcript      string         `json:"transcript" validate:"required"`
	ConfidenceScore int            `json:"confidence_score" validate:"gte=0,lte=100"`
	Sentiment       VoiceSentiment `json:"sentiment" validate:"required,oneof=Positive Neutral Negative"`
}

// Validate validates the CreateJobRequest using the validator.
func (r *CreateJobRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the CreateInterviewerRequest using the validator.
func (r *CreateInterviewerRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the CreateCandidateRequest using the validator.
func (r *CreateCandidateRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UpdateCandidateRequest using the validator.
func (r *UpdateCandidateRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ScheduleRequest using the validator.
func (r *ScheduleRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the RescheduleRequest using the validator.
func (r *RescheduleRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the FeedbackRequest using the validator.
func (r *FeedbackRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ChatRequest using the validator.
func (r *ChatRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the VoiceScreeningRequest using the validator.
func (r *VoiceScreeningRequest) Validate() error {
	return validate.Struct(r)
}
