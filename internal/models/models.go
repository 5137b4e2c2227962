package models

// CandidateStatus is the pipeline stage of a candidate
type CandidateStatus string

const (
	StatusApplied   CandidateStatus = "Applied"
	StatusScreening CandidateStatus = "Screening"
	StatusInterview CandidateStatus = "Interview"
	StatusOffer     CandidateStatus = "Offer"
	StatusRejected  CandidateStatus = "Rejected"
	StatusHired     CandidateStatus = "Hired"
)

// AllCandidateStatuses lists statuses in pipeline order
var AllCandidateStatuses = []CandidateStatus{
	StatusApplied,
	StatusScreening,
	StatusInterview,
	StatusOffer,
	StatusRejected,
	StatusHired,
}

// IsValid reports whether s is a known candidate status
func (s CandidateStatus) IsValid() bool {
	switch s {
	case StatusApplied, StatusScreening, StatusInterview, StatusOffer, StatusRejected, StatusHired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the pipeline performs no further automatic transitions
func (s CandidateStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusHired
}

// JobStatus is the posting state of a job
type JobStatus string

const (
	JobActive JobStatus = "Active"
	JobClosed JobStatus = "Closed"
)

// IsValid reports whether s is a known job status
func (s JobStatus) IsValid() bool {
	return s == JobActive || s == JobClosed
}

// InterviewStatus is the booking state of an interview
type InterviewStatus string

const (
	InterviewScheduled InterviewStatus = "Scheduled"
	InterviewCompleted InterviewStatus = "Completed"
	InterviewCancelled InterviewStatus = "Cancelled"
)

// IsValid reports whether s is a known interview status
func (s InterviewStatus) IsValid() bool {
	switch s {
	case InterviewScheduled, InterviewCompleted, InterviewCancelled:
		return true
	default:
		return false
	}
}

// InterviewResult is the outcome recorded with interview feedback
type InterviewResult string

const (
	ResultPass InterviewResult = "Pass"
	ResultFail InterviewResult = "Fail"
)

// IsValid reports whether r is Pass or Fail
func (r InterviewResult) IsValid() bool {
	return r == ResultPass || r == ResultFail
}

// VoiceSentiment is the tone detected during voice screening
type VoiceSentiment string

const (
	SentimentPositive VoiceSentiment = "Positive"
	SentimentNeutral  VoiceSentiment = "Neutral"
	SentimentNegative VoiceSentiment = "Negative"
)

// IsValid reports whether s is a known sentiment
func (s VoiceSentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	default:
		return false
	}
}

// Round is one stage of a job's interview sequence
type Round struct {
	RoundNumber int    `json:"round_number" yaml:"round_number"`
	Topic       string `json:"topic" yaml:"topic"`
	Description string `json:"description" yaml:"description"`
}

// Job represents a job posting with its ordered interview rounds
type Job struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Department   string    `json:"department"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	Rounds       []Round   `json:"rounds"`
	PostedDate   string    `json:"posted_date"`
	Status       JobStatus `json:"status"`
}

// Round returns the round with the given number
func (j Job) Round(number int) (Round, bool) {
	for _, r := range j.Rounds {
		if r.RoundNumber == number {
			return r, true
		}
	}
	return Round{}, false
}

// VoiceScreening holds the result of the candidate voice bot session
type VoiceScreening struct {
	Transcript      string         `json:"transcript"`
	ConfidenceScore int            `json:"confidence_score"` // 0-100
	Sentiment       VoiceSentiment `json:"sentiment"`
}

// Candidate represents an applicant moving through a job's pipeline
type Candidate struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Email           string                   `json:"email"`
	Phone           Optional[string]         `json:"phone,omitzero"`
	Skills          []string                 `json:"skills"`
	ExperienceYears float64                  `json:"experience_years"`
	Summary         string                   `json:"summary"`
	MatchScore      int                      `json:"match_score"` // 0-100
	AIReasoning     string                   `json:"ai_reasoning"`
	Status          CandidateStatus          `json:"status"`
	JobID           string                   `json:"job_id"`
	AppliedDate     string                   `json:"applied_date"`
	ResumeText      string                   `json:"resume_text,omitempty"`
	InterviewID     Optional[string]         `json:"interview_id,omitzero"`
	CurrentRound    int                      `json:"current_round"`
	VoiceScreening  Optional[VoiceScreening] `json:"voice_screening,omitzero"`
}

// Interviewer represents a member of the interview panel
type Interviewer struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Role         string       `json:"role"`
	Availability Availability `json:"availability"`
}

// Interview is a booked slot; it is the single source of truth for bookings
type Interview struct {
	ID            string                    `json:"id"`
	CandidateID   string                    `json:"candidate_id"`
	InterviewerID string                    `json:"interviewer_id"`
	JobID         string                    `json:"job_id"`
	Date          string                    `json:"date"`
	Time          string                    `json:"time"`
	MeetLink      string                    `json:"meet_link"`
	Status        InterviewStatus           `json:"status"`
	RoundNumber   int                       `json:"round_number"`
	Feedback      Optional[string]          `json:"feedback,omitzero"`
	Result        Optional[InterviewResult] `json:"result,omitzero"`
}

// Occupies reports whether the interview holds the interviewer's slot.
// Cancelled interviews hold nothing.
func (i Interview) Occupies(interviewerID, date, time string) bool {
	return i.Status != InterviewCancelled &&
		i.InterviewerID == interviewerID &&
		i.Date == date &&
		i.Time == time
}

// ChatMessage is one turn of an HR assistant conversation
type ChatMessage struct {
	Role string `json:"role" validate:"required,oneof=user model"`
	Text string `json:"text"`
}

// ParsedResume is the structured output of resume parsing
type ParsedResume struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone,omitempty"`
	Skills          []string `json:"skills"`
	ExperienceYears float64  `json:"experience_years"`
	Summary         string   `json:"summary"`
}

// Ranking is the AI fit score of a candidate against a job
type Ranking struct {
	Score     int    `json:"score"` // 0-100
	Reasoning string `json:"reasoning"`
}
