package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fmuoria/recruit-agent/internal/models"
)

//go:embed default.yaml
var defaultFixture []byte

// Data is a fixture resolved against a reference day, in display order
type Data struct {
	Jobs         []models.Job
	Candidates   []models.Candidate
	Interviewers []models.Interviewer
	Interviews   []models.Interview
}

type fixture struct {
	Jobs         []fixtureJob         `yaml:"jobs"`
	Candidates   []fixtureCandidate   `yaml:"candidates"`
	Interviewers []fixtureInterviewer `yaml:"interviewers"`
	Interviews   []fixtureInterview   `yaml:"interviews"`
}

type fixtureJob struct {
	ID           string         `yaml:"id"`
	Title        string         `yaml:"title"`
	Department   string         `yaml:"department"`
	Location     string         `yaml:"location"`
	Description  string         `yaml:"description"`
	Requirements []string       `yaml:"requirements"`
	Rounds       []models.Round `yaml:"rounds"`
	PostedDate   string         `yaml:"posted_date"`
	Status       string         `yaml:"status"`
}

type fixtureCandidate struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Email           string   `yaml:"email"`
	Phone           string   `yaml:"phone"`
	Skills          []string `yaml:"skills"`
	ExperienceYears float64  `yaml:"experience_years"`
	Summary         string   `yaml:"summary"`
	MatchScore      int      `yaml:"match_score"`
	AIReasoning     string   `yaml:"ai_reasoning"`
	Status          string   `yaml:"status"`
	JobID           string   `yaml:"job_id"`
	AppliedDate     string   `yaml:"applied_date"`
	InterviewID     string   `yaml:"interview_id"`
	CurrentRound    int      `yaml:"current_round"`
}

// day is either an absolute date or an offset from the reference day
type day struct {
	Date      string `yaml:"date"`
	DayOffset *int   `yaml:"day_offset"`
}

func (d day) resolve(ref time.Time) (string, error) {
	switch {
	case d.Date != "" && d.DayOffset != nil:
		return "", errors.New("set either date or day_offset, not both")
	case d.DayOffset != nil:
		return ref.AddDate(0, 0, *d.DayOffset).Format(models.DateLayout), nil
	case d.Date != "":
		if _, err := time.Parse(models.DateLayout, d.Date); err != nil {
			return "", fmt.Errorf("bad date %q: %w", d.Date, err)
		}
		return d.Date, nil
	default:
		return "", errors.New("missing date or day_offset")
	}
}

type fixtureSlots struct {
	day   `yaml:",inline"`
	Times []string `yaml:"times"`
}

type fixtureInterviewer struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name"`
	Role         string         `yaml:"role"`
	Availability []fixtureSlots `yaml:"availability"`
}

type fixtureInterview struct {
	day           `yaml:",inline"`
	ID            string `yaml:"id"`
	CandidateID   string `yaml:"candidate_id"`
	InterviewerID string `yaml:"interviewer_id"`
	JobID         string `yaml:"job_id"`
	Time          string `yaml:"time"`
	MeetLink      string `yaml:"meet_link"`
	Status        string `yaml:"status"`
	RoundNumber   int    `yaml:"round_number"`
	Feedback      string `yaml:"feedback"`
	Result        string `yaml:"result"`
}

// Default returns the embedded demo fixture
func Default(ref time.Time) (Data, error) {
	return Parse(defaultFixture, ref)
}

// LoadFile reads a fixture from disk
func LoadFile(path string, ref time.Time) (Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(b, ref)
}

// Parse decodes a YAML fixture and checks that every reference resolves
// and that no interviewer is booked twice for one slot
func Parse(b []byte, ref time.Time) (Data, error) {
	var fx fixture
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return Data{}, fmt.Errorf("failed to parse seed fixture: %w", err)
	}

	var d Data
	jobs := map[string]models.Job{}
	for _, j := range fx.Jobs {
		job, err := j.model()
		if err != nil {
			return Data{}, fmt.Errorf("job %s: %w", j.ID, err)
		}
		jobs[job.ID] = job
		d.Jobs = append(d.Jobs, job)
	}

	interviewers := map[string]bool{}
	for _, iv := range fx.Interviewers {
		availability := models.Availability{}
		for _, slot := range iv.Availability {
			date, err := slot.resolve(ref)
			if err != nil {
				return Data{}, fmt.Errorf("interviewer %s: %w", iv.ID, err)
			}
			for _, t := range slot.Times {
				if _, err := time.Parse(models.TimeLayout, t); err != nil {
					return Data{}, fmt.Errorf("interviewer %s: bad time %q", iv.ID, t)
				}
			}
			availability.Add(date, slot.Times...)
		}
		interviewers[iv.ID] = true
		d.Interviewers = append(d.Interviewers, models.Interviewer{
			ID:           iv.ID,
			Name:         iv.Name,
			Role:         iv.Role,
			Availability: availability,
		})
	}

	candidates := map[string]bool{}
	for _, c := range fx.Candidates {
		cand, err := c.model()
		if err != nil {
			return Data{}, fmt.Errorf("candidate %s: %w", c.ID, err)
		}
		job, ok := jobs[cand.JobID]
		if !ok {
			return Data{}, fmt.Errorf("candidate %s: unknown job %s", c.ID, cand.JobID)
		}
		if cand.CurrentRound > len(job.Rounds)+1 {
			return Data{}, fmt.Errorf("candidate %s: round %d beyond job's %d rounds", c.ID, cand.CurrentRound, len(job.Rounds))
		}
		candidates[cand.ID] = true
		d.Candidates = append(d.Candidates, cand)
	}

	interviewIDs := map[string]bool{}
	for _, in := range fx.Interviews {
		interview, err := in.model(ref)
		if err != nil {
			return Data{}, fmt.Errorf("interview %s: %w", in.ID, err)
		}
		if !candidates[interview.CandidateID] || !interviewers[interview.InterviewerID] {
			return Data{}, fmt.Errorf("interview %s: unknown candidate or interviewer", in.ID)
		}
		if _, ok := jobs[interview.JobID]; !ok {
			return Data{}, fmt.Errorf("interview %s: unknown job %s", in.ID, interview.JobID)
		}
		for _, other := range d.Interviews {
			if other.Occupies(interview.InterviewerID, interview.Date, interview.Time) && interview.Status != models.InterviewCancelled {
				return Data{}, fmt.Errorf("interview %s: double-books %s at %s %s", in.ID, interview.InterviewerID, interview.Date, interview.Time)
			}
		}
		interviewIDs[interview.ID] = true
		d.Interviews = append(d.Interviews, interview)
	}

	for _, c := range d.Candidates {
		if id, ok := c.InterviewID.Get(); ok && !interviewIDs[id] {
			return Data{}, fmt.Errorf("candidate %s: unknown interview %s", c.ID, id)
		}
	}

	return d, nil
}

func (j fixtureJob) model() (models.Job, error) {
	status := models.JobActive
	if j.Status != "" {
		status = models.JobStatus(j.Status)
		if !status.IsValid() {
			return models.Job{}, fmt.Errorf("unknown status %q", j.Status)
		}
	}
	if j.ID == "" || j.Title == "" {
		return models.Job{}, errors.New("id and title are required")
	}
	requirements := j.Requirements
	if requirements == nil {
		requirements = []string{}
	}
	return models.Job{
		ID:           j.ID,
		Title:        j.Title,
		Department:   j.Department,
		Location:     j.Location,
		Description:  j.Description,
		Requirements: requirements,
		Rounds:       models.RenumberRounds(j.Rounds),
		PostedDate:   j.PostedDate,
		Status:       status,
	}, nil
}

func (c fixtureCandidate) model() (models.Candidate, error) {
	status := models.StatusApplied
	if c.Status != "" {
		status = models.CandidateStatus(c.Status)
		if !status.IsValid() {
			return models.Candidate{}, fmt.Errorf("unknown status %q", c.Status)
		}
	}
	if c.MatchScore < 0 || c.MatchScore > 100 {
		return models.Candidate{}, fmt.Errorf("match score %d out of range", c.MatchScore)
	}
	round := max(c.CurrentRound, 1)

	cand := models.Candidate{
		ID:              c.ID,
		Name:            c.Name,
		Email:           c.Email,
		Skills:          c.Skills,
		ExperienceYears: c.ExperienceYears,
		Summary:         c.Summary,
		MatchScore:      c.MatchScore,
		AIReasoning:     c.AIReasoning,
		Status:          status,
		JobID:           c.JobID,
		AppliedDate:     c.AppliedDate,
		CurrentRound:    round,
	}
	if cand.Skills == nil {
		cand.Skills = []string{}
	}
	if c.Phone != "" {
		cand.Phone = models.Some(c.Phone)
	}
	if c.InterviewID != "" {
		cand.InterviewID = models.Some(c.InterviewID)
	}
	return cand, nil
}

func (in fixtureInterview) model(ref time.Time) (models.Interview, error) {
	date, err := in.resolve(ref)
	if err != nil {
		return models.Interview{}, err
	}
	if _, err := time.Parse(models.TimeLayout, in.Time); err != nil {
		return models.Interview{}, fmt.Errorf("bad time %q", in.Time)
	}
	status := models.InterviewScheduled
	if in.Status != "" {
		status = models.InterviewStatus(in.Status)
		if !status.IsValid() {
			return models.Interview{}, fmt.Errorf("unknown status %q", in.Status)
		}
	}

	interview := models.Interview{
		ID:            in.ID,
		CandidateID:   in.CandidateID,
		InterviewerID: in.InterviewerID,
		JobID:         in.JobID,
		Date:          date,
		Time:          in.Time,
		MeetLink:      in.MeetLink,
		Status:        status,
		RoundNumber:   max(in.RoundNumber, 1),
	}
	if in.Feedback != "" {
		interview.Feedback = models.Some(in.Feedback)
	}
	if in.Result != "" {
		result := models.InterviewResult(in.Result)
		if !result.IsValid() {
			return models.Interview{}, fmt.Errorf("unknown result %q", in.Result)
		}
		interview.Result = models.Some(result)
	}
	return interview, nil
}
