package seed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmuoria/recruit-agent/internal/models"
)

var ref = time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

func TestDefault(t *testing.T) {
	d, err := Default(ref)
	require.NoError(t, err)

	require.Len(t, d.Jobs, 2)
	assert.Equal(t, "Senior Frontend Engineer", d.Jobs[0].Title)
	require.Len(t, d.Jobs[0].Rounds, 3)
	assert.Equal(t, 3, d.Jobs[0].Rounds[2].RoundNumber)
	assert.Equal(t, models.JobActive, d.Jobs[1].Status)

	require.Len(t, d.Interviewers, 6)
	assert.Equal(t, []string{"10:00", "11:00", "14:00", "15:00"}, d.Interviewers[0].Availability.Slots("2024-03-10"))
	assert.Equal(t, []string{"11:00", "13:00"}, d.Interviewers[0].Availability.Slots("2024-03-12"))

	require.Len(t, d.Interviews, 1)
	assert.Equal(t, "2024-03-11", d.Interviews[0].Date)
	assert.Equal(t, models.InterviewScheduled, d.Interviews[0].Status)

	require.Len(t, d.Candidates, 2)
	id, ok := d.Candidates[0].InterviewID.Get()
	require.True(t, ok)
	assert.Equal(t, "int-1", id)
	assert.Equal(t, models.StatusRejected, d.Candidates[1].Status)
	assert.False(t, d.Candidates[1].InterviewID.IsSet())
}

func TestParse_AbsoluteDates(t *testing.T) {
	fixture := `
jobs:
  - id: j1
    title: Data Engineer
interviewers:
  - id: i1
    name: Sam
    role: Lead
    availability:
      - date: "2024-05-01"
        times: ["09:00"]
candidates:
  - id: c1
    name: Kim
    email: kim@example.com
    job_id: j1
interviews:
  - id: in1
    candidate_id: c1
    interviewer_id: i1
    job_id: j1
    date: "2024-05-01"
    time: "09:00"
    status: Completed
    result: Pass
    feedback: sharp
`
	d, err := Parse([]byte(fixture), ref)
	require.NoError(t, err)

	require.Len(t, d.Jobs[0].Rounds, 1)
	assert.Equal(t, "General Screening", d.Jobs[0].Rounds[0].Topic)
	assert.Equal(t, models.StatusApplied, d.Candidates[0].Status)
	assert.Equal(t, 1, d.Candidates[0].CurrentRound)
	assert.Equal(t, "sharp", d.Interviews[0].Feedback.OrElse(""))
	res, _ := d.Interviews[0].Result.Get()
	assert.Equal(t, models.ResultPass, res)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		fixture string
	}{
		{"unknown field", "jobs:\n  - id: j1\n    title: X\n    salary: 10\n"},
		{"candidate without job", "candidates:\n  - id: c1\n    name: A\n    job_id: nope\n"},
		{"bad status", "jobs:\n  - id: j1\n    title: X\ncandidates:\n  - id: c1\n    job_id: j1\n    status: Waiting\n"},
		{"both date forms", "interviewers:\n  - id: i1\n    availability:\n      - {date: \"2024-01-01\", day_offset: 1, times: [\"09:00\"]}\n"},
		{"bad time", "interviewers:\n  - id: i1\n    availability:\n      - {day_offset: 0, times: [\"9am\"]}\n"},
		{"dangling interview reference", "jobs:\n  - id: j1\n    title: X\ncandidates:\n  - id: c1\n    job_id: j1\n    interview_id: int-9\n"},
		{"double booking", `
jobs:
  - {id: j1, title: X}
interviewers:
  - {id: i1, name: Sam, availability: [{day_offset: 0, times: ["09:00"]}]}
candidates:
  - {id: c1, job_id: j1}
  - {id: c2, job_id: j1}
interviews:
  - {id: a, candidate_id: c1, interviewer_id: i1, job_id: j1, day_offset: 0, time: "09:00"}
  - {id: b, candidate_id: c2, interviewer_id: i1, job_id: j1, day_offset: 0, time: "09:00"}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.fixture), ref)
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jobs:\n  - id: j1\n    title: QA\n"), 0644))

	d, err := LoadFile(path, ref)
	require.NoError(t, err)
	assert.Len(t, d.Jobs, 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), ref)
	assert.Error(t, err)
}
