package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmuoria/recruit-agent/internal/gateway"
	"github.com/fmuoria/recruit-agent/internal/ingestion"
	"github.com/fmuoria/recruit-agent/internal/models"
	"github.com/fmuoria/recruit-agent/internal/pipeline"
	"github.com/fmuoria/recruit-agent/internal/scheduling"
)

// fakeGateway parses the first line of a resume as the candidate name and
// scores candidates from a fixed table
type fakeGateway struct {
	mu       sync.Mutex
	scores   map[string]int
	parseErr error
	rankErr  error
	chatErr  error
	offerErr error
	onParse  func()

	lastContext string
	calls       int
}

func (f *fakeGateway) ParseResume(ctx context.Context, text string) (models.ParsedResume, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.onParse != nil {
		f.onParse()
		if err := ctx.Err(); err != nil {
			return models.ParsedResume{}, &gateway.Error{Op: gateway.OpParseResume, Err: err}
		}
	}
	if f.parseErr != nil {
		return models.ParsedResume{}, f.parseErr
	}
	name, _, _ := strings.Cut(text, "\n")
	return models.ParsedResume{
		Name:            name,
		Email:           strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Skills:          []string{"Go"},
		ExperienceYears: 3,
		Summary:         "Engineer.",
	}, nil
}

func (f *fakeGateway) RankCandidate(ctx context.Context, resume models.ParsedResume, job models.Job) (models.Ranking, error) {
	if f.rankErr != nil {
		return models.Ranking{}, f.rankErr
	}
	return models.Ranking{Score: f.scores[resume.Name], Reasoning: "fit for " + job.Title}, nil
}

func (f *fakeGateway) Chat(ctx context.Context, history []models.ChatMessage, message, contextText string) (string, error) {
	f.mu.Lock()
	f.lastContext = contextText
	f.mu.Unlock()
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return "reply to " + message, nil
}

func (f *fakeGateway) GenerateOfferLetter(ctx context.Context, candidateName, jobTitle, date string) (string, error) {
	if f.offerErr != nil {
		return "", f.offerErr
	}
	return fmt.Sprintf("Dear %s, welcome aboard as %s (%s)", candidateName, jobTitle, date), nil
}

type fakeMail struct {
	paths []string
	err   error
}

func (m *fakeMail) FetchAttachments(ctx context.Context, subject string) ([]string, error) {
	return m.paths, m.err
}

func newTestAgent(t *testing.T, gw gateway.Gateway) *RecruitingAgent {
	t.Helper()
	a := New(gw, ingestion.NewFileHandler(t.TempDir()), nil)
	a.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }
	return a
}

// seedPipeline posts a two-round job with one interviewer open at two slots
func seedPipeline(t *testing.T, a *RecruitingAgent) (models.Job, models.Candidate) {
	t.Helper()
	job, err := a.CreateJob(models.CreateJobRequest{
		Title:       "Backend Engineer",
		Description: "APIs",
		Rounds: []models.RoundInput{
			{Topic: "Technical", Description: "Coding"},
			{Topic: "Culture"},
		},
	})
	require.NoError(t, err)

	_, err = a.AddInterviewer(models.CreateInterviewerRequest{
		Name: "Sarah Connor",
		Role: "Engineering Manager",
		Availability: map[string][]string{
			"2024-01-01": {"10:00"},
			"2024-01-02": {"11:00"},
		},
	})
	require.NoError(t, err)

	c, err := a.AddCandidate(models.CreateCandidateRequest{
		Name:  "Alice Smith",
		Email: "Alice@Example.com",
		JobID: job.ID,
	})
	require.NoError(t, err)
	return job, c
}

func TestCreateJob_DefaultRound(t *testing.T) {
	a := newTestAgent(t, &fakeGateway{})

	job, err := a.CreateJob(models.CreateJobRequest{Title: " Designer ", Description: "UI"})
	require.NoError(t, err)
	assert.Equal(t, "Designer", job.Title)
	assert.Equal(t, models.JobActive, job.Status)
	assert.Equal(t, "2024-01-01", job.PostedDate)
	require.Len(t, job.Rounds, 1)
	assert.Equal(t, "General Screening", job.Rounds[0].Topic)
	assert.Equal(t, "General", job.Department)
	assert.Equal(t, "Remote", job.Location)

	placed, err := a.CreateJob(models.CreateJobRequest{Title: "SRE", Description: "Ops", Department: "Platform", Location: " Berlin "})
	require.NoError(t, err)
	assert.Equal(t, "Platform", placed.Department)
	assert.Equal(t, "Berlin", placed.Location)

	_, err = a.CreateJob(models.CreateJobRequest{Description: "no title"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = a.GetJob("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTwoRoundPipeline(t *testing.T) {
	a := newTestAgent(t, &fakeGateway{})
	_, c := seedPipeline(t, a)

	booking, err := a.ScheduleInterview(models.ScheduleRequest{CandidateID: c.ID, Date: "2024-01-01", Time: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, 1, booking.Interview.RoundNumber)
	assert.Equal(t, "Sarah Connor", booking.Interviewer.Name)

	outcome, c, err := a.SubmitFeedback(booking.Interview.ID, models.FeedbackRequest{Feedback: "solid", Result: models.ResultPass})
	require.NoError(t, err)
	assert.Equal(t, pipeline.OutcomeNextRound, outcome)
	assert.Equal(t, models.StatusScreening, c.Status)
	assert.Equal(t, 2, c.CurrentRound)
	assert.False(t, c.InterviewID.IsSet())

	booking, err = a.ScheduleInterview(models.ScheduleRequest{CandidateID: c.ID, Date: "2024-01-02", Time: "11:00"})
	require.NoError(t, err)
	assert.Equal(t, 2, booking.Interview.RoundNumber)

	outcome, c, err = a.SubmitFeedback(booking.Interview.ID, models.FeedbackRequest{Result: models.ResultPass})
	require.NoError(t, err)
	assert.Equal(t, pipeline.OutcomeOffer, outcome)
	assert.Equal(t, models.StatusOffer, c.Status)

	// feedback twice on the same interview is refused
	_, _, err = a.SubmitFeedback(booking.Interview.ID, models.FeedbackRequest{Result: models.ResultFail})
	assert.ErrorIs(t, err, scheduling.ErrInterviewCompleted)

	c, err = a.HireCandidate(c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusHired, c.Status)
}

func TestScheduleInterview_Guards(t *testing.T) {
	a := newTestAgent(t, &fakeGateway{})
	job, c := seedPipeline(t, a)

	_, err := a.ScheduleInterview(models.ScheduleRequest{CandidateID: c.ID, Date: "2024-01-03", Time: "10:00"})
	assert.ErrorIs(t, err, scheduling.ErrNotAvailable)

	_, err = a.ScheduleInterview(models.ScheduleRequest{CandidateID: c.ID, Date: "01/01/2024", Time: "10:00"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = a.ScheduleInterview(models.ScheduleRequest{CandidateID: "nope", Date: "2024-01-01", Time: "10:00"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = a.ScheduleInterview(models.ScheduleRequest{CandidateID: c.ID, Date: "2024-01-01", Time: "10:00"})
	require.NoError(t, err)
	_, err = a.ScheduleInterview(models.ScheduleRequest{CandidateID: c.ID, Date: "2024-01-02", Time: "11:00"})
	assert.ErrorIs(t, err, ErrAlreadyScheduled)

	other, err := a.AddCandidate(models.CreateCandidateRequest{Name: "Bob", Email: "bob@example.com", JobID: job.ID})
	require.NoError(t, err)
	_, err = a.ScheduleInterview(models.ScheduleRequest{CandidateID: other.ID, Date: "2024-01-01", Time: "10:00"})
	assert.ErrorIs(t, err, scheduling.ErrNotAvailable)

	_, err = a.RejectCandidate(other.ID)
	require.NoError(t, err)
	_, err = a.ScheduleInterview(models.ScheduleRequest{CandidateID: other.ID, Date: "2024-01-02", Time: "11:00"})
	assert.ErrorIs(t, err, pipeline.ErrInvalidTransition)
}

func TestScheduleInterview_ConcurrentBookingsNeverDoubleBook(t *testing.T) {
	a := newTestAgent(t, &fakeGateway{})
	job, _ := seedPipeline(t, a)

	const n = 20
	ids := make([]string, n)
	for i := range ids {
		c, err := a.AddCandidate(models.CreateCandidateRequest{
			Name:  fmt.Sprintf("Candidate %d", i),
			Email: fmt.Sprintf("c%d@example.com", i),
			JobID: job.ID,
		})
		require.NoError(t, err)
		ids[i] = c.ID
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	booked := 0
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.ScheduleInterview(models.ScheduleRequest{CandidateID: id, Date: "2024-01-01", Time: "10:00"})
			if err == nil {
				mu.Lock()
				booked++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, booked)
	assert.Len(t, a.ListInterviews(""), 1)
}

func TestCancelAndRebook(t *testing.T) {
	a := newTestAgent(t, &fakeGateway{})
	_, c := seedPipeline(t, a)

	booking, err := a.ScheduleInterview(models.ScheduleRequest{CandidateID: c.ID, Date: "2024-01-01", Time: "10:00"})
	require.NoError(t, err)

	cancelled, err := a.CancelInterview(booking.Interview.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InterviewCancelled, cancelled.Status)

	c, err = a.GetCandidate(c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusScreening, c.Status)

	_, err = a.RescheduleInterview(booking.Interview.ID, models.RescheduleRequest{Date: "2024-01-02", Time: "11:00"})
	assert.ErrorIs(t, err, scheduling.ErrInterviewCompleted)

	// the freed slot can be booked again
	_, err = a.ScheduleInterview(models.ScheduleRequest{CandidateID: c.ID, Date: "2024-01-01", Time: "10:00"})
	assert.NoError(t, err)
}

func TestRejectCandidate_ReleasesSlot(t *testing.T) {
	a := newTestAgent(t, &fakeGateway{})
	_, c := seedPipeline(t, a)

	booking, err := a.ScheduleInterview(models.ScheduleRequest{CandidateID: c.ID, Date: "2024-01-01", Time: "10:00"})
	require.NoError(t, err)

	c, err = a.RejectCandidate(c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, c.Status)
	assert.False(t, c.InterviewID.IsSet())
	assert.Equal(t, []string{"10:00"}, a.AvailableSlots("2024-01-01"))

	interviews := a.ListInterviews(c.ID)
	require.Len(t, interviews, 1)
	assert.Equal(t, booking.Interview.ID, interviews[0].ID)
	assert.Equal(t, models.InterviewCancelled, interviews[0].Status)

	_, err = a.RejectCandidate(c.ID)
	assert.ErrorIs(t, err, pipeline.ErrInvalidTransition)
}

func writeResumes(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".txt")
		require.NoError(t, os.WriteFile(path, []byte(name+"\nExperienced engineer with production Go experience."), 0644))
		paths = append(paths, path)
	}
	return paths
}

func TestIngestResumes(t *testing.T) {
	gw := &fakeGateway{scores: map[string]int{"Alice": 92, "Bob": 80, "Carol": 79, "Dan": 40}}
	a := newTestAgent(t, gw)
	job, _ := seedPipeline(t, a)

	var progress []int
	a.SetProgressCallback(func(current, total int, message string) {
		progress = append(progress, current)
		assert.Equal(t, 5, total)
	})

	paths := writeResumes(t, a.FileHandler.UploadsDir(), "Alice", "Bob", "Carol", "Dan")
	paths = append(paths[:2], append([]string{filepath.Join(t.TempDir(), "missing.txt")}, paths[2:]...)...)

	summary, err := a.IngestResumes(context.Background(), job.ID, paths)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Processed)
	assert.Equal(t, 4, summary.Added)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2, summary.AutoSelected)
	assert.Equal(t, 2, summary.AutoRejected)
	assert.Equal(t, []int{0, 3, 5}, progress)

	byName := map[string]models.Candidate{}
	for _, c := range a.ListCandidates(job.ID, "") {
		byName[c.Name] = c
	}
	assert.Equal(t, models.StatusInterview, byName["Bob"].Status)
	assert.Equal(t, models.StatusRejected, byName["Carol"].Status)
	assert.Equal(t, 1, byName["Alice"].CurrentRound)
	assert.Equal(t, "2024-01-01", byName["Alice"].AppliedDate)
	assert.Contains(t, byName["Alice"].ResumeText, "Experienced engineer")
	assert.Equal(t, "fit for Backend Engineer", byName["Dan"].AIReasoning)
}

func TestIngestResumes_AIFailuresDegrade(t *testing.T) {
	gw := &fakeGateway{
		parseErr: &gateway.Error{Op: gateway.OpParseResume, Err: errors.New("429 quota")},
		rankErr:  &gateway.Error{Op: gateway.OpRankCandidate, Err: gateway.ErrEmptyResponse},
	}
	a := newTestAgent(t, gw)
	job, _ := seedPipeline(t, a)

	summary, err := a.IngestResumes(context.Background(), job.ID, writeResumes(t, t.TempDir(), "Eve"))
	require.NoError(t, err)
	require.Len(t, summary.Candidates, 1)

	c := summary.Candidates[0]
	assert.Equal(t, "Unknown Candidate", c.Name)
	assert.Equal(t, 0, c.MatchScore)
	assert.Equal(t, "AI evaluation failed.", c.AIReasoning)
	assert.Equal(t, models.StatusRejected, c.Status)
}

func TestIngestResumes_Errors(t *testing.T) {
	a := newTestAgent(t, &fakeGateway{})

	_, err := a.IngestResumes(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	job, _ := seedPipeline(t, a)
	_, err = a.IngestFromUploads(context.Background(), job.ID)
	assert.Error(t, err)

	_, err = a.IngestFromGmail(context.Background(), job.ID, "Job Application")
	assert.ErrorIs(t, err, ErrGmailDisabled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.IngestResumes(ctx, job.ID, writeResumes(t, t.TempDir(), "Zed"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngestResumes_CancelledMidBatchAddsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := newTestAgent(t, &fakeGateway{onParse: cancel})
	job, _ := seedPipeline(t, a)
	before := len(a.ListCandidates("", ""))

	summary, err := a.IngestResumes(ctx, job.ID, writeResumes(t, t.TempDir(), "Gus", "Hana"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Added)
	assert.Len(t, a.ListCandidates("", ""), before)
	assert.Empty(t, a.ListCandidates("", "Unknown"))
}

func TestIngestFromUploads(t *testing.T) {
	gw := &fakeGateway{scores: map[string]int{"Ivy": 95, "Jon": 20}}
	a := newTestAgent(t, gw)
	job, _ := seedPipeline(t, a)
	paths := writeResumes(t, a.FileHandler.UploadsDir(), "Ivy", "Jon")

	summary, err := a.IngestFromUploads(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Added)
	assert.Equal(t, 1, summary.AutoSelected)

	for _, path := range paths {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "%s should be removed after ingestion", path)
	}

	_, err = a.IngestFromUploads(context.Background(), job.ID)
	assert.Error(t, err, "a second run finds nothing left to ingest")
}

func TestIngestFromGmail(t *testing.T) {
	gw := &fakeGateway{scores: map[string]int{"Frank": 88}}
	a := newTestAgent(t, gw)
	job, _ := seedPipeline(t, a)
	fetched := writeResumes(t, t.TempDir(), "Frank")
	a.mail = &fakeMail{paths: fetched}

	summary, err := a.IngestFromGmail(context.Background(), job.ID, "Job Application")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.AutoSelected)
	_, err = os.Stat(fetched[0])
	assert.True(t, os.IsNotExist(err), "fetched attachments are removed once ingested")

	a.mail = &fakeMail{err: errors.New("token expired")}
	_, err = a.IngestFromGmail(context.Background(), job.ID, "Job Application")
	assert.ErrorContains(t, err, "token expired")
}

func TestChat(t *testing.T) {
	gw := &fakeGateway{}
	a := newTestAgent(t, gw)
	job, _ := seedPipeline(t, a)

	reply, err := a.Chat(context.Background(), models.ChatRequest{Message: "Who is next?", JobID: job.ID})
	require.NoError(t, err)
	assert.Equal(t, "reply to Who is next?", reply)
	assert.Contains(t, gw.lastContext, "Title: Backend Engineer")
	assert.Contains(t, gw.lastContext, "Round 1: Technical - Coding")
	assert.Contains(t, gw.lastContext, "Round 2: Culture - No description provided.")

	gw.chatErr = errors.New("down")
	reply, err = a.Chat(context.Background(), models.ChatRequest{Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, gateway.FallbackChatReply(), reply)

	_, err = a.Chat(context.Background(), models.ChatRequest{})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGenerateOffer(t *testing.T) {
	gw := &fakeGateway{}
	a := newTestAgent(t, gw)
	_, c := seedPipeline(t, a)

	offer, err := a.GenerateOffer(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOffer, offer.Candidate.Status)
	assert.Equal(t, "Offer_Letter_Alice_Smith.txt", offer.FileName)
	assert.Contains(t, offer.Letter, "Backend Engineer")
	assert.Contains(t, offer.Letter, "Mon Jan 01 2024")

	gw.offerErr = errors.New("down")
	_, c2 := seedPipeline(t, a)
	offer, err = a.GenerateOffer(context.Background(), c2.ID)
	require.NoError(t, err)
	assert.Equal(t, "Error generating offer letter.", offer.Letter)

	_, err = a.HireCandidate(c.ID)
	require.NoError(t, err)
	_, err = a.GenerateOffer(context.Background(), c.ID)
	assert.ErrorIs(t, err, pipeline.ErrInvalidTransition)
}

func TestDrafts(t *testing.T) {
	a := newTestAgent(t, &fakeGateway{})
	_, c := seedPipeline(t, a)

	_, err := a.Draft(c.ID, DraftInvitation)
	assert.ErrorIs(t, err, ErrNoActiveInterview)

	booking, err := a.ScheduleInterview(models.ScheduleRequest{CandidateID: c.ID, Date: "2024-01-01", Time: "10:00"})
	require.NoError(t, err)

	invite, err := a.Draft(c.ID, DraftInvitation)
	require.NoError(t, err)
	assert.Equal(t, "Invitation: Technical Interview - Backend Engineer", invite.Subject)
	assert.Contains(t, invite.Body, "This round will focus on: Technical.")
	assert.Contains(t, invite.Body, "Meeting Link: "+booking.Interview.MeetLink)
	assert.True(t, strings.HasPrefix(invite.GmailLink, "https://mail.google.com/mail/?view=cm&fs=1&to=Alice%40Example.com&su=Invitation%3A%20Technical"))
	assert.Contains(t, invite.CalendarLink, "dates=20240101T100000%2F20240101T110000")

	rejection, err := a.Draft(c.ID, DraftRejection)
	require.NoError(t, err)
	assert.Equal(t, "Update regarding your application for Backend Engineer", rejection.Subject)
	assert.Contains(t, rejection.Body, "Dear Alice Smith,")
	assert.Empty(t, rejection.CalendarLink)

	_, err = a.Draft(c.ID, DraftKind("promotion"))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestLoginAndPortalReschedule(t *testing.T) {
	a := newTestAgent(t, &fakeGateway{})
	job, c := seedPipeline(t, a)

	portal, err := a.Login(models.LoginRequest{Email: "alice@example.COM"})
	require.NoError(t, err)
	assert.Equal(t, c.ID, portal.Candidate.ID)
	require.NotNil(t, portal.Job)
	assert.Equal(t, job.ID, portal.Job.ID)
	assert.Nil(t, portal.Interview)

	_, err = a.PortalReschedule(c.ID, models.RescheduleRequest{Date: "2024-01-02", Time: "11:00"})
	assert.ErrorIs(t, err, ErrNoActiveInterview)

	_, err = a.ScheduleInterview(models.ScheduleRequest{CandidateID: c.ID, Date: "2024-01-01", Time: "10:00"})
	require.NoError(t, err)

	portal, err = a.PortalReschedule(c.ID, models.RescheduleRequest{Date: "2024-01-02", Time: "11:00"})
	require.NoError(t, err)
	require.NotNil(t, portal.Interview)
	assert.Equal(t, "2024-01-02", portal.Interview.Date)
	assert.Equal(t, "Sarah Connor", portal.Interviewer.Name)
	assert.Equal(t, "Technical", portal.CurrentRound.Topic)

	_, err = a.PortalReschedule(c.ID, models.RescheduleRequest{Date: "2024-01-05", Time: "11:00"})
	assert.ErrorIs(t, err, scheduling.ErrNotAvailable)

	_, err = a.Login(models.LoginRequest{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordVoiceScreening(t *testing.T) {
	a := newTestAgent(t, &fakeGateway{})
	_, c := seedPipeline(t, a)

	c, err := a.RecordVoiceScreening(c.ID, models.VoiceScreeningRequest{
		Transcript:      "I enjoy building APIs.",
		ConfidenceScore: 82,
		Sentiment:       models.SentimentPositive,
	})
	require.NoError(t, err)
	vs, ok := c.VoiceScreening.Get()
	require.True(t, ok)
	assert.Equal(t, 82, vs.ConfidenceScore)

	_, err = a.RecordVoiceScreening(c.ID, models.VoiceScreeningRequest{Transcript: "x", Sentiment: "Ecstatic"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestListCandidates_Query(t *testing.T) {
	a := newTestAgent(t, &fakeGateway{})
	job, _ := seedPipeline(t, a)
	_, err := a.AddCandidate(models.CreateCandidateRequest{Name: "Bob Jones", Email: "bob@example.com", JobID: job.ID, Skills: []string{"Kubernetes"}})
	require.NoError(t, err)

	assert.Len(t, a.ListCandidates("", ""), 2)
	assert.Len(t, a.ListCandidates(job.ID, "kube"), 1)
	assert.Len(t, a.ListCandidates(job.ID, "ALICE"), 1)
	assert.Empty(t, a.ListCandidates("other-job", ""))

	// newest first
	assert.Equal(t, "Bob Jones", a.ListCandidates("", "")[0].Name)
}

func TestDashboard(t *testing.T) {
	a := newTestAgent(t, &fakeGateway{})
	job, c := seedPipeline(t, a)
	other, err := a.CreateJob(models.CreateJobRequest{Title: "Designer", Description: "UI"})
	require.NoError(t, err)

	for i, score := range []int{60, 95, 70} {
		_, err := a.AddCandidate(models.CreateCandidateRequest{
			Name: fmt.Sprintf("C%d", i), Email: fmt.Sprintf("c%d@example.com", i), JobID: job.ID, MatchScore: score,
		})
		require.NoError(t, err)
	}
	_, err = a.AddCandidate(models.CreateCandidateRequest{Name: "D", Email: "d@example.com", JobID: other.ID, MatchScore: 99})
	require.NoError(t, err)
	_, err = a.ScheduleInterview(models.ScheduleRequest{CandidateID: c.ID, Date: "2024-01-01", Time: "10:00"})
	require.NoError(t, err)

	all := a.Dashboard("")
	assert.Equal(t, 2, all.ActiveJobs)
	assert.Equal(t, 5, all.TotalCandidates)
	assert.Equal(t, 1, all.UpcomingInterviews)
	assert.Equal(t, 5, all.Funnel.Total)
	assert.Equal(t, 1, all.Funnel.Interview)
	assert.Equal(t, "D", all.TopCandidates[0].Name)

	scoped := a.Dashboard(job.ID)
	assert.Equal(t, 4, scoped.Funnel.Total)
	assert.Equal(t, 3, scoped.Funnel.Applied)
	require.Len(t, scoped.TopCandidates, 4)
	assert.Equal(t, "C1", scoped.TopCandidates[0].Name)
}

func TestImportKeepsDisplayOrder(t *testing.T) {
	a := newTestAgent(t, &fakeGateway{})
	a.Import(Snapshot{
		Jobs: []models.Job{
			{ID: "j1", Title: "First", Status: models.JobActive},
			{ID: "j2", Title: "Second", Status: models.JobActive},
		},
		Candidates: []models.Candidate{
			{ID: "c1", Name: "A", JobID: "j1"},
			{ID: "c2", Name: "B", JobID: "j1", CurrentRound: 2},
		},
		Interviewers: []models.Interviewer{{ID: "i1", Name: "X"}},
	})

	jobs := a.ListJobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "j1", jobs[0].ID)
	assert.Equal(t, "General Screening", jobs[0].Rounds[0].Topic)

	cands := a.ListCandidates("", "")
	assert.Equal(t, "c1", cands[0].ID)
	assert.Equal(t, 1, cands[0].CurrentRound)
	assert.Equal(t, 2, cands[1].CurrentRound)
	assert.NotNil(t, a.ListInterviewers()[0].Availability)
}

// TestRankCandidates tests the tie-breaking logic for equal match scores
func TestRankCandidates(t *testing.T) {
	tests := []struct {
		name       string
		candidates []models.Candidate
		expected   []string // Expected order of names
	}{
		{
			name: "Sort by match score (no ties)",
			candidates: []models.Candidate{
				{Name: "Alice", MatchScore: 70},
				{Name: "Bob", MatchScore: 90},
				{Name: "Carol", MatchScore: 80},
			},
			expected: []string{"Bob", "Carol", "Alice"},
		},
		{
			name: "Tie on score, broken by experience",
			candidates: []models.Candidate{
				{Name: "Alice", MatchScore: 80, ExperienceYears: 4},
				{Name: "Bob", MatchScore: 80, ExperienceYears: 6.5},
				{Name: "Carol", MatchScore: 90, ExperienceYears: 1},
			},
			expected: []string{"Carol", "Bob", "Alice"},
		},
		{
			name: "Complete tie, broken by name",
			candidates: []models.Candidate{
				{Name: "Bob", MatchScore: 80, ExperienceYears: 4},
				{Name: "Alice", MatchScore: 80, ExperienceYears: 4},
			},
			expected: []string{"Alice", "Bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := make([]models.Candidate, len(tt.candidates))
			copy(candidates, tt.candidates)

			RankCandidates(candidates)

			for i, name := range tt.expected {
				if candidates[i].Name != name {
					t.Errorf("Position %d: got %s, want %s", i, candidates[i].Name, name)
				}
			}
		})
	}
}
