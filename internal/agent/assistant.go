package agent

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/fmuoria/recruit-agent/internal/gateway"
	"github.com/fmuoria/recruit-agent/internal/models"
	"github.com/fmuoria/recruit-agent/internal/pipeline"
	"github.com/fmuoria/recruit-agent/internal/scheduling"
)

// companyName signs outgoing correspondence
const companyName = "TalentAI"

// interviewDuration is the length used for calendar invitations
const interviewDuration = time.Hour

// Chat answers an HR assistant message. When a job is named its title,
// description and rounds are passed along as context. The assistant never
// fails; an AI error becomes a fixed apology.
func (a *RecruitingAgent) Chat(ctx context.Context, req models.ChatRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", invalid(err)
	}

	var contextText string
	if req.JobID != "" {
		job, err := a.GetJob(req.JobID)
		if err != nil {
			return "", err
		}
		contextText = jobContext(job)
	}

	reply, err := a.gateway.Chat(ctx, req.History, req.Message, contextText)
	if err != nil {
		log.Printf("chat failed: %v", err)
		return gateway.FallbackChatReply(), nil
	}
	return reply, nil
}

func jobContext(job models.Job) string {
	var b strings.Builder
	b.WriteString("Current User Job Context:\n")
	fmt.Fprintf(&b, "Title: %s\n", job.Title)
	fmt.Fprintf(&b, "Description: %s\n", job.Description)
	if len(job.Requirements) > 0 {
		fmt.Fprintf(&b, "Requirements: %s\n", strings.Join(job.Requirements, ", "))
	}
	b.WriteString("Interview Rounds:\n")
	for _, r := range job.Rounds {
		fmt.Fprintf(&b, "Round %d: %s - %s\n", r.RoundNumber, r.Topic, r.Description)
	}
	return b.String()
}

// Offer is a generated offer letter
type Offer struct {
	Candidate models.Candidate `json:"candidate"`
	Letter    string           `json:"letter"`
	FileName  string           `json:"file_name"`
}

// GenerateOffer drafts an offer letter and moves the candidate to Offer.
// A failed draft still makes the offer, with placeholder letter text.
func (a *RecruitingAgent) GenerateOffer(ctx context.Context, candidateID string) (Offer, error) {
	c, err := a.GetCandidate(candidateID)
	if err != nil {
		return Offer{}, err
	}
	if c.Status.IsTerminal() {
		return Offer{}, fmt.Errorf("offer %s from %s: %w", c.ID, c.Status, pipeline.ErrInvalidTransition)
	}
	job, err := a.GetJob(c.JobID)
	if err != nil {
		return Offer{}, err
	}

	letter, err := a.gateway.GenerateOfferLetter(ctx, c.Name, job.Title, a.now().Format("Mon Jan 02 2006"))
	if err != nil {
		log.Printf("offer letter for %s failed: %v", c.Name, err)
		letter = gateway.FallbackOfferLetter(err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.cancelActive(c.ID); err != nil {
		return Offer{}, err
	}
	c, err = a.engine.MarkOffer(c.ID)
	if err != nil {
		return Offer{}, err
	}

	return Offer{
		Candidate: c,
		Letter:    letter,
		FileName:  fmt.Sprintf("Offer_Letter_%s.txt", strings.ReplaceAll(strings.TrimSpace(c.Name), " ", "_")),
	}, nil
}

// DraftKind names a kind of candidate email
type DraftKind string

const (
	DraftRejection  DraftKind = "rejection"
	DraftInvitation DraftKind = "invitation"
)

// Draft is an email ready to be sent from the recruiter's own mailbox.
// Nothing is sent; the links open Gmail and Google Calendar prefilled.
type Draft struct {
	Kind         DraftKind `json:"kind"`
	To           string    `json:"to"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	GmailLink    string    `json:"gmail_link"`
	CalendarLink string    `json:"calendar_link,omitempty"`
}

// Draft composes a rejection or interview invitation email for a candidate.
// Invitations need an active interview.
func (a *RecruitingAgent) Draft(candidateID string, kind DraftKind) (Draft, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, ok := a.store.Candidate(candidateID)
	if !ok {
		return Draft{}, fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
	}
	jobTitle := "the position"
	job, hasJob := a.store.Job(c.JobID)
	if hasJob {
		jobTitle = job.Title
	}

	d := Draft{Kind: kind, To: c.Email}
	switch kind {
	case DraftRejection:
		d.Subject = fmt.Sprintf("Update regarding your application for %s", jobTitle)
		d.Body = fmt.Sprintf("Dear %s,\n\n"+
			"Thank you for giving us the opportunity to consider your application for the %s position at %s.\n\n"+
			"We have reviewed your qualifications and experience. While we were impressed with your background, "+
			"we have decided to move forward with other candidates who more closely match our current requirements.\n\n"+
			"Feedback from our hiring team:\n\"%s\"\n\n"+
			"We wish you the best in your job search.\n\n"+
			"Sincerely,\n%s Recruiting Team",
			c.Name, jobTitle, companyName, c.AIReasoning, companyName)

	case DraftInvitation:
		id, ok := c.InterviewID.Get()
		if !ok {
			return Draft{}, fmt.Errorf("invite %s: %w", c.ID, ErrNoActiveInterview)
		}
		in, ok := a.store.Interview(id)
		if !ok {
			return Draft{}, fmt.Errorf("interview %s: %w", id, scheduling.ErrInterviewNotFound)
		}
		topic := "Assessment"
		if hasJob {
			if r, ok := job.Round(in.RoundNumber); ok {
				topic = r.Topic
			}
		}
		d.Subject = fmt.Sprintf("Invitation: %s Interview - %s", topic, jobTitle)
		d.Body = fmt.Sprintf("Dear %s,\n\n"+
			"We are pleased to invite you to the next round of interviews for the %s position.\n\n"+
			"This round will focus on: %s.\n\n"+
			"Your interview has been scheduled for:\nDate: %s\nTime: %s\nMeeting Link: %s\n\n"+
			"We look forward to speaking with you.\n\n"+
			"Best regards,\n%s Recruiting Team",
			c.Name, jobTitle, topic, in.Date, in.Time, in.MeetLink, companyName)
		link, err := calendarLink(d.Subject, d.Body, in)
		if err != nil {
			return Draft{}, err
		}
		d.CalendarLink = link

	default:
		return Draft{}, fmt.Errorf("%w: unknown draft kind %q", ErrInvalidRequest, kind)
	}

	d.GmailLink = gmailComposeLink(d.To, d.Subject, d.Body)
	return d, nil
}

func gmailComposeLink(to, subject, body string) string {
	return "https://mail.google.com/mail/?view=cm&fs=1" +
		"&to=" + encodeComponent(to) +
		"&su=" + encodeComponent(subject) +
		"&body=" + encodeComponent(body)
}

// encodeComponent escapes spaces as %20 rather than +
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func calendarLink(title, details string, in models.Interview) (string, error) {
	start, err := time.Parse(models.DateLayout+" "+models.TimeLayout, in.Date+" "+in.Time)
	if err != nil {
		return "", fmt.Errorf("bad interview slot %s %s: %w", in.Date, in.Time, err)
	}
	const layout = "20060102T150405"
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", title)
	q.Set("dates", start.Format(layout)+"/"+start.Add(interviewDuration).Format(layout))
	q.Set("details", details)
	q.Set("location", in.MeetLink)
	return "https://calendar.google.com/calendar/render?" + q.Encode(), nil
}
