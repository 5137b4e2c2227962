package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fmuoria/recruit-agent/internal/models"
)

// Operation names used in gateway errors
const (
	OpParseResume   = "parse_resume"
	OpRankCandidate = "rank_candidate"
	OpChat          = "chat"
	OpOfferLetter   = "offer_letter"
)

// ErrEmptyResponse means the model replied with nothing usable
var ErrEmptyResponse = errors.New("empty response from model")

// Error wraps any failure of an AI operation
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ai %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Gateway is the AI capability the recruiting pipeline depends on. Every
// call may fail; callers pick a fallback from this package explicitly.
type Gateway interface {
	ParseResume(ctx context.Context, text string) (models.ParsedResume, error)
	RankCandidate(ctx context.Context, resume models.ParsedResume, job models.Job) (models.Ranking, error)
	Chat(ctx context.Context, history []models.ChatMessage, message, contextText string) (string, error)
	GenerateOfferLetter(ctx context.Context, candidateName, jobTitle, date string) (string, error)
}

// FallbackResume is the placeholder record for a resume that failed to parse
func FallbackResume() models.ParsedResume {
	return models.ParsedResume{
		Name:            "Unknown Candidate",
		Email:           "unknown@example.com",
		Skills:          []string{},
		ExperienceYears: 0,
		Summary:         "Failed to parse resume.",
	}
}

// FallbackRanking scores zero when the model answered with nothing, and a
// neutral 50 when the service itself could not be reached.
func FallbackRanking(err error) models.Ranking {
	if errors.Is(err, ErrEmptyResponse) {
		return models.Ranking{Score: 0, Reasoning: "AI evaluation failed."}
	}
	return models.Ranking{Score: 50, Reasoning: "AI service unavailable."}
}

// FallbackChatReply is shown when the assistant cannot answer
func FallbackChatReply() string {
	return "I'm having trouble connecting to the HR database right now."
}

// FallbackOfferLetter is used when letter generation fails
func FallbackOfferLetter(err error) string {
	if errors.Is(err, ErrEmptyResponse) {
		return "Could not generate offer letter."
	}
	return "Error generating offer letter."
}

// IsRateLimited reports whether err looks like a quota or throttling failure
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "resourceexhausted") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota")
}
