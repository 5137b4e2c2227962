package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/fmuoria/recruit-agent/internal/llm"
	"github.com/fmuoria/recruit-agent/internal/models"
)

// MaxResumeChars bounds the resume text sent to the model
const MaxResumeChars = 20000

const assistantPersona = "You are a helpful HR Assistant for TalentAI. You answer questions about candidates, interview scheduling, and company policies."

// LLMGateway implements Gateway on top of an llm.Client
type LLMGateway struct {
	client  llm.Client
	limiter *rate.Limiter
}

// NewLLMGateway creates a gateway. requestsPerSecond <= 0 disables pacing.
func NewLLMGateway(client llm.Client, requestsPerSecond float64) *LLMGateway {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &LLMGateway{
		client:  client,
		limiter: rate.NewLimiter(limit, 3),
	}
}

func (g *LLMGateway) wait(ctx context.Context, op string) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return &Error{Op: op, Err: err}
	}
	return nil
}

// ParseResume extracts a structured profile from resume text
func (g *LLMGateway) ParseResume(ctx context.Context, text string) (models.ParsedResume, error) {
	if err := g.wait(ctx, OpParseResume); err != nil {
		return models.ParsedResume{}, err
	}

	response, err := g.client.GenerateJSON(ctx, buildParsePrompt(text), llm.TierFast)
	if err != nil {
		return models.ParsedResume{}, &Error{Op: OpParseResume, Err: err}
	}

	raw, err := extractJSON(response)
	if err != nil {
		return models.ParsedResume{}, &Error{Op: OpParseResume, Err: err}
	}
	if err := validateJSON(resumeValidator, raw); err != nil {
		return models.ParsedResume{}, &Error{Op: OpParseResume, Err: err}
	}

	var parsed models.ParsedResume
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return models.ParsedResume{}, &Error{Op: OpParseResume, Err: fmt.Errorf("failed to unmarshal JSON: %w", err)}
	}
	if parsed.Skills == nil {
		parsed.Skills = []string{}
	}
	return parsed, nil
}

// RankCandidate scores a parsed candidate against a job
func (g *LLMGateway) RankCandidate(ctx context.Context, resume models.ParsedResume, job models.Job) (models.Ranking, error) {
	if err := g.wait(ctx, OpRankCandidate); err != nil {
		return models.Ranking{}, err
	}

	response, err := g.client.GenerateJSON(ctx, buildRankPrompt(resume, job), llm.TierPro)
	if err != nil {
		return models.Ranking{}, &Error{Op: OpRankCandidate, Err: err}
	}

	raw, err := extractJSON(response)
	if err != nil {
		return models.Ranking{}, &Error{Op: OpRankCandidate, Err: err}
	}
	if err := validateJSON(rankingValidator, raw); err != nil {
		return models.Ranking{}, &Error{Op: OpRankCandidate, Err: err}
	}

	var out struct {
		Score     float64 `json:"score"`
		Reasoning string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return models.Ranking{}, &Error{Op: OpRankCandidate, Err: fmt.Errorf("failed to unmarshal JSON: %w", err)}
	}

	return models.Ranking{
		Score:     clampScore(out.Score),
		Reasoning: strings.TrimSpace(out.Reasoning),
	}, nil
}

// Chat answers an HR assistant message, grounded on contextText when given
func (g *LLMGateway) Chat(ctx context.Context, history []models.ChatMessage, message, contextText string) (string, error) {
	if err := g.wait(ctx, OpChat); err != nil {
		return "", err
	}

	system := assistantPersona + " Keep answers professional and concise."
	if contextText != "" {
		system = assistantPersona + "\n\nCONTEXT:\n" + contextText
	}

	reply, err := g.client.Chat(ctx, system, history, message)
	if err != nil {
		return "", &Error{Op: OpChat, Err: err}
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", &Error{Op: OpChat, Err: ErrEmptyResponse}
	}
	return reply, nil
}

// GenerateOfferLetter drafts an offer letter with salary and start date placeholders
func (g *LLMGateway) GenerateOfferLetter(ctx context.Context, candidateName, jobTitle, date string) (string, error) {
	if err := g.wait(ctx, OpOfferLetter); err != nil {
		return "", err
	}

	prompt := fmt.Sprintf("Write a professional job offer letter for %s for the position of %s. Date: %s.\n"+
		"Include placeholders for salary and start date. Keep it warm and professional. Return raw text.",
		candidateName, jobTitle, date)

	letter, err := g.client.GenerateContent(ctx, prompt, llm.TierFast)
	if err != nil {
		return "", &Error{Op: OpOfferLetter, Err: err}
	}
	letter = strings.TrimSpace(letter)
	if letter == "" {
		return "", &Error{Op: OpOfferLetter, Err: ErrEmptyResponse}
	}
	return letter, nil
}

func buildParsePrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("Extract candidate information from the following resume text.\n")
	sb.WriteString("If specific fields are missing, infer reasonable defaults or leave empty.\n\n")
	sb.WriteString("Respond with a JSON object with these fields:\n")
	sb.WriteString(`{"name": string, "email": string, "phone": string, "skills": [string], "experience_years": number, "summary": string}` + "\n\n")
	sb.WriteString("RESUME TEXT:\n")
	sb.WriteString(truncate(sanitizeUTF8(text), MaxResumeChars))
	return sb.String()
}

func buildRankPrompt(resume models.ParsedResume, job models.Job) string {
	var sb strings.Builder
	sb.WriteString("Evaluate the candidate against the job description.\n\n")
	sb.WriteString(fmt.Sprintf("JOB TITLE: %s\n", job.Title))
	sb.WriteString(fmt.Sprintf("JOB REQUIREMENTS: %s\n", strings.Join(job.Requirements, ", ")))
	sb.WriteString(fmt.Sprintf("JOB DESCRIPTION: %s\n\n", job.Description))
	sb.WriteString(fmt.Sprintf("CANDIDATE SKILLS: %s\n", strings.Join(resume.Skills, ", ")))
	sb.WriteString(fmt.Sprintf("CANDIDATE EXPERIENCE: %g years\n", resume.ExperienceYears))
	sb.WriteString(fmt.Sprintf("CANDIDATE SUMMARY: %s\n\n", sanitizeUTF8(resume.Summary)))
	sb.WriteString("Provide a match score (0-100) and a concise one sentence reasoning string.\n")
	sb.WriteString(`Respond with JSON only: {"score": <0-100>, "reasoning": "<text>"}` + "\n")
	return sb.String()
}

// extractJSON finds the JSON object in a reply that may carry extra text
func extractJSON(response string) (string, error) {
	if strings.TrimSpace(response) == "" {
		return "", ErrEmptyResponse
	}

	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return "", fmt.Errorf("no JSON found in response")
	}
	return response[startIdx : endIdx+1], nil
}

func clampScore(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, score))))
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the replacement character
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}

// truncate shortens s to maxLen bytes on a rune boundary and marks the cut
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
