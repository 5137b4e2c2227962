package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/fmuoria/recruit-agent/internal/models"
)

// ModelTier selects between the fast and the reasoning model
type ModelTier string

const (
	// TierFast is used for resume parsing, chat and offer letters
	TierFast ModelTier = "fast"
	// TierPro is used for candidate ranking
	TierPro ModelTier = "pro"
)

// Provider names a model backend
type Provider string

const (
	ProviderVertex Provider = "vertex"
	ProviderGemini Provider = "gemini"
)

// Default model names
const (
	DefaultFastModel = "gemini-2.5-flash"
	DefaultProModel  = "gemini-2.5-pro"
)

// Client is the text generation capability the AI gateway is built on
type Client interface {
	// GenerateContent returns the model's plain text reply to prompt
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON asks for a JSON reply and strips any code fences
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// Chat continues a conversation under a system instruction
	Chat(ctx context.Context, system string, history []models.ChatMessage, message string) (string, error)
	Close() error
}

// Options configures a Client
type Options struct {
	Provider  Provider
	ProjectID string // vertex
	Location  string // vertex
	APIKey    string // gemini
	FastModel string
	ProModel  string
}

func (o Options) model(tier ModelTier) string {
	if tier == TierPro && o.ProModel != "" {
		return o.ProModel
	}
	if tier == TierPro {
		return DefaultProModel
	}
	if o.FastModel != "" {
		return o.FastModel
	}
	return DefaultFastModel
}

// NewClient creates the client for opts.Provider
func NewClient(ctx context.Context, opts Options) (Client, error) {
	switch opts.Provider {
	case ProviderVertex, "":
		return NewVertexAIClient(ctx, opts)
	case ProviderGemini:
		return NewGeminiClient(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", opts.Provider)
	}
}

// CleanJSONBlock removes markdown code fences around a JSON reply
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
