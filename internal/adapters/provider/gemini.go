package provider

import (
	"context"
	"time"

	"doctor-post-bot/internal/domain"
	"doctor-post-bot/internal/infra/chatcompletion"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini provider. BaseURL points at the OpenAI-compatible endpoint.
type GeminiConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Gemini generates posts through Google's OpenAI-compatible chat completions endpoint.
type Gemini struct {
	client    *chatcompletion.Client
	model     string
	maxTokens int
}

var _ domain.Provider = (*Gemini)(nil)

func NewGemini(cfg GeminiConfig) *Gemini {
	return &Gemini{
		client:    chatcompletion.NewClient(cfg.APIKey, cfg.BaseURL, "gemini", cfg.Timeout),
		model:     modelOr(cfg.Model, defaultGeminiModel),
		maxTokens: cfg.MaxTokens,
	}
}

func (p *Gemini) Kind() domain.ProviderKind { return domain.ProviderGemini }

func (p *Gemini) Generate(ctx context.Context, prompt domain.PromptSpec) (domain.GeneratedPost, error) {
	resp, err := p.client.Create(ctx, chatcompletion.Request{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		Messages: []chatcompletion.Message{
			{Role: chatcompletion.RoleSystem, Content: systemPrompt},
			{Role: chatcompletion.RoleUser, Content: prompt.Text},
		},
	})
	if err != nil {
		return domain.GeneratedPost{}, generationError(p.Kind(), err)
	}
	text := cleanPost(resp.Text())
	if text == "" {
		return domain.GeneratedPost{}, emptyResult(p.Kind())
	}
	return domain.GeneratedPost{Text: text, Provider: p.Kind(), Model: p.model}, nil
}
