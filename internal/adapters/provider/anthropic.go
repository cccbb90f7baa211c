package provider

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"doctor-post-bot/internal/domain"
	"doctor-post-bot/internal/infra/metrics"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// AnthropicConfig configures the Claude provider.
type AnthropicConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int64
}

// Anthropic generates posts with the Messages API.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

var _ domain.Provider = (*Anthropic)(nil)

func NewAnthropic(cfg AnthropicConfig) *Anthropic {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     modelOr(cfg.Model, defaultAnthropicModel),
		maxTokens: maxTokens,
	}
}

func (p *Anthropic) Kind() domain.ProviderKind { return domain.ProviderAnthropic }

func (p *Anthropic) Generate(ctx context.Context, prompt domain.PromptSpec) (domain.GeneratedPost, error) {
	start := time.Now()
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.Text)),
		},
	})
	metrics.ObserveNetworkRequest("anthropic", "messages", p.model, start, err)
	if err != nil {
		return domain.GeneratedPost{}, generationError(p.Kind(), err)
	}
	in, out := int(resp.Usage.InputTokens), int(resp.Usage.OutputTokens)
	metrics.ObserveLLMGeneration(p.model, time.Since(start), in, out, in+out)

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := cleanPost(sb.String())
	if text == "" {
		return domain.GeneratedPost{}, emptyResult(p.Kind())
	}
	return domain.GeneratedPost{Text: text, Provider: p.Kind(), Model: p.model}, nil
}
