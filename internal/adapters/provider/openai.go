package provider

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"doctor-post-bot/internal/domain"
	"doctor-post-bot/internal/infra/metrics"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIConfig configures the OpenAI text provider.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// Stream reads the completion as server-sent events; the caller still gets one full post.
	Stream bool
}

// OpenAI generates posts with the Chat Completions API.
type OpenAI struct {
	client openai.Client
	model  string
	stream bool
}

var _ domain.Provider = (*OpenAI)(nil)

// NewOpenAI creates the provider. SDK retries are disabled: a generation is attempted once.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(sdkOptions(cfg.APIKey, cfg.BaseURL)...),
		model:  modelOr(cfg.Model, defaultOpenAIModel),
		stream: cfg.Stream,
	}
}

func sdkOptions(apiKey, baseURL string) []option.RequestOption {
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return opts
}

func (p *OpenAI) Kind() domain.ProviderKind { return domain.ProviderOpenAI }

// Generate sends the prompt as a single user turn.
func (p *OpenAI) Generate(ctx context.Context, prompt domain.PromptSpec) (domain.GeneratedPost, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt.Text),
		},
	}

	start := time.Now()
	var (
		text string
		err  error
	)
	if p.stream {
		text, err = p.completeStreaming(ctx, params)
	} else {
		text, err = p.complete(ctx, params, start)
	}
	metrics.ObserveNetworkRequest("openai", "chat_completions", p.model, start, err)
	if err != nil {
		return domain.GeneratedPost{}, generationError(p.Kind(), err)
	}
	text = cleanPost(text)
	if text == "" {
		return domain.GeneratedPost{}, emptyResult(p.Kind())
	}
	return domain.GeneratedPost{Text: text, Provider: p.Kind(), Model: p.model}, nil
}

func (p *OpenAI) complete(ctx context.Context, params openai.ChatCompletionNewParams, start time.Time) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	metrics.ObserveLLMGeneration(p.model, time.Since(start), int(resp.Usage.PromptTokens), int(resp.Usage.CompletionTokens), int(resp.Usage.TotalTokens))
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAI) completeStreaming(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	var sb strings.Builder
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) > 0 {
			sb.WriteString(chunk.Choices[0].Delta.Content)
		}
	}
	if err := stream.Err(); err != nil {
		return "", err
	}
	return sb.String(), nil
}
