package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"

	"doctor-post-bot/internal/domain"
	"doctor-post-bot/internal/infra/metrics"
)

const imageDescriptionLimit = 600

// ImageConfig configures the image provider.
type ImageConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Size    string
}

// Image produces an illustration URL instead of post text.
// The prompt is rebuilt from the selected item: text constraints do not apply to pictures.
type Image struct {
	client openai.Client
	model  string
	size   string
}

var _ domain.Provider = (*Image)(nil)

func NewImage(cfg ImageConfig) *Image {
	return &Image{
		client: openai.NewClient(sdkOptions(cfg.APIKey, cfg.BaseURL)...),
		model:  modelOr(cfg.Model, string(openai.ImageModelDallE3)),
		size:   modelOr(cfg.Size, string(openai.ImageGenerateParamsSize1024x1024)),
	}
}

func (p *Image) Kind() domain.ProviderKind { return domain.ProviderImage }

func (p *Image) Generate(ctx context.Context, prompt domain.PromptSpec) (domain.GeneratedPost, error) {
	start := time.Now()
	resp, err := p.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         imagePrompt(prompt),
		Model:          openai.ImageModel(p.model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize(p.size),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatURL,
	})
	metrics.ObserveNetworkRequest("openai", "images", p.model, start, err)
	if err != nil {
		return domain.GeneratedPost{}, generationError(p.Kind(), err)
	}
	if len(resp.Data) == 0 || strings.TrimSpace(resp.Data[0].URL) == "" {
		return domain.GeneratedPost{}, emptyResult(p.Kind())
	}
	return domain.GeneratedPost{
		ImageURL: resp.Data[0].URL,
		Provider: p.Kind(),
		Model:    p.model,
	}, nil
}

func imagePrompt(prompt domain.PromptSpec) string {
	title := strings.TrimSpace(prompt.Item.Title)
	if title == "" {
		return "Create an engaging, professional illustration for a healthcare social media post. No text in the image."
	}
	desc := clipRunes(strings.TrimSpace(prompt.Item.Description), imageDescriptionLimit)
	return fmt.Sprintf("Create an engaging, professional illustration for a healthcare social media post about: %s. %s No text in the image.", title, desc)
}
