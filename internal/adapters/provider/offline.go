package provider

import (
	"context"
	"strings"

	"doctor-post-bot/internal/domain"
)

const offlineDescriptionLimit = 280

// Offline composes a post locally from the selected item. It needs no credentials
// and returns the same text for the same prompt, which makes it useful for demos and tests.
type Offline struct{}

var _ domain.Provider = Offline{}

func NewOffline() Offline { return Offline{} }

func (Offline) Kind() domain.ProviderKind { return domain.ProviderOffline }

func (o Offline) Generate(ctx context.Context, prompt domain.PromptSpec) (domain.GeneratedPost, error) {
	if err := ctx.Err(); err != nil {
		return domain.GeneratedPost{}, generationError(o.Kind(), err)
	}
	title := strings.TrimSpace(prompt.Item.Title)
	if title == "" {
		title = "Health update"
	}
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString(" 🩺")
	if desc := strings.TrimSpace(prompt.Item.Description); desc != "" {
		sb.WriteString("\n\n")
		sb.WriteString(clipRunes(desc, offlineDescriptionLimit))
	}
	sb.WriteString("\n\nWhat do you tell your patients? #doctor #health")
	return domain.GeneratedPost{Text: sb.String(), Provider: o.Kind(), Model: "offline"}, nil
}
