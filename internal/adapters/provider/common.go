package provider

import (
	"context"
	"errors"
	"strings"

	"doctor-post-bot/internal/domain"
)

const systemPrompt = "You write social media posts for healthcare professionals. Keep facts from the supplied news, do not invent statistics, and return only the post text."

// generationError converts any backend failure into the GenerationFailed kind.
// A context deadline is reported as a timeout so callers can tell it from a rejected request.
func generationError(kind domain.ProviderKind, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewError(domain.KindGenerationFailed, err, "%s: request timed out", kind)
	}
	return domain.NewError(domain.KindGenerationFailed, err, "%s request failed", kind)
}

func emptyResult(kind domain.ProviderKind) error {
	return domain.NewError(domain.KindGenerationFailed, nil, "%s returned no content", kind)
}

// cleanPost strips wrappers models sometimes put around a plain-text answer.
func cleanPost(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```text")
	content = strings.TrimPrefix(content, "```markdown")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func clipRunes(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func modelOr(model, fallback string) string {
	if strings.TrimSpace(model) == "" {
		return fallback
	}
	return model
}
