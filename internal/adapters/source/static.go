package source

import (
	"context"
	"strings"

	"doctor-post-bot/internal/domain"
)

// Static serves a fixed item list, e.g. an article supplied by the caller.
type Static struct {
	name  string
	items []domain.ContentItem
}

func NewStatic(name string, items ...domain.ContentItem) *Static {
	if name == "" {
		name = "static"
	}
	return &Static{name: name, items: items}
}

func (s *Static) Name() string { return s.name }

func (s *Static) Fetch(ctx context.Context, _ string) ([]domain.ContentItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(s.name, err, "cancelled")
	}
	items := collect(s.items, len(s.items))
	if len(items) == 0 {
		return nil, unavailable(s.name, nil, "no items")
	}
	return items, nil
}

// CallerArticle wraps an article supplied with a caption request. A missing title falls
// back to the description; both missing is a validation error.
func CallerArticle(title, description, url string) (*Static, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" && description == "" {
		return nil, domain.NewError(domain.KindValidationFailed, nil, "title or description is required")
	}
	if title == "" {
		title = description
	}
	return NewStatic("caller", domain.ContentItem{
		Title:       title,
		Description: description,
		URL:         strings.TrimSpace(url),
		Source:      "caller",
	}), nil
}
