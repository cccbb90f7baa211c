// Package source implements the content sources posts are generated from.
package source

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"doctor-post-bot/internal/domain"
)

// MaxItems caps how many items a single fetch returns.
const MaxItems = 10

const userAgent = "doctor-post-bot/1.0 (+https://github.com/doctor-post-bot)"

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func unavailable(name string, err error, format string, args ...any) error {
	return domain.NewError(domain.KindSourceUnavailable, err, "%s: %s", name, fmt.Sprintf(format, args...))
}

// stripMarkup removes HTML tags and entities from feed descriptions.
func stripMarkup(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// collect trims items, drops ones without a title or with a repeated title and applies the limit.
func collect(items []domain.ContentItem, limit int) []domain.ContentItem {
	if limit <= 0 {
		limit = MaxItems
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.ContentItem, 0, min(len(items), limit))
	for _, item := range items {
		item.Title = strings.Join(strings.Fields(item.Title), " ")
		item.Description = strings.TrimSpace(item.Description)
		if item.Title == "" {
			continue
		}
		key := strings.ToLower(item.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out
}
