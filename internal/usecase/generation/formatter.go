package generation

import (
	"fmt"
	"html"
	"strings"

	"doctor-post-bot/internal/domain"
)

// FormatPost renders a result as Telegram HTML: the post body, an image link and the source article.
func FormatPost(res domain.GenerationResult) string {
	var sections []string

	if text := strings.TrimSpace(res.Post.Text); text != "" {
		sections = append(sections, escapeHTML(text))
	}

	if url := strings.TrimSpace(res.Post.ImageURL); url != "" {
		sections = append(sections, fmt.Sprintf("🖼 <a href=\"%s\">Generated image</a>", html.EscapeString(url)))
	}

	if source := formatSource(res.Item); source != "" {
		sections = append(sections, source)
	}

	if res.UsedFallback {
		sections = append(sections, "<i>Live news was unavailable, a default topic was used.</i>")
	}

	return strings.TrimSpace(strings.Join(sections, "\n\n"))
}

func formatSource(item domain.ContentItem) string {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return ""
	}
	label := escapeHTML(title)
	if url := strings.TrimSpace(item.URL); url != "" {
		label = fmt.Sprintf("<a href=\"%s\">%s</a>", html.EscapeString(url), label)
	}
	return "📰 " + label
}

func escapeHTML(s string) string {
	return html.EscapeString(s)
}
