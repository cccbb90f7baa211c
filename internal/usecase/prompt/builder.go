package prompt

import (
	"fmt"
	"strings"

	"doctor-post-bot/internal/domain"
)

const (
	// MaxWordLimit bounds the requested post length.
	MaxWordLimit = 2000
	// descriptionLimit clips scraped pages so a crawl cannot blow up the prompt.
	descriptionLimit = 6000
)

// Builder composes prompts. It performs no I/O; the only non-determinism is item selection,
// which goes through the injected Picker.
type Builder struct {
	picker domain.Picker
}

var _ domain.PromptBuilder = (*Builder)(nil)

// NewBuilder creates a builder. A nil picker draws from math/rand.
func NewBuilder(picker domain.Picker) *Builder {
	if picker == nil {
		picker = domain.RandomPicker{}
	}
	return &Builder{picker: picker}
}

// Build selects one item and renders the chosen template around it.
func (b *Builder) Build(items []domain.ContentItem, c domain.Constraints, template domain.TemplateKind, custom string) (domain.PromptSpec, error) {
	if len(items) == 0 {
		return domain.PromptSpec{}, domain.NewError(domain.KindValidationFailed, nil, "no content items to build a prompt from")
	}
	if err := Validate(c, template); err != nil {
		return domain.PromptSpec{}, err
	}
	item := items[b.pick(len(items))]

	var text string
	switch template {
	case domain.TemplateConcise:
		text = renderConcise(item, c)
	case domain.TemplateElaborate:
		text = renderElaborate(item, c)
	}
	if custom = strings.TrimSpace(custom); custom != "" {
		text += "\nAdditional instructions: " + custom
	}
	return domain.PromptSpec{Template: template, Text: text, Item: item}, nil
}

func (b *Builder) pick(n int) int {
	if n == 1 {
		return 0
	}
	idx := b.picker.Intn(n)
	if idx < 0 || idx >= n {
		return 0
	}
	return idx
}

// Validate checks the constraints a template needs.
func Validate(c domain.Constraints, template domain.TemplateKind) error {
	var problems []string
	switch template {
	case domain.TemplateConcise, domain.TemplateElaborate:
	default:
		problems = append(problems, fmt.Sprintf("unknown template %q", template))
	}
	if c.WordLimit <= 0 || c.WordLimit > MaxWordLimit {
		problems = append(problems, fmt.Sprintf("word limit must be between 1 and %d", MaxWordLimit))
	}
	switch {
	case strings.TrimSpace(c.Keyword) == "":
		problems = append(problems, "keyword is required")
	case strings.TrimSpace(c.Keyword) != c.Keyword:
		problems = append(problems, "keyword must not start or end with spaces")
	}
	if c.KeywordCount < 1 {
		problems = append(problems, "keyword count must be at least 1")
	}
	if template == domain.TemplateElaborate && c.PerLineCount < 1 {
		problems = append(problems, "per-line keyword count must be at least 1")
	}
	if c.HashtagCount < 0 {
		problems = append(problems, "hashtag count must not be negative")
	}
	if template == domain.TemplateConcise && (len(normalizeHashtags(c.Hashtags)) > 0 || c.HashtagCount > 0) {
		problems = append(problems, "hashtags need the elaborate template")
	}
	if len(problems) > 0 {
		return domain.NewError(domain.KindValidationFailed, nil, "%s", strings.Join(problems, "; "))
	}
	return nil
}

func renderConcise(item domain.ContentItem, c domain.Constraints) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create an interactive and interesting post for a %s based on the following news from the internet:\n", audience(c))
	sb.WriteString(renderItem(item))
	fmt.Fprintf(&sb, "Keep the post to %d words max. ", c.WordLimit)
	fmt.Fprintf(&sb, "Use the keyword \"%s\" at least %d times in the whole post. ", c.Keyword, c.KeywordCount)
	sb.WriteString("Only return the post, no other text.")
	return sb.String()
}

func renderElaborate(item domain.ContentItem, c domain.Constraints) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create an interactive and interesting post for a %s based on the following news from the internet:\n", audience(c))
	sb.WriteString(renderItem(item))
	sb.WriteString("Write in a friendly and trustworthy tone. Use emojis where they fit. ")
	if tags := normalizeHashtags(c.Hashtags); len(tags) > 0 {
		fmt.Fprintf(&sb, "Include these hashtags: %s. ", strings.Join(tags, ", "))
	} else {
		sb.WriteString("Include relevant hashtags. ")
	}
	if c.HashtagCount > 0 {
		fmt.Fprintf(&sb, "Use at least %d hashtags. ", c.HashtagCount)
	}
	fmt.Fprintf(&sb, "Keep the word limit to %d max. ", c.WordLimit)
	fmt.Fprintf(&sb, "Use the keyword \"%s\" at least %d times in the post and at least %d times in every line. ", c.Keyword, c.KeywordCount, c.PerLineCount)
	sb.WriteString("Only return the post, no other text.")
	return sb.String()
}

func renderItem(item domain.ContentItem) string {
	var sb strings.Builder
	if title := strings.TrimSpace(item.Title); title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", title)
	}
	if desc := strings.TrimSpace(item.Description); desc != "" {
		fmt.Fprintf(&sb, "Description: %s\n", clipRunes(desc, descriptionLimit))
	}
	if url := strings.TrimSpace(item.URL); url != "" {
		fmt.Fprintf(&sb, "Link: %s\n", url)
	}
	return sb.String()
}

func audience(c domain.Constraints) string {
	if a := strings.TrimSpace(c.Audience); a != "" {
		return a
	}
	return domain.DefaultAudience
}

func normalizeHashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == "#" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		out = append(out, tag)
	}
	return out
}

func clipRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
