package domain

import "time"

// ContentItem is one unit of raw material for a post: a headline, an article or a scraped page.
type ContentItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"source,omitempty"`
	Category    Category  `json:"category,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	// Synthetic marks canned fallback items that did not come from a live source.
	Synthetic bool `json:"synthetic,omitempty"`
}

// Constraints are the caller-supplied post requirements embedded into the prompt.
type Constraints struct {
	WordLimit    int
	Keyword      string
	KeywordCount int
	PerLineCount int
	Hashtags     []string
	// HashtagCount is the minimum number of hashtags the elaborate template asks for. Zero adds no rule.
	HashtagCount int
	Audience     string
}

// DefaultAudience is used when the caller does not name one.
const DefaultAudience = "Doctor's audience"

// DefaultConstraints mirrors the values the generator used before constraints became configurable.
func DefaultConstraints() Constraints {
	return Constraints{
		WordLimit:    100,
		Keyword:      "health",
		KeywordCount: 2,
		PerLineCount: 1,
		Audience:     DefaultAudience,
	}
}

// PromptSpec is the composed instruction sent to a provider.
type PromptSpec struct {
	Template TemplateKind
	Text     string
	// Item is the content item the prompt was built around.
	Item ContentItem
}

// GeneratedPost is the provider result. Word count and hashtags are always derived from Text.
type GeneratedPost struct {
	Text     string
	ImageURL string
	Provider ProviderKind
	Model    string
}

// WordCount returns the number of whitespace-delimited tokens in the post text.
func (p GeneratedPost) WordCount() int {
	return CountWords(p.Text)
}

// Hashtags returns the hashtags of the post text in order of appearance, duplicates included.
func (p GeneratedPost) Hashtags() []string {
	return ExtractHashtags(p.Text)
}

// Content returns the text body, or the image URL for image-only results.
func (p GeneratedPost) Content() string {
	if p.Text == "" {
		return p.ImageURL
	}
	return p.Text
}
