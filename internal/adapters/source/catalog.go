package source

import (
	"doctor-post-bot/internal/domain"
	"doctor-post-bot/internal/infra/config"
)

// GoogleNewsHealthTopic is the Google News health topic page.
const GoogleNewsHealthTopic = "https://news.google.com/topics/CAAqJggKIiBDQkFTRWdvSUwyMHZNRFZ4Y0dNU0FtVnVLQUFQAQ?hl=en-US&gl=US&ceid=US:en"

// Section pages crawled through Firecrawl.
var sectionPages = map[domain.Category]string{
	domain.CategoryHealth:      "https://www.thehindu.com/sci-tech/health/",
	domain.CategoryIndia:       "https://www.thehindu.com/news/national/",
	domain.CategoryEnvironment: "https://www.thehindu.com/sci-tech/energy-and-environment/",
	domain.CategoryScience:     "https://www.thehindu.com/sci-tech/science/",
}

// Search queries per category for the search-based sources.
var searchQueries = map[domain.Category]string{
	domain.CategoryHealth:      "health",
	domain.CategoryMedical:     "medical research",
	domain.CategoryEnvironment: "environment health",
	domain.CategoryScience:     "science health",
	domain.CategoryIndia:       "India health",
}

// Catalog maps categories to sources and fixed fallback items.
type Catalog struct {
	sources   map[domain.Category]domain.ContentSource
	fallbacks map[domain.Category][]domain.ContentItem
}

var _ domain.SourceCatalog = (*Catalog)(nil)

func NewCatalog() *Catalog {
	return &Catalog{
		sources:   make(map[domain.Category]domain.ContentSource),
		fallbacks: DefaultFallbacks(),
	}
}

// NewCatalogFromConfig wires every category. Keyed services come first in each chain
// when their credential is present; the free RSS search and page scrapers follow.
func NewCatalogFromConfig(cfg config.AppConfig) *Catalog {
	c := NewCatalog()
	timeout := cfg.Timeouts.Source

	for _, cat := range domain.Categories() {
		query := searchQueries[cat]
		var chain []domain.ContentSource
		if cfg.News.APIKey != "" {
			chain = append(chain, WithQuery(NewNewsAPISource(cfg.News.APIKey, cfg.News.APIBaseURL, cat, timeout), query))
		}
		if page, ok := sectionPages[cat]; ok && cfg.News.FirecrawlKey != "" {
			chain = append(chain, NewPageCrawler(cfg.News.FirecrawlKey, cfg.News.FirecrawlURL, page, cat, timeout))
		}
		chain = append(chain, WithQuery(NewFeedSource("googlenews", GoogleNewsRSS, cat, timeout), query))

		switch cat {
		case domain.CategoryHealth:
			chain = append(chain, NewHeadlineScraper(HeadlineConfig{
				Name: "googlenews-topic", URL: GoogleNewsHealthTopic, Category: cat, Timeout: timeout,
			}))
		case domain.CategoryEnvironment:
			chain = append(chain, NewHeadlineScraper(HeadlineConfig{
				Name: "googlenews-topic", URL: GoogleNewsHealthTopic, Filter: "environment", Category: cat, Timeout: timeout,
			}))
		}
		c.Register(cat, NewChain(timeout, chain...))
	}
	return c
}

// Register sets the source of a category.
func (c *Catalog) Register(cat domain.Category, s domain.ContentSource) {
	c.sources[cat] = s
}

func (c *Catalog) Source(cat domain.Category) (domain.ContentSource, bool) {
	s, ok := c.sources[cat]
	return s, ok
}

func (c *Catalog) Fallback(cat domain.Category) []domain.ContentItem {
	items := c.fallbacks[cat]
	out := make([]domain.ContentItem, len(items))
	copy(out, items)
	return out
}

func (c *Catalog) Categories() []domain.Category {
	return domain.Categories()
}

// DefaultFallbacks returns the fixed items used when live content is unavailable.
func DefaultFallbacks() map[domain.Category][]domain.ContentItem {
	titles := map[domain.Category][]string{
		domain.CategoryHealth: {
			"Global health update: Stay safe!",
			"New research on heart health released.",
		},
		domain.CategoryMedical: {
			"New research on heart health released.",
			"Doctors highlight the value of routine check-ups.",
		},
		domain.CategoryEnvironment: {
			"Climate change impacts health worldwide.",
		},
		domain.CategoryScience: {
			"Scientists share new findings on sleep and immunity.",
		},
		domain.CategoryIndia: {
			"India expands access to primary health care.",
		},
	}
	out := make(map[domain.Category][]domain.ContentItem, len(titles))
	for cat, list := range titles {
		items := make([]domain.ContentItem, 0, len(list))
		for _, title := range list {
			items = append(items, domain.ContentItem{Title: title})
		}
		out[cat] = synthetic(cat, items)
	}
	return out
}

func synthetic(cat domain.Category, items []domain.ContentItem) []domain.ContentItem {
	out := make([]domain.ContentItem, 0, len(items))
	for _, item := range items {
		item.Synthetic = true
		item.Category = cat
		if item.Source == "" {
			item.Source = "fallback"
		}
		out = append(out, item)
	}
	return out
}
