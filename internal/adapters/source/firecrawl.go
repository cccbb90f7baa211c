package source

import (
	"context"
	"strings"
	"time"

	"github.com/mendableai/firecrawl-go/v2"

	"doctor-post-bot/internal/domain"
	"doctor-post-bot/internal/infra/metrics"
)

// PageCrawler scrapes one news section page as markdown through Firecrawl.
// The whole page becomes a single item; the model picks the story.
type PageCrawler struct {
	app      *firecrawl.FirecrawlApp
	pageURL  string
	category domain.Category
}

func NewPageCrawler(apiKey, baseURL, pageURL string, category domain.Category, timeout time.Duration) *PageCrawler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	s := &PageCrawler{pageURL: pageURL, category: category}
	if apiKey != "" {
		// only fails on an empty key
		s.app, _ = firecrawl.NewFirecrawlApp(apiKey, strings.TrimRight(baseURL, "/"), timeout)
	}
	return s
}

func (s *PageCrawler) Name() string { return "firecrawl" }

func (s *PageCrawler) Fetch(ctx context.Context, _ string) ([]domain.ContentItem, error) {
	if s.app == nil {
		return nil, domain.MissingConfig("FIRECRAWL_API_KEY")
	}

	start := time.Now()
	doc, err := s.scrape(ctx)
	metrics.ObserveNetworkRequest("firecrawl", "scrape", s.pageURL, start, err)
	if err != nil {
		return nil, unavailable(s.Name(), err, "scrape %s", s.pageURL)
	}

	markdown := strings.TrimSpace(doc.Markdown)
	if markdown == "" {
		return nil, unavailable(s.Name(), nil, "empty page %s", s.pageURL)
	}
	var title, sourceURL string
	if doc.Metadata != nil {
		title = deref(doc.Metadata.Title)
		sourceURL = deref(doc.Metadata.SourceURL)
	}
	return []domain.ContentItem{{
		Title:       firstNonEmpty(title, "Latest news from "+s.pageURL),
		Description: markdown,
		URL:         firstNonEmpty(sourceURL, s.pageURL),
		Source:      s.Name(),
		Category:    s.category,
	}}, nil
}

type scrapeResult struct {
	doc *firecrawl.FirecrawlDocument
	err error
}

// scrape runs the SDK call under ctx. The SDK has no context parameter, so an abandoned
// call is left to finish against the client timeout.
func (s *PageCrawler) scrape(ctx context.Context) (*firecrawl.FirecrawlDocument, error) {
	onlyMain := true
	done := make(chan scrapeResult, 1)
	go func() {
		doc, err := s.app.ScrapeURL(s.pageURL, &firecrawl.ScrapeParams{
			Formats:         []string{"markdown"},
			OnlyMainContent: &onlyMain,
		})
		done <- scrapeResult{doc: doc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err == nil && r.doc == nil {
			return &firecrawl.FirecrawlDocument{}, nil
		}
		return r.doc, r.err
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
