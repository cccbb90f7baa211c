package source

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"doctor-post-bot/internal/domain"
	"doctor-post-bot/internal/infra/metrics"
)

// GoogleNewsRSS is the search feed endpoint; %s is replaced by the escaped query.
const GoogleNewsRSS = "https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en"

// FeedSource searches an RSS or Atom feed. URLTemplate may hold one "%s" for the query.
type FeedSource struct {
	name        string
	urlTemplate string
	category    domain.Category
	parser      *gofeed.Parser
	limit       int
}

func NewFeedSource(name, urlTemplate string, category domain.Category, timeout time.Duration) *FeedSource {
	if urlTemplate == "" {
		urlTemplate = GoogleNewsRSS
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	parser.UserAgent = userAgent
	return &FeedSource{name: name, urlTemplate: urlTemplate, category: category, parser: parser, limit: MaxItems}
}

func (s *FeedSource) Name() string { return s.name }

func (s *FeedSource) Fetch(ctx context.Context, query string) ([]domain.ContentItem, error) {
	feedURL := s.urlTemplate
	if strings.Contains(feedURL, "%s") {
		feedURL = strings.Replace(feedURL, "%s", url.QueryEscape(strings.TrimSpace(query)), 1)
	}

	start := time.Now()
	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	metrics.ObserveNetworkRequest("feed", s.name, s.name, start, err)
	if err != nil {
		return nil, unavailable(s.name, err, "parse feed")
	}

	items := make([]domain.ContentItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil {
			continue
		}
		item := domain.ContentItem{
			Title:       it.Title,
			Description: stripMarkup(it.Description),
			URL:         it.Link,
			Source:      s.name,
			Category:    s.category,
		}
		if it.PublishedParsed != nil {
			item.PublishedAt = *it.PublishedParsed
		}
		items = append(items, item)
	}
	items = collect(items, s.limit)
	if len(items) == 0 {
		return nil, unavailable(s.name, nil, "feed has no items for %q", query)
	}
	return items, nil
}
