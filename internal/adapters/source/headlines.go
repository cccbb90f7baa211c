package source

import (
	"context"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"doctor-post-bot/internal/domain"
	"doctor-post-bot/internal/infra/metrics"
)

// HeadlineScraper reads anchor headlines from a news page.
type HeadlineScraper struct {
	name     string
	url      string
	selector string
	// filter keeps only headlines containing it, case-insensitively.
	filter   string
	category domain.Category
	timeout  time.Duration
	limit    int
}

// HeadlineConfig configures a HeadlineScraper.
type HeadlineConfig struct {
	Name     string
	URL      string
	Selector string
	Filter   string
	Category domain.Category
	Timeout  time.Duration
	Limit    int
}

// DefaultHeadlineSelector matches headline anchors on Google News topic pages.
const DefaultHeadlineSelector = "a.DY5T1d, a.gPFEn, a.JtKRv"

func NewHeadlineScraper(cfg HeadlineConfig) *HeadlineScraper {
	s := &HeadlineScraper{
		name:     cfg.Name,
		url:      cfg.URL,
		selector: cfg.Selector,
		filter:   strings.ToLower(strings.TrimSpace(cfg.Filter)),
		category: cfg.Category,
		timeout:  cfg.Timeout,
		limit:    cfg.Limit,
	}
	if s.name == "" {
		s.name = "headlines"
	}
	if s.selector == "" {
		s.selector = DefaultHeadlineSelector
	}
	if s.timeout <= 0 {
		s.timeout = 5 * time.Second
	}
	if s.limit <= 0 {
		s.limit = MaxItems
	}
	return s
}

func (s *HeadlineScraper) Name() string { return s.name }

// Fetch ignores query; the page and filter are fixed at construction.
func (s *HeadlineScraper) Fetch(ctx context.Context, _ string) ([]domain.ContentItem, error) {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(s.timeout)

	var (
		items    []domain.ContentItem
		fetchErr error
	)
	c.OnHTML(s.selector, func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.Text)
		if title == "" {
			return
		}
		if s.filter != "" && !strings.Contains(strings.ToLower(title), s.filter) {
			return
		}
		item := domain.ContentItem{Title: title, Source: s.name, Category: s.category}
		if href := e.Attr("href"); href != "" {
			item.URL = e.Request.AbsoluteURL(href)
		}
		items = append(items, item)
	})
	c.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	start := time.Now()
	err := c.Visit(s.url)
	if err == nil {
		err = fetchErr
	}
	metrics.ObserveNetworkRequest("scraper", s.name, s.url, start, err)
	if err != nil {
		return nil, unavailable(s.name, err, "scrape %s", s.url)
	}
	items = collect(items, s.limit)
	if len(items) == 0 {
		return nil, unavailable(s.name, nil, "no headlines on %s", s.url)
	}
	return items, nil
}
