package source

import (
	"context"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"

	"doctor-post-bot/internal/infra/metrics"
)

const (
	DefaultHashtagURL      = "https://best-hashtags.com/hashtag/health/"
	DefaultHashtagSelector = "div.tag-box.tag-box-v3"
)

// FallbackHashtags is returned whenever the hashtag page cannot be scraped.
var FallbackHashtags = []string{"#health", "#wellness", "#doctor", "#fitness", "#mentalhealth"}

// HashtagScraper reads trending hashtags from a tag box on a web page.
type HashtagScraper struct {
	url      string
	selector string
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewHashtagScraper(url string, timeout time.Duration, logger zerolog.Logger) *HashtagScraper {
	if url == "" {
		url = DefaultHashtagURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HashtagScraper{url: url, selector: DefaultHashtagSelector, timeout: timeout, logger: logger}
}

// Trending returns up to MaxItems hashtags. It never fails: scrape errors and empty
// pages yield FallbackHashtags, and the second return value reports that.
func (s *HashtagScraper) Trending(ctx context.Context) ([]string, bool) {
	tags, err := s.scrape(ctx)
	if err != nil || len(tags) == 0 {
		s.logger.Warn().Err(err).Str("url", s.url).Msg("hashtag scrape failed, using defaults")
		return append([]string(nil), FallbackHashtags...), true
	}
	return tags, false
}

func (s *HashtagScraper) scrape(ctx context.Context) ([]string, error) {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(s.timeout)

	var (
		tags     []string
		fetchErr error
	)
	seen := make(map[string]struct{})
	c.OnHTML(s.selector, func(e *colly.HTMLElement) {
		for _, token := range strings.Fields(e.Text) {
			if !strings.HasPrefix(token, "#") || len(token) < 2 {
				continue
			}
			if _, ok := seen[token]; ok || len(tags) >= MaxItems {
				continue
			}
			seen[token] = struct{}{}
			tags = append(tags, token)
		}
	})
	c.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	start := time.Now()
	err := c.Visit(s.url)
	if err == nil {
		err = fetchErr
	}
	metrics.ObserveNetworkRequest("scraper", "hashtags", s.url, start, err)
	if err != nil {
		return nil, unavailable("hashtags", err, "scrape %s", s.url)
	}
	return tags, nil
}
