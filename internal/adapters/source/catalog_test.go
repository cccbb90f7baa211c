package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"doctor-post-bot/internal/domain"
	"doctor-post-bot/internal/infra/config"
)

type fakeSource struct {
	name  string
	items []domain.ContentItem
	err   error
	query string
	calls int
	// hang blocks Fetch until the context ends.
	hang bool
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context, query string) ([]domain.ContentItem, error) {
	f.calls++
	f.query = query
	if f.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.items, f.err
}

func TestChainReturnsFirstSuccess(t *testing.T) {
	failing := &fakeSource{name: "a", err: errors.New("down")}
	empty := &fakeSource{name: "b"}
	ok := &fakeSource{name: "c", items: []domain.ContentItem{{Title: "Story"}}}
	unused := &fakeSource{name: "d", items: []domain.ContentItem{{Title: "Other"}}}

	items, err := NewChain(0, failing, empty, ok, unused).Fetch(context.Background(), "health")

	assert.Equal(t, nil, err)
	assert.Equal(t, "Story", items[0].Title)
	assert.Equal(t, 0, unused.calls)
}

func TestChainAllFail(t *testing.T) {
	chain := NewChain(0, &fakeSource{name: "a", err: errors.New("down")}, &fakeSource{name: "b"})

	_, err := chain.Fetch(context.Background(), "health")

	assert.Equal(t, domain.KindSourceUnavailable, domain.KindOf(err))
	assert.Equal(t, "a|b", chain.Name())
	assert.Equal(t, 2, chain.Size())
}

func TestChainStalledMemberDoesNotStarveTheNext(t *testing.T) {
	stalled := &fakeSource{name: "newsapi", hang: true}
	ok := &fakeSource{name: "googlenews", items: []domain.ContentItem{{Title: "Live story"}}}
	chain := NewChain(50*time.Millisecond, stalled, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	items, err := chain.Fetch(ctx, "health")

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(items))
	assert.Equal(t, "Live story", items[0].Title)
	assert.Equal(t, 1, stalled.calls)
	assert.Equal(t, 1, ok.calls)
}

func TestChainStalledHTTPMemberFallsThroughToFeed(t *testing.T) {
	hanging := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer hanging.Close()
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFeed))
	}))
	defer feed.Close()

	chain := NewChain(100*time.Millisecond,
		NewNewsAPISource("key", hanging.URL, domain.CategoryHealth, 5*time.Second),
		NewFeedSource("googlenews", feed.URL+"/rss?q=%s", domain.CategoryHealth, 5*time.Second),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	items, err := chain.Fetch(ctx, "health")

	assert.Equal(t, nil, err)
	assert.Equal(t, "Measles cases rise in Europe", items[0].Title)
}

func TestChainParentDeadlineStopsTheWalk(t *testing.T) {
	stalled := &fakeSource{name: "a", hang: true}
	next := &fakeSource{name: "b", items: []domain.ContentItem{{Title: "x"}}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewChain(time.Second, stalled, next).Fetch(ctx, "health")

	assert.Equal(t, domain.KindSourceUnavailable, domain.KindOf(err))
	assert.Equal(t, true, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, 0, next.calls)
}

func TestChainSkipsUnconfiguredMember(t *testing.T) {
	unconfigured := NewNewsAPISource("", "http://127.0.0.1:0", domain.CategoryHealth, time.Second)
	ok := &fakeSource{name: "googlenews", items: []domain.ContentItem{{Title: "Story"}}}

	items, err := NewChain(time.Second, unconfigured, ok).Fetch(context.Background(), "health")
	assert.Equal(t, nil, err)
	assert.Equal(t, "Story", items[0].Title)

	_, err = NewChain(time.Second, unconfigured).Fetch(context.Background(), "health")
	assert.Equal(t, domain.KindSourceUnavailable, domain.KindOf(err))
	var missing *domain.Error
	assert.Equal(t, true, errors.As(errors.Unwrap(err), &missing))
	assert.Equal(t, domain.KindConfigurationMissing, missing.Kind)
	assert.Equal(t, true, strings.Contains(err.Error(), "NEWS_API_KEY"))
}

func TestWithQuery(t *testing.T) {
	f := &fakeSource{name: "a", items: []domain.ContentItem{{Title: "x"}}}
	_, _ = WithQuery(f, "India health").Fetch(context.Background(), "india")
	assert.Equal(t, "India health", f.query)
}

func TestStatic(t *testing.T) {
	items, err := NewStatic("caller", domain.ContentItem{Title: " Caller  article "}).Fetch(context.Background(), "")
	assert.Equal(t, nil, err)
	assert.Equal(t, "Caller article", items[0].Title)

	_, err = NewStatic("caller").Fetch(context.Background(), "")
	assert.Equal(t, domain.KindSourceUnavailable, domain.KindOf(err))
}

func TestCatalogFallbacks(t *testing.T) {
	c := NewCatalog()
	for _, cat := range c.Categories() {
		items := c.Fallback(cat)
		assert.NotEqual(t, 0, len(items))
		for _, item := range items {
			assert.Equal(t, true, item.Synthetic)
			assert.Equal(t, cat, item.Category)
		}
	}

	health := c.Fallback(domain.CategoryHealth)
	assert.Equal(t, "Global health update: Stay safe!", health[0].Title)
	health[0].Title = "mutated"
	assert.Equal(t, "Global health update: Stay safe!", c.Fallback(domain.CategoryHealth)[0].Title)
}

func TestCatalogFromConfig(t *testing.T) {
	var cfg config.AppConfig
	c := NewCatalogFromConfig(cfg)
	for _, cat := range domain.Categories() {
		s, ok := c.Source(cat)
		assert.Equal(t, true, ok)
		assert.NotEqual(t, "", s.Name())
	}
	health, _ := c.Source(domain.CategoryHealth)
	assert.Equal(t, "googlenews|googlenews-topic", health.Name())

	cfg.News.APIKey = "key"
	cfg.News.FirecrawlKey = "fc"
	c = NewCatalogFromConfig(cfg)
	india, _ := c.Source(domain.CategoryIndia)
	assert.Equal(t, "newsapi|firecrawl|googlenews", india.Name())
	medical, _ := c.Source(domain.CategoryMedical)
	assert.Equal(t, "newsapi|googlenews", medical.Name())
}

func TestCallerArticle(t *testing.T) {
	s, err := CallerArticle("", " Flu shots now open ", " https://example.com/flu ")
	assert.Equal(t, nil, err)
	items, err := s.Fetch(context.Background(), "")
	assert.Equal(t, nil, err)
	assert.Equal(t, "Flu shots now open", items[0].Title)
	assert.Equal(t, "https://example.com/flu", items[0].URL)
	assert.Equal(t, "caller", s.Name())

	_, err = CallerArticle(" ", "", "https://example.com")
	assert.Equal(t, domain.KindValidationFailed, domain.KindOf(err))
}
