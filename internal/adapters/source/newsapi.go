package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"doctor-post-bot/internal/domain"
	"doctor-post-bot/internal/infra/metrics"
)

// NewsAPISource searches newsapi.org /v2/everything.
type NewsAPISource struct {
	apiKey     string
	baseURL    string
	category   domain.Category
	httpClient *http.Client
}

func NewNewsAPISource(apiKey, baseURL string, category domain.Category, timeout time.Duration) *NewsAPISource {
	if baseURL == "" {
		baseURL = "https://newsapi.org"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &NewsAPISource{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		category:   category,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *NewsAPISource) Name() string { return "newsapi" }

func (s *NewsAPISource) Fetch(ctx context.Context, query string) ([]domain.ContentItem, error) {
	if s.apiKey == "" {
		return nil, domain.MissingConfig("NEWS_API_KEY")
	}
	params := url.Values{}
	params.Set("q", strings.TrimSpace(query))
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", fmt.Sprint(MaxItems))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v2/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, unavailable(s.Name(), err, "build request")
	}
	req.Header.Set("X-Api-Key", s.apiKey)
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.ObserveNetworkRequest("newsapi", "everything", query, start, err)
		return nil, unavailable(s.Name(), err, "request")
	}
	defer resp.Body.Close()

	var raw newsAPIResponse
	err = json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&raw)
	if err == nil && (resp.StatusCode != http.StatusOK || raw.Status == "error") {
		err = fmt.Errorf("status %d: %s", resp.StatusCode, raw.Message)
	}
	metrics.ObserveNetworkRequest("newsapi", "everything", query, start, err)
	if err != nil {
		return nil, unavailable(s.Name(), err, "search %q", query)
	}

	items := make([]domain.ContentItem, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		if a.Title == "[Removed]" {
			continue
		}
		publishedAt, _ := time.Parse(time.RFC3339, a.PublishedAt)
		items = append(items, domain.ContentItem{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      firstNonEmpty(a.Source.Name, s.Name()),
			Category:    s.category,
			PublishedAt: publishedAt,
		})
	}
	items = collect(items, MaxItems)
	if len(items) == 0 {
		return nil, unavailable(s.Name(), nil, "no articles for %q", query)
	}
	return items, nil
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
