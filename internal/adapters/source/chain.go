package source

import (
	"context"
	"errors"
	"strings"
	"time"

	"doctor-post-bot/internal/domain"
)

// Chain asks each source in turn and returns the first non-empty result.
// Every member runs under its own deadline, so a stalled backend cannot starve the next one.
type Chain struct {
	sources       []domain.ContentSource
	memberTimeout time.Duration
}

var _ domain.SourceGroup = (*Chain)(nil)

// NewChain creates a chain. A zero memberTimeout leaves members bounded only by the caller's context.
func NewChain(memberTimeout time.Duration, sources ...domain.ContentSource) *Chain {
	return &Chain{sources: sources, memberTimeout: memberTimeout}
}

func (c *Chain) Name() string {
	names := make([]string, 0, len(c.sources))
	for _, s := range c.sources {
		names = append(names, s.Name())
	}
	return strings.Join(names, "|")
}

func (c *Chain) Size() int { return len(c.sources) }

func (c *Chain) Fetch(ctx context.Context, query string) ([]domain.ContentItem, error) {
	var errs []error
	for _, s := range c.sources {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		items, err := c.fetchMember(ctx, s, query)
		if err == nil && len(items) > 0 {
			return items, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return nil, unavailable(c.Name(), errors.Join(errs...), "all sources failed")
}

func (c *Chain) fetchMember(ctx context.Context, s domain.ContentSource, query string) ([]domain.ContentItem, error) {
	if c.memberTimeout <= 0 {
		return s.Fetch(ctx, query)
	}
	memberCtx, cancel := context.WithTimeout(ctx, c.memberTimeout)
	defer cancel()
	return s.Fetch(memberCtx, query)
}

// WithQuery pins the query a source is asked with.
func WithQuery(s domain.ContentSource, query string) domain.ContentSource {
	return pinnedQuery{ContentSource: s, query: query}
}

type pinnedQuery struct {
	domain.ContentSource
	query string
}

func (p pinnedQuery) Fetch(ctx context.Context, _ string) ([]domain.ContentItem, error) {
	return p.ContentSource.Fetch(ctx, p.query)
}
