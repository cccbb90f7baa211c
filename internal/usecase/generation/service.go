package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"doctor-post-bot/internal/domain"
	"doctor-post-bot/internal/infra/metrics"
)

const (
	defaultSourceTimeout   = 5 * time.Second
	defaultProviderTimeout = 60 * time.Second
)

// Options tunes the orchestrator.
type Options struct {
	SourceTimeout   time.Duration
	ProviderTimeout time.Duration
	// Picker chooses the random category when a request names none.
	Picker domain.Picker
}

// Service sequences source fetch, prompt build and provider call for one request.
// It keeps no per-request state, so one instance serves concurrent requests.
type Service struct {
	catalog   domain.SourceCatalog
	builder   domain.PromptBuilder
	providers domain.ProviderRegistry
	picker    domain.Picker
	log       zerolog.Logger

	sourceTimeout   time.Duration
	providerTimeout time.Duration
}

// NewService creates the orchestrator.
func NewService(catalog domain.SourceCatalog, builder domain.PromptBuilder, providers domain.ProviderRegistry, logger zerolog.Logger, opts Options) *Service {
	if opts.SourceTimeout <= 0 {
		opts.SourceTimeout = defaultSourceTimeout
	}
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = defaultProviderTimeout
	}
	if opts.Picker == nil {
		opts.Picker = domain.RandomPicker{}
	}
	return &Service{
		catalog:         catalog,
		builder:         builder,
		providers:       providers,
		picker:          opts.Picker,
		log:             logger,
		sourceTimeout:   opts.SourceTimeout,
		providerTimeout: opts.ProviderTimeout,
	}
}

// run holds the state of a single Generate call.
type run struct {
	res domain.GenerationResult
	log zerolog.Logger
}

func (r *run) enter(state domain.State) {
	r.log.Debug().Str("from", string(r.res.State)).Str("to", string(state)).Msg("generation: transition")
	r.res.State = state
}

func (r *run) fail(err error) (domain.GenerationResult, error) {
	r.enter(domain.StateFailed)
	return r.res, err
}

// Generate runs the state machine Idle → Fetching → Composing → Generated, or ends in Failed.
// Each collaborator is called at most once; nothing is retried.
func (s *Service) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	r := &run{
		res: domain.GenerationResult{RequestID: req.ID, State: domain.StateIdle},
		log: s.log.With().Str("request_id", req.ID).Str("provider", string(req.Provider)).Logger(),
	}
	start := time.Now()
	defer func() {
		metrics.ObserveGeneration(string(r.res.Category), string(req.Provider), string(r.res.State), time.Since(start))
	}()

	provider, err := s.providers.Get(req.Provider)
	if err != nil {
		r.log.Warn().Err(err).Msg("generation: provider unavailable")
		return r.fail(err)
	}

	r.enter(domain.StateFetching)
	items, err := s.fetch(ctx, r, req)
	if err != nil {
		r.log.Warn().Err(err).Str("category", string(r.res.Category)).Msg("generation: no content")
		return r.fail(err)
	}

	r.enter(domain.StateComposing)
	spec, err := s.builder.Build(items, req.Constraints, req.Template, req.CustomPrompt)
	if err != nil {
		if domain.KindOf(err) == "" {
			err = domain.NewError(domain.KindValidationFailed, err, "build prompt")
		}
		return r.fail(err)
	}
	r.res.Prompt = spec
	r.res.Item = spec.Item

	post, err := s.callProvider(ctx, provider, spec)
	if err != nil {
		r.log.Error().Err(err).Msg("generation: provider call failed")
		return r.fail(err)
	}
	r.res.Post = post
	r.enter(domain.StateGenerated)
	r.log.Info().
		Str("category", string(r.res.Category)).
		Bool("fallback", r.res.UsedFallback).
		Int("word_count", post.WordCount()).
		Dur("took", time.Since(start)).
		Msg("generation: post ready")
	return r.res, nil
}

func (s *Service) fetch(ctx context.Context, r *run, req domain.GenerationRequest) ([]domain.ContentItem, error) {
	if req.Source != nil {
		r.res.Category = req.Category
		items, err := s.fetchFrom(ctx, req.Source, string(req.Category))
		if err == nil && len(items) == 0 {
			err = domain.NewError(domain.KindSourceUnavailable, nil, "%s returned no items", req.Source.Name())
		}
		if err != nil && domain.KindOf(err) == "" {
			err = domain.NewError(domain.KindSourceUnavailable, err, "fetch %s", req.Source.Name())
		}
		return items, err
	}

	category, err := s.resolveCategory(req.Category)
	if err != nil {
		return nil, err
	}
	r.res.Category = category

	source, ok := s.catalog.Source(category)
	var items []domain.ContentItem
	var fetchErr error
	if ok {
		items, fetchErr = s.fetchFrom(ctx, source, string(category))
	} else {
		fetchErr = domain.NewError(domain.KindSourceUnavailable, nil, "no source configured for %q", category)
	}
	if fetchErr == nil && len(items) > 0 {
		return items, nil
	}
	if fetchErr == nil {
		fetchErr = domain.NewError(domain.KindSourceUnavailable, nil, "source returned no items for %q", category)
	}

	fallback := s.catalog.Fallback(category)
	if len(fallback) == 0 {
		if domain.KindOf(fetchErr) != domain.KindSourceUnavailable {
			fetchErr = domain.NewError(domain.KindSourceUnavailable, fetchErr, "fetch %q", category)
		}
		return nil, fetchErr
	}
	r.log.Warn().Err(fetchErr).Str("category", string(category)).Int("items", len(fallback)).Msg("generation: using fallback content")
	metrics.IncSourceFallback(string(category))
	r.res.UsedFallback = true
	return fallback, nil
}

// fetchFrom calls src once under its fetch budget.
func (s *Service) fetchFrom(ctx context.Context, src domain.ContentSource, query string) ([]domain.ContentItem, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchBudget(src))
	defer cancel()
	return src.Fetch(fetchCtx, query)
}

// fetchBudget is SOURCE_TIMEOUT per backend: a group gets one slot for each member.
func (s *Service) fetchBudget(src domain.ContentSource) time.Duration {
	if g, ok := src.(domain.SourceGroup); ok && g.Size() > 1 {
		return s.sourceTimeout * time.Duration(g.Size())
	}
	return s.sourceTimeout
}

// Budget is the longest a Generate call can take before its outbound deadlines fire.
func (s *Service) Budget() time.Duration {
	longest := s.sourceTimeout
	for _, cat := range s.catalog.Categories() {
		if src, ok := s.catalog.Source(cat); ok {
			longest = max(longest, s.fetchBudget(src))
		}
	}
	return longest + s.providerTimeout
}

func (s *Service) resolveCategory(requested domain.Category) (domain.Category, error) {
	categories := s.catalog.Categories()
	if requested == "" {
		if len(categories) == 0 {
			return "", domain.NewError(domain.KindSourceUnavailable, nil, "no categories configured")
		}
		return categories[s.picker.Intn(len(categories))], nil
	}
	for _, c := range categories {
		if c == requested {
			return c, nil
		}
	}
	return "", domain.NewError(domain.KindValidationFailed, nil, "unsupported category %q", requested)
}

func (s *Service) callProvider(ctx context.Context, provider domain.Provider, spec domain.PromptSpec) (post domain.GeneratedPost, err error) {
	callCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()
	defer func() {
		if rec := recover(); rec != nil {
			err = domain.NewError(domain.KindGenerationFailed, nil, "provider %s panicked: %v", provider.Kind(), rec)
		}
	}()

	post, err = provider.Generate(callCtx, spec)
	if err != nil {
		switch {
		case domain.KindOf(err) != "":
		case errors.Is(err, context.DeadlineExceeded):
			err = domain.NewError(domain.KindGenerationFailed, err, "provider %s timed out after %s", provider.Kind(), s.providerTimeout)
		default:
			err = domain.NewError(domain.KindGenerationFailed, err, "provider %s", provider.Kind())
		}
		return domain.GeneratedPost{}, err
	}
	if post.Text == "" && post.ImageURL == "" {
		return domain.GeneratedPost{}, domain.NewError(domain.KindGenerationFailed, nil, "provider %s returned an empty result", provider.Kind())
	}
	if post.Provider == "" {
		post.Provider = provider.Kind()
	}
	return post, nil
}

// Categories lists the categories a request may name.
func (s *Service) Categories() []domain.Category {
	return s.catalog.Categories()
}

// ErrorMessage renders err the way the CLI and the bot print failures.
func ErrorMessage(err error) string {
	return fmt.Sprintf("[Error generating post: %v]", err)
}
