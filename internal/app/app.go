// Package app wires the generation pipeline from configuration.
package app

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"doctor-post-bot/internal/adapters/provider"
	"doctor-post-bot/internal/adapters/source"
	"doctor-post-bot/internal/domain"
	"doctor-post-bot/internal/infra/config"
	"doctor-post-bot/internal/usecase/generation"
	"doctor-post-bot/internal/usecase/prompt"
)

// Defaults are the request values applied when a caller leaves them out.
type Defaults struct {
	Provider    domain.ProviderKind
	Template    domain.TemplateKind
	Constraints domain.Constraints
}

// App holds the wired pipeline.
type App struct {
	Service   *generation.Service
	Providers *provider.Registry
	Catalog   *source.Catalog
	Hashtags  *source.HashtagScraper
	Defaults  Defaults
}

// New builds the pipeline. Missing credentials are logged once as a warning naming every variable.
func New(cfg config.AppConfig, logger zerolog.Logger) (*App, error) {
	defaults, err := DefaultsFrom(cfg)
	if err != nil {
		return nil, err
	}
	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		logger.Warn().Strs("missing", missing).Msg("credentials not configured, dependent sources and providers are disabled")
	}

	registry := provider.NewRegistryFromConfig(cfg)
	catalog := source.NewCatalogFromConfig(cfg)
	svc := generation.NewService(
		catalog,
		prompt.NewBuilder(nil),
		registry,
		logger.With().Str("component", "generation").Logger(),
		generation.Options{
			SourceTimeout:   cfg.Timeouts.Source,
			ProviderTimeout: cfg.Timeouts.Provider,
		},
	)
	return &App{
		Service:   svc,
		Providers: registry,
		Catalog:   catalog,
		Hashtags:  source.NewHashtagScraper(cfg.News.HashtagURL, cfg.Timeouts.Source, logger.With().Str("component", "hashtags").Logger()),
		Defaults:  defaults,
	}, nil
}

// DefaultsFrom validates the DEFAULT_* settings.
func DefaultsFrom(cfg config.AppConfig) (Defaults, error) {
	kind, ok := domain.ParseProviderKind(cfg.Defaults.Provider)
	if !ok {
		return Defaults{}, fmt.Errorf("DEFAULT_PROVIDER: unknown provider %q", cfg.Defaults.Provider)
	}
	tmpl, ok := domain.ParseTemplateKind(cfg.Defaults.Template)
	if !ok {
		return Defaults{}, fmt.Errorf("DEFAULT_TEMPLATE: unknown template %q", cfg.Defaults.Template)
	}
	c := domain.DefaultConstraints()
	c.WordLimit = cfg.Defaults.WordLimit
	c.Keyword = strings.TrimSpace(cfg.Defaults.Keyword)
	c.KeywordCount = cfg.Defaults.KeywordCount
	c.PerLineCount = cfg.Defaults.PerLineCount
	if err := prompt.Validate(c, tmpl); err != nil {
		return Defaults{}, fmt.Errorf("DEFAULT_* constraints: %w", err)
	}
	return Defaults{Provider: kind, Template: tmpl, Constraints: c}, nil
}
