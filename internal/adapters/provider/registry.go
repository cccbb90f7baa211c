package provider

import (
	"sort"
	"sync"

	"doctor-post-bot/internal/domain"
	"doctor-post-bot/internal/infra/config"
)

// Registry resolves providers by identifier. Providers whose credential is absent are
// remembered by name so a request for them fails with ConfigurationMissing instead of
// reaching the network.
type Registry struct {
	mu        sync.RWMutex
	providers map[domain.ProviderKind]domain.Provider
	missing   map[domain.ProviderKind]string
}

var _ domain.ProviderRegistry = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[domain.ProviderKind]domain.Provider),
		missing:   make(map[domain.ProviderKind]string),
	}
}

// NewRegistryFromConfig wires every provider the configuration can enable.
func NewRegistryFromConfig(cfg config.AppConfig) *Registry {
	r := NewRegistry()
	r.Register(NewOffline())

	if cfg.OpenAI.APIKey != "" {
		r.Register(NewOpenAI(OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.Model,
			Stream:  cfg.OpenAI.Stream,
		}))
		r.Register(NewImage(ImageConfig{
			APIKey:  cfg.OpenAI.APIKey,
			BaseURL: cfg.OpenAI.BaseURL,
			Model:   cfg.OpenAI.ImageModel,
			Size:    cfg.OpenAI.ImageSize,
		}))
	} else {
		r.MarkMissing(domain.ProviderOpenAI, "OPENAI_API_KEY")
		r.MarkMissing(domain.ProviderImage, "OPENAI_API_KEY")
	}

	if cfg.Anthropic.APIKey != "" {
		r.Register(NewAnthropic(AnthropicConfig{
			APIKey:    cfg.Anthropic.APIKey,
			BaseURL:   cfg.Anthropic.BaseURL,
			Model:     cfg.Anthropic.Model,
			MaxTokens: cfg.Anthropic.MaxTokens,
		}))
	} else {
		r.MarkMissing(domain.ProviderAnthropic, "ANTHROPIC_API_KEY")
	}

	if cfg.Gemini.APIKey != "" {
		r.Register(NewGemini(GeminiConfig{
			APIKey:    cfg.Gemini.APIKey,
			BaseURL:   cfg.Gemini.BaseURL,
			Model:     cfg.Gemini.Model,
			MaxTokens: cfg.Gemini.MaxTokens,
			Timeout:   cfg.Timeouts.Provider,
		}))
	} else {
		r.MarkMissing(domain.ProviderGemini, "GEMINI_API_KEY")
	}
	return r
}

// Register adds or replaces a provider.
func (r *Registry) Register(p domain.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Kind()] = p
	delete(r.missing, p.Kind())
}

// MarkMissing records that kind cannot run until env is set.
func (r *Registry) MarkMissing(kind domain.ProviderKind, env string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.providers, kind)
	r.missing[kind] = env
}

func (r *Registry) Get(kind domain.ProviderKind) (domain.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.providers[kind]; ok {
		return p, nil
	}
	if env, ok := r.missing[kind]; ok {
		return nil, domain.MissingConfig(env)
	}
	return nil, domain.NewError(domain.KindValidationFailed, nil, "unknown provider %q", kind)
}

// Status reports "ready" or the missing variable for every known provider.
func (r *Registry) Status() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.providers)+len(r.missing))
	for kind := range r.providers {
		out[string(kind)] = "ready"
	}
	for kind, env := range r.missing {
		out[string(kind)] = "missing " + env
	}
	return out
}

// Available lists the ready providers in sorted order.
func (r *Registry) Available() []domain.ProviderKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ProviderKind, 0, len(r.providers))
	for kind := range r.providers {
		out = append(out, kind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
