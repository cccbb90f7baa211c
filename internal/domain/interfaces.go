package domain

import (
	"context"
	"math/rand"
)

// ContentSource supplies raw material for a prompt.
// An empty result or transport failure is reported as a KindSourceUnavailable error.
type ContentSource interface {
	Name() string
	Fetch(ctx context.Context, query string) ([]ContentItem, error)
}

// SourceGroup is a ContentSource that asks several backends in turn, each under its own
// deadline. Size is the number of backends, so callers can bound the whole fetch.
type SourceGroup interface {
	ContentSource
	Size() int
}

// Provider sends a composed prompt to a generation backend.
// Failures are reported as KindGenerationFailed or KindConfigurationMissing errors.
type Provider interface {
	Kind() ProviderKind
	Generate(ctx context.Context, prompt PromptSpec) (GeneratedPost, error)
}

// ProviderRegistry resolves a provider by identifier.
type ProviderRegistry interface {
	Get(kind ProviderKind) (Provider, error)
}

// SourceCatalog resolves the source and fallback items of a category.
type SourceCatalog interface {
	Source(category Category) (ContentSource, bool)
	Fallback(category Category) []ContentItem
	Categories() []Category
}

// PromptBuilder composes a prompt from content and constraints.
type PromptBuilder interface {
	Build(items []ContentItem, c Constraints, template TemplateKind, custom string) (PromptSpec, error)
}

// Picker is the injectable random source; *rand.Rand satisfies it.
type Picker interface {
	Intn(n int) int
}

// RandomPicker draws from the process-wide math/rand source, which is safe for concurrent use.
type RandomPicker struct{}

func (RandomPicker) Intn(n int) int { return rand.Intn(n) }
