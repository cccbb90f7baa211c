package domain

import "strings"

// Category names a topic a content source can be asked for.
type Category string

const (
	CategoryHealth      Category = "health"
	CategoryMedical     Category = "medical"
	CategoryEnvironment Category = "environment"
	CategoryScience     Category = "science"
	CategoryIndia       Category = "india"
)

// Categories lists the supported categories in a stable order.
func Categories() []Category {
	return []Category{CategoryHealth, CategoryMedical, CategoryEnvironment, CategoryScience, CategoryIndia}
}

// ParseCategory normalizes s and reports whether it is a supported category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// TemplateKind selects the prompt wording.
type TemplateKind string

const (
	// TemplateConcise asks for a short post around one item with a total keyword count.
	TemplateConcise TemplateKind = "concise"
	// TemplateElaborate adds tone, emoji, hashtag and per-line keyword instructions.
	TemplateElaborate TemplateKind = "elaborate"
)

// ParseTemplateKind returns the template for s. An empty string selects TemplateConcise.
func ParseTemplateKind(s string) (TemplateKind, bool) {
	switch TemplateKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", TemplateConcise:
		return TemplateConcise, true
	case TemplateElaborate:
		return TemplateElaborate, true
	}
	return "", false
}

// ProviderKind identifies a generation backend.
type ProviderKind string

const (
	ProviderOpenAI    ProviderKind = "openai"
	ProviderAnthropic ProviderKind = "anthropic"
	ProviderGemini    ProviderKind = "gemini"
	ProviderImage     ProviderKind = "image"
	// ProviderOffline builds a post locally without any network call.
	ProviderOffline ProviderKind = "offline"
)

// ProviderKinds lists every known provider identifier.
func ProviderKinds() []ProviderKind {
	return []ProviderKind{ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderImage, ProviderOffline}
}

// ParseProviderKind normalizes s and reports whether it names a known provider.
func ParseProviderKind(s string) (ProviderKind, bool) {
	k := ProviderKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ProviderKinds() {
		if k == known {
			return k, true
		}
	}
	return "", false
}
