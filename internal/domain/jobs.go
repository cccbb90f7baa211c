package domain

import "time"

// RequestOrigin describes which delivery surface admitted a request.
type RequestOrigin string

const (
	OriginAPI RequestOrigin = "api"
	OriginCLI RequestOrigin = "cli"
	OriginBot RequestOrigin = "bot"
)

// GenerationRequest is one request-scoped generation attempt.
type GenerationRequest struct {
	ID string `json:"request_id"`
	// Category is optional; an empty category is picked at random.
	Category Category `json:"category,omitempty"`
	// Source, when set, replaces the category source and has no fallback (caption flow).
	Source       ContentSource `json:"-"`
	Constraints  Constraints   `json:"-"`
	Template     TemplateKind  `json:"template"`
	Provider     ProviderKind  `json:"provider"`
	CustomPrompt string        `json:"custom_prompt,omitempty"`
	Origin       RequestOrigin `json:"origin"`
	RequestedAt  time.Time     `json:"requested_at"`
}

// State is a step of the generation state machine.
type State string

const (
	StateIdle      State = "idle"
	StateFetching  State = "fetching"
	StateComposing State = "composing"
	StateGenerated State = "generated"
	StateFailed    State = "failed"
)

// GenerationResult is the outcome of one request.
type GenerationResult struct {
	RequestID string
	State     State
	Category  Category
	Item      ContentItem
	Prompt    PromptSpec
	Post      GeneratedPost
	// UsedFallback is true when the item came from the canned fallback list.
	UsedFallback bool
}
