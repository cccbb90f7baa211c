package api

import "time"

// GenerateRequest is the body of POST /generate. Every field is optional.
type GenerateRequest struct {
	Category     string   `json:"category"`
	CustomPrompt string   `json:"custom_prompt"`
	Provider     string   `json:"provider"`
	Template     string   `json:"template"`
	WordLimit    *int     `json:"word_limit"`
	Keyword      *string  `json:"keyword"`
	KeywordCount *int     `json:"keyword_count"`
	PerLineCount *int     `json:"per_line_count"`
	Hashtags     []string `json:"hashtags"`
	HashtagCount *int     `json:"hashtag_count"`
}

// CaptionRequest is the body of POST /caption.
type CaptionRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	URL          string `json:"url"`
	CustomPrompt string `json:"custom_prompt"`
	Provider     string `json:"provider"`
}

type Envelope struct {
	Success  bool          `json:"success"`
	Data     *PostResponse `json:"data,omitempty"`
	Error    string        `json:"error,omitempty"`
	Metadata Metadata      `json:"metadata"`
}

type PostResponse struct {
	Article   ArticleResponse `json:"article"`
	Content   string          `json:"content"`
	ImageURL  string          `json:"image_url,omitempty"`
	WordCount int             `json:"word_count"`
	Hashtags  []string        `json:"hashtags"`
}

type ArticleResponse struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Source      string `json:"source,omitempty"`
	Category    string `json:"category,omitempty"`
	Synthetic   bool   `json:"synthetic"`
}

type Metadata struct {
	RequestID   string    `json:"request_id"`
	Provider    string    `json:"provider,omitempty"`
	Model       string    `json:"model,omitempty"`
	Category    string    `json:"category,omitempty"`
	Template    string    `json:"template,omitempty"`
	State       string    `json:"state,omitempty"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	Fallback    bool      `json:"fallback"`
	GeneratedAt time.Time `json:"generated_at"`
}

type CaptionResponse struct {
	Caption   string   `json:"caption"`
	WordCount int      `json:"word_count"`
	Hashtags  []string `json:"hashtags"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Providers map[string]string `json:"providers"`
	// Available lists the provider identifiers a request can name right now.
	Available []string `json:"available"`
	Missing   []string `json:"missing"`
}
