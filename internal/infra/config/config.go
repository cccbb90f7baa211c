package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig describes the service configuration.
type AppConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	Port        int    `envconfig:"PORT" default:"8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR" default:":9090"`

	Timeouts struct {
		Source   time.Duration `envconfig:"SOURCE_TIMEOUT" default:"5s"`
		Provider time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"60s"`
	} `envconfig:""`

	News struct {
		APIKey       string `envconfig:"NEWS_API_KEY"`
		APIBaseURL   string `envconfig:"NEWS_API_BASE_URL" default:"https://newsapi.org"`
		FirecrawlKey string `envconfig:"FIRECRAWL_API_KEY"`
		FirecrawlURL string `envconfig:"FIRECRAWL_BASE_URL" default:"https://api.firecrawl.dev"`
		HashtagURL   string `envconfig:"HASHTAG_URL" default:"https://best-hashtags.com/hashtag/health/"`
	} `envconfig:""`

	OpenAI struct {
		APIKey     string `envconfig:"OPENAI_API_KEY"`
		BaseURL    string `envconfig:"OPENAI_BASE_URL"`
		Model      string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
		Stream     bool   `envconfig:"OPENAI_STREAM" default:"false"`
		ImageModel string `envconfig:"OPENAI_IMAGE_MODEL" default:"dall-e-3"`
		ImageSize  string `envconfig:"OPENAI_IMAGE_SIZE" default:"1024x1024"`
	} `envconfig:""`

	Anthropic struct {
		APIKey    string `envconfig:"ANTHROPIC_API_KEY"`
		BaseURL   string `envconfig:"ANTHROPIC_BASE_URL"`
		Model     string `envconfig:"ANTHROPIC_MODEL" default:"claude-3-5-haiku-latest"`
		MaxTokens int64  `envconfig:"ANTHROPIC_MAX_TOKENS" default:"1024"`
	} `envconfig:""`

	Gemini struct {
		APIKey  string `envconfig:"GEMINI_API_KEY"`
		BaseURL string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai"`
		Model   string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
		// MaxTokens caps the completion; zero leaves the backend default.
		MaxTokens int `envconfig:"GEMINI_MAX_TOKENS"`
	} `envconfig:""`

	Telegram struct {
		Token string `envconfig:"TG_BOT_TOKEN"`
		// WebhookListen switches the bot from long polling to a webhook server on this address.
		WebhookListen string `envconfig:"TG_WEBHOOK_LISTEN"`
		PollTimeout   int    `envconfig:"TG_POLL_TIMEOUT" default:"30"`
		// MaxConcurrent bounds how many updates are handled at once.
		MaxConcurrent int `envconfig:"TG_MAX_CONCURRENT" default:"8"`
	} `envconfig:""`

	Defaults struct {
		Provider     string `envconfig:"DEFAULT_PROVIDER" default:"gemini"`
		Template     string `envconfig:"DEFAULT_TEMPLATE" default:"concise"`
		WordLimit    int    `envconfig:"DEFAULT_WORD_LIMIT" default:"100"`
		Keyword      string `envconfig:"DEFAULT_KEYWORD" default:"health"`
		KeywordCount int    `envconfig:"DEFAULT_KEYWORD_COUNT" default:"2"`
		PerLineCount int    `envconfig:"DEFAULT_PER_LINE_COUNT" default:"1"`
	} `envconfig:""`
}

// Load reads .env (when present) and the environment.
func Load() AppConfig {
	cfg, err := LoadE()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// LoadE is Load without the fatal exit.
func LoadE() (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate rejects values that cannot work at runtime.
func (c AppConfig) Validate() error {
	var errs []error
	if c.Timeouts.Source <= 0 {
		errs = append(errs, errors.New("SOURCE_TIMEOUT must be positive"))
	}
	if c.Timeouts.Provider <= 0 {
		errs = append(errs, errors.New("PROVIDER_TIMEOUT must be positive"))
	}
	if c.Defaults.WordLimit <= 0 {
		errs = append(errs, errors.New("DEFAULT_WORD_LIMIT must be positive"))
	}
	if c.Defaults.KeywordCount <= 0 {
		errs = append(errs, errors.New("DEFAULT_KEYWORD_COUNT must be positive"))
	}
	if c.Gemini.MaxTokens < 0 {
		errs = append(errs, errors.New("GEMINI_MAX_TOKENS must not be negative"))
	}
	if c.Anthropic.MaxTokens <= 0 {
		errs = append(errs, errors.New("ANTHROPIC_MAX_TOKENS must be positive"))
	}
	if c.Telegram.MaxConcurrent <= 0 {
		errs = append(errs, errors.New("TG_MAX_CONCURRENT must be positive"))
	}
	return errors.Join(errs...)
}

// Credential pairs an environment variable with its configured value.
type Credential struct {
	Name  string
	Value string
	// Provider is the provider identifier the credential enables, empty for content sources.
	Provider string
}

// Credentials lists every external credential in a stable order.
func (c AppConfig) Credentials() []Credential {
	return []Credential{
		{Name: "NEWS_API_KEY", Value: c.News.APIKey},
		{Name: "FIRECRAWL_API_KEY", Value: c.News.FirecrawlKey},
		{Name: "OPENAI_API_KEY", Value: c.OpenAI.APIKey, Provider: "openai"},
		{Name: "ANTHROPIC_API_KEY", Value: c.Anthropic.APIKey, Provider: "anthropic"},
		{Name: "GEMINI_API_KEY", Value: c.Gemini.APIKey, Provider: "gemini"},
		{Name: "OPENAI_API_KEY", Value: c.OpenAI.APIKey, Provider: "image"},
	}
}

// MissingCredentials returns the names of unset credentials, without duplicates.
func (c AppConfig) MissingCredentials() []string {
	seen := make(map[string]struct{})
	var missing []string
	for _, cred := range c.Credentials() {
		if cred.Value != "" {
			continue
		}
		if _, ok := seen[cred.Name]; ok {
			continue
		}
		seen[cred.Name] = struct{}{}
		missing = append(missing, cred.Name)
	}
	return missing
}
