package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"doctor-post-bot/internal/domain"
	"doctor-post-bot/internal/infra/config"
)

func baseConfig() config.AppConfig {
	var cfg config.AppConfig
	cfg.Defaults.Provider = "offline"
	cfg.Defaults.Template = "elaborate"
	cfg.Defaults.WordLimit = 80
	cfg.Defaults.Keyword = "sleep"
	cfg.Defaults.KeywordCount = 3
	cfg.Defaults.PerLineCount = 1
	return cfg
}

func TestDefaultsFrom(t *testing.T) {
	d, err := DefaultsFrom(baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Provider != domain.ProviderOffline || d.Template != domain.TemplateElaborate {
		t.Fatalf("unexpected defaults %+v", d)
	}
	if d.Constraints.WordLimit != 80 || d.Constraints.Keyword != "sleep" || d.Constraints.KeywordCount != 3 {
		t.Fatalf("unexpected constraints %+v", d.Constraints)
	}
}

func TestDefaultsFromTrimsKeyword(t *testing.T) {
	cfg := baseConfig()
	cfg.Defaults.Keyword = " sleep "
	d, err := DefaultsFrom(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Constraints.Keyword != "sleep" {
		t.Fatalf("keyword not trimmed: %q", d.Constraints.Keyword)
	}
}

func TestDefaultsFromRejectsUnknownValues(t *testing.T) {
	cfg := baseConfig()
	cfg.Defaults.Provider = "bard"
	if _, err := DefaultsFrom(cfg); err == nil {
		t.Fatal("expected error for unknown provider")
	}

	cfg = baseConfig()
	cfg.Defaults.Template = "haiku"
	if _, err := DefaultsFrom(cfg); err == nil {
		t.Fatal("expected error for unknown template")
	}

	cfg = baseConfig()
	cfg.Defaults.Keyword = " "
	if _, err := DefaultsFrom(cfg); err == nil {
		t.Fatal("expected error for blank keyword")
	}
}

func TestNewWiresOfflineProvider(t *testing.T) {
	a, err := New(baseConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := a.Providers.Get(domain.ProviderOffline); err != nil {
		t.Fatalf("offline provider should be ready: %v", err)
	}
	if _, err := a.Providers.Get(domain.ProviderGemini); !domain.IsKind(err, domain.KindConfigurationMissing) {
		t.Fatalf("expected missing gemini key, got %v", err)
	}
	if len(a.Service.Categories()) != len(domain.Categories()) {
		t.Fatal("every category should be served")
	}
}

func TestNewWarnsAboutMissingCredentials(t *testing.T) {
	var buf bytes.Buffer
	cfg := baseConfig()
	cfg.Gemini.APIKey = "g-key"
	if _, err := New(cfg, zerolog.New(&buf)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) {
		t.Fatalf("expected a warning, got %s", out)
	}
	for _, name := range []string{"NEWS_API_KEY", "FIRECRAWL_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY"} {
		if !strings.Contains(out, name) {
			t.Fatalf("warning misses %s: %s", name, out)
		}
	}
	if strings.Contains(out, "GEMINI_API_KEY") {
		t.Fatalf("configured key reported as missing: %s", out)
	}
}
