package prompt

import (
	"strconv"
	"strings"
	"testing"

	"doctor-post-bot/internal/domain"
)

type fixedPicker int

func (p fixedPicker) Intn(int) int { return int(p) }

var heartItem = domain.ContentItem{Title: "Heart health tips", Description: "...", URL: "http://x"}

func TestBuildEmbedsConstraintsLiterally(t *testing.T) {
	b := NewBuilder(fixedPicker(0))
	c := domain.Constraints{WordLimit: 100, Keyword: "wellness", KeywordCount: 2, PerLineCount: 3}
	for _, template := range []domain.TemplateKind{domain.TemplateConcise, domain.TemplateElaborate} {
		spec, err := b.Build([]domain.ContentItem{heartItem}, c, template, "")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", template, err)
		}
		for _, want := range []string{"100", "wellness", "2", "Heart health tips", "http://x"} {
			if !strings.Contains(spec.Text, want) {
				t.Fatalf("%s: prompt %q does not contain %q", template, spec.Text, want)
			}
		}
		if spec.Template != template {
			t.Fatalf("expected template %s, got %s", template, spec.Template)
		}
		if spec.Item != heartItem {
			t.Fatalf("expected selected item to be recorded")
		}
	}
}

func TestBuildConstraintsForManyValues(t *testing.T) {
	b := NewBuilder(fixedPicker(0))
	keywords := []string{"health", "heart care", "pollution, air", "mental-health"}
	for i, kw := range keywords {
		c := domain.Constraints{WordLimit: 37 + i*111, Keyword: kw, KeywordCount: 1 + i*4, PerLineCount: 1 + i}
		for _, template := range []domain.TemplateKind{domain.TemplateConcise, domain.TemplateElaborate} {
			spec, err := b.Build([]domain.ContentItem{heartItem}, c, template, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			wants := []string{strconv.Itoa(c.WordLimit), kw, strconv.Itoa(c.KeywordCount)}
			if template == domain.TemplateElaborate {
				wants = append(wants, strconv.Itoa(c.PerLineCount))
			}
			for _, want := range wants {
				if !strings.Contains(spec.Text, want) {
					t.Fatalf("%s prompt misses %q: %s", template, want, spec.Text)
				}
			}
		}
	}
}

func TestBuildElaborateInstructions(t *testing.T) {
	b := NewBuilder(fixedPicker(0))
	c := domain.Constraints{WordLimit: 80, Keyword: "health", KeywordCount: 2, PerLineCount: 1, Hashtags: []string{"wellness", "#doctor", " "}}
	spec, err := b.Build([]domain.ContentItem{heartItem}, c, domain.TemplateElaborate, "Mention World Heart Day")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"friendly and trustworthy", "emojis", "#wellness, #doctor", "every line", "Additional instructions: Mention World Heart Day"} {
		if !strings.Contains(spec.Text, want) {
			t.Fatalf("prompt misses %q: %s", want, spec.Text)
		}
	}

	c.Hashtags = nil
	concise, err := b.Build([]domain.ContentItem{heartItem}, c, domain.TemplateConcise, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(concise.Text, "every line") || strings.Contains(concise.Text, "emojis") {
		t.Fatalf("concise prompt must not carry elaborate instructions: %s", concise.Text)
	}
}

func TestBuildKeywordIsEmbeddedVerbatim(t *testing.T) {
	b := NewBuilder(fixedPicker(0))
	c := domain.Constraints{WordLimit: 60, Keyword: "heart health", KeywordCount: 2, PerLineCount: 1}
	for _, template := range []domain.TemplateKind{domain.TemplateConcise, domain.TemplateElaborate} {
		spec, err := b.Build([]domain.ContentItem{heartItem}, c, template, "")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", template, err)
		}
		if !strings.Contains(spec.Text, `"heart health"`) {
			t.Fatalf("%s prompt misses the keyword: %s", template, spec.Text)
		}
	}
}

func TestBuildElaborateHashtagCount(t *testing.T) {
	b := NewBuilder(fixedPicker(0))
	c := domain.Constraints{WordLimit: 80, Keyword: "health", KeywordCount: 2, PerLineCount: 1, HashtagCount: 4}
	spec, err := b.Build([]domain.ContentItem{heartItem}, c, domain.TemplateElaborate, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(spec.Text, "at least 4 hashtags") {
		t.Fatalf("prompt misses the hashtag count: %s", spec.Text)
	}

	c.HashtagCount = 0
	spec, _ = b.Build([]domain.ContentItem{heartItem}, c, domain.TemplateElaborate, "")
	if strings.Contains(spec.Text, "hashtags. Use at least") {
		t.Fatalf("zero hashtag count must not be rendered: %s", spec.Text)
	}
}

func TestBuildUsesPicker(t *testing.T) {
	items := []domain.ContentItem{{Title: "first"}, {Title: "second"}, {Title: "third"}}
	c := domain.DefaultConstraints()
	spec, err := NewBuilder(fixedPicker(2)).Build(items, c, domain.TemplateConcise, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Item.Title != "third" || !strings.Contains(spec.Text, "third") {
		t.Fatalf("expected third item, got %q", spec.Item.Title)
	}
	if strings.Contains(spec.Text, "first") || strings.Contains(spec.Text, "second") {
		t.Fatalf("concise prompt must contain exactly one item: %s", spec.Text)
	}

	spec, err = NewBuilder(fixedPicker(99)).Build(items, c, domain.TemplateConcise, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Item.Title != "first" {
		t.Fatalf("out-of-range pick should fall back to the first item, got %q", spec.Item.Title)
	}
}

func TestBuildValidation(t *testing.T) {
	b := NewBuilder(fixedPicker(0))
	valid := domain.DefaultConstraints()
	tests := []struct {
		name     string
		items    []domain.ContentItem
		c        domain.Constraints
		template domain.TemplateKind
	}{
		{name: "no items", items: nil, c: valid, template: domain.TemplateConcise},
		{name: "zero word limit", items: []domain.ContentItem{heartItem}, c: domain.Constraints{Keyword: "x", KeywordCount: 1}, template: domain.TemplateConcise},
		{name: "blank keyword", items: []domain.ContentItem{heartItem}, c: domain.Constraints{WordLimit: 10, Keyword: "  ", KeywordCount: 1}, template: domain.TemplateConcise},
		{name: "zero count", items: []domain.ContentItem{heartItem}, c: domain.Constraints{WordLimit: 10, Keyword: "x"}, template: domain.TemplateConcise},
		{name: "elaborate without per line", items: []domain.ContentItem{heartItem}, c: domain.Constraints{WordLimit: 10, Keyword: "x", KeywordCount: 1}, template: domain.TemplateElaborate},
		{name: "unknown template", items: []domain.ContentItem{heartItem}, c: valid, template: "haiku"},
		{name: "padded keyword", items: []domain.ContentItem{heartItem}, c: domain.Constraints{WordLimit: 10, Keyword: " health ", KeywordCount: 1}, template: domain.TemplateConcise},
		{name: "concise with hashtags", items: []domain.ContentItem{heartItem}, c: domain.Constraints{WordLimit: 10, Keyword: "x", KeywordCount: 1, Hashtags: []string{"#care"}}, template: domain.TemplateConcise},
		{name: "concise with hashtag count", items: []domain.ContentItem{heartItem}, c: domain.Constraints{WordLimit: 10, Keyword: "x", KeywordCount: 1, HashtagCount: 2}, template: domain.TemplateConcise},
		{name: "negative hashtag count", items: []domain.ContentItem{heartItem}, c: domain.Constraints{WordLimit: 10, Keyword: "x", KeywordCount: 1, PerLineCount: 1, HashtagCount: -1}, template: domain.TemplateElaborate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.items, tt.c, tt.template, "")
			if !domain.IsKind(err, domain.KindValidationFailed) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestBuildClipsLongDescriptions(t *testing.T) {
	item := domain.ContentItem{Title: "page", Description: strings.Repeat("x", descriptionLimit+500)}
	spec, err := NewBuilder(fixedPicker(0)).Build([]domain.ContentItem{item}, domain.DefaultConstraints(), domain.TemplateConcise, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(spec.Text, "x") > descriptionLimit+10 {
		t.Fatalf("description was not clipped")
	}
}
