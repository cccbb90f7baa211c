package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"doctor-post-bot/internal/domain"
)

type fakeSender struct {
	sent    []tgbotapi.Chattable
	failFor string
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	if f.failFor != "" {
		if _, ok := c.(tgbotapi.PhotoConfig); ok && f.failFor == "photo" {
			return tgbotapi.Message{}, errors.New("wrong file identifier")
		}
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) messages() []tgbotapi.MessageConfig {
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

type fakeGenerator struct {
	res domain.GenerationResult
	err error
	got []domain.GenerationRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	f.got = append(f.got, req)
	return f.res, f.err
}

func (f *fakeGenerator) Categories() []domain.Category { return domain.Categories() }

func command(text string) tgbotapi.Update {
	cmdLen := len(text)
	if i := strings.Index(text, " "); i >= 0 {
		cmdLen = i
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 42},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}}
}

func newTestHandler(gen *fakeGenerator) (*Handler, *fakeSender) {
	sender := &fakeSender{}
	return NewHandler(sender, gen, zerolog.Nop(), Options{Provider: domain.ProviderOffline}), sender
}

func TestPostCommand(t *testing.T) {
	gen := &fakeGenerator{res: domain.GenerationResult{
		State: domain.StateGenerated,
		Item:  domain.ContentItem{Title: "Heart <health>", URL: "https://example.com/a"},
		Post:  domain.GeneratedPost{Text: "Move more! #health"},
	}}
	h, sender := newTestHandler(gen)

	h.HandleUpdate(context.Background(), command("/post Medical"))

	if len(gen.got) != 1 {
		t.Fatalf("expected one generation, got %d", len(gen.got))
	}
	req := gen.got[0]
	if req.Category != domain.CategoryMedical || req.Provider != domain.ProviderOffline || req.Origin != domain.OriginBot {
		t.Fatalf("unexpected request %+v", req)
	}
	if req.ID == "" {
		t.Fatal("expected a request id")
	}
	msgs := sender.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	if msgs[0].ParseMode != tgbotapi.ModeHTML {
		t.Fatalf("expected HTML parse mode, got %q", msgs[0].ParseMode)
	}
	if !strings.Contains(msgs[0].Text, "Move more! #health") || !strings.Contains(msgs[0].Text, "Heart &lt;health&gt;") {
		t.Fatalf("unexpected reply %q", msgs[0].Text)
	}
	if msgs[0].ChatID != 42 {
		t.Fatalf("unexpected chat %d", msgs[0].ChatID)
	}
}

func TestPostCommandRandomCategory(t *testing.T) {
	gen := &fakeGenerator{res: domain.GenerationResult{Post: domain.GeneratedPost{Text: "ok"}}}
	h, _ := newTestHandler(gen)

	h.HandleUpdate(context.Background(), command("/post"))

	if len(gen.got) != 1 || gen.got[0].Category != "" {
		t.Fatalf("expected an empty category, got %+v", gen.got)
	}
}

func TestPostCommandUnknownCategory(t *testing.T) {
	gen := &fakeGenerator{}
	h, sender := newTestHandler(gen)

	h.HandleUpdate(context.Background(), command("/post sports"))

	if len(gen.got) != 0 {
		t.Fatal("generation must not run for an unknown category")
	}
	msgs := sender.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0].Text, "Unknown category") {
		t.Fatalf("unexpected replies %+v", msgs)
	}
}

func TestPostCommandError(t *testing.T) {
	gen := &fakeGenerator{err: domain.MissingConfig("GEMINI_API_KEY")}
	h, sender := newTestHandler(gen)

	h.HandleUpdate(context.Background(), command("/post"))

	msgs := sender.messages()
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	if !strings.HasPrefix(msgs[0].Text, "[Error generating post: ") || !strings.Contains(msgs[0].Text, "GEMINI_API_KEY") {
		t.Fatalf("unexpected error reply %q", msgs[0].Text)
	}
}

func TestImageCommand(t *testing.T) {
	gen := &fakeGenerator{res: domain.GenerationResult{
		Item: domain.ContentItem{Title: "Clean air matters"},
		Post: domain.GeneratedPost{ImageURL: "https://images.example/air.png"},
	}}
	h, sender := newTestHandler(gen)

	h.HandleUpdate(context.Background(), command("/image environment"))

	if gen.got[0].Provider != domain.ProviderImage {
		t.Fatalf("expected image provider, got %s", gen.got[0].Provider)
	}
	var photo *tgbotapi.PhotoConfig
	for _, c := range sender.sent {
		if p, ok := c.(tgbotapi.PhotoConfig); ok {
			photo = &p
		}
	}
	if photo == nil {
		t.Fatal("expected a photo")
	}
	if photo.Caption != "Clean air matters" {
		t.Fatalf("unexpected caption %q", photo.Caption)
	}
}

func TestImageCommandFallsBackToLink(t *testing.T) {
	gen := &fakeGenerator{res: domain.GenerationResult{
		Post: domain.GeneratedPost{ImageURL: "https://images.example/air.png"},
	}}
	h, sender := newTestHandler(gen)
	sender.failFor = "photo"

	h.HandleUpdate(context.Background(), command("/image"))

	msgs := sender.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0].Text, "https://images.example/air.png") {
		t.Fatalf("expected a link reply, got %+v", msgs)
	}
}

func TestInfoCommands(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "/start", want: "/post"},
		{text: "/help", want: "/image [category]"},
		{text: "/categories", want: "health, medical, environment, science, india"},
		{text: "/unknown", want: "Unknown command"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			h, sender := newTestHandler(&fakeGenerator{})
			h.HandleUpdate(context.Background(), command(tt.text))
			msgs := sender.messages()
			if len(msgs) != 1 || !strings.Contains(msgs[0].Text, tt.want) {
				t.Fatalf("expected reply containing %q, got %+v", tt.want, msgs)
			}
		})
	}
}

func TestPlainTextGetsHint(t *testing.T) {
	h, sender := newTestHandler(&fakeGenerator{})
	h.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 1}}})
	if msgs := sender.messages(); len(msgs) != 1 || !strings.Contains(msgs[0].Text, "/post") {
		t.Fatalf("unexpected replies %+v", msgs)
	}
}
