package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"doctor-post-bot/internal/adapters/telegram"
	"doctor-post-bot/internal/domain"
	"doctor-post-bot/internal/infra/metrics"
	"doctor-post-bot/internal/usecase/generation"
)

// Sender is the part of *tgbotapi.BotAPI the handler uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Generator runs one generation request.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)
	Categories() []domain.Category
}

// Options configure what /post generates.
type Options struct {
	Provider    domain.ProviderKind
	Template    domain.TemplateKind
	Constraints domain.Constraints
}

// Handler serves bot updates.
type Handler struct {
	bot  Sender
	gen  Generator
	log  zerolog.Logger
	opts Options
}

func NewHandler(bot Sender, gen Generator, logger zerolog.Logger, opts Options) *Handler {
	if opts.Provider == "" {
		opts.Provider = domain.ProviderGemini
	}
	if opts.Template == "" {
		opts.Template = domain.TemplateElaborate
	}
	if opts.Constraints.WordLimit == 0 {
		opts.Constraints = domain.DefaultConstraints()
	}
	return &Handler{bot: bot, gen: gen, log: logger, opts: opts}
}

// HandleUpdate processes an incoming update.
func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		h.handleMessage(ctx, upd.Message)
	}
}

func (h *Handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		h.reply(msg.Chat.ID, "Send /post to get a fresh post for your audience, or /help for all commands.")
		return
	}
	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "start":
		h.reply(msg.Chat.ID, h.buildStartMessage())
	case "help":
		h.reply(msg.Chat.ID, h.buildHelpMessage())
	case "categories":
		h.reply(msg.Chat.ID, h.buildCategoriesMessage())
	case "post":
		h.handleGenerate(ctx, msg.Chat.ID, args, h.opts.Provider)
	case "image":
		h.handleGenerate(ctx, msg.Chat.ID, args, domain.ProviderImage)
	default:
		h.reply(msg.Chat.ID, "Unknown command. Use /help")
	}
}

func (h *Handler) handleGenerate(ctx context.Context, chatID int64, args string, provider domain.ProviderKind) {
	var category domain.Category
	if args != "" {
		cat, ok := domain.ParseCategory(args)
		if !ok {
			h.reply(chatID, fmt.Sprintf("Unknown category %q.\n\n%s", args, h.buildCategoriesMessage()))
			return
		}
		category = cat
	}

	h.typing(chatID)
	req := domain.GenerationRequest{
		ID:          uuid.NewString(),
		Category:    category,
		Constraints: h.opts.Constraints,
		Template:    h.opts.Template,
		Provider:    provider,
		Origin:      domain.OriginBot,
		RequestedAt: time.Now(),
	}
	res, err := h.gen.Generate(ctx, req)
	if err != nil {
		h.log.Warn().Err(err).Str("request_id", req.ID).Int64("chat_id", chatID).Msg("bot: generation failed")
		h.reply(chatID, generation.ErrorMessage(err))
		return
	}
	if res.Post.ImageURL != "" {
		h.sendPhoto(chatID, res)
		return
	}
	h.replyHTML(chatID, generation.FormatPost(res))
}

func (h *Handler) buildStartMessage() string {
	return strings.Join([]string{
		"Hi! I write short social media posts for doctors based on today's health news.",
		"",
		"Send /post for a post on a random topic or /post health for a specific one.",
		"Use /help to see every command.",
	}, "\n")
}

func (h *Handler) buildHelpMessage() string {
	return strings.Join([]string{
		"/post [category] - generate a post",
		"/image [category] - generate an illustration",
		"/categories - list topics",
		"/help - this message",
	}, "\n")
}

func (h *Handler) buildCategoriesMessage() string {
	cats := h.gen.Categories()
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, string(c))
	}
	return "Categories: " + strings.Join(names, ", ")
}

func (h *Handler) typing(chatID int64) {
	if _, err := h.bot.Send(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		h.log.Debug().Err(err).Msg("bot: chat action failed")
	}
}

func (h *Handler) sendPhoto(chatID int64, res domain.GenerationResult) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(res.Post.ImageURL))
	if title := strings.TrimSpace(res.Item.Title); title != "" {
		photo.Caption = telegram.TruncateCaption(title)
	}
	start := time.Now()
	_, err := h.bot.Send(photo)
	metrics.ObserveNetworkRequest("telegram_bot", "send_photo", strconv.FormatInt(chatID, 10), start, err)
	if err != nil {
		h.log.Error().Err(err).Msg("bot: send photo failed")
		h.replyHTML(chatID, generation.FormatPost(res))
	}
}

func (h *Handler) reply(chatID int64, text string) {
	h.send(chatID, text, "")
}

func (h *Handler) replyHTML(chatID int64, text string) {
	h.send(chatID, text, tgbotapi.ModeHTML)
}

func (h *Handler) send(chatID int64, text, parseMode string) {
	for _, part := range telegram.SplitMessage(text) {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = parseMode
		msg.DisableWebPagePreview = parseMode == ""
		start := time.Now()
		_, err := h.bot.Send(msg)
		metrics.ObserveNetworkRequest("telegram_bot", "send_message", strconv.FormatInt(chatID, 10), start, err)
		if err != nil {
			h.log.Error().Err(err).Msg("bot: send message failed")
			return
		}
	}
}
