// Package api exposes post generation over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"doctor-post-bot/internal/adapters/source"
	"doctor-post-bot/internal/domain"
	httpinfra "doctor-post-bot/internal/infra/http"
)

const maxBodyBytes = 1 << 20

// Generator is the orchestrator as seen by the handlers.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)
	Categories() []domain.Category
}

// StatusReporter describes provider readiness for /health.
type StatusReporter interface {
	Status() map[string]string
	Available() []domain.ProviderKind
}

// Defaults fill request fields the caller left out.
type Defaults struct {
	Provider    domain.ProviderKind
	Template    domain.TemplateKind
	Constraints domain.Constraints
}

type Handler struct {
	gen      Generator
	status   StatusReporter
	missing  []string
	defaults Defaults
	log      zerolog.Logger
	now      func() time.Time
}

func NewHandler(gen Generator, status StatusReporter, missing []string, defaults Defaults, logger zerolog.Logger) *Handler {
	if defaults.Provider == "" {
		defaults.Provider = domain.ProviderGemini
	}
	if defaults.Template == "" {
		defaults.Template = domain.TemplateConcise
	}
	if defaults.Constraints.WordLimit == 0 {
		defaults.Constraints = domain.DefaultConstraints()
	}
	return &Handler{
		gen:      gen,
		status:   status,
		missing:  append([]string(nil), missing...),
		defaults: defaults,
		log:      logger,
		now:      time.Now,
	}
}

// Routes mounts the endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Root)
	r.Post("/generate", h.Generate)
	r.Post("/caption", h.Caption)
	r.Get("/categories", h.Categories)
	r.Get("/health", h.Health)
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	httpinfra.WriteJSON(w, http.StatusOK, "Doctor Post Agent API")
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	requestID := httpinfra.RequestID(r)
	var body GenerateRequest
	if err := decodeBody(r, &body); err != nil {
		h.writeError(w, requestID, domain.NewError(domain.KindValidationFailed, err, "invalid request body"))
		return
	}
	req, err := h.generationRequest(requestID, body)
	if err != nil {
		h.writeError(w, requestID, err)
		return
	}

	res, err := h.gen.Generate(r.Context(), req)
	if err != nil {
		h.log.Warn().Err(err).Str("request_id", requestID).Msg("api: generate failed")
		h.writeErrorWithMeta(w, h.metadata(req, res, err), err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, Envelope{
		Success:  true,
		Data:     postResponse(res),
		Metadata: h.metadata(req, res, nil),
	})
}

func (h *Handler) Caption(w http.ResponseWriter, r *http.Request) {
	requestID := httpinfra.RequestID(r)
	var body CaptionRequest
	if err := decodeBody(r, &body); err != nil {
		h.writeError(w, requestID, domain.NewError(domain.KindValidationFailed, err, "invalid request body"))
		return
	}
	article, err := source.CallerArticle(body.Title, body.Description, body.URL)
	if err != nil {
		h.writeError(w, requestID, err)
		return
	}
	provider, err := h.provider(body.Provider)
	if err != nil {
		h.writeError(w, requestID, err)
		return
	}
	req := domain.GenerationRequest{
		ID:           requestID,
		Source:       article,
		Constraints:  h.defaults.Constraints,
		Template:     h.defaults.Template,
		Provider:     provider,
		CustomPrompt: body.CustomPrompt,
		Origin:       domain.OriginAPI,
		RequestedAt:  h.now(),
	}
	res, err := h.gen.Generate(r.Context(), req)
	if err != nil {
		h.log.Warn().Err(err).Str("request_id", requestID).Msg("api: caption failed")
		h.writeErrorWithMeta(w, h.metadata(req, res, err), err)
		return
	}
	httpinfra.WriteJSON(w, http.StatusOK, CaptionResponse{
		Caption:   res.Post.Content(),
		WordCount: res.Post.WordCount(),
		Hashtags:  res.Post.Hashtags(),
	})
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats := h.gen.Categories()
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, string(c))
	}
	httpinfra.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	providers := map[string]string{}
	available := []string{}
	if h.status != nil {
		providers = h.status.Status()
		for _, kind := range h.status.Available() {
			available = append(available, string(kind))
		}
	}
	status := "ok"
	if len(h.missing) > 0 {
		status = "degraded"
	}
	missing := h.missing
	if missing == nil {
		missing = []string{}
	}
	httpinfra.WriteJSON(w, http.StatusOK, HealthResponse{Status: status, Providers: providers, Available: available, Missing: missing})
}

func (h *Handler) generationRequest(requestID string, body GenerateRequest) (domain.GenerationRequest, error) {
	req := domain.GenerationRequest{
		ID:           requestID,
		Constraints:  h.defaults.Constraints,
		Template:     h.defaults.Template,
		CustomPrompt: body.CustomPrompt,
		Origin:       domain.OriginAPI,
		RequestedAt:  h.now(),
	}
	if strings.TrimSpace(body.Category) != "" {
		cat, ok := domain.ParseCategory(body.Category)
		if !ok {
			return req, domain.NewError(domain.KindValidationFailed, nil, "unknown category %q", body.Category)
		}
		req.Category = cat
	}
	provider, err := h.provider(body.Provider)
	if err != nil {
		return req, err
	}
	req.Provider = provider
	if strings.TrimSpace(body.Template) != "" {
		tmpl, ok := domain.ParseTemplateKind(body.Template)
		if !ok {
			return req, domain.NewError(domain.KindValidationFailed, nil, "unknown template %q", body.Template)
		}
		req.Template = tmpl
	}
	if body.WordLimit != nil {
		req.Constraints.WordLimit = *body.WordLimit
	}
	if body.Keyword != nil {
		req.Constraints.Keyword = strings.TrimSpace(*body.Keyword)
	}
	if body.KeywordCount != nil {
		req.Constraints.KeywordCount = *body.KeywordCount
	}
	if body.PerLineCount != nil {
		req.Constraints.PerLineCount = *body.PerLineCount
	}
	if len(body.Hashtags) > 0 {
		req.Constraints.Hashtags = body.Hashtags
	}
	if body.HashtagCount != nil {
		req.Constraints.HashtagCount = *body.HashtagCount
	}
	return req, nil
}

func (h *Handler) provider(name string) (domain.ProviderKind, error) {
	if strings.TrimSpace(name) == "" {
		return h.defaults.Provider, nil
	}
	kind, ok := domain.ParseProviderKind(name)
	if !ok {
		return "", domain.NewError(domain.KindValidationFailed, nil, "unknown provider %q", name)
	}
	return kind, nil
}

func (h *Handler) metadata(req domain.GenerationRequest, res domain.GenerationResult, err error) Metadata {
	md := Metadata{
		RequestID:   req.ID,
		Provider:    string(req.Provider),
		Category:    string(res.Category),
		Template:    string(req.Template),
		State:       string(res.State),
		Fallback:    res.UsedFallback,
		GeneratedAt: h.now().UTC(),
	}
	if res.Post.Model != "" {
		md.Model = res.Post.Model
	}
	if err != nil {
		md.ErrorKind = string(domain.KindOf(err))
	}
	return md
}

func (h *Handler) writeError(w http.ResponseWriter, requestID string, err error) {
	h.writeErrorWithMeta(w, Metadata{
		RequestID:   requestID,
		ErrorKind:   string(domain.KindOf(err)),
		GeneratedAt: h.now().UTC(),
	}, err)
}

func (h *Handler) writeErrorWithMeta(w http.ResponseWriter, md Metadata, err error) {
	httpinfra.WriteJSON(w, StatusFor(err), Envelope{Success: false, Error: err.Error(), Metadata: md})
}

// StatusFor maps an error kind to an HTTP status.
func StatusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidationFailed:
		return http.StatusBadRequest
	case domain.KindConfigurationMissing:
		return http.StatusServiceUnavailable
	case domain.KindSourceUnavailable, domain.KindGenerationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func postResponse(res domain.GenerationResult) *PostResponse {
	item := res.Item
	return &PostResponse{
		Article: ArticleResponse{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.URL,
			Source:      item.Source,
			Category:    string(item.Category),
			Synthetic:   item.Synthetic,
		},
		Content:   res.Post.Content(),
		ImageURL:  res.Post.ImageURL,
		WordCount: res.Post.WordCount(),
		Hashtags:  res.Post.Hashtags(),
	}
}

// decodeBody accepts an empty body as the zero value.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
