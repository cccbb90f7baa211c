package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"doctor-post-bot/internal/domain"
	"doctor-post-bot/internal/usecase/generation"
)

type generateFlags struct {
	category     string
	provider     string
	template     string
	prompt       string
	wordLimit    int
	keyword      string
	keywordCount int
	perLineCount int
	hashtags     []string
	hashtagCount int
	trending     bool
	asJSON       bool
}

func newGenerateCommand(rt *Runtime) *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a post from current news",
		Long:  "Fetches news for a category (random when omitted), builds a prompt and prints the generated post.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request(cmd, rt)
			if err != nil {
				return report(cmd.OutOrStdout(), err)
			}
			if f.trending && rt.Hashtags != nil {
				tags, fallback := rt.Hashtags.Trending(cmd.Context())
				rt.Logger.Debug().Strs("hashtags", tags).Bool("fallback", fallback).Msg("trending hashtags")
				req.Constraints.Hashtags = append(req.Constraints.Hashtags, tags...)
			}
			res, err := rt.Generator.Generate(cmd.Context(), req)
			if err != nil {
				return report(cmd.OutOrStdout(), err)
			}
			return printResult(cmd.OutOrStdout(), res, f.asJSON)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.category, "category", "c", "", "news category (health, medical, environment, science, india)")
	fl.StringVarP(&f.provider, "provider", "p", "", "generation provider (openai, anthropic, gemini, image, offline)")
	fl.StringVarP(&f.template, "template", "t", "", "prompt template (concise, elaborate)")
	fl.StringVar(&f.prompt, "prompt", "", "extra instructions appended to the prompt")
	fl.IntVar(&f.wordLimit, "word-limit", 0, "maximum words in the post")
	fl.StringVar(&f.keyword, "keyword", "", "keyword the post must repeat")
	fl.IntVar(&f.keywordCount, "keyword-count", 0, "minimum keyword occurrences")
	fl.IntVar(&f.perLineCount, "per-line-count", 0, "minimum keyword occurrences per line (elaborate)")
	fl.StringSliceVar(&f.hashtags, "hashtags", nil, "hashtags to include (elaborate)")
	fl.IntVar(&f.hashtagCount, "hashtag-count", 0, "minimum hashtags in the post (elaborate)")
	fl.BoolVar(&f.trending, "trending", false, "add scraped trending hashtags (elaborate)")
	fl.BoolVar(&f.asJSON, "json", false, "print the result as JSON")
	return cmd
}

func (f *generateFlags) request(cmd *cobra.Command, rt *Runtime) (domain.GenerationRequest, error) {
	req := domain.GenerationRequest{
		ID:           uuid.NewString(),
		Constraints:  rt.Defaults.Constraints,
		Template:     rt.Defaults.Template,
		Provider:     rt.Defaults.Provider,
		CustomPrompt: f.prompt,
		Origin:       domain.OriginCLI,
		RequestedAt:  time.Now(),
	}
	if f.category != "" {
		cat, ok := domain.ParseCategory(f.category)
		if !ok {
			return req, domain.NewError(domain.KindValidationFailed, nil, "unknown category %q", f.category)
		}
		req.Category = cat
	}
	if f.provider != "" {
		kind, ok := domain.ParseProviderKind(f.provider)
		if !ok {
			return req, domain.NewError(domain.KindValidationFailed, nil, "unknown provider %q", f.provider)
		}
		req.Provider = kind
	}
	if f.template != "" {
		tmpl, ok := domain.ParseTemplateKind(f.template)
		if !ok {
			return req, domain.NewError(domain.KindValidationFailed, nil, "unknown template %q", f.template)
		}
		req.Template = tmpl
	}
	fl := cmd.Flags()
	if fl.Changed("word-limit") {
		req.Constraints.WordLimit = f.wordLimit
	}
	if fl.Changed("keyword") {
		req.Constraints.Keyword = strings.TrimSpace(f.keyword)
	}
	if fl.Changed("keyword-count") {
		req.Constraints.KeywordCount = f.keywordCount
	}
	if fl.Changed("per-line-count") {
		req.Constraints.PerLineCount = f.perLineCount
	}
	if len(f.hashtags) > 0 {
		req.Constraints.Hashtags = append([]string(nil), f.hashtags...)
	}
	if fl.Changed("hashtag-count") {
		req.Constraints.HashtagCount = f.hashtagCount
	}
	return req, nil
}

type resultJSON struct {
	RequestID string             `json:"request_id"`
	Category  domain.Category    `json:"category,omitempty"`
	Article   domain.ContentItem `json:"article"`
	Content   string             `json:"content"`
	ImageURL  string             `json:"image_url,omitempty"`
	WordCount int                `json:"word_count"`
	Hashtags  []string           `json:"hashtags"`
	Provider  string             `json:"provider"`
	Fallback  bool               `json:"fallback"`
}

func printResult(w io.Writer, res domain.GenerationResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resultJSON{
			RequestID: res.RequestID,
			Category:  res.Category,
			Article:   res.Item,
			Content:   res.Post.Content(),
			ImageURL:  res.Post.ImageURL,
			WordCount: res.Post.WordCount(),
			Hashtags:  res.Post.Hashtags(),
			Provider:  string(res.Post.Provider),
			Fallback:  res.UsedFallback,
		})
	}
	_, err := fmt.Fprintln(w, strings.TrimSpace(res.Post.Content()))
	return err
}

// report prints the bracketed failure line and returns errReported.
func report(w io.Writer, err error) error {
	_, _ = fmt.Fprintln(w, generation.ErrorMessage(err))
	return fmt.Errorf("%w: %v", errReported, err)
}
