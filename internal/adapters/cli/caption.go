package cli

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"doctor-post-bot/internal/adapters/source"
	"doctor-post-bot/internal/domain"
)

func newCaptionCommand(rt *Runtime) *cobra.Command {
	var (
		title, description, url, prompt, provider string
		asJSON                                    bool
	)
	cmd := &cobra.Command{
		Use:   "caption",
		Short: "Write a caption for a given article",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := source.CallerArticle(title, description, url)
			if err != nil {
				return report(cmd.OutOrStdout(), err)
			}
			kind := rt.Defaults.Provider
			if provider != "" {
				k, ok := domain.ParseProviderKind(provider)
				if !ok {
					return report(cmd.OutOrStdout(), domain.NewError(domain.KindValidationFailed, nil, "unknown provider %q", provider))
				}
				kind = k
			}
			req := domain.GenerationRequest{
				ID:           uuid.NewString(),
				Source:       article,
				Constraints:  rt.Defaults.Constraints,
				Template:     rt.Defaults.Template,
				Provider:     kind,
				CustomPrompt: prompt,
				Origin:       domain.OriginCLI,
				RequestedAt:  time.Now(),
			}
			res, err := rt.Generator.Generate(cmd.Context(), req)
			if err != nil {
				return report(cmd.OutOrStdout(), err)
			}
			return printResult(cmd.OutOrStdout(), res, asJSON)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&title, "title", "", "article title")
	fl.StringVar(&description, "description", "", "article text or summary")
	fl.StringVar(&url, "url", "", "article link")
	fl.StringVar(&prompt, "prompt", "", "extra instructions appended to the prompt")
	fl.StringVarP(&provider, "provider", "p", "", "generation provider")
	fl.BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
