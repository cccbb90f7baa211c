// Package cli implements the postgen command line.
package cli

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"doctor-post-bot/internal/app"
	"doctor-post-bot/internal/domain"
)

// Generator runs one generation request.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)
	Categories() []domain.Category
}

// HashtagSource returns trending hashtags and whether they are the canned defaults.
type HashtagSource interface {
	Trending(ctx context.Context) ([]string, bool)
}

// Runtime is what the commands need, built once the flags are parsed.
type Runtime struct {
	Generator Generator
	Hashtags  HashtagSource
	Defaults  app.Defaults
	Logger    zerolog.Logger
}

// Factory builds the Runtime; verbose enables debug logging.
type Factory func(verbose bool) (*Runtime, error)

// errReported marks a failure whose message was already printed.
var errReported = errors.New("reported")

// IsReported reports whether err was already printed to the user.
func IsReported(err error) bool { return errors.Is(err, errReported) }

func NewRootCommand(factory Factory) *cobra.Command {
	var verbose bool
	rt := &Runtime{}

	rootCmd := &cobra.Command{
		Use:           "postgen",
		Short:         "Generate social media posts for a doctor's audience",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			built, err := factory(verbose)
			if err != nil {
				return err
			}
			*rt = *built
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(
		newGenerateCommand(rt),
		newCaptionCommand(rt),
		newTrendingCommand(rt),
		newCategoriesCommand(rt),
	)
	return rootCmd
}
