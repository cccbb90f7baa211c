package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTrendingCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "trending",
		Short: "Print trending health hashtags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, fallback := rt.Hashtags.Trending(cmd.Context())
			if fallback {
				rt.Logger.Warn().Msg("trending hashtags unavailable, printing defaults")
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(tags, " "))
			return err
		},
	}
}

func newCategoriesCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List news categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range rt.Generator.Categories() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), c); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
