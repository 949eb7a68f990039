package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mkarolys/pagepath/internal/config"
	"github.com/mkarolys/pagepath/internal/observability"
	"github.com/mkarolys/pagepath/pkg/locator"
)

// newInferCmd creates and configures the `infer` command.
func newInferCmd() *cobra.Command {
	var (
		preferred string
		url       string
	)

	inferCmd := &cobra.Command{
		Use:   "infer EXPR [files...]",
		Short: "Infers the kind of a raw path expression",
		Long: `Classifies an expression of unknown kind by syntax and by trial
evaluation against each input document, printing "selector", "xpath" or
"chained" per document.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			var cfg config.Config
			if err := viper.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("failed to unmarshal config: %w", err)
			}

			pref, err := locator.ParseKind(preferred)
			if err != nil {
				return err
			}

			expr := args[0]
			sources, err := collectSources(ctx, cfg.Fetch, args[1:], url)
			if err != nil {
				return err
			}

			for _, src := range sources {
				engine, err := locator.NewFromHTML(src.HTML, &cfg, logger)
				if err != nil {
					return fmt.Errorf("parse %s: %w", src.Name, err)
				}
				kind, inferErr := engine.InferKind(expr, pref)
				if inferErr != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (did not evaluate: %v)\n", src.Name, kind, inferErr)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", src.Name, kind)
			}
			return nil
		},
	}

	inferCmd.Flags().StringVar(&preferred, "preferred", "selector", "Kind to favor when syntax is ambiguous ('selector', 'xpath').")
	inferCmd.Flags().StringVar(&url, "url", "", "Fetch and process a live page instead of (or alongside) files.")

	return inferCmd
}
