package cmd

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mkarolys/pagepath/internal/config"
	"github.com/mkarolys/pagepath/internal/observability"
	"github.com/mkarolys/pagepath/pkg/locator"
)

// detectResult is the per-document output of the detect command.
type detectResult struct {
	Source string       `json:"source"`
	Found  bool         `json:"found"`
	Path   locator.Path `json:"path,omitempty"`
}

// newDetectCmd creates and configures the `detect` command.
func newDetectCmd() *cobra.Command {
	var (
		asJSON bool
		url    string
	)

	detectCmd := &cobra.Command{
		Use:   "detect [files...]",
		Short: "Detects the repeating-item container of a page",
		Long: `Scores every element of each input document by how similar its direct
children look and prints a path addressing the children of the most
list-like container. Finding nothing is a normal outcome, not an error.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := viper.BindPFlag("detector.similarity_threshold", cmd.Flags().Lookup("threshold")); err != nil {
				return err
			}
			if err := viper.BindPFlag("detector.min_container_size", cmd.Flags().Lookup("min-size")); err != nil {
				return err
			}
			return viper.BindPFlag("engine.kind", cmd.Flags().Lookup("kind"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			var cfg config.Config
			if err := viper.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("failed to unmarshal config: %w", err)
			}
			req := locator.RequestFromConfig(cfg.Engine)

			sources, err := collectSources(ctx, cfg.Fetch, args, url)
			if err != nil {
				return err
			}

			results := make([]detectResult, 0, len(sources))
			for _, src := range sources {
				engine, err := locator.NewFromHTML(src.HTML, &cfg, logger)
				if err != nil {
					return fmt.Errorf("parse %s: %w", src.Name, err)
				}
				det := engine.DetectPageElementCandidate(req)
				results = append(results, detectResult{
					Source: src.Name,
					Found:  det.Found(),
					Path:   det.Path,
				})
			}

			if asJSON {
				enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			for _, r := range results {
				if !r.Found {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: no container detected\n", r.Source)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s [%s, %s]\n", r.Source, r.Path.Expression, r.Path.Kind, r.Path.Meta)
			}
			return nil
		},
	}

	detectCmd.Flags().Int("threshold", 9, "Minimum child-similarity count for class-based ranking. (Overrides config/env)")
	detectCmd.Flags().Float64("min-size", 500, "Minimum container bounding-box dimension in pixels. (Overrides config/env)")
	detectCmd.Flags().String("kind", "selector", "Path kind for the container path ('selector', 'xpath'). (Overrides config/env)")
	detectCmd.Flags().BoolVar(&asJSON, "json", false, "Emit results as JSON.")
	detectCmd.Flags().StringVar(&url, "url", "", "Fetch and process a live page instead of (or alongside) files.")

	return detectCmd
}
