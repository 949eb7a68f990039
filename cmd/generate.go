package cmd

import (
	"fmt"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mkarolys/pagepath/internal/config"
	"github.com/mkarolys/pagepath/internal/observability"
	"github.com/mkarolys/pagepath/pkg/locator"
)

// generateResult is the per-document output of the generate command.
type generateResult struct {
	Source string       `json:"source"`
	Target string       `json:"target"`
	Path   locator.Path `json:"path"`
}

// newGenerateCmd creates and configures the `generate` command.
func newGenerateCmd() *cobra.Command {
	var (
		target    string
		hint      string
		crossCtx  bool
		asJSON    bool
		url       string
	)

	generateCmd := &cobra.Command{
		Use:   "generate [files...]",
		Short: "Generates a validated path expression for a target element",
		Long: `Generates a path expression for the element a --target expression points
at, in each input document. Candidates are validated by re-evaluating them
against the parsed tree; a path tagged "error" did not round-trip and may
not be reliable.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Flags override config-file and env values through viper.
			if err := viper.BindPFlag("engine.kind", cmd.Flags().Lookup("kind")); err != nil {
				return err
			}
			if err := viper.BindPFlag("engine.algorithm", cmd.Flags().Lookup("algorithm")); err != nil {
				return err
			}
			if err := viper.BindPFlag("engine.quote_style", cmd.Flags().Lookup("quote")); err != nil {
				return err
			}
			return viper.BindPFlag("engine.optimized", cmd.Flags().Lookup("optimized"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			var cfg config.Config
			if err := viper.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("failed to unmarshal config: %w", err)
			}

			req := locator.RequestFromConfig(cfg.Engine)
			h, err := locator.ParseTargetHint(hint)
			if err != nil {
				return err
			}
			req.Hint = h

			sources, err := collectSources(ctx, cfg.Fetch, args, url)
			if err != nil {
				return err
			}

			results := make([]generateResult, len(sources))
			var mu sync.Mutex

			g, _ := errgroup.WithContext(ctx)
			g.SetLimit(4)
			for i, src := range sources {
				g.Go(func() error {
					engine, err := locator.NewFromHTML(src.HTML, &cfg, logger)
					if err != nil {
						return fmt.Errorf("parse %s: %w", src.Name, err)
					}
					node, _, err := engine.Resolve(target, req.Kind)
					if err != nil {
						return fmt.Errorf("resolve target in %s: %w", src.Name, err)
					}
					if node == nil {
						return fmt.Errorf("target %q matched nothing in %s", target, src.Name)
					}

					var p locator.Path
					if crossCtx {
						p = engine.GenerateContextPath(node, req)
					} else {
						p = engine.GeneratePath(node, req)
					}

					mu.Lock()
					results[i] = generateResult{Source: src.Name, Target: target, Path: p}
					mu.Unlock()
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for _, r := range results {
				if r.Path.Meta == locator.MetaError {
					logger.Warn("path did not round-trip and may not be reliable",
						zap.String("source", r.Source),
						zap.String("expression", r.Path.Expression))
				}
			}
			return printResults(cmd, results, asJSON)
		},
	}

	generateCmd.Flags().StringVarP(&target, "target", "t", "", "Expression locating the target element (kind is inferred).")
	generateCmd.Flags().String("kind", "selector", "Path kind to generate ('selector', 'xpath'). (Overrides config/env)")
	generateCmd.Flags().StringP("algorithm", "a", "heuristic", "Generation algorithm ('heuristic', 'reference'). (Overrides config/env)")
	generateCmd.Flags().String("quote", "double", "Quote style for embedded values ('single', 'double'). (Overrides config/env)")
	generateCmd.Flags().Bool("optimized", true, "Anchor reference paths at unique identifiers. (Overrides config/env)")
	generateCmd.Flags().StringVar(&hint, "hint", "none", "Target hint ('none', 'link'); 'link' enables text qualifiers.")
	generateCmd.Flags().BoolVar(&crossCtx, "context", false, "Compose a chained path from the top document across shadow/frame boundaries.")
	generateCmd.Flags().BoolVar(&asJSON, "json", false, "Emit results as JSON.")
	generateCmd.Flags().StringVar(&url, "url", "", "Fetch and process a live page instead of (or alongside) files.")
	_ = generateCmd.MarkFlagRequired("target")

	return generateCmd
}

// printResults writes command output: one JSON document when requested,
// plain lines otherwise.
func printResults(cmd *cobra.Command, results []generateResult, asJSON bool) error {
	if asJSON {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s [%s, %s]\n", r.Source, r.Path.Expression, r.Path.Kind, r.Path.Meta)
	}
	return nil
}
