package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fresh2mealie/internal/config"
	"fresh2mealie/internal/llm"
	"fresh2mealie/internal/logger"
	"fresh2mealie/internal/match"
	"fresh2mealie/internal/mealie"
	"fresh2mealie/internal/menu"
	"fresh2mealie/internal/notify"
	"fresh2mealie/internal/pipeline"
	"fresh2mealie/internal/plan"
)

type rootOptions struct {
	configPath  string
	magicLink   string
	weekOffsets []int
	debug       bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "fresh2mealie",
		Short: "Sync the weekly HelloFresh menu into a Mealie meal plan",
		Long: `fresh2mealie scrapes the current HelloFresh weekly menu with a headless
browser, matches the recipe titles against the Mealie recipe catalog, and
replaces that week's Mealie meal plan with the matched recipes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to the configuration file (default ./config.yaml)")
	cmd.Flags().StringVarP(&opts.magicLink, "magic-link", "m", "", "pre-issued HelloFresh access link")
	cmd.Flags().IntSliceVarP(&opts.weekOffsets, "week", "w", []int{0}, "week offsets to plan (0 = upcoming week, repeatable)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "verbose diagnostics")

	return cmd
}

func run(ctx context.Context, opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.magicLink != "" {
		cfg.HelloFresh.MagicLink = opts.magicLink
	}
	if opts.debug {
		cfg.DebugMode = true
	}

	level := cfg.Logging.Level
	if cfg.DebugMode {
		level = "debug"
	}
	log := logger.New(level, cfg.Logging.Format)
	defer log.Sync()

	mealie.CheckToken(cfg.Mealie.Token, log)

	client := mealie.NewClient(cfg, log)
	extractor := menu.NewExtractor(cfg, log)
	matcher := match.New(cfg.Planning.MatchingThreshold)
	reconciler := plan.NewReconciler(client, cfg, log)
	notifier := notify.NewTelegram(cfg, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	var resolver pipeline.MatchResolver
	if cfg.Gemini.APIKey != "" {
		llmClient, err := llm.NewGeminiClient(ctx, cfg.Gemini.APIKey)
		if err != nil {
			log.Warn("gemini client unavailable, llm match resolution disabled", zap.Error(err))
		} else {
			defer llmClient.Close()
			resolver = llm.NewResolver(llmClient, log)
		}
	}

	p := pipeline.New(extractor, client, matcher, reconciler, resolver, log)

	var firstErr error
	for _, offset := range opts.weekOffsets {
		summary, err := p.Run(ctx, offset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "week %+d: %v\n", offset, err)
			notifier.Send(fmt.Sprintf("fresh2mealie: week %+d failed: %v", offset, err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fmt.Println(summary.String())
		notifier.Send(summary.String())
	}
	return firstErr
}
