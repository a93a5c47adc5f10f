package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"steamreviews/pkg/cache"
	"steamreviews/pkg/collector"
	"steamreviews/pkg/metrics"
	"steamreviews/pkg/ratelimit"
	"steamreviews/pkg/retry"
	"steamreviews/pkg/steam"
	"steamreviews/pkg/ui"
)

var (
	collectAppID           int
	collectOutput          string
	collectLanguage        string
	collectBaseURL         string
	collectDelay           time.Duration
	collectPaceCacheHits   bool
	collectRetryPolicy     string
	collectMaxAttempts     int
	collectMetricsTextfile string
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Download and cache every page of reviews for an app",
	Long: `Download every full page of reviews for a Steam app and cache each page
as cursor_<slug>.json in the output directory.

The total review count is probed first; total/100 pages are then walked. Pages
already in the cache are not fetched again. Failed pages are logged and, with
the default revisit policy, requested again on the next iteration.`,
	Example: `  # Collect the default app into ./reviews
  steamreviews collect

  # Another app, slower pacing
  steamreviews collect --app-id 292030 --delay 3s -o ./witcher3

  # Give up after five consecutive failures, with exponential backoff
  steamreviews collect --retry-policy backoff --max-attempts 5`,
	Args: cobra.NoArgs,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().IntVar(&collectAppID, "app-id", 0, "Steam app id (default 1091500)")
	collectCmd.Flags().StringVarP(&collectOutput, "output", "o", "", "cache directory (default ./reviews)")
	collectCmd.Flags().StringVarP(&collectLanguage, "language", "l", "", "review language (default english)")
	collectCmd.Flags().StringVar(&collectBaseURL, "base-url", "", "Steam store base URL")
	collectCmd.Flags().DurationVar(&collectDelay, "delay", 0, "pause after every page (default 1s)")
	collectCmd.Flags().BoolVar(&collectPaceCacheHits, "pace-cache-hits", true, "pause after cached pages too")
	collectCmd.Flags().StringVar(&collectRetryPolicy, "retry-policy", "", "failed page policy: revisit or backoff")
	collectCmd.Flags().IntVar(&collectMaxAttempts, "max-attempts", 0, "consecutive failures before the backoff policy gives up (0 = never)")
	collectCmd.Flags().StringVar(&collectMetricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file after the run")
}

func collectFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := cmd.Flags().Changed

	if changed("app-id") {
		flags["app-id"] = collectAppID
	}
	if changed("output") {
		flags["output"] = collectOutput
	}
	if changed("language") {
		flags["language"] = collectLanguage
	}
	if changed("base-url") {
		flags["base-url"] = collectBaseURL
	}
	if changed("delay") {
		flags["delay"] = collectDelay
	}
	if changed("pace-cache-hits") {
		flags["pace-cache-hits"] = collectPaceCacheHits
	}
	if changed("retry-policy") {
		flags["retry-policy"] = collectRetryPolicy
	}
	if changed("max-attempts") {
		flags["max-attempts"] = collectMaxAttempts
	}
	if changed("metrics-textfile") {
		flags["metrics-textfile"] = collectMetricsTextfile
	}
	return flags
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(collectFlags(cmd))
	if err != nil {
		return err
	}

	ui.PrintBanner()
	ui.PrintInfo("App", fmt.Sprintf("%d", cfg.Steam.AppID))
	ui.PrintInfo("Cache directory", cfg.Collector.OutputDir)

	rec := metrics.NewPrometheus()

	store, err := cache.NewStore(cfg.Collector.OutputDir)
	if err != nil {
		return err
	}

	policy, err := retry.NewPolicy(cfg.Retry)
	if err != nil {
		return err
	}

	client := steam.NewClient(cfg, log, steam.WithMetrics(rec))
	c := collector.New(client, store, log,
		collector.WithAppID(cfg.Steam.AppID),
		collector.WithPacer(ratelimit.NewFixedDelay(cfg.Collector.Delay)),
		collector.WithPolicy(policy),
		collector.WithPaceCacheHits(cfg.Collector.PaceCacheHits),
		collector.WithMetrics(rec),
	)

	summary, runErr := c.CollectAll(cmd.Context())

	if cfg.Metrics.TextfilePath != "" {
		if err := rec.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			log.WithError(err).Warn("failed to write metrics textfile")
		}
	}

	if summary != nil {
		onDisk, err := store.Count()
		if err != nil {
			log.WithError(err).Warn("failed to count cached pages")
		}
		ui.PrintRunReport(ui.RunReport{
			RunID:        summary.RunID,
			TotalReviews: summary.TotalReviews,
			Pages:        summary.Pages,
			Fetched:      summary.Fetched,
			CacheHits:    summary.CacheHits,
			Failures:     summary.Failures,
			PagesOnDisk:  onDisk,
			Cursor:       string(summary.Cursor),
			Duration:     summary.Duration,
		})
	}

	if runErr != nil {
		if cmd.Context().Err() != nil {
			ui.PrintWarning("Interrupted; cached pages are kept and the next run resumes from them")
		}
		return runErr
	}

	ui.PrintSuccess("[COLLECTION COMPLETE]")
	return nil
}
