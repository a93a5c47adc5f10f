package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"steamreviews/pkg/corpus"
	"steamreviews/pkg/dataset"
	"steamreviews/pkg/metrics"
	"steamreviews/pkg/ui"
)

var (
	flattenFormat string
	flattenOut    string
)

// flattenCmd represents the flatten command
var flattenCmd = &cobra.Command{
	Use:   "flatten [cache-dir]",
	Short: "Turn cached pages into a sentence-level dataset",
	Long: `Read every file in the cache directory, split each review that was not
received for free into sentences, and write one row per sentence with the
review's metadata.

Every file in the directory must be a cached review page. Row order follows
the directory listing and should not be relied upon.`,
	Example: `  # Flatten ./reviews into sentences.csv
  steamreviews flatten

  # Write a SQLite database instead
  steamreviews flatten ./reviews --format sqlite --out sentences.db`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFlatten,
}

func init() {
	rootCmd.AddCommand(flattenCmd)

	flattenCmd.Flags().StringVarP(&flattenFormat, "format", "f", "", "output format: csv or sqlite (default csv)")
	flattenCmd.Flags().StringVar(&flattenOut, "out", "", "output path (default sentences.csv)")
}

func runFlatten(cmd *cobra.Command, args []string) error {
	flags := make(map[string]interface{})
	if cmd.Flags().Changed("format") {
		flags["format"] = flattenFormat
	}
	if cmd.Flags().Changed("out") {
		flags["export-path"] = flattenOut
	}
	if len(args) == 1 {
		flags["output"] = args[0]
	}

	cfg, log, err := setup(flags)
	if err != nil {
		return err
	}

	ui.PrintBanner()
	ui.PrintInfo("Cache directory", cfg.Collector.OutputDir)
	ui.PrintInfo("Output", fmt.Sprintf("%s (%s)", cfg.Export.Path, cfg.Export.Format))

	splitter, err := corpus.NewPunktSplitter()
	if err != nil {
		return err
	}

	rec := metrics.NewPrometheus()
	flattener := corpus.NewFlattener(splitter, log, rec)

	w, err := dataset.Open(cfg.Export.Format, cfg.Export.Path)
	if err != nil {
		return err
	}

	rows, err := dataset.Export(flattener, cfg.Collector.OutputDir, w)
	if err != nil {
		return fmt.Errorf("flatten failed after %d rows: %w", rows, err)
	}

	if cfg.Metrics.TextfilePath != "" {
		if err := rec.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			log.WithError(err).Warn("failed to write metrics textfile")
		}
	}

	ui.PrintSuccess(fmt.Sprintf("[FLATTEN COMPLETE] %d sentences written to %s", rows, cfg.Export.Path))
	return nil
}
