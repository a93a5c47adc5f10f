package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"steamreviews/pkg/config"
	"steamreviews/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage steamreviews configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (STEAMREVIEWS_*)
  - .env file
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.steamreviews.yaml'
unless a different path is specified with the --config flag.`,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Show the effective configuration after merging every source.`,
	RunE:  runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Cache and log directory accessibility`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# steamreviews configuration file
#
# Every option can also be set with an environment variable prefixed with
# STEAMREVIEWS_, for example STEAMREVIEWS_APP_ID or STEAMREVIEWS_DELAY.

steam:
  # App to collect (Cyberpunk 2077 by default)
  app_id: 1091500
  language: "english"
  base_url: "https://store.steampowered.com"

collector:
  # One file per page is written here
  output_dir: "./reviews"

  # Pause after every page
  delay: 1s

  # Also pause after pages served from the cache
  pace_cache_hits: true

http:
  timeout: 30s
  user_agent: "steamreviews/1.0"

  # Optional hard cap; 0 relies on the delay alone
  requests_per_minute: 0

retry:
  # revisit: request a failed cursor again on the next iteration
  # backoff: same, with an exponential extra delay and an optional cap
  policy: "revisit"
  max_attempts: 0
  base_delay: 1s
  max_delay: 1m
  multiplier: 2.0

export:
  # csv or sqlite
  format: "csv"
  path: "sentences.csv"

metrics:
  # Prometheus text exposition written after each run; empty disables it
  textfile_path: ""

logging:
  # debug, info, warn, error
  level: "info"

  # auto, console, json
  format: "auto"

  # Optional log file, written in addition to stdout
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".steamreviews.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		ui.Println("\nTo overwrite, first remove the existing file:")
		ui.Printf("  rm %s\n", configPath)
		return fmt.Errorf("%s already exists", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	ui.Println("\nNext steps:")
	ui.Println("1. Edit the configuration file")
	ui.Println("2. Run 'steamreviews config validate' to check it")
	ui.Println("3. Start collecting with 'steamreviews collect'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	ui.Println()
	ui.Printf("%s", data)

	ui.Println("\nConfiguration sources (in order of priority):")
	ui.Println("1. Command line flags")
	ui.Println("2. Environment variables (STEAMREVIEWS_*)")
	ui.Println("3. .env file")
	if configFile != "" {
		ui.Printf("4. Configuration file: %s\n", configFile)
	} else {
		ui.Println("4. Configuration file: (searched in default locations)")
	}
	ui.Println("5. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		possiblePaths := []string{
			".steamreviews.yaml",
			".steamreviews.yml",
			filepath.Join(os.Getenv("HOME"), ".config", "steamreviews", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			return fmt.Errorf("no configuration file found; specify one with --config")
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		return err
	}

	var problems []string
	if err := os.MkdirAll(cfg.Collector.OutputDir, 0755); err != nil {
		problems = append(problems, fmt.Sprintf("Cannot create cache directory: %v", err))
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}
	if len(problems) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, p := range problems {
			ui.Printf("  - %s\n", p)
		}
		return fmt.Errorf("configuration has %d errors", len(problems))
	}

	if cfg.Collector.Delay == 0 {
		ui.PrintWarning("Configuration warnings:")
		ui.Println("  - delay is 0; the collector will not pause between pages")
	}

	ui.PrintSuccess("Configuration is valid")

	ui.Println("\nConfiguration summary:")
	ui.Printf("  App id: %d (%s)\n", cfg.Steam.AppID, cfg.Steam.Language)
	ui.Printf("  Cache directory: %s\n", cfg.Collector.OutputDir)
	ui.Printf("  Delay: %s\n", cfg.Collector.Delay)
	ui.Printf("  Retry policy: %s\n", cfg.Retry.Policy)
	ui.Printf("  Export: %s (%s)\n", cfg.Export.Path, cfg.Export.Format)
	ui.Printf("  Log level: %s\n", cfg.Logging.Level)
	return nil
}
