package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the review collector
type Config struct {
	// Steam API target
	Steam SteamConfig `yaml:"steam" json:"steam"`

	// Pagination loop settings
	Collector CollectorConfig `yaml:"collector" json:"collector"`

	// HTTP client settings
	HTTP HTTPConfig `yaml:"http" json:"http"`

	// Per-page failure policy
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Flattened dataset output
	Export ExportConfig `yaml:"export" json:"export"`

	// Metrics output
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SteamConfig identifies what is being collected
type SteamConfig struct {
	AppID    int    `yaml:"app_id" json:"app_id"`
	Language string `yaml:"language" json:"language"`
	BaseURL  string `yaml:"base_url" json:"base_url"`
}

// CollectorConfig holds pagination loop settings
type CollectorConfig struct {
	OutputDir     string        `yaml:"output_dir" json:"output_dir"`
	Delay         time.Duration `yaml:"delay" json:"delay"`
	PaceCacheHits bool          `yaml:"pace_cache_hits" json:"pace_cache_hits"`
}

// HTTPConfig holds HTTP client settings
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent         string        `yaml:"user_agent" json:"user_agent"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// RetryConfig selects what happens to the cursor after a failed page
type RetryConfig struct {
	// Policy is "revisit" (retry the same cursor on the next iteration) or "backoff"
	Policy      string        `yaml:"policy" json:"policy"`
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay" json:"max_delay"`
	Multiplier  float64       `yaml:"multiplier" json:"multiplier"`
}

// ExportConfig holds flattened dataset output settings
type ExportConfig struct {
	// Format is "csv" or "sqlite"
	Format string `yaml:"format" json:"format"`
	Path   string `yaml:"path" json:"path"`
}

// MetricsConfig holds metrics output settings
type MetricsConfig struct {
	// TextfilePath receives a Prometheus text exposition after each run. Empty disables it.
	TextfilePath string `yaml:"textfile_path" json:"textfile_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	// Format is "console", "json" or "auto" (console when stdout is a terminal)
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Steam: SteamConfig{
			AppID:    1091500,
			Language: "english",
			BaseURL:  "https://store.steampowered.com",
		},
		Collector: CollectorConfig{
			OutputDir:     "./reviews",
			Delay:         time.Second,
			PaceCacheHits: true,
		},
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "steamreviews/1.0",
			RequestsPerMinute: 0, // 0 means only the fixed delay applies
		},
		Retry: RetryConfig{
			Policy:      "revisit",
			MaxAttempts: 0,
			BaseDelay:   time.Second,
			MaxDelay:    time.Minute,
			Multiplier:  2.0,
		},
		Export: ExportConfig{
			Format: "csv",
			Path:   "sentences.csv",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if appID := os.Getenv("STEAMREVIEWS_APP_ID"); appID != "" {
		val, err := strconv.Atoi(appID)
		if err != nil {
			errs = append(errs, fmt.Errorf("STEAMREVIEWS_APP_ID: %w", err))
		} else {
			c.Steam.AppID = val
		}
	}
	if language := os.Getenv("STEAMREVIEWS_LANGUAGE"); language != "" {
		c.Steam.Language = language
	}
	if baseURL := os.Getenv("STEAMREVIEWS_BASE_URL"); baseURL != "" {
		c.Steam.BaseURL = baseURL
	}

	if outputDir := os.Getenv("STEAMREVIEWS_OUTPUT_DIR"); outputDir != "" {
		c.Collector.OutputDir = outputDir
	}
	if delay := os.Getenv("STEAMREVIEWS_DELAY"); delay != "" {
		val, err := time.ParseDuration(delay)
		if err != nil {
			errs = append(errs, fmt.Errorf("STEAMREVIEWS_DELAY: %w", err))
		} else {
			c.Collector.Delay = val
		}
	}

	if rpm := os.Getenv("STEAMREVIEWS_REQUESTS_PER_MINUTE"); rpm != "" {
		val, err := strconv.Atoi(rpm)
		if err != nil {
			errs = append(errs, fmt.Errorf("STEAMREVIEWS_REQUESTS_PER_MINUTE: %w", err))
		} else {
			c.HTTP.RequestsPerMinute = val
		}
	}

	if policy := os.Getenv("STEAMREVIEWS_RETRY_POLICY"); policy != "" {
		c.Retry.Policy = policy
	}

	if textfile := os.Getenv("STEAMREVIEWS_METRICS_TEXTFILE"); textfile != "" {
		c.Metrics.TextfilePath = textfile
	}

	if logLevel := os.Getenv("STEAMREVIEWS_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat := os.Getenv("STEAMREVIEWS_LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".steamreviews.yaml",
		".steamreviews.yml",
		filepath.Join(home, ".config", "steamreviews", "config.yaml"),
		filepath.Join(home, ".config", "steamreviews", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Steam.AppID <= 0 {
		errs = append(errs, errors.New("app id must be positive"))
	}
	if c.Steam.Language == "" {
		errs = append(errs, errors.New("language is required"))
	}
	if c.Steam.BaseURL == "" {
		errs = append(errs, errors.New("base url is required"))
	}

	if c.Collector.OutputDir == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Collector.Delay < 0 {
		errs = append(errs, errors.New("delay cannot be negative"))
	}

	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("http timeout must be positive"))
	}
	if c.HTTP.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}

	switch strings.ToLower(c.Retry.Policy) {
	case "revisit":
	case "backoff":
		if c.Retry.MaxAttempts < 0 {
			errs = append(errs, errors.New("max attempts cannot be negative"))
		}
		if c.Retry.BaseDelay <= 0 {
			errs = append(errs, errors.New("backoff base delay must be positive"))
		}
		if c.Retry.Multiplier < 1 {
			errs = append(errs, errors.New("backoff multiplier must be at least 1"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid retry policy %q", c.Retry.Policy))
	}

	validFormats := map[string]bool{"csv": true, "sqlite": true}
	if !validFormats[strings.ToLower(c.Export.Format)] {
		errs = append(errs, fmt.Errorf("invalid export format %q", c.Export.Format))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}
	validLogFormats := map[string]bool{"auto": true, "console": true, "json": true, "": true}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, errors.New("invalid log format"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Only flags the user actually set should be present in the map.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if appID, ok := flags["app-id"].(int); ok && appID > 0 {
		c.Steam.AppID = appID
	}
	if language, ok := flags["language"].(string); ok && language != "" {
		c.Steam.Language = language
	}
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.Steam.BaseURL = baseURL
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Collector.OutputDir = outputDir
	}
	if delay, ok := flags["delay"].(time.Duration); ok && delay >= 0 {
		c.Collector.Delay = delay
	}
	if pace, ok := flags["pace-cache-hits"].(bool); ok {
		c.Collector.PaceCacheHits = pace
	}
	if policy, ok := flags["retry-policy"].(string); ok && policy != "" {
		c.Retry.Policy = policy
	}
	if attempts, ok := flags["max-attempts"].(int); ok && attempts >= 0 {
		c.Retry.MaxAttempts = attempts
	}
	if format, ok := flags["format"].(string); ok && format != "" {
		c.Export.Format = format
	}
	if path, ok := flags["export-path"].(string); ok && path != "" {
		c.Export.Path = path
	}
	if textfile, ok := flags["metrics-textfile"].(string); ok && textfile != "" {
		c.Metrics.TextfilePath = textfile
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat, ok := flags["log-format"].(string); ok && logFormat != "" {
		c.Logging.Format = logFormat
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".steamreviews.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
