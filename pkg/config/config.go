package config

import (
	"github.com/okriens/mirrormate/pkg/models"
	"github.com/okriens/mirrormate/pkg/sample"
	"github.com/okriens/mirrormate/pkg/validate"
)

// Config represents the application configuration
type Config struct {
	// Pairs is the static pair list; when non-empty it bypasses
	// interactive collection entirely
	Pairs   []models.MigrationPair `yaml:"pairs"`
	Exclude []string               `yaml:"exclude"`
	Tool    ToolConfig             `yaml:"tool"`
	Safety  SafetyConfig           `yaml:"safety"`
	Logs    LogsConfig             `yaml:"logs"`
	History HistoryConfig          `yaml:"history"`
	Output  OutputConfig           `yaml:"output"`
	Logging LoggingConfig          `yaml:"logging"`
}

// ToolConfig holds external mirroring tool settings
type ToolConfig struct {
	// Command may point at any robocopy-compatible executable
	Command          string `yaml:"command"`
	Threads          int    `yaml:"threads"`
	Retries          int    `yaml:"retries"`
	RetryWaitSeconds int    `yaml:"retry_wait_seconds"`
}

// SafetyConfig holds pre-flight gate settings
type SafetyConfig struct {
	SampleCap           int `yaml:"sample_cap"`
	DepthWarnThreshold  int `yaml:"depth_warn_threshold"`
	WrongDirectionRatio int `yaml:"wrong_direction_ratio"`
}

// LogsConfig holds the per-pair mirroring log settings
type LogsConfig struct {
	// Root is the directory per-pair tool logs land in;
	// empty means DefaultLogRoot()
	Root string `yaml:"root"`
}

// HistoryConfig holds run-history store settings
type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`
	// Path is the sqlite database file; empty means DefaultHistoryPath()
	Path string `yaml:"path"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show the pair progress bar
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds the tool's own operational log settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // Log file path (empty = disabled)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Exclude: []string{
			".git",
			".svn",
			"node_modules",
			"$RECYCLE.BIN",
			"System Volume Information",
		},
		Tool: ToolConfig{
			Command:          "robocopy",
			Threads:          8,
			Retries:          2,
			RetryWaitSeconds: 5,
		},
		Safety: SafetyConfig{
			SampleCap:           sample.DefaultCap,
			DepthWarnThreshold:  validate.DefaultDepthWarnThreshold,
			WrongDirectionRatio: 10,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Format:  "json",
			Level:   "info",
			File:    "",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Tool.Threads < 1 {
		return &ConfigError{Field: "tool.threads", Message: "must be at least 1"}
	}
	if c.Tool.Retries < 0 {
		return &ConfigError{Field: "tool.retries", Message: "must not be negative"}
	}
	if c.Tool.RetryWaitSeconds < 0 {
		return &ConfigError{Field: "tool.retry_wait_seconds", Message: "must not be negative"}
	}
	if c.Safety.SampleCap < 1 {
		return &ConfigError{Field: "safety.sample_cap", Message: "must be at least 1"}
	}
	if c.Safety.DepthWarnThreshold < 1 {
		return &ConfigError{Field: "safety.depth_warn_threshold", Message: "must be at least 1"}
	}
	if c.Safety.WrongDirectionRatio < 2 {
		return &ConfigError{Field: "safety.wrong_direction_ratio", Message: "must be at least 2"}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &ConfigError{Field: "output.format", Message: "must be 'human' or 'json'"}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &ConfigError{Field: "logging.format", Message: "must be 'json' or 'text'"}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &ConfigError{Field: "logging.level", Message: "must be 'debug', 'info', 'warn', or 'error'"}
	}

	return nil
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
