package cli

import (
	"fmt"
	"time"

	"github.com/okriens/mirrormate/pkg/config"
	"github.com/okriens/mirrormate/pkg/logging"
	"github.com/okriens/mirrormate/pkg/mirror"
	"github.com/okriens/mirrormate/pkg/sample"
	"github.com/okriens/mirrormate/pkg/validate"
)

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// resolveLogRoot picks the per-pair log directory: flag, config, default
func resolveLogRoot(flagValue string, cfg *config.Config) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.Logs.Root != "" {
		return cfg.Logs.Root, nil
	}
	return config.DefaultLogRoot()
}

// resolveHistoryPath picks the history database file: config or default
func resolveHistoryPath(cfg *config.Config) (string, error) {
	if cfg.History.Path != "" {
		return cfg.History.Path, nil
	}
	return config.DefaultHistoryPath()
}

// newValidator builds a validator from the safety settings
func newValidator(cfg *config.Config) *validate.Validator {
	return &validate.Validator{DepthWarnThreshold: cfg.Safety.DepthWarnThreshold}
}

// newSampler builds a sampler from the safety settings
func newSampler(cfg *config.Config) *sample.Sampler {
	return &sample.Sampler{Cap: cfg.Safety.SampleCap}
}

// newTool builds the external tool runner from the tool settings
func newTool(cfg *config.Config) *mirror.ExecTool {
	return mirror.NewExecTool(mirror.Options{
		Command:   cfg.Tool.Command,
		Threads:   cfg.Tool.Threads,
		Retries:   cfg.Tool.Retries,
		RetryWait: time.Duration(cfg.Tool.RetryWaitSeconds) * time.Second,
	})
}

// createLogger creates the operational logger from flags and config
func createLogger(logFile, logFormat, logLevel string, cfg *config.Config) (logging.Logger, error) {
	if logFile == "" && cfg.Logging.Enabled {
		logFile = cfg.Logging.File
	}
	if logFile == "" {
		return logging.NewNullLogger(), nil
	}

	if logFormat == "" {
		logFormat = cfg.Logging.Format
	}
	if logLevel == "" {
		logLevel = cfg.Logging.Level
	}

	var format logging.Format
	switch logFormat {
	case "text":
		format = logging.FormatText
	default:
		format = logging.FormatJSON
	}

	logger, err := logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       logFile,
		Format:     format,
		Level:      logging.ParseLevel(logLevel),
		MaxSize:    10 * 1024 * 1024, // 10 MB
		MaxBackups: 5,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
