package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okriens/mirrormate/pkg/config"
	"github.com/okriens/mirrormate/pkg/history"
	"github.com/okriens/mirrormate/pkg/logging"
	"github.com/okriens/mirrormate/pkg/migrate"
	"github.com/okriens/mirrormate/pkg/models"
	"github.com/okriens/mirrormate/pkg/output"
)

// MigrateFlags holds migrate command flags
type MigrateFlags struct {
	Source      string
	Dest        string
	Interactive bool
	Exclude     []string
	DryRun      bool
	Yes         bool
	LogRoot     string
	Output      string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var migrateFlags MigrateFlags

// NewMigrateCommand creates the migrate command
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Mirror source directories to their destinations",
		Long: `Migrate directory trees by driving an external robocopy-compatible
mirroring tool, one pair at a time. Pairs come from the configuration
file, from --source/--dest, or from interactive entry. Each pair passes
safety gates (path validation, empty-source and wrong-direction sampling
checks) before the tool runs.`,
		RunE: runMigrate,
	}

	cmd.Flags().StringVarP(&migrateFlags.Source, "source", "s", "", "source directory for a single ad-hoc pair")
	cmd.Flags().StringVarP(&migrateFlags.Dest, "dest", "d", "", "destination directory for a single ad-hoc pair")
	cmd.Flags().BoolVarP(&migrateFlags.Interactive, "interactive", "i", false, "collect pairs interactively (enter 'done' to finish)")
	cmd.Flags().StringSliceVar(&migrateFlags.Exclude, "exclude", []string{}, "directory-name patterns to exclude (replaces configured set)")
	cmd.Flags().BoolVar(&migrateFlags.DryRun, "dry-run", false, "run safety gates only, don't invoke the mirroring tool")
	cmd.Flags().BoolVarP(&migrateFlags.Yes, "yes", "y", false, "auto-confirm all safety gates")
	cmd.Flags().StringVar(&migrateFlags.LogRoot, "log-root", "", "directory for per-pair mirroring logs")
	cmd.Flags().StringVarP(&migrateFlags.Output, "output", "o", "", "output format: human, json")

	cmd.Flags().StringVar(&migrateFlags.LogFile, "log-file", "", "write operational logs to file")
	cmd.Flags().StringVar(&migrateFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&migrateFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.MarkFlagsRequiredTogether("source", "dest")

	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if len(migrateFlags.Exclude) > 0 {
		cfg.Exclude = migrateFlags.Exclude
	}
	if migrateFlags.Output != "" {
		cfg.Output.Format = migrateFlags.Output
	}
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	logRoot, err := resolveLogRoot(migrateFlags.LogRoot, cfg)
	if err != nil {
		return err
	}

	logger, err := createLogger(migrateFlags.LogFile, migrateFlags.LogFormat, migrateFlags.LogLevel, cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	validator := newValidator(cfg)

	var confirmer migrate.Confirmer
	if migrateFlags.Yes {
		confirmer = migrate.AutoConfirmer{}
	} else {
		confirmer = migrate.NewTerminalConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
	}

	var formatter output.Formatter
	switch cfg.Output.Format {
	case "json":
		formatter = output.NewJSONFormatter(cmd.OutOrStdout())
	default:
		if cfg.Output.Progress {
			formatter = output.NewProgressFormatter(cmd.OutOrStdout())
		} else {
			formatter = output.NewHumanFormatter(cmd.OutOrStdout())
		}
	}

	// Static configuration wins; interactive collection is the explicit
	// fallback, never triggered by ambient state
	var pairs []models.MigrationPair
	switch {
	case migrateFlags.Source != "":
		pairs = []models.MigrationPair{{Source: migrateFlags.Source, Dest: migrateFlags.Dest}}
	case len(cfg.Pairs) > 0 && !migrateFlags.Interactive:
		pairs = cfg.Pairs
	case migrateFlags.Interactive:
		pairs = migrate.CollectPairs(cmd.InOrStdin(), cmd.OutOrStdout(), validator)
	default:
		return fmt.Errorf("no pairs: configure 'pairs' in the config file, pass --source/--dest, or use --interactive")
	}

	if len(pairs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to migrate.")
		return nil
	}

	engine := migrate.NewEngine(
		newTool(cfg),
		validator,
		newSampler(cfg),
		confirmer,
		formatter,
		logger,
		migrate.Config{
			LogRoot:             logRoot,
			ExcludeDirs:         cfg.Exclude,
			WrongDirectionRatio: cfg.Safety.WrongDirectionRatio,
			DryRun:              migrateFlags.DryRun,
		},
	)

	report, err := engine.Run(ctx, pairs)
	if err != nil {
		formatter.Error(err)
		return err
	}

	recordHistory(ctx, cfg, logger, report)

	os.Exit(report.ExitCode())
	return nil
}

// recordHistory persists the run; failures are logged, never fatal
func recordHistory(ctx context.Context, cfg *config.Config, logger logging.Logger, report *models.RunReport) {
	if !cfg.History.Enabled {
		return
	}

	dbPath, err := resolveHistoryPath(cfg)
	if err != nil {
		logger.Warn(ctx, "history path unavailable", logging.Fields{"error": err.Error()})
		return
	}

	store, err := history.Open(dbPath)
	if err != nil {
		logger.Warn(ctx, "history store unavailable", logging.Fields{"error": err.Error()})
		return
	}
	defer store.Close()

	if err := store.RecordRun(report); err != nil {
		logger.Warn(ctx, "failed to record run history", logging.Fields{
			"run_id": report.RunID,
			"error":  err.Error(),
		})
	}
}
