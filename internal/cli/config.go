package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okriens/mirrormate/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or modify mirrormate configuration.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tool Command: %s\n", cfg.Tool.Command)
			fmt.Fprintf(out, "Threads: %d\n", cfg.Tool.Threads)
			fmt.Fprintf(out, "Retries: %d (wait %ds)\n", cfg.Tool.Retries, cfg.Tool.RetryWaitSeconds)
			fmt.Fprintf(out, "Sample Cap: %d\n", cfg.Safety.SampleCap)
			fmt.Fprintf(out, "Depth Warn Threshold: %d\n", cfg.Safety.DepthWarnThreshold)
			fmt.Fprintf(out, "Exclude: %v\n", cfg.Exclude)
			fmt.Fprintf(out, "Pairs: %d configured\n", len(cfg.Pairs))
			for _, p := range cfg.Pairs {
				fmt.Fprintf(out, "  %s -> %s\n", p.Source, p.Dest)
			}
			fmt.Fprintf(out, "Output Format: %s\n", cfg.Output.Format)
			fmt.Fprintf(out, "Log Format: %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "Log Level: %s\n", cfg.Logging.Level)

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}

			cfg := config.Default()
			if err := config.SaveToFile(cfg, path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}
}
