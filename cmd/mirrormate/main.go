package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okriens/mirrormate/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "mirrormate",
		Short: "Directory migration wrapper around an external mirroring tool",
		Long: `mirrormate migrates directory trees by driving a robocopy-compatible
mirroring tool, one source/destination pair at a time. Every pair passes
path validation and sampling-based safety gates before the tool runs,
and each invocation writes its own timestamped log file.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(cli.NewMigrateCommand())
	rootCmd.AddCommand(cli.NewCheckCommand())
	rootCmd.AddCommand(cli.NewConfigCommand())
	rootCmd.AddCommand(cli.NewHistoryCommand())
	rootCmd.AddCommand(cli.NewVersionCommand())

	return rootCmd.Execute()
}
