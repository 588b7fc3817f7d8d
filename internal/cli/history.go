package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okriens/mirrormate/pkg/history"
)

// HistoryFlags holds history command flags
type HistoryFlags struct {
	Limit      int
	OnlyFailed bool
	RunID      string
}

var historyFlags HistoryFlags

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded migration runs",
		RunE:  runHistory,
	}

	cmd.Flags().IntVarP(&historyFlags.Limit, "limit", "n", 20, "maximum number of runs to list")
	cmd.Flags().BoolVar(&historyFlags.OnlyFailed, "failed", false, "only list runs with failed pairs")
	cmd.Flags().StringVar(&historyFlags.RunID, "run", "", "show the per-pair outcomes of one run")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbPath, err := resolveHistoryPath(cfg)
	if err != nil {
		return err
	}

	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if historyFlags.RunID != "" {
		outcomes, err := store.ListOutcomes(historyFlags.RunID)
		if err != nil {
			return err
		}
		if len(outcomes) == 0 {
			fmt.Fprintf(out, "No outcomes recorded for run %s.\n", historyFlags.RunID)
			return nil
		}
		for _, o := range outcomes {
			status := string(o.Classification)
			if o.Err != "" {
				status += ": " + o.Err
			}
			fmt.Fprintf(out, "%s  %s -> %s  exit=%d  %s\n",
				o.CompletedAt.Format(time.RFC3339), o.Pair.Source, o.Pair.Dest, o.ExitCode, status)
		}
		return nil
	}

	runs, err := store.ListRuns(historyFlags.Limit, historyFlags.OnlyFailed)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	for _, r := range runs {
		kind := ""
		if r.DryRun {
			kind = "  (dry run)"
		}
		fmt.Fprintf(out, "%s  %s  ok=%d warn=%d failed=%d%s\n",
			r.StartedAt.Format(time.RFC3339), r.ID, r.Succeeded, r.Warned, r.Failed, kind)
	}
	return nil
}
