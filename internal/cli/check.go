package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okriens/mirrormate/pkg/models"
)

// CheckFlags holds check command flags
type CheckFlags struct {
	Source string
	Dest   string
}

var checkFlags CheckFlags

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate pairs and sample their contents without mirroring",
		Long: `Run the path validator and content sampler over the configured pairs
(or a single --source/--dest pair) and report what a migration would see.
Nothing is created or copied.`,
		RunE: runCheck,
	}

	cmd.Flags().StringVarP(&checkFlags.Source, "source", "s", "", "source directory for a single ad-hoc pair")
	cmd.Flags().StringVarP(&checkFlags.Dest, "dest", "d", "", "destination directory for a single ad-hoc pair")
	cmd.MarkFlagsRequiredTogether("source", "dest")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var candidates []models.MigrationPair
	if checkFlags.Source != "" {
		candidates = []models.MigrationPair{{Source: checkFlags.Source, Dest: checkFlags.Dest}}
	} else {
		candidates = cfg.Pairs
	}
	if len(candidates) == 0 {
		return fmt.Errorf("no pairs: configure 'pairs' in the config file or pass --source/--dest")
	}

	validator := newValidator(cfg)
	sampler := newSampler(cfg)
	out := cmd.OutOrStdout()

	invalid := 0
	for i, candidate := range candidates {
		fmt.Fprintf(out, "[%d/%d] %s -> %s\n", i+1, len(candidates), candidate.Source, candidate.Dest)

		pair, err := validator.Validate(candidate.Source, candidate.Dest)
		if err != nil {
			invalid++
			fmt.Fprintf(out, "  invalid: %v\n", err)
			continue
		}

		srcSample := sampler.Sample(pair.Source)
		dstSample := sampler.Sample(pair.Dest)
		fmt.Fprintf(out, "  source:      %s file(s)\n", formatCount(srcSample))
		fmt.Fprintf(out, "  destination: %s file(s)\n", formatCount(dstSample))

		if validator.DepthExceeded(pair) {
			fmt.Fprintf(out, "  advisory: source is unusually deep; migration will ask for confirmation\n")
		}
		if srcSample.Count == 0 && dstSample.Count > 0 {
			fmt.Fprintf(out, "  advisory: empty source over populated destination; migration will ask for confirmation\n")
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d pair(s) failed validation", invalid, len(candidates))
	}

	fmt.Fprintf(out, "All %d pair(s) valid.\n", len(candidates))
	return nil
}

func formatCount(s models.SamplingResult) string {
	if s.Truncated {
		return fmt.Sprintf("%d+", s.Count)
	}
	return fmt.Sprintf("%d", s.Count)
}
