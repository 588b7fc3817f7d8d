package output

import (
	"fmt"
	"io"
	"time"

	"github.com/okriens/mirrormate/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer io.Writer
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(writer io.Writer) *HumanFormatter {
	if writer == nil {
		writer = io.Discard
	}
	return &HumanFormatter{writer: writer}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(totalPairs int) error {
	fmt.Fprintf(f.writer, "Starting migration: %d pair(s)\n", totalPairs)
	return nil
}

// PairStart announces the pair being processed
func (f *HumanFormatter) PairStart(index, total int, pair models.MigrationPair) error {
	fmt.Fprintf(f.writer, "[%d/%d] %s -> %s\n", index, total, pair.Source, pair.Dest)
	return nil
}

// PairResult reports a completed pair
func (f *HumanFormatter) PairResult(index, total int, outcome models.Outcome) error {
	switch outcome.Classification {
	case models.ClassSuccess:
		fmt.Fprintf(f.writer, "[%d/%d] ✓ mirrored (exit %d)\n", index, total, outcome.ExitCode)
	case models.ClassWarning:
		fmt.Fprintf(f.writer, "[%d/%d] ⚠ mirrored with mismatches (exit %d), see %s\n",
			index, total, outcome.ExitCode, outcome.LogPath)
	default:
		fmt.Fprintf(f.writer, "[%d/%d] ✗ failed: %s\n", index, total, outcome.Err)
	}
	return nil
}

// Complete displays the run summary
func (f *HumanFormatter) Complete(report *models.RunReport) error {
	fmt.Fprintf(f.writer, "\n")
	if report.DryRun {
		fmt.Fprintf(f.writer, "Dry run completed in %s\n", report.Duration.Round(time.Millisecond))
	} else {
		fmt.Fprintf(f.writer, "Migration completed in %s\n", report.Duration.Round(time.Millisecond))
	}
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Summary:\n")
	fmt.Fprintf(f.writer, "  Succeeded: %d (of which %d with warnings)\n", report.Succeeded, report.Warned)
	fmt.Fprintf(f.writer, "  Failed:    %d\n", report.Failed)

	if report.Failed > 0 {
		fmt.Fprintf(f.writer, "\nFailed pairs:\n")
		for _, o := range report.Outcomes {
			if o.Failed() {
				fmt.Fprintf(f.writer, "  %s -> %s: %s\n", o.Pair.Source, o.Pair.Dest, o.Err)
			}
		}
	}

	return nil
}

// Error reports a run-level error
func (f *HumanFormatter) Error(err error) error {
	fmt.Fprintf(f.writer, "Error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}
