package output

import (
	"fmt"
	"io"

	"github.com/cheggaaa/pb/v3"
	"github.com/okriens/mirrormate/pkg/models"
)

// ProgressFormatter shows a pair-level progress bar. Per-file progress
// belongs to the external tool's own log; the bar tracks how far through
// the pair list the run is.
type ProgressFormatter struct {
	writer io.Writer
	bar    *pb.ProgressBar
	human  *HumanFormatter
}

// NewProgressFormatter creates a progress bar formatter
func NewProgressFormatter(writer io.Writer) *ProgressFormatter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressFormatter{
		writer: writer,
		human:  NewHumanFormatter(writer),
	}
}

// Start creates and starts the bar
func (f *ProgressFormatter) Start(totalPairs int) error {
	f.bar = pb.New(totalPairs)
	f.bar.SetWriter(f.writer)
	f.bar.Start()
	return nil
}

// PairStart is a no-op; the bar only advances on results
func (f *ProgressFormatter) PairStart(index, total int, pair models.MigrationPair) error {
	return nil
}

// PairResult advances the bar and surfaces failures immediately
func (f *ProgressFormatter) PairResult(index, total int, outcome models.Outcome) error {
	if f.bar != nil {
		f.bar.Increment()
	}
	if outcome.Failed() {
		fmt.Fprintf(f.writer, "\n[%d/%d] ✗ %s -> %s: %s\n",
			index, total, outcome.Pair.Source, outcome.Pair.Dest, outcome.Err)
	}
	return nil
}

// Complete stops the bar and prints the human summary
func (f *ProgressFormatter) Complete(report *models.RunReport) error {
	if f.bar != nil {
		f.bar.Finish()
	}
	return f.human.Complete(report)
}

// Error reports a run-level error
func (f *ProgressFormatter) Error(err error) error {
	return f.human.Error(err)
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}
