package output

import (
	"github.com/okriens/mirrormate/pkg/models"
)

// Formatter defines the interface for run output formatting
// Implementations include human-readable, JSON, and progress-bar formatters
type Formatter interface {
	// Start initializes the formatter for a new run
	Start(totalPairs int) error

	// PairStart announces that a pair is about to be processed
	PairStart(index, total int, pair models.MigrationPair) error

	// PairResult reports a completed pair
	PairResult(index, total int, outcome models.Outcome) error

	// Complete finalizes output and displays the run summary
	Complete(report *models.RunReport) error

	// Error reports a run-level error
	Error(err error) error

	// Name returns the formatter name
	Name() string
}
