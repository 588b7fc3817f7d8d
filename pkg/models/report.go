package models

import (
	"time"
)

// RunReport accumulates the results of a migration run
type RunReport struct {
	RunID  string
	DryRun bool

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Outcomes []Outcome

	// Counters; warnings count as successes per the exit-code contract
	Succeeded int
	Warned    int
	Failed    int
}

// Add appends an outcome and updates the counters
func (r *RunReport) Add(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Classification {
	case ClassWarning:
		r.Succeeded++
		r.Warned++
	case ClassFailure:
		r.Failed++
	default:
		r.Succeeded++
	}
}

// ExitCode returns the process exit code for the run:
// zero only if every pair succeeded or succeeded-with-warning
func (r *RunReport) ExitCode() int {
	if r.Failed > 0 {
		return 1
	}
	return 0
}
