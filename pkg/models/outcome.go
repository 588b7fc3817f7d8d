package models

import "time"

// Classification buckets a mirroring exit code
type Classification string

const (
	// ClassSuccess covers exit codes 0-3 (informational change bits only)
	ClassSuccess Classification = "success"
	// ClassWarning covers exit codes 4-7 (mismatches detected, copy completed)
	ClassWarning Classification = "warning"
	// ClassFailure covers exit codes 8 and above (copy errors or fatal failure)
	ClassFailure Classification = "failure"
)

// FailureKind identifies why a pair failed before or during the mirroring step
type FailureKind string

const (
	// FailValidation means the pair was rejected by the path validator
	FailValidation FailureKind = "validation"
	// FailSafetyDeclined means the operator declined a risk confirmation
	FailSafetyDeclined FailureKind = "safety_declined"
	// FailInvocation means the mirroring tool could not be launched
	FailInvocation FailureKind = "invocation"
	// FailTool means the tool ran but returned a failure-class exit code
	FailTool FailureKind = "tool"
	// FailFilesystem means a filesystem step (stat, mkdir) failed
	FailFilesystem FailureKind = "filesystem"
)

// Outcome records the result of processing a single pair.
// Appended to the run report and never mutated afterward.
type Outcome struct {
	ID             string
	Pair           MigrationPair
	ExitCode       int
	Classification Classification
	FailureKind    FailureKind // empty unless Classification is failure
	LogPath        string
	Err            string // human-readable failure detail, empty on success
	StartedAt      time.Time
	CompletedAt    time.Time
}

// Failed reports whether the pair counts against the run
func (o *Outcome) Failed() bool {
	return o.Classification == ClassFailure
}
