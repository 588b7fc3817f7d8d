package models

import "fmt"

// RejectReason identifies why a candidate pair was rejected during validation
type RejectReason string

const (
	// SourceMissing means the source path does not exist on the filesystem
	SourceMissing RejectReason = "source_missing"
	// BlankInput means the source or destination string is empty or whitespace-only
	BlankInput RejectReason = "blank_input"
	// IdenticalPaths means source and destination resolve to the same path
	IdenticalPaths RejectReason = "identical_paths"
	// DestinationInsideSource means the destination is a descendant of the source
	DestinationInsideSource RejectReason = "destination_inside_source"
	// SourceInsideDestination means the source is a descendant of the destination,
	// which under mirror semantics would delete the source mid-copy
	SourceInsideDestination RejectReason = "source_inside_destination"
)

// MigrationPair is a validated source/destination pair.
// Paths are canonical absolute once produced by the validator.
// Immutable after creation; the engine only reads it.
type MigrationPair struct {
	Source string `yaml:"source" json:"source"`
	Dest   string `yaml:"dest" json:"dest"`
}

// SamplingResult is an approximate file count for a directory tree.
// Truncated indicates the scan stopped at the sampling cap, so Count
// is a lower bound rather than an exact total.
type SamplingResult struct {
	Count     int
	Truncated bool
}

// ValidationError describes a rejected candidate pair
type ValidationError struct {
	Reason RejectReason
	Path   string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Reason, e.Path, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Path)
}
