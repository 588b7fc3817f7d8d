package mirror

import (
	"context"
	"fmt"
)

// Request describes one mirroring invocation. The option set is fixed per
// run; only the pair-specific fields vary.
type Request struct {
	Source  string
	Dest    string
	LogPath string
	// ExcludeDirs holds directory-name patterns to skip, plus the literal
	// destination path so a destination nested under a differently-rooted
	// source can never recurse into itself
	ExcludeDirs []string
}

// Result carries the exit code of a completed mirroring invocation.
// Classification of the code is the caller's job (see Classify).
type Result struct {
	ExitCode int
}

// Tool abstracts the external mirroring operation. The engine treats it
// as an opaque synchronous black box: Mirror blocks until the tool exits.
// An error return means the tool could not be launched at all; a tool
// that ran and failed reports that through Result.ExitCode instead.
type Tool interface {
	Mirror(ctx context.Context, req Request) (Result, error)
}

// InvocationError means the mirroring tool could not be launched
// (executable missing, permission denied). Pair-level, never fatal
// for the run.
type InvocationError struct {
	Command string
	Err     error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Command, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}
