package mirror

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Defaults for the fixed invocation option set
const (
	DefaultCommand   = "robocopy"
	DefaultThreads   = 8
	DefaultRetries   = 2
	DefaultRetryWait = 5 * time.Second
)

// Options configures the external tool invocation. These are run-level
// settings; they never vary per pair.
type Options struct {
	// Command is the tool executable; any robocopy-compatible wrapper
	// honoring the same flag syntax and exit-code contract works
	Command   string
	Threads   int
	Retries   int
	RetryWait time.Duration
}

// ExecTool invokes a robocopy-compatible executable
type ExecTool struct {
	opts Options
}

// NewExecTool creates a tool runner, filling in defaults for unset options
func NewExecTool(opts Options) *ExecTool {
	if opts.Command == "" {
		opts.Command = DefaultCommand
	}
	if opts.Threads <= 0 {
		opts.Threads = DefaultThreads
	}
	if opts.Retries < 0 {
		opts.Retries = DefaultRetries
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = DefaultRetryWait
	}
	return &ExecTool{opts: opts}
}

// Mirror runs the tool and blocks until it exits. Exit codes propagate
// through Result; only launch failures surface as errors.
func (t *ExecTool) Mirror(ctx context.Context, req Request) (Result, error) {
	cmd := exec.CommandContext(ctx, t.opts.Command, BuildArgs(t.opts, req)...)

	err := cmd.Run()
	if err == nil {
		return Result{ExitCode: 0}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{ExitCode: exitErr.ExitCode()}, nil
	}

	return Result{}, &InvocationError{Command: t.opts.Command, Err: err}
}

// BuildArgs assembles the fixed argument list for one invocation:
// mirror mode with deletion, multi-threaded copy, bounded retries,
// timestamp-tolerant comparison, verbose logging to the per-pair log
// file, and the exclusion set as directory patterns.
func BuildArgs(opts Options, req Request) []string {
	args := []string{
		req.Source,
		req.Dest,
		"/MIR",
		fmt.Sprintf("/MT:%d", opts.Threads),
		fmt.Sprintf("/R:%d", opts.Retries),
		fmt.Sprintf("/W:%d", int(opts.RetryWait.Seconds())),
		"/FFT",
		"/V",
		"/NP",
		"/LOG:" + req.LogPath,
	}

	if len(req.ExcludeDirs) > 0 {
		args = append(args, "/XD")
		args = append(args, req.ExcludeDirs...)
	}

	return args
}
