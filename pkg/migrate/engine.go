package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/okriens/mirrormate/internal/platform"
	"github.com/okriens/mirrormate/pkg/logging"
	"github.com/okriens/mirrormate/pkg/mirror"
	"github.com/okriens/mirrormate/pkg/models"
	"github.com/okriens/mirrormate/pkg/output"
	"github.com/okriens/mirrormate/pkg/sample"
	"github.com/okriens/mirrormate/pkg/validate"
)

// DefaultWrongDirectionRatio is the sampled-count multiple at which the
// destination is considered suspiciously larger than the source.
const DefaultWrongDirectionRatio = 10

// wrongDirectionFloor avoids prompting over a handful of stray files
const wrongDirectionFloor = 10

// Config holds run-level engine settings
type Config struct {
	// LogRoot is the directory receiving per-pair tool logs; it must
	// exist or be creatable before any pair is processed
	LogRoot string
	// ExcludeDirs are directory-name patterns applied to every pair
	ExcludeDirs []string
	// WrongDirectionRatio overrides DefaultWrongDirectionRatio when > 0
	WrongDirectionRatio int
	// DryRun runs every gate but skips directory creation and the
	// tool invocation
	DryRun bool
}

// ConfigurationError means the run could not start at all.
// The only fatal error class; everything per-pair stays local.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("log root %s is unusable: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Engine drives an ordered pair list through the safety gates and the
// external mirroring tool, one pair at a time. Pairs are independent:
// a failed pair never aborts the ones after it.
type Engine struct {
	tool      mirror.Tool
	validator *validate.Validator
	sampler   *sample.Sampler
	confirmer Confirmer
	formatter output.Formatter
	logger    logging.Logger
	cfg       Config
}

// NewEngine wires an engine from its collaborators
func NewEngine(
	tool mirror.Tool,
	validator *validate.Validator,
	sampler *sample.Sampler,
	confirmer Confirmer,
	formatter output.Formatter,
	logger logging.Logger,
	cfg Config,
) *Engine {
	return &Engine{
		tool:      tool,
		validator: validator,
		sampler:   sampler,
		confirmer: confirmer,
		formatter: formatter,
		logger:    logger,
		cfg:       cfg,
	}
}

// Run processes candidates in input order and returns the run report.
// Candidates may be raw (un-canonicalized) pairs; each is validated as
// part of its own processing so a rejection counts as that pair's
// failure instead of aborting the run.
func (e *Engine) Run(ctx context.Context, candidates []models.MigrationPair) (*models.RunReport, error) {
	report := &models.RunReport{
		RunID:     uuid.New().String(),
		DryRun:    e.cfg.DryRun,
		StartTime: time.Now(),
	}

	if err := os.MkdirAll(e.cfg.LogRoot, 0o755); err != nil {
		return nil, &ConfigurationError{Path: e.cfg.LogRoot, Err: err}
	}

	e.logger.Info(ctx, "migration run started", logging.Fields{
		"run_id":   report.RunID,
		"pairs":    len(candidates),
		"log_root": e.cfg.LogRoot,
		"dry_run":  e.cfg.DryRun,
	})

	runStamp := report.StartTime.Format("20060102-150405")
	e.formatter.Start(len(candidates))

	for i, candidate := range candidates {
		e.formatter.PairStart(i+1, len(candidates), candidate)
		outcome := e.runPair(ctx, runStamp, candidate)
		report.Add(outcome)
		e.formatter.PairResult(i+1, len(candidates), outcome)
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	e.logger.Info(ctx, "migration run finished", logging.Fields{
		"run_id":    report.RunID,
		"succeeded": report.Succeeded,
		"warned":    report.Warned,
		"failed":    report.Failed,
		"duration":  report.Duration.String(),
	})

	e.formatter.Complete(report)
	return report, nil
}

// runPair applies the per-pair pipeline: validation, safety gates,
// destination creation, tool invocation, classification.
func (e *Engine) runPair(ctx context.Context, runStamp string, candidate models.MigrationPair) models.Outcome {
	outcome := models.Outcome{
		ID:        uuid.New().String(),
		Pair:      candidate,
		StartedAt: time.Now(),
	}

	fail := func(kind models.FailureKind, detail string) models.Outcome {
		outcome.Classification = models.ClassFailure
		outcome.FailureKind = kind
		outcome.Err = detail
		outcome.CompletedAt = time.Now()
		e.logger.Error(ctx, "pair failed", fmt.Errorf("%s", detail), logging.Fields{
			"source": candidate.Source,
			"dest":   candidate.Dest,
			"kind":   string(kind),
		})
		return outcome
	}

	// Validation runs here even for pre-validated pairs: time may have
	// passed since collection and the source can have vanished
	pair, err := e.validator.Validate(candidate.Source, candidate.Dest)
	if err != nil {
		return fail(models.FailValidation, err.Error())
	}
	outcome.Pair = *pair

	if e.validator.DepthExceeded(pair) {
		msg := fmt.Sprintf("Source %s is %d segments deep; this often means a self-referential backup tree.",
			pair.Source, platform.Depth(pair.Source))
		if !e.confirmer.Confirm(msg) {
			return fail(models.FailSafetyDeclined, "operator declined depth confirmation")
		}
	}

	srcSample := e.sampler.Sample(pair.Source)
	var dstSample models.SamplingResult
	if _, statErr := os.Stat(pair.Dest); statErr == nil {
		dstSample = e.sampler.Sample(pair.Dest)
	}

	if srcSample.Count == 0 && dstSample.Count > 0 {
		msg := fmt.Sprintf("Source %s is empty but destination holds %s files; mirroring will DELETE everything in %s.",
			pair.Source, formatSampled(dstSample), pair.Dest)
		if !e.confirmer.Confirm(msg) {
			return fail(models.FailSafetyDeclined, "operator declined empty-source confirmation")
		}
	} else if e.wrongDirection(srcSample, dstSample) {
		msg := fmt.Sprintf("Destination %s holds %s files but source %s only %d; source and destination may be swapped.",
			pair.Dest, formatSampled(dstSample), pair.Source, srcSample.Count)
		if !e.confirmer.Confirm(msg) {
			return fail(models.FailSafetyDeclined, "operator declined wrong-direction confirmation")
		}
	}

	logPath := filepath.Join(e.cfg.LogRoot,
		fmt.Sprintf("%s_%s.log", runStamp, platform.SanitizeLogName(pair.Source)))
	outcome.LogPath = logPath

	if e.cfg.DryRun {
		e.logger.Info(ctx, "dry run: mirroring skipped", logging.Fields{
			"source": pair.Source,
			"dest":   pair.Dest,
			"log":    logPath,
		})
		outcome.Classification = models.ClassSuccess
		outcome.CompletedAt = time.Now()
		return outcome
	}

	// Idempotent; pairs run sequentially so no locking is needed
	if err := os.MkdirAll(pair.Dest, 0o755); err != nil {
		return fail(models.FailFilesystem, fmt.Sprintf("failed to create destination: %v", err))
	}

	excludes := make([]string, 0, len(e.cfg.ExcludeDirs)+1)
	excludes = append(excludes, e.cfg.ExcludeDirs...)
	excludes = append(excludes, pair.Dest)

	result, err := e.tool.Mirror(ctx, mirror.Request{
		Source:      pair.Source,
		Dest:        pair.Dest,
		LogPath:     logPath,
		ExcludeDirs: excludes,
	})
	if err != nil {
		return fail(models.FailInvocation, err.Error())
	}

	outcome.ExitCode = result.ExitCode
	outcome.Classification = mirror.Classify(result.ExitCode)
	outcome.CompletedAt = time.Now()

	switch outcome.Classification {
	case models.ClassFailure:
		outcome.FailureKind = models.FailTool
		outcome.Err = fmt.Sprintf("mirroring tool exited with code %d, see %s", result.ExitCode, logPath)
		e.logger.Error(ctx, "mirroring tool failed", fmt.Errorf("exit code %d", result.ExitCode), logging.Fields{
			"source": pair.Source,
			"dest":   pair.Dest,
			"log":    logPath,
		})
	case models.ClassWarning:
		e.logger.Warn(ctx, "mirroring completed with mismatches", logging.Fields{
			"source":    pair.Source,
			"dest":      pair.Dest,
			"exit_code": result.ExitCode,
			"log":       logPath,
		})
	default:
		e.logger.Info(ctx, "pair mirrored", logging.Fields{
			"source":    pair.Source,
			"dest":      pair.Dest,
			"exit_code": result.ExitCode,
		})
	}

	return outcome
}

// wrongDirection flags a destination whose sampled count vastly exceeds
// the source's. Sampled counts are capped, so past the cap this is a
// heuristic lower bound, not an exact comparison.
func (e *Engine) wrongDirection(src, dst models.SamplingResult) bool {
	ratio := e.cfg.WrongDirectionRatio
	if ratio <= 0 {
		ratio = DefaultWrongDirectionRatio
	}
	if src.Count == 0 || dst.Count < wrongDirectionFloor {
		return false
	}
	return dst.Count >= src.Count*ratio
}

func formatSampled(s models.SamplingResult) string {
	if s.Truncated {
		return fmt.Sprintf("%d+", s.Count)
	}
	return fmt.Sprintf("%d", s.Count)
}
