package migrate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okriens/mirrormate/pkg/logging"
	"github.com/okriens/mirrormate/pkg/mirror"
	"github.com/okriens/mirrormate/pkg/models"
	"github.com/okriens/mirrormate/pkg/output"
	"github.com/okriens/mirrormate/pkg/sample"
	"github.com/okriens/mirrormate/pkg/validate"
)

// fakeTool records requests and plays back scripted exit codes
type fakeTool struct {
	exitCodes []int
	launchErr error
	requests  []mirror.Request
}

func (f *fakeTool) Mirror(ctx context.Context, req mirror.Request) (mirror.Result, error) {
	f.requests = append(f.requests, req)
	if f.launchErr != nil {
		return mirror.Result{}, &mirror.InvocationError{Command: "fake", Err: f.launchErr}
	}
	code := 0
	if len(f.exitCodes) > 0 {
		code = f.exitCodes[0]
		if len(f.exitCodes) > 1 {
			f.exitCodes = f.exitCodes[1:]
		}
	}
	return mirror.Result{ExitCode: code}, nil
}

// scriptedConfirmer answers gates in order; default answer is its zero value
type scriptedConfirmer struct {
	answers []bool
	asked   []string
}

func (c *scriptedConfirmer) Confirm(message string) bool {
	c.asked = append(c.asked, message)
	if len(c.answers) == 0 {
		return false
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer
}

type engineFixture struct {
	tool      *fakeTool
	confirmer *scriptedConfirmer
	logRoot   string
	engine    *Engine
}

func newFixture(t *testing.T, tool *fakeTool, confirmer *scriptedConfirmer, mutate func(*Config)) *engineFixture {
	t.Helper()

	cfg := Config{
		LogRoot:     filepath.Join(t.TempDir(), "logs"),
		ExcludeDirs: []string{".git", "node_modules"},
	}
	if mutate != nil {
		mutate(&cfg)
	}

	return &engineFixture{
		tool:      tool,
		confirmer: confirmer,
		logRoot:   cfg.LogRoot,
		engine: NewEngine(
			tool,
			validate.New(),
			sample.New(),
			confirmer,
			output.NewHumanFormatter(nil),
			logging.NewNullLogger(),
			cfg,
		),
	}
}

func makePair(t *testing.T, files int) models.MigrationPair {
	t.Helper()
	base := t.TempDir()
	src := filepath.Join(base, "source")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for i := 0; i < files; i++ {
		path := filepath.Join(src, fmt.Sprintf("f%03d.txt", i))
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return models.MigrationPair{Source: src, Dest: filepath.Join(base, "dest")}
}

func TestRunSuccessfulPair(t *testing.T) {
	tool := &fakeTool{exitCodes: []int{1}}
	fx := newFixture(t, tool, &scriptedConfirmer{}, nil)
	pair := makePair(t, 3)

	report, err := fx.engine.Run(context.Background(), []models.MigrationPair{pair})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Succeeded != 1 || report.Failed != 0 {
		t.Fatalf("expected 1 success, got %+v", report)
	}
	if report.ExitCode() != 0 {
		t.Errorf("expected process exit 0, got %d", report.ExitCode())
	}
	if len(tool.requests) != 1 {
		t.Fatalf("expected 1 tool invocation, got %d", len(tool.requests))
	}

	// Destination is created before the tool runs
	if _, err := os.Stat(pair.Dest); err != nil {
		t.Errorf("destination not created: %v", err)
	}

	outcome := report.Outcomes[0]
	if outcome.Classification != models.ClassSuccess || outcome.ExitCode != 1 {
		t.Errorf("unexpected outcome: %+v", outcome)
	}
}

func TestRunValidationFailureDoesNotAbortRun(t *testing.T) {
	tool := &fakeTool{}
	fx := newFixture(t, tool, &scriptedConfirmer{}, nil)

	bad := models.MigrationPair{
		Source: filepath.Join(t.TempDir(), "missing"),
		Dest:   filepath.Join(t.TempDir(), "dest"),
	}
	good := makePair(t, 2)

	report, err := fx.engine.Run(context.Background(), []models.MigrationPair{bad, good})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Succeeded != 1 || report.Failed != 1 {
		t.Fatalf("expected 1 success + 1 failure, got succeeded=%d failed=%d", report.Succeeded, report.Failed)
	}
	if report.ExitCode() != 1 {
		t.Errorf("expected process exit 1, got %d", report.ExitCode())
	}
	if report.Outcomes[0].FailureKind != models.FailValidation {
		t.Errorf("expected validation failure, got %+v", report.Outcomes[0])
	}
	if len(tool.requests) != 1 {
		t.Errorf("tool must run only for the valid pair, got %d invocations", len(tool.requests))
	}
}

func TestRunEmptySourceDeclined(t *testing.T) {
	tool := &fakeTool{}
	confirmer := &scriptedConfirmer{answers: []bool{false}}
	fx := newFixture(t, tool, confirmer, nil)

	pair := makePair(t, 0)
	if err := os.MkdirAll(pair.Dest, 0o755); err != nil {
		t.Fatalf("mkdir dest: %v", err)
	}
	for i := 0; i < 20; i++ {
		path := filepath.Join(pair.Dest, fmt.Sprintf("keep%03d.txt", i))
		if err := os.WriteFile(path, []byte("precious"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	report, err := fx.engine.Run(context.Background(), []models.MigrationPair{pair})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Failed != 1 {
		t.Fatalf("declined pair must count as failed: %+v", report)
	}
	if report.Outcomes[0].FailureKind != models.FailSafetyDeclined {
		t.Errorf("expected safety_declined, got %+v", report.Outcomes[0])
	}
	if len(tool.requests) != 0 {
		t.Error("tool must not run after a declined confirmation")
	}

	// Destination untouched
	entries, err := os.ReadDir(pair.Dest)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 20 {
		t.Errorf("destination was modified: %d entries remain", len(entries))
	}
	if len(confirmer.asked) != 1 || !strings.Contains(confirmer.asked[0], "empty") {
		t.Errorf("expected one empty-source prompt, got %v", confirmer.asked)
	}
}

func TestRunEmptySourceConfirmed(t *testing.T) {
	tool := &fakeTool{}
	fx := newFixture(t, tool, &scriptedConfirmer{answers: []bool{true}}, nil)

	pair := makePair(t, 0)
	if err := os.MkdirAll(pair.Dest, 0o755); err != nil {
		t.Fatalf("mkdir dest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pair.Dest, "old.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	report, err := fx.engine.Run(context.Background(), []models.MigrationPair{pair})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Succeeded != 1 || len(tool.requests) != 1 {
		t.Errorf("confirmed pair must proceed to mirroring: %+v", report)
	}
}

func TestRunWrongDirectionGate(t *testing.T) {
	tool := &fakeTool{}
	confirmer := &scriptedConfirmer{answers: []bool{false}}
	fx := newFixture(t, tool, confirmer, nil)

	pair := makePair(t, 1)
	if err := os.MkdirAll(pair.Dest, 0o755); err != nil {
		t.Fatalf("mkdir dest: %v", err)
	}
	for i := 0; i < 30; i++ {
		path := filepath.Join(pair.Dest, fmt.Sprintf("d%03d.txt", i))
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	report, err := fx.engine.Run(context.Background(), []models.MigrationPair{pair})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Failed != 1 || len(tool.requests) != 0 {
		t.Errorf("declined wrong-direction pair must fail without mirroring: %+v", report)
	}
	if len(confirmer.asked) != 1 || !strings.Contains(confirmer.asked[0], "swapped") {
		t.Errorf("expected wrong-direction prompt, got %v", confirmer.asked)
	}
}

func TestRunDepthAdvisoryConfirmed(t *testing.T) {
	tool := &fakeTool{}
	confirmer := &scriptedConfirmer{answers: []bool{true}}
	fx := newFixture(t, tool, confirmer, nil)
	// Any real tempdir exceeds a threshold of 1, standing in for a
	// 20-segment source against the default threshold of 15
	fx.engine.validator.DepthWarnThreshold = 1

	pair := makePair(t, 2)
	report, err := fx.engine.Run(context.Background(), []models.MigrationPair{pair})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(confirmer.asked) != 1 || !strings.Contains(confirmer.asked[0], "deep") {
		t.Fatalf("expected depth prompt, got %v", confirmer.asked)
	}
	if report.Succeeded != 1 || len(tool.requests) != 1 {
		t.Errorf("confirmed deep source must proceed to mirroring: %+v", report)
	}
}

func TestRunDepthAdvisoryDeclined(t *testing.T) {
	tool := &fakeTool{}
	fx := newFixture(t, tool, &scriptedConfirmer{answers: []bool{false}}, nil)
	fx.engine.validator.DepthWarnThreshold = 1

	report, err := fx.engine.Run(context.Background(), []models.MigrationPair{makePair(t, 2)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Failed != 1 || len(tool.requests) != 0 {
		t.Errorf("declined depth advisory must fail the pair: %+v", report)
	}
}

func TestRunToolFailureExitCode(t *testing.T) {
	tool := &fakeTool{exitCodes: []int{9, 2}}
	fx := newFixture(t, tool, &scriptedConfirmer{}, nil)

	first := makePair(t, 2)
	second := makePair(t, 2)

	report, err := fx.engine.Run(context.Background(), []models.MigrationPair{first, second})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Failed != 1 || report.Succeeded != 1 {
		t.Fatalf("expected failure then success, got %+v", report)
	}
	if report.Outcomes[0].FailureKind != models.FailTool || report.Outcomes[0].ExitCode != 9 {
		t.Errorf("unexpected failed outcome: %+v", report.Outcomes[0])
	}
	if len(tool.requests) != 2 {
		t.Error("a tool failure must not abort subsequent pairs")
	}
}

func TestRunToolWarningCountsAsSuccess(t *testing.T) {
	tool := &fakeTool{exitCodes: []int{6}}
	fx := newFixture(t, tool, &scriptedConfirmer{}, nil)

	report, err := fx.engine.Run(context.Background(), []models.MigrationPair{makePair(t, 2)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Succeeded != 1 || report.Warned != 1 || report.Failed != 0 {
		t.Errorf("warning must count as success and be flagged: %+v", report)
	}
	if report.ExitCode() != 0 {
		t.Errorf("warnings alone must not fail the process, got exit %d", report.ExitCode())
	}
}

func TestRunInvocationFailure(t *testing.T) {
	tool := &fakeTool{launchErr: errors.New("executable file not found")}
	fx := newFixture(t, tool, &scriptedConfirmer{}, nil)

	report, err := fx.engine.Run(context.Background(), []models.MigrationPair{makePair(t, 2)})
	if err != nil {
		t.Fatalf("launch failure is pair-level, not run-level: %v", err)
	}
	if report.Failed != 1 || report.Outcomes[0].FailureKind != models.FailInvocation {
		t.Errorf("expected invocation failure outcome: %+v", report.Outcomes[0])
	}
}

func TestRunLogRootUncreatable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("not a directory"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tool := &fakeTool{}
	fx := newFixture(t, tool, &scriptedConfirmer{}, func(c *Config) {
		c.LogRoot = filepath.Join(blocker, "logs")
	})

	_, err := fx.engine.Run(context.Background(), []models.MigrationPair{makePair(t, 2)})
	if err == nil {
		t.Fatal("uncreatable log root must abort the run")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigurationError, got %T: %v", err, err)
	}
	if len(tool.requests) != 0 {
		t.Error("no pair may be processed after a configuration error")
	}
}

func TestRunExcludesIncludeDestination(t *testing.T) {
	tool := &fakeTool{}
	fx := newFixture(t, tool, &scriptedConfirmer{}, nil)

	pair := makePair(t, 2)
	if _, err := fx.engine.Run(context.Background(), []models.MigrationPair{pair}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	req := tool.requests[0]
	if len(req.ExcludeDirs) != 3 {
		t.Fatalf("expected config excludes plus destination, got %v", req.ExcludeDirs)
	}
	if req.ExcludeDirs[0] != ".git" || req.ExcludeDirs[1] != "node_modules" {
		t.Errorf("config excludes lost: %v", req.ExcludeDirs)
	}
	last := req.ExcludeDirs[len(req.ExcludeDirs)-1]
	if last != req.Dest {
		t.Errorf("literal destination must close the exclusion set, got %q", last)
	}
}

func TestRunLogPathNaming(t *testing.T) {
	tool := &fakeTool{}
	fx := newFixture(t, tool, &scriptedConfirmer{}, nil)

	pair := makePair(t, 1)
	report, err := fx.engine.Run(context.Background(), []models.MigrationPair{pair})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	logPath := report.Outcomes[0].LogPath
	if filepath.Dir(logPath) != fx.logRoot {
		t.Errorf("log %q not under log root %q", logPath, fx.logRoot)
	}
	base := filepath.Base(logPath)
	if strings.ContainsAny(base, ":") || !strings.HasSuffix(base, ".log") {
		t.Errorf("unsanitized log name: %q", base)
	}
	if tool.requests[0].LogPath != logPath {
		t.Error("tool must receive the same per-pair log path")
	}
}

func TestRunDryRunSkipsTool(t *testing.T) {
	tool := &fakeTool{}
	fx := newFixture(t, tool, &scriptedConfirmer{}, func(c *Config) {
		c.DryRun = true
	})

	pair := makePair(t, 2)
	report, err := fx.engine.Run(context.Background(), []models.MigrationPair{pair})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(tool.requests) != 0 {
		t.Error("dry run must not invoke the tool")
	}
	if _, err := os.Stat(pair.Dest); !os.IsNotExist(err) {
		t.Error("dry run must not create the destination")
	}
	if report.Succeeded != 1 || !report.DryRun {
		t.Errorf("unexpected dry-run report: %+v", report)
	}
}

func TestRunIsRepeatable(t *testing.T) {
	// A second run over an unchanged, already-mirrored pair comes back
	// in the success class: the tool reports "no change" as exit 0
	tool := &fakeTool{exitCodes: []int{1, 0}}
	fx := newFixture(t, tool, &scriptedConfirmer{}, nil)

	pair := makePair(t, 3)
	for i := 0; i < 2; i++ {
		report, err := fx.engine.Run(context.Background(), []models.MigrationPair{pair})
		if err != nil {
			t.Fatalf("Run %d: %v", i+1, err)
		}
		if report.ExitCode() != 0 {
			t.Errorf("run %d: expected exit 0, got %d", i+1, report.ExitCode())
		}
	}
	if len(tool.requests) != 2 {
		t.Fatalf("expected 2 invocations, got %d", len(tool.requests))
	}
	if tool.requests[0].Source != tool.requests[1].Source {
		t.Error("unchanged pair must produce identical requests")
	}
}

func TestRunAutoConfirmerBypassesGates(t *testing.T) {
	// Empty source over a populated destination normally prompts;
	// an auto-approving confirmer lets the pair through untouched.
	tool := &fakeTool{}
	cfg := Config{
		LogRoot:     filepath.Join(t.TempDir(), "logs"),
		ExcludeDirs: []string{".git"},
	}
	validator := validate.New()
	validator.DepthWarnThreshold = 1
	engine := NewEngine(
		tool,
		validator,
		sample.New(),
		AutoConfirmer{},
		output.NewHumanFormatter(nil),
		logging.NewNullLogger(),
		cfg,
	)

	pair := makePair(t, 0)
	if err := os.MkdirAll(pair.Dest, 0o755); err != nil {
		t.Fatalf("mkdir dest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pair.Dest, "old.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	report, err := engine.Run(context.Background(), []models.MigrationPair{pair})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Succeeded != 1 || report.Failed != 0 {
		t.Fatalf("expected the pair to pass both gates, got %+v", report)
	}
	if len(tool.requests) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(tool.requests))
	}
}
