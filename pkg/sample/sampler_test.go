package sample

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf("file-%03d.txt", i))
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

func TestSampleCountsFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, 3)

	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFiles(t, sub, 2)

	result := New().Sample(dir)
	if result.Count != 5 {
		t.Errorf("expected 5 files, got %d", result.Count)
	}
	if result.Truncated {
		t.Error("small tree should not be truncated")
	}
}

func TestSampleNonexistentPath(t *testing.T) {
	result := New().Sample(filepath.Join(t.TempDir(), "missing"))
	if result.Count != 0 {
		t.Errorf("missing path should sample as 0, got %d", result.Count)
	}
	if result.Truncated {
		t.Error("missing path should not be truncated")
	}
}

func TestSampleEmptyDirectory(t *testing.T) {
	result := New().Sample(t.TempDir())
	if result.Count != 0 || result.Truncated {
		t.Errorf("empty directory should sample as {0,false}, got %+v", result)
	}
}

func TestSampleNeverExceedsCap(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, 150)

	result := New().Sample(dir)
	if result.Count != DefaultCap {
		t.Errorf("expected count capped at %d, got %d", DefaultCap, result.Count)
	}
	if !result.Truncated {
		t.Error("capped sample must be marked truncated")
	}
}

func TestSampleCustomCap(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, 20)

	result := (&Sampler{Cap: 10}).Sample(dir)
	if result.Count != 10 || !result.Truncated {
		t.Errorf("expected {10,true}, got %+v", result)
	}
}

func TestSampleIgnoresDirectoriesAndSymlinks(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, 2)
	if err := os.MkdirAll(filepath.Join(dir, "a", "b", "c"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "file-000.txt"), filepath.Join(dir, "link")); err == nil {
		// Symlinks count as their own entry type, not regular files
		result := New().Sample(dir)
		if result.Count != 2 {
			t.Errorf("expected 2 regular files, got %d", result.Count)
		}
		return
	}

	result := New().Sample(dir)
	if result.Count != 2 {
		t.Errorf("expected 2 regular files, got %d", result.Count)
	}
}

func TestSampleSkipsUnreadableSubtrees(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	dir := t.TempDir()
	writeFiles(t, dir, 3)

	locked := filepath.Join(dir, "locked")
	if err := os.MkdirAll(locked, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFiles(t, locked, 2)
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	result := New().Sample(dir)
	if result.Count != 3 {
		t.Errorf("unreadable subtree should be skipped silently, got count %d", result.Count)
	}
}
