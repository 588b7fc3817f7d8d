package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/okriens/mirrormate/pkg/models"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero threads", func(c *Config) { c.Tool.Threads = 0 }},
		{"negative retries", func(c *Config) { c.Tool.Retries = -1 }},
		{"zero sample cap", func(c *Config) { c.Safety.SampleCap = 0 }},
		{"ratio below 2", func(c *Config) { c.Safety.WrongDirectionRatio = 1 }},
		{"bad output format", func(c *Config) { c.Output.Format = "xml" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "yaml" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
pairs:
  - source: /data/projects
    dest: /backup/projects
  - source: /data/media
    dest: /backup/media
exclude:
  - .git
  - tmp
tool:
  command: rclone-robowrap
  threads: 4
safety:
  sample_cap: 50
logs:
  root: /var/log/mirrormate
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if len(cfg.Pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(cfg.Pairs))
	}
	if cfg.Pairs[0].Source != "/data/projects" || cfg.Pairs[0].Dest != "/backup/projects" {
		t.Errorf("unexpected first pair: %+v", cfg.Pairs[0])
	}
	if cfg.Tool.Command != "rclone-robowrap" || cfg.Tool.Threads != 4 {
		t.Errorf("tool settings not applied: %+v", cfg.Tool)
	}
	if cfg.Safety.SampleCap != 50 {
		t.Errorf("sample cap not applied: %d", cfg.Safety.SampleCap)
	}
	if cfg.Logs.Root != "/var/log/mirrormate" {
		t.Errorf("log root not applied: %q", cfg.Logs.Root)
	}
	// Unset sections keep defaults
	if cfg.Tool.Retries != 2 {
		t.Errorf("retries default lost: %d", cfg.Tool.Retries)
	}
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Pairs = append(cfg.Pairs, models.MigrationPair{Source: "/data/a", Dest: "/backup/a"})
	cfg.Tool.Threads = 16
	cfg.Logs.Root = "/tmp/mirror-logs"

	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if loaded.Tool.Threads != 16 || loaded.Logs.Root != "/tmp/mirror-logs" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tool:\n  threads: 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected invalid configuration error")
	}
}
