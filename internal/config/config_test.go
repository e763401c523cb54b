package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retries != 2 {
		t.Errorf("Retries = %d, want default 2", cfg.Retries)
	}
	if len(cfg.Keywords) != 4 || cfg.Keywords[0] != "ddjl" {
		t.Errorf("Keywords = %v, want built-in set", cfg.Keywords)
	}
	if cfg.Keywords[3] != `"Developer%20Division"` {
		t.Errorf("quoted phrase keyword = %q", cfg.Keywords[3])
	}
	if cfg.BaseDelay != 10*time.Second {
		t.Errorf("BaseDelay = %v, want 10s", cfg.BaseDelay)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
retries: 5
base_delay: 2s
keywords:
  - compiler
  - '"Developer%20Division"'
interval: 30m
data_dir: /tmp/jobdumper
listen_addr: ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retries != 5 {
		t.Errorf("Retries = %d, want 5", cfg.Retries)
	}
	if cfg.BaseDelay != 2*time.Second {
		t.Errorf("BaseDelay = %v, want 2s", cfg.BaseDelay)
	}
	if len(cfg.Keywords) != 2 || cfg.Keywords[0] != "compiler" {
		t.Errorf("Keywords = %v", cfg.Keywords)
	}
	if cfg.Interval != 30*time.Minute {
		t.Errorf("Interval = %v, want 30m", cfg.Interval)
	}
	if cfg.DataDir != "/tmp/jobdumper" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
}

func TestLoad_ZeroRetriesIsValid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("retries: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retries != 0 {
		t.Errorf("Retries = %d, want explicit 0 honored", cfg.Retries)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvRetries, "7")
	t.Setenv(EnvKeywords, "alpha, beta ,%23gamma")

	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retries != 7 {
		t.Errorf("Retries = %d, want env override 7", cfg.Retries)
	}
	want := []string{"alpha", "beta", "%23gamma"}
	if len(cfg.Keywords) != 3 {
		t.Fatalf("Keywords = %v", cfg.Keywords)
	}
	for i := range want {
		if cfg.Keywords[i] != want[i] {
			t.Errorf("Keywords[%d] = %q, want %q", i, cfg.Keywords[i], want[i])
		}
	}
}

func TestLoad_UnparseableEnvRetriesIgnored(t *testing.T) {
	t.Setenv(EnvRetries, "not-a-number")

	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retries != 2 {
		t.Errorf("Retries = %d, want default when env is garbage", cfg.Retries)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("retries: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"negative retries", "retries: -1\n"},
		{"bad base_delay", "base_delay: soon\n"},
		{"zero interval", "interval: 0s\n"},
		{"zero requests_per_second", "requests_per_second: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Errorf("Load: expected error for %s", tt.name)
			}
		})
	}
}
