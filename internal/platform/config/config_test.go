package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"readlog/internal/platform/config"
)

func TestNewAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, ".readlog", "readlog.db") {
		t.Fatalf("unexpected db path %s", cfg.DBPath)
	}
	if cfg.DefaultTimezone != "UTC" || cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestNewReadsFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "default_timezone: Europe/Berlin\nlog_level: debug\njournal_dir: journal\n"
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("READLOG_LOG_LEVEL", "warn")

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.DefaultTimezone != "Europe/Berlin" {
		t.Fatalf("expected timezone from file, got %s", cfg.DefaultTimezone)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("env must override file, got %s", cfg.LogLevel)
	}
	if cfg.JournalDir != "journal" {
		t.Fatalf("unexpected journal dir %s", cfg.JournalDir)
	}
}

func TestNewRejectsInvalidTimezone(t *testing.T) {
	t.Setenv("READLOG_TIMEZONE", "Nowhere/Special")
	if _, err := config.New(t.TempDir()); err == nil {
		t.Fatalf("invalid timezone must fail eagerly")
	}
}

func TestNewRequiresDataDir(t *testing.T) {
	t.Parallel()
	if _, err := config.New(""); err == nil {
		t.Fatalf("empty data dir must fail")
	}
}
