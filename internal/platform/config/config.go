package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"readlog/internal/platform/clock"
)

// FileName is looked up inside the data directory.
const FileName = "readlog.yaml"

type Config struct {
	DataDir         string `yaml:"-"`
	DBPath          string `yaml:"db_path"`
	DefaultTimezone string `yaml:"default_timezone"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
	HTTPAddr        string `yaml:"http_addr"`
	JournalDir      string `yaml:"journal_dir"`
	RatingSyncURL   string `yaml:"rating_sync_url"`
}

// New reads <dataDir>/readlog.yaml when present, applies READLOG_* env
// overrides and fills defaults.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Config{}
	payload, err := os.ReadFile(filepath.Join(dataDir, FileName))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(payload, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", FileName, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read %s: %w", FileName, err)
	}
	cfg.DataDir = dataDir

	override(&cfg.DBPath, "READLOG_DB_PATH")
	override(&cfg.DefaultTimezone, "READLOG_TIMEZONE")
	override(&cfg.LogLevel, "READLOG_LOG_LEVEL")
	override(&cfg.LogFormat, "READLOG_LOG_FORMAT")
	override(&cfg.HTTPAddr, "READLOG_HTTP_ADDR")
	override(&cfg.JournalDir, "READLOG_JOURNAL_DIR")
	override(&cfg.RatingSyncURL, "READLOG_RATING_SYNC_URL")

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(dataDir, ".readlog", "readlog.db")
	}
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = "UTC"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = "127.0.0.1:8420"
	}
	if _, err := clock.LoadZone(cfg.DefaultTimezone); err != nil {
		return Config{}, fmt.Errorf("default timezone: %w", err)
	}
	return cfg, nil
}

func override(field *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*field = v
	}
}
