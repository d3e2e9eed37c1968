package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig(newViper())
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.SourceDir != "../" || cfg.DownloadDir != "../../Songs" || cfg.CatalogPath != "beatmaps" {
		t.Errorf("paths = %q %q %q", cfg.SourceDir, cfg.DownloadDir, cfg.CatalogPath)
	}
	if !cfg.Download.Enabled || cfg.Download.MirrorURL != defaultMirrorURL {
		t.Errorf("download = %+v", cfg.Download)
	}
	if cfg.Download.RateLimit != 30 || cfg.Download.Concurrency != 2 || cfg.Download.Timeout != 10*time.Minute {
		t.Errorf("download limits = %+v", cfg.Download)
	}
	if cfg.Parser.NumericBooleans || cfg.Parser.DecodeHitObjects {
		t.Errorf("parser = %+v, want zero", cfg.Parser)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("OSUEXPORT_WORKERS", "3")
	t.Setenv("OSUEXPORT_DOWNLOAD_RATE_LIMIT", "12")
	t.Setenv("OSUEXPORT_PARSER_NUMERIC_BOOLEANS", "true")

	cfg, err := loadConfig(newViper())
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Workers != 3 || cfg.Download.RateLimit != 12 || !cfg.Parser.NumericBooleans {
		t.Errorf("env not applied: workers %d rate %d numeric %v",
			cfg.Workers, cfg.Download.RateLimit, cfg.Parser.NumericBooleans)
	}
}

func TestReadConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "osuexport.yaml")
	content := "source_dir: /data/files\ndownload:\n  enabled: false\n  timeout: 30s\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v := newViper()
	if err := readConfigFile(v, path); err != nil {
		t.Fatalf("readConfigFile() error = %v", err)
	}
	cfg, err := loadConfig(v)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.SourceDir != "/data/files" || cfg.Download.Enabled || cfg.Download.Timeout != 30*time.Second {
		t.Errorf("config file not applied: %+v", cfg)
	}

	if err := readConfigFile(newViper(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("readConfigFile() with a missing explicit file succeeded")
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		set  map[string]any
		want string
	}{
		{"workers", map[string]any{"workers": 0}, "workers"},
		{"mirror", map[string]any{"download.mirror_url": ""}, "mirror_url"},
		{"concurrency", map[string]any{"download.concurrency": 0}, "concurrency"},
		{"rate", map[string]any{"download.rate_limit": -1}, "rate_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := newViper()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := loadConfig(v)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("loadConfig() error = %v, want mention of %q", err, tt.want)
			}
		})
	}

	v := newViper()
	v.Set("download.enabled", false)
	v.Set("download.mirror_url", "")
	if _, err := loadConfig(v); err != nil {
		t.Errorf("disabled download still validated: %v", err)
	}
}
