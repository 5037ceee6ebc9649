package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing config, got %v", err)
	}
	if cfg.Data.CSV != nil || cfg.Dashboard.Threshold != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[data]
csv = "logs/practice.csv"
structured = "logs/ratings.yaml"

[dashboard]
threshold = 4
select = ["Piano", "Cello"]
watch = true

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Data.CSV == nil || *cfg.Data.CSV != "logs/practice.csv" {
		t.Fatalf("unexpected csv path: %v", cfg.Data.CSV)
	}
	if cfg.Dashboard.Threshold == nil || *cfg.Dashboard.Threshold != 4 {
		t.Fatalf("unexpected threshold: %v", cfg.Dashboard.Threshold)
	}
	if cfg.Dashboard.Select == nil || len(*cfg.Dashboard.Select) != 2 {
		t.Fatalf("unexpected select: %v", cfg.Dashboard.Select)
	}
	if cfg.Dashboard.Remember != nil {
		t.Fatalf("expected remember to be unset")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[data]\ncsvv = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "pracviz", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultStatePath(); got != filepath.Join("/tmp/data", "pracviz", "state.db") {
		t.Fatalf("unexpected state path %q", got)
	}
}
