package dumpcfg

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dumpview.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Bind != DefaultBind || cfg.Port != DefaultPort || cfg.APIAddr != DefaultAPIAddr {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.API {
		t.Error("API should default to disabled")
	}
}

func TestLoadOverlaysFileValues(t *testing.T) {
	path := writeConfig(t, `
bind: 0.0.0.0
port: 7000
api: true
theme: light
logLevel: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Bind != "0.0.0.0" || cfg.Port != 7000 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if !cfg.API || cfg.Theme != "light" || cfg.LogLevel != "debug" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	// Unset fields keep their defaults.
	if cfg.APIAddr != DefaultAPIAddr {
		t.Errorf("apiAddr should default, got %q", cfg.APIAddr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/dumpview.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "port: [not a number")
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}
