package main

import (
	"testing"

	"github.com/dumpview/dumpview/pkg/dumpcfg"
)

func TestResolveConfigDefaults(t *testing.T) {
	configPath = ""
	cfg := resolveConfig(rootCmd, nil)

	if cfg.Bind != dumpcfg.DefaultBind {
		t.Errorf("bind %q", cfg.Bind)
	}
	if cfg.Port != dumpcfg.DefaultPort {
		t.Errorf("port %d", cfg.Port)
	}
	if cfg.API {
		t.Error("API should default to disabled")
	}
}

func TestResolveConfigFlagAndArgPrecedence(t *testing.T) {
	configPath = ""
	if err := rootCmd.Flags().Set("bind", "0.0.0.0"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if err := rootCmd.Flags().Set("api", "true"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	cfg := resolveConfig(rootCmd, []string{"7000"})

	if cfg.Bind != "0.0.0.0" {
		t.Errorf("bind flag not applied: %q", cfg.Bind)
	}
	if cfg.Port != 7000 {
		t.Errorf("positional port not applied: %d", cfg.Port)
	}
	if !cfg.API {
		t.Error("api flag not applied")
	}
}
