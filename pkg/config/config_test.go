package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewHasSaneDefaults(t *testing.T) {
	cfg := New()
	if cfg.QbeTarget == "" {
		t.Error("expected a non-empty default QBE target")
	}
	if !cfg.IsWarningEnabled(WarnUnreachablePhi) {
		t.Error("expected unreachable-phi warning to be enabled by default")
	}
	if _, ok := cfg.WarningMap["shadow-include"]; !ok {
		t.Error("expected shadow-include to be a known warning name")
	}
}

func TestSetWarningToggles(t *testing.T) {
	cfg := New()
	cfg.SetWarning(WarnOverflow, false)
	if cfg.IsWarningEnabled(WarnOverflow) {
		t.Error("expected overflow warning to be disabled after SetWarning(false)")
	}
}

func TestLoadFileMissingIsNotAnError(t *testing.T) {
	cfg := New()
	if err := cfg.LoadFile(filepath.Join(t.TempDir(), "does-not-exist.toml")); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
}

func TestLoadFileMergesManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tack.toml")
	content := "[build]\ninclude = [\"vendor\"]\nstdlib = false\nwarnings-as-errors = true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := New()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(cfg.IncludeDirs) != 1 || cfg.IncludeDirs[0] != "vendor" {
		t.Errorf("IncludeDirs = %v, want [vendor]", cfg.IncludeDirs)
	}
	if !cfg.NoStdlib {
		t.Error("expected stdlib = false to set NoStdlib")
	}
	if !cfg.WarningsAsErrors {
		t.Error("expected warnings-as-errors = true to be merged")
	}
}
