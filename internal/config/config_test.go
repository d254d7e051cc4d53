package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "rollupcore-config-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Storage.DataDir != tmpDir {
		t.Errorf("DataDir = %s, want %s", cfg.Storage.DataDir, tmpDir)
	}
	if cfg.Fee.MetaCyclesLimit == 0 {
		t.Error("MetaCyclesLimit should default to a nonzero value")
	}

	if _, err := os.Stat(filepath.Join(tmpDir, ConfigFileName)); err != nil {
		t.Errorf("expected config file to be created: %v", err)
	}
}

func TestLoadConfigRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "rollupcore-config-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfg := DefaultConfig()
	cfg.Storage.DataDir = tmpDir
	cfg.Fee.SudtCyclesLimit = 42
	cfg.Logging.Level = "debug"

	if err := cfg.Save(ConfigPath(tmpDir)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if got.Fee.SudtCyclesLimit != 42 {
		t.Errorf("SudtCyclesLimit = %d, want 42", got.Fee.SudtCyclesLimit)
	}
	if got.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, want debug", got.Logging.Level)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}
	got := expandPath("~/rollupcore")
	want := filepath.Join(home, "rollupcore")
	if got != want {
		t.Errorf("expandPath() = %s, want %s", got, want)
	}
}
