package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("snek", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SNEK_ENV_FILE", "")

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != BackendANSI || cfg.Store != StoreFile {
		t.Errorf("Expected ansi backend with file store, got %s/%s", cfg.Backend, cfg.Store)
	}
	if cfg.TickBudget != 750*time.Millisecond {
		t.Errorf("Expected 750ms tick, got %v", cfg.TickBudget)
	}
	if cfg.ScoresFile != "scores.txt" || cfg.ToplistSize != 10 || cfg.RecordDir != "" {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	t.Setenv("SNEK_ENV_FILE", "")
	t.Setenv("SNEK_STORE", "sqlite")
	t.Setenv("SNEK_TICK", "200ms")
	t.Setenv("SNEK_TOP", "5")

	cfg, err := Load(newFlagSet(), []string{"-tick", "300ms", "-db", "x.db"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store != StoreSQLite {
		t.Errorf("Expected the environment to select sqlite, got %s", cfg.Store)
	}
	if cfg.TickBudget != 300*time.Millisecond {
		t.Errorf("Expected the flag to win with 300ms, got %v", cfg.TickBudget)
	}
	if cfg.ToplistSize != 5 || cfg.DBPath != "x.db" {
		t.Errorf("Expected top 5 and x.db, got %d and %s", cfg.ToplistSize, cfg.DBPath)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snek.env")
	if err := os.WriteFile(path, []byte("SNEK_BACKEND=tcell\nSNEK_RECORD_DIR=records\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SNEK_ENV_FILE", path)
	t.Cleanup(func() {
		os.Unsetenv("SNEK_BACKEND")
		os.Unsetenv("SNEK_RECORD_DIR")
	})

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != BackendTcell || cfg.RecordDir != "records" {
		t.Errorf("Expected values from the env file, got %s and %q", cfg.Backend, cfg.RecordDir)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	t.Setenv("SNEK_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	if _, err := Load(newFlagSet(), nil); err != nil {
		t.Errorf("A missing env file should be ignored, got %v", err)
	}
}

func TestLoadBadEnvValue(t *testing.T) {
	t.Setenv("SNEK_ENV_FILE", "")
	t.Setenv("SNEK_TICK", "soon")
	if _, err := Load(newFlagSet(), nil); err == nil {
		t.Error("Expected an error for an unparsable SNEK_TICK")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"tcell", func(c *Config) { c.Backend = BackendTcell }, true},
		{"unknown backend", func(c *Config) { c.Backend = "curses" }, false},
		{"unknown store", func(c *Config) { c.Store = "redis" }, false},
		{"empty scores file", func(c *Config) { c.ScoresFile = "" }, false},
		{"empty db with file store", func(c *Config) { c.DBPath = "" }, true},
		{"empty db with sqlite", func(c *Config) { c.Store = StoreSQLite; c.DBPath = "" }, false},
		{"zero tick", func(c *Config) { c.TickBudget = 0 }, false},
		{"negative top", func(c *Config) { c.ToplistSize = -1 }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			err := cfg.Validate()
			if tc.valid && err != nil {
				t.Errorf("Expected valid, got %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("Expected a validation error")
			}
		})
	}
}
