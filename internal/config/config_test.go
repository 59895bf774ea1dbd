package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hwcompat/hwcompat/internal/compatdb"
	"github.com/hwcompat/hwcompat/internal/exceptions"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
compat_db: /srv/compat/deprecation.json
exceptions_db: /srv/compat/exceptions.json
kmod_index_dir: /srv/kmod
target_version: 10
history_db: /srv/compat/history.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.CompatDB != "/srv/compat/deprecation.json" {
		t.Errorf("CompatDB = %q", cfg.CompatDB)
	}
	if cfg.ExceptionsDB != "/srv/compat/exceptions.json" {
		t.Errorf("ExceptionsDB = %q", cfg.ExceptionsDB)
	}
	if cfg.KmodIndexDir != "/srv/kmod" {
		t.Errorf("KmodIndexDir = %q", cfg.KmodIndexDir)
	}
	if cfg.TargetVersion != 10 {
		t.Errorf("TargetVersion = %d", cfg.TargetVersion)
	}
	if cfg.HistoryDB != "/srv/compat/history.db" {
		t.Errorf("HistoryDB = %q", cfg.HistoryDB)
	}
}

func TestLoadPartialConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "target_version: 10\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TargetVersion != 10 {
		t.Errorf("TargetVersion = %d, want 10", cfg.TargetVersion)
	}
	if cfg.CompatDB != compatdb.DefaultPath {
		t.Errorf("CompatDB = %q, want default %q", cfg.CompatDB, compatdb.DefaultPath)
	}
	if cfg.ExceptionsDB != exceptions.DefaultPath {
		t.Errorf("ExceptionsDB = %q, want default %q", cfg.ExceptionsDB, exceptions.DefaultPath)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.CompatDB != compatdb.DefaultPath {
		t.Errorf("CompatDB = %q", cfg.CompatDB)
	}
	if cfg.TargetVersion != 9 {
		t.Errorf("TargetVersion = %d, want 9", cfg.TargetVersion)
	}
	if cfg.KmodIndexDir != "" {
		t.Errorf("KmodIndexDir = %q, want empty", cfg.KmodIndexDir)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "target_version: [not a number\n")

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
