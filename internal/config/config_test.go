package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.IgnoreCase != "relaxed" || cfg.Wraparound || cfg.MaxRows != 0 {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadParsesSettings(t *testing.T) {
	path := writeConfig(t, `
wraparound: true
ignore_case: "on"
fuzzy_accent: true
max_rows: 15
win_history: true
colors:
  popup: "0;30;47"
  desc: "0;90;47"
`)
	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Wraparound || cfg.IgnoreCase != "on" || !cfg.FuzzyAccent {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.MaxRows != 15 || !cfg.WinHistory {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.Colors.Popup != "0;30;47" || cfg.Colors.Desc != "0;90;47" {
		t.Fatalf("got %+v", cfg.Colors)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	cfg, err := loadFrom(writeConfig(t, "wraparound: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Wraparound || cfg.IgnoreCase != "relaxed" {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadRejectsBadIgnoreCase(t *testing.T) {
	if _, err := loadFrom(writeConfig(t, "ignore_case: sometimes\n")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	if _, err := loadFrom(writeConfig(t, "wraparound: [\n")); err == nil {
		t.Fatal("expected an error")
	}
}
