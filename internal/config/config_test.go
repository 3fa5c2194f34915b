package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_ValidAndHasBuiltinKeybindings(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if _, ok := cfg.Keybindings["close"]; !ok {
		t.Fatal("expected builtin keybinding for close")
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFromPath(filepath.Join(dir, "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Gap != DefaultConfig().Gap {
		t.Fatalf("expected default gap, got %d", cfg.Gap)
	}
}

func TestLoadFromPath_OverridesGapAndKeepsOtherDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("gap: 20\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Gap != 20 {
		t.Fatalf("expected gap 20, got %d", cfg.Gap)
	}
	if cfg.EdgeInset != DefaultConfig().EdgeInset {
		t.Fatalf("expected edge_inset to stay default, got %d", cfg.EdgeInset)
	}
}

func TestLoadFromPath_KeybindingsMergeKeyWiseOverBuiltins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "keybindings:\n  close: \"Mod1-q\"\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Keybindings["close"] != "Mod1-q" {
		t.Fatalf("expected overridden close binding, got %q", cfg.Keybindings["close"])
	}
	if _, ok := cfg.Keybindings["focus_left"]; !ok {
		t.Fatal("expected unrelated builtin binding to survive the merge")
	}
}

func TestLoadFromPath_RejectsInvalidSplitRatioBounds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("min_split_ratio: 0.9\nmax_split_ratio: 0.1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("expected validation error for inverted split ratio bounds")
	}
}
