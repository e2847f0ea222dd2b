package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{}`))
	if err != nil {
		t.Fatalf("minimal config must be valid: %v", err)
	}
	if cfg.ServerAddress != ":8080" || cfg.BoardRadius != 5 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Rules != DefaultRules() {
		t.Fatalf("expected default table rules, got %+v", cfg.Rules)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{
		"server": {"address": ":9090"},
		"database": {"path": "/tmp/x.db"},
		"catalog_path": "cat.json",
		"board_radius": 3,
		"table": {"turn_limit": 7, "confirm_end_turn": true, "can_undo_move": false}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerAddress != ":9090" || cfg.DBPath != "/tmp/x.db" || cfg.CatalogPath != "cat.json" || cfg.BoardRadius != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Rules.TurnLimit != 7 || !cfg.Rules.ConfirmEndTurn || cfg.Rules.CanUndoMove {
		t.Fatalf("table overrides not applied: %+v", cfg.Rules)
	}
	// Keys the table block omits keep their defaults.
	if !cfg.Rules.PassFirstToken {
		t.Fatalf("omitted table keys must keep defaults")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if _, err := LoadConfig(writeConfig(t, `{"server": `)); err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
}
