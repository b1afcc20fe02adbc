package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
)

const minimalConfig = `{
  "starter_weapon": "Rusty Knife",
  "items": [{"name": "Scrap Metal", "rarity": "common", "price": 5}],
  "weapons": [{"name": "Rusty Knife", "power": 10}],
  "npcs": [{"name": "Rat", "power": 5, "loot": [{"name": "Scrap Metal", "kind": "item", "chance": 0.5}]}],
  "locations": [{"name": "Dock", "capacity": 2, "items": ["Scrap Metal"], "npcs": ["Rat"], "fill_delay_seconds": 30}]
}`

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerAddress != ":8080" {
		t.Fatalf("expected default address, got %q", cfg.ServerAddress)
	}
	if cfg.StartingFunds != constants.DefaultStartingFunds {
		t.Fatalf("expected default starting funds, got %d", cfg.StartingFunds)
	}
	if cfg.CollectibleDiscount != constants.CollectibleDuplicateDiscount {
		t.Fatalf("expected default discount, got %v", cfg.CollectibleDiscount)
	}
	if len(cfg.Locations) != 1 || cfg.Locations[0].FillDelay != 30*time.Second {
		t.Fatalf("unexpected locations: %+v", cfg.Locations)
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"no locations":      `{"starter_weapon":"Knife","weapons":[{"name":"Knife"}],"locations":[]}`,
		"missing starter":   `{"weapons":[{"name":"Knife"}],"locations":[{"name":"A","capacity":1}]}`,
		"unknown starter":   `{"starter_weapon":"Axe","weapons":[{"name":"Knife"}],"locations":[{"name":"A","capacity":1}]}`,
		"duplicate weapon":  `{"starter_weapon":"Knife","weapons":[{"name":"Knife"},{"name":"knife"}],"locations":[{"name":"A","capacity":1}]}`,
		"zero capacity":     `{"starter_weapon":"Knife","weapons":[{"name":"Knife"}],"locations":[{"name":"A","capacity":0}]}`,
		"unknown npc":       `{"starter_weapon":"Knife","weapons":[{"name":"Knife"}],"locations":[{"name":"A","capacity":1,"npcs":["Ghost"]}]}`,
		"unknown loot":      `{"starter_weapon":"Knife","weapons":[{"name":"Knife"}],"npcs":[{"name":"Rat","loot":[{"name":"Gem","kind":"item"}]}],"locations":[{"name":"A","capacity":1}]}`,
		"discount above 1":  `{"starter_weapon":"Knife","weapons":[{"name":"Knife"}],"collectible_discount":1.5,"locations":[{"name":"A","capacity":1}]}`,
		"negative discount": `{"starter_weapon":"Knife","weapons":[{"name":"Knife"}],"collectible_discount":-0.1,"locations":[{"name":"A","capacity":1}]}`,
		"item weapon clash": `{"starter_weapon":"Knife","items":[{"name":"Knife"}],"weapons":[{"name":"Knife"}],"locations":[{"name":"A","capacity":1}]}`,
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestParseKeepsZeroDiscount(t *testing.T) {
	cfg, err := Parse([]byte(`{"starter_weapon":"Knife","weapons":[{"name":"Knife"}],"collectible_discount":0,"locations":[{"name":"A","capacity":1}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CollectibleDiscount != 0 {
		t.Fatalf("explicit zero discount replaced by %v", cfg.CollectibleDiscount)
	}
}

func TestLoadConfigWrapsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.json")
	if err := os.WriteFile(path, []byte(`{"locations": []}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error mentioning path, got %v", err)
	}
}

func TestParseEnvDefaultsAndOverrides(t *testing.T) {
	t.Setenv(constants.EnvTickInterval, "5s")
	t.Setenv(constants.EnvStartingFunds, "250")
	t.Setenv(constants.EnvServerAddress, ":9999")
	e, err := ParseEnv()
	if err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if e.TickInterval != 5*time.Second {
		t.Fatalf("expected 5s tick, got %v", e.TickInterval)
	}
	if e.ConfigPath != "./extraction_config.json" {
		t.Fatalf("unexpected default config path %q", e.ConfigPath)
	}
	cfg, err := Parse([]byte(minimalConfig))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	e.Apply(cfg)
	if cfg.StartingFunds != 250 || cfg.ServerAddress != ":9999" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv(constants.EnvTickInterval, "soon")
	_, err := ParseEnv()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}
