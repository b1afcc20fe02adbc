package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/keys"
)

type locationEntry struct {
	Name             string              `json:"name"`
	Capacity         int                 `json:"capacity"`
	EntryFee         int                 `json:"entry_fee"`
	MinPower         int                 `json:"min_power"`
	RarityWeights    []game.RarityWeight `json:"rarity_weights"`
	Items            []string            `json:"items"`
	Weapons          []string            `json:"weapons"`
	NPCs             []string            `json:"npcs"`
	FillDelaySeconds int                 `json:"fill_delay_seconds"`
	NPCSpawnChance   float64             `json:"npc_spawn_chance"`
	NPCSpawnMax      int                 `json:"npc_spawn_max"`
}

type rawConfig struct {
	StarterWeapon string `json:"starter_weapon"`
	StartingFunds *int   `json:"starting_funds"`
	// Fraction of an item's price credited for a duplicate collectible.
	CollectibleDiscount *float64           `json:"collectible_discount"`
	Items               []game.Item        `json:"items"`
	Weapons             []game.Weapon      `json:"weapons"`
	Locations           []locationEntry    `json:"locations"`
	NPCs                []game.NPCTemplate `json:"npcs"`
	Server              *struct {
		Address string `json:"address"`
	} `json:"server"`
}

// LoadedConfig contains the catalog and the server settings.
type LoadedConfig struct {
	StarterWeapon       string
	StartingFunds       int
	CollectibleDiscount float64
	Items               []game.Item
	Weapons             []game.Weapon
	Locations           []game.Location
	NPCs                []game.NPCTemplate
	ServerAddress       string
}

// LoadConfig reads the configuration file at path. It requires a
// `starter_weapon` present in `weapons` and at least one location.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a configuration document.
func Parse(b []byte) (*LoadedConfig, error) {
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(rc.Locations) == 0 {
		return nil, fmt.Errorf("locations is empty (provide a 'locations' array)")
	}

	itemSet := make(map[string]struct{}, len(rc.Items))
	for _, it := range rc.Items {
		if strings.TrimSpace(it.Name) == "" {
			return nil, fmt.Errorf("item entry missing 'name'")
		}
		k := keys.Name(it.Name)
		if _, exists := itemSet[k]; exists {
			return nil, fmt.Errorf("duplicate item name '%s'", it.Name)
		}
		itemSet[k] = struct{}{}
	}
	weaponSet := make(map[string]struct{}, len(rc.Weapons))
	for _, w := range rc.Weapons {
		if strings.TrimSpace(w.Name) == "" {
			return nil, fmt.Errorf("weapon entry missing 'name'")
		}
		k := keys.Name(w.Name)
		if _, exists := weaponSet[k]; exists {
			return nil, fmt.Errorf("duplicate weapon name '%s'", w.Name)
		}
		if _, clash := itemSet[k]; clash {
			return nil, fmt.Errorf("'%s' is defined both as item and weapon", w.Name)
		}
		weaponSet[k] = struct{}{}
	}
	if rc.StarterWeapon == "" {
		return nil, fmt.Errorf("starter_weapon is required")
	}
	if _, ok := weaponSet[keys.Name(rc.StarterWeapon)]; !ok {
		return nil, fmt.Errorf("starter_weapon '%s' is not listed in weapons", rc.StarterWeapon)
	}

	npcSet := make(map[string]struct{}, len(rc.NPCs))
	for _, n := range rc.NPCs {
		if strings.TrimSpace(n.Name) == "" {
			return nil, fmt.Errorf("npc entry missing 'name'")
		}
		k := keys.Name(n.Name)
		if _, exists := npcSet[k]; exists {
			return nil, fmt.Errorf("duplicate npc name '%s'", n.Name)
		}
		npcSet[k] = struct{}{}
		for _, l := range n.Loot {
			if err := checkLoot(l, itemSet, weaponSet); err != nil {
				return nil, fmt.Errorf("npc '%s': %w", n.Name, err)
			}
		}
	}

	locSet := make(map[string]struct{}, len(rc.Locations))
	locations := make([]game.Location, 0, len(rc.Locations))
	for _, l := range rc.Locations {
		if strings.TrimSpace(l.Name) == "" {
			return nil, fmt.Errorf("location entry missing 'name'")
		}
		k := keys.Name(l.Name)
		if _, exists := locSet[k]; exists {
			return nil, fmt.Errorf("duplicate location name '%s'", l.Name)
		}
		locSet[k] = struct{}{}
		if l.Capacity < 1 {
			return nil, fmt.Errorf("location '%s': capacity must be at least 1", l.Name)
		}
		if l.EntryFee < 0 {
			return nil, fmt.Errorf("location '%s': entry_fee must not be negative", l.Name)
		}
		for _, name := range l.Items {
			if _, ok := itemSet[keys.Name(name)]; !ok {
				return nil, fmt.Errorf("location '%s': unknown item '%s'", l.Name, name)
			}
		}
		for _, name := range l.Weapons {
			if _, ok := weaponSet[keys.Name(name)]; !ok {
				return nil, fmt.Errorf("location '%s': unknown weapon '%s'", l.Name, name)
			}
		}
		for _, name := range l.NPCs {
			if _, ok := npcSet[keys.Name(name)]; !ok {
				return nil, fmt.Errorf("location '%s': unknown npc '%s'", l.Name, name)
			}
		}
		delay := time.Duration(l.FillDelaySeconds) * time.Second
		if delay <= 0 {
			delay = constants.DefaultFillDelay
		}
		locations = append(locations, game.Location{
			Name:           l.Name,
			Capacity:       l.Capacity,
			EntryFee:       l.EntryFee,
			MinPower:       l.MinPower,
			RarityWeights:  l.RarityWeights,
			Items:          l.Items,
			Weapons:        l.Weapons,
			NPCs:           l.NPCs,
			FillDelay:      delay,
			NPCSpawnChance: l.NPCSpawnChance,
			NPCSpawnMax:    l.NPCSpawnMax,
		})
	}

	funds := constants.DefaultStartingFunds
	if rc.StartingFunds != nil {
		funds = *rc.StartingFunds
	}
	discount := constants.CollectibleDuplicateDiscount
	if rc.CollectibleDiscount != nil {
		discount = *rc.CollectibleDiscount
		if discount < 0 || discount > 1 {
			return nil, fmt.Errorf("collectible_discount must be between 0 and 1, got %v", discount)
		}
	}
	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}

	return &LoadedConfig{
		StarterWeapon:       rc.StarterWeapon,
		StartingFunds:       funds,
		CollectibleDiscount: discount,
		Items:               rc.Items,
		Weapons:             rc.Weapons,
		Locations:           locations,
		NPCs:                rc.NPCs,
		ServerAddress:       addr,
	}, nil
}

func checkLoot(l game.LootEntry, items, weapons map[string]struct{}) error {
	k := keys.Name(l.Name)
	switch l.Kind {
	case game.LootWeapon:
		if _, ok := weapons[k]; !ok {
			return fmt.Errorf("unknown loot weapon '%s'", l.Name)
		}
	case game.LootItem, "":
		if _, ok := items[k]; !ok {
			return fmt.Errorf("unknown loot item '%s'", l.Name)
		}
	default:
		return fmt.Errorf("loot '%s' has unknown kind '%s'", l.Name, l.Kind)
	}
	if l.Chance < 0 || l.Chance > 1 {
		return fmt.Errorf("loot '%s' chance must be within [0,1]", l.Name)
	}
	return nil
}
