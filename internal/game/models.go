package game

import (
	"time"

	"gorm.io/gorm"
)

// Rarity tiers used by item/weapon definitions and location weight tables.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Passive is a data-defined effect attached to a weapon or an NPC template.
// Kind selects the registered effect function; Params carries its numeric
// arguments (percentages are expressed as whole numbers, chances as 0..1).
type Passive struct {
	Kind   string             `json:"kind"`
	Params map[string]float64 `json:"params,omitempty"`
}

// Clone returns a copy that shares no map storage with p.
func (p Passive) Clone() Passive {
	out := Passive{Kind: p.Kind}
	if p.Params != nil {
		out.Params = make(map[string]float64, len(p.Params))
		for k, v := range p.Params {
			out.Params[k] = v
		}
	}
	return out
}

// Param returns the named parameter or def when absent.
func (p Passive) Param(name string, def float64) float64 {
	if v, ok := p.Params[name]; ok {
		return v
	}
	return def
}

type Item struct {
	Name        string `json:"name"`
	Rarity      Rarity `json:"rarity"`
	Price       int    `json:"price"`
	Collectible bool   `json:"collectible"`
	// Public entries belong to the shared pool searchable at every location.
	Public bool `json:"public"`
}

type Weapon struct {
	Name    string  `json:"name"`
	Power   int     `json:"power"`
	Price   int     `json:"price"`
	Rarity  Rarity  `json:"rarity"`
	Public  bool    `json:"public"`
	Passive Passive `json:"passive"`
}

// Clone deep-copies the weapon so run state never aliases catalog maps.
func (w Weapon) Clone() Weapon {
	w.Passive = w.Passive.Clone()
	return w
}

type RarityWeight struct {
	Rarity Rarity  `json:"rarity"`
	Weight float64 `json:"weight"`
}

type Location struct {
	Name          string         `json:"name"`
	Capacity      int            `json:"capacity"`
	EntryFee      int            `json:"entry_fee"`
	MinPower      int            `json:"min_power"`
	RarityWeights []RarityWeight `json:"rarity_weights"`
	Items         []string       `json:"items"`
	Weapons       []string       `json:"weapons"`
	NPCs          []string       `json:"npcs"`
	FillDelay     time.Duration  `json:"fill_delay"`
	// NPCSpawnChance is rolled once per pool right after a human joins.
	NPCSpawnChance float64 `json:"npc_spawn_chance"`
	NPCSpawnMax    int     `json:"npc_spawn_max"`
}

// Clone returns a snapshot of the location that is safe to keep for the
// lifetime of a pool.
func (l Location) Clone() Location {
	l.RarityWeights = append([]RarityWeight(nil), l.RarityWeights...)
	l.Items = append([]string(nil), l.Items...)
	l.Weapons = append([]string(nil), l.Weapons...)
	l.NPCs = append([]string(nil), l.NPCs...)
	return l
}

type LootKind string

const (
	LootItem   LootKind = "item"
	LootWeapon LootKind = "weapon"
)

// LootEntry is a named drop. Chance is only meaningful for NPC unique loot.
type LootEntry struct {
	Name   string   `json:"name"`
	Kind   LootKind `json:"kind"`
	Rarity Rarity   `json:"rarity,omitempty"`
	Chance float64  `json:"chance,omitempty"`
}

type Strategy string

const (
	StrategyAggressive Strategy = "aggressive"
	StrategyBalanced   Strategy = "balanced"
	StrategyCautious   Strategy = "cautious"
)

// FightChance is the probability that a participant using s picks combat
// over search for one action.
func (s Strategy) FightChance() (float64, bool) {
	switch s {
	case StrategyAggressive:
		return 0.7, true
	case StrategyBalanced:
		return 0.5, true
	case StrategyCautious:
		return 0.25, true
	}
	return 0, false
}

type Hostility string

const (
	HostilityNeutral Hostility = "neutral"
	HostilityHostile Hostility = "hostile"
	// HostilityAggressive NPCs hunt human participants before anything else.
	HostilityAggressive Hostility = "aggressive"
)

// Hunts reports whether an NPC with this hostility and strategy goes after
// humans before anything else: aggressive NPCs always do, hostile ones only
// with an aggressive strategy.
func (h Hostility) Hunts(s Strategy) bool {
	return h == HostilityAggressive || (h == HostilityHostile && s == StrategyAggressive)
}

type NPCTemplate struct {
	Name         string            `json:"name"`
	Power        int               `json:"power"`
	Weapon       string            `json:"weapon"`
	Strategy     Strategy          `json:"strategy"`
	Hostility    Hostility         `json:"hostility"`
	Trait        Passive           `json:"trait"`
	Loot         []LootEntry       `json:"loot"`
	EscapeChance float64           `json:"escape_chance"`
	WoundChance  float64           `json:"wound_chance"`
	DefeatChance float64           `json:"defeat_chance"`
	Dialogue     map[string]string `json:"dialogue,omitempty"`
}

func (t NPCTemplate) Clone() NPCTemplate {
	t.Trait = t.Trait.Clone()
	t.Loot = append([]LootEntry(nil), t.Loot...)
	if t.Dialogue != nil {
		d := make(map[string]string, len(t.Dialogue))
		for k, v := range t.Dialogue {
			d[k] = v
		}
		t.Dialogue = d
	}
	return t
}

// Injury severities stored on the player profile.
const (
	InjuryNone     = "none"
	InjuryLight    = "light"
	InjuryModerate = "moderate"
	InjurySevere   = "severe"
)

// Profile is the persisted player record mutated by entry fees, permanent
// weapon transfers and settlement.
type Profile struct {
	gorm.Model
	ParticipantID string   `json:"participant_id" gorm:"uniqueIndex"`
	DisplayName   string   `json:"display_name"`
	Funds         int      `json:"funds"`
	OwnedWeapons  []string `json:"owned_weapons" gorm:"serializer:json"`
	Collectibles  []string `json:"collectibles" gorm:"serializer:json"`
	Injury        string   `json:"injury"`
	Injured       bool     `json:"injured"`
	RunsPlayed    int      `json:"runs_played"`
	Defeats       int      `json:"defeats"`
	Extractions   int      `json:"extractions"`
}

func (Profile) TableName() string { return "player_profiles" }

func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := *p
	out.OwnedWeapons = append([]string(nil), p.OwnedWeapons...)
	out.Collectibles = append([]string(nil), p.Collectibles...)
	return &out
}
