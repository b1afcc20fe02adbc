// Package catalog serves read-only item, weapon, location and NPC
// definitions. Every accessor returns a copy, so callers may keep or mutate
// the result without touching the shared definitions.
package catalog

import (
	"sort"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/config"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/keys"
)

type Catalog struct {
	items         map[string]game.Item
	weapons       map[string]game.Weapon
	locations     map[string]game.Location
	npcs          map[string]game.NPCTemplate
	public        []game.LootEntry
	starterWeapon string
}

// New indexes the loaded config by canonical name.
func New(cfg *config.LoadedConfig) *Catalog {
	c := &Catalog{
		items:     make(map[string]game.Item, len(cfg.Items)),
		weapons:   make(map[string]game.Weapon, len(cfg.Weapons)),
		locations: make(map[string]game.Location, len(cfg.Locations)),
		npcs:      make(map[string]game.NPCTemplate, len(cfg.NPCs)),
	}
	for _, it := range cfg.Items {
		c.items[keys.Name(it.Name)] = it
		if it.Public {
			c.public = append(c.public, game.LootEntry{Name: it.Name, Kind: game.LootItem, Rarity: it.Rarity})
		}
	}
	for _, w := range cfg.Weapons {
		c.weapons[keys.Name(w.Name)] = w.Clone()
		if w.Public {
			c.public = append(c.public, game.LootEntry{Name: w.Name, Kind: game.LootWeapon, Rarity: w.Rarity})
		}
	}
	for _, l := range cfg.Locations {
		c.locations[keys.Name(l.Name)] = l.Clone()
	}
	for _, n := range cfg.NPCs {
		c.npcs[keys.Name(n.Name)] = n.Clone()
	}
	if w, ok := c.weapons[keys.Name(cfg.StarterWeapon)]; ok {
		c.starterWeapon = w.Name
	}
	return c
}

func (c *Catalog) Item(name string) (game.Item, bool) {
	it, ok := c.items[keys.Name(name)]
	return it, ok
}

func (c *Catalog) Weapon(name string) (game.Weapon, bool) {
	w, ok := c.weapons[keys.Name(name)]
	return w.Clone(), ok
}

func (c *Catalog) Location(name string) (game.Location, bool) {
	l, ok := c.locations[keys.Name(name)]
	return l.Clone(), ok
}

func (c *Catalog) NPC(name string) (game.NPCTemplate, bool) {
	n, ok := c.npcs[keys.Name(name)]
	return n.Clone(), ok
}

// PublicPool lists the entries searchable at every location.
func (c *Catalog) PublicPool() []game.LootEntry {
	return append([]game.LootEntry(nil), c.public...)
}

// StarterWeapon is the weapon every profile owns and can never lose.
func (c *Catalog) StarterWeapon() string { return c.starterWeapon }

// Locations returns the location names sorted alphabetically.
func (c *Catalog) Locations() []string {
	out := make([]string, 0, len(c.locations))
	for _, l := range c.locations {
		out = append(out, l.Name)
	}
	sort.Strings(out)
	return out
}
