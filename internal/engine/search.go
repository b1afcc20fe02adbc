package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/keys"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/logging"
)

// SearchResult summarizes one search action.
type SearchResult struct {
	Items     []string
	Weapons   []string
	Currency  int
	Discarded []string
}

// Search draws finds for p from the pool's location snapshot and the
// catalog's public pool, applying them to p. The returned line is also
// appended to pool.ActionLog.
func Search(ctx context.Context, pool *game.Pool, env Env, rng Rand, p *game.Participant) (SearchResult, string) {
	return newRunContext(ctx, pool, env, rng).search(p)
}

func (rc *runContext) search(p *game.Participant) (SearchResult, string) {
	var res SearchResult
	n := constants.MinFindsPerSearch + rc.rng.Intn(constants.MaxFindsPerSearch-constants.MinFindsPerSearch+1)
	for i := 0; i < n; i++ {
		entry := rc.drawFind()
		if entry.Kind != game.LootWeapon {
			p.RunInventory = append(p.RunInventory, entry.Name)
			res.Items = append(res.Items, entry.Name)
			continue
		}
		if sameName(entry.Name, p.Equipped.Name) {
			res.Discarded = append(res.Discarded, entry.Name)
			continue
		}
		if paid := rc.grantWeapon(p, entry.Name, 0); paid > 0 {
			res.Currency += paid
			continue
		}
		res.Weapons = append(res.Weapons, entry.Name)
	}
	line := searchLine(p, res)
	rc.add(line)
	return res, line
}

func searchLine(p *game.Participant, res SearchResult) string {
	var parts []string
	parts = append(parts, res.Items...)
	parts = append(parts, res.Weapons...)
	if res.Currency > 0 {
		parts = append(parts, "duplicate gear worth "+credits(res.Currency))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s searches but finds nothing worth keeping.", displayName(p))
	}
	return fmt.Sprintf("%s searches and finds %s.", displayName(p), strings.Join(parts, ", "))
}

// drawFind picks a rarity and then a uniform entry among its candidates.
func (rc *runContext) drawFind() game.LootEntry {
	rarity := rc.drawRarity()
	cands := rc.candidates(rarity)
	if len(cands) == 0 && rarity != game.RarityCommon {
		cands = rc.candidates(game.RarityCommon)
	}
	if len(cands) == 0 {
		return game.LootEntry{Name: rc.rules.DefaultItem, Kind: game.LootItem, Rarity: game.RarityCommon}
	}
	return cands[rc.rng.Intn(len(cands))]
}

// drawRarity walks the cumulative weight table against one draw.
func (rc *runContext) drawRarity() game.Rarity {
	weights := rc.pool.Snapshot.RarityWeights
	total := 0.0
	for _, w := range weights {
		if w.Weight > 0 {
			total += w.Weight
		}
	}
	if total <= 0 {
		logging.Warn("location has no rarity weights, using common", nil, rc.fields(nil))
		return game.RarityCommon
	}
	draw := rc.rng.Float64() * total
	cum := 0.0
	last := game.RarityCommon
	for _, w := range weights {
		if w.Weight <= 0 {
			continue
		}
		cum += w.Weight
		last = w.Rarity
		if draw < cum {
			return w.Rarity
		}
	}
	return last
}

// candidates is the union of location entries and public pool entries of
// rarity, deduplicated by name.
func (rc *runContext) candidates(rarity game.Rarity) []game.LootEntry {
	seen := map[string]bool{}
	var out []game.LootEntry
	add := func(e game.LootEntry) {
		k := keys.Name(e.Name)
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, e)
	}
	cat := rc.env.Catalog
	if cat == nil {
		return nil
	}
	for _, name := range rc.pool.Snapshot.Items {
		if it, ok := cat.Item(name); ok && it.Rarity == rarity {
			add(game.LootEntry{Name: it.Name, Kind: game.LootItem, Rarity: it.Rarity})
		}
	}
	for _, name := range rc.pool.Snapshot.Weapons {
		if w, ok := cat.Weapon(name); ok && w.Rarity == rarity {
			add(game.LootEntry{Name: w.Name, Kind: game.LootWeapon, Rarity: w.Rarity})
		}
	}
	for _, e := range cat.PublicPool() {
		if e.Rarity == rarity {
			add(e)
		}
	}
	return out
}
