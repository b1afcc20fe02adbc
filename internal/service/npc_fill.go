package service

import (
	"context"
	"sort"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/logging"
)

// randomSpawn rolls the location's join-time spawn once per pool. Caller
// holds mu.
func (m *Manager) randomSpawn(pool *game.Pool) []string {
	if pool.NPCAutoFillUsed {
		return nil
	}
	pool.NPCAutoFillUsed = true
	loc := pool.Snapshot
	if loc.NPCSpawnChance <= 0 || loc.NPCSpawnMax <= 0 || pool.FreeSlots() == 0 {
		return nil
	}
	if m.rng.Float64() >= loc.NPCSpawnChance {
		return nil
	}
	return m.spawnNPCs(pool, m.rng.Intn(loc.NPCSpawnMax+1))
}

// spawnNPCs adds up to n NPCs from templates not yet present in the pool.
// Caller holds mu.
func (m *Manager) spawnNPCs(pool *game.Pool, n int) []string {
	if n > pool.FreeSlots() {
		n = pool.FreeSlots()
	}
	if n <= 0 {
		return nil
	}
	var names []string
	for _, name := range pool.Snapshot.NPCs {
		if !pool.HasTemplate(name) && !game.ContainsName(names, name) {
			names = append(names, name)
		}
	}
	m.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	var spawned []string
	for _, name := range names {
		if len(spawned) == n {
			break
		}
		tpl, ok := m.catalog.NPC(name)
		if !ok {
			logging.Warn("location references unknown npc template", nil, logging.Fields{
				constants.LogFieldLocation: pool.Location,
				constants.LogFieldName:     name,
			})
			continue
		}
		var weapon game.Weapon
		if tpl.Weapon != "" {
			weapon, _ = m.catalog.Weapon(tpl.Weapon)
		}
		part := game.NewNPCParticipant(constants.NPCIDPrefix+m.newID(), tpl, weapon)
		if !pool.Add(part) {
			break
		}
		spawned = append(spawned, tpl.Name)
	}
	if len(spawned) > 0 {
		logging.Info("npcs spawned", logging.Fields{
			constants.LogFieldLocation: pool.Location,
			constants.LogFieldCount:    len(spawned),
		})
	}
	return spawned
}

// OnTimeoutTick fills every waiting pool older than its fill delay with
// distinct NPC templates and starts the ones that become full.
func (m *Manager) OnTimeoutTick(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	poolKeys := make([]string, 0, len(m.pools))
	for k := range m.pools {
		poolKeys = append(poolKeys, k)
	}
	sort.Strings(poolKeys)
	for _, key := range poolKeys {
		pool := m.pools[key]
		if pool.Status != game.PoolWaiting {
			continue
		}
		if now.Sub(pool.QueueOpenedAt) < pool.Snapshot.FillDelay {
			continue
		}
		m.spawnNPCs(pool, pool.FreeSlots())
		if !m.tryStart(ctx, key, pool) {
			logging.Info("pool still short after npc fill", logging.Fields{
				constants.LogFieldLocation: pool.Location,
				constants.LogFieldCount:    len(pool.Roster),
			})
		}
	}
}
