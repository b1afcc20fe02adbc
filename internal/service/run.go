package service

import (
	"context"
	"fmt"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/engine"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/logging"
)

// tryStart moves a full waiting pool to in_progress and launches its run.
// Caller holds mu, which makes the check-and-set the single start guard.
func (m *Manager) tryStart(ctx context.Context, key string, pool *game.Pool) bool {
	if pool.Status != game.PoolWaiting || !pool.Full() {
		return false
	}
	pool.Status = game.PoolInProgress
	rng := m.newRand()
	m.runs.Add(1)
	// runs are not cancellable once started
	go m.run(context.WithoutCancel(ctx), key, pool, rng)
	logging.Info("run started", logging.Fields{
		constants.LogFieldLocation: pool.Location,
		constants.LogFieldCount:    len(pool.Roster),
	})
	return true
}

func (m *Manager) run(ctx context.Context, key string, pool *game.Pool, rng engine.Rand) {
	defer m.runs.Done()
	defer m.finish(key, pool)
	defer func() {
		if r := recover(); r != nil {
			logging.Error("run aborted", fmt.Errorf("panic: %v", r), logging.Fields{constants.LogFieldLocation: pool.Location})
		}
	}()

	engine.RunRounds(ctx, pool, m.env, rng)
	m.publish(ctx, pool, game.PhaseAction, pool.ActionLog)

	failures := engine.Settle(ctx, pool, m.env, rng)
	m.publish(ctx, pool, game.PhaseSettlement, pool.SettlementLog)

	logging.Info("run settled", logging.Fields{
		constants.LogFieldLocation: pool.Location,
		constants.LogFieldFailures: len(failures),
	})
}

func (m *Manager) publish(ctx context.Context, pool *game.Pool, phase game.Phase, lines []game.LogEntry) {
	if m.sink == nil || len(lines) == 0 {
		return
	}
	out := append([]game.LogEntry(nil), lines...)
	if err := m.sink.Publish(ctx, pool.Location, phase, out); err != nil {
		logging.Warn("failed to publish run log", err, logging.Fields{
			constants.LogFieldLocation: pool.Location,
			constants.LogFieldPhase:    string(phase),
		})
	}
}

// finish drops the pool and frees its members for new joins.
func (m *Manager) finish(key string, pool *game.Pool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range pool.Roster {
		if m.members[p.ID] == key {
			delete(m.members, p.ID)
		}
	}
	if m.pools[key] == pool {
		delete(m.pools, key)
	}
}
