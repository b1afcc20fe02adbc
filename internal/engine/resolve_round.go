package engine

import (
	"context"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
)

// eligible lists participants that may act this round.
func (rc *runContext) eligible() []*game.Participant {
	var out []*game.Participant
	for _, p := range rc.pool.Roster {
		if p.CanAct(rc.rules.MaxActions) {
			out = append(out, p)
		}
	}
	return out
}

func (rc *runContext) takeTurn(p *game.Participant) {
	act := rc.plan(p)
	switch act.kind {
	case actionFight:
		rc.fight(p, act.target)
	case actionSearch:
		rc.search(p)
	default:
		rc.addf("%s looks for a fight but finds no target.", displayName(p))
	}
}

// RunRounds drives the action rounds of a started pool. Turn order is
// reshuffled every round and a participant whose state changed earlier in
// the round is skipped. It appends to pool.ActionLog and never fails.
func RunRounds(ctx context.Context, pool *game.Pool, env Env, rng Rand) {
	rc := newRunContext(ctx, pool, env, rng)
	rc.addf("The run at %s begins with %d participants.", pool.Location, len(pool.Roster))
	for round := 1; round <= rc.rules.Rounds; round++ {
		rc.round = round
		order := rc.eligible()
		if len(order) == 0 {
			rc.add("Nobody is left standing to act.")
			break
		}
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		rc.addf("Round %d", round)
		for _, p := range order {
			if !p.CanAct(rc.rules.MaxActions) {
				continue
			}
			p.ActionsTaken++
			rc.takeTurn(p)
		}
	}
}
