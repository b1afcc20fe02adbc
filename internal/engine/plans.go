package engine

import "github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"

type actionKind int

const (
	actionSearch actionKind = iota
	actionFight
	actionIdle
)

type plannedAction struct {
	kind   actionKind
	target *game.Participant
}

// plan picks what p does this turn.
func (rc *runContext) plan(p *game.Participant) plannedAction {
	if p.IsComputerControlled && p.NPC != nil && p.NPC.Hostility.Hunts(p.Strategy) {
		if t := rc.pickTarget(p, true); t != nil {
			return plannedAction{kind: actionFight, target: t}
		}
		return plannedAction{kind: actionSearch}
	}

	chance, _ := p.Strategy.FightChance()
	if rc.rng.Float64() >= chance {
		return plannedAction{kind: actionSearch}
	}
	if t := rc.pickTarget(p, false); t != nil {
		return plannedAction{kind: actionFight, target: t}
	}
	if p.Strategy == game.StrategyAggressive {
		return plannedAction{kind: actionSearch}
	}
	return plannedAction{kind: actionIdle}
}

// pickTarget returns a random targetable participant other than actor.
func (rc *runContext) pickTarget(actor *game.Participant, humansOnly bool) *game.Participant {
	var cands []*game.Participant
	for _, p := range rc.pool.Roster {
		if p == actor || !p.Targetable() {
			continue
		}
		if humansOnly && p.IsComputerControlled {
			continue
		}
		cands = append(cands, p)
	}
	if len(cands) == 0 {
		return nil
	}
	return cands[rc.rng.Intn(len(cands))]
}
