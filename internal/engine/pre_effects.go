package engine

import (
	"math"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/logging"
)

// fold accumulates passive results for one combat resolution.
type fold struct {
	atk, def         *game.Participant
	atkBase, defBase float64
	atkPower         float64
	defPower         float64
	rateMod          float64
	// atkCap limits the attacker's win probability; defCap limits the defender's.
	atkCap, defCap *float64
	atkIgnores     bool
	defIgnores     bool
	trace          []string
	warned         map[string]bool
}

func newFold(atk, def *game.Participant) *fold {
	ab, db := float64(atk.Equipped.Power), float64(def.Equipped.Power)
	return &fold{
		atk: atk, def: def,
		atkBase: ab, defBase: db,
		atkPower: ab, defPower: db,
	}
}

func actorState(p *game.Participant, base, power float64) ActorState {
	return ActorState{
		Name:               displayName(p),
		BasePower:          base,
		Power:              power,
		Wounded:            p.Status == game.StatusWounded,
		ComputerControlled: p.IsComputerControlled,
	}
}

func minCap(cur *float64, c float64) *float64 {
	if cur == nil || c < *cur {
		v := c
		return &v
	}
	return cur
}

// apply folds one passive owned by the attacker (ownerIsAttacker) or the
// defender into the running totals.
func (f *fold) apply(reg *Registry, p game.Passive, ownerIsAttacker bool, rng Rand) {
	atkState := actorState(f.atk, f.atkBase, f.atkPower)
	defState := actorState(f.def, f.defBase, f.defPower)

	var res game.PassiveEffectResult
	var known bool
	if ownerIsAttacker {
		res, known = reg.Apply(atkState, defState, p, rng)
	} else {
		res, known = reg.Apply(defState, atkState, p, rng)
	}
	if !known && !f.warned[p.Kind] {
		if f.warned == nil {
			f.warned = map[string]bool{}
		}
		f.warned[p.Kind] = true
		logging.Warn("unknown passive effect kind", nil, logging.Fields{
			constants.LogFieldKind:     p.Kind,
			constants.LogFieldAttacker: f.atk.ID,
			constants.LogFieldDefender: f.def.ID,
		})
	}

	if ownerIsAttacker {
		f.atkPower += res.PowerDeltaSelf
		f.defPower += res.PowerDeltaOpponent
		f.rateMod += res.SuccessRateDelta
		if res.SuppressOpponentMaxRate != nil {
			f.defCap = minCap(f.defCap, *res.SuppressOpponentMaxRate)
		}
		f.atkIgnores = f.atkIgnores || res.IgnoresWoundThisHit
	} else {
		f.defPower += res.PowerDeltaSelf
		f.atkPower += res.PowerDeltaOpponent
		f.rateMod -= res.SuccessRateDelta
		if res.SuppressOpponentMaxRate != nil {
			f.atkCap = minCap(f.atkCap, *res.SuppressOpponentMaxRate)
		}
		f.defIgnores = f.defIgnores || res.IgnoresWoundThisHit
	}
	f.atkPower = math.Max(f.atkPower, 0)
	f.defPower = math.Max(f.defPower, 0)
	if res.Trace != "" {
		f.trace = append(f.trace, res.Trace)
	}
}

// applyAll runs equipment passives (attacker, then defender) followed by
// innate NPC traits in the same order.
func (f *fold) applyAll(reg *Registry, rng Rand) {
	f.apply(reg, f.atk.Equipped.Passive, true, rng)
	f.apply(reg, f.def.Equipped.Passive, false, rng)
	if f.atk.IsComputerControlled && f.atk.NPC != nil {
		f.apply(reg, f.atk.NPC.Trait, true, rng)
	}
	if f.def.IsComputerControlled && f.def.NPC != nil {
		f.apply(reg, f.def.NPC.Trait, false, rng)
	}
}
