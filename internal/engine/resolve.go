package engine

import (
	"fmt"
	"math"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
)

// evasionCheck reports whether an NPC defender with the expert evasion trait
// qualifies to flee from this attacker.
func evasionCheck(attacker, defender *game.Participant) (game.Passive, bool) {
	if !defender.IsComputerControlled || defender.NPC == nil {
		return game.Passive{}, false
	}
	trait := defender.NPC.Trait
	if trait.Kind != EffectExpertEvasion {
		return game.Passive{}, false
	}
	atk, def := float64(attacker.Equipped.Power), float64(defender.Equipped.Power)
	if atk <= 0 {
		return game.Passive{}, false
	}
	return trait, (atk-def)/atk > trait.Param("gap_ratio", 0.5)
}

// ResolveCombat decides one fight between attacker and defender. The only
// participant mutation it performs is the pre-combat escape of an evasive
// NPC defender; everything else is left to the caller via the outcome.
func ResolveCombat(attacker, defender *game.Participant, env Env, rng Rand) game.CombatOutcome {
	rules := env.rules()

	// 1. pre-combat escape
	if trait, ok := evasionCheck(attacker, defender); ok {
		chance := trait.Param("chance", 0)
		roll := rng.Float64()
		if roll < chance {
			defender.Status = game.StatusEscaped
			return game.CombatOutcome{
				AttackerFinalPower: float64(attacker.Equipped.Power),
				DefenderFinalPower: float64(defender.Equipped.Power),
				Escaped:            true,
				Roll:               roll,
				Threshold:          chance,
				Trace: []string{fmt.Sprintf("%s evades %s (roll %.3f < %.3f)",
					displayName(defender), displayName(attacker), roll, chance)},
			}
		}
	}

	// 2-3. base power plus passives
	f := newFold(attacker, defender)
	f.applyAll(env.effects(), rng)

	// 4. probability
	total := f.atkPower + f.defPower
	p := 0.5
	gap := 0.0
	if total > 0 {
		p = f.atkPower / total
		gap = math.Abs(f.atkPower-f.defPower) / total
	}
	p += f.rateMod
	p += (rng.Float64()*2 - 1) * gap * rules.NoiseDamping
	p = clamp(p, rules.MinWinProbability, rules.MaxWinProbability)
	if f.atkCap != nil {
		p = math.Min(p, *f.atkCap)
	}
	if f.defCap != nil {
		p = math.Max(p, 1-*f.defCap)
	}
	p = clamp(p, rules.MinWinProbability, rules.MaxWinProbability)

	// 5. draw
	roll := rng.Float64()
	out := game.CombatOutcome{
		AttackerFinalPower:   f.atkPower,
		DefenderFinalPower:   f.defPower,
		SuccessRateModifier:  f.rateMod,
		WinnerIsAttacker:     roll < p,
		Roll:                 roll,
		Threshold:            p,
		AttackerIgnoresWound: f.atkIgnores,
		DefenderIgnoresWound: f.defIgnores,
	}
	out.Trace = append(f.trace, fmt.Sprintf("power %.1f vs %.1f, roll %.3f against %.3f",
		f.atkPower, f.defPower, roll, p))
	return out
}
