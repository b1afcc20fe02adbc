package engine

import (
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/logging"
)

// fight resolves combat between actor and target and applies the result.
func (rc *runContext) fight(actor, target *game.Participant) {
	announce := displayName(actor) + " attacks " + displayName(target) + "."
	if img := npcImage(actor); img != "" {
		rc.addImage(announce, img)
	} else {
		rc.add(announce)
	}
	rc.npcLine(actor, "attack")
	out := ResolveCombat(actor, target, rc.env, rc.rng)
	for _, line := range out.Trace {
		rc.add("  " + line)
	}
	rc.applyCombatResult(actor, target, out)
}

func (rc *runContext) applyCombatResult(attacker, defender *game.Participant, out game.CombatOutcome) {
	if out.Escaped {
		rc.addf("%s slipped away before the fight began.", displayName(defender))
		return
	}
	winner, loser := attacker, defender
	loserIgnores := out.DefenderIgnoresWound
	if !out.WinnerIsAttacker {
		winner, loser = defender, attacker
		loserIgnores = out.AttackerIgnoresWound
	}
	rc.addf("%s wins the exchange.", displayName(winner))

	switch loser.Status {
	case game.StatusWounded:
		if loserIgnores {
			rc.addf("%s shrugs off the blow and keeps going.", displayName(loser))
			return
		}
		loser.Status = game.StatusDefeated
		rc.addf("%s is defeated.", displayName(loser))
		rc.transferSpoils(winner, loser)
	case game.StatusActive:
		if !loser.IsComputerControlled {
			loser.Status = game.StatusWounded
			rc.addf("%s is wounded but stays in the run.", displayName(loser))
			return
		}
		rc.npcAftermath(winner, loser)
	}
}

// escapeBoost reads the escape_boost marker on the participant's weapon.
func escapeBoost(p *game.Participant) float64 {
	if p.Equipped.Passive.Kind != EffectEscapeBoost {
		return 0
	}
	return p.Equipped.Passive.Param("amount", 0)
}

// npcAftermath rolls the escape/wound/defeat split of an NPC that lost while
// still active. The three chances are normalized to their sum.
func (rc *runContext) npcAftermath(winner, loser *game.Participant) {
	def := loser.NPC.Definition
	escape := def.EscapeChance + escapeBoost(loser)
	wound := def.WoundChance
	defeat := def.DefeatChance
	if escape < 0 {
		escape = 0
	}
	if wound < 0 {
		wound = 0
	}
	if defeat < 0 {
		defeat = 0
	}
	total := escape + wound + defeat
	if total <= 0 {
		logging.Warn("npc outcome chances are all zero, defaulting to defeat", nil, logging.Fields{
			constants.LogFieldName:     def.Name,
			constants.LogFieldLocation: rc.pool.Location,
		})
		escape, wound, total = 0, 0, 1
	}

	r := rc.rng.Float64() * total
	switch {
	case r < escape:
		loser.Status = game.StatusEscaped
		rc.addf("%s flees the fight.", displayName(loser))
		rc.npcLine(loser, "escape")
	case r < escape+wound:
		loser.Status = game.StatusWounded
		rc.addf("%s is wounded.", displayName(loser))
		rc.npcLine(loser, "wounded")
	default:
		loser.Status = game.StatusDefeated
		rc.addf("%s is defeated.", displayName(loser))
		rc.npcLine(loser, "defeat")
		rc.transferSpoils(winner, loser)
	}
}

// npcImage returns the template's portrait reference, if any.
func npcImage(p *game.Participant) string {
	if !p.IsComputerControlled || p.NPC == nil {
		return ""
	}
	return p.NPC.Definition.Dialogue["image"]
}

// npcLine emits the template's dialogue line for key, if any.
func (rc *runContext) npcLine(p *game.Participant, key string) {
	if p.NPC == nil {
		return
	}
	if line := p.NPC.Definition.Dialogue[key]; line != "" {
		rc.addf("%s: \"%s\"", displayName(p), line)
	}
}
