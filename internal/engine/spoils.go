package engine

import (
	"context"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/logging"
)

// TransferSpoils moves a defeated loser's run gains to winner, rolls NPC
// unique loot and, between two humans, attempts the permanent weapon
// transfer. Narrative lines are appended to pool.ActionLog.
func TransferSpoils(ctx context.Context, pool *game.Pool, env Env, rng Rand, winner, loser *game.Participant) {
	newRunContext(ctx, pool, env, rng).transferSpoils(winner, loser)
}

func (rc *runContext) transferSpoils(winner, loser *game.Participant) {
	items := len(loser.RunInventory)
	winner.RunInventory = append(winner.RunInventory, loser.RunInventory...)
	loser.RunInventory = nil

	currency := loser.RunCurrency
	winner.RunCurrency += currency
	loser.RunCurrency = 0

	weapons := 0
	for _, name := range loser.RunFoundEquipment {
		currency += rc.grantWeapon(winner, name, 0)
		weapons++
	}
	loser.RunFoundEquipment = nil

	if items+weapons > 0 || currency > 0 {
		rc.addf("%s takes %d items, %d weapons and %s from %s.",
			displayName(winner), items, weapons, credits(currency), displayName(loser))
	}

	if loser.IsComputerControlled && loser.NPC != nil {
		rc.rollUniqueLoot(winner, loser)
	}
	if !winner.IsComputerControlled && !loser.IsComputerControlled {
		rc.permanentTransfer(winner, loser)
	}
}

func (rc *runContext) rollUniqueLoot(winner, loser *game.Participant) {
	for _, entry := range loser.NPC.UniqueLoot {
		if rc.rng.Float64() >= entry.Chance {
			continue
		}
		switch entry.Kind {
		case game.LootWeapon:
			if paid := rc.grantWeapon(winner, entry.Name, 0); paid > 0 {
				rc.addf("%s loots a spare %s worth %s.", displayName(winner), entry.Name, credits(paid))
			} else {
				rc.addf("%s loots %s.", displayName(winner), entry.Name)
			}
		default:
			winner.RunInventory = append(winner.RunInventory, entry.Name)
			rc.addf("%s loots %s.", displayName(winner), entry.Name)
		}
	}
}

// permanentTransfer moves the loser's equipped weapon between persisted
// profiles. The starter weapon is never taken. A missing profile on either
// side skips this step only.
func (rc *runContext) permanentTransfer(winner, loser *game.Participant) {
	weapon := loser.Equipped.Name
	if weapon == "" || rc.env.Profiles == nil {
		return
	}
	if rc.env.Catalog != nil && sameName(weapon, rc.env.Catalog.StarterWeapon()) {
		return
	}
	fields := rc.fields(loser)
	fields[constants.LogFieldName] = weapon

	loserProfile, err := rc.env.Profiles.Find(rc.ctx, loser.ID)
	if err != nil {
		logging.Warn("skipping permanent weapon transfer: loser profile unavailable", err, fields)
		return
	}
	winnerProfile, err := rc.env.Profiles.Find(rc.ctx, winner.ID)
	if err != nil {
		logging.Warn("skipping permanent weapon transfer: winner profile unavailable", err, fields)
		return
	}
	remaining, ok := game.RemoveName(loserProfile.OwnedWeapons, weapon)
	if !ok {
		logging.Warn("skipping permanent weapon transfer: weapon not in loser inventory", nil, fields)
		return
	}

	if game.ContainsName(winnerProfile.OwnedWeapons, weapon) || winner.Owns(weapon) {
		loserProfile.OwnedWeapons = remaining
		if err := rc.env.Profiles.Save(rc.ctx, loserProfile); err != nil {
			logging.Error("failed to save loser profile after weapon transfer", err, fields)
			return
		}
		rc.addf("%s permanently loses %s.", displayName(loser), weapon)
		price := rc.weaponPrice(weapon, loser.Equipped.Price)
		winner.RunCurrency += price
		rc.addf("%s already owns %s and sells it for %s.", displayName(winner), weapon, credits(price))
		return
	}

	// winner first: a failed write must never leave the weapon owned by
	// nobody
	winnerFields := rc.fields(winner)
	winnerFields[constants.LogFieldName] = weapon
	previous := winnerProfile.OwnedWeapons
	winnerProfile.OwnedWeapons = append(append([]string(nil), previous...), weapon)
	if err := rc.env.Profiles.Save(rc.ctx, winnerProfile); err != nil {
		logging.Error("failed to save winner profile after weapon transfer", err, winnerFields)
		return
	}
	loserProfile.OwnedWeapons = remaining
	if err := rc.env.Profiles.Save(rc.ctx, loserProfile); err != nil {
		logging.Error("failed to save loser profile after weapon transfer", err, fields)
		winnerProfile.OwnedWeapons = previous
		if err := rc.env.Profiles.Save(rc.ctx, winnerProfile); err != nil {
			logging.Error("failed to revert winner profile after weapon transfer", err, winnerFields)
		}
		return
	}
	winner.AcquiredEquipment = append(winner.AcquiredEquipment, weapon)
	rc.addf("%s permanently loses %s.", displayName(loser), weapon)
	rc.addf("%s claims %s for good.", displayName(winner), weapon)
}
