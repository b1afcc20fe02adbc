package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/logging"
)

// SettlementFailure records a participant whose profile could not be
// reconciled.
type SettlementFailure struct {
	ParticipantID string
	Err           error
}

func (f SettlementFailure) Error() string {
	return fmt.Sprintf("settle %s: %v", f.ParticipantID, f.Err)
}

func (f SettlementFailure) Unwrap() error { return f.Err }

// ErrNoProfileStore is returned per participant when Env has no store.
var ErrNoProfileStore = errors.New("no profile store configured")

var woundInjuries = []string{game.InjuryLight, game.InjuryModerate, game.InjurySevere}

// Settle reconciles every human participant's run gains into their
// persisted profile. A failure for one participant does not stop the others.
func Settle(ctx context.Context, pool *game.Pool, env Env, rng Rand) []SettlementFailure {
	rc := newRunContext(ctx, pool, env, rng)
	var failures []SettlementFailure
	for _, p := range pool.Roster {
		if p.IsComputerControlled {
			continue
		}
		if err := rc.settle(p); err != nil {
			fields := rc.fields(p)
			logging.Error("settlement failed", err, fields)
			rc.settleLine(fmt.Sprintf("%s could not be settled; their gains were not saved.", displayName(p)))
			failures = append(failures, SettlementFailure{ParticipantID: p.ID, Err: err})
		}
	}
	if len(failures) > 0 {
		logging.Warn("settlement finished with failures", nil, logging.Fields{
			constants.LogFieldLocation: pool.Location,
			constants.LogFieldFailures: len(failures),
		})
	}
	return failures
}

func (rc *runContext) settleLine(text string) {
	rc.pool.SettlementLog = append(rc.pool.SettlementLog, game.LogEntry{Text: text})
}

func (rc *runContext) settle(p *game.Participant) error {
	if rc.env.Profiles == nil {
		return ErrNoProfileStore
	}
	prof, err := rc.env.Profiles.Find(rc.ctx, p.ID)
	if err != nil {
		return fmt.Errorf("find profile: %w", err)
	}

	gain := p.RunCurrency + rc.reconcileItems(prof, p)
	kept := 0
	for _, name := range p.RunFoundEquipment {
		if game.ContainsName(prof.OwnedWeapons, name) {
			gain += rc.weaponPrice(name, 0)
			continue
		}
		prof.OwnedWeapons = append(prof.OwnedWeapons, name)
		kept++
	}
	prof.Funds += gain

	prof.RunsPlayed++
	switch p.Status {
	case game.StatusDefeated:
		prof.Injury, prof.Injured = game.InjurySevere, true
		prof.Defeats++
	case game.StatusWounded:
		prof.Injury, prof.Injured = woundInjuries[rc.rng.Intn(len(woundInjuries))], true
		prof.Extractions++
	default:
		prof.Injury, prof.Injured = game.InjuryNone, false
		prof.Extractions++
	}

	if err := rc.env.Profiles.Save(rc.ctx, prof); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	rc.settleLine(fmt.Sprintf("%s (%s): +%s, %d new weapons, injury %s. Balance %s.",
		displayName(p), p.Status, credits(gain), kept, prof.Injury, credits(prof.Funds)))
	return nil
}

// reconcileItems folds run inventory into prof and returns the currency
// realized. New collectibles are kept; duplicates sell at a discount and
// everything else sells at full price.
func (rc *runContext) reconcileItems(prof *game.Profile, p *game.Participant) int {
	gain := 0
	for _, name := range p.RunInventory {
		item, ok := rc.itemDef(name)
		if !ok {
			if sameName(name, rc.rules.DefaultItem) {
				gain += rc.rules.DefaultItemPrice
				continue
			}
			fields := rc.fields(p)
			fields[constants.LogFieldName] = name
			logging.Warn("unknown item at settlement, counted as worthless", nil, fields)
			continue
		}
		switch {
		case item.Collectible && game.ContainsName(prof.Collectibles, item.Name):
			gain += int(float64(item.Price) * rc.rules.CollectibleDiscount)
		case item.Collectible:
			prof.Collectibles = append(prof.Collectibles, item.Name)
		default:
			gain += item.Price
		}
	}
	return gain
}

func (rc *runContext) itemDef(name string) (game.Item, bool) {
	if rc.env.Catalog == nil {
		return game.Item{}, false
	}
	return rc.env.Catalog.Item(name)
}
