package engine

import (
	"context"
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
)

func crowbarHuman(id string) *game.Participant {
	w, _ := testCatalog().Weapon("Crowbar")
	return game.NewHumanParticipant(id, id, w, game.StrategyBalanced, []string{"Rusty Knife", "Crowbar"}, 0)
}

func TestPermanentTransferMovesWeapon(t *testing.T) {
	store := newMemStore(
		&game.Profile{ParticipantID: "w", OwnedWeapons: []string{"Rusty Knife"}},
		&game.Profile{ParticipantID: "l", OwnedWeapons: []string{"Rusty Knife", "Crowbar"}},
	)
	winner, loser := human("w", 10), crowbarHuman("l")
	loser.Status = game.StatusDefeated

	TransferSpoils(context.Background(), testPool(winner, loser), testEnv(store), &seqRand{}, winner, loser)

	if game.ContainsName(store.profiles["l"].OwnedWeapons, "Crowbar") {
		t.Fatalf("loser kept the transferred weapon")
	}
	if !game.ContainsName(store.profiles["w"].OwnedWeapons, "Crowbar") || !game.ContainsName(winner.AcquiredEquipment, "Crowbar") {
		t.Fatalf("winner did not receive the weapon")
	}
	if !winner.Owns("Crowbar") {
		t.Fatalf("acquired weapon should count as owned for duplicates")
	}
}

func TestPermanentTransferDuplicatePaysPrice(t *testing.T) {
	store := newMemStore(
		&game.Profile{ParticipantID: "w", OwnedWeapons: []string{"Rusty Knife", "Crowbar"}},
		&game.Profile{ParticipantID: "l", OwnedWeapons: []string{"Rusty Knife", "Crowbar"}},
	)
	winner, loser := crowbarHuman("w"), crowbarHuman("l")

	TransferSpoils(context.Background(), testPool(winner, loser), testEnv(store), &seqRand{}, winner, loser)

	if winner.RunCurrency != 40 {
		t.Fatalf("expected 40 credits for the duplicate, got %d", winner.RunCurrency)
	}
	if len(store.profiles["w"].OwnedWeapons) != 2 {
		t.Fatalf("winner inventory grew on a duplicate: %v", store.profiles["w"].OwnedWeapons)
	}
}

func TestStarterWeaponIsNeverLost(t *testing.T) {
	store := newMemStore(
		&game.Profile{ParticipantID: "w", OwnedWeapons: []string{"Crowbar"}},
		&game.Profile{ParticipantID: "l", OwnedWeapons: []string{"Rusty Knife"}},
	)
	winner, loser := crowbarHuman("w"), human("l", 10)

	TransferSpoils(context.Background(), testPool(winner, loser), testEnv(store), &seqRand{}, winner, loser)

	if !game.ContainsName(store.profiles["l"].OwnedWeapons, "Rusty Knife") {
		t.Fatalf("starter weapon was removed")
	}
	if game.ContainsName(store.profiles["w"].OwnedWeapons, "Rusty Knife") || store.saves != 0 {
		t.Fatalf("starter weapon must not be transferred")
	}
}

func TestMissingProfileSkipsOnlyPermanentStep(t *testing.T) {
	store := newMemStore(&game.Profile{ParticipantID: "w"})
	winner, loser := human("w", 10), crowbarHuman("l")
	loser.RunInventory = []string{"Bandage"}
	loser.RunCurrency = 9

	TransferSpoils(context.Background(), testPool(winner, loser), testEnv(store), &seqRand{}, winner, loser)

	if winner.RunCurrency != 9 || len(winner.RunInventory) != 1 {
		t.Fatalf("in-run transfer must still happen: %+v", winner)
	}
	if len(winner.AcquiredEquipment) != 0 || store.saves != 0 {
		t.Fatalf("permanent transfer should have been skipped")
	}
}

func TestPermanentTransferFailedSaveKeepsWeaponOwned(t *testing.T) {
	for _, failing := range []string{"w", "l"} {
		store := newMemStore(
			&game.Profile{ParticipantID: "w", OwnedWeapons: []string{"Rusty Knife"}},
			&game.Profile{ParticipantID: "l", OwnedWeapons: []string{"Rusty Knife", "Crowbar"}},
		)
		store.failFor = map[string]error{failing: errors.New("disk full")}
		winner, loser := human("w", 10), crowbarHuman("l")
		loser.Status = game.StatusDefeated

		TransferSpoils(context.Background(), testPool(winner, loser), testEnv(store), &seqRand{}, winner, loser)

		if !game.ContainsName(store.profiles["l"].OwnedWeapons, "Crowbar") {
			t.Fatalf("save failing for %s: loser lost the weapon", failing)
		}
		if game.ContainsName(store.profiles["w"].OwnedWeapons, "Crowbar") {
			t.Fatalf("save failing for %s: weapon duplicated to the winner", failing)
		}
		if len(winner.AcquiredEquipment) != 0 || winner.Owns("Crowbar") {
			t.Fatalf("save failing for %s: winner marked as owner %v", failing, winner.AcquiredEquipment)
		}
	}
}

func TestSpoilsConserveCurrency(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		winner, loser := human("w", 10), human("l", 10)
		winner.RunCurrency = rapid.IntRange(0, 1000).Draw(t, "winner")
		loser.RunCurrency = rapid.IntRange(0, 1000).Draw(t, "loser")
		before := winner.RunCurrency + loser.RunCurrency

		TransferSpoils(context.Background(), testPool(winner, loser), testEnv(nil), &seqRand{}, winner, loser)

		if winner.RunCurrency+loser.RunCurrency != before || loser.RunCurrency != 0 {
			t.Fatalf("currency not conserved: %d+%d != %d", winner.RunCurrency, loser.RunCurrency, before)
		}
	})
}

func TestSpoilsWeaponDuplicatesBecomeCurrency(t *testing.T) {
	winner, loser := crowbarHuman("w"), human("l", 10)
	loser.RunFoundEquipment = []string{"Crowbar", "Hunting Rifle"}

	TransferSpoils(context.Background(), testPool(winner, loser), testEnv(nil), &seqRand{}, winner, loser)

	if winner.RunCurrency != 40 {
		t.Fatalf("expected duplicate crowbar to pay 40, got %d", winner.RunCurrency)
	}
	if len(winner.RunFoundEquipment) != 1 || winner.RunFoundEquipment[0] != "Hunting Rifle" {
		t.Fatalf("unexpected found equipment %v", winner.RunFoundEquipment)
	}
}
