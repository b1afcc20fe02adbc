package engine

import (
	"context"
	"testing"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
)

func TestHumanLosingWhileActiveIsOnlyWounded(t *testing.T) {
	a, b := human("a", 10), human("b", 10)
	a.RunInventory = []string{"Bandage"}
	a.RunCurrency = 12
	pool := testPool(a, b)
	rc := newRunContext(context.Background(), pool, testEnv(nil), &seqRand{floats: []float64{0.5, 0.99}})

	rc.fight(a, b)

	if a.Status != game.StatusWounded {
		t.Fatalf("expected losing attacker to be wounded, got %s", a.Status)
	}
	if len(a.RunInventory) != 1 || a.RunCurrency != 12 || len(b.RunInventory) != 0 || b.RunCurrency != 0 {
		t.Fatalf("no spoils may move on a first loss")
	}
	if !a.CanAct(3) {
		t.Fatalf("wounded participant must stay eligible")
	}
}

func TestWoundedLoserIsDefeatedAndLooted(t *testing.T) {
	a, b := human("a", 10), human("b", 10)
	b.Status = game.StatusWounded
	b.RunInventory = []string{"Harbor Pearl"}
	b.RunCurrency = 7
	pool := testPool(a, b)
	rc := newRunContext(context.Background(), pool, testEnv(nil), &seqRand{})

	rc.applyCombatResult(a, b, game.CombatOutcome{WinnerIsAttacker: true})

	if b.Status != game.StatusDefeated {
		t.Fatalf("expected defeat, got %s", b.Status)
	}
	if len(a.RunInventory) != 1 || a.RunCurrency != 7 || b.RunCurrency != 0 || b.RunInventory != nil {
		t.Fatalf("spoils not transferred: winner=%+v loser=%+v", a, b)
	}
}

func TestIgnoreWoundKeepsWoundedLoserInRun(t *testing.T) {
	a, b := human("a", 10), human("b", 10)
	b.Status = game.StatusWounded
	rc := newRunContext(context.Background(), testPool(a, b), testEnv(nil), &seqRand{})

	rc.applyCombatResult(a, b, game.CombatOutcome{WinnerIsAttacker: true, DefenderIgnoresWound: true})

	if b.Status != game.StatusWounded {
		t.Fatalf("ignore wound should prevent defeat, got %s", b.Status)
	}
}

func TestNPCAftermathSplit(t *testing.T) {
	tests := []struct {
		name   string
		tpl    game.NPCTemplate
		weapon game.Passive
		want   game.ParticipantStatus
	}{
		{"escape", game.NPCTemplate{Name: "Rat", EscapeChance: 1}, game.Passive{}, game.StatusEscaped},
		{"wound", game.NPCTemplate{Name: "Rat", WoundChance: 1}, game.Passive{}, game.StatusWounded},
		{"defeat", game.NPCTemplate{Name: "Rat", DefeatChance: 1}, game.Passive{}, game.StatusDefeated},
		{"all zero defaults to defeat", game.NPCTemplate{Name: "Rat"}, game.Passive{}, game.StatusDefeated},
		{"escape boost", game.NPCTemplate{Name: "Rat", DefeatChance: 1},
			game.Passive{Kind: EffectEscapeBoost, Params: map[string]float64{"amount": 3}}, game.StatusEscaped},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := human("a", 10)
			n := npc("npc-1", tc.tpl)
			n.Equipped.Passive = tc.weapon
			// 0.7 of a boosted total of 4 lands in the escape bucket.
			rc := newRunContext(context.Background(), testPool(a, n), testEnv(nil), &seqRand{floats: []float64{0.7}})
			rc.applyCombatResult(a, n, game.CombatOutcome{WinnerIsAttacker: true})
			if n.Status != tc.want {
				t.Fatalf("status = %s, want %s", n.Status, tc.want)
			}
		})
	}
}

func TestNPCDefeatRollsUniqueLoot(t *testing.T) {
	a := human("a", 10)
	n := npc("npc-1", game.NPCTemplate{
		Name: "Warden", DefeatChance: 1,
		Loot: []game.LootEntry{
			{Name: "Harbor Pearl", Kind: game.LootItem, Chance: 0.5},
			{Name: "Crowbar", Kind: game.LootWeapon, Chance: 0.5},
			{Name: "Old Coin", Kind: game.LootItem, Chance: 0.1},
		},
	})
	rc := newRunContext(context.Background(), testPool(a, n), testEnv(nil), &seqRand{floats: []float64{0.2, 0.3, 0.3, 0.3}})

	rc.applyCombatResult(a, n, game.CombatOutcome{WinnerIsAttacker: true})

	if !game.ContainsName(a.RunInventory, "Harbor Pearl") || game.ContainsName(a.RunInventory, "Old Coin") {
		t.Fatalf("unexpected loot: %v", a.RunInventory)
	}
	if !game.ContainsName(a.RunFoundEquipment, "Crowbar") {
		t.Fatalf("expected looted weapon, got %v", a.RunFoundEquipment)
	}
}

func TestActionLogCarriesNPCImage(t *testing.T) {
	a := human("a", 10)
	n := npc("npc-1", game.NPCTemplate{Name: "Warden", Power: 10, WoundChance: 1,
		Dialogue: map[string]string{"image": "warden.png", "attack": "Halt!"}})
	pool := testPool(a, n)
	rc := newRunContext(context.Background(), pool, testEnv(nil), &seqRand{floats: []float64{0.5, 0.99}})

	rc.fight(n, a)

	if pool.ActionLog[0].Image != "warden.png" {
		t.Fatalf("expected image on the attack line, got %+v", pool.ActionLog[0])
	}
	if pool.ActionLog[1].Text != `[NPC] Warden: "Halt!"` {
		t.Fatalf("unexpected dialogue line %q", pool.ActionLog[1].Text)
	}
}
