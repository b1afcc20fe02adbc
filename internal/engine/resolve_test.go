package engine

import (
	"math"
	"math/rand"
	"testing"

	"pgregory.net/rapid"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
)

func TestResolveCombat_WinRateMatchesPowerRatio(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	env := testEnv(nil)
	const trials = 10000
	wins := 0
	for i := 0; i < trials; i++ {
		out := ResolveCombat(human("a", 100), human("b", 50), env, rng)
		if out.WinnerIsAttacker {
			wins++
		}
	}
	rate := float64(wins) / trials
	if math.Abs(rate-2.0/3.0) > 0.03 {
		t.Fatalf("attacker win rate %.3f, want about 0.667", rate)
	}
}

func TestResolveCombat_ExpertEvasion(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	env := testEnv(nil)
	tpl := game.NPCTemplate{
		Name: "Scavenger", Power: 40,
		Trait: game.Passive{Kind: EffectExpertEvasion, Params: map[string]float64{"gap_ratio": 0.5, "chance": 0.75}},
	}
	const trials = 5000
	escaped := 0
	for i := 0; i < trials; i++ {
		def := npc("npc-1", tpl)
		out := ResolveCombat(human("a", 100), def, env, rng)
		if out.Escaped {
			if def.Status != game.StatusEscaped {
				t.Fatalf("escaped outcome without escaped status")
			}
			escaped++
		}
	}
	rate := float64(escaped) / trials
	if math.Abs(rate-0.75) > 0.03 {
		t.Fatalf("escape rate %.3f, want about 0.75", rate)
	}
}

func TestResolveCombat_EvasionNeedsPowerGap(t *testing.T) {
	tpl := game.NPCTemplate{
		Name: "Scavenger", Power: 60,
		Trait: game.Passive{Kind: EffectExpertEvasion, Params: map[string]float64{"gap_ratio": 0.5, "chance": 1}},
	}
	def := npc("npc-1", tpl)
	out := ResolveCombat(human("a", 100), def, testEnv(nil), &seqRand{floats: []float64{0.5}})
	if out.Escaped || def.Status != game.StatusActive {
		t.Fatalf("defender within the gap ratio must not evade")
	}
	// evasion never applies to human defenders
	out = ResolveCombat(human("a", 100), human("b", 1), testEnv(nil), &seqRand{floats: []float64{0.5}})
	if out.Escaped {
		t.Fatalf("human defender evaded")
	}
}

func TestResolveCombat_FoldsPassivesBothSides(t *testing.T) {
	atk := human("a", 50)
	atk.Equipped.Passive = game.Passive{Kind: EffectPowerFlat, Params: map[string]float64{"amount": 10}}
	def := human("b", 50)
	def.Equipped.Passive = game.Passive{Kind: EffectOpponentPowerFlat, Params: map[string]float64{"amount": 20}}
	out := ResolveCombat(atk, def, testEnv(nil), &seqRand{floats: []float64{0.5, 0.1}})
	if out.AttackerFinalPower != 40 || out.DefenderFinalPower != 50 {
		t.Fatalf("final powers %v/%v, want 40/50", out.AttackerFinalPower, out.DefenderFinalPower)
	}
	if !out.WinnerIsAttacker || out.Roll != 0.1 {
		t.Fatalf("expected roll 0.1 to favor attacker: %+v", out)
	}
}

func TestResolveCombat_SuppressionCapsOpponent(t *testing.T) {
	atk := human("a", 10)
	atk.Equipped.Passive = game.Passive{Kind: EffectSuppressOpponentRate, Params: map[string]float64{"cap": 0.6}}
	out := ResolveCombat(atk, human("b", 1000), testEnv(nil), &seqRand{floats: []float64{0.5, 0.99}})
	if math.Abs(out.Threshold-0.4) > 1e-9 {
		t.Fatalf("threshold %.3f, want 0.4 from the defender cap", out.Threshold)
	}
}

func TestResolveCombat_ProbabilityAlwaysClamped(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		atk := human("a", rapid.IntRange(0, 500).Draw(t, "atk"))
		def := human("b", rapid.IntRange(0, 500).Draw(t, "def"))
		atk.Equipped.Passive = game.Passive{Kind: EffectSuccessRate, Params: map[string]float64{
			"delta": rapid.Float64Range(-2, 2).Draw(t, "delta"),
		}}
		if rapid.Bool().Draw(t, "capped") {
			def.Equipped.Passive = game.Passive{Kind: EffectSuppressOpponentRate, Params: map[string]float64{
				"cap": rapid.Float64Range(0, 1).Draw(t, "cap"),
			}}
		}
		rng := rand.New(rand.NewSource(rapid.Int64().Draw(t, "seed")))
		out := ResolveCombat(atk, def, testEnv(nil), rng)
		if out.Threshold < 0.05 || out.Threshold > 0.95 {
			t.Fatalf("threshold %v outside [0.05, 0.95]", out.Threshold)
		}
	})
}

func TestResolveCombat_ZeroPowersAreEven(t *testing.T) {
	out := ResolveCombat(human("a", 0), human("b", 0), testEnv(nil), &seqRand{floats: []float64{0.9, 0.49}})
	if out.Threshold != 0.5 || !out.WinnerIsAttacker {
		t.Fatalf("expected an even 0.5 threshold, got %+v", out)
	}
}
