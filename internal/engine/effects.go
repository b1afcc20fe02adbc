package engine

import (
	"fmt"
	"sync"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
)

// Effect kinds understood by the default registry.
const (
	EffectPowerFlat              = "power_flat"
	EffectPowerPercent           = "power_percent"
	EffectOpponentPowerFlat      = "opponent_power_flat"
	EffectOpponentPowerPercent   = "opponent_power_percent"
	EffectSuccessRate            = "success_rate"
	EffectChancePowerFlat        = "chance_power_flat"
	EffectChancePowerPercent     = "chance_power_percent"
	EffectChanceSuccessRate      = "chance_success_rate"
	EffectWoundedSelfPercent     = "wounded_self_power_percent"
	EffectWoundedOpponentPercent = "wounded_opponent_power_percent"
	EffectVersusNPCPercent       = "versus_npc_power_percent"
	EffectVersusHumanPercent     = "versus_human_power_percent"
	EffectUnderdogPercent        = "underdog_power_percent"
	EffectIgnoreWound            = "ignore_wound"
	EffectSuppressOpponentRate   = "suppress_opponent_rate"

	// Marker kinds read outside the power pipeline.
	EffectExpertEvasion = "expert_evasion"
	EffectEscapeBoost   = "escape_boost"
)

// ActorState is what an effect sees of one side of a fight.
type ActorState struct {
	Name               string
	BasePower          float64
	Power              float64
	Wounded            bool
	ComputerControlled bool
}

// EffectFn computes one passive. It must not mutate anything; chance-gated
// kinds draw from rng.
type EffectFn func(self, opp ActorState, p game.Passive, rng Rand) game.PassiveEffectResult

// Registry maps effect kinds to their functions.
type Registry struct {
	mu  sync.RWMutex
	fns map[string]EffectFn
}

// NewRegistry returns a registry preloaded with the built-in kinds.
func NewRegistry() *Registry {
	r := &Registry{fns: make(map[string]EffectFn, 20)}
	for kind, fn := range builtinEffects() {
		r.fns[kind] = fn
	}
	return r
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// DefaultRegistry is the shared registry used when Env.Effects is nil.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() { defaultRegistry = NewRegistry() })
	return defaultRegistry
}

// Register adds or replaces an effect kind.
func (r *Registry) Register(kind string, fn EffectFn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[kind] = fn
}

func (r *Registry) Lookup(kind string) (EffectFn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.fns[kind]
	return fn, ok
}

// Apply runs the passive for self against opp. Absent or unknown kinds
// yield a zero result traced as "no special trait"; known reports whether
// the kind was registered.
func (r *Registry) Apply(self, opp ActorState, p game.Passive, rng Rand) (res game.PassiveEffectResult, known bool) {
	if p.Kind == "" {
		return game.PassiveEffectResult{Trace: self.Name + ": no special trait"}, true
	}
	fn, ok := r.Lookup(p.Kind)
	if !ok {
		return game.PassiveEffectResult{Trace: self.Name + ": no special trait"}, false
	}
	return fn(self, opp, p, rng), true
}

func percentOf(v, pct float64) float64 { return v * pct / 100.0 }

func powerTrace(name, kind string, delta float64, target string) string {
	return fmt.Sprintf("%s [%s]: %+.1f power to %s", name, kind, delta, target)
}

func selfPower(kind string, delta float64, self ActorState) game.PassiveEffectResult {
	return game.PassiveEffectResult{PowerDeltaSelf: delta, Trace: powerTrace(self.Name, kind, delta, "self")}
}

func noTrigger(kind string, self ActorState) game.PassiveEffectResult {
	return game.PassiveEffectResult{Trace: fmt.Sprintf("%s [%s]: did not trigger", self.Name, kind)}
}

// conditionalPercent boosts self power by "percent" when cond holds.
func conditionalPercent(kind string, cond func(self, opp ActorState) bool) EffectFn {
	return func(self, opp ActorState, p game.Passive, _ Rand) game.PassiveEffectResult {
		if !cond(self, opp) {
			return noTrigger(kind, self)
		}
		return selfPower(kind, percentOf(self.Power, p.Param("percent", 0)), self)
	}
}

// chanceGated wraps fn so it only fires when a draw lands under "chance".
func chanceGated(kind string, fn EffectFn) EffectFn {
	return func(self, opp ActorState, p game.Passive, rng Rand) game.PassiveEffectResult {
		chance := p.Param("chance", 0)
		if rng.Float64() >= chance {
			return noTrigger(kind, self)
		}
		return fn(self, opp, p, rng)
	}
}

func builtinEffects() map[string]EffectFn {
	flat := func(kind string) EffectFn {
		return func(self, _ ActorState, p game.Passive, _ Rand) game.PassiveEffectResult {
			return selfPower(kind, p.Param("amount", 0), self)
		}
	}
	percent := func(kind string) EffectFn {
		return func(self, _ ActorState, p game.Passive, _ Rand) game.PassiveEffectResult {
			return selfPower(kind, percentOf(self.Power, p.Param("percent", 0)), self)
		}
	}
	rate := func(kind string) EffectFn {
		return func(self, _ ActorState, p game.Passive, _ Rand) game.PassiveEffectResult {
			d := p.Param("delta", 0)
			return game.PassiveEffectResult{SuccessRateDelta: d, Trace: fmt.Sprintf("%s [%s]: %+.2f success rate", self.Name, kind, d)}
		}
	}

	return map[string]EffectFn{
		EffectPowerFlat:    flat(EffectPowerFlat),
		EffectPowerPercent: percent(EffectPowerPercent),
		EffectOpponentPowerFlat: func(self, opp ActorState, p game.Passive, _ Rand) game.PassiveEffectResult {
			d := -p.Param("amount", 0)
			return game.PassiveEffectResult{PowerDeltaOpponent: d, Trace: powerTrace(self.Name, EffectOpponentPowerFlat, d, opp.Name)}
		},
		EffectOpponentPowerPercent: func(self, opp ActorState, p game.Passive, _ Rand) game.PassiveEffectResult {
			d := -percentOf(opp.Power, p.Param("percent", 0))
			return game.PassiveEffectResult{PowerDeltaOpponent: d, Trace: powerTrace(self.Name, EffectOpponentPowerPercent, d, opp.Name)}
		},
		EffectSuccessRate:        rate(EffectSuccessRate),
		EffectChancePowerFlat:    chanceGated(EffectChancePowerFlat, flat(EffectChancePowerFlat)),
		EffectChancePowerPercent: chanceGated(EffectChancePowerPercent, percent(EffectChancePowerPercent)),
		EffectChanceSuccessRate:  chanceGated(EffectChanceSuccessRate, rate(EffectChanceSuccessRate)),
		EffectWoundedSelfPercent: conditionalPercent(EffectWoundedSelfPercent, func(self, _ ActorState) bool {
			return self.Wounded
		}),
		EffectWoundedOpponentPercent: conditionalPercent(EffectWoundedOpponentPercent, func(_, opp ActorState) bool {
			return opp.Wounded
		}),
		EffectVersusNPCPercent: conditionalPercent(EffectVersusNPCPercent, func(_, opp ActorState) bool {
			return opp.ComputerControlled
		}),
		EffectVersusHumanPercent: conditionalPercent(EffectVersusHumanPercent, func(_, opp ActorState) bool {
			return !opp.ComputerControlled
		}),
		EffectUnderdogPercent: conditionalPercent(EffectUnderdogPercent, func(self, opp ActorState) bool {
			return self.BasePower < opp.BasePower
		}),
		EffectIgnoreWound: func(self, _ ActorState, p game.Passive, rng Rand) game.PassiveEffectResult {
			chance := p.Param("chance", 1)
			if chance < 1 && rng.Float64() >= chance {
				return noTrigger(EffectIgnoreWound, self)
			}
			return game.PassiveEffectResult{IgnoresWoundThisHit: true, Trace: self.Name + " [" + EffectIgnoreWound + "]: will shrug off a wound this hit"}
		},
		EffectSuppressOpponentRate: func(self, opp ActorState, p game.Passive, _ Rand) game.PassiveEffectResult {
			c := p.Param("cap", 1)
			return game.PassiveEffectResult{SuppressOpponentMaxRate: &c, Trace: fmt.Sprintf("%s [%s]: %s capped at %.2f win chance", self.Name, EffectSuppressOpponentRate, opp.Name, c)}
		},
		EffectExpertEvasion: func(self, _ ActorState, _ game.Passive, _ Rand) game.PassiveEffectResult {
			return game.PassiveEffectResult{Trace: self.Name + " [" + EffectExpertEvasion + "]: evasive"}
		},
		EffectEscapeBoost: func(self, _ ActorState, _ game.Passive, _ Rand) game.PassiveEffectResult {
			return game.PassiveEffectResult{Trace: self.Name + " [" + EffectEscapeBoost + "]: ready to flee"}
		},
	}
}
