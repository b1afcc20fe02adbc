package engine

import (
	"context"
	"fmt"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/logging"
)

// Rand is the subset of *math/rand.Rand the engine draws from. Each run
// owns its own source, so implementations need not be goroutine-safe.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Catalog is the read-only definition provider consumed by the engine.
type Catalog interface {
	Item(name string) (game.Item, bool)
	Weapon(name string) (game.Weapon, bool)
	Location(name string) (game.Location, bool)
	NPC(name string) (game.NPCTemplate, bool)
	PublicPool() []game.LootEntry
	StarterWeapon() string
	Locations() []string
}

// ProfileStore persists player profiles. Find must return an error wrapping
// a not-found sentinel when no record exists; Get creates one instead.
//
//go:generate go tool mockgen -destination=../service/mocks/profile_store_mock.go -package=mocks . ProfileStore
type ProfileStore interface {
	Get(ctx context.Context, participantID, displayNameHint string) (*game.Profile, bool, error)
	Find(ctx context.Context, participantID string) (*game.Profile, error)
	Save(ctx context.Context, p *game.Profile) error
}

// Rules are the numeric knobs of a run.
type Rules struct {
	Rounds              int
	MaxActions          int
	MinWinProbability   float64
	MaxWinProbability   float64
	NoiseDamping        float64
	CollectibleDiscount float64
	DefaultItem         string
	DefaultItemPrice    int
}

func DefaultRules() Rules {
	return Rules{
		Rounds:              constants.RoundsPerRun,
		MaxActions:          constants.MaxActionsPerRun,
		MinWinProbability:   constants.MinWinProbability,
		MaxWinProbability:   constants.MaxWinProbability,
		NoiseDamping:        constants.NoiseDamping,
		CollectibleDiscount: constants.CollectibleDuplicateDiscount,
		DefaultItem:         constants.DefaultItemName,
		DefaultItemPrice:    constants.DefaultItemPrice,
	}
}

// Env bundles the collaborators a run needs.
type Env struct {
	Catalog  Catalog
	Profiles ProfileStore
	Effects  *Registry
	Rules    Rules
}

func (e Env) effects() *Registry {
	if e.Effects == nil {
		return DefaultRegistry()
	}
	return e.Effects
}

// rules fills unset knobs from DefaultRules.
func (e Env) rules() Rules {
	d := DefaultRules()
	r := e.Rules
	if r == (Rules{}) {
		return d
	}
	if r.Rounds <= 0 {
		r.Rounds = d.Rounds
	}
	if r.MaxActions <= 0 {
		r.MaxActions = d.MaxActions
	}
	if r.MaxWinProbability <= 0 {
		r.MinWinProbability, r.MaxWinProbability = d.MinWinProbability, d.MaxWinProbability
	}
	if r.NoiseDamping < 0 {
		r.NoiseDamping = 0
	}
	// zero is a valid discount: duplicates are worth nothing
	if r.CollectibleDiscount < 0 {
		r.CollectibleDiscount = d.CollectibleDiscount
	}
	if r.DefaultItem == "" {
		r.DefaultItem, r.DefaultItemPrice = d.DefaultItem, d.DefaultItemPrice
	}
	return r
}

// --- Run context and helpers ------------------------------------------
type runContext struct {
	ctx   context.Context
	pool  *game.Pool
	env   Env
	rules Rules
	rng   Rand
	round int
}

func newRunContext(ctx context.Context, pool *game.Pool, env Env, rng Rand) *runContext {
	return &runContext{ctx: ctx, pool: pool, env: env, rules: env.rules(), rng: rng}
}

func (rc *runContext) fields(p *game.Participant) logging.Fields {
	f := logging.Fields{constants.LogFieldLocation: rc.pool.Location, constants.LogFieldRound: rc.round}
	if p != nil {
		f[constants.LogFieldParticipant] = p.ID
	}
	return f
}

func (rc *runContext) add(msg string) {
	rc.pool.ActionLog = append(rc.pool.ActionLog, game.LogEntry{Text: msg})
}

func (rc *runContext) addf(format string, args ...interface{}) {
	rc.add(fmt.Sprintf(format, args...))
}

func (rc *runContext) addImage(text, image string) {
	rc.pool.ActionLog = append(rc.pool.ActionLog, game.LogEntry{Text: text, Image: image})
}
