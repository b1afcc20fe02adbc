package engine

import (
	"context"
	"errors"
	"time"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/catalog"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/config"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
)

// seqRand replays fixed draws, cycling when exhausted.
type seqRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *seqRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[r.fi%len(r.floats)]
	r.fi++
	return v
}

func (r *seqRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[r.ii%len(r.ints)]
	r.ii++
	return v % n
}

func (r *seqRand) Shuffle(int, func(i, j int)) {}

var errNoProfile = errors.New("profile not found")

// memStore is an in-memory ProfileStore.
type memStore struct {
	profiles map[string]*game.Profile
	saveErr  error
	// failFor makes Save fail for single participants
	failFor map[string]error
	saves   int
}

func newMemStore(profiles ...*game.Profile) *memStore {
	s := &memStore{profiles: map[string]*game.Profile{}}
	for _, p := range profiles {
		s.profiles[p.ParticipantID] = p.Clone()
	}
	return s
}

func (s *memStore) Get(_ context.Context, id, hint string) (*game.Profile, bool, error) {
	if p, ok := s.profiles[id]; ok {
		return p.Clone(), false, nil
	}
	p := &game.Profile{ParticipantID: id, DisplayName: hint, Injury: game.InjuryNone}
	s.profiles[id] = p
	return p.Clone(), true, nil
}

func (s *memStore) Find(_ context.Context, id string) (*game.Profile, error) {
	if p, ok := s.profiles[id]; ok {
		return p.Clone(), nil
	}
	return nil, errNoProfile
}

func (s *memStore) Save(_ context.Context, p *game.Profile) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if err := s.failFor[p.ParticipantID]; err != nil {
		return err
	}
	s.saves++
	s.profiles[p.ParticipantID] = p.Clone()
	return nil
}

func testCatalog() *catalog.Catalog {
	return catalog.New(&config.LoadedConfig{
		StarterWeapon: "Rusty Knife",
		Items: []game.Item{
			{Name: "Scrap Metal", Rarity: game.RarityCommon, Price: 5, Public: true},
			{Name: "Bandage", Rarity: game.RarityCommon, Price: 8},
			{Name: "Old Coin", Rarity: game.RarityUncommon, Price: 30, Collectible: true},
			{Name: "Harbor Pearl", Rarity: game.RarityRare, Price: 60},
		},
		Weapons: []game.Weapon{
			{Name: "Rusty Knife", Power: 10, Price: 0, Rarity: game.RarityCommon},
			{Name: "Crowbar", Power: 25, Price: 40, Rarity: game.RarityRare},
			{Name: "Hunting Rifle", Power: 60, Price: 150, Rarity: game.RarityEpic},
		},
		Locations: []game.Location{{
			Name: "Old Harbor", Capacity: 4, EntryFee: 10,
			RarityWeights: []game.RarityWeight{{Rarity: game.RarityCommon, Weight: 1}},
			Items:         []string{"Bandage"},
		}},
	})
}

func testEnv(store *memStore) Env {
	env := Env{Catalog: testCatalog(), Rules: DefaultRules()}
	if store != nil {
		env.Profiles = store
	}
	return env
}

func human(id string, power int) *game.Participant {
	w := game.Weapon{Name: "Rusty Knife", Power: power}
	return game.NewHumanParticipant(id, id, w, game.StrategyBalanced, []string{"Rusty Knife"}, 0)
}

func npc(id string, tpl game.NPCTemplate) *game.Participant {
	return game.NewNPCParticipant(id, tpl, game.Weapon{})
}

func testPool(parts ...*game.Participant) *game.Pool {
	loc, _ := testCatalog().Location("Old Harbor")
	p := game.NewPool(loc, time.Now())
	p.Roster = append(p.Roster, parts...)
	return p
}
