package service

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/engine"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/keys"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/logging"
)

// Notifier receives the narrative of a run, once per phase.
//
//go:generate go tool mockgen -destination=./mocks/notifier_mock.go -package=mocks . Notifier
type Notifier interface {
	Publish(ctx context.Context, location string, phase game.Phase, lines []game.LogEntry) error
}

type JoinRequest struct {
	Location      string
	ParticipantID string
	DisplayName   string
	// Weapon defaults to the starter weapon when empty.
	Weapon string
	// Strategy defaults to balanced when empty.
	Strategy game.Strategy
}

type QueueResult struct {
	Location  string   `json:"location"`
	Position  int      `json:"position"`
	Capacity  int      `json:"capacity"`
	Spawned   []string `json:"spawned,omitempty"`
	Started   bool     `json:"started"`
	FundsLeft int      `json:"funds_left"`
}

type LeaveResult struct {
	Location   string `json:"location"`
	Refunded   int    `json:"refunded"`
	FundsLeft  int    `json:"funds_left"`
	PoolClosed bool   `json:"pool_closed"`
}

type QueueInfo struct {
	Location     string          `json:"location"`
	Status       game.PoolStatus `json:"status"`
	Participants []string        `json:"participants"`
	Humans       int             `json:"humans"`
	Capacity     int             `json:"capacity"`
	EntryFee     int             `json:"entry_fee"`
	OpenedAt     time.Time       `json:"opened_at"`
}

// Manager owns every pool and the participant membership index. All pool
// mutation before a run starts happens under mu; a started pool belongs to
// its run goroutine until it is removed.
type Manager struct {
	mu      sync.Mutex
	pools   map[string]*game.Pool
	members map[string]string

	catalog  engine.Catalog
	profiles engine.ProfileStore
	sink     Notifier
	env      engine.Env

	now     func() time.Time
	newRand func() engine.Rand
	newID   func() string
	// rng serves join-time spawn rolls and is guarded by mu.
	rng  engine.Rand
	runs sync.WaitGroup
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// WithRand replaces the per-run and manager random sources.
func WithRand(newRand func() engine.Rand) Option { return func(m *Manager) { m.newRand = newRand } }

func WithIDs(newID func() string) Option { return func(m *Manager) { m.newID = newID } }

func WithEffects(r *engine.Registry) Option { return func(m *Manager) { m.env.Effects = r } }

func WithRules(r engine.Rules) Option { return func(m *Manager) { m.env.Rules = r } }

func NewManager(cat engine.Catalog, profiles engine.ProfileStore, sink Notifier, opts ...Option) *Manager {
	m := &Manager{
		pools:    make(map[string]*game.Pool),
		members:  make(map[string]string),
		catalog:  cat,
		profiles: profiles,
		sink:     sink,
		env:      engine.Env{Catalog: cat, Profiles: profiles, Rules: engine.DefaultRules()},
		now:      time.Now,
		newRand:  seededRand,
		newID:    func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(m)
	}
	m.rng = m.newRand()
	return m
}

// seededRand returns a math/rand source seeded from crypto/rand.
func seededRand() engine.Rand {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}

// Join validates and enqueues a participant. The lock is held across the
// profile read and fee write so two joins cannot both take the last slot.
func (m *Manager) Join(ctx context.Context, req JoinRequest) (QueueResult, error) {
	loc, ok := m.catalog.Location(req.Location)
	if !ok {
		return QueueResult{}, ErrUnknownLocation
	}
	key := keys.Name(loc.Name)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, queued := m.members[req.ParticipantID]; queued {
		return QueueResult{}, ErrAlreadyQueued
	}
	pool := m.pools[key]
	if pool != nil && pool.Status == game.PoolInProgress {
		return QueueResult{}, ErrRunInProgress
	}
	if pool != nil && pool.Full() {
		return QueueResult{}, ErrPoolFull
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = game.StrategyBalanced
	}
	if _, ok := strategy.FightChance(); !ok {
		return QueueResult{}, ErrUnknownStrategy
	}

	starter := m.catalog.StarterWeapon()
	weaponName := req.Weapon
	if weaponName == "" {
		weaponName = starter
	}
	weapon, ok := m.catalog.Weapon(weaponName)
	if !ok {
		return QueueResult{}, ErrUnknownEquipment
	}
	if weapon.Power < loc.MinPower {
		return QueueResult{}, ErrEquipmentBelowThreshold
	}

	// catalog checks run first; only funds and ownership need the profile,
	// which Get creates on first contact
	prof, created, err := m.profiles.Get(ctx, req.ParticipantID, req.DisplayName)
	if err != nil {
		return QueueResult{}, fmt.Errorf("load profile: %w", err)
	}
	if prof.Funds < loc.EntryFee {
		return QueueResult{}, ErrInsufficientFunds
	}
	isStarter := keys.Name(weapon.Name) == keys.Name(starter)
	if !isStarter && !game.ContainsName(prof.OwnedWeapons, weapon.Name) {
		return QueueResult{}, ErrEquipmentNotOwned
	}

	if loc.EntryFee > 0 {
		prof.Funds -= loc.EntryFee
		if err := m.profiles.Save(ctx, prof); err != nil {
			return QueueResult{}, fmt.Errorf("charge entry fee: %w", err)
		}
	}

	if pool == nil {
		pool = game.NewPool(loc, m.now())
		m.pools[key] = pool
	}
	owned := append([]string(nil), prof.OwnedWeapons...)
	if starter != "" && !game.ContainsName(owned, starter) {
		owned = append(owned, starter)
	}
	name := req.DisplayName
	if name == "" {
		name = prof.DisplayName
	}
	pool.Add(game.NewHumanParticipant(req.ParticipantID, name, weapon, strategy, owned, loc.EntryFee))
	m.members[req.ParticipantID] = key

	res := QueueResult{
		Location:  loc.Name,
		Position:  len(pool.Roster),
		Capacity:  pool.Snapshot.Capacity,
		FundsLeft: prof.Funds,
	}
	res.Spawned = m.randomSpawn(pool)
	res.Started = m.tryStart(ctx, key, pool)

	logging.Info("participant joined", logging.Fields{
		constants.LogFieldLocation:    loc.Name,
		constants.LogFieldParticipant: req.ParticipantID,
		constants.LogFieldCount:       len(pool.Roster),
		"new_profile":                 created,
		"started":                     res.Started,
	})
	return res, nil
}

// Leave removes a waiting participant and refunds the entry fee. The pool is
// discarded once no human remains in it.
func (m *Manager) Leave(ctx context.Context, location, participantID string) (LeaveResult, error) {
	key := keys.Name(location)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.members[participantID] != key {
		return LeaveResult{}, ErrNotQueued
	}
	pool := m.pools[key]
	if pool == nil {
		delete(m.members, participantID)
		return LeaveResult{}, ErrNotQueued
	}
	if pool.Status != game.PoolWaiting {
		return LeaveResult{}, ErrRunAlreadyStarted
	}
	part := pool.Find(participantID)
	if part == nil {
		delete(m.members, participantID)
		return LeaveResult{}, ErrNotQueued
	}

	res := LeaveResult{Location: pool.Location, Refunded: part.EntryFeePaid}
	if part.EntryFeePaid > 0 {
		prof, err := m.profiles.Find(ctx, participantID)
		if err != nil {
			return LeaveResult{}, fmt.Errorf("load profile for refund: %w", err)
		}
		prof.Funds += part.EntryFeePaid
		if err := m.profiles.Save(ctx, prof); err != nil {
			return LeaveResult{}, fmt.Errorf("refund entry fee: %w", err)
		}
		res.FundsLeft = prof.Funds
	} else if prof, err := m.profiles.Find(ctx, participantID); err == nil {
		res.FundsLeft = prof.Funds
	}

	pool.Remove(participantID)
	delete(m.members, participantID)
	if pool.Humans() == 0 {
		delete(m.pools, key)
		res.PoolClosed = true
	}
	logging.Info("participant left", logging.Fields{
		constants.LogFieldLocation:    pool.Location,
		constants.LogFieldParticipant: participantID,
	})
	return res, nil
}

// ListQueues reports every live pool, sorted by location.
func (m *Manager) ListQueues() []QueueInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]QueueInfo, 0, len(m.pools))
	for _, p := range m.pools {
		info := QueueInfo{
			Location: p.Location,
			Status:   p.Status,
			Humans:   p.Humans(),
			Capacity: p.Snapshot.Capacity,
			EntryFee: p.Snapshot.EntryFee,
			OpenedAt: p.QueueOpenedAt,
		}
		for _, part := range p.Roster {
			info.Participants = append(info.Participants, part.DisplayName)
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out
}

// QueuedAt returns the location participantID is queued or running at.
func (m *Manager) QueuedAt(participantID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.members[participantID]
	if !ok {
		return "", false
	}
	if p := m.pools[key]; p != nil {
		return p.Location, true
	}
	return "", false
}

// Wait blocks until every launched run has settled.
func (m *Manager) Wait() { m.runs.Wait() }
