package game

import (
	"time"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/keys"
)

type PoolStatus string

const (
	PoolWaiting    PoolStatus = "waiting"
	PoolInProgress PoolStatus = "in_progress"
)

type ParticipantStatus string

const (
	StatusActive   ParticipantStatus = "active"
	StatusWounded  ParticipantStatus = "wounded"
	StatusDefeated ParticipantStatus = "defeated"
	StatusEscaped  ParticipantStatus = "escaped"
)

// Terminal reports whether no further transition is possible.
func (s ParticipantStatus) Terminal() bool {
	return s == StatusDefeated || s == StatusEscaped
}

// Phase names the log stream handed to the notification sink.
type Phase string

const (
	PhaseAction     Phase = "action"
	PhaseSettlement Phase = "settlement"
)

// LogEntry is one narrative line, optionally carrying an image reference.
type LogEntry struct {
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

// NPCPayload holds the fields that only computer-controlled participants have.
type NPCPayload struct {
	Definition NPCTemplate
	Trait      Passive
	UniqueLoot []LootEntry
	Hostility  Hostility
}

type Participant struct {
	ID                   string
	DisplayName          string
	IsComputerControlled bool
	// Equipped is a value snapshot taken when the participant was created.
	Equipped     Weapon
	Strategy     Strategy
	Status       ParticipantStatus
	ActionsTaken int

	RunInventory      []string
	RunFoundEquipment []string
	RunCurrency       int

	StartingOwnedEquipment []string
	// AcquiredEquipment lists weapons permanently won from other players
	// during this run; they count as owned for duplicate detection.
	AcquiredEquipment []string
	EntryFeePaid      int

	NPC *NPCPayload
}

// NewHumanParticipant builds a participant from a profile snapshot.
func NewHumanParticipant(id, name string, weapon Weapon, strategy Strategy, owned []string, fee int) *Participant {
	return &Participant{
		ID:                     id,
		DisplayName:            name,
		Equipped:               weapon.Clone(),
		Strategy:               strategy,
		Status:                 StatusActive,
		StartingOwnedEquipment: append([]string(nil), owned...),
		EntryFeePaid:           fee,
	}
}

// NewNPCParticipant spawns a computer-controlled participant from a template.
// weapon is the catalog entry for the template's weapon (zero value if none).
func NewNPCParticipant(id string, tpl NPCTemplate, weapon Weapon) *Participant {
	def := tpl.Clone()
	strategy := def.Strategy
	if _, ok := strategy.FightChance(); !ok {
		strategy = StrategyBalanced
	}
	equipped := weapon.Clone()
	if equipped.Name == "" {
		equipped.Name = def.Weapon
	}
	// NPC combat strength comes from the template, not the weapon entry.
	equipped.Power = def.Power
	var owned []string
	if equipped.Name != "" {
		owned = []string{equipped.Name}
	}
	return &Participant{
		ID:                     id,
		DisplayName:            def.Name,
		IsComputerControlled:   true,
		Equipped:               equipped,
		Strategy:               strategy,
		Status:                 StatusActive,
		StartingOwnedEquipment: owned,
		NPC: &NPCPayload{
			Definition: def,
			Trait:      def.Trait.Clone(),
			UniqueLoot: append([]LootEntry(nil), def.Loot...),
			Hostility:  def.Hostility,
		},
	}
}

// CanAct reports whether the participant may still take an action this run.
func (p *Participant) CanAct(maxActions int) bool {
	return !p.Status.Terminal() && p.ActionsTaken < maxActions
}

// Targetable reports whether the participant can be attacked.
func (p *Participant) Targetable() bool {
	return p.Status == StatusActive || p.Status == StatusWounded
}

// Owns reports whether weapon counts as already owned for duplicate rules.
func (p *Participant) Owns(weapon string) bool {
	return ContainsName(p.StartingOwnedEquipment, weapon) ||
		ContainsName(p.RunFoundEquipment, weapon) ||
		ContainsName(p.AcquiredEquipment, weapon)
}

// TemplateName returns the NPC template name, or "" for humans.
func (p *Participant) TemplateName() string {
	if !p.IsComputerControlled || p.NPC == nil {
		return ""
	}
	return p.NPC.Definition.Name
}

type Pool struct {
	Location        string
	Snapshot        Location
	Roster          []*Participant
	Status          PoolStatus
	QueueOpenedAt   time.Time
	NPCAutoFillUsed bool
	ActionLog       []LogEntry
	SettlementLog   []LogEntry
}

// NewPool opens a waiting pool over a snapshot of loc.
func NewPool(loc Location, now time.Time) *Pool {
	return &Pool{
		Location:      loc.Name,
		Snapshot:      loc.Clone(),
		Status:        PoolWaiting,
		QueueOpenedAt: now,
	}
}

func (p *Pool) Full() bool { return len(p.Roster) >= p.Snapshot.Capacity }

func (p *Pool) FreeSlots() int {
	if n := p.Snapshot.Capacity - len(p.Roster); n > 0 {
		return n
	}
	return 0
}

// Add appends a participant unless that would exceed capacity.
func (p *Pool) Add(part *Participant) bool {
	if p.Full() {
		return false
	}
	p.Roster = append(p.Roster, part)
	return true
}

// Remove drops the participant with id and returns it.
func (p *Pool) Remove(id string) (*Participant, bool) {
	for i, part := range p.Roster {
		if part.ID == id {
			p.Roster = append(p.Roster[:i], p.Roster[i+1:]...)
			return part, true
		}
	}
	return nil, false
}

func (p *Pool) Find(id string) *Participant {
	for _, part := range p.Roster {
		if part.ID == id {
			return part
		}
	}
	return nil
}

func (p *Pool) Humans() int {
	n := 0
	for _, part := range p.Roster {
		if !part.IsComputerControlled {
			n++
		}
	}
	return n
}

// HasTemplate reports whether an NPC spawned from the named template is
// already on the roster.
func (p *Pool) HasTemplate(name string) bool {
	for _, part := range p.Roster {
		if part.IsComputerControlled && keys.Name(part.TemplateName()) == keys.Name(name) {
			return true
		}
	}
	return false
}

// ContainsName compares names the same way the catalog does.
func ContainsName(list []string, name string) bool {
	k := keys.Name(name)
	for _, n := range list {
		if keys.Name(n) == k {
			return true
		}
	}
	return false
}

// RemoveName deletes the first matching name and reports whether one was found.
func RemoveName(list []string, name string) ([]string, bool) {
	k := keys.Name(name)
	for i, n := range list {
		if keys.Name(n) == k {
			out := append([]string(nil), list[:i]...)
			return append(out, list[i+1:]...), true
		}
	}
	return list, false
}
