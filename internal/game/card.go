package game

import "fmt"

// PassiveRecord documents one applied passive, for display and audit.
type PassiveRecord struct {
	Source   string // apprentice name
	Effect   string
	Stat     Stat
	Original int // stat value before the passive
}

// CardInstance is a runtime card. It lives in exactly one zone at a time.
type CardInstance struct {
	ID       string
	Template *Template
	Owner    string // player id

	stats Stats

	Position int // -1 when not on the field or apprentice zone
	Zone     ZoneType

	Class       ClassType
	IsEvolved   bool
	EvolvedFrom string
	Passives    []PassiveRecord

	// Creature combat flags
	HasAttacked       bool
	CanAttack         bool
	HasAttackedBefore bool // persists for the whole game
	AttackRange       int
}

func (ci *CardInstance) String() string {
	if ci == nil {
		return "(empty)"
	}
	if ci.Template.Type == CardTypeCreature {
		return fmt.Sprintf("%s (CP %d)", ci.Template.Name, ci.CP())
	}
	return ci.Template.Name
}

// Name returns the template display name.
func (ci *CardInstance) Name() string {
	return ci.Template.Name
}

// IsCreature reports whether the card is a creature.
func (ci *CardInstance) IsCreature() bool {
	return ci.Template.Type == CardTypeCreature
}

// Caps returns the template's capability descriptor.
func (ci *CardInstance) Caps() Capabilities {
	return ci.Template.Caps
}

// Stats returns a copy of the card's current stats.
func (ci *CardInstance) Stats() Stats {
	return ci.stats
}

// Stat returns a single stat value.
func (ci *CardInstance) Stat(s Stat) int {
	return ci.stats[s]
}

// CP returns the combat power derived from the current stats.
func (ci *CardInstance) CP() int {
	return CalculateCP(ci.stats)
}

// SetStats replaces all stats.
func (ci *CardInstance) SetStats(s Stats) {
	ci.stats = s
}

// SetStat replaces a single stat.
func (ci *CardInstance) SetStat(s Stat, v int) {
	ci.stats[s] = v
}

// ApplyPassive adds amount to a stat and records the change.
func (ci *CardInstance) ApplyPassive(source string, p Passive) PassiveRecord {
	rec := PassiveRecord{
		Source:   source,
		Effect:   p.Description,
		Stat:     p.Stat,
		Original: ci.stats[p.Stat],
	}
	ci.stats[p.Stat] += p.Amount
	if ci.stats[p.Stat] < 0 {
		ci.stats[p.Stat] = 0
	}
	ci.Passives = append(ci.Passives, rec)
	return rec
}

// Exhausted reports whether the creature can no longer act this turn.
func (ci *CardInstance) Exhausted() bool {
	return ci.HasAttacked || !ci.CanAttack
}
