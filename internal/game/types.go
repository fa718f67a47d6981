package game

import "fmt"

// --- Enums ---

type Phase int

const (
	PhaseDraw Phase = iota
	PhaseMovement
	PhasePlay
	PhaseAttack
	PhaseEnd
)

// phaseCount is the length of the cyclic phase order.
const phaseCount = 5

func (p Phase) String() string {
	switch p {
	case PhaseDraw:
		return "draw"
	case PhaseMovement:
		return "movement"
	case PhasePlay:
		return "play"
	case PhaseAttack:
		return "attack"
	case PhaseEnd:
		return "end"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Next returns the following phase and whether the cycle wrapped past end.
func (p Phase) Next() (Phase, bool) {
	if p == PhaseEnd {
		return PhaseDraw, true
	}
	return p + 1, false
}

type CardType int

const (
	CardTypeCreature CardType = iota
	CardTypeSpell
	CardTypeApprentice
)

func (ct CardType) String() string {
	switch ct {
	case CardTypeCreature:
		return "creature"
	case CardTypeSpell:
		return "spell"
	case CardTypeApprentice:
		return "apprentice"
	default:
		return "unknown"
	}
}

type ClassType int

const (
	ClassNone ClassType = iota
	ClassBasic
	ClassAdvanced
)

func (c ClassType) String() string {
	switch c {
	case ClassBasic:
		return "basic"
	case ClassAdvanced:
		return "advanced"
	default:
		return ""
	}
}

// --- Stats ---

type Stat int

const (
	STR Stat = iota
	VIT
	DEX
	INT
	EXP
	statCount
)

func (s Stat) String() string {
	switch s {
	case STR:
		return "STR"
	case VIT:
		return "VIT"
	case DEX:
		return "DEX"
	case INT:
		return "INT"
	case EXP:
		return "EXP"
	default:
		return "?"
	}
}

// Stats maps each stat to its value.
type Stats [statCount]int

// Total returns the sum of all stat values.
func (s Stats) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// --- Template effects ---

type SpellKind int

const (
	SpellNone SpellKind = iota
	SpellDamage
	SpellHeal
	SpellNoop
)

// SpellEffect describes what a spell does when cast from hand.
type SpellEffect struct {
	Kind        SpellKind
	Amount      int
	Description string
}

type SecurityKind int

const (
	SecurityDiscard SecurityKind = iota
	SecurityDamageAttacker
	SecurityReturnToHand
)

// SecurityEffect describes what a spell does when revealed from security.
type SecurityEffect struct {
	Kind        SecurityKind
	Amount      int
	Description string
}

// Passive is an apprentice's stat boost applied to creatures its owner summons.
type Passive struct {
	Stat        Stat
	Amount      int
	Description string
}

// Capabilities is the per-template combat descriptor. It is resolved once when the
// template is registered; combat code never inspects template ids.
type Capabilities struct {
	Stealth       bool
	Backstab      bool
	BackstabBonus int
	FirstStrike   bool
	BlockBonus    int
	AttackRange   int
	DrawOnPlay    bool
}

// Abilities lists the named combat modifiers, for display.
func (c Capabilities) Abilities() []string {
	var out []string
	if c.Stealth {
		out = append(out, "Stealth")
	}
	if c.Backstab {
		out = append(out, "Backstab")
	}
	if c.FirstStrike {
		out = append(out, "First Strike")
	}
	if c.BlockBonus > 0 {
		out = append(out, "Block")
	}
	if c.AttackRange > 1 {
		out = append(out, fmt.Sprintf("Range %d", c.AttackRange))
	}
	if c.DrawOnPlay {
		out = append(out, "Arcane Draw")
	}
	return out
}

// --- Card template (static, shared) ---

type Template struct {
	ID          string
	Name        string
	Description string
	Type        CardType
	Class       ClassType // creatures only
	Cost        int
	Stats       Stats
	Ability     string   // display tag, e.g. "Stealth"
	Evolutions  []string // template ids this basic creature can evolve into
	EvolvesFrom string

	Spell    *SpellEffect
	Security *SecurityEffect
	Passive  *Passive

	Caps Capabilities
}

func (t *Template) String() string {
	return t.Name
}

// CanEvolveInto reports whether id is one of this template's evolution targets.
func (t *Template) CanEvolveInto(id string) bool {
	for _, e := range t.Evolutions {
		if e == id {
			return true
		}
	}
	return false
}

// --- Zone types ---

type ZoneType int

const (
	ZoneNone ZoneType = iota
	ZoneDeck
	ZoneHand
	ZoneField
	ZoneApprenticeDeck
	ZoneApprenticeZone
	ZoneSecurity
	ZoneTrash
)

func (z ZoneType) String() string {
	switch z {
	case ZoneDeck:
		return "deck"
	case ZoneHand:
		return "hand"
	case ZoneField:
		return "field"
	case ZoneApprenticeDeck:
		return "apprentice deck"
	case ZoneApprenticeZone:
		return "apprentice zone"
	case ZoneSecurity:
		return "security"
	case ZoneTrash:
		return "trash"
	default:
		return "none"
	}
}
