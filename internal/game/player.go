package game

import (
	"fmt"

	"github.com/peterkuimelis/gridclash/internal/config"
	"github.com/peterkuimelis/gridclash/internal/log"
)

// Player represents one player's entire state.
type Player struct {
	ID    string
	Name  string
	Coins int

	Deck           *Pile // top of deck is the last card
	Hand           *Pile
	Security       *Pile // top of security is the last card
	Trash          *Pile
	ApprenticeDeck *Pile

	Field          *Grid
	ApprenticeZone *Grid

	HasPlayedApprentice bool
	HasMoved            map[string]bool

	rules config.Rules
	rec   *recorder
}

// NewPlayer creates a player with empty zones and the starting coin balance.
func NewPlayer(id, name string, rules config.Rules) *Player {
	return &Player{
		ID:             id,
		Name:           name,
		Coins:          rules.StartingCoins,
		Deck:           NewPile(ZoneDeck),
		Hand:           NewPile(ZoneHand),
		Security:       NewPile(ZoneSecurity),
		Trash:          NewPile(ZoneTrash),
		ApprenticeDeck: NewPile(ZoneApprenticeDeck),
		Field:          NewGrid(ZoneField, FieldSize),
		ApprenticeZone: NewGrid(ZoneApprenticeZone, rules.ApprenticeZoneSize),
		HasMoved:       make(map[string]bool),
		rules:          rules,
	}
}

func (p *Player) String() string {
	return p.Name
}

// CreatureCount returns the number of creatures on the field.
func (p *Player) CreatureCount() int {
	return p.Field.Count()
}

// Creatures returns field creatures in position order.
func (p *Player) Creatures() []*CardInstance {
	return p.Field.Cards()
}

// CreatureAt returns the creature at a field position, or nil.
func (p *Player) CreatureAt(pos int) *CardInstance {
	return p.Field.At(pos)
}

// AllCards returns every card the player owns across all zones.
func (p *Player) AllCards() []*CardInstance {
	var out []*CardInstance
	for _, pile := range []*Pile{p.Deck, p.Hand, p.Security, p.Trash, p.ApprenticeDeck} {
		out = append(out, pile.Cards()...)
	}
	out = append(out, p.Field.Cards()...)
	out = append(out, p.ApprenticeZone.Cards()...)
	return out
}

func (p *Player) setCoins(n int, reason string) {
	old := p.Coins
	p.Coins = n
	p.rec.emit(log.NewCoinsChangeEvent(p.rec.turn(), p.rec.phase(), p.ID, old, n, reason))
}

func (p *Player) spend(n int, reason string) {
	if n == 0 {
		return
	}
	p.setCoins(p.Coins-n, reason)
}

func (p *Player) gain(n int, reason string) {
	if n == 0 {
		return
	}
	p.setCoins(p.Coins+n, reason)
}

// zoneOf returns the zone currently holding card.
func (p *Player) zoneOf(card *CardInstance) zone {
	switch card.Zone {
	case ZoneDeck:
		return p.Deck
	case ZoneHand:
		return p.Hand
	case ZoneSecurity:
		return p.Security
	case ZoneTrash:
		return p.Trash
	case ZoneApprenticeDeck:
		return p.ApprenticeDeck
	case ZoneField:
		return p.Field
	case ZoneApprenticeZone:
		return p.ApprenticeZone
	}
	return nil
}

// sendToTrash moves card from wherever it is into the trash.
func (p *Player) sendToTrash(card *CardInstance, reason string) {
	from := p.zoneOf(card)
	if from == nil || !transfer(card, from, p.Trash) {
		return
	}
	card.HasAttacked = false
	card.CanAttack = false
	p.rec.emit(log.NewSendToTrashEvent(p.rec.turn(), p.rec.phase(), p.ID, card.Name(), reason))
}

// returnToHand moves card from wherever it is into the hand.
func (p *Player) returnToHand(card *CardInstance, reason string) {
	from := p.zoneOf(card)
	if from == nil || !transfer(card, from, p.Hand) {
		return
	}
	p.rec.emit(log.NewAddToHandEvent(p.rec.turn(), p.rec.phase(), p.ID, card.Name(), reason))
}

// drawMain moves the top deck card into the hand. It returns nil for an empty deck.
func (p *Player) drawMain() *CardInstance {
	card := p.Deck.Top()
	if card == nil {
		return nil
	}
	transfer(card, p.Deck, p.Hand)
	p.rec.emit(log.NewCardDrawnEvent(p.rec.turn(), p.rec.phase(), p.ID, card.Name(), card.ID, false))
	return card
}

// --- Play ---

// PlayOptions selects where a creature lands and whether it is an evolution play.
type PlayOptions struct {
	Position  *int // nil picks the lowest free slot
	Evolution bool // cost is discounted and paid by the caller
}

// At is a convenience for PlayOptions.Position.
func At(pos int) *int {
	return &pos
}

// PlayResult describes a committed play.
type PlayResult struct {
	Card          *CardInstance
	Position      int
	Displaced     *CardInstance
	Passives      []PassiveRecord
	DrawRequested bool
	Drawn         *CardInstance // set by the Manager when DrawRequested
}

// PlayCost returns what playing card costs, with the evolution discount applied.
func (p *Player) PlayCost(card *CardInstance, evolution bool) int {
	cost := card.Template.Cost
	if evolution {
		cost -= p.rules.EvolutionDiscount
		if cost < 0 {
			cost = 0
		}
	}
	return cost
}

// PlayCard summons a creature from hand onto the field.
func (p *Player) PlayCard(handIndex int, opts PlayOptions) (PlayResult, error) {
	card := p.Hand.At(handIndex)
	if card == nil {
		return PlayResult{}, ruleErr(ReasonInvalidIndex, "no card at hand index %d", handIndex)
	}
	if !card.IsCreature() {
		return PlayResult{}, ruleErr(ReasonNotACreature, "%s is a %s, not a creature", card.Name(), card.Template.Type)
	}
	if opts.Position != nil && (*opts.Position < 0 || *opts.Position >= SummonSlots) {
		return PlayResult{}, ruleErr(ReasonInvalidPosition, "creatures can only be summoned to positions 0-%d", SummonSlots-1)
	}
	cost := p.PlayCost(card, opts.Evolution)
	if p.Coins < cost {
		return PlayResult{}, ruleErr(ReasonNotEnoughCoins, "%s costs %d, you have %d", card.Name(), cost, p.Coins)
	}
	if p.CreatureCount() >= p.rules.MaxFieldCreatures {
		return PlayResult{}, ruleErr(ReasonFieldFull, "field already holds %d creatures", p.CreatureCount())
	}

	pos := p.Field.FirstFree()
	if opts.Position != nil {
		pos = *opts.Position
	}
	if pos == NoPosition {
		return PlayResult{}, ruleErr(ReasonFieldFull, "no free field position")
	}

	res := PlayResult{Card: card, Position: pos}
	if !opts.Evolution {
		p.spend(cost, fmt.Sprintf("played %s", card.Name()))
	}
	if occupant := p.Field.At(pos); occupant != nil {
		p.rec.emit(log.NewDisplaceEvent(p.rec.turn(), p.rec.phase(), p.ID, occupant.Name(), pos))
		p.sendToTrash(occupant, "displaced")
		res.Displaced = occupant
	}
	transferToGrid(card, p.Hand, p.Field, pos)
	card.CanAttack = true
	card.HasAttacked = false

	res.Passives = p.applyPassives(card)
	p.rec.emit(log.NewSummonEvent(p.rec.turn(), p.rec.phase(), p.ID, card.Name(), card.CP(), pos))
	res.DrawRequested = card.Caps().DrawOnPlay
	return res, nil
}

// applyPassives applies every apprentice passive in the apprentice zone to card.
func (p *Player) applyPassives(card *CardInstance) []PassiveRecord {
	var records []PassiveRecord
	for _, a := range p.ApprenticeZone.Cards() {
		if a.Template.Passive == nil {
			continue
		}
		rec := card.ApplyPassive(a.Name(), *a.Template.Passive)
		records = append(records, rec)
		p.rec.emit(log.NewPassiveAppliedEvent(p.rec.turn(), p.rec.phase(), p.ID, card.Name(), a.Name(), rec.Effect))
	}
	return records
}

// --- Movement ---

// MoveResult describes a committed move.
type MoveResult struct {
	Card *CardInstance
	From int
	To   int
}

// MoveCreature moves a field creature one step to an empty position.
func (p *Player) MoveCreature(pos, newPos int) (MoveResult, error) {
	card := p.Field.At(pos)
	if card == nil {
		return MoveResult{}, ruleErr(ReasonInvalidIndex, "no creature at position %d", pos)
	}
	if !validFieldPosition(newPos) {
		return MoveResult{}, ruleErr(ReasonInvalidPosition, "position %d is off the field", newPos)
	}
	if p.Coins < p.rules.MovementCost {
		return MoveResult{}, ruleErr(ReasonNotEnoughCoins, "moving costs %d, you have %d", p.rules.MovementCost, p.Coins)
	}
	if p.HasMoved[card.ID] {
		return MoveResult{}, ruleErr(ReasonAlreadyMoved, "%s already moved this turn", card.Name())
	}
	if p.Field.At(newPos) != nil {
		return MoveResult{}, ruleErr(ReasonPositionOccupied, "position %d is occupied", newPos)
	}
	if Distance(pos, newPos) != adjacentSteps {
		return MoveResult{}, ruleErr(ReasonNotAdjacent, "position %d is not adjacent to %d", newPos, pos)
	}

	p.spend(p.rules.MovementCost, fmt.Sprintf("moved %s", card.Name()))
	p.Field.shift(pos, newPos)
	p.HasMoved[card.ID] = true
	p.rec.emit(log.NewMoveEvent(p.rec.turn(), p.rec.phase(), p.ID, card.Name(), pos, newPos))
	return MoveResult{Card: card, From: pos, To: newPos}, nil
}

// ValidMovementPositions returns the empty positions adjacent to pos.
func (p *Player) ValidMovementPositions(pos int) []int {
	if p.Field.At(pos) == nil {
		return nil
	}
	var out []int
	for to := 0; to < FieldSize; to++ {
		if p.Field.At(to) == nil && Distance(pos, to) == adjacentSteps {
			out = append(out, to)
		}
	}
	return out
}

// ResetForNewTurn clears per-turn flags and readies every field creature.
func (p *Player) ResetForNewTurn() {
	p.HasPlayedApprentice = false
	p.HasMoved = make(map[string]bool)
	for _, c := range p.Field.Cards() {
		c.CanAttack = true
		c.HasAttacked = false
	}
}
