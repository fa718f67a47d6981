package game

import (
	"fmt"

	"github.com/peterkuimelis/gridclash/internal/log"
)

// EvolveResult describes a committed evolution.
type EvolveResult struct {
	From     *CardInstance // the basic creature, now in the trash
	To       *CardInstance // the new advanced creature
	Position int
	Cost     int
}

// EvolutionCost returns what evolving into target costs after the discount.
func (b *Battle) EvolutionCost(target *Template) int {
	cost := target.Cost - b.rules.EvolutionDiscount
	if cost < 0 {
		return 0
	}
	return cost
}

// EvolveCard replaces the basic creature at pos with a fresh advanced creature built
// from targetID. The new creature gets a full advanced stat budget and keeps the slot.
func (b *Battle) EvolveCard(p *Player, pos int, targetID string) (EvolveResult, error) {
	basic := p.Field.At(pos)
	if basic == nil {
		return EvolveResult{}, ruleErr(ReasonInvalidIndex, "no creature at position %d", pos)
	}
	if basic.Class != ClassBasic {
		return EvolveResult{}, ruleErr(ReasonNotBasicClass, "%s is not a basic creature", basic.Name())
	}
	if !basic.Template.CanEvolveInto(targetID) {
		return EvolveResult{}, ruleErr(ReasonInvalidEvolutionPath, "%s cannot evolve into %q", basic.Name(), targetID)
	}
	target, ok := b.cards.Template(targetID)
	if !ok {
		return EvolveResult{}, ruleErr(ReasonTemplateNotFound, "unknown card template %q", targetID)
	}
	cost := b.EvolutionCost(target)
	if p.Coins < cost {
		return EvolveResult{}, ruleErr(ReasonNotEnoughCoins, "evolving into %s costs %d, you have %d", target.Name, cost, p.Coins)
	}

	evolved, err := b.cards.NewCard(targetID, false)
	if err != nil {
		return EvolveResult{}, err
	}
	evolved.Owner = p.ID
	evolved.IsEvolved = true
	evolved.EvolvedFrom = basic.Template.ID
	b.stats.Distribute(evolved, true)

	p.spend(cost, fmt.Sprintf("evolved %s", basic.Name()))
	p.sendToTrash(basic, fmt.Sprintf("evolved into %s", target.Name))
	p.Field.place(evolved, pos)
	evolved.CanAttack = true
	b.rec.emit(log.NewEvolveEvent(b.rec.turn(), b.rec.phase(), p.ID, basic.Name(), target.Name, evolved.CP(), pos))

	return EvolveResult{From: basic, To: evolved, Position: pos, Cost: cost}, nil
}

// EvolutionOption is one basic creature that can evolve and what it can become.
type EvolutionOption struct {
	Position int
	Card     *CardInstance
	Targets  []*Template
}

// EvolutionOptions lists every basic field creature with at least one target.
func (b *Battle) EvolutionOptions(p *Player) []EvolutionOption {
	var out []EvolutionOption
	for _, c := range p.Creatures() {
		if c.Class != ClassBasic || len(c.Template.Evolutions) == 0 {
			continue
		}
		opt := EvolutionOption{Position: c.Position, Card: c}
		for _, id := range c.Template.Evolutions {
			if t, ok := b.cards.Template(id); ok {
				opt.Targets = append(opt.Targets, t)
			}
		}
		out = append(out, opt)
	}
	return out
}
