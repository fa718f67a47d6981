package game

import (
	"fmt"

	"github.com/peterkuimelis/gridclash/internal/config"
	"github.com/peterkuimelis/gridclash/internal/log"
)

// Battle resolves attacks, spells, and evolutions between two players.
type Battle struct {
	rules config.Rules
	cards *Registry
	stats *StatDistributor
	rec   *recorder

	// onGameOver is called when security runs out; the Manager routes it to EndGame.
	onGameOver func(winner *Player, reason string)
}

func NewBattle(rules config.Rules, cards *Registry, stats *StatDistributor) *Battle {
	return &Battle{rules: rules, cards: cards, stats: stats}
}

// TargetOptions lists what a creature may attack.
type TargetOptions struct {
	Attacker          *CardInstance
	Position          int
	ValidTargets      []int // defender field positions within range
	CanAttackDirectly bool
	SpecialAbilities  []string
}

// CanAttackDirectly reports whether attacker may strike security: the defender has
// no creatures, or the attacker has Stealth it has not yet spent by acting.
func CanAttackDirectly(attacker *CardInstance, defender *Player) bool {
	if defender.CreatureCount() == 0 {
		return true
	}
	return attacker.Caps().Stealth && !attacker.HasAttackedBefore
}

// ValidTargets returns the attack options for the creature at pos.
func (b *Battle) ValidTargets(attacker, defender *Player, pos int) (TargetOptions, error) {
	card := attacker.Field.At(pos)
	if card == nil {
		return TargetOptions{}, ruleErr(ReasonInvalidIndex, "no creature at position %d", pos)
	}
	opts := TargetOptions{
		Attacker:          card,
		Position:          pos,
		CanAttackDirectly: CanAttackDirectly(card, defender),
		SpecialAbilities:  card.Caps().Abilities(),
	}
	for _, target := range defender.Creatures() {
		if Distance(pos, target.Position) <= card.AttackRange {
			opts.ValidTargets = append(opts.ValidTargets, target.Position)
		}
	}
	return opts, nil
}

// AttackResult describes a resolved creature-vs-creature attack.
type AttackResult struct {
	Attacker          *CardInstance
	Defender          *CardInstance
	AttackerTotal     int
	DefenderTotal     int
	AttackerDestroyed bool
	DefenderDestroyed bool
}

func (b *Battle) readyAttacker(p *Player, pos int) (*CardInstance, error) {
	card := p.Field.At(pos)
	if card == nil {
		return nil, ruleErr(ReasonInvalidIndex, "no creature at position %d", pos)
	}
	if card.Exhausted() {
		return nil, ruleErr(ReasonCannotAttack, "%s cannot attack again this turn", card.Name())
	}
	return card, nil
}

// payAttack charges the attack cost when affordable and exhausts the attacker.
// Attacking is never gated on coins.
func (b *Battle) payAttack(p *Player, card *CardInstance) {
	if p.Coins >= b.rules.AttackCost {
		p.spend(b.rules.AttackCost, fmt.Sprintf("%s attacked", card.Name()))
	}
	card.HasAttacked = true
	card.CanAttack = false
	card.HasAttackedBefore = true
}

// AttackCreature resolves an attack from atkPos against the creature at defPos.
func (b *Battle) AttackCreature(atkP *Player, atkPos int, defP *Player, defPos int) (AttackResult, error) {
	attacker, err := b.readyAttacker(atkP, atkPos)
	if err != nil {
		return AttackResult{}, err
	}
	defender := defP.Field.At(defPos)
	if defender == nil {
		return AttackResult{}, ruleErr(ReasonInvalidIndex, "no defending creature at position %d", defPos)
	}
	if d := Distance(atkPos, defPos); d > attacker.AttackRange {
		return AttackResult{}, ruleErr(ReasonOutOfRange, "%s has range %d, target is %d away",
			attacker.Name(), attacker.AttackRange, d)
	}

	b.payAttack(atkP, attacker)
	b.rec.emit(log.NewAttackDeclareEvent(b.rec.turn(), atkP.ID, attacker.Name(), defender.Name()))

	res := AttackResult{
		Attacker:      attacker,
		Defender:      defender,
		AttackerTotal: AttackTotal(attacker),
		DefenderTotal: DefenseTotal(defender),
	}
	b.rec.emit(log.NewDamageCalcEvent(b.rec.turn(), atkP.ID,
		fmt.Sprintf("%s %d vs %s %d", attacker.Name(), res.AttackerTotal, defender.Name(), res.DefenderTotal)))

	switch {
	case res.AttackerTotal > res.DefenderTotal:
		// A winning attacker always survives; First Strike is reported for display.
		res.DefenderDestroyed = true
		b.rec.emit(log.NewBattleDestroyEvent(b.rec.turn(), defP.ID, defender.Name()))
		defP.sendToTrash(defender, "destroyed by battle")
	case res.AttackerTotal < res.DefenderTotal:
		res.AttackerDestroyed = true
		b.rec.emit(log.NewBattleDestroyEvent(b.rec.turn(), atkP.ID, attacker.Name()))
		atkP.sendToTrash(attacker, "destroyed by battle")
	}
	return res, nil
}

// AttackTotal is the creature's CP plus the backstab bonus it earns from the back row.
func AttackTotal(card *CardInstance) int {
	caps := card.Caps()
	if caps.Backstab && IsBackRow(card.Position) {
		return card.CP() + caps.BackstabBonus
	}
	return card.CP()
}

// DefenseTotal is the creature's CP plus its block bonus.
func DefenseTotal(card *CardInstance) int {
	return card.CP() + card.Caps().BlockBonus
}

// SecurityResult describes a resolved direct attack.
type SecurityResult struct {
	Attacker          *CardInstance
	Revealed          *CardInstance // nil when security was already empty
	AttackerDestroyed bool
	SecurityDestroyed bool
	ReturnedToHand    bool
	Remaining         int
	GameOver          bool
}

// AttackSecurity attacks the defender's security stack directly.
func (b *Battle) AttackSecurity(atkP *Player, atkPos int, defP *Player) (SecurityResult, error) {
	attacker, err := b.readyAttacker(atkP, atkPos)
	if err != nil {
		return SecurityResult{}, err
	}
	if !CanAttackDirectly(attacker, defP) {
		return SecurityResult{}, ruleErr(ReasonCreaturesBlocking, "%s has %d creatures blocking", defP.Name, defP.CreatureCount())
	}

	b.payAttack(atkP, attacker)
	b.rec.emit(log.NewDirectAttackDeclareEvent(b.rec.turn(), atkP.ID, attacker.Name()))

	res := SecurityResult{Attacker: attacker}
	top := defP.Security.Top()
	if top != nil {
		res.Revealed = top
		b.rec.emit(log.NewSecurityRevealEvent(b.rec.turn(), defP.ID, top.Name(), defP.Security.Len()-1))
		if top.IsCreature() {
			b.resolveSecurityCreature(atkP, attacker, defP, top, &res)
		} else {
			b.resolveSecuritySpell(atkP, attacker, defP, top, &res)
		}
	}

	res.Remaining = defP.Security.Len()
	if res.Remaining == 0 {
		res.GameOver = true
		if b.onGameOver != nil {
			b.onGameOver(atkP, "security exhausted")
		}
	}
	return res, nil
}

func (b *Battle) resolveSecurityCreature(atkP *Player, attacker *CardInstance, defP *Player, sec *CardInstance, res *SecurityResult) {
	b.rec.emit(log.NewDamageCalcEvent(b.rec.turn(), atkP.ID,
		fmt.Sprintf("%s %d vs security %s %d", attacker.Name(), attacker.CP(), sec.Name(), sec.CP())))
	if attacker.CP() > sec.CP() {
		res.SecurityDestroyed = true
		defP.sendToTrash(sec, "security broken")
		return
	}
	res.ReturnedToHand = true
	res.AttackerDestroyed = true
	defP.returnToHand(sec, "security held")
	atkP.sendToTrash(attacker, "defeated by security")
}

func (b *Battle) resolveSecuritySpell(atkP *Player, attacker *CardInstance, defP *Player, sec *CardInstance, res *SecurityResult) {
	effect := sec.Template.Security
	if effect == nil {
		effect = &SecurityEffect{Kind: SecurityDiscard}
	}
	if effect.Description != "" {
		b.rec.emit(log.NewSpellEffectEvent(b.rec.turn(), b.rec.phase(), defP.ID, sec.Name(), effect.Description))
	}

	switch effect.Kind {
	case SecurityDamageAttacker:
		if attacker.CP() <= effect.Amount {
			res.AttackerDestroyed = true
			atkP.sendToTrash(attacker, fmt.Sprintf("destroyed by %s", sec.Name()))
		}
		res.SecurityDestroyed = true
		defP.sendToTrash(sec, "security spell resolved")
	case SecurityReturnToHand:
		res.ReturnedToHand = true
		defP.returnToHand(sec, "security spell")
	default:
		res.SecurityDestroyed = true
		defP.sendToTrash(sec, "security spell resolved")
	}
}
