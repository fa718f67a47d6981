package game

import (
	"fmt"

	"github.com/peterkuimelis/gridclash/internal/log"
)

// SpellResult describes a resolved spell.
type SpellResult struct {
	Spell           *CardInstance
	Target          *CardInstance
	TargetDestroyed bool
	Details         string
}

// ExecuteSpell casts the spell at handIndex on the creature at targetPos. Spells
// cost coins like any other play. The spell always goes to the trash.
func (b *Battle) ExecuteSpell(caster *Player, handIndex int, targetP *Player, targetPos int) (SpellResult, error) {
	spell := caster.Hand.At(handIndex)
	if spell == nil {
		return SpellResult{}, ruleErr(ReasonInvalidIndex, "no card at hand index %d", handIndex)
	}
	if spell.Template.Type != CardTypeSpell || spell.Template.Spell == nil {
		return SpellResult{}, ruleErr(ReasonNotASpell, "%s is not a spell", spell.Name())
	}
	target := targetP.Field.At(targetPos)
	if target == nil {
		return SpellResult{}, ruleErr(ReasonInvalidTarget, "no creature at position %d", targetPos)
	}
	cost := spell.Template.Cost
	if caster.Coins < cost {
		return SpellResult{}, ruleErr(ReasonNotEnoughCoins, "%s costs %d, you have %d", spell.Name(), cost, caster.Coins)
	}

	caster.spend(cost, fmt.Sprintf("cast %s", spell.Name()))
	b.rec.emit(log.NewSpellCastEvent(b.rec.turn(), b.rec.phase(), caster.ID, spell.Name(), target.Name()))

	res := SpellResult{Spell: spell, Target: target}
	effect := spell.Template.Spell
	switch effect.Kind {
	case SpellDamage:
		if target.CP() <= effect.Amount {
			res.TargetDestroyed = true
			res.Details = fmt.Sprintf("%d damage destroys %s (CP %d)", effect.Amount, target.Name(), target.CP())
		} else {
			res.Details = fmt.Sprintf("%s (CP %d) withstands %d damage", target.Name(), target.CP(), effect.Amount)
		}
	case SpellHeal:
		// Not persisted: the CP change is reported only.
		res.Details = fmt.Sprintf("%s restores %d CP to %s", spell.Name(), effect.Amount, target.Name())
	default:
		res.Details = effect.Description
	}
	b.rec.emit(log.NewSpellEffectEvent(b.rec.turn(), b.rec.phase(), caster.ID, spell.Name(), res.Details))

	if res.TargetDestroyed {
		targetP.sendToTrash(target, fmt.Sprintf("destroyed by %s", spell.Name()))
	}
	caster.sendToTrash(spell, "spell resolved")
	return res, nil
}
