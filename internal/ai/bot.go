// Package ai implements a heuristic opponent. The bot plays through the same
// validated operations a human caller uses and never reads hidden information.
package ai

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/peterkuimelis/gridclash/internal/config"
	"github.com/peterkuimelis/gridclash/internal/game"
)

// Engine is the part of game.Manager the bot drives.
type Engine interface {
	State() *game.GameState
	Rules() config.Rules
	AdvancePhase() error
	DrawCard(playerID string, apprentice, optional bool) (game.DrawResult, error)
	PlayCard(playerID string, handIndex int, position *int) (game.PlayResult, error)
	ExecuteSpell(playerID string, handIndex int, targetPlayerID string, targetPos int) (game.SpellResult, error)
	StartEvolution(playerID string, slot int) (game.EvolutionDecision, error)
	EvolveCard(playerID string, pos int, targetID string) (game.EvolveResult, error)
	CancelEvolution(playerID string) error
	MoveCreature(playerID string, from, to int) (game.MoveResult, error)
	ValidTargets(playerID string, pos int) (game.TargetOptions, error)
	AttackCreature(playerID string, atkPos, defPos int) (game.AttackResult, error)
	AttackSecurity(playerID string, atkPos int) (game.SecurityResult, error)
}

// Bot plays one seat.
type Bot struct {
	ID  string
	log *zap.Logger
}

// New creates a bot for playerID. A nil logger discards diagnostics.
func New(playerID string, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{ID: playerID, log: logger.With(zap.String("bot", playerID))}
}

// PlayTurn plays from the current phase through the end of the bot's turn. It
// returns once the turn has been handed over or the game is over.
func (b *Bot) PlayTurn(e Engine) error {
	gs := e.State()
	if gs.Over {
		return nil
	}
	if gs.CurrentPlayer().ID != b.ID {
		return fmt.Errorf("bot %s: not its turn", b.ID)
	}

	for !gs.Over && gs.CurrentPlayer().ID == b.ID {
		switch gs.Phase {
		case game.PhaseDraw:
			b.draw(e)
		case game.PhaseMovement:
			b.move(e)
		case game.PhasePlay:
			b.play(e)
		case game.PhaseAttack:
			b.attack(e)
		}
		if gs.Over {
			break
		}
		if err := e.AdvancePhase(); err != nil {
			return fmt.Errorf("bot %s: advance from %s: %w", b.ID, gs.Phase, err)
		}
	}
	return nil
}

// rejected logs an operation the engine refused. The bot only tries moves it
// believes legal, so a refusal is worth a debug line and nothing more.
func (b *Bot) rejected(op string, err error) bool {
	if err == nil {
		return false
	}
	var re *game.RuleError
	if errors.As(err, &re) {
		b.log.Debug("move rejected", zap.String("op", op), zap.String("reason", re.Reason.String()))
	} else {
		b.log.Warn("move failed", zap.String("op", op), zap.Error(err))
	}
	return true
}

func (b *Bot) me(e Engine) *game.Player { return e.State().Player(b.ID) }

func (b *Bot) draw(e Engine) {
	res, err := e.DrawCard(b.ID, false, false)
	if b.rejected("draw", err) || res.GameOver {
		return
	}
	p := b.me(e)
	if p.ApprenticeDeck.Len() > 0 && p.ApprenticeZone.FirstFree() != game.NoPosition {
		_, err := e.DrawCard(b.ID, true, false)
		b.rejected("draw apprentice", err)
	}
}

// move steps creatures out of the movement-only row so they can fight, keeping a
// coin for the attack phase.
func (b *Bot) move(e Engine) {
	p := b.me(e)
	for _, c := range p.Creatures() {
		if p.Coins <= e.Rules().MovementCost {
			return
		}
		if game.Row(c.Position) < 2 {
			continue
		}
		for _, to := range p.ValidMovementPositions(c.Position) {
			if game.Row(to) < game.Row(c.Position) {
				_, err := e.MoveCreature(b.ID, c.Position, to)
				b.rejected("move", err)
				break
			}
		}
	}
}

func (b *Bot) play(e Engine) {
	b.evolve(e)
	b.castSpells(e)
	b.summon(e)
}

// evolve upgrades the strongest basic creature into its most expensive affordable form.
func (b *Bot) evolve(e Engine) {
	p := b.me(e)
	for slot := 0; slot < p.ApprenticeZone.Size(); slot++ {
		if p.ApprenticeZone.At(slot) == nil {
			continue
		}
		d, err := e.StartEvolution(b.ID, slot)
		if b.rejected("start evolution", err) {
			return
		}
		pos, target := bestEvolution(d)
		if target == "" {
			b.rejected("cancel evolution", e.CancelEvolution(b.ID))
			return
		}
		_, err = e.EvolveCard(b.ID, pos, target)
		if b.rejected("evolve", err) {
			b.rejected("cancel evolution", e.CancelEvolution(b.ID))
		}
		return
	}
}

func bestEvolution(d game.EvolutionDecision) (int, string) {
	pos, target, bestCP, bestCost := game.NoPosition, "", -1, -1
	for _, choice := range d.Choices {
		for _, t := range choice.Targets {
			if !t.Affordable {
				continue
			}
			cp := choice.Card.CP()
			if cp > bestCP || (cp == bestCP && t.Cost > bestCost) {
				pos, target, bestCP, bestCost = choice.Position, t.ID, cp, t.Cost
			}
		}
	}
	return pos, target
}

// castSpells fires damage spells at enemy creatures they will destroy, strongest first.
func (b *Bot) castSpells(e Engine) {
	gs := e.State()
	p := b.me(e)
	opp := gs.Opponent(p)
	for i := 0; i < p.Hand.Len(); i++ {
		c := p.Hand.At(i)
		spell := c.Template.Spell
		if spell == nil || spell.Kind != game.SpellDamage || p.Coins < c.Template.Cost {
			continue
		}
		target := strongestBelow(opp.Creatures(), spell.Amount)
		if target == nil {
			continue
		}
		_, err := e.ExecuteSpell(b.ID, i, opp.ID, target.Position)
		if b.rejected("spell", err) {
			continue
		}
		i--
	}
}

func strongestBelow(cards []*game.CardInstance, limit int) *game.CardInstance {
	var best *game.CardInstance
	for _, c := range cards {
		if c.CP() <= limit && (best == nil || c.CP() > best.CP()) {
			best = c
		}
	}
	return best
}

// summon plays the strongest affordable creatures into free summon slots.
// Backstabbers go to the back row when there is room.
func (b *Bot) summon(e Engine) {
	for {
		p := b.me(e)
		free := p.Field.FreePositions(game.SummonSlots)
		if len(free) == 0 {
			return
		}
		idx := strongestAffordable(p)
		if idx < 0 {
			return
		}
		pos := free[0]
		if p.Hand.At(idx).Caps().Backstab {
			for _, f := range free {
				if game.IsBackRow(f) {
					pos = f
					break
				}
			}
		}
		if _, err := e.PlayCard(b.ID, idx, game.At(pos)); b.rejected("play", err) {
			return
		}
		if e.State().Over {
			return
		}
	}
}

func strongestAffordable(p *game.Player) int {
	best := -1
	for i, c := range p.Hand.Cards() {
		if !c.IsCreature() || p.PlayCost(c, false) > p.Coins {
			continue
		}
		if best < 0 || c.CP() > p.Hand.At(best).CP() {
			best = i
		}
	}
	return best
}

// attack sends every ready creature at security when it can, otherwise at the
// strongest enemy it beats outright.
func (b *Bot) attack(e Engine) {
	p := b.me(e)
	attackers := p.Creatures()
	sort.Slice(attackers, func(i, j int) bool { return attackers[i].CP() > attackers[j].CP() })

	for _, c := range attackers {
		if e.State().Over {
			return
		}
		if c.Exhausted() || c.Zone != game.ZoneField {
			continue
		}
		opts, err := e.ValidTargets(b.ID, c.Position)
		if b.rejected("targets", err) {
			continue
		}
		if opts.CanAttackDirectly {
			_, err := e.AttackSecurity(b.ID, c.Position)
			b.rejected("attack security", err)
			continue
		}
		if def := b.beatable(e, c, opts.ValidTargets); def != nil {
			_, err := e.AttackCreature(b.ID, c.Position, def.Position)
			b.rejected("attack", err)
		}
	}
}

func (b *Bot) beatable(e Engine, attacker *game.CardInstance, positions []int) *game.CardInstance {
	opp := e.State().Opponent(b.me(e))
	total := game.AttackTotal(attacker)
	var best *game.CardInstance
	for _, pos := range positions {
		def := opp.Field.At(pos)
		if def == nil || game.DefenseTotal(def) >= total {
			continue
		}
		if best == nil || def.CP() > best.CP() {
			best = def
		}
	}
	return best
}
