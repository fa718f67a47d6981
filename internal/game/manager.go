package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/peterkuimelis/gridclash/internal/config"
	"github.com/peterkuimelis/gridclash/internal/log"
)

// ManagerConfig holds configuration for creating a new Manager.
type ManagerConfig struct {
	Rules     config.Rules // zero value uses config.DefaultRules
	Registry  *Registry    // nil uses the built-in catalog
	Logger    log.EventLogger
	Zap       *zap.Logger
	Seed      int64 // RNG seed for stats, ids and shuffles (0 for random)
	NoShuffle bool  // keep decks in list order (for deterministic tests)
}

// PlayerDef describes a seat at game start. A nil Deck uses the default deck.
type PlayerDef struct {
	ID   string
	Name string
	Deck *DeckList
}

// Manager owns one game: its state, both players, and the rules components. Every
// inbound operation is checked against the current player and phase before anything
// changes, and each committed operation ends with a StateChanged event.
// A Manager is not safe for concurrent use.
type Manager struct {
	state  *GameState
	rules  config.Rules
	cards  *Registry
	stats  *StatDistributor
	decks  *DeckManager
	battle *Battle

	bus    *EventBus
	rec    *recorder
	logger log.EventLogger
	zap    *zap.Logger

	shuffle Shuffler
}

// NewManager creates a manager with no game in progress; call InitGame next.
func NewManager(cfg ManagerConfig) *Manager {
	rules := cfg.Rules
	if rules == (config.Rules{}) {
		rules = config.DefaultRules()
	}
	cards := cfg.Registry
	if cards == nil {
		cards = DefaultRegistry()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	z := cfg.Zap
	if z == nil {
		z = zap.NewNop()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	cards.SetIDSource(rng)

	shuffle := SeededShuffler(rng)
	if cfg.NoShuffle {
		shuffle = NoShuffle
	}

	m := &Manager{
		state:   &GameState{},
		rules:   rules,
		cards:   cards,
		stats:   NewStatDistributor(rng),
		bus:     NewEventBus(),
		logger:  logger,
		zap:     z,
		shuffle: shuffle,
	}
	m.rec = &recorder{state: m.state, logger: logger, bus: m.bus}
	m.battle = NewBattle(rules, cards, m.stats)
	m.battle.rec = m.rec
	m.battle.onGameOver = m.finish
	m.decks = NewDeckManager(rules, cards, m.stats, shuffle)
	return m
}

// State returns the live game state. Callers must treat it as read-only.
func (m *Manager) State() *GameState { return m.state }

func (m *Manager) Rules() config.Rules { return m.rules }

func (m *Manager) Registry() *Registry { return m.cards }

// Logger returns the event log.
func (m *Manager) Logger() log.EventLogger { return m.logger }

// Subscribe registers a listener for all events and returns its handle.
func (m *Manager) Subscribe(l Listener) int { return m.bus.Subscribe(l) }

// SubscribeTyped registers a listener for one event type.
func (m *Manager) SubscribeTyped(t log.EventType, l Listener) int {
	return m.bus.SubscribeTyped(t, l)
}

func (m *Manager) Unsubscribe(handle int) { m.bus.Unsubscribe(handle) }

// --- Setup ---

// InitGame starts a new game between a and b, replacing any game in progress.
// An invalid custom deck falls back to the default deck; an unknown template aborts.
func (m *Manager) InitGame(a, b PlayerDef) error {
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		return fmt.Errorf("init game: players need distinct ids, got %q and %q", a.ID, b.ID)
	}

	gs := &GameState{}
	m.state = gs
	m.rec.state = gs
	m.decks = NewDeckManager(m.rules, m.cards, m.stats, m.shuffle)

	for i, def := range []PlayerDef{a, b} {
		name := def.Name
		if name == "" {
			name = def.ID
		}
		p := NewPlayer(def.ID, name, m.rules)
		p.rec = m.rec
		gs.Players[i] = p

		if def.Deck == nil {
			continue
		}
		err := m.decks.RegisterCustomDeck(def.ID, *def.Deck)
		if errors.Is(err, ErrTemplateNotFound) {
			return fmt.Errorf("init game: %w", err)
		}
		if err != nil {
			m.zap.Warn("custom deck rejected, using default deck",
				zap.String("player", def.ID), zap.Error(err))
		}
	}

	gs.Turn = 1
	gs.Phase = PhaseDraw
	for _, p := range gs.Players {
		if err := m.setupPlayer(p); err != nil {
			return fmt.Errorf("init game: %w", err)
		}
	}
	gs.Started = true

	m.rec.emit(log.NewGameInitializedEvent(gs.Players[0].Name, gs.Players[1].Name))
	m.rec.emit(log.NewTurnEvent(gs.Turn, gs.CurrentPlayer().ID))
	m.rec.emit(log.NewPhaseChangeEvent(gs.Turn, gs.Phase.String(), gs.CurrentPlayer().ID))
	m.commit()
	m.zap.Info("game initialized",
		zap.String("player_a", gs.Players[0].ID),
		zap.String("player_b", gs.Players[1].ID))
	return nil
}

// setupPlayer builds the player's decks, sets security aside, and deals the hand.
func (m *Manager) setupPlayer(p *Player) error {
	main, err := m.decks.BuildMainDeck(p.ID)
	if err != nil {
		return err
	}
	apprentices, err := m.decks.BuildApprenticeDeck(p.ID)
	if err != nil {
		return err
	}
	if need := m.rules.SecurityCount + m.rules.InitialHandSize; len(main) < need {
		return fmt.Errorf("%s's deck has %d cards, need at least %d", p.ID, len(main), need)
	}
	for _, c := range main {
		p.Deck.push(c)
	}
	for _, c := range apprentices {
		p.ApprenticeDeck.push(c)
	}
	m.rec.emit(log.NewShuffleEvent(m.state.Turn, p.ID, "main"))
	m.rec.emit(log.NewShuffleEvent(m.state.Turn, p.ID, "apprentice"))

	for i := 0; i < m.rules.SecurityCount; i++ {
		transfer(p.Deck.Top(), p.Deck, p.Security)
	}
	for i := 0; i < m.rules.InitialHandSize; i++ {
		p.drawMain()
	}
	return nil
}

// --- Legality ---

// actor returns the player for playerID after checking that the game is running,
// that it is their turn, and that the phase is one of phases (any when empty).
func (m *Manager) actor(playerID string, phases ...Phase) (*Player, error) {
	gs := m.state
	if !gs.Started {
		return nil, ruleErr(ReasonWrongPhaseOrPlayer, "no game in progress")
	}
	if gs.Over {
		return nil, ruleErr(ReasonGameOver, "game is over: %s", gs.Result)
	}
	p := gs.Player(playerID)
	if p == nil {
		return nil, ruleErr(ReasonWrongPhaseOrPlayer, "unknown player %q", playerID)
	}
	if p != gs.CurrentPlayer() {
		return nil, ruleErr(ReasonWrongPhaseOrPlayer, "it is %s's turn", gs.CurrentPlayer().Name)
	}
	if len(phases) == 0 {
		return p, nil
	}
	for _, ph := range phases {
		if gs.Phase == ph {
			return p, nil
		}
	}
	return nil, ruleErr(ReasonWrongPhaseOrPlayer, "not allowed in the %s phase", gs.Phase)
}

func (m *Manager) reject(op string, err error) error {
	m.zap.Debug("action rejected", zap.String("op", op), zap.Error(err))
	return err
}

// commit announces that an operation finished changing state.
func (m *Manager) commit() {
	gs := m.state
	m.rec.emit(log.NewStateChangedEvent(gs.Turn, gs.Phase.String(), gs.CurrentPlayer().ID))
}

// --- Phases ---

// AdvancePhase moves to the next phase. Advancing past end hands the turn over:
// the other player becomes current, both players are reset for the new turn, and
// the incoming player gains CoinsPerTurn on top of their balance.
func (m *Manager) AdvancePhase() error {
	gs := m.state
	if !gs.Started {
		return m.reject("advance", ruleErr(ReasonWrongPhaseOrPlayer, "no game in progress"))
	}
	if gs.Over {
		return m.reject("advance", ruleErr(ReasonGameOver, "game is over: %s", gs.Result))
	}

	if gs.Phase == PhasePlay && gs.Evolution.Active {
		m.clearEvolution()
	}

	next, wrapped := gs.Phase.Next()
	gs.Phase = next
	if wrapped {
		gs.Current = 1 - gs.Current
		if gs.Current == 0 {
			gs.Turn++
		}
		for _, p := range gs.Players {
			p.ResetForNewTurn()
		}
		gs.MainDrawTaken = false
		incoming := gs.CurrentPlayer()
		m.rec.emit(log.NewTurnEvent(gs.Turn, incoming.ID))
		incoming.gain(m.rules.CoinsPerTurn, "turn start")
	}

	m.rec.emit(log.NewPhaseChangeEvent(gs.Turn, gs.Phase.String(), gs.CurrentPlayer().ID))
	m.commit()
	return nil
}

// --- Drawing ---

// DrawResult describes a draw.
type DrawResult struct {
	Card       *CardInstance
	Apprentice bool
	Rejected   bool // apprentice went back to the bottom of its deck
	GameOver   bool // the main deck was empty
}

// DrawCard draws for playerID. The regular main draw is free, happens in the draw
// phase, and only once per turn. Optional draws cost OptionalDrawCost and may happen
// in any phase of the player's turn. Apprentice draws go straight to the apprentice
// zone; one that would exceed the per-turn limit or a full zone goes back to the
// bottom of the apprentice deck and reports ErrApprenticeLimit.
func (m *Manager) DrawCard(playerID string, apprentice, optional bool) (DrawResult, error) {
	var phases []Phase
	if !apprentice && !optional {
		phases = []Phase{PhaseDraw}
	}
	p, err := m.actor(playerID, phases...)
	if err != nil {
		return DrawResult{}, m.reject("draw", err)
	}
	if !apprentice && !optional && m.state.MainDrawTaken {
		return DrawResult{}, m.reject("draw", ruleErr(ReasonWrongPhaseOrPlayer, "the turn's draw was already taken"))
	}
	cost := 0
	if optional {
		cost = m.rules.OptionalDrawCost
	}
	if p.Coins < cost {
		return DrawResult{}, m.reject("draw", ruleErr(ReasonNotEnoughCoins, "an extra draw costs %d, you have %d", cost, p.Coins))
	}

	if apprentice {
		return m.drawApprentice(p, cost)
	}

	if p.Deck.Len() == 0 {
		m.finish(m.state.Opponent(p), "deck out")
		m.commit()
		return DrawResult{GameOver: true}, nil
	}
	p.spend(cost, "extra draw")
	card := p.drawMain()
	if !optional {
		m.state.MainDrawTaken = true
	}
	m.commit()
	return DrawResult{Card: card}, nil
}

func (m *Manager) drawApprentice(p *Player, cost int) (DrawResult, error) {
	card := p.ApprenticeDeck.Top()
	if card == nil {
		return DrawResult{}, m.reject("draw", ruleErr(ReasonEmptyDeck, "%s's apprentice deck is empty", p.Name))
	}
	slot := p.ApprenticeZone.FirstFree()
	if p.HasPlayedApprentice || slot == NoPosition {
		reason := "apprentice zone is full"
		if p.HasPlayedApprentice {
			reason = "only one apprentice per turn"
		}
		transferToBottom(card, p.ApprenticeDeck, p.ApprenticeDeck)
		m.rec.emit(log.NewApprenticeRejectedEvent(m.state.Turn, m.state.Phase.String(), p.ID, card.Name(), reason))
		m.commit()
		return DrawResult{Card: card, Apprentice: true, Rejected: true},
			m.reject("draw", ruleErr(ReasonApprenticeLimit, "%s", reason))
	}

	p.spend(cost, "extra apprentice draw")
	transferToGrid(card, p.ApprenticeDeck, p.ApprenticeZone, slot)
	p.HasPlayedApprentice = true
	m.rec.emit(log.NewCardDrawnEvent(m.state.Turn, m.state.Phase.String(), p.ID, card.Name(), card.ID, true))
	m.commit()
	return DrawResult{Card: card, Apprentice: true}, nil
}

// --- Play phase ---

// PlacementOptions returns where the creature at handIndex may be summoned.
func (m *Manager) PlacementOptions(playerID string, handIndex int) (PlacementDecision, error) {
	p, err := m.actor(playerID, PhasePlay)
	if err != nil {
		return PlacementDecision{}, err
	}
	card := p.Hand.At(handIndex)
	if card == nil {
		return PlacementDecision{}, ruleErr(ReasonInvalidIndex, "no card at hand index %d", handIndex)
	}
	if !card.IsCreature() {
		return PlacementDecision{}, ruleErr(ReasonNotACreature, "%s is not a creature", card.Name())
	}
	d := PlacementDecision{
		Card:    card,
		Cost:    p.PlayCost(card, false),
		Free:    p.Field.FreePositions(SummonSlots),
		Default: p.Field.FirstFree(),
	}
	for pos := 0; pos < SummonSlots; pos++ {
		d.Positions = append(d.Positions, pos)
	}
	return d, nil
}

// PlayCard summons the creature at handIndex. A nil position picks the lowest free
// slot. Player.PlayCard only reports DrawRequested for draw-on-play creatures; the
// Manager answers it with a main draw straight away, which can end the game by
// deck out. The drawn card is returned in Drawn.
func (m *Manager) PlayCard(playerID string, handIndex int, position *int) (PlayResult, error) {
	p, err := m.actor(playerID, PhasePlay)
	if err != nil {
		return PlayResult{}, m.reject("play", err)
	}
	res, err := p.PlayCard(handIndex, PlayOptions{Position: position})
	if err != nil {
		return PlayResult{}, m.reject("play", err)
	}
	if res.DrawRequested {
		if res.Drawn = p.drawMain(); res.Drawn == nil {
			m.finish(m.state.Opponent(p), "deck out")
		}
	}
	m.commit()
	return res, nil
}

// ExecuteSpell casts the spell at handIndex on the creature at targetPos of
// targetPlayerID's field.
func (m *Manager) ExecuteSpell(playerID string, handIndex int, targetPlayerID string, targetPos int) (SpellResult, error) {
	p, err := m.actor(playerID, PhasePlay)
	if err != nil {
		return SpellResult{}, m.reject("spell", err)
	}
	target := m.state.Player(targetPlayerID)
	if target == nil {
		return SpellResult{}, m.reject("spell", ruleErr(ReasonInvalidTarget, "unknown player %q", targetPlayerID))
	}
	res, err := m.battle.ExecuteSpell(p, handIndex, target, targetPos)
	if err != nil {
		return SpellResult{}, m.reject("spell", err)
	}
	m.commit()
	return res, nil
}

// StartEvolution opens an evolution with the apprentice in slot and returns the
// creatures it can evolve.
func (m *Manager) StartEvolution(playerID string, slot int) (EvolutionDecision, error) {
	p, err := m.actor(playerID, PhasePlay)
	if err != nil {
		return EvolutionDecision{}, m.reject("evolve", err)
	}
	if m.state.Evolution.Active {
		return EvolutionDecision{}, m.reject("evolve", ruleErr(ReasonWrongPhaseOrPlayer, "an evolution is already in progress"))
	}
	apprentice := p.ApprenticeZone.At(slot)
	if apprentice == nil {
		return EvolutionDecision{}, m.reject("evolve", ruleErr(ReasonInvalidIndex, "no apprentice in slot %d", slot))
	}

	m.state.Evolution = EvolutionContext{Active: true, Apprentice: apprentice, Player: p.ID}
	m.rec.emit(log.NewEvolutionStartedEvent(m.state.Turn, m.state.Phase.String(), p.ID, apprentice.Name()))
	m.commit()
	return m.evolutionDecision(p, apprentice), nil
}

func (m *Manager) evolutionDecision(p *Player, apprentice *CardInstance) EvolutionDecision {
	d := EvolutionDecision{Apprentice: apprentice}
	for _, opt := range m.battle.EvolutionOptions(p) {
		choice := EvolutionChoice{Position: opt.Position, Card: opt.Card}
		for _, t := range opt.Targets {
			cost := m.battle.EvolutionCost(t)
			choice.Targets = append(choice.Targets, EvolutionTarget{
				ID:         t.ID,
				Name:       t.Name,
				Cost:       cost,
				Affordable: p.Coins >= cost,
			})
		}
		d.Choices = append(d.Choices, choice)
	}
	return d
}

// EvolveCard resolves the open evolution: the basic creature at pos becomes targetID
// and the apprentice is consumed.
func (m *Manager) EvolveCard(playerID string, pos int, targetID string) (EvolveResult, error) {
	p, err := m.actor(playerID, PhasePlay)
	if err != nil {
		return EvolveResult{}, m.reject("evolve", err)
	}
	ctx := m.state.Evolution
	if !ctx.Active || ctx.Player != p.ID {
		return EvolveResult{}, m.reject("evolve", ruleErr(ReasonNoEvolutionInProgress, "start an evolution with an apprentice first"))
	}
	res, err := m.battle.EvolveCard(p, pos, targetID)
	if err != nil {
		return EvolveResult{}, m.reject("evolve", err)
	}
	p.sendToTrash(ctx.Apprentice, "consumed by evolution")
	m.state.Evolution = EvolutionContext{}
	m.commit()
	return res, nil
}

// CancelEvolution abandons the open evolution; the apprentice stays in its zone.
func (m *Manager) CancelEvolution(playerID string) error {
	p, err := m.actor(playerID, PhasePlay)
	if err != nil {
		return m.reject("evolve", err)
	}
	if !m.state.Evolution.Active || m.state.Evolution.Player != p.ID {
		return m.reject("evolve", ruleErr(ReasonNoEvolutionInProgress, "no evolution to cancel"))
	}
	m.clearEvolution()
	m.commit()
	return nil
}

func (m *Manager) clearEvolution() {
	ctx := m.state.Evolution
	m.state.Evolution = EvolutionContext{}
	if ctx.Active {
		m.rec.emit(log.NewEvolutionCancelledEvent(m.state.Turn, m.state.Phase.String(), ctx.Player, ctx.Apprentice.Name()))
	}
}

// --- Movement phase ---

// MoveCreature moves playerID's creature from one field position to an adjacent one.
func (m *Manager) MoveCreature(playerID string, from, to int) (MoveResult, error) {
	p, err := m.actor(playerID, PhaseMovement)
	if err != nil {
		return MoveResult{}, m.reject("move", err)
	}
	res, err := p.MoveCreature(from, to)
	if err != nil {
		return MoveResult{}, m.reject("move", err)
	}
	m.commit()
	return res, nil
}

// --- Attack phase ---

// ValidTargets returns the attack options for playerID's creature at pos. It only
// reads state and may be called at any time.
func (m *Manager) ValidTargets(playerID string, pos int) (TargetOptions, error) {
	p := m.state.Player(playerID)
	if p == nil {
		return TargetOptions{}, ruleErr(ReasonWrongPhaseOrPlayer, "unknown player %q", playerID)
	}
	return m.battle.ValidTargets(p, m.state.Opponent(p), pos)
}

// AttackCreature attacks the opponent's creature at defPos with the creature at atkPos.
func (m *Manager) AttackCreature(playerID string, atkPos, defPos int) (AttackResult, error) {
	p, err := m.actor(playerID, PhaseAttack)
	if err != nil {
		return AttackResult{}, m.reject("attack", err)
	}
	res, err := m.battle.AttackCreature(p, atkPos, m.state.Opponent(p), defPos)
	if err != nil {
		return AttackResult{}, m.reject("attack", err)
	}
	m.commit()
	return res, nil
}

// AttackSecurity attacks the opponent's security stack with the creature at atkPos.
func (m *Manager) AttackSecurity(playerID string, atkPos int) (SecurityResult, error) {
	p, err := m.actor(playerID, PhaseAttack)
	if err != nil {
		return SecurityResult{}, m.reject("attack", err)
	}
	res, err := m.battle.AttackSecurity(p, atkPos, m.state.Opponent(p))
	if err != nil {
		return SecurityResult{}, m.reject("attack", err)
	}
	m.commit()
	return res, nil
}

// --- Game end ---

// EndGame ends the game in winnerID's favour. Every win condition goes through here.
func (m *Manager) EndGame(winnerID, reason string) error {
	gs := m.state
	if !gs.Started {
		return ruleErr(ReasonWrongPhaseOrPlayer, "no game in progress")
	}
	if gs.Over {
		return ruleErr(ReasonGameOver, "game is already over: %s", gs.Result)
	}
	winner := gs.Player(winnerID)
	if winner == nil {
		return ruleErr(ReasonWrongPhaseOrPlayer, "unknown player %q", winnerID)
	}
	m.finish(winner, reason)
	m.commit()
	return nil
}

func (m *Manager) finish(winner *Player, reason string) {
	gs := m.state
	if gs.Over {
		return
	}
	gs.Over = true
	gs.Winner = winner.ID
	gs.Result = reason
	gs.Evolution = EvolutionContext{}
	m.rec.emit(log.NewGameOverEvent(gs.Turn, gs.Phase.String(), winner.ID, winner.Name, reason))
	m.zap.Info("game over",
		zap.String("winner", winner.ID),
		zap.String("reason", reason),
		zap.Int("turn", gs.Turn))
}
