package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/gridclash/internal/log"
)

func TestInitGame(t *testing.T) {
	m, logger := newTestManager(t)
	gs := m.State()

	assert.True(t, gs.Started)
	assert.False(t, gs.Over)
	assert.Equal(t, PhaseDraw, gs.Phase)
	assert.Equal(t, 1, gs.Turn)
	assert.Equal(t, alice, gs.CurrentPlayer().ID)

	for _, p := range gs.Players {
		assert.Equal(t, 5, p.Hand.Len())
		assert.Equal(t, 5, p.Security.Len())
		assert.Equal(t, 32, p.Deck.Len())
		assert.Equal(t, 5, p.ApprenticeDeck.Len())
		assert.Equal(t, 3, p.Coins)
		requireCPInvariant(t, p)
	}

	assert.Len(t, logger.EventsOfType(log.EventGameInitialized), 1)
	assert.Len(t, logger.EventsOfType(log.EventCardDrawn), 10)
	assert.Equal(t, log.EventStateChanged, logger.LastEvent().Type)
}

func TestInitGameCustomDecks(t *testing.T) {
	m := NewManager(ManagerConfig{Seed: 1, NoShuffle: true})
	tooSmall := &DeckList{Main: repeat("warrior", 12)}
	require.NoError(t, m.InitGame(
		PlayerDef{ID: alice, Deck: tooSmall},
		PlayerDef{ID: bob, Deck: &DeckList{Main: repeat("rogue", 30)}},
	))
	assert.Equal(t, 32, m.State().Players[0].Deck.Len(), "invalid deck falls back to default")
	assert.Equal(t, 20, m.State().Players[1].Deck.Len())
	assert.Equal(t, "alice", m.State().Players[0].Name)

	err := m.InitGame(
		PlayerDef{ID: alice, Deck: &DeckList{Main: repeat("dragon", 30)}},
		PlayerDef{ID: bob},
	)
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	assert.Error(t, m.InitGame(PlayerDef{ID: alice}, PlayerDef{ID: alice}))
}

func TestOperationsBeforeInit(t *testing.T) {
	m := NewManager(ManagerConfig{})
	assert.ErrorIs(t, m.AdvancePhase(), ErrWrongPhaseOrPlayer)
	_, err := m.DrawCard(alice, false, false)
	assert.ErrorIs(t, err, ErrWrongPhaseOrPlayer)
	assert.ErrorIs(t, m.EndGame(alice, "test"), ErrWrongPhaseOrPlayer)
}

func TestAdvancePhaseHandover(t *testing.T) {
	m, logger := newTestManager(t)
	gs := m.State()

	for _, want := range []Phase{PhaseMovement, PhasePlay, PhaseAttack, PhaseEnd} {
		require.NoError(t, m.AdvancePhase())
		assert.Equal(t, want, gs.Phase)
		assert.Equal(t, alice, gs.CurrentPlayer().ID)
	}

	require.NoError(t, m.AdvancePhase())
	assert.Equal(t, PhaseDraw, gs.Phase)
	assert.Equal(t, bob, gs.CurrentPlayer().ID)
	assert.Equal(t, 1, gs.Turn, "turn counts up only when play returns to the first player")
	assert.Equal(t, 4, gs.Player(bob).Coins)
	assert.Equal(t, 3, gs.Player(alice).Coins)

	for i := 0; i < phaseCount; i++ {
		require.NoError(t, m.AdvancePhase())
	}
	assert.Equal(t, alice, gs.CurrentPlayer().ID)
	assert.Equal(t, 2, gs.Turn)
	assert.Equal(t, 4, gs.Player(alice).Coins)

	changes := logger.EventsOfType(log.EventPhaseChange)
	assert.Len(t, changes, 11)
	assert.Equal(t, log.EventStateChanged, logger.LastEvent().Type)
}

func TestHandoverResetsCreatures(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.State().Player(alice)
	c := place(a, newCard(t, m.Registry(), "warrior", alice, cp(3000)), 0)
	c.HasAttacked = true
	c.CanAttack = false
	a.HasMoved[c.ID] = true

	for i := 0; i < phaseCount; i++ {
		require.NoError(t, m.AdvancePhase())
	}
	assert.True(t, c.CanAttack)
	assert.False(t, c.HasAttacked)
	assert.Empty(t, a.HasMoved)
}

func TestPhaseAndPlayerGating(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.State().Player(alice)
	place(a, newCard(t, m.Registry(), "warrior", alice, cp(3000)), 0)

	_, err := m.MoveCreature(alice, 0, 1)
	assert.ErrorIs(t, err, ErrWrongPhaseOrPlayer, "draw phase")

	_, err = m.PlayCard(alice, 0, nil)
	assert.ErrorIs(t, err, ErrWrongPhaseOrPlayer)

	_, err = m.AttackSecurity(alice, 0)
	assert.ErrorIs(t, err, ErrWrongPhaseOrPlayer)

	_, err = m.DrawCard(bob, false, false)
	assert.ErrorIs(t, err, ErrWrongPhaseOrPlayer, "not bob's turn")

	_, err = m.DrawCard("carol", false, false)
	assert.ErrorIs(t, err, ErrWrongPhaseOrPlayer)

	advanceTo(t, m, PhaseMovement)
	_, err = m.MoveCreature(alice, 0, 1)
	assert.NoError(t, err)
	assert.Equal(t, 2, a.Coins)
}

func TestMainDrawOncePerTurn(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.State().Player(alice)
	top := a.Deck.Top()

	res, err := m.DrawCard(alice, false, false)
	require.NoError(t, err)
	assert.Same(t, top, res.Card)
	assert.True(t, a.Hand.Contains(top))
	assert.Equal(t, 3, a.Coins, "the turn's draw is free")

	_, err = m.DrawCard(alice, false, false)
	assert.ErrorIs(t, err, ErrWrongPhaseOrPlayer)

	_, err = m.DrawCard(alice, false, true)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Coins)
	assert.Equal(t, 7, a.Hand.Len())
}

func TestOptionalDrawNeedsCoins(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.State().Player(alice)
	a.Coins = 0
	advanceTo(t, m, PhasePlay)

	_, err := m.DrawCard(alice, false, true)
	assert.ErrorIs(t, err, ErrNotEnoughCoins)
	assert.Equal(t, 5, a.Hand.Len())
	assert.Equal(t, 32, a.Deck.Len())
}

func TestDrawFromEmptyDeckIsDeckOut(t *testing.T) {
	m, logger := newTestManager(t)
	a := m.State().Player(alice)
	for a.Deck.Len() > 0 {
		transfer(a.Deck.Top(), a.Deck, a.Trash)
	}

	res, err := m.DrawCard(alice, false, false)
	require.NoError(t, err)

	gs := m.State()
	assert.True(t, res.GameOver)
	assert.Nil(t, res.Card)
	assert.True(t, gs.Over)
	assert.Equal(t, bob, gs.Winner)
	assert.Equal(t, "Bob", gs.WinnerName())
	assert.Equal(t, "deck out", gs.Result)
	assert.Equal(t, 5, a.Hand.Len(), "no card added to hand")

	over := logger.EventsOfType(log.EventGameOver)
	require.Len(t, over, 1)
	assert.Equal(t, "deck out", over[0].Reason)
	assert.Equal(t, log.EventStateChanged, logger.LastEvent().Type)

	assert.ErrorIs(t, m.AdvancePhase(), ErrGameOver)
	_, err = m.DrawCard(alice, false, true)
	assert.ErrorIs(t, err, ErrGameOver)
	assert.ErrorIs(t, m.EndGame(alice, "again"), ErrGameOver)
}

func TestApprenticeDraws(t *testing.T) {
	m, logger := newTestManager(t)
	a := m.State().Player(alice)

	res, err := m.DrawCard(alice, true, false)
	require.NoError(t, err)
	assert.Equal(t, "scholar", res.Card.Template.ID)
	assert.Same(t, res.Card, a.ApprenticeZone.At(0))
	assert.True(t, a.HasPlayedApprentice)
	assert.Equal(t, 3, a.Coins)

	next := a.ApprenticeDeck.Top()
	res, err = m.DrawCard(alice, true, false)
	assert.ErrorIs(t, err, ErrApprenticeLimit)
	assert.True(t, res.Rejected)
	assert.Same(t, next, a.ApprenticeDeck.At(0), "rejected apprentice goes to the bottom")
	assert.Equal(t, 4, a.ApprenticeDeck.Len())
	assert.Equal(t, 1, a.ApprenticeZone.Count())
	assert.Len(t, logger.EventsOfType(log.EventApprenticeRejected), 1)
}

func TestApprenticeZoneFull(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.State().Player(alice)
	for slot := 0; slot < a.ApprenticeZone.Size(); slot++ {
		a.ApprenticeZone.place(newCard(t, m.Registry(), "squire", alice, Stats{}), slot)
	}

	_, err := m.DrawCard(alice, true, false)
	assert.ErrorIs(t, err, ErrApprenticeLimit)
	assert.False(t, a.HasPlayedApprentice)
}

func TestPlayCardThroughManager(t *testing.T) {
	m, logger := newTestManager(t)
	a := m.State().Player(alice)
	advanceTo(t, m, PhasePlay)

	var seen []log.EventType
	m.Subscribe(func(e log.GameEvent) { seen = append(seen, e.Type) })

	res, err := m.PlayCard(alice, 0, At(2))
	require.NoError(t, err)
	assert.Equal(t, "warrior", res.Card.Template.ID)
	assert.Same(t, res.Card, a.Field.At(2))
	assert.Equal(t, 1, a.Coins)

	require.NotEmpty(t, seen)
	assert.Equal(t, log.EventStateChanged, seen[len(seen)-1])
	assert.Contains(t, seen, log.EventSummon)
	assert.Len(t, logger.EventsOfType(log.EventSummon), 1)

	_, err = m.PlayCard(alice, 0, nil)
	assert.ErrorIs(t, err, ErrNotACreature)
}

func TestPlayMageDraws(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.State().Player(alice)
	idx := toHand(a, newCard(t, m.Registry(), "mage", alice, cp(3000)))
	top := a.Deck.Top()
	advanceTo(t, m, PhasePlay)

	res, err := m.PlayCard(alice, idx, nil)
	require.NoError(t, err)
	assert.True(t, res.DrawRequested)
	assert.Same(t, top, res.Drawn)
	assert.True(t, a.Hand.Contains(top))
}

func TestPlacementOptions(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.State().Player(alice)
	place(a, newCard(t, m.Registry(), "rogue", alice, cp(3000)), 0)
	advanceTo(t, m, PhasePlay)

	d, err := m.PlacementOptions(alice, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, d.Positions)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, d.Free)
	assert.Equal(t, 1, d.Default)
	assert.Equal(t, 2, d.Cost)

	_, err = m.PlacementOptions(alice, 1)
	assert.ErrorIs(t, err, ErrNotACreature)
}

func TestExecuteSpellThroughManager(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.State().Player(alice)
	b := m.State().Player(bob)
	idx := toHand(a, newCard(t, m.Registry(), "fireball", alice, Stats{}))
	victim := place(b, newCard(t, m.Registry(), "rogue", bob, cp(2500)), 1)
	advanceTo(t, m, PhasePlay)

	_, err := m.ExecuteSpell(alice, idx, "carol", 1)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	res, err := m.ExecuteSpell(alice, idx, bob, 1)
	require.NoError(t, err)
	assert.True(t, res.TargetDestroyed)
	assert.True(t, b.Trash.Contains(victim))
}

func setUpEvolution(t *testing.T, m *Manager) *CardInstance {
	t.Helper()
	a := m.State().Player(alice)
	warrior := place(a, newCard(t, m.Registry(), "warrior", alice, cp(3000)), 0)
	_, err := m.DrawCard(alice, true, false)
	require.NoError(t, err)
	advanceTo(t, m, PhasePlay)
	return warrior
}

func TestEvolutionFlow(t *testing.T) {
	m, logger := newTestManager(t)
	a := m.State().Player(alice)
	warrior := setUpEvolution(t, m)
	apprentice := a.ApprenticeZone.At(0)

	_, err := m.EvolveCard(alice, 0, "paladin")
	assert.ErrorIs(t, err, ErrNoEvolutionInProgress)

	d, err := m.StartEvolution(alice, 0)
	require.NoError(t, err)
	assert.Same(t, apprentice, d.Apprentice)
	require.Len(t, d.Choices, 1)
	assert.Equal(t, 0, d.Choices[0].Position)
	require.Len(t, d.Choices[0].Targets, 2)
	assert.True(t, d.Choices[0].Targets[0].Affordable)
	assert.True(t, m.State().Evolution.Active)
	assert.Len(t, logger.EventsOfType(log.EventEvolutionStarted), 1)

	_, err = m.StartEvolution(alice, 0)
	assert.ErrorIs(t, err, ErrWrongPhaseOrPlayer)

	res, err := m.EvolveCard(alice, 0, "paladin")
	require.NoError(t, err)
	assert.Equal(t, "paladin", a.Field.At(0).Template.ID)
	assert.Same(t, res.To, a.Field.At(0))
	assert.True(t, a.Trash.Contains(warrior))
	assert.True(t, a.Trash.Contains(apprentice))
	assert.Zero(t, a.ApprenticeZone.Count())
	assert.Zero(t, a.Coins)
	assert.False(t, m.State().Evolution.Active)
	requireCPInvariant(t, a)
}

func TestEvolutionNotEnoughCoinsThroughManager(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.State().Player(alice)
	warrior := setUpEvolution(t, m)
	_, err := m.StartEvolution(alice, 0)
	require.NoError(t, err)
	a.Coins = 2

	_, err = m.EvolveCard(alice, 0, "paladin")
	assert.ErrorIs(t, err, ErrNotEnoughCoins)
	assert.Same(t, warrior, a.Field.At(0))
	assert.Zero(t, a.Trash.Len())
	assert.Equal(t, 2, a.Coins)
	assert.Equal(t, 1, a.ApprenticeZone.Count())
	assert.True(t, m.State().Evolution.Active)
}

func TestCancelEvolution(t *testing.T) {
	m, logger := newTestManager(t)
	a := m.State().Player(alice)
	setUpEvolution(t, m)

	assert.ErrorIs(t, m.CancelEvolution(alice), ErrNoEvolutionInProgress)

	_, err := m.StartEvolution(alice, 0)
	require.NoError(t, err)
	require.NoError(t, m.CancelEvolution(alice))
	assert.False(t, m.State().Evolution.Active)
	assert.Equal(t, 1, a.ApprenticeZone.Count(), "apprentice is kept")

	_, err = m.StartEvolution(alice, 0)
	require.NoError(t, err)
	require.NoError(t, m.AdvancePhase())
	assert.False(t, m.State().Evolution.Active, "leaving the play phase cancels")
	assert.Len(t, logger.EventsOfType(log.EventEvolutionCancelled), 2)

	_, err = m.StartEvolution(alice, 2)
	assert.ErrorIs(t, err, ErrWrongPhaseOrPlayer)
}

func TestAttackThroughManager(t *testing.T) {
	m, _ := newTestManager(t)
	a := m.State().Player(alice)
	b := m.State().Player(bob)
	place(a, newCard(t, m.Registry(), "warrior", alice, cp(5000)), 0)
	defender := place(b, newCard(t, m.Registry(), "warrior", bob, cp(4000)), 0)
	advanceTo(t, m, PhaseAttack)

	opts, err := m.ValidTargets(alice, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, opts.ValidTargets)
	assert.False(t, opts.CanAttackDirectly)

	_, err = m.AttackSecurity(alice, 0)
	assert.ErrorIs(t, err, ErrCreaturesBlocking)

	res, err := m.AttackCreature(alice, 0, 0)
	require.NoError(t, err)
	assert.True(t, res.DefenderDestroyed)
	assert.True(t, b.Trash.Contains(defender))
}

func TestSecurityExhaustionThroughManager(t *testing.T) {
	m, logger := newTestManager(t)
	a := m.State().Player(alice)
	b := m.State().Player(bob)
	for b.Security.Len() > 1 {
		transfer(b.Security.Top(), b.Security, b.Trash)
	}
	place(a, newCard(t, m.Registry(), "warrior", alice, cp(9000)), 0)
	advanceTo(t, m, PhaseAttack)

	res, err := m.AttackSecurity(alice, 0)
	require.NoError(t, err)
	assert.True(t, res.GameOver)

	gs := m.State()
	assert.True(t, gs.Over)
	assert.Equal(t, alice, gs.Winner)
	assert.Equal(t, "security exhausted", gs.Result)
	require.Len(t, logger.EventsOfType(log.EventGameOver), 1)
	assert.Equal(t, log.EventStateChanged, logger.LastEvent().Type)

	_, err = m.AttackSecurity(alice, 0)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestEndGame(t *testing.T) {
	m, _ := newTestManager(t)
	assert.ErrorIs(t, m.EndGame("carol", "conceded"), ErrWrongPhaseOrPlayer)
	require.NoError(t, m.EndGame(bob, "conceded"))
	assert.Equal(t, bob, m.State().Winner)
	assert.Equal(t, "conceded", m.State().Result)
}

func TestUnsubscribe(t *testing.T) {
	m, _ := newTestManager(t)
	count := 0
	h := m.Subscribe(func(log.GameEvent) { count++ })
	typed := 0
	m.SubscribeTyped(log.EventPhaseChange, func(log.GameEvent) { typed++ })

	require.NoError(t, m.AdvancePhase())
	assert.Equal(t, 2, count, "PhaseChanged then StateChanged")
	assert.Equal(t, 1, typed)

	m.Unsubscribe(h)
	require.NoError(t, m.AdvancePhase())
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, typed)
}

func TestCardConservation(t *testing.T) {
	m, _ := newTestManager(t)
	advanceTo(t, m, PhasePlay)
	_, err := m.PlayCard(alice, 0, nil)
	require.NoError(t, err)

	for _, p := range m.State().Players {
		seen := map[string]bool{}
		for _, c := range p.AllCards() {
			assert.False(t, seen[c.ID], "card %s in two zones", c.ID)
			seen[c.ID] = true
		}
		assert.Len(t, seen, 47)
	}
}
