package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/peterkuimelis/gridclash/internal/config"
	"github.com/peterkuimelis/gridclash/internal/log"
)

const (
	alice = "alice"
	bob   = "bob"
)

// newTestManager starts a deterministic game between alice and bob using the
// default unshuffled decks.
func newTestManager(t *testing.T) (*Manager, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	m := NewManager(ManagerConfig{
		Logger:    logger,
		Zap:       zaptest.NewLogger(t),
		Seed:      7,
		NoShuffle: true,
	})
	require.NoError(t, m.InitGame(
		PlayerDef{ID: alice, Name: "Alice"},
		PlayerDef{ID: bob, Name: "Bob"},
	))
	return m, logger
}

// newTestBattle returns a battle engine and two empty players.
func newTestBattle(t *testing.T) (*Battle, *Player, *Player) {
	t.Helper()
	rules := config.DefaultRules()
	b := NewBattle(rules, DefaultRegistry(), NewStatDistributor(rand.New(rand.NewSource(1))))
	return b, NewPlayer(alice, "Alice", rules), NewPlayer(bob, "Bob", rules)
}

// newCard creates an instance of templateID owned by owner with exact stats.
func newCard(t *testing.T, r *Registry, templateID, owner string, stats Stats) *CardInstance {
	t.Helper()
	c, err := r.NewCard(templateID, false)
	require.NoError(t, err)
	c.Owner = owner
	c.SetStats(stats)
	return c
}

// cp returns stats worth exactly n combat power (n must be a multiple of 100).
func cp(n int) Stats {
	return Stats{STR: n / 100}
}

// place puts a ready creature straight onto p's field.
func place(p *Player, c *CardInstance, pos int) *CardInstance {
	c.Owner = p.ID
	p.Field.place(c, pos)
	c.CanAttack = true
	return c
}

// toHand puts c into p's hand and returns its hand index.
func toHand(p *Player, c *CardInstance) int {
	c.Owner = p.ID
	p.Hand.push(c)
	return p.Hand.Len() - 1
}

// advanceTo advances phases until the given phase is reached.
func advanceTo(t *testing.T, m *Manager, phase Phase) {
	t.Helper()
	for i := 0; m.State().Phase != phase; i++ {
		require.Less(t, i, phaseCount, "phase %s not reached", phase)
		require.NoError(t, m.AdvancePhase())
	}
}

// requireCPInvariant checks that every card's CP matches its stats.
func requireCPInvariant(t *testing.T, p *Player) {
	t.Helper()
	for _, c := range p.AllCards() {
		require.Equal(t, CalculateCP(c.Stats()), c.CP(), c.Name())
	}
}
