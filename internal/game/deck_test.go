package game

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/gridclash/internal/config"
)

func newTestDeckManager() *DeckManager {
	rng := rand.New(rand.NewSource(3))
	return NewDeckManager(config.DefaultRules(), DefaultRegistry(), NewStatDistributor(rng), NoShuffle)
}

func repeat(id string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = id
	}
	return out
}

func TestDefaultDeck(t *testing.T) {
	dm := newTestDeckManager()
	deck := dm.DefaultDeck()

	assert.Len(t, deck.Main, 42)
	assert.Len(t, deck.Apprentice, 5)

	counts := map[string]int{}
	for _, id := range deck.Main {
		counts[id]++
	}
	for _, id := range []string{"warrior", "rogue", "mage", "archer", "fireball", "healing", "smoke_bomb"} {
		assert.Equal(t, 6, counts[id], id)
	}
	for _, id := range []string{"paladin", "knight", "assassin", "archmage", "ranger", "squire"} {
		assert.Zero(t, counts[id], id)
	}
}

func TestRegisterCustomDeckValidation(t *testing.T) {
	tests := []struct {
		name string
		deck DeckList
		want error
	}{
		{"too small", DeckList{Main: repeat("warrior", 29)}, ErrInvalidDeckSize},
		{"too large", DeckList{Main: repeat("warrior", 51)}, ErrInvalidDeckSize},
		{"too many apprentices", DeckList{Main: repeat("warrior", 30), Apprentice: repeat("squire", 6)}, ErrInvalidDeckSize},
		{"unknown card", DeckList{Main: append(repeat("warrior", 29), "dragon")}, ErrTemplateNotFound},
		{"apprentices in main deck", DeckList{Main: repeat("squire", 30)}, ErrInvalidDeckSize},
		{"one apprentice in main deck", DeckList{Main: append(repeat("warrior", 29), "scholar")}, ErrInvalidDeckSize},
		{"creature in apprentice deck", DeckList{Main: repeat("warrior", 30), Apprentice: []string{"warrior"}}, ErrInvalidDeckSize},
		{"min size", DeckList{Main: repeat("warrior", 30), Apprentice: repeat("squire", 5)}, nil},
		{"max size", DeckList{Main: repeat("rogue", 50)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestDeckManager().RegisterCustomDeck(alice, tt.deck)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuildMainDeck(t *testing.T) {
	dm := newTestDeckManager()
	custom := DeckList{Main: append(repeat("warrior", 20), repeat("fireball", 10)...)}
	require.NoError(t, dm.RegisterCustomDeck(alice, custom))

	cards, err := dm.BuildMainDeck(alice)
	require.NoError(t, err)
	require.Len(t, cards, 30)

	ids := map[string]bool{}
	for i, c := range cards {
		assert.Equal(t, custom.Main[i], c.Template.ID, "unshuffled order")
		assert.Equal(t, alice, c.Owner)
		assert.False(t, ids[c.ID], "duplicate id %s", c.ID)
		ids[c.ID] = true
		if c.IsCreature() {
			assert.Equal(t, BasicStatBudget, c.Stats().Total())
		} else {
			assert.Zero(t, c.CP())
		}
	}

	other, err := dm.BuildMainDeck(bob)
	require.NoError(t, err)
	assert.Len(t, other, 42, "bob falls back to the default deck")
}

func TestBuildDeckShuffles(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	dm := NewDeckManager(config.DefaultRules(), DefaultRegistry(), NewStatDistributor(rng), SeededShuffler(rng))

	cards, err := dm.BuildMainDeck(alice)
	require.NoError(t, err)
	order := make([]string, len(cards))
	for i, c := range cards {
		order[i] = c.Template.ID
	}
	assert.NotEqual(t, dm.DefaultDeck().Main, order)
	assert.ElementsMatch(t, dm.DefaultDeck().Main, order)
}

func TestBuildApprenticeDeck(t *testing.T) {
	cards, err := newTestDeckManager().BuildApprenticeDeck(alice)
	require.NoError(t, err)
	require.Len(t, cards, 5)
	for _, c := range cards {
		assert.Equal(t, CardTypeApprentice, c.Template.Type)
		assert.Equal(t, ZoneApprenticeDeck, c.Zone)
	}
}

const testDecks = `
decks:
  - name: rush
    cards:
      - id: warrior
        count: 15
      - id: rogue
        count: 15
    apprentice:
      - id: squire
        count: 3
  - name: arcane
    cards:
      - id: mage
        count: 20
      - id: fireball
        count: 10
`

func TestParseDecks(t *testing.T) {
	decks, err := ParseDecks([]byte(testDecks))
	require.NoError(t, err)
	assert.Equal(t, []string{"arcane", "rush"}, DeckNames(decks))

	rush := decks["rush"]
	assert.Len(t, rush.Main, 30)
	assert.Equal(t, repeat("squire", 3), rush.Apprentice)
	assert.NoError(t, newTestDeckManager().RegisterCustomDeck(alice, rush))
}

func TestLoadDeckFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDecks), 0o644))

	decks, err := LoadDeckFile(path)
	require.NoError(t, err)
	assert.Len(t, decks["arcane"].Main, 30)

	_, err = LoadDeckFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseDecks([]byte("decks: [{cards: []}]"))
	assert.Error(t, err)
}
