package game

import (
	"fmt"
	"math/rand"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/peterkuimelis/gridclash/internal/config"
)

// DeckList is a deck as template ids: the main deck and the apprentice deck.
type DeckList struct {
	Main       []string
	Apprentice []string
}

// Shuffler permutes n items through swap. rand.Shuffle satisfies it.
type Shuffler func(n int, swap func(i, j int))

// NoShuffle leaves decks in list order, for deterministic tests.
func NoShuffle(int, func(i, j int)) {}

// SeededShuffler returns a Fisher-Yates shuffler over rng.
func SeededShuffler(rng *rand.Rand) Shuffler {
	return rng.Shuffle
}

// DeckManager builds decks for players from the registry.
type DeckManager struct {
	rules   config.Rules
	cards   *Registry
	stats   *StatDistributor
	shuffle Shuffler
	custom  map[string]DeckList
}

func NewDeckManager(rules config.Rules, cards *Registry, stats *StatDistributor, shuffle Shuffler) *DeckManager {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	return &DeckManager{
		rules:   rules,
		cards:   cards,
		stats:   stats,
		shuffle: shuffle,
		custom:  make(map[string]DeckList),
	}
}

// RegisterCustomDeck validates and stores a player's deck. Unknown templates are
// reported before size problems.
func (dm *DeckManager) RegisterCustomDeck(playerID string, deck DeckList) error {
	for _, id := range append(append([]string{}, deck.Main...), deck.Apprentice...) {
		if _, ok := dm.cards.Template(id); !ok {
			return ruleErr(ReasonTemplateNotFound, "deck for %s lists unknown card %q", playerID, id)
		}
	}
	for _, id := range deck.Main {
		t, _ := dm.cards.Template(id)
		if t.Type == CardTypeApprentice {
			return ruleErr(ReasonInvalidDeckSize, "%s belongs in the apprentice deck", t.Name)
		}
	}
	for _, id := range deck.Apprentice {
		t, _ := dm.cards.Template(id)
		if t.Type != CardTypeApprentice {
			return ruleErr(ReasonInvalidDeckSize, "%s is not an apprentice card", t.Name)
		}
	}
	if n := len(deck.Main); n < dm.rules.MinDeckSize || n > dm.rules.MaxDeckSize {
		return ruleErr(ReasonInvalidDeckSize, "main deck has %d cards, need %d-%d",
			n, dm.rules.MinDeckSize, dm.rules.MaxDeckSize)
	}
	if n := len(deck.Apprentice); n > dm.rules.MaxApprenticeDeck {
		return ruleErr(ReasonInvalidDeckSize, "apprentice deck has %d cards, max %d",
			n, dm.rules.MaxApprenticeDeck)
	}
	dm.custom[playerID] = deck
	return nil
}

// DefaultDeck lists DefaultCopies of every non-advanced creature and spell, and the
// apprentice templates cycled up to the apprentice deck limit.
func (dm *DeckManager) DefaultDeck() DeckList {
	var deck DeckList
	var apprentices []string
	for _, t := range dm.cards.Templates() {
		switch {
		case t.Type == CardTypeApprentice:
			apprentices = append(apprentices, t.ID)
		case t.Class == ClassAdvanced:
		default:
			for i := 0; i < dm.rules.DefaultCopies; i++ {
				deck.Main = append(deck.Main, t.ID)
			}
		}
	}
	for i := 0; len(apprentices) > 0 && i < dm.rules.MaxApprenticeDeck; i++ {
		deck.Apprentice = append(deck.Apprentice, apprentices[i%len(apprentices)])
	}
	return deck
}

func (dm *DeckManager) listFor(playerID string) DeckList {
	if d, ok := dm.custom[playerID]; ok {
		return d
	}
	return dm.DefaultDeck()
}

// BuildMainDeck creates and shuffles the player's main deck. Creatures receive their
// stat budgets here.
func (dm *DeckManager) BuildMainDeck(playerID string) ([]*CardInstance, error) {
	return dm.build(playerID, dm.listFor(playerID).Main, false)
}

// BuildApprenticeDeck creates and shuffles the player's apprentice deck.
func (dm *DeckManager) BuildApprenticeDeck(playerID string) ([]*CardInstance, error) {
	return dm.build(playerID, dm.listFor(playerID).Apprentice, true)
}

func (dm *DeckManager) build(playerID string, ids []string, apprentice bool) ([]*CardInstance, error) {
	cards := make([]*CardInstance, 0, len(ids))
	for _, id := range ids {
		ci, err := dm.cards.NewCard(id, apprentice)
		if err != nil {
			return nil, err
		}
		ci.Owner = playerID
		if ci.IsCreature() {
			dm.stats.Distribute(ci, ci.Class == ClassAdvanced)
		}
		cards = append(cards, ci)
	}
	dm.shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards, nil
}

// --- YAML deck files ---

// DeckFile is the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry is a single named deck in the YAML file.
type DeckEntry struct {
	Name       string      `yaml:"name"`
	Cards      []CardEntry `yaml:"cards"`
	Apprentice []CardEntry `yaml:"apprentice"`
}

// CardEntry is a template id and its copy count.
type CardEntry struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

func expand(entries []CardEntry) []string {
	var ids []string
	for _, e := range entries {
		for i := 0; i < e.Count; i++ {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// ParseDecks decodes YAML deck data into deck lists keyed by name.
func ParseDecks(data []byte) (map[string]DeckList, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	decks := make(map[string]DeckList, len(df.Decks))
	for _, d := range df.Decks {
		if d.Name == "" {
			return nil, fmt.Errorf("parse deck YAML: deck without a name")
		}
		decks[d.Name] = DeckList{Main: expand(d.Cards), Apprentice: expand(d.Apprentice)}
	}
	return decks, nil
}

// LoadDeckFile reads a YAML deck file.
func LoadDeckFile(path string) (map[string]DeckList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck file: %w", err)
	}
	return ParseDecks(data)
}

// DeckNames returns the deck names in a loaded file, sorted.
func DeckNames(decks map[string]DeckList) []string {
	names := make([]string, 0, len(decks))
	for name := range decks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
