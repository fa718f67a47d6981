package mcp

import (
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/peterkuimelis/gridclash/internal/ai"
	"github.com/peterkuimelis/gridclash/internal/config"
	"github.com/peterkuimelis/gridclash/internal/game"
	"github.com/peterkuimelis/gridclash/internal/log"
	"github.com/peterkuimelis/gridclash/internal/view"
)

const (
	agentID = "agent"
	botID   = "bot"
)

// Config configures the tool server.
type Config struct {
	Rules config.Rules
	Decks map[string]game.DeckList // named decks from the decks file
	Zap   *zap.Logger

	NoShuffle bool // keep decks in list order
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []view.EventView `json:"events"`
	State    *view.StateView  `json:"state,omitempty"`
	Result   any              `json:"result,omitempty"`
	GameOver bool             `json:"game_over"`
	Winner   string           `json:"winner,omitempty"`
	Reason   string           `json:"reason,omitempty"`
}

// GameSession is one agent-vs-bot game. Tool calls may arrive concurrently, so
// every access to the manager goes through mu.
type GameSession struct {
	mu      sync.Mutex
	manager *game.Manager
	bot     *ai.Bot
	log     *zap.Logger

	events []log.GameEvent
}

// StartOptions selects decks and seating for a new game.
type StartOptions struct {
	Deck         string
	OpponentDeck string
	GoSecond     bool
	Seed         int64
}

// NewGameSession starts a game between the agent and the built-in bot. When the
// agent goes second the bot plays its first turn before this returns.
func NewGameSession(cfg Config, opts StartOptions) (*GameSession, error) {
	z := cfg.Zap
	if z == nil {
		z = zap.NewNop()
	}
	m := game.NewManager(game.ManagerConfig{
		Rules:     cfg.Rules,
		Logger:    log.NewZapLogger(z.Named("events")),
		Zap:       z,
		Seed:      opts.Seed,
		NoShuffle: cfg.NoShuffle,
	})
	s := &GameSession{
		manager: m,
		bot:     ai.New(botID, z),
		log:     z,
	}
	m.Subscribe(func(e log.GameEvent) {
		if e.Type != log.EventStateChanged {
			s.events = append(s.events, e)
		}
	})

	agent := game.PlayerDef{ID: agentID, Name: "Agent"}
	bot := game.PlayerDef{ID: botID, Name: "Bot"}
	var err error
	if agent.Deck, err = lookupDeck(cfg.Decks, opts.Deck); err != nil {
		return nil, err
	}
	if bot.Deck, err = lookupDeck(cfg.Decks, opts.OpponentDeck); err != nil {
		return nil, err
	}

	first, second := agent, bot
	if opts.GoSecond {
		first, second = bot, agent
	}
	if err := m.InitGame(first, second); err != nil {
		return nil, fmt.Errorf("start game: %w", err)
	}
	if err := s.runBot(); err != nil {
		return nil, err
	}
	return s, nil
}

func lookupDeck(decks map[string]game.DeckList, name string) (*game.DeckList, error) {
	if name == "" {
		return nil, nil
	}
	d, ok := decks[name]
	if !ok {
		return nil, fmt.Errorf("unknown deck %q (have %v)", name, game.DeckNames(decks))
	}
	return &d, nil
}

// runBot lets the bot play while it holds the turn.
func (s *GameSession) runBot() error {
	gs := s.manager.State()
	for !gs.Over && gs.CurrentPlayer().ID == botID {
		if err := s.bot.PlayTurn(s.manager); err != nil {
			return fmt.Errorf("bot turn: %w", err)
		}
	}
	return nil
}

// do runs op against the manager under the session lock, hands the turn to the
// bot if op ended the agent's turn, and collects the resulting events.
func (s *GameSession) do(op func(m *game.Manager) (any, error)) (*ToolResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := op(s.manager)
	if err != nil {
		return nil, err
	}
	if err := s.runBot(); err != nil {
		s.log.Error("bot failed", zap.Error(err))
		return nil, err
	}
	return s.respond(result), nil
}

// snapshot returns the current state without changing anything.
func (s *GameSession) snapshot() *ToolResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.respond(nil)
}

// respond drains the buffered events and attaches the agent's view. Must be
// called with mu held.
func (s *GameSession) respond(result any) *ToolResponse {
	gs := s.manager.State()
	resp := &ToolResponse{
		Events:   view.Events(s.events),
		State:    view.Build(gs, agentID),
		Result:   result,
		GameOver: gs.Over,
		Winner:   gs.Winner,
		Reason:   gs.Result,
	}
	s.events = nil
	return resp
}

// over reports whether the game has finished.
func (s *GameSession) over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager.State().Over
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
