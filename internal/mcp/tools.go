package mcp

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/gridclash/internal/game"
)

// Server exposes the game to an MCP agent. It holds one game at a time; the agent
// plays one seat and the built-in bot plays the other.
type Server struct {
	cfg Config

	mu      sync.Mutex
	session *GameSession
}

// NewServer creates a tool server with no game running.
func NewServer(cfg Config) *Server {
	return &Server{cfg: cfg}
}

// RegisterTools adds all game tools to the MCP server.
func (s *Server) RegisterTools(ms *server.MCPServer) {
	ms.AddTool(startGameTool(), s.handleStartGame)
	ms.AddTool(getGameStateTool(), s.handleGetGameState)
	ms.AddTool(drawCardTool(), s.handleDrawCard)
	ms.AddTool(advancePhaseTool(), s.handleAdvancePhase)
	ms.AddTool(placementOptionsTool(), s.handlePlacementOptions)
	ms.AddTool(playCardTool(), s.handlePlayCard)
	ms.AddTool(castSpellTool(), s.handleCastSpell)
	ms.AddTool(startEvolutionTool(), s.handleStartEvolution)
	ms.AddTool(evolveTool(), s.handleEvolve)
	ms.AddTool(cancelEvolutionTool(), s.handleCancelEvolution)
	ms.AddTool(moveCreatureTool(), s.handleMoveCreature)
	ms.AddTool(validTargetsTool(), s.handleValidTargets)
	ms.AddTool(attackCreatureTool(), s.handleAttackCreature)
	ms.AddTool(attackSecurityTool(), s.handleAttackSecurity)
	ms.AddTool(concedeTool(), s.handleConcede)
}

// --- Tool definitions ---

const boardHelp = "Field positions are 0-8 in a 3x3 grid (row = pos/3, col = pos%3). " +
	"Row 0 is the front, row 1 the back row, row 2 is reachable only by moving."

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a new game against the built-in bot. Returns the initial state. "+
			"Turns go draw -> movement -> play -> attack -> end. "+boardHelp),
		mcp.WithString("deck", mcp.Description("Name of your deck from the decks file (empty for the default deck)")),
		mcp.WithString("opponent_deck", mcp.Description("Name of the bot's deck (empty for the default deck)")),
		mcp.WithBoolean("go_second", mcp.Description("true to let the bot take the first turn")),
		mcp.WithNumber("seed", mcp.Description("RNG seed for a reproducible game (0 for random)")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current game state and the events since the last call. Read-only."),
	)
}

func drawCardTool() mcp.Tool {
	return mcp.NewTool("draw_card",
		mcp.WithDescription("Draw a card. The turn's main draw is free and only in the draw phase. "+
			"Optional draws cost coins and work in any phase of your turn. "+
			"Apprentice draws go straight to the apprentice zone, one per turn."),
		mcp.WithBoolean("apprentice", mcp.Description("Draw from the apprentice deck")),
		mcp.WithBoolean("optional", mcp.Description("Pay for an extra draw")),
	)
}

func advancePhaseTool() mcp.Tool {
	return mcp.NewTool("advance_phase",
		mcp.WithDescription("Move to the next phase. Advancing from end passes the turn; the bot then plays its turn "+
			"and the response includes everything it did."),
	)
}

func placementOptionsTool() mcp.Tool {
	return mcp.NewTool("placement_options",
		mcp.WithDescription("List where the creature at a hand index may be summoned and what it costs."),
		mcp.WithNumber("hand_index", mcp.Required(), mcp.Description("0-based index into your hand")),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Summon a creature from hand in the play phase. Summons may target positions 0-5; "+
			"an occupied position sends its creature to the trash."),
		mcp.WithNumber("hand_index", mcp.Required(), mcp.Description("0-based index into your hand")),
		mcp.WithNumber("position", mcp.Description("Field position 0-5 (omit for the lowest free slot)")),
	)
}

func castSpellTool() mcp.Tool {
	return mcp.NewTool("cast_spell",
		mcp.WithDescription("Cast a spell from hand on a creature in the play phase."),
		mcp.WithNumber("hand_index", mcp.Required(), mcp.Description("0-based index into your hand")),
		mcp.WithString("target_side", mcp.Required(), mcp.Description("'self' or 'opponent'")),
		mcp.WithNumber("position", mcp.Required(), mcp.Description("Field position of the target creature")),
	)
}

func startEvolutionTool() mcp.Tool {
	return mcp.NewTool("start_evolution",
		mcp.WithDescription("Begin evolving with the apprentice in a slot. Returns the basic creatures that can evolve "+
			"and their targets. Finish with evolve or cancel_evolution."),
		mcp.WithNumber("slot", mcp.Required(), mcp.Description("Apprentice zone slot")),
	)
}

func evolveTool() mcp.Tool {
	return mcp.NewTool("evolve",
		mcp.WithDescription("Evolve the basic creature at a field position into an advanced form. Consumes the apprentice."),
		mcp.WithNumber("position", mcp.Required(), mcp.Description("Field position of the basic creature")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Template id of the advanced form, e.g. 'paladin'")),
	)
}

func cancelEvolutionTool() mcp.Tool {
	return mcp.NewTool("cancel_evolution",
		mcp.WithDescription("Abandon the evolution in progress. The apprentice stays in its zone."),
	)
}

func moveCreatureTool() mcp.Tool {
	return mcp.NewTool("move_creature",
		mcp.WithDescription("Move a creature one step (no diagonals) to an empty position in the movement phase. "+
			"Each creature moves once per turn. "+boardHelp),
		mcp.WithNumber("from", mcp.Required(), mcp.Description("Current field position")),
		mcp.WithNumber("to", mcp.Required(), mcp.Description("Adjacent empty field position")),
	)
}

func validTargetsTool() mcp.Tool {
	return mcp.NewTool("valid_targets",
		mcp.WithDescription("List the enemy positions a creature can reach and whether it can attack security. Read-only."),
		mcp.WithNumber("position", mcp.Required(), mcp.Description("Field position of your creature")),
	)
}

func attackCreatureTool() mcp.Tool {
	return mcp.NewTool("attack_creature",
		mcp.WithDescription("Attack an enemy creature in the attack phase. Higher total CP wins; ties leave both standing."),
		mcp.WithNumber("attacker", mcp.Required(), mcp.Description("Field position of your creature")),
		mcp.WithNumber("defender", mcp.Required(), mcp.Description("Field position of the enemy creature")),
	)
}

func attackSecurityTool() mcp.Tool {
	return mcp.NewTool("attack_security",
		mcp.WithDescription("Attack the opponent's security stack. Allowed when they have no creatures or your creature "+
			"has unused Stealth. Emptying the stack wins the game."),
		mcp.WithNumber("attacker", mcp.Required(), mcp.Description("Field position of your creature")),
	)
}

func concedeTool() mcp.Tool {
	return mcp.NewTool("concede",
		mcp.WithDescription("Concede the game to the bot."),
	)
}

// --- Tool handlers ---

func (s *Server) current() *GameSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// act runs op in the current game and renders the response.
func (s *Server) act(op func(m *game.Manager) (any, error)) (*mcp.CallToolResult, error) {
	sess := s.current()
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	resp, err := sess.do(op)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (s *Server) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil && !s.session.over() {
		return mcp.NewToolResultError("A game is already running. Concede it first."), nil
	}

	sess, err := NewGameSession(s.cfg, StartOptions{
		Deck:         request.GetString("deck", ""),
		OpponentDeck: request.GetString("opponent_deck", ""),
		GoSecond:     request.GetBool("go_second", false),
		Seed:         int64(request.GetInt("seed", 0)),
	})
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}
	s.session = sess
	return mcp.NewToolResultText(respondJSON(sess.snapshot())), nil
}

func (s *Server) handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := s.current()
	if sess == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.snapshot())), nil
}

func (s *Server) handleDrawCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	apprentice := request.GetBool("apprentice", false)
	optional := request.GetBool("optional", false)
	return s.act(func(m *game.Manager) (any, error) {
		res, err := m.DrawCard(agentID, apprentice, optional)
		if err != nil {
			return nil, err
		}
		return fromDraw(res), nil
	})
}

func (s *Server) handleAdvancePhase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.act(func(m *game.Manager) (any, error) {
		if p := m.State().CurrentPlayer(); p != nil && p.ID != agentID {
			return nil, game.ErrWrongPhaseOrPlayer
		}
		return nil, m.AdvancePhase()
	})
}

func (s *Server) handlePlacementOptions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idx := request.GetInt("hand_index", -1)
	return s.act(func(m *game.Manager) (any, error) {
		d, err := m.PlacementOptions(agentID, idx)
		if err != nil {
			return nil, err
		}
		return fromPlacement(d), nil
	})
}

func (s *Server) handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idx := request.GetInt("hand_index", -1)
	var pos *int
	if p := request.GetInt("position", game.NoPosition); p != game.NoPosition {
		pos = game.At(p)
	}
	return s.act(func(m *game.Manager) (any, error) {
		res, err := m.PlayCard(agentID, idx, pos)
		if err != nil {
			return nil, err
		}
		return fromPlay(res), nil
	})
}

func (s *Server) handleCastSpell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idx := request.GetInt("hand_index", -1)
	pos := request.GetInt("position", game.NoPosition)
	target := botID
	switch side := request.GetString("target_side", ""); side {
	case "self":
		target = agentID
	case "opponent":
	default:
		return mcp.NewToolResultErrorf("target_side must be 'self' or 'opponent', got %q", side), nil
	}
	return s.act(func(m *game.Manager) (any, error) {
		res, err := m.ExecuteSpell(agentID, idx, target, pos)
		if err != nil {
			return nil, err
		}
		return fromSpell(res), nil
	})
}

func (s *Server) handleStartEvolution(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slot := request.GetInt("slot", -1)
	return s.act(func(m *game.Manager) (any, error) {
		d, err := m.StartEvolution(agentID, slot)
		if err != nil {
			return nil, err
		}
		return fromEvolution(d), nil
	})
}

func (s *Server) handleEvolve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pos := request.GetInt("position", game.NoPosition)
	target := request.GetString("target", "")
	return s.act(func(m *game.Manager) (any, error) {
		res, err := m.EvolveCard(agentID, pos, target)
		if err != nil {
			return nil, err
		}
		return fromEvolve(res), nil
	})
}

func (s *Server) handleCancelEvolution(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.act(func(m *game.Manager) (any, error) {
		return nil, m.CancelEvolution(agentID)
	})
}

func (s *Server) handleMoveCreature(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := request.GetInt("from", game.NoPosition)
	to := request.GetInt("to", game.NoPosition)
	return s.act(func(m *game.Manager) (any, error) {
		res, err := m.MoveCreature(agentID, from, to)
		if err != nil {
			return nil, err
		}
		return moveResult{Card: res.Card.Name(), From: res.From, To: res.To}, nil
	})
}

func (s *Server) handleValidTargets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pos := request.GetInt("position", game.NoPosition)
	return s.act(func(m *game.Manager) (any, error) {
		opts, err := m.ValidTargets(agentID, pos)
		if err != nil {
			return nil, err
		}
		return fromTargets(opts), nil
	})
}

func (s *Server) handleAttackCreature(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	atk := request.GetInt("attacker", game.NoPosition)
	def := request.GetInt("defender", game.NoPosition)
	return s.act(func(m *game.Manager) (any, error) {
		res, err := m.AttackCreature(agentID, atk, def)
		if err != nil {
			return nil, err
		}
		return fromAttack(res), nil
	})
}

func (s *Server) handleAttackSecurity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	atk := request.GetInt("attacker", game.NoPosition)
	return s.act(func(m *game.Manager) (any, error) {
		res, err := m.AttackSecurity(agentID, atk)
		if err != nil {
			return nil, err
		}
		return fromSecurity(res), nil
	})
}

func (s *Server) handleConcede(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.act(func(m *game.Manager) (any, error) {
		return nil, m.EndGame(botID, "conceded")
	})
}
