package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/peterkuimelis/gridclash/internal/game"
	"github.com/peterkuimelis/gridclash/internal/log"
)

type handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func call(t *testing.T, h handler, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	// Arguments arrive JSON-decoded, so numbers are float64.
	decoded := make(map[string]any, len(args))
	for k, v := range args {
		if n, ok := v.(int); ok {
			v = float64(n)
		}
		decoded[k] = v
	}
	var req mcp.CallToolRequest
	req.Params.Arguments = decoded
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(Config{
		Zap:       zaptest.NewLogger(t),
		NoShuffle: true,
		Decks: map[string]game.DeckList{
			"rogues": {Main: repeat("rogue", 30)},
		},
	})
}

func repeat(id string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = id
	}
	return ids
}

func TestToolsRequireGame(t *testing.T) {
	s := newTestServer(t)
	assert.True(t, call(t, s.handleDrawCard, nil).IsError)
	assert.True(t, call(t, s.handleGetGameState, nil).IsError)
	assert.True(t, call(t, s.handleAdvancePhase, nil).IsError)
}

func TestAgentTurnThenBotTurn(t *testing.T) {
	s := newTestServer(t)
	require.False(t, call(t, s.handleStartGame, map[string]any{"seed": 11}).IsError)
	m := s.current().manager
	require.Equal(t, agentID, m.State().CurrentPlayer().ID)

	require.False(t, call(t, s.handleDrawCard, nil).IsError)
	assert.True(t, call(t, s.handleDrawCard, nil).IsError, "second main draw")

	for i := 0; i < 2; i++ {
		require.False(t, call(t, s.handleAdvancePhase, nil).IsError)
	}
	require.Equal(t, game.PhasePlay, m.State().Phase)

	require.False(t, call(t, s.handlePlacementOptions, map[string]any{"hand_index": 0}).IsError)
	require.False(t, call(t, s.handlePlayCard, map[string]any{"hand_index": 0, "position": 4}).IsError)
	require.NotNil(t, m.State().Player(agentID).Field.At(4))

	require.False(t, call(t, s.handleAdvancePhase, nil).IsError)
	require.False(t, call(t, s.handleValidTargets, map[string]any{"position": 4}).IsError)
	require.False(t, call(t, s.handleAttackSecurity, map[string]any{"attacker": 4}).IsError)
	assert.Equal(t, 4, m.State().Player(botID).Security.Len())

	for i := 0; i < 2; i++ {
		require.False(t, call(t, s.handleAdvancePhase, nil).IsError)
	}

	gs := m.State()
	assert.Equal(t, agentID, gs.CurrentPlayer().ID, "the bot finished its turn")
	assert.Equal(t, 2, gs.Turn)
	assert.Equal(t, game.PhaseDraw, gs.Phase)

	resp := s.current().snapshot()
	assert.Empty(t, resp.Events, "events were drained by the advance call")
	require.NotNil(t, resp.State)
	assert.True(t, resp.State.IsYourTurn)
}

func TestBotEventsReachAgent(t *testing.T) {
	sess, err := NewGameSession(Config{NoShuffle: true}, StartOptions{GoSecond: true, Seed: 4})
	require.NoError(t, err)

	gs := sess.manager.State()
	assert.Equal(t, botID, gs.Players[0].ID)
	assert.Equal(t, agentID, gs.CurrentPlayer().ID)
	assert.Equal(t, 1, gs.Turn)

	resp := sess.snapshot()
	var fromBot int
	for _, e := range resp.Events {
		if e.Player == botID {
			fromBot++
		}
	}
	assert.NotZero(t, fromBot)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"is_your_turn":true`)
	assert.Empty(t, sess.snapshot().Events)
}

func TestRuleErrorsAreToolErrors(t *testing.T) {
	s := newTestServer(t)
	call(t, s.handleStartGame, nil)

	assert.True(t, call(t, s.handlePlayCard, map[string]any{"hand_index": 0}).IsError, "draw phase")
	assert.True(t, call(t, s.handleCastSpell, map[string]any{"hand_index": 1, "target_side": "nobody", "position": 0}).IsError)
	assert.True(t, call(t, s.handleEvolve, map[string]any{"position": 0, "target": "paladin"}).IsError)
	assert.True(t, call(t, s.handleCancelEvolution, nil).IsError)
	assert.True(t, call(t, s.handleMoveCreature, map[string]any{"from": 0, "to": 1}).IsError)
	assert.True(t, call(t, s.handleAttackCreature, map[string]any{"attacker": 0, "defender": 0}).IsError)

	assert.Equal(t, 5, s.current().manager.State().Player(agentID).Hand.Len())
}

func TestDecksAndConcede(t *testing.T) {
	s := newTestServer(t)
	assert.True(t, call(t, s.handleStartGame, map[string]any{"deck": "missing"}).IsError)

	require.False(t, call(t, s.handleStartGame, map[string]any{"deck": "rogues"}).IsError)
	agent := s.current().manager.State().Player(agentID)
	assert.Equal(t, 20, agent.Deck.Len())
	assert.True(t, call(t, s.handleStartGame, nil).IsError, "one game at a time")

	require.False(t, call(t, s.handleConcede, nil).IsError)
	gs := s.current().manager.State()
	assert.True(t, gs.Over)
	assert.Equal(t, botID, gs.Winner)
	assert.Equal(t, "conceded", gs.Result)
	assert.True(t, call(t, s.handleDrawCard, nil).IsError)

	require.False(t, call(t, s.handleStartGame, nil).IsError, "a finished game can be replaced")
	assert.False(t, s.current().manager.State().Over)
}

func TestSessionMirrorsEventsToZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sess, err := NewGameSession(Config{Zap: zap.New(core), NoShuffle: true}, StartOptions{Seed: 4})
	require.NoError(t, err)

	events := logs.FilterLoggerName("events")
	require.NotZero(t, events.Len())
	assert.Equal(t, 1, events.FilterField(zap.String("type", "GameInitialized")).Len())

	drawn := events.FilterField(zap.String("type", "CardDrawn")).Len()
	assert.Equal(t, 10, drawn, "opening hands")
	assert.Len(t, sess.manager.Logger().(*log.ZapLogger).Events(), events.Len())
}
