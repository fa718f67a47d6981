package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMemoryLoggerSequencing(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(NewTurnEvent(1, "alice"))
	l.Log(NewCardDrawnEvent(1, "draw", "alice", "Warrior", "c-1", false))
	l.Log(NewStateChangedEvent(1, "draw", "alice"))

	events := l.Events()
	require.Len(t, events, 3)
	for i, e := range events {
		assert.Equal(t, i+1, e.Seq)
	}
	assert.Len(t, l.EventsOfType(EventCardDrawn), 1)
	assert.Equal(t, EventStateChanged, l.LastEvent().Type)
}

func TestTextLoggerSkipsStateChanged(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf)
	l.Log(NewPhaseChangeEvent(2, "attack", "bob"))
	l.Log(NewStateChangedEvent(2, "attack", "bob"))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "Phase → attack")
	assert.Len(t, l.Events(), 2)
}

func TestZapLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	l.Log(NewGameOverEvent(4, "attack", "alice", "Alice", "security exhausted"))
	l.Log(NewStateChangedEvent(4, "attack", "alice"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "security exhausted", entries[0].ContextMap()["reason"])
	assert.Equal(t, "alice", entries[0].ContextMap()["winner"])
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Len(t, l.Events(), 2)
}

func TestZapLoggerAtLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewZapLogger(zap.New(core)).AtLevel(zapcore.DebugLevel)

	l.Log(NewPhaseChangeEvent(1, "play", "alice"))
	assert.Zero(t, logs.Len())
	assert.Len(t, l.Events(), 1)

	l.AtLevel(zapcore.WarnLevel)
	l.Log(NewPhaseChangeEvent(1, "attack", "alice"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestEventTypeNames(t *testing.T) {
	assert.Equal(t, "CardDrawn", EventCardDrawn.String())
	assert.Equal(t, "GameOver", EventGameOver.String())
	assert.Equal(t, "Unknown", EventType(999).String())
}
