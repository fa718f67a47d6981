package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger records events in memory and mirrors them as structured zap entries.
// StateChanged events go to Debug; everything else to the logger's level, Info
// unless changed with AtLevel.
type ZapLogger struct {
	MemoryLogger
	z     *zap.Logger
	level zapcore.Level
}

func NewZapLogger(z *zap.Logger) *ZapLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &ZapLogger{z: z, level: zapcore.InfoLevel}
}

// AtLevel sets the level game events are written at.
func (l *ZapLogger) AtLevel(level zapcore.Level) *ZapLogger {
	l.level = level
	return l
}

func (l *ZapLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)

	fields := []zap.Field{
		zap.Int("seq", l.seq),
		zap.Int("turn", event.Turn),
		zap.String("phase", event.Phase),
		zap.String("player", event.Player),
		zap.String("type", event.Type.String()),
	}
	if event.Card != "" {
		fields = append(fields, zap.String("card", event.Card))
	}
	if event.CardID != "" {
		fields = append(fields, zap.String("card_id", event.CardID))
	}
	if event.Reason != "" {
		fields = append(fields, zap.String("reason", event.Reason))
	}
	if event.Winner != "" {
		fields = append(fields, zap.String("winner", event.Winner))
	}

	if event.Type == EventStateChanged {
		l.z.Debug(event.Details, fields...)
		return
	}
	if ce := l.z.Check(l.level, event.Details); ce != nil {
		ce.Write(fields...)
	}
}
