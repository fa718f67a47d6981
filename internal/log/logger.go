package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	if event.Type == EventStateChanged {
		return
	}
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	if phase == "" {
		phase = "        "
	}
	for len(phase) < 9 {
		phase += " "
	}

	return fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewGameInitializedEvent(playerA, playerB string) GameEvent {
	return GameEvent{
		Turn:    1,
		Type:    EventGameInitialized,
		Details: fmt.Sprintf("Game initialized: %s vs %s", playerA, playerB),
	}
}

func NewPhaseChangeEvent(turn int, phase string, player string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s (%s)", phase, player),
	}
}

func NewTurnEvent(turn int, player string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "draw",
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (%s) ===", turn, player),
	}
}

func NewCardDrawnEvent(turn int, phase string, player string, cardName, cardID string, apprentice bool) GameEvent {
	from := "deck"
	if apprentice {
		from = "apprentice deck"
	}
	return GameEvent{
		Turn:       turn,
		Phase:      phase,
		Player:     player,
		Type:       EventCardDrawn,
		Card:       cardName,
		CardID:     cardID,
		Apprentice: apprentice,
		Details:    fmt.Sprintf("%s draws %s from the %s", player, cardName, from),
	}
}

func NewCoinsChangeEvent(turn int, phase string, player string, oldCoins, newCoins int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventCoinsChange,
		Details: fmt.Sprintf("%s coins: %d → %d (%s)", player, oldCoins, newCoins, reason),
	}
}

func NewSummonEvent(turn int, phase string, player string, cardName string, cp int, position int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSummon,
		Card:    cardName,
		Details: fmt.Sprintf("%s summons %s (CP %d) to position %d", player, cardName, cp, position),
	}
}

func NewDisplaceEvent(turn int, phase string, player string, cardName string, position int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDisplace,
		Card:    cardName,
		Details: fmt.Sprintf("%s is displaced from position %d", cardName, position),
	}
}

func NewMoveEvent(turn int, phase string, player string, cardName string, from, to int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventMove,
		Card:    cardName,
		Details: fmt.Sprintf("%s moves %s: %d → %d", player, cardName, from, to),
	}
}

func NewPassiveAppliedEvent(turn int, phase string, player string, cardName, source, effect string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPassiveApplied,
		Card:    cardName,
		Details: fmt.Sprintf("%s empowers %s (%s)", source, cardName, effect),
	}
}

func NewAttackDeclareEvent(turn int, player string, attacker string, defender string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "attack",
		Player:  player,
		Type:    EventAttackDeclare,
		Card:    attacker,
		Details: fmt.Sprintf("%s declares attack: %s → %s", player, attacker, defender),
	}
}

func NewDirectAttackDeclareEvent(turn int, player string, attacker string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "attack",
		Player:  player,
		Type:    EventDirectAttackDeclare,
		Card:    attacker,
		Details: fmt.Sprintf("%s attacks the security stack with %s", player, attacker),
	}
}

func NewDamageCalcEvent(turn int, player string, details string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "attack",
		Player:  player,
		Type:    EventDamageCalc,
		Details: details,
	}
}

func NewBattleDestroyEvent(turn int, player string, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "attack",
		Player:  player,
		Type:    EventBattleDestroy,
		Card:    cardName,
		Details: fmt.Sprintf("%s is destroyed by battle", cardName),
	}
}

func NewSecurityRevealEvent(turn int, player string, cardName string, remaining int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "attack",
		Player:  player,
		Type:    EventSecurityReveal,
		Card:    cardName,
		Details: fmt.Sprintf("%s's security reveals %s (%d left)", player, cardName, remaining),
	}
}

func NewSpellCastEvent(turn int, phase string, player string, spellName, targetName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSpellCast,
		Card:    spellName,
		Details: fmt.Sprintf("%s casts %s on %s", player, spellName, targetName),
	}
}

func NewSpellEffectEvent(turn int, phase string, player string, spellName, details string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSpellEffect,
		Card:    spellName,
		Details: details,
	}
}

func NewSendToTrashEvent(turn int, phase string, player string, cardName string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSendToTrash,
		Card:    cardName,
		Details: fmt.Sprintf("%s is sent to %s's trash (%s)", cardName, player, reason),
	}
}

func NewAddToHandEvent(turn int, phase string, player string, cardName string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventAddToHand,
		Card:    cardName,
		Details: fmt.Sprintf("%s is added to %s's hand (%s)", cardName, player, reason),
	}
}

func NewApprenticeRejectedEvent(turn int, phase string, player string, cardName string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventApprenticeRejected,
		Card:    cardName,
		Reason:  reason,
		Details: fmt.Sprintf("%s returns to the bottom of %s's apprentice deck (%s)", cardName, player, reason),
	}
}

func NewEvolutionStartedEvent(turn int, phase string, player string, apprentice string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventEvolutionStarted,
		Card:    apprentice,
		Details: fmt.Sprintf("%s begins an evolution with %s", player, apprentice),
	}
}

func NewEvolutionCancelledEvent(turn int, phase string, player string, apprentice string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventEvolutionCancelled,
		Card:    apprentice,
		Details: fmt.Sprintf("%s cancels the evolution with %s", player, apprentice),
	}
}

func NewEvolveEvent(turn int, phase string, player string, from, to string, cp int, position int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventEvolve,
		Card:    to,
		Details: fmt.Sprintf("%s evolves %s into %s (CP %d) at position %d", player, from, to, cp, position),
	}
}

func NewShuffleEvent(turn int, player string, deck string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Player:  player,
		Type:    EventShuffle,
		Details: fmt.Sprintf("%s shuffled their %s", player, deck),
	}
}

func NewGameOverEvent(turn int, phase string, winner, winnerName, reason string) GameEvent {
	return GameEvent{
		Turn:       turn,
		Phase:      phase,
		Player:     winner,
		Type:       EventGameOver,
		Winner:     winner,
		WinnerName: winnerName,
		Reason:     reason,
		Details:    fmt.Sprintf("%s wins! (%s)", winnerName, reason),
	}
}

func NewStateChangedEvent(turn int, phase string, player string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventStateChanged,
		Details: "state changed",
	}
}
