package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventGameInitialized EventType = iota
	EventCardDrawn
	EventPhaseChange
	EventNewTurn
	EventCoinsChange
	EventSummon
	EventDisplace
	EventMove
	EventPassiveApplied
	EventAttackDeclare
	EventDirectAttackDeclare
	EventDamageCalc
	EventBattleDestroy
	EventSecurityReveal
	EventSpellCast
	EventSpellEffect
	EventSendToTrash
	EventAddToHand
	EventApprenticeRejected
	EventEvolutionStarted
	EventEvolutionCancelled
	EventEvolve
	EventShuffle
	EventGameOver
	EventStateChanged
)

func (e EventType) String() string {
	switch e {
	case EventGameInitialized:
		return "GameInitialized"
	case EventCardDrawn:
		return "CardDrawn"
	case EventPhaseChange:
		return "PhaseChanged"
	case EventNewTurn:
		return "NewTurn"
	case EventCoinsChange:
		return "CoinsChange"
	case EventSummon:
		return "Summon"
	case EventDisplace:
		return "Displace"
	case EventMove:
		return "Move"
	case EventPassiveApplied:
		return "PassiveApplied"
	case EventAttackDeclare:
		return "AttackDeclare"
	case EventDirectAttackDeclare:
		return "DirectAttackDeclare"
	case EventDamageCalc:
		return "DamageCalc"
	case EventBattleDestroy:
		return "BattleDestroy"
	case EventSecurityReveal:
		return "SecurityReveal"
	case EventSpellCast:
		return "SpellCast"
	case EventSpellEffect:
		return "SpellEffect"
	case EventSendToTrash:
		return "SendToTrash"
	case EventAddToHand:
		return "AddToHand"
	case EventApprenticeRejected:
		return "ApprenticeRejected"
	case EventEvolutionStarted:
		return "EvolutionStarted"
	case EventEvolutionCancelled:
		return "EvolutionCancelled"
	case EventEvolve:
		return "Evolve"
	case EventShuffle:
		return "Shuffle"
	case EventGameOver:
		return "GameOver"
	case EventStateChanged:
		return "StateChanged"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a game.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based)
	Phase   string    // current phase name (e.g. "play")
	Player  string    // acting player id
	Type    EventType // event type
	Card    string    // card name (if applicable)
	CardID  string    // card instance id (if applicable)
	Details string    // human-readable detail string

	Apprentice bool   // CardDrawn: drawn from the apprentice deck
	Winner     string // GameOver
	WinnerName string // GameOver
	Reason     string // GameOver, ApprenticeRejected
}
