package game

import "fmt"

// Reason classifies a rejected rules operation.
type Reason int

const (
	ReasonInvalidIndex Reason = iota + 1
	ReasonInvalidPosition
	ReasonNotACreature
	ReasonNotASpell
	ReasonNotEnoughCoins
	ReasonFieldFull
	ReasonAlreadyMoved
	ReasonPositionOccupied
	ReasonNotAdjacent
	ReasonCannotAttack
	ReasonOutOfRange
	ReasonCreaturesBlocking
	ReasonInvalidTarget
	ReasonNotBasicClass
	ReasonInvalidEvolutionPath
	ReasonNoEvolutionInProgress
	ReasonApprenticeLimit
	ReasonEmptyDeck
	ReasonTemplateNotFound
	ReasonInvalidDeckSize
	ReasonWrongPhaseOrPlayer
	ReasonGameOver
)

var reasonNames = map[Reason]string{
	ReasonInvalidIndex:          "InvalidIndex",
	ReasonInvalidPosition:       "InvalidPosition",
	ReasonNotACreature:          "NotACreature",
	ReasonNotASpell:             "NotASpell",
	ReasonNotEnoughCoins:        "NotEnoughCoins",
	ReasonFieldFull:             "FieldFull",
	ReasonAlreadyMoved:          "AlreadyMoved",
	ReasonPositionOccupied:      "PositionOccupied",
	ReasonNotAdjacent:           "NotAdjacent",
	ReasonCannotAttack:          "CannotAttack",
	ReasonOutOfRange:            "OutOfRange",
	ReasonCreaturesBlocking:     "CreaturesBlocking",
	ReasonInvalidTarget:         "InvalidTarget",
	ReasonNotBasicClass:         "NotBasicClass",
	ReasonInvalidEvolutionPath:  "InvalidEvolutionPath",
	ReasonNoEvolutionInProgress: "NoEvolutionInProgress",
	ReasonApprenticeLimit:       "ApprenticeLimit",
	ReasonEmptyDeck:             "EmptyDeck",
	ReasonTemplateNotFound:      "TemplateNotFound",
	ReasonInvalidDeckSize:       "InvalidDeckSize",
	ReasonWrongPhaseOrPlayer:    "WrongPhaseOrPlayer",
	ReasonGameOver:              "GameOver",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// RuleError is returned for every expected rule violation. The operation that
// returned it changed nothing.
type RuleError struct {
	Reason  Reason
	Message string
}

func (e *RuleError) Error() string {
	if e.Message == "" {
		return e.Reason.String()
	}
	return e.Reason.String() + ": " + e.Message
}

// Is matches any *RuleError with the same reason, so callers can compare against
// the sentinels below regardless of message.
func (e *RuleError) Is(target error) bool {
	t, ok := target.(*RuleError)
	return ok && t.Reason == e.Reason
}

func ruleErr(r Reason, format string, args ...any) *RuleError {
	return &RuleError{Reason: r, Message: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is.
var (
	ErrInvalidIndex          = &RuleError{Reason: ReasonInvalidIndex}
	ErrInvalidPosition       = &RuleError{Reason: ReasonInvalidPosition}
	ErrNotACreature          = &RuleError{Reason: ReasonNotACreature}
	ErrNotASpell             = &RuleError{Reason: ReasonNotASpell}
	ErrNotEnoughCoins        = &RuleError{Reason: ReasonNotEnoughCoins}
	ErrFieldFull             = &RuleError{Reason: ReasonFieldFull}
	ErrAlreadyMoved          = &RuleError{Reason: ReasonAlreadyMoved}
	ErrPositionOccupied      = &RuleError{Reason: ReasonPositionOccupied}
	ErrNotAdjacent           = &RuleError{Reason: ReasonNotAdjacent}
	ErrCannotAttack          = &RuleError{Reason: ReasonCannotAttack}
	ErrOutOfRange            = &RuleError{Reason: ReasonOutOfRange}
	ErrCreaturesBlocking     = &RuleError{Reason: ReasonCreaturesBlocking}
	ErrInvalidTarget         = &RuleError{Reason: ReasonInvalidTarget}
	ErrNotBasicClass         = &RuleError{Reason: ReasonNotBasicClass}
	ErrInvalidEvolutionPath  = &RuleError{Reason: ReasonInvalidEvolutionPath}
	ErrNoEvolutionInProgress = &RuleError{Reason: ReasonNoEvolutionInProgress}
	ErrApprenticeLimit       = &RuleError{Reason: ReasonApprenticeLimit}
	ErrEmptyDeck             = &RuleError{Reason: ReasonEmptyDeck}
	ErrTemplateNotFound      = &RuleError{Reason: ReasonTemplateNotFound}
	ErrInvalidDeckSize       = &RuleError{Reason: ReasonInvalidDeckSize}
	ErrWrongPhaseOrPlayer    = &RuleError{Reason: ReasonWrongPhaseOrPlayer}
	ErrGameOver              = &RuleError{Reason: ReasonGameOver}
)
