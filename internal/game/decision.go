package game

// A decision describes a choice the caller must make before the next operation. The
// engine never waits for it: the caller resolves it by calling the follow-up
// operation with the chosen value, or abandons it with no effect on the game.

// PlacementDecision lists where a creature from hand may be summoned.
type PlacementDecision struct {
	Card      *CardInstance
	Cost      int
	Positions []int // every legal summon slot; occupied slots displace their occupant
	Free      []int // legal slots that are currently empty
	Default   int   // slot used when no position is given, -1 if none
}

// EvolutionDecision lists the evolutions available after StartEvolution.
// Resolve it with Manager.EvolveCard or Manager.CancelEvolution.
type EvolutionDecision struct {
	Apprentice *CardInstance
	Choices    []EvolutionChoice
}

// EvolutionChoice is one basic creature and the advanced forms it can take.
type EvolutionChoice struct {
	Position int
	Card     *CardInstance
	Targets  []EvolutionTarget
}

type EvolutionTarget struct {
	ID         string
	Name       string
	Cost       int
	Affordable bool
}
