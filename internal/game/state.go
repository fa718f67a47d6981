package game

// EvolutionContext tracks an evolution started from an apprentice.
type EvolutionContext struct {
	Active     bool
	Apprentice *CardInstance
	Player     string
}

// GameState holds the complete state of a game. It is owned by the Manager.
type GameState struct {
	Players [2]*Player
	Current int // index of the player whose turn it is
	Phase   Phase
	Turn    int

	Started bool
	Over    bool
	Winner  string // player id, empty while the game runs
	Result  string // reason the game ended

	Evolution     EvolutionContext
	MainDrawTaken bool
}

// CurrentPlayer returns the player whose turn it is.
func (gs *GameState) CurrentPlayer() *Player {
	return gs.Players[gs.Current]
}

// Opponent returns the player who is not p.
func (gs *GameState) Opponent(p *Player) *Player {
	if gs.Players[0] == p {
		return gs.Players[1]
	}
	return gs.Players[0]
}

// Player looks a player up by id.
func (gs *GameState) Player(id string) *Player {
	for _, p := range gs.Players {
		if p != nil && p.ID == id {
			return p
		}
	}
	return nil
}

// WinnerName returns the display name of the winner, or "".
func (gs *GameState) WinnerName() string {
	if p := gs.Player(gs.Winner); p != nil {
		return p.Name
	}
	return ""
}
