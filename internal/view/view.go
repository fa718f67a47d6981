// Package view builds read-only JSON snapshots of a game for renderers and agents.
package view

import (
	"github.com/peterkuimelis/gridclash/internal/game"
	"github.com/peterkuimelis/gridclash/internal/log"
)

// EventView is a simplified game event for the client.
type EventView struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Player  string `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// CardView describes one card the viewer is allowed to see.
type CardView struct {
	Index       int            `json:"index"`
	ID          string         `json:"id,omitempty"`
	Template    string         `json:"template,omitempty"`
	Name        string         `json:"name,omitempty"`
	Type        string         `json:"type,omitempty"`
	Class       string         `json:"class,omitempty"`
	Cost        int            `json:"cost,omitempty"`
	CP          int            `json:"cp,omitempty"`
	Stats       map[string]int `json:"stats,omitempty"`
	Abilities   []string       `json:"abilities,omitempty"`
	Description string         `json:"description,omitempty"`
	Evolutions  []string       `json:"evolutions,omitempty"`
}

// SlotView is one field or apprentice zone slot.
type SlotView struct {
	Position    int       `json:"position"`
	Empty       bool      `json:"empty,omitempty"`
	Card        *CardView `json:"card,omitempty"`
	CanAttack   bool      `json:"can_attack,omitempty"`
	HasAttacked bool      `json:"has_attacked,omitempty"`
	Moved       bool      `json:"moved,omitempty"`
	Evolved     bool      `json:"evolved,omitempty"`
}

// PlayerView shows one side of the board.
type PlayerView struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Coins               int        `json:"coins"`
	HandCount           int        `json:"hand_count"`
	Hand                []CardView `json:"hand,omitempty"` // only for "you"
	DeckCount           int        `json:"deck_count"`
	SecurityCount       int        `json:"security_count"`
	ApprenticeDeckCount int        `json:"apprentice_deck_count"`
	Trash               []string   `json:"trash,omitempty"`
	Field               []SlotView `json:"field"`
	ApprenticeZone      []SlotView `json:"apprentice_zone"`
	PlayedApprentice    bool       `json:"played_apprentice,omitempty"`
}

// EvolutionView is an open evolution.
type EvolutionView struct {
	Player     string `json:"player"`
	Apprentice string `json:"apprentice"`
}

// StateView is the game state from one player's perspective.
type StateView struct {
	You        PlayerView     `json:"you"`
	Opponent   PlayerView     `json:"opponent"`
	Turn       int            `json:"turn"`
	Phase      string         `json:"phase"`
	IsYourTurn bool           `json:"is_your_turn"`
	Evolution  *EvolutionView `json:"evolution,omitempty"`
	GameOver   bool           `json:"game_over,omitempty"`
	Winner     string         `json:"winner,omitempty"`
	Result     string         `json:"result,omitempty"`
}

// Build creates a StateView from the perspective of playerID. The opponent's hand
// and both security stacks are reduced to counts.
func Build(gs *game.GameState, playerID string) *StateView {
	me := gs.Player(playerID)
	if me == nil {
		return nil
	}
	opp := gs.Opponent(me)

	sv := &StateView{
		You:        buildPlayer(me, true),
		Opponent:   buildPlayer(opp, false),
		Turn:       gs.Turn,
		Phase:      gs.Phase.String(),
		IsYourTurn: gs.Started && gs.CurrentPlayer() == me,
		GameOver:   gs.Over,
		Winner:     gs.Winner,
		Result:     gs.Result,
	}
	if gs.Evolution.Active && gs.Evolution.Player == me.ID {
		sv.Evolution = &EvolutionView{
			Player:     gs.Evolution.Player,
			Apprentice: gs.Evolution.Apprentice.Name(),
		}
	}
	return sv
}

func buildPlayer(p *game.Player, isOwner bool) PlayerView {
	pv := PlayerView{
		ID:                  p.ID,
		Name:                p.Name,
		Coins:               p.Coins,
		HandCount:           p.Hand.Len(),
		DeckCount:           p.Deck.Len(),
		SecurityCount:       p.Security.Len(),
		ApprenticeDeckCount: p.ApprenticeDeck.Len(),
		PlayedApprentice:    p.HasPlayedApprentice,
	}
	if isOwner {
		for i, c := range p.Hand.Cards() {
			pv.Hand = append(pv.Hand, Card(c, i))
		}
	}
	for _, c := range p.Trash.Cards() {
		pv.Trash = append(pv.Trash, c.Name())
	}
	for pos := 0; pos < p.Field.Size(); pos++ {
		pv.Field = append(pv.Field, Slot(p, pos))
	}
	for slot := 0; slot < p.ApprenticeZone.Size(); slot++ {
		pv.ApprenticeZone = append(pv.ApprenticeZone, slotOf(p.ApprenticeZone.At(slot), slot, false))
	}
	return pv
}

// Slot describes position pos of p's field.
func Slot(p *game.Player, pos int) SlotView {
	ci := p.Field.At(pos)
	return slotOf(ci, pos, ci != nil && p.HasMoved[ci.ID])
}

func slotOf(ci *game.CardInstance, pos int, moved bool) SlotView {
	if ci == nil {
		return SlotView{Position: pos, Empty: true}
	}
	cv := Card(ci, pos)
	return SlotView{
		Position:    pos,
		Card:        &cv,
		CanAttack:   ci.CanAttack && !ci.HasAttacked,
		HasAttacked: ci.HasAttacked,
		Moved:       moved,
		Evolved:     ci.IsEvolved,
	}
}

// Card describes a single card instance at index.
func Card(ci *game.CardInstance, index int) CardView {
	t := ci.Template
	cv := CardView{
		Index:       index,
		ID:          ci.ID,
		Template:    t.ID,
		Name:        t.Name,
		Type:        t.Type.String(),
		Cost:        t.Cost,
		Description: t.Description,
	}
	if !ci.IsCreature() {
		return cv
	}
	cv.Class = ci.Class.String()
	cv.CP = ci.CP()
	cv.Stats = make(map[string]int)
	for s := game.STR; s <= game.EXP; s++ {
		cv.Stats[s.String()] = ci.Stat(s)
	}
	cv.Abilities = ci.Caps().Abilities()
	cv.Evolutions = t.Evolutions
	return cv
}

// Event converts a game event for the client.
func Event(e log.GameEvent) EventView {
	return EventView{
		Seq:     e.Seq,
		Turn:    e.Turn,
		Phase:   e.Phase,
		Player:  e.Player,
		Type:    e.Type.String(),
		Card:    e.Card,
		Details: e.Details,
	}
}

// Events converts a batch of events, skipping StateChanged markers.
func Events(events []log.GameEvent) []EventView {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		if e.Type == log.EventStateChanged {
			continue
		}
		out = append(out, Event(e))
	}
	return out
}
