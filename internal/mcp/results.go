package mcp

import "github.com/peterkuimelis/gridclash/internal/game"

// Result views returned in ToolResponse.Result. They name cards instead of
// embedding engine pointers.

type drawResult struct {
	Card       string `json:"card,omitempty"`
	Apprentice bool   `json:"apprentice,omitempty"`
	Rejected   bool   `json:"rejected,omitempty"`
	DeckOut    bool   `json:"deck_out,omitempty"`
}

type placementResult struct {
	Card     string `json:"card"`
	Cost     int    `json:"cost"`
	Legal    []int  `json:"legal_positions"`
	Free     []int  `json:"free_positions"`
	Default  int    `json:"default_position"`
	Displace bool   `json:"must_displace,omitempty"`
}

type playResult struct {
	Card      string   `json:"card"`
	CP        int      `json:"cp"`
	Position  int      `json:"position"`
	Displaced string   `json:"displaced,omitempty"`
	Passives  []string `json:"passives,omitempty"`
	Drew      string   `json:"drew,omitempty"`
}

type spellResult struct {
	Spell     string `json:"spell"`
	Target    string `json:"target,omitempty"`
	Destroyed bool   `json:"destroyed,omitempty"`
	Details   string `json:"details"`
}

type evolutionTarget struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Cost       int    `json:"cost"`
	Affordable bool   `json:"affordable"`
}

type evolutionChoice struct {
	Position int               `json:"position"`
	Card     string            `json:"card"`
	CP       int               `json:"cp"`
	Targets  []evolutionTarget `json:"targets"`
}

type evolutionResult struct {
	Apprentice string            `json:"apprentice"`
	Choices    []evolutionChoice `json:"choices"`
}

type evolveResult struct {
	From     string `json:"from"`
	To       string `json:"to"`
	CP       int    `json:"cp"`
	Position int    `json:"position"`
	Cost     int    `json:"cost"`
}

type moveResult struct {
	Card string `json:"card"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

type targetsResult struct {
	Attacker          string   `json:"attacker"`
	Position          int      `json:"position"`
	Targets           []int    `json:"targets"`
	CanAttackSecurity bool     `json:"can_attack_security"`
	Abilities         []string `json:"abilities,omitempty"`
}

type attackResult struct {
	AttackerTotal     int  `json:"attacker_total"`
	DefenderTotal     int  `json:"defender_total"`
	AttackerDestroyed bool `json:"attacker_destroyed"`
	DefenderDestroyed bool `json:"defender_destroyed"`
}

type securityResult struct {
	Revealed          string `json:"revealed,omitempty"`
	AttackerDestroyed bool   `json:"attacker_destroyed"`
	SecurityDestroyed bool   `json:"security_destroyed"`
	ReturnedToHand    bool   `json:"returned_to_hand"`
	Remaining         int    `json:"remaining"`
}

func nameOf(ci *game.CardInstance) string {
	if ci == nil {
		return ""
	}
	return ci.Name()
}

func fromDraw(r game.DrawResult) drawResult {
	return drawResult{Card: nameOf(r.Card), Apprentice: r.Apprentice, Rejected: r.Rejected, DeckOut: r.GameOver}
}

func fromPlacement(d game.PlacementDecision) placementResult {
	return placementResult{
		Card:     d.Card.Name(),
		Cost:     d.Cost,
		Legal:    d.Positions,
		Free:     d.Free,
		Default:  d.Default,
		Displace: len(d.Free) == 0,
	}
}

func fromPlay(r game.PlayResult) playResult {
	out := playResult{
		Card:      r.Card.Name(),
		CP:        r.Card.CP(),
		Position:  r.Position,
		Displaced: nameOf(r.Displaced),
		Drew:      nameOf(r.Drawn),
	}
	for _, p := range r.Passives {
		out.Passives = append(out.Passives, p.Source+": "+p.Effect)
	}
	return out
}

func fromSpell(r game.SpellResult) spellResult {
	return spellResult{Spell: r.Spell.Name(), Target: nameOf(r.Target), Destroyed: r.TargetDestroyed, Details: r.Details}
}

func fromEvolution(d game.EvolutionDecision) evolutionResult {
	out := evolutionResult{Apprentice: d.Apprentice.Name(), Choices: []evolutionChoice{}}
	for _, c := range d.Choices {
		choice := evolutionChoice{Position: c.Position, Card: c.Card.Name(), CP: c.Card.CP()}
		for _, t := range c.Targets {
			choice.Targets = append(choice.Targets, evolutionTarget(t))
		}
		out.Choices = append(out.Choices, choice)
	}
	return out
}

func fromEvolve(r game.EvolveResult) evolveResult {
	return evolveResult{From: r.From.Name(), To: r.To.Name(), CP: r.To.CP(), Position: r.Position, Cost: r.Cost}
}

func fromTargets(o game.TargetOptions) targetsResult {
	out := targetsResult{
		Attacker:          o.Attacker.Name(),
		Position:          o.Position,
		Targets:           o.ValidTargets,
		CanAttackSecurity: o.CanAttackDirectly,
		Abilities:         o.SpecialAbilities,
	}
	if out.Targets == nil {
		out.Targets = []int{}
	}
	return out
}

func fromAttack(r game.AttackResult) attackResult {
	return attackResult{
		AttackerTotal:     r.AttackerTotal,
		DefenderTotal:     r.DefenderTotal,
		AttackerDestroyed: r.AttackerDestroyed,
		DefenderDestroyed: r.DefenderDestroyed,
	}
}

func fromSecurity(r game.SecurityResult) securityResult {
	return securityResult{
		Revealed:          nameOf(r.Revealed),
		AttackerDestroyed: r.AttackerDestroyed,
		SecurityDestroyed: r.SecurityDestroyed,
		ReturnedToHand:    r.ReturnedToHand,
		Remaining:         r.Remaining,
	}
}
