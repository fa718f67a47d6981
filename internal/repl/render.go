package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/peterkuimelis/gridclash/internal/game"
	"github.com/peterkuimelis/gridclash/internal/view"
)

func renderState(w io.Writer, sv *view.StateView) {
	if sv == nil {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔══════════════════════════════════════════════════════╗")

	opp := sv.Opponent
	fmt.Fprintf(w, "║  %s  Coins: %d  Hand: %d  Deck: %d  Security: %d  Trash: %d\n",
		strings.ToUpper(opp.Name), opp.Coins, opp.HandCount, opp.DeckCount, opp.SecurityCount, len(opp.Trash))
	fmt.Fprintf(w, "║  Apprentices: %s\n", formatApprentices(opp.ApprenticeZone))
	// The opponent's front row faces ours, so their rows print back to front.
	for row := game.FieldSize/game.FieldColumns - 1; row >= 0; row-- {
		fmt.Fprintf(w, "║  %s\n", formatRow(opp.Field, row))
	}

	fmt.Fprintln(w, "║──────────────────────────────────────────────────────")

	you := sv.You
	for row := 0; row < game.FieldSize/game.FieldColumns; row++ {
		fmt.Fprintf(w, "║  %s\n", formatRow(you.Field, row))
	}
	fmt.Fprintf(w, "║  Apprentices: %s\n", formatApprentices(you.ApprenticeZone))
	fmt.Fprintf(w, "║  YOU  Coins: %d  Hand: %d  Deck: %d  Security: %d  Trash: %d\n",
		you.Coins, you.HandCount, you.DeckCount, you.SecurityCount, len(you.Trash))
	fmt.Fprintln(w, "╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Turn %d | %s", sv.Turn, sv.Phase)
	if sv.IsYourTurn {
		turnInfo += " | Your turn"
	} else {
		turnInfo += " | Opponent's turn"
	}
	fmt.Fprintln(w, turnInfo)
	if sv.Evolution != nil {
		fmt.Fprintf(w, "Evolving with %s: use 'into <pos> <target>' or 'cancel'\n", sv.Evolution.Apprentice)
	}

	if len(you.Hand) > 0 {
		fmt.Fprintf(w, "\nHand: ")
		for i, c := range you.Hand {
			fmt.Fprintf(w, "[%d] %s  ", i+1, formatHandCard(c))
		}
		fmt.Fprintln(w)
	}
}

func formatRow(field []view.SlotView, row int) string {
	var parts []string
	for col := 0; col < game.FieldColumns; col++ {
		parts = append(parts, formatSlot(field[row*game.FieldColumns+col]))
	}
	return strings.Join(parts, " ")
}

func formatSlot(sv view.SlotView) string {
	if sv.Empty {
		return fmt.Sprintf("[%d:            ]", sv.Position)
	}
	mark := ""
	if sv.HasAttacked {
		mark = "*"
	}
	return fmt.Sprintf("[%d:%-8.8s %5d%s]", sv.Position, sv.Card.Name, sv.Card.CP, mark)
}

func formatApprentices(zone []view.SlotView) string {
	var parts []string
	for _, sv := range zone {
		if sv.Empty {
			parts = append(parts, "[ ]")
			continue
		}
		parts = append(parts, fmt.Sprintf("[%d:%s]", sv.Position+1, sv.Card.Name))
	}
	return strings.Join(parts, " ")
}

func formatHandCard(c view.CardView) string {
	if c.CP > 0 {
		return fmt.Sprintf("%s (%d¢, CP %d)", c.Name, c.Cost, c.CP)
	}
	return fmt.Sprintf("%s (%d¢)", c.Name, c.Cost)
}

func renderEvolution(w io.Writer, d game.EvolutionDecision) {
	if len(d.Choices) == 0 {
		fmt.Fprintln(w, "No basic creature can evolve. Use 'cancel'.")
		return
	}
	fmt.Fprintf(w, "\nEvolve with %s:\n", d.Apprentice.Name())
	for _, c := range d.Choices {
		for _, t := range c.Targets {
			note := ""
			if !t.Affordable {
				note = " (not enough coins)"
			}
			fmt.Fprintf(w, "  into %d %s   %s -> %s, %d¢%s\n", c.Position, t.ID, c.Card.Name(), t.Name, t.Cost, note)
		}
	}
}

func renderTargets(w io.Writer, o game.TargetOptions) {
	fmt.Fprintf(w, "%s at %d", o.Attacker.Name(), o.Position)
	if len(o.SpecialAbilities) > 0 {
		fmt.Fprintf(w, " [%s]", strings.Join(o.SpecialAbilities, ", "))
	}
	fmt.Fprintln(w)
	if len(o.ValidTargets) == 0 {
		fmt.Fprintln(w, "  no creatures in range")
	} else {
		fmt.Fprintf(w, "  in range: %v\n", o.ValidTargets)
	}
	if o.CanAttackDirectly {
		fmt.Fprintln(w, "  can attack security")
	}
}

func renderGameOver(w io.Writer, gs *game.GameState) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════")
	fmt.Fprintln(w, "          GAME OVER")
	fmt.Fprintln(w, "═══════════════════════════════════")
	fmt.Fprintf(w, "%s wins: %s\n", gs.WinnerName(), gs.Result)
	fmt.Fprintln(w, "═══════════════════════════════════")
}

const helpText = `Commands:
  draw                  take the turn's draw (draw phase)
  draw extra            pay for an extra draw
  draw apprentice       draw an apprentice into the apprentice zone
  place <hand#>         show where a creature can be summoned
  play <hand#> [pos]    summon a creature (pos 0-5, default lowest free)
  cast <hand#> <me|opp> <pos>
                        cast a spell on a creature
  evolve <slot#>        start evolving with an apprentice
  into <pos> <target>   finish the evolution
  cancel                abandon the evolution
  move <from> <to>      move a creature one step (movement phase)
  targets <pos>         list what a creature can attack
  attack <pos> <enemy>  attack an enemy creature
  direct <pos>          attack the enemy security stack
  next                  advance to the next phase
  state                 show the board
  concede               give up
  quit                  leave
`
