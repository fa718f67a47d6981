// Package repl is a terminal front-end for one human seat against the bot.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/peterkuimelis/gridclash/internal/ai"
	"github.com/peterkuimelis/gridclash/internal/game"
	"github.com/peterkuimelis/gridclash/internal/log"
	"github.com/peterkuimelis/gridclash/internal/view"
)

// REPL reads commands for the human player and lets the bot play the other seat.
type REPL struct {
	m     *game.Manager
	human string
	bot   *ai.Bot
	in    *bufio.Scanner
	out   io.Writer
	log   *zap.Logger
}

// New creates a REPL for humanID on a started game. Events are echoed to out as
// they happen.
func New(m *game.Manager, humanID string, bot *ai.Bot, in io.Reader, out io.Writer, logger *zap.Logger) *REPL {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &REPL{
		m:     m,
		human: humanID,
		bot:   bot,
		in:    bufio.NewScanner(in),
		out:   out,
		log:   logger,
	}
	m.Subscribe(log.NewTextLogger(out).Log)
	return r
}

// Run plays until the game ends, the input runs out, or the player quits.
func (r *REPL) Run(ctx context.Context) error {
	gs := r.m.State()
	show := true
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if gs.Over {
			renderGameOver(r.out, gs)
			return nil
		}
		if gs.CurrentPlayer().ID != r.human {
			if err := r.bot.PlayTurn(r.m); err != nil {
				return err
			}
			show = true
			continue
		}

		if show {
			renderState(r.out, view.Build(gs, r.human))
			show = false
		}
		fmt.Fprintf(r.out, "%s> ", gs.Phase)
		if !r.in.Scan() {
			return r.in.Err()
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		quit, err := r.exec(strings.Fields(line))
		if quit {
			return nil
		}
		if err != nil {
			fmt.Fprintf(r.out, "✗ %v\n", err)
			continue
		}
		show = true
	}
}

// exec runs one command. It reports quit when the player wants to leave.
func (r *REPL) exec(args []string) (quit bool, err error) {
	cmd, args := args[0], args[1:]
	r.log.Debug("command", zap.String("cmd", cmd), zap.Strings("args", args))

	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help", "?":
		fmt.Fprint(r.out, helpText)
		return false, nil
	case "state":
		return false, nil
	case "next", "n":
		return false, r.m.AdvancePhase()
	case "draw":
		return false, r.draw(args)
	case "place":
		return false, r.place(args)
	case "play":
		return false, r.play(args)
	case "cast":
		return false, r.cast(args)
	case "evolve":
		return false, r.evolve(args)
	case "into":
		return false, r.into(args)
	case "cancel":
		return false, r.m.CancelEvolution(r.human)
	case "move":
		return false, r.move(args)
	case "targets":
		return false, r.targets(args)
	case "attack":
		return false, r.attack(args)
	case "direct":
		return false, r.direct(args)
	case "concede":
		return false, r.m.EndGame(r.m.State().Opponent(r.m.State().Player(r.human)).ID, "conceded")
	default:
		return false, fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
}

// ints parses exactly n integer arguments.
func ints(args []string, n int, usage string) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("usage: %s", usage)
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("usage: %s", usage)
		}
		out[i] = v
	}
	return out, nil
}

func (r *REPL) draw(args []string) error {
	apprentice, optional := false, false
	if len(args) > 0 {
		switch args[0] {
		case "apprentice", "a":
			apprentice = true
		case "extra", "x":
			optional = true
		default:
			return fmt.Errorf("usage: draw [extra|apprentice]")
		}
	}
	res, err := r.m.DrawCard(r.human, apprentice, optional)
	if res.Rejected {
		fmt.Fprintf(r.out, "%s went to the bottom of the apprentice deck\n", res.Card.Name())
	}
	return err
}

func (r *REPL) place(args []string) error {
	v, err := ints(args, 1, "place <hand#>")
	if err != nil {
		return err
	}
	d, err := r.m.PlacementOptions(r.human, v[0]-1)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s costs %d¢. Legal: %v. Free: %v. Default: %d.\n",
		d.Card.Name(), d.Cost, d.Positions, d.Free, d.Default)
	return nil
}

func (r *REPL) play(args []string) error {
	var pos *int
	usage := "play <hand#> [pos]"
	switch len(args) {
	case 1:
	case 2:
		v, err := ints(args[1:], 1, usage)
		if err != nil {
			return err
		}
		pos = game.At(v[0])
	default:
		return fmt.Errorf("usage: %s", usage)
	}
	v, err := ints(args[:1], 1, usage)
	if err != nil {
		return err
	}
	_, err = r.m.PlayCard(r.human, v[0]-1, pos)
	return err
}

func (r *REPL) cast(args []string) error {
	usage := "cast <hand#> <me|opp> <pos>"
	if len(args) != 3 {
		return fmt.Errorf("usage: %s", usage)
	}
	v, err := ints([]string{args[0], args[2]}, 2, usage)
	if err != nil {
		return err
	}
	gs := r.m.State()
	target := r.human
	switch args[1] {
	case "me", "self":
	case "opp", "opponent":
		target = gs.Opponent(gs.Player(r.human)).ID
	default:
		return fmt.Errorf("usage: %s", usage)
	}
	res, err := r.m.ExecuteSpell(r.human, v[0]-1, target, v[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, res.Details)
	return nil
}

func (r *REPL) evolve(args []string) error {
	v, err := ints(args, 1, "evolve <slot#>")
	if err != nil {
		return err
	}
	d, err := r.m.StartEvolution(r.human, v[0]-1)
	if err != nil {
		return err
	}
	renderEvolution(r.out, d)
	return nil
}

func (r *REPL) into(args []string) error {
	usage := "into <pos> <target>"
	if len(args) != 2 {
		return fmt.Errorf("usage: %s", usage)
	}
	v, err := ints(args[:1], 1, usage)
	if err != nil {
		return err
	}
	_, err = r.m.EvolveCard(r.human, v[0], args[1])
	return err
}

func (r *REPL) move(args []string) error {
	v, err := ints(args, 2, "move <from> <to>")
	if err != nil {
		return err
	}
	_, err = r.m.MoveCreature(r.human, v[0], v[1])
	return err
}

func (r *REPL) targets(args []string) error {
	v, err := ints(args, 1, "targets <pos>")
	if err != nil {
		return err
	}
	opts, err := r.m.ValidTargets(r.human, v[0])
	if err != nil {
		return err
	}
	renderTargets(r.out, opts)
	return nil
}

func (r *REPL) attack(args []string) error {
	v, err := ints(args, 2, "attack <pos> <enemy>")
	if err != nil {
		return err
	}
	res, err := r.m.AttackCreature(r.human, v[0], v[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%d vs %d\n", res.AttackerTotal, res.DefenderTotal)
	return nil
}

func (r *REPL) direct(args []string) error {
	v, err := ints(args, 1, "direct <pos>")
	if err != nil {
		return err
	}
	res, err := r.m.AttackSecurity(r.human, v[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "security remaining: %d\n", res.Remaining)
	return nil
}
