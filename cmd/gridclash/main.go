package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/peterkuimelis/gridclash/internal/ai"
	"github.com/peterkuimelis/gridclash/internal/config"
	"github.com/peterkuimelis/gridclash/internal/game"
	"github.com/peterkuimelis/gridclash/internal/log"
	"github.com/peterkuimelis/gridclash/internal/repl"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	decksFile := flag.String("decks", "", "path to decks YAML file")
	deck := flag.String("deck", "", "deck name to play (from the decks file)")
	botDeck := flag.String("bot-deck", "", "deck name for the computer player")
	seed := flag.Int64("seed", 0, "RNG seed (0 for random)")
	name := flag.String("name", "You", "your display name")
	second := flag.Bool("second", false, "let the computer go first")
	flag.Parse()

	if err := run(*configPath, *decksFile, *deck, *botDeck, *name, *seed, *second); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, decksFile, deck, botDeck, name string, seed int64, second bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	decks := map[string]game.DeckList{}
	if decksFile != "" {
		if decks, err = game.LoadDeckFile(decksFile); err != nil {
			return err
		}
		logger.Info("loaded decks", zap.String("file", decksFile), zap.Strings("decks", game.DeckNames(decks)))
	}
	pick := func(deckName string) (*game.DeckList, error) {
		if deckName == "" {
			return nil, nil
		}
		d, ok := decks[deckName]
		if !ok {
			return nil, fmt.Errorf("unknown deck %q (available: %v)", deckName, game.DeckNames(decks))
		}
		return &d, nil
	}
	humanDeck, err := pick(deck)
	if err != nil {
		return err
	}
	computerDeck, err := pick(botDeck)
	if err != nil {
		return err
	}

	// The terminal already shows every event, so the zap mirror stays at debug.
	events := log.NewZapLogger(logger.Named("events")).AtLevel(zapcore.DebugLevel)
	m := game.NewManager(game.ManagerConfig{Rules: cfg.Rules, Logger: events, Zap: logger, Seed: seed})
	human := game.PlayerDef{ID: "human", Name: name, Deck: humanDeck}
	computer := game.PlayerDef{ID: "bot", Name: "Computer", Deck: computerDeck}
	seats := [2]game.PlayerDef{human, computer}
	if second {
		seats = [2]game.PlayerDef{computer, human}
	}

	r := repl.New(m, human.ID, ai.New(computer.ID, logger.Named("bot")), os.Stdin, os.Stdout, logger.Named("repl"))
	if err := m.InitGame(seats[0], seats[1]); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return r.Run(ctx)
}
