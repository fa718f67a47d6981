package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/peterkuimelis/gridclash/internal/config"
	"github.com/peterkuimelis/gridclash/internal/game"
	gcmcp "github.com/peterkuimelis/gridclash/internal/mcp"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	decksFile := flag.String("decks", "decks.yaml", "path to decks YAML file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// Logs go to stderr; stdout carries the protocol.
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	decks, err := game.LoadDeckFile(*decksFile)
	if err != nil {
		logger.Warn("no deck file, only the default deck is available", zap.Error(err))
		decks = nil
	}

	s := server.NewMCPServer("gridclash", "1.0.0")
	gcmcp.NewServer(gcmcp.Config{Rules: cfg.Rules, Decks: decks, Zap: logger}).RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		logger.Error("stdio server stopped", zap.Error(err))
		os.Exit(1)
	}
}
