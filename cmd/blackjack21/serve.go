package main

import (
	"context"
	"time"

	"github.com/lox/blackjack21/cmd/blackjack21/shared"
	"github.com/lox/blackjack21/internal/server"
)

// ServeCmd runs the websocket server.
type ServeCmd struct {
	Config string `kong:"default='blackjack21.hcl',help='Path to HCL config file'"`
	Addr   string `kong:"help='Listen address, overrides the config file'"`
	Port   int    `kong:"help='Listen port, overrides the config file'"`
	Seed   *int64 `kong:"help='Deterministic shuffle seed for every session (optional)'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := shared.SetupLogger(c.Debug, cfg.Server.LogLevel)

	var opts []server.Option
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *c.Seed)
		opts = append(opts, server.WithSeed(*c.Seed))
	}

	s := server.NewServer(cfg, logger, opts...)

	logger.Info("Starting blackjack server",
		"address", cfg.ListenAddr(),
		"starting_chips", cfg.Game.StartingChips,
		"num_decks", cfg.Game.NumDecks,
		"turn_timeout", cfg.TurnTimeout())

	ctx := shared.SetupSignalHandler(logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
