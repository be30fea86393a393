package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack21/cmd/blackjack21/shared"
	"github.com/lox/blackjack21/internal/client"
	"github.com/lox/blackjack21/internal/game"
	"github.com/lox/blackjack21/internal/profile"
	"github.com/lox/blackjack21/internal/tui"
)

// JoinCmd connects to a server and plays head-to-head.
type JoinCmd struct {
	Server   string `kong:"default='http://localhost:8080',help='Server URL'"`
	Name     string `kong:"help='Player name, overrides the saved profile'"`
	Profiles string `kong:"default='~/.blackjack21/profiles.json',help='Path to the profile store'"`
	Debug    bool   `kong:"help='Write debug logs to blackjack21.log'"`
}

func (c *JoinCmd) Run() error {
	logger := shared.SetupTUILogger(c.Debug, "blackjack21.log")

	path, err := expandPath(c.Profiles)
	if err != nil {
		return err
	}
	store := profile.NewStore(path)

	p, err := store.Load(game.SeatPlayer1)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if c.Name != "" {
		p.Name = c.Name
	}

	cl := client.NewClient(c.Server, logger)
	if err := cl.Connect(); err != nil {
		return err
	}

	driver := tui.NewNetworkDriver(cl, p)
	model := tui.NewModel(driver, logger)

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if err := store.Save(game.SeatPlayer1, driver.Profile()); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
