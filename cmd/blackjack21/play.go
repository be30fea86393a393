package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack21/cmd/blackjack21/shared"
	"github.com/lox/blackjack21/internal/game"
	"github.com/lox/blackjack21/internal/profile"
	"github.com/lox/blackjack21/internal/randutil"
	"github.com/lox/blackjack21/internal/tui"
)

// PlayCmd runs a solo game against the dealer.
type PlayCmd struct {
	Name     string `kong:"help='Player name, overrides the saved profile'"`
	Profiles string `kong:"default='~/.blackjack21/profiles.json',help='Path to the profile store'"`
	Decks    int    `kong:"default='1',help='Number of decks in the shoe'"`
	Seed     *int64 `kong:"help='Deterministic shuffle seed (optional)'"`
	Debug    bool   `kong:"help='Write debug logs to blackjack21.log'"`
}

func (c *PlayCmd) Run() error {
	logger := shared.SetupTUILogger(c.Debug, "blackjack21.log")

	path, err := expandPath(c.Profiles)
	if err != nil {
		return err
	}
	store := profile.NewStore(path)

	p1, err := store.Load(game.SeatPlayer1)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if c.Name != "" {
		p1.Name = c.Name
	}
	if p1.Chips <= 0 {
		// A busted player starts fresh but carries the debt forward.
		p1.Debt += profile.DefaultChips
		p1.Chips = profile.DefaultChips
	}

	opts := []game.Option{
		game.WithNumDecks(c.Decks),
		game.WithLogger(logger),
	}
	if c.Seed != nil {
		opts = append(opts, game.WithRNG(randutil.New(*c.Seed)))
	}

	driver := tui.NewLocalDriver(game.NewEngine(p1, opts...))
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

// expandPath resolves a leading ~ against the user's home directory.
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
