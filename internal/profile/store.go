// Package profile persists player records across sessions. The store is a
// single JSON file of flat {name, chips, debt} records keyed by seat
// identity; the engine consumes and produces these records at session
// boundaries and never touches storage itself.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lox/blackjack21/internal/fileutil"
	"github.com/lox/blackjack21/internal/game"
)

const (
	// DefaultChips is the bankroll handed to a player with no saved record.
	DefaultChips = 100

	filePerm = os.FileMode(0o644)
)

// Store reads and writes player profiles under a single JSON file. Not safe
// for concurrent use; callers with multiple sessions serialize around it.
type Store struct {
	path string
}

// NewStore creates a store backed by path. The file is created lazily on
// the first Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the saved profile for a seat, or a fresh default when the
// file or the record does not exist. Only a corrupt file is an error.
func (s *Store) Load(id game.SeatID) (game.Profile, error) {
	records, err := s.read()
	if err != nil {
		return game.Profile{}, err
	}
	if p, ok := records[id]; ok {
		return p, nil
	}
	return DefaultProfile(id), nil
}

// Save upserts the profile for a seat, preserving the other records.
func (s *Store) Save(id game.SeatID, p game.Profile) error {
	records, err := s.read()
	if err != nil {
		return err
	}
	records[id] = p

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profiles: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create profile dir: %w", err)
		}
	}
	return fileutil.WriteFileAtomic(s.path, data, filePerm)
}

func (s *Store) read() (map[game.SeatID]game.Profile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[game.SeatID]game.Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}
	records := map[game.SeatID]game.Profile{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return records, nil
}

// DefaultProfile is the record handed out when nothing is saved for a seat.
func DefaultProfile(id game.SeatID) game.Profile {
	name := "Player"
	switch id {
	case game.SeatPlayer1:
		name = "Player 1"
	case game.SeatPlayer2:
		name = "Player 2"
	}
	return game.Profile{Name: name, Chips: DefaultChips}
}
