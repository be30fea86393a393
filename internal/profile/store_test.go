package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack21/internal/game"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "profiles.json"))
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Load(game.SeatPlayer1)
	require.NoError(t, err)
	assert.Equal(t, "Player 1", p.Name)
	assert.Equal(t, DefaultChips, p.Chips)
	assert.Zero(t, p.Debt)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	saved := game.Profile{Name: "Alice", Chips: 250, Debt: 40}
	require.NoError(t, s.Save(game.SeatPlayer1, saved))

	got, err := s.Load(game.SeatPlayer1)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestSavePreservesOtherSeats(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save(game.SeatPlayer1, game.Profile{Name: "Alice", Chips: 250}))
	require.NoError(t, s.Save(game.SeatPlayer2, game.Profile{Name: "Bob", Chips: 75, Debt: 10}))

	p1, err := s.Load(game.SeatPlayer1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", p1.Name)
	assert.Equal(t, 250, p1.Chips)

	p2, err := s.Load(game.SeatPlayer2)
	require.NoError(t, err)
	assert.Equal(t, 10, p2.Debt)
}

func TestLoadUnknownSeatAfterSave(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(game.SeatPlayer1, game.Profile{Name: "Alice", Chips: 1}))

	p2, err := s.Load(game.SeatPlayer2)
	require.NoError(t, err)
	assert.Equal(t, "Player 2", p2.Name)
	assert.Equal(t, DefaultChips, p2.Chips)
}

func TestCorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewStore(path).Load(game.SeatPlayer1)
	assert.Error(t, err)
}

func TestSaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "profiles.json")
	s := NewStore(path)

	require.NoError(t, s.Save(game.SeatPlayer1, game.Profile{Name: "Alice", Chips: 5}))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
