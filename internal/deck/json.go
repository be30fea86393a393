package deck

import (
	"encoding/json"
	"fmt"
)

// Cards cross the wire as {"suit":"Hearts","rank":"A"} so snapshots stay
// readable and independent of the Go enum values.

type cardJSON struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

// MarshalJSON implements json.Marshaler.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{Suit: c.Suit.Name(), Rank: c.Rank.String()})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Card) UnmarshalJSON(data []byte) error {
	var cj cardJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}
	suit, err := ParseSuit(cj.Suit)
	if err != nil {
		return err
	}
	rank, err := ParseRank(cj.Rank)
	if err != nil {
		return err
	}
	c.Suit = suit
	c.Rank = rank
	return nil
}

// ParseSuit converts a long suit name back into a Suit.
func ParseSuit(name string) (Suit, error) {
	switch name {
	case "Spades":
		return Spades, nil
	case "Hearts":
		return Hearts, nil
	case "Diamonds":
		return Diamonds, nil
	case "Clubs":
		return Clubs, nil
	default:
		return 0, fmt.Errorf("unknown suit %q", name)
	}
}

// ParseRank converts a rank string ("2".."10", "J", "Q", "K", "A") back
// into a Rank.
func ParseRank(s string) (Rank, error) {
	for r := Two; r <= Ace; r++ {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", s)
}
