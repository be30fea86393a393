package protocol

import "github.com/lox/blackjack21/internal/game"

// RedactSnapshot hides the dealer's hole card while the dealer is still in
// play: only the up card (the first dealt) and no point value are shown.
// Once the dealer is done, holds a natural, or the round is over, the full
// hand is revealed. Player hands are never redacted; both seats see each
// other's cards, as at a real table.
func RedactSnapshot(snap game.Snapshot) game.Snapshot {
	reveal := snap.Dealer.IsDone || snap.Dealer.HasBlackjack || snap.Phase == game.PhaseRoundOver
	if reveal || len(snap.Dealer.Hand) == 0 {
		return snap
	}
	snap.Dealer.Hand = snap.Dealer.Hand[:1]
	snap.Dealer.PointValue = 0
	return snap
}
