package game

// IntentKind tags the variants of Intent.
type IntentKind string

const (
	IntentConfigure  IntentKind = "configure"
	IntentPlaceBet   IntentKind = "place_bet"
	IntentStartRound IntentKind = "start_round"
	IntentHit        IntentKind = "hit"
	IntentStand      IntentKind = "stand"
	IntentNextRound  IntentKind = "next_round"
)

// Intent is a single discrete input to the engine. The same tagged shape is
// used whether the intent comes from local keyboard input or off the wire,
// which keeps the two drivers from growing their own phase vocabularies.
type Intent struct {
	Kind    IntentKind `json:"kind"`
	Seat    SeatID     `json:"seat,omitempty"`
	Amount  int        `json:"amount,omitempty"`
	Mode    Mode       `json:"mode,omitempty"`
	Player2 *Profile   `json:"player2,omitempty"`
}

// Apply dispatches an intent to the matching engine operation and reports
// whether it was accepted. Rejections leave an explanatory message on the
// relevant seat; only Configure can hard-fail, and its error is logged and
// reported as a rejection here since transports have no error channel
// beyond the boolean.
func (e *Engine) Apply(in Intent) bool {
	switch in.Kind {
	case IntentConfigure:
		if err := e.Configure(in.Mode, in.Player2); err != nil {
			e.logger.Error("configure failed", "error", err)
			return false
		}
		return true
	case IntentPlaceBet:
		return e.PlaceBet(in.Seat, in.Amount)
	case IntentStartRound:
		return e.StartRound()
	case IntentHit:
		return e.Hit(in.Seat)
	case IntentStand:
		return e.Stand(in.Seat)
	case IntentNextRound:
		e.PrepareForNewRound()
		return true
	default:
		e.logger.Warn("unknown intent", "kind", in.Kind)
		return false
	}
}
