package game

// InvalidChair marks "no chair" in snapshots and betting state.
const InvalidChair = -1

// Phase is a hand's stage. Phases only move forward; RoundEnd is terminal
// until the next StartHand.
type Phase uint8

const (
	PhaseAnte Phase = iota
	PhasePreflop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	PhaseRoundEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseAnte:
		return "ante"
	case PhasePreflop:
		return "preflop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	case PhaseRoundEnd:
		return "roundend"
	}
	return "unknown"
}

// Action is a player's betting action.
type Action uint8

const (
	ActionNone Action = iota
	ActionCheck
	ActionBet
	ActionCall
	ActionRaise
	ActionFold
	ActionAllIn
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionCheck:
		return "check"
	case ActionBet:
		return "bet"
	case ActionCall:
		return "call"
	case ActionRaise:
		return "raise"
	case ActionFold:
		return "fold"
	case ActionAllIn:
		return "allin"
	}
	return "unknown"
}

// ParseAction maps a wire name back to an Action.
func ParseAction(s string) (Action, bool) {
	switch s {
	case "check":
		return ActionCheck, true
	case "bet":
		return ActionBet, true
	case "call":
		return ActionCall, true
	case "raise":
		return ActionRaise, true
	case "fold":
		return ActionFold, true
	case "allin":
		return ActionAllIn, true
	}
	return ActionNone, false
}
