package npc

import (
	rand "math/rand/v2"

	"github.com/moonhole/holdemlite/internal/game"
	"github.com/moonhole/holdemlite/poker"
)

// TightAggressive plays a narrow preflop range hard and gives up cheaply
// with the rest: raise premium and strong hands, call with playable ones,
// check or fold the trash.
type TightAggressive struct {
	rng *rand.Rand
}

func NewTightAggressive(rng *rand.Rand) *TightAggressive {
	return &TightAggressive{rng: rng}
}

func (t *TightAggressive) Name() string { return "tag" }

func (t *TightAggressive) Decide(v View) Decision {
	if v.Phase == game.PhasePreflop && len(v.HoleCards) == 2 {
		switch poker.CategorizeHoleCards(v.HoleCards[0], v.HoleCards[1]) {
		case poker.CategoryPremium, poker.CategoryStrong:
			if hasLegal(v, game.ActionRaise) {
				return Decision{Action: game.ActionRaise, Amount: raiseSize(v)}
			}
			if hasLegal(v, game.ActionBet) {
				return Decision{Action: game.ActionBet, Amount: raiseSize(v)}
			}
			if hasLegal(v, game.ActionAllIn) && v.MyStack+v.MyBet <= 10*v.BigBlind {
				return Decision{Action: game.ActionAllIn}
			}
			return passive(v)
		case poker.CategoryMedium, poker.CategoryWeak:
			// set-mine and speculate for one bet, not for raises
			if v.CurBet <= v.BigBlind {
				return passive(v)
			}
			if hasLegal(v, game.ActionCheck) {
				return Decision{Action: game.ActionCheck}
			}
			return Decision{Action: game.ActionFold}
		default:
			if hasLegal(v, game.ActionCheck) {
				return Decision{Action: game.ActionCheck}
			}
			return Decision{Action: game.ActionFold}
		}
	}

	// Postflop: stay honest. Bet when checked to roughly a third of the
	// time, otherwise call small bets and fold to pressure.
	if hasLegal(v, game.ActionBet) && t.rng.IntN(3) == 0 {
		return Decision{Action: game.ActionBet, Amount: raiseSize(v)}
	}
	if hasLegal(v, game.ActionCheck) {
		return Decision{Action: game.ActionCheck}
	}
	if hasLegal(v, game.ActionCall) && v.CurBet-v.MyBet <= v.Pot/2 {
		return Decision{Action: game.ActionCall, Amount: v.CurBet}
	}
	return Decision{Action: game.ActionFold}
}

// raiseSize opens at roughly three big blinds over the current bet, clamped
// to the stack. The engine books an overshoot as all-in.
func raiseSize(v View) int64 {
	amount := v.MinTo + 2*v.BigBlind
	if max := v.MyStack + v.MyBet; amount > max {
		amount = max
	}
	return amount
}

var _ Decider = (*TightAggressive)(nil)
