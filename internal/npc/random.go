package npc

import (
	rand "math/rand/v2"

	"github.com/moonhole/holdemlite/internal/game"
)

// Random picks uniformly among the legal actions. Bets and raises open at
// the minimum with an occasional jitter of a few big blinds.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Name() string { return "random" }

func (r *Random) Decide(v View) Decision {
	if len(v.Legal) == 0 {
		return Decision{Action: game.ActionFold}
	}
	a := v.Legal[r.rng.IntN(len(v.Legal))]
	d := Decision{Action: a}
	switch a {
	case game.ActionCall:
		d.Amount = v.CurBet
	case game.ActionBet, game.ActionRaise:
		d.Amount = v.MinTo
		if r.rng.IntN(3) == 0 {
			d.Amount += int64(r.rng.IntN(4)) * v.BigBlind
		}
	}
	return d
}

var _ Decider = (*Random)(nil)
