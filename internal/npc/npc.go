// Package npc provides the computer-controlled players that sit at tables
// alongside humans. A Decider sees only the same read-only view a remote
// client would and returns the action to submit; it never touches the
// engine directly.
package npc

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/moonhole/holdemlite/internal/game"
	"github.com/moonhole/holdemlite/poker"
)

// View is everything a decider may consider: the acting seat's private
// cards plus the public table state and the legal actions for this turn.
type View struct {
	Chair     int
	Phase     game.Phase
	HoleCards []poker.Card
	Community []poker.Card

	Pot      int64
	CurBet   int64
	MyBet    int64
	MyStack  int64
	BigBlind int64

	Legal       []game.Action
	MinTo       int64 // minimum total for a bet or raise
	ActiveCount int
}

// Decision is the action a decider wants to take. Amount follows the engine
// convention: the seat's total bet for the street, ignored for check/fold.
type Decision struct {
	Action game.Action
	Amount int64
}

// Decider chooses an action for one turn.
type Decider interface {
	Decide(v View) Decision
	Name() string
}

// ViewFor projects a snapshot into the view for the acting chair.
func ViewFor(snap game.Snapshot, chair int, legal []game.Action, minTo int64) View {
	v := View{
		Chair:     chair,
		Phase:     snap.Phase,
		Community: snap.Community,
		CurBet:    snap.CurBet,
		BigBlind:  snap.BigBlind,
		Legal:     legal,
		MinTo:     minTo,
	}
	for _, pot := range snap.Pots {
		v.Pot += pot.Amount
	}
	for _, ps := range snap.Players {
		if ps.InHand && !ps.Folded {
			v.ActiveCount++
		}
		v.Pot += ps.Bet
		if ps.Chair == chair {
			v.HoleCards = ps.HoleCards
			v.MyBet = ps.Bet
			v.MyStack = ps.Stack
		}
	}
	return v
}

// ForName builds the decider for a configured strategy name.
func ForName(strategy string, rng *rand.Rand) (Decider, error) {
	switch strategy {
	case "station", "call":
		return &CallingStation{}, nil
	case "random":
		return NewRandom(rng), nil
	case "tag":
		return NewTightAggressive(rng), nil
	}
	return nil, fmt.Errorf("unknown npc strategy %q", strategy)
}

func hasLegal(v View, a game.Action) bool {
	for _, x := range v.Legal {
		if x == a {
			return true
		}
	}
	return false
}

// passive returns the cheapest non-folding action, or a fold when even a
// call is off the table.
func passive(v View) Decision {
	if hasLegal(v, game.ActionCheck) {
		return Decision{Action: game.ActionCheck}
	}
	if hasLegal(v, game.ActionCall) {
		return Decision{Action: game.ActionCall, Amount: v.CurBet}
	}
	return Decision{Action: game.ActionFold}
}
