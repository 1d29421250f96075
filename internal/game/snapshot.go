package game

import (
	"sort"

	"github.com/moonhole/holdemlite/poker"
)

// PlayerSnapshot is one seat's observable state.
type PlayerSnapshot struct {
	ID         uint64
	Chair      int
	NPC        bool
	Stack      int64
	Bet        int64
	InHand     bool
	Folded     bool
	AllIn      bool
	LastAction Action
	HoleCards  []poker.Card
}

// PotSnapshot is one pot's amount and contenders.
type PotSnapshot struct {
	Amount   int64
	Eligible []int
}

// Snapshot is a self-contained copy of the table state. It shares no memory
// with the engine and stays valid after further mutations.
type Snapshot struct {
	Round int
	Phase Phase
	Ended bool

	SmallBlind int64
	BigBlind   int64
	Ante       int64

	DealerChair     int
	SmallBlindChair int
	BigBlindChair   int
	ActionChair     int

	CurBet        int64
	MinRaiseDelta int64
	NeedAction    int
	CurrentRaiser int

	Community []poker.Card
	Pots      []PotSnapshot
	Players   []PlayerSnapshot

	ExcessChair  int
	ExcessAmount int64
}

// Snapshot captures the full current state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Round:           g.round,
		Phase:           g.phase,
		Ended:           g.ended,
		SmallBlind:      g.cfg.SmallBlind,
		BigBlind:        g.cfg.BigBlind,
		Ante:            g.cfg.Ante,
		DealerChair:     g.dealer,
		SmallBlindChair: g.smallBlind,
		BigBlindChair:   g.bigBlind,
		ActionChair:     g.action,
		CurBet:          g.curBet,
		MinRaiseDelta:   g.minRaise,
		NeedAction:      g.needAction,
		CurrentRaiser:   g.currentRaiser,
		Community:       append([]poker.Card{}, g.community...),
		ExcessChair:     g.pots.excessChair,
		ExcessAmount:    g.pots.excessAmount,
	}

	for _, p := range g.seats {
		if p == nil {
			continue
		}
		s.Players = append(s.Players, PlayerSnapshot{
			ID:         p.ID,
			Chair:      p.Chair,
			NPC:        p.NPC,
			Stack:      p.stack,
			Bet:        p.bet,
			InHand:     p.inHand,
			Folded:     p.folded,
			AllIn:      p.allIn,
			LastAction: p.lastAction,
			HoleCards:  append([]poker.Card{}, p.holeCards...),
		})
	}

	for _, pot := range g.pots.pots {
		ps := PotSnapshot{Amount: pot.amount}
		for chair := range pot.eligible {
			ps.Eligible = append(ps.Eligible, chair)
		}
		sort.Ints(ps.Eligible)
		s.Pots = append(s.Pots, ps)
	}

	return s
}

// PlayerByChair finds a seat in the snapshot, or nil.
func (s *Snapshot) PlayerByChair(chair int) *PlayerSnapshot {
	for i := range s.Players {
		if s.Players[i].Chair == chair {
			return &s.Players[i]
		}
	}
	return nil
}
