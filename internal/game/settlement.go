package game

import (
	"sort"

	"github.com/moonhole/holdemlite/poker"
)

// ShowdownPlayerResult is one player's showdown line. For a hand that ended
// without showdown only Chair, IsWinner and WinAmount are populated; nothing
// is evaluated or revealed.
type ShowdownPlayerResult struct {
	Chair     int
	Category  poker.HandCategory
	Score     uint32
	HoleCards []poker.Card
	BestFive  []poker.Card
	AllCards  []poker.Card
	IsWinner  bool
	WinAmount int64
}

// PotResult records one pot's distribution. WinAmounts aligns with Winners.
type PotResult struct {
	Amount     int64
	Winners    []int
	WinAmounts []int64
}

// SettlementResult is the immutable outcome of a hand.
type SettlementResult struct {
	NoShowdown    bool
	PlayerResults []ShowdownPlayerResult
	PotResults    []PotResult
	ExcessChair   int
	ExcessAmount  int64
}

// settle distributes all pots. Community cards must already be complete on
// the showdown path.
func (g *Game) settle() (*SettlementResult, error) {
	if g.noShowdown {
		return g.settleNoShowdown()
	}
	return g.settleByEval()
}

func (g *Game) settleByEval() (*SettlementResult, error) {
	// Exactly two hole cards gate showdown participation.
	results := make(map[int]*ShowdownPlayerResult, g.handCount)
	for chair, p := range g.seats {
		if p == nil || !p.contesting() || len(p.holeCards) != 2 {
			continue
		}
		all := make([]poker.Card, 0, 7)
		all = append(all, p.holeCards...)
		all = append(all, g.community...)
		if len(all) != 7 {
			return nil, invariantf("chair %d has %d cards at showdown", chair, len(all))
		}
		hv, err := poker.EvaluateSeven(all)
		if err != nil {
			return nil, invariantf("evaluate chair %d: %v", chair, err)
		}
		bestFive := make([]poker.Card, 0, 5)
		for _, idx := range hv.BestFive {
			bestFive = append(bestFive, all[idx])
		}
		results[chair] = &ShowdownPlayerResult{
			Chair:     chair,
			Category:  hv.Category,
			Score:     hv.Score,
			HoleCards: append([]poker.Card{}, p.holeCards...),
			BestFive:  bestFive,
			AllCards:  all,
		}
	}

	out := &SettlementResult{
		PotResults:   make([]PotResult, 0, len(g.pots.pots)),
		ExcessChair:  g.pots.excessChair,
		ExcessAmount: g.pots.excessAmount,
	}

	for _, pot := range g.pots.pots {
		winners := potWinners(pot, results)
		if len(winners) == 0 && pot.amount > 0 {
			// Every eligible player folded after this pot formed. The chips
			// go to the best hand still at showdown.
			open := pot
			open.eligible = make(map[int]bool, len(results))
			for chair := range results {
				open.eligible[chair] = true
			}
			winners = potWinners(open, results)
		}
		if len(winners) == 0 || pot.amount <= 0 {
			out.PotResults = append(out.PotResults, PotResult{Amount: pot.amount})
			continue
		}

		share := pot.amount / int64(len(winners))
		remainder := pot.amount % int64(len(winners))

		pr := PotResult{
			Amount:  pot.amount,
			Winners: winners,
		}
		for i, w := range winners {
			amt := share
			// indivisible chips go to the lowest-numbered winning chair
			if i == 0 {
				amt += remainder
			}
			pr.WinAmounts = append(pr.WinAmounts, amt)

			g.seats[w].addStack(amt)
			if r := results[w]; r != nil {
				r.IsWinner = true
				r.WinAmount += amt
			}
		}
		out.PotResults = append(out.PotResults, pr)
	}

	for _, r := range results {
		out.PlayerResults = append(out.PlayerResults, *r)
	}
	sort.Slice(out.PlayerResults, func(i, j int) bool {
		return out.PlayerResults[i].Chair < out.PlayerResults[j].Chair
	})
	return out, nil
}

// potWinners returns the eligible chairs with the pot's best score, sorted
// ascending.
func potWinners(p pot, results map[int]*ShowdownPlayerResult) []int {
	chairs := make([]int, 0, len(p.eligible))
	for chair := range p.eligible {
		if results[chair] != nil {
			chairs = append(chairs, chair)
		}
	}
	if len(chairs) == 0 {
		return nil
	}
	sort.Ints(chairs)

	winners := []int{chairs[0]}
	best := results[chairs[0]].Score
	for _, chair := range chairs[1:] {
		score := results[chair].Score
		switch {
		case score > best:
			winners = []int{chair}
			best = score
		case score == best:
			winners = append(winners, chair)
		}
	}
	return winners
}

// settleNoShowdown pays everything to the sole surviving player without
// evaluating or revealing anything.
func (g *Game) settleNoShowdown() (*SettlementResult, error) {
	var winner *Player
	for _, p := range g.seats {
		if p != nil && p.contesting() {
			winner = p
			break
		}
	}
	if winner == nil {
		return nil, invariantf("no surviving player to settle")
	}

	// Uncollected street bets: refund the winner's unmatched portion first.
	var maxBet, secondMax int64
	for _, p := range g.seats {
		if p == nil {
			continue
		}
		if p.bet > maxBet {
			secondMax = maxBet
			maxBet = p.bet
		} else if p.bet > secondMax || p.bet == maxBet {
			secondMax = p.bet
		}
	}

	var excess int64
	if winner.bet == maxBet && maxBet > secondMax {
		excess = maxBet - secondMax
		winner.addStack(excess)
		winner.addBet(-excess)
	}

	var total int64
	for _, p := range g.seats {
		if p != nil {
			total += p.bet
			p.resetBet()
		}
	}
	total += g.pots.total()
	winner.addStack(total)

	return &SettlementResult{
		NoShowdown: true,
		PlayerResults: []ShowdownPlayerResult{{
			Chair:     winner.Chair,
			IsWinner:  true,
			WinAmount: total,
		}},
		PotResults: []PotResult{{
			Amount:     total,
			Winners:    []int{winner.Chair},
			WinAmounts: []int64{total},
		}},
		ExcessChair:  winner.Chair,
		ExcessAmount: excess,
	}, nil
}
