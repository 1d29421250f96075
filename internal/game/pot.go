package game

import "sort"

// pot is one contestable pot tier. Folded contributors leave their chips in
// the pot but drop out of the eligible set.
type pot struct {
	amount   int64
	eligible map[int]bool
}

// potManager accumulates pots across streets. Consecutive tiers with the same
// eligible set merge, so the common no-all-in hand carries a single main pot.
type potManager struct {
	pots []pot

	// Uncalled chips handed back at the last collection: the strictly
	// unmatched top bet, plus any tier only one live player reached.
	excessChair  int
	excessAmount int64
}

func (pm *potManager) reset() {
	pm.pots = pm.pots[:0]
	pm.excessChair = InvalidChair
	pm.excessAmount = 0
}

func (pm *potManager) total() int64 {
	var sum int64
	for _, p := range pm.pots {
		sum += p.amount
	}
	return sum
}

// stripChair removes a folded player from every pot's eligible set.
func (pm *potManager) stripChair(chair int) {
	for i := range pm.pots {
		delete(pm.pots[i].eligible, chair)
	}
}

// collect folds the street's bets into pots, walking bet levels ascending.
// Each level forms a tier funded by everyone still at or above it. A tier
// reached by a single live player cannot be contested; its chips go straight
// back to that player's stack and are reported as excess. The uncalled
// portion of a lone top bet lands in that same path, so the refund runs
// exactly once per street.
func (pm *potManager) collect(playersWithBets []*Player) {
	sort.Slice(playersWithBets, func(i, j int) bool {
		return playersWithBets[i].bet < playersWithBets[j].bet
	})

	pm.excessChair = InvalidChair
	pm.excessAmount = 0

	var level int64
	for i, player := range playersWithBets {
		contribution := player.bet - level
		if contribution <= 0 {
			continue
		}

		tier := pot{eligible: make(map[int]bool)}
		for _, above := range playersWithBets[i:] {
			c := min(contribution, above.bet-level)
			tier.amount += c
			if !above.folded {
				tier.eligible[above.Chair] = true
			}
		}

		switch {
		case pm.mergeIntoLast(tier):
		case len(tier.eligible) > 1:
			pm.pots = append(pm.pots, tier)
		case len(tier.eligible) == 1:
			for chair := range tier.eligible {
				pm.excessChair = chair
				pm.excessAmount += tier.amount
			}
		}

		level = player.bet
	}

	// The caller resets bets after collection, so only the stack moves here.
	if pm.excessAmount > 0 {
		for _, player := range playersWithBets {
			if player.Chair == pm.excessChair {
				player.addStack(pm.excessAmount)
				break
			}
		}
	}
}

func (pm *potManager) mergeIntoLast(tier pot) bool {
	if len(pm.pots) == 0 {
		return false
	}
	last := &pm.pots[len(pm.pots)-1]
	if len(last.eligible) != len(tier.eligible) {
		return false
	}
	for chair := range tier.eligible {
		if !last.eligible[chair] {
			return false
		}
	}
	last.amount += tier.amount
	return true
}
