package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func betPlayer(chair int, bet int64, folded bool) *Player {
	return &Player{Chair: chair, bet: bet, inHand: true, folded: folded, stack: 0}
}

func potTotalWithExcess(pm *potManager) int64 {
	return pm.total() + pm.excessAmount
}

func TestPotCollectSingleLevel(t *testing.T) {
	t.Parallel()
	var pm potManager
	pm.reset()

	players := []*Player{
		betPlayer(0, 100, false),
		betPlayer(1, 100, false),
		betPlayer(2, 100, false),
	}
	pm.collect(players)

	require.Len(t, pm.pots, 1)
	assert.Equal(t, int64(300), pm.pots[0].amount)
	assert.Len(t, pm.pots[0].eligible, 3)
	assert.Equal(t, int64(0), pm.excessAmount)
}

func TestPotCollectSidePots(t *testing.T) {
	t.Parallel()
	// Stacks 1000/500/2000; the 500 stack is all-in and the other two keep
	// going to 800. The first collection builds one pot of 1500 everyone can
	// win, the second a 600 side pot only the big stacks contest.
	var pm potManager
	pm.reset()

	a := betPlayer(0, 500, false)
	b := betPlayer(1, 500, false)
	c := betPlayer(2, 500, false)
	pm.collect([]*Player{a, b, c})

	require.Len(t, pm.pots, 1)
	assert.Equal(t, int64(1500), pm.pots[0].amount)
	assert.True(t, pm.pots[0].eligible[0])
	assert.True(t, pm.pots[0].eligible[1])
	assert.True(t, pm.pots[0].eligible[2])

	a.bet, c.bet = 300, 300
	pm.collect([]*Player{a, c})

	require.Len(t, pm.pots, 2)
	assert.Equal(t, int64(600), pm.pots[1].amount)
	assert.True(t, pm.pots[1].eligible[0])
	assert.False(t, pm.pots[1].eligible[1])
	assert.True(t, pm.pots[1].eligible[2])
}

func TestPotCollectMergesSameEligibleSet(t *testing.T) {
	t.Parallel()
	var pm potManager
	pm.reset()

	// A folded player's dead money sits in the low tier; both tiers end up
	// with the same eligible pair and merge into one pot.
	players := []*Player{
		betPlayer(0, 100, true),
		betPlayer(1, 300, false),
		betPlayer(2, 300, false),
	}
	pm.collect(players)

	require.Len(t, pm.pots, 1)
	assert.Equal(t, int64(700), pm.pots[0].amount)
	assert.Len(t, pm.pots[0].eligible, 2)
}

func TestPotCollectRefundsUncalledExcess(t *testing.T) {
	t.Parallel()
	var pm potManager
	pm.reset()

	a := betPlayer(0, 200, false)
	b := betPlayer(1, 500, false)
	before := a.bet + b.bet
	pm.collect([]*Player{a, b})

	// The 300 nobody matched goes back to chair 1's stack; it never becomes
	// a pot.
	require.Len(t, pm.pots, 1)
	assert.Equal(t, int64(400), pm.pots[0].amount)
	assert.Equal(t, 1, pm.excessChair)
	assert.Equal(t, int64(300), pm.excessAmount)
	assert.Equal(t, int64(300), b.stack)
	assert.Equal(t, before, potTotalWithExcess(&pm))
}

func TestPotCollectDeadMoneyTopTier(t *testing.T) {
	t.Parallel()
	// Chair 2 folded after committing 300; chair 1 is the only live player
	// past 100. The unmatchable portion returns to chair 1 instead of
	// vanishing: chips are conserved.
	var pm potManager
	pm.reset()

	a := betPlayer(0, 100, false)
	b := betPlayer(1, 300, false)
	c := betPlayer(2, 300, true)
	before := a.bet + b.bet + c.bet
	pm.collect([]*Player{a, b, c})

	require.Len(t, pm.pots, 1)
	assert.Equal(t, int64(300), pm.pots[0].amount)
	assert.Equal(t, 1, pm.excessChair)
	assert.Equal(t, int64(400), pm.excessAmount)
	assert.Equal(t, before, potTotalWithExcess(&pm))
}

func TestPotStripChair(t *testing.T) {
	t.Parallel()
	var pm potManager
	pm.reset()

	players := []*Player{
		betPlayer(0, 100, false),
		betPlayer(1, 100, false),
		betPlayer(2, 100, false),
	}
	pm.collect(players)
	require.Len(t, pm.pots, 1)

	pm.stripChair(1)
	assert.False(t, pm.pots[0].eligible[1])
	assert.True(t, pm.pots[0].eligible[0])
	assert.True(t, pm.pots[0].eligible[2])
	// the chips stay in the pot
	assert.Equal(t, int64(300), pm.pots[0].amount)
}

func TestPotInvariantAcrossScenarios(t *testing.T) {
	t.Parallel()
	scenarios := [][]*Player{
		{betPlayer(0, 10, false), betPlayer(1, 20, false)},
		{betPlayer(0, 50, false), betPlayer(1, 50, false), betPlayer(2, 75, false)},
		{betPlayer(0, 100, true), betPlayer(1, 40, false), betPlayer(2, 100, false)},
		{betPlayer(0, 33, false), betPlayer(1, 66, true), betPlayer(2, 99, false), betPlayer(3, 99, false)},
	}
	for _, players := range scenarios {
		var before int64
		for _, p := range players {
			before += p.bet
		}
		var pm potManager
		pm.reset()
		pm.collect(players)
		assert.Equal(t, before, potTotalWithExcess(&pm), "pots + excess must equal collected bets")
		for _, p := range pm.pots {
			assert.Greater(t, len(p.eligible), 1, "every emitted pot is contestable")
		}
	}
}
