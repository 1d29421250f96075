package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoShowdownWinnerTakesAllWithRefund(t *testing.T) {
	t.Parallel()
	dealer := 0
	g := newTestGame(t, Config{
		MaxPlayers: 3, MinPlayers: 3, SmallBlind: 50, BigBlind: 100,
		Seed: 1, ForcedDealerChair: &dealer,
	}, 1000, 1000, 1000)
	require.NoError(t, g.StartHand())

	// limped preflop, then a flop bet folds everyone out
	_, err := g.Act(0, ActionCall, 100)
	require.NoError(t, err)
	_, err = g.Act(1, ActionCall, 100)
	require.NoError(t, err)
	_, err = g.Act(2, ActionCheck, 0)
	require.NoError(t, err)
	require.Equal(t, PhaseFlop, g.Phase())

	_, err = g.Act(1, ActionCheck, 0)
	require.NoError(t, err)
	_, err = g.Act(2, ActionBet, 300)
	require.NoError(t, err)
	res, err := g.Act(0, ActionFold, 0)
	require.NoError(t, err)
	require.Nil(t, res)
	res, err = g.Act(1, ActionFold, 0)
	require.NoError(t, err)

	require.NotNil(t, res)
	assert.True(t, res.NoShowdown)
	require.Len(t, res.PlayerResults, 1)
	winner := res.PlayerResults[0]
	assert.Equal(t, 2, winner.Chair)
	assert.True(t, winner.IsWinner)
	assert.Equal(t, int64(300), winner.WinAmount, "preflop pot only; the flop bet comes back as refund")
	assert.Empty(t, winner.HoleCards, "nothing is revealed without a showdown")
	assert.Empty(t, winner.BestFive)
	assert.Equal(t, 2, res.ExcessChair)
	assert.Equal(t, int64(300), res.ExcessAmount, "the uncalled flop bet is refunded")

	assert.Equal(t, int64(900), g.Player(0).Stack())
	assert.Equal(t, int64(900), g.Player(1).Stack())
	assert.Equal(t, int64(1200), g.Player(2).Stack())
	assert.Equal(t, int64(3000), totalChips(g))
}

func TestShowdownTieSplitsWithRemainderToLowestChair(t *testing.T) {
	t.Parallel()
	// The board plays for both contenders; the odd chip of the 125 pot goes
	// to the lowest-numbered winning chair.
	dealer := 0
	g := newTestGame(t, Config{
		MaxPlayers: 3, MinPlayers: 3, SmallBlind: 25, BigBlind: 50,
		ForcedDealerChair: &dealer,
		DeckOverride: deckWithPrefix(t,
			"7c", "2h", "2c", // first hole card: sb, bb, dealer
			"8d", "3s", "3d", // second hole card
			"As", "Kd", "Qh", // flop
			"Js", "Tc", // turn, river
		),
	}, 1000, 1000, 1000)
	require.NoError(t, g.StartHand())

	_, err := g.Act(0, ActionCall, 50)
	require.NoError(t, err)
	_, err = g.Act(1, ActionFold, 0)
	require.NoError(t, err)
	_, err = g.Act(2, ActionCheck, 0)
	require.NoError(t, err)

	var res *SettlementResult
	for !g.Ended() {
		res, err = g.Act(g.ActionChair(), ActionCheck, 0)
		require.NoError(t, err)
	}
	require.NotNil(t, res)

	require.Len(t, res.PotResults, 1)
	pr := res.PotResults[0]
	assert.Equal(t, int64(125), pr.Amount)
	require.Equal(t, []int{0, 2}, pr.Winners)
	assert.Equal(t, []int64{63, 62}, pr.WinAmounts)

	assert.Equal(t, int64(1013), g.Player(0).Stack())
	assert.Equal(t, int64(975), g.Player(1).Stack())
	assert.Equal(t, int64(1012), g.Player(2).Stack())
	assert.Equal(t, int64(3000), totalChips(g))
}

func TestSidePotsSettledPerPot(t *testing.T) {
	t.Parallel()
	// Stacks 1000/500/2000, everyone all-in preflop. The short stack wins
	// the 1500 main pot with aces; the big stack wins the 1000 side pot.
	dealer := 0
	g := newTestGame(t, Config{
		MaxPlayers: 3, MinPlayers: 3, SmallBlind: 50, BigBlind: 100,
		ForcedDealerChair: &dealer,
		DeckOverride: deckWithPrefix(t,
			"Ah", "Kh", "2c", // first hole card: sb, bb, dealer
			"As", "Kd", "7d", // second hole card
			"3s", "8h", "Jc", // flop
			"4d", "9s", // turn, river
		),
	}, 1000, 500, 2000)
	require.NoError(t, g.StartHand())

	_, err := g.Act(0, ActionAllIn, 0)
	require.NoError(t, err)
	_, err = g.Act(1, ActionAllIn, 0)
	require.NoError(t, err)
	res, err := g.Act(2, ActionCall, 1000)
	require.NoError(t, err)

	require.NotNil(t, res)
	assert.False(t, res.NoShowdown)
	require.Len(t, res.PotResults, 2)

	main := res.PotResults[0]
	assert.Equal(t, int64(1500), main.Amount)
	assert.Equal(t, []int{1}, main.Winners, "short stack's aces take the main pot")

	side := res.PotResults[1]
	assert.Equal(t, int64(1000), side.Amount)
	assert.Equal(t, []int{2}, side.Winners, "short stack is not eligible for the side pot")

	assert.Equal(t, int64(0), g.Player(0).Stack())
	assert.Equal(t, int64(1500), g.Player(1).Stack())
	assert.Equal(t, int64(2000), g.Player(2).Stack())
	assert.Equal(t, int64(3500), totalChips(g))

	// per-player showdown lines carry the evaluated hands
	require.Len(t, res.PlayerResults, 3)
	for _, pr := range res.PlayerResults {
		assert.Len(t, pr.HoleCards, 2)
		assert.Len(t, pr.BestFive, 5)
		assert.Len(t, pr.AllCards, 7)
	}
}

func TestSettlementResultImmutable(t *testing.T) {
	t.Parallel()
	dealer := 0
	g := newTestGame(t, Config{
		MaxPlayers: 2, MinPlayers: 2, SmallBlind: 50, BigBlind: 100,
		Seed: 1, ForcedDealerChair: &dealer,
	}, 1000, 1000)
	require.NoError(t, g.StartHand())
	res, err := g.Act(0, ActionFold, 0)
	require.NoError(t, err)
	require.NotNil(t, res)

	// the stored result is the same immutable value handed to the caller
	assert.Equal(t, res, g.LastSettlement())

	// a later hand does not disturb a held reference
	winAmount := res.PlayerResults[0].WinAmount
	require.NoError(t, g.StartHand())
	finishByFolds(t, g)
	assert.Equal(t, winAmount, res.PlayerResults[0].WinAmount)
}
