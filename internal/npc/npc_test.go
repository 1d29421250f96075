package npc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moonhole/holdemlite/internal/game"
	"github.com/moonhole/holdemlite/internal/randutil"
	"github.com/moonhole/holdemlite/poker"
)

func mustCards(t *testing.T, ss ...string) []poker.Card {
	t.Helper()
	cards, err := poker.ParseCards(ss)
	require.NoError(t, err)
	return cards
}

func TestCallingStationPrefersCheapestAction(t *testing.T) {
	t.Parallel()
	c := &CallingStation{}

	v := View{Legal: []game.Action{game.ActionAllIn, game.ActionFold, game.ActionCheck, game.ActionBet}}
	assert.Equal(t, game.ActionCheck, c.Decide(v).Action)

	v = View{CurBet: 300, Legal: []game.Action{game.ActionAllIn, game.ActionFold, game.ActionCall, game.ActionRaise}}
	d := c.Decide(v)
	assert.Equal(t, game.ActionCall, d.Action)
	assert.Equal(t, int64(300), d.Amount)

	v = View{CurBet: 300, Legal: []game.Action{game.ActionAllIn, game.ActionFold}}
	assert.Equal(t, game.ActionFold, c.Decide(v).Action)
}

func TestTightAggressiveRaisesPremium(t *testing.T) {
	t.Parallel()
	tag := NewTightAggressive(randutil.New(1))

	v := View{
		Phase:     game.PhasePreflop,
		HoleCards: mustCards(t, "Ah", "As"),
		CurBet:    100, MyStack: 2000, BigBlind: 100, MinTo: 200,
		Legal: []game.Action{game.ActionAllIn, game.ActionFold, game.ActionCall, game.ActionRaise},
	}
	d := tag.Decide(v)
	assert.Equal(t, game.ActionRaise, d.Action)
	assert.Equal(t, int64(400), d.Amount, "opens three big blinds over the bet")
}

func TestTightAggressiveFoldsTrashToARaise(t *testing.T) {
	t.Parallel()
	tag := NewTightAggressive(randutil.New(1))

	v := View{
		Phase:     game.PhasePreflop,
		HoleCards: mustCards(t, "7h", "2c"),
		CurBet:    300, MyStack: 2000, BigBlind: 100, MinTo: 500,
		Legal: []game.Action{game.ActionAllIn, game.ActionFold, game.ActionCall, game.ActionRaise},
	}
	assert.Equal(t, game.ActionFold, tag.Decide(v).Action)
}

func TestTightAggressiveLimpsSpeculativeHands(t *testing.T) {
	t.Parallel()
	tag := NewTightAggressive(randutil.New(1))

	v := View{
		Phase:     game.PhasePreflop,
		HoleCards: mustCards(t, "6h", "6c"),
		CurBet:    100, MyStack: 2000, BigBlind: 100, MinTo: 200,
		Legal: []game.Action{game.ActionAllIn, game.ActionFold, game.ActionCall, game.ActionRaise},
	}
	d := tag.Decide(v)
	assert.Equal(t, game.ActionCall, d.Action)
}

func TestForName(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"station", "call", "random", "tag"} {
		d, err := ForName(name, randutil.New(1))
		require.NoError(t, err)
		require.NotNil(t, d)
	}
	_, err := ForName("gto", randutil.New(1))
	assert.Error(t, err)
}

// TestDecidersAlwaysLegal plays full games with every decider and checks
// that each decision is accepted by the engine as-is.
func TestDecidersAlwaysLegal(t *testing.T) {
	t.Parallel()
	for _, strategy := range []string{"station", "random", "tag"} {
		strategy := strategy
		t.Run(strategy, func(t *testing.T) {
			t.Parallel()
			g, err := game.NewGame(game.Config{
				MaxPlayers: 3, MinPlayers: 2, SmallBlind: 50, BigBlind: 100, Seed: 17,
			})
			require.NoError(t, err)
			deciders := make(map[int]Decider, 3)
			for chair := 0; chair < 3; chair++ {
				require.NoError(t, g.SitDown(chair, uint64(chair+1), 2000, true))
				d, err := ForName(strategy, randutil.Derive(17, uint64(chair)))
				require.NoError(t, err)
				deciders[chair] = d
			}

			const want = int64(6000)
			for hand := 0; hand < 20; hand++ {
				funded := 0
				for chair := 0; chair < 3; chair++ {
					if p := g.Player(chair); p != nil && p.Stack() > 0 {
						funded++
					}
				}
				if funded < 2 {
					break
				}
				require.NoError(t, g.StartHand())
				for !g.Ended() {
					chair := g.ActionChair()
					legal, minTo, err := g.LegalActions(chair)
					require.NoError(t, err)
					d := deciders[chair].Decide(ViewFor(g.Snapshot(), chair, legal, minTo))
					_, err = g.Act(chair, d.Action, d.Amount)
					require.NoError(t, err, "%s decided %s %d", strategy, d.Action, d.Amount)
				}
				total := int64(0)
				for chair := 0; chair < 3; chair++ {
					total += g.Player(chair).Stack()
				}
				require.Equal(t, want, total)
			}
		})
	}
}

func TestViewForProjection(t *testing.T) {
	t.Parallel()
	dealer := 0
	g, err := game.NewGame(game.Config{
		MaxPlayers: 3, MinPlayers: 3, SmallBlind: 50, BigBlind: 100,
		Seed: 1, ForcedDealerChair: &dealer,
	})
	require.NoError(t, err)
	for chair := 0; chair < 3; chair++ {
		require.NoError(t, g.SitDown(chair, uint64(chair+1), 1000, true))
	}
	require.NoError(t, g.StartHand())

	legal, minTo, err := g.LegalActions(0)
	require.NoError(t, err)
	v := ViewFor(g.Snapshot(), 0, legal, minTo)

	assert.Equal(t, 0, v.Chair)
	assert.Equal(t, game.PhasePreflop, v.Phase)
	assert.Len(t, v.HoleCards, 2)
	assert.Equal(t, int64(150), v.Pot, "blinds count toward the visible pot")
	assert.Equal(t, int64(100), v.CurBet)
	assert.Equal(t, int64(100), v.BigBlind)
	assert.Equal(t, int64(0), v.MyBet)
	assert.Equal(t, int64(1000), v.MyStack)
	assert.Equal(t, 3, v.ActiveCount)
	assert.Equal(t, legal, v.Legal)
}
