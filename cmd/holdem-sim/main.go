package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/moonhole/holdemlite/internal/game"
	"github.com/moonhole/holdemlite/internal/npc"
	"github.com/moonhole/holdemlite/internal/randutil"
)

var CLI struct {
	Tables     int      `short:"t" default:"4" help:"Number of tables to run in parallel"`
	Hands      int      `short:"n" default:"1000" help:"Hands to play per table"`
	Players    int      `short:"p" default:"4" help:"Players per table"`
	Strategies []string `short:"s" default:"station,random,tag" help:"Strategies assigned round-robin to seats"`
	SmallBlind int64    `default:"50" help:"Small blind"`
	BigBlind   int64    `default:"100" help:"Big blind"`
	Ante       int64    `default:"0" help:"Ante"`
	Stack      int64    `default:"10000" help:"Starting stack"`
	Seed       int64    `default:"1" help:"Base RNG seed; each table derives its own stream"`
	LogLevel   string   `short:"l" default:"info" help:"Log level"`
}

type tableResult struct {
	Hands     int
	Showdowns int
	Busts     int
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("holdem-sim"),
		kong.Description("Headless NPC-vs-NPC simulator for soak-testing the betting engine"))

	logger := log.New(os.Stderr)
	if CLI.LogLevel == "debug" {
		logger.SetLevel(log.DebugLevel)
	}

	if CLI.Players < 2 || CLI.Players > 10 {
		fmt.Fprintln(os.Stderr, "players must be between 2 and 10")
		kctx.Exit(1)
	}

	logger.Info("starting simulation",
		"tables", CLI.Tables, "hands", CLI.Hands, "players", CLI.Players,
		"strategies", CLI.Strategies, "seed", CLI.Seed)

	start := time.Now()
	results := make([]tableResult, CLI.Tables)

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < CLI.Tables; i++ {
		i := i
		g.Go(func() error {
			res, err := runTable(i, logger.With("table", i))
			if err != nil {
				return fmt.Errorf("table %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("simulation failed", "err", err)
		kctx.Exit(1)
	}

	var total tableResult
	for _, r := range results {
		total.Hands += r.Hands
		total.Showdowns += r.Showdowns
		total.Busts += r.Busts
	}
	elapsed := time.Since(start)
	logger.Info("simulation complete",
		"hands", total.Hands,
		"showdowns", total.Showdowns,
		"showdown_pct", fmt.Sprintf("%.1f", 100*float64(total.Showdowns)/float64(max(total.Hands, 1))),
		"busts", total.Busts,
		"elapsed", elapsed.Round(time.Millisecond),
		"hands_per_sec", fmt.Sprintf("%.0f", float64(total.Hands)/elapsed.Seconds()))
}

// runTable plays one table for the configured number of hands, verifying
// after every hand that no chip was created or destroyed.
func runTable(idx int, logger *log.Logger) (tableResult, error) {
	var res tableResult

	seed := CLI.Seed + int64(idx)
	eng, err := game.NewGame(game.Config{
		MaxPlayers: CLI.Players,
		MinPlayers: 2,
		SmallBlind: CLI.SmallBlind,
		BigBlind:   CLI.BigBlind,
		Ante:       CLI.Ante,
		Seed:       seed,
	})
	if err != nil {
		return res, err
	}

	deciders := make(map[int]npc.Decider, CLI.Players)
	for chair := 0; chair < CLI.Players; chair++ {
		strategy := CLI.Strategies[chair%len(CLI.Strategies)]
		d, err := npc.ForName(strategy, randutil.Derive(seed, uint64(chair)))
		if err != nil {
			return res, err
		}
		deciders[chair] = d
		if err := eng.SitDown(chair, uint64(chair+1), CLI.Stack, true); err != nil {
			return res, err
		}
	}
	bankroll := CLI.Stack * int64(CLI.Players)

	for hand := 0; hand < CLI.Hands; hand++ {
		// broke players rebuy between hands so the table never shrinks
		for chair := 0; chair < CLI.Players; chair++ {
			if eng.Player(chair).Stack() == 0 {
				if err := eng.AddChips(chair, CLI.Stack); err != nil {
					return res, err
				}
				bankroll += CLI.Stack
				res.Busts++
			}
		}

		if err := eng.StartHand(); err != nil {
			return res, err
		}
		for !eng.Ended() {
			chair := eng.ActionChair()
			legal, minTo, err := eng.LegalActions(chair)
			if err != nil {
				return res, err
			}
			d := deciders[chair].Decide(npc.ViewFor(eng.Snapshot(), chair, legal, minTo))
			if _, err := eng.Act(chair, d.Action, d.Amount); err != nil {
				return res, fmt.Errorf("hand %d: %s chose %s %d: %w",
					hand, deciders[chair].Name(), d.Action, d.Amount, err)
			}
		}
		res.Hands++
		if sr := eng.LastSettlement(); sr != nil && !sr.NoShowdown {
			res.Showdowns++
		}

		var total int64
		for chair := 0; chair < CLI.Players; chair++ {
			total += eng.Player(chair).Stack()
		}
		if total != bankroll {
			return res, fmt.Errorf("hand %d: chip conservation broken: have %d want %d", hand, total, bankroll)
		}
	}

	logger.Debug("table finished", "hands", res.Hands, "showdowns", res.Showdowns, "busts", res.Busts)
	return res, nil
}
