// Package table runs one betting engine per table behind a single-writer
// actor. Every mutation arrives on one channel and is applied by one
// goroutine, so the engine itself needs no locking. NPC decisions and
// action timeouts re-enter through the same channel as ordinary events.
package table

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/moonhole/holdemlite/internal/game"
	"github.com/moonhole/holdemlite/internal/npc"
)

// ErrTableClosed is returned for any request made after Stop.
var ErrTableClosed = errors.New("table closed")

// Config carries everything a table needs beyond the engine rules.
type Config struct {
	Game          game.Config
	ActionTimeout time.Duration // 0 disables the default-action timer
	AutoDeal      bool
	AutoDealDelay time.Duration
}

// Update is pushed after every observable state change. Settlement is
// non-nil only when the change ended a hand. The snapshot still contains
// every seat's hole cards; redaction is the subscriber's job.
type Update struct {
	TableID    string
	Snapshot   game.Snapshot
	Settlement *game.SettlementResult
}

// UpdateFunc receives updates on the actor goroutine. It must return
// quickly and must not call back into the Actor.
type UpdateFunc func(Update)

// Actor owns one Game and serializes all access to it.
type Actor struct {
	ID string

	cfg      Config
	g        *game.Game
	clock    quartz.Clock
	logger   *log.Logger
	onUpdate UpdateFunc

	calls    chan func()
	quit     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once

	deciders map[int]npc.Decider

	// promptSeq stamps each turn; a timer or NPC decision for a stale
	// sequence is discarded.
	promptSeq   uint64
	actionTimer *quartz.Timer
	dealTimer   *quartz.Timer
}

// New builds the actor and starts its event loop.
func New(id string, cfg Config, clock quartz.Clock, logger *log.Logger, onUpdate UpdateFunc) (*Actor, error) {
	g, err := game.NewGame(cfg.Game)
	if err != nil {
		return nil, err
	}
	a := &Actor{
		ID:       id,
		cfg:      cfg,
		g:        g,
		clock:    clock,
		logger:   logger.WithPrefix("table").With("table_id", id),
		onUpdate: onUpdate,
		calls:    make(chan func(), 64),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
		deciders: make(map[int]npc.Decider),
	}
	go a.loop()
	return a, nil
}

// Stop shuts the actor down. Pending and future requests fail with
// ErrTableClosed.
func (a *Actor) Stop() {
	a.stopOnce.Do(func() { close(a.quit) })
	<-a.stopped
}

func (a *Actor) loop() {
	defer close(a.stopped)
	for {
		select {
		case fn := <-a.calls:
			fn()
		case <-a.quit:
			if a.actionTimer != nil {
				a.actionTimer.Stop()
			}
			if a.dealTimer != nil {
				a.dealTimer.Stop()
			}
			return
		}
	}
}

// call runs fn on the actor goroutine and waits for its result.
func (a *Actor) call(fn func() error) error {
	errc := make(chan error, 1)
	select {
	case a.calls <- func() { errc <- fn() }:
	case <-a.quit:
		return ErrTableClosed
	}
	select {
	case err := <-errc:
		return err
	case <-a.stopped:
		return ErrTableClosed
	}
}

// submit queues fn without waiting. Used by timers and NPC goroutines.
func (a *Actor) submit(fn func()) {
	select {
	case a.calls <- fn:
	case <-a.quit:
	}
}

// SitDown seats a player. A non-nil decider makes the seat an NPC whose
// turns the table plays by itself.
func (a *Actor) SitDown(chair int, playerID uint64, stack int64, decider npc.Decider) error {
	return a.call(func() error {
		if err := a.g.SitDown(chair, playerID, stack, decider != nil); err != nil {
			return err
		}
		if decider != nil {
			a.deciders[chair] = decider
		}
		a.logger.Info("player seated", "chair", chair, "player_id", playerID, "stack", stack, "npc", decider != nil)
		a.publish(nil)
		return nil
	})
}

// StandUp removes a player between hands.
func (a *Actor) StandUp(chair int) error {
	return a.call(func() error {
		if err := a.g.StandUp(chair); err != nil {
			return err
		}
		delete(a.deciders, chair)
		a.logger.Info("player left", "chair", chair)
		a.publish(nil)
		return nil
	})
}

// StartHand deals the next hand now.
func (a *Actor) StartHand() error {
	return a.call(a.startHand)
}

// Act applies a human player's action.
func (a *Actor) Act(chair int, action game.Action, amount int64) error {
	return a.call(func() error {
		return a.apply(chair, action, amount)
	})
}

// Snapshot returns the table state as of a serialization point in the
// event stream.
func (a *Actor) Snapshot() (game.Snapshot, error) {
	var snap game.Snapshot
	err := a.call(func() error {
		snap = a.g.Snapshot()
		return nil
	})
	return snap, err
}

// LegalActions returns the legal actions and minimum bet/raise total for a
// chair.
func (a *Actor) LegalActions(chair int) ([]game.Action, int64, error) {
	var (
		acts  []game.Action
		minTo int64
	)
	err := a.call(func() error {
		var err error
		acts, minTo, err = a.g.LegalActions(chair)
		return err
	})
	return acts, minTo, err
}

// Config returns the table configuration.
func (a *Actor) Config() Config { return a.cfg }

func (a *Actor) publish(res *game.SettlementResult) {
	if a.onUpdate == nil {
		return
	}
	a.onUpdate(Update{TableID: a.ID, Snapshot: a.g.Snapshot(), Settlement: res})
}

func (a *Actor) startHand() error {
	if a.dealTimer != nil {
		a.dealTimer.Stop()
		a.dealTimer = nil
	}
	if err := a.g.StartHand(); err != nil {
		return err
	}
	a.logger.Info("hand started", "round", a.g.Round())
	if a.g.Ended() {
		// forced bets left at most one player able to act
		a.handEnded(a.g.LastSettlement())
		return nil
	}
	a.prompt()
	return nil
}

func (a *Actor) apply(chair int, action game.Action, amount int64) error {
	res, err := a.g.Act(chair, action, amount)
	if err != nil {
		return err
	}
	a.logger.Debug("action applied", "chair", chair, "action", action.String(), "amount", amount, "phase", a.g.Phase().String())
	if res != nil {
		a.handEnded(res)
		return nil
	}
	a.prompt()
	return nil
}

// prompt hands the turn to the next actor: NPC turns are decided off the
// actor goroutine and resubmitted, human turns arm the timeout timer.
func (a *Actor) prompt() {
	chair := a.g.ActionChair()
	if chair == game.InvalidChair {
		return
	}
	a.promptSeq++
	seq := a.promptSeq
	if a.actionTimer != nil {
		a.actionTimer.Stop()
		a.actionTimer = nil
	}
	a.publish(nil)

	if d, ok := a.deciders[chair]; ok {
		legal, minTo, err := a.g.LegalActions(chair)
		if err != nil {
			a.logger.Error("legal actions for npc", "chair", chair, "err", err)
			return
		}
		view := npc.ViewFor(a.g.Snapshot(), chair, legal, minTo)
		go func() {
			dec := d.Decide(view)
			a.submit(func() {
				if seq != a.promptSeq {
					return
				}
				if err := a.apply(chair, dec.Action, dec.Amount); err != nil {
					a.logger.Warn("npc decision rejected", "chair", chair, "npc", d.Name(),
						"action", dec.Action.String(), "amount", dec.Amount, "err", err)
					a.defaultAction(chair)
				}
			})
		}()
		return
	}

	if a.cfg.ActionTimeout > 0 {
		a.actionTimer = a.clock.AfterFunc(a.cfg.ActionTimeout, func() {
			a.submit(func() {
				if seq != a.promptSeq {
					return
				}
				a.logger.Info("action timeout", "chair", chair)
				a.defaultAction(chair)
			})
		})
	}
}

// defaultAction checks when legal, otherwise folds.
func (a *Actor) defaultAction(chair int) {
	action := game.ActionFold
	if acts, _, err := a.g.LegalActions(chair); err == nil {
		for _, x := range acts {
			if x == game.ActionCheck {
				action = game.ActionCheck
				break
			}
		}
	}
	if err := a.apply(chair, action, 0); err != nil {
		a.logger.Error("default action failed", "chair", chair, "action", action.String(), "err", err)
	}
}

func (a *Actor) handEnded(res *game.SettlementResult) {
	if a.actionTimer != nil {
		a.actionTimer.Stop()
		a.actionTimer = nil
	}
	a.logger.Info("hand ended", "round", a.g.Round(), "no_showdown", res != nil && res.NoShowdown)
	a.publish(res)

	if !a.cfg.AutoDeal {
		return
	}
	funded := 0
	for chair := 0; chair < a.cfg.Game.MaxPlayers; chair++ {
		if p := a.g.Player(chair); p != nil && p.Stack() > 0 {
			funded++
		}
	}
	if funded < a.cfg.Game.MinPlayers {
		a.logger.Info("auto-deal paused", "funded", funded, "min_players", a.cfg.Game.MinPlayers)
		return
	}
	a.dealTimer = a.clock.AfterFunc(a.cfg.AutoDealDelay, func() {
		a.submit(func() {
			if err := a.startHand(); err != nil {
				a.logger.Error("auto-deal", "err", err)
			}
		})
	})
}
