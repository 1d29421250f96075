// Package game implements the no-limit hold'em rules engine: hand lifecycle,
// betting, pot construction and settlement. The engine is deliberately free
// of locks, clocks and I/O; a single owner (the table actor) serialises all
// calls and supplies time. All methods either complete a mutation or return a
// request error having changed nothing.
package game

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/moonhole/holdemlite/internal/randutil"
	"github.com/moonhole/holdemlite/poker"
)

type Game struct {
	cfg Config
	rng *rand.Rand

	seats []*Player

	round     int
	phase     Phase
	community []poker.Card
	deck      *poker.Deck

	dealer     int
	smallBlind int
	bigBlind   int
	action     int

	handCount   int // players dealt into the current hand
	activeCount int // dealt in and not folded
	allInCount  int

	needAction    int   // players still owing a response this street
	minRaise      int64 // current legal raise delta
	currentRaiser int   // chair whose raise set minRaise, InvalidChair if none
	curBet        int64
	lastAction    Action // last non-fold action this street

	noShowdown bool
	ended      bool

	pots           potManager
	lastSettlement *SettlementResult
}

func NewGame(cfg Config) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		cfg:           cfg,
		rng:           randutil.New(seed),
		seats:         make([]*Player, cfg.MaxPlayers),
		phase:         PhaseAnte,
		dealer:        InvalidChair,
		smallBlind:    InvalidChair,
		bigBlind:      InvalidChair,
		action:        InvalidChair,
		currentRaiser: InvalidChair,
	}
	g.pots.reset()
	return g, nil
}

func (g *Game) Config() Config { return g.cfg }
func (g *Game) Round() int     { return g.round }
func (g *Game) Phase() Phase   { return g.phase }
func (g *Game) Ended() bool    { return g.round == 0 || g.ended }

// LastSettlement returns the most recent hand's result, or nil.
func (g *Game) LastSettlement() *SettlementResult { return g.lastSettlement }

// Player returns the occupant of a chair, or nil.
func (g *Game) Player(chair int) *Player {
	if chair < 0 || chair >= g.cfg.MaxPlayers {
		return nil
	}
	return g.seats[chair]
}

// SitDown seats a player with an initial stack. Seating is allowed mid-hand;
// the newcomer joins play from the next StartHand.
func (g *Game) SitDown(chair int, playerID uint64, stack int64, npc bool) error {
	if chair < 0 || chair >= g.cfg.MaxPlayers {
		return fmt.Errorf("invalid chair %d", chair)
	}
	if stack < 0 {
		return fmt.Errorf("%w: stack must be >= 0", ErrInvalidAmount)
	}
	if g.seats[chair] != nil {
		return fmt.Errorf("%w: chair %d", ErrChairOccupied, chair)
	}
	g.seats[chair] = &Player{
		ID:    playerID,
		Chair: chair,
		NPC:   npc,
		stack: stack,
	}
	return nil
}

// AddChips tops a player up between hands: a rebuy or add-on.
func (g *Game) AddChips(chair int, amount int64) error {
	if chair < 0 || chair >= g.cfg.MaxPlayers {
		return fmt.Errorf("invalid chair %d", chair)
	}
	p := g.seats[chair]
	if p == nil {
		return fmt.Errorf("%w: chair %d", ErrNoSuchPlayer, chair)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	if g.round > 0 && !g.ended {
		return ErrHandInProgress
	}
	p.addStack(amount)
	return nil
}

// StandUp removes a player between hands. Seats never mutate during a hand.
func (g *Game) StandUp(chair int) error {
	if chair < 0 || chair >= g.cfg.MaxPlayers {
		return fmt.Errorf("invalid chair %d", chair)
	}
	if g.seats[chair] == nil {
		return fmt.Errorf("%w: chair %d", ErrNoSuchPlayer, chair)
	}
	if g.round > 0 && !g.ended {
		return ErrHandInProgress
	}
	g.seats[chair] = nil
	if g.smallBlind == chair {
		g.smallBlind = InvalidChair
	}
	if g.bigBlind == chair {
		g.bigBlind = InvalidChair
	}
	if g.action == chair {
		g.action = InvalidChair
	}
	return nil
}

// StartHand deals a new hand: dealer rotation, blinds, hole cards, antes.
// It can end the hand immediately when forced bets leave at most one player
// able to act; the result is then available via LastSettlement.
func (g *Game) StartHand() error {
	if g.round > 0 && !g.ended {
		return ErrHandInProgress
	}

	// Validate everything up front. A rejected start must leave the table
	// exactly as it was, still accepting AddChips, StandUp and a retry.
	dealt := 0
	for _, p := range g.seats {
		if p != nil && p.stack > 0 {
			dealt++
		}
	}
	if dealt < g.cfg.MinPlayers {
		return fmt.Errorf("%w: %d < %d", ErrNotEnough, dealt, g.cfg.MinPlayers)
	}
	if fc := g.cfg.ForcedDealerChair; fc != nil {
		if p := g.seats[*fc]; p == nil || p.stack <= 0 {
			return fmt.Errorf("forced dealer chair %d is not in the hand", *fc)
		}
	}
	var deck *poker.Deck
	if len(g.cfg.DeckOverride) > 0 {
		d, err := poker.NewDeckFromCards(g.cfg.DeckOverride)
		if err != nil {
			return err
		}
		deck = d
	} else {
		deck = poker.NewDeck(g.rng)
	}

	g.ended = false
	g.lastSettlement = nil
	g.noShowdown = false
	g.community = g.community[:0]
	g.deck = deck

	for _, p := range g.seats {
		if p == nil {
			continue
		}
		if p.stack <= 0 {
			p.inHand = false
			p.holeCards = p.holeCards[:0]
			continue
		}
		p.resetForHand()
	}

	g.round++
	g.pots.reset()
	g.handCount = dealt
	g.activeCount = dealt
	g.allInCount = 0
	g.curBet = 0
	g.minRaise = 0
	g.needAction = 0
	g.currentRaiser = InvalidChair
	g.lastAction = ActionNone

	if err := g.selectDealer(); err != nil {
		return err
	}
	g.assignBlinds()
	if err := g.dealHoleCards(); err != nil {
		return err
	}

	g.phase = PhaseAnte
	if g.postAntes() {
		return g.finishEarly()
	}
	if g.postBlinds() {
		return g.finishEarly()
	}

	// A blind post can leave the first actor all-in; skip to a live seat.
	g.action = g.seatAfter(g.action, playerLive)

	g.phase = PhasePreflop
	g.beginStreet()
	return nil
}

func (g *Game) finishEarly() error {
	if err := g.advanceToShowdown(); err != nil {
		return err
	}
	_, err := g.endHand()
	return err
}

// seatAfter returns the first chair at or after start (wrapping) whose
// occupant satisfies ok, or InvalidChair.
func (g *Game) seatAfter(start int, ok func(*Player) bool) int {
	if start < 0 {
		return InvalidChair
	}
	for i := 0; i < g.cfg.MaxPlayers; i++ {
		chair := (start + i) % g.cfg.MaxPlayers
		if p := g.seats[chair]; p != nil && ok(p) {
			return chair
		}
	}
	return InvalidChair
}

func playerInHand(p *Player) bool { return p.inHand }
func playerLive(p *Player) bool   { return p.live() }

func (g *Game) selectDealer() error {
	if fc := g.cfg.ForcedDealerChair; fc != nil {
		if p := g.seats[*fc]; p == nil || !p.inHand {
			return fmt.Errorf("forced dealer chair %d is not in the hand", *fc)
		}
		g.dealer = *fc
		return nil
	}

	if g.round == 1 || g.dealer == InvalidChair {
		// random button for the first hand
		n := g.rng.IntN(g.handCount)
		for chair, p := range g.seats {
			if p == nil || !p.inHand {
				continue
			}
			if n == 0 {
				g.dealer = chair
				return nil
			}
			n--
		}
		return invariantf("no dealer candidate among %d dealt players", g.handCount)
	}

	// move the button to the next seat dealt in
	g.dealer = g.seatAfter(g.dealer+1, playerInHand)
	if g.dealer == InvalidChair {
		return invariantf("dealer rotation found no seat")
	}
	return nil
}

// assignBlinds fixes the blinds and first actor from the button. Heads-up is
// decided by how many players were dealt in, never by fold-reduced counts:
// the dealer posts the small blind and acts first preflop.
func (g *Game) assignBlinds() {
	if g.handCount == 2 {
		g.smallBlind = g.dealer
		g.bigBlind = g.seatAfter(g.dealer+1, playerInHand)
		g.action = g.dealer
		return
	}
	g.smallBlind = g.seatAfter(g.dealer+1, playerInHand)
	g.bigBlind = g.seatAfter(g.smallBlind+1, playerInHand)
	g.action = g.seatAfter(g.bigBlind+1, playerInHand)
}

// dealHoleCards deals two cards to each player, one at a time, starting at
// the small blind.
func (g *Game) dealHoleCards() error {
	for round := 0; round < 2; round++ {
		chair := g.smallBlind
		for i := 0; i < g.handCount; i++ {
			card, ok := g.deck.DealOne()
			if !ok {
				return invariantf("deck underflow dealing hole cards")
			}
			p := g.seats[chair]
			p.holeCards = append(p.holeCards, card)
			chair = g.seatAfter(chair+1, playerInHand)
		}
	}
	return nil
}

// postAntes collects antes into their own pot. Returns true when at most one
// player still has chips, which sends the hand straight to showdown.
func (g *Game) postAntes() bool {
	if g.cfg.Ante == 0 {
		return false
	}
	notAllIn := 0
	for _, p := range g.seats {
		if p == nil || !p.inHand {
			continue
		}
		p.placeBet(g.cfg.Ante)
		if p.stack > 0 {
			notAllIn++
		}
	}
	g.allInCount = g.handCount - notAllIn
	g.collectBets()
	return notAllIn <= 1
}

// postBlinds posts the blinds, short all-in posts allowed. Returns true when
// everyone is already all-in.
func (g *Game) postBlinds() bool {
	if sb := g.seats[g.smallBlind]; sb.stack > 0 && g.cfg.SmallBlind > 0 {
		sb.placeBet(g.cfg.SmallBlind)
		if sb.stack <= 0 {
			g.allInCount++
		}
	}
	if bb := g.seats[g.bigBlind]; bb.stack > 0 {
		bb.placeBet(g.cfg.BigBlind)
		if bb.stack <= 0 {
			g.allInCount++
		}
	}

	if g.activeCount == g.allInCount {
		return true
	}

	// The big blind counts as the opening bet.
	g.lastAction = ActionBet
	g.minRaise = g.cfg.BigBlind
	g.curBet = g.cfg.BigBlind
	return false
}

// beginStreet resets the per-street betting state.
func (g *Game) beginStreet() {
	g.setNeedAction()
	g.currentRaiser = InvalidChair
	for _, p := range g.seats {
		if p != nil && p.inHand {
			p.lastAction = ActionNone
		}
	}
	if g.phase == PhasePreflop {
		// blinds already opened the betting; minRaise was set by the BB
		g.lastAction = ActionBet
	} else {
		g.lastAction = ActionNone
		g.minRaise = g.cfg.BigBlind
	}
}

func (g *Game) setNeedAction() {
	g.needAction = g.activeCount - g.allInCount
}

// ActionChair returns the chair currently holding the action, or
// InvalidChair.
func (g *Game) ActionChair() int {
	if g.ended {
		return InvalidChair
	}
	return g.action
}

// LegalActions is a pure projection of the current state: the legal action
// set for a chair and the minimum total amount of a bet or raise. It never
// mutates anything and may be asked for any seated player at any time.
func (g *Game) LegalActions(chair int) ([]Action, int64, error) {
	if g.ended || g.round == 0 {
		return nil, 0, ErrHandEnded
	}
	p := g.Player(chair)
	if p == nil {
		return nil, 0, fmt.Errorf("%w: chair %d", ErrNoSuchPlayer, chair)
	}
	acts := g.legalFor(p)
	minRaiseTo := g.curBet + g.minRaise
	if g.lastAction == ActionNone || g.lastAction == ActionCheck {
		// nothing to raise over yet; the minimum open is the big blind
		minRaiseTo = g.cfg.BigBlind
	}
	return acts, minRaiseTo, nil
}

func (g *Game) legalFor(p *Player) []Action {
	legal := []Action{ActionAllIn, ActionFold}
	canCall := false

	switch g.lastAction {
	case ActionCheck, ActionNone:
		legal = append(legal, ActionCheck)
		if p.stack > g.cfg.BigBlind {
			legal = append(legal, ActionBet)
		}

	case ActionBet, ActionRaise, ActionAllIn, ActionCall:
		available := p.stack + p.bet

		if p.bet == g.curBet {
			// matched already (big blind option)
			legal = append(legal, ActionCheck)
		} else if available > g.curBet {
			legal = append(legal, ActionCall)
			canCall = true
		}

		canRaise := available > g.curBet+g.minRaise
		reopened := g.currentRaiser != p.Chair
		if canRaise && reopened && g.activeCount-g.allInCount > 1 {
			legal = append(legal, ActionRaise)
		}

		// Drop the all-in option when it cannot change the hand: the lone
		// live player facing only all-ins, or a raiser whose own bet was
		// never reopened.
		if (canCall && g.activeCount-g.allInCount <= 1) || (canRaise && !reopened) {
			legal = legal[1:]
		}
	}
	return legal
}

// Act applies an action for the chair currently holding the action. amount
// is the player's total bet for this street, not the increment. A non-nil
// result means the hand ended with this action.
func (g *Game) Act(chair int, action Action, amount int64) (*SettlementResult, error) {
	if g.ended || g.round == 0 {
		return nil, ErrHandEnded
	}
	if g.action == InvalidChair {
		return nil, invariantf("no chair holds the action")
	}
	if chair != g.action {
		return nil, ErrOutOfTurn
	}
	p := g.seats[chair]
	if p == nil {
		return nil, invariantf("action chair %d is empty", chair)
	}

	legal := g.legalFor(p)
	ok := false
	for _, a := range legal {
		if a == action {
			ok = true
			break
		}
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIllegalAction, action)
	}

	// amount normalization and validation, all before any mutation
	switch {
	case action == ActionFold, action == ActionCheck:
		amount = p.bet
	case action == ActionAllIn:
		amount = p.stack + p.bet
	case amount < p.bet:
		return nil, fmt.Errorf("%w: %d below committed %d", ErrInvalidAmount, amount, p.bet)
	}
	if amount-p.bet > p.stack {
		// overbet commits the whole stack
		amount = p.stack + p.bet
		action = ActionAllIn
	}

	switch action {
	case ActionBet:
		if amount-g.curBet < g.cfg.BigBlind {
			return nil, fmt.Errorf("%w: bet %d below big blind", ErrInvalidAmount, amount)
		}
	case ActionRaise:
		if amount-g.curBet < g.minRaise {
			return nil, fmt.Errorf("%w: raise to %d below minimum %d", ErrInvalidAmount, amount, g.curBet+g.minRaise)
		}
	case ActionCall:
		if amount != g.curBet {
			if p.stack+p.bet <= g.curBet {
				return nil, fmt.Errorf("%w: short call must be all-in", ErrInvalidAmount)
			}
			amount = g.curBet
		}
	}

	// min-raise bookkeeping. An all-in below the minimum raise still lifts
	// curBet but does not reopen raise rights for players who already acted.
	if amount > g.curBet {
		validRaise := action != ActionAllIn || amount-g.curBet >= g.minRaise
		if validRaise {
			g.minRaise = amount - g.curBet
			g.currentRaiser = chair
		}
		g.curBet = amount
		g.setNeedAction()
	}

	p.lastAction = action
	switch action {
	case ActionBet, ActionRaise, ActionCall:
		wasAllIn := p.allIn
		p.placeBet(amount - p.bet)
		if p.allIn && !wasAllIn {
			g.allInCount++
		}
	case ActionCheck:
		// no chips move
	case ActionAllIn:
		p.placeBet(p.stack)
		g.allInCount++
	case ActionFold:
		p.folded = true
		g.activeCount--
		// a folded player leaves every pot's eligible set immediately
		g.pots.stripChair(chair)
		if g.activeCount <= 1 {
			g.noShowdown = true
			return g.endHand()
		}
	}

	if action != ActionFold {
		g.lastAction = action
	}
	g.needAction--

	next, streetEnd := g.nextActionChair()
	g.action = next

	if streetEnd {
		g.collectBets()

		if g.directShowdown() || g.phase == PhaseRiver {
			if err := g.advanceToShowdown(); err != nil {
				return nil, err
			}
			return g.endHand()
		}

		g.phase++
		if err := g.dealCommunity(); err != nil {
			return nil, err
		}
		g.beginStreet()
		return nil, nil
	}

	if g.action == InvalidChair {
		return nil, invariantf("no live player to act next")
	}
	return nil, nil
}

// nextActionChair resolves who acts next, or that the street's betting is
// over. When the street ends with more streets to come it already returns
// the next street's first actor: the first live seat from the small blind,
// or from the big blind heads-up.
func (g *Game) nextActionChair() (int, bool) {
	if g.needAction <= 0 {
		if g.phase == PhaseRiver {
			return InvalidChair, true
		}
		first := g.smallBlind
		if g.handCount == 2 {
			first = g.bigBlind
		}
		return g.seatAfter(first, playerLive), true
	}

	next := g.seatAfter(g.action+1, playerLive)
	if next == InvalidChair {
		return InvalidChair, true
	}
	// The last live player has already matched the bet: nothing left to ask.
	if g.seats[next].bet >= g.curBet && g.needAction == 1 && g.activeCount-g.allInCount == 1 {
		return next, true
	}
	return next, false
}

func (g *Game) directShowdown() bool {
	return g.allInCount >= g.activeCount-1
}

func (g *Game) advanceToShowdown() error {
	g.phase = PhaseShowdown
	return g.dealCommunity()
}

func (g *Game) dealCommunity() error {
	var n int
	switch g.phase {
	case PhaseFlop:
		n = 3
	case PhaseTurn, PhaseRiver:
		n = 1
	case PhaseShowdown:
		n = 5 - len(g.community)
	}
	if n <= 0 {
		return nil
	}
	cards := g.deck.Deal(n)
	if cards == nil {
		return invariantf("deck underflow dealing %d community cards", n)
	}
	g.community = append(g.community, cards...)
	return nil
}

func (g *Game) collectBets() {
	withBets := make([]*Player, 0, g.handCount)
	for _, p := range g.seats {
		if p != nil && p.bet > 0 {
			withBets = append(withBets, p)
		}
	}
	g.pots.collect(withBets)
	for _, p := range withBets {
		p.resetBet()
	}
	g.curBet = 0
}

func (g *Game) endHand() (*SettlementResult, error) {
	g.phase = PhaseRoundEnd
	g.action = InvalidChair
	// Forced bets can end a hand before any street closes; sweep whatever is
	// still on the felt into pots. The no-showdown settle handles its own
	// uncollected bets.
	if !g.noShowdown {
		for _, p := range g.seats {
			if p != nil && p.bet > 0 {
				g.collectBets()
				break
			}
		}
	}
	res, err := g.settle()
	if err != nil {
		return nil, err
	}
	// every pot has been paid out
	g.pots.pots = g.pots.pots[:0]
	g.lastSettlement = res
	g.ended = true
	return res, nil
}
