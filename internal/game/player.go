package game

import "github.com/moonhole/holdemlite/poker"

// Player is one seat's state. Chip fields only move through placeBet,
// addStack and the settlement paths, which keeps conservation auditable.
type Player struct {
	ID    uint64
	Chair int
	NPC   bool

	stack int64
	bet   int64

	inHand     bool // dealt into the current hand
	folded     bool
	allIn      bool
	lastAction Action

	holeCards []poker.Card
}

func (p *Player) Stack() int64            { return p.stack }
func (p *Player) Bet() int64              { return p.bet }
func (p *Player) InHand() bool            { return p.inHand }
func (p *Player) Folded() bool            { return p.folded }
func (p *Player) AllIn() bool             { return p.allIn }
func (p *Player) LastAction() Action      { return p.lastAction }
func (p *Player) HoleCards() []poker.Card { return p.holeCards }

func (p *Player) resetForHand() {
	p.bet = 0
	p.inHand = true
	p.folded = false
	p.allIn = false
	p.lastAction = ActionNone
	p.holeCards = p.holeCards[:0]
}

// placeBet moves up to amount from stack to the live bet, clamping at the
// stack and marking all-in when it empties.
func (p *Player) placeBet(amount int64) {
	if amount <= 0 {
		return
	}
	if p.stack <= amount {
		p.allIn = true
		amount = p.stack
	}
	p.stack -= amount
	p.bet += amount
}

func (p *Player) addStack(amount int64) { p.stack += amount }
func (p *Player) addBet(amount int64)   { p.bet += amount }
func (p *Player) resetBet()             { p.bet = 0 }

// live reports whether the player can still act this hand: dealt in, not
// folded and not yet all-in.
func (p *Player) live() bool {
	return p != nil && p.inHand && !p.folded && p.stack > 0
}

// contesting reports whether the player is still in contention for pots.
func (p *Player) contesting() bool {
	return p != nil && p.inHand && !p.folded
}
