package game

import (
	"fmt"

	"github.com/moonhole/holdemlite/poker"
)

// Config holds the per-table rules. It is validated once, at construction;
// a Game is never built from an invalid Config.
type Config struct {
	MaxPlayers int
	MinPlayers int

	SmallBlind int64
	BigBlind   int64
	Ante       int64

	// Seed drives the deck shuffle (0 means time-based).
	Seed int64

	// Replay controls. ForcedDealerChair pins the button; DeckOverride pins
	// the full deal order, consumed from index 0 upward.
	ForcedDealerChair *int
	DeckOverride      []poker.Card
}

// Validate reports the first configuration problem found. Configuration
// errors are fatal: they reject construction rather than surface later.
func (c Config) Validate() error {
	if c.MaxPlayers <= 0 {
		return fmt.Errorf("MaxPlayers must be > 0")
	}
	if c.MinPlayers <= 0 {
		return fmt.Errorf("MinPlayers must be > 0")
	}
	if c.MinPlayers > c.MaxPlayers {
		return fmt.Errorf("MinPlayers must be <= MaxPlayers")
	}
	if c.SmallBlind < 0 || c.BigBlind <= 0 || c.SmallBlind > c.BigBlind {
		return fmt.Errorf("invalid blinds: sb=%d bb=%d", c.SmallBlind, c.BigBlind)
	}
	if c.Ante < 0 {
		return fmt.Errorf("Ante must be >= 0")
	}
	if c.ForcedDealerChair != nil {
		if fc := *c.ForcedDealerChair; fc < 0 || fc >= c.MaxPlayers {
			return fmt.Errorf("forced dealer chair out of range: %d", fc)
		}
	}
	return validateDeckOverride(c.DeckOverride)
}

func validateDeckOverride(deck []poker.Card) error {
	if len(deck) == 0 {
		return nil
	}
	if len(deck) != poker.NumCards {
		return fmt.Errorf("deck override must contain %d cards, got %d", poker.NumCards, len(deck))
	}
	var seen [poker.NumCards]bool
	for i, c := range deck {
		if c >= poker.NumCards {
			return fmt.Errorf("deck override contains invalid card at index %d", i)
		}
		if seen[c] {
			return fmt.Errorf("deck override contains duplicate card at index %d: %s", i, c)
		}
		seen[c] = true
	}
	return nil
}
