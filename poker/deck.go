package poker

import (
	"fmt"
	"math/rand/v2"
)

// Deck represents a standard 52-card deck
type Deck struct {
	cards [NumCards]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a new shuffled deck with an explicit RNG.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for suit := range uint8(4) {
		for rank := range uint8(13) {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	d.Shuffle()
	return d
}

// NewDeckFromCards creates an unshuffled deck dealing the given cards in
// order. The input must be a permutation of all 52 cards.
func NewDeckFromCards(cards []Card) (*Deck, error) {
	if len(cards) != NumCards {
		return nil, fmt.Errorf("deck requires %d cards, got %d", NumCards, len(cards))
	}
	var seen [NumCards]bool
	d := &Deck{}
	for i, c := range cards {
		if c >= NumCards {
			return nil, fmt.Errorf("invalid card at position %d", i)
		}
		if seen[c] {
			return nil, fmt.Errorf("duplicate card %s at position %d", c, i)
		}
		seen[c] = true
		d.cards[i] = c
	}
	return d, nil
}

// Shuffle reshuffles the full deck using Fisher-Yates.
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal deals n cards from the deck, or nil if fewer than n remain.
func (d *Deck) Deal(n int) []Card {
	if d.next+n > len(d.cards) {
		return nil
	}
	cards := d.cards[d.next : d.next+n]
	d.next += n
	return cards
}

// DealOne deals a single card from the deck.
func (d *Deck) DealOne() (Card, bool) {
	if d.next >= len(d.cards) {
		return InvalidCard, false
	}
	card := d.cards[d.next]
	d.next++
	return card, true
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}
