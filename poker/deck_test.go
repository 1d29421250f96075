package poker

import (
	"math/rand/v2"
	"testing"
)

func TestDeckDealsAllCardsOnce(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(1, 2))
	d := NewDeck(rng)

	seen := make(map[Card]bool)
	for d.CardsRemaining() > 0 {
		c, ok := d.DealOne()
		if !ok {
			t.Fatal("deal failed with cards remaining")
		}
		if seen[c] {
			t.Fatalf("card %s dealt twice", c)
		}
		seen[c] = true
	}
	if len(seen) != NumCards {
		t.Errorf("dealt %d distinct cards, want %d", len(seen), NumCards)
	}
	if _, ok := d.DealOne(); ok {
		t.Error("expected deal failure on exhausted deck")
	}
}

func TestDeckDealUnderflow(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(3, 4))
	d := NewDeck(rng)
	if cards := d.Deal(50); len(cards) != 50 {
		t.Fatalf("expected 50 cards, got %d", len(cards))
	}
	if cards := d.Deal(3); cards != nil {
		t.Error("expected nil when dealing past the end")
	}
	if cards := d.Deal(2); len(cards) != 2 {
		t.Error("remaining two cards should still deal")
	}
}

func TestDeckDeterministicBySeed(t *testing.T) {
	t.Parallel()
	d1 := NewDeck(rand.New(rand.NewPCG(7, 7)))
	d2 := NewDeck(rand.New(rand.NewPCG(7, 7)))
	a := d1.Deal(52)
	b := d2.Deal(52)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("decks diverge at %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestNewDeckFromCards(t *testing.T) {
	t.Parallel()
	ordered := make([]Card, NumCards)
	for i := range ordered {
		ordered[i] = Card(i)
	}
	d, err := NewDeckFromCards(ordered)
	if err != nil {
		t.Fatalf("NewDeckFromCards: %v", err)
	}
	first, _ := d.DealOne()
	if first != Card(0) {
		t.Errorf("first card = %s, want %s", first, Card(0))
	}

	if _, err := NewDeckFromCards(ordered[:51]); err == nil {
		t.Error("expected error for 51-card deck")
	}

	dup := make([]Card, NumCards)
	copy(dup, ordered)
	dup[51] = dup[0]
	if _, err := NewDeckFromCards(dup); err == nil {
		t.Error("expected error for duplicate card")
	}
}
