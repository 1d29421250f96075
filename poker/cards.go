package poker

import "fmt"

// Card represents a single playing card as an index 0-51.
// Layout: suit*13 + rank, clubs first, deuce low.
type Card uint8

// Suit constants
const (
	Clubs    uint8 = 0
	Diamonds uint8 = 1
	Hearts   uint8 = 2
	Spades   uint8 = 3
)

// Rank constants (0-12 for 2-A)
const (
	Two   uint8 = 0
	Three uint8 = 1
	Four  uint8 = 2
	Five  uint8 = 3
	Six   uint8 = 4
	Seven uint8 = 5
	Eight uint8 = 6
	Nine  uint8 = 7
	Ten   uint8 = 8
	Jack  uint8 = 9
	Queen uint8 = 10
	King  uint8 = 11
	Ace   uint8 = 12
)

const (
	// NumCards is the size of a full deck.
	NumCards = 52

	// InvalidCard is returned by ParseCard on malformed input.
	InvalidCard Card = 255
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

// NewCard creates a card from rank and suit.
func NewCard(rank, suit uint8) Card {
	return Card(suit*13 + rank)
}

// Rank returns the rank of the card (0-12).
func (c Card) Rank() uint8 {
	if c >= NumCards {
		return 255
	}
	return uint8(c) % 13
}

// Suit returns the suit of the card (0-3).
func (c Card) Suit() uint8 {
	if c >= NumCards {
		return 255
	}
	return uint8(c) / 13
}

// Value returns the comparison value of the rank, 2-14 with ace high.
func (c Card) Value() int {
	return int(c.Rank()) + 2
}

// String returns the two-character representation (e.g., "As", "Kh").
func (c Card) String() string {
	if c >= NumCards {
		return "??"
	}
	return string(rankChars[c.Rank()]) + string(suitChars[c.Suit()])
}

// ParseCard parses a string like "As" into a Card.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return InvalidCard, fmt.Errorf("invalid card string: %q", s)
	}

	var rank uint8
	switch s[0] {
	case '2':
		rank = Two
	case '3':
		rank = Three
	case '4':
		rank = Four
	case '5':
		rank = Five
	case '6':
		rank = Six
	case '7':
		rank = Seven
	case '8':
		rank = Eight
	case '9':
		rank = Nine
	case 'T', 't':
		rank = Ten
	case 'J', 'j':
		rank = Jack
	case 'Q', 'q':
		rank = Queen
	case 'K', 'k':
		rank = King
	case 'A', 'a':
		rank = Ace
	default:
		return InvalidCard, fmt.Errorf("invalid rank: %c", s[0])
	}

	var suit uint8
	switch s[1] {
	case 'c', 'C':
		suit = Clubs
	case 'd', 'D':
		suit = Diamonds
	case 'h', 'H':
		suit = Hearts
	case 's', 'S':
		suit = Spades
	default:
		return InvalidCard, fmt.Errorf("invalid suit: %c", s[1])
	}

	return NewCard(rank, suit), nil
}

// MustParseCard is ParseCard that panics on malformed input. Intended for
// tests and literals.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCards parses a slice of card strings.
func ParseCards(ss []string) ([]Card, error) {
	cards := make([]Card, len(ss))
	for i, s := range ss {
		c, err := ParseCard(s)
		if err != nil {
			return nil, err
		}
		cards[i] = c
	}
	return cards, nil
}

// CardStrings formats a slice of cards as two-character strings.
func CardStrings(cards []Card) []string {
	ss := make([]string, len(cards))
	for i, c := range cards {
		ss[i] = c.String()
	}
	return ss
}
