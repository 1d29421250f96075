package poker

import (
	"fmt"
	"math/bits"
)

// HandCategory enumerates the categories of poker hands ordered from weakest
// to strongest.
type HandCategory uint8

const (
	HighCard HandCategory = iota + 1
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category description.
func (hc HandCategory) String() string {
	switch hc {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandValue is the result of evaluating a hand. Score is a totally ordered
// strength: any stronger hand scores higher regardless of category, and equal
// scores split. The top 12 bits hold the category, the low 20 bits pack up to
// five tiebreak ranks (ace-high values 2-14, four bits each, most significant
// first).
type HandValue struct {
	Score    uint32
	Category HandCategory
	BestFive [5]int // indices into the evaluated 7-card slice
}

// Less reports whether v is strictly weaker than other.
func (v HandValue) Less(other HandValue) bool {
	return v.Score < other.Score
}

const (
	categoryShift = 20
	wheelMask     = 0x100F // A-2-3-4-5 on rank bits 0-12
)

// combos7of5 enumerates the C(7,5)=21 index subsets of a 7-card hand.
var combos7of5 = func() [21][5]int {
	var table [21][5]int
	n := 0
	for a := 0; a < 3; a++ {
		for b := a + 1; b < 4; b++ {
			for c := b + 1; c < 5; c++ {
				for d := c + 1; d < 6; d++ {
					for e := d + 1; e < 7; e++ {
						table[n] = [5]int{a, b, c, d, e}
						n++
					}
				}
			}
		}
	}
	return table
}()

// EvaluateSeven evaluates the best 5-card hand from exactly 7 distinct cards.
func EvaluateSeven(cards []Card) (HandValue, error) {
	if len(cards) != 7 {
		return HandValue{}, fmt.Errorf("evaluate requires 7 cards, got %d", len(cards))
	}
	var seen uint64
	for _, c := range cards {
		if c >= NumCards {
			return HandValue{}, fmt.Errorf("invalid card %d", c)
		}
		bit := uint64(1) << c
		if seen&bit != 0 {
			return HandValue{}, fmt.Errorf("duplicate card %s", c)
		}
		seen |= bit
	}

	var best HandValue
	for _, combo := range combos7of5 {
		score, cat := evaluateFive(
			cards[combo[0]], cards[combo[1]], cards[combo[2]],
			cards[combo[3]], cards[combo[4]],
		)
		if score > best.Score {
			best = HandValue{Score: score, Category: cat, BestFive: combo}
		}
	}
	return best, nil
}

// EvaluateFive scores a single 5-card hand. The cards are assumed distinct.
func EvaluateFive(c0, c1, c2, c3, c4 Card) (uint32, HandCategory) {
	return evaluateFive(c0, c1, c2, c3, c4)
}

func evaluateFive(c0, c1, c2, c3, c4 Card) (uint32, HandCategory) {
	var counts [13]uint8
	var rankMask uint16
	cards := [5]Card{c0, c1, c2, c3, c4}
	for _, c := range cards {
		counts[c.Rank()]++
		rankMask |= 1 << c.Rank()
	}
	flush := c0.Suit() == c1.Suit() && c1.Suit() == c2.Suit() &&
		c2.Suit() == c3.Suit() && c3.Suit() == c4.Suit()
	straightHigh := straightHighFromMask(rankMask)

	if flush && straightHigh > 0 {
		if straightHigh == 14 {
			return score(RoyalFlush, straightHigh), RoyalFlush
		}
		return score(StraightFlush, straightHigh), StraightFlush
	}

	// Rank multiplicities, highest count first, ties broken by rank.
	nDistinct := bits.OnesCount16(rankMask)
	switch nDistinct {
	case 2: // quads or full house
		if quad := rankWithCount(counts, 4); quad > 0 {
			kicker := rankWithCount(counts, 1)
			return score(FourOfAKind, quad, kicker), FourOfAKind
		}
		trip := rankWithCount(counts, 3)
		pair := rankWithCount(counts, 2)
		return score(FullHouse, trip, pair), FullHouse
	case 3: // trips or two pair
		if trip := rankWithCount(counts, 3); trip > 0 {
			k1, k2 := topTwoSingles(counts)
			return score(ThreeOfAKind, trip, k1, k2), ThreeOfAKind
		}
		highPair, lowPair := topTwoPairs(counts)
		kicker := rankWithCount(counts, 1)
		return score(TwoPair, highPair, lowPair, kicker), TwoPair
	case 4: // one pair
		pair := rankWithCount(counts, 2)
		k1, k2 := topTwoSingles(counts)
		k3 := 0
		for r := 12; r >= 0; r-- {
			if counts[r] == 1 && r+2 != k1 && r+2 != k2 {
				k3 = r + 2
				break
			}
		}
		return score(Pair, pair, k1, k2, k3), Pair
	}

	if flush {
		vals := descendingValues(rankMask)
		return score(Flush, vals[0], vals[1], vals[2], vals[3], vals[4]), Flush
	}
	if straightHigh > 0 {
		return score(Straight, straightHigh), Straight
	}
	vals := descendingValues(rankMask)
	return score(HighCard, vals[0], vals[1], vals[2], vals[3], vals[4]), HighCard
}

// score packs a category and up to five tiebreak values into a totally
// ordered uint32.
func score(cat HandCategory, vals ...int) uint32 {
	s := uint32(cat) << categoryShift
	shift := 16
	for _, v := range vals {
		s |= uint32(v) << shift
		shift -= 4
	}
	return s
}

// straightHighFromMask returns the ace-high value (5-14) of the best straight
// in the rank bitmask, or 0 if none. The wheel reports 5, ranking it below
// every other straight.
func straightHighFromMask(mask uint16) int {
	// Bitwise cascade identifies five consecutive ranks in one pass.
	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		return bits.Len16(seq) - 1 + 4 + 2
	}
	if mask&wheelMask == wheelMask {
		return 5
	}
	return 0
}

// rankWithCount returns the highest rank value (2-14) appearing exactly n
// times, or 0 if none.
func rankWithCount(counts [13]uint8, n uint8) int {
	for r := 12; r >= 0; r-- {
		if counts[r] == n {
			return r + 2
		}
	}
	return 0
}

// topTwoSingles returns the two highest rank values appearing exactly once.
func topTwoSingles(counts [13]uint8) (int, int) {
	first, second := 0, 0
	for r := 12; r >= 0; r-- {
		if counts[r] != 1 {
			continue
		}
		if first == 0 {
			first = r + 2
		} else {
			second = r + 2
			break
		}
	}
	return first, second
}

// topTwoPairs returns the two highest rank values appearing exactly twice.
func topTwoPairs(counts [13]uint8) (int, int) {
	first, second := 0, 0
	for r := 12; r >= 0; r-- {
		if counts[r] != 2 {
			continue
		}
		if first == 0 {
			first = r + 2
		} else {
			second = r + 2
			break
		}
	}
	return first, second
}

// descendingValues expands a rank bitmask to values 2-14 in descending order.
func descendingValues(mask uint16) [5]int {
	var vals [5]int
	i := 0
	for r := 12; r >= 0 && i < 5; r-- {
		if mask&(1<<r) != 0 {
			vals[i] = r + 2
			i++
		}
	}
	return vals
}

// CompareScores returns 1 if a is stronger, -1 if b is stronger, 0 for a tie.
func CompareScores(a, b uint32) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}
