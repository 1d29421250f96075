package poker

// HoleCardCategory represents the strength category of hole cards
type HoleCardCategory string

const (
	CategoryPremium HoleCardCategory = "Premium"
	CategoryStrong  HoleCardCategory = "Strong"
	CategoryMedium  HoleCardCategory = "Medium"
	CategoryWeak    HoleCardCategory = "Weak"
	CategoryTrash   HoleCardCategory = "Trash"
	CategoryUnknown HoleCardCategory = "Unknown"
)

// CategorizeHoleCards provides a simple preflop hand categorization.
// Categories: Premium (JJ+, AK), Strong (TT, AQ/AJ), Medium (77-99, suited
// broadway), Weak (small pairs, suited connectors), Trash (everything else).
func CategorizeHoleCards(card1, card2 Card) HoleCardCategory {
	if card1 >= NumCards || card2 >= NumCards {
		return CategoryUnknown
	}

	suited := card1.Suit() == card2.Suit()
	small, big := card1.Value(), card2.Value()
	if small > big {
		small, big = big, small
	}
	isPair := small == big

	if isPair && small >= 11 { // JJ, QQ, KK, AA
		return CategoryPremium
	}
	if small == 13 && big == 14 { // AK
		return CategoryPremium
	}

	if isPair && small == 10 { // TT
		return CategoryStrong
	}
	if big == 14 && (small == 12 || small == 11) { // AQ, AJ
		return CategoryStrong
	}

	if isPair && small >= 7 { // 77, 88, 99
		return CategoryMedium
	}
	if suited && small >= 10 { // suited broadway
		return CategoryMedium
	}

	if isPair { // 22-66
		return CategoryWeak
	}
	if suited && big-small <= 2 { // suited connectors
		return CategoryWeak
	}

	return CategoryTrash
}
