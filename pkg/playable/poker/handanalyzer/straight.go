package handanalyzer

import "holdem-engine/pkg/deck"

// straightHigh returns the high card of a five-card straight, or 0
// ranks must be sorted high to low. The wheel (A-5-4-3-2) plays as a five-high straight
func straightHigh(ranks [5]int) int {
	for i := 1; i < 5; i++ {
		if ranks[i-1] == ranks[i] {
			return 0
		}
	}

	if ranks[0]-ranks[4] == 4 {
		return ranks[0]
	}

	if ranks[0] == deck.Ace && ranks[1] == 5 && ranks[4] == 2 {
		return 5
	}

	return 0
}
