package handanalyzer

import (
	"errors"
	"holdem-engine/pkg/deck"
	"sort"
)

// ErrInvalidCardCount is returned when fewer than five or more than seven cards are analyzed
var ErrInvalidCardCount = errors.New("a hand must have between five and seven cards")

// ErrDuplicateCard is returned when the same card is given twice
var ErrDuplicateCard = errors.New("a hand cannot contain the same card twice")

// ErrInvalidCard is returned for a card outside of the standard 52
var ErrInvalidCard = errors.New("invalid card")

const handSize = 5

// HandAnalyzer finds the best five card hand out of five to seven cards
type HandAnalyzer struct {
	cards deck.Hand
	best  deck.Hand
	rank  Rank
}

// New will return a new HandAnalyzer instance
// Every five-card combination of the cards is ranked, and the strongest is kept
func New(cards []*deck.Card) (*HandAnalyzer, error) {
	if len(cards) < handSize || len(cards) > 7 {
		return nil, ErrInvalidCardCount
	}

	for _, card := range cards {
		if card == nil || !card.IsValid() {
			return nil, ErrInvalidCard
		}
	}

	// clone to prevent modifying original
	sortedCards := deck.Hand(cards).Clone()
	if sortedCards.HasDuplicates() {
		return nil, ErrDuplicateCard
	}

	// a canonical order makes the result independent of the order the cards were given in
	sort.Sort(sort.Reverse(sortedCards))

	h := &HandAnalyzer{
		cards: sortedCards,
	}

	var five [handSize]*deck.Card
	first := true
	combinations(len(sortedCards), handSize, func(idx []int) {
		for i, j := range idx {
			five[i] = sortedCards[j]
		}

		rank, best := analyzeFive(five)
		if first || rank.Beats(h.rank) {
			h.rank = rank
			h.best = best
			first = false
		}
	})

	return h, nil
}

// Evaluate returns the rank of the best five card hand
func Evaluate(cards []*deck.Card) (Rank, error) {
	h, err := New(cards)
	if err != nil {
		return Rank{}, err
	}

	return h.GetRank(), nil
}

// GetHand will return the best possible hand the cards can make
func (h *HandAnalyzer) GetHand() Hand {
	return h.rank.Hand
}

// GetRank returns the comparable rank of the best hand
func (h *HandAnalyzer) GetRank() Rank {
	return h.rank
}

// GetBestCards returns the five cards that make the best hand
// The cards that define the hand come first, followed by kickers
func (h *HandAnalyzer) GetBestCards() deck.Hand {
	return h.best.Clone()
}

// combinations calls fn with every k-sized, ascending index set out of n
func combinations(n, k int, fn func(idx []int)) {
	idx := make([]int, k)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == k {
			fn(idx)
			return
		}

		for i := start; i <= n-(k-depth); i++ {
			idx[depth] = i
			rec(i+1, depth+1)
		}
	}

	rec(0, 0)
}

type rankGroup struct {
	rank  int
	cards deck.Hand
}

// analyzeFive ranks exactly five cards which must be sorted high to low
func analyzeFive(five [handSize]*deck.Card) (Rank, deck.Hand) {
	var ranks [handSize]int
	isFlush := true
	for i, card := range five {
		ranks[i] = card.Rank
		if card.Suit != five[0].Suit {
			isFlush = false
		}
	}

	if high := straightHigh(ranks); high > 0 {
		best := straightOrder(five, high)
		if isFlush {
			if high == deck.Ace {
				return Rank{Hand: RoyalFlush, Kickers: []int{}}, best
			}

			return Rank{Hand: StraightFlush, Kickers: []int{high}}, best
		}

		return Rank{Hand: Straight, Kickers: []int{high}}, best
	}

	groups := groupByRank(five)
	kickers := make([]int, len(groups))
	best := make(deck.Hand, 0, handSize)
	for i, g := range groups {
		kickers[i] = g.rank
		best = append(best, g.cards...)
	}

	var hand Hand
	switch {
	case len(groups[0].cards) == 4:
		hand = FourOfAKind
	case len(groups[0].cards) == 3 && len(groups[1].cards) == 2:
		hand = FullHouse
	case isFlush:
		hand = Flush
	case len(groups[0].cards) == 3:
		hand = ThreeOfAKind
	case len(groups[0].cards) == 2 && len(groups[1].cards) == 2:
		hand = TwoPair
	case len(groups[0].cards) == 2:
		hand = OnePair
	default:
		hand = HighCard
	}

	return Rank{Hand: hand, Kickers: kickers}, best
}

// groupByRank groups cards of equal rank, largest group first, then highest rank first
func groupByRank(five [handSize]*deck.Card) []*rankGroup {
	groups := make([]*rankGroup, 0, handSize)
	for _, card := range five {
		n := len(groups)
		if n > 0 && groups[n-1].rank == card.Rank {
			groups[n-1].cards = append(groups[n-1].cards, card)
			continue
		}

		groups = append(groups, &rankGroup{rank: card.Rank, cards: deck.Hand{card}})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].cards) != len(groups[j].cards) {
			return len(groups[i].cards) > len(groups[j].cards)
		}

		return groups[i].rank > groups[j].rank
	})

	return groups
}

// straightOrder returns the straight from its high card down, so the wheel ends with the ace
func straightOrder(five [handSize]*deck.Card, high int) deck.Hand {
	best := make(deck.Hand, 0, handSize)
	if high == 5 {
		best = append(best, five[1:]...)
		return append(best, five[0])
	}

	return append(best, five[:]...)
}
