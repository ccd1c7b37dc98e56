package handanalyzer

import (
	"encoding/json"
	"holdem-engine/pkg/deck"
	"strings"
)

// Rank is the comparable strength of a hand
// Two ranks are compared by category, then by the kickers in order
type Rank struct {
	Hand Hand
	// Kickers holds the ranks that break ties within the category, most significant first
	Kickers []int
}

// Compare returns -1 if r is weaker than o, 1 if r is stronger and 0 on a tie
func (r Rank) Compare(o Rank) int {
	if r.Hand != o.Hand {
		if r.Hand < o.Hand {
			return -1
		}

		return 1
	}

	for i := 0; i < len(r.Kickers) && i < len(o.Kickers); i++ {
		if r.Kickers[i] < o.Kickers[i] {
			return -1
		} else if r.Kickers[i] > o.Kickers[i] {
			return 1
		}
	}

	switch {
	case len(r.Kickers) < len(o.Kickers):
		return -1
	case len(r.Kickers) > len(o.Kickers):
		return 1
	}

	return 0
}

// Beats returns true if r is strictly stronger than o
func (r Rank) Beats(o Rank) bool {
	return r.Compare(o) > 0
}

// Equal returns true if the two ranks tie
func (r Rank) Equal(o Rank) bool {
	return r.Compare(o) == 0
}

// String returns a description such as "Full house: A-5"
func (r Rank) String() string {
	if len(r.Kickers) == 0 {
		return r.Hand.String()
	}

	ranks := make([]string, len(r.Kickers))
	for i, k := range r.Kickers {
		ranks[i] = deck.RankString(k)
	}

	return r.Hand.String() + ": " + strings.Join(ranks, "-")
}

// MarshalJSON encodes JSON
func (r Rank) MarshalJSON() ([]byte, error) {
	kickers := r.Kickers
	if kickers == nil {
		kickers = []int{}
	}

	return json.Marshal(struct {
		Hand        Hand   `json:"hand"`
		Kickers     []int  `json:"kickers"`
		Description string `json:"description"`
	}{
		Hand:        r.Hand,
		Kickers:     kickers,
		Description: r.String(),
	})
}
