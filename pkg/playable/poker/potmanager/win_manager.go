package potmanager

import (
	"sort"

	"holdem-engine/pkg/playable/poker/handanalyzer"
)

type tier struct {
	rank         handanalyzer.Rank
	participants []int64
}

// WinManager groups participants into tiers of equal hands
type WinManager struct {
	tiers []*tier
}

// NewWinManager returns an empty WinManager
func NewWinManager() *WinManager {
	return &WinManager{}
}

// AddParticipant adds the participant to the tier of their rank
// Participants within a tier keep the order they were added in
func (w *WinManager) AddParticipant(id int64, rank handanalyzer.Rank) {
	for _, t := range w.tiers {
		if t.rank.Equal(rank) {
			t.participants = append(t.participants, id)
			return
		}
	}

	w.tiers = append(w.tiers, &tier{
		rank:         rank,
		participants: []int64{id},
	})
}

// GetSortedTiers returns the participants grouped by hand, best hand first
func (w *WinManager) GetSortedTiers() [][]int64 {
	tiers := make([]*tier, len(w.tiers))
	copy(tiers, w.tiers)

	sort.Sort(sort.Reverse(sortByRank(tiers)))

	tieredParticipants := make([][]int64, len(tiers))
	for i, t := range tiers {
		tieredParticipants[i] = t.participants
	}

	return tieredParticipants
}

type sortByRank []*tier

func (s sortByRank) Len() int {
	return len(s)
}

func (s sortByRank) Less(i, j int) bool {
	return s[i].rank.Compare(s[j].rank) < 0
}

func (s sortByRank) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}
