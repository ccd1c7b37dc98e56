package potmanager

import (
	"errors"
	"fmt"

	"holdem-engine/pkg/playable/poker/handanalyzer"
)

// ErrMissingRank is returned when a contested pot has an eligible participant without a hand
var ErrMissingRank = errors.New("eligible participant has no hand")

// Award is the outcome of a single pot
type Award struct {
	Pot     int                `json:"pot"`
	Amount  int                `json:"amount"`
	Winners []int64            `json:"winners"`
	Shares  map[int64]int      `json:"shares"`
	Rank    *handanalyzer.Rank `json:"rank,omitempty"`
}

// Resolution is the outcome of a showdown
type Resolution struct {
	Awards  []*Award      `json:"awards"`
	Payouts map[int64]int `json:"payouts"`
}

// Resolve awards each pot to the best eligible hand
// Tied winners split the pot, and the odd chips go to the first winner in order
// A pot with a single eligible participant is awarded without looking at ranks
func Resolve(pots Pots, ranks map[int64]handanalyzer.Rank, order []int64) (*Resolution, error) {
	position := make(map[int64]int, len(order))
	for i, id := range order {
		position[id] = i
	}

	wm := NewWinManager()
	for _, id := range order {
		if rank, ok := ranks[id]; ok {
			wm.AddParticipant(id, rank)
		}
	}
	tiers := wm.GetSortedTiers()

	res := &Resolution{
		Awards:  make([]*Award, 0, len(pots)),
		Payouts: make(map[int64]int),
	}

	for i, pot := range pots {
		award := &Award{
			Pot:    i,
			Amount: pot.Amount,
			Shares: make(map[int64]int),
		}

		switch len(pot.Eligible) {
		case 0:
			return nil, ErrNoEligiblePlayers
		case 1:
			award.Winners = []int64{pot.Eligible[0]}
		default:
			for _, id := range pot.Eligible {
				if _, ok := ranks[id]; !ok {
					return nil, fmt.Errorf("%w: participant %d in pot %d", ErrMissingRank, id, i)
				}
			}

			for _, t := range tiers {
				for _, id := range t {
					if pot.IsEligible(id) {
						award.Winners = append(award.Winners, id)
					}
				}

				if len(award.Winners) > 0 {
					rank := ranks[award.Winners[0]]
					award.Rank = &rank
					break
				}
			}
		}

		if len(award.Winners) == 0 {
			// eligible participants that are not seated never enter a tier
			return nil, fmt.Errorf("%w: pot %d", ErrMissingRank, i)
		}

		sortByPosition(award.Winners, position)

		n := len(award.Winners)
		share := pot.Amount / n
		for _, id := range award.Winners {
			award.Shares[id] = share
		}
		award.Shares[award.Winners[0]] += pot.Amount % n

		for id, amount := range award.Shares {
			res.Payouts[id] += amount
		}

		res.Awards = append(res.Awards, award)
	}

	return res, nil
}

// sortByPosition is an insertion sort, winner lists are tiny
func sortByPosition(ids []int64, position map[int64]int) {
	pos := func(id int64) int {
		if p, ok := position[id]; ok {
			return p
		}

		return len(position)
	}

	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && pos(ids[j]) < pos(ids[j-1]); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
