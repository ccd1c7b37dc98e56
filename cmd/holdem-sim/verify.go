package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"holdem-engine/pkg/deck"
	"holdem-engine/pkg/playable"

	"github.com/paulhankin/poker"
)

// handLog is the part of the end of hand log needed to check the showdown
type handLog struct {
	HandID       string `json:"handId"`
	Participants []struct {
		PlayerID int64       `json:"playerId"`
		Cards    []deck.Card `json:"cards"`
		Folded   bool        `json:"folded"`
	} `json:"participants"`
	Community []deck.Card `json:"community"`
	Pots      []struct {
		Amount   int     `json:"amount"`
		Eligible []int64 `json:"eligible"`
	} `json:"pots"`
	Awards []struct {
		Pot     int     `json:"pot"`
		Winners []int64 `json:"winners"`
	} `json:"awards"`
}

// verifier re-judges every contested pot with paulhankin/poker
type verifier struct {
	mu    sync.Mutex
	count int
}

func newVerifier() *verifier {
	return &verifier{}
}

func (v *verifier) showdowns() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.count
}

func (v *verifier) check(details *playable.GameOverDetails) error {
	if details.Aborted {
		return nil
	}

	b, err := json.Marshal(details.Log)
	if err != nil {
		return err
	}

	var log handLog
	if err := json.Unmarshal(b, &log); err != nil {
		return err
	}

	scores := make(map[int64]int16)
	for _, p := range log.Participants {
		if p.Folded || len(p.Cards) != 2 || len(log.Community) != 5 {
			continue
		}

		var seven [7]poker.Card
		for i, c := range append(p.Cards, log.Community...) {
			card, err := toPaulhankin(c)
			if err != nil {
				return err
			}

			seven[i] = card
		}

		scores[p.PlayerID] = poker.Eval7(&seven)
	}

	for _, award := range log.Awards {
		if award.Pot >= len(log.Pots) {
			return fmt.Errorf("hand %s: award for unknown pot %d", log.HandID, award.Pot)
		}

		eligible := log.Pots[award.Pot].Eligible
		if len(eligible) < 2 {
			continue
		}

		var best int16
		expected := make([]int64, 0, len(eligible))
		for _, id := range eligible {
			score, ok := scores[id]
			if !ok {
				return fmt.Errorf("hand %s: player %d reached showdown without a hand", log.HandID, id)
			}

			switch {
			case len(expected) == 0 || score > best:
				best = score
				expected = append(expected[:0], id)
			case score == best:
				expected = append(expected, id)
			}
		}

		if !sameIDs(expected, award.Winners) {
			return fmt.Errorf("hand %s: pot %d went to %v, the reference evaluator picks %v", log.HandID, award.Pot, award.Winners, expected)
		}

		v.mu.Lock()
		v.count++
		v.mu.Unlock()
	}

	return nil
}

func toPaulhankin(c deck.Card) (poker.Card, error) {
	var s poker.Suit
	switch c.Suit {
	case deck.Clubs:
		s = poker.Club
	case deck.Diamonds:
		s = poker.Diamond
	case deck.Hearts:
		s = poker.Heart
	case deck.Spades:
		s = poker.Spade
	default:
		return 0, fmt.Errorf("unknown suit: %s", c.Suit)
	}

	return poker.MakeCard(s, poker.Rank(c.AceLowRank()))
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}

	a = append([]int64(nil), a...)
	b = append([]int64(nil), b...)
	sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
