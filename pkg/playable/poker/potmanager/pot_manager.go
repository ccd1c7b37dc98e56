package potmanager

import (
	"errors"
	"fmt"
	"sort"
)

// ErrPotMismatch is returned when the pots do not add up to the contributions
var ErrPotMismatch = errors.New("pots do not match the contributions")

// ErrNoEligiblePlayers is returned when chips were contributed but every player folded
var ErrNoEligiblePlayers = errors.New("no player is eligible for the pot")

// ErrParticipantNotFound is an error when a participant with a provided ID cannot be found
var ErrParticipantNotFound = errors.New("participant not found")

// PotManager keeps track of what each participant contributed to the hand
// Pots are derived from the contributions, so folding or going all-in never moves chips between pots
type PotManager struct {
	// order is the seat order, starting left of the dealer
	order         []int64
	contributions map[int64]int
	folded        map[int64]bool
}

// New instantiates a new PotManager for the participants in seat order
func New(order []int64) *PotManager {
	o := make([]int64, len(order))
	copy(o, order)

	contributions := make(map[int64]int, len(order))
	for _, id := range order {
		contributions[id] = 0
	}

	return &PotManager{
		order:         o,
		contributions: contributions,
		folded:        make(map[int64]bool),
	}
}

// Contribute adds chips the participant put in
func (p *PotManager) Contribute(id int64, amount int) error {
	if amount < 0 {
		return fmt.Errorf("cannot contribute a negative amount: %d", amount)
	}

	if _, ok := p.contributions[id]; !ok {
		return ErrParticipantNotFound
	}

	p.contributions[id] += amount
	return nil
}

// Fold removes the participant from eligibility, their chips stay in the pots
func (p *PotManager) Fold(id int64) error {
	if _, ok := p.contributions[id]; !ok {
		return ErrParticipantNotFound
	}

	p.folded[id] = true
	return nil
}

// IsFolded returns true if the participant folded
func (p *PotManager) IsFolded(id int64) bool {
	return p.folded[id]
}

// Contribution returns the total the participant put in
func (p *PotManager) Contribution(id int64) int {
	return p.contributions[id]
}

// Contributions returns a copy of every participant's contribution
func (p *PotManager) Contributions() map[int64]int {
	c := make(map[int64]int, len(p.contributions))
	for id, amount := range p.contributions {
		c[id] = amount
	}

	return c
}

// Total returns the sum of all contributions
func (p *PotManager) Total() int {
	total := 0
	for _, amount := range p.contributions {
		total += amount
	}

	return total
}

// Order returns the seat order
func (p *PotManager) Order() []int64 {
	o := make([]int64, len(p.order))
	copy(o, p.order)
	return o
}

// Pots partitions the contributions into the main pot and side pots
// Each distinct contribution level closes a pot that only the players who reached the level can win
func (p *PotManager) Pots() (Pots, error) {
	levels := make([]int, 0, len(p.contributions))
	seen := make(map[int]bool)
	for _, amount := range p.contributions {
		if amount > 0 && !seen[amount] {
			seen[amount] = true
			levels = append(levels, amount)
		}
	}
	sort.Ints(levels)

	pots := make(Pots, 0, len(levels))
	prev := 0
	for _, level := range levels {
		amount := 0
		eligible := make([]int64, 0, len(p.order))
		for _, id := range p.order {
			c := p.contributions[id]
			amount += minInt(c, level) - minInt(c, prev)

			if c >= level && !p.folded[id] {
				eligible = append(eligible, id)
			}
		}
		prev = level

		var last *Pot
		if n := len(pots); n > 0 {
			last = pots[n-1]
		}

		switch {
		case len(eligible) == 0:
			// everyone at this level folded, so the chips go to the pot below
			if last == nil {
				return nil, ErrNoEligiblePlayers
			}

			last.Amount += amount
		case last != nil && sameIDs(last.Eligible, eligible):
			last.Amount += amount
		default:
			pots = append(pots, &Pot{Amount: amount, Eligible: eligible})
		}
	}

	if total := p.Total(); pots.Total() != total {
		return nil, fmt.Errorf("%w: pots have ${%d}, contributions are ${%d}", ErrPotMismatch, pots.Total(), total)
	}

	return pots, nil
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
