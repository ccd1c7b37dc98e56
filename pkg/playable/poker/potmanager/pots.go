package potmanager

import "encoding/json"

// Pot is an amount and the participants who can win it
type Pot struct {
	Amount int
	// Eligible is in seat order, starting left of the dealer
	Eligible []int64
}

type potJSON struct {
	Amount   int     `json:"amount"`
	Eligible []int64 `json:"eligible"`
}

// MarshalJSON provides custom marshalling
func (p Pot) MarshalJSON() ([]byte, error) {
	eligible := p.Eligible
	if eligible == nil {
		eligible = []int64{}
	}

	return json.Marshal(potJSON{
		Amount:   p.Amount,
		Eligible: eligible,
	})
}

// IsEligible returns true if the participant can win the pot
func (p *Pot) IsEligible(id int64) bool {
	for _, e := range p.Eligible {
		if e == id {
			return true
		}
	}

	return false
}

// Pots is an ordered list of pots, main pot first
type Pots []*Pot

// Total returns the combined total of all pots
func (p Pots) Total() int {
	total := 0
	for _, pot := range p {
		total += pot.Amount
	}

	return total
}
