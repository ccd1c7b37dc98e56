package betting

import (
	"encoding/json"
	"fmt"
)

// Status is the betting status of a player in the hand
type Status int

// Status constants
const (
	StatusActive Status = iota
	StatusFolded
	StatusAllIn
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "all-in"
	}

	panic(fmt.Sprintf("unknown status: %d", s))
}

// MarshalJSON encodes the status
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Seat is a player and the stack they bring to the hand
type Seat struct {
	ID    int64
	Stack int
}

// Player is the betting view of a seat
type Player struct {
	ID        int64  `json:"id"`
	Stack     int    `json:"stack"`
	StreetBet int    `json:"streetBet"`
	HandBet   int    `json:"handBet"`
	Status    Status `json:"status"`

	// acted is true once the player acted since the last full raise
	acted bool
}

// IsActive returns true if the player can still make decisions
func (p *Player) IsActive() bool {
	return p.Status == StatusActive
}

// InHand returns true if the player has not folded
func (p *Player) InHand() bool {
	return p.Status != StatusFolded
}

// contribute moves chips from the stack into the bet
func (p *Player) contribute(amount int) {
	p.Stack -= amount
	p.StreetBet += amount
	p.HandBet += amount

	if p.Stack == 0 {
		p.Status = StatusAllIn
	}
}
