package poker

import (
	"holdem-engine/pkg/deck"
	"holdem-engine/pkg/playable/poker/potmanager"
)

// State provides the current state data for common poker values
// MinRaiseTo and MaxRaiseTo are street totals for the player the state was built for
type State struct {
	SmallBlind   int             `json:"smallBlind"`
	BigBlind     int             `json:"bigBlind"`
	CurrentBet   int             `json:"currentBet"`
	AmountToCall int             `json:"amountToCall"`
	MinRaiseTo   int             `json:"minRaiseTo"`
	MaxRaiseTo   int             `json:"maxRaiseTo"`
	Pots         potmanager.Pots `json:"pots"`
	Community    deck.Hand       `json:"community"`
}
