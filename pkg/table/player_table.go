package table

import "time"

// PlayerTable is a player's seat at a table
type PlayerTable struct {
	PlayerID  int64     `json:"playerId"`
	TableUUID string    `json:"tableUuid"`
	Seat      int       `json:"seat"`
	Active    bool      `json:"active"`
	Created   time.Time `json:"created"`
}

// Seat is a player dealt into a hand
type Seat struct {
	PlayerID int64 `json:"playerId"`
	// Position is the seat number at the table
	Position int `json:"position"`
	Stack    int `json:"stack"`
}

// GetPlayerID returns the player ID
func (s Seat) GetPlayerID() int64 {
	return s.PlayerID
}

// GetTableStake returns the chips the player brings into the hand
func (s Seat) GetTableStake() int {
	return s.Stack
}
