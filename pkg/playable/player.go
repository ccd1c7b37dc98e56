package playable

// Player is a player in a playable game
type Player interface {
	GetPlayerID() int64
	// GetTableStake is the number of chips the player brings to the game
	GetTableStake() int
}
