package ledger

import (
	"context"
	"errors"
	"time"
)

// ErrInsufficientFunds is returned when a debit exceeds the balance
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidAmount is returned for a zero or negative amount
var ErrInvalidAmount = errors.New("amount must be greater than zero")

// Ledger holds the chips each player has outside of a hand
// Implementations must be safe for concurrent use
type Ledger interface {
	Debit(ctx context.Context, playerID int64, amount int, reason string) error
	Credit(ctx context.Context, playerID int64, amount int, reason string) error
	Balance(ctx context.Context, playerID int64) (int, error)
}

// Entry is a single change to a balance
// Debits have a negative amount
type Entry struct {
	PlayerID int64     `json:"playerId"`
	Amount   int       `json:"amount"`
	Reason   string    `json:"reason"`
	Created  time.Time `json:"created"`
}

func checkAmount(amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	return nil
}
