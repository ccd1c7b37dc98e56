package ledger

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-memory ledger for tests and simulations
type Memory struct {
	mu       sync.Mutex
	balances map[int64]int
	entries  []Entry
	clock    func() time.Time
}

// NewMemory returns an empty ledger
func NewMemory() *Memory {
	return &Memory{
		balances: make(map[int64]int),
		entries:  make([]Entry, 0),
		clock:    time.Now,
	}
}

// Debit removes chips from the player's balance
func (m *Memory) Debit(ctx context.Context, playerID int64, amount int, reason string) error {
	if err := checkAmount(amount); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.balances[playerID] < amount {
		return ErrInsufficientFunds
	}

	m.adjust(playerID, -amount, reason)
	return nil
}

// Credit adds chips to the player's balance
func (m *Memory) Credit(ctx context.Context, playerID int64, amount int, reason string) error {
	if err := checkAmount(amount); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.adjust(playerID, amount, reason)
	return nil
}

func (m *Memory) adjust(playerID int64, amount int, reason string) {
	m.balances[playerID] += amount
	m.entries = append(m.entries, Entry{
		PlayerID: playerID,
		Amount:   amount,
		Reason:   reason,
		Created:  m.clock(),
	})
}

// Balance returns the player's balance
// An unknown player has a balance of zero
func (m *Memory) Balance(ctx context.Context, playerID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.balances[playerID], nil
}

// Entries returns the player's entries, oldest first
func (m *Memory) Entries(playerID int64) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]Entry, 0)
	for _, e := range m.entries {
		if e.PlayerID == playerID {
			entries = append(entries, e)
		}
	}

	return entries
}

// Total returns the sum of every balance
func (m *Memory) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, balance := range m.balances {
		total += balance
	}

	return total
}
