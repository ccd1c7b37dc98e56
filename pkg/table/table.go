package table

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"holdem-engine/pkg/ledger"

	"github.com/google/uuid"
)

// ErrPlayerNotAtTable happens when user is not a member of the table
var ErrPlayerNotAtTable = errors.New("player is not a member of the table")

// Roster provides the players for the next hand
type Roster interface {
	Seats(ctx context.Context) ([]Seat, error)
}

// Table represents a poker table
// Stacks are not stored at the table, they are the players' ledger balances
type Table struct {
	UUID     string    `json:"uuid"`
	Name     string    `json:"name"`
	MaxSeats int       `json:"maxSeats"`
	Created  time.Time `json:"created"`

	ledger ledger.Ledger

	mu      sync.Mutex
	players []*PlayerTable
}

// New returns an empty table
func New(name string, maxSeats int, l ledger.Ledger) (*Table, error) {
	if maxSeats < 2 {
		return nil, errors.New("a table needs at least two seats")
	}

	if name == "" {
		return nil, errors.New("a table needs a name")
	}

	return &Table{
		UUID:     uuid.New().String(),
		Name:     name,
		MaxSeats: maxSeats,
		Created:  time.Now(),
		ledger:   l,
		players:  make([]*PlayerTable, 0, maxSeats),
	}, nil
}

// Sit will seat the player at the next open seat
func (t *Table) Sit(ctx context.Context, playerID int64) (*PlayerTable, error) {
	balance, err := t.ledger.Balance(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if balance <= 0 {
		return nil, UserError("you need chips to sit at the table")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.indexOf(playerID) >= 0 {
		return nil, UserError("you are already seated at the table")
	}

	if len(t.players) >= t.MaxSeats {
		return nil, UserError("the table is full")
	}

	pt := &PlayerTable{
		PlayerID:  playerID,
		TableUUID: t.UUID,
		Seat:      t.openSeat(),
		Active:    true,
		Created:   time.Now(),
	}

	t.players = append(t.players, pt)
	sort.Slice(t.players, func(i, j int) bool {
		return t.players[i].Seat < t.players[j].Seat
	})

	cp := *pt
	return &cp, nil
}

// openSeat returns the lowest seat number nobody is sitting in
func (t *Table) openSeat() int {
	taken := make(map[int]bool, len(t.players))
	for _, p := range t.players {
		taken[p.Seat] = true
	}

	seat := 0
	for taken[seat] {
		seat++
	}

	return seat
}

// Leave removes the player from the table
// A hand already in progress is not affected
func (t *Table) Leave(playerID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(playerID)
	if i < 0 {
		return ErrPlayerNotAtTable
	}

	t.players = append(t.players[:i], t.players[i+1:]...)
	return nil
}

// SetActive sits the player in or out of future hands
func (t *Table) SetActive(playerID int64, active bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(playerID)
	if i < 0 {
		return ErrPlayerNotAtTable
	}

	t.players[i].Active = active
	return nil
}

// GetPlayers returns all players at the table in seat order
func (t *Table) GetPlayers() []*PlayerTable {
	t.mu.Lock()
	defer t.mu.Unlock()

	players := make([]*PlayerTable, len(t.players))
	for i, p := range t.players {
		cp := *p
		players[i] = &cp
	}

	return players
}

// Seats returns the active players with chips, in seat order
// Each stack is the player's ledger balance
func (t *Table) Seats(ctx context.Context) ([]Seat, error) {
	players := t.GetPlayers()

	seats := make([]Seat, 0, len(players))
	for _, p := range players {
		if !p.Active {
			continue
		}

		balance, err := t.ledger.Balance(ctx, p.PlayerID)
		if err != nil {
			return nil, err
		}

		// busted players cannot be dealt in until they are funded again
		if balance <= 0 {
			continue
		}

		seats = append(seats, Seat{
			PlayerID: p.PlayerID,
			Position: p.Seat,
			Stack:    balance,
		})
	}

	return seats, nil
}

func (t *Table) indexOf(playerID int64) int {
	for i, p := range t.players {
		if p.PlayerID == playerID {
			return i
		}
	}

	return -1
}
