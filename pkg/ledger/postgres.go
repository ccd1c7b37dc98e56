package ledger

import (
	"context"
	"database/sql"

	"holdem-engine/pkg/db"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// raised by the balances CHECK constraint
const pqCheckViolationErrorCode pq.ErrorCode = "23514"

// Postgres is a ledger backed by the balances and ledger_entries tables
type Postgres struct {
	db     *sql.DB
	logger logrus.FieldLogger
}

// NewPostgres returns a ledger using the database handle
// The schema in sql/ must already be migrated
func NewPostgres(logger logrus.FieldLogger, dbh *sql.DB) *Postgres {
	return &Postgres{
		db:     dbh,
		logger: logger,
	}
}

// Debit removes chips from the player's balance
func (p *Postgres) Debit(ctx context.Context, playerID int64, amount int, reason string) error {
	if err := checkAmount(amount); err != nil {
		return err
	}

	return p.adjust(ctx, playerID, -amount, reason)
}

// Credit adds chips to the player's balance
func (p *Postgres) Credit(ctx context.Context, playerID int64, amount int, reason string) error {
	if err := checkAmount(amount); err != nil {
		return err
	}

	return p.adjust(ctx, playerID, amount, reason)
}

func (p *Postgres) adjust(ctx context.Context, playerID int64, amount int, reason string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	var balance int
	row := tx.QueryRowContext(ctx, "SELECT adjust_balance($1, $2, $3)", playerID, amount, reason)
	if err := row.Scan(&balance); err != nil {
		p.rollback(tx)

		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqCheckViolationErrorCode {
			return ErrInsufficientFunds
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"player":  playerID,
		"amount":  amount,
		"balance": balance,
	}).Debug(reason)

	return nil
}

func (p *Postgres) rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		p.logger.WithError(err).Error("could not rollback transaction")
	}
}

// Balance returns the player's balance
// An unknown player has a balance of zero
func (p *Postgres) Balance(ctx context.Context, playerID int64) (int, error) {
	const query = `
SELECT balance
FROM balances
WHERE player_id = $1`

	var balance int
	if err := p.db.QueryRowContext(ctx, query, playerID).Scan(&balance); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}

		return 0, err
	}

	return balance, nil
}

// Entries returns the player's entries, oldest first
func (p *Postgres) Entries(ctx context.Context, playerID int64) ([]Entry, error) {
	const query = `
SELECT player_id, amount, reason, created
FROM ledger_entries
WHERE player_id = $1
ORDER BY id`

	rows, err := p.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		e, err := entryByRow(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func entryByRow(row db.Scanner) (Entry, error) {
	var e Entry
	if err := row.Scan(&e.PlayerID, &e.Amount, &e.Reason, &e.Created); err != nil {
		return Entry{}, err
	}

	return e, nil
}
