package room

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"holdem-engine/internal/rng"
	"holdem-engine/pkg/ledger"
	"holdem-engine/pkg/playable"
	"holdem-engine/pkg/playable/poker"
	"holdem-engine/pkg/playable/poker/action"
	"holdem-engine/pkg/playable/poker/betting"
	"holdem-engine/pkg/playable/poker/texasholdem"
	"holdem-engine/pkg/room/gamefactory"
	"holdem-engine/pkg/table"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrHandInProgress is returned when a hand is started before the last one ended
var ErrHandInProgress = errors.New("a hand is already in progress")

// ErrNotEnoughPlayers is returned when fewer than two seated players have chips
var ErrNotEnoughPlayers = errors.New("at least two players with chips are needed to start a hand")

// ErrPendingSettlement is returned when the last hand still owes chips to the ledger
var ErrPendingSettlement = errors.New("the last hand has not been settled")

var errNoHand = betting.ParticipantError{Kind: betting.ErrGameNotInProgress, Message: "there is no hand in progress"}

// hand is a game the dealer can run and settle
type hand interface {
	playable.Playable
	playable.Tickable
	ID() uuid.UUID
	Abort() error
	Contributions() map[int64]int
	GetCurrentTurn() (*texasholdem.Participant, error)
	ActionsForParticipant(id int64) []action.Action
	PokerState(id int64) *poker.State
}

// Turn is the decision the dealer is waiting on
type Turn struct {
	PlayerID int64           `json:"playerId"`
	Actions  []action.Action `json:"actions"`
	State    *poker.State    `json:"state"`
}

// Dealer runs the hands at a table
// Every call that touches the hand holds the table's lock, so actions, ticks and aborts are serialized
type Dealer struct {
	logger  logrus.FieldLogger
	table   *table.Table
	ledger  ledger.Ledger
	factory gamefactory.GameFactory
	gen     rng.Generator

	mu   sync.Mutex
	game hand
	// debited is what the ledger has been charged for the current hand
	debited map[int64]int
	// pending are settlements the ledger has not accepted yet, negative amounts are owed by the player
	pending     map[int64]int
	button      int
	hands       int
	logMessages []*playable.LogMessage
	lastHand    *playable.GameOverDetails

	interval  time.Duration
	close     chan bool
	closeOnce sync.Once
}

// NewDealer creates a new dealer object
func NewDealer(logger logrus.FieldLogger, tbl *table.Table, l ledger.Ledger, factory gamefactory.GameFactory, gen rng.Generator) *Dealer {
	return &Dealer{
		logger: logger.WithFields(logrus.Fields{
			"table": tbl.UUID,
			"name":  tbl.Name,
		}),
		table:    tbl,
		ledger:   l,
		factory:  factory,
		gen:      gen,
		pending:  make(map[int64]int),
		button:   -1,
		interval: time.Second,
		close:    make(chan bool),
	}
}

// Table returns the table the dealer is running
func (d *Dealer) Table() *table.Table {
	return d.table
}

// StartHand deals a new hand to the seated players
// The button moves to the next seat with chips
func (d *Dealer) StartHand(ctx context.Context, additionalData playable.AdditionalData) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.game != nil {
		return ErrHandInProgress
	}

	if err := d.flushPending(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrPendingSettlement, err)
	}

	seats, err := d.table.Seats(ctx)
	if err != nil {
		return err
	}

	if len(seats) < 2 {
		return ErrNotEnoughPlayers
	}

	dealerIndex := nextButton(seats, d.button)
	players := make([]playable.Player, len(seats))
	for i, seat := range seats {
		players[i] = seat
	}

	game, err := d.factory.CreateGame(d.logger, players, dealerIndex, d.gen, additionalData)
	if err != nil {
		return err
	}

	h, ok := game.(hand)
	if !ok {
		return fmt.Errorf("%s cannot be dealt by this dealer", game.Name())
	}

	d.game = h
	d.debited = make(map[int64]int, len(seats))
	d.button = seats[dealerIndex].Position

	d.logger.WithFields(logrus.Fields{
		"hand":   h.ID().String(),
		"dealer": seats[dealerIndex].PlayerID,
	}).Info("hand started")

	// the blinds are already in
	d.afterMutation(ctx)
	return nil
}

// nextButton returns the index of the first seat after the last button
func nextButton(seats []table.Seat, lastPosition int) int {
	for i, seat := range seats {
		if seat.Position > lastPosition {
			return i
		}
	}

	return 0
}

// Action performs a player action on the current hand
func (d *Dealer) Action(ctx context.Context, playerID int64, msg *playable.PayloadIn) (*playable.Response, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.game == nil {
		return nil, errNoHand
	}

	res, _, err := d.game.Action(playerID, msg)
	if err != nil {
		return nil, err
	}

	d.afterMutation(ctx)
	return res, nil
}

// Tick advances the current hand, or retries the settlement of the last one
// An error means the hand was aborted and refunded
func (d *Dealer) Tick(ctx context.Context) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.game == nil {
		if len(d.pending) > 0 {
			if err := d.flushPending(ctx); err != nil {
				d.logger.WithError(err).Warn("settlement is still pending")
			}
		}

		return false, nil
	}

	updated, err := d.game.Tick()
	if err != nil {
		d.logger.WithError(err).Error("hand could not continue")
	}

	d.afterMutation(ctx)
	return updated, err
}

// Abort stops the current hand between streets and refunds every bet
func (d *Dealer) Abort(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.game == nil {
		return errNoHand
	}

	if err := d.game.Abort(); err != nil {
		return err
	}

	d.afterMutation(ctx)
	return nil
}

// Turn returns the decision the hand is waiting on
// nil is returned between streets or when there is no hand
func (d *Dealer) Turn() *Turn {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.game == nil {
		return nil
	}

	p, err := d.game.GetCurrentTurn()
	if err != nil || p == nil {
		return nil
	}

	return &Turn{
		PlayerID: p.PlayerID,
		Actions:  d.game.ActionsForParticipant(p.PlayerID),
		State:    d.game.PokerState(p.PlayerID),
	}
}

// PlayerState returns the current state of the hand for the player
func (d *Dealer) PlayerState(playerID int64) (*playable.Response, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.game == nil {
		return nil, errNoHand
	}

	return d.game.GetPlayerState(playerID)
}

// InHand returns true if a hand is being played
func (d *Dealer) InHand() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.game != nil
}

// Hands returns the number of hands that have been settled
func (d *Dealer) Hands() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.hands
}

// LastHand returns the details of the last settled hand
func (d *Dealer) LastHand() *playable.GameOverDetails {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.lastHand
}

// Pending returns the settlements the ledger has not accepted yet
func (d *Dealer) Pending() map[int64]int {
	d.mu.Lock()
	defer d.mu.Unlock()

	pending := make(map[int64]int, len(d.pending))
	for id, amount := range d.pending {
		pending[id] = amount
	}

	return pending
}

// afterMutation moves chips to the ledger after the hand changed
// NOTE: the lock must be held
func (d *Dealer) afterMutation(ctx context.Context) {
	d.drainLogs()

	if details, isOver := d.game.GetEndOfGameDetails(); isOver {
		d.settle(ctx, details)
		return
	}

	if err := d.sync(ctx); err != nil {
		d.logger.WithError(err).Error("could not debit the ledger, will retry")
	}
}

// sync charges the ledger for anything put into the pot since the last call
func (d *Dealer) sync(ctx context.Context) error {
	contributions := d.game.Contributions()
	for _, id := range sortedIDs(contributions) {
		owed := contributions[id] - d.debited[id]
		if owed <= 0 {
			continue
		}

		if err := d.ledger.Debit(ctx, id, owed, d.reason()); err != nil {
			return fmt.Errorf("could not debit player %d: %w", id, err)
		}

		d.debited[id] += owed
	}

	return nil
}

// settle turns the end of the hand into ledger entries
// Contributions the ledger has not been charged for are netted against the payouts
// An aborted hand only refunds what was charged
func (d *Dealer) settle(ctx context.Context, details *playable.GameOverDetails) {
	ids := make(map[int64]int, len(details.Contributions))
	for id := range details.Contributions {
		ids[id] = 0
	}
	for id := range details.Payouts {
		ids[id] = 0
	}

	for id := range ids {
		var amount int
		if details.Aborted {
			amount = d.debited[id]
		} else {
			outstanding := details.Contributions[id] - d.debited[id]
			amount = details.Payouts[id] - outstanding
		}

		d.pending[id] += amount
		if d.pending[id] == 0 {
			delete(d.pending, id)
		}
	}

	d.logger.WithFields(logrus.Fields{
		"hand":    d.game.ID().String(),
		"aborted": details.Aborted,
		"payouts": details.Payouts,
		"busted":  details.Busted,
	}).Info("hand settled")

	d.lastHand = details
	d.hands++
	d.game = nil
	d.debited = nil

	if err := d.flushPending(ctx); err != nil {
		d.logger.WithError(err).Warn("could not settle the hand, will retry")
	}
}

// flushPending applies the pending settlements, keeping any the ledger rejects
func (d *Dealer) flushPending(ctx context.Context) error {
	var firstErr error
	for _, id := range sortedIDs(d.pending) {
		amount := d.pending[id]

		var err error
		if amount > 0 {
			err = d.ledger.Credit(ctx, id, amount, "settlement")
		} else {
			err = d.ledger.Debit(ctx, id, -amount, "settlement")
		}

		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("could not settle ${%d} for player %d: %w", amount, id, err)
			}

			continue
		}

		delete(d.pending, id)
	}

	return firstErr
}

func (d *Dealer) reason() string {
	return fmt.Sprintf("hand %s", d.game.ID())
}

// drainLogs reads every log message the hand has sent
func (d *Dealer) drainLogs() {
	logChan := d.game.LogChan()
	for {
		select {
		case messages := <-logChan:
			d.addLogMessages(messages)
		default:
			return
		}
	}
}

// StartShift ticks the table until the context is done or EndShift is called
func (d *Dealer) StartShift(ctx context.Context) {
	go d.runLoop(ctx)
}

func (d *Dealer) runLoop(ctx context.Context) {
	d.logger.Debug("creating dealer run loop")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := d.Tick(ctx); err != nil {
				d.logger.WithError(err).Error("tick failed")
			}
		case <-ctx.Done():
			d.logger.Debug("terminating dealer run loop")
			return
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	d.closeOnce.Do(func() {
		close(d.close)
	})
}

func sortedIDs(m map[int64]int) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})

	return ids
}
