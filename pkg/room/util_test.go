package room

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"holdem-engine/internal/rng"
	"holdem-engine/pkg/ledger"
	"holdem-engine/pkg/playable/poker/betting"
	"holdem-engine/pkg/playable/poker/texasholdem"
	"holdem-engine/pkg/room/gamefactory"
	"holdem-engine/pkg/table"

	"github.com/sirupsen/logrus"
)

var cbg = context.Background()

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testOptions() texasholdem.Options {
	return texasholdem.Options{
		SmallBlind:  25,
		BigBlind:    50,
		StackPolicy: betting.ConvertToAllIn,
	}
}

// setupDealer seats players firstID, firstID+1, ... with the stacks
func setupDealer(t *testing.T, l ledger.Ledger, firstID int64, stacks ...int) *Dealer {
	t.Helper()

	tbl, err := table.New("Test Table", 9, l)
	if err != nil {
		t.Fatal(err)
	}

	for i, stack := range stacks {
		id := firstID + int64(i)
		if err := l.Credit(cbg, id, stack, "deposit"); err != nil {
			t.Fatal(err)
		}

		if _, err := tbl.Sit(cbg, id); err != nil {
			t.Fatal(err)
		}
	}

	return NewDealer(testLogger(), tbl, l, gamefactory.NewTexasHoldEm(testOptions()), rng.NewSeeded(firstID))
}

// tickToTurn ticks until a player has to act
func tickToTurn(t *testing.T, d *Dealer) *Turn {
	t.Helper()

	for i := 0; i < 10; i++ {
		if turn := d.Turn(); turn != nil {
			return turn
		}

		if _, err := d.Tick(cbg); err != nil {
			t.Fatal(err)
		}
	}

	t.Fatal("no player was asked to act")
	return nil
}

func balance(t *testing.T, l ledger.Ledger, id int64) int {
	t.Helper()

	b, err := l.Balance(cbg, id)
	if err != nil {
		t.Fatal(err)
	}

	return b
}

var errLedgerDown = errors.New("ledger is down")

// flakyLedger fails every credit while down
type flakyLedger struct {
	*ledger.Memory

	mu   sync.Mutex
	down bool
}

func (f *flakyLedger) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *flakyLedger) Credit(ctx context.Context, playerID int64, amount int, reason string) error {
	f.mu.Lock()
	down := f.down
	f.mu.Unlock()

	if down {
		return errLedgerDown
	}

	return f.Memory.Credit(ctx, playerID, amount, reason)
}
