package texasholdem

import (
	"testing"
	"time"

	"holdem-engine/internal/rng"
	"holdem-engine/pkg/deck"
	"holdem-engine/pkg/playable"
	"holdem-engine/pkg/playable/poker/action"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type testParticipant struct {
	id         int64
	tableStake int
}

func (t *testParticipant) GetPlayerID() int64 {
	return t.id
}

func (t *testParticipant) GetTableStake() int {
	return t.tableStake
}

func setupParticipants(tableStakes ...int) []playable.Player {
	p := make([]playable.Player, len(tableStakes))
	for i, ts := range tableStakes {
		p[i] = &testParticipant{
			id:         int64(i + 1),
			tableStake: ts,
		}
	}

	return p
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// setupNewGame seats players 1..n with the last player on the button, so player 1 is left of the dealer
func setupNewGame(opts Options, tableStakes ...int) (*Game, *testClock) {
	game, err := NewGame(logrus.StandardLogger(), setupParticipants(tableStakes...), len(tableStakes)-1, opts, rng.NewSeeded(1))
	if err != nil {
		panic(err)
	}

	clock := &testClock{now: time.Date(2021, 3, 1, 19, 0, 0, 0, time.UTC)}
	game.clock = clock.Now
	game.id = uuid.MustParse("0b9d1d3c-3c2a-4a61-9b39-4d4b3c1b7a11")

	return game, clock
}

// stackDeck replaces the shuffled deck, cards are dealt in the order given
func stackDeck(game *Game, cards string) {
	game.deck = &deck.Deck{Cards: deck.CardsFromString(cards)}
}

// dealToPreFlop deals the hole cards and opens the pre-flop betting
func dealToPreFlop(t *testing.T, game *Game) {
	t.Helper()

	assertTick(t, game)
	assertTickFromWaiting(t, game, DealerStatePreFlopBettingRound)
}

// dealStreet deals the next street once the betting closed
func dealNextStreet(t *testing.T, game *Game, deal DealerState, betting DealerState) {
	t.Helper()

	assertTickFromWaiting(t, game, deal)
	assertTick(t, game)
	assert.Equal(t, betting, game.dealerState)
}

// runToEnd ticks through any remaining streets and the showdown
func runToEnd(t *testing.T, game *Game) {
	t.Helper()

	for i := 0; i < 20 && !game.finished; i++ {
		if game.pendingDealerState != nil {
			game.pendingDealerState.After = game.clock()
		}

		_, err := game.Tick()
		assert.NoError(t, err)
	}

	assert.True(t, game.finished)
}

func assertAction(t *testing.T, game *Game, playerID int64, action action.Action, msgAndArgs ...interface{}) {
	t.Helper()
	assertActionAndAmount(t, game, playerID, action, 0, msgAndArgs...)
}

func assertActionAndAmount(t *testing.T, game *Game, playerID int64, action action.Action, amount int, msgAndArgs ...interface{}) {
	t.Helper()
	resp, update, err := game.Action(playerID, payload(action, amount))
	assert.NoError(t, err, msgAndArgs...)
	assert.Equal(t, playable.OK(), resp, msgAndArgs...)
	assert.True(t, update, msgAndArgs...)
}

func assertActionFailedAndAmount(t *testing.T, game *Game, playerID int64, action action.Action, amount int, expectedErr string, msgAndArgs ...interface{}) {
	t.Helper()
	resp, update, err := game.Action(playerID, payload(action, amount))
	assert.EqualError(t, err, expectedErr, msgAndArgs...)
	assert.Nil(t, resp, msgAndArgs...)
	assert.False(t, update, msgAndArgs...)
}

func assertActionFailed(t *testing.T, game *Game, playerID int64, action action.Action, expectedErr string, msgAndArgs ...interface{}) {
	t.Helper()
	assertActionFailedAndAmount(t, game, playerID, action, 0, expectedErr, msgAndArgs...)
}

func payload(action action.Action, amount ...int) *playable.PayloadIn {
	amt := 0
	if len(amount) == 1 {
		amt = amount[0]
	}

	return &playable.PayloadIn{
		Action: string(action),
		AdditionalData: playable.AdditionalData{
			"amount": float64(amt),
		},
	}
}

func assertTickFromWaiting(t *testing.T, game *Game, nextState DealerState, msgAndArgs ...interface{}) {
	t.Helper()

	assert.Equal(t, DealerStateWaiting, game.dealerState, msgAndArgs...)
	if !assert.NotNil(t, game.pendingDealerState, msgAndArgs...) {
		t.FailNow()
	}
	game.pendingDealerState.After = game.clock()

	assertTick(t, game, msgAndArgs...)
	assert.Equal(t, nextState, game.dealerState, msgAndArgs...)
}

func assertTick(t *testing.T, game *Game, msgAndArgs ...interface{}) {
	t.Helper()
	update, err := game.Tick()
	assert.NoError(t, err, msgAndArgs...)
	assert.True(t, update, msgAndArgs...)
}

func assertCurrentTurn(t *testing.T, game *Game, id int64) {
	t.Helper()

	turn, err := game.GetCurrentTurn()
	if assert.NoError(t, err) {
		assert.Equal(t, id, turn.PlayerID)
	}
}

// drainLogs returns every message sent so far
func drainLogs(game *Game) []string {
	messages := make([]string, 0)
	for {
		select {
		case logs := <-game.logChan:
			for _, l := range logs {
				messages = append(messages, l.Message)
			}
		default:
			return messages
		}
	}
}
