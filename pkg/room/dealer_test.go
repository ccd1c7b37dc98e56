package room

import (
	"errors"
	"testing"
	"time"

	"holdem-engine/internal/rng"
	"holdem-engine/pkg/ledger"
	"holdem-engine/pkg/playable"
	"holdem-engine/pkg/playable/poker/action"
	"holdem-engine/pkg/playable/poker/betting"
	"holdem-engine/pkg/playable/poker/texasholdem"
	"holdem-engine/pkg/room/gamefactory"
	"holdem-engine/pkg/table"

	"github.com/stretchr/testify/assert"
)

func TestDealer_StartHand(t *testing.T) {
	a := assert.New(t)
	l := ledger.NewMemory()

	d := setupDealer(t, l, 1, 1000)
	a.Equal(ErrNotEnoughPlayers, d.StartHand(cbg, nil))

	d = setupDealer(t, l, 11, 1000, 1000, 1000)
	a.NoError(d.StartHand(cbg, nil))
	a.True(d.InHand())
	a.Equal(ErrHandInProgress, d.StartHand(cbg, nil))

	// the first button is seat 0, so 12 and 13 post the blinds
	a.Equal(1000, balance(t, l, 11))
	a.Equal(975, balance(t, l, 12))
	a.Equal(950, balance(t, l, 13))
	a.Equal(0, d.button)

	err := d.StartHand(cbg, playable.AdditionalData{"bigBlind": float64(10)})
	a.Equal(ErrHandInProgress, err)
}

func TestDealer_StartHand_invalidOptions(t *testing.T) {
	a := assert.New(t)
	l := ledger.NewMemory()

	d := setupDealer(t, l, 1, 1000, 1000)
	a.EqualError(d.StartHand(cbg, playable.AdditionalData{"bigBlind": float64(10)}), "big blind must be at least the small blind")
	a.False(d.InHand())
	a.Equal(2000, l.Total())
}

func TestDealer_noHand(t *testing.T) {
	a := assert.New(t)
	d := setupDealer(t, ledger.NewMemory(), 1, 1000, 1000)

	_, err := d.Action(cbg, 1, actionPayload(action.Call, 0))
	a.EqualError(err, "there is no hand in progress")
	a.True(errors.Is(err, betting.ErrGameNotInProgress))

	_, err = d.PlayerState(1)
	a.True(errors.Is(err, betting.ErrGameNotInProgress))
	a.True(errors.Is(d.Abort(cbg), betting.ErrGameNotInProgress))
	a.Nil(d.Turn())

	updated, err := d.Tick(cbg)
	a.False(updated)
	a.NoError(err)
}

func TestDealer_Action(t *testing.T) {
	a := assert.New(t)
	l := ledger.NewMemory()
	d := setupDealer(t, l, 1, 1000, 1000, 1000)

	a.NoError(d.StartHand(cbg, nil))
	turn := tickToTurn(t, d)

	// the dealer is first to act three-handed
	a.Equal(int64(1), turn.PlayerID)
	a.Equal([]action.Action{action.Fold, action.Call, action.Raise, action.AllIn}, turn.Actions)
	a.Equal(50, turn.State.AmountToCall)
	a.Equal(100, turn.State.MinRaiseTo)
	a.Equal(1000, turn.State.MaxRaiseTo)

	_, err := d.Action(cbg, 2, actionPayload(action.Call, 0))
	a.EqualError(err, "it is not your turn")
	a.Equal(1000, balance(t, l, 1))

	res, err := d.Action(cbg, 1, actionPayload(action.Raise, 300))
	a.NoError(err)
	a.Equal(playable.OK(), res)
	a.Equal(700, balance(t, l, 1))

	res, err = d.PlayerState(1)
	a.NoError(err)
	a.Equal("game", res.Key)
	a.IsType(&texasholdem.ParticipantState{}, res.Data)

	// player 2 tops up the small blind
	_, err = d.Action(cbg, 2, actionPayload(action.Call, 0))
	a.NoError(err)
	a.Equal(700, balance(t, l, 2))

	messages := d.LogMessages()
	if a.Len(messages, 4) {
		a.Equal("{} posted the small blind of ${25}", messages[0].Message)
		a.Equal([]int64{1}, messages[2].PlayerIDs)
		a.Equal("{} raised to ${300}", messages[2].Message)
		a.Equal("{} called ${275}", messages[3].Message)
	}
}

func TestDealer_Abort(t *testing.T) {
	a := assert.New(t)
	l := ledger.NewMemory()
	d := setupDealer(t, l, 1, 1000, 1000, 1000)

	a.NoError(d.StartHand(cbg, nil))
	tickToTurn(t, d)
	a.Equal(texasholdem.ErrAbortMidStreet, d.Abort(cbg))
	a.True(d.InHand())

	// everyone calls, the flop is not dealt yet
	for i := 0; i < 3; i++ {
		turn := d.Turn()
		if !a.NotNil(turn) {
			return
		}

		_, err := d.Action(cbg, turn.PlayerID, actionPayload(CallingStation{}.Decide(turn)))
		a.NoError(err)
	}

	a.Nil(d.Turn())
	a.Equal(2850, l.Total())

	a.NoError(d.Abort(cbg))
	a.False(d.InHand())
	a.Equal(3000, l.Total())
	for id := int64(1); id <= 3; id++ {
		a.Equal(1000, balance(t, l, id))
	}

	details := d.LastHand()
	if a.NotNil(details) {
		a.True(details.Aborted)
		a.Equal(map[int64]int{1: 50, 2: 50, 3: 50}, details.Refunds)
	}

	a.Equal(1, d.Hands())
	a.Empty(d.Pending())
}

func TestDealer_PlayHand_conservesChips(t *testing.T) {
	a := assert.New(t)
	l := ledger.NewMemory()
	d := setupDealer(t, l, 1, 1000, 500, 2000, 150)
	strategy := RandomStrategy{Gen: rng.NewSeeded(99)}

	buttons := make([]int, 0)
	for i := 0; i < 40; i++ {
		details, err := d.PlayHand(cbg, nil, strategy)
		if errors.Is(err, ErrNotEnoughPlayers) {
			break
		}

		if !a.NoError(err) {
			return
		}

		buttons = append(buttons, d.button)
		a.False(details.Aborted)
		a.Equal(3650, l.Total())
		a.Empty(d.Pending())

		paid := 0
		for _, amount := range details.Payouts {
			paid += amount
		}

		contributed := 0
		for _, amount := range details.Contributions {
			contributed += amount
		}

		a.Equal(contributed, paid)

		for _, id := range details.Busted {
			a.Equal(0, balance(t, l, id))
		}
	}

	if a.NotEmpty(buttons) {
		a.Equal(0, buttons[0])
	}

	// the button never stays put while more than one player has chips
	for i := 1; i < len(buttons); i++ {
		a.NotEqual(buttons[i-1], buttons[i])
	}
}

func TestDealer_settlementRetry(t *testing.T) {
	a := assert.New(t)
	l := &flakyLedger{Memory: ledger.NewMemory()}
	d := setupDealer(t, l, 1, 1000, 1000)

	l.setDown(true)
	details, err := d.PlayHand(cbg, nil, CallingStation{})
	a.NoError(err)
	a.False(details.Aborted)

	// the pot left the ledger and nothing came back
	a.Equal(1900, l.Total())
	owed := make(map[int64]int)
	for id, amount := range details.Payouts {
		if amount > 0 {
			owed[id] = amount
		}
	}
	a.Equal(owed, d.Pending())

	a.True(errors.Is(d.StartHand(cbg, nil), ErrPendingSettlement))

	updated, err := d.Tick(cbg)
	a.False(updated)
	a.NoError(err)
	a.Equal(1900, l.Total())

	l.setDown(false)
	_, err = d.Tick(cbg)
	a.NoError(err)
	a.Empty(d.Pending())
	a.Equal(2000, l.Total())

	a.NoError(d.StartHand(cbg, nil))
}

func TestDealer_ReceivedMessage(t *testing.T) {
	a := assert.New(t)
	d := setupDealer(t, ledger.NewMemory(), 1, 1000, 1000)

	res := d.ReceivedMessage(cbg, 1, &playable.PayloadIn{Action: "check", Context: "c1"})
	a.Equal(&playable.Response{Key: "error", Value: "there is no hand in progress", Context: "c1"}, res)

	res = d.ReceivedMessage(cbg, 1, &playable.PayloadIn{Action: "startHand", Context: "c2"})
	a.Equal(playable.OK("c2"), res)

	res = d.ReceivedMessage(cbg, 1, &playable.PayloadIn{Action: "startHand", Context: "c3"})
	a.Equal("a hand is already in progress", res.Value)

	tickToTurn(t, d)

	res = d.ReceivedMessage(cbg, 1, &playable.PayloadIn{Action: "bet", Context: "c4"})
	a.Equal(&playable.Response{Key: "error", Value: "unknown action for identifier: bet", Context: "c4"}, res)

	res = d.ReceivedMessage(cbg, 1, &playable.PayloadIn{Action: "abortHand", Context: "c5"})
	a.Equal("cannot abort the hand during a betting round", res.Value)

	// heads-up, the dealer is the small blind and acts first
	res = d.ReceivedMessage(cbg, 1, &playable.PayloadIn{Action: "call", Context: "c6"})
	a.Equal(playable.OK("c6"), res)
}

func Test_userMessage(t *testing.T) {
	a := assert.New(t)
	a.Equal("something went wrong", userMessage(errors.New("pq: connection refused")))
	a.Equal("the table is full", userMessage(table.UserError("the table is full")))
	a.Equal("at least two players with chips are needed to start a hand", userMessage(ErrNotEnoughPlayers))
}

func TestDealer_StartShift(t *testing.T) {
	a := assert.New(t)
	l := ledger.NewMemory()
	d := setupDealer(t, l, 1, 1000, 1000)

	opts := testOptions()
	opts.DecisionTimeout = time.Millisecond
	d.factory = gamefactory.NewTexasHoldEm(opts)
	d.interval = time.Millisecond * 2

	a.NoError(d.StartHand(cbg, nil))
	d.StartShift(cbg)
	defer d.EndShift()

	// the small blind times out facing a bet and folds
	a.Eventually(func() bool {
		return d.Hands() == 1
	}, time.Second*5, time.Millisecond*5)

	a.Equal(2000, l.Total())
	a.Equal(975, balance(t, l, 1))
	a.Equal(1025, balance(t, l, 2))

	// ending twice is harmless
	d.EndShift()
}
