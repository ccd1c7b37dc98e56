package betting

import (
	"errors"
	"testing"

	"holdem-engine/pkg/playable/poker/action"

	"github.com/stretchr/testify/assert"
)

// setupRound seats players 1..n with the stacks, in seat order starting left of the dealer
func setupRound(t *testing.T, policy StackPolicy, stacks ...int) *Round {
	t.Helper()

	seats := make([]Seat, len(stacks))
	for i, stack := range stacks {
		seats[i] = Seat{ID: int64(i + 1), Stack: stack}
	}

	r, err := NewRound(seats, Options{MinBet: 50, StackPolicy: policy})
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	return r
}

// setupThreeHanded posts the blinds for players 1 (small) and 2 (big) and opens the action on player 3
func setupThreeHanded(t *testing.T, stacks ...int) *Round {
	t.Helper()

	r := setupRound(t, ConvertToAllIn, stacks...)
	_, err := r.PostBlind(1, 25)
	assert.NoError(t, err)
	_, err = r.PostBlind(2, 50)
	assert.NoError(t, err)
	r.Open(2)

	return r
}

func assertApply(t *testing.T, r *Round, id int64, act action.Action, amount int) Result {
	t.Helper()

	result, err := r.Apply(id, act, amount)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	return result
}

func assertToAct(t *testing.T, r *Round, id int64) {
	t.Helper()

	p, ok := r.ToAct()
	if assert.True(t, ok, "expected player %d to act", id) {
		assert.Equal(t, id, p.ID)
	}
}

func assertParticipantError(t *testing.T, err error, kind error, msg string) {
	t.Helper()

	assert.True(t, errors.Is(err, kind), "expected %v, got %v", kind, err)

	var pe ParticipantError
	if assert.True(t, errors.As(err, &pe)) {
		assert.Equal(t, msg, pe.Message)
	}
}

func TestNewRound(t *testing.T) {
	a := assert.New(t)

	_, err := NewRound([]Seat{{ID: 1, Stack: 100}}, DefaultOptions())
	a.EqualError(err, "a round needs at least two players")

	_, err = NewRound([]Seat{{ID: 1, Stack: 100}, {ID: 2, Stack: 0}}, DefaultOptions())
	a.EqualError(err, "player 2 does not have a stack")

	_, err = NewRound([]Seat{{ID: 1, Stack: 100}, {ID: 1, Stack: 100}}, DefaultOptions())
	a.EqualError(err, "player 1 is seated twice")

	_, err = NewRound([]Seat{{ID: 1, Stack: 100}, {ID: 2, Stack: 100}}, Options{})
	a.EqualError(err, "minimum bet must be greater than zero")

	r, err := NewRound([]Seat{{ID: 1, Stack: 100}, {ID: 2, Stack: 100}}, DefaultOptions())
	a.NoError(err)
	a.Equal(PreFlop, r.Street())
	a.Equal(50, r.MinRaiseTo())

	// no action before the round opens
	_, ok := r.ToAct()
	a.False(ok)
	_, err = r.Apply(1, action.Check, 0)
	a.True(errors.Is(err, ErrGameNotInProgress))
}

func TestRound_PostBlind(t *testing.T) {
	a := assert.New(t)

	r := setupRound(t, ConvertToAllIn, 30, 1000)
	posted, err := r.PostBlind(2, 25)
	a.NoError(err)
	a.Equal(25, posted)

	// a short stack posts what it has
	posted, err = r.PostBlind(1, 50)
	a.NoError(err)
	a.Equal(30, posted)

	p, _ := r.Player(1)
	a.Equal(StatusAllIn, p.Status)
	a.Equal(30, p.HandBet)
	a.Equal(50, r.CurrentBet())

	_, err = r.PostBlind(3, 50)
	a.EqualError(err, "player 3 is not in the round")

	r.Open(1)
	assertToAct(t, r, 2)
	a.Equal(25, r.AmountToCall(2))

	_, err = r.PostBlind(2, 50)
	a.Equal(ErrRoundOpened, err)
}

func TestRound_shortBigBlindKeepsFullBet(t *testing.T) {
	a := assert.New(t)

	r := setupThreeHanded(t, 1000, 10, 1000)

	p, _ := r.Player(2)
	a.Equal(StatusAllIn, p.Status)
	a.Equal(10, p.HandBet)

	a.Equal(50, r.CurrentBet())
	a.Equal(50, r.AmountToCall(3))
	a.Equal(100, r.MinRaiseTo())

	assertToAct(t, r, 3)
	result := assertApply(t, r, 3, action.Call, 0)
	a.Equal(50, result.Contributed)

	_, err := r.Apply(1, action.Raise, 75)
	assertParticipantError(t, err, ErrIllegalAction, "raise must be to at least ${100}")

	result = assertApply(t, r, 1, action.Call, 0)
	a.Equal(25, result.Contributed)
	a.True(result.StreetClosed)
}

func TestRound_preFlopThreeHanded(t *testing.T) {
	a := assert.New(t)
	r := setupThreeHanded(t, 1000, 1000, 1000)

	assertToAct(t, r, 3)
	a.Equal([]action.Action{action.Fold, action.Call, action.Raise, action.AllIn}, r.LegalActions(3))
	a.Nil(r.LegalActions(1))

	_, err := r.Apply(1, action.Call, 0)
	assertParticipantError(t, err, ErrActionOutOfTurn, "it is not your turn")

	result := assertApply(t, r, 3, action.Call, 0)
	a.Equal(Result{Action: action.Call, Amount: 50, Contributed: 50}, result)

	result = assertApply(t, r, 1, action.Call, 0)
	a.Equal(25, result.Contributed)

	// the big blind still has the option
	assertToAct(t, r, 2)
	a.Equal([]action.Action{action.Fold, action.Check, action.Raise, action.AllIn}, r.LegalActions(2))

	result = assertApply(t, r, 2, action.Check, 0)
	a.True(result.StreetClosed)
	a.False(result.SingleSurvivor)
	a.True(r.IsStreetClosed())

	_, err = r.Apply(2, action.Check, 0)
	a.True(errors.Is(err, ErrGameNotInProgress))

	a.NoError(r.NextStreet())
	a.Equal(Flop, r.Street())
	a.Equal(0, r.CurrentBet())
	a.Equal(50, r.MinRaiseTo())
	assertToAct(t, r, 1)

	for _, p := range r.Players() {
		a.Equal(0, p.StreetBet)
		a.Equal(50, p.HandBet)
		a.Equal(950, p.Stack)
	}
}

func TestRound_minRaise(t *testing.T) {
	a := assert.New(t)
	r := setupThreeHanded(t, 1000, 1000, 1000)

	_, err := r.Apply(3, action.Raise, 75)
	assertParticipantError(t, err, ErrIllegalAction, "raise must be to at least ${100}")

	result := assertApply(t, r, 3, action.Raise, 100)
	a.Equal(Result{Action: action.Raise, Amount: 100, Contributed: 100}, result)
	a.Equal(150, r.MinRaiseTo())

	result = assertApply(t, r, 1, action.Raise, 300)
	a.Equal(275, result.Contributed)
	a.Equal(200, r.LastRaise())
	a.Equal(500, r.MinRaiseTo())

	_, err = r.Apply(2, action.Raise, 400)
	assertParticipantError(t, err, ErrIllegalAction, "raise must be to at least ${500}")

	_, err = r.Apply(2, action.Raise, 50)
	assertParticipantError(t, err, ErrIllegalAction, "your raise of ${50} must be greater than the current bet of ${300}")

	_, err = r.Apply(2, action.Check, 0)
	assertParticipantError(t, err, ErrIllegalAction, "you cannot check with an active bet")

	assertApply(t, r, 2, action.Fold, 0)
	assertApply(t, r, 3, action.Call, 0)
	a.True(r.IsStreetClosed())
	a.NoError(r.NextStreet())

	_, err = r.Apply(1, action.Call, 0)
	assertParticipantError(t, err, ErrIllegalAction, "you cannot call without an active bet")

	// the opening bet must be at least the minimum bet
	_, err = r.Apply(1, action.Raise, 25)
	assertParticipantError(t, err, ErrIllegalAction, "raise must be to at least ${50}")
}

func TestRound_rejectionIsAtomic(t *testing.T) {
	a := assert.New(t)
	r := setupThreeHanded(t, 1000, 1000, 1000)
	assertApply(t, r, 3, action.Raise, 100)

	players := r.Players()
	currentBet := r.CurrentBet()
	minRaiseTo := r.MinRaiseTo()

	assertUnchanged := func() {
		t.Helper()

		a.Equal(players, r.Players())
		a.Equal(currentBet, r.CurrentBet())
		a.Equal(minRaiseTo, r.MinRaiseTo())
		assertToAct(t, r, 1)
	}

	_, err := r.Apply(2, action.Fold, 0)
	a.Error(err)
	assertUnchanged()

	_, err = r.Apply(1, action.Check, 0)
	a.Error(err)
	assertUnchanged()

	_, err = r.Apply(1, action.Raise, 120)
	a.Error(err)
	assertUnchanged()

	_, err = r.Apply(1, action.Action("trade"), 0)
	assertParticipantError(t, err, ErrIllegalAction, "you cannot perform trade")
	assertUnchanged()

	_, err = r.Apply(4, action.Fold, 0)
	a.True(errors.Is(err, ErrActionOutOfTurn))
	assertUnchanged()
}

func TestRound_shortCall(t *testing.T) {
	setup := func(t *testing.T, policy StackPolicy) *Round {
		t.Helper()

		// heads-up: player 2 is the dealer and posts the small blind
		r := setupRound(t, policy, 1000, 300)
		_, _ = r.PostBlind(2, 25)
		_, _ = r.PostBlind(1, 50)
		r.Open(1)

		assertToAct(t, r, 2)
		assertApply(t, r, 2, action.Call, 0)
		assertApply(t, r, 1, action.Raise, 500)

		return r
	}

	t.Run("convert to all-in", func(t *testing.T) {
		a := assert.New(t)
		r := setup(t, ConvertToAllIn)

		a.Equal([]action.Action{action.Fold, action.AllIn}, r.LegalActions(2))

		result := assertApply(t, r, 2, action.Call, 0)
		a.Equal(Result{Action: action.AllIn, Amount: 300, Contributed: 250, StreetClosed: true}, result)

		p, _ := r.Player(2)
		a.Equal(StatusAllIn, p.Status)
		a.Equal(0, p.Stack)
		a.False(r.CanBet())
	})

	t.Run("reject", func(t *testing.T) {
		a := assert.New(t)
		r := setup(t, RejectShortStack)

		before := r.Players()
		_, err := r.Apply(2, action.Call, 0)
		assertParticipantError(t, err, ErrInsufficientStack, "you need ${450} to call but only have ${250}")
		a.Equal(before, r.Players())
		assertToAct(t, r, 2)

		result := assertApply(t, r, 2, action.AllIn, 0)
		a.Equal(action.AllIn, result.Action)
		a.Equal(300, result.Amount)
		a.True(result.StreetClosed)
	})
}

func TestRound_raiseBeyondStack(t *testing.T) {
	setup := func(t *testing.T, policy StackPolicy) *Round {
		t.Helper()

		r := setupRound(t, policy, 1000, 300)
		_, _ = r.PostBlind(2, 25)
		_, _ = r.PostBlind(1, 50)
		r.Open(1)
		assertApply(t, r, 2, action.Call, 0)

		return r
	}

	t.Run("convert to all-in", func(t *testing.T) {
		a := assert.New(t)
		r := setup(t, ConvertToAllIn)

		result := assertApply(t, r, 1, action.Raise, 5000)
		a.Equal(Result{Action: action.AllIn, Amount: 1000, Contributed: 950}, result)
		a.Equal(1000, r.CurrentBet())
	})

	t.Run("reject", func(t *testing.T) {
		a := assert.New(t)
		r := setup(t, RejectShortStack)

		_, err := r.Apply(1, action.Raise, 5000)
		assertParticipantError(t, err, ErrInsufficientStack, "you cannot raise to ${5000} with ${1000}")
		a.Equal(50, r.CurrentBet())

		// raising exactly the stack is an all-in
		result := assertApply(t, r, 1, action.Raise, 1000)
		a.Equal(action.AllIn, result.Action)
	})
}

func TestRound_incompleteAllInDoesNotReopen(t *testing.T) {
	a := assert.New(t)
	r := setupThreeHanded(t, 1000, 1000, 130)

	assertApply(t, r, 3, action.Call, 0)
	assertApply(t, r, 1, action.Call, 0)
	assertApply(t, r, 2, action.Check, 0)
	a.NoError(r.NextStreet())

	assertApply(t, r, 1, action.Raise, 50)
	assertApply(t, r, 2, action.Call, 0)

	a.Equal([]action.Action{action.Fold, action.Call, action.AllIn}, r.LegalActions(3))
	result := assertApply(t, r, 3, action.AllIn, 0)
	a.Equal(Result{Action: action.AllIn, Amount: 80, Contributed: 80}, result)
	a.Equal(80, r.CurrentBet())
	a.Equal(50, r.LastRaise())

	// player 1 already acted, so the short all-in only lets them call or fold
	assertToAct(t, r, 1)
	a.False(r.CanRaise(1))
	a.Equal([]action.Action{action.Fold, action.Call}, r.LegalActions(1))

	_, err := r.Apply(1, action.Raise, 200)
	assertParticipantError(t, err, ErrIllegalAction, "you cannot raise")
	_, err = r.Apply(1, action.AllIn, 0)
	assertParticipantError(t, err, ErrIllegalAction, "you cannot raise")

	result = assertApply(t, r, 1, action.Call, 0)
	a.Equal(30, result.Amount)
	a.False(result.StreetClosed)

	assertToAct(t, r, 2)
	a.Equal([]action.Action{action.Fold, action.Call}, r.LegalActions(2))
	result = assertApply(t, r, 2, action.Call, 0)
	a.True(result.StreetClosed)
}

func TestRound_fullAllInReopens(t *testing.T) {
	a := assert.New(t)
	r := setupThreeHanded(t, 1000, 1000, 150)

	assertApply(t, r, 3, action.Call, 0)
	assertApply(t, r, 1, action.Call, 0)
	assertApply(t, r, 2, action.Check, 0)
	a.NoError(r.NextStreet())

	assertApply(t, r, 1, action.Raise, 50)
	assertApply(t, r, 2, action.Call, 0)
	assertApply(t, r, 3, action.AllIn, 0)

	a.Equal(100, r.CurrentBet())
	a.Equal(150, r.MinRaiseTo())
	assertToAct(t, r, 1)
	a.True(r.CanRaise(1))
	a.Equal([]action.Action{action.Fold, action.Call, action.Raise, action.AllIn}, r.LegalActions(1))
}

func TestRound_singleSurvivor(t *testing.T) {
	a := assert.New(t)
	r := setupThreeHanded(t, 1000, 1000, 1000)

	result := assertApply(t, r, 3, action.Fold, 0)
	a.False(result.SingleSurvivor)

	result = assertApply(t, r, 1, action.Fold, 0)
	a.True(result.SingleSurvivor)
	a.True(result.StreetClosed)
	a.True(r.IsOver())
	a.Equal([]int64{2}, r.Survivors())

	_, err := r.Apply(2, action.Check, 0)
	assertParticipantError(t, err, ErrGameNotInProgress, "no action is open")

	err = r.NextStreet()
	a.True(errors.Is(err, ErrGameNotInProgress))
}

func TestRound_allInRunsOut(t *testing.T) {
	a := assert.New(t)

	r := setupRound(t, ConvertToAllIn, 100, 100)
	_, _ = r.PostBlind(2, 25)
	_, _ = r.PostBlind(1, 50)
	r.Open(1)

	result := assertApply(t, r, 2, action.AllIn, 0)
	a.Equal(Result{Action: action.AllIn, Amount: 100, Contributed: 75}, result)

	result = assertApply(t, r, 1, action.Call, 0)
	a.Equal(Result{Action: action.Call, Amount: 50, Contributed: 50, StreetClosed: true}, result)
	a.False(r.CanBet())

	for _, street := range []Street{Flop, Turn, River, Showdown} {
		a.NoError(r.NextStreet())
		a.Equal(street, r.Street())
		_, ok := r.ToAct()
		a.False(ok)
	}

	a.True(r.IsOver())
	a.True(errors.Is(r.NextStreet(), ErrGameNotInProgress))
}

func TestRound_headsUpOrder(t *testing.T) {
	a := assert.New(t)

	// player 2 is the dealer
	r := setupRound(t, ConvertToAllIn, 1000, 1000)
	_, _ = r.PostBlind(2, 25)
	_, _ = r.PostBlind(1, 50)
	r.Open(1)

	assertToAct(t, r, 2)
	assertApply(t, r, 2, action.Call, 0)
	assertToAct(t, r, 1)

	a.Equal(ErrStreetNotClosed, r.NextStreet())

	assertApply(t, r, 1, action.Check, 0)
	a.NoError(r.NextStreet())

	// the big blind acts first after the flop
	assertToAct(t, r, 1)
	assertApply(t, r, 1, action.Check, 0)
	assertToAct(t, r, 2)
	result := assertApply(t, r, 2, action.Check, 0)
	a.True(result.StreetClosed)
}

func TestParticipantError(t *testing.T) {
	a := assert.New(t)

	err := newParticipantError(ErrIllegalAction, "you cannot %s", "check")
	a.EqualError(err, "you cannot check")
	a.True(errors.Is(err, ErrIllegalAction))
	a.False(errors.Is(err, ErrActionOutOfTurn))
}

func TestStackPolicyFromString(t *testing.T) {
	a := assert.New(t)

	p, err := StackPolicyFromString("")
	a.NoError(err)
	a.Equal(ConvertToAllIn, p)

	p, err = StackPolicyFromString("Reject")
	a.NoError(err)
	a.Equal(RejectShortStack, p)
	a.Equal("reject", p.String())

	_, err = StackPolicyFromString("fold")
	a.EqualError(err, "unknown stack policy: fold")
}
