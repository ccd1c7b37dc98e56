package room

import (
	"context"
	"errors"
	"time"

	"holdem-engine/internal/rng"
	"holdem-engine/pkg/playable"
	"holdem-engine/pkg/playable/poker/action"
)

// Strategy decides for the player on the clock
// For a raise, the amount is the total street bet
type Strategy interface {
	Decide(turn *Turn) (action.Action, int)
}

// PlayHand deals a hand and plays it to the end, asking the strategy for every decision
func (d *Dealer) PlayHand(ctx context.Context, additionalData playable.AdditionalData, strategy Strategy) (*playable.GameOverDetails, error) {
	if err := d.StartHand(ctx, additionalData); err != nil {
		return nil, err
	}

	for d.InHand() {
		if turn := d.Turn(); turn != nil {
			act, amount := strategy.Decide(turn)
			if _, err := d.Action(ctx, turn.PlayerID, actionPayload(act, amount)); err != nil {
				return nil, err
			}

			continue
		}

		updated, err := d.Tick(ctx)
		if err != nil {
			return d.LastHand(), err
		}

		if !updated {
			// waiting on the street delay
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Millisecond * 10):
			}
		}
	}

	details := d.LastHand()
	if details == nil {
		return nil, errors.New("hand ended without details")
	}

	return details, nil
}

func actionPayload(act action.Action, amount int) *playable.PayloadIn {
	return &playable.PayloadIn{
		Action: string(act),
		AdditionalData: playable.AdditionalData{
			"amount": float64(amount),
		},
	}
}

func hasAction(actions []action.Action, want action.Action) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}

	return false
}

// CallingStation checks when it can and calls otherwise
type CallingStation struct{}

// Decide implements Strategy
func (CallingStation) Decide(turn *Turn) (action.Action, int) {
	switch {
	case hasAction(turn.Actions, action.Check):
		return action.Check, 0
	case hasAction(turn.Actions, action.Call):
		return action.Call, 0
	case hasAction(turn.Actions, action.AllIn):
		return action.AllIn, 0
	}

	return action.Fold, 0
}

// RandomStrategy picks any legal action
// Raises are to a random amount between the minimum and the player's stack
type RandomStrategy struct {
	Gen rng.Generator
}

// Decide implements Strategy
func (r RandomStrategy) Decide(turn *Turn) (action.Action, int) {
	if len(turn.Actions) == 0 {
		return action.Fold, 0
	}

	act := turn.Actions[r.Gen.Intn(len(turn.Actions))]
	if act != action.Raise {
		return act, 0
	}

	min, max := turn.State.MinRaiseTo, turn.State.MaxRaiseTo
	if max <= min {
		return act, min
	}

	return act, min + r.Gen.Intn(max-min+1)
}
