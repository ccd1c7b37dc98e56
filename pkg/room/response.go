package room

import (
	"context"
	"errors"

	"holdem-engine/pkg/playable"
	"holdem-engine/pkg/playable/poker/betting"
	"holdem-engine/pkg/playable/poker/texasholdem"
	"holdem-engine/pkg/table"
)

func newErrorResponse(ctx string, err error) *playable.Response {
	return &playable.Response{
		Key:     "error",
		Value:   userMessage(err),
		Context: ctx,
	}
}

// userMessage hides errors that are not safe to show a player
func userMessage(err error) string {
	var pErr betting.ParticipantError
	var uErr table.UserError
	switch {
	case errors.As(err, &pErr), errors.As(err, &uErr):
		return err.Error()
	case errors.Is(err, ErrHandInProgress), errors.Is(err, ErrNotEnoughPlayers):
		return err.Error()
	case errors.Is(err, texasholdem.ErrAbortMidStreet), errors.Is(err, texasholdem.ErrGameOver):
		return err.Error()
	}

	return "something went wrong"
}

// ReceivedMessage handles a message from a player and always returns a response for them
// startHand and abortHand control the table, anything else is an action in the hand
func (d *Dealer) ReceivedMessage(ctx context.Context, playerID int64, msg *playable.PayloadIn) *playable.Response {
	switch msg.Action {
	case "startHand":
		if err := d.StartHand(ctx, msg.AdditionalData); err != nil {
			d.logger.WithError(err).WithField("player", playerID).Warn("could not start hand")
			return newErrorResponse(msg.Context, err)
		}

		return playable.OK(msg.Context)
	case "abortHand":
		if err := d.Abort(ctx); err != nil {
			d.logger.WithError(err).WithField("player", playerID).Warn("could not abort hand")
			return newErrorResponse(msg.Context, err)
		}

		return playable.OK(msg.Context)
	}

	res, err := d.Action(ctx, playerID, msg)
	if err != nil {
		d.logger.WithError(err).WithField("player", playerID).Debug("could not perform action")
		return newErrorResponse(msg.Context, err)
	}

	return res
}
