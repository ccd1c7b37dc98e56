package betting

import (
	"errors"
	"fmt"
)

// ErrIllegalAction is the kind of error returned when an action is not permitted in the current state
var ErrIllegalAction = errors.New("illegal action")

// ErrActionOutOfTurn is the kind of error returned when a player acts while another player is on the clock
var ErrActionOutOfTurn = errors.New("action out of turn")

// ErrInsufficientStack is the kind of error returned when a call or raise exceeds the player's stack
var ErrInsufficientStack = errors.New("insufficient stack")

// ErrGameNotInProgress is the kind of error returned when an action is attempted while no action is open
var ErrGameNotInProgress = errors.New("game not in progress")

// ErrStreetNotClosed is returned when advancing a street that still has action pending
var ErrStreetNotClosed = errors.New("street is not closed")

// ErrRoundOpened is returned when blinds are posted after the action opened
var ErrRoundOpened = errors.New("action has already opened")

// ParticipantError is an error caused by a player's action
// The message is safe to show to the player, errors.Is() matches the kind
type ParticipantError struct {
	Kind    error
	Message string
}

func (p ParticipantError) Error() string {
	return p.Message
}

// Unwrap returns the kind of error
func (p ParticipantError) Unwrap() error {
	return p.Kind
}

func newParticipantError(kind error, format string, a ...interface{}) ParticipantError {
	return ParticipantError{
		Kind:    kind,
		Message: fmt.Sprintf(format, a...),
	}
}

var errNotYourTurn = newParticipantError(ErrActionOutOfTurn, "it is not your turn")
