package betting

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// StackPolicy decides what happens when a call or raise is larger than the player's stack
type StackPolicy int

// StackPolicy constants
const (
	// ConvertToAllIn turns the action into an all-in for the player's remaining stack
	ConvertToAllIn StackPolicy = iota
	// RejectShortStack rejects the action with ErrInsufficientStack
	RejectShortStack
)

func (s StackPolicy) String() string {
	switch s {
	case ConvertToAllIn:
		return "convert"
	case RejectShortStack:
		return "reject"
	}

	panic(fmt.Sprintf("unknown stack policy: %d", s))
}

// StackPolicyFromString parses the config representation of a StackPolicy
func StackPolicyFromString(s string) (StackPolicy, error) {
	switch strings.ToLower(s) {
	case "", "convert":
		return ConvertToAllIn, nil
	case "reject":
		return RejectShortStack, nil
	}

	return 0, fmt.Errorf("unknown stack policy: %s", s)
}

// MarshalJSON encodes the policy as its string
func (s StackPolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Options configures a betting round
type Options struct {
	// MinBet is the big blind, which is also the minimum opening bet and minimum raise increment
	MinBet      int
	StackPolicy StackPolicy
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		MinBet:      50,
		StackPolicy: ConvertToAllIn,
	}
}

func validateOptions(opts Options) error {
	if opts.MinBet <= 0 {
		return errors.New("minimum bet must be greater than zero")
	}

	if opts.StackPolicy != ConvertToAllIn && opts.StackPolicy != RejectShortStack {
		return fmt.Errorf("unknown stack policy: %d", opts.StackPolicy)
	}

	return nil
}
