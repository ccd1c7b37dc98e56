package gamefactory

import (
	"holdem-engine/internal/rng"
	"holdem-engine/pkg/playable"
	"holdem-engine/pkg/playable/poker/betting"
	"holdem-engine/pkg/playable/poker/texasholdem"

	"github.com/sirupsen/logrus"
)

type texasHoldEmFactory struct {
	defaults texasholdem.Options
}

// NewTexasHoldEm returns a factory for hands with the table's options
// The additional data of a single hand can override the blinds and the stack policy
func NewTexasHoldEm(defaults texasholdem.Options) GameFactory {
	return texasHoldEmFactory{defaults: defaults}
}

func (t texasHoldEmFactory) CreateGame(logger logrus.FieldLogger, players []playable.Player, dealerIndex int, gen rng.Generator, additionalData playable.AdditionalData) (playable.Playable, error) {
	opts, err := t.options(additionalData)
	if err != nil {
		return nil, err
	}

	game, err := texasholdem.NewGame(logger, players, dealerIndex, opts, gen)
	if err != nil {
		return nil, err
	}

	return game, nil
}

func (t texasHoldEmFactory) Details(additionalData playable.AdditionalData) (string, error) {
	opts, err := t.options(additionalData)
	if err != nil {
		return "", err
	}

	return texasholdem.NameFromOptions(opts), nil
}

func (t texasHoldEmFactory) options(additionalData playable.AdditionalData) (texasholdem.Options, error) {
	opts := t.defaults

	if smallBlind, ok := additionalData.GetInt("smallBlind"); ok && smallBlind >= 0 {
		opts.SmallBlind = smallBlind
	}

	if bigBlind, ok := additionalData.GetInt("bigBlind"); ok && bigBlind >= 0 {
		opts.BigBlind = bigBlind
	}

	if policyStr, ok := additionalData.GetString("stackPolicy"); ok {
		policy, err := betting.StackPolicyFromString(policyStr)
		if err != nil {
			return texasholdem.Options{}, err
		}

		opts.StackPolicy = policy
	}

	if err := texasholdem.ValidateOptions(opts); err != nil {
		return texasholdem.Options{}, err
	}

	return opts, nil
}
