package gamefactory

import (
	"fmt"

	"holdem-engine/internal/rng"
	"holdem-engine/pkg/playable"
	"holdem-engine/pkg/playable/poker/texasholdem"

	"github.com/sirupsen/logrus"
)

var factories = map[string]GameFactory{
	"texas-hold-em": NewTexasHoldEm(texasholdem.DefaultOptions()),
}

// GameFactory is a factory for creating games that implement the Playable interface
type GameFactory interface {
	// CreateGame creates a game for the players in seat order, the player at dealerIndex has the button
	CreateGame(logger logrus.FieldLogger, players []playable.Player, dealerIndex int, gen rng.Generator, additionalData playable.AdditionalData) (playable.Playable, error)
	Details(additionalData playable.AdditionalData) (name string, err error)
}

// Get returns a factory by the given name
func Get(name string) (GameFactory, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("no factory with name: %s", name)
	}

	return factory, nil
}
