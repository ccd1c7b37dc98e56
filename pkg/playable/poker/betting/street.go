package betting

import (
	"encoding/json"
	"fmt"
)

// Street is a betting street
type Street int

// Street constants
const (
	PreFlop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	switch s {
	case PreFlop:
		return "pre-flop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	}

	panic(fmt.Sprintf("unknown street: %d", s))
}

// MarshalJSON encodes the street
func (s Street) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
