package texasholdem

import (
	"holdem-engine/pkg/playable/poker"
	"holdem-engine/pkg/playable/poker/action"
)

// ParticipantState represents the state of an individual participant
type ParticipantState struct {
	Actions     []action.Action  `json:"actions"`
	Participant *participantJSON `json:"participant"`
	GameState   *GameState       `json:"gameState"`
	PokerState  *poker.State     `json:"pokerState"`
}

// GameState represents the state of the game
type GameState struct {
	Name         string             `json:"name"`
	HandID       string             `json:"handId"`
	DealerState  DealerState        `json:"dealerState"`
	Participants []*participantJSON `json:"participants"`
	CurrentTurn  int64              `json:"currentTurn"`
	LastAction   *lastAction        `json:"lastAction"`
}

func (g *Game) getGameState() *GameState {
	p := make([]*participantJSON, len(g.participantOrder))
	for i, pt := range g.participantOrder {
		p[i] = pt.participantJSON(g, false)
	}

	var currentTurn int64 = 0
	if turn, _ := g.GetCurrentTurn(); turn != nil {
		currentTurn = turn.PlayerID
	}

	return &GameState{
		Name:         g.Name(),
		HandID:       g.id.String(),
		DealerState:  g.dealerState,
		Participants: p,
		CurrentTurn:  currentTurn,
		LastAction:   g.lastAction,
	}
}

func (g *Game) getParticipantStateByPlayerID(id int64) *ParticipantState {
	var pjson *participantJSON
	var actions []action.Action
	if p, ok := g.participants[id]; ok {
		// force reveal because it's for the current player
		pjson = p.participantJSON(g, true)
		actions = g.ActionsForParticipant(id)
	}

	return &ParticipantState{
		Actions:     actions,
		Participant: pjson,
		GameState:   g.getGameState(),
		PokerState:  g.getPokerState(id),
	}
}

func (g *Game) getPokerState(id int64) *poker.State {
	pots, _ := g.potManager.Pots()

	state := &poker.State{
		SmallBlind: g.options.SmallBlind,
		BigBlind:   g.options.BigBlind,
		CurrentBet: g.round.CurrentBet(),
		Pots:       pots,
		Community:  g.community,
	}

	if g.round.CanRaise(id) {
		state.MinRaiseTo = g.round.MinRaiseTo()
		state.MaxRaiseTo = g.round.MaxRaiseTo(id)
	}
	state.AmountToCall = g.round.AmountToCall(id)

	return state
}

// PokerState returns the betting view for the player
func (g *Game) PokerState(id int64) *poker.State {
	return g.getPokerState(id)
}
