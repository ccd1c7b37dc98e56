package texasholdem

import (
	"holdem-engine/pkg/deck"
	"holdem-engine/pkg/playable/poker/potmanager"
)

type gameLog struct {
	HandID       string              `json:"handId"`
	DeckHash     string              `json:"deckHash"`
	Participants []*participantJSON  `json:"participants"`
	Community    deck.Hand           `json:"community"`
	Pot          int                 `json:"pot"`
	Pots         potmanager.Pots     `json:"pots"`
	Awards       []*potmanager.Award `json:"awards"`
	Aborted      bool                `json:"aborted"`
	AbortReason  string              `json:"abortReason,omitempty"`
}

func (g *Game) gameLog() *gameLog {
	p := make([]*participantJSON, len(g.participantOrder))
	for i, pt := range g.participantOrder {
		p[i] = pt.participantJSON(g, true)
	}

	var awards []*potmanager.Award
	if g.resolution != nil {
		awards = g.resolution.Awards
	}

	return &gameLog{
		HandID:       g.id.String(),
		DeckHash:     g.deckHash,
		Participants: p,
		Community:    g.community,
		Pot:          g.potManager.Total(),
		Pots:         g.pots,
		Awards:       awards,
		Aborted:      g.aborted,
		AbortReason:  g.abortReason,
	}
}
