package texasholdem

import (
	"holdem-engine/pkg/deck"
	"holdem-engine/pkg/playable/poker/action"
	"holdem-engine/pkg/playable/poker/betting"
	"holdem-engine/pkg/playable/poker/handanalyzer"
)

type result string

const (
	resultPending result = ""
	resultFolded  result = "folded"
	resultLost    result = "lost"
	resultWon     result = "won"
)

// Participant represents an individual player in Texas Hold'em
type Participant struct {
	PlayerID int64

	tableStake int
	cards      deck.Hand

	folded bool
	reveal bool

	result   result
	winnings int

	handAnalyzer *handanalyzer.HandAnalyzer
}

type participantJSON struct {
	PlayerID  int64          `json:"playerId"`
	Stack     int            `json:"stack"`
	Cards     deck.Hand      `json:"cards"`
	Folded    bool           `json:"folded"`
	Status    betting.Status `json:"status"`
	StreetBet int            `json:"streetBet"`
	HandBet   int            `json:"handBet"`
	Hand      string         `json:"hand"`
	BestCards deck.Hand      `json:"bestCards"`
	Result    result         `json:"result"`
	Winnings  int            `json:"winnings"`
}

func newParticipant(id int64, tableStake int) *Participant {
	return &Participant{
		PlayerID:   id,
		tableStake: tableStake,
		cards:      make(deck.Hand, 0, 2),
		result:     resultPending,
	}
}

// Cards returns the hole cards
func (p *Participant) Cards() deck.Hand {
	return p.cards.Clone()
}

// ActionsForParticipant return the actions the current participant can take
func (g *Game) ActionsForParticipant(id int64) []action.Action {
	if !g.InBettingRound() {
		return nil
	}

	return g.round.LegalActions(id)
}

// stack returns the chips the participant has left, including any winnings
func (g *Game) stack(p *Participant) int {
	return p.tableStake - g.potManager.Contribution(p.PlayerID) + p.winnings
}

// evaluate ranks the hole cards together with the community cards
func (p *Participant) evaluate(community deck.Hand) (*handanalyzer.HandAnalyzer, error) {
	if p.handAnalyzer != nil {
		return p.handAnalyzer, nil
	}

	hand := append(p.cards.Clone(), community...)
	ha, err := handanalyzer.New(hand)
	if err != nil {
		return nil, err
	}

	p.handAnalyzer = ha
	return ha, nil
}

func (p *Participant) participantJSON(game *Game, forceReveal bool) *participantJSON {
	bp, _ := game.round.Player(p.PlayerID)

	pj := &participantJSON{
		PlayerID:  p.PlayerID,
		Stack:     game.stack(p),
		Folded:    p.folded,
		Status:    bp.Status,
		StreetBet: bp.StreetBet,
		HandBet:   bp.HandBet,
		Result:    p.result,
		Winnings:  p.winnings,
	}

	if forceReveal || (p.reveal && !p.folded) {
		pj.Cards = p.cards

		if p.handAnalyzer != nil {
			pj.Hand = p.handAnalyzer.GetRank().String()
			pj.BestCards = p.handAnalyzer.GetBestCards()
		}
	}

	return pj
}
