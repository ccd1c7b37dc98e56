package texasholdem

import (
	"fmt"

	"holdem-engine/pkg/playable"
	"holdem-engine/pkg/playable/poker/action"
	"holdem-engine/pkg/playable/poker/betting"
	"holdem-engine/pkg/playable/poker/handanalyzer"
	"holdem-engine/pkg/playable/poker/potmanager"

	"github.com/sirupsen/logrus"
)

var errNotBetting = betting.ParticipantError{Kind: betting.ErrGameNotInProgress, Message: "it is not time to act"}

// Action performs a player action
func (g *Game) Action(playerID int64, message *playable.PayloadIn) (playerResponse *playable.Response, updateState bool, err error) {
	anAction, err := action.FromString(message.Action)
	if err != nil {
		return nil, false, betting.ParticipantError{Kind: betting.ErrIllegalAction, Message: err.Error()}
	}

	amount, _ := message.AdditionalData.GetInt("amount")
	if err := g.ApplyAction(playerID, anAction, amount); err != nil {
		return nil, false, err
	}

	return playable.OK(message.Context), true, nil
}

// ApplyAction applies the action for the player
// For a raise, amount is the total street bet
func (g *Game) ApplyAction(playerID int64, act action.Action, amount int) error {
	if !g.InBettingRound() {
		return errNotBetting
	}

	res, err := g.round.Apply(playerID, act, amount)
	if err != nil {
		return err
	}

	p := g.participants[playerID]
	if err := g.potManager.Contribute(playerID, res.Contributed); err != nil {
		return err
	}

	if res.Action == action.Fold {
		if err := g.potManager.Fold(playerID); err != nil {
			return err
		}

		p.folded = true
		p.result = resultFolded
	}

	g.lastAction = &lastAction{
		Action:   string(res.Action),
		PlayerID: playerID,
		Amount:   res.Amount,
	}

	g.logger.WithFields(logrus.Fields{
		"player": playerID,
		"action": res.Action,
		"amount": res.Amount,
	}).Debug("action")

	g.sendLogs(playable.SimpleLogMessageSlice(playerID, "{} %s", res.Action.LogMessage(res.Amount)))

	g.decisionStart = g.clock()
	g.checkEndOfStreet()
	return nil
}

// Abort cancels the hand and refunds every contribution
// A hand can only be aborted between streets
func (g *Game) Abort() error {
	if g.finished {
		return ErrGameOver
	}

	if g.InBettingRound() {
		return ErrAbortMidStreet
	}

	g.abort("aborted by the dealer")
	return nil
}

// forceAbort aborts the hand after an error it cannot recover from
func (g *Game) forceAbort(err error) {
	g.logger.WithError(err).Error("aborting hand")
	g.abort(err.Error())
}

func (g *Game) abort(reason string) {
	g.aborted = true
	g.abortReason = reason
	g.pendingDealerState = nil
	g.dealerState = DealerStateAborted
	g.finished = true

	g.sendLogs(playable.SimpleLogMessageSlice(0, "the hand was aborted, all bets are returned"))
}

func (g *Game) endGame() error {
	if g.dealerState != DealerStateRevealWinner {
		return fmt.Errorf("cannot endGame from state %d", g.dealerState)
	}

	pots, err := g.potManager.Pots()
	if err != nil {
		return err
	}

	var ranks map[int64]handanalyzer.Rank
	if !g.round.IsSingleSurvivor() {
		ranks = make(map[int64]handanalyzer.Rank)
		for _, p := range g.participantOrder {
			if p.folded {
				continue
			}

			ha, err := p.evaluate(g.community)
			if err != nil {
				return err
			}

			p.reveal = true
			ranks[p.PlayerID] = ha.GetRank()
		}
	}

	res, err := potmanager.Resolve(pots, ranks, g.potManager.Order())
	if err != nil {
		return err
	}

	g.pots = pots
	g.resolution = res

	logs := make([]*playable.LogMessage, 0, len(g.participantOrder))
	for _, p := range g.participantOrder {
		pid := p.PlayerID
		p.winnings = res.Payouts[pid]

		switch {
		case p.winnings > 0:
			p.result = resultWon
		case p.folded:
			p.result = resultFolded
		default:
			p.result = resultLost
		}

		var msg *playable.LogMessage
		switch {
		case p.result == resultWon && p.reveal:
			msg = playable.SimpleLogMessage(pid, "{} won ${%d} with %s", p.winnings, p.handAnalyzer.GetRank())
			msg.Cards = p.handAnalyzer.GetBestCards()
		case p.result == resultWon:
			msg = playable.SimpleLogMessage(pid, "{} won ${%d}", p.winnings)
		case p.folded:
			msg = playable.SimpleLogMessage(pid, "{} folded and lost ${%d}", g.potManager.Contribution(pid))
		default:
			msg = playable.SimpleLogMessage(pid, "{} lost ${%d} with %s", g.potManager.Contribution(pid), p.handAnalyzer.GetRank())
			msg.Cards = p.handAnalyzer.GetBestCards()
		}

		logs = append(logs, msg)
	}

	g.sendLogs(logs)
	g.setPendingDealerState(DealerStateEnd, g.options.StreetDelay)
	return nil
}

// GetPlayerState returns the current state for the player
func (g *Game) GetPlayerState(playerID int64) (*playable.Response, error) {
	ps := g.getParticipantStateByPlayerID(playerID)
	return &playable.Response{
		Key:   "game",
		Value: g.Key(),
		Data:  ps,
	}, nil
}

// GetEndOfGameDetails returns details after the game finishes
func (g *Game) GetEndOfGameDetails() (gameOverDetails *playable.GameOverDetails, isGameOver bool) {
	if !g.finished {
		return nil, false
	}

	contributions := g.potManager.Contributions()
	balanceAdjustments := make(map[int64]int, len(contributions))
	payouts := make(map[int64]int)
	refunds := make(map[int64]int)
	busted := make([]int64, 0)

	for _, p := range g.participantOrder {
		id := p.PlayerID
		if g.aborted {
			refunds[id] = contributions[id]
			balanceAdjustments[id] = 0
			continue
		}

		payouts[id] = g.resolution.Payouts[id]
		balanceAdjustments[id] = payouts[id] - contributions[id]
		if g.stack(p) == 0 {
			busted = append(busted, id)
		}
	}

	return &playable.GameOverDetails{
		BalanceAdjustments: balanceAdjustments,
		Contributions:      contributions,
		Payouts:            payouts,
		Refunds:            refunds,
		Busted:             busted,
		Aborted:            g.aborted,
		Log:                g.gameLog(),
	}, true
}

// Name returns the name
func (g *Game) Name() string {
	return NameFromOptions(g.options)
}

// NameFromOptions returns the name from the provided options
func NameFromOptions(opts Options) string {
	if err := ValidateOptions(opts); err != nil {
		return ""
	}

	return fmt.Sprintf("No-Limit Texas Hold'em (${%d}/${%d})", opts.SmallBlind, opts.BigBlind)
}

// LogChan returns a channel log messages must be sent on
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}

// Key returns the key
func (g *Game) Key() string {
	return "texas-hold-em"
}
