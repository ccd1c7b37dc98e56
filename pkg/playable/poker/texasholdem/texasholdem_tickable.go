package texasholdem

import (
	"time"

	"holdem-engine/pkg/playable/poker/action"

	"github.com/sirupsen/logrus"
)

// Interval returns how often Tick() should be called
func (g *Game) Interval() time.Duration {
	return time.Second
}

// Tick tries to advance the game
// An error means the hand could not continue and was aborted
func (g *Game) Tick() (bool, error) {
	if g.finished {
		return false, nil
	}

	if g.pendingDealerState != nil {
		if !g.clock().Before(g.pendingDealerState.After) {
			g.dealerState = g.pendingDealerState.NextState
			g.pendingDealerState = nil

			if g.InBettingRound() {
				g.enterBettingRound()
			}

			return true, nil
		}

		return false, nil
	}

	var err error
	switch g.dealerState {
	case DealerStateStart:
		err = g.dealTwoCardsToEachParticipant()
	case DealerStatePreFlopBettingRound,
		DealerStateFlopBettingRound,
		DealerStateTurnBettingRound,
		DealerStateFinalBettingRound:
		return g.checkDecisionTimeout()
	case DealerStateDealFlop:
		err = g.dealStreet(3, DealerStateFlopBettingRound)
	case DealerStateDealTurn:
		err = g.dealStreet(1, DealerStateTurnBettingRound)
	case DealerStateDealRiver:
		err = g.dealStreet(1, DealerStateFinalBettingRound)
	case DealerStateRevealWinner:
		err = g.endGame()
	case DealerStateEnd:
		g.finished = true
		g.logger.WithField("payouts", g.resolution.Payouts).Info("hand finished")
	default:
		return false, nil
	}

	if err != nil {
		g.forceAbort(err)
		return true, err
	}

	return true, nil
}

// checkDecisionTimeout applies the default action once the player on the clock runs out of time
// The default is to check when possible and fold otherwise
func (g *Game) checkDecisionTimeout() (bool, error) {
	if g.options.DecisionTimeout <= 0 {
		return false, nil
	}

	if g.clock().Before(g.decisionStart.Add(g.options.DecisionTimeout)) {
		return false, nil
	}

	turn, err := g.GetCurrentTurn()
	if err != nil {
		return false, nil
	}

	act := action.Fold
	if g.round.AmountToCall(turn.PlayerID) == 0 {
		act = action.Check
	}

	g.logger.WithFields(logrus.Fields{
		"player": turn.PlayerID,
		"action": act,
	}).Info("decision timed out")

	if err := g.ApplyAction(turn.PlayerID, act, 0); err != nil {
		return false, err
	}

	return true, nil
}
