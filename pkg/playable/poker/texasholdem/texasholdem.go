package texasholdem

import (
	"errors"
	"fmt"
	"time"

	"holdem-engine/internal/rng"
	"holdem-engine/pkg/deck"
	"holdem-engine/pkg/playable"
	"holdem-engine/pkg/playable/poker/betting"
	"holdem-engine/pkg/playable/poker/potmanager"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrAbortMidStreet is returned when a hand is aborted while a betting round is open
var ErrAbortMidStreet = errors.New("cannot abort the hand during a betting round")

// ErrGameOver is returned when the hand has already ended
var ErrGameOver = errors.New("hand is over")

var errBettingRoundIsOver = errors.New("betting round is over")

// Game is a single hand of No-Limit Texas Hold'em
// A Game is not safe for concurrent use, the caller serializes access
type Game struct {
	id      uuid.UUID
	logger  logrus.FieldLogger
	options Options
	clock   func() time.Time

	deck     *deck.Deck
	deckHash string

	participants map[int64]*Participant
	// participantOrder is the seat order, starting left of the dealer
	participantOrder []*Participant
	order            []int64

	round      *betting.Round
	potManager *potmanager.PotManager
	community  deck.Hand

	dealerState        DealerState
	pendingDealerState *pendingDealerState
	decisionStart      time.Time
	lastAction         *lastAction

	pots       potmanager.Pots
	resolution *potmanager.Resolution

	aborted     bool
	abortReason string

	logChan chan []*playable.LogMessage

	// if true, GetEndOfGameDetails() returns
	finished bool
}

type lastAction struct {
	Action   string `json:"action"`
	PlayerID int64  `json:"playerId"`
	Amount   int    `json:"amount"`
}

// Options configures how Texas Hold'em is played
type Options struct {
	SmallBlind int
	BigBlind   int
	// DecisionTimeout is how long a player has to act. Zero disables the timer
	DecisionTimeout time.Duration
	// StreetDelay is the pause between streets
	StreetDelay time.Duration
	StackPolicy betting.StackPolicy
}

// DefaultOptions returns the default options for Texas Hold'em
func DefaultOptions() Options {
	return Options{
		SmallBlind:      25,
		BigBlind:        50,
		DecisionTimeout: time.Second * 30,
		StreetDelay:     time.Second,
		StackPolicy:     betting.ConvertToAllIn,
	}
}

// ValidateOptions returns an error if the options cannot be used for a hand
func ValidateOptions(opts Options) error {
	if opts.SmallBlind <= 0 {
		return errors.New("small blind must be greater than zero")
	}

	if opts.BigBlind < opts.SmallBlind {
		return errors.New("big blind must be at least the small blind")
	}

	if opts.DecisionTimeout < 0 {
		return errors.New("decision timeout cannot be negative")
	}

	if opts.StreetDelay < 0 {
		return errors.New("street delay cannot be negative")
	}

	return nil
}

// NewGame returns a new hand of Texas Hold'em
// players are in seat order and the player at dealerIndex has the button
func NewGame(logger logrus.FieldLogger, players []playable.Player, dealerIndex int, opts Options, gen rng.Generator) (*Game, error) {
	if err := ValidateOptions(opts); err != nil {
		return nil, err
	}

	n := len(players)
	if n < 2 {
		return nil, errors.New("there must be at least two players")
	}

	if dealerIndex < 0 || dealerIndex >= n {
		return nil, fmt.Errorf("dealer index %d is out of range", dealerIndex)
	}

	participants := make(map[int64]*Participant, n)
	participantOrder := make([]*Participant, n)
	order := make([]int64, n)
	seats := make([]betting.Seat, n)
	for i := 0; i < n; i++ {
		player := players[(dealerIndex+1+i)%n]
		id := player.GetPlayerID()

		if player.GetTableStake() <= 0 {
			return nil, fmt.Errorf("player %d does not have any chips", id)
		}

		if _, ok := participants[id]; ok {
			return nil, fmt.Errorf("player %d is seated twice", id)
		}

		p := newParticipant(id, player.GetTableStake())
		participants[id] = p
		participantOrder[i] = p
		order[i] = id
		seats[i] = betting.Seat{ID: id, Stack: p.tableStake}
	}

	round, err := betting.NewRound(seats, betting.Options{
		MinBet:      opts.BigBlind,
		StackPolicy: opts.StackPolicy,
	})
	if err != nil {
		return nil, err
	}

	d := deck.NewShuffled(gen)

	id := uuid.New()
	g := &Game{
		id:               id,
		logger:           logger.WithField("hand", id.String()),
		options:          opts,
		clock:            time.Now,
		deck:             d,
		deckHash:         d.HashCode(),
		participants:     participants,
		participantOrder: participantOrder,
		order:            order,
		round:            round,
		potManager:       potmanager.New(order),
		community:        make(deck.Hand, 0, 5),
		dealerState:      DealerStateStart,
		logChan:          make(chan []*playable.LogMessage, 256),
	}

	if err := g.postBlinds(); err != nil {
		return nil, err
	}

	g.logger.WithFields(logrus.Fields{
		"players": order,
		"dealer":  order[n-1],
	}).Debug("new hand")

	return g, nil
}

// postBlinds posts the small and big blind
// Heads-up, the dealer posts the small blind
func (g *Game) postBlinds() error {
	sb, bb := g.blindIndexes()

	logs := make([]*playable.LogMessage, 0, 2)
	for _, blind := range []struct {
		index  int
		amount int
		name   string
	}{
		{sb, g.options.SmallBlind, "small"},
		{bb, g.options.BigBlind, "big"},
	} {
		p := g.participantOrder[blind.index]
		posted, err := g.round.PostBlind(p.PlayerID, blind.amount)
		if err != nil {
			return err
		}

		if err := g.potManager.Contribute(p.PlayerID, posted); err != nil {
			return err
		}

		logs = append(logs, playable.SimpleLogMessage(p.PlayerID, "{} posted the %s blind of ${%d}", blind.name, posted))
	}

	g.sendLogs(logs)
	return nil
}

// blindIndexes returns the index of the small and big blind in the seat order
func (g *Game) blindIndexes() (int, int) {
	if len(g.order) == 2 {
		// the dealer sits last
		return 1, 0
	}

	return 0, 1
}

// firstToActPreFlop returns the index of the player left of the big blind
func (g *Game) firstToActPreFlop() int {
	_, bb := g.blindIndexes()
	return (bb + 1) % len(g.order)
}

// ID returns the unique ID of the hand
func (g *Game) ID() uuid.UUID {
	return g.id
}

// DealerState returns the current state of the hand
func (g *Game) DealerState() DealerState {
	return g.dealerState
}

// Community returns the community cards dealt so far
func (g *Game) Community() deck.Hand {
	return g.community.Clone()
}

// Contributions returns what each player has put into the pot so far
func (g *Game) Contributions() map[int64]int {
	return g.potManager.Contributions()
}

// DeckHash returns the hash of the shuffled deck before any card was dealt
func (g *Game) DeckHash() string {
	return g.deckHash
}

func (g *Game) dealTwoCardsToEachParticipant() error {
	if g.dealerState != DealerStateStart {
		return fmt.Errorf("cannot deal cards from state %d", g.dealerState)
	}

	for i := 0; i < 2; i++ {
		for _, p := range g.participantOrder {
			card, err := g.deck.Draw()
			if err != nil {
				return err
			}

			p.cards.AddCard(card)
		}
	}

	g.round.Open(g.firstToActPreFlop())
	g.setPendingDealerState(DealerStatePreFlopBettingRound, g.options.StreetDelay)
	return nil
}

// GetCurrentTurn returns the participant who is currently making a decision
// Returns an error unless the game is in a betting round
func (g *Game) GetCurrentTurn() (*Participant, error) {
	if !g.InBettingRound() {
		return nil, errors.New("not in a betting round")
	}

	p, ok := g.round.ToAct()
	if !ok {
		return nil, errBettingRoundIsOver
	}

	return g.participants[p.ID], nil
}

// InBettingRound returns true if the current state is in a betting round
func (g *Game) InBettingRound() bool {
	return g.dealerState == DealerStatePreFlopBettingRound ||
		g.dealerState == DealerStateFlopBettingRound ||
		g.dealerState == DealerStateTurnBettingRound ||
		g.dealerState == DealerStateFinalBettingRound
}

// enterBettingRound starts the decision clock, or moves on if nobody can act
func (g *Game) enterBettingRound() {
	g.decisionStart = g.clock()
	g.checkEndOfStreet()
}

// checkEndOfStreet queues the next state once the betting on the street is done
func (g *Game) checkEndOfStreet() {
	if g.round.IsSingleSurvivor() {
		g.setPendingDealerState(DealerStateRevealWinner, g.options.StreetDelay)
		return
	}

	if !g.round.IsStreetClosed() {
		return
	}

	g.setPendingDealerState(g.dealerState+1, g.options.StreetDelay)
}

// dealStreet deals the community cards for the next street
func (g *Game) dealStreet(cards int, next DealerState) error {
	if err := g.round.NextStreet(); err != nil {
		return err
	}

	drawn, err := g.deck.DrawN(cards)
	if err != nil {
		return err
	}

	g.community = append(g.community, drawn...)
	g.dealerState = next

	msg := playable.SimpleLogMessage(0, "the %s is dealt", g.round.Street())
	msg.Cards = drawn
	g.sendLogs([]*playable.LogMessage{msg})

	g.enterBettingRound()
	return nil
}

// sendLogs sends the messages without blocking the game
func (g *Game) sendLogs(logs []*playable.LogMessage) {
	select {
	case g.logChan <- logs:
	default:
		g.logger.WithField("messages", len(logs)).Warn("log channel is full, dropping messages")
	}
}
