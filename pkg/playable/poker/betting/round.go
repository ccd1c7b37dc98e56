package betting

import (
	"errors"
	"fmt"

	"holdem-engine/pkg/playable/poker/action"
)

// Result describes an applied action
type Result struct {
	// Action is the action that was applied, which differs from the request when a short stack is converted
	Action action.Action
	// Amount is the street total for raises and all-ins, or the chips added for a call
	Amount int
	// Contributed is the number of chips that moved from the stack into the pot
	Contributed int
	// StreetClosed is true if no more action is possible on the street
	StreetClosed bool
	// SingleSurvivor is true if every other player folded
	SingleSurvivor bool
}

// Round tracks the betting for a single hand, street by street
// A Round is not safe for concurrent use
type Round struct {
	options Options

	// players are in seat order, starting left of the dealer
	players []*Player
	byID    map[int64]*Player

	street     Street
	currentBet int
	lastRaise  int

	opened bool
	toAct  int
}

// NewRound returns a betting round for the seats
// Seats must be in seat order, starting left of the dealer
func NewRound(seats []Seat, opts Options) (*Round, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	if len(seats) < 2 {
		return nil, errors.New("a round needs at least two players")
	}

	r := &Round{
		options:   opts,
		players:   make([]*Player, len(seats)),
		byID:      make(map[int64]*Player, len(seats)),
		lastRaise: opts.MinBet,
		toAct:     -1,
	}

	for i, seat := range seats {
		if seat.Stack <= 0 {
			return nil, fmt.Errorf("player %d does not have a stack", seat.ID)
		}

		if _, ok := r.byID[seat.ID]; ok {
			return nil, fmt.Errorf("player %d is seated twice", seat.ID)
		}

		p := &Player{
			ID:    seat.ID,
			Stack: seat.Stack,
		}

		r.players[i] = p
		r.byID[seat.ID] = p
	}

	return r, nil
}

// PostBlind posts a forced bet for the player
// A player who cannot cover the blind posts their stack and is all-in
// The bet to call is the full blind even when the poster is short
// Posting a blind does not count as acting
func (r *Round) PostBlind(id int64, amount int) (int, error) {
	if r.opened {
		return 0, ErrRoundOpened
	}

	if amount <= 0 {
		return 0, errors.New("blind must be greater than zero")
	}

	p, ok := r.byID[id]
	if !ok {
		return 0, fmt.Errorf("player %d is not in the round", id)
	}

	if !p.IsActive() {
		return 0, fmt.Errorf("player %d cannot post a blind", id)
	}

	if amount > r.currentBet {
		r.currentBet = amount
	}

	if amount > p.Stack {
		amount = p.Stack
	}

	p.contribute(amount)

	return amount, nil
}

// Open starts the action with the first player at or after firstIndex who can act
func (r *Round) Open(firstIndex int) {
	r.opened = true
	r.updateToAct(firstIndex)
}

// Street returns the current street
func (r *Round) Street() Street {
	return r.street
}

// CurrentBet returns the highest street bet
func (r *Round) CurrentBet() int {
	return r.currentBet
}

// LastRaise returns the size of the last full raise, or the minimum bet at the start of a street
func (r *Round) LastRaise() int {
	return r.lastRaise
}

// MinRaiseTo returns the smallest total street bet that is a full raise
func (r *Round) MinRaiseTo() int {
	return r.currentBet + r.lastRaise
}

// AmountToCall returns what the player must add to match the current bet
func (r *Round) AmountToCall(id int64) int {
	p, ok := r.byID[id]
	if !ok || r.currentBet <= p.StreetBet {
		return 0
	}

	return r.currentBet - p.StreetBet
}

// MaxRaiseTo returns the largest total street bet the player can make
func (r *Round) MaxRaiseTo(id int64) int {
	p, ok := r.byID[id]
	if !ok {
		return 0
	}

	return p.StreetBet + p.Stack
}

// CanRaise returns true if raising is open to the player
// Raising is closed to a player who already acted and was only raised by an incomplete all-in
func (r *Round) CanRaise(id int64) bool {
	p, ok := r.byID[id]
	if !ok || !p.IsActive() || p.acted {
		return false
	}

	if p.Stack <= r.currentBet-p.StreetBet {
		return false
	}

	// raising against players who cannot respond is pointless
	for _, other := range r.players {
		if other != p && other.IsActive() {
			return true
		}
	}

	return false
}

// LegalActions returns the actions the player may take right now
func (r *Round) LegalActions(id int64) []action.Action {
	p, ok := r.ToAct()
	if !ok || p.ID != id {
		return nil
	}

	actions := []action.Action{action.Fold}

	toCall := r.AmountToCall(id)
	if toCall == 0 {
		actions = append(actions, action.Check)
	} else if p.Stack > toCall {
		actions = append(actions, action.Call)
	}

	canRaise := r.CanRaise(id)
	if canRaise && p.StreetBet+p.Stack > r.MinRaiseTo() {
		actions = append(actions, action.Raise)
	}

	if canRaise || p.Stack <= toCall {
		actions = append(actions, action.AllIn)
	}

	return actions
}

// ToAct returns the player on the clock
func (r *Round) ToAct() (*Player, bool) {
	if r.toAct < 0 {
		return nil, false
	}

	p := *r.players[r.toAct]
	return &p, true
}

// Players returns a copy of the players in seat order
func (r *Round) Players() []Player {
	players := make([]Player, len(r.players))
	for i, p := range r.players {
		players[i] = *p
	}

	return players
}

// Player returns a copy of the player
func (r *Round) Player(id int64) (Player, bool) {
	p, ok := r.byID[id]
	if !ok {
		return Player{}, false
	}

	return *p, true
}

// IsSingleSurvivor returns true if every player but one has folded
func (r *Round) IsSingleSurvivor() bool {
	inHand := 0
	for _, p := range r.players {
		if p.InHand() {
			inHand++
		}
	}

	return inHand == 1
}

// Survivors returns the IDs of the players who have not folded, in seat order
func (r *Round) Survivors() []int64 {
	ids := make([]int64, 0, len(r.players))
	for _, p := range r.players {
		if p.InHand() {
			ids = append(ids, p.ID)
		}
	}

	return ids
}

// IsStreetClosed returns true if no more action is possible on the street
func (r *Round) IsStreetClosed() bool {
	if r.IsSingleSurvivor() {
		return true
	}

	active := 0
	pending := false
	matched := false
	for _, p := range r.players {
		if !p.IsActive() {
			continue
		}

		active++
		matched = p.StreetBet >= r.currentBet
		if !p.acted || !matched {
			pending = true
		}
	}

	switch active {
	case 0:
		return true
	case 1:
		// everybody else is all-in or folded
		return matched
	}

	return !pending
}

// IsOver returns true if no more betting can take place in the hand
func (r *Round) IsOver() bool {
	return r.street == Showdown || r.IsSingleSurvivor()
}

// CanBet returns true if at least two players can still make decisions
// When false, the remaining streets are dealt without betting
func (r *Round) CanBet() bool {
	active := 0
	for _, p := range r.players {
		if p.IsActive() {
			active++
		}
	}

	return active > 1
}

// Apply applies the action for the player
// amount is the total street bet for a raise and is ignored otherwise
// On error, the round is unchanged
func (r *Round) Apply(id int64, act action.Action, amount int) (Result, error) {
	if !r.opened || r.IsOver() || r.toAct < 0 {
		return Result{}, newParticipantError(ErrGameNotInProgress, "no action is open")
	}

	p, ok := r.byID[id]
	if !ok || r.players[r.toAct] != p {
		return Result{}, errNotYourTurn
	}

	var result Result
	switch act {
	case action.Fold:
		p.Status = StatusFolded
		p.acted = true
		result = Result{Action: action.Fold}
	case action.Check:
		if p.StreetBet != r.currentBet {
			return Result{}, newParticipantError(ErrIllegalAction, "you cannot check with an active bet")
		}

		p.acted = true
		result = Result{Action: action.Check}
	case action.Call:
		toCall := r.currentBet - p.StreetBet
		if toCall <= 0 {
			return Result{}, newParticipantError(ErrIllegalAction, "you cannot call without an active bet")
		}

		if toCall > p.Stack {
			if r.options.StackPolicy == RejectShortStack {
				return Result{}, newParticipantError(ErrInsufficientStack, "you need ${%d} to call but only have ${%d}", toCall, p.Stack)
			}

			result = r.allIn(p)
			break
		}

		p.contribute(toCall)
		p.acted = true
		result = Result{Action: action.Call, Amount: toCall, Contributed: toCall}
	case action.Raise:
		var err error
		result, err = r.raise(p, amount)
		if err != nil {
			return Result{}, err
		}
	case action.AllIn:
		if p.StreetBet+p.Stack > r.currentBet && !r.CanRaise(id) {
			return Result{}, newParticipantError(ErrIllegalAction, "you cannot raise")
		}

		result = r.allIn(p)
	default:
		return Result{}, newParticipantError(ErrIllegalAction, "you cannot perform %s", string(act))
	}

	r.updateToAct(r.toAct + 1)
	result.StreetClosed = r.IsStreetClosed()
	result.SingleSurvivor = r.IsSingleSurvivor()

	return result, nil
}

func (r *Round) raise(p *Player, to int) (Result, error) {
	if !r.CanRaise(p.ID) {
		return Result{}, newParticipantError(ErrIllegalAction, "you cannot raise")
	}

	if to <= r.currentBet {
		return Result{}, newParticipantError(ErrIllegalAction, "your raise of ${%d} must be greater than the current bet of ${%d}", to, r.currentBet)
	}

	max := p.StreetBet + p.Stack
	if to > max {
		if r.options.StackPolicy == RejectShortStack {
			return Result{}, newParticipantError(ErrInsufficientStack, "you cannot raise to ${%d} with ${%d}", to, max)
		}

		return r.allIn(p), nil
	}

	if to == max {
		return r.allIn(p), nil
	}

	if to-r.currentBet < r.lastRaise {
		return Result{}, newParticipantError(ErrIllegalAction, "raise must be to at least ${%d}", r.MinRaiseTo())
	}

	contributed := to - p.StreetBet
	p.contribute(contributed)
	r.fullRaise(p, to)

	return Result{Action: action.Raise, Amount: to, Contributed: contributed}, nil
}

func (r *Round) allIn(p *Player) Result {
	contributed := p.Stack
	p.contribute(contributed)
	p.acted = true

	if p.StreetBet > r.currentBet {
		if p.StreetBet-r.currentBet >= r.lastRaise {
			r.fullRaise(p, p.StreetBet)
		} else {
			// incomplete raise, players who already acted may only call or fold
			r.currentBet = p.StreetBet
		}
	}

	return Result{Action: action.AllIn, Amount: p.StreetBet, Contributed: contributed}
}

// fullRaise reopens the action for everyone but the raiser
func (r *Round) fullRaise(p *Player, to int) {
	r.lastRaise = to - r.currentBet
	r.currentBet = to

	for _, other := range r.players {
		other.acted = false
	}

	p.acted = true
}

// NextStreet advances to the next street once the current one closed
func (r *Round) NextStreet() error {
	if r.IsOver() {
		return newParticipantError(ErrGameNotInProgress, "the betting is over")
	}

	if !r.IsStreetClosed() {
		return ErrStreetNotClosed
	}

	r.street++
	r.currentBet = 0
	r.lastRaise = r.options.MinBet
	for _, p := range r.players {
		p.StreetBet = 0
		p.acted = false
	}

	if r.street == Showdown {
		r.toAct = -1
		return nil
	}

	r.updateToAct(0)
	return nil
}

// updateToAct moves the clock to the next player at or after start who owes a decision
func (r *Round) updateToAct(start int) {
	r.toAct = -1
	if r.IsStreetClosed() {
		return
	}

	n := len(r.players)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		p := r.players[idx]
		if p.IsActive() && (!p.acted || p.StreetBet < r.currentBet) {
			r.toAct = idx
			return
		}
	}
}
