package room

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// PitBoss is responsible for the dealers of every open table
// Tables share nothing, so their dealers run in parallel
type PitBoss struct {
	logger  logrus.FieldLogger
	mu      sync.RWMutex
	dealers map[string]*Dealer
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(logger logrus.FieldLogger) *PitBoss {
	return &PitBoss{
		logger:  logger,
		dealers: make(map[string]*Dealer),
	}
}

// OpenTable adds the dealer of a table
func (p *PitBoss) OpenTable(d *Dealer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	u := d.Table().UUID
	if _, found := p.dealers[u]; found {
		return fmt.Errorf("table %s already has a dealer", u)
	}

	p.logger.WithField("table", u).Debug("table opened")
	p.dealers[u] = d
	return nil
}

// CloseTable ends the dealer's shift and removes the table
// A table cannot close in the middle of a hand
func (p *PitBoss) CloseTable(tableUUID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	d, found := p.dealers[tableUUID]
	if !found {
		return fmt.Errorf("table not found: %s", tableUUID)
	}

	if d.InHand() {
		return ErrHandInProgress
	}

	d.EndShift()
	delete(p.dealers, tableUUID)
	p.logger.WithField("table", tableUUID).Debug("table closed")
	return nil
}

// Dealer returns the dealer for the table
func (p *PitBoss) Dealer(tableUUID string) (*Dealer, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	d, found := p.dealers[tableUUID]
	return d, found
}

// Dealers returns every dealer ordered by table name
func (p *PitBoss) Dealers() []*Dealer {
	p.mu.RLock()
	dealers := make([]*Dealer, 0, len(p.dealers))
	for _, d := range p.dealers {
		dealers = append(dealers, d)
	}
	p.mu.RUnlock()

	sort.Slice(dealers, func(i, j int) bool {
		ti, tj := dealers[i].Table(), dealers[j].Table()
		if ti.Name != tj.Name {
			return ti.Name < tj.Name
		}

		return ti.UUID < tj.UUID
	})

	return dealers
}

// StartShift starts the run loop of every dealer
func (p *PitBoss) StartShift(ctx context.Context) {
	for _, d := range p.Dealers() {
		d.StartShift(ctx)
	}
}

// EndShift stops the run loop of every dealer
func (p *PitBoss) EndShift() {
	for _, d := range p.Dealers() {
		d.EndShift()
	}
}

// RunAll calls fn for every table in parallel
// The first error cancels the context of the others and is returned
func (p *PitBoss) RunAll(ctx context.Context, fn func(ctx context.Context, d *Dealer) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, d := range p.Dealers() {
		d := d
		g.Go(func() error {
			if err := fn(ctx, d); err != nil {
				return fmt.Errorf("table %s: %w", d.Table().Name, err)
			}

			return nil
		})
	}

	return g.Wait()
}
