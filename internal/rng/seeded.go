package rng

import (
	"math/rand"
	"sync"
)

// Seeded is a reproducible generator for simulations and tests
// It must never be used for real-money tables
type Seeded struct {
	lock sync.Mutex
	rng  *rand.Rand
	seed int64
}

// NewSeeded returns a generator seeded with seed
func NewSeeded(seed int64) *Seeded {
	return &Seeded{
		rng:  rand.New(rand.NewSource(seed)), // nolint:gosec
		seed: seed,
	}
}

// Intn returns a random number from 0 <= x < n
func (s *Seeded) Intn(n int) int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.rng.Intn(n)
}

// Seed returns the seed the generator was created with
func (s *Seeded) Seed() int64 {
	return s.seed
}
