package rng

// Generator provides a simple random number
// The deck treats it as an opaque source and does not validate its fairness
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}
