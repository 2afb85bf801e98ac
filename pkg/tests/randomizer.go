package tests

import (
	"math/rand"
	"time"
)

// Randomizer source for property tests. Seed is logged by the caller so a
// failing run can be replayed with NewSeededRandomizer.
type Randomizer struct {
	Seed    int64
	Float64 func() float64
}

func NewRandomizer() Randomizer {
	return NewSeededRandomizer(time.Now().UnixNano())
}

func NewSeededRandomizer(seed int64) Randomizer {
	random := rand.New(rand.NewSource(seed)) //nolint:gosec // for tests

	return Randomizer{
		Seed:    seed,
		Float64: random.Float64,
	}
}

// FloatIn returns a value in [lo, hi).
func (r Randomizer) FloatIn(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}
