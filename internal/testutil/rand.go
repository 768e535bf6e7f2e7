package testutil

import "math/rand/v2"

// SeededRand returns a PCG-backed source that yields the same sequence for
// the same seed. It matches the source engine.WithSeed installs.
func SeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
