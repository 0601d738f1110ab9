package mcts

import (
	"math"

	"lukechampine.com/frand"
)

// Seed source for engines created without an explicit seed,
// by default draws from a cryptographically secure generator
var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return int64(frand.Uint64n(math.MaxInt64))
}

// Set custom seed generator function for random number generators in the engine,
// tests use it to make the search reproducible
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}
