package ports

import (
	"context"
	"math/rand/v2"
)

// RNGPort provides seeded random number generation for reproducible reports
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// Stream creates a deterministic RNG stream for one section of one report run.
	// The same runID, section and baseSeed always yield the same sequence.
	Stream(ctx context.Context, runID, section string, baseSeed int64) (*rand.Rand, error)
}
