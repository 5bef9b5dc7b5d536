// Package rng provides deterministic random streams keyed by report run and section.
package rng

import (
	"context"
	"math/rand/v2"

	"evalytics/ports"
)

// Adapter implements ports.RNGPort with PCG generators
type Adapter struct{}

var _ ports.RNGPort = (*Adapter)(nil)

// NewAdapter creates a new RNG adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return newStream(seed, hashString(name)), nil
}

// Stream combines runID, section and baseSeed into one seed. Empty components are skipped.
func (a *Adapter) Stream(ctx context.Context, runID, section string, baseSeed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seed := baseSeed
	if runID != "" {
		seed = int64(hashString(runID)) + seed
	}
	if section != "" {
		seed = int64(hashString(section)) + seed
	}
	return newStream(seed, 0), nil
}

func newStream(seed int64, salt uint32) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(salt)^0x9e3779b97f4a7c15))
}

// hashString is djb2
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c)
	}
	return hash
}
