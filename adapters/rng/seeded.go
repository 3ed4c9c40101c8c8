package rng

import (
	"context"
	"hash/fnv"
	"math/rand"

	"lottolab/ports"
)

// Seeded derives one math/rand stream per operation name.
type Seeded struct{}

// New returns the seeded RNG adapter.
func New() ports.RNGPort {
	return Seeded{}
}

// SeededStream mixes the operation name into the base seed so strategies
// drawing from the same seed do not share a sequence.
func (Seeded) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64()))), nil
}
