package rng

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededStreamIsReproducible(t *testing.T) {
	ctx := context.Background()
	r := New()

	a, err := r.SeededStream(ctx, "hot", 42)
	require.NoError(t, err)
	b, err := r.SeededStream(ctx, "hot", 42)
	require.NoError(t, err)
	assert.Equal(t, a.Int63(), b.Int63())

	c, err := r.SeededStream(ctx, "cold", 42)
	require.NoError(t, err)
	d, err := r.SeededStream(ctx, "hot", 42)
	require.NoError(t, err)
	assert.NotEqual(t, c.Int63(), d.Int63())
}

func TestSeededStreamHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().SeededStream(ctx, "hot", 1)
	assert.ErrorIs(t, err, context.Canceled)
}
