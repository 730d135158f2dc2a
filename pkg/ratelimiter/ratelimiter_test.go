package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeToken(t *testing.T) {
	tb := NewTokenBucket(3, 1)

	assert.True(t, tb.TakeToken())
	assert.True(t, tb.TakeToken())
	assert.True(t, tb.TakeToken())
	assert.False(t, tb.TakeToken(), "bucket should be empty")
}

func TestWaitCancelled(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	require.True(t, tb.TakeToken())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := tb.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitWithTokenAvailable(t *testing.T) {
	tb := NewTokenBucket(1, 1)

	err := tb.Wait(context.Background())
	assert.NoError(t, err)
}

func TestNonPositiveArguments(t *testing.T) {
	tb := NewTokenBucket(0, -1)
	assert.True(t, tb.TakeToken(), "capacity is clamped to one token")
}
