package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_AllSucceed(t *testing.T) {
	items := make([]int, 250)
	for i := range items {
		items[i] = i
	}

	var mu sync.Mutex
	seen := make(map[int]bool)
	res, err := Run(context.Background(), items, 100, func(_ context.Context, i int) error {
		mu.Lock()
		defer mu.Unlock()
		seen[i] = true
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, Result{Attempted: 250, Succeeded: 250}, res)
	assert.Len(t, seen, 250)
}

func TestRun_BatchesAreSequential(t *testing.T) {
	items := make([]int, 30)
	for i := range items {
		items[i] = i
	}

	var inFlight, peak atomic.Int64
	var mu sync.Mutex
	maxBatchSeen := -1
	_, err := Run(context.Background(), items, 10, func(_ context.Context, i int) error {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}

		mu.Lock()
		defer mu.Unlock()
		b := i / 10
		if b < maxBatchSeen {
			return errors.New("batch started before the previous one finished")
		}
		maxBatchSeen = b
		return nil
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int64(10))
}

func TestRun_StopsAfterFailingBatch(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}
	boom := errors.New("boom")

	var calls atomic.Int64
	res, err := Run(context.Background(), items, 10, func(_ context.Context, i int) error {
		calls.Add(1)
		if i == 13 {
			return boom
		}
		return nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 20, res.Attempted)
	assert.Equal(t, 19, res.Succeeded)
	assert.Equal(t, int64(20), calls.Load())
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Run(ctx, []int{1, 2, 3}, 2, func(context.Context, int) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Attempted)
}

func TestChunks(t *testing.T) {
	chunks := Chunks([]string{"a", "b", "c", "d", "e"}, 2)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, chunks)
	assert.Empty(t, Chunks([]string{}, 2))
}
