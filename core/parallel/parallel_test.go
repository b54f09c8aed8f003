package parallel

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParallelizeCoversEveryItemOnce(t *testing.T) {
	for _, items := range []int{0, 1, 7, 1000} {
		hits := make([]int32, items)
		err := Parallelize(context.Background(), items, func(start, end int) error {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
			return nil
		})
		require.NoError(t, err)
		for i, h := range hits {
			assert.Equal(t, int32(1), h, "item %d of %d", i, items)
		}
	}
}

func TestParallelizeReportsPanic(t *testing.T) {
	err := Parallelize(context.Background(), 10, func(start, end int) error {
		if start == 0 {
			panic("boom")
		}
		return nil
	})
	var panicErr *errors.PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "boom", panicErr.PanicValue)
}

func TestParallelizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls int32
	err := Parallelize(ctx, 100, func(start, end int) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), calls)
}

func TestParallelizeWithThresholdSequential(t *testing.T) {
	var chunks int32
	err := ParallelizeWithThreshold(context.Background(), 5, 10, func(start, end int) error {
		atomic.AddInt32(&chunks, 1)
		assert.Equal(t, 0, start)
		assert.Equal(t, 5, end)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), chunks)
}
