package parallel

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelizeCoversEveryIndexOnce(t *testing.T) {
	for _, n := range []int{0, 1, 7, 1000} {
		seen := make([]int32, n)
		Parallelize(n, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
			}
		})
		for i, c := range seen {
			assert.Equal(t, int32(1), c, "n=%d index %d", n, i)
		}
	}
}

func TestParallelizeWithThresholdSequential(t *testing.T) {
	calls := 0
	ParallelizeWithThreshold(5, 10, func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 5, end)
	})
	assert.Equal(t, 1, calls)
}

func TestMap(t *testing.T) {
	got, err := Map(100, 4, func(i int) (int, error) { return i * i, nil })
	require.NoError(t, err)
	require.Len(t, got, 100)
	assert.Equal(t, 81, got[9])

	boom := errors.New("boom")
	_, err = Map(10, 0, func(i int) (int, error) {
		if i == 3 {
			return 0, boom
		}
		return i, nil
	})
	assert.ErrorIs(t, err, boom)
}
