package crossval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestKFold(t *testing.T) {
	t.Run("Basic KFold split", func(t *testing.T) {
		n := 100
		X := mat.NewDense(n, 2, nil)
		y := mat.NewDense(n, 1, nil)
		for i := 0; i < n; i++ {
			X.Set(i, 0, float64(i))
			y.Set(i, 0, float64(i%2))
		}

		kf := NewKFold(5, false, 42)
		assert.Equal(t, 5, kf.NSplits())
		assert.Equal(t, "KFold", kf.Name())

		folds := kf.Split(X, y)
		require.Len(t, folds, 5)

		coverage := make(map[int]int)
		for i, fold := range folds {
			assert.Len(t, fold.TrainIndices, 80, "fold %d train size", i)
			assert.Len(t, fold.TestIndices, 20, "fold %d test size", i)

			testSet := make(map[int]bool)
			for _, idx := range fold.TestIndices {
				testSet[idx] = true
				coverage[idx]++
			}
			for _, idx := range fold.TrainIndices {
				assert.False(t, testSet[idx], "train index %d in test set", idx)
			}
		}
		for i := 0; i < n; i++ {
			assert.Equal(t, 1, coverage[i], "index %d coverage", i)
		}

		// unshuffled folds are consecutive blocks
		assert.Equal(t, []int{0, 1, 2, 3, 4}, folds[0].TestIndices[:5])
	})

	t.Run("Shuffle is seeded", func(t *testing.T) {
		X := mat.NewDense(50, 1, nil)
		a := NewKFold(5, true, 7).Split(X, nil)
		b := NewKFold(5, true, 7).Split(X, nil)
		plain := NewKFold(5, false, 7).Split(X, nil)

		assert.Equal(t, a, b)
		assert.NotEqual(t, plain[0].TestIndices, a[0].TestIndices)
	})

	t.Run("Uneven split", func(t *testing.T) {
		X := mat.NewDense(23, 1, nil)
		folds := NewKFold(5, false, 0).Split(X, nil)

		sizes := make([]int, len(folds))
		for i, f := range folds {
			sizes[i] = len(f.TestIndices)
		}
		assert.Equal(t, []int{5, 5, 5, 4, 4}, sizes)
	})

	t.Run("Invalid nSplits defaults to 5", func(t *testing.T) {
		assert.Equal(t, 5, NewKFold(1, false, 0).NSplits())
		assert.Equal(t, 5, NewStratifiedKFold(0, false, 0).NSplits())
	})
}

func TestStratifiedKFold(t *testing.T) {
	n := 90
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	// 60 samples of class 0, 30 of class 1
	for i := 0; i < n; i++ {
		if i%3 == 2 {
			y.Set(i, 0, 1)
		}
	}

	skf := NewStratifiedKFold(3, true, 1)
	assert.Equal(t, "StratifiedKFold", skf.Name())
	folds := skf.Split(X, y)
	require.Len(t, folds, 3)

	for i, fold := range folds {
		counts := map[float64]int{}
		for _, idx := range fold.TestIndices {
			counts[y.At(idx, 0)]++
		}
		assert.Equal(t, 20, counts[0], "fold %d class 0", i)
		assert.Equal(t, 10, counts[1], "fold %d class 1", i)
		assert.Len(t, fold.TrainIndices, 60)
	}

	again := NewStratifiedKFold(3, true, 1).Split(X, y)
	assert.Equal(t, folds, again, "stratified folds must be deterministic")
}

func TestFoldLabels(t *testing.T) {
	f := Fold{TrainIndices: []int{0, 2}, TestIndices: []int{1, 3}}
	labels, err := f.Labels(4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0, 1}, labels)

	_, err = f.Labels(2)
	assert.Error(t, err)
}
