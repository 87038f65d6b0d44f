// Package crossval provides cross-validation splitters used to lay out fold
// diagnostics.
package crossval

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/edakit/pkg/errors"
)

// Splitter produces train/test index folds for a dataset.
type Splitter interface {
	Split(X, y mat.Matrix) []Fold
	NSplits() int
	Name() string
}

// Fold is one train/test partition of the sample indices.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold implements k-fold cross-validation.
type KFold struct {
	Splits     int
	Shuffle    bool
	RandomSeed int
}

// NewKFold creates a k-fold splitter. nSplits below 2 falls back to 5.
func NewKFold(nSplits int, shuffle bool, randomSeed int) *KFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &KFold{Splits: nSplits, Shuffle: shuffle, RandomSeed: randomSeed}
}

// NSplits returns the number of folds.
func (kf *KFold) NSplits() int { return kf.Splits }

// Name returns "KFold".
func (kf *KFold) Name() string { return "KFold" }

// Split assigns consecutive (optionally shuffled) blocks of indices to the
// test side of each fold. The first n%k folds get one extra sample.
func (kf *KFold) Split(X, _ mat.Matrix) []Fold {
	nSamples, _ := X.Dims()

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		shuffle(indices, kf.RandomSeed)
	}

	folds := make([]Fold, kf.Splits)
	foldSize := nSamples / kf.Splits
	remainder := nSamples % kf.Splits

	current := 0
	for i := 0; i < kf.Splits; i++ {
		testSize := foldSize
		if i < remainder {
			testSize++
		}
		test := slices.Clone(indices[current : current+testSize])
		folds[i] = Fold{
			TrainIndices: complement(nSamples, test),
			TestIndices:  test,
		}
		current += testSize
	}
	return folds
}

// StratifiedKFold keeps the class proportions of y in every fold.
type StratifiedKFold struct {
	Splits     int
	Shuffle    bool
	RandomSeed int
}

// NewStratifiedKFold creates a stratified splitter. nSplits below 2 falls back to 5.
func NewStratifiedKFold(nSplits int, shuffle bool, randomSeed int) *StratifiedKFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &StratifiedKFold{Splits: nSplits, Shuffle: shuffle, RandomSeed: randomSeed}
}

// NSplits returns the number of folds.
func (skf *StratifiedKFold) NSplits() int { return skf.Splits }

// Name returns "StratifiedKFold".
func (skf *StratifiedKFold) Name() string { return "StratifiedKFold" }

// Split distributes each class over the folds the way KFold distributes the
// whole dataset. Classes are visited in ascending label order.
func (skf *StratifiedKFold) Split(X, y mat.Matrix) []Fold {
	nSamples, _ := X.Dims()

	classIndices := make(map[float64][]int)
	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		classIndices[label] = append(classIndices[label], i)
	}
	labels := make([]float64, 0, len(classIndices))
	for label := range classIndices {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	if skf.Shuffle {
		for _, label := range labels {
			shuffle(classIndices[label], skf.RandomSeed)
		}
	}

	tests := make([][]int, skf.Splits)
	for _, label := range labels {
		indices := classIndices[label]
		nClass := len(indices)
		foldSize := nClass / skf.Splits
		remainder := nClass % skf.Splits

		current := 0
		for i := 0; i < skf.Splits; i++ {
			testSize := foldSize
			if i < remainder {
				testSize++
			}
			tests[i] = append(tests[i], indices[current:current+testSize]...)
			current += testSize
		}
	}

	folds := make([]Fold, skf.Splits)
	for i, test := range tests {
		slices.Sort(test)
		folds[i] = Fold{
			TrainIndices: complement(nSamples, test),
			TestIndices:  test,
		}
	}
	return folds
}

// Labels returns, for every sample, 1 when it is in the test side of fold and
// 0 when it is in the train side.
func (f Fold) Labels(nSamples int) ([]float64, error) {
	out := make([]float64, nSamples)
	for _, idx := range f.TestIndices {
		if idx < 0 || idx >= nSamples {
			return nil, errors.NewValueError("crossval.Fold.Labels", fmt.Sprintf("test index %d out of range [0, %d)", idx, nSamples))
		}
		out[idx] = 1
	}
	return out, nil
}

func complement(n int, test []int) []int {
	inTest := make([]bool, n)
	for _, idx := range test {
		inTest[idx] = true
	}
	train := make([]int, 0, n-len(test))
	for i := 0; i < n; i++ {
		if !inTest[i] {
			train = append(train, i)
		}
	}
	return train
}

func shuffle(indices []int, seed int) {
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	r.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
}
