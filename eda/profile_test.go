package eda

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/edakit/pkg/errors"
)

func TestProfile(t *testing.T) {
	X := dataframe.New(
		series.New([]float64{1, 2, 3, 4, 100}, series.Float, "a"),
		series.New([]float64{2, 4, 6, 8, 200}, series.Float, "b"),
		series.New([]float64{1, 1, 1, 1, 1}, series.Float, "c"),
	)
	y := dataframe.New(series.New([]string{"x", "x", "y", "x", "y"}, series.String, "target"))

	p, err := Profile(X, &y)
	require.NoError(t, err)

	assert.Equal(t, 3, p.Features)
	assert.Equal(t, 5, p.Samples)
	assert.InDelta(t, 0.6, p.Ratio, 1e-12)
	assert.Equal(t, 0, p.Missing)
	assert.Equal(t, 2, p.Outliers)
	assert.InDelta(t, 1.0, p.MaxAbsCorr, 1e-9)
	assert.InDelta(t, 2.0/3.0, p.ClassBalance, 1e-12)
	assert.Equal(t, 1, p.Components95)
	assert.Greater(t, p.MeanStd, 0.0)
}

func TestProfileCountsMissingValues(t *testing.T) {
	X := dataframe.New(
		series.New([]float64{1, math.NaN(), 3, 4}, series.Float, "a"),
		series.New([]float64{4, 3, math.NaN(), 1}, series.Float, "b"),
	)
	p, err := Profile(X, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Missing)
	assert.True(t, math.IsNaN(p.ClassBalance))
	assert.InDelta(t, 1.0, p.MaxAbsCorr, 1e-9)

	for _, param := range p.Params() {
		if param.Column == "class balance" {
			assert.Nil(t, param.Value)
		}
	}
}

func TestProfileTargetRowMismatch(t *testing.T) {
	X := dataframe.New(series.New([]float64{1, 2, 3}, series.Float, "a"))
	y := dataframe.New(series.New([]float64{0, 1}, series.Float, "target"))
	_, err := Profile(X, &y)
	var de *errors.DimensionError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 3, de.Expected)
	assert.Equal(t, 2, de.Got)
}

func TestApplyProfileKeepsExistingValues(t *testing.T) {
	store, _ := newTestStore(t)
	captureWarnings(t)

	e, err := New("toy", store)
	require.NoError(t, err)
	w := captureWarnings(t)
	require.NoError(t, e.UpdateParam("n samples", "many", false, false))

	p := &DatasetProfile{Features: 2, Samples: 4, Ratio: 0.5, ClassBalance: math.NaN(), Components95: 1}
	require.NoError(t, e.ApplyProfile(p))

	v, _ := e.Summary.Get("toy", "n samples")
	assert.Equal(t, "many", v)
	v, _ = e.Summary.Get("toy", "n features")
	assert.Equal(t, "2", v)
	v, _ = e.Summary.Get("toy", "DR potential")
	assert.Equal(t, "1", v)
	assert.True(t, e.Summary.IsNA("toy", "class balance"))
	assert.Len(t, w.all(), 1)
}
