package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatasetNotFoundError(t *testing.T) {
	cause := fmt.Errorf("open data/iris-Xtrain.csv: no such file or directory")
	err := NewDatasetNotFoundError("iris", "data", cause)

	assert.Equal(t,
		"edakit: could not load data for dataset iris. Please ensure data is available in data directory",
		err.Error())

	var nf *DatasetNotFoundError
	require.True(t, As(err, &nf))
	assert.Equal(t, "iris", nf.Name)
	assert.True(t, Is(err, cause), "cause should stay reachable")

	// スタックトレースの存在確認
	formatted := fmt.Sprintf("%+v", err)
	assert.Contains(t, formatted, "errors_test.go")
}

func TestNewAlreadyExistsError(t *testing.T) {
	err := NewAlreadyExistsError("eda", "wine")
	assert.Equal(t, "edakit: eda wine already exists. Use overwrite to replace it", err.Error())

	var ae *AlreadyExistsError
	require.True(t, As(err, &ae))
	assert.Equal(t, "eda", ae.Kind)
}

func TestNewParamNotFoundError(t *testing.T) {
	err := NewParamNotFoundError("wine", "kurtosis")
	assert.Equal(t, "edakit: parameter 'kurtosis' not found in summary of 'wine'", err.Error())

	var pe *ParamNotFoundError
	assert.True(t, As(err, &pe))
}

func TestNewDimensionError(t *testing.T) {
	tests := []struct {
		name string
		axis int
		want string
	}{
		{"rows", 0, "edakit: ValidationCurve: dimension mismatch on axis 0 (rows). Expected 10, got 9"},
		{"columns", 1, "edakit: ValidationCurve: dimension mismatch on axis 1 (columns). Expected 10, got 9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDimensionError("ValidationCurve", 10, 9, tt.axis)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestNewValidationErrorAndValueError(t *testing.T) {
	err := NewValidationError("kinds", "at least one plot kind must be enabled", 0)
	assert.Equal(t, "edakit: validation failed for parameter 'kinds': at least one plot kind must be enabled (got: 0)", err.Error())

	err = NewValueError("dataset.Matrix", "column 'species' is not numeric")
	var ve *ValueError
	require.True(t, As(err, &ve))
	assert.Equal(t, "dataset.Matrix", ve.Op)
}

func TestWarnRoutesToHandler(t *testing.T) {
	var got []string
	SetWarningHandler(func(w error) { got = append(got, w.Error()) })
	defer SetWarningHandler(func(w error) {})

	Warn(NewParamExistsWarning("wine", "noise", "low"))
	Warn(NewEDAWarning("wine", "not found"))

	require.Len(t, got, 2)
	assert.Equal(t, "parameter 'noise' already has value low in summary of 'wine'. Use overwrite to update. Skipping", got[0])
	assert.Equal(t, "eda 'wine': not found", got[1])
}

func TestWarnPrefersZerologFunc(t *testing.T) {
	handlerCalled := false
	SetWarningHandler(func(w error) { handlerCalled = true })
	defer SetWarningHandler(func(w error) {})

	var zl error
	SetZerologWarnFunc(func(w error) { zl = w })
	defer SetZerologWarnFunc(nil)

	w := NewEDAWarning("iris", "already exists")
	Warn(w)

	assert.False(t, handlerCalled)
	assert.Equal(t, w, zl)
}

func TestWrapAndIs(t *testing.T) {
	base := New("base")
	wrapped := Wrapf(Wrap(base, "reading edas.csv"), "eda %s", "wine")

	assert.True(t, Is(wrapped, base))
	assert.True(t, strings.HasPrefix(wrapped.Error(), "eda wine: reading edas.csv"))
}

func TestCheckFinite(t *testing.T) {
	assert.NoError(t, CheckFinite("scores", []float64{0.1, 0.9}))

	err := CheckFinite("scores", []float64{0.1, 0.0 / zero()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position 1")
}

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 0.0, SafeDivide(1, 0))
	assert.InDelta(t, 0.25, SafeDivide(1, 4), 1e-12)
}

func zero() float64 { return 0 }
