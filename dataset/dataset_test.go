package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/edakit/pkg/errors"
	"github.com/YuminosukeSato/edakit/pkg/log"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 30, 0, time.UTC) }

func newTestStore(t *testing.T) (*Store, *log.TestLogger) {
	t.Helper()
	logger, _ := log.NewTestLogger(log.LevelDebug)
	dir := filepath.Join(t.TempDir(), "data")
	return NewStore(dir, WithLogger(logger), WithClock(fixedNow)), logger
}

func sampleSplit(t *testing.T) Split {
	t.Helper()
	xTrain, err := FromMatrix(mat.NewDense(4, 2, []float64{
		5.1, 3.5,
		4.9, 3.0,
		6.2, 2.9,
		5.9, 3.0,
	}), "sepal_length", "sepal_width")
	require.NoError(t, err)
	xTest, err := FromMatrix(mat.NewDense(1, 2, []float64{6.7, 3.1}), "sepal_length", "sepal_width")
	require.NoError(t, err)
	yTrain, err := FromMatrix(mat.NewDense(4, 1, []float64{0, 0, 1, 1}), "target")
	require.NoError(t, err)
	yTest, err := FromMatrix(mat.NewDense(1, 1, []float64{1}), "target")
	require.NoError(t, err)
	return Split{XTrain: xTrain, XTest: xTest, YTrain: yTrain, YTest: yTest}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, logger := newTestStore(t)
	data := sampleSplit(t)
	names := dataframe.LoadRecords([][]string{{"name"}, {"setosa"}, {"versicolor"}})
	data.TargetNames = &names

	require.NoError(t, store.Save("iris", data, "two features only", false))

	ds, err := store.Load("iris")
	require.NoError(t, err)

	assert.Equal(t, data.Shapes(), ds.Shapes())
	require.NotNil(t, ds.TargetNames)
	assert.Equal(t, [][]string{{"name"}, {"setosa"}, {"versicolor"}}, ds.TargetNames.Records())

	got, err := Matrix(ds.XTrain)
	require.NoError(t, err)
	want, err := Matrix(data.XTrain)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(want, got, 1e-9))
	assert.Equal(t, []string{"sepal_length", "sepal_width"}, ds.XTrain.Names())

	assert.True(t, logger.ContainsMessage("Saved dataset"))
	assert.True(t, logger.ContainsField(log.DatasetKey, "iris"))
	assert.True(t, logger.ContainsField(log.SamplesKey, 5.0))
}

func TestSaveWritesNotes(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Save("iris", sampleSplit(t), "two features only", false))

	notes, err := os.ReadFile(store.Path("iris", NotesSuffix))
	require.NoError(t, err)

	want := strings.Join([]string{
		"Dataset: iris",
		"X_train shape: (4, 2)",
		"X_test shape: (1, 2)",
		"y_train shape: (4, 1)",
		"y_test shape: (1, 1)",
		"Train: 80.00% of total",
		"Test: 20.00% of total",
		"Notes: two features only",
		"Created by dataset.Store.Save at 2024-03-09 14:05:30",
		"",
	}, "\n")
	assert.Equal(t, want, string(notes))

	ds, err := store.Load("iris")
	require.NoError(t, err)
	assert.Equal(t, want, ds.Notes)
	assert.Nil(t, ds.TargetNames)
}

func TestSaveRefusesOverwrite(t *testing.T) {
	store, _ := newTestStore(t)
	data := sampleSplit(t)
	require.NoError(t, store.Save("iris", data, "", false))

	err := store.Save("iris", data, "", false)
	require.Error(t, err)
	var ae *errors.AlreadyExistsError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "dataset", ae.Kind)

	assert.NoError(t, store.Save("iris", data, "again", true))

	// a dataset whose name is a prefix of another is still distinct
	exists, err := store.Exists("iri")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSaveLoadRoundTripKeepsPrecision(t *testing.T) {
	store, _ := newTestStore(t)
	data := sampleSplit(t)
	values := []float64{0.123456789, 1e-9, 1.23456789e+07, 2, math.NaN()}
	x, err := FromMatrix(mat.NewDense(len(values), 1, values), "x")
	require.NoError(t, err)
	data.XTrain = x

	require.NoError(t, store.Save("precise", data, "", false))
	ds, err := store.Load("precise")
	require.NoError(t, err)

	got, err := Column(ds.XTrain, "x")
	require.NoError(t, err)
	require.Len(t, got, len(values))
	for i, want := range values[:4] {
		assert.Equal(t, want, got[i], "row %d", i)
	}
	assert.True(t, math.IsNaN(got[4]))
}

func TestSaveIgnoresDatasetsSharingPrefix(t *testing.T) {
	store, _ := newTestStore(t)
	data := sampleSplit(t)
	require.NoError(t, store.Save("wine-red", data, "", false))

	exists, err := store.Exists("wine")
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, store.Save("wine", data, "", false))

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"wine", "wine-red"}, names)
}

func TestSaveOverwriteDropsStaleTargetNames(t *testing.T) {
	store, _ := newTestStore(t)
	data := sampleSplit(t)
	names := dataframe.LoadRecords([][]string{{"name"}, {"setosa"}, {"versicolor"}})
	data.TargetNames = &names
	require.NoError(t, store.Save("iris", data, "", false))

	data.TargetNames = nil
	require.NoError(t, store.Save("iris", data, "", true))

	_, err := os.Stat(store.Path("iris", TargetNamesSuffix))
	assert.True(t, os.IsNotExist(err))
	ds, err := store.Load("iris")
	require.NoError(t, err)
	assert.Nil(t, ds.TargetNames)
}

func TestLoadMissingDataset(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Load("ghost")
	require.Error(t, err)
	var nf *errors.DatasetNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "ghost", nf.Name)
	assert.Equal(t, store.Dir(), nf.Dir)

	// the data directory is created on load
	_, statErr := os.Stat(store.Dir())
	assert.NoError(t, statErr)
}

func TestLoadMissingSplit(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Save("iris", sampleSplit(t), "", false))
	require.NoError(t, os.Remove(store.Path("iris", YTestSuffix)))

	_, err := store.Load("iris")
	var nf *errors.DatasetNotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestList(t *testing.T) {
	store, _ := newTestStore(t)
	data := sampleSplit(t)
	require.NoError(t, store.Save("wine", data, "", false))
	require.NoError(t, store.Save("iris", data, "", false))

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"iris", "wine"}, names)
}

func TestColumnAndLabels(t *testing.T) {
	df := dataframe.LoadRecords([][]string{
		{"x", "species"},
		{"1.5", "setosa"},
		{"2.5", "virginica"},
		{"3.5", "setosa"},
	})

	x, err := Column(df, "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, x)

	_, err = Column(df, "species")
	assert.Error(t, err)
	_, err = Column(df, "missing")
	assert.Error(t, err)
	_, err = Matrix(df)
	assert.Error(t, err)

	labels, err := Labels(df.Select([]string{"species"}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0}, labels)
}

func TestFromMatrixNameMismatch(t *testing.T) {
	_, err := FromMatrix(mat.NewDense(2, 2, nil), "only-one")
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))
}
