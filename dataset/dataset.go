// Package dataset stores train/test splits of tabular datasets as CSV files
// keyed by dataset name.
//
// A dataset named "wine" lives in the data directory as
//
//	wine-Xtrain.csv  wine-Xtest.csv  wine-ytrain.csv  wine-ytest.csv
//	wine-targetnames.csv (optional)  wine-notes.txt
//
// Every CSV has a header row and no index column.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/YuminosukeSato/edakit/pkg/errors"
	"github.com/YuminosukeSato/edakit/pkg/log"
)

// Split file suffixes.
const (
	XTrainSuffix      = "Xtrain"
	XTestSuffix       = "Xtest"
	YTrainSuffix      = "ytrain"
	YTestSuffix       = "ytest"
	TargetNamesSuffix = "targetnames"
	NotesSuffix       = "notes"
)

var partSuffixes = []string{
	XTrainSuffix, XTestSuffix, YTrainSuffix, YTestSuffix, TargetNamesSuffix, NotesSuffix,
}

// Split is the data handed to Store.Save. TargetNames is optional.
type Split struct {
	XTrain, XTest, YTrain, YTest dataframe.DataFrame
	TargetNames                  *dataframe.DataFrame
}

// Dataset is a loaded dataset. TargetNames is nil when the dataset has none.
type Dataset struct {
	Name  string
	Notes string
	Split
}

// Shape is a (rows, columns) pair, printed the way the notes file records it.
type Shape struct {
	Rows, Cols int
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d)", s.Rows, s.Cols)
}

func shapeOf(df dataframe.DataFrame) Shape {
	r, c := df.Dims()
	return Shape{Rows: r, Cols: c}
}

// Shapes returns the shapes of XTrain, XTest, YTrain and YTest in that order.
func (s Split) Shapes() [4]Shape {
	return [4]Shape{shapeOf(s.XTrain), shapeOf(s.XTest), shapeOf(s.YTrain), shapeOf(s.YTest)}
}

// Store reads and writes datasets under a directory.
type Store struct {
	dir    string
	logger log.Logger
	now    func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used by the store.
func WithLogger(l log.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithClock sets the clock used to stamp notes files.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string, opts ...StoreOption) *Store {
	s := &Store{
		dir:    dir,
		logger: log.GetLoggerWithName("dataset"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory the store reads from and writes to.
func (s *Store) Dir() string { return s.dir }

// Path returns the file path for one part of a dataset.
func (s *Store) Path(name, suffix string) string {
	ext := ".csv"
	if suffix == NotesSuffix {
		ext = ".txt"
	}
	return filepath.Join(s.dir, name+"-"+suffix+ext)
}

func (s *Store) ensureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrapf(err, "create data directory %s", s.dir)
	}
	return nil
}

// Load reads the notes and the four splits of name. Target names are loaded
// when present. A missing notes or split file yields a DatasetNotFoundError.
func (s *Store) Load(name string) (*Dataset, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}

	notes, err := os.ReadFile(s.Path(name, NotesSuffix))
	if err != nil {
		return nil, s.loadError(name, err)
	}

	ds := &Dataset{Name: name, Notes: string(notes)}
	parts := []struct {
		suffix string
		dst    *dataframe.DataFrame
	}{
		{XTrainSuffix, &ds.XTrain},
		{XTestSuffix, &ds.XTest},
		{YTrainSuffix, &ds.YTrain},
		{YTestSuffix, &ds.YTest},
	}
	for _, p := range parts {
		df, err := ReadCSVFile(s.Path(name, p.suffix))
		if err != nil {
			return nil, s.loadError(name, err)
		}
		*p.dst = df
	}

	targetNames, err := ReadCSVFile(s.Path(name, TargetNamesSuffix))
	switch {
	case err == nil:
		ds.TargetNames = &targetNames
	case !errors.IsNotExist(err):
		return nil, s.loadError(name, err)
	}

	shapes := ds.Shapes()
	s.logger.Info("Loaded dataset",
		log.DatasetKey, name,
		log.OperationKey, log.OperationLoad,
		log.SamplesKey, shapes[0].Rows+shapes[1].Rows,
		log.FeaturesKey, shapes[0].Cols,
	)
	return ds, nil
}

func (s *Store) loadError(name string, err error) error {
	if errors.IsNotExist(err) {
		return errors.NewDatasetNotFoundError(name, s.dir, err)
	}
	return errors.Wrapf(err, "load dataset %s", name)
}

// Exists reports whether any file of dataset name is present.
func (s *Store) Exists(name string) (bool, error) {
	for _, suffix := range partSuffixes {
		_, err := os.Stat(s.Path(name, suffix))
		if err == nil {
			return true, nil
		}
		if !errors.IsNotExist(err) {
			return false, errors.Wrapf(err, "check dataset %s", name)
		}
	}
	return false, nil
}

// List returns the names of all datasets that have a notes file, sorted.
func (s *Store) List() ([]string, error) {
	suffix := "-" + NotesSuffix + ".txt"
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+suffix))
	if err != nil {
		return nil, errors.Wrap(err, "list datasets")
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), suffix))
	}
	sort.Strings(names)
	return names, nil
}

// Save writes every split of data plus a notes file describing it. An
// existing dataset with the same name is only replaced when overwrite is set.
func (s *Store) Save(name string, data Split, notes string, overwrite bool) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	exists, err := s.Exists(name)
	if err != nil {
		return err
	}
	if exists && !overwrite {
		return errors.NewAlreadyExistsError("dataset", name)
	}

	parts := []struct {
		suffix string
		df     dataframe.DataFrame
	}{
		{XTrainSuffix, data.XTrain},
		{XTestSuffix, data.XTest},
		{YTrainSuffix, data.YTrain},
		{YTestSuffix, data.YTest},
	}
	if data.TargetNames != nil {
		parts = append(parts, struct {
			suffix string
			df     dataframe.DataFrame
		}{TargetNamesSuffix, *data.TargetNames})
	}
	for _, p := range parts {
		if err := WriteCSVFile(s.Path(name, p.suffix), p.df); err != nil {
			return errors.Wrapf(err, "save dataset %s", name)
		}
	}
	if data.TargetNames == nil {
		// a previous save may have left target names behind
		if err := os.Remove(s.Path(name, TargetNamesSuffix)); err != nil && !errors.IsNotExist(err) {
			return errors.Wrapf(err, "save dataset %s", name)
		}
	}

	if err := os.WriteFile(s.Path(name, NotesSuffix), []byte(s.notesText(name, data, notes)), 0o644); err != nil {
		return errors.Wrapf(err, "write notes for dataset %s", name)
	}

	shapes := data.Shapes()
	s.logger.Info("Saved dataset",
		log.DatasetKey, name,
		log.OperationKey, log.OperationSave,
		log.SamplesKey, shapes[0].Rows+shapes[1].Rows,
		log.FeaturesKey, shapes[0].Cols,
	)
	return nil
}

func (s *Store) notesText(name string, data Split, notes string) string {
	shapes := data.Shapes()
	total := float64(shapes[0].Rows + shapes[1].Rows)
	trainPct := errors.SafeDivide(float64(shapes[0].Rows), total) * 100
	testPct := errors.SafeDivide(float64(shapes[1].Rows), total) * 100

	var b strings.Builder
	fmt.Fprintf(&b, "Dataset: %s\n", name)
	fmt.Fprintf(&b, "X_train shape: %s\n", shapes[0])
	fmt.Fprintf(&b, "X_test shape: %s\n", shapes[1])
	fmt.Fprintf(&b, "y_train shape: %s\n", shapes[2])
	fmt.Fprintf(&b, "y_test shape: %s\n", shapes[3])
	fmt.Fprintf(&b, "Train: %.2f%% of total\n", trainPct)
	fmt.Fprintf(&b, "Test: %.2f%% of total\n", testPct)
	fmt.Fprintf(&b, "Notes: %s\n", notes)
	fmt.Fprintf(&b, "Created by dataset.Store.Save at %s\n", s.now().Format("2006-01-02 15:04:05"))
	return b.String()
}
