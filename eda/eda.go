// Package eda tracks exploratory data analysis runs in a summary table.
//
// The table lives in a single CSV (results/edas.csv by default) with one row
// per dataset and a fixed set of descriptive columns. An EDA value holds the
// working copy of one row until Save merges it back into the file.
package eda

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/YuminosukeSato/edakit/pkg/errors"
	"github.com/YuminosukeSato/edakit/pkg/log"
)

// Store reads and writes the summary table file.
type Store struct {
	path   string
	logger log.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used by the store.
func WithLogger(l log.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// NewStore returns a Store for the summary table at path.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{path: path, logger: log.GetLoggerWithName("eda")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the summary table location.
func (s *Store) Path() string { return s.path }

// LoadOrCreate loads the summary table, creating an empty one with the
// default columns when the file does not exist.
func (s *Store) LoadOrCreate() (*Table, error) {
	f, err := os.Open(s.path)
	switch {
	case err == nil:
		defer f.Close()
		s.logger.Debug("Loading summary table", log.FilePathKey, s.path, log.OperationKey, log.OperationLoad)
		t, err := ReadTable(f)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", s.path)
		}
		return t, nil
	case errors.IsNotExist(err):
		s.logger.Info("Creating summary table", log.FilePathKey, s.path)
		t := NewDefaultTable()
		if err := s.Write(t); err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, errors.Wrapf(err, "open %s", s.path)
	}
}

// Write replaces the summary table file with t.
func (s *Store) Write(t *Table) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", s.path)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", s.path)
	}
	return f.Close()
}

// Get returns the summary row for name.
//
// An existing row is returned as a one-row table unless createNew is set, in
// which case a warning is emitted and nil is returned. A missing row yields a
// fresh default table when createNew is set, and a warning plus nil
// otherwise.
func (s *Store) Get(name string, createNew bool) (*Table, error) {
	all, err := s.LoadOrCreate()
	if err != nil {
		return nil, err
	}
	switch {
	case all.Has(name) && createNew:
		errors.Warn(errors.NewEDAWarning(name, "can't create a new eda if one with the same name already exists"))
		return nil, nil
	case all.Has(name):
		s.logger.Info("Loading eda", log.EDAKey, name)
		return all.Row(name), nil
	case createNew:
		s.logger.Info("Creating eda", log.EDAKey, name)
		return NewDefaultTable(), nil
	default:
		errors.Warn(errors.NewEDAWarning(name, "not found. Request it with createNew to start a new one"))
		return nil, nil
	}
}

// EDA is the working summary of one dataset.
type EDA struct {
	Name    string
	Summary *Table

	store  *Store
	logger log.Logger
}

// New loads the summary row for name from store. When no row exists the EDA
// starts from an empty default table so that UpdateParam can populate it.
func New(name string, store *Store) (*EDA, error) {
	if name == "" {
		return nil, errors.NewValidationError("name", "eda name must not be empty", name)
	}
	summary, err := store.Get(name, false)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary = NewDefaultTable()
	}
	return &EDA{
		Name:    name,
		Summary: summary,
		store:   store,
		logger:  store.logger.With(log.EDAKey, name),
	}, nil
}

// UpdateParam sets param to value in the summary row.
//
//   - When the row does not exist it is created, along with the column.
//   - When row and column exist the value is written if the cell is NA or
//     overwrite is set; otherwise a ParamExistsWarning is emitted and the cell
//     is kept.
//   - When the row exists but the column does not, the column is added if
//     addColumn is set; otherwise a ParamNotFoundError is returned.
func (e *EDA) UpdateParam(param string, value any, overwrite, addColumn bool) error {
	v := FormatValue(value)
	switch {
	case !e.Summary.Has(e.Name):
		e.Summary.Set(e.Name, param, v)
	case e.Summary.HasColumn(param):
		if !e.Summary.IsNA(e.Name, param) && !overwrite {
			existing, _ := e.Summary.Get(e.Name, param)
			errors.Warn(errors.NewParamExistsWarning(e.Name, param, existing))
			return nil
		}
		e.Summary.Set(e.Name, param, v)
	case addColumn:
		e.logger.Info("Adding column", log.ParamKey, param)
		e.Summary.Set(e.Name, param, v)
	default:
		return errors.NewParamNotFoundError(e.Name, param)
	}
	e.logger.Debug("Updated param", log.OperationKey, log.OperationUpdate, log.ParamKey, param, log.ValueKey, v)
	return nil
}

// Save merges the summary into the table file. An existing row for the same
// name is replaced only when overwrite is set.
func (e *EDA) Save(overwrite bool) error {
	all, err := e.store.LoadOrCreate()
	if err != nil {
		return err
	}
	if all.Has(e.Name) {
		if !overwrite {
			return errors.NewAlreadyExistsError("eda", e.Name)
		}
		e.logger.Info("Overwriting existing eda")
		all.Drop(e.Name)
	}
	merged := all.Concat(e.Summary)
	if err := e.store.Write(merged); err != nil {
		return err
	}
	e.logger.Info("Saved eda", log.OperationKey, log.OperationSave, log.FilePathKey, e.store.path)
	return nil
}

func (e *EDA) String() string {
	if e.Summary == nil {
		return fmt.Sprintf("EDA: %s\nNo summary data available", e.Name)
	}
	return fmt.Sprintf("EDA: %s\nColumns: %q\nDatasets: %q", e.Name, e.Summary.Columns(), e.Summary.Names())
}

// FormatValue renders a summary value. nil is NA.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
