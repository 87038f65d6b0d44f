package dataset

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/edakit/pkg/errors"
)

// ReadCSVFile loads a header-first CSV file into a dataframe with column
// types detected from the data.
func ReadCSVFile(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.WithStack(err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(df.Err, "parse %s", path)
	}
	return df, nil
}

// WriteCSVFile writes df with a header row and no index column. Float
// columns are written with the shortest representation that parses back to
// the same value.
func WriteCSVFile(path string, df dataframe.DataFrame) error {
	if df.Err != nil {
		return errors.Wrapf(df.Err, "write %s", path)
	}
	out := dataframe.LoadRecords(exactRecords(df),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if out.Err != nil {
		return errors.Wrapf(out.Err, "write %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := out.WriteCSV(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return f.Close()
}

// exactRecords is df.Records with float cells formatted without rounding.
func exactRecords(df dataframe.DataFrame) [][]string {
	records := df.Records()
	for j, name := range df.Names() {
		col := df.Col(name)
		if col.Type() != series.Float {
			continue
		}
		for i, v := range col.Float() {
			records[i+1][j] = formatFloat(v)
		}
	}
	return records
}

// formatFloat keeps a decimal point on integral values so the column is
// still read back as float.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// FromMatrix builds a float dataframe from m using names as column headers.
func FromMatrix(m mat.Matrix, names ...string) (dataframe.DataFrame, error) {
	r, c := m.Dims()
	if len(names) != c {
		return dataframe.DataFrame{}, errors.NewDimensionError("dataset.FromMatrix", c, len(names), 1)
	}
	cols := make([]series.Series, c)
	for j := 0; j < c; j++ {
		vals := make([]float64, r)
		for i := 0; i < r; i++ {
			vals[i] = m.At(i, j)
		}
		cols[j] = series.New(vals, series.Float, names[j])
	}
	df := dataframe.New(cols...)
	return df, df.Err
}

// Column returns the values of a numeric column. Int and Bool columns are
// converted to float64, missing values become NaN.
func Column(df dataframe.DataFrame, name string) ([]float64, error) {
	for _, n := range df.Names() {
		if n == name {
			col := df.Col(name)
			if col.Type() == series.String {
				return nil, errors.NewValueError("dataset.Column", fmt.Sprintf("column '%s' is not numeric", name))
			}
			return col.Float(), nil
		}
	}
	return nil, errors.NewValueError("dataset.Column", fmt.Sprintf("column '%s' not found", name))
}

// Matrix converts every column of df into a dense matrix.
func Matrix(df dataframe.DataFrame) (*mat.Dense, error) {
	r, c := df.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewValueError("dataset.Matrix", "empty dataframe")
	}
	out := mat.NewDense(r, c, nil)
	for j, name := range df.Names() {
		vals, err := Column(df, name)
		if err != nil {
			return nil, err
		}
		out.SetCol(j, vals)
	}
	return out, nil
}

// Labels returns the first column of a target dataframe. String labels are
// encoded as 0, 1, ... in order of first appearance.
func Labels(y dataframe.DataFrame) ([]float64, error) {
	names := y.Names()
	if len(names) == 0 {
		return nil, errors.NewValueError("dataset.Labels", "target dataframe has no columns")
	}
	col := y.Col(names[0])
	if col.Type() != series.String {
		return col.Float(), nil
	}
	codes := make(map[string]float64)
	out := make([]float64, col.Len())
	for i, v := range col.Records() {
		code, ok := codes[v]
		if !ok {
			code = float64(len(codes))
			codes[v] = code
		}
		out[i] = code
	}
	return out, nil
}
