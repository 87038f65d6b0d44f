package eda

import (
	"math"
	"slices"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/edakit/core/parallel"
	"github.com/YuminosukeSato/edakit/dataset"
	"github.com/YuminosukeSato/edakit/pkg/errors"
	"github.com/YuminosukeSato/edakit/pkg/log"
)

// explainedVarianceTarget is the cumulative variance ratio used for DR potential.
const explainedVarianceTarget = 0.95

// columnThreshold is the feature count above which column statistics are
// computed concurrently.
const columnThreshold = 8

// DatasetProfile holds the numeric facts behind the default summary columns.
type DatasetProfile struct {
	Features     int
	Samples      int
	Ratio        float64 // features / samples
	Missing      int
	MeanStd      float64
	ClassBalance float64 // min class count / max class count, NaN without targets
	Outliers     int     // values outside 1.5 IQR of their column
	MeanAbsSkew  float64
	MaxAbsCorr   float64
	Components95 int // principal components for 95% variance
}

// Param is one summary column and its value.
type Param struct {
	Column string
	Value  any
}

// Params returns the profile as summary columns in DefaultColumns order.
func (p *DatasetProfile) Params() []Param {
	var balance any
	if !math.IsNaN(p.ClassBalance) {
		balance = p.ClassBalance
	}
	return []Param{
		{"n features", p.Features},
		{"n samples", p.Samples},
		{"f/n ratio", p.Ratio},
		{"noise", p.Missing},
		{"stats", p.MeanStd},
		{"class balance", balance},
		{"outliers", p.Outliers},
		{"skewness", p.MeanAbsSkew},
		{"correlations", p.MaxAbsCorr},
		{"DR potential", p.Components95},
	}
}

type columnStats struct {
	missing  int
	std      float64
	skew     float64
	outliers int
}

// Profile computes a DatasetProfile from feature frame X and optional target
// frame y. Every column of X must be numeric.
func Profile(X dataframe.DataFrame, y *dataframe.DataFrame) (*DatasetProfile, error) {
	m, err := dataset.Matrix(X)
	if err != nil {
		return nil, err
	}
	rows, cols := m.Dims()
	if y != nil {
		if yr, _ := y.Dims(); yr != rows {
			return nil, errors.NewDimensionError("eda.Profile", rows, yr, 0)
		}
	}

	stats, err := parallel.Map(cols, columnThreshold, func(j int) (columnStats, error) {
		return describeColumn(mat.Col(nil, j, m)), nil
	})
	if err != nil {
		return nil, err
	}

	p := &DatasetProfile{
		Features:     cols,
		Samples:      rows,
		Ratio:        errors.SafeDivide(float64(cols), float64(rows)),
		ClassBalance: math.NaN(),
	}
	stds := make([]float64, 0, cols)
	skews := make([]float64, 0, cols)
	for _, s := range stats {
		p.Missing += s.missing
		p.Outliers += s.outliers
		if !math.IsNaN(s.std) {
			stds = append(stds, s.std)
		}
		if !math.IsNaN(s.skew) && !math.IsInf(s.skew, 0) {
			skews = append(skews, math.Abs(s.skew))
		}
	}
	if len(stds) > 0 {
		p.MeanStd = stat.Mean(stds, nil)
	}
	if len(skews) > 0 {
		p.MeanAbsSkew = stat.Mean(skews, nil)
	}

	complete := completeRows(m)
	if complete != nil {
		p.MaxAbsCorr = maxAbsCorrelation(complete)
		p.Components95 = componentsFor(complete, explainedVarianceTarget)
	}

	if y != nil {
		labels, err := dataset.Labels(*y)
		if err != nil {
			return nil, err
		}
		p.ClassBalance = classBalance(labels)
	}
	return p, nil
}

func describeColumn(x []float64) columnStats {
	vals := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	s := columnStats{missing: len(x) - len(vals), std: math.NaN(), skew: math.NaN()}
	if len(vals) < 2 {
		return s
	}
	s.std = stat.StdDev(vals, nil)
	s.skew = stat.Skew(vals, nil)

	sorted := slices.Clone(vals)
	sort.Float64s(sorted)
	q1 := stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	q3 := stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	iqr := q3 - q1
	lo, hi := q1-1.5*iqr, q3+1.5*iqr
	for _, v := range vals {
		if v < lo || v > hi {
			s.outliers++
		}
	}
	return s
}

// completeRows returns the rows of m without NaN, or nil when fewer than two
// remain.
func completeRows(m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	n := 0
	for i := 0; i < r; i++ {
		row := m.RawRowView(i)
		if floats.HasNaN(row) {
			continue
		}
		data = append(data, row...)
		n++
	}
	if n < 2 {
		return nil
	}
	return mat.NewDense(n, c, data)
}

func maxAbsCorrelation(m *mat.Dense) float64 {
	_, c := m.Dims()
	if c < 2 {
		return 0
	}
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, m, nil)
	best := 0.0
	for i := 0; i < c; i++ {
		for j := i + 1; j < c; j++ {
			if v := math.Abs(corr.At(i, j)); !math.IsNaN(v) && v > best {
				best = v
			}
		}
	}
	return best
}

func componentsFor(m *mat.Dense, target float64) int {
	var pc stat.PC
	if ok := pc.PrincipalComponents(m, nil); !ok {
		log.GetLoggerWithName("eda").Debug("PCA did not converge")
		return 0
	}
	vars := pc.VarsTo(nil)
	total := floats.Sum(vars)
	if total == 0 {
		return 0
	}
	cum := 0.0
	for i, v := range vars {
		cum += v
		if cum/total >= target {
			return i + 1
		}
	}
	return len(vars)
}

func classBalance(labels []float64) float64 {
	counts := make(map[float64]int)
	for _, l := range labels {
		if !math.IsNaN(l) {
			counts[l]++
		}
	}
	if len(counts) == 0 {
		return math.NaN()
	}
	lo, hi := math.MaxInt, 0
	for _, n := range counts {
		lo = min(lo, n)
		hi = max(hi, n)
	}
	return float64(lo) / float64(hi)
}

// ApplyProfile writes every profile value into the summary without
// overwriting cells that are already set.
func (e *EDA) ApplyProfile(p *DatasetProfile) error {
	for _, param := range p.Params() {
		if param.Value == nil {
			continue
		}
		if err := e.UpdateParam(param.Column, param.Value, false, true); err != nil {
			return err
		}
	}
	e.logger.Info("Applied profile", log.OperationKey, log.OperationProfile,
		log.FeaturesKey, p.Features, log.SamplesKey, p.Samples)
	return nil
}
