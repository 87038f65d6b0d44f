package plots

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/edakit/dataset"
	"github.com/YuminosukeSato/edakit/pkg/errors"
)

// FeatureStatsOptions selects the charts drawn for each feature.
type FeatureStatsOptions struct {
	Line bool
	Hist bool
	Box  bool
	// Bins is the histogram bin count. Defaults to 20.
	Bins int
}

// DefaultFeatureStatsOptions enables every chart.
func DefaultFeatureStatsOptions() FeatureStatsOptions {
	return FeatureStatsOptions{Line: true, Hist: true, Box: true, Bins: 20}
}

func (o FeatureStatsOptions) kinds() int {
	n := 0
	for _, on := range []bool{o.Line, o.Hist, o.Box} {
		if on {
			n++
		}
	}
	return n
}

// FeatureStatistics returns a grid with one row per feature and one column per
// enabled chart, in line, histogram, box order. An empty features list uses
// every column of df.
func FeatureStatistics(df dataframe.DataFrame, features []string, opts FeatureStatsOptions) (grid [][]*plot.Plot, err error) {
	defer errors.Recover(&err, "plots.FeatureStatistics")

	if opts.kinds() == 0 {
		return nil, errors.NewValidationError("opts", "at least one of line, hist or box must be enabled", opts)
	}
	if opts.Bins <= 0 {
		opts.Bins = 20
	}
	if len(features) == 0 {
		features = df.Names()
	}

	grid = make([][]*plot.Plot, 0, len(features))
	for i, f := range features {
		raw, err := dataset.Column(df, f)
		if err != nil {
			return nil, err
		}
		values := dropNaN(raw)
		if len(values) == 0 {
			return nil, errors.NewValueError("plots.FeatureStatistics", fmt.Sprintf("feature '%s' has no values", f))
		}
		c := plotutil.Color(i)

		row := make([]*plot.Plot, 0, opts.kinds())
		if opts.Line {
			p, err := linePlot(f, raw, c)
			if err != nil {
				return nil, err
			}
			row = append(row, p)
		}
		if opts.Hist {
			p, err := histPlot(f, values, opts.Bins, c)
			if err != nil {
				return nil, err
			}
			row = append(row, p)
		}
		if opts.Box {
			p, err := boxPlot(f, values, c)
			if err != nil {
				return nil, err
			}
			row = append(row, p)
		}
		grid = append(grid, row)
	}
	return grid, nil
}

// linePlot draws values against their row index. Missing values leave a
// gap in the index rather than shifting later rows.
func linePlot(name string, values []float64, c color.Color) (*plot.Plot, error) {
	l, err := plotter.NewLine(indexedXYs(values))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	l.Color = c
	p := plot.New()
	p.Title.Text = "Lineplot of " + name
	p.Add(l)
	return p, nil
}

func histPlot(name string, values []float64, bins int, c color.Color) (*plot.Plot, error) {
	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	h.FillColor = c
	h.LineStyle.Width = vg.Points(0.5)

	p := plot.New()
	p.Title.Text = "Histogram of " + name
	p.Add(h)

	width := 0.0
	if len(h.Bins) > 0 {
		width = h.Bins[0].Max - h.Bins[0].Min
	}
	if kde := densityCurve(values, float64(len(values))*width, 100); kde != nil {
		l, err := plotter.NewLine(kde)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		l.Color = color.Black
		p.Add(l)
	}
	return p, nil
}

func boxPlot(name string, values []float64, c color.Color) (*plot.Plot, error) {
	b, err := plotter.NewBoxPlot(vg.Points(20), 0, plotter.Values(values))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	b.Horizontal = true
	b.FillColor = c

	p := plot.New()
	p.Title.Text = "Boxplot of " + name
	p.Add(b)
	p.HideY()
	return p, nil
}

// densityCurve evaluates a Gaussian kernel density estimate of values on
// points evenly spaced over their range, multiplied by scale. Bandwidth
// follows Scott's rule. It returns nil when the values have no spread.
func densityCurve(values []float64, scale float64, points int) plotter.XYs {
	n := float64(len(values))
	sd := stat.StdDev(values, nil)
	if n < 2 || sd == 0 || math.IsNaN(sd) {
		return nil
	}
	bw := sd * math.Pow(n, -1.0/5)
	lo, hi := floats.Min(values), floats.Max(values)

	xs := make([]float64, points)
	floats.Span(xs, lo, hi)
	out := make(plotter.XYs, points)
	for i, x := range xs {
		sum := 0.0
		for _, v := range values {
			sum += distuv.Normal{Mu: v, Sigma: bw}.Prob(x)
		}
		out[i] = plotter.XY{X: x, Y: scale * sum / n}
	}
	return out
}

func indexedXYs(values []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: v})
	}
	return pts
}

func dropNaN(values []float64) []float64 {
	out := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
