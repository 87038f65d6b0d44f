package plots

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/edakit/pkg/errors"
)

var (
	trainCurveColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	valCurveColor   = color.RGBA{R: 255, G: 127, B: 14, A: 255}
)

// CurveOptions labels a score curve.
type CurveOptions struct {
	Title  string
	XLabel string
	YLabel string
	// LogX draws the x axis on a log scale.
	LogX bool
}

// CurveResult is the best point of a validation curve.
type CurveResult struct {
	BestParam float64
	BestScore float64
}

// ValidationCurve plots the mean and population standard deviation of
// trainScores and valScores over folds. Rows are parameter values, columns
// are folds. The best parameter is the one with the highest mean
// validation score.
func ValidationCurve(trainScores, valScores [][]float64, paramRange []float64, opts CurveOptions) (p *plot.Plot, res CurveResult, err error) {
	defer errors.Recover(&err, "plots.ValidationCurve")

	k, err := checkScores("plots.ValidationCurve", trainScores, valScores, len(paramRange))
	if err != nil {
		return nil, CurveResult{}, err
	}
	if opts.Title == "" {
		opts.Title = fmt.Sprintf("Validation Curve (%d-Fold Cross Validation)", k)
	}
	if opts.XLabel == "" {
		opts.XLabel = "Parameter"
	}

	p, valMean, err := scoreCurves(paramRange, trainScores, valScores, "Training", "Cross-Validation", opts)
	if err != nil {
		return nil, CurveResult{}, err
	}
	best := floats.MaxIdx(valMean)
	return p, CurveResult{BestParam: paramRange[best], BestScore: valMean[best]}, nil
}

// LearningCurve plots train and test scores against training set sizes.
func LearningCurve(trainSizes []float64, trainScores, testScores [][]float64, opts CurveOptions) (p *plot.Plot, err error) {
	defer errors.Recover(&err, "plots.LearningCurve")

	if _, err := checkScores("plots.LearningCurve", trainScores, testScores, len(trainSizes)); err != nil {
		return nil, err
	}
	if opts.Title == "" {
		opts.Title = "Learning Curve"
	}
	if opts.XLabel == "" {
		opts.XLabel = "Training examples"
	}
	p, _, err = scoreCurves(trainSizes, trainScores, testScores, "Training", "Cross-Validation", opts)
	return p, err
}

// checkScores validates that both score matrices have one row per x value
// and the same number of folds, and returns the fold count.
func checkScores(op string, a, b [][]float64, n int) (int, error) {
	if n == 0 {
		return 0, errors.ErrEmptyData
	}
	if len(a) != n {
		return 0, errors.NewDimensionError(op, n, len(a), 0)
	}
	if len(b) != n {
		return 0, errors.NewDimensionError(op, n, len(b), 0)
	}
	k := len(a[0])
	if k == 0 {
		return 0, errors.ErrEmptyData
	}
	for i := range a {
		if err := errors.CheckFinite(op, a[i]); err != nil {
			return 0, err
		}
		if err := errors.CheckFinite(op, b[i]); err != nil {
			return 0, err
		}
		if len(a[i]) != k {
			return 0, errors.NewDimensionError(op, k, len(a[i]), 1)
		}
		if len(b[i]) != k {
			return 0, errors.NewDimensionError(op, k, len(b[i]), 1)
		}
	}
	return k, nil
}

// meanStd returns the per-row mean and population standard deviation.
func meanStd(scores [][]float64) (mean, std []float64) {
	mean = make([]float64, len(scores))
	std = make([]float64, len(scores))
	for i, row := range scores {
		m, v := stat.PopMeanVariance(row, nil)
		mean[i], std[i] = m, math.Sqrt(v)
	}
	return mean, std
}

func scoreCurves(xs []float64, a, b [][]float64, aName, bName string, opts CurveOptions) (*plot.Plot, []float64, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	if p.Y.Label.Text == "" {
		p.Y.Label.Text = "Score"
	}
	if opts.LogX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{}
	}
	p.Legend.Top = true
	p.Legend.Left = true

	var bMean []float64
	for _, s := range []struct {
		name   string
		scores [][]float64
		color  color.RGBA
	}{{aName, a, trainCurveColor}, {bName, b, valCurveColor}} {
		mean, std := meanStd(s.scores)
		band, line, points, err := curve(xs, mean, std, s.color)
		if err != nil {
			return nil, nil, err
		}
		p.Add(band, line, points)
		p.Legend.Add(s.name, line, points)
		bMean = mean
	}
	return p, bMean, nil
}

// curve builds the mean line with a marker per x value and the
// translucent mean ± std band.
func curve(xs, mean, std []float64, c color.RGBA) (*plotter.Polygon, *plotter.Line, *plotter.Scatter, error) {
	n := len(xs)
	pts := make(plotter.XYs, n)
	outline := make(plotter.XYs, 0, 2*n)
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: mean[i]}
		outline = append(outline, plotter.XY{X: xs[i], Y: mean[i] + std[i]})
	}
	for i := n - 1; i >= 0; i-- {
		outline = append(outline, plotter.XY{X: xs[i], Y: mean[i] - std[i]})
	}

	band, err := plotter.NewPolygon(outline)
	if err != nil {
		return nil, nil, nil, errors.WithStack(err)
	}
	band.Color = color.NRGBA{R: c.R, G: c.G, B: c.B, A: 50}
	band.LineStyle.Width = 0

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, nil, nil, errors.WithStack(err)
	}
	line.Color = c
	line.Width = vg.Points(1.5)
	points.Color = c
	points.Radius = vg.Points(2)
	points.Shape = draw.CircleGlyph{}
	return band, line, points, nil
}
