package plots

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/edakit/crossval"
	"github.com/YuminosukeSato/edakit/pkg/errors"
)

var (
	trainColor = color.RGBA{R: 59, G: 76, B: 192, A: 255}
	testColor  = color.RGBA{R: 180, G: 4, B: 38, A: 255}
)

// CVOptions adjusts CVIndices.
type CVOptions struct {
	// MarkerSize is the side of each sample marker. Defaults to 3pt.
	MarkerSize vg.Length
}

// CVIndices lays out the folds produced by cv on X and y: one row per fold
// showing train and test samples, and a final row colored by class.
func CVIndices(cv crossval.Splitter, X mat.Matrix, y []float64, opts CVOptions) (p *plot.Plot, err error) {
	defer errors.Recover(&err, "plots.CVIndices")

	n, _ := X.Dims()
	if len(y) != n {
		return nil, errors.NewDimensionError("plots.CVIndices", n, len(y), 0)
	}
	if n == 0 {
		return nil, errors.ErrEmptyData
	}
	size := opts.MarkerSize
	if size == 0 {
		size = vg.Points(3)
	}

	ym := mat.NewDense(n, 1, slices.Clone(y))
	folds := cv.Split(X, ym)
	k := len(folds)

	p = plot.New()
	for i, fold := range folds {
		labels, err := fold.Labels(n)
		if err != nil {
			return nil, err
		}
		row, err := sampleRow(float64(i)+0.5, labels, size, func(v float64) color.Color {
			if v == 1 {
				return testColor
			}
			return trainColor
		})
		if err != nil {
			return nil, err
		}
		p.Add(row)
	}

	classes := classIndex(y)
	classRow, err := sampleRow(float64(k)+0.5, y, size, func(v float64) color.Color {
		return plotutil.Color(classes[v])
	})
	if err != nil {
		return nil, err
	}
	p.Add(classRow)

	ticks := make([]plot.Tick, 0, k+1)
	for i := 0; i < k; i++ {
		ticks = append(ticks, plot.Tick{Value: float64(i) + 0.5, Label: fmt.Sprint(i)})
	}
	ticks = append(ticks, plot.Tick{Value: float64(k) + 0.5, Label: "class"})

	p.Title.Text = fmt.Sprintf("%s (k=%d)", cv.Name(), k)
	p.X.Label.Text = "Sample index"
	p.Y.Label.Text = "CV iteration"
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	p.X.Min, p.X.Max = 0, float64(n)
	p.Y.Min, p.Y.Max = -0.2, float64(k)+1.2

	p.Legend.Top = true
	p.Legend.Add("Training set", &plotter.Scatter{GlyphStyle: draw.GlyphStyle{Color: trainColor, Radius: size, Shape: draw.BoxGlyph{}}})
	p.Legend.Add("Testing set", &plotter.Scatter{GlyphStyle: draw.GlyphStyle{Color: testColor, Radius: size, Shape: draw.BoxGlyph{}}})
	return p, nil
}

// sampleRow draws one marker per sample at height y, colored by value.
func sampleRow(y float64, values []float64, size vg.Length, colorOf func(float64) color.Color) (*plotter.Scatter, error) {
	pts := make(plotter.XYs, len(values))
	for i := range values {
		pts[i] = plotter.XY{X: float64(i), Y: y}
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{Color: colorOf(values[i]), Radius: size, Shape: draw.BoxGlyph{}}
	}
	return s, nil
}

// classIndex maps each distinct label to its rank in sorted order.
func classIndex(y []float64) map[float64]int {
	labels := make([]float64, 0, len(y))
	for _, v := range y {
		if !math.IsNaN(v) {
			labels = append(labels, v)
		}
	}
	slices.Sort(labels)
	labels = slices.Compact(labels)
	out := make(map[float64]int, len(labels))
	for i, v := range labels {
		out[v] = i
	}
	return out
}
