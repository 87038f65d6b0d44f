package cli

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/edakit/crossval"
	"github.com/YuminosukeSato/edakit/dataset"
	"github.com/YuminosukeSato/edakit/pkg/errors"
	"github.com/YuminosukeSato/edakit/pkg/log"
	"github.com/YuminosukeSato/edakit/plots"
)

func (a *app) newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Draw diagnostic figures into the figs directory",
	}
	cmd.AddCommand(a.newPlotCVCmd(), a.newPlotFeaturesCmd(), a.newPlotValidationCmd(), a.newPlotLearningCmd())
	return cmd
}

func (a *app) figPath(name string) string {
	return filepath.Join(a.cfg.FigsDir, name)
}

func (a *app) newPlotCVCmd() *cobra.Command {
	var (
		splits              int
		stratified, shuffle bool
	)
	cmd := &cobra.Command{
		Use:   "cv <dataset>",
		Short: "Show how cross-validation folds split the training data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.datasets().Load(args[0])
			if err != nil {
				return err
			}
			X, err := dataset.Matrix(ds.XTrain)
			if err != nil {
				return err
			}
			y, err := dataset.Labels(ds.YTrain)
			if err != nil {
				return err
			}
			var cv crossval.Splitter = crossval.NewKFold(splits, shuffle, a.cfg.RandomSeed)
			if stratified {
				cv = crossval.NewStratifiedKFold(splits, shuffle, a.cfg.RandomSeed)
			}
			p, err := plots.CVIndices(cv, X, y, plots.CVOptions{})
			if err != nil {
				return err
			}
			a.logger.Debug("Drew fold layout", log.DatasetKey, ds.Name, log.FoldsKey, cv.NSplits())
			path := a.figPath(fmt.Sprintf("%s_cv.png", ds.Name))
			if err := plots.Save(p, 6*vg.Inch, 3*vg.Inch, path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().IntVar(&splits, "splits", 5, "number of folds")
	cmd.Flags().BoolVar(&stratified, "stratified", false, "use stratified folds")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "shuffle before splitting")
	return cmd
}

func (a *app) newPlotFeaturesCmd() *cobra.Command {
	var (
		features              []string
		noLine, noHist, noBox bool
	)
	cmd := &cobra.Command{
		Use:   "features <dataset>",
		Short: "Line, histogram and box plots for each training feature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.datasets().Load(args[0])
			if err != nil {
				return err
			}
			opts := plots.DefaultFeatureStatsOptions()
			opts.Line, opts.Hist, opts.Box = !noLine, !noHist, !noBox
			grid, err := plots.FeatureStatistics(ds.XTrain, features, opts)
			if err != nil {
				return err
			}
			path := a.figPath(fmt.Sprintf("%s_features.png", ds.Name))
			if err := plots.SaveGrid(grid, 0, 0, path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&features, "features", nil, "features to plot, default all")
	cmd.Flags().BoolVar(&noLine, "no-line", false, "skip line plots")
	cmd.Flags().BoolVar(&noHist, "no-hist", false, "skip histograms")
	cmd.Flags().BoolVar(&noBox, "no-box", false, "skip box plots")
	return cmd
}

func (a *app) newPlotValidationCmd() *cobra.Command {
	var (
		opts plots.CurveOptions
		out  string
	)
	cmd := &cobra.Command{
		Use:   "validation <scores.csv>",
		Short: "Plot a validation curve from per-fold scores",
		Long: `Plot a validation curve from per-fold scores.

The CSV has the columns param, split and one column per fold whose name
starts with "fold". split is train or val; every param needs both.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := dataset.ReadCSVFile(args[0])
			if err != nil {
				return err
			}
			params, train, val, err := readScores(df)
			if err != nil {
				return err
			}
			p, best, err := plots.ValidationCurve(train, val, params, opts)
			if err != nil {
				return err
			}
			if out == "" {
				base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				out = a.figPath(base + "_validation.png")
			}
			if err := plots.Save(p, 6*vg.Inch, 4*vg.Inch, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nbest param %g, score %.4f\n", out, best.BestParam, best.BestScore)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Title, "title", "", "plot title")
	cmd.Flags().StringVar(&opts.XLabel, "xlabel", "", "x axis label")
	cmd.Flags().BoolVar(&opts.LogX, "logx", false, "log scale x axis")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output image")
	return cmd
}

func (a *app) newPlotLearningCmd() *cobra.Command {
	var (
		opts plots.CurveOptions
		out  string
	)
	cmd := &cobra.Command{
		Use:   "learning <scores.csv>",
		Short: "Plot a learning curve from per-fold scores",
		Long: `Plot a learning curve from per-fold scores.

The CSV has the same layout as for "plot validation", with the training set
size in the param column.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := dataset.ReadCSVFile(args[0])
			if err != nil {
				return err
			}
			sizes, train, val, err := readScores(df)
			if err != nil {
				return err
			}
			p, err := plots.LearningCurve(sizes, train, val, opts)
			if err != nil {
				return err
			}
			if out == "" {
				base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				out = a.figPath(base + "_learning.png")
			}
			if err := plots.Save(p, 6*vg.Inch, 4*vg.Inch, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Title, "title", "", "plot title")
	cmd.Flags().StringVar(&opts.XLabel, "xlabel", "", "x axis label")
	cmd.Flags().BoolVar(&opts.LogX, "logx", false, "log scale x axis")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output image")
	return cmd
}

// readScores groups fold scores by param in order of first appearance.
func readScores(df dataframe.DataFrame) (params []float64, train, val [][]float64, err error) {
	var folds []string
	for _, n := range df.Names() {
		if strings.HasPrefix(n, "fold") {
			folds = append(folds, n)
		}
	}
	if len(folds) == 0 {
		return nil, nil, nil, errors.NewValueError("readScores", "no fold columns")
	}
	paramCol, err := dataset.Column(df, "param")
	if err != nil {
		return nil, nil, nil, err
	}
	if !slices.Contains(df.Names(), "split") {
		return nil, nil, nil, errors.NewValueError("readScores", "column 'split' not found")
	}
	splitCol := df.Col("split").Records()
	foldCols := make([][]float64, len(folds))
	for j, f := range folds {
		if foldCols[j], err = dataset.Column(df, f); err != nil {
			return nil, nil, nil, err
		}
	}

	index := make(map[float64]int)
	trainRows := map[int][]float64{}
	valRows := map[int][]float64{}
	for i, p := range paramCol {
		k, ok := index[p]
		if !ok {
			k = len(params)
			index[p] = k
			params = append(params, p)
		}
		row := make([]float64, len(folds))
		for j := range folds {
			row[j] = foldCols[j][i]
		}
		switch strings.ToLower(splitCol[i]) {
		case "train":
			trainRows[k] = row
		case "val", "validation":
			valRows[k] = row
		default:
			return nil, nil, nil, errors.NewValueError("readScores", fmt.Sprintf("unknown split %q on row %d", splitCol[i], i+1))
		}
	}
	for k, p := range params {
		if trainRows[k] == nil || valRows[k] == nil {
			return nil, nil, nil, errors.NewValueError("readScores", fmt.Sprintf("param %g needs both train and val rows", p))
		}
		train = append(train, trainRows[k])
		val = append(val, valRows[k])
	}
	return params, train, val, nil
}
