package cli

import (
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/edakit/dataset"
	"github.com/YuminosukeSato/edakit/display"
	"github.com/YuminosukeSato/edakit/pkg/errors"
	"github.com/YuminosukeSato/edakit/pkg/log"
)

func (a *app) newDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Inspect stored datasets",
	}
	cmd.AddCommand(a.newDatasetListCmd(), a.newDatasetShowCmd(), a.newDatasetHTMLCmd())
	return cmd
}

func (a *app) newDatasetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List dataset names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := a.datasets().List()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func (a *app) newDatasetShowCmd() *cobra.Command {
	var maxRows, maxWidth int
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print the notes and training features of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.datasets().Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ds.Notes)
			return display.RenderTable(out, ds.XTrain, display.TableOptions{MaxRows: maxRows, MaxWidth: maxWidth})
		},
	}
	cmd.Flags().IntVar(&maxRows, "max-rows", 10, "rows to print, 0 for all")
	cmd.Flags().IntVar(&maxWidth, "max-width", 20, "cell width, 0 for no limit")
	return cmd
}

func (a *app) newDatasetHTMLCmd() *cobra.Command {
	var (
		outPath             string
		maxHeight, maxWidth int
	)
	cmd := &cobra.Command{
		Use:   "html <name> <split>",
		Short: "Render one split (Xtrain, Xtest, ytrain, ytest) as a scrollable HTML table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.datasets().Load(args[0])
			if err != nil {
				return err
			}
			df, err := pickSplit(ds, args[1])
			if err != nil {
				return err
			}
			a.logger.Debug("Rendering split", log.DatasetKey, ds.Name, log.SplitKey, args[1])
			page, err := display.RenderHTML(df, maxHeight, maxWidth)
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), page)
				return err
			}
			return errors.WithStack(os.WriteFile(outPath, []byte(page), 0o644))
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to file instead of stdout")
	cmd.Flags().IntVar(&maxHeight, "max-height", 300, "box height in pixels")
	cmd.Flags().IntVar(&maxWidth, "max-width", 600, "box width in pixels")
	return cmd
}

func pickSplit(ds *dataset.Dataset, name string) (dataframe.DataFrame, error) {
	switch name {
	case dataset.XTrainSuffix:
		return ds.XTrain, nil
	case dataset.XTestSuffix:
		return ds.XTest, nil
	case dataset.YTrainSuffix:
		return ds.YTrain, nil
	case dataset.YTestSuffix:
		return ds.YTest, nil
	case dataset.TargetNamesSuffix:
		if ds.TargetNames != nil {
			return *ds.TargetNames, nil
		}
	}
	return dataframe.DataFrame{}, errors.NewValidationError("split", "unknown or missing split", name)
}
