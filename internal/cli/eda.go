package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/edakit/display"
	"github.com/YuminosukeSato/edakit/eda"
	"github.com/YuminosukeSato/edakit/pkg/errors"
	"github.com/YuminosukeSato/edakit/pkg/log"
)

func (a *app) newEDACmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eda",
		Short: "Read and update the EDA summary table",
	}
	cmd.AddCommand(a.newEDAShowCmd(), a.newEDASetCmd(), a.newEDAProfileCmd())
	return cmd
}

func (a *app) newEDAShowCmd() *cobra.Command {
	var maxWidth int
	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Print the summary table, or one row of it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.edas().LoadOrCreate()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				row := t.Row(args[0])
				if row == nil {
					return errors.Newf("eda %s not found", args[0])
				}
				t = row
			}
			return display.RenderRecords(cmd.OutOrStdout(), t.Records(), display.TableOptions{MaxWidth: maxWidth})
		},
	}
	cmd.Flags().IntVar(&maxWidth, "max-width", 30, "cell width, 0 for no limit")
	return cmd
}

func (a *app) newEDASetCmd() *cobra.Command {
	var overwrite, addColumn, save bool
	cmd := &cobra.Command{
		Use:   "set <name> <param> <value>",
		Short: "Set one summary value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := eda.New(args[0], a.edas())
			if err != nil {
				return err
			}
			if err := e.UpdateParam(args[1], args[2], overwrite, addColumn); err != nil {
				return err
			}
			if save {
				if err := e.Save(true); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), e)
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace a value that is already set")
	cmd.Flags().BoolVar(&addColumn, "add-column", false, "add the column when it does not exist")
	cmd.Flags().BoolVar(&save, "save", false, "write the row back to the summary file")
	return cmd
}

func (a *app) newEDAProfileCmd() *cobra.Command {
	var save, overwrite bool
	cmd := &cobra.Command{
		Use:   "profile <dataset>",
		Short: "Compute summary statistics of a dataset's training split",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.datasets().Load(args[0])
			if err != nil {
				return err
			}
			began := time.Now()
			p, err := eda.Profile(ds.XTrain, &ds.YTrain)
			if err != nil {
				return err
			}
			a.logger.Debug("Profiled dataset", log.DatasetKey, ds.Name, log.DurationMsKey, time.Since(began).Milliseconds())
			e, err := eda.New(ds.Name, a.edas())
			if err != nil {
				return err
			}
			if err := e.ApplyProfile(p); err != nil {
				return err
			}
			if save {
				if err := e.Save(overwrite); err != nil {
					return err
				}
			}
			return display.RenderRecords(cmd.OutOrStdout(), e.Summary.Records(), display.TableOptions{})
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "write the row to the summary file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing row when saving")
	return cmd
}
