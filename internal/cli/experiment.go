package cli

import (
	"bufio"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/edakit/experiment"
	"github.com/YuminosukeSato/edakit/pkg/errors"
)

func (a *app) newExperimentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Record a manual experiment run",
	}
	cmd.AddCommand(a.newExperimentRunCmd(), a.newExperimentCountdownCmd())
	return cmd
}

func (a *app) newExperiment(name string) (*experiment.Experiment, error) {
	return experiment.New(name, a.cfg.ExpLogDir, experiment.WithLogger(a.logger))
}

func (a *app) newExperimentRunCmd() *cobra.Command {
	var (
		steps []string
		notes bool
	)
	cmd := &cobra.Command{
		Use:   "run <name>",
		Short: "Confirm each step of a run and record notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.newExperiment(args[0])
			if err != nil {
				return err
			}
			in, out := bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout()
			fmt.Fprintf(out, "Created new experiment: %s\nLog: %s\n", e.Name, e.Path())

			for _, step := range steps {
				if _, err := e.AskConfirm(fmt.Sprintf("Was step %q completed?", step), step, in, out); err != nil {
					return err
				}
			}
			if notes {
				if _, err := e.RecordNote("", in, out); err != nil {
					return err
				}
			}
			contents, err := e.Contents()
			if err != nil {
				return err
			}
			fmt.Fprint(out, contents)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&steps, "steps", []string{"Setup"}, "steps to confirm, in order")
	cmd.Flags().BoolVar(&notes, "notes", true, "ask for notes after the last step")
	return cmd
}

func (a *app) newExperimentCountdownCmd() *cobra.Command {
	var label string
	cmd := &cobra.Command{
		Use:   "countdown <name> <seconds>",
		Short: "Log a timed phase of an experiment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.NewValidationError("seconds", "must be an integer", args[1])
			}
			e, err := a.newExperiment(args[0])
			if err != nil {
				return err
			}
			return e.Countdown(cmd.Context(), seconds, label, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&label, "label", "Countdown", "phase name written to the log")
	return cmd
}
