package cli

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/edakit/display"
)

func (a *app) newHardwareCmd() *cobra.Command {
	var smi string
	cmd := &cobra.Command{
		Use:   "hw",
		Short: "Show CPU, memory and GPU information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := display.CollectHardware(cmd.Context(), display.SystemProbe{SMIPath: smi})
			if err != nil {
				return err
			}
			return display.WriteHardware(cmd.OutOrStdout(), info)
		},
	}
	cmd.Flags().StringVar(&smi, "nvidia-smi", "", "path to nvidia-smi")
	return cmd
}
