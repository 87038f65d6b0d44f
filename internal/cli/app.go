// Package cli wires the edakit packages into the edakit command.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/edakit/core/config"
	"github.com/YuminosukeSato/edakit/dataset"
	"github.com/YuminosukeSato/edakit/eda"
	"github.com/YuminosukeSato/edakit/pkg/log"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger log.Logger
}

// NewRootCmd returns the edakit command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "edakit",
		Short:         "Exploratory data analysis helpers",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultFile, "config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (console or json)")

	root.AddCommand(
		a.newConfigCmd(),
		a.newHardwareCmd(),
		a.newDatasetCmd(),
		a.newEDACmd(),
		a.newExperimentCmd(),
		a.newPlotCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := log.ParseLevel(cfg.LogLevel)

	a.cfg = cfg
	if cfg.LogFormat == "json" {
		a.logger = log.SetupLogger(cmd.ErrOrStderr(), level)
	} else {
		a.logger = log.NewZerologLogger(cmd.ErrOrStderr(), level, true)
	}
	log.SetLogger(a.logger)
	a.logger.Debug("Loaded config", log.FilePathKey, a.configPath)
	return nil
}

func (a *app) datasets() *dataset.Store {
	return dataset.NewStore(a.cfg.DataDir, dataset.WithLogger(a.logger.With(log.ComponentKey, "dataset")))
}

func (a *app) edas() *eda.Store {
	return eda.NewStore(a.cfg.SummaryPath(), eda.WithLogger(a.logger.With(log.ComponentKey, "eda")))
}
