package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Linux0Hat/physicium/internal/config"
	"github.com/Linux0Hat/physicium/internal/observability"
)

type app struct {
	configFile string
	dataDir    string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	root := newRootCommand()
	err := root.Execute()
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "physicium",
		Short:         "2d circle physics: gravity, orbits and collisions",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, cmd.Name() == "live")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLive(cmd, args)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data", "", "run directory (overrides data_dir)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides logger.level)")

	rootCmd.AddCommand(
		a.liveCommand(),
		a.runCommand(),
		a.renderCommand(),
		a.presetsCommand(),
		a.scenarioCommand(),
		a.runsCommand(),
		a.plotCommand(),
	)
	return rootCmd
}

// setup loads configuration and the logger. The live view owns the
// terminal, so it logs to the configured file only.
func (a *app) setup(cmd *cobra.Command, fileOnly bool) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.logLevel != "" {
		cfg.Logger.Level = a.logLevel
	}
	a.cfg = cfg

	if fileOnly || cmd.Name() == "physicium" {
		observability.InitializeFileOnly(cfg.Logger)
	} else {
		observability.InitializeLogger(cfg.Logger)
	}
	a.logger = observability.GetLogger()
	a.logger.Debug("configuration loaded",
		zap.String("config", a.configFile),
		zap.String("data_dir", cfg.DataDir))
	return nil
}

func (a *app) fail(msg string, err error) error {
	a.logger.Error(msg, zap.Error(err))
	return fmt.Errorf("%s: %w", msg, err)
}
