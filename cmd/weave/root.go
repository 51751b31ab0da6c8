package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/weave"
	"github.com/aretw0/weave/internal/config"
	"github.com/aretw0/weave/internal/demo"
	"github.com/aretw0/weave/internal/logging"
	"github.com/aretw0/weave/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "weave",
	Short: "Weave composes polynomial agents and glues them over contexts",
	Long: `Weave builds agents from an operad of composition operators, verifies
the operators' laws offline and glues context-local agents into global ones.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		level := c.Log.Level
		if logLevel != "" {
			level = logLevel
		}
		lvl, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		cfg = c
		logger = logging.NewWithFormat(cmd.ErrOrStderr(), lvl, c.Log.Format)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		tui.PrintBanner(cmd.OutOrStdout(), weave.Version)
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newEngine builds the engine every command shares: base operators plus the
// arithmetic domain, configured from the loaded settings.
func newEngine(opts ...weave.Option) (*weave.Engine, error) {
	arith, err := demo.Arith()
	if err != nil {
		return nil, err
	}
	base := []weave.Option{
		weave.WithDomain(arith),
		weave.WithLogger(logger),
		weave.WithFixCap(cfg.Engine.FixCap),
		weave.WithConcurrentPar(cfg.Engine.ConcurrentPar),
	}
	return weave.New(append(base, opts...)...)
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the configuration")
}
