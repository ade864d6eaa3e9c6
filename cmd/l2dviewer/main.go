package main

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-l2d/common"
	"github.com/Carmen-Shannon/oxy-l2d/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "l2dviewer",
	Short: "Animated character model viewer",
	Long: `l2dviewer opens a window, hands its surface to a rendering worker and
switches models and motions from the keyboard.

Keys: 1-9 select a model, M plays the next motion, R reloads the current model,
Esc quits.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger, err = common.NewLogger(common.Coalesce(logLevel, cfg.Logging.Level))
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "l2d.yaml", "Configuration file (missing file means defaults)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(modelsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
