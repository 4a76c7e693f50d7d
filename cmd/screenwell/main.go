package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/screenwell/internal/config"
	"codeberg.org/mutker/screenwell/internal/errors"
	"codeberg.org/mutker/screenwell/internal/logger"
	"github.com/spf13/cobra"
)

var (
	cfg        *config.Config
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "screenwell",
	Short: "Screen health nudges",
	Long: `screenwell watches screen habits and raises desktop notifications:
sitting too close, facial tension, daily screen time, bedtime, eye breaks
and evening blue light.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Flags(), config.WithConfigFile(configFile))
		if err != nil {
			return err
		}

		logger.Init(cfg.LogLevel, logger.IsService())
		logger.Debug().Str("data_dir", cfg.DataDir).Msg("Config loaded")

		return nil
	},
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default searches the user and system config dirs)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var coded errors.Error
		if errors.As(err, &coded) {
			logger.ErrorWithCode(coded).Msg("screenwell failed")
		} else {
			logger.Error().Err(err).Msg("screenwell failed")
		}
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on the first SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go handleSignals(cancel)
	return ctx, cancel
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
