package main

import (
	"codeberg.org/mutker/screenwell/internal/logger"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every enabled monitor",
	Long: `Run every monitor whose feature is enabled in the settings file, in one
process, until interrupted. Camera monitors without a baseline are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := signalContext()
		defer cancel()

		go a.watchSettings(ctx)

		if err := a.runEnabled(ctx); err != nil {
			logger.Error().Err(err).Msg("error in main loop")
			return err
		}

		logger.Info().Msg("Exiting...")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
