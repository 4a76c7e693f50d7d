package main

import (
	"codeberg.org/mutker/screenwell/internal/logger"
	"codeberg.org/mutker/screenwell/internal/monitor"
	"github.com/spf13/cobra"
)

var monitorShorts = map[string]string{
	monitor.NameDistance:  "Warn when sitting too close to the screen",
	monitor.NameTension:   "Warn when the face tenses up",
	monitor.NameDaily:     "Count down the daily screen time budget",
	monitor.NameNight:     "Count down to bedtime",
	monitor.NameBreaks:    "Remind to rest the eyes every 20 minutes",
	monitor.NameBlueLight: "Warm the display in the evening",
}

// newMonitorCmd returns the subcommand running the named monitor alone.
func newMonitorCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: monitorShorts[name],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext()
			defer cancel()

			go a.watchSettings(ctx)

			if err := a.start(ctx, name); err != nil {
				logger.Error().Err(err).Str("monitor", name).Msg("error in main loop")
				return err
			}

			logger.Info().Msg("Exiting...")
			return nil
		},
	}
}

func init() {
	for _, name := range monitor.Names {
		rootCmd.AddCommand(newMonitorCmd(name))
	}
}
