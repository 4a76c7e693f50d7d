package main

import (
	"fmt"

	"codeberg.org/mutker/screenwell/internal/monitor"
	"codeberg.org/mutker/screenwell/internal/settings"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate distance|tension",
	Short: "Store a camera baseline from a calibration image",
	Long: `Run the detector once on the calibration image in the data directory
and store the result as the healthy baseline.

  distance  calibrate_distance.png, exactly one face
  tension   relaxed_face.png, exactly two eyes`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{monitor.NameDistance, monitor.NameTension},
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		ctx, cancel := signalContext()
		defer cancel()

		if err := a.calibrate(ctx, name); err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		switch name {
		case monitor.NameDistance:
			fmt.Printf("%s face area %d\n", green("✓"), a.settings.Int(settings.KeyDistanceArea))
		case monitor.NameTension:
			ratios, _ := a.settings.Float64Slice(settings.KeyTensionRatios)
			fmt.Printf("%s eye ratios %v\n", green("✓"), ratios)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(calibrateCmd)
}
