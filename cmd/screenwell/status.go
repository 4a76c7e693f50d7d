package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/screenwell/internal/ladder"
	"codeberg.org/mutker/screenwell/internal/logger"
	"codeberg.org/mutker/screenwell/internal/metrics"
	"codeberg.org/mutker/screenwell/internal/monitor"
	"codeberg.org/mutker/screenwell/internal/pid"
	"codeberg.org/mutker/screenwell/internal/settings"
	"codeberg.org/mutker/screenwell/internal/usage"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type monitorStatus struct {
	Name       string
	Enabled    bool
	Running    bool
	Calibrated bool
	Alerts     int
}

type statusReport struct {
	Used      int64
	Budget    string
	Remaining int64 // seconds, negative past the budget
	Bedtime   string
	ToBedtime int64 // seconds, negative past bedtime
	Monitors  []monitorStatus
}

// buildStatus gathers today's usage and the state of every monitor.
// alerts holds today's dispatched alerts per monitor, when known.
func buildStatus(s *settings.Store, records usage.Store, pidDir string, alerts map[string]int, now time.Time) (statusReport, error) {
	var report statusReport

	rec, found, err := records.Load()
	if err != nil {
		return report, err
	}
	if found && rec.SameDay(now) {
		report.Used = rec.SecondsUsed
	}

	report.Budget = s.String(settings.KeyDailyLimitTime)
	budget, err := ladder.ParseTimeOfDay(report.Budget)
	if err != nil {
		return report, err
	}
	report.Remaining = budget.Seconds() - report.Used

	report.Bedtime = s.String(settings.KeyNightLimitTime)
	bedtime, err := ladder.ParseTimeOfDay(report.Bedtime)
	if err != nil {
		return report, err
	}
	report.ToBedtime = int64(ladder.Default.Deadline(bedtime, now).Sub(now) / time.Second)

	for _, name := range monitor.Names {
		report.Monitors = append(report.Monitors, monitorStatus{
			Name:       name,
			Enabled:    s.Enabled(monitorFeatures[name]),
			Running:    pid.Running(pidDir, name),
			Calibrated: calibrated(s, name),
			Alerts:     alerts[name],
		})
	}

	return report, nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's screen time and monitor state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Open(cfg.SettingsFile)
		if err != nil {
			return err
		}
		records, err := usage.NewFileStore(cfg.UsageFile)
		if err != nil {
			return err
		}

		now := time.Now()
		report, err := buildStatus(s, records, cfg.DataDir, alertsSince(cfg.MetricsDB, ladder.TimeOfDay{}.On(now)), now)
		if err != nil {
			return err
		}

		printStatus(report)
		return nil
	},
}

// alertsSince totals dispatched alerts per monitor from the metrics
// database. Region suffixes ("distance/face") fold into their monitor.
func alertsSince(dbPath string, since time.Time) map[string]int {
	if _, err := os.Stat(dbPath); err != nil {
		return nil
	}

	log := logger.Component("metrics")
	repo, err := metrics.NewRepository(metrics.Config{DBPath: dbPath, Enabled: true}, log)
	if err != nil {
		log.Warn().Err(err).Msg("Metrics unavailable")
		return nil
	}
	defer repo.Close()

	summaries, err := repo.Summarize(since)
	if err != nil {
		log.Warn().Err(err).Msg("Metrics unavailable")
		return nil
	}

	alerts := make(map[string]int)
	for _, sum := range summaries {
		name, _, _ := strings.Cut(sum.Monitor, "/")
		alerts[name] += sum.Alerts
	}

	return alerts
}

func printStatus(report statusReport) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n%s\n\n", cyan("=== Screen Time ==="))

	fmt.Printf("  Used today: %s\n", ladder.Format(report.Used, ladder.Daily))
	if report.Remaining >= 0 {
		fmt.Printf("  Budget:     %s (%s left)\n", report.Budget, green(ladder.Format(report.Remaining, ladder.Daily)))
	} else {
		fmt.Printf("  Budget:     %s (%s over)\n", report.Budget, red(ladder.Format(report.Remaining, ladder.Daily)))
	}
	if report.ToBedtime >= 0 {
		fmt.Printf("  Bedtime:    %s (in %s)\n", report.Bedtime, ladder.Format(report.ToBedtime, ladder.Daily))
	} else {
		fmt.Printf("  Bedtime:    %s (%s ago)\n", report.Bedtime, red(ladder.Format(report.ToBedtime, ladder.Daily)))
	}

	fmt.Printf("\n%s\n", yellow("Monitors:"))
	for _, m := range report.Monitors {
		icon, state := gray("○"), gray("disabled")
		switch {
		case m.Running:
			icon, state = green("●"), green("running")
		case m.Enabled:
			icon, state = yellow("○"), yellow("stopped")
		}

		line := fmt.Sprintf("  %s %-10s %s", icon, m.Name, state)
		if !m.Calibrated {
			line += " " + red("(not calibrated)")
		}
		if m.Alerts > 0 {
			line += " " + gray(fmt.Sprintf("%d alert(s) today", m.Alerts))
		}
		fmt.Println(line)
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
