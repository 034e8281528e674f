package commands

import (
	"log/slog"
	"time"

	"cattleprices/internal/components/chrono"
	"cattleprices/internal/components/serviceutil"
	"cattleprices/internal/components/telemetry"

	"github.com/spf13/cobra"
)

var watchNow *bool

func init() {
	watchNow = watchCmd.Flags().Bool("now", false, "Also run once right away instead of waiting for the schedule.")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [--now]",
	Short: "Scrapes on the configured cron schedule until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		app := setup(ctx)
		defer app.Close()

		runner := app.Runner(cmd.OutOrStdout())
		telemetry.InstrumentPerfStats(ctx, app.tel, time.Minute)

		cronner := chrono.NewStandardCron(app.clock, app.tel)
		err := cronner.Cron(app.config.Schedule, func() {
			summary := runner.Run(ctx)
			slog.Info("scheduled run finished", "records", summary.Records, "missing", len(summary.Missing))
		})
		if err != nil {
			serviceutil.Fatal("failed to schedule runs", err)
		}
		slog.Info("watching", "schedule", app.config.Schedule, "timezone", app.config.Timezone)

		if *watchNow {
			runner.Run(ctx)
		}

		<-ctx.Done()
		<-cronner.Stop().Done()
	},
}
