package commands

import (
	"leaderboard-sync/internal/components/chrono"
	"leaderboard-sync/internal/refresh"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

const (
	report_watch_refresh = "watch.refresh"
)

var (
	watchDataDir     string
	watchFormat      string
	watchOnly        []string
	watchSchedule    string
	watchImmediately bool
)

func init() {
	watchCmd.Flags().StringVar(&watchDataDir, "data-dir", "data", "Output directory.")
	watchCmd.Flags().StringVar(&watchFormat, "format", refresh.FormatText, "Report format, text or table.")
	watchCmd.Flags().StringSliceVar(&watchOnly, "only", nil, "Only refresh the given leaderboard files.")
	watchCmd.Flags().StringVar(&watchSchedule, "cron", "0 */6 * * *", "When to refresh, standard 5 field cron syntax.")
	watchCmd.Flags().BoolVar(&watchImmediately, "now", false, "Also refresh once at startup.")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [--cron <spec>] [--data-dir <dir>]",
	Short: "Refreshes the leaderboard files on a schedule until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, err := selectSpecs(watchOnly)
		if err != nil {
			return err
		}
		err = checkFormat(watchFormat)
		if err != nil {
			return err
		}
		err = checkDumpDir(cfg.DumpHttpDir, watchDataDir)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		job := func() {
			err := runRefresh(ctx, cfg, watchDataDir, specs, watchFormat, cmd.OutOrStdout(), tel)
			if err != nil {
				tel.ReportBroken(report_watch_refresh, err)
			}
		}

		scheduler := chrono.NewStandardCron(tel, time.Local)
		err = scheduler.Cron(watchSchedule, job)
		if err != nil {
			return err
		}

		if watchImmediately {
			job()
		}

		scheduler.Start()
		slog.Info("waiting for the next refresh", "at", scheduler.Next())
		<-ctx.Done()
		slog.Info("stopping, waiting for a running refresh to finish")
		scheduler.Stop()
		return nil
	},
}
