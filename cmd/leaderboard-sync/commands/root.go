package commands

import (
	"context"
	"fmt"
	"leaderboard-sync/internal/components/telemetry"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	dumpHttp   string

	cfg           = defaultConfig()
	tel           telemetry.API = telemetry.SlogAPI{}
	otelProviders telemetry.Otel
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "The json5 config file, missing is fine unless given explicitly.")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Overrides the configured log level (debug, info, warn, error).")
	rootCmd.PersistentFlags().StringVar(&dumpHttp, "dump-http", "", "Writes every http exchange to this directory, dumps of the previous run are replaced.")
}

var rootCmd = &cobra.Command{
	Use:   "leaderboard-sync",
	Short: "leaderboard-sync keeps local arena.ai leaderboard files up to date.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(configPath, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		if dumpHttp != "" {
			loaded.DumpHttpDir = dumpHttp
		}
		telemetry.InitSlog(os.Stderr, loaded.Log.Level, loaded.Log.Format)

		providers, err := telemetry.SetupOtel(cmd.Context(), "leaderboard-sync", loaded.Otlp)
		if err != nil {
			return fmt.Errorf("setup otel: %w", err)
		}

		cfg = loaded
		otelProviders = providers
		tel = telemetry.NewOtelAPI(telemetry.SlogAPI{})
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		// the command context may already be cancelled by a signal
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return otelProviders.Shutdown(ctx)
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
