package commands

import (
	"context"
	"fmt"
	"io"
	"leaderboard-sync/internal/components/telemetry"
	"leaderboard-sync/internal/leaderboard"
	"leaderboard-sync/internal/refresh"
	"leaderboard-sync/internal/scrapers/arena"
	"leaderboard-sync/internal/scrapers/catalog"
	"leaderboard-sync/internal/scrapers/fetch"
	"leaderboard-sync/lib/restyutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	refreshDataDir string
	refreshFormat  string
	refreshOnly    []string
)

func init() {
	refreshCmd.Flags().StringVar(&refreshDataDir, "data-dir", "data", "Output directory.")
	refreshCmd.Flags().StringVar(&refreshFormat, "format", refresh.FormatText, "Report format, text or table.")
	refreshCmd.Flags().StringSliceVar(&refreshOnly, "only", nil, "Only refresh the given leaderboard files.")
	rootCmd.AddCommand(refreshCmd)
}

var refreshCmd = &cobra.Command{
	Use:   "refresh [--data-dir <dir>]",
	Short: "Updates the leaderboard files in a directory from the live arena.ai pages.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, err := selectSpecs(refreshOnly)
		if err != nil {
			return err
		}
		return runRefresh(cmd.Context(), cfg, refreshDataDir, specs, refreshFormat, cmd.OutOrStdout(), tel)
	},
}

func checkFormat(format string) error {
	if format != refresh.FormatText && format != refresh.FormatTable {
		return fmt.Errorf("unknown format %q, expected %s or %s", format, refresh.FormatText, refresh.FormatTable)
	}
	return nil
}

// checkDumpDir refuses an http dump directory that is the data directory or
// one of its parents, the leaderboard files must never share it.
func checkDumpDir(dumpDir, dataDir string) error {
	if dumpDir == "" {
		return nil
	}
	absDump, err := filepath.Abs(dumpDir)
	if err != nil {
		return err
	}
	absData, err := filepath.Abs(dataDir)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(absDump, absData)
	if err != nil {
		// different volumes
		return nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return fmt.Errorf("http dump directory %s must not contain the data directory %s", dumpDir, dataDir)
}

func newRunner(cfg Config, dataDir string, tel telemetry.API) (refresh.Runner, error) {
	fetchOpts := fetch.ClientOptions{RequestsPerSecond: cfg.RequestsPerSecond}
	if cfg.DumpHttpDir != "" {
		dump, err := restyutil.NewDump(cfg.DumpHttpDir)
		if err != nil {
			return refresh.Runner{}, fmt.Errorf("http dump: %w", err)
		}
		fetchOpts.Dump = &dump
	}
	fetcher := fetch.NewClient(fetchOpts, tel)

	pageFetch := cfg.PageFetch.Options()
	arenaClient := arena.NewClient(fetcher, arena.ClientOptions{
		BaseUrl: cfg.ArenaBaseUrl,
		Fetch:   &pageFetch,
	}, tel)

	catalogFetch := cfg.CatalogFetch.Options()
	catalogClient := catalog.NewClient(fetcher, catalog.ClientOptions{
		BaseUrl: cfg.CatalogBaseUrl,
		Fetch:   &catalogFetch,
	}, tel)

	store := leaderboard.NewStore(leaderboard.StoreOptions{
		Dir:    dataDir,
		Atomic: cfg.AtomicWrites,
	}, tel)

	return refresh.NewRunner(store, catalogClient, refresh.NewRefresher(arenaClient, tel), tel), nil
}

// runRefresh refreshes `specs` into `dataDir` and writes the report to `out`.
// The report is written even when the run stops early.
func runRefresh(
	ctx context.Context,
	cfg Config,
	dataDir string,
	specs []leaderboard.FileSpec,
	format string,
	out io.Writer,
	tel telemetry.API,
) error {
	err := checkFormat(format)
	if err != nil {
		return err
	}
	err = checkDumpDir(cfg.DumpHttpDir, dataDir)
	if err != nil {
		return err
	}
	err = os.MkdirAll(dataDir, 0755)
	if err != nil {
		return err
	}

	runner, err := newRunner(cfg, dataDir, tel)
	if err != nil {
		return err
	}
	report, runErr := runner.Run(ctx, specs)
	err = report.Write(out, format)
	if runErr != nil {
		return runErr
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, "Done. Source: arena.ai live pages.")
	return err
}
