package commands

import (
	"errors"
	"fmt"
	"leaderboard-sync/internal/components/telemetry"
	"leaderboard-sync/internal/leaderboard"
	"leaderboard-sync/internal/scrapers/arena"
	"leaderboard-sync/internal/scrapers/catalog"
	"leaderboard-sync/internal/scrapers/fetch"
	"leaderboard-sync/lib/configutil"
	"os"
	"time"
)

const defaultConfigPath = "leaderboard-sync.json5"

type FetchConfig struct {
	TimeoutSeconds float64 `json:"timeout_seconds"`
	Attempts       int     `json:"attempts"`
	BaseDelayMs    int     `json:"base_delay_ms"`
}

func (c FetchConfig) Options() fetch.Options {
	return fetch.Options{
		Timeout:   time.Duration(c.TimeoutSeconds * float64(time.Second)),
		Attempts:  c.Attempts,
		BaseDelay: time.Duration(c.BaseDelayMs) * time.Millisecond,
	}
}

func fetchConfigOf(opts fetch.Options) FetchConfig {
	return FetchConfig{
		TimeoutSeconds: opts.Timeout.Seconds(),
		Attempts:       opts.Attempts,
		BaseDelayMs:    int(opts.BaseDelay.Milliseconds()),
	}
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Config is read from leaderboard-sync.json5, every field is optional.
type Config struct {
	ArenaBaseUrl      string               `json:"arena_base_url"`
	CatalogBaseUrl    string               `json:"catalog_base_url"`
	PageFetch         FetchConfig          `json:"page_fetch"`
	CatalogFetch      FetchConfig          `json:"catalog_fetch"`
	RequestsPerSecond float64              `json:"requests_per_second"`
	AtomicWrites      bool                 `json:"atomic_writes"`
	DumpHttpDir       string               `json:"dump_http_dir"`
	Log               LogConfig            `json:"log"`
	Otlp              telemetry.OtlpConfig `json:"otlp"`
}

func defaultConfig() Config {
	return Config{
		ArenaBaseUrl:   arena.DefaultBaseUrl,
		CatalogBaseUrl: catalog.DefaultBaseUrl,
		PageFetch:      fetchConfigOf(arena.DefaultFetchOptions),
		CatalogFetch:   fetchConfigOf(catalog.DefaultFetchOptions),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// loadConfig reads the config at `path`. A missing file is only an error
// when the path was given explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return defaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return configutil.WithDefaults(cfg, defaultConfig())
}

// selectSpecs returns the file specs named in `only`, or all of them.
func selectSpecs(only []string) ([]leaderboard.FileSpec, error) {
	if len(only) == 0 {
		return leaderboard.FileSpecs(), nil
	}
	specs := make([]leaderboard.FileSpec, 0, len(only))
	for _, filename := range only {
		spec, ok := leaderboard.LookupFileSpec(filename)
		if !ok {
			return nil, fmt.Errorf("unknown leaderboard file %q", filename)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
