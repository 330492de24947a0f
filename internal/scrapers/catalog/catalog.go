// Package catalog downloads the published leaderboard files, they seed the
// local copies the first time a file is refreshed.
package catalog

import (
	"context"
	"fmt"
	"leaderboard-sync/internal/components/assert"
	"leaderboard-sync/internal/components/telemetry"
	"leaderboard-sync/internal/leaderboard"
	"leaderboard-sync/internal/scrapers/fetch"
	"net/url"
	"strings"
	"time"
)

const (
	report_client_fetch_baseline = "client.fetch-baseline"
)

const DefaultBaseUrl = "https://raw.githubusercontent.com/lmarena/arena-catalog/main/data"

var DefaultFetchOptions = fetch.Options{
	Timeout:   60 * time.Second,
	Attempts:  2,
	BaseDelay: 1200 * time.Millisecond,
}

type Fetcher interface {
	Get(ctx context.Context, url string, opts fetch.Options) (string, error)
}

type ClientOptions struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl string
	// Fetch defaults to DefaultFetchOptions.
	Fetch *fetch.Options
}

// Client implements leaderboard.BaselineSource.
type Client struct {
	fetcher Fetcher
	baseUrl string
	opts    fetch.Options
	tel     telemetry.API
}

func NewClient(fetcher Fetcher, opts ClientOptions, tel telemetry.API) *Client {
	assert.NotNil(fetcher)
	assert.NotNil(tel)

	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	fetchOpts := DefaultFetchOptions
	if opts.Fetch != nil {
		fetchOpts = *opts.Fetch
	}

	return &Client{
		fetcher: fetcher,
		baseUrl: strings.TrimSuffix(baseUrl, "/"),
		opts:    fetchOpts,
		tel:     telemetry.NewScopedAPI("catalog", tel),
	}
}

func (c *Client) FetchBaseline(ctx context.Context, filename string) (leaderboard.Dataset, error) {
	link := fmt.Sprintf("%s/%s", c.baseUrl, url.PathEscape(filename))

	body, err := c.fetcher.Get(ctx, link, c.opts)
	if err != nil {
		return nil, err
	}

	dataset, err := leaderboard.DecodeDataset([]byte(body))
	if err != nil {
		c.tel.ReportBroken(report_client_fetch_baseline, err, link)
		return nil, fmt.Errorf("baseline %s: %w", filename, err)
	}
	c.tel.ReportDebug("fetched baseline", link, len(dataset))
	return dataset, nil
}
