// client.go fetches arena.ai leaderboard pages and turns them into categories.

package arena

import (
	"context"
	"leaderboard-sync/internal/components/assert"
	"leaderboard-sync/internal/components/telemetry"
	"leaderboard-sync/internal/leaderboard"
	"leaderboard-sync/internal/scrapers/fetch"
	"strings"
	"time"
)

const (
	report_client_fetch_category = "client.fetch-category"
)

const DefaultBaseUrl = "https://arena.ai"

// DefaultFetchOptions are the limits used for leaderboard pages, they are
// slow to render server side.
var DefaultFetchOptions = fetch.Options{
	Timeout:   75 * time.Second,
	Attempts:  3,
	BaseDelay: 1200 * time.Millisecond,
}

// Fetcher is implemented by *fetch.Client.
type Fetcher interface {
	Get(ctx context.Context, url string, opts fetch.Options) (string, error)
}

type ClientOptions struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl string
	// Fetch defaults to DefaultFetchOptions.
	Fetch *fetch.Options
}

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
		tel:     telemetry.NewScopedAPI("arena", tel),
	}
}

// LeaderboardURL returns the full url of a category's leaderboard page.
func (c *Client) LeaderboardURL(modality, slug string, styleControl leaderboard.StyleControl) string {
	return c.baseUrl + LeaderboardPath(modality, slug, styleControl)
}

// FetchCategory downloads a category's leaderboard page and parses its table.
//
// The returned errors carry messages meant for the run report: a
// *fetch.Error, ErrMalformedResponse, a *NoRatingError or ErrEmptyTable.
func (c *Client) FetchCategory(ctx context.Context, modality, slug string, styleControl leaderboard.StyleControl) (leaderboard.Category, error) {
	link := c.LeaderboardURL(modality, slug, styleControl)

	page, err := c.fetcher.Get(ctx, link, c.opts)
	if err != nil {
		return nil, err
	}
	if !HasTable(page) {
		c.tel.ReportDebug(report_client_fetch_category, ErrMalformedResponse, link, len(page))
		return nil, ErrMalformedResponse
	}

	category, err := ParseLeaderboardTable(page)
	if err != nil {
		c.tel.ReportDebug(report_client_fetch_category, err, link)
		return nil, err
	}

	c.tel.ReportDebug("parsed category", link, len(category))
	return category, nil
}
