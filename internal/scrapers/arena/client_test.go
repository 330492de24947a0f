package arena

import (
	"context"
	"errors"
	"leaderboard-sync/internal/components/telemetry"
	"leaderboard-sync/internal/leaderboard"
	"leaderboard-sync/internal/scrapers/fetch"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	pages map[string]string
	err   error

	requested []string
	options   []fetch.Options
}

func (f *fakeFetcher) Get(_ context.Context, url string, opts fetch.Options) (string, error) {
	f.requested = append(f.requested, url)
	f.options = append(f.options, opts)
	if f.err != nil {
		return "", f.err
	}
	return f.pages[url], nil
}

func TestFetchCategory(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://arena.ai/leaderboard/text/coding-no-style-control": page(
			row("1", `<a title="Model A">A</a>`, "100", "1200 ± 15"),
		),
	}}
	client := NewClient(fetcher, ClientOptions{}, telemetry.NopAPI{})

	category, err := client.FetchCategory(context.Background(), "text", "coding", leaderboard.StyleControlOff)
	require.NoError(t, err)
	require.Equal(t, leaderboard.Category{"Model A": leaderboard.NewRecord(1200, 15)}, category)
	require.Equal(t, []fetch.Options{DefaultFetchOptions}, fetcher.options)
}

func TestFetchCategoryCustomOptions(t *testing.T) {
	opts := fetch.Options{Timeout: time.Second, Attempts: 1}
	fetcher := &fakeFetcher{pages: map[string]string{}}
	client := NewClient(fetcher, ClientOptions{BaseUrl: "http://localhost:8080/", Fetch: &opts}, telemetry.NopAPI{})

	require.Equal(
		t,
		"http://localhost:8080/leaderboard/vision/overall",
		client.LeaderboardURL("vision", "overall", leaderboard.StyleControlOn),
	)

	_, err := client.FetchCategory(context.Background(), "vision", "overall", leaderboard.StyleControlOn)
	require.ErrorIs(t, err, ErrMalformedResponse)
	require.Equal(t, []fetch.Options{opts}, fetcher.options)
}

func TestFetchCategoryErrors(t *testing.T) {
	const link = "https://arena.ai/leaderboard/text-to-image/overall"
	fetchErr := &fetch.Error{URL: link, Attempts: 3, Err: context.DeadlineExceeded}

	table := []struct {
		name    string
		fetcher *fakeFetcher
		target  error
		message string
	}{
		{
			name:    "fetch failure",
			fetcher: &fakeFetcher{err: fetchErr},
			target:  fetch.ErrFetchFailed,
			message: "Request failed after 3 retries: " + link + " (context deadline exceeded)",
		},
		{
			name:    "no table",
			fetcher: &fakeFetcher{pages: map[string]string{link: "<html>Too many requests</html>"}},
			target:  ErrMalformedResponse,
			message: "No table in response",
		},
		{
			name:    "empty table",
			fetcher: &fakeFetcher{pages: map[string]string{link: page()}},
			target:  ErrEmptyTable,
			message: "Parsed 0 models from leaderboard table.",
		},
		{
			name: "bad rating",
			fetcher: &fakeFetcher{pages: map[string]string{link: page(
				row("1", `<a title="A">A</a>`, "1", "-"),
			)}},
			target:  ErrNoRatingParsed,
			message: `No rating number parsed from: "-"`,
		},
	}

	for _, test := range table {
		t.Run(test.name, func(t *testing.T) {
			rec := &telemetry.Recorder{}
			client := NewClient(test.fetcher, ClientOptions{}, rec)

			category, err := client.FetchCategory(context.Background(), "text-to-image", "overall", leaderboard.StyleControlUnset)
			require.Nil(t, category)
			require.True(t, errors.Is(err, test.target))
			require.Equal(t, test.message, err.Error())
			require.Equal(t, []string{link}, test.fetcher.requested)
			// the refresher reports the skip, not the client
			require.Empty(t, rec.Reports(telemetry.KindWarning, ""))
		})
	}
}
