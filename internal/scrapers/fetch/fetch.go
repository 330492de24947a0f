// fetch.go contains the HTTP client every scraper goes through. It presents
// itself as a desktop browser and retries transport failures with a linearly
// increasing delay.

package fetch

import (
	"context"
	"errors"
	"fmt"
	"leaderboard-sync/internal/components/assert"
	"leaderboard-sync/internal/components/telemetry"
	"leaderboard-sync/lib/restyutil"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_get = "client.get"
)

const (
	UserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/145.0.0.0 Safari/537.36"
	AcceptLanguage = "en-US,en;q=0.9"
)

// ErrFetchFailed is matched by every error returned from Client.Get.
var ErrFetchFailed = errors.New("fetch failed")

// Error is returned once every attempt of a request has failed.
type Error struct {
	URL      string
	Attempts int
	// Err is the error of the last attempt.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("Request failed after %d retries: %s (%v)", e.Attempts, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrFetchFailed
}

type Options struct {
	// Timeout bounds a single attempt.
	Timeout time.Duration
	// Attempts is the total amount of attempts, values below 1 mean 1.
	Attempts int
	// BaseDelay is multiplied by the number of the attempt that just failed to
	// get the delay before the next one.
	BaseDelay time.Duration
}

type ClientOptions struct {
	// RequestsPerSecond limits the request rate, 0 means unlimited.
	RequestsPerSecond float64
	// Sleep waits between attempts, it defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// Dump receives every exchange when set.
	Dump *restyutil.Dump
}

type Client struct {
	http  *resty.Client
	sleep func(ctx context.Context, d time.Duration) error
	tel   telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) *Client {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("fetch", tel)

	httpClient := resty.New()
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	httpClient.SetHeader("User-Agent", UserAgent)
	httpClient.SetHeader("Accept-Language", AcceptLanguage)

	if opts.RequestsPerSecond > 0 {
		// burst of 1 so that requests are evenly spaced
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)
	if opts.Dump != nil {
		opts.Dump.Attach(httpClient)
	}

	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	return &Client{
		http:  httpClient,
		sleep: sleep,
		tel:   tel,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get fetches `url` and returns its body as text.
//
// Any response that arrives counts as a success, whatever its status code,
// only transport failures (connection errors, protocol errors, timeouts) are
// retried. Callers decide whether the body is usable.
func (c *Client) Get(ctx context.Context, url string, opts Options) (string, error) {
	attempts := opts.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := c.attempt(ctx, url, opts.Timeout)
		if err == nil {
			return body, nil
		}
		lastErr = err
		c.tel.ReportDebug("attempt failed", url, attempt, err)

		if attempt == attempts {
			break
		}
		err = c.sleep(ctx, opts.BaseDelay*time.Duration(attempt))
		if err != nil {
			lastErr = err
			break
		}
	}

	err := &Error{URL: url, Attempts: attempts, Err: lastErr}
	c.tel.ReportDebug(report_client_get, err)
	return "", err
}

func (c *Client) attempt(ctx context.Context, url string, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(res.Body()), ""), nil
}
