package crawler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/leadweaver/leadweaver/internal/config"
)

// ErrTimeout means no response arrived within the configured fetch timeout.
var ErrTimeout = errors.New("fetch: request timed out")

// HTTPError reports a non-2xx response from the target site.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetch: HTTP %d %s", e.Status, http.StatusText(e.Status))
}

// NetworkError reports a DNS or connection failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch: network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Fetcher performs a single bounded-time GET per call with a fixed
// identifying user-agent. No retries at this layer; retry policy belongs
// to the caller.
type Fetcher struct {
	base      *colly.Collector
	userAgent string
	timeout   time.Duration
}

// NewFetcher creates a fetcher configured from cfg.
func NewFetcher(cfg *config.Config) *Fetcher {
	timeout := time.Duration(cfg.FetchTimeoutMs) * time.Millisecond

	c := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(timeout)

	return &Fetcher{
		base:      c,
		userAgent: cfg.UserAgent,
		timeout:   timeout,
	}
}

// Fetch returns the raw HTML of the page at url. Each call uses a clone of
// the base collector so per-request state never leaks between fetches.
func (f *Fetcher) Fetch(url string) (string, error) {
	col := f.base.Clone()
	col.UserAgent = f.userAgent
	col.SetRequestTimeout(f.timeout)

	var (
		body     []byte
		status   int
		fetchErr error
	)

	col.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	col.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	if err := col.Visit(url); err != nil {
		fetchErr = err
	}
	col.Wait()

	if fetchErr != nil {
		return "", classifyFetchError(status, fetchErr)
	}

	return string(body), nil
}

// classifyFetchError maps transport failures onto the fetch error
// taxonomy. A recorded status code means the server answered; everything
// else is a timeout or a network-level failure.
func classifyFetchError(status int, err error) error {
	if status >= 100 {
		return &HTTPError{Status: status}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	return &NetworkError{Err: err}
}
