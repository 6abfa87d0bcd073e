package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/thoreinstein/rustplug/internal/errors"
	"github.com/thoreinstein/rustplug/internal/logging"
)

// DefaultTimeout bounds a single fetch when the caller's context has no deadline.
const DefaultTimeout = 2 * time.Minute

// MaxBodySize caps how much of a response body is read. The rustup
// installers are well under this.
const MaxBodySize = 64 << 20

// ErrBodyTooLarge indicates the response exceeded MaxBodySize.
var ErrBodyTooLarge = errors.New("response body too large")

// Fetcher retrieves remote text. It is only used to download the rustup
// bootstrap installer.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// HTTPFetcher implements Fetcher over HTTP(S).
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPFetcher returns a fetcher with a client bounded by DefaultTimeout.
func NewHTTPFetcher(userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: DefaultTimeout},
		UserAgent: userAgent,
	}
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// FetchText implements Fetcher.
func (f *HTTPFetcher) FetchText(ctx context.Context, url string) (string, error) {
	logger := logging.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrapf(err, "building request for %s", url)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	logger.Debug("fetching", "url", url)
	resp, err := client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "fetching %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", url)
	}
	if len(body) > MaxBodySize {
		return "", errors.Wrapf(ErrBodyTooLarge, "fetching %s", url)
	}

	logger.Debug("fetched", "url", url, "bytes", len(body))
	return string(body), nil
}
