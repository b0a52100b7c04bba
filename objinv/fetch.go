package objinv

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// fetchLimiter throttles outbound requests issued by FetchURL against
// remote documentation hosts.
var fetchLimiter = rate.NewLimiter(rate.Limit(5), 5)

// fetchClient is reused across calls so keep-alives and connection pooling
// behave normally under repeated FetchURL calls (e.g. from objinv convert
// processing many URLs).
var fetchClient = &http.Client{Timeout: 30 * time.Second}

// FetchURL retrieves the raw bytes at url. It is the only network
// operation the core package performs: it does not crawl pages or resolve
// links — the caller must supply a literal inventory URL.
//
// This is exported so CLI and library callers can reuse the same
// rate-limited fetch path that Inventory's URL source uses internally. A
// failed request is returned as an error; it is not retried.
func FetchURL(ctx context.Context, url string) ([]byte, error) {
	if err := fetchLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("objinv: rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("objinv: building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "objinv/1.0")

	slog.Debug("objinv: fetching inventory", "url", url)

	resp, err := fetchClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("objinv: fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("objinv: fetching %s: HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("objinv: reading response from %s: %w", url, err)
	}
	return body, nil
}
