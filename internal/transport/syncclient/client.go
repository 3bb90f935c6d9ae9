// Package syncclient invokes the pull-sync endpoint over loopback HTTP,
// the same contract external schedulers use, propagating the shared secret.
package syncclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// SecretHeader carries the shared secret on sync and webhook requests.
const SecretHeader = "X-Webhook-Secret"

// Client triggers a catalog sync via the sync endpoint.
type Client struct {
	endpoint string
	secret   string
	http     *retryablehttp.Client
}

// New creates a sync trigger client. endpoint is the absolute URL of the
// POST sync route, e.g. "http://127.0.0.1:8080/api/sync".
func New(endpoint, secret string) *Client {
	rc := retryablehttp.NewClient()
	// A sync run is not retried: re-posting a long-running full re-index on a
	// transient failure would double upstream load for no benefit.
	rc.RetryMax = 0
	rc.HTTPClient.Timeout = 3 * time.Minute
	rc.Logger = nil

	return &Client{endpoint: endpoint, secret: secret, http: rc}
}

// TriggerSync POSTs to the sync endpoint and returns the response status.
// A non-2xx status is not an error here; the caller decides how to report it.
func (c *Client) TriggerSync(ctx context.Context) (int, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set(SecretHeader, c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("trigger sync: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	return resp.StatusCode, nil
}
